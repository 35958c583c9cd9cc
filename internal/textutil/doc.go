// Package textutil provides small rune-aware string helpers shared by the
// classification pipeline and its log output.
package textutil
