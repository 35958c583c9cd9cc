// Package classifier is the lexical fallback used when a model response has
// no usable structured payload. Each category whose keywords appear in the
// input yields one candidate carrying the whole input text, scored by a
// ConfidencePolicy.
//
// The default policy is 0.6 + 0.1 per matched keyword and is intentionally
// left unclamped; wrap it with Clamped to bound scores at 1.0.
package classifier
