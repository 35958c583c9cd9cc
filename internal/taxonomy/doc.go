// Package taxonomy holds the fixed set of inspection categories findings are
// filed under.
//
// A Taxonomy is built once at process start, either from the built-in
// Japanese retail categories or from a YAML file, and is passed explicitly to
// the classifier, the pipeline, and the findings store. Registration order is
// significant: the keyword classifier evaluates categories in that order and
// the findings store iterates its keys in it.
package taxonomy
