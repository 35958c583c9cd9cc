// Package pipeline is the observation classification pipeline.
//
// A raw model response is decoded along one of two paths: the structured
// path, when the text embeds a {"transcript", "categorized_items"} object, or
// the fallback path, where the keyword classifier scores the raw text itself.
// Candidates from either path are deduplicated within the batch, filtered to
// taxonomy categories, and turned into timestamped records.
//
// Everything here is synchronous and free of side effects other than logging.
// The session package commits a Result to the findings store and transcript
// log.
package pipeline
