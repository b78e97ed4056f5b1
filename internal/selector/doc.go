// Package selector builds the ordered fallback format-selector expressions
// handed to the retrieval engine.
//
// A selector is a /-joined list of clauses tried in order; each clause is
// assembled from independent optional filter fragments. The clause ordering
// around the 1080-line threshold is deliberate and tuned against the
// engine's greedy clause selection; see BuildVideo.
package selector
