// Package archive persists the set of already-retrieved item IDs in
// SQLite.
//
// The retrieval engine itself speaks a flat "extractor id" sidecar file;
// Export and ImportFile translate between that interchange format and the
// database, which remains the source of truth across runs.
package archive
