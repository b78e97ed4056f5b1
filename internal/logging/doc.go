// Package logging builds the slog loggers used across vodfetch.
//
// The console handler renders compact single-line records with ANSI level
// colors when the output is a terminal; the json format is available for
// machine consumption. Deduper adds per-run suppression of repeated
// warnings on top of any logger.
package logging
