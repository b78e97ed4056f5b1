// Package subnames canonicalizes produced subtitle file names.
//
// The retrieval engine writes subtitles as <id>-<language>.<ext>; the
// canonical presentation form uppercases only the language tag. Renaming
// is best-effort and idempotent so duplicate completion notifications are
// harmless.
package subnames
