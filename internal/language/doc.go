// Package language holds the supported audio-track and subtitle language
// table and conversions between stored codes, legacy word forms, and
// display names.
//
// Preferences always store the 2-letter code; everything a legacy
// document may contain (full words, UI labels, mixed case) is funneled
// through Canonical/CanonicalTrack so the rest of the engine only ever
// sees table members or the "default" sentinel.
package language
