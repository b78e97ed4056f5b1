// Package prefs owns the persisted preference document and its schema
// migration.
//
// The document is a flat JSON file whose keys have stayed stable across
// releases; Migrate repairs anything an older build may have written
// (renamed keys, superseded preset labels, bitrate caps stored as UI
// labels, subtitle lists flattened to strings) and overlays the result on
// compiled-in defaults, so loading never fails and never loses intent.
//
// Validate is the strict counterpart used before a retrieval run: it
// surfaces operator mistakes instead of repairing them.
package prefs
