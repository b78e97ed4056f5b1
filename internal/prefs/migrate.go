package prefs

import (
	"maps"
	"math"
	"strings"

	"vodfetch/internal/language"
)

// Key-rename rules: legacy key -> current key. The legacy value is only
// copied when the current key is absent.
var legacyKeyRenames = map[string]string{
	"output_template": "file_template",
}

// Value-relabeling rules for the quality preset, covering every label any
// released build has written (including the pre-localization Hungarian
// ones).
var legacyQualityLabels = map[string]string{
	"Best (H.264+AAC MP4 recommended)": "Best available (H.264+AAC MP4 preferred)",
	"Best (H.264+AAC MP4 ajánlott)":    "Best available (H.264+AAC MP4 preferred)",
	"Up to 2160p":                      "2160p max (4K)",
	"2160p max":                        "2160p max (4K)",
	"Up to 1440p":                      "1440p max (2K)",
	"1440p max":                        "1440p max (2K)",
	"Up to 1080p":                      "1080p max",
	"Up to 720p":                       "720p max",
	"Up to 480p":                       "480p max",
}

var legacyAudioLabels = map[string]string{
	"Csak hang (m4a – gyors, konverzió nélkül)": "Audio only (m4a – fast, no conversion)",
	"Csak hang (mp3 – ffmpeg kell)":             "Audio only (mp3 – requires ffmpeg)",
}

// Migrate repairs a raw preferences document from any historical schema
// into the current one. It is total: malformed input degrades to defaults
// field by field, never to an error. Migrating an already-current document
// is a no-op. The input map is never written to, so the same document can
// be migrated from any number of goroutines.
func Migrate(raw map[string]any) Document {
	doc := Default()
	if len(raw) == 0 {
		return doc
	}

	work := maps.Clone(raw)
	renameLegacyKeys(work)
	relabelPresets(work)

	overlayStrings(&doc, work)
	overlayBools(&doc, work)
	overlayCounters(&doc, work)
	overlayBitrate(&doc, work)
	overlaySubtitleLangs(&doc, work)

	normalize(&doc)
	return doc
}

func renameLegacyKeys(raw map[string]any) {
	for legacy, current := range legacyKeyRenames {
		if _, exists := raw[current]; exists {
			continue
		}
		if value, ok := raw[legacy]; ok {
			raw[current] = value
		}
	}
}

func relabelPresets(raw map[string]any) {
	if label, ok := raw["quality_label"].(string); ok {
		if current, found := legacyQualityLabels[label]; found {
			raw["quality_label"] = current
		}
	}
	if label, ok := raw["audio_label"].(string); ok {
		if current, found := legacyAudioLabels[label]; found {
			raw["audio_label"] = current
		}
	}
}

func overlayStrings(doc *Document, raw map[string]any) {
	if v, ok := stringValue(raw, "out_dir"); ok && strings.TrimSpace(v) != "" {
		doc.OutputDir = v
	}
	if v, ok := stringValue(raw, "after"); ok {
		if normalized, err := ParseNotBefore(v); err == nil {
			doc.NotBefore = normalized
		}
	}
	if v, ok := stringValue(raw, "quality_label"); ok {
		if _, valid := QualityByLabel(v); valid {
			doc.QualityLabel = v
		}
	}
	if v, ok := stringValue(raw, "audio_label"); ok {
		if _, valid := AudioByLabel(v); valid {
			doc.AudioLabel = v
		}
	}
	if v, ok := stringValue(raw, "audio_track_lang"); ok {
		doc.AudioTrackLang = language.CanonicalTrack(v)
	}
	if v, ok := stringValue(raw, "folder_template"); ok && strings.TrimSpace(v) != "" {
		doc.FolderTemplate = v
	}
	if v, ok := stringValue(raw, "file_template"); ok && strings.TrimSpace(v) != "" {
		doc.FileTemplate = v
	}
	if v, ok := stringValue(raw, "merge_output_format"); ok && strings.TrimSpace(v) != "" {
		doc.MergeOutputFormat = strings.ToLower(strings.TrimSpace(v))
	}
}

func overlayBools(doc *Document, raw map[string]any) {
	if v, ok := raw["subs"].(bool); ok {
		doc.Subtitles = v
	}
	if v, ok := raw["open_folder_after"].(bool); ok {
		doc.OpenFolderAfter = v
	}
	if v, ok := raw["audio_only"].(bool); ok {
		doc.AudioOnly = v
	}
}

func overlayCounters(doc *Document, raw map[string]any) {
	if v, ok := intValue(raw, "concurrent_fragments"); ok && v > 0 {
		doc.ConcurrentFragments = v
	}
	if v, ok := intValue(raw, "retries"); ok && v > 0 {
		doc.Retries = v
	}
	if v, ok := intValue(raw, "fragment_retries"); ok && v > 0 {
		doc.FragmentRetries = v
	}
}

// overlayBitrate resolves the bitrate cap whether it arrives as a number,
// a numeric string, or a UI label such as "4 Mbps". Anything out of range
// or unparsable collapses to "no cap".
func overlayBitrate(doc *Document, raw map[string]any) {
	value, present := raw["max_video_bitrate_kbps"]
	if !present || value == nil {
		return
	}
	if label, ok := value.(string); ok {
		label = strings.TrimSpace(label)
		if kbps, found := BitrateByLabel(label); found {
			if kbps > 0 {
				doc.MaxVideoBitrateKbps = &kbps
			}
			return
		}
		value = label
	}
	if kbps, ok := anyToInt(value); ok && kbps > 0 {
		doc.MaxVideoBitrateKbps = &kbps
	}
}

// overlaySubtitleLangs converts whatever shape the field arrives in (list,
// delimited string, missing) into a clean ordered set.
func overlaySubtitleLangs(doc *Document, raw map[string]any) {
	value, present := raw["subs_langs"]
	if !present {
		return
	}
	var candidates []string
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				candidates = append(candidates, s)
			}
		}
	case []string:
		candidates = v
	case string:
		candidates = strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ';' || r == ' '
		})
	default:
		return
	}
	if normalized := language.NormalizeList(candidates); len(normalized) > 0 {
		doc.SubtitleLangs = normalized
	} else {
		doc.SubtitleLangs = append([]string(nil), defaultSubtitleLangs...)
	}
}

// normalize enforces the cross-field invariants after the overlay.
func normalize(doc *Document) {
	if len(doc.SubtitleLangs) == 0 {
		if doc.Subtitles {
			doc.SubtitleLangs = []string{subtitleFallbackLang}
		} else {
			doc.SubtitleLangs = append([]string(nil), defaultSubtitleLangs...)
		}
	}
	if _, ok := QualityByLabel(doc.QualityLabel); !ok {
		doc.QualityLabel = DefaultQuality().Label
	}
	if _, ok := AudioByLabel(doc.AudioLabel); !ok {
		doc.AudioLabel = DefaultAudio().Label
	}
	doc.AudioTrackLang = language.CanonicalTrack(doc.AudioTrackLang)
}

// RawMap re-encodes the document into the untyped shape Migrate consumes.
// Useful for verifying migration idempotence.
func (d Document) RawMap() map[string]any {
	raw := map[string]any{
		"out_dir":              d.OutputDir,
		"after":                d.NotBefore,
		"subs":                 d.Subtitles,
		"open_folder_after":    d.OpenFolderAfter,
		"quality_label":        d.QualityLabel,
		"audio_track_lang":     d.AudioTrackLang,
		"audio_only":           d.AudioOnly,
		"audio_label":          d.AudioLabel,
		"concurrent_fragments": float64(d.ConcurrentFragments),
		"retries":              float64(d.Retries),
		"fragment_retries":     float64(d.FragmentRetries),
		"folder_template":      d.FolderTemplate,
		"file_template":        d.FileTemplate,
		"merge_output_format":  d.MergeOutputFormat,
	}
	langs := make([]any, 0, len(d.SubtitleLangs))
	for _, code := range d.SubtitleLangs {
		langs = append(langs, code)
	}
	raw["subs_langs"] = langs
	if d.MaxVideoBitrateKbps != nil {
		raw["max_video_bitrate_kbps"] = float64(*d.MaxVideoBitrateKbps)
	} else {
		raw["max_video_bitrate_kbps"] = nil
	}
	return raw
}

func stringValue(raw map[string]any, key string) (string, bool) {
	v, ok := raw[key].(string)
	return v, ok
}

func intValue(raw map[string]any, key string) (int, bool) {
	value, ok := raw[key]
	if !ok {
		return 0, false
	}
	return anyToInt(value)
}

// anyToInt accepts the numeric shapes a JSON document can carry.
func anyToInt(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		n := 0
		for _, r := range trimmed {
			if r < '0' || r > '9' {
				return 0, false
			}
			n = n*10 + int(r-'0')
		}
		return n, true
	default:
		return 0, false
	}
}
