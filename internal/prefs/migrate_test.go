package prefs_test

import (
	"reflect"
	"sync"
	"testing"

	"vodfetch/internal/prefs"
)

func TestMigrateEmptyDocumentYieldsDefaults(t *testing.T) {
	got := prefs.Migrate(nil)
	want := prefs.Default()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Migrate(nil) = %+v, want defaults %+v", got, want)
	}
}

func TestMigrateRenamesLegacyOutputTemplate(t *testing.T) {
	doc := prefs.Migrate(map[string]any{
		"output_template": "X",
		"quality_label":   "Best (H.264+AAC MP4 ajánlott)",
	})
	if doc.FileTemplate != "X" {
		t.Fatalf("file template = %q, want %q", doc.FileTemplate, "X")
	}
	if doc.QualityLabel != prefs.DefaultQuality().Label {
		t.Fatalf("quality label = %q, want %q", doc.QualityLabel, prefs.DefaultQuality().Label)
	}
}

func TestMigrateDoesNotOverwriteCurrentKeyWithLegacy(t *testing.T) {
	doc := prefs.Migrate(map[string]any{
		"output_template": "old",
		"file_template":   "new",
	})
	if doc.FileTemplate != "new" {
		t.Fatalf("file template = %q, want %q", doc.FileTemplate, "new")
	}
}

func TestMigrateRelabelsQualityPresets(t *testing.T) {
	cases := map[string]string{
		"Up to 2160p": "2160p max (4K)",
		"2160p max":   "2160p max (4K)",
		"Up to 1440p": "1440p max (2K)",
		"1080p max":   "1080p max",
		"garbage":     prefs.DefaultQuality().Label,
	}
	for legacy, want := range cases {
		doc := prefs.Migrate(map[string]any{"quality_label": legacy})
		if doc.QualityLabel != want {
			t.Fatalf("quality %q migrated to %q, want %q", legacy, doc.QualityLabel, want)
		}
	}
}

func TestMigrateRelabelsAudioPreset(t *testing.T) {
	doc := prefs.Migrate(map[string]any{
		"audio_label": "Csak hang (mp3 – ffmpeg kell)",
	})
	preset, ok := prefs.AudioByLabel(doc.AudioLabel)
	if !ok {
		t.Fatalf("migrated audio label %q is not a table member", doc.AudioLabel)
	}
	if !preset.ExtractAudio || preset.Codec != "mp3" {
		t.Fatalf("expected mp3 transcode preset, got %+v", preset)
	}
}

func TestMigrateCoercesBitrateShapes(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  int // 0 = expect nil
	}{
		{"number", float64(8000), 8000},
		{"label", "4 Mbps", 4000},
		{"numeric string", "6000", 6000},
		{"zero", float64(0), 0},
		{"negative", float64(-5), 0},
		{"garbage", "fast please", 0},
		{"null", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := prefs.Migrate(map[string]any{"max_video_bitrate_kbps": tc.value})
			if tc.want == 0 {
				if doc.MaxVideoBitrateKbps != nil {
					t.Fatalf("expected no cap, got %d", *doc.MaxVideoBitrateKbps)
				}
				return
			}
			if doc.MaxVideoBitrateKbps == nil || *doc.MaxVideoBitrateKbps != tc.want {
				t.Fatalf("bitrate = %v, want %d", doc.MaxVideoBitrateKbps, tc.want)
			}
		})
	}
}

func TestMigrateSanitizesAudioTrackLanguage(t *testing.T) {
	cases := map[string]string{
		"en":      "en",
		"English": "en",
		"  HU ":   "hu",
		"xx":      "default",
		"default": "default",
	}
	for in, want := range cases {
		doc := prefs.Migrate(map[string]any{"audio_track_lang": in})
		if doc.AudioTrackLang != want {
			t.Fatalf("audio track %q migrated to %q, want %q", in, doc.AudioTrackLang, want)
		}
	}
}

func TestMigrateNormalizesSubtitleListShapes(t *testing.T) {
	delimited := prefs.Migrate(map[string]any{"subs_langs": "hu, en"})
	if got, want := delimited.SubtitleLangs, []string{"hu", "en"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("delimited string -> %v, want %v", got, want)
	}

	mixed := prefs.Migrate(map[string]any{"subs_langs": []any{"en", "en", "bogus", "cs"}})
	if got, want := mixed.SubtitleLangs, []string{"en", "cs"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("mixed list -> %v, want %v", got, want)
	}

	wrongShape := prefs.Migrate(map[string]any{"subs_langs": float64(7)})
	if got, want := wrongShape.SubtitleLangs, prefs.Default().SubtitleLangs; !reflect.DeepEqual(got, want) {
		t.Fatalf("wrong shape -> %v, want defaults %v", got, want)
	}
}

func TestMigrateEnabledSubtitlesNeverEmpty(t *testing.T) {
	doc := prefs.Migrate(map[string]any{
		"subs":       true,
		"subs_langs": []any{},
	})
	if len(doc.SubtitleLangs) == 0 {
		t.Fatal("expected non-empty subtitle set when subtitles are enabled")
	}
}

func TestMigrateDropsUnknownKeys(t *testing.T) {
	doc := prefs.Migrate(map[string]any{
		"out_dir":            "clips",
		"some_future_toggle": true,
		"shiny_new_list":     []any{"a", "b"},
	})
	if doc.OutputDir != "clips" {
		t.Fatalf("out_dir = %q, want %q", doc.OutputDir, "clips")
	}
	if _, ok := doc.RawMap()["some_future_toggle"]; ok {
		t.Fatal("unknown key survived migration")
	}
}

func TestMigrateNormalizesDateBoundary(t *testing.T) {
	doc := prefs.Migrate(map[string]any{"after": "2024-03-05"})
	if doc.NotBefore != "20240305" {
		t.Fatalf("after = %q, want 20240305", doc.NotBefore)
	}
	bad := prefs.Migrate(map[string]any{"after": "next tuesday"})
	if bad.NotBefore != "" {
		t.Fatalf("malformed date should collapse to empty, got %q", bad.NotBefore)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	inputs := []map[string]any{
		nil,
		{"output_template": "X", "quality_label": "Up to 1440p"},
		{"subs": true, "subs_langs": []any{"bogus"}, "max_video_bitrate_kbps": "8 Mbps"},
		{"audio_track_lang": "German", "after": "2023-12-31", "concurrent_fragments": float64(-3)},
	}
	for i, raw := range inputs {
		once := prefs.Migrate(raw)
		twice := prefs.Migrate(once.RawMap())
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("case %d: migrate not idempotent:\nonce:  %+v\ntwice: %+v", i, once, twice)
		}
	}
}

func TestMigrateLeavesInputUntouched(t *testing.T) {
	raw := map[string]any{
		"output_template": "X",
		"quality_label":   "Best (H.264+AAC MP4 ajánlott)",
		"audio_label":     "Csak hang (mp3 – ffmpeg kell)",
	}
	snapshot := map[string]any{}
	for k, v := range raw {
		snapshot[k] = v
	}

	_ = prefs.Migrate(raw)

	if !reflect.DeepEqual(raw, snapshot) {
		t.Fatalf("Migrate mutated its input: %+v, want %+v", raw, snapshot)
	}
	if _, ok := raw["file_template"]; ok {
		t.Fatal("Migrate wrote a renamed key into the caller's map")
	}
}

func TestMigrateConcurrentCallsOnSharedDocument(t *testing.T) {
	raw := map[string]any{
		"output_template": "X",
		"quality_label":   "Up to 1080p",
		"subs_langs":      "hu,en",
	}
	var wg sync.WaitGroup
	results := make([]prefs.Document, 8)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = prefs.Migrate(raw)
		}()
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if !reflect.DeepEqual(results[i], results[0]) {
			t.Fatalf("result %d diverged: %+v vs %+v", i, results[i], results[0])
		}
	}
}
