package subnames_test

import (
	"os"
	"path/filepath"
	"testing"

	"vodfetch/internal/subnames"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("WEBVTT\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCanonicalUppercasesLanguageTagOnly(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		changed bool
	}{
		{"abc123-hu.vtt", "abc123-HU.vtt", true},
		{"abc123-HU.vtt", "abc123-HU.vtt", false},
		{"id-with-dashes-en.srt", "id-with-dashes-EN.srt", true},
		{"abc123-en-us.vtt", "abc123-en-US.vtt", true}, // last separator anchors the split
		{"noseparator.vtt", "noseparator.vtt", false},
		{"-en.vtt", "-en.vtt", false},
		{"trailing-.vtt", "trailing-.vtt", false},
		{"abc123-hu.mp4", "abc123-hu.mp4", false}, // media containers untouched
	}
	for _, tc := range cases {
		got, changed := subnames.Canonical(tc.in)
		if got != tc.want || changed != tc.changed {
			t.Fatalf("Canonical(%q) = (%q, %v), want (%q, %v)", tc.in, got, changed, tc.want, tc.changed)
		}
	}
}

func TestNormalizeRenamesSubtitle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc123-hu.vtt")
	writeFile(t, path)

	renamed, err := subnames.Normalize(path)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if renamed != filepath.Join(dir, "abc123-HU.vtt") {
		t.Fatalf("unexpected canonical path %q", renamed)
	}
	if _, err := os.Stat(renamed); err != nil {
		t.Fatalf("canonical file missing: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file after rename, found %d", len(entries))
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc123-hu.vtt")
	writeFile(t, path)

	first, err := subnames.Normalize(path)
	if err != nil {
		t.Fatalf("first Normalize: %v", err)
	}
	second, err := subnames.Normalize(first)
	if err != nil {
		t.Fatalf("second Normalize must be a no-op, got error: %v", err)
	}
	if first != second {
		t.Fatalf("idempotence violated: %q then %q", first, second)
	}
	// A duplicate notification for the old name must also be harmless.
	if _, err := subnames.Normalize(path); err != nil {
		t.Fatalf("duplicate notification for stale path errored: %v", err)
	}
}

func TestNormalizeLeavesNonMatchingShapesAlone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.vtt")
	writeFile(t, path)

	got, err := subnames.Normalize(path)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if got != path {
		t.Fatalf("non-matching shape renamed to %q", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("original file disturbed: %v", err)
	}
}

func TestNormalizeMediaFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc123-hu.mkv")
	writeFile(t, path)

	got, err := subnames.Normalize(path)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if got != path {
		t.Fatalf("media file renamed to %q", got)
	}
}
