package language_test

import (
	"reflect"
	"testing"

	"vodfetch/internal/language"
)

func TestCanonicalAcceptsCodesWordsAndLabels(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"  hu ", "hu"},
		{"English", "en"},
		{"magyar", "hu"},
		{"tlh", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := language.Canonical(tc.in); got != tc.want {
			t.Fatalf("Canonical(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalTrackCollapsesUnknownToDefault(t *testing.T) {
	if got := language.CanonicalTrack("German"); got != "de" {
		t.Fatalf("expected de, got %q", got)
	}
	if got := language.CanonicalTrack("default"); got != language.DefaultTrack {
		t.Fatalf("expected sentinel, got %q", got)
	}
	if got := language.CanonicalTrack(""); got != language.DefaultTrack {
		t.Fatalf("expected sentinel for empty input, got %q", got)
	}
	if got := language.CanonicalTrack("xx"); got != language.DefaultTrack {
		t.Fatalf("expected sentinel for unknown code, got %q", got)
	}
}

func TestDisplayNameFallsBackToBCP47(t *testing.T) {
	if got := language.DisplayName("hu"); got != "Hungarian" {
		t.Fatalf("unexpected display name: %q", got)
	}
	if got := language.DisplayName("default"); got != "Default (original)" {
		t.Fatalf("unexpected sentinel display name: %q", got)
	}
	if got := language.DisplayName("pt-BR"); got == "PT-BR" || got == "" {
		t.Fatalf("expected parsed BCP 47 name for pt-BR, got %q", got)
	}
}

func TestNormalizeListDeduplicatesPreservingOrder(t *testing.T) {
	got := language.NormalizeList([]string{"hu", "EN", "hu", "bogus", "english", "cs"})
	want := []string{"hu", "en", "cs"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeList = %v, want %v", got, want)
	}
	if language.NormalizeList(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}
