package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultTrack is the sentinel audio-track value meaning "keep the
// original/default track"; it never contributes a selector fragment.
const DefaultTrack = "default"

type entry struct {
	code    string   // ISO 639-1 (2-letter), as stored in preferences
	display string   // Human-readable name
	words   []string // Full word forms accepted from legacy documents
}

// Supported audio-track and subtitle languages, in presentation order.
// The stored form is always the 2-letter code.
var languages = []entry{
	{"en", "English", []string{"english"}},
	{"de", "German", []string{"german"}},
	{"hu", "Hungarian", []string{"hungarian", "magyar"}},
	{"it", "Italian", []string{"italian"}},
	{"fr", "French", []string{"french"}},
	{"es", "Spanish", []string{"spanish"}},
	{"sk", "Slovak", []string{"slovak"}},
	{"cs", "Czech", []string{"czech"}},
	{"pl", "Polish", []string{"polish"}},
}

var (
	byCode map[string]*entry
	byWord map[string]*entry
)

func init() {
	byCode = make(map[string]*entry, len(languages))
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode[e.code] = e
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// Codes returns the supported language codes in presentation order.
func Codes() []string {
	codes := make([]string, 0, len(languages))
	for i := range languages {
		codes = append(codes, languages[i].code)
	}
	return codes
}

// IsSupported reports whether code is one of the supported track languages.
func IsSupported(code string) bool {
	return lookup(code) != nil
}

// Canonical converts a supported code, a legacy English word form, or a
// UI label such as "English" to the stored 2-letter code. Returns empty
// string for unrecognized input.
func Canonical(value string) string {
	if e := lookup(value); e != nil {
		return e.code
	}
	return ""
}

// CanonicalTrack resolves an audio-track value: the sentinel passes through,
// anything unrecognized collapses to the sentinel.
func CanonicalTrack(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || v == DefaultTrack {
		return DefaultTrack
	}
	if code := Canonical(v); code != "" {
		return code
	}
	return DefaultTrack
}

// DisplayName returns a human-readable name for a language code. Codes
// outside the supported table fall back to BCP 47 parsing so values such
// as "pt-BR" still render a real name, then to the uppercased code.
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, DefaultTrack) {
		return "Default (original)"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	if tag, err := xlanguage.Parse(code); err == nil {
		if name := display.English.Languages().Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(code)
}

// NormalizeList deduplicates and canonicalizes a list of language codes,
// preserving first-seen order and dropping anything unrecognized.
func NormalizeList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		code := Canonical(value)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		normalized = append(normalized, code)
	}
	return normalized
}
