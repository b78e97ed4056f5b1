package prefs

import (
	"errors"
	"fmt"
	"strings"

	"vodfetch/internal/language"
)

// Validate ensures the document can drive a retrieval run. Unlike Migrate,
// which silently repairs, Validate surfaces operator mistakes (an empty
// output directory, a malformed date) synchronously.
func (d Document) Validate() error {
	if strings.TrimSpace(d.OutputDir) == "" {
		return errors.New("output directory must be set")
	}
	if _, err := ParseNotBefore(d.NotBefore); err != nil {
		return err
	}
	if _, ok := QualityByLabel(d.QualityLabel); !ok {
		return fmt.Errorf("unknown quality preset %q", d.QualityLabel)
	}
	if _, ok := AudioByLabel(d.AudioLabel); !ok {
		return fmt.Errorf("unknown audio preset %q", d.AudioLabel)
	}
	if d.AudioTrackLang != language.DefaultTrack && !language.IsSupported(d.AudioTrackLang) {
		return fmt.Errorf("unknown audio track language %q", d.AudioTrackLang)
	}
	if d.MaxVideoBitrateKbps != nil && *d.MaxVideoBitrateKbps <= 0 {
		return errors.New("max video bitrate must be positive when set")
	}
	if err := ensurePositive([]counter{
		{"concurrent_fragments", d.ConcurrentFragments},
		{"retries", d.Retries},
		{"fragment_retries", d.FragmentRetries},
	}); err != nil {
		return err
	}
	if d.Subtitles && len(d.SubtitleLangs) == 0 {
		return errors.New("subtitle languages must not be empty when subtitles are enabled")
	}
	return nil
}

type counter struct {
	name  string
	value int
}

// ensurePositive reports counters in declaration order so the same broken
// document always surfaces the same error.
func ensurePositive(counters []counter) error {
	for _, c := range counters {
		if c.value <= 0 {
			return fmt.Errorf("%s must be positive", c.name)
		}
	}
	return nil
}
