package prefs

// QualityPreset maps a human-readable quality label to a vertical
// resolution cap. MaxHeight 0 means no cap.
type QualityPreset struct {
	Label     string
	MaxHeight int
}

// QualityPresets lists the selectable quality rows in presentation order.
// The first entry is the fallback for unrecognized labels.
var QualityPresets = []QualityPreset{
	{"Best available (H.264+AAC MP4 preferred)", 0},
	{"2160p max (4K)", 2160},
	{"1440p max (2K)", 1440},
	{"1080p max", 1080},
	{"720p max", 720},
	{"480p max", 480},
}

// QualityByLabel resolves a quality label to its preset.
func QualityByLabel(label string) (QualityPreset, bool) {
	for _, p := range QualityPresets {
		if p.Label == label {
			return p, true
		}
	}
	return QualityPreset{}, false
}

// DefaultQuality returns the fallback quality preset.
func DefaultQuality() QualityPreset {
	return QualityPresets[0]
}

// BitratePreset maps a human-readable bitrate label to a cap in kbps.
// Kbps 0 means no limit.
type BitratePreset struct {
	Label string
	Kbps  int
}

// BitratePresets lists the selectable bitrate caps. YouTube does not
// provide every bitrate at every resolution, so these are upper bounds.
var BitratePresets = []BitratePreset{
	{"No limit", 0},
	{"2 Mbps", 2000},
	{"4 Mbps", 4000},
	{"6 Mbps", 6000},
	{"8 Mbps", 8000},
	{"12 Mbps", 12000},
	{"20 Mbps", 20000},
	{"40 Mbps", 40000},
}

// BitrateByLabel resolves a bitrate label to its kbps value.
func BitrateByLabel(label string) (int, bool) {
	for _, p := range BitratePresets {
		if p.Label == label {
			return p.Kbps, true
		}
	}
	return 0, false
}

// BitrateLabel returns the label for a kbps cap, falling back to the
// "No limit" entry when the value matches no preset.
func BitrateLabel(kbps int) string {
	for _, p := range BitratePresets {
		if p.Kbps == kbps {
			return p.Label
		}
	}
	return BitratePresets[0].Label
}

// AudioPreset selects between the fast lossless-container path and the
// lossy-transcode path for audio-only retrieval.
type AudioPreset struct {
	Label        string
	ExtractAudio bool
	Codec        string
}

// AudioPresets lists the audio-only modes. The first entry is the fallback.
var AudioPresets = []AudioPreset{
	{"Audio only (m4a – fast, no conversion)", false, ""},
	{"Audio only (mp3 – requires ffmpeg)", true, "mp3"},
}

// AudioByLabel resolves an audio preset label.
func AudioByLabel(label string) (AudioPreset, bool) {
	for _, p := range AudioPresets {
		if p.Label == label {
			return p, true
		}
	}
	return AudioPreset{}, false
}

// DefaultAudio returns the fallback audio preset.
func DefaultAudio() AudioPreset {
	return AudioPresets[0]
}
