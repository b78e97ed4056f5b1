package selector

import (
	"strconv"
	"strings"

	"vodfetch/internal/language"
)

// codecThreshold is the height above which the preferred editing-friendly
// codec (H.264) is frequently unavailable on YouTube. Above it the
// resolution-first clause must precede the codec-preferred clause, or the
// engine settles for 1080p H.264 and never tries the higher resolution.
const codecThreshold = 1080

// heightFragment caps vertical resolution. Zero means no cap.
func heightFragment(maxHeight int) string {
	if maxHeight <= 0 {
		return ""
	}
	return "[height<=" + strconv.Itoa(maxHeight) + "]"
}

// bitrateFragment caps total bitrate in kbps. Non-positive values
// contribute nothing.
func bitrateFragment(kbps int) string {
	if kbps <= 0 {
		return ""
	}
	return "[tbr<=" + strconv.Itoa(kbps) + "]"
}

// languageFragment prefix-matches the audio-track language tag, so a track
// tagged "en-US" satisfies a requested "en". The "default" sentinel (or an
// empty code) defers to the engine's own original-track choice.
func languageFragment(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, language.DefaultTrack) {
		return ""
	}
	return "[language^=" + code + "]"
}

// BuildVideo composes the ordered fallback selector for video retrieval.
// Each clause is assembled from optional fragments in a fixed order
// (height, bitrate, codec, audio codec, audio language); the final clause
// is always an unfiltered-or-minimally-filtered "best available" so the
// selector never yields zero candidates.
func BuildVideo(maxHeight, maxBitrateKbps int, audioLang string) string {
	h := heightFragment(maxHeight)
	br := bitrateFragment(maxBitrateKbps)
	lang := languageFragment(audioLang)

	var clauses []string

	if maxHeight > codecThreshold {
		// 2K/4K: resolution first regardless of codec, then the
		// MP4-friendly path, then last resort.
		clauses = append(clauses,
			"bv*"+h+br+"+ba"+lang,
			"bv*"+h+br+"+ba",
			"bv*"+h+"[vcodec^=avc1]"+br+"+ba[acodec^=mp4a]"+lang,
			"bv*"+h+"[vcodec^=avc1]"+br+"+ba[acodec^=mp4a]",
			"b"+h+br,
		)
		return strings.Join(clauses, "/")
	}

	// Best / <=1080p: the MP4-friendly pairing comes first because
	// compatibility matters more than codec purity at modest resolutions.
	clauses = append(clauses,
		"bv*"+h+"[vcodec^=avc1]"+br+"+ba[acodec^=mp4a]"+lang,
		"bv*"+h+"[vcodec^=avc1]"+br+"+ba[acodec^=mp4a]",
		"bv*"+h+br+"+ba"+lang,
		"bv*"+h+br+"+ba",
		"b"+h+br,
	)
	return strings.Join(clauses, "/")
}

// BuildAudio composes the selector for audio-only retrieval. A preset key
// naming the m4a container prefers it for speed (no conversion); the
// compatibility preset accepts any best audio and leaves transcoding to a
// later stage.
func BuildAudio(presetKey, audioLang string) string {
	lang := languageFragment(audioLang)
	if strings.Contains(strings.ToLower(presetKey), "m4a") {
		if lang != "" {
			return "bestaudio[ext=m4a]" + lang + "/bestaudio" + lang + "/bestaudio[ext=m4a]/bestaudio/b"
		}
		return "bestaudio[ext=m4a]/bestaudio/b"
	}
	if lang != "" {
		return "bestaudio" + lang + "/bestaudio/b"
	}
	return "bestaudio/b"
}

// MergeContainer picks the merge container for a run. Above the codec
// threshold streams frequently arrive as VP9/AV1, where MKV is the only
// container that reliably merges arbitrary codecs.
func MergeContainer(configured string, maxHeight int) string {
	if maxHeight > codecThreshold {
		return "mkv"
	}
	if strings.TrimSpace(configured) == "" {
		return "mp4"
	}
	return configured
}
