package ytdlp

import (
	"strconv"
	"strings"
)

// parseProgress recognises the percentage lines yt-dlp prints under
// --newline, e.g.
//
//	[download]  42.3% of   10.55MiB at    2.50MiB/s ETA 00:03
func parseProgress(line string) (ProgressUpdate, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "[download]") {
		return ProgressUpdate{}, false
	}
	payload := strings.TrimSpace(strings.TrimPrefix(line, "[download]"))
	fields := strings.Fields(payload)
	if len(fields) == 0 || !strings.HasSuffix(fields[0], "%") {
		return ProgressUpdate{}, false
	}
	percent, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "%"), 64)
	if err != nil {
		return ProgressUpdate{}, false
	}
	update := ProgressUpdate{Stage: "Downloading", Percent: percent}
	if len(fields) > 1 {
		update.Message = strings.Join(fields[1:], " ")
	}
	return update, true
}

// subtitleDestination extracts the target path from subtitle write
// announcements, covering both manual and automatic tracks.
func subtitleDestination(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "[info]") {
		return "", false
	}
	const marker = "subtitles to: "
	idx := strings.Index(line, marker)
	if idx < 0 {
		return "", false
	}
	path := strings.TrimSpace(line[idx+len(marker):])
	if path == "" {
		return "", false
	}
	return path, true
}

// mediaDestination extracts the output path from download, merge and
// audio-extraction announcements.
func mediaDestination(line string) (string, bool) {
	line = strings.TrimSpace(line)
	for _, prefix := range []string{"[download] Destination: ", "[ExtractAudio] Destination: "} {
		if strings.HasPrefix(line, prefix) {
			path := strings.TrimSpace(strings.TrimPrefix(line, prefix))
			return path, path != ""
		}
	}
	const mergePrefix = `[Merger] Merging formats into "`
	if strings.HasPrefix(line, mergePrefix) {
		path := strings.TrimSuffix(strings.TrimPrefix(line, mergePrefix), `"`)
		return path, path != ""
	}
	return "", false
}
