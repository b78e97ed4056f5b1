package ytdlp

import (
	"strconv"
	"strings"

	"vodfetch/internal/prefs"
	"vodfetch/internal/selector"
)

// subtitleTemplate names subtitle files ID-langcode so the renamer can
// later uppercase the language part.
const subtitleTemplate = "%(id)s-%(language)s.%(ext)s"

// buildArgs assembles the yt-dlp argument list for one acquisition run.
// Target URLs are appended by the caller.
func buildArgs(req Request, notBefore, ffmpegDir string) []string {
	doc := req.Prefs
	sel := doc.Selection()

	args := []string{
		"--paths", req.OutputDir,
		"--output", doc.FolderTemplate + "/" + doc.FileTemplate,
		"--output", "subtitle:" + doc.FolderTemplate + "/" + subtitleTemplate,
		"--windows-filenames",
		"--newline",
		"--ignore-errors",
		"--yes-playlist",
		"--retries", strconv.Itoa(doc.Retries),
		"--fragment-retries", strconv.Itoa(doc.FragmentRetries),
		"--concurrent-fragments", strconv.Itoa(doc.ConcurrentFragments),
	}

	if sel.AudioOnly {
		args = append(args, "--format", selector.BuildAudio(sel.AudioLabel, sel.AudioLang))
		if audio, ok := prefs.AudioByLabel(sel.AudioLabel); ok && audio.ExtractAudio {
			args = append(args,
				"--extract-audio",
				"--audio-format", audio.Codec,
				"--audio-quality", "0",
			)
		}
	} else {
		args = append(args, "--format", selector.BuildVideo(sel.MaxHeight, sel.BitrateKbps, sel.AudioLang))
		args = append(args, "--merge-output-format", selector.MergeContainer(doc.MergeOutputFormat, sel.MaxHeight))
	}

	if req.ArchiveFile != "" {
		args = append(args, "--download-archive", req.ArchiveFile)
	}
	if notBefore != "" {
		args = append(args, "--dateafter", notBefore)
	}
	if ffmpegDir != "" {
		args = append(args, "--ffmpeg-location", ffmpegDir)
	}

	if doc.Subtitles {
		langs := dedupLangs(doc.SubtitleLangs)
		args = append(args,
			"--write-subs",
			"--write-auto-subs",
			"--sub-langs", strings.Join(langs, ","),
		)
		// Spacing out requests lowers the 429 risk when several
		// subtitle tracks are fetched per video.
		if len(langs) >= 3 {
			args = append(args, "--sleep-interval", "1", "--max-sleep-interval", "3")
		}
	}

	if req.DryRun {
		args = append(args, "--simulate")
	}
	return args
}

func dedupLangs(langs []string) []string {
	seen := make(map[string]struct{}, len(langs))
	out := make([]string, 0, len(langs))
	for _, lang := range langs {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			continue
		}
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		out = append(out, lang)
	}
	return out
}
