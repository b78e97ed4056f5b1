package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Document is the persisted, user-editable preference set. The JSON keys
// match documents written by every earlier release; Load repairs older
// shapes through Migrate before this type is populated.
type Document struct {
	OutputDir           string   `json:"out_dir"`
	NotBefore           string   `json:"after"`
	Subtitles           bool     `json:"subs"`
	SubtitleLangs       []string `json:"subs_langs"`
	OpenFolderAfter     bool     `json:"open_folder_after"`
	QualityLabel        string   `json:"quality_label"`
	MaxVideoBitrateKbps *int     `json:"max_video_bitrate_kbps"`
	AudioTrackLang      string   `json:"audio_track_lang"`
	AudioOnly           bool     `json:"audio_only"`
	AudioLabel          string   `json:"audio_label"`
	ConcurrentFragments int      `json:"concurrent_fragments"`
	Retries             int      `json:"retries"`
	FragmentRetries     int      `json:"fragment_retries"`
	FolderTemplate      string   `json:"folder_template"`
	FileTemplate        string   `json:"file_template"`
	MergeOutputFormat   string   `json:"merge_output_format"`
}

const (
	defaultOutputDir           = "downloads"
	defaultConcurrentFragments = 4
	defaultRetries             = 10
	defaultFragmentRetries     = 10
	defaultFolderTemplate      = "%(upload_date>%Y-%m-%d)s+%(title).120B"
	defaultFileTemplate        = "%(id)s.%(ext)s"
	defaultMergeOutputFormat   = "mp4"
)

// defaultSubtitleLangs is the subtitle set applied when a document carries
// none; subtitleFallbackLang backs the invariant that an enabled subtitle
// mode never has an empty language set.
var defaultSubtitleLangs = []string{"hu", "en"}

const subtitleFallbackLang = "en"

// Default returns a Document populated with first-run defaults.
func Default() Document {
	return Document{
		OutputDir:           defaultOutputDir,
		SubtitleLangs:       append([]string(nil), defaultSubtitleLangs...),
		QualityLabel:        DefaultQuality().Label,
		AudioTrackLang:      "default",
		AudioLabel:          DefaultAudio().Label,
		ConcurrentFragments: defaultConcurrentFragments,
		Retries:             defaultRetries,
		FragmentRetries:     defaultFragmentRetries,
		FolderTemplate:      defaultFolderTemplate,
		FileTemplate:        defaultFileTemplate,
		MergeOutputFormat:   defaultMergeOutputFormat,
	}
}

// DefaultPath returns the default preferences file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vodfetch", "preferences.json"), nil
}

// Load reads and migrates the preferences document at path. A missing file
// creates the document with defaults written out immediately. A corrupt
// file never blocks startup: it degrades to defaults.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			doc := Default()
			if err := Save(path, doc); err != nil {
				return doc, err
			}
			return doc, nil
		}
		return Default(), fmt.Errorf("read preferences %q: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		// Schema repair is silent; an unreadable document must not
		// prevent the application from starting.
		return Default(), nil
	}
	return Migrate(raw), nil
}

// Save persists the document as a whole-file replace.
func Save(path string, doc Document) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create preferences directory %q: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write preferences %q: %w", path, err)
	}
	return nil
}

// Selection is the transient subset of the document consumed by the
// selector builder and runner.
type Selection struct {
	MaxHeight   int // 0 = no cap
	BitrateKbps int // 0 = no cap
	AudioLang   string
	AudioOnly   bool
	AudioLabel  string
}

// Selection derives the selector inputs from the document.
func (d Document) Selection() Selection {
	quality, ok := QualityByLabel(d.QualityLabel)
	if !ok {
		quality = DefaultQuality()
	}
	sel := Selection{
		MaxHeight: quality.MaxHeight,
		AudioLang: d.AudioTrackLang,
		AudioOnly: d.AudioOnly,
	}
	if d.MaxVideoBitrateKbps != nil && *d.MaxVideoBitrateKbps > 0 {
		sel.BitrateKbps = *d.MaxVideoBitrateKbps
	}
	if audio, ok := AudioByLabel(d.AudioLabel); ok {
		sel.AudioLabel = audio.Label
	} else {
		sel.AudioLabel = DefaultAudio().Label
	}
	return sel
}

// ResolveOutputDir expands the configured output directory relative to
// base when it is not absolute.
func (d Document) ResolveOutputDir(base string) string {
	dir := strings.TrimSpace(d.OutputDir)
	if dir == "" {
		dir = defaultOutputDir
	}
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			if dir == "~" {
				dir = home
			} else if len(dir) > 1 && (dir[1] == '/' || dir[1] == filepath.Separator) {
				dir = filepath.Join(home, dir[2:])
			}
		}
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}
