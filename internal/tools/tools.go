package tools

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Requirement defines an external binary the downloader relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a required binary.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// Requirements lists the binaries a download run can use. toolsDir is the
// managed installation directory; binaries found there shadow PATH.
func Requirements(toolsDir string) []Requirement {
	suffix := exeSuffix()
	return []Requirement{
		{
			Name:        "yt-dlp",
			Command:     preferLocal(toolsDir, "yt-dlp"+suffix),
			Description: "media retrieval engine",
		},
		{
			Name:        "ffmpeg",
			Command:     preferLocal(toolsDir, "ffmpeg"+suffix),
			Description: "stream merging and audio extraction",
		},
		{
			Name:        "ffprobe",
			Command:     preferLocal(toolsDir, "ffprobe"+suffix),
			Description: "media inspection",
			Optional:    true,
		},
		{
			Name:        "deno",
			Command:     preferLocal(toolsDir, "deno"+suffix),
			Description: "JS runtime for extractor challenges",
			Optional:    true,
		},
	}
}

// preferLocal returns the managed copy of a binary when one exists,
// otherwise the bare name for PATH resolution.
func preferLocal(toolsDir, name string) string {
	if toolsDir == "" {
		return name
	}
	candidate := filepath.Join(toolsDir, name)
	if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
		return candidate
	}
	return name
}

func isExecutable(info os.FileInfo) bool {
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

// Check evaluates the provided requirements and reports availability.
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: req.Description,
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// DefaultDir returns the managed tools directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "vodfetch", "tools"), nil
}
