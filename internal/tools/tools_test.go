package tools_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"vodfetch/internal/logging"
	"vodfetch/internal/tools"
)

func TestCheckReportsMissingBinary(t *testing.T) {
	statuses := tools.Check([]tools.Requirement{
		{Name: "yt-dlp", Command: "definitely-not-installed-anywhere-xyz"},
	})
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("expected binary to be unavailable")
	}
	if !strings.Contains(statuses[0].Detail, "not found") {
		t.Fatalf("unexpected detail: %q", statuses[0].Detail)
	}
}

func TestCheckEmptyCommand(t *testing.T) {
	statuses := tools.Check([]tools.Requirement{{Name: "ffmpeg"}})
	if statuses[0].Available || statuses[0].Detail != "command not configured" {
		t.Fatalf("unexpected status: %+v", statuses[0])
	}
}

func TestRequirementsPreferManagedCopies(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not meaningful on windows")
	}
	dir := t.TempDir()
	managed := filepath.Join(dir, "yt-dlp")
	if err := os.WriteFile(managed, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write managed binary: %v", err)
	}

	reqs := tools.Requirements(dir)
	if reqs[0].Name != "yt-dlp" || reqs[0].Command != managed {
		t.Fatalf("expected managed yt-dlp path, got %+v", reqs[0])
	}
	// ffmpeg has no managed copy, so the bare name falls through to PATH.
	if reqs[1].Command != "ffmpeg" {
		t.Fatalf("expected bare ffmpeg command, got %q", reqs[1].Command)
	}
}

func zipBytes(t *testing.T, members map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range members {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create member: %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("write member: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestInstallerUpdateInstallsTools(t *testing.T) {
	denoZip := zipBytes(t, map[string]string{"deno": "deno binary"})
	ffmpegZip := zipBytes(t, map[string]string{
		"ffmpeg-7.0/bin/ffmpeg":  "ffmpeg binary",
		"ffmpeg-7.0/bin/ffprobe": "ffprobe binary",
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/ytdlp"):
			_, _ = w.Write([]byte("yt-dlp binary"))
		case strings.HasPrefix(r.URL.Path, "/deno"):
			_, _ = w.Write(denoZip)
		case strings.HasPrefix(r.URL.Path, "/ffmpeg"):
			_, _ = w.Write(ffmpegZip)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	logger, err := logging.New(logging.Options{Level: "error", Output: os.Stderr})
	if err != nil {
		t.Fatalf("logging.New returned error: %v", err)
	}
	installer := tools.NewInstaller(dir, logger)
	installer.Progress = nil
	installer.YtdlpURL = srv.URL + "/ytdlp"
	installer.DenoURL = srv.URL + "/deno.zip"
	installer.FFmpegURL = srv.URL + "/ffmpeg.zip"

	if err := installer.Update(context.Background()); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	for name, want := range map[string]string{
		"yt-dlp":  "yt-dlp binary",
		"deno":    "deno binary",
		"ffmpeg":  "ffmpeg binary",
		"ffprobe": "ffprobe binary",
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("expected %s installed: %v", name, err)
		}
		if string(data) != want {
			t.Fatalf("%s content = %q, want %q", name, data, want)
		}
	}
	// Staging directories are removed after the run.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read tools dir: %v", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			t.Fatalf("leftover staging directory %q", e.Name())
		}
	}
}

func TestInstallerUpdateFailsWhenEngineDownloadFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	logger, _ := logging.New(logging.Options{Level: "error", Output: os.Stderr})
	installer := tools.NewInstaller(t.TempDir(), logger)
	installer.Progress = nil
	installer.YtdlpURL = srv.URL + "/ytdlp"

	err := installer.Update(context.Background())
	if err == nil || !strings.Contains(err.Error(), "yt-dlp") {
		t.Fatalf("expected yt-dlp download failure, got %v", err)
	}
}

func TestInstallerRequiresDirectory(t *testing.T) {
	installer := tools.NewInstaller("", nil)
	if err := installer.Update(context.Background()); err == nil {
		t.Fatal("expected error for empty directory")
	}
}
