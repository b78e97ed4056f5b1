package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func prefsPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "preferences.json")
}

func TestConfigInitCreatesFile(t *testing.T) {
	path := prefsPath(t)

	out, err := runCLI(t, "config", "init", "-c", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote default preferences")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected preference file at %s: %v", path, err)
	}

	if _, err := runCLI(t, "config", "init", "-c", path); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, err := runCLI(t, "config", "init", "-c", path, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowRendersTable(t *testing.T) {
	path := prefsPath(t)
	out, err := runCLI(t, "config", "show", "-c", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "Quality")
	requireContains(t, out, "Best available (H.264+AAC MP4 preferred)")
	requireContains(t, out, "Loaded from "+path)
}

func TestConfigPathHonorsFlag(t *testing.T) {
	path := prefsPath(t)
	out, err := runCLI(t, "config", "path", "-c", path)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Fatalf("expected %q, got %q", path, strings.TrimSpace(out))
	}
}

func TestConfigValidateAcceptsDefaults(t *testing.T) {
	path := prefsPath(t)
	out, err := runCLI(t, "config", "validate", "-c", path)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "is valid")
}

func TestPresetsListsTables(t *testing.T) {
	out, err := runCLI(t, "presets")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	requireContains(t, out, "2160p max (4K)")
	requireContains(t, out, "Audio preset")
	requireContains(t, out, "re-encode to mp3")
	requireContains(t, out, "Track code")
}

func TestArchiveImportExportRoundTrip(t *testing.T) {
	path := prefsPath(t)
	sidecar := filepath.Join(filepath.Dir(path), "sidecar.txt")
	if err := os.WriteFile(sidecar, []byte("youtube abc123\ntwitch v99\n"), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	out, err := runCLI(t, "archive", "import", sidecar, "-c", path)
	if err != nil {
		t.Fatalf("archive import: %v", err)
	}
	requireContains(t, out, "Imported 2 new entries")

	out, err = runCLI(t, "archive", "export", "-c", path)
	if err != nil {
		t.Fatalf("archive export: %v", err)
	}
	requireContains(t, out, "youtube abc123")
	requireContains(t, out, "twitch v99")

	out, err = runCLI(t, "archive", "list", "-c", path)
	if err != nil {
		t.Fatalf("archive list: %v", err)
	}
	requireContains(t, out, "abc123")
}

func TestArchiveClearRequiresConfirmation(t *testing.T) {
	path := prefsPath(t)
	if _, err := runCLI(t, "archive", "clear", "-c", path); err == nil {
		t.Fatal("expected clear without --yes to fail")
	}
	out, err := runCLI(t, "archive", "clear", "--yes", "-c", path)
	if err != nil {
		t.Fatalf("archive clear --yes: %v", err)
	}
	requireContains(t, out, "Removed 0 entries")
}

func TestDownloadRequiresURL(t *testing.T) {
	if _, err := runCLI(t, "download"); err == nil {
		t.Fatal("expected download without URLs to fail")
	}
}

func TestRootShowsHelp(t *testing.T) {
	out, err := runCLI(t)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	requireContains(t, out, "download")
	requireContains(t, out, "presets")
}
