package tools

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, path string, members map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range members {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create zip member: %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("write zip member: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write zip: %v", err)
	}
}

func TestExtractFromZipPrefersBinDirectory(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bundle.zip")
	writeZip(t, zipPath, map[string]string{
		"ffmpeg-7.0/doc/ffmpeg": "doc copy",
		"ffmpeg-7.0/bin/ffmpeg": "real binary",
	})

	out := filepath.Join(dir, "ffmpeg")
	if err := extractFromZip(zipPath, "ffmpeg", out); err != nil {
		t.Fatalf("extractFromZip returned error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read extracted file: %v", err)
	}
	if string(data) != "real binary" {
		t.Fatalf("expected bin/ member, got %q", data)
	}
}

func TestExtractFromZipMatchesBaseNameOnly(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bundle.zip")
	writeZip(t, zipPath, map[string]string{
		"deno-x86_64/deno": "deno binary",
		"deno-x86_64/LICENSE.deno": "license",
	})

	out := filepath.Join(dir, "deno")
	if err := extractFromZip(zipPath, "deno", out); err != nil {
		t.Fatalf("extractFromZip returned error: %v", err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "deno binary" {
		t.Fatalf("unexpected extraction: %q", data)
	}
}

func TestExtractFromZipMissingMember(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bundle.zip")
	writeZip(t, zipPath, map[string]string{"readme.txt": "hi"})

	err := extractFromZip(zipPath, "ffmpeg", filepath.Join(dir, "out"))
	if err == nil {
		t.Fatal("expected error for missing member")
	}
}
