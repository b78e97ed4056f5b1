package tools

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

const (
	ytdlpReleaseBase = "https://github.com/yt-dlp/yt-dlp/releases/latest/download/"
	denoReleaseBase  = "https://github.com/denoland/deno/releases/latest/download/"
	ffmpegWindowsZip = "https://www.gyan.dev/ffmpeg/builds/ffmpeg-release-essentials.zip"

	userAgent = "vodfetch/1.0"
)

// Installer downloads the managed tool binaries into a single directory.
type Installer struct {
	Dir    string
	Client *http.Client
	Logger *slog.Logger

	// Progress receives the download progress bar; nil disables it.
	Progress io.Writer

	// URL overrides for tests.
	YtdlpURL  string
	DenoURL   string
	FFmpegURL string
}

// NewInstaller constructs an installer writing into dir.
func NewInstaller(dir string, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Installer{
		Dir:      dir,
		Client:   &http.Client{},
		Logger:   logger,
		Progress: os.Stderr,
	}
}

// Update fetches the latest yt-dlp, deno and ffmpeg builds. A yt-dlp
// failure aborts the run; the auxiliary tools degrade to warnings because
// downloads still work without them in most configurations.
func (i *Installer) Update(ctx context.Context) error {
	if strings.TrimSpace(i.Dir) == "" {
		return errors.New("tools directory required")
	}
	if err := os.MkdirAll(i.Dir, 0o755); err != nil {
		return fmt.Errorf("create tools directory: %w", err)
	}
	tmp, err := os.MkdirTemp(i.Dir, "update-*")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := i.updateYtdlp(ctx, tmp); err != nil {
		return err
	}
	if err := i.updateDeno(ctx, tmp); err != nil {
		i.Logger.Warn("deno update skipped", "error", err)
	}
	if err := i.updateFFmpeg(ctx, tmp); err != nil {
		i.Logger.Warn("ffmpeg update skipped", "error", err)
	}
	return nil
}

func (i *Installer) updateYtdlp(ctx context.Context, tmp string) error {
	url := i.YtdlpURL
	if url == "" {
		url = ytdlpReleaseBase + ytdlpAsset()
	}
	name := "yt-dlp" + exeSuffix()
	staged := filepath.Join(tmp, name)
	if err := i.download(ctx, url, staged, "yt-dlp"); err != nil {
		return fmt.Errorf("yt-dlp: %w", err)
	}
	return i.install(staged, name)
}

func (i *Installer) updateDeno(ctx context.Context, tmp string) error {
	asset, ok := denoAsset()
	if !ok {
		return fmt.Errorf("no deno build for %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	url := i.DenoURL
	if url == "" {
		url = denoReleaseBase + asset
	}
	archivePath := filepath.Join(tmp, "deno.zip")
	if err := i.download(ctx, url, archivePath, "deno"); err != nil {
		return err
	}
	name := "deno" + exeSuffix()
	staged := filepath.Join(tmp, name)
	if err := extractFromZip(archivePath, name, staged); err != nil {
		return err
	}
	return i.install(staged, name)
}

func (i *Installer) updateFFmpeg(ctx context.Context, tmp string) error {
	url := i.FFmpegURL
	if url == "" {
		if runtime.GOOS != "windows" {
			return errors.New("no managed ffmpeg build for this platform, install it with the system package manager")
		}
		url = ffmpegWindowsZip
	}
	archivePath := filepath.Join(tmp, "ffmpeg.zip")
	if err := i.download(ctx, url, archivePath, "ffmpeg"); err != nil {
		return err
	}
	suffix := exeSuffix()
	missing := 0
	for _, name := range []string{"ffmpeg" + suffix, "ffprobe" + suffix, "ffplay" + suffix} {
		staged := filepath.Join(tmp, name)
		if err := extractFromZip(archivePath, name, staged); err != nil {
			i.Logger.Warn("tool missing from archive", "name", name, "error", err)
			missing++
			continue
		}
		if err := i.install(staged, name); err != nil {
			return err
		}
	}
	if missing == 3 {
		return errors.New("archive contained none of the ffmpeg binaries")
	}
	return nil
}

func (i *Installer) download(ctx context.Context, url, dest, label string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	client := i.Client
	if client == nil {
		client = &http.Client{}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	if i.Progress != nil {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetDescription(label),
			progressbar.OptionSetWriter(i.Progress),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		w = io.MultiWriter(f, bar)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	i.Logger.Info("downloaded", "tool", label, "size", humanize.Bytes(uint64(n)))
	return nil
}

// install moves a staged binary into the tools directory and marks it
// executable.
func (i *Installer) install(staged, name string) error {
	dest := filepath.Join(i.Dir, name)
	if err := os.Remove(dest); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	if err := os.Rename(staged, dest); err != nil {
		return fmt.Errorf("install %s: %w", name, err)
	}
	if err := os.Chmod(dest, 0o755); err != nil {
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	i.Logger.Info("installed", "tool", name, "path", dest)
	return nil
}

// extractFromZip writes the named member to outPath. Members under a bin/
// directory win over same-named members elsewhere, shorter paths break
// ties.
func extractFromZip(zipPath, name, outPath string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	var candidates []*zip.File
	lower := strings.ToLower(name)
	for _, f := range r.File {
		base := strings.ToLower(filepath.Base(strings.ReplaceAll(f.Name, "\\", "/")))
		if base == lower {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return fmt.Errorf("member %q not found in %s", name, filepath.Base(zipPath))
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		an := strings.ToLower(strings.ReplaceAll(candidates[a].Name, "\\", "/"))
		bn := strings.ToLower(strings.ReplaceAll(candidates[b].Name, "\\", "/"))
		aBin := strings.Contains(an, "/bin/")
		bBin := strings.Contains(bn, "/bin/")
		if aBin != bBin {
			return aBin
		}
		return len(an) < len(bn)
	})

	src, err := candidates[0].Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("extract %s: %w", name, err)
	}
	return nil
}

func ytdlpAsset() string {
	switch runtime.GOOS {
	case "windows":
		return "yt-dlp.exe"
	case "darwin":
		return "yt-dlp_macos"
	default:
		return "yt-dlp"
	}
}

func denoAsset() (string, bool) {
	switch runtime.GOOS + "/" + runtime.GOARCH {
	case "windows/amd64":
		return "deno-x86_64-pc-windows-msvc.zip", true
	case "darwin/amd64":
		return "deno-x86_64-apple-darwin.zip", true
	case "darwin/arm64":
		return "deno-aarch64-apple-darwin.zip", true
	case "linux/amd64":
		return "deno-x86_64-unknown-linux-gnu.zip", true
	case "linux/arm64":
		return "deno-aarch64-unknown-linux-gnu.zip", true
	default:
		return "", false
	}
}
