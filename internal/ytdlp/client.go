package ytdlp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"vodfetch/internal/logging"
	"vodfetch/internal/matchfilter"
	"vodfetch/internal/prefs"
	"vodfetch/internal/subnames"
)

// ProgressUpdate captures yt-dlp download progress output.
type ProgressUpdate struct {
	Stage   string
	Percent float64
	Message string
}

// Executor abstracts command execution for testability. Implementations
// must not invoke onStdout from more than one goroutine at a time; callers
// rely on that to collect results without their own locking.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithFFmpegDir points yt-dlp at a bundled ffmpeg instead of whatever is
// on PATH.
func WithFFmpegDir(dir string) Option {
	return func(c *Client) {
		c.ffmpegDir = strings.TrimSpace(dir)
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary    string
	ffmpegDir string
	logger    *slog.Logger
	exec      Executor
}

// New constructs a yt-dlp client.
func New(binary string, logger *slog.Logger, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	client := &Client{
		binary: binary,
		logger: logger,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Request describes one acquisition run.
type Request struct {
	URLs        []string
	Prefs       prefs.Document
	OutputDir   string
	ArchiveFile string
	LiveOnly    bool
	DryRun      bool
}

// Result summarises what an acquisition run produced.
type Result struct {
	Media     []string
	Subtitles []string
	Skipped   int
}

// Download pre-scans every URL, filters the candidates, and hands the
// surviving items to yt-dlp in a single invocation. Subtitle files named
// by the run are normalised to the ID-LANG form afterwards.
func (c *Client) Download(ctx context.Context, req Request, progress func(ProgressUpdate)) (Result, error) {
	var result Result
	if len(req.URLs) == 0 {
		return result, errors.New("no URLs to download")
	}
	if strings.TrimSpace(req.OutputDir) == "" {
		return result, errors.New("output directory required")
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("create output directory: %w", err)
	}

	notBefore, err := prefs.ParseNotBefore(req.Prefs.NotBefore)
	if err != nil {
		return result, err
	}
	filter := matchfilter.New(notBefore, req.LiveOnly)

	targets, skipped := c.selectTargets(ctx, req.URLs, filter)
	result.Skipped = skipped
	if len(targets) == 0 {
		c.logger.Info("nothing to download", "urls", len(req.URLs), "skipped", skipped)
		return result, nil
	}

	args := buildArgs(req, notBefore, c.ffmpegDir)
	args = append(args, targets...)

	var subtitlePaths []string
	onLine := func(line string) {
		if update, ok := parseProgress(line); ok {
			if progress != nil {
				progress(update)
			}
			return
		}
		if path, ok := subtitleDestination(line); ok {
			subtitlePaths = append(subtitlePaths, path)
			return
		}
		if path, ok := mediaDestination(line); ok {
			result.Media = append(result.Media, path)
			c.logger.Info("writing media", "path", path)
		}
	}

	if err := c.exec.Run(ctx, c.binary, args, onLine); err != nil {
		return result, fmt.Errorf("yt-dlp: %w", err)
	}

	for _, path := range subtitlePaths {
		canonical, err := subnames.Normalize(path)
		if err != nil {
			c.logger.Warn("subtitle rename failed", "path", path, "error", err)
			continue
		}
		result.Subtitles = append(result.Subtitles, canonical)
	}
	return result, nil
}

// selectTargets expands each URL into candidates and keeps the ones the
// filter accepts. A URL whose pre-scan fails is passed through untouched
// so the engine itself can report the failure.
func (c *Client) selectTargets(ctx context.Context, urls []string, filter matchfilter.Func) ([]string, int) {
	dedup := logging.NewDeduper(c.logger)
	var targets []string
	skipped := 0
	for _, url := range urls {
		candidates, err := c.List(ctx, url)
		if err != nil || len(candidates) == 0 {
			if err != nil {
				c.logger.Warn("pre-scan failed, downloading without filter", "url", url, "error", err)
			}
			targets = append(targets, url)
			continue
		}
		for _, cand := range candidates {
			if reason, skip := filter(cand.Candidate); skip {
				dedup.Warn("skipping candidate", "id", cand.ID, "reason", reason)
				skipped++
				continue
			}
			if cand.URL != "" {
				targets = append(targets, cand.URL)
			} else {
				targets = append(targets, cand.ID)
			}
		}
	}
	return targets, skipped
}

// listFormat prints one candidate per line. Tab separation survives every
// title yt-dlp emits in practice; missing fields print as NA.
const listFormat = "%(id)s\t%(title)s\t%(upload_date)s\t%(live_status)s\t%(webpage_url)s"

// ListedCandidate pairs filter metadata with the URL to fetch it by.
type ListedCandidate struct {
	matchfilter.Candidate
	URL string
}

// List enumerates the downloadable items behind a URL without fetching
// any media.
func (c *Client) List(ctx context.Context, url string) ([]ListedCandidate, error) {
	args := []string{"--print", listFormat, "--no-warnings", "--ignore-errors", url}
	var candidates []ListedCandidate
	err := c.exec.Run(ctx, c.binary, args, func(line string) {
		cand, ok := parseCandidate(line)
		if !ok {
			return
		}
		candidates = append(candidates, cand)
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", url, err)
	}
	return candidates, nil
}

func parseCandidate(line string) (ListedCandidate, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) != 5 {
		return ListedCandidate{}, false
	}
	field := func(i int) string {
		v := strings.TrimSpace(parts[i])
		if v == "NA" {
			return ""
		}
		return v
	}
	cand := ListedCandidate{
		Candidate: matchfilter.Candidate{
			ID:         field(0),
			Title:      field(1),
			UploadDate: field(2),
			LiveStatus: field(3),
		},
		URL: field(4),
	}
	if cand.ID == "" {
		return ListedCandidate{}, false
	}
	return cand, true
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	// Both pipes funnel through forward; the mutex keeps the onStdout
	// contract when stdout and stderr produce lines at the same time.
	var mu sync.Mutex
	forward := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		if onStdout != nil {
			onStdout(line)
			return
		}
		fmt.Fprintln(os.Stderr, line)
	}

	wg.Add(2)
	go scan(stdout, forward)
	go scan(stderr, forward)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
