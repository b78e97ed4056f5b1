package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vodfetch/internal/archive"
	"vodfetch/internal/fileutil"
	"vodfetch/internal/prefs"
	"vodfetch/internal/tools"
	"vodfetch/internal/ytdlp"
)

const archiveSidecarName = ".ytdlp_archive.txt"

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var liveOnly bool
	var noOpen bool
	var outputDir string

	cmd := &cobra.Command{
		Use:   "download URL...",
		Short: "Download one or more URLs using the stored preferences",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			doc, prefsPath, err := ctx.ensurePrefs()
			if err != nil {
				return err
			}
			if strings.TrimSpace(outputDir) != "" {
				doc.OutputDir = outputDir
			}
			if err := doc.Validate(); err != nil {
				return fmt.Errorf("preferences: %w", err)
			}
			// Persist the normalized form so hand edits and legacy keys
			// are rewritten before the run starts.
			if err := prefs.Save(prefsPath, doc); err != nil {
				return fmt.Errorf("save preferences: %w", err)
			}

			workDir, err := os.Getwd()
			if err != nil {
				return err
			}
			outDir := doc.ResolveOutputDir(workDir)
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			stateDir, err := ctx.stateDir()
			if err != nil {
				return err
			}
			lock := flock.New(filepath.Join(stateDir, "vodfetch.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return errors.New("another vodfetch run is already in progress")
			}
			defer func() { _ = lock.Unlock() }()

			store, err := archive.Open(filepath.Join(stateDir, "archive.db"))
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			defer store.Close()

			sidecar := filepath.Join(outDir, archiveSidecarName)
			if err := exportSidecar(cmd, store, sidecar); err != nil {
				return err
			}

			binary, ffmpegDir, err := locateEngine()
			if err != nil {
				return err
			}

			runID := uuid.NewString()[:8]
			runLogger := logger.With("run", runID)

			client, err := ytdlp.New(binary, runLogger, ytdlp.WithFFmpegDir(ffmpegDir))
			if err != nil {
				return err
			}

			result, err := client.Download(cmd.Context(), ytdlp.Request{
				URLs:        args,
				Prefs:       doc,
				OutputDir:   outDir,
				ArchiveFile: sidecar,
				LiveOnly:    liveOnly,
				DryRun:      dryRun,
			}, progressPrinter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			added, importErr := store.ImportFile(cmd.Context(), sidecar)
			if importErr != nil {
				runLogger.Warn("archive import failed", "error", importErr)
			}
			runLogger.Info("run finished",
				"media", len(result.Media),
				"subtitles", len(result.Subtitles),
				"skipped", result.Skipped,
				"archived", added,
			)

			if doc.OpenFolderAfter && !noOpen && !dryRun {
				if err := fileutil.OpenFolder(outDir); err != nil {
					runLogger.Warn("open folder failed", "error", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and filter without downloading")
	cmd.Flags().BoolVar(&liveOnly, "completed-only", false, "Skip live and scheduled broadcasts")
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "Never open the output folder afterwards")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Override the configured output directory")

	return cmd
}

// exportSidecar writes the archive store into the flat sidecar format the
// engine consumes via --download-archive.
func exportSidecar(cmd *cobra.Command, store *archive.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write archive sidecar: %w", err)
	}
	defer f.Close()
	if err := store.Export(cmd.Context(), f); err != nil {
		return fmt.Errorf("export archive: %w", err)
	}
	return f.Close()
}

// locateEngine resolves the yt-dlp binary, preferring the managed tools
// directory, and reports that directory for --ffmpeg-location when it
// carries an ffmpeg build.
func locateEngine() (binary, ffmpegDir string, err error) {
	toolsDir, err := tools.DefaultDir()
	if err != nil {
		return "", "", err
	}
	statuses := tools.Check(tools.Requirements(toolsDir))
	for _, status := range statuses {
		switch status.Name {
		case "yt-dlp":
			if !status.Available {
				return "", "", errors.New("yt-dlp not found; run `vodfetch tools update` or install it on PATH")
			}
			binary = status.Command
		case "ffmpeg":
			if status.Available && filepath.Dir(status.Command) == toolsDir {
				ffmpegDir = toolsDir
			}
		}
	}
	return binary, ffmpegDir, nil
}

// progressPrinter renders in-place progress on a terminal; the structured
// log keeps quiet at this frequency.
func progressPrinter(w io.Writer) func(ytdlp.ProgressUpdate) {
	return func(u ytdlp.ProgressUpdate) {
		fmt.Fprintf(w, "\r%s %5.1f%%  %s\033[K", u.Stage, u.Percent, u.Message)
		if u.Percent >= 100 {
			fmt.Fprintln(w)
		}
	}
}
