package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vodfetch/internal/prefs"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Preference document utilities",
	}

	configCmd.AddCommand(newConfigInitCommand(ctx))
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigPathCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand(ctx))

	return configCmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a preference file with defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := ctx.prefsFilePath()
			if err != nil {
				return err
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("preference file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check preference path: %w", err)
				}
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := prefs.Save(target, prefs.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default preferences to %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing preference file")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, path, err := ctx.ensurePrefs()
			if err != nil {
				return err
			}
			bitrate := "no limit"
			if doc.MaxVideoBitrateKbps != nil && *doc.MaxVideoBitrateKbps > 0 {
				bitrate = prefs.BitrateLabel(*doc.MaxVideoBitrateKbps)
			}
			rows := [][]string{
				{"Output directory", doc.OutputDir},
				{"Only items after", orDash(doc.NotBefore)},
				{"Quality", doc.QualityLabel},
				{"Video bitrate cap", bitrate},
				{"Audio track language", doc.AudioTrackLang},
				{"Audio only", strconv.FormatBool(doc.AudioOnly)},
				{"Audio preset", doc.AudioLabel},
				{"Subtitles", strconv.FormatBool(doc.Subtitles)},
				{"Subtitle languages", strings.Join(doc.SubtitleLangs, ", ")},
				{"Concurrent fragments", strconv.Itoa(doc.ConcurrentFragments)},
				{"Retries", strconv.Itoa(doc.Retries)},
				{"Fragment retries", strconv.Itoa(doc.FragmentRetries)},
				{"Folder template", doc.FolderTemplate},
				{"File template", doc.FileTemplate},
				{"Merge container", doc.MergeOutputFormat},
				{"Open folder after run", strconv.FormatBool(doc.OpenFolderAfter)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows))
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded from %s\n", path)
			return nil
		},
	}
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the preference file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.prefsFilePath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the preference file for problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, path, err := ctx.ensurePrefs()
			if err != nil {
				return err
			}
			if err := doc.Validate(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
			return nil
		},
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
