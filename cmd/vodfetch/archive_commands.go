package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vodfetch/internal/archive"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect the set of already-downloaded items",
	}

	archiveCmd.AddCommand(newArchiveListCommand(ctx))
	archiveCmd.AddCommand(newArchiveClearCommand(ctx))
	archiveCmd.AddCommand(newArchiveExportCommand(ctx))
	archiveCmd.AddCommand(newArchiveImportCommand(ctx))

	return archiveCmd
}

func (c *commandContext) withArchive(fn func(*archive.Store) error) error {
	dir, err := c.stateDir()
	if err != nil {
		return err
	}
	store, err := archive.Open(filepath.Join(dir, "archive.db"))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newArchiveListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived item IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(func(store *archive.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Archive is empty.")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{e.Extractor, e.VideoID, e.Title, humanize.Time(e.RecordedAt)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Extractor", "ID", "Title", "Recorded"}, rows))
				return nil
			})
		},
	}
}

func newArchiveClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget every archived item so they can be downloaded again",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the archive without --yes")
			}
			return ctx.withArchive(func(store *archive.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries.\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm clearing the archive")
	return cmd
}

func newArchiveExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write the archive in the engine's sidecar format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(func(store *archive.Store) error {
				if len(args) == 0 {
					return store.Export(cmd.Context(), cmd.OutOrStdout())
				}
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				if err := store.Export(cmd.Context(), f); err != nil {
					return err
				}
				return f.Close()
			})
		},
	}
}

func newArchiveImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Merge a sidecar archive file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(func(store *archive.Store) error {
				added, err := store.ImportFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new entries.\n", added)
				return nil
			})
		},
	}
}
