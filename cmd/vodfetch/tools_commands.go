package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vodfetch/internal/tools"
)

func newToolsCommand(ctx *commandContext) *cobra.Command {
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage the external binaries the downloader shells out to",
	}

	toolsCmd.AddCommand(newToolsStatusCommand())
	toolsCmd.AddCommand(newToolsUpdateCommand(ctx))

	return toolsCmd
}

func newToolsStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report which external binaries are available",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := tools.DefaultDir()
			if err != nil {
				return err
			}
			statuses := tools.Check(tools.Requirements(dir))
			rows := make([][]string, 0, len(statuses))
			missingRequired := false
			for _, s := range statuses {
				state := "ok"
				detail := s.Command
				if !s.Available {
					state = "missing"
					detail = s.Detail
					if !s.Optional {
						missingRequired = true
					}
				}
				rows = append(rows, []string{s.Name, state, s.Description, detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Tool", "State", "Purpose", "Detail"}, rows))
			if missingRequired {
				return fmt.Errorf("required tools are missing; run `vodfetch tools update`")
			}
			return nil
		},
	}
}

func newToolsUpdateCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Download the latest yt-dlp, deno and ffmpeg builds",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			target := dir
			if target == "" {
				target, err = tools.DefaultDir()
				if err != nil {
					return err
				}
			}
			installer := tools.NewInstaller(target, logger)
			installer.Progress = cmd.ErrOrStderr()
			if err := installer.Update(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tools installed into %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Install into a custom directory")
	return cmd
}
