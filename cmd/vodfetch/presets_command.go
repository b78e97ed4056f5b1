package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vodfetch/internal/language"
	"vodfetch/internal/prefs"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the selectable quality, bitrate, audio and language presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			qualityRows := make([][]string, 0, len(prefs.QualityPresets))
			for _, p := range prefs.QualityPresets {
				ceiling := "unlimited"
				if p.MaxHeight > 0 {
					ceiling = strconv.Itoa(p.MaxHeight) + "p"
				}
				qualityRows = append(qualityRows, []string{p.Label, ceiling})
			}
			fmt.Fprintln(out, renderTable([]string{"Quality", "Height cap"}, qualityRows, 2))

			bitrateRows := make([][]string, 0, len(prefs.BitratePresets))
			for _, p := range prefs.BitratePresets {
				kbps := "-"
				if p.Kbps > 0 {
					kbps = strconv.Itoa(p.Kbps)
				}
				bitrateRows = append(bitrateRows, []string{p.Label, kbps})
			}
			fmt.Fprintln(out, renderTable([]string{"Bitrate cap", "kbps"}, bitrateRows, 2))

			audioRows := make([][]string, 0, len(prefs.AudioPresets))
			for _, p := range prefs.AudioPresets {
				conversion := "none"
				if p.ExtractAudio {
					conversion = "re-encode to " + p.Codec
				}
				audioRows = append(audioRows, []string{p.Label, conversion})
			}
			fmt.Fprintln(out, renderTable([]string{"Audio preset", "Conversion"}, audioRows))

			langRows := make([][]string, 0, len(language.Codes())+1)
			langRows = append(langRows, []string{language.DefaultTrack, language.DisplayName(language.DefaultTrack)})
			for _, code := range language.Codes() {
				langRows = append(langRows, []string{code, language.DisplayName(code)})
			}
			fmt.Fprintln(out, renderTable([]string{"Track code", "Language"}, langRows))

			return nil
		},
	}
}
