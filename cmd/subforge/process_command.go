package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subforge/internal/config"
	"subforge/internal/fileutil"
	"subforge/internal/subtitle"
)

func newProcessCommand(cctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "process <caption-file>",
		Short: "Group and deduplicate one SRT or VTT file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			var group func(string, int) string
			switch strings.ToLower(filepath.Ext(source)) {
			case ".srt":
				group = subtitle.GroupSRT
			case ".vtt":
				group = subtitle.GroupVTT
			default:
				return fmt.Errorf("unsupported caption format %q (want .srt or .vtt)", filepath.Ext(source))
			}

			data, err := os.ReadFile(source)
			if err != nil {
				return err
			}
			content := subtitle.Dedup(
				group(string(data), cfg.Subtitles.MinWordsPerLine),
				cfg.Subtitles.MaxConsecutiveDuplicates,
			)

			target := source
			if strings.TrimSpace(outputPath) != "" {
				if target, err = config.ExpandPath(outputPath); err != nil {
					return err
				}
			}
			if err := fileutil.WriteFileAtomic(target, []byte(content), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the result here instead of in place")
	return cmd
}
