package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"subforge/internal/language"
)

func newDetectCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <filename>",
		Short: "Show the language the cascade picks for a filename",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			result := cfg.Detector().Detect(filepath.Base(args[0]))
			out := cmd.OutOrStdout()
			if result.Code == language.Auto {
				fmt.Fprintf(out, "auto (tier: %s; the engine will decide)\n", result.Tier)
				return nil
			}
			fmt.Fprintf(out, "%s (%s, tier: %s)\n", result.Code, language.DisplayName(result.Code), result.Tier)
			return nil
		},
	}
}
