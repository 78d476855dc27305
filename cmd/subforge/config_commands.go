package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"subforge/internal/config"
)

func newConfigCommand(cctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(cctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file: %s\n\n", cctx.configPath)

			rows := [][]string{
				{"paths.input_dir", cfg.Paths.InputDir},
				{"paths.log_dir", cfg.Paths.LogDir},
				{"paths.report_db", cfg.Paths.ReportDB},
				{"engine.binary", cfg.Engine.Binary},
				{"engine.model", cfg.Engine.Model},
				{"engine.output_formats", strings.Join(cfg.Engine.OutputFormats, ", ")},
				{"engine.word_timestamps", fmt.Sprintf("%t", cfg.Engine.WordTimestamps)},
				{"engine.translate", fmt.Sprintf("%t", cfg.Engine.Translate)},
				{"subtitles.min_words_per_line", fmt.Sprintf("%d", cfg.Subtitles.MinWordsPerLine)},
				{"subtitles.max_consecutive_duplicates", fmt.Sprintf("%d", cfg.Subtitles.MaxConsecutiveDuplicates)},
				{"detection.enabled", fmt.Sprintf("%t", cfg.Detection.Enabled)},
				{"detection.default_language", cfg.Detection.DefaultLanguage},
				{"detection.method", cfg.Detection.Method},
				{"detection.patterns", cfg.Detection.Patterns},
				{"workflow.concurrency", fmt.Sprintf("%d", cfg.Workflow.Concurrency)},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}
}
