package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"subforge/internal/config"
	"subforge/internal/engine"
	"subforge/internal/logging"
	"subforge/internal/postprocess"
	"subforge/internal/report"
	"subforge/internal/scheduler"
	"subforge/internal/services"
)

// mediaExtensions are the source file types a batch run picks up.
var mediaExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".webm": true, ".m4v": true, ".mpg": true, ".mpeg": true,
	".mp3": true, ".m4a": true, ".wav": true, ".flac": true,
	".ogg": true, ".opus": true,
}

func newRunCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run [dir]",
		Short: "Transcribe every media file in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			inputDir := cfg.Paths.InputDir
			if len(args) == 1 {
				inputDir, err = config.ExpandPath(args[0])
				if err != nil {
					return err
				}
			}
			if strings.TrimSpace(inputDir) == "" {
				return fmt.Errorf("no input directory: pass one as an argument or set paths.input_dir")
			}
			return runBatch(cmd, cctx, cfg, inputDir)
		},
	}
}

func runBatch(cmd *cobra.Command, cctx *commandContext, cfg *config.Config, inputDir string) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	logger, err := cctx.newLogger(cfg, true)
	if err != nil {
		return err
	}

	lock := flock.New(cfg.LockFile())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire batch lock: %w", err)
	}
	if !locked {
		return services.Wrap(services.ErrTransient, "run", "lock",
			fmt.Sprintf("another batch is already running (lock %s)", cfg.LockFile()), nil)
	}
	defer lock.Unlock()

	sources, err := enumerateMedia(inputDir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(sources) == 0 {
		fmt.Fprintf(out, "No media files found in %s\n", inputDir)
		return nil
	}

	runner := engine.NewCLIRunner(cfg.Engine.Binary, cfg.Engine.Model, logger)
	if err := runner.Check(); err != nil {
		return err
	}

	store, err := report.Open(cfg.Paths.ReportDB)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	runID := uuid.NewString()
	if err := store.StartRun(ctx, runID, inputDir, len(sources)); err != nil {
		logger.Warn("history not recorded", logging.Error(err))
	}

	sched := scheduler.New(scheduler.Options{
		RunID:         runID,
		Runner:        runner,
		Detector:      cfg.Detector(),
		PostProcessor: postprocess.New(cfg.Subtitles.MinWordsPerLine, cfg.Subtitles.MaxConsecutiveDuplicates, cfg.Formats(), logger),
		EngineOptions: cfg.EngineOptions,
		Concurrency:   cfg.Workflow.Concurrency,
		Logger:        logger,
		OnJobDone: func(ctx context.Context, job scheduler.Job) {
			record := report.Job{
				ID:         job.ID,
				RunID:      runID,
				SourcePath: job.SourcePath,
				Status:     string(job.Status),
				Language:   job.Language,
				Duration:   job.Duration,
				FinishedAt: time.Now().UTC(),
			}
			if job.Err != nil {
				record.Error = job.Err.Error()
			}
			if err := store.RecordJob(ctx, record); err != nil {
				logger.Warn("history not recorded", logging.Error(err))
			}
		},
	})
	sched.SubmitBatch(sources)

	logger.Info("batch started",
		logging.String(logging.FieldRunID, runID),
		logging.String("input_dir", inputDir),
		logging.Int("total", len(sources)),
	)

	summary, runErr := sched.Run(ctx)
	progress := sched.Progress()
	if err := store.FinishRun(context.Background(), runID, progress.Completed, summary.Succeeded, summary.Failed); err != nil {
		logger.Warn("history not recorded", logging.Error(err))
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(out, renderJobTable(summary.Jobs))
	fmt.Fprintf(out, "Completed %d/%d (%d succeeded, %d failed)\n",
		progress.Completed, summary.Total, summary.Succeeded, summary.Failed)
	return nil
}

// enumerateMedia lists media files directly inside dir, sorted by name.
// Failure here is fatal for the batch.
func enumerateMedia(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "run", "enumerate",
				fmt.Sprintf("input directory %s", dir), err)
		}
		return nil, fmt.Errorf("list input directory: %w", err)
	}
	var sources []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if mediaExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			sources = append(sources, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(sources)
	return sources, nil
}

func renderJobTable(jobs []scheduler.Job) string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		detail := ""
		if job.Err != nil {
			detail = job.Err.Error()
		}
		rows = append(rows, []string{
			filepath.Base(job.SourcePath),
			job.Language,
			string(job.Status),
			job.Duration.Round(time.Second).String(),
			detail,
		})
	}
	return renderTable(
		[]string{"Source", "Lang", "Status", "Duration", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}
