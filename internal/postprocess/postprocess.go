// Package postprocess runs the caption pipeline over a completed job's
// artifacts: fragment grouping, duplicate removal, and the video-ID
// rename pass. Failures here are advisory and never change a job's
// transcription outcome.
package postprocess

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"subforge/internal/engine"
	"subforge/internal/fileutil"
	"subforge/internal/logging"
	"subforge/internal/subtitle"
	"subforge/internal/videoid"
)

// Processor applies the post-processing pipeline for one source file.
type Processor struct {
	minWords      int
	maxDuplicates int
	formats       []engine.Format
	logger        *slog.Logger
}

// New constructs a processor with the configured thresholds.
func New(minWords, maxDuplicates int, formats []engine.Format, logger *slog.Logger) *Processor {
	return &Processor{
		minWords:      minWords,
		maxDuplicates: maxDuplicates,
		formats:       formats,
		logger:        logging.NewComponentLogger(logger, "postprocess"),
	}
}

// Apply rewrites every caption file the engine produced for sourcePath,
// then renames sibling artifacts to carry the source's embedded video
// ID. Per-file errors are logged and joined; callers treat them as
// advisory and never flip a job's status on them.
func (p *Processor) Apply(ctx context.Context, sourcePath string) error {
	identity := videoid.Extract(sourcePath)
	dir := filepath.Dir(sourcePath)

	var errs []error
	for _, path := range engine.Outputs(sourcePath, identity.BaseName, p.formats) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.rewrite(path); err != nil {
			p.logger.Warn("caption post-processing failed",
				logging.String("caption", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "raw engine output left in place"),
			)
			errs = append(errs, err)
		}
	}

	if _, err := videoid.RenameArtifacts(dir, identity, p.logger); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// rewrite groups then dedups a single caption file in place. Formats
// without caption semantics (json, txt, ...) are left untouched.
func (p *Processor) rewrite(path string) error {
	var group func(string, int) string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		group = subtitle.GroupSRT
	case ".vtt":
		group = subtitle.GroupVTT
	default:
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	content := subtitle.Dedup(group(string(data), p.minWords), p.maxDuplicates)
	return fileutil.WriteFileAtomic(path, []byte(content), 0o644)
}
