// Package engine invokes the external transcription engine as an opaque
// collaborator. The engine is expected to produce zero or more sibling
// caption files next to the source; producing nothing is not a failure.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"log/slog"

	"subforge/internal/language"
	"subforge/internal/logging"
	"subforge/internal/services"
)

// Format is a caption output format the engine can emit.
type Format string

const (
	FormatSRT   Format = "srt"
	FormatVTT   Format = "vtt"
	FormatJSON  Format = "json"
	FormatText  Format = "txt"
	FormatWords Format = "words"
	FormatLRC   Format = "lrc"
	FormatCSV   Format = "csv"
)

var knownFormats = map[Format]string{
	FormatSRT:   ".srt",
	FormatVTT:   ".vtt",
	FormatJSON:  ".json",
	FormatText:  ".txt",
	FormatWords: ".words.json",
	FormatLRC:   ".lrc",
	FormatCSV:   ".csv",
}

// ParseFormats validates a configured format list.
func ParseFormats(values []string) ([]Format, error) {
	formats := make([]Format, 0, len(values))
	seen := make(map[Format]struct{}, len(values))
	for _, value := range values {
		format := Format(strings.ToLower(strings.TrimSpace(value)))
		if format == "" {
			continue
		}
		if _, ok := knownFormats[format]; !ok {
			return nil, fmt.Errorf("output format: unsupported value %q", value)
		}
		if _, dup := seen[format]; dup {
			continue
		}
		seen[format] = struct{}{}
		formats = append(formats, format)
	}
	return formats, nil
}

// Options enumerates every recognized engine option. The set is validated
// once at batch start; there is no dynamic option bag.
type Options struct {
	// Language is a concrete code or language.Auto.
	Language string
	// Formats are the caption formats the engine should emit.
	Formats []Format
	// WordTimestamps asks the engine for per-word timing.
	WordTimestamps bool
	// Translate asks the engine to translate the transcript to English.
	Translate bool
	// ExtraArgs are appended verbatim after the built arguments.
	ExtraArgs []string
}

// Validate checks the option set.
func (o Options) Validate() error {
	if len(o.Formats) == 0 {
		return services.Wrap(services.ErrConfiguration, "engine", "validate options", "no output formats enabled", nil)
	}
	return nil
}

// Runner runs the transcription engine for one source file.
type Runner interface {
	Transcribe(ctx context.Context, sourcePath string, opts Options) error
}

// CLIRunner shells out to a whisper-style command line engine.
type CLIRunner struct {
	binary string
	model  string
	logger *slog.Logger
}

// NewCLIRunner constructs a runner for the configured binary and model.
func NewCLIRunner(binary, model string, logger *slog.Logger) *CLIRunner {
	return &CLIRunner{
		binary: strings.TrimSpace(binary),
		model:  strings.TrimSpace(model),
		logger: logging.NewComponentLogger(logger, "engine"),
	}
}

// Check verifies the engine binary is resolvable before a batch starts.
func (r *CLIRunner) Check() error {
	if r.binary == "" {
		return services.Wrap(services.ErrConfiguration, "engine", "check", "engine binary not configured", nil)
	}
	if _, err := exec.LookPath(r.binary); err != nil {
		return services.Wrap(services.ErrConfiguration, "engine", "check",
			fmt.Sprintf("binary %q not found", r.binary), err)
	}
	return nil
}

// Transcribe runs the engine synchronously for one source file. A
// non-zero exit is an engine failure; an engine that exits cleanly but
// writes no caption files is not.
func (r *CLIRunner) Transcribe(ctx context.Context, sourcePath string, opts Options) error {
	args := buildArgs(sourcePath, r.model, opts)
	r.logger.Debug("launching engine",
		logging.String("binary", r.binary),
		logging.String("args", strings.Join(args, " ")),
	)

	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = filepath.Dir(sourcePath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			detail = lastLine(detail)
		}
		return services.Wrap(services.ErrExternalTool, "engine", "transcribe", detail, err)
	}
	return nil
}

// buildArgs assembles the statically defined engine argv. Every option
// maps to a fixed flag; nothing is synthesized at runtime.
func buildArgs(sourcePath, model string, opts Options) []string {
	args := []string{sourcePath, "--output_dir", filepath.Dir(sourcePath)}
	if model != "" {
		args = append(args, "--model", model)
	}
	if opts.Language != "" && opts.Language != language.Auto {
		args = append(args, "--language", opts.Language)
	}
	for _, format := range opts.Formats {
		args = append(args, "--output_format", string(format))
	}
	if opts.WordTimestamps {
		args = append(args, "--word_timestamps", "True")
	}
	if opts.Translate {
		args = append(args, "--task", "translate")
	}
	args = append(args, opts.ExtraArgs...)
	return args
}

// Outputs lists the caption files the engine produced for a source,
// matched by the ID-stripped base name, in deterministic order.
func Outputs(sourcePath, baseName string, formats []Format) []string {
	dir := filepath.Dir(sourcePath)
	var produced []string
	for _, format := range formats {
		candidate := filepath.Join(dir, baseName+knownFormats[format])
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			produced = append(produced, candidate)
		}
	}
	sort.Strings(produced)
	return produced
}

// Extension returns the file extension the engine uses for a format.
func Extension(format Format) string {
	return knownFormats[format]
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
