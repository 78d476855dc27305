package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"subforge/internal/engine"
	"subforge/internal/language"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	InputDir string `toml:"input_dir"`
	LogDir   string `toml:"log_dir"`
	ReportDB string `toml:"report_db"`
}

// Engine contains configuration for the external transcription engine.
type Engine struct {
	Binary         string   `toml:"binary"`
	Model          string   `toml:"model"`
	OutputFormats  []string `toml:"output_formats"`
	WordTimestamps bool     `toml:"word_timestamps"`
	Translate      bool     `toml:"translate"`
	ExtraArgs      []string `toml:"extra_args"`
}

// Subtitles contains configuration for caption post-processing.
type Subtitles struct {
	MinWordsPerLine          int `toml:"min_words_per_line"`
	MaxConsecutiveDuplicates int `toml:"max_consecutive_duplicates"`
}

// Detection contains configuration for the filename language cascade.
type Detection struct {
	Enabled         bool   `toml:"enabled"`
	DefaultLanguage string `toml:"default_language"`
	Method          string `toml:"method"`
	Patterns        string `toml:"patterns"`
}

// Workflow contains configuration for batch execution.
type Workflow struct {
	Concurrency int `toml:"concurrency"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subforge.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Engine    Engine    `toml:"engine"`
	Subtitles Subtitles `toml:"subtitles"`
	Detection Detection `toml:"detection"`
	Workflow  Workflow  `toml:"workflow"`
	Logging   Logging   `toml:"logging"`

	// Parsed once by Validate.
	detectionLevel language.Level
	patterns       []language.Pattern
	formats        []engine.Format
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/subforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and every option table parsed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("subforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.InputDir, &c.Paths.LogDir, &c.Paths.ReportDB} {
		if strings.TrimSpace(*field) == "" {
			continue
		}
		expanded, err := ExpandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	c.Engine.Binary = strings.TrimSpace(c.Engine.Binary)
	c.Engine.Model = strings.TrimSpace(c.Engine.Model)
	c.Detection.DefaultLanguage = strings.TrimSpace(c.Detection.DefaultLanguage)
	return nil
}

// EnsureDirectories creates the directories the tool writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.Paths.ReportDB != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.ReportDB))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Detector builds the language detector from the validated config.
func (c *Config) Detector() *language.Detector {
	return language.NewDetector(language.DetectorOptions{
		Enabled:         c.Detection.Enabled,
		DefaultLanguage: c.Detection.DefaultLanguage,
		Level:           c.detectionLevel,
		Patterns:        c.patterns,
	})
}

// Formats returns the validated engine output formats.
func (c *Config) Formats() []engine.Format {
	return c.formats
}

// EngineOptions builds the per-job engine option set for a detected
// language parameter.
func (c *Config) EngineOptions(languageCode string) engine.Options {
	return engine.Options{
		Language:       languageCode,
		Formats:        c.formats,
		WordTimestamps: c.Engine.WordTimestamps,
		Translate:      c.Engine.Translate,
		ExtraArgs:      append([]string{}, c.Engine.ExtraArgs...),
	}
}

// LogFile returns the log file path, or empty when file logging is off.
func (c *Config) LogFile() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "subforge.log")
}

// LockFile returns the path guarding against concurrent batch runs.
func (c *Config) LockFile() string {
	return filepath.Join(c.Paths.LogDir, "subforge.lock")
}

// ExpandPath resolves a leading tilde and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
