package config

import (
	"strings"

	"subforge/internal/engine"
	"subforge/internal/language"
	"subforge/internal/services"
)

// Validate checks the configuration once and caches the parsed option
// tables. Every downstream consumer works with already-validated values.
func (c *Config) Validate() error {
	if c.Workflow.Concurrency < 1 {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			"workflow.concurrency must be at least 1", nil)
	}
	if c.Subtitles.MinWordsPerLine < 1 {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			"subtitles.min_words_per_line must be at least 1", nil)
	}
	if c.Subtitles.MaxConsecutiveDuplicates < 1 {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			"subtitles.max_consecutive_duplicates must be at least 1", nil)
	}
	if c.Engine.Binary == "" {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			"engine.binary must be set", nil)
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json", "":
	default:
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			"logging.format must be console or json", nil)
	}

	level, err := language.ParseLevel(c.Detection.Method)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "validate detection method", "", err)
	}
	c.detectionLevel = level

	if c.Detection.DefaultLanguage != "" {
		if normalized := language.ToISO2(c.Detection.DefaultLanguage); normalized != "" {
			c.Detection.DefaultLanguage = normalized
		} else {
			return services.Wrap(services.ErrConfiguration, "config", "validate",
				"detection.default_language is not a recognized language code", nil)
		}
	}

	patterns, err := language.ParsePatterns(c.Detection.Patterns)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "validate detection patterns", "", err)
	}
	c.patterns = patterns

	formats, err := engine.ParseFormats(c.Engine.OutputFormats)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "validate engine formats", "", err)
	}
	if len(formats) == 0 {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			"engine.output_formats must enable at least one format", nil)
	}
	c.formats = formats

	return nil
}
