package language

import (
	"fmt"
	"strings"
)

// Auto is the sentinel code meaning "let the engine detect the language".
const Auto = "auto"

// Level gates how far down the cascade detection is allowed to go.
type Level int

const (
	// LevelManual runs only the pattern map.
	LevelManual Level = iota
	// LevelEnhanced adds the Unicode script heuristic.
	LevelEnhanced
	// LevelAuto adds the statistical classifier.
	LevelAuto
)

// ParseLevel parses a configured method level.
func ParseLevel(value string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "manual":
		return LevelManual, nil
	case "enhanced":
		return LevelEnhanced, nil
	case "auto", "":
		return LevelAuto, nil
	default:
		return LevelAuto, fmt.Errorf("detection method: unsupported value %q", value)
	}
}

func (l Level) String() string {
	switch l {
	case LevelManual:
		return "manual"
	case LevelEnhanced:
		return "enhanced"
	default:
		return "auto"
	}
}

// Result is the cascade's decision: a concrete code, the Auto sentinel,
// or the configured default, plus the tier that produced it.
type Result struct {
	Code string
	Tier string
}

// Detector runs the layered filename language cascade. Tiers are an
// ordered list of functions returning an optional result; the first
// non-empty result wins.
type Detector struct {
	enabled     bool
	defaultLang string
	level       Level
	patterns    []Pattern
}

// DetectorOptions configures a Detector.
type DetectorOptions struct {
	// Enabled turns the cascade on. When false every call returns the
	// configured default.
	Enabled bool
	// DefaultLanguage is the terminal answer when detection is disabled.
	DefaultLanguage string
	// Level gates tier escalation.
	Level Level
	// Patterns is the ordered literal-substring table.
	Patterns []Pattern
}

// NewDetector constructs a detector from validated options.
func NewDetector(opts DetectorOptions) *Detector {
	return &Detector{
		enabled:     opts.Enabled,
		defaultLang: strings.TrimSpace(opts.DefaultLanguage),
		level:       opts.Level,
		patterns:    opts.Patterns,
	}
}

type tier struct {
	name     string
	minLevel Level
	match    func(filename string) (string, bool)
}

func (d *Detector) tiers() []tier {
	return []tier{
		{name: "pattern", minLevel: LevelManual, match: func(f string) (string, bool) {
			return matchPatterns(d.patterns, f)
		}},
		{name: "script", minLevel: LevelEnhanced, match: matchScript},
		{name: "statistical", minLevel: LevelAuto, match: classifyPhrase},
	}
}

// Detect picks the language parameter for a filename. Misses are not
// errors: the cascade falls through to the Auto sentinel so the engine
// runs its own detection.
func (d *Detector) Detect(filename string) Result {
	if !d.enabled {
		code := d.defaultLang
		if code == "" {
			code = Auto
		}
		return Result{Code: code, Tier: "default"}
	}
	for _, t := range d.tiers() {
		if d.level < t.minLevel {
			continue
		}
		if code, ok := t.match(filename); ok {
			return Result{Code: code, Tier: t.name}
		}
	}
	return Result{Code: Auto, Tier: "engine"}
}
