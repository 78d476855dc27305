package language

import (
	"fmt"
	"strings"
)

// Pattern maps a literal filename substring to a language code. Patterns
// are matched case-insensitively in insertion order; the first match
// wins.
type Pattern struct {
	Literal string
	Code    string
}

// ParsePatterns parses the serialized pattern table
// "pattern:code,pattern:code,...". Codes are normalized to ISO 639-1.
// Empty input yields an empty table.
func ParsePatterns(serialized string) ([]Pattern, error) {
	serialized = strings.TrimSpace(serialized)
	if serialized == "" {
		return nil, nil
	}
	parts := strings.Split(serialized, ",")
	patterns := make([]Pattern, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		literal, code, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("pattern entry %q: missing \":code\"", part)
		}
		literal = strings.TrimSpace(literal)
		code = strings.TrimSpace(code)
		if literal == "" || code == "" {
			return nil, fmt.Errorf("pattern entry %q: empty pattern or code", part)
		}
		normalized := ToISO2(code)
		if normalized == "" {
			return nil, fmt.Errorf("pattern entry %q: unrecognized language code %q", part, code)
		}
		patterns = append(patterns, Pattern{Literal: literal, Code: normalized})
	}
	return patterns, nil
}

// matchPatterns searches the filename for each pattern in order.
func matchPatterns(patterns []Pattern, filename string) (string, bool) {
	lowered := strings.ToLower(filename)
	for _, pattern := range patterns {
		if strings.Contains(lowered, strings.ToLower(pattern.Literal)) {
			return pattern.Code, true
		}
	}
	return "", false
}
