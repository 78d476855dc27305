package subtitle

import (
	"strconv"
	"strings"
)

// DefaultMaxDuplicates is the number of consecutive repeats of a caption
// allowed after its first occurrence before further repeats are dropped.
const DefaultMaxDuplicates = 2

// Dedup collapses runs of consecutive entries with identical normalized
// text, keeping the first occurrence plus at most maxDuplicates repeats
// of it. The format is sniffed per block: a numeric first line marks an
// SRT header (ordinal + timing), anything else a one-line VTT header.
// Only consecutive repeats collapse; a repeat separated by a distinct
// entry starts a new run.
func Dedup(content string, maxDuplicates int) string {
	if maxDuplicates <= 0 {
		maxDuplicates = DefaultMaxDuplicates
	}
	separator, newline := detectSeparator(content)
	blocks := splitBlocks(content, separator)
	if len(blocks) == 0 {
		return content
	}

	kept := make([]string, 0, len(blocks))
	lastKey := ""
	haveLast := false
	repeats := 0
	for _, block := range blocks {
		text, ok := blockText(block, newline)
		if !ok {
			// Header or malformed block: pass through, leave run state alone.
			kept = append(kept, block)
			continue
		}
		key := strings.ToLower(strings.TrimSpace(text))
		if haveLast && key == lastKey {
			repeats++
			if repeats > maxDuplicates {
				continue
			}
		} else {
			lastKey = key
			haveLast = true
			repeats = 0
		}
		kept = append(kept, block)
	}
	return strings.Join(kept, separator) + newline
}

// blockText extracts the caption text of a block, skipping the
// format-specific header lines.
func blockText(block, newline string) (string, bool) {
	lines := blockLines(block, newline)
	if len(lines) < 2 {
		return "", false
	}
	headerLines := 1
	if _, err := strconv.Atoi(strings.TrimSpace(lines[0])); err == nil {
		headerLines = 2
	}
	if len(lines) <= headerLines {
		return "", true
	}
	return strings.Join(lines[headerLines:], " "), true
}
