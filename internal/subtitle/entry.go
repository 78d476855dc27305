package subtitle

import (
	"strconv"
	"strings"
)

// Entry is one timed caption. Ordinal is only meaningful for SRT output
// and is reassigned during serialization.
type Entry struct {
	Ordinal int
	Timing  string
	Text    string
}

const (
	separatorCRLF = "\r\n\r\n"
	separatorLF   = "\n\n"
)

// detectSeparator reports the entry separator and line break used by a
// caption file. CRLF files keep CRLF on output.
func detectSeparator(content string) (separator, newline string) {
	if strings.Contains(content, separatorCRLF) {
		return separatorCRLF, "\r\n"
	}
	return separatorLF, "\n"
}

func splitBlocks(content, separator string) []string {
	trimmed := strings.TrimRight(content, "\r\n ")
	if trimmed == "" {
		return nil
	}
	raw := strings.Split(trimmed, separator)
	blocks := make([]string, 0, len(raw))
	for _, block := range raw {
		block = strings.Trim(block, "\r\n")
		if block == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func blockLines(block, newline string) []string {
	lines := strings.Split(block, newline)
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// parseSRT turns SRT content into ordered entries. Malformed blocks with
// fewer than two lines are skipped.
func parseSRT(content string) ([]Entry, string, string) {
	separator, newline := detectSeparator(content)
	blocks := splitBlocks(content, separator)
	entries := make([]Entry, 0, len(blocks))
	for _, block := range blocks {
		lines := blockLines(block, newline)
		if len(lines) < 2 {
			continue
		}
		ordinal, _ := strconv.Atoi(strings.TrimSpace(lines[0]))
		entries = append(entries, Entry{
			Ordinal: ordinal,
			Timing:  lines[1],
			Text:    strings.Join(lines[2:], " "),
		})
	}
	return entries, separator, newline
}

// parseVTT turns WebVTT content into a preserved header plus ordered
// entries. The header block is excluded from grouping.
func parseVTT(content string) (header string, entries []Entry, separator, newline string) {
	separator, newline = detectSeparator(content)
	blocks := splitBlocks(content, separator)
	if len(blocks) > 0 && strings.HasPrefix(blocks[0], "WEBVTT") {
		header = blocks[0]
		blocks = blocks[1:]
	}
	entries = make([]Entry, 0, len(blocks))
	for _, block := range blocks {
		lines := blockLines(block, newline)
		if len(lines) < 2 {
			continue
		}
		entries = append(entries, Entry{
			Timing: lines[0],
			Text:   strings.Join(lines[1:], " "),
		})
	}
	return header, entries, separator, newline
}

func formatSRT(entries []Entry, separator, newline string) string {
	if len(entries) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(entries))
	for i, entry := range entries {
		blocks = append(blocks, strings.Join([]string{
			strconv.Itoa(i + 1),
			entry.Timing,
			entry.Text,
		}, newline))
	}
	return strings.Join(blocks, separator) + newline
}

func formatVTT(header string, entries []Entry, separator, newline string) string {
	blocks := make([]string, 0, len(entries)+1)
	if header != "" {
		blocks = append(blocks, header)
	}
	for _, entry := range entries {
		blocks = append(blocks, entry.Timing+newline+entry.Text)
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, separator) + newline
}
