package subtitle

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinWords is the grouping threshold used when the caller does not
// override it.
const DefaultMinWords = 5

// shortFragmentRunes is the length at or below which an entry is always
// treated as a fragment, regardless of word count. Keeps single CJK or
// Arabic glyphs grouping even though they count as one "word".
const shortFragmentRunes = 3

// GroupSRT merges fragmentary SRT entries into lines of at least minWords
// words and renumbers the result sequentially from 1.
func GroupSRT(content string, minWords int) string {
	entries, separator, newline := parseSRT(content)
	if len(entries) == 0 {
		return content
	}
	return formatSRT(groupEntries(entries, minWords), separator, newline)
}

// GroupVTT merges fragmentary WebVTT entries into lines of at least
// minWords words. The header block is re-prepended verbatim.
func GroupVTT(content string, minWords int) string {
	header, entries, separator, newline := parseVTT(content)
	if len(entries) == 0 {
		return content
	}
	return formatVTT(header, groupEntries(entries, minWords), separator, newline)
}

// groupEntries runs the shared accumulator algorithm. A merged group
// keeps the timing of its first member; text is the space-joined
// concatenation in order. An entry that already meets the threshold
// flushes the pending group and passes through unchanged. Merged lines
// never exceed minWords words: a fragment that would push the group
// past the threshold starts a new group.
func groupEntries(entries []Entry, minWords int) []Entry {
	if minWords <= 0 {
		minWords = DefaultMinWords
	}

	out := make([]Entry, 0, len(entries))
	var group []Entry
	groupWords := 0
	flush := func() {
		if len(group) == 0 {
			return
		}
		texts := make([]string, 0, len(group))
		for _, member := range group {
			texts = append(texts, member.Text)
		}
		out = append(out, Entry{
			Timing: group[0].Timing,
			Text:   strings.Join(texts, " "),
		})
		group = group[:0]
		groupWords = 0
	}

	for _, entry := range entries {
		if !isFragment(entry.Text, minWords) {
			flush()
			out = append(out, entry)
			continue
		}
		words := wordCount(entry.Text)
		if len(group) > 0 && groupWords+words > minWords {
			flush()
		}
		group = append(group, entry)
		groupWords += words
	}
	flush()
	return out
}

func isFragment(text string, minWords int) bool {
	if utf8.RuneCountInString(text) <= shortFragmentRunes {
		return true
	}
	return wordCount(text) < minWords
}

// wordCount counts whitespace-delimited tokens. Unsegmented scripts
// (e.g. Chinese without spaces) undercount; that behavior is intentional.
func wordCount(text string) int {
	return len(strings.Fields(text))
}
