package subtitle

import (
	"strings"
	"testing"
)

func srtContent(blocks ...string) string {
	return strings.Join(blocks, "\n\n") + "\n"
}

func TestGroupSRTMergesFragments(t *testing.T) {
	input := "1\n00:00:00,000 --> 00:00:01,000\nH\n\n" +
		"2\n00:00:01,000 --> 00:00:02,000\ne\n\n" +
		"3\n00:00:02,000 --> 00:00:03,000\nllo there friend today"

	got := GroupSRT(input, 5)
	want := srtContent(
		"1\n00:00:00,000 --> 00:00:01,000\nH e",
		"2\n00:00:02,000 --> 00:00:03,000\nllo there friend today",
	)
	if got != want {
		t.Errorf("GroupSRT = %q, want %q", got, want)
	}
}

func TestGroupSRTAllFragmentsOneLine(t *testing.T) {
	input := srtContent(
		"1\n00:00:00,000 --> 00:00:01,000\nthis is",
		"2\n00:00:01,000 --> 00:00:02,000\na broken",
		"3\n00:00:02,000 --> 00:00:03,000\nsentence",
	)
	got := GroupSRT(input, 5)
	want := srtContent("1\n00:00:00,000 --> 00:00:01,000\nthis is a broken sentence")
	if got != want {
		t.Errorf("GroupSRT = %q, want %q", got, want)
	}
}

func TestGroupSRTFragmentRunSplitsAtThreshold(t *testing.T) {
	// A fragment that would push the merged line past the word threshold
	// starts a new line instead of joining the pending one.
	input := srtContent(
		"1\n00:00:00,000 --> 00:00:01,000\none two three four",
		"2\n00:00:01,000 --> 00:00:02,000\nplus three more",
	)
	got := GroupSRT(input, 5)
	want := srtContent(
		"1\n00:00:00,000 --> 00:00:01,000\none two three four",
		"2\n00:00:01,000 --> 00:00:02,000\nplus three more",
	)
	if got != want {
		t.Errorf("GroupSRT = %q, want %q", got, want)
	}
}

func TestGroupSRTPassThrough(t *testing.T) {
	input := srtContent(
		"7\n00:00:00,000 --> 00:00:04,000\nfive whole words are here",
		"8\n00:00:04,000 --> 00:00:08,000\nand five more words follow",
	)
	got := GroupSRT(input, 5)
	want := srtContent(
		"1\n00:00:00,000 --> 00:00:04,000\nfive whole words are here",
		"2\n00:00:04,000 --> 00:00:08,000\nand five more words follow",
	)
	if got != want {
		t.Errorf("GroupSRT = %q, want %q", got, want)
	}
}

func TestGroupSRTShortTextAlwaysFragment(t *testing.T) {
	// "a b" has two words but only three runes; it must group even when
	// the word threshold is 1.
	input := srtContent(
		"1\n00:00:00,000 --> 00:00:01,000\na b",
		"2\n00:00:01,000 --> 00:00:02,000\nplenty of words in this entry",
	)
	got := GroupSRT(input, 1)
	want := srtContent(
		"1\n00:00:00,000 --> 00:00:01,000\na b",
		"2\n00:00:01,000 --> 00:00:02,000\nplenty of words in this entry",
	)
	if got != want {
		t.Errorf("GroupSRT = %q, want %q", got, want)
	}
}

func TestGroupSRTMultilineTextJoined(t *testing.T) {
	input := srtContent(
		"1\n00:00:00,000 --> 00:00:04,000\nfirst line of the entry\nsecond line of the entry",
	)
	got := GroupSRT(input, 5)
	want := srtContent("1\n00:00:00,000 --> 00:00:04,000\nfirst line of the entry second line of the entry")
	if got != want {
		t.Errorf("GroupSRT = %q, want %q", got, want)
	}
}

func TestGroupSRTSkipsMalformedBlocks(t *testing.T) {
	input := srtContent(
		"garbage",
		"1\n00:00:00,000 --> 00:00:04,000\nfive whole words are here",
	)
	got := GroupSRT(input, 5)
	want := srtContent("1\n00:00:00,000 --> 00:00:04,000\nfive whole words are here")
	if got != want {
		t.Errorf("GroupSRT = %q, want %q", got, want)
	}
}

func TestGroupSRTPreservesCRLF(t *testing.T) {
	input := "1\r\n00:00:00,000 --> 00:00:01,000\r\nHi\r\n\r\n" +
		"2\r\n00:00:01,000 --> 00:00:02,000\r\nthere\r\n"
	got := GroupSRT(input, 5)
	want := "1\r\n00:00:00,000 --> 00:00:01,000\r\nHi there\r\n"
	if got != want {
		t.Errorf("GroupSRT = %q, want %q", got, want)
	}
}

func TestGroupVTT(t *testing.T) {
	input := "WEBVTT\n\n" +
		"00:00:00.000 --> 00:00:01.000\nH\n\n" +
		"00:00:01.000 --> 00:00:02.000\ne\n\n" +
		"00:00:02.000 --> 00:00:03.000\nllo there friend today\n"
	got := GroupVTT(input, 5)
	want := "WEBVTT\n\n" +
		"00:00:00.000 --> 00:00:01.000\nH e\n\n" +
		"00:00:02.000 --> 00:00:03.000\nllo there friend today\n"
	if got != want {
		t.Errorf("GroupVTT = %q, want %q", got, want)
	}
}

func TestGroupVTTHeaderExcludedFromGrouping(t *testing.T) {
	input := "WEBVTT\n\n00:00:00.000 --> 00:00:05.000\nall five words stand alone\n"
	got := GroupVTT(input, 5)
	if got != input {
		t.Errorf("GroupVTT = %q, want unchanged %q", got, input)
	}
}

func TestGroupingTimingNeverMutated(t *testing.T) {
	input := srtContent(
		"1\n00:00:00,000 --> 00:00:01,000\none",
		"2\n00:00:01,500 --> 00:00:02,000\ntwo",
		"3\n00:00:02,000 --> 00:00:07,000\nthe only self sufficient entry",
	)
	got := GroupSRT(input, 5)
	if !strings.Contains(got, "00:00:00,000 --> 00:00:01,000") {
		t.Error("merged group lost its first member's timing")
	}
	if strings.Contains(got, "00:00:01,500") {
		t.Error("non-first member timing leaked into output")
	}
	if !strings.Contains(got, "00:00:02,000 --> 00:00:07,000") {
		t.Error("pass-through entry timing changed")
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"two  spaced   words here", 4},
		{"\tmixed \n whitespace", 2},
		{"مرحبا بالعالم اليوم", 3},
		{"你好世界", 1}, // unsegmented CJK counts as one token
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := wordCount(tt.text); got != tt.expected {
				t.Errorf("wordCount(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}
