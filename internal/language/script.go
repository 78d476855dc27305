package language

import "unicode"

// scriptRanges maps Unicode scripts to language codes. Declaration order
// is the tie-break: the first range containing any codepoint of the
// filename wins.
var scriptRanges = []struct {
	name  string
	table *unicode.RangeTable
	code  string
}{
	{"arabic", unicode.Arabic, "ar"},
	{"han", unicode.Han, "zh"},
	{"hiragana", unicode.Hiragana, "ja"},
	{"katakana", unicode.Katakana, "ja"},
	{"hangul", unicode.Hangul, "ko"},
	{"cyrillic", unicode.Cyrillic, "ru"},
	{"greek", unicode.Greek, "el"},
	{"hebrew", unicode.Hebrew, "he"},
	{"devanagari", unicode.Devanagari, "hi"},
	{"thai", unicode.Thai, "th"},
}

// matchScript tests the filename's codepoints against the fixed script
// table in declared order.
func matchScript(filename string) (string, bool) {
	for _, script := range scriptRanges {
		for _, r := range filename {
			if unicode.Is(script.table, r) {
				return script.code, true
			}
		}
	}
	return "", false
}
