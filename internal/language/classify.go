package language

import (
	"strings"
	"sync"
	"unicode"

	"github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"

	"subforge/internal/videoid"
)

const (
	// minPhraseRunes is the minimum cleaned-phrase length worth
	// classifying; anything shorter is noise.
	minPhraseRunes = 4
	// minClassifierConfidence rejects low-confidence guesses so they fall
	// through to the engine's own detection.
	minClassifierConfidence = 0.70
)

var (
	classifierOnce sync.Once
	classifier     lingua.LanguageDetector

	matcherOnce   sync.Once
	matcher       language.Matcher
	supportedTags []language.Tag
)

func textClassifier() lingua.LanguageDetector {
	classifierOnce.Do(func() {
		classifier = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithLowAccuracyMode().
			Build()
	})
	return classifier
}

func codeMatcher() language.Matcher {
	matcherOnce.Do(func() {
		codes := Supported()
		supportedTags = make([]language.Tag, 0, len(codes))
		for _, code := range codes {
			supportedTags = append(supportedTags, language.Make(code))
		}
		matcher = language.NewMatcher(supportedTags)
	})
	return matcher
}

// cleanPhrase reduces a filename to the words a text classifier can work
// with: extension and embedded video ID are stripped, then everything
// that is not a letter becomes a space.
func cleanPhrase(filename string) string {
	base := videoid.Extract(filename).BaseName
	var b strings.Builder
	b.Grow(len(base))
	for _, r := range base {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// classifyPhrase runs the statistical classifier over the cleaned
// filename and maps its guess into the supported code set. Short phrases,
// low-confidence guesses, and codes outside the supported set all fall
// through.
func classifyPhrase(filename string) (string, bool) {
	phrase := cleanPhrase(filename)
	if phraseRunes(phrase) < minPhraseRunes {
		return "", false
	}

	detector := textClassifier()
	detected, ok := detector.DetectLanguageOf(phrase)
	if !ok {
		return "", false
	}
	if detector.ComputeLanguageConfidence(phrase, detected) < minClassifierConfidence {
		return "", false
	}

	iso := strings.ToLower(detected.IsoCode639_1().String())
	return translateCode(iso)
}

// translateCode maps a classifier code into the engine's supported set.
// Near matches (regional or macro-language variants) resolve to the
// closest supported code; anything weaker is rejected.
func translateCode(code string) (string, bool) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	_, index, confidence := codeMatcher().Match(tag)
	if confidence < language.High {
		return "", false
	}
	return Supported()[index], true
}

func phraseRunes(phrase string) int {
	count := 0
	for range strings.ReplaceAll(phrase, " ", "") {
		count++
	}
	return count
}
