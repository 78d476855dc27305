// Package language provides language code normalization plus the
// filename language-detection cascade that picks the transcription
// engine's language parameter.
//
// Filenames are short and noisy, so detection degrades through
// increasingly expensive and uncertain tiers instead of failing: an
// ordered pattern map, Unicode script ranges, a statistical classifier,
// and finally the engine's own auto-detection.
package language
