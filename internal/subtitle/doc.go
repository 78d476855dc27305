// Package subtitle post-processes SRT and WebVTT caption files produced
// by the transcription engine: fragmentary entries are merged into
// readable lines and runs of repeated captions are collapsed.
//
// Timing strings are treated as opaque and are never rewritten; only
// entry text and SRT ordinals change.
package subtitle
