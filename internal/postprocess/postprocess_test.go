package postprocess

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subforge/internal/engine"
	"subforge/internal/logging"
)

const rawSRT = `1
00:00:01,000 --> 00:00:02,000
Da

2
00:00:02,000 --> 00:00:03,000
capo al fine

3
00:00:03,000 --> 00:00:04,000
Hello there my old friend

4
00:00:04,000 --> 00:00:05,000
Hello there my old friend

5
00:00:05,000 --> 00:00:06,000
Hello there my old friend
`

func TestApplyRewritesCaptions(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "lecture-viAB12cd.mp4")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	caption := filepath.Join(dir, "lecture.srt")
	if err := os.WriteFile(caption, []byte(rawSRT), 0o644); err != nil {
		t.Fatal(err)
	}

	proc := New(5, 1, []engine.Format{engine.FormatSRT}, logging.NewNop())
	if err := proc.Apply(context.Background(), source); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	renamed := filepath.Join(dir, "lecture-viAB12cd.srt")
	data, err := os.ReadFile(renamed)
	if err != nil {
		t.Fatalf("caption was not renamed with the video ID: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "Da capo al fine") {
		t.Errorf("fragment was not merged:\n%s", got)
	}
	if strings.Count(got, "Hello there my old friend") != 2 {
		t.Errorf("excess duplicate entry survived:\n%s", got)
	}
	if _, err := os.Stat(caption); !os.IsNotExist(err) {
		t.Errorf("original caption path still present: %v", err)
	}
}

func TestApplyWithoutVideoID(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "talk.mkv")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	caption := filepath.Join(dir, "talk.srt")
	if err := os.WriteFile(caption, []byte(rawSRT), 0o644); err != nil {
		t.Fatal(err)
	}

	proc := New(5, 2, []engine.Format{engine.FormatSRT}, logging.NewNop())
	if err := proc.Apply(context.Background(), source); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := os.Stat(caption); err != nil {
		t.Errorf("caption should keep its name when the source has no ID: %v", err)
	}
}

func TestApplySkipsNonCaptionFormats(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "talk.mkv")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	transcript := filepath.Join(dir, "talk.json")
	const body = `{"segments":[]}`
	if err := os.WriteFile(transcript, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	proc := New(5, 2, []engine.Format{engine.FormatJSON}, logging.NewNop())
	if err := proc.Apply(context.Background(), source); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	data, err := os.ReadFile(transcript)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != body {
		t.Errorf("non-caption output was modified: %q", data)
	}
}
