package videoid_test

import (
	"os"
	"path/filepath"
	"testing"

	"subforge/internal/logging"
	"subforge/internal/videoid"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected videoid.Identity
	}{
		{
			name:     "with id",
			filename: "report-viAB12cd.mp4",
			expected: videoid.Identity{BaseName: "report", VideoID: "-viAB12cd", Extension: ".mp4"},
		},
		{
			name:     "without id",
			filename: "report.mp4",
			expected: videoid.Identity{BaseName: "report", Extension: ".mp4"},
		},
		{
			name:     "marker not at end",
			filename: "report-viAB12cd-final.mp4",
			expected: videoid.Identity{BaseName: "report-viAB12cd-final", Extension: ".mp4"},
		},
		{
			name:     "marker without value",
			filename: "report-vi.mp4",
			expected: videoid.Identity{BaseName: "report-vi", Extension: ".mp4"},
		},
		{
			name:     "no extension",
			filename: "clip-vi99",
			expected: videoid.Identity{BaseName: "clip", VideoID: "-vi99"},
		},
		{
			name:     "hyphenated base",
			filename: "my-long-title-vix7Kq.mkv",
			expected: videoid.Identity{BaseName: "my-long-title", VideoID: "-vix7Kq", Extension: ".mkv"},
		},
		{
			name:     "directory stripped",
			filename: "/media/in/report-viAB12cd.mp4",
			expected: videoid.Identity{BaseName: "report", VideoID: "-viAB12cd", Extension: ".mp4"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := videoid.Extract(tt.filename)
			if got != tt.expected {
				t.Errorf("Extract(%q) = %#v, want %#v", tt.filename, got, tt.expected)
			}
		})
	}
}

func TestRecomposeRoundTrip(t *testing.T) {
	filenames := []string{
		"report-viAB12cd.mp4",
		"clip-vi1.mkv",
		"a-b-c-viZZZ.webm",
		"plain.mp4",
		"noext",
	}
	for _, filename := range filenames {
		t.Run(filename, func(t *testing.T) {
			id := videoid.Extract(filename)
			recomposed := id.Recompose()
			if recomposed != filename {
				t.Fatalf("Recompose(Extract(%q)) = %q", filename, recomposed)
			}
			if videoid.Extract(recomposed) != id {
				t.Fatalf("round-trip identity mismatch for %q", filename)
			}
		})
	}
}

func TestRenameArtifacts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"report-viAB12cd.mp4", // source keeps its name
		"report.srt",          // renamed
		"report.vtt",          // renamed
		"report-viAB12cd.txt", // already carries the id
		"other.srt",           // different base
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}

	source := videoid.Extract("report-viAB12cd.mp4")
	renamed, err := videoid.RenameArtifacts(dir, source, logging.NewNop())
	if err != nil {
		t.Fatalf("RenameArtifacts failed: %v", err)
	}
	if len(renamed) != 2 {
		t.Fatalf("expected 2 renames, got %v", renamed)
	}

	expect := []string{
		"other.srt",
		"report-viAB12cd.mp4",
		"report-viAB12cd.srt",
		"report-viAB12cd.txt",
		"report-viAB12cd.vtt",
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != len(expect) {
		t.Fatalf("unexpected file count: %d", len(entries))
	}
	for i, entry := range entries {
		if entry.Name() != expect[i] {
			t.Errorf("entry %d = %q, want %q", i, entry.Name(), expect[i])
		}
	}
}

func TestRenameArtifactsNoID(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "report.srt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	renamed, err := videoid.RenameArtifacts(dir, videoid.Extract("report.mp4"), nil)
	if err != nil {
		t.Fatalf("RenameArtifacts failed: %v", err)
	}
	if renamed != nil {
		t.Fatalf("expected no-op without an id, got %v", renamed)
	}
}
