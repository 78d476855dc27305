// Package videoid extracts and reattaches the opaque video identifier
// embedded in source filenames so generated artifacts can be traced back
// to the file they came from.
package videoid

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"log/slog"

	"subforge/internal/logging"
)

// idSuffix matches a trailing "-vi<alphanumeric>" marker at the end of a
// filename stem. The leading hyphen is part of the captured identifier.
var idSuffix = regexp.MustCompile(`(-vi[a-zA-Z0-9]+)$`)

// Identity is the decomposition of a filename into its stable parts.
type Identity struct {
	BaseName  string
	VideoID   string
	Extension string
}

// Extract splits a filename into base name, embedded video ID, and
// extension. A filename without the ID marker is a valid outcome with an
// empty VideoID.
func Extract(filename string) Identity {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filepath.Base(filename), ext)

	if match := idSuffix.FindString(stem); match != "" {
		return Identity{
			BaseName:  strings.TrimSuffix(stem, match),
			VideoID:   match,
			Extension: ext,
		}
	}
	return Identity{BaseName: stem, Extension: ext}
}

// Recompose reassembles a filename from its parts. Pure concatenation: no
// normalization or character-set validation.
func (id Identity) Recompose() string {
	return id.BaseName + id.VideoID + id.Extension
}

// HasID reports whether the identity carries an embedded video ID.
func (id Identity) HasID() bool {
	return id.VideoID != ""
}

// RenameArtifacts renames sibling files of a source so they carry the
// source's embedded video ID. Artifacts are matched by shared base name;
// files that already contain the ID are left alone. Returns the renamed
// paths. A source without an ID is a no-op.
func RenameArtifacts(dir string, source Identity, logger *slog.Logger) ([]string, error) {
	if !source.HasID() {
		return nil, nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list artifact directory: %w", err)
	}

	var renamed []string
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.Contains(name, source.VideoID) {
			continue
		}
		artifact := Extract(name)
		if artifact.BaseName != source.BaseName || artifact.HasID() {
			continue
		}
		target := Identity{
			BaseName:  artifact.BaseName,
			VideoID:   source.VideoID,
			Extension: artifact.Extension,
		}.Recompose()
		if target == name {
			continue
		}
		from := filepath.Join(dir, name)
		to := filepath.Join(dir, target)
		if err := os.Rename(from, to); err != nil {
			logger.Warn("artifact rename failed",
				logging.String("artifact", from),
				logging.String("target", to),
				logging.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		renamed = append(renamed, to)
	}
	return renamed, errors.Join(errs...)
}
