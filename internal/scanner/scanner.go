// Package scanner provides convention-based entity discovery for fragment
// projects.
//
// An entity is an immediate child directory of a base directory that carries
// a fixed-name JSON marker file (collection.json, fragment.json, and so on).
// The scanner finds each candidate with a single glob one level below the
// base, validates the marker by parsing it, and yields the survivors in the
// order the glob returned them. A directory whose marker does not parse is
// dropped and logged; one malformed entity never fails the scan.
package scanner

import (
	"context"
	"path/filepath"

	"github.com/conneroisu/fragmenta/internal/content"
	"github.com/conneroisu/fragmenta/internal/errors"
	"github.com/conneroisu/fragmenta/internal/logging"
	"github.com/conneroisu/fragmenta/internal/types"
	"github.com/spf13/afero"
)

// Entry is one validated entity directory yielded by a scan.
type Entry struct {
	// Dir is the entity directory containing the marker file
	Dir string
	// Slug is the directory basename, the entity's identifier
	Slug string
	// Metadata is the parsed marker file content
	Metadata types.Metadata
}

// EntityScanner discovers entity directories beneath a base directory. It is
// the single discovery algorithm shared by every entity family; the families
// differ only in the marker filename they hand it.
type EntityScanner struct {
	fs     afero.Fs
	logger logging.Logger
}

// NewEntityScanner creates a scanner over the given filesystem.
func NewEntityScanner(fs afero.Fs, logger logging.Logger) *EntityScanner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &EntityScanner{
		fs:     fs,
		logger: logger.WithComponent("scanner"),
	}
}

// Scan returns one Entry per immediate child directory of baseDir whose
// marker file parses as JSON, preserving the order the glob produced.
//
// Zero matches is an empty result, not an error. A marker that cannot be
// read or parsed excludes its directory and logs one error naming the
// directory and marker; sibling entities are unaffected. The returned error
// is non-nil only for a malformed glob pattern, which cannot happen for the
// fixed marker names this tool uses.
func (s *EntityScanner) Scan(ctx context.Context, baseDir, marker string) ([]Entry, error) {
	matches, err := afero.Glob(s.fs, filepath.Join(baseDir, "*", marker))
	if err != nil {
		return nil, errors.NewConfigError("bad_marker_pattern",
			"marker glob pattern is invalid", err).WithPath(marker)
	}

	entries := make([]Entry, 0, len(matches))
	for _, match := range matches {
		dir := filepath.Dir(match)

		metadata, err := content.ReadMetadata(s.fs, match)
		if err != nil {
			scanErr := errors.NewValidationError("invalid_marker",
				"marker file does not parse as JSON", err).
				WithEntity(dir).
				WithPath(marker)
			s.logger.Error(ctx, scanErr, "dropping entity with invalid marker",
				"directory", dir,
				"marker", marker)

			continue
		}

		entries = append(entries, Entry{
			Dir:      dir,
			Slug:     filepath.Base(dir),
			Metadata: metadata,
		})
	}

	return entries, nil
}
