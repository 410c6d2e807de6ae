// Package content reads the files an entity's metadata points at.
//
// It contains the two ends of the pipeline's failure policy: Loader degrades
// (a missing referenced file is logged and becomes ""), while ReadMetadata
// and ReadJSON fail loudly and leave the policy decision to the caller.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/conneroisu/fragmenta/internal/errors"
	"github.com/conneroisu/fragmenta/internal/logging"
	"github.com/conneroisu/fragmenta/internal/types"
	"github.com/spf13/afero"
)

// Loader resolves content paths relative to an entity's directory and returns
// their raw text. It never fails: absence degrades to "" with one logged
// error attributing the owning entity.
type Loader struct {
	fs     afero.Fs
	logger logging.Logger
}

// NewLoader creates a content loader over the given filesystem.
func NewLoader(fs afero.Fs, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Loader{
		fs:     fs,
		logger: logger.WithComponent("content"),
	}
}

// Load returns the raw text of entityDir/relPath.
//
// An empty relPath returns "" without touching the filesystem or logging:
// an entity that declares no path for a field is not an error. A declared
// path whose file is missing or unreadable returns "" after logging one
// error naming the owning entity and the relative path.
func (l *Loader) Load(ctx context.Context, entityDir, relPath string, metadata types.Metadata) string {
	if relPath == "" {
		return ""
	}

	data, err := afero.ReadFile(l.fs, filepath.Join(entityDir, relPath))
	if err != nil {
		owner := metadata.Name(entityDir)
		loadErr := errors.NewContentError("missing_content_file",
			"referenced content file cannot be read", err).
			WithEntity(owner).
			WithPath(relPath)
		l.logger.Error(ctx, loadErr, "content file missing, field degrades to empty",
			"entity", owner,
			"path", relPath)

		return ""
	}

	return string(data)
}

// Exists reports whether entityDir/relPath is present on the filesystem. An
// empty relPath is never present.
func (l *Loader) Exists(entityDir, relPath string) bool {
	if relPath == "" {
		return false
	}

	exists, err := afero.Exists(l.fs, filepath.Join(entityDir, relPath))

	return err == nil && exists
}

// ReadMetadata reads and parses one JSON metadata file into a Metadata map.
// Unlike Loader it propagates every failure; classifying the failure as fatal
// or degraded is the caller's decision.
func ReadMetadata(fs afero.Fs, path string) (types.Metadata, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var metadata types.Metadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return metadata, nil
}

// ReadJSON reads and parses one JSON file of arbitrary shape. Propagates
// every failure.
func ReadJSON(fs afero.Fs, path string) (any, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return value, nil
}
