// Package project materializes a fragment project's on-disk content tree into
// an in-memory model.
//
// The on-disk convention it reads (and never writes):
//
//	<basePath>/package.json                          required project metadata
//	<basePath>/src/<collection>/collection.json      one marker per collection
//	<basePath>/src/<collection>/<fragment>/fragment.json
//	<basePath>/src/<collection>/<composition>/fragment-composition.json
//	<basePath>/src/<template>/page-template.json
//	<basePath>/src/<template>/page-definition.json   required per template
//
// Each entity family is the same scan-validate-enrich shape, assembled
// through one generic helper parameterized by marker filename and an entity
// builder. The failure policy is deliberately asymmetric: entity markers and
// referenced content files degrade (drop the entity, empty the field, log),
// while the package descriptor and page-definition.json are fatal for the
// whole run. See internal/errors.
package project

import (
	"context"
	"encoding/json"
	"path/filepath"
	"runtime"

	"github.com/conneroisu/fragmenta/internal/content"
	"github.com/conneroisu/fragmenta/internal/errors"
	"github.com/conneroisu/fragmenta/internal/logging"
	"github.com/conneroisu/fragmenta/internal/scanner"
	"github.com/conneroisu/fragmenta/internal/types"
	"github.com/spf13/afero"
)

// Marker filenames identifying each entity family, and the fixed-name files
// the aggregator reads directly.
const (
	MarkerCollection          = "collection.json"
	MarkerFragment            = "fragment.json"
	MarkerFragmentComposition = "fragment-composition.json"
	MarkerPageTemplate        = "page-template.json"

	// PageDefinitionFile is the mandatory sibling of every valid
	// page-template.json.
	PageDefinitionFile = "page-definition.json"
	// PackageDescriptorFile is the required project metadata file.
	PackageDescriptorFile = "package.json"

	// DefaultSourceDir is the directory under the project root that holds
	// collections and page templates.
	DefaultSourceDir = "src"
)

// Aggregator turns a project directory into a types.Project. It is stateless
// between calls: every Aggregate re-scans the filesystem from scratch.
type Aggregator struct {
	fs      afero.Fs
	logger  logging.Logger
	scanner *scanner.EntityScanner
	loader  *content.Loader
	srcDir  string
	workers int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithSourceDir overrides the source directory name (default "src").
func WithSourceDir(dir string) Option {
	return func(a *Aggregator) {
		if dir != "" {
			a.srcDir = dir
		}
	}
}

// WithWorkers bounds concurrent entity construction. 1 forces fully
// sequential assembly; 0 or negative selects the default.
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

// NewAggregator creates an aggregator over the given filesystem.
func NewAggregator(fs afero.Fs, logger logging.Logger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}

	a := &Aggregator{
		fs:      fs,
		logger:  logger,
		scanner: scanner.NewEntityScanner(fs, logger),
		loader:  content.NewLoader(fs, logger),
		srcDir:  DefaultSourceDir,
		workers: workers,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Aggregate reads the project rooted at basePath and returns the complete
// content tree. The package descriptor is required: its absence or malformed
// content fails the call, as does a page template with a missing or
// malformed page-definition.json. Every other failure degrades and is
// reported through the logger only.
func (a *Aggregator) Aggregate(ctx context.Context, basePath string) (*types.Project, error) {
	if abs, err := filepath.Abs(basePath); err == nil {
		basePath = abs
	}

	descriptor, err := content.ReadMetadata(a.fs, filepath.Join(basePath, PackageDescriptorFile))
	if err != nil {
		return nil, errors.NewMetadataError("read_package_descriptor",
			"project package descriptor is required", err).
			WithEntity(basePath).
			WithPath(PackageDescriptorFile)
	}

	collections, err := a.Collections(ctx, basePath)
	if err != nil {
		return nil, err
	}

	pageTemplates, err := a.PageTemplates(ctx, basePath)
	if err != nil {
		return nil, err
	}

	a.logger.Debug(ctx, "project aggregated",
		"basePath", basePath,
		"collections", len(collections),
		"pageTemplates", len(pageTemplates))

	return &types.Project{
		BasePath:      basePath,
		Project:       descriptor,
		Collections:   collections,
		PageTemplates: pageTemplates,
	}, nil
}

// Collections assembles every valid collection under basePath's source
// directory, each enriched with its fragments and fragment compositions.
func (a *Aggregator) Collections(ctx context.Context, basePath string) ([]types.Collection, error) {
	return assemble(ctx, a, filepath.Join(basePath, a.srcDir), MarkerCollection,
		func(ctx context.Context, entry scanner.Entry) (types.Collection, error) {
			compositions, err := a.FragmentCompositions(ctx, entry.Dir)
			if err != nil {
				return types.Collection{}, err
			}

			fragments, err := a.Fragments(ctx, entry.Dir)
			if err != nil {
				return types.Collection{}, err
			}

			return types.Collection{
				Slug:                 entry.Slug,
				FragmentCollectionID: entry.Slug,
				Metadata:             entry.Metadata,
				FragmentCompositions: compositions,
				Fragments:            fragments,
			}, nil
		})
}

// Fragments assembles every valid fragment directly under collectionDir.
func (a *Aggregator) Fragments(ctx context.Context, collectionDir string) ([]types.Fragment, error) {
	return assemble(ctx, a, collectionDir, MarkerFragment,
		func(ctx context.Context, entry scanner.Entry) (types.Fragment, error) {
			return types.Fragment{
				Slug:          entry.Slug,
				Metadata:      entry.Metadata,
				HTML:          a.loader.Load(ctx, entry.Dir, entry.Metadata.Path(types.MetadataKeyHTMLPath), entry.Metadata),
				CSS:           a.loader.Load(ctx, entry.Dir, entry.Metadata.Path(types.MetadataKeyCSSPath), entry.Metadata),
				JS:            a.loader.Load(ctx, entry.Dir, entry.Metadata.Path(types.MetadataKeyJSPath), entry.Metadata),
				Configuration: a.loadConfiguration(ctx, entry),
			}, nil
		})
}

// loadConfiguration reads the fragment's optional configuration file. Unlike
// html/css/js, absence is silent: the file is stat-checked before reading and
// a missing configuration produces neither a log entry nor an error.
func (a *Aggregator) loadConfiguration(ctx context.Context, entry scanner.Entry) string {
	relPath := entry.Metadata.Path(types.MetadataKeyConfigurationPath)
	if relPath == "" || !a.loader.Exists(entry.Dir, relPath) {
		return ""
	}

	return a.loader.Load(ctx, entry.Dir, relPath, entry.Metadata)
}

// FragmentCompositions assembles every valid fragment composition directly
// under collectionDir.
func (a *Aggregator) FragmentCompositions(ctx context.Context, collectionDir string) ([]types.FragmentComposition, error) {
	return assemble(ctx, a, collectionDir, MarkerFragmentComposition,
		func(ctx context.Context, entry scanner.Entry) (types.FragmentComposition, error) {
			return types.FragmentComposition{
				Slug:           entry.Slug,
				Metadata:       entry.Metadata,
				DefinitionData: a.loader.Load(ctx, entry.Dir, entry.Metadata.Path(types.MetadataKeyDefinitionPath), entry.Metadata),
			}, nil
		})
}

// PageTemplates assembles every valid page template under basePath's source
// directory. The definition path is always derived as the sibling
// page-definition.json, never read from the marker, and that file is
// mandatory: a template whose definition cannot be read or parsed fails the
// whole aggregation rather than being silently omitted.
func (a *Aggregator) PageTemplates(ctx context.Context, basePath string) ([]types.PageTemplate, error) {
	return assemble(ctx, a, filepath.Join(basePath, a.srcDir), MarkerPageTemplate,
		func(ctx context.Context, entry scanner.Entry) (types.PageTemplate, error) {
			definitionPath := filepath.Join(entry.Dir, PageDefinitionFile)

			definition, err := content.ReadJSON(a.fs, definitionPath)
			if err != nil {
				return types.PageTemplate{}, errors.NewMetadataError("read_page_definition",
					"page template definition is required", err).
					WithEntity(entry.Metadata.Name(entry.Dir)).
					WithPath(definitionPath)
			}

			// Round trip through parse and re-marshal: DefinitionData is
			// the canonical serialization, not the raw file bytes.
			data, err := json.Marshal(definition)
			if err != nil {
				return types.PageTemplate{}, errors.NewMetadataError("encode_page_definition",
					"page template definition cannot be re-encoded", err).
					WithEntity(entry.Metadata.Name(entry.Dir)).
					WithPath(definitionPath)
			}

			return types.PageTemplate{
				Slug: entry.Slug,
				Metadata: types.PageTemplateMetadata{
					Name:                       entry.Metadata.Path(types.MetadataKeyName),
					PageTemplateDefinitionPath: definitionPath,
				},
				DefinitionData: string(data),
			}, nil
		})
}

// assemble is the shared scan-validate-enrich step behind every entity
// family: scan baseDir for marker, then construct one entity per surviving
// directory on the worker pool, preserving scan order.
func assemble[T any](ctx context.Context, a *Aggregator, baseDir, marker string, build func(context.Context, scanner.Entry) (T, error)) ([]T, error) {
	entries, err := a.scanner.Scan(ctx, baseDir, marker)
	if err != nil {
		return nil, err
	}

	return mapOrdered(ctx, a.workers, entries, build)
}
