package project

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/conneroisu/fragmenta/internal/errors"
	"github.com/conneroisu/fragmenta/internal/logging"
	"github.com/conneroisu/fragmenta/internal/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAggregator(t *testing.T, opts ...Option) (*Aggregator, afero.Fs, *bytes.Buffer) {
	t.Helper()

	fs := afero.NewMemMapFs()
	var buf bytes.Buffer
	// Warn level: the buffer captures exactly the validation and load
	// failures the failure-policy assertions care about.
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LevelWarn,
		Format: "text",
		Output: &buf,
	})

	return NewAggregator(fs, logger, opts...), fs, &buf
}

func write(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

// writeProject lays down a minimal valid project root.
func writeProject(t *testing.T, fs afero.Fs, basePath string) {
	t.Helper()
	write(t, fs, filepath.Join(basePath, PackageDescriptorFile), `{"name":"sample-project","version":"1.0.0"}`)
}

func TestAggregateEmptyProject(t *testing.T) {
	a, fs, _ := newTestAggregator(t)
	writeProject(t, fs, "/project")
	require.NoError(t, fs.MkdirAll("/project/src", 0o755))

	p, err := a.Aggregate(context.Background(), "/project")
	require.NoError(t, err)

	assert.Equal(t, "/project", p.BasePath)
	assert.Equal(t, "sample-project", p.Project["name"])
	assert.NotNil(t, p.Collections)
	assert.Empty(t, p.Collections)
	assert.NotNil(t, p.PageTemplates)
	assert.Empty(t, p.PageTemplates)
}

func TestAggregateMissingDescriptorIsFatal(t *testing.T) {
	a, fs, _ := newTestAggregator(t)
	write(t, fs, "/project/src/col/collection.json", `{"name":"Col"}`)

	_, err := a.Aggregate(context.Background(), "/project")
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.ErrorIs(t, err, &errors.ProjectError{Type: errors.ErrorTypeMetadata, Code: "read_package_descriptor"})
}

func TestAggregateMalformedDescriptorIsFatal(t *testing.T) {
	a, fs, _ := newTestAggregator(t)
	write(t, fs, "/project/package.json", `{"name": `)

	_, err := a.Aggregate(context.Background(), "/project")
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestCollectionsInvalidMarkerDropsOnlyThatCollection(t *testing.T) {
	a, fs, buf := newTestAggregator(t)
	writeProject(t, fs, "/project")
	write(t, fs, "/project/src/alpha/collection.json", `{"name":"Alpha"}`)
	write(t, fs, "/project/src/broken/collection.json", `{"name":`)
	write(t, fs, "/project/src/zulu/collection.json", `{"name":"Zulu"}`)

	p, err := a.Aggregate(context.Background(), "/project")
	require.NoError(t, err, "a malformed collection never fails the aggregation")

	require.Len(t, p.Collections, 2)
	assert.Equal(t, "alpha", p.Collections[0].Slug)
	assert.Equal(t, "zulu", p.Collections[1].Slug)
	assert.Contains(t, buf.String(), "/project/src/broken")
}

func TestCollectionFields(t *testing.T) {
	a, fs, _ := newTestAggregator(t)
	writeProject(t, fs, "/project")
	write(t, fs, "/project/src/marketing/collection.json", `{"name":"Marketing","description":"Landing blocks"}`)

	p, err := a.Aggregate(context.Background(), "/project")
	require.NoError(t, err)

	require.Len(t, p.Collections, 1)
	col := p.Collections[0]
	assert.Equal(t, "marketing", col.Slug)
	assert.Equal(t, "marketing", col.FragmentCollectionID, "collection id is the slug")
	assert.Equal(t, "Marketing", col.Metadata["name"])
	assert.NotNil(t, col.Fragments)
	assert.NotNil(t, col.FragmentCompositions)
}

func TestFragmentContentLoading(t *testing.T) {
	a, fs, buf := newTestAggregator(t)
	writeProject(t, fs, "/project")
	write(t, fs, "/project/src/col/collection.json", `{"name":"Col"}`)
	write(t, fs, "/project/src/col/banner/fragment.json",
		`{"name":"Banner","htmlPath":"index.html","cssPath":"styles.css","jsPath":"main.js","configurationPath":"configuration.json"}`)
	write(t, fs, "/project/src/col/banner/index.html", "<div>banner</div>")
	write(t, fs, "/project/src/col/banner/styles.css", ".banner {}")
	write(t, fs, "/project/src/col/banner/main.js", "console.log('banner');")
	write(t, fs, "/project/src/col/banner/configuration.json", `{"fieldSets":[]}`)

	p, err := a.Aggregate(context.Background(), "/project")
	require.NoError(t, err)

	require.Len(t, p.Collections, 1)
	require.Len(t, p.Collections[0].Fragments, 1)
	frag := p.Collections[0].Fragments[0]

	assert.Equal(t, "banner", frag.Slug)
	assert.Equal(t, "<div>banner</div>", frag.HTML)
	assert.Equal(t, ".banner {}", frag.CSS)
	assert.Equal(t, "console.log('banner');", frag.JS)
	assert.Equal(t, `{"fieldSets":[]}`, frag.Configuration)
	assert.Empty(t, buf.String())
}

func TestFragmentMissingHTMLDegrades(t *testing.T) {
	a, fs, buf := newTestAggregator(t)
	writeProject(t, fs, "/project")
	write(t, fs, "/project/src/col/collection.json", `{}`)
	write(t, fs, "/project/src/col/card/fragment.json",
		`{"name":"Card","htmlPath":"index.html","cssPath":"styles.css"}`)
	write(t, fs, "/project/src/col/card/styles.css", ".card {}")

	p, err := a.Aggregate(context.Background(), "/project")
	require.NoError(t, err, "a missing content file never fails the aggregation")

	frag := p.Collections[0].Fragments[0]
	assert.Equal(t, "", frag.HTML, "missing html degrades to empty")
	assert.Equal(t, ".card {}", frag.CSS, "other fields are unaffected")
	assert.Equal(t, "card", frag.Slug)
	assert.Equal(t, "Card", frag.Metadata["name"])

	// The degradation is logged with entity and path attribution.
	assert.Contains(t, buf.String(), "Card")
	assert.Contains(t, buf.String(), "index.html")
}

func TestFragmentConfigurationAbsenceIsSilent(t *testing.T) {
	t.Run("no configurationPath declared", func(t *testing.T) {
		a, fs, buf := newTestAggregator(t)
		writeProject(t, fs, "/project")
		write(t, fs, "/project/src/col/collection.json", `{}`)
		write(t, fs, "/project/src/col/plain/fragment.json", `{"name":"Plain"}`)

		p, err := a.Aggregate(context.Background(), "/project")
		require.NoError(t, err)

		assert.Equal(t, "", p.Collections[0].Fragments[0].Configuration)
		assert.Empty(t, buf.String(), "an undeclared configuration path must not log")
	})

	t.Run("configurationPath declared but file missing", func(t *testing.T) {
		a, fs, buf := newTestAggregator(t)
		writeProject(t, fs, "/project")
		write(t, fs, "/project/src/col/collection.json", `{}`)
		write(t, fs, "/project/src/col/tuned/fragment.json",
			`{"name":"Tuned","configurationPath":"configuration.json"}`)

		p, err := a.Aggregate(context.Background(), "/project")
		require.NoError(t, err)

		assert.Equal(t, "", p.Collections[0].Fragments[0].Configuration)
		// Existence is checked before reading: unlike html/css/js, an
		// absent configuration file is not logged.
		assert.Empty(t, buf.String())
	})
}

func TestFragmentCompositions(t *testing.T) {
	a, fs, buf := newTestAggregator(t)
	writeProject(t, fs, "/project")
	write(t, fs, "/project/src/col/collection.json", `{}`)
	write(t, fs, "/project/src/col/hero-combo/fragment-composition.json",
		`{"name":"Hero Combo","fragmentCompositionDefinitionPath":"definition.json"}`)
	write(t, fs, "/project/src/col/hero-combo/definition.json", `{"fragments":["hero","cta"]}`)
	write(t, fs, "/project/src/col/orphan/fragment-composition.json",
		`{"name":"Orphan","fragmentCompositionDefinitionPath":"definition.json"}`)

	p, err := a.Aggregate(context.Background(), "/project")
	require.NoError(t, err)

	require.Len(t, p.Collections[0].FragmentCompositions, 2)
	combo := p.Collections[0].FragmentCompositions[0]
	assert.Equal(t, "hero-combo", combo.Slug)
	assert.Equal(t, `{"fragments":["hero","cta"]}`, combo.DefinitionData)

	// A composition whose definition file is missing stays in the tree
	// with an empty definition and a logged error.
	orphan := p.Collections[0].FragmentCompositions[1]
	assert.Equal(t, "", orphan.DefinitionData)
	assert.Contains(t, buf.String(), "Orphan")
}

func TestPageTemplates(t *testing.T) {
	a, fs, _ := newTestAggregator(t)
	writeProject(t, fs, "/project")
	write(t, fs, "/project/src/landing/page-template.json", `{"name":"Landing Page"}`)
	write(t, fs, "/project/src/landing/page-definition.json",
		"{\n  \"pageElement\": {\n    \"type\": \"Root\"\n  }\n}")

	p, err := a.Aggregate(context.Background(), "/project")
	require.NoError(t, err)

	require.Len(t, p.PageTemplates, 1)
	tpl := p.PageTemplates[0]
	assert.Equal(t, "landing", tpl.Slug)
	assert.Equal(t, "Landing Page", tpl.Metadata.Name)
	assert.Equal(t, "/project/src/landing/page-definition.json",
		tpl.Metadata.PageTemplateDefinitionPath,
		"definition path is derived, absolute, and never read from the marker")

	// DefinitionData is the canonical re-serialization of the definition
	// file, not its raw bytes.
	var parsed any
	require.NoError(t, json.Unmarshal([]byte("{\n  \"pageElement\": {\n    \"type\": \"Root\"\n  }\n}"), &parsed))
	expected, err := json.Marshal(parsed)
	require.NoError(t, err)
	assert.Equal(t, string(expected), tpl.DefinitionData)
}

func TestPageTemplateMissingDefinitionIsFatal(t *testing.T) {
	a, fs, _ := newTestAggregator(t)
	writeProject(t, fs, "/project")
	write(t, fs, "/project/src/landing/page-template.json", `{"name":"Landing"}`)

	_, err := a.Aggregate(context.Background(), "/project")
	require.Error(t, err, "a template without its definition fails the run, it is not omitted")
	assert.True(t, errors.IsFatal(err))
	assert.ErrorIs(t, err, &errors.ProjectError{Type: errors.ErrorTypeMetadata, Code: "read_page_definition"})
}

func TestPageTemplateInvalidMarkerIsDropped(t *testing.T) {
	a, fs, _ := newTestAggregator(t)
	writeProject(t, fs, "/project")
	// The marker itself is still subject to the scan's drop policy; only
	// the definition of a *valid* template is fatal.
	write(t, fs, "/project/src/broken/page-template.json", `not json`)
	write(t, fs, "/project/src/ok/page-template.json", `{"name":"OK"}`)
	write(t, fs, "/project/src/ok/page-definition.json", `{}`)

	p, err := a.Aggregate(context.Background(), "/project")
	require.NoError(t, err)
	require.Len(t, p.PageTemplates, 1)
	assert.Equal(t, "ok", p.PageTemplates[0].Slug)
}

// buildFixtureTree writes numCollections collections, each with numFragments
// fragments carrying html content.
func buildFixtureTree(t *testing.T, fs afero.Fs, basePath string, numCollections, numFragments int) {
	t.Helper()

	writeProject(t, fs, basePath)
	for c := 0; c < numCollections; c++ {
		colDir := filepath.Join(basePath, "src", fmt.Sprintf("collection-%02d", c))
		write(t, fs, filepath.Join(colDir, MarkerCollection), fmt.Sprintf(`{"name":"Collection %d"}`, c))

		for f := 0; f < numFragments; f++ {
			fragDir := filepath.Join(colDir, fmt.Sprintf("fragment-%02d", f))
			write(t, fs, filepath.Join(fragDir, MarkerFragment),
				fmt.Sprintf(`{"name":"Fragment %d-%d","htmlPath":"index.html"}`, c, f))
			write(t, fs, filepath.Join(fragDir, "index.html"),
				fmt.Sprintf("<div>fragment %d-%d</div>", c, f))
		}
	}
}

func TestAggregateFixtureTreeOrderAndIdempotence(t *testing.T) {
	const numCollections, numFragments = 4, 3

	a, fs, _ := newTestAggregator(t)
	buildFixtureTree(t, fs, "/project", numCollections, numFragments)

	first, err := a.Aggregate(context.Background(), "/project")
	require.NoError(t, err)

	require.Len(t, first.Collections, numCollections)
	for c, col := range first.Collections {
		assert.Equal(t, fmt.Sprintf("collection-%02d", c), col.Slug, "collections keep scan order")
		require.Len(t, col.Fragments, numFragments)
		for f, frag := range col.Fragments {
			assert.Equal(t, fmt.Sprintf("fragment-%02d", f), frag.Slug, "fragments keep scan order")
			assert.Equal(t, fmt.Sprintf("<div>fragment %d-%d</div>", c, f), frag.HTML)
		}
	}

	second, err := a.Aggregate(context.Background(), "/project")
	require.NoError(t, err)
	assert.Equal(t, first, second, "re-aggregating the same tree is idempotent")
}

func TestAggregateParallelMatchesSequential(t *testing.T) {
	fs := afero.NewMemMapFs()
	buildFixtureTree(t, fs, "/project", 8, 6)

	sequential := NewAggregator(fs, logging.NewNopLogger(), WithWorkers(1))
	parallel := NewAggregator(fs, logging.NewNopLogger(), WithWorkers(8))

	want, err := sequential.Aggregate(context.Background(), "/project")
	require.NoError(t, err)
	got, err := parallel.Aggregate(context.Background(), "/project")
	require.NoError(t, err)

	assert.Equal(t, want, got, "worker pool must not reorder results")
}

func TestAggregateCustomSourceDir(t *testing.T) {
	a, fs, _ := newTestAggregator(t, WithSourceDir("content"))
	writeProject(t, fs, "/project")
	write(t, fs, "/project/content/col/collection.json", `{}`)
	write(t, fs, "/project/src/ignored/collection.json", `{}`)

	p, err := a.Aggregate(context.Background(), "/project")
	require.NoError(t, err)

	require.Len(t, p.Collections, 1)
	assert.Equal(t, "col", p.Collections[0].Slug)
}

func TestProjectJSONRoundTrip(t *testing.T) {
	a, fs, _ := newTestAggregator(t)
	buildFixtureTree(t, fs, "/project", 1, 1)

	p, err := a.Aggregate(context.Background(), "/project")
	require.NoError(t, err)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded types.Project
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p.BasePath, decoded.BasePath)
	assert.Len(t, decoded.Collections, 1)
}
