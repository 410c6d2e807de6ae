// Package types provides common type definitions used throughout the Fragmenta CLI.
// This package contains shared types to avoid circular dependencies between packages.
package types

// Metadata is the parsed content of a marker file or the project's package
// descriptor. The aggregation core treats it as opaque apart from the handful
// of well-known path keys read by the assemblers.
type Metadata map[string]any

// Well-known metadata keys consumed by the assemblers. Everything else in a
// marker file is carried through untouched.
const (
	// MetadataKeyName is the human-readable entity name, used for log
	// attribution when a referenced content file is missing.
	MetadataKeyName = "name"
	// MetadataKeyHTMLPath references the fragment's HTML file.
	MetadataKeyHTMLPath = "htmlPath"
	// MetadataKeyCSSPath references the fragment's CSS file.
	MetadataKeyCSSPath = "cssPath"
	// MetadataKeyJSPath references the fragment's JavaScript file.
	MetadataKeyJSPath = "jsPath"
	// MetadataKeyConfigurationPath references the fragment's optional
	// configuration file.
	MetadataKeyConfigurationPath = "configurationPath"
	// MetadataKeyDefinitionPath references a fragment composition's
	// definition file.
	MetadataKeyDefinitionPath = "fragmentCompositionDefinitionPath"
)

// Name returns the entity's declared name, or the fallback when the metadata
// carries no usable name field.
func (m Metadata) Name(fallback string) string {
	if name, ok := m[MetadataKeyName].(string); ok && name != "" {
		return name
	}
	return fallback
}

// Path returns the string value stored under key, or "" when the key is
// absent or not a string. Marker files declare content paths as plain
// strings; anything else is treated as unset.
func (m Metadata) Path(key string) string {
	if p, ok := m[key].(string); ok {
		return p
	}
	return ""
}

// Project is the root of the aggregated content tree. It owns everything
// beneath it exclusively and is immutable once returned by the aggregator.
type Project struct {
	// BasePath is the absolute path to the project root directory
	BasePath string `json:"basePath" yaml:"basePath"`
	// Project holds the parsed package descriptor (package.json)
	Project Metadata `json:"project" yaml:"project"`
	// Collections lists the fragment collections in filesystem scan order
	Collections []Collection `json:"collections" yaml:"collections"`
	// PageTemplates lists the page templates in filesystem scan order
	PageTemplates []PageTemplate `json:"pageTemplates" yaml:"pageTemplates"`
}

// Collection is a directory under src/ marked by collection.json, grouping
// fragments and fragment compositions.
type Collection struct {
	// Slug is the collection directory basename
	Slug string `json:"slug" yaml:"slug"`
	// FragmentCollectionID is the collection identifier; always equal to Slug
	FragmentCollectionID string `json:"fragmentCollectionId" yaml:"fragmentCollectionId"`
	// Metadata is the parsed collection.json content
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	// FragmentCompositions lists the compositions found in this collection
	FragmentCompositions []FragmentComposition `json:"fragmentCompositions" yaml:"fragmentCompositions"`
	// Fragments lists the fragments found in this collection
	Fragments []Fragment `json:"fragments" yaml:"fragments"`
}

// Fragment is a directory inside a collection marked by fragment.json,
// enriched with the raw text of its referenced content files. Content fields
// degrade to "" when the referenced file is absent; they are never nil.
type Fragment struct {
	// Slug is the fragment directory basename
	Slug string `json:"slug" yaml:"slug"`
	// Metadata is the parsed fragment.json content
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	// HTML is the raw content of the file referenced by htmlPath, or ""
	HTML string `json:"html" yaml:"html"`
	// CSS is the raw content of the file referenced by cssPath, or ""
	CSS string `json:"css" yaml:"css"`
	// JS is the raw content of the file referenced by jsPath, or ""
	JS string `json:"js" yaml:"js"`
	// Configuration is the raw content of the file referenced by
	// configurationPath, or "" when the path is unset or the file is absent
	Configuration string `json:"configuration" yaml:"configuration"`
}

// FragmentComposition is a directory inside a collection marked by
// fragment-composition.json.
type FragmentComposition struct {
	// Slug is the composition directory basename
	Slug string `json:"slug" yaml:"slug"`
	// Metadata is the parsed fragment-composition.json content
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	// DefinitionData is the raw content of the referenced definition file, or ""
	DefinitionData string `json:"definitionData" yaml:"definitionData"`
}

// PageTemplateMetadata is the derived metadata of a page template. Unlike the
// other entity families it has a fixed shape: the name copied from the marker
// and the absolute path of the sibling page-definition.json.
type PageTemplateMetadata struct {
	// Name is copied from the page-template.json marker
	Name string `json:"name" yaml:"name"`
	// PageTemplateDefinitionPath is the absolute path of the sibling
	// page-definition.json; derived, never read from the marker
	PageTemplateDefinitionPath string `json:"pageTemplateDefinitionPath" yaml:"pageTemplateDefinitionPath"`
}

// PageTemplate is a directory under src/ marked by page-template.json. Its
// definition file is mandatory: a missing or malformed page-definition.json
// aborts the whole aggregation instead of degrading.
type PageTemplate struct {
	// Slug is the template directory basename
	Slug string `json:"slug" yaml:"slug"`
	// Metadata holds the template name and derived definition path
	Metadata PageTemplateMetadata `json:"metadata" yaml:"metadata"`
	// DefinitionData is the JSON re-serialization of page-definition.json
	DefinitionData string `json:"definitionData" yaml:"definitionData"`
}
