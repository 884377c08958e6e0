package dashboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ManifestDocument models a YAML manifest adding widget definitions and
// replacing or extending view layouts.
type ManifestDocument struct {
	Version string           `json:"version" yaml:"version"`
	Name    string           `json:"name,omitempty" yaml:"name,omitempty"`
	Widgets []ManifestWidget `json:"widgets,omitempty" yaml:"widgets,omitempty"`
	Views   []ViewDefinition `json:"views,omitempty" yaml:"views,omitempty"`
	Source  string           `json:"-" yaml:"-"`
}

// ManifestWidget describes a single widget entry within a manifest.
type ManifestWidget struct {
	Definition WidgetDefinition `json:"definition" yaml:"definition"`
	Provider   ManifestProvider `json:"provider,omitempty" yaml:"provider,omitempty"`
	Tags       []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ManifestProvider captures discovery metadata about a provider implementation.
type ManifestProvider struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Entry   string `json:"entry,omitempty" yaml:"entry,omitempty"`
	DocsURL string `json:"docs_url,omitempty" yaml:"docs_url,omitempty"`
}

var errEmptyManifest = errors.New("dashboard: manifest is empty")

// LoadManifestDocument registers definitions and provider metadata from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *ManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("dashboard: manifest document is nil")
	}
	for _, widget := range doc.Widgets {
		if err := r.RegisterDefinition(widget.Definition); err != nil {
			return fmt.Errorf("dashboard: register widget %s from %s: %w", widget.Definition.Code, doc.Source, err)
		}
		r.recordProviderMetadata(widget.Definition.Code, widget.Provider)
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*ManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader. Unknown fields are rejected.
func DecodeManifest(r io.Reader) (*ManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyManifest
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *ManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Widgets))
	for idx, widget := range doc.Widgets {
		if widget.Definition.Code == "" {
			return fmt.Errorf("dashboard: manifest widget at index %d is missing definition.code", idx)
		}
		if widget.Definition.Name == "" {
			return fmt.Errorf("dashboard: manifest widget %s missing definition.name", widget.Definition.Code)
		}
		if _, exists := seen[widget.Definition.Code]; exists {
			return fmt.Errorf("dashboard: manifest duplicates widget code %s", widget.Definition.Code)
		}
		seen[widget.Definition.Code] = struct{}{}
	}
	views := make(map[string]struct{}, len(doc.Views))
	for idx, view := range doc.Views {
		if view.Code == "" {
			return fmt.Errorf("dashboard: manifest view at index %d is missing code", idx)
		}
		if _, exists := views[view.Code]; exists {
			return fmt.Errorf("dashboard: manifest duplicates view code %s", view.Code)
		}
		views[view.Code] = struct{}{}
	}
	return nil
}

// MergeViews replaces base views sharing a code with the override and appends the rest.
func MergeViews(base, overrides []ViewDefinition) []ViewDefinition {
	out := make([]ViewDefinition, 0, len(base)+len(overrides))
	index := make(map[string]int, len(base))
	for _, view := range base {
		index[view.Code] = len(out)
		out = append(out, cloneView(view))
	}
	for _, view := range overrides {
		if pos, ok := index[view.Code]; ok {
			out[pos] = cloneView(view)
			continue
		}
		index[view.Code] = len(out)
		out = append(out, cloneView(view))
	}
	return out
}

func (p ManifestProvider) isZero() bool {
	return p.Name == "" && p.Summary == "" && p.Entry == "" && p.DocsURL == ""
}
