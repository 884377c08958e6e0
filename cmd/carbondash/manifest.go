package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	core "github.com/goliatone/go-carbon-dashboard/components/dashboard"
)

type manifestCmd struct {
	Validate manifestValidateCmd `cmd:"" help:"Check manifests against the widget registry and schemas."`
	Scaffold manifestScaffoldCmd `cmd:"" help:"Add a widget definition, and optionally a placement, to a manifest."`
}

type manifestValidateCmd struct {
	Paths []string `arg:"" type:"existingfile" help:"Manifest files, applied in order."`
}

func (cmd *manifestValidateCmd) Run(ctx context.Context, out io.Writer) error {
	registry := core.NewRegistry()
	views, err := core.LoadManifests(registry, core.DefaultViews(), cmd.Paths...)
	if err != nil {
		return err
	}
	store, err := core.NewStaticViewStore(registry, core.NewJSONSchemaValidator(), views...)
	if err != nil {
		return err
	}
	resolved, err := store.Views(ctx)
	if err != nil {
		return err
	}
	for _, view := range resolved {
		fmt.Fprintf(out, "✓ %s: %d rows, %d widgets\n", view.Code, len(view.Rows), len(view.Instances()))
	}
	return nil
}

type manifestScaffoldCmd struct {
	Code         string   `required:"" help:"Fully-qualified widget code (e.g. carbon.widget.noise)."`
	Name         string   `required:"" help:"Display name for the widget."`
	Description  string   `required:"" help:"One-line description used in manifests."`
	Category     string   `default:"custom" help:"Widget category (monitoring, community, operator, ...)."`
	ManifestPath string   `name:"manifest" required:"" type:"path" help:"Manifest YAML file to update."`
	SchemaPath   string   `name:"schema" type:"path" help:"Optional JSON schema file for the widget configuration."`
	Tag          []string `help:"Tags to include in the manifest (repeatable)."`
	DocsURL      string   `name:"docs-url" help:"Link to provider documentation."`
	View         string   `help:"View code to place the widget in. Built-in views are copied into the manifest first."`
	Width        int      `default:"12" help:"Column span of the placed widget."`
	Overwrite    bool     `help:"Replace an existing manifest entry with the same code."`
}

func (cmd *manifestScaffoldCmd) Run(_ context.Context, out io.Writer) error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("carbondash: widget code %s must contain at least one '.' segment", cmd.Code)
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("carbondash: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	schema, err := cmd.loadSchema()
	if err != nil {
		return err
	}

	entry := core.ManifestWidget{
		Definition: core.WidgetDefinition{
			Code:        cmd.Code,
			Name:        cmd.Name,
			Description: cmd.Description,
			Category:    cmd.Category,
			Schema:      schema,
		},
		Provider: core.ManifestProvider{
			Name:    cmd.Name + " Provider",
			Summary: cmd.Description,
			Entry:   "New" + deriveBaseName(cmd.Code) + "Provider",
			DocsURL: cmd.DocsURL,
		},
		Tags: cmd.Tag,
	}
	if err := upsertWidget(doc, entry, cmd.Overwrite); err != nil {
		return err
	}
	if cmd.View != "" {
		if err := placeWidget(doc, cmd.View, cmd.Code, cmd.Width); err != nil {
			return err
		}
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Added %s to %s (provider entry recorded as %s)\n", cmd.Code, manifestPath, entry.Provider.Entry)
	return nil
}

func (cmd *manifestScaffoldCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("carbondash: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("carbondash: parse schema JSON: %w", err)
	}
	return schema, nil
}

func upsertWidget(doc *core.ManifestDocument, entry core.ManifestWidget, overwrite bool) error {
	for idx, widget := range doc.Widgets {
		if widget.Definition.Code != entry.Definition.Code {
			continue
		}
		if !overwrite {
			return fmt.Errorf("carbondash: manifest already defines widget %s (use --overwrite to replace)", entry.Definition.Code)
		}
		doc.Widgets[idx] = entry
		return nil
	}
	doc.Widgets = append(doc.Widgets, entry)
	sort.Slice(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Definition.Code < doc.Widgets[j].Definition.Code
	})
	return nil
}

// placeWidget appends a row holding the widget to the view, seeding the
// manifest with the built-in view when it does not override it yet.
func placeWidget(doc *core.ManifestDocument, viewCode, widgetCode string, width int) error {
	pos := -1
	for i, view := range doc.Views {
		if view.Code == viewCode {
			pos = i
			break
		}
	}
	if pos < 0 {
		for _, view := range core.DefaultViews() {
			if view.Code == viewCode {
				doc.Views = append(doc.Views, view)
				pos = len(doc.Views) - 1
				break
			}
		}
	}
	if pos < 0 {
		return fmt.Errorf("%w: %s", core.ErrViewNotFound, viewCode)
	}
	id := strcase.ToKebab(widgetCode[strings.LastIndex(widgetCode, ".")+1:])
	doc.Views[pos].Rows = append(doc.Views[pos].Rows, core.LayoutRow{
		Widgets: []core.WidgetInstance{{ID: id, DefinitionID: widgetCode, Width: width}},
	})
	return nil
}

func loadOrInitManifest(path string) (*core.ManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &core.ManifestDocument{
				Version: core.ManifestVersion,
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("carbondash: stat manifest: %w", err)
	}
	return core.ReadManifest(path)
}

func writeManifest(path string, doc *core.ManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("carbondash: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("carbondash: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("carbondash: write manifest: %w", err)
	}
	return nil
}

func deriveBaseName(code string) string {
	parts := strings.Split(code, ".")
	slug := strings.TrimSpace(parts[len(parts)-1])
	if slug == "" {
		slug = code
	}
	return strcase.ToPascal(slug)
}
