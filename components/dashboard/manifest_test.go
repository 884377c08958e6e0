package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: 1
name: mine-safety-pack
widgets:
  - definition:
      code: carbon.widget.dust_index
      name: Dust Index
      name_localized:
        hi: धूल सूचकांक
      description: Shows dust readings from haul roads.
      category: monitoring
      schema:
        type: object
        properties:
          station:
            type: string
    provider:
      name: Dust Provider
      summary: Reads haul road dust sensors.
      entry: github.com/example/dust.Provider
      docs_url: https://example.com/widgets/dust
    tags: [monitoring, safety]
views:
  - code: carbon.view.safety
    name: Safety
    rows:
      - widgets:
          - {id: safety-dust, definition: carbon.widget.dust_index, width: 12}
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, ManifestVersion, doc.Version)
	require.Len(t, doc.Widgets, 1)

	widget := doc.Widgets[0]
	assert.Equal(t, "carbon.widget.dust_index", widget.Definition.Code)
	assert.Equal(t, "Dust Index", widget.Definition.Name)
	assert.Equal(t, "धूल सूचकांक", widget.Definition.NameLocalized["hi"])
	assert.Equal(t, "Dust Provider", widget.Provider.Name)
	assert.Equal(t, []string{"monitoring", "safety"}, widget.Tags)

	require.Len(t, doc.Views, 1)
	assert.Equal(t, "safety-dust", doc.Views[0].Rows[0].Widgets[0].ID)
	assert.Equal(t, "carbon.widget.dust_index", doc.Views[0].Rows[0].Widgets[0].DefinitionID)
}

func TestDecodeManifestRejectsUnknownFields(t *testing.T) {
	const payload = `
widgets:
  - definition:
      code: carbon.widget.dust_index
      name: Dust Index
    provider:
      capabilities: [html]
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
}

func TestDecodeManifestErrors(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader(""))
	require.ErrorIs(t, err, errEmptyManifest)

	_, err = DecodeManifest(strings.NewReader("version: 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported manifest version")

	_, err = DecodeManifest(strings.NewReader("widgets:\n  - definition: {name: Nameless}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing definition.code")

	_, err = DecodeManifest(strings.NewReader("views:\n  - {code: v, name: A}\n  - {code: v, name: B}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates view code")
}

func TestRegistryLoadManifestDocument(t *testing.T) {
	doc := &ManifestDocument{
		Version: manifestVersionV1,
		Widgets: []ManifestWidget{
			{
				Definition: WidgetDefinition{
					Code: "carbon.widget.dust_index",
					Name: "Dust Index",
				},
				Provider: ManifestProvider{
					Name:    "Dust Provider",
					Summary: "Reads haul road dust sensors",
					Entry:   "github.com/example/dust.Provider",
				},
			},
		},
	}
	reg := NewRegistry()

	err := reg.LoadManifestDocument(doc)
	require.NoError(t, err)

	def, ok := reg.Definition("carbon.widget.dust_index")
	require.True(t, ok)
	assert.Equal(t, "Dust Index", def.Name)

	meta, ok := reg.ProviderMetadata("carbon.widget.dust_index")
	require.True(t, ok)
	assert.Equal(t, "Dust Provider", meta.Name)
	assert.Equal(t, "github.com/example/dust.Provider", meta.Entry)

	require.Error(t, reg.LoadManifestDocument(nil))
}

func TestManifestDuplicateCodes(t *testing.T) {
	const payload = `
widgets:
  - definition:
      code: dup.widget
      name: First
  - definition:
      code: dup.widget
      name: Second
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates widget code")
}

func TestMergeViews(t *testing.T) {
	base := DefaultViews()
	override := ViewDefinition{Code: ViewCommunity, Name: "Replaced"}
	extra := ViewDefinition{Code: "carbon.view.safety", Name: "Safety"}

	merged := MergeViews(base, []ViewDefinition{override, extra})
	require.Len(t, merged, 4)
	assert.Equal(t, ViewAdmin, merged[0].Code)
	assert.Equal(t, "Replaced", merged[1].Name)
	assert.Equal(t, "carbon.view.safety", merged[3].Code)
	assert.NotEqual(t, "Replaced", base[1].Name)
}

func TestDocsManifestsAreValid(t *testing.T) {
	dir := filepath.Join("..", "..", "docs", "manifests")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	registry := NewRegistry()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := ReadManifest(path)
		require.NoErrorf(t, err, "manifest %s should parse", path)
		require.NoError(t, registry.LoadManifestDocument(doc))
		for _, view := range doc.Views {
			view := view
			require.NoErrorf(t, ValidateView(registry, NewJSONSchemaValidator(), &view), "view %s in %s", view.Code, path)
		}
	}
}

func TestCommunityMapManifestMountsMap(t *testing.T) {
	svc, err := Bootstrap(BootstrapOptions{
		Manifests: []string{filepath.Join("..", "..", "docs", "manifests", "community-map.yaml")},
	})
	require.NoError(t, err)
	ctx := context.Background()
	viewer := ViewerContext{SessionID: "manifest"}
	_, err = svc.SelectRole(ctx, viewer, RoleCommunity)
	require.NoError(t, err)

	page, err := svc.Page(ctx, viewer)
	require.NoError(t, err)
	require.NotNil(t, page.Map)
	assert.Equal(t, 13, page.Map.Options.Zoom)
	assert.Equal(t, "map-community-map", page.Map.Options.Target)
}
