package main

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/goliatone/go-carbon-dashboard/components/dashboard"
)

func TestDeriveBaseName(t *testing.T) {
	assert.Equal(t, "NoiseLevels", deriveBaseName("carbon.widget.noise_levels"))
	assert.Equal(t, "Stats", deriveBaseName("acme.stats"))
}

func TestScaffoldPlacesWidgetInBuiltInView(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifests", "noise.yaml")
	cmd := &manifestScaffoldCmd{
		Code:         "carbon.widget.noise_levels",
		Name:         "Noise Levels",
		Description:  "Street noise by ward",
		Category:     "monitoring",
		ManifestPath: path,
		View:         core.ViewOperator,
		Width:        6,
	}
	require.NoError(t, cmd.Run(context.Background(), io.Discard))

	doc, err := core.ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)
	assert.Equal(t, "NewNoiseLevelsProvider", doc.Widgets[0].Provider.Entry)
	require.Len(t, doc.Views, 1)
	view := doc.Views[0]
	assert.Equal(t, core.ViewOperator, view.Code)
	last := view.Rows[len(view.Rows)-1].Widgets
	require.Len(t, last, 1)
	assert.Equal(t, "noise-levels", last[0].ID)
	assert.Equal(t, 6, last[0].Width)

	err = cmd.Run(context.Background(), io.Discard)
	assert.ErrorContains(t, err, "already defines widget")

	validate := &manifestValidateCmd{Paths: []string{path}}
	assert.NoError(t, validate.Run(context.Background(), io.Discard))
}

func TestScaffoldRejectsUnknownView(t *testing.T) {
	cmd := &manifestScaffoldCmd{
		Code:         "carbon.widget.noise",
		Name:         "Noise",
		Description:  "Noise",
		ManifestPath: filepath.Join(t.TempDir(), "noise.yaml"),
		View:         "carbon.view.mayor",
	}
	assert.ErrorIs(t, cmd.Run(context.Background(), io.Discard), core.ErrViewNotFound)
}

func TestViewerFlagsPrepare(t *testing.T) {
	flags := ViewerFlags{Role: "community", Lang: "hi", Layer: "aqi"}
	app, viewer, err := flags.prepare(context.Background())
	require.NoError(t, err)
	defer app.Close()

	state, err := app.Service.State(context.Background(), viewer)
	require.NoError(t, err)
	assert.Equal(t, core.RoleCommunity, state.Role)
	assert.Equal(t, core.LanguageHindi, state.Language)
	assert.Equal(t, core.LayerAQI, state.MapLayer)

	_, _, err = ViewerFlags{Role: "mayor", Lang: "en", Layer: "aqi"}.prepare(context.Background())
	assert.ErrorIs(t, err, core.ErrUnknownRole)
}
