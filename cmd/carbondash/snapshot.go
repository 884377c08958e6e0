package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	core "github.com/goliatone/go-carbon-dashboard/components/dashboard"
	"github.com/goliatone/go-carbon-dashboard/pkg/dashboard"
)

// ViewerFlags select the state a one-off render is taken in.
type ViewerFlags struct {
	Role     string   `default:"admin" enum:"admin,community,operator" help:"Role whose view is rendered."`
	Lang     string   `default:"en" enum:"en,hi" help:"Language of the community view."`
	Layer    string   `default:"emissions" enum:"emissions,aqi,routes" help:"Map layer."`
	Manifest []string `type:"existingfile" env:"CARBONDASH_VIEWS" help:"View manifests applied over the built-in views."`
	Dataset  string   `type:"existingfile" env:"CARBONDASH_DATASET" help:"YAML dataset replacing the embedded fixtures."`
}

const snapshotSession = "carbondash-cli"

func (f ViewerFlags) prepare(ctx context.Context) (*dashboard.App, core.ViewerContext, error) {
	app, err := dashboard.New(dashboard.Config{Manifests: f.Manifest, DatasetPath: f.Dataset})
	if err != nil {
		return nil, core.ViewerContext{}, err
	}
	viewer := core.ViewerContext{SessionID: snapshotSession}
	role, err := core.ParseRole(f.Role)
	if err != nil {
		return nil, viewer, err
	}
	lang, err := core.ParseLanguage(f.Lang)
	if err != nil {
		return nil, viewer, err
	}
	layer, err := core.ParseMapLayer(f.Layer)
	if err != nil {
		return nil, viewer, err
	}
	if _, err := app.Service.SelectRole(ctx, viewer, role); err != nil {
		return nil, viewer, err
	}
	if _, err := app.Service.SetLanguage(ctx, viewer, lang); err != nil {
		return nil, viewer, err
	}
	if _, err := app.Service.SetMapLayer(ctx, viewer, layer); err != nil {
		return nil, viewer, err
	}
	return app, viewer, nil
}

type snapshotCmd struct {
	ViewerFlags `embed:""`
	Format string `default:"json" enum:"json,html" help:"Output format."`
	Out    string `type:"path" help:"Write to a file instead of stdout."`
}

func (cmd *snapshotCmd) Run(ctx context.Context, stdout io.Writer) error {
	app, viewer, err := cmd.prepare(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	out := stdout
	if cmd.Out != "" {
		f, err := os.Create(cmd.Out) //nolint:gosec
		if err != nil {
			return fmt.Errorf("carbondash: create %s: %w", cmd.Out, err)
		}
		defer f.Close()
		out = f
	}

	if cmd.Format == "html" {
		return app.Controller.RenderTemplate(ctx, viewer, out)
	}
	page, err := app.Service.Page(ctx, viewer)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}

type menuCmd struct {
	ViewerFlags `embed:""`
	Collapsed bool `help:"Lay the menu out for the collapsed sidebar."`
}

func (cmd *menuCmd) Run(ctx context.Context, out io.Writer) error {
	app, viewer, err := cmd.prepare(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	if _, err := app.Service.SetSidebar(ctx, viewer, !cmd.Collapsed); err != nil {
		return err
	}
	sidebar, err := app.Service.Sidebar(ctx, viewer)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(sidebar)
}
