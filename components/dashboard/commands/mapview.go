package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-carbon-dashboard/components/dashboard"
)

// SetMapLayerInput selects the map data layer.
type SetMapLayerInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
	Layer  string                  `json:"layer"`
}

// SetOverlaysInput shows or hides map overlays. Nil fields are left unchanged.
type SetOverlaysInput struct {
	Viewer  dashboard.ViewerContext `json:"viewer"`
	Heatmap *bool                   `json:"heatmap,omitempty"`
	Routes  *bool                   `json:"routes,omitempty"`
}

// ErrMissingOverlay is returned when an overlays update names no overlay.
var ErrMissingOverlay = errors.New("overlays command requires heatmap or routes")

type mapService interface {
	SetMapLayer(ctx context.Context, viewer dashboard.ViewerContext, layer dashboard.MapLayer) (dashboard.UIState, error)
	SetOverlays(ctx context.Context, viewer dashboard.ViewerContext, heatmap, routes *bool) (dashboard.UIState, error)
}

// SetMapLayerCommand switches between emissions, AQI and routes.
type SetMapLayerCommand struct {
	service   mapService
	telemetry Telemetry
}

// NewSetMapLayerCommand creates the command.
func NewSetMapLayerCommand(service mapService, telemetry Telemetry) *SetMapLayerCommand {
	return &SetMapLayerCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetMapLayerInput] = (*SetMapLayerCommand)(nil)

// Execute validates the layer and delegates to the dashboard service.
func (c *SetMapLayerCommand) Execute(ctx context.Context, msg SetMapLayerInput) error {
	if c.service == nil {
		return errors.New("map layer command requires service")
	}
	layer, err := dashboard.ParseMapLayer(msg.Layer)
	if err != nil {
		return err
	}
	state, err := c.service.SetMapLayer(ctx, msg.Viewer, layer)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.map_layer", map[string]any{
		"session": msg.Viewer.SessionID,
		"layer":   string(state.MapLayer),
	})
	return nil
}

// SetOverlaysCommand toggles the heatmap halo and route paths.
type SetOverlaysCommand struct {
	service   mapService
	telemetry Telemetry
}

// NewSetOverlaysCommand creates the command.
func NewSetOverlaysCommand(service mapService, telemetry Telemetry) *SetOverlaysCommand {
	return &SetOverlaysCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetOverlaysInput] = (*SetOverlaysCommand)(nil)

// Execute applies the provided overlay flags.
func (c *SetOverlaysCommand) Execute(ctx context.Context, msg SetOverlaysInput) error {
	if c.service == nil {
		return errors.New("overlays command requires service")
	}
	if msg.Heatmap == nil && msg.Routes == nil {
		return ErrMissingOverlay
	}
	state, err := c.service.SetOverlays(ctx, msg.Viewer, msg.Heatmap, msg.Routes)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.overlays", map[string]any{
		"session": msg.Viewer.SessionID,
		"heatmap": state.ShowHeatmap,
		"routes":  state.ShowRoutes,
	})
	return nil
}
