package dashboard

import (
	"context"
	"fmt"

	"github.com/goliatone/go-carbon-dashboard/pkg/monitoring"
)

// MetadataMapMount is the instance metadata key the service stores the mounted map under.
const MetadataMapMount = "map_mount"

type legendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Shape string `json:"shape"`
	Dash  bool   `json:"dash,omitempty"`
}

var mapLegends = map[MapLayer][]legendEntry{
	LayerEmissions: {
		{Label: "High Emissions (>80 kg CO₂)", Color: monitoring.IntensityHigh.Color(), Shape: "dot"},
		{Label: "Medium Emissions (40-80 kg)", Color: monitoring.IntensityMedium.Color(), Shape: "dot"},
		{Label: "Low Emissions (<40 kg)", Color: monitoring.IntensityLow.Color(), Shape: "dot"},
	},
	LayerAQI: {
		{Label: "Good (0-50)", Color: "#15803D", Shape: "dot"},
		{Label: "Moderate (51-100)", Color: "#F59E0B", Shape: "dot"},
		{Label: "Poor (>100)", Color: "#DC2626", Shape: "dot"},
	},
	LayerRoutes: {
		{Label: "Optimized Route", Color: "#15803D", Shape: "line"},
		{Label: "Alternative Route", Color: "#F59E0B", Shape: "line"},
		{Label: "High Emission Route", Color: "#DC2626", Shape: "line", Dash: true},
	},
}

var mapLayerButtons = map[MapLayer][2]string{
	LayerEmissions: {"Emissions", "zap"},
	LayerAQI:       {"AQI", "wind"},
	LayerRoutes:    {"Routes", "route"},
}

// EmissionOverlayOffset positions a hotspot marker in percent of the map box.
func EmissionOverlayOffset(id int) (left, top int) {
	return 20 + 15*id, 25 + 12*id
}

// AQIOverlayOffset positions a station marker in percent of the map box.
func AQIOverlayOffset(id int) (left, top int) {
	return 15 + 20*id, 30 + 15*id
}

func newMapProvider(repo monitoring.Repository) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		state := meta.State
		layer := state.MapLayer
		if _, ok := mapLegends[layer]; !ok {
			layer = DefaultMapLayer
		}

		buttons := make([]map[string]any, 0, len(MapLayers()))
		for _, l := range MapLayers() {
			btn := mapLayerButtons[l]
			buttons = append(buttons, map[string]any{
				"value":  string(l),
				"label":  btn[0],
				"icon":   btn[1],
				"active": l == layer,
			})
		}

		var overlays []map[string]any
		switch layer {
		case LayerEmissions:
			for _, h := range repo.Hotspots() {
				left, top := EmissionOverlayOffset(h.ID)
				intensity := h.Intensity()
				overlays = append(overlays, map[string]any{
					"id":        h.ID,
					"left":      left,
					"top":       top,
					"color":     intensity.Color(),
					"intensity": string(intensity),
					"halo":      state.ShowHeatmap,
					"label":     h.Type,
					"detail":    fmt.Sprintf("%s kg CO₂", trimFloat(h.Value)),
				})
			}
		case LayerAQI:
			for _, s := range repo.Stations(monitoring.SurfaceMap) {
				left, top := AQIOverlayOffset(s.ID)
				cat := s.Category()
				overlays = append(overlays, map[string]any{
					"id":     s.ID,
					"left":   left,
					"top":    top,
					"color":  cat.Color,
					"aqi":    s.AQI,
					"label":  s.MapLabel(),
					"detail": fmt.Sprintf("AQI: %d (%s)", s.AQI, cat.Label),
				})
			}
		}

		data := WidgetData{
			"title":        DefaultMapTitle,
			"subtitle":     DefaultMapSubtitle,
			"active_layer": string(layer),
			"layers":       buttons,
			"legend":       mapLegends[layer],
			"overlays":     overlays,
			"show_heatmap": state.ShowHeatmap,
			"show_routes":  state.ShowRoutes,
			"coordinates":  CoordinateLabel(DefaultMapLat, DefaultMapLon),
		}

		if layer == LayerRoutes {
			routes := repo.MapRoutes()
			summaries := make([]map[string]any, len(routes))
			paths := make([]map[string]any, 0, len(routes))
			for i, r := range routes {
				summaries[i] = map[string]any{
					"name":       r.Name,
					"efficiency": r.Efficiency,
					"emissions":  r.Emissions,
					"distance":   fmt.Sprintf("%s km", trimFloat(r.Distance)),
					"color":      r.Color,
				}
				if state.ShowRoutes {
					paths = append(paths, map[string]any{
						"id":    r.ID,
						"d":     r.Path,
						"color": r.Color,
						"width": r.Width,
						"dash":  r.Dash,
					})
				}
			}
			data["routes"] = summaries
			data["paths"] = paths
		}

		if mount, ok := meta.Instance.Metadata[MetadataMapMount].(MapMount); ok {
			data["map"] = mount
		}
		return data, nil
	})
}
