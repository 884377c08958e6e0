package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goliatone/go-carbon-dashboard/pkg/monitoring"
)

func newCurrentTripProvider(repo monitoring.Repository) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		trip := repo.CurrentTrip()
		return WidgetData{
			"id":                trip.ID,
			"route":             trip.Route,
			"distance":          fmt.Sprintf("%s km", trimFloat(trip.Distance)),
			"load":              fmt.Sprintf("%s tonnes", trimFloat(trip.Load)),
			"fuel":              fmt.Sprintf("%s L", trimFloat(trip.FuelUsed)),
			"co2":               fmt.Sprintf("%s kg", trimFloat(trip.CO2)),
			"start_time":        trip.StartTime,
			"estimated_arrival": trip.EstimatedArrival,
			"status":            trip.Status,
			"progress":          monitoring.Round(trip.Progress),
		}, nil
	})
}

func newDayStatsProvider(repo monitoring.Repository) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		stats := repo.DayStats()
		return WidgetData{
			"cards": []map[string]any{
				{"title": "Trips Completed", "value": strconv.Itoa(stats.TripsCompleted), "note": "Today", "icon": "truck", "color": "#1E3A8A"},
				{"title": "Fuel Efficiency", "value": fmt.Sprintf("%.1f km/L", stats.FuelEfficiency()), "note": "km/L", "icon": "fuel", "color": "#15803D"},
				{"title": "CO₂ Emissions", "value": fmt.Sprintf("%s kg", trimFloat(stats.TotalCO2)), "note": "Total today", "icon": "trending-down", "color": ""},
				{"title": "Fuel Savings", "value": formatRupees(stats.Savings), "note": "This month", "icon": "dollar-sign", "color": "#15803D"},
			},
			"total_distance": fmt.Sprintf("%s km", trimFloat(stats.TotalDistance)),
			"total_fuel":     fmt.Sprintf("%s L", trimFloat(stats.TotalFuel)),
		}, nil
	})
}

func newRouteSuggestionsProvider(repo monitoring.Repository) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		suggestions := repo.Suggestions()
		var current monitoring.RouteSuggestion
		for _, s := range suggestions {
			if s.Current {
				current = s
				break
			}
		}
		rows := make([]map[string]any, len(suggestions))
		for i, s := range suggestions {
			row := map[string]any{
				"name":        s.Name,
				"distance":    fmt.Sprintf("%s km", trimFloat(s.Distance)),
				"fuel":        fmt.Sprintf("%s L", trimFloat(s.Fuel)),
				"co2":         fmt.Sprintf("%s kg", trimFloat(s.CO2)),
				"time":        s.Time,
				"current":     s.Current,
				"recommended": s.Recommended,
			}
			if !s.Current && current.CO2 > 0 {
				if saving := monitoring.CO2Savings(current, s); saving > 0 {
					row["savings_percent"] = saving
					row["savings"] = fmt.Sprintf("%d%% less CO₂", saving)
				}
			}
			rows[i] = row
		}
		return WidgetData{
			"suggestions":  rows,
			"action_label": "Use Recommended Route",
		}, nil
	})
}

func newAchievementsProvider(repo monitoring.Repository) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		achievements := repo.Achievements()
		rows := make([]map[string]any, len(achievements))
		earned := 0
		for i, a := range achievements {
			if a.Earned {
				earned++
			}
			rows[i] = map[string]any{
				"title":       a.Title,
				"description": a.Description,
				"icon":        a.Icon,
				"color":       a.Color,
				"earned":      a.Earned,
			}
		}
		return WidgetData{
			"achievements": rows,
			"earned":       earned,
		}, nil
	})
}

func newFuelTrendProvider(repo monitoring.Repository, charts *ChartRenderer) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		cfg := meta.Instance.Configuration
		trend := repo.FuelTrend()
		axis := make([]string, len(trend))
		efficiency := make([]ChartPoint, len(trend))
		target := make([]ChartPoint, len(trend))
		for i, point := range trend {
			axis[i] = point.Month
			efficiency[i] = ChartPoint{Label: point.Month, Value: point.Efficiency}
			target[i] = ChartPoint{Label: point.Month, Value: point.Target}
		}
		html, err := charts.Render(chartKey(meta), ChartSpec{
			Kind:  ChartLine,
			Title: "Fuel Efficiency Trend",
			XAxis: axis,
			Series: []ChartSeries{
				{Name: "Efficiency (km/L)", Points: efficiency, Color: "#15803D"},
				{Name: "Target", Points: target, Color: "#F59E0B", Dashed: true},
			},
			Height: stringValue(cfg["chart_height"], "220px"),
			Theme:  stringValue(cfg["theme"], ""),
		})
		if err != nil {
			return nil, err
		}
		data := WidgetData{"chart_html": html}
		if n := len(trend); n > 0 {
			latest := trend[n-1]
			data["latest"] = fmt.Sprintf("%.1f km/L", latest.Efficiency)
			data["on_target"] = latest.Efficiency >= latest.Target
		}
		return data, nil
	})
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
