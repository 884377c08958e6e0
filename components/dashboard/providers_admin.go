package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goliatone/go-carbon-dashboard/pkg/monitoring"
)

const kpiAverageAQI = "aqi"

func newKPIProvider(repo monitoring.Repository) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		kpis := repo.KPIs()
		avg := monitoring.AverageAQI(repo.Stations(monitoring.SurfaceMonitor))
		cards := make([]map[string]any, 0, len(kpis))
		for _, kpi := range kpis {
			value := kpi.Value
			if kpi.Code == kpiAverageAQI {
				value = strconv.Itoa(avg)
			}
			changeColor := "#F59E0B"
			if kpi.Trend == "down" {
				changeColor = "#15803D"
			}
			cards = append(cards, map[string]any{
				"code":         kpi.Code,
				"title":        kpi.Title,
				"value":        value,
				"change":       kpi.Change,
				"change_color": changeColor,
				"trend":        kpi.Trend,
				"icon":         kpi.Icon,
				"color":        kpi.Color,
			})
		}
		return WidgetData{
			"cards":       cards,
			"average_aqi": avg,
			"period_note": "from last month",
		}, nil
	})
}

func newEmissionMetricsProvider(repo monitoring.Repository, charts *ChartRenderer) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		cfg := meta.Instance.Configuration
		samples := repo.Emissions()
		axis := make([]string, len(samples))
		points := make([]ChartPoint, len(samples))
		for i, sample := range samples {
			axis[i] = sample.Time
			points[i] = ChartPoint{Label: sample.Time, Value: sample.CO2}
		}
		html, err := charts.Render(chartKey(meta), ChartSpec{
			Kind:   ChartLine,
			Title:  "Real-time CO₂ Emissions",
			XAxis:  axis,
			Series: []ChartSeries{{Name: "CO₂ (kg)", Points: points, Color: "#1E3A8A"}},
			Height: stringValue(cfg["chart_height"], "250px"),
			Theme:  stringValue(cfg["theme"], ""),
		})
		if err != nil {
			return nil, err
		}

		vehicles := repo.Vehicles()
		rows := make([]map[string]any, len(vehicles))
		for i, v := range vehicles {
			efficient := monitoring.EfficientVehicle(v)
			trend, trendColor := "down", "#15803D"
			if i%2 == 1 {
				trend, trendColor = "up", "#F59E0B"
			}
			rows[i] = map[string]any{
				"id":               v.ID,
				"trips":            v.Trips,
				"type":             v.Type,
				"co2":              v.CO2,
				"weight":           v.Weight,
				"fuel":             v.Fuel,
				"efficiency":       fmt.Sprintf("%.1f km/L", v.Efficiency),
				"efficient":        efficient,
				"efficiency_color": statusColor(efficient),
				"status":           v.Status,
				"status_color":     statusColor(v.Status == "Active"),
				"trend":            trend,
				"trend_color":      trendColor,
			}
		}

		reported := repo.Reported()
		return WidgetData{
			"chart_html": html,
			"show_table": boolValue(cfg["show_table"], true),
			"vehicles":   rows,
			"totals":     monitoring.SumFleet(vehicles),
			"insights": []map[string]any{
				{"label": "AI Model Accuracy", "value": reported.ModelAccuracy, "color": "#1E3A8A"},
				{"label": "Emission Reduction", "value": reported.EmissionReduction, "color": "#15803D"},
				{"label": "Trip Records Processed", "value": formatNumber(float64(reported.TripRecords)), "color": "#F59E0B"},
			},
		}, nil
	})
}

func newAQIMonitorProvider(repo monitoring.Repository) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		surface := monitoring.Surface(stringValue(meta.Instance.Configuration["surface"], string(monitoring.SurfaceMonitor)))
		stations := repo.Stations(surface)
		reported := repo.Reported()
		rows := make([]map[string]any, len(stations))
		for i, station := range stations {
			rows[i] = map[string]any{
				"id":           station.ID,
				"name":         station.Name,
				"aqi":          station.AQI,
				"pm25":         station.PM25,
				"pm10":         station.PM10,
				"category":     categoryData(station.Category()),
				"progress":     monitoring.AQIProgress(station.AQI),
				"scale":        fmt.Sprintf("%d/%d", station.AQI, monitoring.AQIScaleMax),
				"trend":        station.Trend,
				"trend_color":  monitoring.TrendColor(station.Trend),
				"last_updated": reported.LastUpdated,
			}
		}
		avg := monitoring.AverageAQI(stations)
		trend := make([]map[string]any, 0, len(repo.AQITrend())+1)
		for _, reading := range repo.AQITrend() {
			trend = append(trend, map[string]any{"label": reading.Label, "aqi": reading.AQI})
		}
		trend = append(trend, map[string]any{"label": "Now", "aqi": avg, "current": true})
		return WidgetData{
			"stations":          rows,
			"average_aqi":       avg,
			"average_category":  categoryData(monitoring.CategorizeAQI(avg)),
			"trend":             trend,
			"trend_improvement": reported.TrendImprovement,
		}, nil
	})
}

func newCarbonCreditsProvider(repo monitoring.Repository) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		summary := repo.Credits()
		txs := repo.Transactions()
		rows := make([]map[string]any, len(txs))
		for i, tx := range txs {
			rows[i] = map[string]any{
				"date":         tx.Date,
				"buyer":        tx.Buyer,
				"credits":      tx.Credits,
				"revenue":      formatRupees(tx.Revenue),
				"status":       tx.Status,
				"status_color": statusColor(tx.Verified()),
			}
		}
		return WidgetData{
			"total_credits":        summary.TotalCredits,
			"monthly_earned":       summary.MonthlyEarned,
			"revenue":              formatRupees(summary.PotentialRevenue),
			"verified_credits":     summary.VerifiedCredits,
			"pending_verification": summary.PendingVerification,
			"verification_percent": monitoring.VerificationPercent(summary),
			"market_price":         formatRupees(summary.MarketPrice),
			"market_change":        summary.MarketChange,
			"standard":             summary.Standard,
			"transactions":         rows,
			"totals":               monitoring.SumTransactions(txs),
		}, nil
	})
}

func newRouteAnalyticsProvider(repo monitoring.Repository, charts *ChartRenderer) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		cfg := meta.Instance.Configuration
		routes := repo.RouteEfficiency()
		totals := monitoring.RouteTotals(routes)
		reported := repo.Reported()
		height := stringValue(cfg["chart_height"], "200px")
		theme := stringValue(cfg["theme"], "")

		axis := make([]string, len(routes))
		points := make([]ChartPoint, len(routes))
		for i, route := range routes {
			axis[i] = route.Route
			points[i] = ChartPoint{Label: route.Route, Value: route.Efficiency}
		}
		barHTML, err := charts.Render(chartKey(meta)+":efficiency", ChartSpec{
			Kind:   ChartBar,
			Title:  "Route Performance",
			XAxis:  axis,
			Series: []ChartSeries{{Name: "Efficiency (%)", Points: points, Color: "#1E3A8A"}},
			Height: height,
			Theme:  theme,
		})
		if err != nil {
			return nil, err
		}

		data := WidgetData{
			"total_trips":       totals.TotalTrips,
			"avg_efficiency":    totals.AvgEfficiency,
			"fuel_saved":        fmt.Sprintf("%.1fL", totals.FuelSaved),
			"route_improvement": reported.RouteImprovement,
			"bar_chart_html":    barHTML,
		}
		if best, worst, ok := monitoring.BestAndWorst(routes); ok {
			data["recommendations"] = []map[string]any{
				{
					"title":  best.Route + " - High Performance",
					"detail": fmt.Sprintf("Highest efficiency with %s%% fuel optimization. Recommend increasing allocation.", strconv.FormatFloat(best.Efficiency, 'f', -1, 64)),
					"color":  "#15803D",
				},
				{
					"title":  worst.Route + " - Needs Improvement",
					"detail": "Below target efficiency. Consider route modifications or reduced usage.",
					"color":  "#F59E0B",
				},
			}
		}

		if boolValue(cfg["show_distribution"], true) {
			shares := repo.TripDistribution()
			slices := make([]ChartPoint, len(shares))
			breakdown := make([]map[string]any, len(shares))
			for i, share := range shares {
				slices[i] = ChartPoint{Label: share.Name, Value: share.Value, Color: share.Color}
				breakdown[i] = map[string]any{
					"name":  share.Name,
					"value": fmt.Sprintf("%s%%", strconv.FormatFloat(share.Value, 'f', -1, 64)),
					"color": share.Color,
				}
			}
			pieHTML, err := charts.Render(chartKey(meta)+":trip_time", ChartSpec{
				Kind:   ChartPie,
				Title:  "Trip Time Analysis",
				Series: []ChartSeries{{Name: "Trip time", Points: slices}},
				Height: height,
				Theme:  theme,
			})
			if err != nil {
				return nil, err
			}
			data["pie_chart_html"] = pieHTML
			data["breakdown"] = breakdown
			data["average_trip_time"] = reported.AverageTripTime
			data["trip_time_vs_target"] = reported.TripTimeVsTarget
		}
		return data, nil
	})
}

func newESGReportsProvider(repo monitoring.Repository) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		reports := repo.Reports()
		rows := make([]map[string]any, len(reports))
		for i, report := range reports {
			rows[i] = map[string]any{
				"title":  report.Title,
				"period": report.Period,
				"status": report.Status,
				"ready":  report.Status == "Ready",
			}
		}
		reported := repo.Reported()
		return WidgetData{
			"reports":            rows,
			"compliance_score":   reported.ComplianceScore,
			"emission_reduction": reported.ESGReduction,
		}, nil
	})
}
