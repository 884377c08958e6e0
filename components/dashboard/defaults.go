package dashboard

import (
	"github.com/go-echarts/go-echarts/v2/types"
)

// Widget definition codes.
const (
	WidgetKPIs             = "carbon.widget.kpis"
	WidgetEmissionMetrics  = "carbon.widget.emission_metrics"
	WidgetAQIMonitor       = "carbon.widget.aqi_monitor"
	WidgetCarbonCredits    = "carbon.widget.carbon_credits"
	WidgetRouteAnalytics   = "carbon.widget.route_analytics"
	WidgetESGReports       = "carbon.widget.esg_reports"
	WidgetGISMap           = "carbon.widget.gis_map"
	WidgetCommunityHeader  = "carbon.widget.community_header"
	WidgetCommunityAQI     = "carbon.widget.community_aqi"
	WidgetHealthAlerts     = "carbon.widget.health_alerts"
	WidgetEducation        = "carbon.widget.education"
	WidgetEngagement       = "carbon.widget.engagement"
	WidgetCurrentTrip      = "carbon.widget.current_trip"
	WidgetDayStats         = "carbon.widget.day_stats"
	WidgetRouteSuggestions = "carbon.widget.route_suggestions"
	WidgetAchievements     = "carbon.widget.achievements"
	WidgetFuelTrend        = "carbon.widget.fuel_trend"
)

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		Code:        WidgetKPIs,
		Name:        "Key Performance Indicators",
		Description: "Headline emission, fleet and credit figures",
		Category:    "stats",
		Schema:      strictObjectSchema(nil),
	},
	{
		Code:        WidgetEmissionMetrics,
		Name:        "Real-time Emission Tracking",
		Description: "CO₂ emissions per truck trip with AI predictions",
		Category:    "emissions",
		Schema: strictObjectSchema(map[string]any{
			"show_table":   map[string]any{"type": "boolean", "default": true},
			"chart_height": chartHeightSchema(),
			"theme":        chartThemeSchema(),
		}),
	},
	{
		Code:        WidgetAQIMonitor,
		Name:        "AQI Monitoring",
		Description: "Air quality across monitored locations",
		Category:    "air_quality",
		Schema: strictObjectSchema(map[string]any{
			"surface": map[string]any{
				"type":    "string",
				"enum":    []string{"monitor", "community", "map"},
				"default": "monitor",
			},
		}),
	},
	{
		Code:        WidgetCarbonCredits,
		Name:        "Carbon Credit Monetization",
		Description: "Revenue potential and credit tracking",
		Category:    "credits",
		Schema:      strictObjectSchema(nil),
	},
	{
		Code:        WidgetRouteAnalytics,
		Name:        "Route Analytics",
		Description: "Logistics efficiency and optimization",
		Category:    "logistics",
		Schema: strictObjectSchema(map[string]any{
			"show_distribution": map[string]any{"type": "boolean", "default": true},
			"chart_height":      chartHeightSchema(),
			"theme":             chartThemeSchema(),
		}),
	},
	{
		Code:        WidgetESGReports,
		Name:        "ESG Reporting",
		Description: "Automated compliance reports",
		Category:    "reports",
		Schema:      strictObjectSchema(nil),
	},
	{
		Code:        WidgetGISMap,
		Name:        "GIS Visualization",
		Description: "Emission heatmaps and route analysis",
		Category:    "maps",
		Schema: strictObjectSchema(map[string]any{
			"zoom":   map[string]any{"type": "integer", "minimum": 1, "maximum": 20, "default": DefaultMapZoom},
			"target": map[string]any{"type": "string", "pattern": "^[a-z][a-z0-9-]*$"},
		}),
	},
	{
		Code:          WidgetCommunityHeader,
		Name:          "Community Header",
		NameLocalized: map[string]string{"hi": "सामुदायिक शीर्षक"},
		Category:      "community",
		Schema:        strictObjectSchema(nil),
	},
	{
		Code:          WidgetCommunityAQI,
		Name:          "Current Air Quality",
		NameLocalized: map[string]string{"hi": "वर्तमान वायु गुणवत्ता"},
		Category:      "community",
		Schema:        strictObjectSchema(nil),
	},
	{
		Code:          WidgetHealthAlerts,
		Name:          "Health Alerts",
		NameLocalized: map[string]string{"hi": "स्वास्थ्य चेतावनी"},
		Category:      "community",
		Schema:        strictObjectSchema(nil),
	},
	{
		Code:          WidgetEducation,
		Name:          "Educational Resources",
		NameLocalized: map[string]string{"hi": "शैक्षिक संसाधन"},
		Category:      "community",
		Schema:        strictObjectSchema(nil),
	},
	{
		Code:          WidgetEngagement,
		Name:          "Community Engagement",
		NameLocalized: map[string]string{"hi": "सामुदायिक सहभागिता"},
		Category:      "community",
		Schema:        strictObjectSchema(nil),
	},
	{
		Code:     WidgetCurrentTrip,
		Name:     "Current Trip",
		Category: "operator",
		Schema:   strictObjectSchema(nil),
	},
	{
		Code:        WidgetDayStats,
		Name:        "Today's Performance",
		Description: "Trips, fuel efficiency, emissions and savings",
		Category:    "operator",
		Schema:      strictObjectSchema(nil),
	},
	{
		Code:        WidgetRouteSuggestions,
		Name:        "Route Optimization Suggestions",
		Description: "AI-powered route recommendations for your next trip",
		Category:    "operator",
		Schema:      strictObjectSchema(nil),
	},
	{
		Code:        WidgetAchievements,
		Name:        "Your Achievements",
		Description: "Environmental impact milestones",
		Category:    "operator",
		Schema:      strictObjectSchema(nil),
	},
	{
		Code:        WidgetFuelTrend,
		Name:        "Fuel Efficiency Trend",
		Description: "Monthly km/L against target",
		Category:    "operator",
		Schema: strictObjectSchema(map[string]any{
			"chart_height": chartHeightSchema(),
			"theme":        chartThemeSchema(),
		}),
	},
}

func strictObjectSchema(props map[string]any) map[string]any {
	if props == nil {
		props = map[string]any{}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

func chartHeightSchema() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": "^[0-9]+px$",
		"default": defaultChartHeight,
	}
}

func chartThemeSchema() map[string]any {
	return map[string]any{
		"type": "string",
		"enum": []string{
			types.ThemeWesteros,
			types.ThemeWalden,
			types.ThemeWonderland,
			types.ThemeChalk,
		},
	}
}

var defaultViews = []ViewDefinition{
	{
		Code:        ViewAdmin,
		Name:        "Admin Dashboard",
		Description: "Fleet emissions, air quality, credits and compliance",
		Rows: []LayoutRow{
			{Widgets: []WidgetInstance{{ID: "admin-kpis", DefinitionID: WidgetKPIs, Width: 12}}},
			{Widgets: []WidgetInstance{
				{ID: "admin-emissions", DefinitionID: WidgetEmissionMetrics, Width: 8},
				{ID: "admin-aqi", DefinitionID: WidgetAQIMonitor, Width: 4, Configuration: map[string]any{"surface": "monitor"}},
			}},
			{Widgets: []WidgetInstance{
				{ID: "admin-map", DefinitionID: WidgetGISMap, Width: 6},
				{ID: "admin-routes", DefinitionID: WidgetRouteAnalytics, Width: 6},
			}},
			{Widgets: []WidgetInstance{
				{ID: "admin-credits", DefinitionID: WidgetCarbonCredits, Width: 6},
				{ID: "admin-esg", DefinitionID: WidgetESGReports, Width: 6},
			}},
		},
	},
	{
		Code:        ViewCommunity,
		Name:        "Community Dashboard",
		Description: "Local air quality, health alerts and engagement",
		Rows: []LayoutRow{
			{Widgets: []WidgetInstance{{ID: "community-header", DefinitionID: WidgetCommunityHeader, Width: 12}}},
			{Widgets: []WidgetInstance{{ID: "community-aqi", DefinitionID: WidgetCommunityAQI, Width: 12}}},
			{Widgets: []WidgetInstance{{ID: "community-alerts", DefinitionID: WidgetHealthAlerts, Width: 12}}},
			{Widgets: []WidgetInstance{
				{ID: "community-education", DefinitionID: WidgetEducation, Width: 6},
				{ID: "community-engagement", DefinitionID: WidgetEngagement, Width: 6},
			}},
		},
	},
	{
		Code:        ViewOperator,
		Name:        "Operator Dashboard",
		Description: "Trip progress, daily performance and route advice",
		Rows: []LayoutRow{
			{Widgets: []WidgetInstance{{ID: "operator-trip", DefinitionID: WidgetCurrentTrip, Width: 12}}},
			{Widgets: []WidgetInstance{{ID: "operator-stats", DefinitionID: WidgetDayStats, Width: 12}}},
			{Widgets: []WidgetInstance{
				{ID: "operator-suggestions", DefinitionID: WidgetRouteSuggestions, Width: 6},
				{ID: "operator-achievements", DefinitionID: WidgetAchievements, Width: 6},
			}},
			{Widgets: []WidgetInstance{{ID: "operator-fuel", DefinitionID: WidgetFuelTrend, Width: 12}}},
		},
	},
}

// DefaultWidgetDefinitions returns copies of built-in widget definitions.
func DefaultWidgetDefinitions() []WidgetDefinition {
	out := make([]WidgetDefinition, len(defaultWidgetDefinitions))
	copy(out, defaultWidgetDefinitions)
	return out
}

// DefaultViews returns deep copies of the built-in role views.
func DefaultViews() []ViewDefinition {
	out := make([]ViewDefinition, len(defaultViews))
	for i, view := range defaultViews {
		out[i] = cloneView(view)
	}
	return out
}

func cloneView(view ViewDefinition) ViewDefinition {
	rows := make([]LayoutRow, len(view.Rows))
	for i, row := range view.Rows {
		widgets := make([]WidgetInstance, len(row.Widgets))
		for j, inst := range row.Widgets {
			inst.Configuration = cloneMap(inst.Configuration)
			inst.Metadata = cloneMap(inst.Metadata)
			widgets[j] = inst
		}
		rows[i] = LayoutRow{Widgets: widgets}
	}
	view.Rows = rows
	return view
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
