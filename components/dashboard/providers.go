package dashboard

import (
	"github.com/goliatone/go-carbon-dashboard/pkg/monitoring"
)

// defaultProviders binds every built-in widget code to its provider.
func defaultProviders(repo monitoring.Repository, charts *ChartRenderer) map[string]Provider {
	return map[string]Provider{
		WidgetKPIs:             newKPIProvider(repo),
		WidgetEmissionMetrics:  newEmissionMetricsProvider(repo, charts),
		WidgetAQIMonitor:       newAQIMonitorProvider(repo),
		WidgetCarbonCredits:    newCarbonCreditsProvider(repo),
		WidgetRouteAnalytics:   newRouteAnalyticsProvider(repo, charts),
		WidgetESGReports:       newESGReportsProvider(repo),
		WidgetGISMap:           newMapProvider(repo),
		WidgetCommunityHeader:  newCommunityHeaderProvider(),
		WidgetCommunityAQI:     newCommunityAQIProvider(repo),
		WidgetHealthAlerts:     newHealthAlertsProvider(repo),
		WidgetEducation:        newEducationProvider(),
		WidgetEngagement:       newEngagementProvider(repo),
		WidgetCurrentTrip:      newCurrentTripProvider(repo),
		WidgetDayStats:         newDayStatsProvider(repo),
		WidgetRouteSuggestions: newRouteSuggestionsProvider(repo),
		WidgetAchievements:     newAchievementsProvider(repo),
		WidgetFuelTrend:        newFuelTrendProvider(repo, charts),
	}
}

func categoryData(cat monitoring.AQICategory) map[string]any {
	return map[string]any{
		"level":   string(cat.Level),
		"label":   cat.Label,
		"color":   cat.Color,
		"message": cat.Message,
		"icon":    cat.Icon,
	}
}

// statusColor maps an active/verified style label to its badge color.
func statusColor(positive bool) string {
	if positive {
		return "#15803D"
	}
	return "#F59E0B"
}

func chartKey(meta WidgetContext) string {
	return meta.Instance.DefinitionID + ":" + meta.Instance.ID
}
