package dashboard

import (
	"context"

	"github.com/goliatone/go-carbon-dashboard/pkg/monitoring"
)

// Community advisories keyed by AQI level: the level label and the activity advice.
var communityAdvisories = map[monitoring.AQILevel][2]string{
	monitoring.AQIGood:     {"community.safe_level", "community.normal_activity"},
	monitoring.AQIModerate: {"community.moderate_level", "community.check_updates"},
	monitoring.AQIPoor:     {"community.poor_level", "community.stay_indoors"},
}

func newCommunityHeaderProvider() Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		lang := meta.State.Language
		return WidgetData{
			"title":    meta.T(ctx, "community.title", "Community Air Quality Dashboard", nil),
			"subtitle": meta.T(ctx, "community.subtitle", "", nil),
			"language": map[string]any{
				"current":  string(lang),
				"next":     string(lang.Toggle()),
				"checked":  lang == LanguageHindi,
				"label_en": meta.T(ctx, "community.language.en", "EN", nil),
				"label_hi": meta.T(ctx, "community.language.hi", "हिं", nil),
			},
		}, nil
	})
}

func newCommunityAQIProvider(repo monitoring.Repository) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		stations := repo.Stations(monitoring.SurfaceCommunity)
		rows := make([]map[string]any, len(stations))
		for i, station := range stations {
			cat := station.Category()
			advisory := communityAdvisories[cat.Level]
			rows[i] = map[string]any{
				"id":       station.ID,
				"name":     meta.T(ctx, station.LabelKey, station.Name, nil),
				"aqi":      station.AQI,
				"color":    cat.Color,
				"status":   meta.T(ctx, "community.status."+string(cat.Level), cat.Label, nil),
				"level":    meta.T(ctx, advisory[0], "", nil),
				"advice":   meta.T(ctx, advisory[1], "", nil),
				"category": categoryData(cat),
			}
		}
		return WidgetData{
			"title":           meta.T(ctx, "community.current_aqi", "Current Air Quality", nil),
			"locations_label": meta.T(ctx, "community.locations", "Monitored Locations", nil),
			"stations":        rows,
		}, nil
	})
}

func newHealthAlertsProvider(repo monitoring.Repository) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		good := monitoring.CategorizeAQI(monitoring.AQIGoodMax)
		moderate := monitoring.CategorizeAQI(monitoring.AQIModerateMax)
		return WidgetData{
			"title": meta.T(ctx, "community.alerts", "Health Alerts", nil),
			"alerts": []map[string]any{
				{
					"type":    "info",
					"message": meta.T(ctx, "community.alert.good", good.Message, nil),
					"icon":    good.Icon,
					"color":   good.Color,
				},
				{
					"type":    "warning",
					"message": meta.T(ctx, "community.alert.route", moderate.Message, nil),
					"icon":    moderate.Icon,
					"color":   moderate.Color,
				},
			},
		}, nil
	})
}

func newEducationProvider() Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		return WidgetData{
			"title":      meta.T(ctx, "community.education", "Educational Resources", nil),
			"aqi_title":  meta.T(ctx, "community.education.aqi_title", "Understanding AQI", nil),
			"aqi_body":   meta.T(ctx, "community.education.aqi_body", "", nil),
			"tips_title": meta.T(ctx, "community.education.tips_title", "Health Tips", nil),
			"tips": []string{
				meta.T(ctx, "community.education.tip_hydrate", "Stay hydrated", nil),
				meta.T(ctx, "community.education.tip_masks", "Use masks during high AQI", nil),
				meta.T(ctx, "community.education.tip_windows", "Keep windows closed", nil),
			},
		}, nil
	})
}

func newEngagementProvider(repo monitoring.Repository) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		enrolled := repo.Reported().CommunityEnrollment
		return WidgetData{
			"title": meta.T(ctx, "community.engagement.title", "Community Engagement", nil),
			"items": []map[string]any{
				{
					"label":  meta.T(ctx, "community.engagement.meeting", "Weekly Meeting", nil),
					"detail": meta.T(ctx, "community.engagement.meeting_time", "Sundays, 10 AM", nil),
					"icon":   "calendar",
				},
				{
					"label":  meta.T(ctx, "community.engagement.training", "SHG Training", nil),
					"detail": meta.T(ctx, "community.engagement.enrolled", "", map[string]any{"count": enrolled}),
					"badge":  meta.T(ctx, "community.engagement.active", "Active", nil),
				},
			},
			"join_label": meta.T(ctx, "community.engagement.join", "Join Community Group", nil),
		}, nil
	})
}
