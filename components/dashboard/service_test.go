package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEngine struct {
	mu       sync.Mutex
	inits    int
	disposed map[string]int
}

func newCountingEngine() *countingEngine {
	return &countingEngine{disposed: map[string]int{}}
}

func (e *countingEngine) Init(ctx context.Context, opts MapOptions) (MapInstance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inits++
	return &countingInstance{engine: e, id: fmt.Sprintf("map-%d", e.inits), opts: opts}, nil
}

func (e *countingEngine) disposals(id string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed[id]
}

type countingInstance struct {
	engine *countingEngine
	id     string
	opts   MapOptions
}

func (i *countingInstance) ID() string          { return i.id }
func (i *countingInstance) Options() MapOptions { return i.opts }
func (i *countingInstance) Dispose() error {
	i.engine.mu.Lock()
	defer i.engine.mu.Unlock()
	i.engine.disposed[i.id]++
	return nil
}

type recordingHook struct {
	events []StateEvent
	err    error
}

func (h *recordingHook) StateChanged(_ context.Context, event StateEvent) error {
	h.events = append(h.events, event)
	return h.err
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (t *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *recordingTelemetry) has(event string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.events {
		if e == event {
			return true
		}
	}
	return false
}

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	svc := NewService(opts)
	require.NoError(t, svc.initErr)
	return svc
}

var testViewer = ViewerContext{SessionID: "session-1"}

func TestServicePageDefaultsToAdminView(t *testing.T) {
	svc := newTestService(t, Options{})
	page, err := svc.Page(context.Background(), testViewer)
	require.NoError(t, err)

	assert.Equal(t, ViewAdmin, page.View.Code)
	assert.Equal(t, RoleAdmin, page.State.Role)
	require.Len(t, page.Rows, 4)
	assert.Len(t, page.Rows[0].Widgets, 1)
	assert.Equal(t, WidgetKPIs, page.Rows[0].Widgets[0].Definition)
	assert.Equal(t, "widgets/kpis.html", page.Rows[0].Widgets[0].Template)
	assert.Equal(t, "widget-admin-kpis", page.Rows[0].Widgets[0].DOMID)
	assert.Equal(t, 8, page.Rows[1].Widgets[0].Width)
	assert.Equal(t, 4, page.Rows[1].Widgets[1].Width)

	assert.True(t, page.Sidebar.Open)
	assert.Len(t, page.Sidebar.Items, 7)
	require.NotNil(t, page.Sidebar.Status)
	assert.Equal(t, 47, page.Sidebar.Status.SensorsOnline)
	assert.Equal(t, "2 min ago", page.Header.LastUpdated)
	require.Len(t, page.Roles, 3)
	assert.True(t, page.Roles[0].Selected)
}

func TestServicePageComputesAverageAQI(t *testing.T) {
	svc := newTestService(t, Options{})
	page, err := svc.Page(context.Background(), testViewer)
	require.NoError(t, err)

	kpis, ok := page.Widget(WidgetKPIs)
	require.True(t, ok)
	cards, ok := kpis.Data["cards"].([]map[string]any)
	require.True(t, ok)
	var aqi map[string]any
	for _, card := range cards {
		if card["code"] == "aqi" {
			aqi = card
		}
	}
	require.NotNil(t, aqi)
	assert.Equal(t, "70", aqi["value"])

	monitor, ok := page.Widget(WidgetAQIMonitor)
	require.True(t, ok)
	assert.Equal(t, 70, monitor.Data["average_aqi"])
}

func TestServiceSelectRoleSwitchesView(t *testing.T) {
	hook := &recordingHook{}
	telemetry := &recordingTelemetry{}
	svc := newTestService(t, Options{RefreshHook: hook, Telemetry: telemetry})
	ctx := context.Background()

	state, err := svc.SelectRole(ctx, testViewer, RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, RoleOperator, state.Role)

	page, err := svc.Page(ctx, testViewer)
	require.NoError(t, err)
	assert.Equal(t, ViewOperator, page.View.Code)
	_, ok := page.Widget(WidgetCurrentTrip)
	assert.True(t, ok)
	_, ok = page.Widget(WidgetKPIs)
	assert.False(t, ok)

	require.Len(t, hook.events, 1)
	assert.Equal(t, ReasonRole, hook.events[0].Reason)
	assert.Equal(t, "session-1", hook.events[0].SessionID)
	assert.True(t, telemetry.has("dashboard.state.role"))
	assert.True(t, telemetry.has("dashboard.page.render"))
}

func TestServiceSelectRoleRejectsUnknownRole(t *testing.T) {
	hook := &recordingHook{}
	svc := newTestService(t, Options{RefreshHook: hook})
	_, err := svc.SelectRole(context.Background(), testViewer, Role("mayor"))
	require.ErrorIs(t, err, ErrUnknownRole)
	assert.Empty(t, hook.events)

	state, err := svc.State(context.Background(), testViewer)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, state.Role)
}

func TestServiceSettersRequireSession(t *testing.T) {
	svc := newTestService(t, Options{})
	_, err := svc.ToggleSidebar(context.Background(), ViewerContext{})
	require.ErrorIs(t, err, ErrMissingSession)
	require.ErrorIs(t, svc.EndSession(context.Background(), ViewerContext{}), ErrMissingSession)
}

func TestServiceToggleSidebarCollapsesMenu(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	state, err := svc.ToggleSidebar(ctx, testViewer)
	require.NoError(t, err)
	assert.False(t, state.SidebarOpen)

	page, err := svc.Page(ctx, testViewer)
	require.NoError(t, err)
	assert.Equal(t, SidebarCollapsedWidth, page.Sidebar.Width)
	assert.Nil(t, page.Sidebar.Status)
	for _, item := range page.Sidebar.Items {
		assert.False(t, item.ShowLabel)
		assert.Equal(t, item.Label, item.Tooltip)
	}

	state, err = svc.SetSidebar(ctx, testViewer, true)
	require.NoError(t, err)
	assert.True(t, state.SidebarOpen)
}

func TestServiceToggleLanguageTranslatesCommunityView(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	_, err := svc.SelectRole(ctx, testViewer, RoleCommunity)
	require.NoError(t, err)

	page, err := svc.Page(ctx, testViewer)
	require.NoError(t, err)
	aqi, ok := page.Widget(WidgetCommunityAQI)
	require.True(t, ok)
	english := aqi.Data["stations"].([]map[string]any)
	assert.Equal(t, "School Area", english[0]["name"])

	state, err := svc.ToggleLanguage(ctx, testViewer)
	require.NoError(t, err)
	assert.Equal(t, LanguageHindi, state.Language)

	page, err = svc.Page(ctx, testViewer)
	require.NoError(t, err)
	aqi, ok = page.Widget(WidgetCommunityAQI)
	require.True(t, ok)
	hindi := aqi.Data["stations"].([]map[string]any)
	assert.NotEqual(t, english[0]["name"], hindi[0]["name"])
	assert.NotEqual(t, english[0]["status"], hindi[0]["status"])

	_, err = svc.SetLanguage(ctx, testViewer, Language("fr"))
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestServiceMapLayerAndOverlays(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	_, err := svc.SetMapLayer(ctx, testViewer, MapLayer("satellite"))
	require.ErrorIs(t, err, ErrUnknownMapLayer)

	state, err := svc.SetMapLayer(ctx, testViewer, LayerRoutes)
	require.NoError(t, err)
	assert.Equal(t, LayerRoutes, state.MapLayer)

	off := false
	state, err = svc.SetOverlays(ctx, testViewer, nil, &off)
	require.NoError(t, err)
	assert.True(t, state.ShowHeatmap)
	assert.False(t, state.ShowRoutes)

	page, err := svc.Page(ctx, testViewer)
	require.NoError(t, err)
	gis, ok := page.Widget(WidgetGISMap)
	require.True(t, ok)
	assert.Equal(t, "routes", gis.Data["active_layer"])
	assert.Len(t, gis.Data["routes"], 3)
	assert.Empty(t, gis.Data["paths"])
}

func TestServiceMountsMapOnlyWhileVisible(t *testing.T) {
	engine := newCountingEngine()
	telemetry := &recordingTelemetry{}
	svc := newTestService(t, Options{Maps: NewMapLifecycle(engine), Telemetry: telemetry})
	ctx := context.Background()

	page, err := svc.Page(ctx, testViewer)
	require.NoError(t, err)
	require.NotNil(t, page.Map)
	first := page.Map.InstanceID
	assert.Equal(t, DefaultMapZoom, page.Map.Options.Zoom)
	assert.Equal(t, "map-admin-map", page.Map.Options.Target)

	gis, ok := page.Widget(WidgetGISMap)
	require.True(t, ok)
	assert.Equal(t, *page.Map, gis.Data["map"])

	page, err = svc.Page(ctx, testViewer)
	require.NoError(t, err)
	assert.Equal(t, first, page.Map.InstanceID)
	assert.Equal(t, 1, engine.inits)

	_, err = svc.SelectRole(ctx, testViewer, RoleCommunity)
	require.NoError(t, err)
	page, err = svc.Page(ctx, testViewer)
	require.NoError(t, err)
	assert.Nil(t, page.Map)
	assert.Equal(t, 1, engine.disposals(first))
	assert.True(t, telemetry.has("dashboard.map.unmount"))

	_, err = svc.Page(ctx, testViewer)
	require.NoError(t, err)
	assert.Equal(t, 1, engine.disposals(first))
	assert.Equal(t, 0, svc.Maps().Len())
}

func TestServiceBoundsMapsOfOneShotViewers(t *testing.T) {
	engine := newCountingEngine()
	svc := newTestService(t, Options{Maps: NewMapLifecycle(engine, WithMapCapacity(8))})
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		page, err := svc.Page(ctx, ViewerContext{SessionID: fmt.Sprintf("visitor-%d", i)})
		require.NoError(t, err)
		require.NotNil(t, page.Map)
	}
	assert.Equal(t, 8, svc.Maps().Len())
	assert.Equal(t, 50, engine.inits)
	assert.True(t, svc.Maps().Mounted("visitor-49"))
}

func TestServiceEndSessionReleasesMap(t *testing.T) {
	engine := newCountingEngine()
	hook := &recordingHook{}
	states := NewInMemoryStateStore()
	svc := newTestService(t, Options{Maps: NewMapLifecycle(engine), RefreshHook: hook, States: states})
	ctx := context.Background()

	_, err := svc.ToggleSidebar(ctx, testViewer)
	require.NoError(t, err)
	page, err := svc.Page(ctx, testViewer)
	require.NoError(t, err)
	require.NotNil(t, page.Map)

	require.NoError(t, svc.EndSession(ctx, testViewer))
	assert.Equal(t, 1, engine.disposals(page.Map.InstanceID))
	assert.Equal(t, 0, states.Len())
	require.NotEmpty(t, hook.events)
	assert.Equal(t, ReasonEnd, hook.events[len(hook.events)-1].Reason)

	require.NoError(t, svc.EndSession(ctx, testViewer))
	assert.Equal(t, 1, engine.disposals(page.Map.InstanceID))
}

func TestServicePageRecordsProviderErrors(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.RegisterProvider(WidgetESGReports, ProviderFunc(func(context.Context, WidgetContext) (WidgetData, error) {
		return nil, errors.New("reports offline")
	})))
	telemetry := &recordingTelemetry{}
	svc := newTestService(t, Options{Providers: registry, Telemetry: telemetry})

	page, err := svc.Page(context.Background(), testViewer)
	require.NoError(t, err)
	esg, ok := page.Widget(WidgetESGReports)
	require.True(t, ok)
	assert.Nil(t, esg.Data)
	assert.Equal(t, "reports offline", esg.Error)
	assert.True(t, telemetry.has("dashboard.widget.provider_error"))

	kpis, ok := page.Widget(WidgetKPIs)
	require.True(t, ok)
	assert.NotNil(t, kpis.Data)
}

func TestServicePropagatesRefreshHookErrors(t *testing.T) {
	hookErr := errors.New("transport down")
	svc := newTestService(t, Options{RefreshHook: &recordingHook{err: hookErr}})
	_, err := svc.ToggleSidebar(context.Background(), testViewer)
	require.ErrorIs(t, err, hookErr)
}

func TestServiceUsesClock(t *testing.T) {
	fixed := time.Date(2024, 12, 15, 10, 0, 0, 0, time.UTC)
	hook := &recordingHook{}
	svc := newTestService(t, Options{Clock: func() time.Time { return fixed }, RefreshHook: hook})
	page, err := svc.Page(context.Background(), testViewer)
	require.NoError(t, err)
	assert.Equal(t, fixed, page.Generated)

	_, err = svc.ToggleLanguage(context.Background(), testViewer)
	require.NoError(t, err)
	require.Len(t, hook.events, 1)
	assert.Equal(t, fixed, hook.events[0].At)
}

func TestWidgetTemplate(t *testing.T) {
	assert.Equal(t, "widgets/gis_map.html", widgetTemplate(WidgetGISMap))
	assert.Equal(t, "widgets/custom.html", widgetTemplate("custom"))
}

// strictTranslator refuses to fall back across locales and records every miss.
type strictTranslator struct {
	catalog *CatalogTranslator
	mu      sync.Mutex
	missing []string
}

func (s *strictTranslator) Translate(ctx context.Context, key, locale string, args map[string]any) (string, error) {
	for _, known := range s.catalog.Keys(locale) {
		if known == key {
			return s.catalog.Translate(ctx, key, locale, args)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missing = append(s.missing, locale+":"+key)
	return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, locale)
}

func TestCommunityPageTranslatesEveryKeyInBothLocales(t *testing.T) {
	catalog, err := DefaultTranslator()
	require.NoError(t, err)
	strict := &strictTranslator{catalog: catalog}
	svc := newTestService(t, Options{Translator: strict})
	ctx := context.Background()

	_, err = svc.SelectRole(ctx, testViewer, RoleCommunity)
	require.NoError(t, err)

	titles := map[Language]any{}
	for _, lang := range []Language{LanguageEnglish, LanguageHindi} {
		_, err = svc.SetLanguage(ctx, testViewer, lang)
		require.NoError(t, err)
		page, err := svc.Page(ctx, testViewer)
		require.NoError(t, err)
		header, ok := page.Widget(WidgetCommunityHeader)
		require.True(t, ok)
		titles[lang] = header.Data["title"]
	}

	assert.Empty(t, strict.missing)
	assert.NotEqual(t, titles[LanguageEnglish], titles[LanguageHindi])
}
