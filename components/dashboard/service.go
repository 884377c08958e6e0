package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-carbon-dashboard/pkg/monitoring"
)

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Views           ViewStore
	Providers       ProviderRegistry
	States          StateStore
	ConfigValidator ConfigValidator
	RefreshHook     RefreshHook
	Telemetry       Telemetry
	Translator      Translator
	Maps            *MapLifecycle
	// Repository feeds the sidebar status panel and the default providers.
	Repository monitoring.Repository
	Theme      *Theme
	Clock      func() time.Time
}

// Service resolves role views into pages and owns the per-session UI state.
type Service struct {
	opts    Options
	initErr error
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Repository == nil {
		opts.Repository = monitoring.NewStaticRepository(monitoring.MustDefaultDataset())
	}
	if opts.Providers == nil {
		opts.Providers = NewRegistry(WithRepository(opts.Repository))
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.States == nil {
		opts.States = NewInMemoryStateStore()
	}
	if opts.Maps == nil {
		opts.Maps = NewMapLifecycle(nil)
	}
	if opts.Translator == nil {
		if translator, err := DefaultTranslator(); err == nil {
			opts.Translator = translator
		}
	}
	if opts.Theme == nil {
		theme := DefaultTheme()
		opts.Theme = &theme
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	svc := &Service{opts: opts}
	if opts.Views == nil {
		store, err := NewStaticViewStore(opts.Providers, opts.ConfigValidator, DefaultViews()...)
		if err != nil {
			svc.initErr = fmt.Errorf("dashboard: default views: %w", err)
		} else {
			svc.opts.Views = store
		}
	}
	return svc
}

// Maps exposes the map lifecycle so hosts can release maps on shutdown.
func (s *Service) Maps() *MapLifecycle {
	return s.opts.Maps
}

// Translator returns the configured translator, possibly nil.
func (s *Service) Translator() Translator {
	return s.opts.Translator
}

// ViewSummary names the view a page renders.
type ViewSummary struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PageHeader is the top bar of a page.
type PageHeader struct {
	Title       string `json:"title"`
	LastUpdated string `json:"last_updated"`
}

// PageWidget is a resolved widget instance ready for its template.
type PageWidget struct {
	ID          string         `json:"id"`
	DOMID       string         `json:"dom_id"`
	Definition  string         `json:"definition"`
	Template    string         `json:"template"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Width       int            `json:"width"`
	Config      map[string]any `json:"config,omitempty"`
	Data        WidgetData     `json:"data,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// PageRow is one band of resolved widgets.
type PageRow struct {
	Widgets []PageWidget `json:"widgets"`
}

// Page is the full model rendered for a viewer.
type Page struct {
	SessionID string       `json:"session_id"`
	State     UIState      `json:"state"`
	View      ViewSummary  `json:"view"`
	Header    PageHeader   `json:"header"`
	Roles     []RoleOption `json:"roles"`
	Sidebar   Sidebar      `json:"sidebar"`
	Layers    []MapLayer   `json:"layers"`
	Rows      []PageRow    `json:"rows"`
	Theme     Theme        `json:"theme"`
	Map       *MapMount    `json:"map,omitempty"`
	Generated time.Time    `json:"generated_at"`
}

// Widgets flattens the rows in display order.
func (p Page) Widgets() []PageWidget {
	var out []PageWidget
	for _, row := range p.Rows {
		out = append(out, row.Widgets...)
	}
	return out
}

// Widget finds a resolved widget by definition code.
func (p Page) Widget(definition string) (PageWidget, bool) {
	for _, w := range p.Widgets() {
		if w.Definition == definition {
			return w, true
		}
	}
	return PageWidget{}, false
}

// Page resolves the view of the viewer's role and every widget in it.
func (s *Service) Page(ctx context.Context, viewer ViewerContext) (Page, error) {
	if s.initErr != nil {
		return Page{}, s.initErr
	}
	state, err := s.opts.States.State(ctx, viewer)
	if err != nil {
		return Page{}, err
	}
	code := ViewForRole(state.Role)
	view, err := s.opts.Views.View(ctx, code)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		SessionID: viewer.SessionID,
		State:     state,
		View:      ViewSummary{Code: view.Code, Name: view.Name, Description: view.Description},
		Header:    PageHeader{Title: SidebarTitle, LastUpdated: s.opts.Repository.Reported().LastUpdated},
		Roles:     RoleOptions(state.Role),
		Sidebar:   BuildSidebar(state.Role, state.SidebarOpen, s.opts.Repository.Reported()),
		Layers:    MapLayers(),
		Theme:     *s.opts.Theme,
		Generated: s.opts.Clock().UTC(),
	}

	mount, err := s.syncMap(ctx, viewer, view)
	if err != nil {
		return Page{}, err
	}
	page.Map = mount

	page.Rows = make([]PageRow, len(view.Rows))
	for i, row := range view.Rows {
		widgets := make([]PageWidget, len(row.Widgets))
		for j, inst := range row.Widgets {
			if mount != nil && inst.DefinitionID == WidgetGISMap {
				if inst.Metadata == nil {
					inst.Metadata = map[string]any{}
				}
				inst.Metadata[MetadataMapMount] = *mount
			}
			widgets[j] = s.resolveWidget(ctx, viewer, state, inst)
		}
		page.Rows[i] = PageRow{Widgets: widgets}
	}

	s.recordTelemetry(ctx, "dashboard.page.render", map[string]any{
		"session": viewer.SessionID,
		"role":    string(state.Role),
		"view":    view.Code,
		"widgets": len(view.Instances()),
	})
	return page, nil
}

// syncMap mounts the session map when the view shows it and releases it otherwise.
func (s *Service) syncMap(ctx context.Context, viewer ViewerContext, view ViewDefinition) (*MapMount, error) {
	if viewer.SessionID == "" {
		return nil, nil
	}
	for _, inst := range view.Instances() {
		if inst.DefinitionID != WidgetGISMap {
			continue
		}
		opts := DefaultMapOptions(stringValue(inst.Configuration["target"], "map-"+strcase.ToKebab(inst.ID)))
		opts.Zoom = intValue(inst.Configuration["zoom"], DefaultMapZoom)
		mounted := s.opts.Maps.Mounted(viewer.SessionID)
		mount, err := s.opts.Maps.Mount(ctx, viewer.SessionID, opts)
		if err != nil {
			return nil, err
		}
		if !mounted {
			s.recordTelemetry(ctx, "dashboard.map.mount", map[string]any{
				"session":  viewer.SessionID,
				"instance": mount.InstanceID,
			})
		}
		return &mount, nil
	}
	if err := s.releaseMap(ctx, viewer.SessionID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Service) releaseMap(ctx context.Context, session string) error {
	released, err := s.opts.Maps.Unmount(session)
	if err != nil {
		return err
	}
	if released {
		s.recordTelemetry(ctx, "dashboard.map.unmount", map[string]any{"session": session})
	}
	return nil
}

func (s *Service) resolveWidget(ctx context.Context, viewer ViewerContext, state UIState, inst WidgetInstance) PageWidget {
	widget := PageWidget{
		ID:         inst.ID,
		DOMID:      "widget-" + strcase.ToKebab(inst.ID),
		Definition: inst.DefinitionID,
		Template:   widgetTemplate(inst.DefinitionID),
		Width:      inst.Width,
		Config:     cloneMap(inst.Configuration),
	}
	locale := string(state.Language)
	if def, ok := s.opts.Providers.Definition(inst.DefinitionID); ok {
		widget.Name = def.NameForLocale(locale)
		widget.Description = def.DescriptionForLocale(locale)
	}
	provider, ok := s.opts.Providers.Provider(inst.DefinitionID)
	if !ok || provider == nil {
		return widget
	}
	data, err := provider.Fetch(ctx, WidgetContext{
		Instance:   inst,
		Viewer:     viewer,
		State:      state,
		Translator: s.opts.Translator,
	})
	if err != nil {
		widget.Error = err.Error()
		s.recordTelemetry(ctx, "dashboard.widget.provider_error", map[string]any{
			"definition_id": inst.DefinitionID,
			"instance_id":   inst.ID,
			"error":         err.Error(),
		})
		return widget
	}
	if title, ok := data["title"].(string); ok && title != "" {
		widget.Name = title
	}
	widget.Data = data
	return widget
}

// widgetTemplate maps carbon.widget.gis_map to widgets/gis_map.html.
func widgetTemplate(code string) string {
	name := code
	if idx := strings.LastIndex(code, "."); idx >= 0 {
		name = code[idx+1:]
	}
	return "widgets/" + strcase.ToSnake(name) + ".html"
}

// State returns the current UI state of the viewer.
func (s *Service) State(ctx context.Context, viewer ViewerContext) (UIState, error) {
	return s.opts.States.State(ctx, viewer)
}

// Sidebar returns the sidebar of the viewer's role and collapse state.
func (s *Service) Sidebar(ctx context.Context, viewer ViewerContext) (Sidebar, error) {
	state, err := s.opts.States.State(ctx, viewer)
	if err != nil {
		return Sidebar{}, err
	}
	return BuildSidebar(state.Role, state.SidebarOpen, s.opts.Repository.Reported()), nil
}

// SelectRole switches the role and therefore the rendered view.
func (s *Service) SelectRole(ctx context.Context, viewer ViewerContext, role Role) (UIState, error) {
	parsed, err := ParseRole(string(role))
	if err != nil {
		return UIState{}, err
	}
	return s.mutate(ctx, viewer, ReasonRole, func(state *UIState) {
		state.Role = parsed
	})
}

// ToggleSidebar flips the sidebar between open and collapsed.
func (s *Service) ToggleSidebar(ctx context.Context, viewer ViewerContext) (UIState, error) {
	return s.mutate(ctx, viewer, ReasonSidebar, func(state *UIState) {
		state.SidebarOpen = !state.SidebarOpen
	})
}

// SetSidebar opens or collapses the sidebar.
func (s *Service) SetSidebar(ctx context.Context, viewer ViewerContext, open bool) (UIState, error) {
	return s.mutate(ctx, viewer, ReasonSidebar, func(state *UIState) {
		state.SidebarOpen = open
	})
}

// SetLanguage selects the language of translated views.
func (s *Service) SetLanguage(ctx context.Context, viewer ViewerContext, lang Language) (UIState, error) {
	parsed, err := ParseLanguage(string(lang))
	if err != nil {
		return UIState{}, err
	}
	return s.mutate(ctx, viewer, ReasonLanguage, func(state *UIState) {
		state.Language = parsed
	})
}

// ToggleLanguage switches between English and Hindi.
func (s *Service) ToggleLanguage(ctx context.Context, viewer ViewerContext) (UIState, error) {
	return s.mutate(ctx, viewer, ReasonLanguage, func(state *UIState) {
		state.Language = state.Language.Toggle()
	})
}

// SetMapLayer selects the data layer drawn on the map.
func (s *Service) SetMapLayer(ctx context.Context, viewer ViewerContext, layer MapLayer) (UIState, error) {
	parsed, err := ParseMapLayer(string(layer))
	if err != nil {
		return UIState{}, err
	}
	return s.mutate(ctx, viewer, ReasonMapLayer, func(state *UIState) {
		state.MapLayer = parsed
	})
}

// SetOverlays shows or hides the heatmap halo and route paths. Nil values are left unchanged.
func (s *Service) SetOverlays(ctx context.Context, viewer ViewerContext, heatmap, routes *bool) (UIState, error) {
	return s.mutate(ctx, viewer, ReasonOverlays, func(state *UIState) {
		if heatmap != nil {
			state.ShowHeatmap = *heatmap
		}
		if routes != nil {
			state.ShowRoutes = *routes
		}
	})
}

// EndSession releases the viewer map and forgets its state.
func (s *Service) EndSession(ctx context.Context, viewer ViewerContext) error {
	if viewer.SessionID == "" {
		return ErrMissingSession
	}
	if err := s.releaseMap(ctx, viewer.SessionID); err != nil {
		return err
	}
	if err := s.opts.States.DeleteState(ctx, viewer); err != nil {
		return err
	}
	if err := s.opts.RefreshHook.StateChanged(ctx, StateEvent{
		SessionID: viewer.SessionID,
		Reason:    ReasonEnd,
		State:     DefaultUIState(),
		At:        s.opts.Clock().UTC(),
	}); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.session.end", map[string]any{"session": viewer.SessionID})
	return nil
}

func (s *Service) mutate(ctx context.Context, viewer ViewerContext, reason string, apply func(*UIState)) (UIState, error) {
	if viewer.SessionID == "" {
		return UIState{}, ErrMissingSession
	}
	state, err := s.opts.States.State(ctx, viewer)
	if err != nil {
		return UIState{}, err
	}
	apply(&state)
	if err := s.opts.States.SaveState(ctx, viewer, state); err != nil {
		return UIState{}, err
	}
	if err := s.opts.RefreshHook.StateChanged(ctx, StateEvent{
		SessionID: viewer.SessionID,
		Reason:    reason,
		State:     state,
		At:        s.opts.Clock().UTC(),
	}); err != nil {
		return UIState{}, err
	}
	s.recordTelemetry(ctx, "dashboard.state."+reason, map[string]any{
		"session":  viewer.SessionID,
		"role":     string(state.Role),
		"language": string(state.Language),
		"layer":    string(state.MapLayer),
	})
	return state, nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}
