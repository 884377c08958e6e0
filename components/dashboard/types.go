package dashboard

import (
	"context"
	"time"
)

// ViewStore resolves view layouts by code.
// Implementations ensure thread safety.
type ViewStore interface {
	View(ctx context.Context, code string) (ViewDefinition, error)
	Views(ctx context.Context) ([]ViewDefinition, error)
}

// StateStore persists the UI state of each viewer session.
type StateStore interface {
	State(ctx context.Context, viewer ViewerContext) (UIState, error)
	SaveState(ctx context.Context, viewer ViewerContext, state UIState) error
	DeleteState(ctx context.Context, viewer ViewerContext) error
}

// ProviderRegistry stores widget definitions/providers discoverable via hooks or manifests.
type ProviderRegistry interface {
	RegisterDefinition(def WidgetDefinition) error
	RegisterProvider(code string, provider Provider) error
	Definition(code string) (WidgetDefinition, bool)
	Provider(code string) (Provider, bool)
	Definitions() []WidgetDefinition
}

// RefreshHook notifies transports (REST/WebSocket) about state changes.
type RefreshHook interface {
	StateChanged(ctx context.Context, event StateEvent) error
}

// WidgetDefinition describes a widget type, its display names and configuration schema.
type WidgetDefinition struct {
	Code                 string            `json:"code" yaml:"code"`
	Name                 string            `json:"name" yaml:"name"`
	NameLocalized        map[string]string `json:"name_localized,omitempty" yaml:"name_localized,omitempty"`
	Description          string            `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLocalized map[string]string `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Category             string            `json:"category,omitempty" yaml:"category,omitempty"`
	Schema               map[string]any    `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// WidgetInstance places a widget definition in a view row.
type WidgetInstance struct {
	ID            string         `json:"id" yaml:"id"`
	DefinitionID  string         `json:"definition" yaml:"definition"`
	Width         int            `json:"width" yaml:"width"`
	Configuration map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// LayoutRow is one horizontal band of a view on a 12 column grid.
type LayoutRow struct {
	Widgets []WidgetInstance `json:"widgets" yaml:"widgets"`
}

// ViewDefinition is the widget layout rendered for a role.
type ViewDefinition struct {
	Code        string      `json:"code" yaml:"code"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Rows        []LayoutRow `json:"rows" yaml:"rows"`
}

// Instances flattens the rows in display order.
func (v ViewDefinition) Instances() []WidgetInstance {
	var out []WidgetInstance
	for _, row := range v.Rows {
		out = append(out, row.Widgets...)
	}
	return out
}

// Contains reports whether any instance of the view uses the definition.
func (v ViewDefinition) Contains(definitionID string) bool {
	for _, inst := range v.Instances() {
		if inst.DefinitionID == definitionID {
			return true
		}
	}
	return false
}

// ViewerContext identifies the browser session rendering the dashboard.
type ViewerContext struct {
	SessionID string `json:"session_id"`
	Locale    string `json:"locale,omitempty"`
}

// StateEvent describes UI state changes that transports might care about.
type StateEvent struct {
	SessionID string    `json:"session_id"`
	Reason    string    `json:"reason"`
	State     UIState   `json:"state"`
	At        time.Time `json:"at"`
}

// State change reasons carried by StateEvent.
const (
	ReasonRole     = "role"
	ReasonSidebar  = "sidebar"
	ReasonLanguage = "language"
	ReasonMapLayer = "map_layer"
	ReasonOverlays = "overlays"
	ReasonEnd      = "end_session"
)
