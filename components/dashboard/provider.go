package dashboard

import "context"

// Provider fetches data required to render a widget instance.
type Provider interface {
	Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(ctx context.Context, meta WidgetContext) (WidgetData, error)

// Fetch calls f.
func (f ProviderFunc) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	return f(ctx, meta)
}

// WidgetContext contains the metadata needed by providers.
type WidgetContext struct {
	Instance   WidgetInstance
	Viewer     ViewerContext
	State      UIState
	Translator Translator
}

// Locale is the language the widget renders in.
func (m WidgetContext) Locale() string {
	if m.State.Language != "" {
		return string(m.State.Language)
	}
	return m.Viewer.Locale
}

// T translates key for the widget locale, falling back to the given text.
func (m WidgetContext) T(ctx context.Context, key, fallback string, params map[string]any) string {
	return translateOrFallback(ctx, m.Translator, key, m.Locale(), fallback, params)
}

// WidgetData is an opaque payload passed to templates.
type WidgetData map[string]any
