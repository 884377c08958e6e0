package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-carbon-dashboard/pkg/monitoring"
)

// Registry implements ProviderRegistry over the carbon widgets plus any
// definitions registered from manifests.
type Registry struct {
	mu           sync.RWMutex
	definitions  map[string]WidgetDefinition
	providers    map[string]Provider
	manifestMeta map[string]ManifestProvider
}

// RegistryOption customizes the default providers of a registry.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	repo   monitoring.Repository
	charts *ChartRenderer
}

// WithRepository serves the default providers from repo instead of the embedded dataset.
func WithRepository(repo monitoring.Repository) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.repo = repo
	}
}

// WithChartRenderer overrides the renderer used by chart widgets.
func WithChartRenderer(charts *ChartRenderer) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.charts = charts
	}
}

// NewRegistry builds a registry holding the carbon widgets.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := registryConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.repo == nil {
		cfg.repo = monitoring.NewStaticRepository(monitoring.MustDefaultDataset())
	}
	if cfg.charts == nil {
		cfg.charts = NewChartRenderer()
	}
	reg := NewEmptyRegistry()
	reg.registerDefaults(defaultProviders(cfg.repo, cfg.charts))
	return reg
}

// NewEmptyRegistry builds a registry with no definitions.
func NewEmptyRegistry() *Registry {
	return &Registry{
		definitions:  map[string]WidgetDefinition{},
		providers:    map[string]Provider{},
		manifestMeta: map[string]ManifestProvider{},
	}
}

func (r *Registry) registerDefaults(providers map[string]Provider) {
	for _, def := range DefaultWidgetDefinitions() {
		_ = r.RegisterDefinition(def)
		if provider, ok := providers[def.Code]; ok {
			_ = r.RegisterProvider(def.Code, provider)
		}
	}
}

// RegisterDefinition stores widget metadata.
func (r *Registry) RegisterDefinition(def WidgetDefinition) error {
	if def.Code == "" {
		return errors.New("dashboard: widget definition code is required")
	}
	def.NameLocalized = normalizeLocaleMap(def.NameLocalized)
	def.DescriptionLocalized = normalizeLocaleMap(def.DescriptionLocalized)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// RegisterProvider associates a provider implementation with a definition.
func (r *Registry) RegisterProvider(code string, provider Provider) error {
	if code == "" {
		return errors.New("dashboard: provider needs a widget code")
	}
	if provider == nil {
		return fmt.Errorf("dashboard: nil provider for %s", code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[code]; !ok {
		return fmt.Errorf("dashboard: widget definition %s not found", code)
	}
	r.providers[code] = provider
	return nil
}

// Definition fetches a widget definition by code.
func (r *Registry) Definition(code string) (WidgetDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// Provider fetches a widget provider by code.
func (r *Registry) Provider(code string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[code]
	return provider, ok
}

// ProviderMetadata returns any manifest metadata registered for a widget.
func (r *Registry) ProviderMetadata(code string) (ManifestProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.manifestMeta[code]
	return meta, ok
}

// Definitions returns all registered definitions sorted by code.
func (r *Registry) Definitions() []WidgetDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]WidgetDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	return defs
}

func (r *Registry) recordProviderMetadata(code string, meta ManifestProvider) {
	if meta.isZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifestMeta[code] = meta
}

func normalizeLocaleMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		key = normalizeLocale(key)
		if key == "" || value == "" {
			continue
		}
		normalized[key] = value
	}
	return normalized
}
