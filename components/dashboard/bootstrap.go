package dashboard

import (
	"fmt"

	"github.com/goliatone/go-carbon-dashboard/pkg/monitoring"
)

// BootstrapOptions configure Bootstrap. Zero values fall back to the
// embedded dataset and in-memory stores.
type BootstrapOptions struct {
	Repository  monitoring.Repository
	Manifests   []string
	States      StateStore
	RefreshHook RefreshHook
	Telemetry   Telemetry
	Translator  Translator
	Maps        *MapLifecycle
	Charts      *ChartRenderer
}

// Bootstrap wires a Service from the built-in widgets and views, applying
// every manifest in order. Manifest views replace built-in views sharing a code.
func Bootstrap(opts BootstrapOptions) (*Service, error) {
	repo := opts.Repository
	if repo == nil {
		dataset, err := monitoring.DefaultDataset()
		if err != nil {
			return nil, err
		}
		repo = monitoring.NewStaticRepository(dataset)
	}
	registryOpts := []RegistryOption{WithRepository(repo)}
	if opts.Charts != nil {
		registryOpts = append(registryOpts, WithChartRenderer(opts.Charts))
	}
	registry := NewRegistry(registryOpts...)

	views, err := LoadManifests(registry, DefaultViews(), opts.Manifests...)
	if err != nil {
		return nil, err
	}
	validator := NewJSONSchemaValidator()
	store, err := NewStaticViewStore(registry, validator, views...)
	if err != nil {
		return nil, fmt.Errorf("dashboard: build views: %w", err)
	}
	return NewService(Options{
		Views:           store,
		Providers:       registry,
		States:          opts.States,
		ConfigValidator: validator,
		RefreshHook:     opts.RefreshHook,
		Telemetry:       opts.Telemetry,
		Translator:      opts.Translator,
		Maps:            opts.Maps,
		Repository:      repo,
	}), nil
}

// LoadManifests registers the widgets of every manifest file and returns
// base merged with the manifest views.
func LoadManifests(registry *Registry, base []ViewDefinition, paths ...string) ([]ViewDefinition, error) {
	views := base
	for _, path := range paths {
		doc, err := ReadManifest(path)
		if err != nil {
			return nil, err
		}
		if err := registry.LoadManifestDocument(doc); err != nil {
			return nil, err
		}
		views = MergeViews(views, doc.Views)
	}
	return views, nil
}
