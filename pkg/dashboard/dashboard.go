// Package dashboard assembles the carbon dashboard service, its controller
// and transports behind a single constructor.
package dashboard

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	core "github.com/goliatone/go-carbon-dashboard/components/dashboard"
	"github.com/goliatone/go-carbon-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-carbon-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-carbon-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-carbon-dashboard/pkg/monitoring"
	"github.com/goliatone/go-carbon-dashboard/pkg/observability"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// Config configures New.
type Config struct {
	Repository    monitoring.Repository
	// DatasetPath replaces the embedded dataset when Repository is nil.
	DatasetPath   string
	Manifests     []string
	Logger        zerolog.Logger
	Telemetry     observability.Recorder
	Notifications core.NotificationsClient
	BasePath      string
	MutationLimit httpapi.RateLimit
	// ChartCacheTTL caches rendered charts when positive.
	ChartCacheTTL time.Duration
	ChartAssets   string
	// MapIdleTTL and MapCapacity bound live map mounts; zero keeps the defaults.
	MapIdleTTL    time.Duration
	MapCapacity   int
}

// App is a fully wired dashboard.
type App struct {
	Service    *Service
	Controller *core.Controller
	Broadcast  *core.BroadcastHook
	Executor   *httpapi.CommandExecutor
	Handlers   *httpapi.Handlers
	Maps       *core.MapLifecycle
	basePath   string
	handler    http.Handler
}

// New bootstraps the dashboard from the built-in dataset and views plus
// the configured manifests.
func New(cfg Config) (*App, error) {
	broadcast := core.NewBroadcastHook()
	hooks := core.RefreshHooks{broadcast}
	if cfg.Notifications != nil {
		hooks = append(hooks, &core.NotificationsHook{Client: cfg.Notifications})
	}

	var telemetry core.Telemetry
	if cfg.Telemetry != nil {
		telemetry = cfg.Telemetry
	}

	repo := cfg.Repository
	if repo == nil && cfg.DatasetPath != "" {
		dataset, err := monitoring.LoadDatasetFile(cfg.DatasetPath)
		if err != nil {
			return nil, err
		}
		repo = monitoring.NewStaticRepository(dataset)
	}

	chartOpts := []core.ChartRendererOption{core.WithChartCache(nil)}
	if cfg.ChartCacheTTL > 0 {
		chartOpts[0] = core.WithChartCache(core.NewChartCache(cfg.ChartCacheTTL))
	}
	if cfg.ChartAssets != "" {
		chartOpts = append(chartOpts, core.WithChartAssetsHost(cfg.ChartAssets))
	}

	var mapOpts []core.MapLifecycleOption
	if cfg.MapIdleTTL > 0 {
		mapOpts = append(mapOpts, core.WithMapIdleTTL(cfg.MapIdleTTL))
	}
	if cfg.MapCapacity > 0 {
		mapOpts = append(mapOpts, core.WithMapCapacity(cfg.MapCapacity))
	}
	maps := core.NewMapLifecycle(core.OpenLayersEngine{}, mapOpts...)
	service, err := core.Bootstrap(core.BootstrapOptions{
		Repository:  repo,
		Manifests:   cfg.Manifests,
		RefreshHook: hooks,
		Telemetry:   telemetry,
		Maps:        maps,
		Charts:      core.NewChartRenderer(chartOpts...),
	})
	if err != nil {
		return nil, err
	}

	renderer, err := core.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	controller := core.NewController(core.ControllerOptions{Service: service, Renderer: renderer})

	base := cfg.BasePath
	if base == "" {
		base = httpapi.DefaultBasePath
	}
	handlers := httpapi.NewHandlers(service, controller, telemetry)
	executor, _ := handlers.API.(*httpapi.CommandExecutor)

	app := &App{
		Service:    service,
		Controller: controller,
		Broadcast:  broadcast,
		Executor:   executor,
		Handlers:   handlers,
		Maps:       maps,
		basePath:   base,
	}
	app.handler = httpapi.NewRouter(httpapi.RouterOptions{
		Handlers:      handlers,
		Broadcast:     broadcast,
		Logger:        cfg.Logger,
		BasePath:      base,
		MutationLimit: cfg.MutationLimit,
	})
	return app, nil
}

// Handler returns the net/http transport.
func (a *App) Handler() http.Handler {
	return a.handler
}

// BasePath is the prefix every route is mounted under.
func (a *App) BasePath() string {
	return a.basePath
}

// RegisterGoRouter mounts the dashboard on a go-router router.
func (a *App) RegisterGoRouter(r gorouter.Registrar) error {
	return gorouter.Register(gorouter.Config{
		Router:     r,
		Controller: a.Controller,
		API:        a.Executor,
		States:     queries.NewStateQuery(a.Service),
		Broadcast:  a.Broadcast,
		BasePath:   a.basePath,
	})
}

// Close disposes every mounted map.
func (a *App) Close() error {
	if a.Maps == nil {
		return nil
	}
	return a.Maps.Close()
}
