package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/rs/zerolog"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	core "github.com/goliatone/go-carbon-dashboard/components/dashboard"
	"github.com/goliatone/go-carbon-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-carbon-dashboard/pkg/dashboard"
	"github.com/goliatone/go-carbon-dashboard/pkg/observability"
)

type serveCmd struct {
	Addr       string        `default:":8080" env:"CARBONDASH_ADDR" help:"Listen address."`
	Transport  string        `default:"http" enum:"http,fiber" env:"CARBONDASH_TRANSPORT" help:"HTTP stack: chi on net/http, or go-router on fiber."`
	BasePath   string        `name:"base-path" default:"/carbon" env:"CARBONDASH_BASE_PATH" help:"Route prefix."`
	Manifest   []string      `type:"existingfile" env:"CARBONDASH_VIEWS" help:"View manifests applied over the built-in views."`
	Dataset    string        `type:"existingfile" env:"CARBONDASH_DATASET" help:"YAML dataset replacing the embedded fixtures."`
	Assets     string        `name:"echarts-host" env:"CARBONDASH_ECHARTS_HOST" help:"Host the echarts scripts load from."`
	ChartCache time.Duration `name:"chart-cache" default:"5m" env:"CARBONDASH_CHART_CACHE" help:"Rendered chart cache TTL (0 disables)."`
	RateLimit  int           `name:"rate-limit" default:"120" env:"CARBONDASH_RATE_LIMIT" help:"Mutations per minute and client IP (negative disables)."`
	MapIdle    time.Duration `name:"map-idle" default:"30m" env:"CARBONDASH_MAP_IDLE" help:"Dispose maps not rendered for this long."`
	MapCap     int           `name:"map-capacity" default:"1024" env:"CARBONDASH_MAP_CAPACITY" help:"Maximum live map instances."`
	Metrics    bool          `env:"CARBONDASH_METRICS" help:"Count telemetry events and log the totals on shutdown."`
	NotifyLog  bool          `name:"notify-log" env:"CARBONDASH_NOTIFY_LOG" help:"Log every state change notification."`
}

func (cmd *serveCmd) Run(ctx context.Context, root *cli) error {
	log := root.logger()

	recorders := observability.Multi{observability.NewLogTelemetry(log)}
	var reader sdkmetric.Reader
	if cmd.Metrics {
		provider, manual := observability.NewManualMeterProvider()
		defer provider.Shutdown(context.Background())
		meter, err := observability.NewMeterTelemetry(provider)
		if err != nil {
			return err
		}
		recorders = append(recorders, meter)
		reader = manual
	}

	cfg := dashboard.Config{
		Manifests:     cmd.Manifest,
		DatasetPath:   cmd.Dataset,
		ChartAssets:   cmd.Assets,
		MapIdleTTL:    cmd.MapIdle,
		MapCapacity:   cmd.MapCap,
		Logger:        log,
		Telemetry:     recorders,
		BasePath:      cmd.BasePath,
		MutationLimit: httpapi.RateLimit{Requests: cmd.RateLimit, Window: time.Minute},
		ChartCacheTTL: cmd.ChartCache,
	}
	if cmd.NotifyLog {
		cfg.Notifications = logNotifier{log: log}
	}
	app, err := dashboard.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("addr", cmd.Addr).
		Str("transport", cmd.Transport).
		Str("dashboard", app.BasePath()+"/dashboard").
		Msg("starting carbon dashboard")

	switch cmd.Transport {
	case "fiber":
		err = serveGoRouter(ctx, app, cmd.Addr)
	default:
		err = serveHTTP(ctx, app, cmd.Addr)
	}

	if reader != nil {
		if totals, terr := observability.EventTotals(context.Background(), reader); terr == nil {
			event := log.Info()
			for name, n := range totals {
				event = event.Int64(name, n)
			}
			event.Msg("telemetry totals")
		}
	}
	log.Info().Msg("server stopped")
	return err
}

func serveHTTP(ctx context.Context, app *dashboard.App, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("carbondash: shutdown: %w", err)
	}
	return nil
}

func serveGoRouter(ctx context.Context, app *dashboard.App, addr string) error {
	server := router.NewFiberAdapter()
	var routes router.Router[*fiber.App] = server.Router()
	if err := app.RegisterGoRouter(routes); err != nil {
		return fmt.Errorf("carbondash: register routes: %w", err)
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type logNotifier struct {
	log zerolog.Logger
}

func (n logNotifier) PublishDashboardEvent(_ context.Context, channel string, event core.StateEvent) error {
	n.log.Info().
		Str("channel", channel).
		Str("session", event.SessionID).
		Str("reason", event.Reason).
		Str("role", string(event.State.Role)).
		Msg("dashboard state changed")
	return nil
}

var _ core.NotificationsClient = logNotifier{}
