package gorouter

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-carbon-dashboard/components/dashboard"
	"github.com/goliatone/go-carbon-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-carbon-dashboard/components/dashboard/httpapi"
)

// AnonymousSession is used when a request carries no session.
const AnonymousSession = "anonymous"

// Registrar is the subset of router.Router the dashboard mounts routes on.
type Registrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo
}

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the dashboard controller, commands and hooks.
type Config struct {
	Router         Registrar
	Controller     *dashboard.Controller
	API            httpapi.Executor
	States         gocommand.Querier[dashboard.ViewerContext, dashboard.UIState]
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML       string
	Page       string
	State      string
	Role       string
	Sidebar    string
	Language   string
	MapLayer   string
	Overlays   string
	EndSession string
	WebSocket  string
}

// Register mounts dashboard routes (HTML, JSON, commands, WebSocket) on a go-router router.
func Register(cfg Config) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := strings.TrimSuffix(cfg.BasePath, "/")
	if base == "" {
		base = httpapi.DefaultBasePath
	}
	resolver := cfg.ViewerResolver
	if resolver == nil {
		resolver = defaultViewerResolver
	}

	cfg.Router.Get(base+routes.HTML, func(ctx router.Context) error {
		viewer := resolver(ctx)
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), viewer, &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	})

	cfg.Router.Get(base+routes.Page, func(ctx router.Context) error {
		viewer := resolver(ctx)
		page, err := cfg.Controller.Page(ctx.Context(), viewer)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, page)
	})

	if cfg.States != nil {
		cfg.Router.Get(base+routes.State, func(ctx router.Context) error {
			state, err := cfg.States.Query(ctx.Context(), resolver(ctx))
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, state)
		})
	}

	if cfg.API != nil {
		m := mutations{api: cfg.API, states: cfg.States, resolver: resolver, redirect: base + routes.HTML}
		m.register(cfg.Router, base, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(cfg.Router, cfg.Broadcast, base+routes.WebSocket)
	}

	return nil
}

type mutations struct {
	api      httpapi.Executor
	states   gocommand.Querier[dashboard.ViewerContext, dashboard.UIState]
	resolver ViewerResolver
	redirect string
}

func (m mutations) register(r Registrar, base string, routes RouteConfig) {
	r.Post(base+routes.Role, m.handle(func(ctx context.Context, viewer dashboard.ViewerContext, body decodeFunc) error {
		var payload httpapi.RolePayload
		if err := body(&payload); err != nil {
			return err
		}
		return m.api.SelectRole(ctx, commands.SelectRoleInput{Viewer: viewer, Role: payload.Role})
	}))

	r.Post(base+routes.Sidebar, m.handle(func(ctx context.Context, viewer dashboard.ViewerContext, body decodeFunc) error {
		var payload httpapi.SidebarPayload
		if err := body(&payload); err != nil {
			return err
		}
		return m.api.ToggleSidebar(ctx, commands.ToggleSidebarInput{Viewer: viewer, Open: payload.Open})
	}))

	r.Post(base+routes.Language, m.handle(func(ctx context.Context, viewer dashboard.ViewerContext, body decodeFunc) error {
		var payload httpapi.LanguagePayload
		if err := body(&payload); err != nil {
			return err
		}
		return m.api.SetLanguage(ctx, commands.SetLanguageInput{Viewer: viewer, Language: payload.Language})
	}))

	r.Post(base+routes.MapLayer, m.handle(func(ctx context.Context, viewer dashboard.ViewerContext, body decodeFunc) error {
		var payload httpapi.LayerPayload
		if err := body(&payload); err != nil {
			return err
		}
		return m.api.SetMapLayer(ctx, commands.SetMapLayerInput{Viewer: viewer, Layer: payload.Layer})
	}))

	r.Post(base+routes.Overlays, m.handle(func(ctx context.Context, viewer dashboard.ViewerContext, body decodeFunc) error {
		var payload httpapi.OverlaysPayload
		if err := body(&payload); err != nil {
			return err
		}
		return m.api.SetOverlays(ctx, commands.SetOverlaysInput{Viewer: viewer, Heatmap: payload.Heatmap, Routes: payload.Routes})
	}))

	r.Post(base+routes.EndSession, func(ctx router.Context) error {
		if err := m.api.EndSession(ctx.Context(), commands.EndSessionInput{Viewer: m.resolver(ctx)}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ended"})
	})
}

type decodeFunc func(v any) error

var errBadPayload = errors.New("gorouter: invalid payload")

func (m mutations) handle(run func(ctx context.Context, viewer dashboard.ViewerContext, body decodeFunc) error) router.HandlerFunc {
	return func(ctx router.Context) error {
		contentType := ctx.Header("Content-Type")
		body := func(v any) error {
			if err := httpapi.DecodePayload(contentType, ctx.Body(), v); err != nil {
				return errors.Join(errBadPayload, err)
			}
			return nil
		}
		viewer := m.resolver(ctx)
		if err := run(ctx.Context(), viewer, body); err != nil {
			if errors.Is(err, errBadPayload) {
				return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			return respondError(ctx, err)
		}
		if httpapi.IsForm(contentType) {
			target := m.redirect
			if viewer.SessionID != "" && viewer.SessionID != AnonymousSession {
				target += "?session=" + url.QueryEscape(viewer.SessionID)
			}
			ctx.SetHeader("Location", target)
			return ctx.JSON(http.StatusSeeOther, map[string]string{"location": target})
		}
		if m.states == nil {
			return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
		}
		state, err := m.states.Query(ctx.Context(), viewer)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, state)
	}
}

type sessionQuerier interface {
	Query(name string, defaultValue ...string) string
}

func registerWebSocket(r Registrar, hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		return streamEvents(ws, hook)
	})
}

type eventSocket interface {
	WriteJSON(v any) error
	Context() context.Context
	Close() error
}

func streamEvents(ws eventSocket, hook *dashboard.BroadcastHook) error {
	session := AnonymousSession
	if q, ok := ws.(sessionQuerier); ok {
		if v := strings.TrimSpace(q.Query(httpapi.SessionQuery)); v != "" {
			session = v
		}
	}
	events, cancel := hook.Subscribe(session)
	defer cancel()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(event); err != nil {
				return err
			}
		case <-ws.Context().Done():
			return ws.Close()
		}
	}
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	return dashboard.ViewerContext{
		SessionID: resolveSession(ctx),
		Locale:    inferLocale(ctx),
	}
}

func resolveSession(ctx router.Context) string {
	if v, ok := ctx.Locals("session_id").(string); ok && v != "" {
		return v
	}
	if v := strings.TrimSpace(ctx.Query(httpapi.SessionQuery)); v != "" {
		return v
	}
	if v := strings.TrimSpace(ctx.Header(httpapi.SessionHeader)); v != "" {
		return v
	}
	return AnonymousSession
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	return ctx.Header("Accept-Language")
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.Page == "" {
		routes.Page = "/dashboard/_page"
	}
	if routes.State == "" {
		routes.State = "/dashboard/_state"
	}
	if routes.Role == "" {
		routes.Role = "/dashboard/role"
	}
	if routes.Sidebar == "" {
		routes.Sidebar = "/dashboard/sidebar"
	}
	if routes.Language == "" {
		routes.Language = "/dashboard/language"
	}
	if routes.MapLayer == "" {
		routes.MapLayer = "/dashboard/map/layer"
	}
	if routes.Overlays == "" {
		routes.Overlays = "/dashboard/map/overlays"
	}
	if routes.EndSession == "" {
		routes.EndSession = "/dashboard/session/end"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/ws"
	}
	return routes
}
