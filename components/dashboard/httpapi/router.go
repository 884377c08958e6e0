package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-carbon-dashboard/components/dashboard"
)

// DefaultBasePath prefixes every dashboard route.
const DefaultBasePath = "/carbon"

// RouterOptions configure the net/http router.
type RouterOptions struct {
	Handlers  *Handlers
	Broadcast *dashboard.BroadcastHook
	Logger    zerolog.Logger
	BasePath  string
	// MutationLimit defaults to DefaultMutationLimit. A negative request
	// count disables rate limiting.
	MutationLimit RateLimit
}

// NewRouter mounts the dashboard on a chi router:
//
//	GET  {base}/dashboard            HTML page
//	GET  {base}/dashboard/_page      page model
//	GET  {base}/dashboard/_state     UI state
//	GET  {base}/dashboard/_sidebar   sidebar model
//	POST {base}/dashboard/role|sidebar|language|map/layer|map/overlays|session/end
//	GET  {base}/dashboard/ws         state events over WebSocket
//	GET  {base}/dashboard/events     state events over SSE
func NewRouter(opts RouterOptions) *chi.Mux {
	base := opts.BasePath
	if base == "" {
		base = DefaultBasePath
	}
	h := opts.Handlers
	if h == nil {
		h = &Handlers{}
	}
	if h.Redirect == "" {
		h.Redirect = base + "/dashboard"
	}
	limit := opts.MutationLimit
	if limit.Requests == 0 {
		limit = DefaultMutationLimit
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(opts.Logger))
	r.Use(Recovery(opts.Logger))
	r.Use(Sessions)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route(base+"/dashboard", func(r chi.Router) {
		r.Get("/", h.HandlePage)
		r.Get("/_page", h.HandlePageJSON)
		r.Get("/_state", h.HandleState)
		r.Get("/_sidebar", h.HandleSidebar)

		r.Group(func(r chi.Router) {
			if limit.Requests > 0 {
				r.Use(RateLimitByIP(limit))
			}
			r.Post("/role", h.HandleSelectRole)
			r.Post("/sidebar", h.HandleToggleSidebar)
			r.Post("/language", h.HandleSetLanguage)
			r.Post("/map/layer", h.HandleSetMapLayer)
			r.Post("/map/overlays", h.HandleSetOverlays)
			r.Post("/session/end", h.HandleEndSession)
		})

		if opts.Broadcast != nil {
			hook := opts.Broadcast
			r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
				hook.ServeWebSocket(w, r, SessionFromContext(r.Context()))
			})
			r.Get("/events", func(w http.ResponseWriter, r *http.Request) {
				hook.ServeSSE(w, r, SessionFromContext(r.Context()))
			})
		}
	})

	return r
}
