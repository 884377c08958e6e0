package httpapi

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
)

// RateLimit bounds the number of requests per window.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// DefaultMutationLimit applies to the state changing endpoints.
var DefaultMutationLimit = RateLimit{Requests: 120, Window: time.Minute}

// RequestLogger logs one line per request.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Info().
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Str("session", SessionFromContext(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}

// Recovery turns panics into 500 responses.
func Recovery(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error().
						Str("request_id", chimiddleware.GetReqID(r.Context())).
						Interface("error", rec).
						Str("stack", string(debug.Stack())).
						Msg("panic recovered")
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "an unexpected error occurred"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits the requests of each client IP. Sessions are chosen by
// the client, so they never widen the budget.
func RateLimitByIP(limit RateLimit) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit.Requests,
		limit.Window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", strconv.Itoa(int(limit.Window.Seconds())))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		}),
	)
}
