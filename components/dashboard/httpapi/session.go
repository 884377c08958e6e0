package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-carbon-dashboard/components/dashboard"
)

const (
	// SessionCookie names the cookie carrying the dashboard session id.
	SessionCookie = "carbon_session"
	// SessionHeader lets API clients pass the session explicitly.
	SessionHeader = "X-Session-ID"
	// SessionQuery is the query parameter forms and sockets use.
	SessionQuery = "session"
)

type sessionKey struct{}

// WithSession stores the session id on ctx.
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session id stored by the session middleware.
func SessionFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionKey{}).(string); ok {
		return v
	}
	return ""
}

// RequestSession reads the session from the query, header or cookie, in that order.
func RequestSession(r *http.Request) string {
	if v := strings.TrimSpace(r.URL.Query().Get(SessionQuery)); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.Header.Get(SessionHeader)); v != "" {
		return v
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

// Sessions assigns every request a session. Requests without one get a new
// random id and a session cookie.
func Sessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := RequestSession(r)
		if session == "" {
			session = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    session,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// ViewerFromRequest builds the viewer from the request session and its
// Accept-Language header.
func ViewerFromRequest(r *http.Request) dashboard.ViewerContext {
	session := SessionFromContext(r.Context())
	if session == "" {
		session = RequestSession(r)
	}
	return dashboard.ViewerContext{
		SessionID: session,
		Locale:    r.Header.Get("Accept-Language"),
	}
}
