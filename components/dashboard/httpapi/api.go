package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-carbon-dashboard/components/dashboard"
	"github.com/goliatone/go-carbon-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-carbon-dashboard/components/dashboard/queries"
)

// Executor runs the dashboard commands on behalf of a transport.
type Executor interface {
	SelectRole(ctx context.Context, input commands.SelectRoleInput) error
	ToggleSidebar(ctx context.Context, input commands.ToggleSidebarInput) error
	SetLanguage(ctx context.Context, input commands.SetLanguageInput) error
	SetMapLayer(ctx context.Context, input commands.SetMapLayerInput) error
	SetOverlays(ctx context.Context, input commands.SetOverlaysInput) error
	EndSession(ctx context.Context, input commands.EndSessionInput) error
}

// CommandExecutor adapts go-command commanders to the Executor interface.
type CommandExecutor struct {
	RoleCommander     gocommand.Commander[commands.SelectRoleInput]
	SidebarCommander  gocommand.Commander[commands.ToggleSidebarInput]
	LanguageCommander gocommand.Commander[commands.SetLanguageInput]
	LayerCommander    gocommand.Commander[commands.SetMapLayerInput]
	OverlayCommander  gocommand.Commander[commands.SetOverlaysInput]
	SessionCommander  gocommand.Commander[commands.EndSessionInput]
}

var _ Executor = (*CommandExecutor)(nil)

var errMissingCommander = errors.New("httpapi: command is not configured")

// NewCommandExecutor builds an executor with every command bound to service.
func NewCommandExecutor(service *dashboard.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		RoleCommander:     commands.NewSelectRoleCommand(service, telemetry),
		SidebarCommander:  commands.NewToggleSidebarCommand(service, telemetry),
		LanguageCommander: commands.NewSetLanguageCommand(service, telemetry),
		LayerCommander:    commands.NewSetMapLayerCommand(service, telemetry),
		OverlayCommander:  commands.NewSetOverlaysCommand(service, telemetry),
		SessionCommander:  commands.NewEndSessionCommand(service, telemetry),
	}
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errMissingCommander
	}
	return cmd.Execute(ctx, msg)
}

func (e *CommandExecutor) SelectRole(ctx context.Context, input commands.SelectRoleInput) error {
	return execute(ctx, e.RoleCommander, input)
}

func (e *CommandExecutor) ToggleSidebar(ctx context.Context, input commands.ToggleSidebarInput) error {
	return execute(ctx, e.SidebarCommander, input)
}

func (e *CommandExecutor) SetLanguage(ctx context.Context, input commands.SetLanguageInput) error {
	return execute(ctx, e.LanguageCommander, input)
}

func (e *CommandExecutor) SetMapLayer(ctx context.Context, input commands.SetMapLayerInput) error {
	return execute(ctx, e.LayerCommander, input)
}

func (e *CommandExecutor) SetOverlays(ctx context.Context, input commands.SetOverlaysInput) error {
	return execute(ctx, e.OverlayCommander, input)
}

func (e *CommandExecutor) EndSession(ctx context.Context, input commands.EndSessionInput) error {
	return execute(ctx, e.SessionCommander, input)
}

// Request bodies accepted by the mutation endpoints.
type (
	RolePayload struct {
		Role string `json:"role"`
	}
	SidebarPayload struct {
		Open *bool `json:"open,omitempty"`
	}
	LanguagePayload struct {
		Language string `json:"language,omitempty"`
	}
	LayerPayload struct {
		Layer string `json:"layer"`
	}
	OverlaysPayload struct {
		Heatmap *bool `json:"heatmap,omitempty"`
		Routes  *bool `json:"routes,omitempty"`
	}
)

// ViewerFunc resolves the viewer of a request.
type ViewerFunc func(*http.Request) dashboard.ViewerContext

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	API        Executor
	Controller *dashboard.Controller
	Pages      gocommand.Querier[dashboard.ViewerContext, dashboard.Page]
	States     gocommand.Querier[dashboard.ViewerContext, dashboard.UIState]
	Sidebars   gocommand.Querier[dashboard.ViewerContext, dashboard.Sidebar]
	Viewer     ViewerFunc
	// Redirect is where form submissions are sent back to.
	Redirect string
}

// NewHandlers wires handlers for service with the given controller.
func NewHandlers(service *dashboard.Service, controller *dashboard.Controller, telemetry commands.Telemetry) *Handlers {
	return &Handlers{
		API:        NewCommandExecutor(service, telemetry),
		Controller: controller,
		Pages:      queries.NewPageQuery(service),
		States:     queries.NewStateQuery(service),
		Sidebars:   queries.NewMenuQuery(service),
	}
}

func (h *Handlers) viewer(r *http.Request) dashboard.ViewerContext {
	if h.Viewer != nil {
		return h.Viewer(r)
	}
	return ViewerFromRequest(r)
}

// HandlePage renders the dashboard HTML.
func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	if h.Controller == nil {
		writeError(w, errors.New("httpapi: controller is not configured"))
		return
	}
	var buf bytes.Buffer
	if err := h.Controller.RenderTemplate(r.Context(), h.viewer(r), &buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandlePageJSON returns the resolved page model.
func (h *Handlers) HandlePageJSON(w http.ResponseWriter, r *http.Request) {
	respondQuery(w, r, h.Pages, h.viewer(r))
}

// HandleState returns the UI state of the session.
func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	respondQuery(w, r, h.States, h.viewer(r))
}

// HandleSidebar returns the sidebar of the session.
func (h *Handlers) HandleSidebar(w http.ResponseWriter, r *http.Request) {
	respondQuery(w, r, h.Sidebars, h.viewer(r))
}

func respondQuery[R any](w http.ResponseWriter, r *http.Request, q gocommand.Querier[dashboard.ViewerContext, R], viewer dashboard.ViewerContext) {
	if q == nil {
		writeError(w, errors.New("httpapi: query is not configured"))
		return
	}
	result, err := q.Query(r.Context(), viewer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) HandleSelectRole(w http.ResponseWriter, r *http.Request) {
	var payload RolePayload
	if !h.decode(w, r, &payload) {
		return
	}
	h.finish(w, r, h.api().SelectRole(r.Context(), commands.SelectRoleInput{Viewer: h.viewer(r), Role: payload.Role}))
}

func (h *Handlers) HandleToggleSidebar(w http.ResponseWriter, r *http.Request) {
	var payload SidebarPayload
	if !h.decode(w, r, &payload) {
		return
	}
	h.finish(w, r, h.api().ToggleSidebar(r.Context(), commands.ToggleSidebarInput{Viewer: h.viewer(r), Open: payload.Open}))
}

func (h *Handlers) HandleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var payload LanguagePayload
	if !h.decode(w, r, &payload) {
		return
	}
	h.finish(w, r, h.api().SetLanguage(r.Context(), commands.SetLanguageInput{Viewer: h.viewer(r), Language: payload.Language}))
}

func (h *Handlers) HandleSetMapLayer(w http.ResponseWriter, r *http.Request) {
	var payload LayerPayload
	if !h.decode(w, r, &payload) {
		return
	}
	h.finish(w, r, h.api().SetMapLayer(r.Context(), commands.SetMapLayerInput{Viewer: h.viewer(r), Layer: payload.Layer}))
}

func (h *Handlers) HandleSetOverlays(w http.ResponseWriter, r *http.Request) {
	var payload OverlaysPayload
	if !h.decode(w, r, &payload) {
		return
	}
	h.finish(w, r, h.api().SetOverlays(r.Context(), commands.SetOverlaysInput{
		Viewer:  h.viewer(r),
		Heatmap: payload.Heatmap,
		Routes:  payload.Routes,
	}))
}

func (h *Handlers) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	err := h.api().EndSession(r.Context(), commands.EndSessionInput{Viewer: h.viewer(r)})
	if err != nil {
		writeError(w, err)
		return
	}
	ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) api() Executor {
	if h.API == nil {
		return unconfiguredExecutor{}
	}
	return h.API
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := readBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	if err := DecodePayload(r.Header.Get("Content-Type"), body, v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

// finish answers a mutation: form posts are redirected back to the page,
// everything else gets the fresh state.
func (h *Handlers) finish(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	if IsForm(r.Header.Get("Content-Type")) {
		target := h.Redirect
		if target == "" {
			target = DefaultBasePath + "/dashboard"
		}
		if session := r.URL.Query().Get("session"); session != "" {
			target += "?session=" + url.QueryEscape(session)
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	if h.States == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	state, err := h.States.Query(r.Context(), h.viewer(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// StatusFor maps dashboard errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrUnknownRole),
		errors.Is(err, dashboard.ErrUnsupportedLanguage),
		errors.Is(err, dashboard.ErrUnknownMapLayer),
		errors.Is(err, dashboard.ErrMissingSession),
		errors.Is(err, commands.ErrMissingOverlay):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrViewNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const maxBodyBytes = 1 << 16

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	return io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
}

// IsForm reports whether the content type is an HTML form encoding.
func IsForm(contentType string) bool {
	media, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return media == "application/x-www-form-urlencoded"
}

// DecodePayload decodes a JSON or form encoded body into v. Repeated form
// fields keep their last value and "true"/"false" become booleans.
func DecodePayload(contentType string, body []byte, v any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if !IsForm(contentType) {
		return json.Unmarshal(body, v)
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return err
	}
	fields := make(map[string]any, len(values))
	for key, list := range values {
		if len(list) == 0 {
			continue
		}
		switch value := list[len(list)-1]; value {
		case "true", "on":
			fields[key] = true
		case "false":
			fields[key] = false
		default:
			fields[key] = value
		}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

type unconfiguredExecutor struct{}

func (unconfiguredExecutor) SelectRole(context.Context, commands.SelectRoleInput) error {
	return errMissingCommander
}
func (unconfiguredExecutor) ToggleSidebar(context.Context, commands.ToggleSidebarInput) error {
	return errMissingCommander
}
func (unconfiguredExecutor) SetLanguage(context.Context, commands.SetLanguageInput) error {
	return errMissingCommander
}
func (unconfiguredExecutor) SetMapLayer(context.Context, commands.SetMapLayerInput) error {
	return errMissingCommander
}
func (unconfiguredExecutor) SetOverlays(context.Context, commands.SetOverlaysInput) error {
	return errMissingCommander
}
func (unconfiguredExecutor) EndSession(context.Context, commands.EndSessionInput) error {
	return errMissingCommander
}
