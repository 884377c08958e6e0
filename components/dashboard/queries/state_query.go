package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-carbon-dashboard/components/dashboard"
)

type stateService interface {
	State(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.UIState, error)
	Sidebar(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Sidebar, error)
}

// StateQuery returns the UI state of a session.
type StateQuery struct {
	service stateService
}

// NewStateQuery builds the query.
func NewStateQuery(service stateService) *StateQuery {
	return &StateQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.UIState] = (*StateQuery)(nil)

// Query returns the viewer state.
func (q *StateQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.UIState, error) {
	return q.service.State(ctx, viewer)
}

// MenuQuery returns the role menu laid out for the session.
type MenuQuery struct {
	service stateService
}

// NewMenuQuery builds the query.
func NewMenuQuery(service stateService) *MenuQuery {
	return &MenuQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.Sidebar] = (*MenuQuery)(nil)

// Query returns the viewer sidebar.
func (q *MenuQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Sidebar, error) {
	return q.service.Sidebar(ctx, viewer)
}
