package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-carbon-dashboard/components/dashboard"
)

type pageService interface {
	Page(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Page, error)
}

// PageQuery executes read-only page resolution.
type PageQuery struct {
	service pageService
}

// NewPageQuery builds the query.
func NewPageQuery(service pageService) *PageQuery {
	return &PageQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.Page] = (*PageQuery)(nil)

// Query resolves the page for the viewer.
func (q *PageQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Page, error) {
	return q.service.Page(ctx, viewer)
}
