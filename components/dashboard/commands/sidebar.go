package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-carbon-dashboard/components/dashboard"
)

// ToggleSidebarInput flips the sidebar, or sets it when Open is provided.
type ToggleSidebarInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
	Open   *bool                   `json:"open,omitempty"`
}

type sidebarService interface {
	ToggleSidebar(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.UIState, error)
	SetSidebar(ctx context.Context, viewer dashboard.ViewerContext, open bool) (dashboard.UIState, error)
}

// ToggleSidebarCommand opens or collapses the navigation sidebar.
type ToggleSidebarCommand struct {
	service   sidebarService
	telemetry Telemetry
}

// NewToggleSidebarCommand creates the command.
func NewToggleSidebarCommand(service sidebarService, telemetry Telemetry) *ToggleSidebarCommand {
	return &ToggleSidebarCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleSidebarInput] = (*ToggleSidebarCommand)(nil)

// Execute toggles or sets the sidebar state.
func (c *ToggleSidebarCommand) Execute(ctx context.Context, msg ToggleSidebarInput) error {
	if c.service == nil {
		return errors.New("sidebar command requires service")
	}
	var (
		state dashboard.UIState
		err   error
	)
	if msg.Open != nil {
		state, err = c.service.SetSidebar(ctx, msg.Viewer, *msg.Open)
	} else {
		state, err = c.service.ToggleSidebar(ctx, msg.Viewer)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.sidebar", map[string]any{
		"session": msg.Viewer.SessionID,
		"open":    state.SidebarOpen,
	})
	return nil
}
