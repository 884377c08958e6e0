package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-carbon-dashboard/components/dashboard"
)

// SelectRoleInput switches the viewer's role.
type SelectRoleInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
	Role   string                  `json:"role"`
}

type roleService interface {
	SelectRole(ctx context.Context, viewer dashboard.ViewerContext, role dashboard.Role) (dashboard.UIState, error)
}

// SelectRoleCommand changes which view the session renders.
type SelectRoleCommand struct {
	service   roleService
	telemetry Telemetry
}

// NewSelectRoleCommand creates the command.
func NewSelectRoleCommand(service roleService, telemetry Telemetry) *SelectRoleCommand {
	return &SelectRoleCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectRoleInput] = (*SelectRoleCommand)(nil)

// Execute validates the role and delegates to the dashboard service.
func (c *SelectRoleCommand) Execute(ctx context.Context, msg SelectRoleInput) error {
	if c.service == nil {
		return errors.New("select role command requires service")
	}
	role, err := dashboard.ParseRole(msg.Role)
	if err != nil {
		return err
	}
	state, err := c.service.SelectRole(ctx, msg.Viewer, role)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.select_role", map[string]any{
		"session": msg.Viewer.SessionID,
		"role":    string(state.Role),
	})
	return nil
}
