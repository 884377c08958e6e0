package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-carbon-dashboard/components/dashboard"
)

// EndSessionInput closes a viewer session.
type EndSessionInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
}

type sessionService interface {
	EndSession(ctx context.Context, viewer dashboard.ViewerContext) error
}

// EndSessionCommand releases the session map and forgets its state.
type EndSessionCommand struct {
	service   sessionService
	telemetry Telemetry
}

// NewEndSessionCommand creates the command.
func NewEndSessionCommand(service sessionService, telemetry Telemetry) *EndSessionCommand {
	return &EndSessionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[EndSessionInput] = (*EndSessionCommand)(nil)

// Execute ends the session.
func (c *EndSessionCommand) Execute(ctx context.Context, msg EndSessionInput) error {
	if c.service == nil {
		return errors.New("end session command requires service")
	}
	if err := c.service.EndSession(ctx, msg.Viewer); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.end_session", map[string]any{
		"session": msg.Viewer.SessionID,
	})
	return nil
}
