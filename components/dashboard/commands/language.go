package commands

import (
	"context"
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-carbon-dashboard/components/dashboard"
)

// SetLanguageInput selects a language. An empty language toggles between
// English and Hindi.
type SetLanguageInput struct {
	Viewer   dashboard.ViewerContext `json:"viewer"`
	Language string                  `json:"language,omitempty"`
}

type languageService interface {
	SetLanguage(ctx context.Context, viewer dashboard.ViewerContext, lang dashboard.Language) (dashboard.UIState, error)
	ToggleLanguage(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.UIState, error)
}

// SetLanguageCommand changes the language of the translated views.
type SetLanguageCommand struct {
	service   languageService
	telemetry Telemetry
}

// NewSetLanguageCommand creates the command.
func NewSetLanguageCommand(service languageService, telemetry Telemetry) *SetLanguageCommand {
	return &SetLanguageCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetLanguageInput] = (*SetLanguageCommand)(nil)

// Execute sets or toggles the viewer language.
func (c *SetLanguageCommand) Execute(ctx context.Context, msg SetLanguageInput) error {
	if c.service == nil {
		return errors.New("language command requires service")
	}
	var (
		state dashboard.UIState
		err   error
	)
	if strings.TrimSpace(msg.Language) == "" {
		state, err = c.service.ToggleLanguage(ctx, msg.Viewer)
	} else {
		var lang dashboard.Language
		lang, err = dashboard.ParseLanguage(msg.Language)
		if err != nil {
			return err
		}
		state, err = c.service.SetLanguage(ctx, msg.Viewer, lang)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.language", map[string]any{
		"session":  msg.Viewer.SessionID,
		"language": string(state.Language),
	})
	return nil
}
