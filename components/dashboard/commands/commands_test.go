package commands

import (
	"context"
	"errors"
	"testing"

	dashboard "github.com/goliatone/go-carbon-dashboard/components/dashboard"
)

type stubTelemetry struct {
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.events = append(s.events, event)
}

var viewer = dashboard.ViewerContext{SessionID: "session-1"}

func newService() *dashboard.Service {
	return dashboard.NewService(dashboard.Options{})
}

func TestSelectRoleCommand(t *testing.T) {
	svc := newService()
	telemetry := &stubTelemetry{}
	cmd := NewSelectRoleCommand(svc, telemetry)
	if err := cmd.Execute(context.Background(), SelectRoleInput{Viewer: viewer, Role: "community"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	state, _ := svc.State(context.Background(), viewer)
	if state.Role != dashboard.RoleCommunity {
		t.Fatalf("expected community role, got %s", state.Role)
	}
	if len(telemetry.events) != 1 || telemetry.events[0] != "dashboard.command.select_role" {
		t.Fatalf("expected telemetry event, got %v", telemetry.events)
	}
	err := cmd.Execute(context.Background(), SelectRoleInput{Viewer: viewer, Role: "mayor"})
	if !errors.Is(err, dashboard.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestToggleSidebarCommand(t *testing.T) {
	svc := newService()
	cmd := NewToggleSidebarCommand(svc, nil)
	if err := cmd.Execute(context.Background(), ToggleSidebarInput{Viewer: viewer}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	state, _ := svc.State(context.Background(), viewer)
	if state.SidebarOpen {
		t.Fatalf("expected sidebar collapsed after toggle")
	}
	open := true
	if err := cmd.Execute(context.Background(), ToggleSidebarInput{Viewer: viewer, Open: &open}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	state, _ = svc.State(context.Background(), viewer)
	if !state.SidebarOpen {
		t.Fatalf("expected sidebar open")
	}
}

func TestSetLanguageCommand(t *testing.T) {
	svc := newService()
	cmd := NewSetLanguageCommand(svc, nil)
	if err := cmd.Execute(context.Background(), SetLanguageInput{Viewer: viewer}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	state, _ := svc.State(context.Background(), viewer)
	if state.Language != dashboard.LanguageHindi {
		t.Fatalf("expected toggle to hindi, got %s", state.Language)
	}
	if err := cmd.Execute(context.Background(), SetLanguageInput{Viewer: viewer, Language: "EN"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	state, _ = svc.State(context.Background(), viewer)
	if state.Language != dashboard.LanguageEnglish {
		t.Fatalf("expected english, got %s", state.Language)
	}
	if err := cmd.Execute(context.Background(), SetLanguageInput{Viewer: viewer, Language: "fr"}); !errors.Is(err, dashboard.ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestMapCommands(t *testing.T) {
	svc := newService()
	layer := NewSetMapLayerCommand(svc, nil)
	if err := layer.Execute(context.Background(), SetMapLayerInput{Viewer: viewer, Layer: "aqi"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if err := layer.Execute(context.Background(), SetMapLayerInput{Viewer: viewer, Layer: "terrain"}); !errors.Is(err, dashboard.ErrUnknownMapLayer) {
		t.Fatalf("expected ErrUnknownMapLayer, got %v", err)
	}

	overlays := NewSetOverlaysCommand(svc, nil)
	if err := overlays.Execute(context.Background(), SetOverlaysInput{Viewer: viewer}); err == nil {
		t.Fatalf("expected error without overlay flags")
	}
	off := false
	if err := overlays.Execute(context.Background(), SetOverlaysInput{Viewer: viewer, Heatmap: &off}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	state, _ := svc.State(context.Background(), viewer)
	if state.MapLayer != dashboard.LayerAQI || state.ShowHeatmap || !state.ShowRoutes {
		t.Fatalf("unexpected state %#v", state)
	}
}

func TestEndSessionCommand(t *testing.T) {
	svc := newService()
	if _, err := svc.Page(context.Background(), viewer); err != nil {
		t.Fatalf("Page returned error: %v", err)
	}
	if svc.Maps().Len() != 1 {
		t.Fatalf("expected admin page to mount the map")
	}
	cmd := NewEndSessionCommand(svc, nil)
	if err := cmd.Execute(context.Background(), EndSessionInput{Viewer: viewer}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if svc.Maps().Len() != 0 {
		t.Fatalf("expected map released")
	}
}

func TestCommandsRequireService(t *testing.T) {
	ctx := context.Background()
	if err := NewSelectRoleCommand(nil, nil).Execute(ctx, SelectRoleInput{}); err == nil {
		t.Fatalf("expected error")
	}
	if err := NewToggleSidebarCommand(nil, nil).Execute(ctx, ToggleSidebarInput{}); err == nil {
		t.Fatalf("expected error")
	}
	if err := NewSetLanguageCommand(nil, nil).Execute(ctx, SetLanguageInput{}); err == nil {
		t.Fatalf("expected error")
	}
	if err := NewSetMapLayerCommand(nil, nil).Execute(ctx, SetMapLayerInput{}); err == nil {
		t.Fatalf("expected error")
	}
	if err := NewEndSessionCommand(nil, nil).Execute(ctx, EndSessionInput{}); err == nil {
		t.Fatalf("expected error")
	}
}
