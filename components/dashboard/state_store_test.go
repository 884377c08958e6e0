package dashboard

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryStateStore(t *testing.T) {
	store := NewInMemoryStateStore()
	viewer := ViewerContext{SessionID: "session-1", Locale: "en"}

	state, err := store.State(context.Background(), viewer)
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if state != DefaultUIState() {
		t.Fatalf("expected default state for new session, got %#v", state)
	}

	state.Role = RoleOperator
	state.SidebarOpen = false
	if err := store.SaveState(context.Background(), viewer, state); err != nil {
		t.Fatalf("SaveState returned error: %v", err)
	}
	out, err := store.State(context.Background(), viewer)
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if out.Role != RoleOperator || out.SidebarOpen {
		t.Fatalf("expected persisted state, got %#v", out)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one session, got %d", store.Len())
	}

	if err := store.DeleteState(context.Background(), viewer); err != nil {
		t.Fatalf("DeleteState returned error: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected session dropped")
	}
}

func TestInMemoryStateStoreNormalizesPartialState(t *testing.T) {
	store := NewInMemoryStateStore()
	viewer := ViewerContext{SessionID: "partial"}
	if err := store.SaveState(context.Background(), viewer, UIState{SidebarOpen: true}); err != nil {
		t.Fatalf("SaveState returned error: %v", err)
	}
	out, _ := store.State(context.Background(), viewer)
	if out.Role != DefaultRole || out.Language != DefaultLanguage || out.MapLayer != DefaultMapLayer {
		t.Fatalf("expected defaults filled in, got %#v", out)
	}
}

func TestInMemoryStateStoreRequiresSession(t *testing.T) {
	store := NewInMemoryStateStore()
	err := store.SaveState(context.Background(), ViewerContext{}, DefaultUIState())
	if !errors.Is(err, ErrMissingSession) {
		t.Fatalf("expected ErrMissingSession, got %v", err)
	}
}

func TestInMemoryStateStoreSeedsLanguageFromLocale(t *testing.T) {
	store := NewInMemoryStateStore()
	state, err := store.State(context.Background(), ViewerContext{SessionID: "fresh", Locale: "hi-IN,hi;q=0.9,en;q=0.5"})
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if state.Language != LanguageHindi {
		t.Fatalf("expected hindi for hindi locale, got %s", state.Language)
	}
}
