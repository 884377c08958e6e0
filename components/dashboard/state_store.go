package dashboard

import (
	"context"
	"sync"
)

// InMemoryStateStore keeps UI state per session in memory. Safe for concurrent use.
type InMemoryStateStore struct {
	mu   sync.RWMutex
	data map[string]UIState
}

var _ StateStore = (*InMemoryStateStore)(nil)

// NewInMemoryStateStore creates an empty state store.
func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{
		data: make(map[string]UIState),
	}
}

// State returns the stored state or the defaults of a fresh session. Fresh
// sessions start in the language matching the viewer locale.
func (s *InMemoryStateStore) State(_ context.Context, viewer ViewerContext) (UIState, error) {
	if viewer.SessionID != "" {
		s.mu.RLock()
		state, ok := s.data[viewer.SessionID]
		s.mu.RUnlock()
		if ok {
			state.normalize()
			return state, nil
		}
	}
	return initialState(viewer), nil
}

func initialState(viewer ViewerContext) UIState {
	state := DefaultUIState()
	if viewer.Locale != "" {
		state.Language = MatchLanguage(viewer.Locale)
	}
	return state
}

// SaveState persists the state of a session.
func (s *InMemoryStateStore) SaveState(_ context.Context, viewer ViewerContext, state UIState) error {
	if viewer.SessionID == "" {
		return ErrMissingSession
	}
	state.normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[viewer.SessionID] = state
	return nil
}

// DeleteState forgets a session. Unknown sessions are ignored.
func (s *InMemoryStateStore) DeleteState(_ context.Context, viewer ViewerContext) error {
	if viewer.SessionID == "" {
		return ErrMissingSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, viewer.SessionID)
	return nil
}

// Len reports the number of tracked sessions.
func (s *InMemoryStateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
