package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// MaxWidgetWidth is the column count of the view grid. Unset widths span it.
const MaxWidgetWidth = 12

var (
	ErrViewNotFound      = errors.New("dashboard: view not found")
	ErrUnknownDefinition = errors.New("dashboard: unknown widget definition")
	ErrDuplicateInstance = errors.New("dashboard: duplicate widget instance id")
	ErrMissingInstanceID = errors.New("dashboard: widget instance id is required")
	errMissingViewCode   = errors.New("dashboard: view code is required")
	errMissingRegistry   = errors.New("dashboard: view store requires a provider registry")
)

// StaticViewStore serves a fixed set of validated views.
type StaticViewStore struct {
	mu    sync.RWMutex
	views map[string]ViewDefinition
	order []string
}

var _ ViewStore = (*StaticViewStore)(nil)

// NewStaticViewStore validates every view against the registry definitions and
// their configuration schemas. Widths are clamped to the 12 column grid.
func NewStaticViewStore(registry ProviderRegistry, validator ConfigValidator, views ...ViewDefinition) (*StaticViewStore, error) {
	if registry == nil {
		return nil, errMissingRegistry
	}
	if validator == nil {
		validator = noopConfigValidator{}
	}
	store := &StaticViewStore{views: make(map[string]ViewDefinition, len(views))}
	var errs []error
	for _, view := range views {
		view = cloneView(view)
		if err := ValidateView(registry, validator, &view); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, exists := store.views[view.Code]; !exists {
			store.order = append(store.order, view.Code)
		}
		store.views[view.Code] = view
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return store, nil
}

// ValidateView checks instance ids and definitions, normalizes widths and
// validates each configuration against its definition schema.
func ValidateView(registry ProviderRegistry, validator ConfigValidator, view *ViewDefinition) error {
	if view.Code == "" {
		return errMissingViewCode
	}
	seen := map[string]struct{}{}
	var errs []error
	for r := range view.Rows {
		widgets := view.Rows[r].Widgets
		for i := range widgets {
			inst := &widgets[i]
			if inst.ID == "" {
				errs = append(errs, fmt.Errorf("%w: view %s row %d position %d", ErrMissingInstanceID, view.Code, r, i))
				continue
			}
			if _, dup := seen[inst.ID]; dup {
				errs = append(errs, fmt.Errorf("%w: %s in view %s", ErrDuplicateInstance, inst.ID, view.Code))
				continue
			}
			seen[inst.ID] = struct{}{}
			inst.Width = clampWidth(inst.Width)
			def, ok := registry.Definition(inst.DefinitionID)
			if !ok {
				errs = append(errs, fmt.Errorf("%w: %s (instance %s)", ErrUnknownDefinition, inst.DefinitionID, inst.ID))
				continue
			}
			if validator != nil {
				if err := validator.Validate(def, inst.Configuration); err != nil {
					errs = append(errs, fmt.Errorf("view %s instance %s: %w", view.Code, inst.ID, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func clampWidth(width int) int {
	switch {
	case width <= 0:
		return MaxWidgetWidth
	case width > MaxWidgetWidth:
		return MaxWidgetWidth
	default:
		return width
	}
}

// View returns a copy of the view registered under code.
func (s *StaticViewStore) View(_ context.Context, code string) (ViewDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	view, ok := s.views[code]
	if !ok {
		return ViewDefinition{}, fmt.Errorf("%w: %s", ErrViewNotFound, code)
	}
	return cloneView(view), nil
}

// Views returns copies of all views in registration order.
func (s *StaticViewStore) Views(context.Context) ([]ViewDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ViewDefinition, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, cloneView(s.views[code]))
	}
	return out, nil
}
