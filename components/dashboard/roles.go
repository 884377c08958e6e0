package dashboard

import (
	"errors"
	"fmt"
	"strings"
)

// Role selects which dashboard view is rendered.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCommunity Role = "community"
	RoleOperator  Role = "operator"

	// DefaultRole is active until the viewer picks another one.
	DefaultRole = RoleAdmin
)

// View codes resolved from roles.
const (
	ViewAdmin     = "carbon.view.admin"
	ViewCommunity = "carbon.view.community"
	ViewOperator  = "carbon.view.operator"
)

var (
	ErrUnknownRole         = errors.New("dashboard: unknown role")
	ErrUnsupportedLanguage = errors.New("dashboard: unsupported language")
	ErrUnknownMapLayer     = errors.New("dashboard: unknown map layer")
	ErrMissingSession      = errors.New("dashboard: viewer session id is required")
)

// ParseRole validates a role coming from user input.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	switch role {
	case RoleAdmin, RoleCommunity, RoleOperator:
		return role, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, value)
	}
}

// ViewForRole maps a role to its view code. Unknown roles render the admin view.
func ViewForRole(role Role) string {
	switch role {
	case RoleAdmin:
		return ViewAdmin
	case RoleCommunity:
		return ViewCommunity
	case RoleOperator:
		return ViewOperator
	default:
		return ViewAdmin
	}
}

// RoleOption is an entry of the header role selector.
type RoleOption struct {
	Value    Role   `json:"value"`
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Selected bool   `json:"selected"`
}

var roleOptions = []RoleOption{
	{Value: RoleAdmin, Label: "Admin View", Icon: "shield"},
	{Value: RoleCommunity, Label: "Community View", Icon: "users"},
	{Value: RoleOperator, Label: "Operator View", Icon: "truck"},
}

// RoleOptions returns the selector entries with the active role marked.
func RoleOptions(active Role) []RoleOption {
	out := make([]RoleOption, len(roleOptions))
	for i, opt := range roleOptions {
		opt.Selected = opt.Value == active
		out[i] = opt
	}
	return out
}

// Language is a locale supported by the translated views.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"

	DefaultLanguage = LanguageEnglish
)

// ParseLanguage validates a language code.
func ParseLanguage(value string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(value)))
	switch lang {
	case LanguageEnglish, LanguageHindi:
		return lang, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, value)
	}
}

// Toggle switches between the two supported languages.
func (l Language) Toggle() Language {
	if l == LanguageHindi {
		return LanguageEnglish
	}
	return LanguageHindi
}

// MapLayer is the data layer drawn on the map.
type MapLayer string

const (
	LayerEmissions MapLayer = "emissions"
	LayerAQI       MapLayer = "aqi"
	LayerRoutes    MapLayer = "routes"

	DefaultMapLayer = LayerEmissions
)

// MapLayers lists the layers in button order.
func MapLayers() []MapLayer {
	return []MapLayer{LayerEmissions, LayerAQI, LayerRoutes}
}

// ParseMapLayer validates a layer name.
func ParseMapLayer(value string) (MapLayer, error) {
	layer := MapLayer(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range MapLayers() {
		if layer == known {
			return layer, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMapLayer, value)
}

// UIState is the per-session interactive state of the dashboard.
type UIState struct {
	Role        Role     `json:"role"`
	SidebarOpen bool     `json:"sidebar_open"`
	Language    Language `json:"language"`
	MapLayer    MapLayer `json:"map_layer"`
	ShowHeatmap bool     `json:"show_heatmap"`
	ShowRoutes  bool     `json:"show_routes"`
}

// DefaultUIState is the state of a fresh session.
func DefaultUIState() UIState {
	return UIState{
		Role:        DefaultRole,
		SidebarOpen: true,
		Language:    DefaultLanguage,
		MapLayer:    DefaultMapLayer,
		ShowHeatmap: true,
		ShowRoutes:  true,
	}
}

func (s *UIState) normalize() {
	if s.Role == "" {
		s.Role = DefaultRole
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.MapLayer == "" {
		s.MapLayer = DefaultMapLayer
	}
}
