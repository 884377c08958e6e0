package dashboard

import (
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"
)

// Theme carries the palette tokens and chart theme used by the page templates.
type Theme struct {
	Name       string            `json:"name"`
	Tokens     map[string]string `json:"tokens"`
	ChartTheme string            `json:"chart_theme"`
	Assets     ThemeAssets       `json:"assets"`
}

// ThemeAssets maps asset keys (logo, favicon) to paths with an optional prefix.
type ThemeAssets struct {
	Values map[string]string `json:"values,omitempty"`
	Prefix string            `json:"prefix,omitempty"`
}

// DefaultTheme is the carbon palette: navy primary, green good, amber warning, red poor.
func DefaultTheme() Theme {
	return Theme{
		Name: "carbon",
		Tokens: map[string]string{
			"color-primary": "#1E3A8A",
			"color-good":    "#15803D",
			"color-warning": "#F59E0B",
			"color-poor":    "#DC2626",
			"color-muted":   "#6B7280",
		},
		ChartTheme: types.ThemeWesteros,
		Assets: ThemeAssets{
			Values: map[string]string{"logo": "logo.jpg"},
		},
	}
}

// AssetURL resolves a named asset, applying the prefix when present.
func (assets ThemeAssets) AssetURL(name string) string {
	path := assets.Values[name]
	if path == "" {
		return ""
	}
	if assets.Prefix != "" {
		return strings.TrimRight(assets.Prefix, "/") + "/" + strings.TrimLeft(path, "/")
	}
	return path
}

// CSSVariablesInline renders the tokens as a sorted inline style declaration.
func (t Theme) CSSVariablesInline() string {
	if len(t.Tokens) == 0 {
		return ""
	}
	keys := make([]string, 0, len(t.Tokens))
	for key := range t.Tokens {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	for _, key := range keys {
		value := t.Tokens[key]
		name := normalizeCSSVariable(key)
		if name == "" || value == "" {
			continue
		}
		builder.WriteString(name)
		builder.WriteString(": ")
		builder.WriteString(value)
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}
