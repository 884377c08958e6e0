package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Translator exposes locale-aware translation helpers. Implementations can provide
// pluralization or other behaviors while providers rely on this lightweight interface.
type Translator interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// ErrMissingTranslation is returned when a key has no entry for the locale.
var ErrMissingTranslation = errors.New("dashboard: missing translation")

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// CatalogTranslator serves flat key/value catalogs keyed by locale.
type CatalogTranslator struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string
	fallback string
}

var _ Translator = (*CatalogTranslator)(nil)

// NewCatalogTranslator builds an empty translator falling back to the given locale.
func NewCatalogTranslator(fallback string) *CatalogTranslator {
	return &CatalogTranslator{
		catalogs: map[string]map[string]string{},
		fallback: normalizeLocale(fallback),
	}
}

// DefaultTranslator loads the embedded English and Hindi catalogs.
func DefaultTranslator() (*CatalogTranslator, error) {
	t := NewCatalogTranslator(string(DefaultLanguage))
	if err := t.LoadFS(embeddedLocales, "locales"); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadFS reads every <locale>.yaml file of dir.
func (t *CatalogTranslator) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("dashboard: read locales %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		locale := strings.TrimSuffix(entry.Name(), ".yaml")
		f, err := fsys.Open(path.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("dashboard: open locale %s: %w", locale, err)
		}
		var catalog map[string]string
		decoder := yaml.NewDecoder(f)
		err = decoder.Decode(&catalog)
		f.Close()
		if err != nil {
			return fmt.Errorf("dashboard: parse locale %s: %w", locale, err)
		}
		t.Add(locale, catalog)
	}
	return nil
}

// Add merges entries into the catalog of a locale.
func (t *CatalogTranslator) Add(locale string, entries map[string]string) {
	locale = normalizeLocale(locale)
	t.mu.Lock()
	defer t.mu.Unlock()
	catalog, ok := t.catalogs[locale]
	if !ok {
		catalog = make(map[string]string, len(entries))
		t.catalogs[locale] = catalog
	}
	for key, value := range entries {
		catalog[key] = value
	}
}

// Translate looks the key up for the locale, its base language, then the fallback locale.
// Args replace {name} placeholders.
func (t *CatalogTranslator) Translate(_ context.Context, key, locale string, args map[string]any) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	candidates := localeCandidates(locale)
	candidates[len(candidates)-1] = t.fallback
	for _, candidate := range candidates {
		if value, ok := t.catalogs[candidate][key]; ok && value != "" {
			return interpolate(value, args), nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, locale)
}

// Locales lists the loaded locales in sorted order.
func (t *CatalogTranslator) Locales() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.catalogs))
	for locale := range t.catalogs {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Keys lists the keys of a locale in sorted order.
func (t *CatalogTranslator) Keys(locale string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	catalog := t.catalogs[normalizeLocale(locale)]
	out := make([]string, 0, len(catalog))
	for key := range catalog {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func interpolate(value string, args map[string]any) string {
	if len(args) == 0 || !strings.Contains(value, "{") {
		return value
	}
	pairs := make([]string, 0, len(args)*2)
	for name, arg := range args {
		pairs = append(pairs, "{"+name+"}", fmt.Sprint(arg))
	}
	return strings.NewReplacer(pairs...).Replace(value)
}

var supportedLanguages = []language.Tag{
	language.English,
	language.Hindi,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// MatchLanguage picks the supported language best matching an Accept-Language
// header or locale string, defaulting to English.
func MatchLanguage(header string) Language {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultLanguage
	}
	_, idx := language.MatchStrings(languageMatcher, header)
	if idx == 1 {
		return LanguageHindi
	}
	return LanguageEnglish
}

// ResolveLocalizedValue selects the best translation for the provided locale and falls back to the supplied value.
// Keys are matched case-insensitively, and language-region pairs (`hi-in`) fall back to their
// base language (`hi`) when present.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		if candidate == "" {
			continue
		}
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	return fallback
}

// NameForLocale returns the display name for the requested locale with graceful fallback to the default name.
func (def WidgetDefinition) NameForLocale(locale string) string {
	return ResolveLocalizedValue(def.NameLocalized, locale, def.Name)
}

// DescriptionForLocale returns the localized description if available.
func (def WidgetDefinition) DescriptionForLocale(locale string) string {
	return ResolveLocalizedValue(def.DescriptionLocalized, locale, def.Description)
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, "default")
}

func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(locale)), "_", "-")
}

func translateOrFallback(ctx context.Context, svc Translator, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, params); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
