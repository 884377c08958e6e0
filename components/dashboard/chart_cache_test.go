package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func TestChartCacheServesUntilExpiry(t *testing.T) {
	cache := NewChartCache(time.Minute)
	clock, advance := fixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	cache.now = clock

	renders := 0
	render := func() (string, error) {
		renders++
		return "<div>emissions</div>", nil
	}

	first, err := cache.GetOrRender("emission_metrics", render)
	require.NoError(t, err)
	second, err := cache.GetOrRender("emission_metrics", render)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, renders)

	advance(time.Minute)
	_, err = cache.GetOrRender("emission_metrics", render)
	require.NoError(t, err)
	assert.Equal(t, 2, renders)
	assert.Equal(t, ChartCacheStats{Hits: 1, Misses: 2, Entries: 1}, cache.Stats())
}

func TestChartCacheSkipsFailedRenders(t *testing.T) {
	cache := NewChartCache(time.Minute)
	_, err := cache.GetOrRender("pie", func() (string, error) { return "", errors.New("boom") })
	require.Error(t, err)
	assert.Zero(t, cache.Stats().Entries)
}

func TestChartCachePurge(t *testing.T) {
	cache := NewChartCache(time.Second)
	clock, advance := fixedClock(time.Unix(0, 0))
	cache.now = clock

	render := func() (string, error) { return "chart", nil }
	_, _ = cache.GetOrRender("a", render)
	advance(500 * time.Millisecond)
	_, _ = cache.GetOrRender("b", render)
	advance(600 * time.Millisecond)

	assert.Equal(t, 1, cache.Purge())
	assert.Equal(t, 1, cache.Stats().Entries)
}

func TestChartCacheDisabled(t *testing.T) {
	cache := NewChartCache(0)
	renders := 0
	render := func() (string, error) {
		renders++
		return "chart", nil
	}
	_, _ = cache.GetOrRender("a", render)
	_, _ = cache.GetOrRender("a", render)
	assert.Equal(t, 2, renders)

	var nilCache *ChartCache
	html, err := nilCache.GetOrRender("a", render)
	require.NoError(t, err)
	assert.Equal(t, "chart", html)
}

func TestContentKeyIsStable(t *testing.T) {
	a := contentKey(map[string]any{"type": "object"})
	b := contentKey(map[string]any{"type": "object"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, contentKey(map[string]any{"type": "array"}))
	assert.Equal(t, "empty", contentKey(nil))
}
