package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LoggerOptions{Service: "carbondash", Version: "test", Level: "warn", Output: &buf})

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "carbondash", line["service"])
	assert.Equal(t, "test", line["version"])
	assert.Equal(t, "warn", line["level"])
}

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LoggerOptions{Level: "loud", Output: &buf})
	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	log.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogTelemetry(t *testing.T) {
	var buf bytes.Buffer
	rec := NewLogTelemetry(zerolog.New(&buf).Level(zerolog.DebugLevel))

	rec.Record(context.Background(), "dashboard.page.render", map[string]any{"view": "carbon.view.admin"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "dashboard.page.render", line["event"])
	assert.Equal(t, "carbon.view.admin", line["view"])
}

type countingRecorder struct{ events []string }

func (c *countingRecorder) Record(_ context.Context, event string, _ map[string]any) {
	c.events = append(c.events, event)
}

func TestMultiSkipsNil(t *testing.T) {
	a, b := &countingRecorder{}, &countingRecorder{}
	Multi{a, nil, b}.Record(context.Background(), "dashboard.state.role", nil)
	assert.Equal(t, []string{"dashboard.state.role"}, a.events)
	assert.Equal(t, []string{"dashboard.state.role"}, b.events)
}

func TestMeterTelemetryCountsEvents(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	rec, err := NewMeterTelemetry(provider)
	require.NoError(t, err)

	ctx := context.Background()
	rec.Record(ctx, "dashboard.state.role", map[string]any{"session": "s1", "role": "community"})
	rec.Record(ctx, "dashboard.state.role", map[string]any{"session": "s2", "role": "community"})
	rec.Record(ctx, "dashboard.map.mount", map[string]any{"session": "s1"})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
	m := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, EventCounter, m.Name)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		event, _ := dp.Attributes.Value(attribute.Key("event"))
		counts[event.AsString()] += dp.Value
		_, hasSession := dp.Attributes.Value(attribute.Key("session"))
		assert.False(t, hasSession)
	}
	assert.Equal(t, int64(2), counts["dashboard.state.role"])
	assert.Equal(t, int64(1), counts["dashboard.map.mount"])
}

func TestEventTotals(t *testing.T) {
	provider, reader := NewManualMeterProvider()
	rec, err := NewMeterTelemetry(provider)
	require.NoError(t, err)

	ctx := context.Background()
	rec.Record(ctx, "dashboard.page.render", map[string]any{"view": "carbon.view.admin"})
	rec.Record(ctx, "dashboard.page.render", map[string]any{"view": "carbon.view.operator"})
	rec.Record(ctx, "dashboard.session.end", nil)

	totals, err := EventTotals(ctx, reader)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		"dashboard.page.render": 2,
		"dashboard.session.end": 1,
	}, totals)
}
