package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const meterName = "github.com/goliatone/go-carbon-dashboard/pkg/observability"

// EventCounter is the instrument MeterTelemetry increments.
const EventCounter = "carbon_dashboard.events"

// attributeKeys are the payload fields copied onto counter attributes.
// Session ids are never copied.
var attributeKeys = []string{"role", "language", "layer", "view", "widget", "reason"}

// MeterTelemetry counts telemetry events with OpenTelemetry.
type MeterTelemetry struct {
	events metric.Int64Counter
}

var _ Recorder = (*MeterTelemetry)(nil)

// NewMeterTelemetry creates the counter on provider, or on the global
// provider when nil.
func NewMeterTelemetry(provider metric.MeterProvider) (*MeterTelemetry, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	counter, err := provider.Meter(meterName).Int64Counter(
		EventCounter,
		metric.WithDescription("Dashboard telemetry events by name"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create event counter: %w", err)
	}
	return &MeterTelemetry{events: counter}, nil
}

func (m *MeterTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	attrs := []attribute.KeyValue{attribute.String("event", event)}
	for _, key := range attributeKeys {
		switch v := payload[key].(type) {
		case string:
			if v != "" {
				attrs = append(attrs, attribute.String(key, v))
			}
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		case fmt.Stringer:
			attrs = append(attrs, attribute.String(key, v.String()))
		}
	}
	m.events.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// NewManualMeterProvider returns an SDK provider whose readings are pulled
// on demand with EventTotals.
func NewManualMeterProvider() (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), reader
}

// EventTotals collects reader and sums the event counter by event name.
func EventTotals(ctx context.Context, reader sdkmetric.Reader) (map[string]int64, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("observability: collect metrics: %w", err)
	}
	totals := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != EventCounter {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				event, _ := dp.Attributes.Value(attribute.Key("event"))
				totals[event.AsString()] += dp.Value
			}
		}
	}
	return totals, nil
}
