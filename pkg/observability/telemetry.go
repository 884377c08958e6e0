package observability

import (
	"context"

	"github.com/rs/zerolog"
)

// Recorder receives dashboard telemetry events.
type Recorder interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// LogTelemetry writes every event as a debug log line.
type LogTelemetry struct {
	log zerolog.Logger
}

var _ Recorder = LogTelemetry{}

// NewLogTelemetry returns a recorder logging to log.
func NewLogTelemetry(log zerolog.Logger) LogTelemetry {
	return LogTelemetry{log: log}
}

func (t LogTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.log.Debug().Str("event", event).Fields(payload).Msg("telemetry")
}

// Multi fans an event out to every recorder in order.
type Multi []Recorder

var _ Recorder = Multi(nil)

func (m Multi) Record(ctx context.Context, event string, payload map[string]any) {
	for _, r := range m {
		if r != nil {
			r.Record(ctx, event, payload)
		}
	}
}
