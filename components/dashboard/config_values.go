package dashboard

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Helpers reading loosely typed widget configuration values. Configurations
// decoded from YAML or JSON carry ints, float64 or json.Number interchangeably.

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func float64Value(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}

func intValue(v any, fallback int) int {
	if v == nil {
		return fallback
	}
	if f := float64Value(v); f != 0 {
		return int(f)
	}
	return fallback
}

func boolValue(v any, fallback bool) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	case int:
		return val != 0
	case int64:
		return val != 0
	}
	return fallback
}
