package pipeline

import "fmt"

type ParamType string

const (
	ParamFloat  ParamType = "float"
	ParamInt    ParamType = "int"
	ParamBool   ParamType = "bool"
	ParamText   ParamType = "text"
	ParamChoice ParamType = "choice"
)

// ParamSpec describes one tunable of a stage. The scheduler and the
// persistence layer treat parameter values as opaque; only the owning stage
// interprets them.
type ParamSpec struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Type    ParamType `json:"type"`
	Min     float64   `json:"min,omitempty"`
	Max     float64   `json:"max,omitempty"`
	Default any       `json:"default"`
	Choices []string  `json:"choices,omitempty"`
}

// Helpers for stages applying an opaque parameter blob. JSON round-trips
// turn numbers into float64, so the integer reader accepts both.

func FloatParam(m map[string]any, key string, cur float64) (float64, error) {
	v, ok := m[key]
	if !ok {
		return cur, nil
	}
	f, ok := v.(float64)
	if !ok {
		return cur, fmt.Errorf("param %q: want float, got %T", key, v)
	}
	return f, nil
}

func IntParam(m map[string]any, key string, cur int) (int, error) {
	v, ok := m[key]
	if !ok {
		return cur, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return cur, fmt.Errorf("param %q: want int, got %T", key, v)
	}
}

func BoolParam(m map[string]any, key string, cur bool) (bool, error) {
	v, ok := m[key]
	if !ok {
		return cur, nil
	}
	b, ok := v.(bool)
	if !ok {
		return cur, fmt.Errorf("param %q: want bool, got %T", key, v)
	}
	return b, nil
}
