// Package encoder serializes parsed JSON values into the conversion
// targets. Every encoder is read-only with respect to its input.
package encoder

import (
	"encoding/json"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// All returns one encoder per supported format.
func All() []domain.Encoder {
	return []domain.Encoder{
		JSON{Indent: "  "},
		YAML{},
		TOML{},
		XML{},
		CSV{},
		TOON{},
	}
}

// circular is written where a container would contain itself.
const circular = "[Circular]"

// native converts v into plain Go values (map[string]any, []any, int64,
// float64, string, bool) for libraries that reflect over builtin types.
// With dropNull set, null members and elements are left out.
func native(v any, dropNull bool) any {
	return toNative(v, dropNull, make(map[uintptr]bool))
}

func toNative(v any, dropNull bool, active map[uintptr]bool) any {
	if id, ok := domain.Identity(v); ok {
		if active[id] {
			return circular
		}
		active[id] = true
		defer delete(active, id)
	}

	switch t := v.(type) {
	case *domain.Object:
		if t == nil {
			return nil
		}
		m := make(map[string]any, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value == nil && dropNull {
				continue
			}
			m[pair.Key] = toNative(pair.Value, dropNull, active)
		}
		return m
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if item == nil && dropNull {
				continue
			}
			out = append(out, toNative(item, dropNull, active))
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}
