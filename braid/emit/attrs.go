package emit

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

func keyAttr(key string) attribute.KeyValue {
	return attribute.String("braid.key", key)
}

// metaAttr converts an arbitrary meta value into an OTel attribute,
// falling back to its fmt.Sprintf("%v") form for types the attribute
// package has no direct constructor for.
func metaAttr(k string, v any) attribute.KeyValue {
	switch t := v.(type) {
	case string:
		return attribute.String(k, t)
	case bool:
		return attribute.Bool(k, t)
	case int:
		return attribute.Int(k, t)
	case int64:
		return attribute.Int64(k, t)
	case float64:
		return attribute.Float64(k, t)
	default:
		return attribute.String(k, fmt.Sprintf("%v", t))
	}
}
