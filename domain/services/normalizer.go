// Package services holds pure domain logic shared by the query tools.
package services

import "github.com/yogishpa/graph-samples/domain/core/valueobjects"

// Normalize converts a raw graph result into plain values that serialize
// directly to JSON: []any, map[string]any and scalars.
//
// Paths become {"labels": ..., "objects": ...} with only the objects
// normalized. Objects become a map of their fields. Normalize never fails.
func Normalize(v valueobjects.Value) any {
	switch v.Kind() {
	case valueobjects.KindSequence:
		return normalizeItems(v.Items())

	case valueobjects.KindMapping:
		return normalizeFields(v.Fields())

	case valueobjects.KindPath:
		return map[string]any{
			"labels":  v.Labels(),
			"objects": normalizeItems(v.Items()),
		}

	case valueobjects.KindObject:
		return normalizeFields(v.Fields())

	default:
		return v.ScalarValue()
	}
}

// NormalizeNative runs Normalize over an already-decoded plain tree.
func NormalizeNative(v any) any {
	return Normalize(valueobjects.FromNative(v))
}

func normalizeItems(items []valueobjects.Value) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = Normalize(item)
	}
	return out
}

func normalizeFields(fields map[string]valueobjects.Value) map[string]any {
	out := make(map[string]any, len(fields))
	for k, field := range fields {
		out[k] = Normalize(field)
	}
	return out
}
