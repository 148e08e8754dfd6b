package gremlin

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/yogishpa/graph-samples/domain/core/valueobjects"
	"github.com/yogishpa/graph-samples/domain/services"
)

// GraphSON v3 type tags
const (
	typeList           = "g:List"
	typeSet            = "g:Set"
	typeMap            = "g:Map"
	typeBulkSet        = "g:BulkSet"
	typePath           = "g:Path"
	typeVertex         = "g:Vertex"
	typeEdge           = "g:Edge"
	typeVertexProperty = "g:VertexProperty"
	typeProperty       = "g:Property"
	typeInt32          = "g:Int32"
	typeInt64          = "g:Int64"
	typeDouble         = "g:Double"
	typeFloat          = "g:Float"
	typeDate           = "g:Date"
	typeTimestamp      = "g:Timestamp"
	typeUUID           = "g:UUID"
	typeT              = "g:T"
	typeDirection      = "g:Direction"
)

// maxBulkSetItems bounds the expansion of one g:BulkSet
const maxBulkSetItems = 1 << 20

// decodeGraphSON turns a GraphSON v3 tree decoded with UseNumber into the
// result union. Unknown types decode from their @value.
func decodeGraphSON(raw any) (valueobjects.Value, error) {
	switch t := raw.(type) {
	case map[string]any:
		typeName, typed := t["@type"].(string)
		value, hasValue := t["@value"]
		if typed && hasValue {
			return decodeTyped(typeName, value)
		}
		fields := make(map[string]valueobjects.Value, len(t))
		for k, item := range t {
			v, err := decodeGraphSON(item)
			if err != nil {
				return valueobjects.Value{}, err
			}
			fields[k] = v
		}
		return valueobjects.Mapping(fields), nil

	case []any:
		items, err := decodeList(t)
		if err != nil {
			return valueobjects.Value{}, err
		}
		return valueobjects.Sequence(items...), nil

	case json.Number:
		return valueobjects.Scalar(numberValue(t)), nil

	default:
		return valueobjects.Scalar(raw), nil
	}
}

func decodeTyped(typeName string, value any) (valueobjects.Value, error) {
	switch typeName {
	case typeList, typeSet:
		list, err := asList(typeName, value)
		if err != nil {
			return valueobjects.Value{}, err
		}
		items, err := decodeList(list)
		if err != nil {
			return valueobjects.Value{}, err
		}
		return valueobjects.Sequence(items...), nil

	case typeMap:
		return decodeMap(value)

	case typeBulkSet:
		return decodeBulkSet(value)

	case typePath:
		return decodePath(value)

	case typeVertex, typeEdge, typeVertexProperty, typeProperty:
		return decodeElement(typeName, value)

	case typeInt32, typeInt64:
		n, ok := value.(json.Number)
		if !ok {
			return valueobjects.Value{}, fmt.Errorf("%s: expected number, got %T", typeName, value)
		}
		i, err := n.Int64()
		if err != nil {
			return valueobjects.Value{}, fmt.Errorf("%s: %w", typeName, err)
		}
		return valueobjects.Scalar(i), nil

	case typeDouble, typeFloat:
		return decodeFloat(typeName, value)

	case typeDate, typeTimestamp:
		n, ok := value.(json.Number)
		if !ok {
			return valueobjects.Value{}, fmt.Errorf("%s: expected number, got %T", typeName, value)
		}
		ms, err := n.Int64()
		if err != nil {
			return valueobjects.Value{}, fmt.Errorf("%s: %w", typeName, err)
		}
		return valueobjects.Scalar(time.UnixMilli(ms).UTC()), nil

	case typeUUID, typeT, typeDirection:
		return valueobjects.Scalar(value), nil

	default:
		return decodeGraphSON(value)
	}
}

func decodeList(list []any) ([]valueobjects.Value, error) {
	items := make([]valueobjects.Value, 0, len(list))
	for _, item := range list {
		v, err := decodeGraphSON(item)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// decodeMap reads alternating key/value entries. Non-string keys are
// rendered in their normalized form.
func decodeMap(value any) (valueobjects.Value, error) {
	list, err := asList(typeMap, value)
	if err != nil {
		return valueobjects.Value{}, err
	}
	if len(list)%2 != 0 {
		return valueobjects.Value{}, fmt.Errorf("%s: odd number of entries", typeMap)
	}

	fields := make(map[string]valueobjects.Value, len(list)/2)
	for i := 0; i < len(list); i += 2 {
		key, err := decodeGraphSON(list[i])
		if err != nil {
			return valueobjects.Value{}, err
		}
		val, err := decodeGraphSON(list[i+1])
		if err != nil {
			return valueobjects.Value{}, err
		}
		fields[mapKey(key)] = val
	}
	return valueobjects.Mapping(fields), nil
}

func mapKey(key valueobjects.Value) string {
	if s, ok := key.ScalarValue().(string); ok && key.Kind() == valueobjects.KindScalar {
		return s
	}
	b, err := json.Marshal(services.Normalize(key))
	if err != nil {
		return fmt.Sprint(services.Normalize(key))
	}
	return string(b)
}

// decodeBulkSet expands alternating item/count entries
func decodeBulkSet(value any) (valueobjects.Value, error) {
	list, err := asList(typeBulkSet, value)
	if err != nil {
		return valueobjects.Value{}, err
	}
	if len(list)%2 != 0 {
		return valueobjects.Value{}, fmt.Errorf("%s: odd number of entries", typeBulkSet)
	}

	var items []valueobjects.Value
	for i := 0; i < len(list); i += 2 {
		item, err := decodeGraphSON(list[i])
		if err != nil {
			return valueobjects.Value{}, err
		}
		count, err := decodeGraphSON(list[i+1])
		if err != nil {
			return valueobjects.Value{}, err
		}
		n, ok := count.ScalarValue().(int64)
		if !ok || n < 0 {
			return valueobjects.Value{}, fmt.Errorf("%s: bad count %v", typeBulkSet, count.ScalarValue())
		}
		if n > maxBulkSetItems-int64(len(items)) {
			return valueobjects.Value{}, fmt.Errorf("%s: expands to more than %d items", typeBulkSet, maxBulkSetItems)
		}
		for j := int64(0); j < n; j++ {
			items = append(items, item)
		}
	}
	return valueobjects.Sequence(items...), nil
}

func decodePath(value any) (valueobjects.Value, error) {
	fields, ok := value.(map[string]any)
	if !ok {
		return valueobjects.Value{}, fmt.Errorf("%s: expected object, got %T", typePath, value)
	}

	labels, err := decodeGraphSON(fields["labels"])
	if err != nil {
		return valueobjects.Value{}, err
	}
	objects, err := decodeGraphSON(fields["objects"])
	if err != nil {
		return valueobjects.Value{}, err
	}

	var labelList []any
	if native, ok := services.Normalize(labels).([]any); ok {
		labelList = native
	}
	return valueobjects.Path(labelList, objects.Items()), nil
}

// elementFields lists, per element type, the GraphSON fields kept on the
// decoded object.
var elementFields = map[string][]string{
	typeVertex:         {"id", "label", "properties"},
	typeEdge:           {"id", "label", "inV", "inVLabel", "outV", "outVLabel", "properties"},
	typeVertexProperty: {"id", "label", "value"},
	typeProperty:       {"key", "value"},
}

var elementTypeNames = map[string]string{
	typeVertex:         "Vertex",
	typeEdge:           "Edge",
	typeVertexProperty: "VertexProperty",
	typeProperty:       "Property",
}

func decodeElement(typeName string, value any) (valueobjects.Value, error) {
	raw, ok := value.(map[string]any)
	if !ok {
		return valueobjects.Value{}, fmt.Errorf("%s: expected object, got %T", typeName, value)
	}

	fields := make(map[string]valueobjects.Value)
	for _, name := range elementFields[typeName] {
		item, present := raw[name]
		if !present {
			continue
		}
		v, err := decodeGraphSON(item)
		if err != nil {
			return valueobjects.Value{}, err
		}
		fields[name] = v
	}

	if props, ok := fields["properties"]; ok && props.Kind() == valueobjects.KindMapping {
		fields["properties"] = flattenProperties(props)
	}
	return valueobjects.Object(elementTypeNames[typeName], fields), nil
}

// flattenProperties reduces each property entry to its value(s) so that
// vertex properties read as {name: [values]} after normalization.
func flattenProperties(props valueobjects.Value) valueobjects.Value {
	out := make(map[string]valueobjects.Value, props.Len())
	for _, key := range props.Keys() {
		entry := props.Fields()[key]
		if entry.Kind() != valueobjects.KindSequence {
			out[key] = propertyValue(entry)
			continue
		}
		values := make([]valueobjects.Value, 0, entry.Len())
		for _, p := range entry.Items() {
			values = append(values, propertyValue(p))
		}
		out[key] = valueobjects.Sequence(values...)
	}
	return valueobjects.Mapping(out)
}

func propertyValue(p valueobjects.Value) valueobjects.Value {
	if p.Kind() == valueobjects.KindObject {
		if v, ok := p.Fields()["value"]; ok {
			return v
		}
	}
	return p
}

func decodeFloat(typeName string, value any) (valueobjects.Value, error) {
	switch t := value.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return valueobjects.Value{}, fmt.Errorf("%s: %w", typeName, err)
		}
		return valueobjects.Scalar(f), nil
	case string:
		switch t {
		case "NaN":
			return valueobjects.Scalar(math.NaN()), nil
		case "Infinity":
			return valueobjects.Scalar(math.Inf(1)), nil
		case "-Infinity":
			return valueobjects.Scalar(math.Inf(-1)), nil
		}
	}
	return valueobjects.Value{}, fmt.Errorf("%s: unexpected value %v", typeName, value)
}

func asList(typeName string, value any) ([]any, error) {
	if value == nil {
		return nil, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected array, got %T", typeName, value)
	}
	return list, nil
}

func numberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
