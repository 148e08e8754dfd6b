package valueobjects

import "sort"

// ValueKind tags the shape of a graph result value
type ValueKind int

const (
	KindScalar ValueKind = iota
	KindSequence
	KindMapping
	KindPath
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindPath:
		return "path"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a raw graph query result. Transport adapters build it at the
// boundary so consumers can match on Kind instead of inspecting types.
//
// A Path carries positionally aligned labels and objects. An Object is any
// driver element with named fields (vertex, edge, property) that is not one
// of the container shapes.
type Value struct {
	kind     ValueKind
	scalar   any
	items    []Value
	fields   map[string]Value
	labels   []any
	typeName string
}

// Scalar wraps a number, string, boolean or nil
func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

// Null is the nil scalar
func Null() Value {
	return Scalar(nil)
}

// Sequence wraps an ordered list of values
func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, items: items}
}

// Mapping wraps a key-to-value map
func Mapping(entries map[string]Value) Value {
	if entries == nil {
		entries = map[string]Value{}
	}
	return Value{kind: KindMapping, fields: entries}
}

// Path wraps a traversal path. labels are kept verbatim; objects[i] is the
// element reached under labels[i].
func Path(labels []any, objects []Value) Value {
	if labels == nil {
		labels = []any{}
	}
	if objects == nil {
		objects = []Value{}
	}
	return Value{kind: KindPath, labels: labels, items: objects}
}

// Object wraps a named-field element such as a vertex or edge
func Object(typeName string, fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindObject, typeName: typeName, fields: fields}
}

// Kind returns the shape tag
func (v Value) Kind() ValueKind {
	return v.kind
}

// ScalarValue returns the wrapped scalar; nil for other kinds
func (v Value) ScalarValue() any {
	return v.scalar
}

// Items returns the elements of a Sequence or the objects of a Path
func (v Value) Items() []Value {
	return v.items
}

// Fields returns the entries of a Mapping or the fields of an Object
func (v Value) Fields() map[string]Value {
	return v.fields
}

// Labels returns the labels of a Path
func (v Value) Labels() []any {
	return v.labels
}

// TypeName returns the element type of an Object, e.g. "Vertex"
func (v Value) TypeName() string {
	return v.typeName
}

// Len returns the number of items or fields
func (v Value) Len() int {
	switch v.kind {
	case KindSequence, KindPath:
		return len(v.items)
	case KindMapping, KindObject:
		return len(v.fields)
	default:
		return 0
	}
}

// Keys returns Mapping or Object keys in sorted order
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromNative lifts decoded JSON (or any plain Go tree) into a Value.
// Slices become Sequences, string-keyed maps become Mappings and everything
// else is a Scalar.
func FromNative(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromNative(item)
		}
		return Sequence(items...)
	case []map[string]any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromNative(item)
		}
		return Sequence(items...)
	case []string:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = Scalar(item)
		}
		return Sequence(items...)
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for k, item := range t {
			entries[k] = FromNative(item)
		}
		return Mapping(entries)
	default:
		return Scalar(v)
	}
}
