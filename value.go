package mustache

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant of the Value tagged union is populated.
type Kind int

// The Value variants. The zero Kind is Null.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindText
	KindList
	KindMap
	KindLambda
)

// RenderFunc re-parses and renders text against the context active at the
// point a SectionLambda was invoked. A SectionLambda can call it directly to
// expand mustache tags in part of its own output; the engine still re-parses
// and renders whatever the lambda returns.
type RenderFunc func(text string) (string, error)

// InterpolationLambdaFunc is invoked with no arguments at an interpolation
// site: {{name}}, {{&name}} or {{{name}}}.
type InterpolationLambdaFunc func() (interface{}, error)

// SectionLambdaFunc is invoked with the raw, unparsed text of its section
// body at a section site: {{#name}}...{{/name}}. render re-parses and
// renders a string using the delimiters captured at the section tag.
type SectionLambdaFunc func(text string, render RenderFunc) (interface{}, error)

// LambdaFunc is the conformance-suite lambda shape: a section lambda that
// returns text directly instead of interface{}. The teacher's
// spec_test.go declared this exact signature (and a RenderFunc to match)
// without ever defining either type or wiring them into mustache.go;
// ToValue completes that wiring by adapting a LambdaFunc into the
// SectionLambdaFunc shape Lambda actually holds.
type LambdaFunc func(text string, render RenderFunc) (string, error)

// Lambda is a callable Value. It is one of two disjoint shapes, chosen at
// construction time rather than inspected via reflection (spec §4.3,
// §9 "Lambda arity dispatch"): exactly one of Interpolation or Section is
// set. Invoking a Lambda at the wrong site yields the empty string.
type Lambda struct {
	Interpolation InterpolationLambdaFunc
	Section       SectionLambdaFunc
}

// Value is the tagged-union context value described in spec.md §3.
// The zero Value is Null.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	isInt  bool
	text   string
	list   []Value
	keys   []string
	values map[string]Value
	lambda Lambda
}

// Null is the absent/false value.
var Null = Value{kind: KindNull}

// Bool constructs a Bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int constructs a Number value from an integer.
func Int(n int64) Value { return Value{kind: KindNumber, n: float64(n), isInt: true} }

// Float constructs a Number value from a float.
func Float(n float64) Value { return Value{kind: KindNumber, n: n} }

// Text constructs a Text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// List constructs a List value.
func List(xs []Value) Value { return Value{kind: KindList, list: xs} }

// Map constructs a Map value. Key order follows Go map iteration and is
// therefore not defined; it is not semantically meaningful (spec.md §3).
func Map(entries map[string]Value) Value {
	v := Value{kind: KindMap, values: entries}
	v.keys = make([]string, 0, len(entries))
	for k := range entries {
		v.keys = append(v.keys, k)
	}
	return v
}

// NewLambda constructs a Lambda value invoked at interpolation sites.
func NewLambda(fn InterpolationLambdaFunc) Value {
	return Value{kind: KindLambda, lambda: Lambda{Interpolation: fn}}
}

// NewSectionLambda constructs a Lambda value invoked at section sites.
func NewSectionLambda(fn SectionLambdaFunc) Value {
	return Value{kind: KindLambda, lambda: Lambda{Section: fn}}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the Null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// MapGet looks up key in a Map value. It returns Null, false for any
// other Kind or for an absent key.
func (v Value) MapGet(key string) (Value, bool) {
	if v.kind != KindMap {
		return Null, false
	}
	val, ok := v.values[key]
	return val, ok
}

// MapKeys returns the keys of a Map value, in no defined order, or nil for
// any other Kind.
func (v Value) MapKeys() []string {
	if v.kind != KindMap {
		return nil
	}
	return v.keys
}

// ListItems returns the elements of a List value, or nil for any other
// Kind.
func (v Value) ListItems() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// AsLambda returns the Lambda payload and true iff v is a Lambda.
func (v Value) AsLambda() (Lambda, bool) {
	if v.kind != KindLambda {
		return Lambda{}, false
	}
	return v.lambda, true
}

// Truthy implements the falsiness rule of spec.md §3: Null, Bool(false),
// empty List, and empty Text are falsy; numeric zero is truthy.
// Lambda and every Map, including an empty one, are truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindList:
		return len(v.list) > 0
	case KindText:
		return v.text != ""
	default:
		return true
	}
}

// Coerce renders v as interpolated text per spec.md §4.3: integers without
// trailing zeroes, floats in shortest round-trip form, bools lowercase,
// Null as empty, List/Map as empty (spec.md §9 Open Questions: stringifying
// a List/Map is not implemented; tests assume empty output).
func (v Value) Coerce() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		if v.isInt {
			return strconv.FormatInt(int64(v.n), 10)
		}
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

func coerceAny(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case Value:
		return t.Coerce(), nil
	case nil:
		return "", nil
	case bool:
		if t {
			return "true", nil
		}
		return "false", nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t), nil
	case float32, float64:
		return fmt.Sprintf("%g", t), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", fmt.Errorf("mustache: lambda returned non-text value %T", v)
	}
}
