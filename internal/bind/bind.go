// Package bind implements the host-object bridge described by spec.md §6: a
// read-only surface (has_key/get_key) over arbitrary Go values, so a struct
// or map supplied by a caller can stand in for a Map Value without the
// caller hand-building one.
//
// This is the one place reflect is used in the module, grounded on
// hoisie-mustache/mustache.go's lookup/indirect/isEmpty helpers
// (mustache.go:381-470): that code walks reflect.Value lazily on every
// lookup, chasing pointers/interfaces one segment at a time and re-entering
// itself for dotted names. bind.Classify does the same pointer/interface
// indirection and struct-field/map-key resolution, but eagerly, once, at
// the API boundary: it produces a Node tree up front, so the rest of the
// engine (context.go, render.go) never imports reflect and dotted lookups
// are plain Node navigation instead of repeated reflective walks.
package bind

import "reflect"

// Kind tags the shape a host value was classified into.
type Kind int

const (
	Invalid Kind = iota
	Null
	Bool
	Int
	Float
	Text
	List
	Map
)

// Node is a reflect-free tree mirroring the shape of a classified host
// value. mustache.ToValue walks a Node to build a Value; Node itself knows
// nothing about Value so that this package stays independent of the
// engine's tagged union.
type Node struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Text  string
	List  []Node
	Keys  []string
	Map   map[string]Node
	// Raw carries the original value through for anything this package
	// cannot classify itself (funcs, channels, unexported-only structs),
	// so a caller with its own vocabulary for such values (e.g. the
	// engine's Lambda shapes) can still recognize them post hoc.
	Raw interface{}
}

// Classify converts an arbitrary Go value into a Node. Pointers and
// interfaces are indirected until a concrete value is reached; structs
// expose their exported fields by name; maps with string keys expose their
// entries; slices and arrays become List nodes; strings/bools/numbers
// become the corresponding scalar kind. Anything else (channels, funcs,
// unexported-only structs) classifies as Invalid, which callers treat the
// same as Null.
func Classify(v interface{}) Node {
	if v == nil {
		return Node{Kind: Null}
	}
	return classifyReflect(reflect.ValueOf(v))
}

func classifyReflect(v reflect.Value) Node {
	v = indirect(v)
	if !v.IsValid() {
		return Node{Kind: Null}
	}

	switch v.Kind() {
	case reflect.Bool:
		return Node{Kind: Bool, Bool: v.Bool()}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Node{Kind: Int, Int: v.Int()}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Node{Kind: Int, Int: int64(v.Uint())}

	case reflect.Float32, reflect.Float64:
		return Node{Kind: Float, Float: v.Float()}

	case reflect.String:
		return Node{Kind: Text, Text: v.String()}

	case reflect.Slice, reflect.Array:
		n := v.Len()
		items := make([]Node, n)
		for i := 0; i < n; i++ {
			items[i] = classifyReflect(v.Index(i))
		}
		return Node{Kind: List, List: items}

	case reflect.Map:
		keys := v.MapKeys()
		entries := make(map[string]Node, len(keys))
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			ks, ok := mapKeyText(k)
			if !ok {
				continue
			}
			entries[ks] = classifyReflect(v.MapIndex(k))
			names = append(names, ks)
		}
		return Node{Kind: Map, Map: entries, Keys: names}

	case reflect.Struct:
		t := v.Type()
		entries := make(map[string]Node, t.NumField())
		names := make([]string, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" { // unexported
				continue
			}
			entries[f.Name] = classifyReflect(v.Field(i))
			names = append(names, f.Name)
		}
		if len(names) == 0 && t.NumField() > 0 { // unexported-only
			if v.CanInterface() {
				return Node{Kind: Invalid, Raw: v.Interface()}
			}
			return Node{Kind: Invalid}
		}
		return Node{Kind: Map, Map: entries, Keys: names}

	default:
		if v.CanInterface() {
			return Node{Kind: Invalid, Raw: v.Interface()}
		}
		return Node{Kind: Invalid}
	}
}

func mapKeyText(k reflect.Value) (string, bool) {
	k = indirect(k)
	if k.Kind() == reflect.String {
		return k.String(), true
	}
	return "", false
}

// indirect chases pointers and interfaces down to the concrete value they
// hold, stopping at a nil pointer/interface rather than panicking.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
