package mustache

import "github.com/gomustache/mustache/internal/bind"

// ToValue converts an arbitrary Go value into a Value, using the host-object
// bridge in internal/bind for anything that is not already a Value. It is
// the sole place a caller's plain structs/maps/slices enter the tagged
// union; Template.Render calls it on every context argument, so callers
// rendering against their own domain types never need to hand-construct a
// Map Value. NewContext and Push take a Value and do not call it.
func ToValue(v interface{}) Value {
	if val, ok := v.(Value); ok {
		return val
	}
	return fromNode(bind.Classify(v))
}

func fromNode(n bind.Node) Value {
	switch n.Kind {
	case bind.Bool:
		return Bool(n.Bool)
	case bind.Int:
		return Int(n.Int)
	case bind.Float:
		return Float(n.Float)
	case bind.Text:
		return Text(n.Text)
	case bind.List:
		items := make([]Value, len(n.List))
		for i, item := range n.List {
			items[i] = fromNode(item)
		}
		return List(items)
	case bind.Map:
		entries := make(map[string]Value, len(n.Map))
		for k, v := range n.Map {
			entries[k] = fromNode(v)
		}
		return Map(entries)
	default:
		return fromRaw(n.Raw)
	}
}

// fromRaw recognizes the engine's own lambda vocabulary inside a value
// bind.Classify could not otherwise place (it has no notion of Value or
// the Lambda func types). Anything else unclassifiable is Null.
func fromRaw(raw interface{}) Value {
	switch fn := raw.(type) {
	case Value:
		return fn
	case InterpolationLambdaFunc:
		return NewLambda(fn)
	case SectionLambdaFunc:
		return NewSectionLambda(fn)
	case LambdaFunc:
		return NewSectionLambda(func(text string, render RenderFunc) (interface{}, error) {
			return fn(text, render)
		})
	default:
		return Null
	}
}
