package mustache

import "strings"

// Context is an ordered stack of Value scopes. Scope 0 (the last element of
// stack) is the innermost. A Context is owned exclusively by one render
// invocation (spec.md §5); it must not be shared across goroutines.
type Context struct {
	stack []Value
}

// NewContext builds a Context with root as the sole, outermost scope.
func NewContext(root Value) *Context {
	return &Context{stack: []Value{root}}
}

// Push adds value as the new innermost scope.
func (c *Context) Push(value Value) {
	c.stack = append(c.stack, value)
}

// Pop removes the innermost scope. It must never be called on a Context
// with a single remaining scope; callers pair every Push with exactly one
// Pop, including on error paths (spec.md §5).
func (c *Context) Pop() {
	c.stack = c.stack[:len(c.stack)-1]
}

// Top returns the innermost scope's value, i.e. what "." resolves to.
func (c *Context) Top() Value {
	return c.stack[len(c.stack)-1]
}

// Lookup resolves name against the stack per spec.md §4.2. A bare name (or
// a dotted path's head segment) is searched innermost to outermost; the
// first scope that contains it wins even if its value is falsy. The
// remaining dotted segments are then navigated as map lookups on that
// resolved value with no further stack fallback.
func (c *Context) Lookup(name string) Value {
	if name == "." {
		return c.Top()
	}

	parts := strings.Split(name, ".")
	head := parts[0]

	v, ok := c.lookupHead(head)
	if !ok {
		return Null
	}

	for _, seg := range parts[1:] {
		next, ok := mapOrBindGet(v, seg)
		if !ok {
			return Null
		}
		v = next
	}
	return v
}

// lookupHead searches the stack innermost to outermost for the first scope
// containing key, returning its value.
func (c *Context) lookupHead(key string) (Value, bool) {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if v, ok := mapOrBindGet(c.stack[i], key); ok {
			return v, true
		}
	}
	return Null, false
}

// mapOrBindGet looks key up on v. Host objects (structs, non-map/list Go
// values) are never seen here: internal/bind converts them to Map Values at
// the API boundary (see ToValue), so by the time a value reaches the
// Context it is already one of the tagged-union variants of spec.md §3.
// Non-map values yield (Null, false), matching spec.md §4.2's "non-map
// intermediate values yield Null".
func mapOrBindGet(v Value, key string) (Value, bool) {
	if v.Kind() == KindMap {
		return v.MapGet(key)
	}
	return Null, false
}
