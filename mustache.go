// Package mustache implements the Mustache logic-less template language:
// variable interpolation, section/inverted-section iteration, partials,
// comments, and delimiter changes, against a tagged-union Value model
// (see value.go) instead of reflection.
package mustache

import (
	"os"
	"path"
	"strings"
)

// Compiler configures how a Template is compiled, via the functional-options
// builder hayeah-mustache's Compiler/New/With* methods use. Each With*
// method returns the receiver so calls can be chained.
type Compiler struct {
	partials   PartialProvider
	escapeMode EscapeMode
	strict     bool
}

// New returns a Compiler with the default configuration: no partials, HTML
// escaping, and lenient (non-strict) rendering.
func New() *Compiler {
	return &Compiler{}
}

// WithPartials attaches a PartialProvider used to resolve {{>name}} tags.
func (c *Compiler) WithPartials(pp PartialProvider) *Compiler {
	c.partials = pp
	return c
}

// WithEscapeMode selects the escape function applied to escaped
// interpolation tags. The default is EscapeHTML.
func (c *Compiler) WithEscapeMode(m EscapeMode) *Compiler {
	c.escapeMode = m
	return c
}

// WithStrict enables strict-mode rendering: missing partials and lambda
// type errors surface as a *RenderError instead of silently producing
// empty output. Dotted navigation into a non-map value is not reported in
// either mode; it resolves to Null and renders as empty output.
func (c *Compiler) WithStrict(strict bool) *Compiler {
	c.strict = strict
	return c
}

// CompileString compiles a Mustache template from a string.
func (c *Compiler) CompileString(data string) (*Template, error) {
	tree, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return &Template{tree: tree, source: data, compiler: c}, nil
}

// CompileFile reads filename and compiles it.
func (c *Compiler) CompileFile(filename string) (*Template, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return c.CompileString(string(data))
}

// Template is a compiled Mustache template. It is immutable after
// compilation (segment.go's ParseTree invariant) and may be rendered any
// number of times, including concurrently, against independent data.
type Template struct {
	tree     *ParseTree
	source   string
	compiler *Compiler
}

// Tree exposes the compiled parse tree, e.g. for tooling that wants to
// inspect a template's structure without re-parsing it.
func (t *Template) Tree() *ParseTree { return t.tree }

// Render renders the template against the given context values. The last
// argument is the outermost scope and the first is the innermost, so a name
// present in several arguments resolves from the first one (matching the
// teacher's multi-context Render(context ...interface{}) convention).
func (t *Template) Render(context ...interface{}) (string, error) {
	var buf strings.Builder
	if err := t.renderTo(&buf, context); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderInLayout renders the template, then renders layout with the result
// bound to the key "content" in a new innermost scope, mirroring the
// teacher's two-pass Render/RenderInLayout split.
func (t *Template) RenderInLayout(layout *Template, context ...interface{}) (string, error) {
	content, err := t.Render(context...)
	if err != nil {
		return "", err
	}
	layoutContext := append([]interface{}{Map(map[string]Value{"content": Text(content)})}, context...)
	return layout.Render(layoutContext...)
}

func (t *Template) renderTo(buf *strings.Builder, context []interface{}) error {
	// The teacher's Render(context ...interface{}) checks context[0] before
	// context[1] before context[2]; our Context stack checks its innermost
	// (most recently pushed) scope first. Pushing in reverse order puts
	// context[0] on top, preserving that priority.
	root := Value{kind: KindMap}
	if len(context) > 0 {
		root = ToValue(context[len(context)-1])
	}
	ctx := NewContext(root)
	for i := len(context) - 2; i >= 0; i-- {
		ctx.Push(ToValue(context[i]))
	}

	partials := t.compiler.partials
	if partials == nil {
		partials = &StaticProvider{}
	}

	r := &renderer{
		ctx:      ctx,
		partials: partials,
		escape:   escapeFuncFor(t.compiler.escapeMode),
		literal:  identity,
		strict:   t.compiler.strict,
	}
	return r.render(buf, t.tree.segments)
}

// Render compiles template and renders it against context in one step,
// using default options (HTML escaping, no partials, lenient mode).
func Render(template string, context ...interface{}) (string, error) {
	return RenderPartials(template, nil, context...)
}

// RenderPartials compiles template with the given partial provider and
// renders it against context.
func RenderPartials(template string, partials PartialProvider, context ...interface{}) (string, error) {
	c := New()
	if partials != nil {
		c.WithPartials(partials)
	}
	tmpl, err := c.CompileString(template)
	if err != nil {
		return "", err
	}
	return tmpl.Render(context...)
}

// RenderFile loads a template from filename, compiles it, and renders it
// against context. Partials referenced from the template are loaded
// relative to filename's directory.
func RenderFile(filename string, context ...interface{}) (string, error) {
	dir, _ := path.Split(filename)
	partials := &FileProvider{Paths: []string{dir}}
	c := New().WithPartials(partials)
	tmpl, err := c.CompileFile(filename)
	if err != nil {
		return "", err
	}
	return tmpl.Render(context...)
}

// RenderFileInLayout loads both filename and layoutFile, compiles them, and
// renders filename wrapped in layoutFile.
func RenderFileInLayout(filename, layoutFile string, context ...interface{}) (string, error) {
	dir, _ := path.Split(filename)
	partials := &FileProvider{Paths: []string{dir}}

	tmpl, err := New().WithPartials(partials).CompileFile(filename)
	if err != nil {
		return "", err
	}
	layout, err := New().WithPartials(partials).CompileFile(layoutFile)
	if err != nil {
		return "", err
	}
	return tmpl.RenderInLayout(layout, context...)
}
