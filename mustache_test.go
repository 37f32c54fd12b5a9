package mustache

import (
	"strings"
	"testing"
)

// Test is the teacher's table-driven fixture shape (tmpl/context/expected),
// kept as-is; only the context values change: plain Go maps, slices and
// structs with exported fields, without the teacher's methods, since this
// engine has no method-call lookup (spec.md §3; see DESIGN.md).
type Test struct {
	tmpl     string
	context  interface{}
	expected string
}

type User struct {
	Name string
	ID   int64
}

func makeUsers(n int) []interface{} {
	var v []interface{}
	for i := 0; i < n; i++ {
		v = append(v, User{"Mike", 1})
	}
	return v
}

var tests = []Test{
	{`hello world`, nil, `hello world`},
	{`hello {{name}}`, map[string]string{"name": "world"}, `hello world`},
	{`{{Name}}`, User{Name: "Joe"}, `Joe`},
	{`{{#users}}{{Name}}{{/users}}`, map[string]interface{}{"users": makeUsers(2)}, `MikeMike`},
	{`{{#b}}{{x}}{{/b}}`, map[string]interface{}{"x": "missing", "b": true}, `missing`},
	{`{{^b}}nothing{{/b}}`, map[string]interface{}{"b": false}, `nothing`},
	{`{{x}} | {{{x}}}`, map[string]string{"x": "<b>&"}, `&lt;b&gt;&amp; | <b>&`},
	{`{{#x}}{{#y}}{{z}}{{/y}}{{/x}}`, map[string]interface{}{
		"x": map[string]interface{}{"y": map[string]interface{}{"z": "nested"}},
	}, `nested`},
	{`{{{x}}}`, map[string]string{}, ``},
}

func TestBasic(t *testing.T) {
	for _, test := range tests {
		out, err := Render(test.tmpl, test.context)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", test.tmpl, err)
			continue
		}
		if out != test.expected {
			t.Errorf("%s: expected %q, got %q", test.tmpl, test.expected, out)
		}
	}
}

func TestMultipleContexts(t *testing.T) {
	out, err := Render(`{{a}}-{{b}}`,
		map[string]string{"a": "outer"},
		map[string]string{"b": "inner"},
	)
	if err != nil {
		t.Fatal(err)
	}
	if out != "outer-inner" {
		t.Errorf("expected %q, got %q", "outer-inner", out)
	}
}

func TestDottedName(t *testing.T) {
	out, err := Render(`{{a.b.c}}`, map[string]interface{}{
		"a": map[string]interface{}{"b": map[string]interface{}{"c": "deep"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if out != "deep" {
		t.Errorf("expected %q, got %q", "deep", out)
	}
}

func TestStandaloneSection(t *testing.T) {
	tmpl := "A\n{{#items}}\n- {{.}}\n{{/items}}\nB\n"
	out, err := Render(tmpl, map[string]interface{}{"items": []string{"x", "y"}})
	if err != nil {
		t.Fatal(err)
	}
	want := "A\n- x\n- y\nB\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestInterpolationLambda(t *testing.T) {
	calls := 0
	context := map[string]interface{}{
		"name": NewLambda(func() (interface{}, error) {
			calls++
			return "World", nil
		}),
	}
	out, err := Render(`Hello {{name}}!`, context)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hello World!" {
		t.Errorf("expected %q, got %q", "Hello World!", out)
	}
	if calls != 1 {
		t.Errorf("expected lambda to be called once, got %d", calls)
	}
}

func TestSectionLambdaRawBody(t *testing.T) {
	context := map[string]interface{}{
		"wrap": NewSectionLambda(func(text string, render RenderFunc) (interface{}, error) {
			return "<b>" + text + "</b>", nil
		}),
	}
	out, err := Render(`{{#wrap}}hello{{/wrap}}`, context)
	if err != nil {
		t.Fatal(err)
	}
	if out != "<b>hello</b>" {
		t.Errorf("expected %q, got %q", "<b>hello</b>", out)
	}
}

func TestSectionLambdaAlternateDelimiters(t *testing.T) {
	context := map[string]interface{}{
		"wrap": NewSectionLambda(func(text string, render RenderFunc) (interface{}, error) {
			return "<b>" + text + "</b>", nil
		}),
	}
	out, err := Render(`{{=<% %>=}}<%#wrap%>hello<%/wrap%>`, context)
	if err != nil {
		t.Fatal(err)
	}
	if out != "<b>hello</b>" {
		t.Errorf("expected %q, got %q", "<b>hello</b>", out)
	}
}

func TestPartialIndentation(t *testing.T) {
	partials := &StaticProvider{Partials: map[string]string{
		"greet": "Hi,\n{{name}}\n",
	}}
	out, err := RenderPartials("  {{>greet}}\n", partials, map[string]string{"name": "Ada"})
	if err != nil {
		t.Fatal(err)
	}
	want := "  Hi,\n  Ada\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

// TestPartialIndentationMultilineValue is the canonical "Standalone
// Indentation" spec fixture: the indent applies to the partial template's
// own lines, not to newlines contributed by an interpolated value.
func TestPartialIndentationMultilineValue(t *testing.T) {
	partials := &StaticProvider{Partials: map[string]string{
		"partial": "|\n{{{content}}}\n|\n",
	}}
	out, err := RenderPartials("\\\n {{>partial}}\n/\n", partials, map[string]string{"content": "<\n->"})
	if err != nil {
		t.Fatal(err)
	}
	want := "\\\n |\n <\n->\n |\n/\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

// TestSectionLambdaExpansionReparses is the official "Section - Expansion"
// lambda fixture: the lambda's return text still contains a mustache tag,
// which must be re-parsed and rendered against the current context with
// the delimiters captured at the section tag, not emitted verbatim.
func TestSectionLambdaExpansionReparses(t *testing.T) {
	context := map[string]interface{}{
		"planet": "Earth",
		"lambda": NewSectionLambda(func(text string, render RenderFunc) (interface{}, error) {
			return text + "{{planet}}" + text, nil
		}),
	}
	out, err := Render(`<{{#lambda}}-{{/lambda}}>`, context)
	if err != nil {
		t.Fatal(err)
	}
	if out != "<-Earth->" {
		t.Errorf("expected %q, got %q", "<-Earth->", out)
	}
}

func TestStrictMissingPartial(t *testing.T) {
	_, err := New().WithStrict(true).CompileString(`{{>missing}}`)
	if err != nil {
		t.Fatalf("compile should succeed, partial resolution happens at render: %s", err)
	}
	tmpl, _ := New().WithStrict(true).CompileString(`{{>missing}}`)
	if _, err := tmpl.Render(nil); err == nil {
		t.Errorf("expected a strict-mode error for a missing partial")
	}
}

func TestLenientMissingPartial(t *testing.T) {
	tmpl, err := New().CompileString(`before{{>missing}}after`)
	if err != nil {
		t.Fatal(err)
	}
	out, err := tmpl.Render(nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "beforeafter" {
		t.Errorf("expected %q, got %q", "beforeafter", out)
	}
}

func TestInversionDuality(t *testing.T) {
	for _, v := range []interface{}{true, false} {
		out, err := Render(`{{#x}}A{{/x}}{{^x}}A{{/x}}`, map[string]interface{}{"x": v})
		if err != nil {
			t.Fatal(err)
		}
		if out != "A" {
			t.Errorf("x=%v: expected %q, got %q", v, "A", out)
		}
	}
}

func TestRenderInLayout(t *testing.T) {
	tmpl, err := New().CompileString(`inner {{x}}`)
	if err != nil {
		t.Fatal(err)
	}
	layout, err := New().CompileString(`[{{content}}]`)
	if err != nil {
		t.Fatal(err)
	}
	out, err := tmpl.RenderInLayout(layout, map[string]string{"x": "here"})
	if err != nil {
		t.Fatal(err)
	}
	if out != "[inner here]" {
		t.Errorf("expected %q, got %q", "[inner here]", out)
	}
}

func TestTags(t *testing.T) {
	tags := Tags(`{{a}}{{#b}}{{c}}{{/b}}{{>d}}`)
	if len(tags) != 3 {
		t.Fatalf("expected 3 top-level tags, got %d: %+v", len(tags), tags)
	}
	if tags[0].Type != Variable || tags[0].Name != "a" {
		t.Errorf("tag 0: %+v", tags[0])
	}
	if tags[1].Type != Section || tags[1].Name != "b" || len(tags[1].Tags) != 1 {
		t.Errorf("tag 1: %+v", tags[1])
	}
	if tags[2].Type != Partial || tags[2].Name != "d" {
		t.Errorf("tag 2: %+v", tags[2])
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		`{{#a}}no close`,
		`{{/a}}`,
		`{{}}`,
		`{{a b}}`,
	}
	for _, tmpl := range cases {
		if _, err := Parse(tmpl); err == nil {
			t.Errorf("%q: expected a parse error", tmpl)
		} else if !strings.Contains(err.Error(), "mustache:") {
			t.Errorf("%q: unexpected error shape: %s", tmpl, err)
		}
	}
}
