package mustache

import "strings"

// renderer walks a ParseTree against a Context, in the style of the
// teacher's Template.renderElement (hoisie-mustache/mustache.go), but
// dispatching on Segment's tagged kind instead of a type switch over
// reflect-derived element structs.
type renderer struct {
	ctx      *Context
	partials PartialProvider
	escape   EscapeFunc
	literal  LiteralFunc
	strict   bool
}

func (r *renderer) render(buf *strings.Builder, segs []Segment) error {
	for i := range segs {
		if err := r.renderSegment(buf, &segs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderSegment(buf *strings.Builder, seg *Segment) error {
	switch seg.kind {
	case segLiteral:
		buf.Write(seg.text)
		return nil

	case segInterpolation:
		return r.renderInterpolation(buf, seg)

	case segSection:
		return r.renderSection(buf, seg)

	case segInverted:
		return r.renderInverted(buf, seg)

	case segPartial:
		return r.renderPartial(buf, seg)
	}
	return nil
}

// renderInterpolation handles both bare ("escaped") and "&"/triple-mustache
// (raw) tags, plus InterpolationLambdaFunc invocation per spec.md §4.3: a
// lambda found at an interpolation tag is called with no arguments, its
// result is coerced to text, re-parsed with the default delimiters and
// rendered against the current context, and only then escaped (or passed
// through literal) like any other value.
func (r *renderer) renderInterpolation(buf *strings.Builder, seg *Segment) error {
	v := r.ctx.Lookup(seg.name)

	if lambda, ok := v.AsLambda(); ok {
		if lambda.Interpolation == nil {
			return r.fail(&RenderError{Kind: ContextTypeError, Name: seg.name})
		}
		result, err := lambda.Interpolation()
		if err != nil {
			return err
		}
		raw, err := coerceAny(result)
		if err != nil {
			return r.fail(&RenderError{Kind: LambdaReturnedNonText, Name: seg.name})
		}
		tree, err := Parse(raw)
		if err != nil {
			return err
		}
		var sub strings.Builder
		if err := r.render(&sub, tree.segments); err != nil {
			return err
		}
		text := sub.String()
		if seg.escaped {
			text = r.escape(text)
		} else {
			text = r.literal(text)
		}
		buf.WriteString(text)
		return nil
	}

	text := v.Coerce()
	if seg.escaped {
		text = r.escape(text)
	} else {
		text = r.literal(text)
	}
	buf.WriteString(text)
	return nil
}

// renderSection implements spec.md §4.2's per-kind dispatch: a falsy value
// renders nothing; a SectionLambdaFunc receives the section's raw template
// text and a RenderFunc that re-parses and renders that text (using the
// delimiters in effect where the section tag was written) against the
// current context; a list pushes each element in turn; any other truthy
// value pushes once. Per spec.md §4.3, the lambda's own (coerced) return
// value is itself re-parsed and rendered with the captured delimiters
// before being emitted, regardless of whether the lambda already called
// render itself on part of its output.
func (r *renderer) renderSection(buf *strings.Builder, seg *Segment) error {
	v := r.ctx.Lookup(seg.name)

	if lambda, ok := v.AsLambda(); ok {
		if lambda.Section == nil {
			return r.fail(&RenderError{Kind: ContextTypeError, Name: seg.name})
		}
		renderFn := func(text string) (string, error) {
			tree, err := parseWithDelims(text, seg.otag, seg.ctag)
			if err != nil {
				return "", err
			}
			var sub strings.Builder
			if err := r.render(&sub, tree.segments); err != nil {
				return "", err
			}
			return sub.String(), nil
		}
		result, err := lambda.Section(seg.rawBody, renderFn)
		if err != nil {
			return err
		}
		raw, err := coerceAny(result)
		if err != nil {
			return r.fail(&RenderError{Kind: LambdaReturnedNonText, Name: seg.name})
		}
		text, err := renderFn(raw)
		if err != nil {
			return err
		}
		buf.WriteString(text)
		return nil
	}

	if !v.Truthy() {
		return nil
	}

	if v.Kind() == KindList {
		for _, item := range v.ListItems() {
			r.ctx.Push(item)
			err := r.render(buf, seg.body)
			r.ctx.Pop()
			if err != nil {
				return err
			}
		}
		return nil
	}

	r.ctx.Push(v)
	err := r.render(buf, seg.body)
	r.ctx.Pop()
	return err
}

// renderInverted renders its body iff the named value is falsy. Lambdas are
// always truthy and are never invoked here (spec.md §4.2).
func (r *renderer) renderInverted(buf *strings.Builder, seg *Segment) error {
	v := r.ctx.Lookup(seg.name)
	if v.Truthy() {
		return nil
	}
	return r.render(buf, seg.body)
}

// renderPartial loads the named partial from the PartialProvider, applies
// the standalone indentation captured at parse time to its *source* text,
// and renders it against the *current* context (partials do not push a new
// scope) using the default delimiters, per spec.md §4.3 and §6. Indenting
// before parsing (rather than indenting the rendered output) matters when
// an interpolated value itself contains a newline: only the partial
// template's own lines get the indent, not lines produced by a value
// substituted into it.
func (r *renderer) renderPartial(buf *strings.Builder, seg *Segment) error {
	text, ok := r.partials.Get(seg.name)
	if !ok {
		if r.strict {
			return r.fail(&RenderError{Kind: PartialNotFoundStrict, Name: seg.name})
		}
		return nil
	}

	tree, err := Parse(applyIndent(text, seg.indent))
	if err != nil {
		return err
	}

	var sub strings.Builder
	if err := r.render(&sub, tree.segments); err != nil {
		return err
	}

	buf.WriteString(sub.String())
	return nil
}

// fail returns err when running in strict mode; in lenient mode it swallows
// the error and the caller proceeds as if the offending tag produced no
// output (spec.md §7).
func (r *renderer) fail(err error) error {
	if r.strict {
		return err
	}
	return nil
}
