package mustache

import "strings"

// parser turns a template string into a ParseTree. It is a synchronous,
// single-pass recursive-descent scanner in the style of the teacher's
// Template.parse()/parseSection() (hoisie-mustache/mustache.go), generalized
// to emit the spec's Segment tagged union instead of reflect-backed element
// structs, and to track the standalone-tag whitespace bookkeeping of
// spec.md §4.1 (adapted from the readText/readTag split used by
// hayeah-mustache's parser in the same corpus).
type parser struct {
	data string
	otag string
	ctag string
	p    int
}

// Parse compiles template using the default delimiters "{{" "}}".
func Parse(template string) (*ParseTree, error) {
	return parseWithDelims(template, "{{", "}}")
}

func parseWithDelims(template, otag, ctag string) (*ParseTree, error) {
	ps := &parser{data: template, otag: otag, ctag: ctag}
	segs, _, err := ps.parseUntil("")
	if err != nil {
		return nil, err
	}
	return &ParseTree{segments: segs}, nil
}

// textResult is the literal text found before the next tag, split into the
// part that is definitely emitted (text) and the trailing horizontal
// whitespace (padding) that is only emitted if the upcoming tag turns out
// not to be standalone. tagOpenPos is the absolute byte offset of the
// upcoming tag's opening delimiter, before any stripping is applied; it is
// the boundary used to capture a section's raw_body (spec.md §3, §4.1).
type textResult struct {
	text          string
	padding       string
	mayStandalone bool
	tagOpenPos    int
	eof           bool
}

func (ps *parser) readText() textResult {
	start := ps.p
	idx := strings.Index(ps.data[start:], ps.otag)
	if idx < 0 {
		return textResult{text: ps.data[start:], eof: true}
	}
	tagOpenPos := start + idx
	ps.p = tagOpenPos + len(ps.otag)

	i := tagOpenPos
	for i > start && isHorizontalSpace(ps.data[i-1]) {
		i--
	}
	mayStandalone := i == 0 || ps.data[i-1] == '\n'

	if mayStandalone {
		return textResult{
			text:          ps.data[start:i],
			padding:       ps.data[i:tagOpenPos],
			mayStandalone: true,
			tagOpenPos:    tagOpenPos,
		}
	}
	return textResult{text: ps.data[start:tagOpenPos], tagOpenPos: tagOpenPos}
}

func isHorizontalSpace(b byte) bool { return b == ' ' || b == '\t' }

// tagResult is a single parsed tag: its trimmed content (including the
// leading sigil, if any) and whether standalone stripping applies.
type tagResult struct {
	content     string
	standalone  bool
	tagClosePos int // position immediately after the closing delimiter, before standalone newline consumption
}

func (ps *parser) readTag(mayStandalone bool) (tagResult, error) {
	start := ps.p

	var end int
	var closeLen int
	if ps.p < len(ps.data) && ps.data[ps.p] == '{' {
		idx := strings.Index(ps.data[ps.p:], "}"+ps.ctag)
		if idx < 0 {
			return tagResult{}, &ParseError{Kind: UnterminatedTag, Pos: start, Msg: "unterminated triple-mustache tag"}
		}
		end = ps.p + idx
		closeLen = 1 + len(ps.ctag)
	} else {
		idx := strings.Index(ps.data[ps.p:], ps.ctag)
		if idx < 0 {
			return tagResult{}, &ParseError{Kind: UnterminatedTag, Pos: start, Msg: "unterminated tag"}
		}
		end = ps.p + idx
		closeLen = len(ps.ctag)
	}

	raw := ps.data[ps.p:end]
	content := strings.TrimSpace(raw)
	tagClosePos := end + closeLen
	ps.p = tagClosePos

	if content == "" {
		return tagResult{}, &ParseError{Kind: EmptyName, Pos: start, Msg: "empty tag"}
	}

	standalone := false
	if mayStandalone && isStandaloneEligible(content) {
		eol := ps.p
		for eol < len(ps.data) && isHorizontalSpace(ps.data[eol]) {
			eol++
		}
		switch {
		case eol == len(ps.data):
			standalone = true
			ps.p = eol
		case ps.data[eol] == '\n':
			standalone = true
			ps.p = eol + 1
		case ps.data[eol] == '\r' && eol+1 < len(ps.data) && ps.data[eol+1] == '\n':
			standalone = true
			ps.p = eol + 2
		}
	}

	return tagResult{content: content, standalone: standalone, tagClosePos: tagClosePos}, nil
}

// isStandaloneEligible reports whether a tag's sigil makes it eligible for
// standalone-whitespace stripping (spec.md §4.1): every sigil except bare,
// "&", and the triple-mustache raw form (which start with '{').
func isStandaloneEligible(content string) bool {
	switch content[0] {
	case '!', '#', '^', '/', '>', '=':
		return true
	default:
		return false
	}
}

// parseUntil parses segments until it finds a closing tag matching
// sectionName (when non-empty) or end-of-input (when sectionName == "").
// It returns the absolute byte offset of the matching close tag's opening
// delimiter (meaningful only when sectionName != ""), used by the caller to
// capture a section's raw_body.
func (ps *parser) parseUntil(sectionName string) ([]Segment, int, error) {
	var segs []Segment

	for {
		tr := ps.readText()
		if tr.eof {
			if sectionName != "" {
				return nil, 0, &ParseError{Kind: MismatchedClose, Pos: ps.p, Msg: "section " + sectionName + " has no closing tag"}
			}
			if len(tr.text) > 0 {
				segs = append(segs, literalSegment([]byte(tr.text)))
			}
			return segs, 0, nil
		}

		if len(tr.text) > 0 {
			segs = append(segs, literalSegment([]byte(tr.text)))
		}

		tag, err := ps.readTag(tr.mayStandalone)
		if err != nil {
			return nil, 0, err
		}
		if !tag.standalone && tr.padding != "" {
			segs = append(segs, literalSegment([]byte(tr.padding)))
		}

		content := tag.content
		switch content[0] {
		case '!':
			// comment: discarded

		case '#', '^':
			name, err := parseTagName(content[1:])
			if err != nil {
				return nil, 0, err
			}
			inverted := content[0] == '^'
			bodyStart := tag.tagClosePos
			otag, ctag := ps.otag, ps.ctag
			body, closeTagOpenPos, err := ps.parseUntil(name)
			if err != nil {
				return nil, 0, err
			}
			rawBody := ps.data[bodyStart:closeTagOpenPos]
			segs = append(segs, sectionSegment(name, inverted, body, rawBody, otag, ctag))

		case '/':
			name, err := parseTagName(content[1:])
			if err != nil {
				return nil, 0, err
			}
			if name != sectionName {
				return nil, 0, &ParseError{Kind: MismatchedClose, Pos: ps.p, Msg: "mismatched closing tag: " + name}
			}
			return segs, tr.tagOpenPos, nil

		case '>':
			name, err := parseTagName(content[1:])
			if err != nil {
				return nil, 0, err
			}
			indent := ""
			if tag.standalone {
				indent = tr.padding
			}
			segs = append(segs, partialSegment(name, indent))

		case '=':
			newOtag, newCtag, err := parseDelimChange(content)
			if err != nil {
				return nil, 0, err
			}
			ps.otag, ps.ctag = newOtag, newCtag

		case '{':
			name, err := parseTagName(strings.TrimSuffix(content[1:], "}"))
			if err != nil {
				return nil, 0, err
			}
			segs = append(segs, interpolationSegment(name, false))

		case '&':
			name, err := parseTagName(content[1:])
			if err != nil {
				return nil, 0, err
			}
			segs = append(segs, interpolationSegment(name, false))

		default:
			name, err := parseTagName(content)
			if err != nil {
				return nil, 0, err
			}
			segs = append(segs, interpolationSegment(name, true))
		}
	}
}

func parseDelimChange(content string) (string, string, error) {
	if len(content) < 2 || content[len(content)-1] != '=' {
		return "", "", &ParseError{Kind: BadDelimiterChange, Msg: "delimiter change tag must end with '='"}
	}
	inner := strings.TrimSpace(content[1 : len(content)-1])
	parts := strings.Fields(inner)
	if len(parts) != 2 {
		return "", "", &ParseError{Kind: BadDelimiterChange, Msg: "delimiter change requires exactly two delimiters"}
	}
	return parts[0], parts[1], nil
}

// parseTagName trims and validates a tag name: it must be non-empty,
// contain no interior whitespace, and have no empty dotted segment.
func parseTagName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", &ParseError{Kind: EmptyName, Msg: "empty tag name"}
	}
	if name == "." {
		return name, nil
	}
	if strings.ContainsAny(name, " \t") {
		return "", &ParseError{Kind: BadDottedName, Msg: "name must not contain whitespace: " + name}
	}
	if strings.Contains(name, ".") {
		for _, seg := range strings.Split(name, ".") {
			if seg == "" {
				return "", &ParseError{Kind: BadDottedName, Msg: "dotted name has empty segment: " + name}
			}
		}
	}
	return name, nil
}
