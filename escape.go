package mustache

import (
	"bytes"
	"encoding/json"
	"strings"
)

// EscapeMode selects the escape function applied to escaped interpolation
// tags. EscapeHTML is the default; EscapeJSON and Raw are adopted from
// hayeah-mustache's WithEscapeMode for callers embedding rendered text into
// JSON payloads or plain-text output.
type EscapeMode int

const (
	EscapeHTML EscapeMode = iota
	EscapeJSON
	EscapeRaw
)

// EscapeFunc and LiteralFunc are the two external text->text collaborators
// of spec.md §4.4 and §6.
type EscapeFunc func(string) string
type LiteralFunc func(string) string

// htmlEscape replicates the reference Mustache escaping: & < > " are
// escaped; single quotes are deliberately left alone (spec.md §9: "Default
// escape omits single quotes... do not 'fix' it without a version flag").
func htmlEscape(s string) string {
	if !strings.ContainsAny(s, `&<>"`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// jsonEscape escapes s for embedding inside a double-quoted JSON string,
// without the surrounding quotes. Grounded on hayeah-mustache's JSONEscape.
func jsonEscape(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return s
	}
	out := buf.String()
	// Encode wraps in quotes and appends a newline; strip both.
	out = strings.TrimSuffix(out, "\n")
	if len(out) >= 2 {
		out = out[1 : len(out)-1]
	}
	return out
}

func identity(s string) string { return s }

func escapeFuncFor(mode EscapeMode) EscapeFunc {
	switch mode {
	case EscapeJSON:
		return jsonEscape
	case EscapeRaw:
		return identity
	default:
		return htmlEscape
	}
}
