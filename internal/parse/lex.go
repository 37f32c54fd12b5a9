// Package parse provides a standalone tokenizer for Mustache templates,
// used by the engine's Tags() introspection API (see tags.go in the parent
// module) to describe a template's tag structure without re-parsing it for
// rendering. It is grounded on hoisie-mustache/parse/lex.go, itself a
// trimmed descendant of text/template's lexer: the same
// item/stateFn/channel design, completed here (the teacher's lexSection,
// lexPartial, lexRawText and lexInterpolation states were left as
// "not implemented" stubs) and extended with inverted sections, unescaped
// interpolation (both "&" and triple-mustache), and delimiter changes.
package parse

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type itemType int

const (
	itemError itemType = iota // error occurred
	itemEOF
	itemText
	itemComment
	itemLeftDelim         // "{{"
	itemRightDelim        // "}}"
	itemLeftSectionDelim  // "{{#"
	itemLeftInvertedDelim // "{{^"
	itemRightSectionDelim // "{{/"
	itemVariable          // escaped interpolation name
	itemRawVariable       // unescaped interpolation name ("&" or "{{{ }}}")
	itemPartial           // partial name
	itemSetDelim          // delimiter-change payload, "newleft newright"
)

// item represents a token or text string returned from the scanner.
type item struct {
	typ itemType // the type of this item
	pos Pos      // the starting position (in bytes) of this item in the input stream
	val string   // the value of this item
}

func (i item) String() string {
	switch {
	case i.typ == itemError:
		return i.val
	case i.typ == itemEOF:
		return "EOF"
	case i.typ == itemComment:
		return fmt.Sprintf("<COMMENT - %q />", i.val)
	}
	return fmt.Sprintf("%q", i.val)
}

const eof = -1

type lexer struct {
	name       string    // the name of the input; used only for error reports
	input      string    // the string being scanned
	leftDelim  string    // start of action
	rightDelim string    // end of action
	state      stateFn   // the next lexing function to enter
	pos        Pos       // current position in the input
	start      Pos       // start position of this item
	width      Pos       // width of last rune read from input
	lastPos    Pos       // position of most recent item returned by nextItem
	items      chan item // channel of scanned items
}

func (l *lexer) String() string {
	return fmt.Sprintf("start: %v, pos: %v\n", l.start, l.pos)
}

type stateFn func(*lexer) stateFn

// next returns the next rune in the input.
func (l *lexer) next() rune {
	if int(l.pos) >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = Pos(w)
	l.pos += l.width
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (l *lexer) backup() {
	l.pos -= l.width
}

// emit passes an item back to the client.
func (l *lexer) emit(t itemType) {
	l.items <- item{t, l.start, l.input[l.start:l.pos]}
	l.start = l.pos
}

// emitVal emits an item whose value is not the raw [start:pos) slice, e.g.
// a delimiter token whose text has already been partially consumed.
func (l *lexer) emitVal(t itemType, val string) {
	l.items <- item{t, l.start, val}
	l.start = l.pos
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.start = l.pos
}

// lineNumber reports which line we're on, based on the position of the
// previous item returned by nextItem.
func (l *lexer) lineNumber() int {
	return 1 + strings.Count(l.input[:l.lastPos], "\n")
}

// errorf returns an error token and terminates the scan by passing back a
// nil pointer that becomes the next state, terminating l.nextItem.
func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	l.items <- item{itemError, l.start, fmt.Sprintf(format, args...)}
	return nil
}

// nextItem returns the next item from the input.
func (l *lexer) nextItem() item {
	item := <-l.items
	l.lastPos = item.pos
	return item
}

const defaultLeftDelim = "{{"
const defaultRightDelim = "}}"

// lex creates a new scanner for the input string and starts it running in
// its own goroutine. Only the lexer's own state functions ever mutate
// leftDelim/rightDelim (on a "{{= L R =}}" tag); the channel send in emit
// blocks the producer until the consumer has received, so there is no
// concurrent access to that mutable state from outside the lexer goroutine.
func lex(name, input, left, right string) *lexer {
	if left == "" {
		left = defaultLeftDelim
	}
	if right == "" {
		right = defaultRightDelim
	}
	l := &lexer{
		name:       name,
		input:      input,
		leftDelim:  left,
		rightDelim: right,
		items:      make(chan item),
	}
	go l.run()
	return l
}

// run runs the state machine for the lexer.
func (l *lexer) run() {
	for l.state = lexText; l.state != nil; {
		l.state = l.state(l)
	}
	close(l.items)
}

// lexText scans until an opening action delimiter.
func lexText(l *lexer) stateFn {
	for {
		if strings.HasPrefix(l.input[l.pos:], l.leftDelim) {
			l.emitAnyText()
			return lexLeftDelim
		}
		if l.next() == eof {
			break
		}
	}
	l.emitAnyText()
	l.emit(itemEOF)
	return nil
}

func (l *lexer) emitAnyText() {
	if l.pos > l.start {
		l.emit(itemText)
	}
}

// lexLeftDelim scans the left delimiter and any sigil glued to it, which is
// known to be present, and dispatches to the state for that tag kind.
func lexLeftDelim(l *lexer) stateFn {
	l.pos += Pos(len(l.leftDelim))
	s := l.input[l.pos:]
	switch {
	case strings.HasPrefix(s, "!"):
		l.pos += Pos(len("!"))
		l.ignore()
		return lexComment
	case strings.HasPrefix(s, "#"):
		l.pos += Pos(len("#"))
		l.emitVal(itemLeftSectionDelim, l.leftDelim+"#")
		return lexTagName(itemVariable)
	case strings.HasPrefix(s, "^"):
		l.pos += Pos(len("^"))
		l.emitVal(itemLeftInvertedDelim, l.leftDelim+"^")
		return lexTagName(itemVariable)
	case strings.HasPrefix(s, "/"):
		l.pos += Pos(len("/"))
		l.emitVal(itemRightSectionDelim, l.leftDelim+"/")
		return lexTagName(itemVariable)
	case strings.HasPrefix(s, ">"):
		l.pos += Pos(len(">"))
		l.emitVal(itemLeftDelim, l.leftDelim)
		return lexTagName(itemPartial)
	case strings.HasPrefix(s, "&"):
		l.pos += Pos(len("&"))
		l.emitVal(itemLeftDelim, l.leftDelim)
		return lexTagName(itemRawVariable)
	case strings.HasPrefix(s, "{"):
		return lexRawText
	case strings.HasPrefix(s, "="):
		l.pos += Pos(len("="))
		l.ignore()
		return lexSetDelim
	}
	l.emit(itemLeftDelim)
	return lexTagName(itemVariable)
}

// lexTagName returns a stateFn that scans a tag's name up to the right
// delimiter, emits it as typ, then continues through lexRightDelim.
func lexTagName(typ itemType) stateFn {
	return func(l *lexer) stateFn {
		for {
			if strings.HasPrefix(l.input[l.pos:], l.rightDelim) {
				val := strings.TrimSpace(l.input[l.start:l.pos])
				l.emitVal(typ, val)
				return lexRightDelim
			}
			if l.next() == eof {
				return l.errorf("unterminated tag")
			}
		}
	}
}

// lexComment scans a comment body up to the right delimiter. The left "!"
// sigil has already been consumed and ignored by lexLeftDelim.
func lexComment(l *lexer) stateFn {
	i := strings.Index(l.input[l.pos:], l.rightDelim)
	if i < 0 {
		return l.errorf("unclosed comment")
	}
	l.pos += Pos(i)
	l.emit(itemComment)
	l.pos += Pos(len(l.rightDelim))
	l.ignore()
	return lexText
}

// lexRightDelim scans the right delimiter, which is known to be present.
func lexRightDelim(l *lexer) stateFn {
	l.pos += Pos(len(l.rightDelim))
	l.emit(itemRightDelim)
	return lexText
}

// lexRawText scans a triple-mustache unescaped interpolation, "{{{name}}}".
// The opening "{" past the left delimiter is known to be present.
func lexRawText(l *lexer) stateFn {
	l.pos += Pos(len("{"))
	l.emitVal(itemLeftDelim, l.leftDelim)

	closer := "}" + l.rightDelim
	i := strings.Index(l.input[l.pos:], closer)
	if i < 0 {
		return l.errorf("unterminated raw tag")
	}
	l.pos += Pos(i)
	val := strings.TrimSpace(l.input[l.start:l.pos])
	l.emitVal(itemRawVariable, val)
	l.pos += Pos(len(closer))
	l.emitVal(itemRightDelim, l.rightDelim)
	return lexText
}

// lexSetDelim scans a "{{= L R =}}" delimiter change. The leading "=" past
// the left delimiter has already been consumed and ignored.
func lexSetDelim(l *lexer) stateFn {
	i := strings.Index(l.input[l.pos:], "="+l.rightDelim)
	if i < 0 {
		return l.errorf("unterminated delimiter change")
	}
	l.pos += Pos(i)
	inner := strings.TrimSpace(l.input[l.start:l.pos])
	fields := strings.Fields(inner)
	if len(fields) != 2 {
		return l.errorf("delimiter change requires exactly two delimiters")
	}
	l.emitVal(itemSetDelim, inner)
	l.pos += Pos(len("=" + l.rightDelim))
	l.ignore()
	l.leftDelim, l.rightDelim = fields[0], fields[1]
	return lexText
}
