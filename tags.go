package mustache

import "github.com/gomustache/mustache/internal/parse"

// TagType identifies the kind of a Tag returned by Template.Tags, mirroring
// the Tag/TagType introspection surface hoisie-mustache and hayeah-mustache
// both expose alongside rendering.
type TagType int

const (
	Variable TagType = iota
	Section
	InvertedSection
	Partial
)

// Tag describes one tag found in a compiled template, independent of the
// render path: it is built from internal/parse's tokenizer rather than from
// the Segment tree render.go consumes.
type Tag struct {
	Type TagType
	Name string
	Tags []Tag // non-nil only for Section/InvertedSection
}

// Tags tokenizes the template's source and returns its top-level tags, each
// carrying any nested tags for sections/inverted sections. It does not
// require the template to have been compiled into a ParseTree first, and it
// never fails: a malformed template simply yields however many tags were
// recognized before the tokenizer gave up.
func Tags(template string) []Tag {
	l := parse.Lex("", template, "", "")
	tags, _ := collectTags(l)
	return tags
}

// Tags returns the tags found in the template text t was compiled from.
func (t *Template) Tags() []Tag {
	return Tags(t.source)
}

// collectTags drains items until a right-section-delim closing name or EOF,
// returning the tags collected and the name closed (if any).
func collectTags(l *parse.Lexer) ([]Tag, string) {
	var tags []Tag
	for {
		it := l.NextItem()
		switch it.Type {
		case parse.ItemEOF, parse.ItemError:
			return tags, ""

		case parse.ItemLeftDelim:
			name := l.NextItem()
			l.NextItem() // right delim
			switch name.Type {
			case parse.ItemPartial:
				tags = append(tags, Tag{Type: Partial, Name: name.Val})
			default:
				tags = append(tags, Tag{Type: Variable, Name: name.Val})
			}

		case parse.ItemLeftSectionDelim, parse.ItemLeftInvertedDelim:
			name := l.NextItem()
			l.NextItem() // right delim
			body, _ := collectTags(l)
			typ := Section
			if it.Type == parse.ItemLeftInvertedDelim {
				typ = InvertedSection
			}
			tags = append(tags, Tag{Type: typ, Name: name.Val, Tags: body})

		case parse.ItemRightSectionDelim:
			name := l.NextItem()
			l.NextItem() // right delim
			return tags, name.Val
		}
	}
}
