package parse

// ItemType is the exported form of itemType, for consumers outside this
// package (mustache's Tags() introspection).
type ItemType int

const (
	ItemError ItemType = iota
	ItemEOF
	ItemText
	ItemComment
	ItemLeftDelim
	ItemRightDelim
	ItemLeftSectionDelim
	ItemLeftInvertedDelim
	ItemRightSectionDelim
	ItemVariable
	ItemRawVariable
	ItemPartial
	ItemSetDelim
)

func (t itemType) export() ItemType { return ItemType(t) }

// Item is the exported, read-only view of a scanned token.
type Item struct {
	Type ItemType
	Pos  Pos
	Val  string
}

// Lexer is the exported handle to a running tokenizer.
type Lexer struct {
	l *lexer
}

// Lex starts tokenizing input with the given delimiters (defaults to "{{"
// "}}" when left/right are empty) and returns a handle for draining items
// with NextItem.
func Lex(name, input, left, right string) *Lexer {
	return &Lexer{l: lex(name, input, left, right)}
}

// NextItem returns the next token, ending with an ItemEOF or ItemError.
func (lx *Lexer) NextItem() Item {
	it := lx.l.nextItem()
	return Item{Type: it.typ.export(), Pos: it.pos, Val: it.val}
}
