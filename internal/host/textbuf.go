package host

import "bytes"

// TextBuffer is the in-memory reference implementation of Buffer. It
// classifies syntax with a small C-family scanner (line and block
// comments, double- and single-quoted strings with backslash escapes),
// which matches the member-access operators the default trigger policy
// looks for.
//
// TextBuffer is not safe for concurrent use; the session serializes
// access to its host.
type TextBuffer struct {
	text   []byte
	cursor int
}

// Compile-time interface checks.
var (
	_ Buffer          = (*TextBuffer)(nil)
	_ SnippetInserter = (*SnippetBuffer)(nil)
)

// NewTextBuffer returns a buffer holding text with the cursor at the end.
func NewTextBuffer(text string) *TextBuffer {
	return &TextBuffer{text: []byte(text), cursor: len(text)}
}

// Text returns the buffer contents.
func (b *TextBuffer) Text() string { return string(b.text) }

// Len returns the buffer length in bytes.
func (b *TextBuffer) Len() int { return len(b.text) }

// SetText replaces the buffer contents, clamping the cursor.
func (b *TextBuffer) SetText(text string) {
	b.text = []byte(text)
	if b.cursor > len(b.text) {
		b.cursor = len(b.text)
	}
}

// SetCursor moves the cursor, clamping to the buffer bounds.
func (b *TextBuffer) SetCursor(offset int) {
	b.cursor = b.clamp(offset)
}

// CursorOffset returns the cursor position.
func (b *TextBuffer) CursorOffset() int { return b.cursor }

// DeleteBackward removes up to n bytes before the cursor.
func (b *TextBuffer) DeleteBackward(n int) {
	if n > b.cursor {
		n = b.cursor
	}
	if n <= 0 {
		return
	}
	b.text = append(b.text[:b.cursor-n], b.text[b.cursor:]...)
	b.cursor -= n
}

// InsertText inserts at the cursor and advances it past the insertion.
func (b *TextBuffer) InsertText(text string) error {
	out := make([]byte, 0, len(b.text)+len(text))
	out = append(out, b.text[:b.cursor]...)
	out = append(out, text...)
	out = append(out, b.text[b.cursor:]...)
	b.text = out
	b.cursor += len(text)
	return nil
}

// SyntaxAt classifies offset by scanning from the start of the buffer.
// Only bytes strictly before the offset affect the classification, so a
// position between the two bytes of a comment opener is still code.
func (b *TextBuffer) SyntaxAt(offset int) Syntax {
	offset = b.clamp(offset)

	const (
		code = iota
		lineComment
		blockComment
		doubleQuote
		singleQuote
	)
	state := code

	for i := 0; i < offset; i++ {
		c := b.text[i]
		switch state {
		case code:
			switch {
			case c == '"':
				state = doubleQuote
			case c == '\'':
				state = singleQuote
			case c == '/' && i+1 < offset && b.text[i+1] == '/':
				state = lineComment
				i++
			case c == '/' && i+1 < offset && b.text[i+1] == '*':
				state = blockComment
				i++
			}
		case lineComment:
			if c == '\n' {
				state = code
			}
		case blockComment:
			if c == '*' && i+1 < offset && b.text[i+1] == '/' {
				state = code
				i++
			}
		case doubleQuote:
			switch c {
			case '\\':
				i++
			case '"':
				state = code
			}
		case singleQuote:
			switch c {
			case '\\':
				i++
			case '\'':
				state = code
			}
		}
	}

	return Syntax{
		InString:  state == doubleQuote || state == singleQuote,
		InComment: state == lineComment || state == blockComment,
	}
}

// IdentifierAt scans backward from offset, first over whitespace and
// newlines, then over identifier bytes.
func (b *TextBuffer) IdentifierAt(offset int) (int, int) {
	offset = b.clamp(offset)

	p := offset
	for p > 0 && isSkip(b.text[p-1]) {
		p--
	}
	s := p
	for s > 0 && isIdent(b.text[s-1]) {
		s--
	}
	if s < p && isDigit(b.text[s]) {
		// Tokens cannot start with a digit; collapse to the cursor.
		return offset, offset
	}
	return s, p
}

// LineCol converts offset to a 1-based line and 1-based byte column.
func (b *TextBuffer) LineCol(offset int) (int, int) {
	offset = b.clamp(offset)

	line := 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if b.text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}

// HasOperatorBefore reports whether the text ending at offset has one of
// the operators as its exact suffix.
func (b *TextBuffer) HasOperatorBefore(offset int, operators []string) bool {
	head := b.text[:b.clamp(offset)]
	for _, op := range operators {
		if op != "" && bytes.HasSuffix(head, []byte(op)) {
			return true
		}
	}
	return false
}

func (b *TextBuffer) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(b.text) {
		return len(b.text)
	}
	return offset
}

func isSkip(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdent(c byte) bool {
	return c == '_' || isDigit(c) ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// SnippetBuffer is a TextBuffer that records snippet insertions
// literally, standing in for hosts with native tab-stop support.
type SnippetBuffer struct {
	TextBuffer
}

// NewSnippetBuffer returns a snippet-capable buffer holding text with
// the cursor at the end.
func NewSnippetBuffer(text string) *SnippetBuffer {
	return &SnippetBuffer{TextBuffer: TextBuffer{text: []byte(text), cursor: len(text)}}
}

// InsertSnippet inserts the rendered snippet text verbatim.
func (b *SnippetBuffer) InsertSnippet(snippet string) error {
	return b.InsertText(snippet)
}
