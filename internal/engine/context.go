package engine

import "fmt"

// Context identifies where completion applies: the byte offset at the
// start of the identifier-like token under the cursor, or no
// completable position at all. The zero value is the null context.
type Context struct {
	offset int
	valid  bool
}

// ContextAt returns a context anchored at a buffer offset.
func ContextAt(offset int) Context {
	return Context{offset: offset, valid: true}
}

// Valid reports whether the context names a completable position.
func (c Context) Valid() bool { return c.valid }

// Offset returns the anchored position. Only meaningful when Valid.
func (c Context) Offset() int { return c.offset }

// Equal reports context identity: both null, or anchored at the same
// offset.
func (c Context) Equal(o Context) bool {
	if c.valid != o.valid {
		return false
	}
	return !c.valid || c.offset == o.offset
}

// String renders the context for logs.
func (c Context) String() string {
	if !c.valid {
		return "null"
	}
	return fmt.Sprintf("@%d", c.offset)
}

// computeContext derives the live context from the host: null inside
// strings and comments, otherwise the identifier start at the cursor
// (the host collapses digit-led and absent tokens to a zero-width
// point).
func (s *Session) computeContext() Context {
	off := s.host.CursorOffset()
	syn := s.host.SyntaxAt(off)
	if syn.InString || syn.InComment {
		return Context{}
	}
	start, _ := s.host.IdentifierAt(off)
	return ContextAt(start)
}
