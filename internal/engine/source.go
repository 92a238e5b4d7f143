package engine

import "github.com/dshills/kibitz/internal/candidate"

// Source is a host-facing completion table: the identifier boundaries
// the host should replace, plus the committed candidates ranked by
// priority and deduplicated by typed text. It is a snapshot; later
// session activity does not change it.
type Source struct {
	// Start and End are the byte boundaries of the identifier-like
	// token at the cursor. The host replaces [Start:End) with the
	// accepted completion.
	Start int
	End   int

	entries []candidate.Candidate
	byText  map[string]candidate.Candidate
}

// CompletionSource builds the completion table for the live context, or
// returns nil when candidates are not available. Entries are sorted by
// ascending priority (lower ranks higher) and deduplicated by typed
// text, keeping the best-ranked duplicate.
func (s *Session) CompletionSource() *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.availableLocked() {
		return nil
	}
	start, end := s.host.IdentifierAt(s.host.CursorOffset())
	entries := append([]candidate.Candidate(nil), s.store.candidates...)
	candidate.SortByPriority(entries)
	entries = candidate.DedupeByText(entries)
	byText := make(map[string]candidate.Candidate, len(entries))
	for _, c := range entries {
		byText[c.TypedText] = c
	}
	return &Source{Start: start, End: end, entries: entries, byText: byText}
}

// Len returns the number of entries.
func (src *Source) Len() int { return len(src.entries) }

// Entries returns the ranked candidate table.
func (src *Source) Entries() []candidate.Candidate { return src.entries }

// Texts returns the typed texts in rank order.
func (src *Source) Texts() []string {
	texts := make([]string, len(src.entries))
	for i, c := range src.entries {
		texts[i] = c.TypedText
	}
	return texts
}

// Lookup returns the entry for a typed text.
func (src *Source) Lookup(text string) (candidate.Candidate, bool) {
	c, ok := src.byText[text]
	return c, ok
}

// Annotation returns the display annotation for a typed text, empty
// when the text is not in the table.
func (src *Source) Annotation(text string) string {
	c, ok := src.byText[text]
	if !ok {
		return ""
	}
	return c.Annotation()
}

// Doc returns the one-line documentation for a typed text, empty when
// the text is not in the table.
func (src *Source) Doc(text string) string {
	c, ok := src.byText[text]
	if !ok {
		return ""
	}
	return c.Brief
}
