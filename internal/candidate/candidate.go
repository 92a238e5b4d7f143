// Package candidate defines the completion candidate model shared by the
// session engine and the backend transport.
package candidate

import (
	"errors"
	"fmt"
	"sort"
)

// Validation errors for placeholder spans.
var (
	// ErrSpanRange indicates a span outside the post-completion text.
	ErrSpanRange = errors.New("placeholder span out of range")
	// ErrSpanOrder indicates inverted or overlapping spans.
	ErrSpanOrder = errors.New("placeholder spans out of order")
)

// Span marks a placeholder region inside post-completion text as a
// half-open byte range [Start, End).
type Span struct {
	Start int
	End   int
}

// PostCompletion is the text inserted when a candidate is accepted, plus
// the placeholder regions a snippet-capable host turns into tab stops.
type PostCompletion struct {
	Text         string
	Placeholders []Span
}

// Validate checks that the placeholder spans are usable: inside the text,
// non-inverted, and strictly ordered without overlap.
func (p PostCompletion) Validate() error {
	prev := 0
	for i, s := range p.Placeholders {
		if s.Start < 0 || s.End > len(p.Text) {
			return fmt.Errorf("span %d [%d,%d): %w", i, s.Start, s.End, ErrSpanRange)
		}
		if s.End < s.Start {
			return fmt.Errorf("span %d [%d,%d): %w", i, s.Start, s.End, ErrSpanOrder)
		}
		if s.Start < prev {
			return fmt.Errorf("span %d [%d,%d) overlaps previous: %w", i, s.Start, s.End, ErrSpanOrder)
		}
		prev = s.End
	}
	return nil
}

// Candidate is a single completion result produced by the backend. The
// engine treats every field as opaque display data except TypedText (the
// dedup key) and Post (what acceptance inserts).
type Candidate struct {
	// TypedText is the text the user is completing toward.
	TypedText string

	// Priority orders candidates; lower values rank higher.
	Priority int

	// ResultType describes the type of the completed expression, such as
	// the return type of a function candidate.
	ResultType string

	// Brief is a one-line documentation string, possibly empty.
	Brief string

	// Signature is the full display form of the candidate.
	Signature string

	// AnnotationStart is the byte offset into Signature where the
	// annotation shown beside the candidate begins.
	AnnotationStart int

	// Post is the insertion payload applied when the candidate is
	// accepted.
	Post PostCompletion
}

// Annotation returns the trailing portion of the signature displayed
// beside the candidate. Out-of-range offsets clamp to the signature
// bounds rather than failing.
func (c Candidate) Annotation() string {
	start := c.AnnotationStart
	if start < 0 {
		start = 0
	}
	if start > len(c.Signature) {
		start = len(c.Signature)
	}
	return c.Signature[start:]
}

// SortByPriority stable-sorts candidates by ascending priority, so rows
// with equal priority keep their backend order.
func SortByPriority(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Priority < cands[j].Priority
	})
}

// DedupeByText returns candidates with duplicate TypedText removed,
// keeping the first occurrence. Callers sort first when the best-ranked
// duplicate should survive.
func DedupeByText(cands []Candidate) []Candidate {
	if len(cands) < 2 {
		return cands
	}
	seen := make(map[string]bool, len(cands))
	out := cands[:0:0]
	for _, c := range cands {
		if seen[c.TypedText] {
			continue
		}
		seen[c.TypedText] = true
		out = append(out, c)
	}
	return out
}
