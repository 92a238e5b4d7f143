// Package snippet renders post-completion payloads as tab-stop snippets
// for hosts whose insertion mechanism understands them, and computes the
// literal fallback for hosts that do not.
package snippet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/kibitz/internal/candidate"
)

// Expand renders the payload as a TextMate-style snippet: each placeholder
// span becomes a numbered ${n:...} tab stop counted from 1, the text
// between spans is kept literal, and a $0 end marker terminates the
// snippet so the cursor lands after the insertion. Characters the snippet
// grammar reserves are backslash-escaped.
func Expand(post candidate.PostCompletion) (string, error) {
	if err := post.Validate(); err != nil {
		return "", fmt.Errorf("expand: %w", err)
	}

	var b strings.Builder
	b.Grow(len(post.Text) + len(post.Placeholders)*6 + 2)

	prev := 0
	for i, span := range post.Placeholders {
		b.WriteString(escape(post.Text[prev:span.Start]))
		b.WriteString("${")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte(':')
		b.WriteString(escape(post.Text[span.Start:span.End]))
		b.WriteByte('}')
		prev = span.End
	}
	b.WriteString(escape(post.Text[prev:]))
	b.WriteString("$0")

	return b.String(), nil
}

// FallbackPrefix returns what a host without snippet support inserts:
// the text up to the first placeholder, or the whole text when there are
// none. Inserting it leaves the cursor where the first argument belongs.
func FallbackPrefix(post candidate.PostCompletion) string {
	if len(post.Placeholders) == 0 {
		return post.Text
	}
	start := post.Placeholders[0].Start
	if start < 0 {
		start = 0
	}
	if start > len(post.Text) {
		start = len(post.Text)
	}
	return post.Text[:start]
}

func escape(s string) string {
	if !strings.ContainsAny(s, "$}\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '$', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
