package snippet

import (
	"errors"
	"testing"

	"github.com/dshills/kibitz/internal/candidate"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		post candidate.PostCompletion
		want string
	}{
		{
			name: "two argument call",
			post: candidate.PostCompletion{
				Text:         "foo(int a, int b)",
				Placeholders: []candidate.Span{{Start: 4, End: 9}, {Start: 11, End: 16}},
			},
			want: "foo(${1:int a}, ${2:int b})$0",
		},
		{
			name: "no placeholders",
			post: candidate.PostCompletion{Text: "size()"},
			want: "size()$0",
		},
		{
			name: "empty text",
			post: candidate.PostCompletion{},
			want: "$0",
		},
		{
			name: "placeholder at start",
			post: candidate.PostCompletion{
				Text:         "x = 0;",
				Placeholders: []candidate.Span{{Start: 0, End: 1}},
			},
			want: "${1:x} = 0;$0",
		},
		{
			name: "placeholder to end of text",
			post: candidate.PostCompletion{
				Text:         "at(size_t pos)",
				Placeholders: []candidate.Span{{Start: 3, End: 13}},
			},
			want: "at(${1:size_t pos})$0",
		},
		{
			name: "empty placeholder",
			post: candidate.PostCompletion{
				Text:         "f()",
				Placeholders: []candidate.Span{{Start: 2, End: 2}},
			},
			want: "f(${1:})$0",
		},
		{
			name: "reserved characters escaped",
			post: candidate.PostCompletion{
				Text:         `m[$k] = {v\n}`,
				Placeholders: []candidate.Span{{Start: 2, End: 4}, {Start: 9, End: 12}},
			},
			want: `m[${1:\$k}] = {${2:v\\n}\}$0`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.post)
			if err != nil {
				t.Fatalf("Expand() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Expand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandRejectsBadSpans(t *testing.T) {
	post := candidate.PostCompletion{
		Text:         "foo",
		Placeholders: []candidate.Span{{Start: 2, End: 8}},
	}
	if _, err := Expand(post); !errors.Is(err, candidate.ErrSpanRange) {
		t.Errorf("Expand() error = %v, want %v", err, candidate.ErrSpanRange)
	}

	post = candidate.PostCompletion{
		Text:         "foobar",
		Placeholders: []candidate.Span{{Start: 3, End: 5}, {Start: 1, End: 2}},
	}
	if _, err := Expand(post); !errors.Is(err, candidate.ErrSpanOrder) {
		t.Errorf("Expand() error = %v, want %v", err, candidate.ErrSpanOrder)
	}
}

func TestFallbackPrefix(t *testing.T) {
	tests := []struct {
		name string
		post candidate.PostCompletion
		want string
	}{
		{
			name: "stops at first placeholder",
			post: candidate.PostCompletion{
				Text:         "foo(int a, int b)",
				Placeholders: []candidate.Span{{Start: 4, End: 9}, {Start: 11, End: 16}},
			},
			want: "foo(",
		},
		{
			name: "whole text without placeholders",
			post: candidate.PostCompletion{Text: "length()"},
			want: "length()",
		},
		{
			name: "placeholder at offset zero",
			post: candidate.PostCompletion{
				Text:         "pos",
				Placeholders: []candidate.Span{{Start: 0, End: 3}},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FallbackPrefix(tt.post); got != tt.want {
				t.Errorf("FallbackPrefix() = %q, want %q", got, tt.want)
			}
		})
	}
}
