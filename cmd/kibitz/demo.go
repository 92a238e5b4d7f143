package main

import (
	"github.com/dshills/kibitz/internal/backend"
	"github.com/dshills/kibitz/internal/candidate"
)

// demoScript answers every request with a canned container-like member
// table so the pad works without a real backend.
func demoScript(backend.Request) []candidate.Candidate {
	return []candidate.Candidate{
		{
			TypedText:       "size",
			Priority:        10,
			ResultType:      "size_type",
			Brief:           "number of elements",
			Signature:       "size() const",
			AnnotationStart: 4,
			Post:            candidate.PostCompletion{Text: "size()"},
		},
		{
			TypedText:       "push_back",
			Priority:        15,
			ResultType:      "void",
			Brief:           "append an element",
			Signature:       "push_back(const T& value)",
			AnnotationStart: 9,
			Post: candidate.PostCompletion{
				Text:         "push_back(value)",
				Placeholders: []candidate.Span{{Start: 10, End: 15}},
			},
		},
		{
			TypedText:       "at",
			Priority:        20,
			ResultType:      "T&",
			Brief:           "bounds-checked element access",
			Signature:       "at(size_type pos)",
			AnnotationStart: 2,
			Post: candidate.PostCompletion{
				Text:         "at(pos)",
				Placeholders: []candidate.Span{{Start: 3, End: 6}},
			},
		},
		{
			TypedText:       "begin",
			Priority:        25,
			ResultType:      "iterator",
			Brief:           "iterator to the first element",
			Signature:       "begin()",
			AnnotationStart: 5,
			Post:            candidate.PostCompletion{Text: "begin()"},
		},
		{
			TypedText:       "end",
			Priority:        26,
			ResultType:      "iterator",
			Brief:           "iterator past the last element",
			Signature:       "end()",
			AnnotationStart: 3,
			Post:            candidate.PostCompletion{Text: "end()"},
		},
		{
			TypedText:       "empty",
			Priority:        30,
			ResultType:      "bool",
			Brief:           "whether the container has no elements",
			Signature:       "empty() const",
			AnnotationStart: 5,
			Post:            candidate.PostCompletion{Text: "empty()"},
		},
		{
			TypedText:       "clear",
			Priority:        35,
			ResultType:      "void",
			Brief:           "remove all elements",
			Signature:       "clear()",
			AnnotationStart: 5,
			Post:            candidate.PostCompletion{Text: "clear()"},
		},
		{
			TypedText:       "insert",
			Priority:        40,
			ResultType:      "iterator",
			Brief:           "insert an element at a position",
			Signature:       "insert(iterator pos, const T& value)",
			AnnotationStart: 6,
			Post: candidate.PostCompletion{
				Text:         "insert(pos, value)",
				Placeholders: []candidate.Span{{Start: 7, End: 10}, {Start: 12, End: 17}},
			},
		},
		{
			TypedText:       "erase",
			Priority:        45,
			ResultType:      "iterator",
			Brief:           "remove the element at a position",
			Signature:       "erase(iterator pos)",
			AnnotationStart: 5,
			Post: candidate.PostCompletion{
				Text:         "erase(pos)",
				Placeholders: []candidate.Span{{Start: 6, End: 9}},
			},
		},
	}
}
