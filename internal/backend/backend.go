package backend

import "github.com/dshills/kibitz/internal/candidate"

// Request asks the backend for completions at a buffer position. Line
// is 1-based; Col is a 1-based byte column within the line, so the
// position survives multi-byte text. Token is the session's context
// tick at send time.
type Request struct {
	Line  int
	Col   int
	Token int64
}

// Response carries the candidates for one request. Token echoes the
// request token it answers.
type Response struct {
	Token      int64
	Candidates []candidate.Candidate
}

// Backend issues asynchronous completion requests.
//
// Complete must dispatch without blocking on the round trip. Responses
// delivers replies in arrival order; implementations either close the
// channel on shutdown (Process does, when the child's stream ends) or
// guarantee no further sends after Close (Stub). A backend that dies
// simply stops delivering.
type Backend interface {
	Complete(req Request) error
	Responses() <-chan Response
}
