package backend

import (
	"sync"
	"time"

	"github.com/dshills/kibitz/internal/candidate"
)

// Script produces the candidates a Stub answers a request with.
type Script func(Request) []candidate.Candidate

// StubOption configures a Stub.
type StubOption func(*Stub)

// WithScript makes the stub answer every request through fn. Without a
// script the stub stays silent until Reply is called.
func WithScript(fn Script) StubOption {
	return func(s *Stub) { s.script = fn }
}

// WithDelay delays scripted replies, approximating a slow backend.
func WithDelay(d time.Duration) StubOption {
	return func(s *Stub) { s.delay = d }
}

// Stub is an in-memory backend for tests and the demo binary. It
// records every dispatched request; replies come from the script, after
// the configured delay, or from explicit Reply calls. Replies are
// always delivered on a separate goroutine, like a real transport.
//
// The response channel is never closed; Close only stops deliveries.
type Stub struct {
	mu       sync.Mutex
	script   Script
	delay    time.Duration
	requests []Request
	closed   bool

	responses chan Response
	quit      chan struct{}
}

// NewStub returns a stub backend.
func NewStub(opts ...StubOption) *Stub {
	s := &Stub{
		responses: make(chan Response, responseBuffer),
		quit:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Complete records the request and schedules the scripted reply.
func (s *Stub) Complete(req Request) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.requests = append(s.requests, req)
	script := s.script
	delay := s.delay
	s.mu.Unlock()

	if script == nil {
		return nil
	}

	resp := Response{Token: req.Token, Candidates: script(req)}
	if delay <= 0 {
		go s.Reply(resp)
	} else {
		time.AfterFunc(delay, func() { s.Reply(resp) })
	}
	return nil
}

// Responses returns the reply channel.
func (s *Stub) Responses() <-chan Response { return s.responses }

// Reply delivers one response, as the backend would. After Close it is
// a no-op.
func (s *Stub) Reply(resp Response) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	select {
	case s.responses <- resp:
	case <-s.quit:
	}
}

// Requests returns a copy of every request dispatched so far.
func (s *Stub) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Close stops deliveries. Pending delayed replies are dropped.
func (s *Stub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.quit)
	}
	return nil
}

// Compile-time interface checks.
var (
	_ Backend = (*Process)(nil)
	_ Backend = (*Stub)(nil)
)
