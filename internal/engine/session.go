package engine

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dshills/kibitz/internal/backend"
	"github.com/dshills/kibitz/internal/candidate"
	"github.com/dshills/kibitz/internal/host"
	"github.com/dshills/kibitz/internal/logger"
	"github.com/dshills/kibitz/internal/snippet"
	"github.com/dshills/kibitz/internal/trigger"
)

// Commit describes an accepted candidate set. The hook runs after each
// backend commit, outside the session lock, so it may call back into
// the session. The empty set committed on a transition to null does not
// fire the hook; the caller just observed that transition.
type Commit struct {
	Tick  int64
	Count int
}

// CommitFunc observes accepted commits.
type CommitFunc func(Commit)

// Session tracks one buffer's completion state: the current context and
// tick, the committed candidate set, the outstanding request marker,
// and the callbacks waiting for the next commit.
//
// All mutations serialize through one mutex. Editor-driven calls come
// in on the host's turn; backend responses come in on the session's
// dispatch goroutine. Waiter callbacks and the commit hook run on that
// goroutine with the lock released.
type Session struct {
	id      uuid.UUID
	host    host.Buffer
	backend backend.Backend
	policy  *trigger.Policy
	log     *log.Logger

	mu      sync.Mutex
	ctx     Context
	tick    int64
	store   store
	pending int64 // tick with a request outstanding; 0 means none
	waiters waiterQueue

	onCommit CommitFunc

	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// SessionOption configures a Session during creation.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) {
		s.log = l
	}
}

// WithPolicy replaces the default trigger policy.
func WithPolicy(p *trigger.Policy) SessionOption {
	return func(s *Session) {
		s.policy = p
	}
}

// WithOnCommit sets the commit hook.
func WithOnCommit(fn CommitFunc) SessionOption {
	return func(s *Session) {
		s.onCommit = fn
	}
}

// NewSession builds a session over a host buffer and a backend and
// starts its response dispatch goroutine. The session does not own the
// backend; closing the session leaves the backend running.
func NewSession(buf host.Buffer, be backend.Backend, opts ...SessionOption) *Session {
	s := &Session{
		id:      uuid.New(),
		host:    buf,
		backend: be,
		policy:  trigger.DefaultPolicy(),
		log:     logger.Default("engine"),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.dispatchLoop()
	s.log.Debug("session started", "id", s.id)
	return s
}

// ID returns the session's instance id.
func (s *Session) ID() uuid.UUID { return s.id }

// Update recomputes the context from the host and reports whether it
// changed. A change bumps the tick, clears the committed candidates,
// and drops queued waiters; a change to null additionally commits the
// empty set for the new tick, so null contexts are always available.
func (s *Session) Update() bool {
	if s.closed.Load() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked()
}

func (s *Session) refreshLocked() bool {
	cur := s.computeContext()
	if cur.Equal(s.ctx) {
		return false
	}
	s.ctx = cur
	s.tick++
	s.store.clear()
	s.waiters.clear()
	if !cur.Valid() {
		s.store.commit(nil, s.tick)
	}
	s.log.Debug("context changed", "tick", s.tick, "context", cur)
	return true
}

// IsTriggerCommand reports whether the named command may trigger
// completion under the session's policy.
func (s *Session) IsTriggerCommand(name string) bool {
	return s.policy.IsTriggerCommand(name)
}

// HandleCommand runs the trigger decision for one editor command and
// reports whether a request was considered. Non-trigger commands return
// immediately without recomputing the context. A trigger command
// refreshes the context; if that changed it to a position right after a
// member-access operator, a request is dispatched unless one is already
// outstanding for this tick.
func (s *Session) HandleCommand(name string) bool {
	if s.closed.Load() || !s.policy.IsTriggerCommand(name) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.refreshLocked() || !s.ctx.Valid() {
		return false
	}
	if !s.policy.ShouldRequest(s.host, s.ctx.Offset()) {
		return false
	}
	s.maybeSendLocked()
	return true
}

// maybeSendLocked dispatches a request for the current tick unless one
// is already outstanding. Queued waiters are dropped before dispatch;
// they were waiting on a request that no longer represents them. Only
// called with a valid context.
func (s *Session) maybeSendLocked() {
	if s.pending == s.tick {
		return
	}
	line, col := s.host.LineCol(s.ctx.Offset())
	s.waiters.clear()
	s.pending = s.tick
	req := backend.Request{Line: line, Col: col, Token: s.tick}
	if err := s.backend.Complete(req); err != nil {
		s.pending = 0
		s.log.Warn("completion dispatch failed", "tick", s.tick, "err", err)
		return
	}
	s.log.Debug("completion requested", "tick", s.tick, "line", line, "col", col)
}

// availableLocked is the double check: the live context must equal the
// stored one and the committed set must carry the current tick. The
// live recomputation never bumps the tick.
func (s *Session) availableLocked() bool {
	return s.computeContext().Equal(s.ctx) && s.store.tick == s.tick
}

// IsAvailable reports whether committed candidates answer the live
// context. Read-only.
func (s *Session) IsAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availableLocked()
}

// Candidates returns a snapshot of the committed set, or nil when
// candidates are not available for the live context.
func (s *Session) Candidates() []candidate.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.availableLocked() {
		return nil
	}
	return append([]candidate.Candidate(nil), s.store.candidates...)
}

// Tick returns the current context tick.
func (s *Session) Tick() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Pending returns the tick with a request outstanding, 0 when none.
func (s *Session) Pending() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Context returns the session's stored context.
func (s *Session) Context() Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Subscribe arranges for fn to run once candidates for the live context
// are available. It refreshes the context first; if candidates already
// answer it (always the case for null contexts) fn runs synchronously
// before Subscribe returns. Otherwise a request is dispatched unless
// one is outstanding and fn is queued for the next commit. Queued
// callbacks run at most once and are dropped, never invoked, when the
// context changes first. After Close the callback is dropped.
func (s *Session) Subscribe(fn Callback) {
	if s.closed.Load() {
		return
	}
	s.mu.Lock()
	s.refreshLocked()
	if s.availableLocked() {
		s.mu.Unlock()
		fn()
		return
	}
	s.maybeSendLocked()
	s.waiters.add(fn)
	s.mu.Unlock()
}

// Accept inserts the chosen candidate into the host: the expanded
// tab-stop snippet when the host supports snippet insertion, otherwise
// the literal prefix up to the first placeholder. A candidate whose
// spans fail expansion falls back to its literal text.
func (s *Session) Accept(c candidate.Candidate) error {
	if ins, ok := s.host.(host.SnippetInserter); ok {
		expanded, err := snippet.Expand(c.Post)
		if err != nil {
			s.log.Warn("snippet expansion failed, inserting literal text", "text", c.TypedText, "err", err)
			return s.host.InsertText(c.Post.Text)
		}
		return ins.InsertSnippet(expanded)
	}
	return s.host.InsertText(snippet.FallbackPrefix(c.Post))
}

// handleResponse applies one backend response. A token that does not
// match the current tick is stale: it clears the pending marker if it
// was ours and mutates nothing else. A match commits, in fixed order:
// store the candidates, clear pending, fire the commit hook, drain the
// waiters.
func (s *Session) handleResponse(resp backend.Response) {
	s.mu.Lock()
	if resp.Token != s.tick {
		if s.pending == resp.Token {
			s.pending = 0
		}
		tick := s.tick
		s.mu.Unlock()
		s.log.Debug("stale response dropped", "token", resp.Token, "tick", tick)
		return
	}
	s.store.commit(resp.Candidates, s.tick)
	s.pending = 0
	fns := s.waiters.take()
	hook := s.onCommit
	info := Commit{Tick: s.tick, Count: len(resp.Candidates)}
	s.mu.Unlock()

	s.log.Debug("candidates committed", "tick", info.Tick, "count", info.Count)
	if hook != nil {
		hook(info)
	}
	for _, fn := range fns {
		fn()
	}
}

// dispatchLoop consumes backend responses until Close or the backend's
// channel closes.
func (s *Session) dispatchLoop() {
	for {
		select {
		case <-s.done:
			return
		case resp, ok := <-s.backend.Responses():
			if !ok {
				s.log.Debug("backend stream closed")
				return
			}
			s.handleResponse(resp)
		}
	}
}

// Close stops response dispatch and resets session state. Idempotent.
// The backend is left running; the caller owns it.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.mu.Lock()
		s.ctx = Context{}
		s.tick = 0
		s.pending = 0
		s.store.clear()
		s.waiters.clear()
		s.mu.Unlock()
		s.log.Debug("session closed", "id", s.id)
	})
}
