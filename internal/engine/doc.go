// Package engine keeps editor completion state consistent against a
// slow out-of-process backend.
//
// A Session owns all completion state for one buffer: the current
// completion context, a monotonic context tick, the committed candidate
// set, the in-flight request marker, and the queue of subscriber
// callbacks. Editors drive it from their command loop and query it from
// their completion UI.
//
// # Architecture
//
//   - Context: where completion applies, derived from the cursor via the
//     host; null inside strings and comments
//   - Tick: a generation counter bumped exactly once per observed
//     context change, used as the correlation token for backend calls
//   - Store: the last committed candidate set, tagged with its tick
//   - Waiters: callbacks to run once on the next accepted commit
//
// # Consistency rules
//
// Responses are accepted only if their token equals the current tick at
// arrival; anything else is dropped silently, so a reply racing a
// cursor move can never resurface stale candidates. Availability is a
// double check: the stored tick must match and the live recomputed
// context must equal the stored one. At most one request is ever in
// flight per tick; retriggering without a context change is a no-op.
// When the context has no completable position the empty set is
// committed immediately and no backend call is made.
//
// # Quick start
//
//	buf := host.NewTextBuffer("obj.")
//	be := backend.NewStub(backend.WithScript(script))
//	sess := engine.NewSession(buf, be)
//	defer sess.Close()
//
//	// Editor command loop:
//	sess.HandleCommand("self-insert")
//
//	// Completion UI:
//	sess.Subscribe(func() {
//	    for _, c := range sess.Candidates() {
//	        show(c)
//	    }
//	})
//
// # Concurrency
//
// Session methods serialize on an internal mutex and backend responses
// are consumed by a single dispatch goroutine, so every mutation happens
// on exactly one turn at a time. Subscriber callbacks and the commit
// hook run on the dispatch goroutine, outside the lock; a callback
// satisfied at subscribe time runs synchronously instead. The session
// never blocks waiting for the backend.
package engine
