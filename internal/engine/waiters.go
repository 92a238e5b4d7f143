package engine

// Callback receives no arguments; subscribers query the session for
// candidates when invoked.
type Callback func()

// waiterQueue accumulates callbacks waiting for the next commit. It is
// guarded by the session mutex.
type waiterQueue struct {
	fns []Callback
}

func (q *waiterQueue) add(fn Callback) {
	q.fns = append(q.fns, fn)
}

// take returns the queued callbacks and empties the queue.
func (q *waiterQueue) take() []Callback {
	fns := q.fns
	q.fns = nil
	return fns
}

func (q *waiterQueue) clear() {
	q.fns = nil
}
