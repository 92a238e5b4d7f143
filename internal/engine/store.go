package engine

import "github.com/dshills/kibitz/internal/candidate"

// store holds the last committed candidate set and the tick it answers.
// A context refresh clears only after bumping the tick, so a cleared
// store (tick 0) never matches a changed context; the initial 0/0 state
// leaves a session that starts outside any completable position already
// satisfied by the empty set.
type store struct {
	candidates []candidate.Candidate
	tick       int64
}

func (st *store) commit(cands []candidate.Candidate, tick int64) {
	st.candidates = cands
	st.tick = tick
}

func (st *store) clear() {
	st.candidates = nil
	st.tick = 0
}
