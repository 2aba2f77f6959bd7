package worker

import (
	"sync/atomic"

	"github.com/hookmine/hookmine/pkg/pattern"
	"github.com/hookmine/hookmine/pkg/salt"
	"github.com/hookmine/hookmine/pkg/scheme"
	"github.com/hookmine/hookmine/pkg/types"
)

// stopCheckInterval bounds how many candidates a worker evaluates before
// noticing a closed batch.
const stopCheckInterval = 1 << 12

// Worker evaluates candidate salts over counter sub-ranges. Each worker
// owns a private scratch salt buffer and its own Deriver; no mutable state
// is ever shared between workers.
type Worker struct {
	deriver  scheme.Deriver
	pat      *pattern.Pattern
	buf      types.Salt
	attempts *int64
}

// New creates a worker for the given scheme and compiled pattern.
// attempts is the run-wide counter, incremented atomically per candidate.
func New(s scheme.Scheme, pat *pattern.Pattern, attempts *int64) *Worker {
	return &Worker{
		deriver:  s.NewDeriver(),
		pat:      pat,
		buf:      make(types.Salt, s.Layout().Size),
		attempts: attempts,
	}
}

// Search walks counters [from, to) over the batch's base salt. base is
// read-only; every candidate is built in the worker's private buffer. On a
// match it returns the address and a copy of the full winning salt.
// ok is false when the range was swept without a match or stop closed.
func (w *Worker) Search(base types.Salt, from, to uint64, stop <-chan struct{}) (addr types.Address, found types.Salt, ok bool) {
	copy(w.buf, base)
	for c := from; c < to; c++ {
		if (c-from)%stopCheckInterval == 0 {
			select {
			case <-stop:
				return types.Address{}, nil, false
			default:
			}
		}

		salt.PutCounter(w.buf, c)
		candidate := w.deriver.Derive(w.buf)
		atomic.AddInt64(w.attempts, 1)

		if w.pat.Matches(candidate) {
			return candidate, append(types.Salt(nil), w.buf...), true
		}
	}
	return types.Address{}, nil, false
}
