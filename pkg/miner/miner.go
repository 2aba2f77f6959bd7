package miner

import (
	crand "crypto/rand"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hookmine/hookmine/internal/logger"
	"github.com/hookmine/hookmine/pkg/pattern"
	"github.com/hookmine/hookmine/pkg/salt"
	"github.com/hookmine/hookmine/pkg/scheme"
	"github.com/hookmine/hookmine/pkg/types"
	"github.com/hookmine/hookmine/pkg/worker"
)

// counterChunk is the number of counter values a worker claims per dispatch.
const counterChunk = 1 << 20

// Options tunes a Miner. Zero values select sensible defaults.
type Options struct {
	Workers     int            // worker goroutines; defaults to runtime.NumCPU()
	Rand        io.Reader      // entropy source; defaults to crypto/rand.Reader
	Logger      *logger.Logger // progress log destination; nil disables
	LogInterval time.Duration  // progress log period; defaults to 5s
}

// Miner coordinates the parallel salt search. One entropy batch is
// outstanding at a time: the counter range 0..2^48 is fanned across the
// worker pool via an atomic chunk cursor, the first match closes the
// batch, and a swept batch triggers an entropy refresh before the next.
type Miner struct {
	deployer types.Address
	scheme   scheme.Scheme
	pat      pattern.Pattern
	opts     Options

	attempts int64
	done     chan struct{}
	once     sync.Once
}

// New creates a miner for one run.
func New(deployer types.Address, s scheme.Scheme, pat pattern.Pattern, opts Options) *Miner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Rand == nil {
		opts.Rand = crand.Reader
	}
	if opts.LogInterval <= 0 {
		opts.LogInterval = 5 * time.Second
	}
	return &Miner{
		deployer: deployer,
		scheme:   s,
		pat:      pat,
		opts:     opts,
		done:     make(chan struct{}),
	}
}

// Mine searches until a salt whose derived address satisfies the pattern
// is found, then returns it with attempt and timing stats. A pattern with
// no solutions makes Mine run forever; there is no internal bound. Returns
// (nil, nil) if Stop is called before a match.
func (m *Miner) Mine() (*types.Result, error) {
	start := time.Now()
	layout := m.scheme.Layout()
	base := layout.Base(m.deployer)

	var logDone chan struct{}
	if m.opts.Logger != nil {
		logDone = make(chan struct{})
		ticker := time.NewTicker(m.opts.LogInterval)
		go m.periodicLogger(ticker, logDone, start)
		defer func() {
			ticker.Stop()
			close(logDone)
		}()
	}

	for {
		select {
		case <-m.done:
			return nil, nil
		default:
		}

		// New entropy for this batch. The entropy segment is written only
		// here, while no workers are running.
		if err := layout.RefreshEntropy(base, m.opts.Rand); err != nil {
			return nil, err
		}

		if res := m.exploreBatch(base); res != nil {
			res.Attempts = atomic.LoadInt64(&m.attempts)
			res.Duration = time.Since(start)
			return res, nil
		}
	}
}

// exploreBatch fans the counter range for the current entropy value across
// the worker pool. Returns nil when the range is exhausted or the miner
// was stopped; results from workers that finish after the first match are
// discarded.
func (m *Miner) exploreBatch(base types.Salt) *types.Result {
	var (
		next     atomic.Uint64
		wg       sync.WaitGroup
		stop     = make(chan struct{})
		stopOnce sync.Once
		resultCh = make(chan *types.Result, 1)
	)
	cancel := func() { stopOnce.Do(func() { close(stop) }) }

	// Propagate an external Stop into this batch.
	go func() {
		select {
		case <-m.done:
			cancel()
		case <-stop:
		}
	}()

	for i := 0; i < m.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := worker.New(m.scheme, &m.pat, &m.attempts)
			for {
				from := next.Add(counterChunk) - counterChunk
				if from >= salt.MaxCounter {
					return
				}
				to := from + counterChunk
				if to > salt.MaxCounter {
					to = salt.MaxCounter
				}

				addr, winning, ok := w.Search(base, from, to, stop)
				if ok {
					select {
					case resultCh <- &types.Result{Address: addr, Salt: m.scheme.ResultSalt(winning)}:
					default:
						// another worker matched first in this batch
					}
					cancel()
					return
				}

				select {
				case <-stop:
					return
				default:
				}
			}
		}()
	}

	wg.Wait()
	cancel()

	select {
	case res := <-resultCh:
		return res
	default:
		return nil
	}
}

// Stop aborts the search. Safe to call from a signal handler goroutine and
// safe to call more than once.
func (m *Miner) Stop() {
	m.once.Do(func() { close(m.done) })
}

// Attempts returns the number of candidates evaluated so far.
func (m *Miner) Attempts() int64 {
	return atomic.LoadInt64(&m.attempts)
}

// periodicLogger reports attempt counts and hash rate at regular intervals.
func (m *Miner) periodicLogger(ticker *time.Ticker, done chan struct{}, start time.Time) {
	for {
		select {
		case <-ticker.C:
			attempts := atomic.LoadInt64(&m.attempts)
			elapsed := time.Since(start)

			rate := 0.0
			if elapsed.Seconds() > 0 {
				rate = float64(attempts) / elapsed.Seconds()
			}
			m.opts.Logger.Printf("Progress: %d attempts, %.2f hashes/sec", attempts, rate)
		case <-done:
			return
		}
	}
}
