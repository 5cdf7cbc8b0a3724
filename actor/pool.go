package actor

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Pool is the bundled Scheduler implementation: a bounded-concurrency
// worker pool for event-reaction Execute calls, plus one goroutine per
// Start call (thread-based actors legitimately block their goroutine
// while parked, the direct analogue of the teacher's
// bollywood.Engine spawning "go proc.run()" per actor; bollywood.go
// does not bound that at all. Pool adds the semaphore-bounded Execute
// path event-based reactions need on top of it).
type Pool struct {
	cfg *Config
	sem *semaphore.Weighted

	mu      sync.Mutex
	live    map[*PID]struct{}
	pending map[*PID]int64
}

// NewPool builds a Pool sized by cfg.
func NewPool(cfg Config) *Pool {
	return &Pool{
		cfg:     &cfg,
		sem:     semaphore.NewWeighted(int64(cfg.PoolWorkers)),
		live:    make(map[*PID]struct{}),
		pending: make(map[*PID]int64),
	}
}

func (p *Pool) mark(a *Actor) {
	p.mu.Lock()
	p.live[a.pid] = struct{}{}
	p.mu.Unlock()
}

// Start runs a bootstrap reaction on its own goroutine, unbounded by the
// pool's semaphore: an actor's main body is free to block in Receive for
// as long as it needs to (spec.md §5 "thread-based actors pin one
// worker while parked").
func (p *Pool) Start(r *Reaction) {
	p.mark(r.Actor)
	go p.run(r)
}

// Execute runs a continuation-driven reaction, bounded by PoolWorkers
// concurrent in flight (spec.md §4.2).
func (p *Pool) Execute(r *Reaction) {
	p.mark(r.Actor)
	go func() {
		ctx := context.Background()
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer p.sem.Release(1)
		p.run(r)
	}()
}

func (p *Pool) run(r *Reaction) {
	a := r.Actor
	defer func() {
		if rec := recover(); rec != nil {
			fmt.Printf("actor %s panicked: %v\nStack trace:\n%s\n", a.pid, rec, string(debug.Stack()))
			a.terminate(fmt.Sprintf("%v", rec))
		}
	}()

	var res Result
	if r.Bootstrap {
		res = a.act(a)
	} else {
		a.pushSender(r.Sender)
		res = r.Handler.Do(r.Message)
		a.popSender()
	}
	a.finishReaction(res)
}

// Terminated removes a from the live set (spec.md §4.2).
func (p *Pool) Terminated(a *Actor) {
	p.mu.Lock()
	delete(p.live, a.pid)
	delete(p.pending, a.pid)
	p.mu.Unlock()
}

// Tick is the advisory per-message heartbeat; Pool has no bookkeeping
// that needs it, but implements the hook so schedulers that do (rate
// limiting, metrics) have a drop-in replacement point.
func (p *Pool) Tick(a *Actor) {}

// PendReaction records that a has detached a continuation with no
// message available yet (spec.md §4.2).
func (p *Pool) PendReaction(a *Actor) {
	p.mu.Lock()
	p.pending[a.pid]++
	p.mu.Unlock()
}

// UnPendReaction reverses PendReaction; the core calls it when a matching
// send resumes a detached continuation.
func (p *Pool) UnPendReaction(a *Actor) {
	p.mu.Lock()
	if n := p.pending[a.pid]; n > 0 {
		p.pending[a.pid] = n - 1
	}
	p.mu.Unlock()
}

// MailboxCapacity returns the configured initial mailbox backing size.
func (p *Pool) MailboxCapacity() int { return p.cfg.DefaultMailboxCapacity }

// LiveCount reports how many actors the pool still considers running,
// for diagnostics and tests.
func (p *Pool) LiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// Shutdown waits for every actor spawned on this pool to terminate, or
// gives up after cfg.ShutdownTimeout and reports how many did not.
func (p *Pool) Shutdown() {
	deadline := time.Now().Add(p.cfg.ShutdownTimeout)
	for time.Now().Before(deadline) {
		if p.LiveCount() == 0 {
			return
		}
		time.Sleep(p.cfg.ShutdownPollPeriod)
	}
	if remaining := p.LiveCount(); remaining > 0 {
		fmt.Printf("pool shutdown timeout: %d actors did not terminate\n", remaining)
	}
}
