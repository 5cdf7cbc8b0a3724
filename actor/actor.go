package actor

import (
	"fmt"
	"sync"
	"time"
)

// waitMode records which of the two suspension points (spec.md §5) an
// actor is currently parked at, if any.
type waitMode int

const (
	waitNone waitMode = iota
	waitThread
	waitEvent
)

// ActFunc is an actor's main body. It is invoked once, as the bootstrap
// reaction (spec.md §4.3.7), and its Result is handled exactly like any
// other reaction's: Done ends the actor (reason "normal"), Suspend means
// the body itself detached via React and a continuation is now pending,
// Fail terminates with that reason.
type ActFunc func(a *Actor) Result

// Actor is the runtime instance of a spawned body: lifecycle, mailbox,
// sender stack, link membership and the two waiting disciplines.
type Actor struct {
	pid   *PID
	sched Scheduler
	act   ActFunc

	mu      sync.Mutex
	cond    *sync.Cond
	mailbox *Mailbox

	mode       waitMode
	waitingFor func(msg interface{}, sender *PID) bool
	// continuation is the handler detachActor stashed; only meaningful
	// while mode == waitEvent.
	continuation Handler

	terminated bool
	exitReason string
	trapExit   bool

	// senderStack holds one entry per nested receive/react match; only
	// ever touched by this actor's own in-flight reaction, so it needs
	// no separate lock (spec.md §5: reactions are non-preemptive and at
	// most one runs per actor at a time).
	senderStack []*PID

	// killFn is the "kill" hook of spec.md §4.4/§9: combinators push a
	// new one and restore the old one around the behavior they wrap.
	killFn func(value interface{}) Result
}

// Spawn creates and starts an actor whose behavior is body, returning its
// PID (spec.md §6 "spawn(body)"). sched is the Scheduler the actor's
// reactions run on; see pool.go for the bundled worker-pool
// implementation.
func Spawn(sched Scheduler, body ActFunc) *PID {
	a := &Actor{
		sched:   sched,
		act:     body,
		mailbox: newMailbox(sched.MailboxCapacity()),
	}
	a.cond = sync.NewCond(&a.mu)
	a.pid = &PID{id: newID(), actorRef: a}

	sched.Start(&Reaction{Actor: a, Bootstrap: true})
	return a.pid
}

// PID returns the actor's own address, for passing to peers at spawn
// time.
func (a *Actor) PID() *PID { return a.pid }

// ExitReason returns the reason the actor terminated with, or "" while
// still running.
func (a *Actor) ExitReason() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exitReason
}

func (a *Actor) isTerminated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.terminated
}

// --- send / forward / ask --------------------------------------------

// Send is the asynchronous fire-and-forget primitive for callers with no
// actor identity of their own (spec.md §6 "send(a, msg)").
func Send(target *PID, msg interface{}) {
	sendFrom(externalSender, target, msg)
}

// Send delivers msg to target, attributing it to a as the sender
// (spec.md §4.3.1).
func (a *Actor) Send(target *PID, msg interface{}) {
	sendFrom(a.pid, target, msg)
}

// Forward resends msg to target, inheriting the sender of the message a
// is currently handling (Sender()) rather than attributing it to a
// (spec.md §4.3.1). Outside a handler that sender is nil.
func (a *Actor) Forward(target *PID, msg interface{}) {
	sendFrom(a.Sender(), target, msg)
}

// sendFrom implements spec.md §4.3.1 in full: append under the target's
// monitor, then resolve its current wait discipline.
func sendFrom(sender *PID, target *PID, msg interface{}) {
	if target == nil {
		return
	}
	if target.replyCh != nil {
		select {
		case target.replyCh <- msg:
		default:
		}
		return
	}
	t := target.actorRef
	if t == nil {
		return
	}

	t.mu.Lock()
	if t.terminated {
		// spec.md §7(d): send to a terminated actor silently drops.
		t.mu.Unlock()
		return
	}
	t.mailbox.append(msg, sender)

	switch t.mode {
	case waitEvent:
		if t.waitingFor != nil && t.waitingFor(msg, sender) {
			m, s, ok := t.mailbox.extractFirstEntry(t.waitingFor)
			h := t.continuation
			t.mode = waitNone
			t.waitingFor = nil
			t.continuation = Handler{}
			t.mu.Unlock()
			if ok {
				t.sched.UnPendReaction(t)
				t.sched.Execute(&Reaction{Actor: t, Handler: h, Message: m, Sender: s})
			}
			return
		}
	case waitThread:
		if t.waitingFor != nil && t.waitingFor(msg, sender) {
			t.waitingFor = nil
			t.cond.Broadcast()
		}
	}
	t.mu.Unlock()
}

// Ask performs a synchronous request (spec.md §4.3.2, §6 "ask"/"!?"): it
// allocates a fresh single-use reply address, sends msg there, and
// blocks the calling goroutine until either a reply arrives or timeout
// elapses. Reply addresses are never reused across calls.
func Ask(target *PID, msg interface{}, timeout time.Duration) (interface{}, error) {
	return askVia(target, msg, timeout)
}

// Ask is the method form, for use inside an actor's own body. The
// calling actor's own identity plays no part in the exchange: per
// spec.md §9 ("prefer a fresh reply handle per synchronous call") the
// reply always targets a brand-new one-shot address, never the caller's
// own PID, so there is nothing to thread through from a.
func (a *Actor) Ask(target *PID, msg interface{}, timeout time.Duration) (interface{}, error) {
	return askVia(target, msg, timeout)
}

func askVia(target *PID, msg interface{}, timeout time.Duration) (interface{}, error) {
	if target == nil || target.actorRef == nil || target.actorRef.isTerminated() {
		return nil, ErrTerminated
	}
	replyCh := make(chan interface{}, 1)
	replyPID := &PID{id: newID(), replyCh: replyCh}
	sendFrom(replyPID, target, msg)
	select {
	case v := <-replyCh:
		return v, nil
	case <-time.After(timeout):
		return nil, ErrAskTimeout
	}
}

// --- sender stack & reply ---------------------------------------------

func (a *Actor) pushSender(s *PID) { a.senderStack = append(a.senderStack, s) }

func (a *Actor) popSender() {
	if n := len(a.senderStack); n > 0 {
		a.senderStack = a.senderStack[:n-1]
	}
}

// Sender returns the sender of the message currently being handled, or
// nil if there is none (spec.md §4.3.6).
func (a *Actor) Sender() *PID {
	if n := len(a.senderStack); n > 0 {
		return a.senderStack[n-1]
	}
	return nil
}

// Reply sends msg to the top of the sender stack (spec.md §4.3.6). When
// the sender is an Ask reply address this completes the synchronous
// call; when it is an ordinary actor it is a plain send.
func (a *Actor) Reply(msg interface{}) {
	if s := a.Sender(); s != nil {
		sendFrom(a.pid, s, msg)
	}
}

// --- receive (thread-based) --------------------------------------------

// Receive blocks the calling goroutine until a message matching h's
// pattern arrives, then runs h and returns its result (spec.md §4.3.3).
func (a *Actor) Receive(h Handler) (interface{}, error) {
	entry := func(msg interface{}, _ *PID) bool { return h.Match(msg) }
	a.mu.Lock()
	for {
		if msg, sender, ok := a.mailbox.extractFirst(h.Match); ok {
			a.mu.Unlock()
			a.pushSender(sender)
			res := h.Do(msg)
			a.popSender()
			a.sched.Tick(a)
			return a.unwrapBlocking(res)
		}
		if a.terminated {
			reason := a.exitReason
			a.mu.Unlock()
			return nil, fmt.Errorf("actor: terminated while waiting: %s", reason)
		}
		a.mode = waitThread
		a.waitingFor = entry
		a.cond.Wait() // suspendActor(): releases a.mu, parks, reacquires on wake
		a.mode = waitNone
		a.waitingFor = nil
	}
}

// ReceiveWithin is Receive with a deadline. If nothing matches before d
// elapses, a Timeout{} is offered to h; if h does not accept it, a zero
// value is returned with no error (spec.md §4.3.3, §7(e)).
func (a *Actor) ReceiveWithin(d time.Duration, h Handler) (interface{}, error) {
	entry := func(msg interface{}, _ *PID) bool { return h.Match(msg) }
	deadline := time.Now().Add(d)
	a.mu.Lock()
	for {
		if msg, sender, ok := a.mailbox.extractFirst(h.Match); ok {
			a.mu.Unlock()
			a.pushSender(sender)
			res := h.Do(msg)
			a.popSender()
			a.sched.Tick(a)
			return a.unwrapBlocking(res)
		}
		if a.terminated {
			reason := a.exitReason
			a.mu.Unlock()
			return nil, fmt.Errorf("actor: terminated while waiting: %s", reason)
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			a.mu.Unlock()
			if h.Match(Timeout{}) {
				res := h.Do(Timeout{})
				return a.unwrapBlocking(res)
			}
			return nil, nil
		}
		a.mode = waitThread
		a.waitingFor = entry
		a.waitBudget(remaining)
		a.mode = waitNone
		a.waitingFor = nil
	}
}

// waitBudget parks for at most d, tolerating spurious wakeups the way
// spec.md §5 describes: the caller re-checks remaining budget in a loop.
// sync.Cond has no timed wait, so a timer re-arms the same condition.
func (a *Actor) waitBudget(d time.Duration) {
	timer := time.AfterFunc(d, func() {
		a.mu.Lock()
		a.cond.Broadcast()
		a.mu.Unlock()
	})
	a.cond.Wait()
	timer.Stop()
}

// ReceiveFrom is Receive restricted to messages sent by a specific peer
// (spec.md §4.3.5).
func (a *Actor) ReceiveFrom(sender *PID, h Handler) (interface{}, error) {
	entry := func(msg interface{}, s *PID) bool { return s == sender && h.Match(msg) }
	a.mu.Lock()
	for {
		if msg, s, ok := a.mailbox.extractFirstEntry(entry); ok {
			a.mu.Unlock()
			a.pushSender(s)
			res := h.Do(msg)
			a.popSender()
			a.sched.Tick(a)
			return a.unwrapBlocking(res)
		}
		if a.terminated {
			reason := a.exitReason
			a.mu.Unlock()
			return nil, fmt.Errorf("actor: terminated while waiting: %s", reason)
		}
		a.mode = waitThread
		a.waitingFor = entry
		a.cond.Wait()
		a.mode = waitNone
		a.waitingFor = nil
	}
}

func (a *Actor) unwrapBlocking(res Result) (interface{}, error) {
	switch res.Outcome {
	case OutcomeDone:
		return res.Value, nil
	case OutcomeFail:
		reason := "normal"
		if res.Err != nil {
			reason = res.Err.Error()
		}
		a.terminate(reason)
		return nil, res.Err
	default:
		return nil, ErrSuspendedInReceive
	}
}

// --- react (event-based) ------------------------------------------------

// React consumes one matching message without holding a worker thread
// while waiting (spec.md §4.3.4). It never returns a useful value to its
// caller in the ordinary sense: whether a message is already present or
// not, the actual handler invocation happens in a freshly scheduled
// Reaction, and React always hands Suspend back up so the calling
// Behavior ends right there, preserving the "react never returns" tail
// discipline without a panic-based unwind (spec.md §9).
func (a *Actor) React(h Handler) Result {
	entry := func(msg interface{}, _ *PID) bool { return h.Match(msg) }
	a.mu.Lock()
	if a.terminated {
		a.mu.Unlock()
		return Result{Outcome: OutcomeSuspend}
	}
	if msg, sender, ok := a.mailbox.extractFirst(h.Match); ok {
		a.mu.Unlock()
		// Tail-call semantics: submit, don't run inline (spec.md §4.3.4).
		a.sched.Execute(&Reaction{Actor: a, Handler: h, Message: msg, Sender: sender})
		return Result{Outcome: OutcomeSuspend}
	}
	// detachActor(h): stash the continuation, mark detached, count it
	// as pending work the scheduler still owes a resumption for.
	a.mode = waitEvent
	a.waitingFor = entry
	a.continuation = h
	a.mu.Unlock()
	a.sched.PendReaction(a)
	return Result{Outcome: OutcomeSuspend}
}

// ReactWithin arms a timeout alongside React's usual wait. If it fires
// before a real match, Timeout{} is delivered through the mailbox like
// any other message, so a real match racing the timer can still leave a
// stale Timeout{} enqueued; h is expected to ignore it if undefined for
// it (spec.md §7(e)).
func (a *Actor) ReactWithin(d time.Duration, h Handler) Result {
	pid := a.pid
	timer := time.AfterFunc(d, func() {
		sendFrom(pid, pid, Timeout{})
	})
	wrapped := Handler{
		Match: func(msg interface{}) bool {
			if _, isTimeout := msg.(Timeout); isTimeout {
				return h.Match(Timeout{})
			}
			return h.Match(msg)
		},
		Do: func(msg interface{}) Result {
			timer.Stop()
			return h.Do(msg)
		},
	}
	return a.React(wrapped)
}

// --- lifecycle -----------------------------------------------------------

// terminate is the entry point for self-initiated termination: normal
// return from act(), Exit(reason), or an uncaught panic recovered by the
// scheduler. It marks the actor dead, then drives exit propagation
// across its links (spec.md §4.5).
func (a *Actor) terminate(reason string) {
	if !a.markTerminated(reason) {
		return
	}
	exitLinked(a.pid, reason, map[string]bool{a.pid.id: true})
	a.sched.Terminated(a)
	globalLinks.clear(a.pid)
}

func (a *Actor) markTerminated(reason string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.terminated {
		return false
	}
	a.terminated = true
	a.exitReason = reason
	a.mailbox = newMailbox(0) // no more reader; drop anything still queued
	a.cond.Broadcast()
	return true
}

// Exit terminates a with reason, propagating per spec.md §4.5. It is the
// self-directed counterpart of a linked peer's exit signal reaching a.
func (a *Actor) Exit(reason string) {
	a.terminate(reason)
}

// SetTrapExit toggles whether incoming exit signals are reified as
// Exit{} messages instead of terminating a (spec.md §4.5, §6).
func (a *Actor) SetTrapExit(trap bool) {
	a.mu.Lock()
	a.trapExit = trap
	a.mu.Unlock()
}

// Link adds a symmetric, idempotent link between a and peer (spec.md
// §3, §4.5).
func (a *Actor) Link(peer *PID) {
	if peer == nil || peer == a.pid {
		return
	}
	globalLinks.add(a.pid, peer)
}

// Unlink removes the link between a and peer, if any.
func (a *Actor) Unlink(peer *PID) {
	if peer == nil {
		return
	}
	globalLinks.remove(a.pid, peer)
}

// finishReaction interprets the Result produced by a bootstrap or
// continuation invocation. Done consults the kill hook (which Loop/Seq
// install to keep the actor going); Fail terminates; Suspend means
// React already did everything it needed to.
func (a *Actor) finishReaction(res Result) {
	for {
		switch res.Outcome {
		case OutcomeDone:
			a.sched.Tick(a)
			next := a.killFn
			if next == nil {
				a.terminate("normal")
				return
			}
			res = next(res.Value)
			continue
		case OutcomeFail:
			reason := "normal"
			if res.Err != nil {
				reason = res.Err.Error()
			}
			a.terminate(reason)
			return
		case OutcomeSuspend:
			a.sched.Tick(a)
			return
		}
	}
}

// Tail ends the current Behavior pass by consulting the kill hook
// (spec.md §4.4's "kill" hook): under Loop this re-enters the loop body,
// under Seq it advances to the next stage, and with neither installed it
// is equivalent to Done(value).
func (a *Actor) Tail(value interface{}) Result {
	if a.killFn == nil {
		return Done(value)
	}
	return a.killFn(value)
}
