package actor

import "errors"

// ErrSuspendedInReceive is returned by Receive/ReceiveWithin if a
// handler's Do returns a Suspend outcome, which is only meaningful for
// React/ReactWithin (spec.md §4.3.3 has no detach path; blocking receive
// has nothing sensible to do with "no match yet, store a continuation").
var ErrSuspendedInReceive = errors.New("actor: handler suspended inside a blocking receive")

// ErrTerminated is returned by Ask when the target actor is no longer
// live. Per spec.md §7(d) a plain Send to a terminated actor silently
// drops the message; Ask additionally has a caller blocked on a reply
// that will now never come, so it surfaces the condition instead of
// hanging forever.
var ErrTerminated = errors.New("actor: target actor is terminated")

// ErrAskTimeout is returned by Ask when no reply arrives within the
// given timeout.
var ErrAskTimeout = errors.New("actor: synchronous call timed out waiting for reply")

// Timeout is the sentinel message delivered to a handler when a
// receive/react deadline elapses without a match (spec.md §4.3.3,
// §4.3.4, glossary "TIMEOUT").
type Timeout struct{}

// Exit is the tagged message a trap-exit actor receives in place of
// having its own exit signal raised, per spec.md §4.5.
type Exit struct {
	From   *PID
	Reason string
}
