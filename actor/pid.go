package actor

import "github.com/google/uuid"

// PID identifies an actor, or (for the lifetime of one synchronous Ask
// call) a one-shot reply address. It is the only handle user code ever
// holds. Because this is not a distributed system (spec.md §1
// Non-goals), a PID can cheaply carry a direct reference to what it
// names instead of requiring a lookup table; actorRef is non-nil for
// real actors, replyCh is non-nil for Ask's ephemeral reply addresses,
// never both.
type PID struct {
	id       string
	actorRef *Actor
	replyCh  chan interface{}
}

// String returns the process id, e.g. for log lines.
func (p *PID) String() string {
	if p == nil {
		return "<nil>"
	}
	return p.id
}

func newID() string {
	return uuid.New().String()
}

// externalSender is the synthetic sender used when a non-actor goroutine
// calls Send/Ask directly (spec.md §4.3.1: "a synthetic proxy for
// non-actor threads").
var externalSender = &PID{id: "external"}
