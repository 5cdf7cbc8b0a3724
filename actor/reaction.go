package actor

// Outcome tags how a Behavior invocation concluded. This is the explicit
// control object spec.md §9 calls for in place of the source's
// panic-based SuspendActor sentinel: "a clean redesign exposes the
// current reaction as an explicit control object whose handler returns
// one of Done(value), Suspend(nextHandler), or Fail(reason)".
type Outcome int

const (
	// OutcomeDone means this composition has produced a final value;
	// for Receive it is returned to the caller, for React it reaches
	// the actor's kill hook (see combinators.go).
	OutcomeDone Outcome = iota
	// OutcomeSuspend means the pass ended in React/ReactWithin: the
	// handler was either detached as the actor's continuation or already
	// submitted as a fresh Reaction, and this worker is released.
	OutcomeSuspend
	// OutcomeFail means the handler raised a condition; the actor
	// terminates with that reason.
	OutcomeFail
)

// Result is what a Behavior or a React/ReactWithin call returns. Value and
// Err are only meaningful for their matching Outcome; the continuation an
// event-based wait detaches lives on the Actor itself (see actor.go's
// waitingFor/continuation fields), not in the Result that reports it.
type Result struct {
	Outcome Outcome
	Value   interface{}
	Err     error
}

// Done builds a Result carrying a final value.
func Done(value interface{}) Result { return Result{Outcome: OutcomeDone, Value: value} }

// Fail builds a Result terminating the actor with err's message as the
// exit reason.
func Fail(err error) Result { return Result{Outcome: OutcomeFail, Err: err} }

// Handler is the partial function shared by receive and react (spec.md
// §2: "two waiting disciplines ... that share one queue and one matching
// predicate"). Match is the predicate; Do consumes the matched message
// and reports what happened.
type Handler struct {
	Match func(msg interface{}) bool
	Do    func(msg interface{}) Result
}

// Behavior is one self-contained receive-or-react pass over an actor's
// mailbox; combinators compose Behaviors.
type Behavior func(a *Actor) Result

// Reaction is the ephemeral (actor, handler, message) record spec.md
// §3 describes. A bootstrap Reaction has no handler and no message: it
// runs the actor's Act function from scratch.
type Reaction struct {
	Actor     *Actor
	Handler   Handler
	Message   interface{}
	Sender    *PID
	Bootstrap bool
}
