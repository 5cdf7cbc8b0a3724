package actor

// Loop makes the current actor re-execute body forever (spec.md §4.4).
// Because React never truly returns, looping is expressed the way
// spec.md §9 directs: the actor's kill hook is set to "run body again",
// and any Behavior inside body that reaches a natural tail calls
// a.Tail(value) instead of returning Done directly, which invokes that
// hook.
func Loop(a *Actor, body Behavior) Result {
	var loopFn func(value interface{}) Result
	loopFn = func(value interface{}) Result {
		a.killFn = loopFn
		return body(a)
	}
	a.killFn = loopFn
	return body(a)
}

// Seq sequences two Behaviors: next runs once first's chain reaches a
// tail (spec.md §4.4). first may itself end in React/ReceiveWithin; next
// may too.
func Seq(a *Actor, first Behavior, next Behavior) Result {
	prev := a.killFn
	a.killFn = func(value interface{}) Result {
		a.killFn = prev
		return next(a)
	}
	return first(a)
}

// Choose waits for a message matching any of alts' patterns and runs
// whichever matched, the event-based alternative of spec.md §4.4.
//
// The source tried alternatives one at a time, rolling back via a
// suspend-and-retry dance when the first didn't match (spec.md §9: "the
// combinator must explicitly decrement the pending-reaction count and
// clear the waiting predicate before unwinding"). Evaluating the union
// of all alternatives' predicates up front makes that rollback
// unnecessary: there is only ever one detach, against the combined
// predicate, and it only fires once none of the alternatives match.
func Choose(a *Actor, alts ...Handler) Result {
	return a.React(unionHandler(alts))
}

// ChooseReceive is Choose for thread-based actors: it blocks until a
// message matches one of the alternatives.
func ChooseReceive(a *Actor, alts ...Handler) (interface{}, error) {
	return a.Receive(unionHandler(alts))
}

func unionHandler(alts []Handler) Handler {
	return Handler{
		Match: func(msg interface{}) bool {
			for _, h := range alts {
				if h.Match(msg) {
					return true
				}
			}
			return false
		},
		Do: func(msg interface{}) Result {
			for _, h := range alts {
				if h.Match(msg) {
					return h.Do(msg)
				}
			}
			return Done(nil)
		},
	}
}

// EventLoop is sugar for "react with h forever", the common
// process-messages-forever shape (spec.md §4.4), without writing Loop
// and a.Tail out by hand.
func EventLoop(a *Actor, h Handler) Result {
	return Loop(a, func(a *Actor) Result {
		return a.React(Handler{
			Match: h.Match,
			Do: func(msg interface{}) Result {
				res := h.Do(msg)
				if res.Outcome == OutcomeDone {
					return a.Tail(res.Value)
				}
				return res
			},
		})
	})
}
