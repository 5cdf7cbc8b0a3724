package actor

// Scheduler is the external collaborator the core consumes to run
// reactions (spec.md §4.2). It is deliberately narrow: the core never
// inspects how reactions are actually executed, only that they are.
//
// Start runs a bootstrap reaction representing an actor's main body.
// Execute runs a continuation-driven reaction. Terminated reports that
// an actor is no longer live. Tick is an advisory heartbeat the core
// invokes after every handled message, for schedulers that want to do
// bookkeeping (the teacher's bollywood.Engine has no equivalent; pongo's
// GameActor ticker is the closest analogue of periodic scheduler work).
//
// PendReaction/UnPendReaction track the pending-reaction counter: the
// core calls PendReaction when React/ReactWithin detaches a continuation
// with no message yet available, and UnPendReaction when a matching send
// resumes that continuation and hands it to Execute. This is the counter spec.md §4.2 says "lets the worker
// pool know an idle actor still has unfinished work outstanding".
type Scheduler interface {
	Start(r *Reaction)
	Execute(r *Reaction)
	Terminated(a *Actor)
	Tick(a *Actor)
	PendReaction(a *Actor)
	UnPendReaction(a *Actor)

	// MailboxCapacity sizes a newly spawned actor's backing array
	// (Config.DefaultMailboxCapacity for the bundled Pool).
	MailboxCapacity() int
}
