// Package actor implements lightweight actors over a worker pool: each
// actor has a private mailbox with predicate-based extraction, and can
// wait for its next message either by blocking a goroutine (Receive) or
// by detaching a continuation and releasing its worker (React). Actors
// link to each other for exit propagation, with a per-actor trap-exit
// flag converting incoming signals into ordinary messages.
package actor
