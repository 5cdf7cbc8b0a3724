package actor

import "sync"

// linkTable is the index-based adjacency set spec.md §9 calls for in
// place of actors holding direct references to their peers: "represent
// as an index-based adjacency set (actor id -> set of ids) owned by a
// separate link registry; actors hold only their id."
type linkTable struct {
	mu    sync.Mutex
	peers map[string]map[string]*PID
}

var globalLinks = &linkTable{peers: make(map[string]map[string]*PID)}

func (t *linkTable) ensure(id string) map[string]*PID {
	m, ok := t.peers[id]
	if !ok {
		m = make(map[string]*PID)
		t.peers[id] = m
	}
	return m
}

// add links a and b. Symmetric and idempotent (spec.md §3 Link
// invariant, §8 Invariant 2).
func (t *linkTable) add(a, b *PID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensure(a.id)[b.id] = b
	t.ensure(b.id)[a.id] = a
}

// remove unlinks a and b, if linked.
func (t *linkTable) remove(a, b *PID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if m, ok := t.peers[a.id]; ok {
		delete(m, b.id)
	}
	if m, ok := t.peers[b.id]; ok {
		delete(m, a.id)
	}
}

// peersOf returns a's current link set.
func (t *linkTable) peersOf(a *PID) []*PID {
	t.mu.Lock()
	defer t.mu.Unlock()
	m := t.peers[a.id]
	out := make([]*PID, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	return out
}

// clear drops a from the table entirely, including every peer's
// reference back to it; called once a has fully terminated.
func (t *linkTable) clear(a *PID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.peers, a.id)
	for _, m := range t.peers {
		delete(m, a.id)
	}
}

// exitLinked visits every peer still linked to from and propagates the
// termination (spec.md §4.5). visited is shared across the whole
// cascade so a cycle triggers at most one exit signal per actor
// (spec.md §8 Invariant 5).
func exitLinked(from *PID, reason string, visited map[string]bool) {
	for _, peer := range globalLinks.peersOf(from) {
		propagateExit(from, peer, reason, visited)
	}
}

// propagateExit implements the three cases of spec.md §4.5:
//   - peer already visited (it is the actor that originated this
//     cascade, or was already reached by another path): no-op.
//   - peer traps exits: reify Exit{from, reason} as an ordinary message.
//   - otherwise, if reason != "normal": terminate peer too, and recurse
//     into its own links with the same visited set.
//
// A peer not yet visited is unlinked from `from` before the other two
// cases are checked, so a later,
// independent termination of the peer does not re-signal an actor that
// is already gone.
func propagateExit(from, peer *PID, reason string, visited map[string]bool) {
	if peer.actorRef == nil || visited[peer.id] {
		return
	}
	visited[peer.id] = true
	globalLinks.remove(from, peer)

	pa := peer.actorRef
	pa.mu.Lock()
	trapping := pa.trapExit
	alreadyDead := pa.terminated
	pa.mu.Unlock()
	if alreadyDead {
		return
	}

	if trapping {
		sendFrom(from, peer, Exit{From: from, Reason: reason})
		return
	}
	if reason == "normal" {
		return
	}
	if pa.markTerminated(reason) {
		exitLinked(peer, reason, visited)
		pa.sched.Terminated(pa)
		globalLinks.clear(pa.pid)
	}
}
