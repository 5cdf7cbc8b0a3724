package actor

// mailboxEntry is one queued (message, sender) pair.
type mailboxEntry struct {
	msg    interface{}
	sender *PID
}

// Mailbox is a FIFO multiset of (message, sender) pairs supporting
// predicate-based extraction. It has no locking of its own: the owning
// Actor serializes every access under its own monitor (see actor.go),
// exactly as spec.md §4.1 requires ("every mailbox operation is
// serialized under the owning actor's monitor").
type Mailbox struct {
	entries []mailboxEntry
}

func newMailbox(capacity int) *Mailbox {
	if capacity <= 0 {
		capacity = 8
	}
	return &Mailbox{entries: make([]mailboxEntry, 0, capacity)}
}

// append enqueues at the tail unconditionally.
func (m *Mailbox) append(msg interface{}, sender *PID) {
	m.entries = append(m.entries, mailboxEntry{msg: msg, sender: sender})
}

// extractFirst returns the oldest entry whose message satisfies pred,
// removing it and preserving the relative order of everything else.
func (m *Mailbox) extractFirst(pred func(msg interface{}) bool) (interface{}, *PID, bool) {
	for i := range m.entries {
		if pred(m.entries[i].msg) {
			e := m.entries[i]
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return e.msg, e.sender, true
		}
	}
	return nil, nil, false
}

// extractFirstEntry is extractFirst but the predicate also sees the
// sender; used by ReceiveFrom.
func (m *Mailbox) extractFirstEntry(pred func(msg interface{}, sender *PID) bool) (interface{}, *PID, bool) {
	for i := range m.entries {
		if pred(m.entries[i].msg, m.entries[i].sender) {
			e := m.entries[i]
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return e.msg, e.sender, true
		}
	}
	return nil, nil, false
}

func (m *Mailbox) len() int { return len(m.entries) }
