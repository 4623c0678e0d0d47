package actor

import (
	"container/list"
	"sync"
)

// MailboxState mirrors §3's state field: {Empty, Ready, Blocked, Closed}.
// Ready/Blocked additionally encode the scheduler's "currently executing
// on a worker" bit so push can decide, under the same mutex pop takes,
// whether this push is the one that must make the actor ready.
type MailboxState int32

const (
	// MailboxEmpty is the pre-first-push state; behaves like Blocked for
	// scheduling purposes but is kept distinct for observability.
	MailboxEmpty MailboxState = iota
	// MailboxBlocked means no worker currently owns this actor and its
	// queues were last observed empty; the next Unblocking push must
	// schedule it.
	MailboxBlocked
	// MailboxReady means the actor is scheduled or executing; a worker
	// owns it (or is about to).
	MailboxReady
	// MailboxClosed is terminal: no further pushes are accepted.
	MailboxClosed
)

// PushResult reports the scheduling consequence of a Push, per §4.B.
type PushResult int

const (
	// PushQueued means the envelope was enqueued but the actor was
	// already Ready; no scheduling action is required by the caller.
	PushQueued PushResult = iota
	// PushUnblocked means this push caused the Blocked -> Ready
	// transition; the caller must schedule the owning actor.
	PushUnblocked
	// PushClosed means the mailbox had already been closed; the
	// envelope was discarded.
	PushClosed
	// PushFull means a configured MaxMailboxSize was exceeded; the
	// envelope was discarded and the sender should be told via a
	// system error message (see System.notifyMailboxFull).
	PushFull
)

// lane is a plain FIFO queue of envelopes. container/list gives O(1)
// push-back/pop-front without the amortized-growth churn of a slice
// being repeatedly re-sliced from the front.
type lane struct {
	l *list.List
}

func newLane() lane {
	return lane{l: list.New()}
}

func (q *lane) push(e *Envelope) {
	q.l.PushBack(e)
}

func (q *lane) pop() *Envelope {
	front := q.l.Front()
	if front == nil {
		return nil
	}
	q.l.Remove(front)
	return front.Value.(*Envelope)
}

func (q *lane) len() int {
	return q.l.Len()
}

// Mailbox is the per-actor MPSC queue described in §3/§4.B: two FIFO
// lanes (high, normal), a state word, and an optional capacity. Push is
// safe for any number of concurrent producers; Pop must only ever be
// called by the single worker currently executing the owning actor.
type Mailbox struct {
	mu       sync.Mutex
	high     lane
	normal   lane
	state    MailboxState
	capacity int // 0 means unbounded
}

// NewMailbox creates an empty mailbox. capacity <= 0 means unbounded,
// matching §6's "max_mailbox_size optional".
func NewMailbox(capacity int) *Mailbox {
	return &Mailbox{
		high:     newLane(),
		normal:   newLane(),
		state:    MailboxEmpty,
		capacity: capacity,
	}
}

// Push enqueues an envelope built from sender/mid/payload. It is the
// mailbox half of §4.A's enqueue(sender, mid, msg) contract; it never
// blocks.
func (m *Mailbox) Push(sender Sender, mid MessageId, payload Message) PushResult {
	m.mu.Lock()

	if m.state == MailboxClosed {
		m.mu.Unlock()
		return PushClosed
	}

	if m.capacity > 0 && m.high.len()+m.normal.len() >= m.capacity {
		m.mu.Unlock()
		return PushFull
	}

	env := &Envelope{Sender: sender, MessageId: mid, Payload: payload}
	if mid.Priority() == PriorityHigh {
		m.high.push(env)
	} else {
		m.normal.push(env)
	}

	wasBlocked := m.state == MailboxBlocked || m.state == MailboxEmpty
	if wasBlocked {
		m.state = MailboxReady
	}
	m.mu.Unlock()

	if wasBlocked {
		return PushUnblocked
	}
	return PushQueued
}

// Pop dequeues the next envelope, draining the high-priority lane
// entirely before any normal-priority envelope, per §3/§4.B. Only the
// worker currently running this actor may call Pop. Returns nil when
// empty, and transitions the mailbox to Blocked in that case so the
// next Unblocking Push knows to reschedule.
func (m *Mailbox) Pop() *Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()

	if env := m.high.pop(); env != nil {
		return env
	}
	if env := m.normal.pop(); env != nil {
		return env
	}

	if m.state != MailboxClosed {
		m.state = MailboxBlocked
	}
	return nil
}

// Len reports the total number of queued envelopes across both lanes.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.high.len() + m.normal.len()
}

// State returns the current mailbox state, mostly for tests and
// observer hooks.
func (m *Mailbox) State() MailboxState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Idle is called by the scheduler at the end of every dispatch that did
// not end in termination, whether the quantum was exhausted or Pop
// observed empty. It atomically checks for remaining work: if none, it
// performs the Ready->Blocked transition (repeating it harmlessly when
// Pop already did so),
// so a subsequent Push is correctly classified as Unblocked rather than
// silently swallowed into an already-Ready mailbox nobody is draining.
// Returns true if the caller must reschedule the actor immediately
// because work is, in fact, still pending.
func (m *Mailbox) Idle() (hasMoreWork bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.high.len() > 0 || m.normal.len() > 0 {
		return true
	}
	if m.state != MailboxClosed {
		m.state = MailboxBlocked
	}
	return false
}

// MarkReady forces the Ready state without a Push. The scheduler calls
// this whenever it places an actor on a run queue (including
// re-queueing after a quantum), so that any concurrent Push observes
// Ready and is correctly classified as Queued rather than a second,
// redundant Unblocked.
func (m *Mailbox) MarkReady() {
	m.mu.Lock()
	m.state = MailboxReady
	m.mu.Unlock()
}

// Close is idempotent: afterwards every Push returns PushClosed, while
// Pop continues to drain whatever was already queued before finally
// reporting empty (§4.B).
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = MailboxClosed
}

// Closed reports whether Close has been called.
func (m *Mailbox) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == MailboxClosed
}
