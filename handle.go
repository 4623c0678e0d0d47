package actor

// StrongHandle is a strong reference to a spawned actor: it keeps the
// actor alive (§3/§4.C — "actor lives while strong > 0") and is the
// type returned by Spawn and by Registry lookups of a live actor. The
// zero StrongHandle is the `invalid` sentinel described in §4.F.
type StrongHandle struct {
	acb *acb
}

// Invalid is the sentinel StrongHandle returned by registry lookups
// that find nothing. It is never a failure for callers to receive it
// (§4.F): IsValid() is false, Id() is the zero ActorId, and Enqueue is
// a safe no-op reported as PushClosed.
var Invalid = StrongHandle{}

// IsValid reports whether this handle refers to a real actor.
func (h StrongHandle) IsValid() bool {
	return h.acb != nil
}

// Id returns the actor's identity. Safe on an invalid handle (returns
// the zero ActorId).
func (h StrongHandle) Id() ActorId {
	if h.acb == nil {
		return invalidActorId
	}
	return h.acb.id
}

// Alive reports whether the actor's strong refcount is still above
// zero. An invalid handle is never alive.
func (h StrongHandle) Alive() bool {
	return h.acb != nil && h.acb.isAlive()
}

// Enqueue is the single message-delivery verb of §6: it accepts a
// sender address, a routing MessageId, and a Message, and hands them to
// the target's mailbox. It never blocks and never returns an error to
// the caller — delivery is asynchronous and best-effort (§7); the
// PushResult is exposed for callers (the scheduler, the network
// middleman) that need to react to Unblocked/Closed/Full, not as an
// error channel for ordinary senders.
func (h StrongHandle) Enqueue(sender Sender, mid MessageId, msg Message) PushResult {
	return h.enqueueAffine(sender, mid, msg, nil)
}

// enqueueAffine is Enqueue's internal twin, threading the worker
// currently executing a Behavior (if any) through to the scheduler so
// a same-actor or actor-to-actor send lands on that worker's local
// deque rather than the global injector (§4.E).
func (h StrongHandle) enqueueAffine(sender Sender, mid MessageId, msg Message, aff *worker) PushResult {
	if h.acb == nil {
		return PushClosed
	}
	result := h.acb.mailbox.Push(sender, mid, msg)
	sys := h.acb.system
	if sys != nil && (result == PushQueued || result == PushUnblocked) {
		sys.hooks.fireMessageEnqueued(h.acb.id, mid)
	}
	switch result {
	case PushUnblocked:
		if sys != nil {
			sys.scheduler.scheduleAffine(h.acb, aff)
		}
	case PushFull:
		if sys != nil {
			sys.notifyMailboxFull(h.acb.id, sender)
		}
	}
	return result
}

// Sender returns a weak Sender reference to this actor, suitable for
// embedding as the `Sender` field of messages this actor originates.
func (h StrongHandle) Sender() Sender {
	return Sender{id: h.Id()}
}

// Clone returns a new StrongHandle to the same actor, incrementing the
// strong refcount. Used when a caller needs to hand out another
// independent owning reference (e.g. storing it under two registry
// keys).
func (h StrongHandle) Clone() StrongHandle {
	if h.acb == nil {
		return Invalid
	}
	h.acb.retainStrong()
	return h
}

// Release drops this handle's strong reference. Embedders that store
// StrongHandles outside of the registry (the registry manages its own
// lifecycle) must call Release exactly once per handle they own,
// typically via defer.
func (h StrongHandle) Release() {
	if h.acb == nil {
		return
	}
	if h.acb.releaseStrong() {
		h.acb.system.retireActor(h.acb)
	}
}

// SendAs composes Enqueue with MessageId priority-bit construction, the
// send_as convenience of §6.
func SendAs(from StrongHandle, priority Priority, to StrongHandle, values ...interface{}) PushResult {
	return to.Enqueue(from.Sender(), NewMessageId(priority, 0), NewMessage(values...))
}

// AnonSend is SendAs with an invalid sender, per §6.
func AnonSend(priority Priority, to StrongHandle, values ...interface{}) PushResult {
	return to.Enqueue(Sender{}, NewMessageId(priority, 0), NewMessage(values...))
}

// AnonSendExit constructs a high-priority exit envelope and delivers it
// directly, per §6. This is the same envelope shape used internally for
// link/monitor propagation (§4.H: "exit delivery is a normal mailbox
// enqueue at high priority").
func AnonSendExit(addr StrongHandle, reason ExitReason) PushResult {
	return addr.Enqueue(Sender{}, NewMessageId(PriorityHigh, 0), NewMessage(ExitMessage{Reason: reason}))
}

// ExitMessage is delivered to an actor's mailbox when it is the target
// of an exit request — either System.Shutdown's root notification or
// an explicit AnonSendExit. A Behavior that wants cooperative shutdown
// should match on this type and return Terminate(msg.Reason).
type ExitMessage struct {
	Reason ExitReason
	From   ActorId
}

// DownMessage is delivered to monitors when the monitored actor
// terminates (§4.H). It names the terminated actor and its reason.
type DownMessage struct {
	Who    ActorId
	Reason ExitReason
}

// WeakHandle keeps an ACB's identity/lookup-safety alive without
// keeping the actor itself alive (§3/§4.C). Obtained via
// StrongHandle.Downgrade; upgrading back to a StrongHandle fails once
// the actor has died even if the WeakHandle itself is still held.
type WeakHandle struct {
	acb *acb
}

// Downgrade produces a WeakHandle to the same actor.
func (h StrongHandle) Downgrade() WeakHandle {
	if h.acb == nil {
		return WeakHandle{}
	}
	h.acb.retainWeak()
	return WeakHandle{acb: h.acb}
}

// Upgrade attempts to reconstitute a StrongHandle. Returns Invalid if
// the actor has already died, even though the ACB itself (and thus this
// WeakHandle) may still be valid for Id()/ExitReason() queries.
func (w WeakHandle) Upgrade() StrongHandle {
	if w.acb == nil {
		return Invalid
	}
	if !w.acb.tryRetainStrong() {
		return Invalid
	}
	return StrongHandle{acb: w.acb}
}

// Id returns the actor's identity even after death.
func (w WeakHandle) Id() ActorId {
	if w.acb == nil {
		return invalidActorId
	}
	return w.acb.id
}

// ExitReason returns the reason the actor terminated with, valid to
// call once Upgrade starts returning Invalid.
func (w WeakHandle) ExitReason() ExitReason {
	if w.acb == nil {
		return ExitNormal
	}
	return w.acb.exitReason()
}

// Release drops this handle's weak reference. The ACB storage is
// reclaimed once both strong and weak reach zero (§4.C).
func (w WeakHandle) Release() {
	if w.acb == nil {
		return
	}
	w.acb.releaseWeak()
}
