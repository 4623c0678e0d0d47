package actor

// Hooks are the optional, no-op-by-default observer callbacks §9 calls
// for in place of reproducing macro-based USDT tracepoints: named hook
// points an embedder may wire to any tracing or metrics backend. None
// of them are invoked unless set; a nil Hooks field costs one nil check
// per call site.
type Hooks struct {
	// MessageEnqueued fires after every successful Mailbox.Push,
	// including ones that don't unblock the actor.
	MessageEnqueued func(target ActorId, mid MessageId)
	// ActorScheduled fires whenever an actor is placed on a run queue.
	ActorScheduled func(id ActorId)
	// ActorTerminated fires once, when an actor finishes retiring.
	ActorTerminated func(id ActorId, reason ExitReason)
}

func (h *Hooks) fireMessageEnqueued(target ActorId, mid MessageId) {
	if h != nil && h.MessageEnqueued != nil {
		h.MessageEnqueued(target, mid)
	}
}

func (h *Hooks) fireActorScheduled(id ActorId) {
	if h != nil && h.ActorScheduled != nil {
		h.ActorScheduled(id)
	}
}

func (h *Hooks) fireActorTerminated(id ActorId, reason ExitReason) {
	if h != nil && h.ActorTerminated != nil {
		h.ActorTerminated(id, reason)
	}
}
