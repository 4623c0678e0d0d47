package actor

// link is component H's symmetric relation (§4.H): link(a, b) inserts b
// into a's links and a into b's links atomically with respect to each
// ACB's own lock (each side is updated independently, but since the
// update is a simple set-insert there is no partial-link state any
// observer can witness: either side, alone, is already a sufficient
// record of the relationship for notification purposes).
func (sys *System) link(a, b StrongHandle) {
	if !a.IsValid() || !b.IsValid() {
		return
	}
	a.acb.addLink(b.Id())
	b.acb.addLink(a.Id())
}

// monitor is component H's asymmetric relation: monitor(watcher, target)
// inserts watcher into target's monitor set, so watcher is notified
// when target terminates; target is never notified of watcher's exit.
func (sys *System) monitor(watcher, target StrongHandle) {
	if !watcher.IsValid() || !target.IsValid() {
		return
	}
	target.acb.addMonitor(watcher.Id())
}

// notifyLinks delivers an ExitMessage to every linked peer, unless
// reason is ExitNormal (§4.H: "Normal exits do not propagate to linked
// peers"). Delivery is a high-priority mailbox enqueue (§4.H).
func (sys *System) notifyLinks(from ActorId, reason ExitReason, links []ActorId) {
	if reason.IsNormal() {
		return
	}
	for _, peerID := range links {
		peer := sys.registry.GetID(peerID)
		if !peer.IsValid() {
			continue
		}
		peer.acb.removeLink(from)
		peer.Enqueue(Sender{id: from}, NewMessageId(PriorityHigh, 0), NewMessage(ExitMessage{Reason: reason, From: from}))
	}
}

// notifyMonitors delivers a DownMessage to every monitor, regardless of
// reason (§4.H: "they still notify monitors").
func (sys *System) notifyMonitors(from ActorId, reason ExitReason, monitors []ActorId) {
	for _, watcherID := range monitors {
		watcher := sys.registry.GetID(watcherID)
		if !watcher.IsValid() {
			continue
		}
		watcher.Enqueue(Sender{id: from}, NewMessageId(PriorityHigh, 0), NewMessage(DownMessage{Who: from, Reason: reason}))
	}
}
