package actor

// Context is passed to every Behavior.Handle invocation. It exposes the
// acting actor's own identity and the System it belongs to, so a
// Behavior can send, spawn, link, monitor, or replace its own behavior
// without a package-level global — mirroring the ctx.Self()/ctx.Engine()
// shape bollywood's own actors (game.BallActor, game.RoomManagerActor)
// are already coded against.
type Context struct {
	system *System
	self   StrongHandle
	worker *worker
}

// Send delivers values to to, from this actor, using this actor's
// current worker affinity so a chatty actor-to-actor conversation stays
// on one worker's local deque instead of round-tripping through the
// global injector (§4.E). Multiple Sends within a single Handle
// invocation are delivered to each recipient in the order issued,
// satisfying §5's "within one Behavior invocation, sends are delivered
// to recipients in program order of issue" for same-recipient sends
// (the mailbox's own per-lane FIFO ordering does the rest).
func (c *Context) Send(to StrongHandle, priority Priority, values ...interface{}) PushResult {
	return to.enqueueAffine(c.self.Sender(), NewMessageId(priority, 0), NewMessage(values...), c.worker)
}

// Self returns a handle to the actor currently processing this
// envelope.
func (c *Context) Self() StrongHandle {
	return c.self
}

// System returns the owning System, for Spawn/Registry access from
// within a Behavior.
func (c *Context) System() *System {
	return c.system
}

// Link establishes a symmetric link between this actor and peer, per
// §4.H.
func (c *Context) Link(peer StrongHandle) {
	c.system.link(c.self, peer)
}

// Monitor establishes an asymmetric monitor from this actor onto
// target: when target terminates, this actor receives a DownMessage.
func (c *Context) Monitor(target StrongHandle) {
	c.system.monitor(c.self, target)
}
