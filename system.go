package actor

import (
	"fmt"
	"sync"
)

// System is component G: it owns the Scheduler, the Registry,
// configuration, and the root spawn entry point, per §4.G.
type System struct {
	opts      Options
	scheduler *Scheduler
	registry  *Registry
	ids       idGenerator
	hooks     *Hooks

	mu           sync.Mutex
	shuttingDown bool
	roots        []ActorId
}

// NewSystem constructs a System with the given Options and starts its
// scheduler immediately: there is no separate Start step, the same
// implicit readiness bollywood.Engine offers.
func NewSystem(opts Options) *System {
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = DefaultOptions().WorkerCount
	}
	sys := &System{
		opts:     opts,
		registry: NewRegistry(),
	}
	sys.scheduler = NewScheduler(opts.WorkerCount, opts.ExecutionQuantum)
	sys.scheduler.hooks = sys.hooks
	sys.scheduler.Start()
	return sys
}

// SetHooks installs the observer callbacks (message enqueued, actor
// scheduled, actor terminated). Call before spawning for full coverage.
func (sys *System) SetHooks(h *Hooks) {
	sys.hooks = h
	sys.scheduler.hooks = h
}

// Registry exposes component F directly, per §6 ("Registry methods
// listed in §4.F").
func (sys *System) Registry() *Registry {
	return sys.registry
}

// Options returns the System's effective configuration.
func (sys *System) Options() Options {
	return sys.opts
}

// Spawn is the root spawn entry point of §4.G / §6: it allocates an
// ACB, registers it by id (and by name, if requested), marks it running
// in the registry (before any observable activity, per §4.F's
// invariant), and returns a StrongHandle. Behaviors that need a
// "start" message should match on Started{} as their first envelope;
// Spawn always delivers one, the same way bollywood's
// Engine.Spawn→Send(pid, Started{}, nil) does.
func (sys *System) Spawn(behavior Behavior, opts SpawnOptions) (StrongHandle, error) {
	sys.mu.Lock()
	if sys.shuttingDown {
		sys.mu.Unlock()
		return Invalid, ErrSystemShuttingDown
	}
	sys.mu.Unlock()

	policy := sys.opts.UnhandledMessagePolicy
	if opts.UnhandledMessagePolicy != nil {
		policy = *opts.UnhandledMessagePolicy
	}
	mailboxSize := sys.opts.MaxMailboxSize
	if opts.MailboxSize != nil {
		mailboxSize = *opts.MailboxSize
	}

	id := sys.ids.next64()
	a := newACB(id, behavior, mailboxSize, policy, sys)
	h := StrongHandle{acb: a}

	sys.registry.PutID(id, h)
	if opts.Name != "" {
		sys.registry.PutName(opts.Name, h)
	}
	sys.registry.IncRunning(id)

	h.Enqueue(Sender{}, NewMessageId(PriorityNormal, 0), NewMessage(Started{}))

	return h, nil
}

// Started is the initial message every spawned actor's mailbox receives
// (§4.G), modeled directly on bollywood's system-message trio
// (Started/Stopping/Stopped), of which the game package that consumes
// bollywood only ever matches on this one.
type Started struct{}

// invoke runs a over exactly one envelope and applies the resulting
// HandleOutcome, guarding the Behavior call with panic recovery so a
// programmer error in one actor can never take down a worker (the same
// process.run panic/recover boundary bollywood's own actors run inside).
func (sys *System) invoke(a *acb, env *Envelope, w *worker) {
	ctx := &Context{system: sys, self: StrongHandle{acb: a}, worker: w}
	outcome := sys.safeHandle(a, ctx, env)

	switch outcome.kind {
	case outcomeContinue:
		if !outcome.matched && a.unhandledPolicy() == ExitWithUnhandled {
			a.setExitReason(ReasonUnhandledMessage)
			a.setSched(schedTerminating)
		}
	case outcomeReplace:
		a.replaceBehavior(outcome.next)
	case outcomeTerminate:
		a.setExitReason(outcome.reason)
		a.setSched(schedTerminating)
	}
}

func (sys *System) safeHandle(a *acb, ctx *Context, env *Envelope) (outcome HandleOutcome) {
	defer func() {
		if r := recover(); r != nil {
			logf("actor %d panicked: %v", uint64(a.id), r)
			outcome = Terminate(ReasonPanic)
		}
	}()
	return a.currentBehavior().Handle(ctx, env)
}

// finishTermination is called by the scheduler once it observes an
// actor's sched state as schedTerminating at the end of a dispatch. It
// runs the on-exit actions exactly once (§3/§4.C: "when strong reaches
// 0, run on-exit actions"); here the Behavior-driven decision to
// terminate is what releases the actor's own implicit keep-alive
// reference, so in the common case (no extra StrongHandle.Clone()
// outstanding) this is precisely when strong reaches zero.
func (sys *System) finishTermination(a *acb) {
	a.terminateOnce.Do(func() {
		sys.teardown(a)
	})
}

// retireActor is the other path into teardown: an external
// StrongHandle.Release() that happens to drop strong to zero without
// the actor ever having been told to terminate (e.g. the last owner
// simply let go). It is treated as an implicit normal exit. Guarded by
// the same sync.Once as finishTermination so the two paths can never
// both run the on-exit actions.
func (sys *System) retireActor(a *acb) {
	a.terminateOnce.Do(func() {
		sys.teardown(a)
	})
}

// teardown performs the on-exit actions of §3/§4.C: emit exit/down
// notifications to links/monitors, close the mailbox, remove the actor
// from the registry by id, force strong to zero, and retire it from the
// running set.
func (sys *System) teardown(a *acb) {
	a.setSched(schedTerminating)
	reason := a.exitReason()

	a.mailbox.Close()

	links, monitors := a.snapshotPeers()
	sys.notifyLinks(a.id, reason, links)
	sys.notifyMonitors(a.id, reason, monitors)

	a.forceZeroStrong()
	sys.registry.EraseID(a.id, reason)
	a.setSched(schedRetired)

	sys.hooks.fireActorTerminated(a.id, reason)

	if a.weakCount() == 0 {
		// Nothing left referencing the ACB; no Go-level action is
		// required beyond this point, the garbage collector reclaims
		// the struct once the last WeakHandle/StrongHandle value goes
		// out of scope. This branch exists to document the §4.C
		// invariant at the point it becomes true, for observers.
		logf("acb %d fully reclaimed", uint64(a.id))
	}
}

func (sys *System) notifyMailboxFull(target ActorId, sender Sender) {
	if !sender.IsValid() {
		return
	}
	senderHandle := sys.registry.GetID(sender.ActorId())
	if !senderHandle.IsValid() {
		return
	}
	senderHandle.Enqueue(Sender{}, NewMessageId(PriorityHigh, 0), NewMessage(SystemError{
		Kind:   ErrMailboxFull,
		Target: target,
	}))
}

// SystemError is delivered to a sender when a send-time failure (today,
// only MailboxFull) needs to be surfaced asynchronously, per §6/§7.
type SystemError struct {
	Kind   error
	Target ActorId
}

func (e SystemError) Error() string {
	return fmt.Sprintf("actor %d: %v", uint64(e.Target), e.Kind)
}

// Shutdown closes the System: stops accepting spawns, sends exit(0) to
// configured root actors, waits for registry quiescence, then joins the
// scheduler's workers (§4.G/§5).
func (sys *System) Shutdown() {
	sys.mu.Lock()
	if sys.shuttingDown {
		sys.mu.Unlock()
		return
	}
	sys.shuttingDown = true
	roots := make([]ActorId, len(sys.roots))
	copy(roots, sys.roots)
	sys.mu.Unlock()

	for _, id := range roots {
		h := sys.registry.GetID(id)
		if h.IsValid() {
			AnonSendExit(h, ExitNormal)
		}
	}

	sys.registry.AwaitRunningCountEqual(0)
	sys.scheduler.Shutdown()
}

// AwaitQuiescence blocks until the registry's running set is empty,
// without initiating shutdown. Useful for tests and for callers that
// want to drain before deciding whether to shut down at all.
func (sys *System) AwaitQuiescence() {
	sys.registry.AwaitRunningCountEqual(0)
}

// AddRoot marks id as a root actor: System.Shutdown sends it exit(0)
// directly (in addition to ordinary quiescence draining), per §4.G.
func (sys *System) AddRoot(id ActorId) {
	sys.mu.Lock()
	sys.roots = append(sys.roots, id)
	sys.mu.Unlock()
}
