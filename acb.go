package actor

import (
	"sync"
	"sync/atomic"
)

// schedState is the ACB's own view of whether the actor is currently a
// candidate for scheduling; distinct from MailboxState because an actor
// can be Terminating while its mailbox still reports Ready (draining).
type schedState int32

const (
	schedIdle schedState = iota
	schedScheduled
	schedRunning
	schedTerminating
	schedRetired
)

// acb is the Actor Control Block of §3/§4.C: the stable identity of an
// actor, reference-counted independently on its "strong" (keeps the
// actor alive) and "weak" (keeps only the ACB's identity/lookup-safety
// alive) axes.
//
// strong and weak are manipulated exclusively through atomic
// add/compare-and-swap so that publishing a freshly spawned actor (the
// Spawn call storing the *acb into the registry) happens-before any
// other goroutine observing it through a StrongHandle obtained from
// Registry.Get — Go's memory model guarantees this for values
// communicated via sync/atomic and via the registry's own mutex.
type acb struct {
	id      ActorId
	strong  int64
	weak    int64
	mailbox *Mailbox

	terminateOnce sync.Once

	mu       sync.Mutex // guards behavior, links, monitors, exitReason, sched
	behavior Behavior
	links    map[ActorId]struct{}
	monitors map[ActorId]struct{}
	exit     ExitReason
	sched    schedState
	policy   UnhandledPolicy

	system *System
}

func newACB(id ActorId, behavior Behavior, mailboxCapacity int, policy UnhandledPolicy, sys *System) *acb {
	return &acb{
		id:       id,
		strong:   1,
		weak:     1,
		mailbox:  NewMailbox(mailboxCapacity),
		behavior: behavior,
		links:    make(map[ActorId]struct{}),
		monitors: make(map[ActorId]struct{}),
		sched:    schedIdle,
		policy:   policy,
		system:   sys,
	}
}

func (a *acb) retainStrong() {
	atomic.AddInt64(&a.strong, 1)
}

// tryRetainStrong atomically increments strong only if it is still
// above zero, so a WeakHandle can never resurrect an actor whose
// teardown has already started. strong is monotonically non-increasing
// once it reaches zero (released exactly once per owner, enforced by
// System.retireActor's single-fire guard), so CAS-retry here always
// terminates.
func (a *acb) tryRetainStrong() bool {
	for {
		cur := atomic.LoadInt64(&a.strong)
		if cur == 0 {
			return false
		}
		if atomic.CompareAndSwapInt64(&a.strong, cur, cur+1) {
			return true
		}
	}
}

func (a *acb) retainWeak() {
	atomic.AddInt64(&a.weak, 1)
}

// releaseStrong drops a strong reference. When it reaches zero the
// caller (StrongHandle.Release, which hands the actor to
// System.retireActor) is responsible for running on-exit actions exactly
// once; this method only reports whether this release was the one that
// hit zero, it does not run teardown itself.
func (a *acb) releaseStrong() (hitZero bool) {
	return atomic.AddInt64(&a.strong, -1) == 0
}

func (a *acb) releaseWeak() (hitZero bool) {
	return atomic.AddInt64(&a.weak, -1) == 0
}

func (a *acb) strongCount() int64 {
	return atomic.LoadInt64(&a.strong)
}

func (a *acb) weakCount() int64 {
	return atomic.LoadInt64(&a.weak)
}

// forceZeroStrong is called exactly once, by the teardown path, to make
// Alive() observe false immediately regardless of how many
// StrongHandle values (never individually Released) happen to still be
// floating around in caller code; Go's GC, not this counter, owns their
// actual memory lifetime from this point on.
func (a *acb) forceZeroStrong() {
	atomic.StoreInt64(&a.strong, 0)
}

func (a *acb) isAlive() bool {
	return a.strongCount() > 0
}

func (a *acb) addLink(peer ActorId) {
	a.mu.Lock()
	a.links[peer] = struct{}{}
	a.mu.Unlock()
}

func (a *acb) removeLink(peer ActorId) {
	a.mu.Lock()
	delete(a.links, peer)
	a.mu.Unlock()
}

func (a *acb) addMonitor(watcher ActorId) {
	a.mu.Lock()
	a.monitors[watcher] = struct{}{}
	a.mu.Unlock()
}

// snapshotPeers returns a point-in-time copy of links and monitors,
// taken once under lock, for use by the on-exit notification pass —
// notifications must not be sent while still holding the ACB's own
// lock, since a peer's exit handling may need to touch this ACB.
func (a *acb) snapshotPeers() (links, monitors []ActorId) {
	a.mu.Lock()
	defer a.mu.Unlock()
	links = make([]ActorId, 0, len(a.links))
	for id := range a.links {
		links = append(links, id)
	}
	monitors = make([]ActorId, 0, len(a.monitors))
	for id := range a.monitors {
		monitors = append(monitors, id)
	}
	return links, monitors
}

func (a *acb) setExitReason(r ExitReason) {
	a.mu.Lock()
	a.exit = r
	a.mu.Unlock()
}

func (a *acb) exitReason() ExitReason {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exit
}

func (a *acb) currentBehavior() Behavior {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.behavior
}

func (a *acb) replaceBehavior(b Behavior) {
	a.mu.Lock()
	a.behavior = b
	a.mu.Unlock()
}

func (a *acb) unhandledPolicy() UnhandledPolicy {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.policy
}

func (a *acb) setSched(s schedState) {
	a.mu.Lock()
	a.sched = s
	a.mu.Unlock()
}

func (a *acb) getSched() schedState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sched
}

// casSched performs the scheduler's atomic Ready-bit transition (§5:
// "enforced by the Ready/Running state bit ... transitioned
// atomically"), guaranteeing at most one worker ever runs this actor at
// a time.
func (a *acb) casSched(from, to schedState) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sched != from {
		return false
	}
	a.sched = to
	return true
}
