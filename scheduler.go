package actor

import (
	"math/rand"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// defaultQuantum is Q from §4.E / §6.
const defaultQuantum = 64

// deque is a worker's local run queue. The owning worker pushes and
// pops from the back (LIFO, cheap and cache-friendly for the common
// case of an actor that immediately re-schedules itself); thieves steal
// from the front (FIFO), so a long-idle entry is the first one taken by
// a stealer rather than the one the owner is about to touch again.
type deque struct {
	mu    sync.Mutex
	items []*acb
}

func (d *deque) pushBack(a *acb) {
	d.mu.Lock()
	d.items = append(d.items, a)
	d.mu.Unlock()
}

func (d *deque) popBack() *acb {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.items)
	if n == 0 {
		return nil
	}
	a := d.items[n-1]
	d.items = d.items[:n-1]
	return a
}

func (d *deque) stealFront() *acb {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return nil
	}
	a := d.items[0]
	d.items = d.items[1:]
	return a
}

func (d *deque) empty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items) == 0
}

// injector is the scheduler-wide overflow queue fed by producers that
// are not themselves a worker goroutine (§4.E: "else onto the global
// injection queue").
type injector struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []*acb
}

func newInjector() *injector {
	inj := &injector{}
	inj.cond = sync.NewCond(&inj.mu)
	return inj
}

func (q *injector) push(a *acb) {
	q.mu.Lock()
	q.items = append(q.items, a)
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *injector) pop() *acb {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	a := q.items[0]
	q.items = q.items[1:]
	return a
}

// worker is one member of the Scheduler's fixed pool.
type worker struct {
	id    int
	sched *Scheduler
	local deque
}

// Scheduler is the fixed worker pool of §4.E / §2 (component E): it
// executes ready actors, bounding each dispatch to at most quantum
// envelopes, and rebalances load across workers via randomized work
// stealing.
type Scheduler struct {
	workers  []*worker
	injector *injector
	quantum  int

	mu      sync.Mutex
	stopped bool
	group   *errgroup.Group

	hooks *Hooks
}

// NewScheduler builds (but does not start) a Scheduler with n workers.
// n <= 0 falls back to runtime.GOMAXPROCS(0) (§6: "default = hardware
// concurrency").
func NewScheduler(n int, quantum int) *Scheduler {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if quantum <= 0 {
		quantum = defaultQuantum
	}
	s := &Scheduler{
		injector: newInjector(),
		quantum:  quantum,
	}
	s.workers = make([]*worker, n)
	for i := range s.workers {
		s.workers[i] = &worker{id: i, sched: s}
	}
	return s
}

// Start launches the worker goroutines. Safe to call once.
func (s *Scheduler) Start() {
	g := &errgroup.Group{}
	s.group = g
	for _, w := range s.workers {
		w := w
		g.Go(func() error {
			w.loop()
			return nil
		})
	}
}

// schedule places a ready acb onto a run queue. aff, when non-nil and a
// member of this scheduler's pool, is the worker currently executing
// the Behavior that triggered this schedule call (a same-actor or
// actor-to-actor send); its local deque is used. Everything else
// (external producers, timers, network adapters) lands on the global
// injector, matching §4.E.
func (s *Scheduler) schedule(a *acb) {
	s.scheduleAffine(a, nil)
}

func (s *Scheduler) scheduleAffine(a *acb, aff *worker) {
	a.mailbox.MarkReady()
	a.setSched(schedScheduled)
	s.hooks.fireActorScheduled(a.id)
	if aff != nil && aff.sched == s {
		aff.local.pushBack(a)
		// A parked peer only wakes on the injector's condition variable,
		// so a push onto this worker's own local deque (never touching
		// the injector) has to broadcast too, or every parked worker
		// stays asleep until the next injector-bound send. The broadcast
		// carries no payload; woken workers that find nothing to steal
		// just park again.
		s.injector.cond.Broadcast()
		return
	}
	s.injector.push(a)
}

// Shutdown stops accepting new work conceptually (callers must stop
// producing via System) and blocks until every worker goroutine has
// observed the stopped flag and returned, joined with an errgroup in place of
// bollywood Engine.Shutdown's ad-hoc poll-sleep loop — the idiomatic
// "launch N, wait for all" primitive golang.org/x/sync/errgroup gives.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	for _, w := range s.workers {
		w.local.mu.Lock()
		w.local.items = nil
		w.local.mu.Unlock()
	}
	s.injector.mu.Lock()
	s.injector.items = nil
	s.injector.mu.Unlock()
	s.injector.cond.Broadcast()

	if s.group != nil {
		_ = s.group.Wait()
	}
}

func (s *Scheduler) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// loop is the body of one worker goroutine: dequeue, dispatch at most
// quantum envelopes, requeue if still non-empty, else go idle; steal
// when starved; park when the whole pool is starved.
func (w *worker) loop() {
	for {
		if w.sched.isStopped() {
			return
		}

		a := w.local.popBack()
		if a == nil {
			a = w.sched.injector.pop()
		}
		if a == nil {
			a = w.steal()
		}
		if a == nil {
			if w.park() {
				return
			}
			continue
		}

		w.dispatch(a)
	}
}

// steal makes up to 2*N randomized attempts against peers' local
// deques before giving up for this iteration, per §4.E.
func (w *worker) steal() *acb {
	n := len(w.sched.workers)
	if n <= 1 {
		return nil
	}
	attempts := 2 * n
	for i := 0; i < attempts; i++ {
		victim := w.sched.workers[rand.Intn(n)]
		if victim == w {
			continue
		}
		if a := victim.local.stealFront(); a != nil {
			return a
		}
	}
	return nil
}

// park blocks the worker until woken by an Unblocking enqueue anywhere
// in the system, or until shutdown. Returns true if the worker should
// exit its loop (shutdown observed upon waking).
func (w *worker) park() bool {
	inj := w.sched.injector
	inj.mu.Lock()
	if len(inj.items) == 0 && !w.sched.isStopped() {
		inj.cond.Wait()
	}
	stopped := w.sched.isStopped()
	inj.mu.Unlock()
	return stopped
}

// dispatch runs the actor's Behavior on at most quantum envelopes
// (§4.E's execution quantum), then either requeues (mailbox still
// non-empty) or lets it fall Blocked (Pop already did that internally).
func (w *worker) dispatch(a *acb) {
	if !a.casSched(schedScheduled, schedRunning) {
		// Lost a race against a concurrent terminate/retire; drop it,
		// the actor is already being torn down elsewhere.
		return
	}

	sys := a.system
	count := 0
	for count < w.sched.quantum {
		if a.getSched() == schedTerminating || a.getSched() == schedRetired {
			break
		}
		env := a.mailbox.Pop()
		if env == nil {
			break
		}
		count++
		if sys != nil {
			sys.invoke(a, env, w)
		}
		if a.getSched() == schedTerminating || a.getSched() == schedRetired {
			break
		}
	}

	if a.getSched() == schedTerminating {
		if sys != nil {
			sys.finishTermination(a)
		}
		return
	}
	if a.getSched() == schedRetired {
		return
	}

	a.casSched(schedRunning, schedIdle)

	// Idle performs the Ready->Blocked transition atomically with the
	// "is there more work" check, closing the race where the quantum
	// expires in the same instant a concurrent Push arrives (§4.E). An
	// actor that still has work goes to the back of the global injector,
	// so actors already waiting there run before it does again.
	if a.mailbox.Idle() {
		w.sched.schedule(a)
	}
}
