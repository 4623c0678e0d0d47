package actor

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultTombstoneCapacity = 4096

// tombstone is what the Registry remembers about a retired actor, kept
// in a bounded LRU so LastExitReason can tell a recently retired id
// apart from an unknown one. GetID and GetName do not consult it; they
// return Invalid for a retired actor as for an unknown one.
type tombstone struct {
	reason ExitReason
}

// Registry is component F: id/name -> strong handle maps with
// reader-writer locking tuned for read-heavy traffic, plus the running
// set used for quiescence (§4.F).
type Registry struct {
	idMu sync.RWMutex
	ids  map[ActorId]StrongHandle

	nameMu sync.RWMutex
	names  map[string]StrongHandle

	runMu   sync.Mutex
	runCond *sync.Cond
	running map[ActorId]struct{}

	tombstones *lru.Cache[ActorId, tombstone]
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	r := &Registry{
		ids:     make(map[ActorId]StrongHandle),
		names:   make(map[string]StrongHandle),
		running: make(map[ActorId]struct{}),
	}
	r.runCond = sync.NewCond(&r.runMu)
	// golang-lru's constructor only fails on a non-positive size, which
	// defaultTombstoneCapacity never is.
	r.tombstones, _ = lru.New[ActorId, tombstone](defaultTombstoneCapacity)
	return r
}

// PutID publishes id -> handle.
func (r *Registry) PutID(id ActorId, h StrongHandle) {
	r.idMu.Lock()
	r.ids[id] = h
	r.idMu.Unlock()
}

// PutName publishes name -> handle, per §4.F's explicit put(name, actor).
func (r *Registry) PutName(name string, h StrongHandle) {
	r.nameMu.Lock()
	r.names[name] = h
	r.nameMu.Unlock()
}

// GetID returns the handle registered for id, or Invalid.
func (r *Registry) GetID(id ActorId) StrongHandle {
	r.idMu.RLock()
	h, ok := r.ids[id]
	r.idMu.RUnlock()
	if !ok {
		return Invalid
	}
	return h
}

// GetName returns the handle registered under name, or Invalid.
func (r *Registry) GetName(name string) StrongHandle {
	r.nameMu.RLock()
	h, ok := r.names[name]
	r.nameMu.RUnlock()
	if !ok {
		return Invalid
	}
	return h
}

// LastExitReason reports the exit reason of a retired actor still
// within the tombstone window, and whether it was found at all. This is
// the concrete realization of "weak references keep the ACB itself
// alive so ID lookup is safe after death" (§3/§4.C): a bounded LRU
// instead of an unbounded map so long-running, high-churn systems don't
// leak memory for every actor that ever lived.
func (r *Registry) LastExitReason(id ActorId) (ExitReason, bool) {
	t, ok := r.tombstones.Get(id)
	if !ok {
		return ExitNormal, false
	}
	return t.reason, true
}

// EraseID removes id's mapping, records its tombstone, removes it from
// the running set, and wakes any quiescence waiters if the running
// set's size changed (§4.F).
func (r *Registry) EraseID(id ActorId, reason ExitReason) {
	r.idMu.Lock()
	delete(r.ids, id)
	r.idMu.Unlock()

	r.tombstones.Add(id, tombstone{reason: reason})

	r.runMu.Lock()
	_, wasRunning := r.running[id]
	if wasRunning {
		delete(r.running, id)
	}
	r.runMu.Unlock()
	if wasRunning {
		r.runCond.Broadcast()
	}
}

// EraseName removes a name mapping. It is not an error to erase a name
// that was never put.
func (r *Registry) EraseName(name string) {
	r.nameMu.Lock()
	delete(r.names, name)
	r.nameMu.Unlock()
}

// IncRunning adds id to the running set and returns its new size.
// Invariant (§4.F): callers must do this before the actor's first
// observable activity.
func (r *Registry) IncRunning(id ActorId) int {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	r.running[id] = struct{}{}
	return len(r.running)
}

// DecRunning removes id from the running set, returns the new size, and
// wakes quiescence waiters. The System's own teardown does not call it:
// it retires an actor through EraseID, which also removes the id from
// the running set.
func (r *Registry) DecRunning(id ActorId) int {
	r.runMu.Lock()
	delete(r.running, id)
	n := len(r.running)
	r.runMu.Unlock()
	r.runCond.Broadcast()
	return n
}

// RunningCount returns the current size of the running set.
func (r *Registry) RunningCount() int {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	return len(r.running)
}

// AwaitRunningCountEqual blocks the caller until the running set's size
// equals n. Implemented as a condition-variable wait guarded by the
// running set's own mutex, per §4.F/§9.
func (r *Registry) AwaitRunningCountEqual(n int) {
	r.AwaitRunningCountEqualFunc(n, nil)
}

// AwaitRunningCountEqualFunc is the callback-flavored form: cb fires on
// every shrink of the running set (used for graceful drain progress
// reporting), until the size reaches n.
func (r *Registry) AwaitRunningCountEqualFunc(n int, cb func(remaining int)) {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	last := len(r.running)
	for len(r.running) != n {
		r.runCond.Wait()
		cur := len(r.running)
		if cb != nil && cur < last {
			cb(cur)
		}
		last = cur
	}
}

// NamedActors returns a consistent point-in-time snapshot of the name
// map (§4.F, §8 item 5): readers of the returned map never observe a
// partially updated name map because the copy is made entirely while
// holding the read lock.
func (r *Registry) NamedActors() map[string]StrongHandle {
	r.nameMu.RLock()
	defer r.nameMu.RUnlock()
	snap := make(map[string]StrongHandle, len(r.names))
	for k, v := range r.names {
		snap[k] = v
	}
	return snap
}
