package actor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestBehaviorPanicIsRecoveredAndTerminatesWithReasonPanic confirms a
// panicking Behavior invocation never takes down a worker and is
// recorded as ReasonPanic, the same process-level panic/recover
// boundary bollywood's own actors run inside.
func TestBehaviorPanicIsRecoveredAndTerminatesWithReasonPanic(t *testing.T) {
	sys := NewSystem(Options{WorkerCount: 2, ExecutionQuantum: 16, UnhandledMessagePolicy: DropSilently})
	defer sys.Shutdown()

	down := make(chan DownMessage, 1)
	watcher, err := sys.Spawn(BehaviorFunc(func(ctx *Context, env *Envelope) HandleOutcome {
		if env.Payload.Len() == 0 {
			return Continue(false)
		}
		switch v := env.Payload.At(0).(type) {
		case Started:
			return Continue(true)
		case DownMessage:
			down <- v
			return Continue(true)
		default:
			return Continue(false)
		}
	}), SpawnOptions{})
	assert.NoError(t, err)
	// Retire the watcher before the deferred Shutdown waits for quiescence.
	defer watcher.Release()

	type trigger struct{}
	panicker, err := sys.Spawn(BehaviorFunc(func(ctx *Context, env *Envelope) HandleOutcome {
		if env.Payload.Len() == 0 {
			return Continue(false)
		}
		switch env.Payload.At(0).(type) {
		case Started:
			return Continue(true)
		case trigger:
			panic("boom")
		default:
			return Continue(false)
		}
	}), SpawnOptions{})
	assert.NoError(t, err)

	sys.monitor(watcher, panicker)
	panicker.Enqueue(Sender{}, NewMessageId(PriorityNormal, 0), NewMessage(trigger{}))

	select {
	case v := <-down:
		assert.Equal(t, ReasonPanic, v.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor never observed the panicking actor's death")
	}

	// The worker pool itself must have survived: a fresh actor can still
	// be spawned and run to completion afterwards.
	done := make(chan struct{})
	_, err = sys.Spawn(BehaviorFunc(func(ctx *Context, env *Envelope) HandleOutcome {
		if env.Payload.Len() == 0 {
			return Continue(false)
		}
		if _, ok := env.Payload.At(0).(Started); ok {
			close(done)
			return Terminate(ExitNormal)
		}
		return Continue(false)
	}), SpawnOptions{})
	assert.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker pool did not survive a panicking actor")
	}
}
