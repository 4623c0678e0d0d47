package actor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestLinkPropagatesNonNormalExit matches the "link(A,B); A exits
// abnormally; B's mailbox receives exactly one ExitMessage with the
// same reason" scenario.
func TestLinkPropagatesNonNormalExit(t *testing.T) {
	sys := NewSystem(Options{WorkerCount: 2, ExecutionQuantum: 16, UnhandledMessagePolicy: DropSilently})
	defer sys.Shutdown()

	received := make(chan ExitMessage, 1)
	bBehavior := BehaviorFunc(func(ctx *Context, env *Envelope) HandleOutcome {
		if env.Payload.Len() == 0 {
			return Continue(false)
		}
		switch v := env.Payload.At(0).(type) {
		case Started:
			return Continue(true)
		case ExitMessage:
			received <- v
			return Continue(true)
		default:
			return Continue(false)
		}
	})
	b, err := sys.Spawn(bBehavior, SpawnOptions{})
	assert.NoError(t, err)
	// Retire b before the deferred Shutdown waits for quiescence.
	defer b.Release()

	aBehavior := BehaviorFunc(func(ctx *Context, env *Envelope) HandleOutcome {
		if env.Payload.Len() == 0 {
			return Continue(false)
		}
		switch env.Payload.At(0).(type) {
		case Started:
			ctx.Link(b)
			return Terminate(ReasonUnhandledMessage)
		default:
			return Continue(false)
		}
	})
	_, err = sys.Spawn(aBehavior, SpawnOptions{})
	assert.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, ReasonUnhandledMessage, msg.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("linked peer never received ExitMessage")
	}
}

// TestLinkDoesNotPropagateNormalExit confirms the opposite side of the
// same invariant: ExitNormal never reaches a linked peer.
func TestLinkDoesNotPropagateNormalExit(t *testing.T) {
	sys := NewSystem(Options{WorkerCount: 2, ExecutionQuantum: 16, UnhandledMessagePolicy: DropSilently})
	defer sys.Shutdown()

	receivedExit := make(chan struct{}, 1)
	bBehavior := BehaviorFunc(func(ctx *Context, env *Envelope) HandleOutcome {
		if env.Payload.Len() == 0 {
			return Continue(false)
		}
		switch env.Payload.At(0).(type) {
		case Started:
			return Continue(true)
		case ExitMessage:
			receivedExit <- struct{}{}
			return Continue(true)
		default:
			return Continue(false)
		}
	})
	b, err := sys.Spawn(bBehavior, SpawnOptions{})
	assert.NoError(t, err)
	// Retire b before the deferred Shutdown waits for quiescence.
	defer b.Release()

	aBehavior := BehaviorFunc(func(ctx *Context, env *Envelope) HandleOutcome {
		if env.Payload.Len() == 0 {
			return Continue(false)
		}
		switch env.Payload.At(0).(type) {
		case Started:
			ctx.Link(b)
			return Terminate(ExitNormal)
		default:
			return Continue(false)
		}
	})
	_, err = sys.Spawn(aBehavior, SpawnOptions{})
	assert.NoError(t, err)

	select {
	case <-receivedExit:
		t.Fatal("normal exit should not propagate to linked peer")
	case <-time.After(200 * time.Millisecond):
	}
}

// TestMonitorAlwaysNotifiesRegardlessOfReason confirms monitors fire on
// every exit reason, including ExitNormal, unlike links.
func TestMonitorAlwaysNotifiesRegardlessOfReason(t *testing.T) {
	sys := NewSystem(Options{WorkerCount: 2, ExecutionQuantum: 16, UnhandledMessagePolicy: DropSilently})
	defer sys.Shutdown()

	received := make(chan DownMessage, 1)
	watcherBehavior := BehaviorFunc(func(ctx *Context, env *Envelope) HandleOutcome {
		if env.Payload.Len() == 0 {
			return Continue(false)
		}
		switch v := env.Payload.At(0).(type) {
		case Started:
			return Continue(true)
		case DownMessage:
			received <- v
			return Continue(true)
		default:
			return Continue(false)
		}
	})
	watcher, err := sys.Spawn(watcherBehavior, SpawnOptions{})
	assert.NoError(t, err)
	// Retire the watcher before the deferred Shutdown waits for quiescence.
	defer watcher.Release()

	targetBehavior := BehaviorFunc(func(ctx *Context, env *Envelope) HandleOutcome {
		if env.Payload.Len() == 0 {
			return Continue(false)
		}
		if _, ok := env.Payload.At(0).(Started); ok {
			return Terminate(ExitNormal)
		}
		return Continue(false)
	})
	target, err := sys.Spawn(targetBehavior, SpawnOptions{})
	assert.NoError(t, err)

	sys.monitor(watcher, target)

	select {
	case msg := <-received:
		assert.Equal(t, target.Id(), msg.Who)
		assert.Equal(t, ExitNormal, msg.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor never received DownMessage")
	}
}
