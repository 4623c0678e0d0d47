package actor

import "runtime"

// Options configures a System, mirroring §6's configuration table
// exactly. Built the way utils.Config is: a plain struct with a
// DefaultOptions constructor, not a builder or functional-option chain,
// because every field here is a simple scalar with one obvious default
// and no construction-order dependency between fields.
type Options struct {
	// WorkerCount is N, the number of scheduler workers. <= 0 means
	// hardware concurrency.
	WorkerCount int `json:"workerCount"`
	// ExecutionQuantum is Q, the max envelopes dispatched per worker
	// turn before an actor is yielded and re-queued.
	ExecutionQuantum int `json:"executionQuantum"`
	// UnhandledMessagePolicy selects DropSilently or ExitWithUnhandled
	// as the default for actors that don't specify their own.
	UnhandledMessagePolicy UnhandledPolicy `json:"unhandledMessagePolicy"`
	// MaxMailboxSize caps mailbox depth; <= 0 means unbounded.
	MaxMailboxSize int `json:"maxMailboxSize"`
}

// DefaultOptions returns the configuration described in §6.
func DefaultOptions() Options {
	return Options{
		WorkerCount:            runtime.GOMAXPROCS(0),
		ExecutionQuantum:       defaultQuantum,
		UnhandledMessagePolicy: DropSilently,
		MaxMailboxSize:         0,
	}
}

// SpawnOptions configures one actor at spawn time; fields left at their
// zero value fall back to the System's Options defaults.
type SpawnOptions struct {
	// Name, if non-empty, also publishes the actor under Registry.PutName.
	Name string
	// UnhandledMessagePolicy overrides the System default for this actor.
	UnhandledMessagePolicy *UnhandledPolicy
	// MailboxSize overrides the System default for this actor.
	MailboxSize *int
}
