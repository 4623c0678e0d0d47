package actor

import "errors"

// Sentinel errors the core surfaces to embedders. Delivery itself never
// returns an error to the caller of Enqueue (§7: delivery is
// asynchronous and best-effort). Spawn is the only operation that
// returns one of these (ErrSystemShuttingDown); ErrMailboxFull travels as
// the Kind of a SystemError message, and the others are not returned by
// any function in this package.
var (
	// ErrSystemShuttingDown is returned by Spawn once System.Shutdown
	// has been initiated; no further actors may be created.
	ErrSystemShuttingDown = errors.New("actor: system is shutting down")

	// ErrMailboxClosed names delivery to a mailbox that has already been
	// closed. Enqueue reports that case as PushClosed rather than
	// returning this error; senders observe it the same way they would
	// observe delivery to a terminated actor: silently.
	ErrMailboxClosed = errors.New("actor: mailbox closed")

	// ErrMailboxFull is the Kind of the SystemError delivered to a sender
	// whose push exceeded a configured MaxMailboxSize. Disabled by default
	// (§6, max_mailbox_size).
	ErrMailboxFull = errors.New("actor: mailbox full")

	// ErrActorNotFound names a registry lookup that resolved to the
	// invalid sentinel handle; GetID and GetName return Invalid rather
	// than this error.
	ErrActorNotFound = errors.New("actor: no such actor")

	// ErrUnhandledMessage names the unhandled-message failure. An actor
	// terminated under the ExitWithUnhandled policy records
	// ReasonUnhandledMessage as its exit reason, not this error.
	ErrUnhandledMessage = errors.New("actor: unhandled message")
)

// ExitReason is a 32-bit value carried by exit and down messages. Zero
// means "normal" and does not propagate across links (monitors still
// see it).
type ExitReason uint32

// ExitNormal is the reason emitted when an actor's Behavior returns
// Terminate(0), or when the last StrongHandle is released before the
// actor recorded any other reason.
const ExitNormal ExitReason = 0

// ReasonUnhandledMessage is the exit reason used when the per-actor
// unhandled-message policy is ExitWithUnhandled.
const ReasonUnhandledMessage ExitReason = 1

// ReasonPanic is the exit reason recorded when a Behavior invocation
// panics and is recovered by the worker loop.
const ReasonPanic ExitReason = 2

// IsNormal reports whether the reason is the normal-exit sentinel.
func (r ExitReason) IsNormal() bool {
	return r == ExitNormal
}
