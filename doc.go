// Package actor implements the execution core of an actor runtime:
// mailboxes, the actor control block, a work-stealing scheduler, the
// actor registry, and the exit/link supervision protocol.
//
// Actors are never exposed as OS threads or goroutines to callers; they
// are scheduled cooperatively onto a fixed pool of workers owned by a
// System. Communication between actors, and between external code and
// actors, happens exclusively through Enqueue.
package actor
