// Package netmiddleman is a network middleman: it bridges inbound
// WebSocket frames to named local actors (via their System's Registry)
// and forwards an actor's outbound sends back over the same
// connection. It deliberately knows nothing about mailbox internals —
// from the actor system's point of view it is just another
// sender/receiver of ordinary envelopes.
//
// The accept-loop / read-loop / cleanup split here follows
// server.Server + ConnectionHandlerActor's structure directly,
// generalized from Pong-frame handling to arbitrary named-actor
// routing.
package netmiddleman

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	actor "github.com/tenzir/actor-framework"
)

// Frame is the wire format exchanged with a client: an inbound frame
// names the local actor it is addressed to; an outbound frame carries
// the Target the replying local actor put in its Outbound. CorrelationID is a
// remote-originated identifier, deliberately 128 bits and
// string-encoded, kept separate from the core's own 64-bit MessageId:
// identification concerns like this belong in the collaborator, not
// the mailbox contract.
type Frame struct {
	Target        string          `json:"target"`
	CorrelationID string          `json:"correlationId"`
	Payload       json.RawMessage `json:"payload"`
}

// readTimeout bounds a single JSON frame read, mirroring
// connection_handler.go's own read deadline.
const readTimeout = 90 * time.Second

var errReadLoopExited = errors.New("netmiddleman: read loop exited")

// Middleman owns the websocket accept surface for one actor System.
type Middleman struct {
	sys *actor.System
}

// New builds a Middleman bound to sys. Inbound frames are resolved
// against sys.Registry() by name.
func New(sys *actor.System) *Middleman {
	return &Middleman{sys: sys}
}

// Handler returns an http.Handler (via golang.org/x/net/websocket) that
// spawns one connection actor per accepted connection and blocks until
// that connection's handling is complete, exactly as HandleSubscribe
// does.
func (m *Middleman) Handler() websocket.Handler {
	return func(ws *websocket.Conn) {
		done := make(chan struct{})
		conn := &connectionActor{ws: ws, done: done}

		handle, err := m.sys.Spawn(conn, actor.SpawnOptions{})
		if err != nil {
			_ = ws.Close()
			return
		}
		conn.self = handle

		go conn.readLoop(m.sys)

		<-done
	}
}

// connectionActor is the per-connection actor: its mailbox receives
// Outbound frames (from any local actor that wants to talk to this
// client) and writes them to the socket; it receives ExitMessage like
// any other actor and tears the connection down on exit.
type connectionActor struct {
	ws   *websocket.Conn
	self actor.StrongHandle

	mu     sync.Mutex
	closed bool

	done     chan struct{}
	doneOnce sync.Once
}

// Outbound is what a local actor sends back through this connection
// actor to reach the remote client.
type Outbound struct {
	Target  string
	Payload json.RawMessage
}

// Handle implements actor.Behavior.
func (c *connectionActor) Handle(ctx *actor.Context, env *actor.Envelope) actor.HandleOutcome {
	if env.Payload.Len() == 0 {
		return actor.Continue(false)
	}
	switch v := env.Payload.At(0).(type) {
	case actor.Started:
		return actor.Continue(true)
	case Outbound:
		c.writeFrame(Frame{Target: v.Target, Payload: v.Payload})
		return actor.Continue(true)
	case inboundReadError:
		c.closeConn()
		return actor.Terminate(actor.ExitNormal)
	case actor.ExitMessage:
		c.closeConn()
		return actor.Terminate(v.Reason)
	default:
		return actor.Continue(false)
	}
}

func (c *connectionActor) writeFrame(f Frame) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}
	if err := websocket.JSON.Send(c.ws, f); err != nil {
		fmt.Println("netmiddleman: write error:", err)
	}
}

func (c *connectionActor) closeConn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	_ = c.ws.Close()
	c.doneOnce.Do(func() { close(c.done) })
}

type inboundReadError struct{ err error }

// readLoop reads inbound frames, resolves the target actor by name
// against the System's Registry, and enqueues the whole Frame to it with
// this connection actor as sender — so the target can reply via
// ctx.Send(sender, ...) and have it land back here as Outbound.
func (c *connectionActor) readLoop(sys *actor.System) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("netmiddleman: panic in read loop:", r)
		}
		c.self.Enqueue(actor.Sender{}, actor.NewMessageId(actor.PriorityNormal, 0), actor.NewMessage(inboundReadError{err: errReadLoopExited}))
	}()

	for {
		var f Frame
		_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))
		err := websocket.JSON.Receive(c.ws, &f)
		_ = c.ws.SetReadDeadline(time.Time{})
		if err != nil {
			return
		}
		if f.CorrelationID == "" {
			f.CorrelationID = uuid.NewString()
		}

		target := sys.Registry().GetName(f.Target)
		if !target.IsValid() {
			continue
		}
		target.Enqueue(c.self.Sender(), actor.NewMessageId(actor.PriorityNormal, 0), actor.NewMessage(f))
	}
}
