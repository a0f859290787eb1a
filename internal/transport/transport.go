// Package transport is the boundary between the compositor core and the
// display protocol. The wire format lives on the other side; this package
// only defines the events the core consumes and the configure payload it
// sends back. Events for a single surface arrive in order, there is no
// ordering guarantee across surfaces.
package transport

import (
	"context"

	"github.com/nixith/pinnacle/internal/geom"
)

// SurfaceID identifies a client surface for the lifetime of its protocol
// object.
type SurfaceID uint64

// Configure proposes geometry and state to a client. The client confirms
// with an AckConfigure carrying a serial >= Serial once it has redrawn to
// match.
type Configure struct {
	Serial    uint32
	Size      geom.Size
	Activated bool
	Tiled     bool
}

// Msg is implemented by every protocol event delivered to the core.
type Msg interface {
	Surface() SurfaceID
}

type (
	// Commit is a client buffer commit. HasBuffer is false for commits
	// that only apply pending state.
	Commit struct {
		SurfaceID  SurfaceID
		HasBuffer  bool
		BufferSize geom.Size
	}

	// AckConfigure acknowledges a previously sent configure.
	AckConfigure struct {
		SurfaceID SurfaceID
		Serial    uint32
	}

	// SurfaceDestroyed reports the protocol object is gone.
	SurfaceDestroyed struct {
		SurfaceID SurfaceID
	}

	// PointerMotion is an absolute pointer position update.
	PointerMotion struct {
		Pos geom.Point
	}

	// PointerButton is a button press or release.
	PointerButton struct {
		Button  uint32
		Pressed bool
	}
)

func (m Commit) Surface() SurfaceID           { return m.SurfaceID }
func (m AckConfigure) Surface() SurfaceID     { return m.SurfaceID }
func (m SurfaceDestroyed) Surface() SurfaceID { return m.SurfaceID }
func (m PointerMotion) Surface() SurfaceID    { return 0 }
func (m PointerButton) Surface() SurfaceID    { return 0 }

// Source delivers protocol events to the core loop.
type Source interface {
	Events() <-chan Msg
}

// Channel is a Source backed by a plain channel. The real protocol
// frontend and the tests both push events through it.
type Channel struct {
	eventC chan Msg
}

func NewChannel(buffer int) *Channel {
	return &Channel{eventC: make(chan Msg, buffer)}
}

func (c *Channel) Events() <-chan Msg {
	return c.eventC
}

// Send blocks until the loop accepts the event or ctx is done.
func (c *Channel) Send(ctx context.Context, msg Msg) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case c.eventC <- msg:
		return nil
	}
}

// Push queues the event without blocking semantics; it is intended for
// tests that drive the state machine directly.
func (c *Channel) Push(msg Msg) {
	c.eventC <- msg
}
