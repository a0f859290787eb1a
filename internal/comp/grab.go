package comp

import (
	"github.com/nixith/pinnacle/internal/geom"
	"github.com/nixith/pinnacle/internal/transport"
)

// Grab is an in-progress interactive move or resize. It owns pointer
// motion until the initiating button is released or the target window is
// destroyed.
type Grab struct {
	Kind   GrabKind
	Window WindowID
	Button uint32
	Edge   geom.Edge

	start    geom.Point
	winStart geom.Rect
}

type GrabKind int

const (
	GrabMove GrabKind = iota
	GrabResize
)

func (k GrabKind) String() string {
	if k == GrabResize {
		return "resize"
	}
	return "move"
}

// BeginMoveGrab starts a move grab on the window under the pointer. No
// grab starts when the pointer is absent, nothing is under it, or the
// target is not move/resize capable; all of those fail silently.
func (s *State) BeginMoveGrab(button uint32) {
	win, _ := s.grabTarget()
	if win == nil {
		return
	}
	rect, _ := s.space.Geometry(win.ID)
	s.grab = &Grab{
		Kind:     GrabMove,
		Window:   win.ID,
		Button:   button,
		start:    s.pointerPos(),
		winStart: rect,
	}
	s.log.Debug("Move grab", win.logAttrs()...)
}

// BeginResizeGrab starts a resize grab, locking the edge to the pointer's
// quadrant of the window at grab time. Only floating windows resize
// interactively; tiled geometry belongs to the layout.
func (s *State) BeginResizeGrab(button uint32) {
	win, rect := s.grabTarget()
	if win == nil || !win.Mode.Floating {
		return
	}

	edge := geom.EdgeUnder(rect, s.pointerPos())
	if edge == geom.EdgeNone {
		return
	}

	s.grab = &Grab{
		Kind:     GrabResize,
		Window:   win.ID,
		Button:   button,
		Edge:     edge,
		start:    s.pointerPos(),
		winStart: rect,
	}
	s.log.Debug("Resize grab", append(win.logAttrs(), "edge", edge.String())...)
}

// grabTarget resolves the window under the pointer at grab time.
func (s *State) grabTarget() (*Window, geom.Rect) {
	if !s.seat.PointerPresent {
		return nil, geom.Rect{}
	}
	win := s.WindowUnder(s.pointerPos())
	if win == nil || !win.moveResizeCapable() {
		return nil, geom.Rect{}
	}
	rect, _ := s.space.Geometry(win.ID)
	return win, rect
}

// WindowUnder returns the topmost mapped window containing pos.
func (s *State) WindowUnder(pos geom.Point) *Window {
	for i := len(s.order) - 1; i >= 0; i-- {
		win := s.windows[s.order[i]]
		if win == nil || !win.mapped {
			continue
		}
		if rect, ok := s.space.Geometry(win.ID); ok && rect.Contains(pos) {
			return win
		}
	}
	return nil
}

func (s *State) pointerPos() geom.Point {
	return geom.Point{X: s.seat.PointerPos.X, Y: s.seat.PointerPos.Y}
}

func (s *State) handlePointerMotion(ev transport.PointerMotion) {
	s.seat.PointerPresent = true
	s.seat.PointerPos = Pointer{X: ev.Pos.X, Y: ev.Pos.Y}

	if s.grab == nil {
		return
	}
	win := s.windows[s.grab.Window]
	if win == nil {
		// Destroyed mid-grab; drop without committing further geometry.
		s.grab = nil
		return
	}

	switch s.grab.Kind {
	case GrabMove:
		s.moveGrabMotion(win, ev.Pos)
	case GrabResize:
		s.resizeGrabMotion(win, ev.Pos)
	}
}

func (s *State) handlePointerButton(ev transport.PointerButton) {
	if s.grab != nil && !ev.Pressed && ev.Button == s.grab.Button {
		s.releaseGrab()
	}
}

// moveGrabMotion drags the window with the pointer. A floating window's
// remembered rect tracks the drag so the position survives mode toggles.
func (s *State) moveGrabMotion(win *Window, pos geom.Point) {
	delta := pos.Sub(s.grab.start)
	loc := s.grab.winStart.Loc().Add(delta)
	s.space.MapElement(win.ID, loc)

	if win.Mode.Floating {
		rect := s.grab.winStart.Translate(delta)
		win.Mode.FloatingRect = &rect
	}

	for _, name := range s.OutputsForWindow(win.ID) {
		s.scheduleRender(name)
	}
}

// resizeGrabMotion recomputes the rect from the locked edge and runs it
// through the ordinary configure/ack negotiation, so the client never
// shows a size it has not drawn.
func (s *State) resizeGrabMotion(win *Window, pos geom.Point) {
	delta := pos.Sub(s.grab.start)
	start := s.grab.winStart

	rect := start
	switch s.grab.Edge {
	case geom.EdgeTopLeft:
		rect = geom.NewRect(start.X+delta.X, start.Y+delta.Y, start.W-delta.X, start.H-delta.Y)
	case geom.EdgeTopRight:
		rect = geom.NewRect(start.X, start.Y+delta.Y, start.W+delta.X, start.H-delta.Y)
	case geom.EdgeBottomLeft:
		rect = geom.NewRect(start.X+delta.X, start.Y, start.W-delta.X, start.H+delta.Y)
	case geom.EdgeBottomRight:
		rect = geom.NewRect(start.X, start.Y, start.W+delta.X, start.H+delta.Y)
	}
	if rect.W < 1 {
		rect.W = 1
	}
	if rect.H < 1 {
		rect.H = 1
	}

	win.Mode.FloatingRect = &rect
	s.requestResize(win, rect)
}

func (s *State) releaseGrab() {
	if s.grab == nil {
		return
	}
	s.log.Debug("Grab released", "kind", s.grab.Kind.String(), "window", s.grab.Window)
	s.grab = nil
}

// cancelGrabFor drops the grab when its target window dies. No final
// geometry beyond the last processed motion is committed.
func (s *State) cancelGrabFor(id WindowID) {
	if s.grab != nil && s.grab.Window == id {
		s.grab = nil
	}
}

// ActiveGrab reports the running grab, nil when idle.
func (s *State) ActiveGrab() *Grab {
	return s.grab
}
