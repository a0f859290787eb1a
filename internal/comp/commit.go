package comp

import (
	"github.com/nixith/pinnacle/internal/bus"
	"github.com/nixith/pinnacle/internal/geom"
	"github.com/nixith/pinnacle/internal/transport"
)

// stagingLoc is far outside any plausible output. Newly mapped windows sit
// there until the first layout pass assigns real geometry, so the client's
// default geometry never flashes on screen.
var stagingLoc = geom.Point{X: 1000000, Y: 0}

// handleCommit drives the per-surface commit state machine:
//
//  1. unmapped, no buffer: make sure the initial configure went out
//  2. first buffered commit: map, stage offscreen, rules, layout, focus
//  3. mapped commit: resolve the resize negotiation, apply pending moves
func (s *State) handleCommit(ev transport.Commit) {
	win := s.WindowForSurface(ev.SurfaceID)
	if win == nil {
		s.commitPopup(ev)
		return
	}

	if !win.mapped {
		if !ev.HasBuffer {
			s.ensureInitialConfigure(win)
			return
		}
		s.mapWindow(win, ev.BufferSize)
		return
	}

	switch win.Resize.Kind {
	case ResizeAcknowledged:
		// The negotiation resolves only on a buffered commit. A
		// bufferless commit after the ack is not the client's redraw.
		if !ev.HasBuffer {
			break
		}
		s.space.MapElement(win.ID, win.Resize.NewLoc)
		s.space.SetSize(win.ID, ev.BufferSize)
		win.Resize = ResizeState{}
		s.batchCommitted(win)
	case ResizeRequested:
		// Mid-negotiation commit: leave the window where it is, anything
		// else would snap it to stale geometry.
	default:
		if win.targetLoc != nil && ev.HasBuffer {
			s.space.MapElement(win.ID, *win.targetLoc)
			win.targetLoc = nil
		}
		if ev.HasBuffer {
			s.space.SetSize(win.ID, ev.BufferSize)
		}
	}

	outputs := s.OutputsForWindow(win.ID)
	if len(outputs) == 0 {
		if op := s.WindowOutput(win.ID); op != nil {
			outputs = []string{op.Name}
		}
	}
	for _, name := range outputs {
		s.sendFrame(win, name)
		s.scheduleRender(name)
	}
}

// ensureInitialConfigure sends the first configure for a surface that has
// not had one, before any buffer is accepted.
func (s *State) ensureInitialConfigure(win *Window) {
	if win.initialConfigureSent {
		return
	}
	win.initialConfigureSent = true
	win.surface.SendConfigure(transport.Configure{
		Serial: s.nextSerial(),
		Tiled:  !win.Mode.Floating,
	})
	s.log.Debug("Initial configure", win.logAttrs()...)
}

// mapWindow runs once per window, on its first commit carrying a buffer.
func (s *State) mapWindow(win *Window, bufferSize geom.Size) {
	win.mapped = true
	s.newWindows = removeID(s.newWindows, win.ID)
	s.order = append(s.order, win.ID)

	s.space.SetSize(win.ID, bufferSize)
	loc := stagingLoc
	if win.targetLoc != nil {
		// The client already asked for a position before mapping.
		loc = *win.targetLoc
		win.targetLoc = nil
	}
	s.space.MapElement(win.ID, loc)

	s.Raise(win.ID)
	s.applyWindowRules(win)

	// A floating window with no assigned rect yet is centered on the
	// focused output instead of staying staged offscreen.
	if win.Mode.Floating && win.moveResizeCapable() && win.Resize.Kind == ResizeIdle {
		if cur, ok := s.space.Location(win.ID); ok && cur == stagingLoc {
			op := s.WindowOutput(win.ID)
			if op == nil {
				op = s.FocusedOutput()
			}
			if op != nil {
				usable := op.usableRect()
				rect := geom.Rect{
					Point: geom.Point{
						X: usable.X + (usable.W-bufferSize.W)/2,
						Y: usable.Y + (usable.H-bufferSize.H)/2,
					},
					Size: bufferSize,
				}
				win.Mode.FloatingRect = &rect
				s.requestResize(win, rect)
			}
		}
	}

	// Rules may have retagged the window onto another output; lay out
	// wherever it landed.
	op := s.WindowOutput(win.ID)
	if op == nil {
		op = s.FocusedOutput()
	}
	if op != nil {
		op.Focus.SetFocus(win.ID)

		changed := s.layoutOutput(op)
		s.beginBatch(win, changed)

		s.sendFrame(win, op.Name)
		s.scheduleRender(op.Name)
	}

	// Focus assignment is deferred one tick so the window is registered
	// in every focus structure before the seat event goes out.
	id := win.ID
	s.Defer(func(s *State) {
		if err := s.SetKeyboardFocus(id); err != nil {
			s.log.Warn("Failed to focus new window", "error", err, "window", id)
		}
	})

	bus.Publish(EventWindowMapped{Window: win.ID})
	s.log.Debug("Mapped window", win.logAttrs()...)
}

// requestResize starts (or supersedes) a resize negotiation: record the
// serial and target location, then propose the new size. The presented
// layout does not change until the client acknowledges and commits.
func (s *State) requestResize(win *Window, rect geom.Rect) {
	serial := s.nextSerial()
	win.Resize = ResizeState{
		Kind:   ResizeRequested,
		Serial: serial,
		NewLoc: rect.Loc(),
	}
	win.initialConfigureSent = true
	win.surface.SendConfigure(transport.Configure{
		Serial:    serial,
		Size:      rect.Dim(),
		Activated: win.activated,
		Tiled:     !win.Mode.Floating,
	})
}

// handleAck resolves a configure acknowledgment. Serials are monotonic;
// an ack for a superseded request is ignored, an ack at or past the
// recorded serial moves the negotiation to Acknowledged.
func (s *State) handleAck(ev transport.AckConfigure) {
	win := s.WindowForSurface(ev.SurfaceID)
	if win == nil {
		return
	}
	if win.Resize.Kind != ResizeRequested || ev.Serial < win.Resize.Serial {
		return
	}
	win.Resize = ResizeState{
		Kind:   ResizeAcknowledged,
		NewLoc: win.Resize.NewLoc,
	}
	if op := s.FocusedOutput(); op != nil {
		s.sendFrame(win, op.Name)
	}
}

// RequestLayout re-runs the layout on an output. Unknown outputs are a
// no-op.
func (s *State) RequestLayout(output string) {
	if op := s.outputs[output]; op != nil {
		s.layoutOutput(op)
	}
}

// layoutOutput places every window whose tags intersect the output's
// active tags. Floating windows keep their own rect; fullscreen and
// maximized windows get the output rect. Returns the windows whose
// geometry changed and therefore entered a resize negotiation.
func (s *State) layoutOutput(op *Output) []*Window {
	active := s.activeTags(op)
	if len(active) == 0 {
		return nil
	}

	var tiled []*Window
	var changed []*Window
	for _, id := range s.order {
		win := s.windows[id]
		if win == nil || !s.windowOnTags(win, active) {
			continue
		}

		switch {
		case win.FullscreenOrMaximized == Fullscreen:
			if s.applyPlacement(win, op.Geometry) {
				changed = append(changed, win)
			}
		case win.FullscreenOrMaximized == Maximized:
			if s.applyPlacement(win, op.usableRect()) {
				changed = append(changed, win)
			}
		case win.Mode.Floating:
			// Authoritative rect, not ours to place.
		default:
			tiled = append(tiled, win)
		}
	}

	strategy := s.firstActiveLayout(op)
	if strategy == nil {
		return changed
	}

	rects := strategy.Arrange(len(tiled), op.usableRect())
	for i, win := range tiled {
		if s.applyPlacement(win, rects[i]) {
			changed = append(changed, win)
		}
	}
	return changed
}

// applyPlacement negotiates a window toward rect, skipping windows
// already there. Reports whether a negotiation started.
func (s *State) applyPlacement(win *Window, rect geom.Rect) bool {
	if cur, ok := s.space.Geometry(win.ID); ok && cur == rect && win.Resize.Kind == ResizeIdle {
		return false
	}
	s.requestResize(win, rect)
	return true
}

func (s *State) windowOnTags(win *Window, tags []TagID) bool {
	for _, id := range tags {
		if win.HasTag(id) {
			return true
		}
	}
	return false
}

// Raise moves the window to the top of the global stacking order without
// touching focus.
func (s *State) Raise(id WindowID) {
	if s.windows[id] == nil {
		return
	}
	s.order = append(removeID(s.order, id), id)
}

// SetTargetLoc schedules a location to apply on the window's next
// buffered commit.
func (s *State) SetTargetLoc(id WindowID, loc geom.Point) {
	if win := s.windows[id]; win != nil {
		win.targetLoc = &loc
	}
}
