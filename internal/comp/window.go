package comp

import (
	"fmt"
	"log/slog"

	"github.com/nixith/pinnacle/internal/geom"
	"github.com/nixith/pinnacle/internal/transport"
)

// WindowID is the stable identity handed out to the control surface. It
// outlives nothing: once the underlying surface dies, lookups by this id
// return nil and callers treat that as a no-op.
type WindowID uint32

// Window unifies the two surface kinds (native toplevel, compatibility
// surface) behind one handle. All cross references are ids into the state
// arenas.
type Window struct {
	ID      WindowID
	Title   string
	Class   string

	surface transport.Toplevel

	// Mode carries floating/tiled plus the remembered floating rect so a
	// tile -> float -> tile round trip restores the exact rectangle.
	Mode GeometryMode

	FullscreenOrMaximized FullscreenOrMaximized

	// Tags is membership, insertion ordered. A window may carry zero tags.
	Tags []TagID

	Resize ResizeState

	// targetLoc is applied to the space on the next commit. It covers
	// client-initiated resizes where the compositor keeps an anchor edge
	// stable.
	targetLoc *geom.Point

	mapped               bool
	activated            bool
	initialConfigureSent bool

	// batch is the commit batch this window currently participates in,
	// uuid.Nil outside a batch.
	batch batchToken
}

type GeometryMode struct {
	Floating bool

	// FloatingRect is authoritative while floating and remembered while
	// tiled. Nil until the window floats or a rule/geometry call seeds it.
	FloatingRect *geom.Rect
}

type FullscreenOrMaximized int

const (
	Neither FullscreenOrMaximized = iota
	Fullscreen
	Maximized
)

func (f FullscreenOrMaximized) String() string {
	switch f {
	case Fullscreen:
		return "fullscreen"
	case Maximized:
		return "maximized"
	default:
		return "neither"
	}
}

// ResizeState is the configure/acknowledge negotiation for one window.
//
//	Idle -> Requested(serial, loc):  compositor sent a configure
//	Requested -> Acknowledged(loc):  client acked with serial' >= serial
//	Acknowledged -> Idle:            next buffer commit applies loc
type ResizeState struct {
	Kind   ResizeKind
	Serial uint32
	NewLoc geom.Point
}

type ResizeKind int

const (
	ResizeIdle ResizeKind = iota
	ResizeRequested
	ResizeAcknowledged
)

func (k ResizeKind) String() string {
	switch k {
	case ResizeRequested:
		return "requested"
	case ResizeAcknowledged:
		return "acknowledged"
	default:
		return "idle"
	}
}

func (w *Window) Surface() transport.SurfaceID {
	return w.surface.ID()
}

func (w *Window) Alive() bool {
	return w.surface.Alive()
}

func (w *Window) Activated() bool {
	return w.activated
}

func (w *Window) Mapped() bool {
	return w.mapped
}

// moveResizeCapable reports whether interactive grabs may target this
// window. Override-redirect compatibility surfaces manage their own
// geometry and are left alone.
func (w *Window) moveResizeCapable() bool {
	if compat, ok := w.surface.(transport.CompatSurface); ok {
		return !compat.OverrideRedirect()
	}
	return true
}

func (w *Window) setActivated(on bool) {
	if w.activated == on {
		return
	}
	w.activated = on
	w.surface.SetActivated(on)
}

// HasTag reports tag membership.
func (w *Window) HasTag(id TagID) bool {
	for _, tg := range w.Tags {
		if tg == id {
			return true
		}
	}
	return false
}

// SetTag adds or removes a tag; adding an already-held tag moves it to the
// end, mirroring set semantics with insertion order.
func (w *Window) SetTag(id TagID, present bool) {
	tags := w.Tags[:0]
	for _, tg := range w.Tags {
		if tg != id {
			tags = append(tags, tg)
		}
	}
	w.Tags = tags
	if present {
		w.Tags = append(w.Tags, id)
	}
}

// Close asks the client to close the window. The client may ignore it.
// Closing an override-redirect compatibility surface is refused.
func (s *State) Close(id WindowID) {
	win := s.windows[id]
	if win == nil {
		return
	}
	if compat, ok := win.surface.(transport.CompatSurface); ok && compat.OverrideRedirect() {
		s.log.Warn("Tried to close an override-redirect surface", "window", id)
		return
	}
	win.surface.RequestClose()
}

// SetGeometry merges the provided fields into the current mode's
// rectangle. Each field is independently optional; nil leaves the current
// value in place. The owning outputs are re-laid-out and re-rendered.
func (s *State) SetGeometry(id WindowID, x, y, w, h *int) {
	win := s.windows[id]
	if win == nil {
		return
	}

	cur, ok := s.space.Geometry(win.ID)
	if !ok {
		cur = geom.Rect{}
	}
	if base := win.Mode.FloatingRect; base != nil {
		cur = *base
	}

	rect := cur
	if x != nil {
		rect.X = *x
	}
	if y != nil {
		rect.Y = *y
	}
	if w != nil {
		rect.W = *w
	}
	if h != nil {
		rect.H = *h
	}

	win.Mode.FloatingRect = &rect
	if win.Mode.Floating {
		s.requestResize(win, rect)
	}

	s.relayoutWindowOutputs(win)
}

// SetOrToggle selects between forcing a boolean window state on or off
// and flipping whatever is there.
type SetOrToggle int

const (
	SetOrToggleSet SetOrToggle = iota
	SetOrToggleUnset
	SetOrToggleToggle
)

// ParseSetOrToggle maps the wire strings onto SetOrToggle.
func ParseSetOrToggle(s string) (SetOrToggle, error) {
	switch s {
	case "set":
		return SetOrToggleSet, nil
	case "unset":
		return SetOrToggleUnset, nil
	case "toggle":
		return SetOrToggleToggle, nil
	default:
		return 0, fmt.Errorf("unknown set mode %q", s)
	}
}

// SetFloating moves a window between tiled and floating. The floating
// rectangle survives the round trip; a window floated for the first time
// keeps its current placement.
func (s *State) SetFloating(id WindowID, mode SetOrToggle) {
	win := s.windows[id]
	if win == nil {
		return
	}

	floating := win.Mode.Floating
	switch mode {
	case SetOrToggleSet:
		floating = true
	case SetOrToggleUnset:
		floating = false
	case SetOrToggleToggle:
		floating = !floating
	}
	if floating == win.Mode.Floating {
		return
	}

	if !floating {
		win.Mode.Floating = false
	} else {
		win.Mode.Floating = true
		if win.Mode.FloatingRect == nil {
			if cur, ok := s.space.Geometry(win.ID); ok {
				win.Mode.FloatingRect = &cur
			}
		}
		if win.Mode.FloatingRect != nil {
			s.requestResize(win, *win.Mode.FloatingRect)
		}
	}

	s.relayoutWindowOutputs(win)
}

// ToggleFloating flips tiled <-> floating.
func (s *State) ToggleFloating(id WindowID) {
	s.SetFloating(id, SetOrToggleToggle)
}

func (s *State) SetFullscreen(id WindowID, mode SetOrToggle) {
	s.setFullscreenOrMaximized(id, Fullscreen, mode)
}

func (s *State) SetMaximized(id WindowID, mode SetOrToggle) {
	s.setFullscreenOrMaximized(id, Maximized, mode)
}

func (s *State) ToggleFullscreen(id WindowID) {
	s.setFullscreenOrMaximized(id, Fullscreen, SetOrToggleToggle)
}

func (s *State) ToggleMaximized(id WindowID) {
	s.setFullscreenOrMaximized(id, Maximized, SetOrToggleToggle)
}

// setFullscreenOrMaximized applies the exclusive fullscreen/maximized
// state. Setting one displaces the other; unsetting only applies when the
// named state is the current one.
func (s *State) setFullscreenOrMaximized(id WindowID, which FullscreenOrMaximized, mode SetOrToggle) {
	win := s.windows[id]
	if win == nil {
		return
	}

	next := win.FullscreenOrMaximized
	switch mode {
	case SetOrToggleSet:
		next = which
	case SetOrToggleUnset:
		if win.FullscreenOrMaximized == which {
			next = Neither
		}
	case SetOrToggleToggle:
		if win.FullscreenOrMaximized == which {
			next = Neither
		} else {
			next = which
		}
	}
	if next == win.FullscreenOrMaximized {
		return
	}
	win.FullscreenOrMaximized = next

	s.relayoutWindowOutputs(win)
}

// relayoutWindowOutputs marks every output the window touches for
// re-layout and re-render.
func (s *State) relayoutWindowOutputs(win *Window) {
	outputs := s.OutputsForWindow(win.ID)
	if len(outputs) == 0 {
		if op := s.WindowOutput(win.ID); op != nil {
			outputs = []string{op.Name}
		}
	}
	for _, name := range outputs {
		s.RequestLayout(name)
		s.scheduleRender(name)
	}
}

func (w *Window) logAttrs() []any {
	return []any{slog.Uint64("window", uint64(w.ID)), slog.String("class", w.Class)}
}
