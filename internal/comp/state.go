package comp

import (
	"errors"
	"log/slog"
	"time"

	"github.com/nixith/pinnacle/internal/backend"
	"github.com/nixith/pinnacle/internal/bus"
	"github.com/nixith/pinnacle/internal/transport"
)

var (
	ErrOutputNotFound = errors.New("output not found")
	ErrOutputExists   = errors.New("output already exists")

	// ErrNoKeyboard reports the seat has no keyboard device; focus
	// assignment aborts instead of corrupting focus state.
	ErrNoKeyboard = errors.New("seat has no keyboard")
)

// State is the full compositor object graph. It is owned by the event
// loop goroutine; nothing else may touch it. Cross references between
// windows, tags and outputs are arena ids resolved lazily and tolerant of
// not-found, since events legitimately race with destruction.
type State struct {
	log     *slog.Logger
	backend backend.Backend
	clock   func() time.Time

	serial uint32

	nextWindowID WindowID
	nextTagID    TagID

	windows   map[WindowID]*Window
	bySurface map[transport.SurfaceID]WindowID

	// newWindows holds created-but-unmapped windows; order is the global
	// stacking order of mapped windows, bottom to top.
	newWindows []WindowID
	order      []WindowID

	outputs     map[string]*Output
	outputOrder []string
	outputFocus FocusStack[string]

	tags map[TagID]*Tag

	space *Space

	seat Seat

	popups map[transport.SurfaceID]*Popup

	rules []RuleEntry

	grab *Grab

	batches map[batchToken]*commitBatch

	// pending is the deferred-action queue, drained at a fixed point of
	// every loop tick so ordering stays auditable.
	pending []func(*State)
}

// Seat models the input seat. The keyboard may genuinely be absent.
type Seat struct {
	HasKeyboard   bool
	KeyboardFocus WindowID

	PointerPresent bool
	PointerPos     Pointer
}

type Pointer struct {
	X, Y int
}

func NewState(log *slog.Logger, be backend.Backend) *State {
	if log == nil {
		log = slog.Default()
	}
	return &State{
		log:       log.With("package", "comp"),
		backend:   be,
		clock:     time.Now,
		windows:   make(map[WindowID]*Window),
		bySurface: make(map[transport.SurfaceID]WindowID),
		outputs:   make(map[string]*Output),
		tags:      make(map[TagID]*Tag),
		space:     NewSpace(),
		popups:    make(map[transport.SurfaceID]*Popup),
		batches:   make(map[batchToken]*commitBatch),
		seat:      Seat{HasKeyboard: true},
	}
}

// SetClock overrides the frame-callback clock.
func (s *State) SetClock(clock func() time.Time) {
	s.clock = clock
}

func (s *State) SetSeat(seat Seat) {
	s.seat = seat
}

// nextSerial returns the next monotonically increasing serial, shared by
// configure and focus events.
func (s *State) nextSerial() uint32 {
	s.serial++
	return s.serial
}

// Dispatch routes one protocol event into the state machine. It runs on
// the loop goroutine and never blocks.
func (s *State) Dispatch(msg transport.Msg) {
	switch ev := msg.(type) {
	case transport.NewToplevel:
		s.handleNewToplevel(ev.Handle)
	case transport.NewCompatSurface:
		s.handleNewToplevel(ev.Handle)
	case transport.NewPopup:
		s.handleNewPopup(ev)
	case transport.RepositionPopup:
		s.handleRepositionPopup(ev)
	case transport.Commit:
		s.handleCommit(ev)
	case transport.AckConfigure:
		s.handleAck(ev)
	case transport.SurfaceDestroyed:
		s.handleSurfaceDestroyed(ev.SurfaceID)
	case transport.PointerMotion:
		s.handlePointerMotion(ev)
	case transport.PointerButton:
		s.handlePointerButton(ev)
	default:
		s.log.Debug("Unknown protocol event", "event", msg)
	}
}

// handleNewToplevel creates the window entity: identity, default tiled
// mode, tags inherited from the focused output's active tags.
func (s *State) handleNewToplevel(handle transport.Toplevel) {
	s.nextWindowID++
	win := &Window{
		ID:      s.nextWindowID,
		surface: handle,
		Title:   handle.Title(),
		Class:   handle.Class(),
	}

	// Override-redirect surfaces place themselves; the layout never
	// touches them.
	if compat, ok := handle.(transport.CompatSurface); ok && compat.OverrideRedirect() {
		win.Mode.Floating = true
	}

	if op := s.FocusedOutput(); op != nil {
		if active := s.activeTags(op); len(active) > 0 {
			win.Tags = active
		} else if len(op.Tags) > 0 {
			win.Tags = []TagID{op.Tags[0]}
		}
	}

	s.windows[win.ID] = win
	s.bySurface[handle.ID()] = win.ID
	s.newWindows = append(s.newWindows, win.ID)

	s.log.Debug("New toplevel", win.logAttrs()...)
}

// handleSurfaceDestroyed removes the window or popup backing the surface
// from every structure that references it.
func (s *State) handleSurfaceDestroyed(surface transport.SurfaceID) {
	if popup := s.popups[surface]; popup != nil {
		delete(s.popups, surface)
		return
	}

	id, ok := s.bySurface[surface]
	if !ok {
		return
	}
	win := s.windows[id]
	delete(s.bySurface, surface)
	delete(s.windows, id)
	s.newWindows = removeID(s.newWindows, id)
	s.order = removeID(s.order, id)
	s.space.Unmap(id)

	for _, op := range s.outputs {
		op.Focus.Remove(id)
	}
	if s.seat.KeyboardFocus == id {
		s.seat.KeyboardFocus = 0
	}

	s.cancelGrabFor(id)
	s.dropFromBatches(id)

	if win != nil && win.mapped {
		if op := s.FocusedOutput(); op != nil {
			s.RequestLayout(op.Name)
			s.scheduleRender(op.Name)
		}
		s.refocusAfterUnmap()
		bus.Publish(EventWindowUnmapped{Window: id})
	}

	s.log.Debug("Surface destroyed", "surface", surface, "window", id)
}

// refocusAfterUnmap hands keyboard focus to the most recently focused
// surviving window on the focused output.
func (s *State) refocusAfterUnmap() {
	op := s.FocusedOutput()
	if op == nil {
		return
	}
	if id, ok := op.Focus.Current(); ok {
		if win := s.windows[id]; win != nil {
			if err := s.SetKeyboardFocus(id); err != nil {
				s.log.Warn("Failed to refocus", "error", err, "window", win.ID)
			}
			return
		}
	}
	s.clearKeyboardFocus()
}

// Window returns the window for id, nil when it no longer exists.
func (s *State) Window(id WindowID) *Window {
	return s.windows[id]
}

// WindowForSurface resolves a surface to its window.
func (s *State) WindowForSurface(surface transport.SurfaceID) *Window {
	id, ok := s.bySurface[surface]
	if !ok {
		return nil
	}
	return s.windows[id]
}

// Windows lists mapped windows in stacking order, bottom to top.
func (s *State) Windows() []*Window {
	out := make([]*Window, 0, len(s.order))
	for _, id := range s.order {
		if win := s.windows[id]; win != nil {
			out = append(out, win)
		}
	}
	return out
}

// Defer queues fn on the pending-action queue; it runs at the fixed drain
// point of the current (or next) loop tick.
func (s *State) Defer(fn func(*State)) {
	s.pending = append(s.pending, fn)
}

// DrainPending runs queued deferred actions in submission order. Actions
// queued while draining run in the same drain.
func (s *State) DrainPending() {
	for len(s.pending) > 0 {
		queue := s.pending
		s.pending = nil
		for _, fn := range queue {
			fn(s)
		}
	}
}

func (s *State) scheduleRender(output string) {
	if s.backend == nil {
		return
	}
	s.backend.ScheduleRender(output)
}

// sendFrame delivers a frame callback unless the window is held back by a
// commit batch.
func (s *State) sendFrame(win *Window, output string) {
	if s.backend == nil || win.batch != noBatch {
		return
	}
	s.backend.SendFrame(output, uint32(win.ID), s.clock(), 0)
}

func removeID(ids []WindowID, id WindowID) []WindowID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
