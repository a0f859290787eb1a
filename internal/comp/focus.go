package comp

import (
	"github.com/nixith/pinnacle/internal/bus"
	"github.com/nixith/pinnacle/internal/transport"
)

// SetKeyboardFocus activates the window and routes keyboard input to it.
// At most one window is activated compositor-wide: every other window is
// deactivated first, then the owning output's focus stack, the global
// output focus stack and the seat are updated under a fresh serial.
func (s *State) SetKeyboardFocus(id WindowID) error {
	win := s.windows[id]
	if win == nil {
		return nil
	}
	if compat, ok := win.surface.(transport.CompatSurface); ok && compat.OverrideRedirect() {
		return nil
	}
	if !s.seat.HasKeyboard {
		return ErrNoKeyboard
	}

	for _, other := range s.windows {
		if other.ID != id {
			other.setActivated(false)
		}
	}
	win.setActivated(true)

	op := s.WindowOutput(id)
	if op == nil {
		op = s.FocusedOutput()
	}
	if op != nil {
		op.Focus.SetFocus(id)
		s.outputFocus.SetFocus(op.Name)
	}

	serial := s.nextSerial()
	s.seat.KeyboardFocus = id

	bus.Publish(EventFocusChanged{Window: id, Serial: serial})

	if op != nil {
		s.scheduleRender(op.Name)
	}
	return nil
}

// UnsetKeyboardFocus clears focus only when the window currently holds
// it; unsetting anything else is a no-op.
func (s *State) UnsetKeyboardFocus(id WindowID) error {
	if s.seat.KeyboardFocus != id {
		return nil
	}
	if !s.seat.HasKeyboard {
		return ErrNoKeyboard
	}

	if win := s.windows[id]; win != nil {
		win.setActivated(false)
		if op := s.WindowOutput(id); op != nil {
			op.Focus.UnsetFocus()
		}
	}
	s.clearKeyboardFocus()
	return nil
}

func (s *State) clearKeyboardFocus() {
	if s.seat.KeyboardFocus == 0 {
		return
	}
	s.seat.KeyboardFocus = 0
	bus.Publish(EventFocusChanged{Window: 0, Serial: s.nextSerial()})
}

// FocusedWindow returns the window holding keyboard focus, nil when
// nothing is focused.
func (s *State) FocusedWindow() *Window {
	if s.seat.KeyboardFocus == 0 {
		return nil
	}
	return s.windows[s.seat.KeyboardFocus]
}
