package comp

// FocusStack orders entries by focus recency. SetFocus moves or pushes the
// entry to the front; UnsetFocus clears the current focus without losing
// the history, so the next SetFocus-less query reports nothing focused
// while the stack still remembers the order.
type FocusStack[T comparable] struct {
	stack   []T
	focused bool
}

func (f *FocusStack[T]) SetFocus(entry T) {
	f.Remove(entry)
	f.stack = append([]T{entry}, f.stack...)
	f.focused = true
}

func (f *FocusStack[T]) UnsetFocus() {
	f.focused = false
}

// Current returns the focused entry. ok is false after UnsetFocus or on an
// empty stack.
func (f *FocusStack[T]) Current() (T, bool) {
	var zero T
	if !f.focused || len(f.stack) == 0 {
		return zero, false
	}
	return f.stack[0], true
}

// Remove drops the entry from the history. Removing the focused entry
// shifts focus to the next most recent one, if any.
func (f *FocusStack[T]) Remove(entry T) {
	for i, e := range f.stack {
		if e == entry {
			f.stack = append(f.stack[:i], f.stack[i+1:]...)
			if len(f.stack) == 0 {
				f.focused = false
			}
			return
		}
	}
}

// Stack returns the history, most recent first.
func (f *FocusStack[T]) Stack() []T {
	out := make([]T, len(f.stack))
	copy(out, f.stack)
	return out
}
