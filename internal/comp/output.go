package comp

import "github.com/nixith/pinnacle/internal/geom"

// Output is a connected display. It owns an ordered tag set and the
// per-output window focus stack.
type Output struct {
	Name      string
	Geometry  geom.Rect
	Scale     float64
	Transform Transform

	Tags  []TagID
	Focus FocusStack[WindowID]
}

type Transform int

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
)

// AddOutput registers a display. The first output becomes the focused one.
func (s *State) AddOutput(name string, geometry geom.Rect, scale float64) (*Output, error) {
	if _, exists := s.outputs[name]; exists {
		return nil, ErrOutputExists
	}
	if scale <= 0 {
		scale = 1
	}

	op := &Output{
		Name:     name,
		Geometry: geometry,
		Scale:    scale,
	}
	s.outputs[name] = op
	s.outputOrder = append(s.outputOrder, name)
	if _, ok := s.outputFocus.Current(); !ok {
		s.outputFocus.SetFocus(name)
	}

	s.log.Info("Output connected", "output", name, "geometry", geometry)
	return op, nil
}

// RemoveOutput drops a disconnected display. Windows keep their tag ids;
// tags of the removed output stay in the arena but become inactive, so the
// windows simply stop being placed until they are retagged.
func (s *State) RemoveOutput(name string) {
	op := s.outputs[name]
	if op == nil {
		return
	}

	for _, id := range op.Tags {
		if tag := s.tags[id]; tag != nil {
			tag.Active = false
		}
	}

	delete(s.outputs, name)
	order := s.outputOrder[:0]
	for _, n := range s.outputOrder {
		if n != name {
			order = append(order, n)
		}
	}
	s.outputOrder = order
	s.outputFocus.Remove(name)

	s.log.Info("Output disconnected", "output", name)
}

// Output returns the output by name, nil when disconnected.
func (s *State) Output(name string) *Output {
	return s.outputs[name]
}

// Outputs returns the connected outputs in connection order.
func (s *State) Outputs() []*Output {
	out := make([]*Output, 0, len(s.outputOrder))
	for _, name := range s.outputOrder {
		out = append(out, s.outputs[name])
	}
	return out
}

// FocusedOutput is the output holding the global focus, falling back to
// the first connected one.
func (s *State) FocusedOutput() *Output {
	if name, ok := s.outputFocus.Current(); ok {
		if op := s.outputs[name]; op != nil {
			return op
		}
	}
	if len(s.outputOrder) > 0 {
		return s.outputs[s.outputOrder[0]]
	}
	return nil
}

// WindowOutput resolves the output a window belongs to through its tags.
func (s *State) WindowOutput(id WindowID) *Output {
	win := s.windows[id]
	if win == nil {
		return nil
	}
	for _, tagID := range win.Tags {
		if tag := s.tags[tagID]; tag != nil {
			if op := s.outputs[tag.Output]; op != nil {
				return op
			}
		}
	}
	return nil
}

// OutputsForWindow lists outputs the window's current placement overlaps.
func (s *State) OutputsForWindow(id WindowID) []string {
	rect, ok := s.space.Geometry(id)
	if !ok {
		return nil
	}
	var names []string
	for _, name := range s.outputOrder {
		if s.outputs[name].Geometry.Overlaps(rect) {
			names = append(names, name)
		}
	}
	return names
}

// usableRect is the area layouts may fill. Fullscreen targets the full
// output rect instead.
func (op *Output) usableRect() geom.Rect {
	return op.Geometry
}
