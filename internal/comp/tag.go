package comp

import (
	"sort"

	"github.com/nixith/pinnacle/internal/layout"
)

// TagID identifies a tag in the state arena.
type TagID uint32

// Tag is a user-facing window grouping, analogous to a workspace. A tag is
// owned by exactly one output; windows reference tags many-to-many.
type Tag struct {
	ID     TagID
	Name   string
	Output string
	Active bool

	Layout layout.Layout
}

// AddTag creates a tag on the named output. The first tag of an output
// starts active.
func (s *State) AddTag(output, name, layoutName string) (TagID, error) {
	op := s.outputs[output]
	if op == nil {
		return 0, ErrOutputNotFound
	}

	strategy, err := layout.New(layoutName)
	if err != nil {
		return 0, err
	}

	s.nextTagID++
	tag := &Tag{
		ID:     s.nextTagID,
		Name:   name,
		Output: output,
		Active: len(op.Tags) == 0,
		Layout: strategy,
	}
	s.tags[tag.ID] = tag
	op.Tags = append(op.Tags, tag.ID)

	s.log.Debug("Added tag", "tag", tag.ID, "name", name, "output", output)
	return tag.ID, nil
}

// SetTagActive toggles a tag's visibility on its output and re-runs the
// layout there. Unknown tags are a no-op.
func (s *State) SetTagActive(id TagID, active bool) {
	tag := s.tags[id]
	if tag == nil || tag.Active == active {
		return
	}
	tag.Active = active
	s.RequestLayout(tag.Output)
	s.scheduleRender(tag.Output)
}

// ToggleTagActive flips a tag's visibility.
func (s *State) ToggleTagActive(id TagID) {
	if tag := s.tags[id]; tag != nil {
		s.SetTagActive(id, !tag.Active)
	}
}

// SetWindowTag adds or removes a window's membership in a tag. Unknown
// windows or tags are no-ops. A window may end up with no tags at all, in
// which case it is simply not placed anywhere until retagged.
func (s *State) SetWindowTag(id WindowID, tag TagID, mode SetOrToggle) {
	win := s.windows[id]
	if win == nil || s.tags[tag] == nil {
		return
	}

	before := s.OutputsForWindow(id)

	present := win.HasTag(tag)
	switch mode {
	case SetOrToggleSet:
		present = true
	case SetOrToggleUnset:
		present = false
	case SetOrToggleToggle:
		present = !present
	}
	win.SetTag(tag, present)

	s.retagLayout(win, before)
}

// MoveWindowToTag replaces all of a window's tags with the single given
// tag.
func (s *State) MoveWindowToTag(id WindowID, tag TagID) {
	win := s.windows[id]
	if win == nil || s.tags[tag] == nil {
		return
	}

	before := s.OutputsForWindow(id)
	win.Tags = []TagID{tag}
	s.retagLayout(win, before)
}

// retagLayout re-runs layout on every output the window left or joined.
func (s *State) retagLayout(win *Window, before []string) {
	seen := map[string]bool{}
	for _, name := range before {
		seen[name] = true
	}
	if op := s.WindowOutput(win.ID); op != nil {
		seen[op.Name] = true
	}
	for name := range seen {
		s.RequestLayout(name)
		s.scheduleRender(name)
	}
}

// Tag returns the tag for id, nil when it no longer exists.
func (s *State) Tag(id TagID) *Tag {
	return s.tags[id]
}

// Tags returns every tag across all outputs, ordered by id.
func (s *State) Tags() []*Tag {
	tags := make([]*Tag, 0, len(s.tags))
	for _, tag := range s.tags {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags
}

// activeTags returns the active tag ids of an output, in tag order.
func (s *State) activeTags(op *Output) []TagID {
	var active []TagID
	for _, id := range op.Tags {
		if tag := s.tags[id]; tag != nil && tag.Active {
			active = append(active, id)
		}
	}
	return active
}

// firstActiveLayout picks the layout strategy for a layout pass: the first
// active tag's strategy on the output.
func (s *State) firstActiveLayout(op *Output) layout.Layout {
	for _, id := range op.Tags {
		if tag := s.tags[id]; tag != nil && tag.Active {
			return tag.Layout
		}
	}
	return nil
}
