package comp

import "github.com/nixith/pinnacle/internal/geom"

// Space tracks where mapped windows currently are on the global canvas.
// Only the commit machinery and the grab engine mutate it; everything else
// reads placements out of it.
type Space struct {
	rects map[WindowID]geom.Rect
}

func NewSpace() *Space {
	return &Space{rects: make(map[WindowID]geom.Rect)}
}

// MapElement places the window at loc, keeping its last committed size.
func (sp *Space) MapElement(id WindowID, loc geom.Point) {
	rect := sp.rects[id]
	rect.Point = loc
	sp.rects[id] = rect
}

// SetSize records the client's committed buffer size.
func (sp *Space) SetSize(id WindowID, size geom.Size) {
	rect := sp.rects[id]
	rect.Size = size
	sp.rects[id] = rect
}

// Geometry returns the window's current placement.
func (sp *Space) Geometry(id WindowID) (geom.Rect, bool) {
	rect, ok := sp.rects[id]
	return rect, ok
}

func (sp *Space) Location(id WindowID) (geom.Point, bool) {
	rect, ok := sp.rects[id]
	return rect.Point, ok
}

// WindowGeometry returns the committed global-space rectangle for a
// mapped window.
func (s *State) WindowGeometry(id WindowID) (geom.Rect, bool) {
	return s.space.Geometry(id)
}

func (sp *Space) Unmap(id WindowID) {
	delete(sp.rects, id)
}
