package comp

import (
	"github.com/nixith/pinnacle/internal/geom"
	"github.com/nixith/pinnacle/internal/transport"
)

// Popup is a transient surface positioned relative to an ancestor chain
// that bottoms out at a window.
type Popup struct {
	handle     transport.Popup
	Parent     transport.SurfaceID
	Positioner Positioner

	// Geometry is local to the parent surface.
	Geometry geom.Rect

	initialConfigureSent bool
}

// Positioner solves one (re)position request against local bounds. It is
// consumed per request, never persisted beyond the popup's current
// geometry.
type Positioner struct {
	transport.PositionerState
}

// DefaultGeometry is the unconstrained placement: the positioner's size
// at the anchor rectangle's origin plus the offset.
func (p Positioner) DefaultGeometry() geom.Rect {
	return geom.Rect{
		Point: p.AnchorRect.Loc().Add(p.Offset),
		Size:  p.Size,
	}
}

// Unconstrained resolves the geometry against bounds using the
// constraint-adjustment flags, per axis: flip first, then slide, then
// resize. Whatever remains constrained is left as is.
func (p Positioner) Unconstrained(bounds geom.Rect) geom.Rect {
	rect := p.DefaultGeometry()

	rect.X, rect.W = solveAxis(
		rect.X, rect.W,
		bounds.X, bounds.W,
		p.AnchorRect.X+p.AnchorRect.W/2,
		p.ConstraintAdjustment.Has(transport.AdjustFlipX),
		p.ConstraintAdjustment.Has(transport.AdjustSlideX),
		p.ConstraintAdjustment.Has(transport.AdjustResizeX),
	)
	rect.Y, rect.H = solveAxis(
		rect.Y, rect.H,
		bounds.Y, bounds.H,
		p.AnchorRect.Y+p.AnchorRect.H/2,
		p.ConstraintAdjustment.Has(transport.AdjustFlipY),
		p.ConstraintAdjustment.Has(transport.AdjustSlideY),
		p.ConstraintAdjustment.Has(transport.AdjustResizeY),
	)
	return rect
}

func solveAxis(pos, size, boundPos, boundSize, anchorCenter int, flip, slide, resize bool) (int, int) {
	constrained := func(pos, size int) bool {
		return pos < boundPos || pos+size > boundPos+boundSize
	}
	if !constrained(pos, size) {
		return pos, size
	}

	if flip {
		flipped := 2*anchorCenter - pos - size
		if !constrained(flipped, size) {
			return flipped, size
		}
	}
	if slide {
		slid := pos
		if slid+size > boundPos+boundSize {
			slid = boundPos + boundSize - size
		}
		if slid < boundPos {
			slid = boundPos
		}
		if !constrained(slid, size) {
			return slid, size
		}
		pos = slid
	}
	if resize {
		if pos < boundPos {
			size -= boundPos - pos
			pos = boundPos
		}
		if pos+size > boundPos+boundSize {
			size = boundPos + boundSize - pos
		}
		if size < 1 {
			size = 1
		}
	}
	return pos, size
}

func (s *State) handleNewPopup(ev transport.NewPopup) {
	popup := &Popup{
		handle:     ev.Handle,
		Parent:     ev.Parent,
		Positioner: Positioner{PositionerState: ev.Positioner},
	}
	s.popups[ev.Handle.ID()] = popup
	s.positionPopup(popup)
}

func (s *State) handleRepositionPopup(ev transport.RepositionPopup) {
	popup := s.popups[ev.SurfaceID]
	if popup == nil {
		return
	}
	popup.Positioner = Positioner{PositionerState: ev.Positioner}
	s.positionPopup(popup)
	popup.handle.SendRepositioned(ev.Token)
	popup.handle.SendConfigure(popup.Geometry)
}

// positionPopup computes the popup's geometry against the focused
// output's bounds, translated into the popup's local coordinate space. On
// any missing lookup it falls back to the positioner's default geometry;
// a popup never ends up without one.
func (s *State) positionPopup(popup *Popup) {
	positioner := popup.Positioner

	geometry, ok := func() (geom.Rect, bool) {
		root, parentOffset, ok := s.popupRoot(popup)
		if !ok {
			return geom.Rect{}, false
		}

		if popup.Parent == root {
			// Toplevel popups slide along x instead of mirroring.
			positioner.ConstraintAdjustment =
				positioner.ConstraintAdjustment.Without(transport.AdjustFlipX)
		}

		rootWin := s.WindowForSurface(root)
		if rootWin == nil {
			return geom.Rect{}, false
		}
		rootLoc, ok := s.space.Location(rootWin.ID)
		if !ok {
			return geom.Rect{}, false
		}

		op := s.FocusedOutput()
		if op == nil {
			return geom.Rect{}, false
		}

		parentGlobal := rootLoc.Add(parentOffset)
		localBounds := op.Geometry.Translate(geom.Point{X: -parentGlobal.X, Y: -parentGlobal.Y})
		return positioner.Unconstrained(localBounds), true
	}()
	if !ok {
		geometry = positioner.DefaultGeometry()
	}

	popup.Geometry = geometry
	if !popup.initialConfigureSent {
		popup.initialConfigureSent = true
		popup.handle.SendConfigure(geometry)
	}
}

// popupRoot walks parent links to the root surface and accumulates the
// intermediate popup offsets, so output bounds can be translated into the
// popup's local space.
func (s *State) popupRoot(popup *Popup) (transport.SurfaceID, geom.Point, bool) {
	var offset geom.Point
	parent := popup.Parent
	for depth := 0; depth < 32; depth++ {
		parentPopup := s.popups[parent]
		if parentPopup == nil {
			return parent, offset, true
		}
		offset = offset.Add(parentPopup.Geometry.Loc())
		parent = parentPopup.Parent
	}
	return 0, geom.Point{}, false
}

// commitPopup handles commits on popup surfaces: make sure the initial
// configure went out, then render whatever outputs the popup touches.
func (s *State) commitPopup(ev transport.Commit) {
	popup := s.popups[ev.SurfaceID]
	if popup == nil {
		return
	}
	if !popup.initialConfigureSent {
		s.positionPopup(popup)
	}
	for _, name := range s.outputOrder {
		if s.outputs[name].Geometry.OverlapsOrTouches(popup.Geometry) {
			s.scheduleRender(name)
		}
	}
}

// PopupForSurface returns the popup for a surface, nil when unknown.
func (s *State) PopupForSurface(surface transport.SurfaceID) *Popup {
	return s.popups[surface]
}
