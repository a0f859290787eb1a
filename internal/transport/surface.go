package transport

import "github.com/nixith/pinnacle/internal/geom"

// Toplevel is the client handle for an application window. The frontend
// owns the wire objects; the core only proposes state through it.
type Toplevel interface {
	ID() SurfaceID

	// Alive reports whether the protocol object still exists. Operations
	// on a dead handle are no-ops on the frontend side.
	Alive() bool

	Title() string
	Class() string

	SendConfigure(cfg Configure)
	RequestClose()
	SetActivated(activated bool)
}

// CompatSurface is a compatibility-layer (X11-style) surface. It speaks
// the same capability interface; the frontend synthesizes acknowledgments
// since the compatibility protocol applies geometry immediately.
type CompatSurface interface {
	Toplevel

	// OverrideRedirect surfaces (menus, tooltips) position themselves and
	// must not be closed, focused or grabbed by the compositor.
	OverrideRedirect() bool
}

// Popup is the client handle for a transient popup surface.
type Popup interface {
	ID() SurfaceID
	Alive() bool

	SendConfigure(rect geom.Rect)
	SendRepositioned(token uint32)
}

// ConstraintAdjustment is the positioner's bitmask of allowed strategies
// for resolving a constrained popup geometry.
type ConstraintAdjustment uint32

const (
	AdjustSlideX ConstraintAdjustment = 1 << iota
	AdjustSlideY
	AdjustFlipX
	AdjustFlipY
	AdjustResizeX
	AdjustResizeY
)

func (c ConstraintAdjustment) Has(flag ConstraintAdjustment) bool {
	return c&flag != 0
}

func (c ConstraintAdjustment) Without(flag ConstraintAdjustment) ConstraintAdjustment {
	return c &^ flag
}

// PositionerState is the client-supplied popup positioning configuration,
// consumed once per (re)position request.
type PositionerState struct {
	AnchorRect           geom.Rect
	Offset               geom.Point
	Size                 geom.Size
	ConstraintAdjustment ConstraintAdjustment
}

type (
	// NewToplevel announces a client toplevel surface. No buffer exists
	// yet; the first configure is sent before any buffer is accepted.
	NewToplevel struct {
		Handle Toplevel
	}

	// NewCompatSurface announces a compatibility-layer surface.
	NewCompatSurface struct {
		Handle CompatSurface
	}

	// NewPopup announces a popup. Parent is the surface the popup is
	// positioned relative to, which may itself be a popup.
	NewPopup struct {
		Handle     Popup
		Parent     SurfaceID
		Positioner PositionerState
	}

	// RepositionPopup asks for a new popup geometry under a fresh
	// positioner. Token is echoed back with the repositioned event.
	RepositionPopup struct {
		SurfaceID  SurfaceID
		Positioner PositionerState
		Token      uint32
	}
)

func (m NewToplevel) Surface() SurfaceID      { return m.Handle.ID() }
func (m NewCompatSurface) Surface() SurfaceID { return m.Handle.ID() }
func (m NewPopup) Surface() SurfaceID         { return m.Handle.ID() }
func (m RepositionPopup) Surface() SurfaceID  { return m.SurfaceID }
