package comp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixith/pinnacle/internal/geom"
	"github.com/nixith/pinnacle/internal/transport"
)

func newPopup(s *State, surface, parent transport.SurfaceID, pos transport.PositionerState) *transport.StubPopup {
	handle := &transport.StubPopup{SurfaceID: surface}
	s.Dispatch(transport.NewPopup{Handle: handle, Parent: parent, Positioner: pos})
	return handle
}

func TestPopupUnconstrainedUsesDefaultGeometry(t *testing.T) {
	s, _ := newTestState(t)
	_, _ = mapToplevel(t, s, 1, "term")
	settle(t, s)

	pos := transport.PositionerState{
		AnchorRect: geom.NewRect(100, 100, 40, 20),
		Offset:     geom.Point{X: 5, Y: 10},
		Size:       geom.Size{W: 200, H: 150},
	}
	handle := newPopup(s, 2, 1, pos)

	popup := s.PopupForSurface(2)
	require.NotNil(t, popup)
	assert.Equal(t, geom.NewRect(105, 110, 200, 150), popup.Geometry)

	// Exactly one configure for the initial placement.
	require.Len(t, handle.Configures(), 1)
	assert.Equal(t, popup.Geometry, handle.Configures()[0])
}

func TestPopupFlipsOnConstrainedY(t *testing.T) {
	s, _ := newTestState(t)
	_, _ = mapToplevel(t, s, 1, "term")
	settle(t, s)

	pos := transport.PositionerState{
		AnchorRect:           geom.NewRect(0, 1000, 100, 50),
		Size:                 geom.Size{W: 200, H: 200},
		ConstraintAdjustment: transport.AdjustFlipY,
	}
	newPopup(s, 2, 1, pos)

	popup := s.PopupForSurface(2)
	require.NotNil(t, popup)

	// Flipped around the anchor center: 2*1025 - 1000 - 200.
	assert.Equal(t, geom.NewRect(0, 850, 200, 200), popup.Geometry)
}

func TestToplevelPopupSlidesInsteadOfFlippingX(t *testing.T) {
	s, _ := newTestState(t)
	_, _ = mapToplevel(t, s, 1, "term")
	settle(t, s)

	pos := transport.PositionerState{
		AnchorRect:           geom.NewRect(1800, 0, 100, 50),
		Size:                 geom.Size{W: 200, H: 100},
		ConstraintAdjustment: transport.AdjustFlipX | transport.AdjustSlideX,
	}
	newPopup(s, 2, 1, pos)

	popup := s.PopupForSurface(2)
	require.NotNil(t, popup)

	// FlipX would land at 1700; with the flip suppressed for popups of a
	// toplevel, the slide clamps against the output's right edge.
	assert.Equal(t, 1720, popup.Geometry.X)
}

func TestNestedPopupBoundsFollowParentChain(t *testing.T) {
	s, _ := newTestState(t)
	_, _ = mapToplevel(t, s, 1, "term")
	settle(t, s)

	first := transport.PositionerState{
		AnchorRect: geom.NewRect(1700, 900, 10, 10),
		Size:       geom.Size{W: 200, H: 150},
	}
	newPopup(s, 2, 1, first)
	require.Equal(t, geom.NewRect(1700, 900, 200, 150), s.PopupForSurface(2).Geometry)

	nested := transport.PositionerState{
		AnchorRect:           geom.NewRect(0, 0, 200, 20),
		Offset:               geom.Point{X: 0, Y: 20},
		Size:                 geom.Size{W: 300, H: 300},
		ConstraintAdjustment: transport.AdjustSlideX | transport.AdjustSlideY,
	}
	newPopup(s, 3, 2, nested)

	// Output bounds translated into the nested popup's local space run
	// from (-1700,-900) to (220,180); both axes slide to fit.
	assert.Equal(t, geom.NewRect(-80, -120, 300, 300), s.PopupForSurface(3).Geometry)
}

func TestPopupWithUnknownParentFallsBack(t *testing.T) {
	s, _ := newTestState(t)

	pos := transport.PositionerState{
		AnchorRect:           geom.NewRect(0, 1000, 100, 50),
		Size:                 geom.Size{W: 200, H: 200},
		ConstraintAdjustment: transport.AdjustFlipY,
	}
	newPopup(s, 2, 99, pos)

	popup := s.PopupForSurface(2)
	require.NotNil(t, popup)
	// No window backs the parent chain, so constraint solving is off the
	// table; the default geometry applies even though it is constrained.
	assert.Equal(t, geom.NewRect(0, 1000, 200, 200), popup.Geometry)
}

func TestRepositionEchoesTokenAndReconfigures(t *testing.T) {
	s, _ := newTestState(t)
	_, _ = mapToplevel(t, s, 1, "term")
	settle(t, s)

	handle := newPopup(s, 2, 1, transport.PositionerState{
		AnchorRect: geom.NewRect(10, 10, 10, 10),
		Size:       geom.Size{W: 100, H: 100},
	})
	require.Len(t, handle.Configures(), 1)

	s.Dispatch(transport.RepositionPopup{
		SurfaceID: 2,
		Positioner: transport.PositionerState{
			AnchorRect: geom.NewRect(50, 60, 10, 10),
			Size:       geom.Size{W: 120, H: 80},
		},
		Token: 7,
	})

	assert.Equal(t, []uint32{7}, handle.Repositioned())
	configures := handle.Configures()
	require.Len(t, configures, 2)
	assert.Equal(t, geom.NewRect(50, 60, 120, 80), configures[1])

	// Repositioning an unknown popup is a no-op.
	s.Dispatch(transport.RepositionPopup{SurfaceID: 42, Token: 9})
}

func TestPopupDestroyedOnSurfaceDestroy(t *testing.T) {
	s, _ := newTestState(t)
	_, _ = mapToplevel(t, s, 1, "term")
	settle(t, s)
	newPopup(s, 2, 1, transport.PositionerState{Size: geom.Size{W: 10, H: 10}})
	require.NotNil(t, s.PopupForSurface(2))

	s.Dispatch(transport.SurfaceDestroyed{SurfaceID: 2})
	assert.Nil(t, s.PopupForSurface(2))

	// The parent window is untouched.
	assert.NotNil(t, s.WindowForSurface(1))
}
