package comp

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nixith/pinnacle/internal/backend"
	"github.com/nixith/pinnacle/internal/geom"
	"github.com/nixith/pinnacle/internal/transport"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestState builds a state with one 1920x1080 output carrying a single
// active master_stack tag and a full seat.
func newTestState(t *testing.T) (*State, *backend.Recorder) {
	t.Helper()
	be := backend.NewRecorder()
	s := NewState(testLogger(), be)
	_, err := s.AddOutput("test-1", geom.NewRect(0, 0, 1920, 1080), 1)
	require.NoError(t, err)
	_, err = s.AddTag("test-1", "1", "master_stack")
	require.NoError(t, err)
	s.SetSeat(Seat{HasKeyboard: true, PointerPresent: true})
	return s, be
}

func newToplevel(s *State, surface transport.SurfaceID, class string) *transport.StubToplevel {
	handle := &transport.StubToplevel{SurfaceID: surface, WindowTitle: class, WindowClass: class}
	s.Dispatch(transport.NewToplevel{Handle: handle})
	return handle
}

// mapToplevel walks a fresh surface through the whole map handshake:
// pre-buffer commit, ack of the initial configure, first buffered commit.
func mapToplevel(t *testing.T, s *State, surface transport.SurfaceID, class string) (*Window, *transport.StubToplevel) {
	t.Helper()
	handle := newToplevel(s, surface, class)

	s.Dispatch(transport.Commit{SurfaceID: surface})
	cfg, ok := handle.LastConfigure()
	require.True(t, ok, "initial configure must precede the first buffer")
	s.Dispatch(transport.AckConfigure{SurfaceID: surface, Serial: cfg.Serial})
	s.Dispatch(transport.Commit{SurfaceID: surface, HasBuffer: true, BufferSize: geom.Size{W: 800, H: 600}})
	s.DrainPending()

	win := s.WindowForSurface(surface)
	require.NotNil(t, win)
	require.True(t, win.Mapped())
	return win, handle
}

func stubFor(t *testing.T, win *Window) *transport.StubToplevel {
	t.Helper()
	handle, ok := win.surface.(*transport.StubToplevel)
	require.True(t, ok)
	return handle
}

// ackCommit plays the client side of one resize negotiation for win.
func ackCommit(t *testing.T, s *State, win *Window) {
	t.Helper()
	handle := stubFor(t, win)
	cfg, ok := handle.LastConfigure()
	require.True(t, ok)

	size := cfg.Size
	if size.Empty() {
		size = geom.Size{W: 800, H: 600}
	}
	s.Dispatch(transport.AckConfigure{SurfaceID: handle.SurfaceID, Serial: cfg.Serial})
	s.Dispatch(transport.Commit{SurfaceID: handle.SurfaceID, HasBuffer: true, BufferSize: size})
	s.DrainPending()
}

// settle resolves every outstanding negotiation until all windows idle.
func settle(t *testing.T, s *State) {
	t.Helper()
	for i := 0; i < 16; i++ {
		progressed := false
		for _, win := range s.Windows() {
			if win.Resize.Kind == ResizeRequested {
				ackCommit(t, s, win)
				progressed = true
			}
		}
		if !progressed {
			return
		}
	}
	t.Fatal("windows did not settle")
}

func geometryOf(t *testing.T, s *State, id WindowID) geom.Rect {
	t.Helper()
	rect, ok := s.WindowGeometry(id)
	require.True(t, ok)
	return rect
}

func framesFor(be *backend.Recorder, id WindowID) int {
	n := 0
	for _, f := range be.Frames() {
		if f.WindowID == uint32(id) {
			n++
		}
	}
	return n
}
