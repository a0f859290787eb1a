package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixith/pinnacle/internal/backend"
	"github.com/nixith/pinnacle/internal/comp"
	"github.com/nixith/pinnacle/internal/geom"
	"github.com/nixith/pinnacle/internal/transport"
)

func newTestServer(t *testing.T) (humatest.TestAPI, *Server, *comp.Loop) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	be := backend.NewRecorder()

	state := comp.NewState(log, be)
	_, err := state.AddOutput("test-1", geom.NewRect(0, 0, 1920, 1080), 1)
	require.NoError(t, err)
	_, err = state.AddTag("test-1", "1", "master_stack")
	require.NoError(t, err)

	loop := comp.NewLoop(log, state, transport.NewChannel(16))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go loop.Serve(ctx)

	server := NewServer(log, loop, be, cancel)
	_, api := humatest.New(t)
	server.register(api)
	return api, server, loop
}

// mapWindow drives a stub surface through the map handshake on the loop.
func mapWindow(t *testing.T, loop *comp.Loop, surface transport.SurfaceID, class string) comp.WindowID {
	t.Helper()
	ctx := context.Background()
	handle := &transport.StubToplevel{SurfaceID: surface, WindowTitle: class, WindowClass: class}

	var id comp.WindowID
	var configured bool
	require.NoError(t, loop.Run(ctx, func(s *comp.State) {
		s.Dispatch(transport.NewToplevel{Handle: handle})
		s.Dispatch(transport.Commit{SurfaceID: surface})
		cfg, ok := handle.LastConfigure()
		if !ok {
			return
		}
		configured = true
		s.Dispatch(transport.AckConfigure{SurfaceID: surface, Serial: cfg.Serial})
		s.Dispatch(transport.Commit{SurfaceID: surface, HasBuffer: true, BufferSize: geom.Size{W: 800, H: 600}})
		id = s.WindowForSurface(surface).ID
	}))
	require.True(t, configured)
	return id
}

func TestListWindows(t *testing.T) {
	api, _, loop := newTestServer(t)

	resp := api.Get("/windows")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", strings.TrimSpace(resp.Body.String()))

	id := mapWindow(t, loop, 1, "term")

	resp = api.Get("/windows")
	require.Equal(t, http.StatusOK, resp.Code)

	var windows []Window
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &windows))
	require.Len(t, windows, 1)
	assert.Equal(t, uint32(id), windows[0].ID)
	assert.Equal(t, "term", windows[0].Class)
	assert.Equal(t, "test-1", windows[0].Output)
}

func TestGetWindowNotFound(t *testing.T) {
	api, _, _ := newTestServer(t)
	resp := api.Get("/windows/99")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSetFloatingToggle(t *testing.T) {
	api, _, loop := newTestServer(t)
	id := mapWindow(t, loop, 1, "term")

	resp := api.Post("/windows/1/set-floating", map[string]any{"mode": "toggle"})
	require.Equal(t, http.StatusNoContent, resp.Code)

	floating, err := comp.Query(context.Background(), loop, func(s *comp.State) (bool, error) {
		return s.Window(id).Mode.Floating, nil
	})
	require.NoError(t, err)
	assert.True(t, floating)
}

func TestMutationFollowsPathWindowID(t *testing.T) {
	api, _, loop := newTestServer(t)
	a := mapWindow(t, loop, 1, "a")
	b := mapWindow(t, loop, 2, "b")

	resp := api.Post("/windows/2/set-fullscreen", map[string]any{"mode": "set"})
	require.Equal(t, http.StatusNoContent, resp.Code)

	states, err := comp.Query(context.Background(), loop, func(s *comp.State) ([2]comp.FullscreenOrMaximized, error) {
		return [2]comp.FullscreenOrMaximized{
			s.Window(a).FullscreenOrMaximized,
			s.Window(b).FullscreenOrMaximized,
		}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, comp.Neither, states[0])
	assert.Equal(t, comp.Fullscreen, states[1])
}

func TestSetFloatingRejectsUnknownMode(t *testing.T) {
	api, _, _ := newTestServer(t)
	resp := api.Post("/windows/1/set-floating", map[string]any{"mode": "flip"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestMutationOnStaleWindowIsNoOp(t *testing.T) {
	api, _, _ := newTestServer(t)
	resp := api.Post("/windows/42/close")
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestGammaUnsupportedOnRecorderBackend(t *testing.T) {
	api, _, _ := newTestServer(t)

	resp := api.Get("/outputs/nope/gamma")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = api.Get("/outputs/test-1/gamma")
	assert.Equal(t, http.StatusNotImplemented, resp.Code)
}

func TestListTagsAndSetActive(t *testing.T) {
	api, _, _ := newTestServer(t)

	resp := api.Get("/tags")
	require.Equal(t, http.StatusOK, resp.Code)
	var tags []Tag
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tags))
	require.Len(t, tags, 1)
	assert.True(t, tags[0].Active)
	assert.Equal(t, "master_stack", tags[0].Layout)

	resp = api.Post("/tags/1/set-active", map[string]any{"mode": "unset"})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.Get("/tags")
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tags))
	assert.False(t, tags[0].Active)
}

func TestAddWindowRuleAppliesToNewWindows(t *testing.T) {
	api, _, loop := newTestServer(t)

	resp := api.Post("/window-rules", map[string]any{
		"cond": map[string]any{"classes": []string{"mpv"}},
		"rule": map[string]any{"floating": true, "width": 640, "height": 360},
	})
	require.Equal(t, http.StatusNoContent, resp.Code)

	id := mapWindow(t, loop, 1, "mpv")
	floating, err := comp.Query(context.Background(), loop, func(s *comp.State) (bool, error) {
		return s.Window(id).Mode.Floating, nil
	})
	require.NoError(t, err)
	assert.True(t, floating)
}

func TestAddWindowRuleRejectsBadFullscreenValue(t *testing.T) {
	api, _, _ := newTestServer(t)
	resp := api.Post("/window-rules", map[string]any{
		"cond": map[string]any{"classes": []string{"mpv"}},
		"rule": map[string]any{"fullscreen_or_maximized": "sideways"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

// mapWindowOnScreen maps a window and resolves the layout negotiation so
// it sits at real geometry, with a full seat and the pointer at pos.
func mapWindowOnScreen(t *testing.T, loop *comp.Loop, surface transport.SurfaceID, class string, pos geom.Point) comp.WindowID {
	t.Helper()
	handle := &transport.StubToplevel{SurfaceID: surface, WindowTitle: class, WindowClass: class}

	var id comp.WindowID
	require.NoError(t, loop.Run(context.Background(), func(s *comp.State) {
		s.SetSeat(comp.Seat{HasKeyboard: true, PointerPresent: true})
		s.Dispatch(transport.NewToplevel{Handle: handle})
		s.Dispatch(transport.Commit{SurfaceID: surface})
		if cfg, ok := handle.LastConfigure(); ok {
			s.Dispatch(transport.AckConfigure{SurfaceID: surface, Serial: cfg.Serial})
		}
		s.Dispatch(transport.Commit{SurfaceID: surface, HasBuffer: true, BufferSize: geom.Size{W: 800, H: 600}})
		id = s.WindowForSurface(surface).ID

		// Resolve the layout negotiation so the pointer lands on real
		// geometry.
		if cfg, ok := handle.LastConfigure(); ok && !cfg.Size.Empty() {
			s.Dispatch(transport.AckConfigure{SurfaceID: surface, Serial: cfg.Serial})
			s.Dispatch(transport.Commit{SurfaceID: surface, HasBuffer: true, BufferSize: cfg.Size})
		}
		s.Dispatch(transport.PointerMotion{Pos: pos})
	}))
	return id
}

func TestBeginMoveGrabGrabsWindowUnderPointer(t *testing.T) {
	api, _, loop := newTestServer(t)
	id := mapWindowOnScreen(t, loop, 1, "term", geom.Point{X: 100, Y: 100})

	resp := api.Post("/grabs/move", map[string]any{"button": 0x110})
	require.Equal(t, http.StatusNoContent, resp.Code)

	grab, err := comp.Query(context.Background(), loop, func(s *comp.State) (*comp.Grab, error) {
		return s.ActiveGrab(), nil
	})
	require.NoError(t, err)
	require.NotNil(t, grab)
	assert.Equal(t, comp.GrabMove, grab.Kind)
	assert.Equal(t, id, grab.Window)
}

func TestBeginResizeGrabRefusedForTiledWindow(t *testing.T) {
	api, _, loop := newTestServer(t)
	mapWindowOnScreen(t, loop, 1, "term", geom.Point{X: 100, Y: 100})

	resp := api.Post("/grabs/resize", map[string]any{"button": 0x110})
	require.Equal(t, http.StatusNoContent, resp.Code)

	grab, err := comp.Query(context.Background(), loop, func(s *comp.State) (*comp.Grab, error) {
		return s.ActiveGrab(), nil
	})
	require.NoError(t, err)
	assert.Nil(t, grab)
}

func TestEventStreamHubDeliversWindowMapped(t *testing.T) {
	_, server, loop := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mapped, unsub := server.mapped.Subscribe(ctx)
	defer unsub()

	got := make(chan comp.EventWindowMapped, 1)
	go func() {
		select {
		case ev := <-mapped:
			got <- ev
		case <-ctx.Done():
		}
	}()

	id := mapWindow(t, loop, 1, "term")

	select {
	case ev := <-got:
		assert.Equal(t, id, ev.Window)
	case <-time.After(time.Second):
		t.Fatal("window-mapped event not delivered")
	}
}

func TestDebugStateDump(t *testing.T) {
	_, server, loop := newTestServer(t)
	mapWindow(t, loop, 1, "term")

	router := server.Router()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "term")
}

func TestListOutputs(t *testing.T) {
	api, _, _ := newTestServer(t)

	resp := api.Get("/outputs")
	require.Equal(t, http.StatusOK, resp.Code)

	var outputs []Output
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &outputs))
	require.Len(t, outputs, 1)
	assert.Equal(t, "test-1", outputs[0].Name)
	assert.True(t, outputs[0].Focused)
	assert.Equal(t, 1920, outputs[0].Geometry.Width)
}
