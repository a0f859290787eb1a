package comp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixith/pinnacle/internal/geom"
	"github.com/nixith/pinnacle/internal/transport"
)

func TestRuleFloatsMatchingClassAtRect(t *testing.T) {
	s, _ := newTestState(t)
	s.AddWindowRule(RuleCondition{Classes: []string{"mpv"}}, Rule{
		Floating: ptr(true),
		Size:     &geom.Size{W: 640, H: 360},
		Location: &geom.Point{X: 200, Y: 120},
	})

	win, _ := mapToplevel(t, s, 1, "mpv")
	settle(t, s)

	assert.True(t, win.Mode.Floating)
	assert.Equal(t, geom.NewRect(200, 120, 640, 360), geometryOf(t, s, win.ID))

	other, _ := mapToplevel(t, s, 2, "term")
	settle(t, s)
	assert.False(t, other.Mode.Floating)
}

func TestRuleFloatingWithoutRectIsCentered(t *testing.T) {
	s, _ := newTestState(t)
	s.AddWindowRule(RuleCondition{Classes: []string{"pavucontrol"}}, Rule{Floating: ptr(true)})

	win, _ := mapToplevel(t, s, 1, "pavucontrol")
	settle(t, s)

	// Centered on the focused output at its buffer size.
	assert.Equal(t, geom.NewRect(560, 240, 800, 600), geometryOf(t, s, win.ID))
	assert.True(t, win.Mode.Floating)
}

func TestRuleAnyAllComposition(t *testing.T) {
	s, _ := newTestState(t)
	s.AddWindowRule(RuleCondition{
		All: []RuleCondition{
			{Any: []RuleCondition{{Classes: []string{"firefox"}}, {Classes: []string{"chromium"}}}},
			{Titles: []string{"Downloads"}},
		},
	}, Rule{Floating: ptr(true)})

	handle := &transport.StubToplevel{SurfaceID: 1, WindowTitle: "Downloads", WindowClass: "chromium"}
	s.Dispatch(transport.NewToplevel{Handle: handle})
	s.Dispatch(transport.Commit{SurfaceID: 1})
	cfg, ok := handle.LastConfigure()
	require.True(t, ok)
	s.Dispatch(transport.AckConfigure{SurfaceID: 1, Serial: cfg.Serial})
	s.Dispatch(transport.Commit{SurfaceID: 1, HasBuffer: true, BufferSize: geom.Size{W: 800, H: 600}})
	s.DrainPending()

	win := s.WindowForSurface(1)
	require.NotNil(t, win)
	settle(t, s)
	assert.True(t, win.Mode.Floating)

	miss, _ := mapToplevel(t, s, 2, "chromium")
	settle(t, s)
	assert.False(t, miss.Mode.Floating, "title leg of the All must also match")
}

func TestLaterRuleWinsOnConflict(t *testing.T) {
	s, _ := newTestState(t)
	s.AddWindowRule(RuleCondition{Classes: []string{"term"}}, Rule{Floating: ptr(true)})
	s.AddWindowRule(RuleCondition{Classes: []string{"term"}}, Rule{Floating: ptr(false)})

	win, _ := mapToplevel(t, s, 1, "term")
	settle(t, s)
	assert.False(t, win.Mode.Floating)
}

func TestRuleRetagsOntoNamedOutput(t *testing.T) {
	s, _ := newTestState(t)
	remote := addSecondOutput(t, s)
	s.AddWindowRule(RuleCondition{Classes: []string{"term"}}, Rule{Output: ptr("test-2")})

	win, _ := mapToplevel(t, s, 1, "term")
	settle(t, s)

	assert.Equal(t, []TagID{remote}, win.Tags)
	require.NotNil(t, s.WindowOutput(win.ID))
	assert.Equal(t, "test-2", s.WindowOutput(win.ID).Name)
	assert.Equal(t, geom.NewRect(1920, 0, 1280, 720), geometryOf(t, s, win.ID))
}

func TestRuleTagsFilterUnknownIDs(t *testing.T) {
	s, _ := newTestState(t)
	www, err := s.AddTag("test-1", "www", "master_stack")
	require.NoError(t, err)
	s.AddWindowRule(RuleCondition{Classes: []string{"term"}}, Rule{Tags: []TagID{www, 999}})

	win, _ := mapToplevel(t, s, 1, "term")
	settle(t, s)
	assert.Equal(t, []TagID{www}, win.Tags)
}

func TestRuleFullscreenOnMap(t *testing.T) {
	s, _ := newTestState(t)
	fs := Fullscreen
	s.AddWindowRule(RuleCondition{Classes: []string{"game"}}, Rule{FullscreenOrMaximized: &fs})

	win, _ := mapToplevel(t, s, 1, "game")
	settle(t, s)
	assert.Equal(t, Fullscreen, win.FullscreenOrMaximized)
	assert.Equal(t, geom.NewRect(0, 0, 1920, 1080), geometryOf(t, s, win.ID))
}

func TestRuleTagConditionMatchesInheritedTags(t *testing.T) {
	s, _ := newTestState(t)
	first := s.Tags()[0].ID
	s.AddWindowRule(RuleCondition{Tags: []TagID{first}}, Rule{Floating: ptr(true)})

	win, _ := mapToplevel(t, s, 1, "term")
	settle(t, s)
	assert.True(t, win.Mode.Floating)
}
