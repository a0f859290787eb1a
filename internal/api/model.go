package api

import (
	"github.com/nixith/pinnacle/internal/comp"
	"github.com/nixith/pinnacle/internal/geom"
)

type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func newRect(r geom.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.W, Height: r.H}
}

type Window struct {
	ID                    uint32   `json:"id"`
	Title                 string   `json:"title"`
	Class                 string   `json:"class"`
	Output                string   `json:"output,omitempty"`
	Tags                  []uint32 `json:"tags"`
	Geometry              *Rect    `json:"geometry,omitempty"`
	Floating              bool     `json:"floating"`
	FullscreenOrMaximized string   `json:"fullscreen_or_maximized" enum:"neither,fullscreen,maximized"`
	Focused               bool     `json:"focused"`
	Mapped                bool     `json:"mapped"`
}

type Tag struct {
	ID     uint32 `json:"id"`
	Name   string `json:"name"`
	Output string `json:"output"`
	Active bool   `json:"active"`
	Layout string `json:"layout"`
}

type Output struct {
	Name     string   `json:"name"`
	Geometry Rect     `json:"geometry"`
	Scale    float64  `json:"scale"`
	Tags     []uint32 `json:"tags"`
	Focused  bool     `json:"focused"`
}

func newWindow(st *comp.State, win *comp.Window) Window {
	out := Window{
		ID:                    uint32(win.ID),
		Title:                 win.Title,
		Class:                 win.Class,
		Tags:                  []uint32{},
		Floating:              win.Mode.Floating,
		FullscreenOrMaximized: win.FullscreenOrMaximized.String(),
		Mapped:                win.Mapped(),
	}
	for _, tg := range win.Tags {
		out.Tags = append(out.Tags, uint32(tg))
	}
	if op := st.WindowOutput(win.ID); op != nil {
		out.Output = op.Name
	}
	if rect, ok := st.WindowGeometry(win.ID); ok {
		r := newRect(rect)
		out.Geometry = &r
	}
	if focused := st.FocusedWindow(); focused != nil && focused.ID == win.ID {
		out.Focused = true
	}
	return out
}

func newTag(tag *comp.Tag) Tag {
	return Tag{
		ID:     uint32(tag.ID),
		Name:   tag.Name,
		Output: tag.Output,
		Active: tag.Active,
		Layout: tag.Layout.Name(),
	}
}

func newOutput(st *comp.State, op *comp.Output) Output {
	out := Output{
		Name:     op.Name,
		Geometry: newRect(op.Geometry),
		Scale:    op.Scale,
		Tags:     []uint32{},
	}
	for _, tg := range op.Tags {
		out.Tags = append(out.Tags, uint32(tg))
	}
	if focused := st.FocusedOutput(); focused != nil && focused.Name == op.Name {
		out.Focused = true
	}
	return out
}
