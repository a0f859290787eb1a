// Package geom provides the integer geometry primitives shared by the
// compositor core: points, sizes and rectangles in global logical
// coordinates.
package geom

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

type Size struct {
	W int `json:"width"`
	H int `json:"height"`
}

func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

type Rect struct {
	Point `yaml:",inline"`
	Size  `yaml:",inline"`
}

func NewRect(x, y, w, h int) Rect {
	return Rect{Point: Point{X: x, Y: y}, Size: Size{W: w, H: h}}
}

func (r Rect) Loc() Point {
	return r.Point
}

func (r Rect) Dim() Size {
	return r.Size
}

// Contains reports whether p lies within r, edges inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.X+other.W && other.X < r.X+r.W &&
		r.Y < other.Y+other.H && other.Y < r.Y+r.H
}

// OverlapsOrTouches is Overlaps with shared edges counting as contact.
func (r Rect) OverlapsOrTouches(other Rect) bool {
	return r.X <= other.X+other.W && other.X <= r.X+r.W &&
		r.Y <= other.Y+other.H && other.Y <= r.Y+r.H
}

func (r Rect) Translate(by Point) Rect {
	r.Point = r.Point.Add(by)
	return r
}
