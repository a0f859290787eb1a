package geom

// Edge identifies the window corner a resize grab is locked to.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeTopLeft
	EdgeTopRight
	EdgeBottomLeft
	EdgeBottomRight
)

func (e Edge) String() string {
	switch e {
	case EdgeTopLeft:
		return "top_left"
	case EdgeTopRight:
		return "top_right"
	case EdgeBottomLeft:
		return "bottom_left"
	case EdgeBottomRight:
		return "bottom_right"
	default:
		return "none"
	}
}

// EdgeUnder maps a pointer position to the quadrant of rect it falls in.
// The rect is partitioned by its horizontal and vertical midlines with
// inclusive ranges, so a pointer exactly on a midline resolves to the
// lower-indexed quadrant. Positions outside rect resolve to EdgeNone.
func EdgeUnder(rect Rect, pointer Point) Edge {
	left := rect.X
	top := rect.Y
	halfW := rect.X + rect.W/2
	halfH := rect.Y + rect.H/2
	right := rect.X + rect.W
	bottom := rect.Y + rect.H

	x, y := pointer.X, pointer.Y
	switch {
	case x >= left && x <= halfW && y >= top && y <= halfH:
		return EdgeTopLeft
	case x >= halfW && x <= right && y >= top && y <= halfH:
		return EdgeTopRight
	case x >= left && x <= halfW && y >= halfH && y <= bottom:
		return EdgeBottomLeft
	case x >= halfW && x <= right && y >= halfH && y <= bottom:
		return EdgeBottomRight
	default:
		return EdgeNone
	}
}
