package layout

import "github.com/nixith/pinnacle/internal/geom"

const NameGrid = "grid"

// Grid tiles windows in the smallest near-square grid that fits them.
type Grid struct{}

func (Grid) Name() string { return NameGrid }

func (Grid) Arrange(count int, box geom.Rect) []geom.Rect {
	if count <= 0 {
		return nil
	}

	cols, rows := 0, 0
	for cols*rows < count {
		cols++
		if cols*rows >= count {
			break
		}
		rows++
	}

	cellW := box.W / cols
	cellH := box.H / rows

	rects := make([]geom.Rect, 0, count)
	for i := 0; i < count; i++ {
		row, col := i/cols, i%cols
		rects = append(rects, geom.NewRect(
			box.X+col*cellW,
			box.Y+row*cellH,
			cellW,
			cellH,
		))
	}
	return rects
}
