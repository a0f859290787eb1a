package layout

import "github.com/nixith/pinnacle/internal/geom"

const NameMasterStack = "master_stack"

const defaultMasterFactor = 0.5

// MasterStack places the first window in a master pane on the left and
// stacks the rest in a single column on the right.
type MasterStack struct {
	// MasterFactor is the share of the output width given to the master
	// pane, in (0, 1).
	MasterFactor float64
}

func (MasterStack) Name() string { return NameMasterStack }

func (l MasterStack) Arrange(count int, box geom.Rect) []geom.Rect {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []geom.Rect{box}
	}

	factor := l.MasterFactor
	if factor <= 0 || factor >= 1 {
		factor = defaultMasterFactor
	}

	masterW := int(float64(box.W) * factor)
	rects := make([]geom.Rect, 0, count)
	rects = append(rects, geom.NewRect(box.X, box.Y, masterW, box.H))

	stackCount := count - 1
	stackX := box.X + masterW
	stackW := box.W - masterW
	stackH := box.H / stackCount
	for i := 0; i < stackCount; i++ {
		h := stackH
		if i == stackCount-1 {
			// Last window absorbs the rounding remainder.
			h = box.H - stackH*(stackCount-1)
		}
		rects = append(rects, geom.NewRect(stackX, box.Y+i*stackH, stackW, h))
	}
	return rects
}
