// Package layout holds the pluggable tiling strategies. A strategy is a
// pure function from a window count and an output box to placements; the
// compositor decides which windows participate and feeds the result into
// the configure negotiation.
package layout

import (
	"fmt"

	"github.com/nixith/pinnacle/internal/geom"
)

type Layout interface {
	Name() string

	// Arrange returns one rect per window, in window order. Calling it
	// twice with the same inputs must produce identical placements.
	Arrange(count int, box geom.Rect) []geom.Rect
}

// New resolves a strategy by its config name.
func New(name string) (Layout, error) {
	switch name {
	case "", NameMasterStack:
		return MasterStack{MasterFactor: defaultMasterFactor}, nil
	case NameGrid:
		return Grid{}, nil
	default:
		return nil, fmt.Errorf("layout %q: unknown strategy", name)
	}
}
