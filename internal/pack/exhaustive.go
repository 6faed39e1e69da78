package pack

import (
	"fmt"

	"github.com/gerbmerge-go/panelizer/internal/geometry"
)

// MaxExhaustiveItems bounds the exhaustive driver's bitmask representation
// of the remaining-item set (uint64).
const MaxExhaustiveItems = 64

// ExhaustiveSearch performs a full depth-first enumeration over (which
// job, which rotation, which corner, which split axis) at every recursion
// node, returning the single best complete tiling (spec §4.5). It ignores
// SearchTimeout (spec §5: "Exhaustive search ignores the timeout... is
// meant to run to completion") but will honor cancel, returning the best
// complete tiling found so far, or Cancelled if none exists yet.
func ExhaustiveSearch(items []Item, panelW, panelH, sx, sy float64, cancel func() bool) (Tiling, error) {
	if len(items) > MaxExhaustiveItems {
		return Tiling{}, fmt.Errorf("pack: exhaustive search supports at most %d items, got %d", MaxExhaustiveItems, len(items))
	}
	st := &searchState{items: items, sx: sx, sy: sy, cancelled: cancel}
	panel := geometry.NewRect(0, 0, panelW, panelH)
	result := fitItems(panel, fullMask(len(items)), st)
	if len(result.Placed) != len(items) {
		if cancel != nil && cancel() {
			return Tiling{}, Cancelled
		}
		required := minRequiredExtent(items, sx, sy)
		return Tiling{}, &PanelTooSmall{
			RequiredW: required.Width(), RequiredH: required.Height(),
			ConfiguredW: panelW, ConfiguredH: panelH,
		}
	}
	return result, nil
}

// minRequiredExtent reports the extent of stacking every item vertically
// (each item's height plus sy, the widest item setting the width), each in
// whichever orientation has the smaller area (native on a tie). It is the
// size of one feasible arrangement, not a lower bound, and is used only to
// populate the PanelTooSmall error (spec §4.5 "Failure").
func minRequiredExtent(items []Item, sx, sy float64) geometry.Rect {
	var w, h float64
	for _, it := range items {
		iw, ih := it.NativeW, it.NativeH
		if it.RotW*it.RotH < iw*ih {
			iw, ih = it.RotW, it.RotH
		}
		if iw > w {
			w = iw
		}
		h += ih + sy
	}
	return geometry.NewRect(0, 0, w, h)
}
