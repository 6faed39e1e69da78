package pack

import (
	"math/bits"

	"github.com/gerbmerge-go/panelizer/internal/geometry"
)

// splitAxis selects how the leftover L-shape around a freshly placed item
// is divided into two guillotine sub-rectangles (spec §4.5: "two choices of
// split axis: horizontal-then-vertical vs vertical-then-horizontal"). The
// corner an item is placed in is always a free rectangle's own lower-left
// corner -- since every free rectangle already IS the sub-space assigned by
// the enclosing split, iterating over both split axes at every node
// explores the same placements a 4-corner search would, just articulated
// as "which side gets the full remaining width/height" instead.
type splitAxis int

const (
	splitHorizontalFirst splitAxis = iota // right-of-item spans full height; above-item spans item's width
	splitVerticalFirst                     // above-item spans full width; right-of-item spans item's height
)

// searchState carries the read-only inputs to the recursive tiler plus the
// cancellation hook shared across the whole search for one call.
type searchState struct {
	items       []Item
	sx, sy      float64
	cancelled   func() bool
}

// bestOf compares two tilings and returns the one the spec prefers:
// maximize placed area, break ties by smaller bounding extent, then by the
// smaller lowest participating item index (spec §4.5). Only that lowest
// index is compared; when it is equal too, b is returned.
func bestOf(a, b Tiling) Tiling {
	if len(a.Placed) == 0 {
		return b
	}
	if len(b.Placed) == 0 {
		return a
	}
	if a.Area != b.Area {
		if a.Area > b.Area {
			return a
		}
		return b
	}
	aExt, bExt := a.Extent.Area(), b.Extent.Area()
	if aExt != bExt {
		if aExt < bExt {
			return a
		}
		return b
	}
	if lexLess(a, b) {
		return a
	}
	return b
}

func lexLess(a, b Tiling) bool {
	ai, bi := firstIndex(a), firstIndex(b)
	return ai < bi
}

func firstIndex(t Tiling) int {
	best := 1 << 30
	for _, p := range t.Placed {
		if p.Item.Index < best {
			best = p.Item.Index
		}
	}
	return best
}

// fitItems is the recursive guillotine tiler. free is the sub-rectangle
// available at this node; remaining is a bitmask over st.items of the
// items not yet placed anywhere in the tree. It returns the best tiling
// achievable within free using some subset of remaining (never required to
// use all of them -- "declares the sub-rectangle empty" is always a legal
// choice, spec §4.5).
func fitItems(free geometry.Rect, remaining uint64, st *searchState) Tiling {
	empty := Tiling{Extent: geometry.Rect{}, Area: 0}
	if remaining == 0 {
		return empty
	}
	if st.cancelled != nil && st.cancelled() {
		return empty
	}
	if minimumBoundingAreaMask(st.items, remaining) > free.Area()+1e-9 {
		return empty
	}

	best := empty
	for mask := remaining; mask != 0; mask &= mask - 1 {
		i := bits.TrailingZeros64(mask)
		it := st.items[i]
		rest := remaining &^ (uint64(1) << uint(i))

		for _, orient := range []struct {
			w, h    float64
			rotated bool
		}{
			{it.NativeW, it.NativeH, false},
			{it.RotW, it.RotH, true},
		} {
			fw, fh := orient.w+st.sx, orient.h+st.sy
			if fw > free.Width()+1e-9 || fh > free.Height()+1e-9 {
				continue
			}
			placedRect := geometry.NewRect(free.MinX, free.MinY, free.MinX+orient.w, free.MinY+orient.h)
			placed := Placed{Item: it, X: free.MinX, Y: free.MinY, Rotated: orient.rotated}

			for _, axis := range []splitAxis{splitHorizontalFirst, splitVerticalFirst} {
				var rightRect, aboveRect geometry.Rect
				switch axis {
				case splitHorizontalFirst:
					rightRect = geometry.NewRect(free.MinX+fw, free.MinY, free.MaxX, free.MaxY)
					aboveRect = geometry.NewRect(free.MinX, free.MinY+fh, free.MinX+orient.w, free.MaxY)
				case splitVerticalFirst:
					aboveRect = geometry.NewRect(free.MinX, free.MinY+fh, free.MaxX, free.MaxY)
					rightRect = geometry.NewRect(free.MinX+fw, free.MinY, free.MaxX, free.MinY+orient.h)
				}

				tilingRight := fitItems(rightRect, rest, st)
				usedInRight := usedMask(tilingRight)
				tilingAbove := fitItems(aboveRect, rest&^usedInRight, st)

				combined := Tiling{
					Placed: append(append([]Placed{placed}, tilingRight.Placed...), tilingAbove.Placed...),
				}
				combined.Area = placedRect.Area() + tilingRight.Area + tilingAbove.Area
				combined.Extent = placedRect
				for _, p := range combined.Placed {
					pr := footprint(p)
					combined.Extent = combined.Extent.Union(pr)
				}
				best = bestOf(best, combined)
			}
		}
	}
	return best
}

func footprint(p Placed) geometry.Rect {
	w, h := p.Item.NativeW, p.Item.NativeH
	if p.Rotated {
		w, h = p.Item.RotW, p.Item.RotH
	}
	return geometry.NewRect(p.X, p.Y, p.X+w, p.Y+h)
}

func usedMask(t Tiling) uint64 {
	var m uint64
	for _, p := range t.Placed {
		m |= uint64(1) << uint(p.Item.Index)
	}
	return m
}

func minimumBoundingAreaMask(items []Item, mask uint64) float64 {
	var total float64
	for mask != 0 {
		i := bits.TrailingZeros64(mask)
		it := items[i]
		a := it.NativeW * it.NativeH
		total += a
		mask &= mask - 1
	}
	return total
}

// fullMask returns a bitmask with the low n bits set.
func fullMask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}
