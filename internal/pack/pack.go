// Package pack implements the panelizer's recursive guillotine-tiling
// rectangle packer (spec §4.5): given a fixed panel rectangle and a
// multiset of jobs, each available in native and 90-degree-rotated
// orientation, it searches for a non-overlapping placement that maximizes
// used area.
//
// The search is grounded on gerbmerge.py's tiling.py/tilesearch1.py/
// tilesearch2.py trio: a depth-first exhaustive driver and a randomized
// repeated-sampling driver sharing one underlying recursive tiler. We keep
// that split (ExhaustiveSearch / RandomizedSearch) but express the
// recursion as a bitmask-indexed search whose result is a flat list of
// placed items (no tile tree is built) instead of the original's nested
// Python lists, and build the randomized driver's worker
// fan-out on golang.org/x/sync/errgroup (spec §5: "embarrassingly
// parallel... multiple workers... shared best-so-far record").
package pack

import (
	"fmt"
	"sort"

	"github.com/gerbmerge-go/panelizer/internal/geometry"
	"github.com/gerbmerge-go/panelizer/internal/job"
)

// PanelTooSmall is the domain error raised when no complete tiling fits
// within the panel (spec §7).
type PanelTooSmall struct {
	RequiredW, RequiredH   float64
	ConfiguredW, ConfiguredH float64
}

func (e *PanelTooSmall) Error() string {
	return fmt.Sprintf("panel %.3fx%.3fin is too small: placement requires at least %.3fx%.3fin",
		e.ConfiguredW, e.ConfiguredH, e.RequiredW, e.RequiredH)
}

// Cancelled is returned by ExhaustiveSearch when a cancellation signal
// arrives before any complete tiling has been found (spec §5).
var Cancelled = fmt.Errorf("pack: search cancelled")

// Item is one job instance (one of possibly Repeat copies) entered into
// the packer, carrying both its native and rotated dimensions.
type Item struct {
	Job           *job.Job
	NativeW, NativeH float64
	RotW, RotH    float64
	// Index is the item's position in the canonical (pre-sorted) job
	// order, used to break ties deterministically (spec §4.5).
	Index int
}

// Placed describes one item's chosen position and orientation within a
// completed tiling.
type Placed struct {
	Item     Item
	X, Y     float64
	Rotated  bool
}

// Tiling is a flattened result of the recursive search: every placed item
// plus the bounding extent actually used.
type Tiling struct {
	Placed []Placed
	Extent geometry.Rect
	Area   float64
}

// BuildItems sorts jobs by max(width, height) descending (spec §4.5
// "Pre-sort") and expands each job's Repeat count into that many Items,
// each carrying native and rotated dimensions.
func BuildItems(jobs []*job.Job) ([]Item, error) {
	type scored struct {
		j   *job.Job
		dim float64
	}
	scoredJobs := make([]scored, 0, len(jobs))
	for _, j := range jobs {
		d, err := j.MaxDimension()
		if err != nil {
			return nil, err
		}
		scoredJobs = append(scoredJobs, scored{j: j, dim: d})
	}
	sort.SliceStable(scoredJobs, func(i, k int) bool {
		if scoredJobs[i].dim != scoredJobs[k].dim {
			return scoredJobs[i].dim > scoredJobs[k].dim
		}
		return scoredJobs[i].j.Name < scoredJobs[k].j.Name
	})

	var items []Item
	idx := 0
	for _, sj := range scoredJobs {
		w, err := sj.j.WidthIn()
		if err != nil {
			return nil, err
		}
		h, err := sj.j.HeightIn()
		if err != nil {
			return nil, err
		}
		for c := 0; c < sj.j.Repeat; c++ {
			items = append(items, Item{Job: sj.j, NativeW: w, NativeH: h, RotW: h, RotH: w, Index: idx})
			idx++
		}
	}
	return items, nil
}

// minimumBoundingArea is the sum of each remaining item's smaller
// orientation's area, used to prune partial tilings whose remaining items
// cannot possibly fit in the free area left (spec §4.5 "Pruning").
func minimumBoundingArea(items []Item, mask []bool) float64 {
	var total float64
	for i, it := range items {
		if mask[i] {
			continue
		}
		a1 := it.NativeW * it.NativeH
		total += a1
	}
	return total
}
