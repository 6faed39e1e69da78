package pack

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gerbmerge-go/panelizer/internal/geometry"
	"golang.org/x/sync/errgroup"
)

// RandomSearchResult carries both the chosen tiling and the seed that
// produced it, so a run can be reproduced exactly (spec §4.5:
// "Determinism requires that the pseudo-random source be seeded from a
// recorded seed that is printed on completion").
type RandomSearchResult struct {
	Tiling Tiling
	Seed   int64
}

// RandomizedSearch repeatedly shuffles the job list, tiles the first
// exhaustiveN items exhaustively (best-fit across the current free-
// rectangle list) and greedily first-fits the rest, keeping the best
// tiling seen, until timeout elapses, cancel reports true, or maxTrials
// total shuffles have run (spec §4.5). A timeout of zero with maxTrials
// <= 0 and cancel == nil means "run until cancelled" in spirit, but since
// that would spin forever with nothing to stop it, callers in that
// configuration must supply cancel. Passing maxTrials > 0 is the
// deterministic mode used by tests and by single-seed reproductions: the
// search performs exactly maxTrials shuffle-and-place trials in total
// (shared across workers) and returns the best of them. Work fans out
// across workers goroutines (0 or negative means GOMAXPROCS-ish default)
// via errgroup, each with its own deterministically-seeded RNG derived
// from seed, updating one shared best-so-far record under a mutex (spec
// §5).
func RandomizedSearch(items []Item, panelW, panelH, sx, sy float64, exhaustiveN int, timeout time.Duration, seed int64, workers int, maxTrials int, cancel func() bool) (RandomSearchResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
		if workers < 1 {
			workers = 1
		}
	}
	panel := geometry.NewRect(0, 0, panelW, panelH)

	ctx := context.Background()
	var stop context.CancelFunc
	if timeout > 0 {
		ctx, stop = context.WithTimeout(ctx, timeout)
		defer stop()
	}

	var mu sync.Mutex
	var best Tiling
	var trialsRun int64
	deadlineReached := func() bool {
		select {
		case <-ctx.Done():
			return true
		default:
		}
		if cancel != nil && cancel() {
			return true
		}
		return maxTrials > 0 && atomic.LoadInt64(&trialsRun) >= int64(maxTrials)
	}

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		workerSeed := seed + int64(w)*1000003
		g.Go(func() error {
			rng := rand.New(rand.NewSource(workerSeed))
			order := make([]int, len(items))
			for i := range order {
				order[i] = i
			}
			for {
				select {
				case <-gctx.Done():
					return nil
				default:
				}
				if deadlineReached() {
					return nil
				}
				if maxTrials > 0 && atomic.AddInt64(&trialsRun, 1) > int64(maxTrials) {
					return nil
				}
				rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
				tiling, ok := placeGreedy(items, order, panel, sx, sy, exhaustiveN)
				if ok {
					mu.Lock()
					best = bestOf(best, tiling)
					mu.Unlock()
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return RandomSearchResult{}, err
	}

	if len(best.Placed) != len(items) {
		required := minRequiredExtent(items, sx, sy)
		return RandomSearchResult{}, &PanelTooSmall{
			RequiredW: required.Width(), RequiredH: required.Height(),
			ConfiguredW: panelW, ConfiguredH: panelH,
		}
	}
	return RandomSearchResult{Tiling: best, Seed: seed}, nil
}

// freeRect tracks one candidate empty rectangle available for placement.
type freeRect = geometry.Rect

// placeGreedy places items (in the given order) into panel: the first
// exhaustiveN placements use a best-fit search across every current free
// rectangle and both orientations (minimizing leftover area), and the rest
// use plain first-fit (first free rectangle/orientation that fits, in
// that priority), splitting the chosen free rectangle on each placement
// via the same horizontal-first guillotine rule tile.go uses.
func placeGreedy(items []Item, order []int, panel geometry.Rect, sx, sy float64, exhaustiveN int) (Tiling, bool) {
	free := []freeRect{panel}
	var placed []Placed

	for pos, oi := range order {
		it := items[oi]
		exhaustive := pos < exhaustiveN

		type candidate struct {
			rectIdx int
			w, h    float64
			rotated bool
			waste   float64
		}
		var chosen *candidate
		for ri, r := range free {
			for _, orient := range []struct {
				w, h    float64
				rotated bool
			}{
				{it.NativeW, it.NativeH, false},
				{it.RotW, it.RotH, true},
			} {
				fw, fh := orient.w+sx, orient.h+sy
				if fw > r.Width()+1e-9 || fh > r.Height()+1e-9 {
					continue
				}
				waste := r.Area() - fw*fh
				c := candidate{rectIdx: ri, w: orient.w, h: orient.h, rotated: orient.rotated, waste: waste}
				if !exhaustive {
					chosen = &c
					break
				}
				if chosen == nil || c.waste < chosen.waste {
					chosen = &c
				}
			}
			if chosen != nil && !exhaustive {
				break
			}
		}
		if chosen == nil {
			return Tiling{}, false
		}

		r := free[chosen.rectIdx]
		placed = append(placed, Placed{Item: it, X: r.MinX, Y: r.MinY, Rotated: chosen.rotated})

		fw, fh := chosen.w+sx, chosen.h+sy
		rightRect := geometry.NewRect(r.MinX+fw, r.MinY, r.MaxX, r.MaxY)
		aboveRect := geometry.NewRect(r.MinX, r.MinY+fh, r.MinX+chosen.w, r.MaxY)
		free = append(free[:chosen.rectIdx], free[chosen.rectIdx+1:]...)
		if rightRect.Width() > 1e-9 && rightRect.Height() > 1e-9 {
			free = append(free, rightRect)
		}
		if aboveRect.Width() > 1e-9 && aboveRect.Height() > 1e-9 {
			free = append(free, aboveRect)
		}
	}

	var extent geometry.Rect
	var area float64
	for i, p := range placed {
		fp := footprint(p)
		if i == 0 {
			extent = fp
		} else {
			extent = extent.Union(fp)
		}
		area += fp.Area()
	}
	return Tiling{Placed: placed, Extent: extent, Area: area}, true
}
