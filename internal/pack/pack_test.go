package pack

import (
	"testing"
	"time"

	"github.com/gerbmerge-go/panelizer/internal/job"
)

func rectJob(name string, w, h float64, repeat int) *job.Job {
	j := job.New(name, "outline", repeat)
	j.Layers["outline"] = job.LayerStream{
		job.MoveTo(0, 0), job.LineTo(w, 0), job.LineTo(w, h), job.LineTo(0, h), job.LineTo(0, 0),
	}
	return j
}

func TestBuildItemsSortsByMaxDimensionDescending(t *testing.T) {
	small := rectJob("small", 1, 1, 1)
	big := rectJob("big", 4, 3, 1)
	items, err := BuildItems([]*job.Job{small, big})
	if err != nil {
		t.Fatalf("BuildItems: %v", err)
	}
	if items[0].Job.Name != "big" {
		t.Errorf("first item = %s, want big (larger max dimension first)", items[0].Job.Name)
	}
}

func TestBuildItemsExpandsRepeatCount(t *testing.T) {
	j := rectJob("J", 1, 1, 3)
	items, err := BuildItems([]*job.Job{j})
	if err != nil {
		t.Fatalf("BuildItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items for Repeat=3, got %d", len(items))
	}
}

// Panel 1x1, job 2x2: no tiling can fit, so the search must report
// PanelTooSmall.
func TestExhaustiveSearchPanelTooSmall(t *testing.T) {
	j := rectJob("J", 2, 2, 1)
	items, err := BuildItems([]*job.Job{j})
	if err != nil {
		t.Fatalf("BuildItems: %v", err)
	}
	_, err = ExhaustiveSearch(items, 1, 1, 0, 0, nil)
	if err == nil {
		t.Fatalf("expected an error placing a 2x2 job on a 1x1 panel")
	}
	var tooSmall *PanelTooSmall
	if !asPanelTooSmall(err, &tooSmall) {
		t.Fatalf("expected *PanelTooSmall, got %T: %v", err, err)
	}
}

func asPanelTooSmall(err error, target **PanelTooSmall) bool {
	if e, ok := err.(*PanelTooSmall); ok {
		*target = e
		return true
	}
	return false
}

// Panel 5x5, jobs 3x2 and 2x3: together they only fit if one is rotated (or
// the original dimensions already interlock); either way a complete tiling
// exists and both items must appear in the result.
func TestExhaustiveSearchFitsTwoJobs(t *testing.T) {
	a := rectJob("A", 3, 2, 1)
	b := rectJob("B", 2, 3, 1)
	items, err := BuildItems([]*job.Job{a, b})
	if err != nil {
		t.Fatalf("BuildItems: %v", err)
	}
	tiling, err := ExhaustiveSearch(items, 5, 5, 0, 0, nil)
	if err != nil {
		t.Fatalf("ExhaustiveSearch: %v", err)
	}
	if len(tiling.Placed) != 2 {
		t.Fatalf("expected both jobs placed, got %d: %+v", len(tiling.Placed), tiling.Placed)
	}
	for _, p1 := range tiling.Placed {
		for _, p2 := range tiling.Placed {
			if p1.Item.Index == p2.Item.Index {
				continue
			}
			r1 := footprint(p1)
			r2 := footprint(p2)
			if r1.Overlaps(r2) {
				t.Errorf("placed items overlap: %+v, %+v", p1, p2)
			}
		}
	}
}

func TestExhaustiveSearchRespectsSpacing(t *testing.T) {
	a := rectJob("A", 2, 2, 1)
	b := rectJob("B", 2, 2, 1)
	items, err := BuildItems([]*job.Job{a, b})
	if err != nil {
		t.Fatalf("BuildItems: %v", err)
	}
	// each item reserves its own dimension plus spacing against the split
	// boundary, so two 2-wide items with 1in spacing need a 6in-wide panel.
	tiling, err := ExhaustiveSearch(items, 6, 2, 1, 0, nil)
	if err != nil {
		t.Fatalf("ExhaustiveSearch: %v", err)
	}
	if len(tiling.Placed) != 2 {
		t.Fatalf("expected both jobs placed with spacing=1, got %d", len(tiling.Placed))
	}

	// With only 5in of width, the same pair must fail to fit.
	if _, err := ExhaustiveSearch(items, 5, 2, 1, 0, nil); err == nil {
		t.Errorf("expected PanelTooSmall when spacing leaves no room for both items")
	}
}

func TestRandomizedSearchIsReproducibleFromSeed(t *testing.T) {
	a := rectJob("A", 3, 2, 1)
	b := rectJob("B", 2, 3, 1)
	items, err := BuildItems([]*job.Job{a, b})
	if err != nil {
		t.Fatalf("BuildItems: %v", err)
	}

	run := func() (RandomSearchResult, error) {
		return RandomizedSearch(items, 5, 5, 0, 0, 1, 0, 42, 1, 20, nil)
	}

	r1, err := run()
	if err != nil {
		t.Fatalf("RandomizedSearch: %v", err)
	}
	if len(r1.Tiling.Placed) != 2 {
		t.Fatalf("expected both jobs placed, got %d", len(r1.Tiling.Placed))
	}
	if r1.Seed != 42 {
		t.Errorf("returned seed = %d, want 42", r1.Seed)
	}

	r2, err := run()
	if err != nil {
		t.Fatalf("second RandomizedSearch: %v", err)
	}
	if r1.Tiling.Area != r2.Tiling.Area {
		t.Errorf("same seed/workers/maxTrials produced different areas: %v vs %v", r1.Tiling.Area, r2.Tiling.Area)
	}
}

func TestRandomizedSearchPanelTooSmall(t *testing.T) {
	j := rectJob("J", 2, 2, 1)
	items, err := BuildItems([]*job.Job{j})
	if err != nil {
		t.Fatalf("BuildItems: %v", err)
	}
	_, err = RandomizedSearch(items, 1, 1, 0, 0, 1, 50*time.Millisecond, 1, 1, 5, nil)
	if err == nil {
		t.Fatalf("expected an error placing a 2x2 job on a 1x1 panel")
	}
	if _, ok := err.(*PanelTooSmall); !ok {
		t.Fatalf("expected *PanelTooSmall, got %T: %v", err, err)
	}
}
