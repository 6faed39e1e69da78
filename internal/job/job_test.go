package job

import (
	"testing"

	"github.com/gerbmerge-go/panelizer/internal/aperture"
	"github.com/gerbmerge-go/panelizer/internal/geometry"
)

func rectOutlineJob(name string, x0, y0, x1, y1 float64) *Job {
	j := New(name, "outline", 1)
	j.Layers["outline"] = LayerStream{
		SelectAperture("D10"),
		MoveTo(x0, y0),
		LineTo(x1, y0),
		LineTo(x1, y1),
		LineTo(x0, y1),
		LineTo(x0, y0),
	}
	return j
}

func TestBoundingBoxUsesOnlyOutlineLayer(t *testing.T) {
	j := rectOutlineJob("J1", 0, 0, 4, 3)
	// a non-outline layer extends well beyond the outline; must be ignored.
	j.Layers["copper"] = LayerStream{
		SelectAperture("D11"),
		MoveTo(-100, -100),
		LineTo(100, 100),
	}
	box, err := j.BoundingBox()
	if err != nil {
		t.Fatalf("BoundingBox: %v", err)
	}
	want := geometry.NewRect(0, 0, 4, 3)
	if box != want {
		t.Errorf("BoundingBox = %+v, want %+v", box, want)
	}
}

func TestBoundingBoxErrorsOnMissingOutline(t *testing.T) {
	j := New("J1", "outline", 1)
	if _, err := j.BoundingBox(); err == nil {
		t.Errorf("expected an error for a job with no outline layer")
	}
}

func TestShiftToPositiveIsIdempotent(t *testing.T) {
	j := rectOutlineJob("J1", -2, -1, 2, 2)
	j.ShiftToPositive()
	box, err := j.BoundingBox()
	if err != nil {
		t.Fatalf("BoundingBox: %v", err)
	}
	if box.MinX != 0 || box.MinY != 0 {
		t.Fatalf("after first ShiftToPositive, box = %+v, want min at origin", box)
	}

	// second call must be a no-op
	before := make(LayerStream, len(j.Layers["outline"]))
	copy(before, j.Layers["outline"])
	j.ShiftToPositive()
	after := j.Layers["outline"]
	if len(before) != len(after) {
		t.Fatalf("token count changed across idempotent ShiftToPositive")
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("token %d changed on idempotent ShiftToPositive: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestShiftToPositiveConsidersDrillHits(t *testing.T) {
	j := rectOutlineJob("J1", 0, 0, 4, 3)
	j.Drill.Diameters["T1"] = 0.03
	j.Drill.Hits["T1"] = []geometry.Point{{X: -1, Y: 0.5}}
	j.ShiftToPositive()
	hit := j.Drill.Hits["T1"][0]
	if hit.X < 0 {
		t.Errorf("drill hit still negative after ShiftToPositive: %+v", hit)
	}
	box, err := j.BoundingBox()
	if err != nil {
		t.Fatalf("BoundingBox: %v", err)
	}
	if box.MinX != 1 {
		// outline shifted by +1 to compensate for the drill hit's -1
		t.Errorf("outline MinX = %v, want 1", box.MinX)
	}
}

func TestRotate90SwapsWidthAndHeight(t *testing.T) {
	j := rectOutlineJob("J1", 0, 0, 4, 3)
	gat := aperture.NewTable()
	gat.Insert("D10", aperture.Circle{Diameter: 0.02})

	rj, err := j.Rotate90(gat)
	if err != nil {
		t.Fatalf("Rotate90: %v", err)
	}
	w, err := rj.WidthIn()
	if err != nil {
		t.Fatalf("WidthIn: %v", err)
	}
	h, err := rj.HeightIn()
	if err != nil {
		t.Fatalf("HeightIn: %v", err)
	}
	if w != 3 || h != 4 {
		t.Errorf("rotated dims = %v x %v, want 3 x 4", w, h)
	}
}

func TestTrimGerberIdempotent(t *testing.T) {
	j := rectOutlineJob("J1", 0, 0, 4, 3)
	j.Layers["copper"] = LayerStream{
		SelectAperture("D11"),
		MoveTo(-1, 1),
		LineTo(5, 1),
	}
	if err := j.TrimGerber(); err != nil {
		t.Fatalf("TrimGerber: %v", err)
	}
	first := make(LayerStream, len(j.Layers["copper"]))
	copy(first, j.Layers["copper"])

	if err := j.TrimGerber(); err != nil {
		t.Fatalf("second TrimGerber: %v", err)
	}
	second := j.Layers["copper"]
	if len(first) != len(second) {
		t.Fatalf("token count changed on idempotent TrimGerber: %v -> %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d changed on idempotent TrimGerber: %+v -> %+v", i, first[i], second[i])
		}
	}
}

func TestTrimGerberClipsOutOfBoundsDraw(t *testing.T) {
	j := rectOutlineJob("J1", 0, 0, 4, 3)
	j.Layers["copper"] = LayerStream{
		MoveTo(-1, 1),
		LineTo(5, 1),
	}
	if err := j.TrimGerber(); err != nil {
		t.Fatalf("TrimGerber: %v", err)
	}
	// Move-to tokens draw nothing and keep their original coordinates;
	// only the draws must lie within the box.
	for _, tok := range j.Layers["copper"] {
		if tok.IsApertureSelect() || tok.Op == OpMoveTo {
			continue
		}
		if tok.X < -1e-9 || tok.X > 4+1e-9 {
			t.Errorf("token %+v has X outside [0,4] after trim", tok)
		}
	}
}

func TestTrimExcellonDropsOutOfBoundsHits(t *testing.T) {
	j := rectOutlineJob("J1", 0, 0, 4, 3)
	j.Drill.Diameters["T1"] = 0.03
	j.Drill.Hits["T1"] = []geometry.Point{{X: 1, Y: 1}, {X: 10, Y: 10}}
	if err := j.TrimExcellon(); err != nil {
		t.Fatalf("TrimExcellon: %v", err)
	}
	hits := j.Drill.Hits["T1"]
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit to survive trim, got %d: %v", len(hits), hits)
	}
	if hits[0] != (geometry.Point{X: 1, Y: 1}) {
		t.Errorf("surviving hit = %+v, want (1,1)", hits[0])
	}
}
