package aperture

import "testing"

func TestTableFindOrAddReusesEqualShape(t *testing.T) {
	tbl := NewTable()
	c1 := tbl.FindOrAdd(Circle{Diameter: 0.02})
	c2 := tbl.FindOrAdd(Circle{Diameter: 0.02})
	if c1 != c2 {
		t.Errorf("FindOrAdd allocated two codes for the same shape: %s, %s", c1, c2)
	}
	c3 := tbl.FindOrAdd(Circle{Diameter: 0.03})
	if c3 == c1 {
		t.Errorf("FindOrAdd reused a code for a distinct shape")
	}
}

func TestTableFirstCodeIsD10(t *testing.T) {
	tbl := NewTable()
	got := tbl.FindOrAdd(Circle{Diameter: 0.01})
	if got != "D10" {
		t.Errorf("first allocated code = %s, want D10", got)
	}
}

func TestTableInsertPreservesExplicitCodeAndAdvancesCounter(t *testing.T) {
	tbl := NewTable()
	got := tbl.Insert("D42", Rect{W: 0.05, H: 0.08})
	if got != "D42" {
		t.Errorf("Insert returned %s, want D42", got)
	}
	next := tbl.FindOrAdd(Circle{Diameter: 0.09})
	if next != "D43" {
		t.Errorf("next allocated code after Insert(D42,...) = %s, want D43", next)
	}
}

func TestTableInsertDedupesAgainstExistingShape(t *testing.T) {
	tbl := NewTable()
	first := tbl.Insert("D10", Circle{Diameter: 0.02})
	second := tbl.Insert("D20", Circle{Diameter: 0.02})
	if second != first {
		t.Errorf("Insert of an equal shape under a new code = %s, want existing code %s", second, first)
	}
}

func TestGetAdjustedGrowsOnlyWhenBelowMinimum(t *testing.T) {
	tbl := NewTable()
	code := tbl.FindOrAdd(Circle{Diameter: 0.004})

	grown, changed, err := tbl.GetAdjusted(code, 0.008)
	if err != nil {
		t.Fatalf("GetAdjusted: %v", err)
	}
	if !changed {
		t.Fatalf("expected GetAdjusted to report a change for an undersized aperture")
	}
	if grown.DimX() != 0.008 {
		t.Errorf("grown diameter = %v, want 0.008", grown.DimX())
	}

	code2 := tbl.FindOrAdd(Circle{Diameter: 0.02})
	_, changed2, err := tbl.GetAdjusted(code2, 0.008)
	if err != nil {
		t.Fatalf("GetAdjusted: %v", err)
	}
	if changed2 {
		t.Errorf("expected no change for an aperture already meeting the minimum")
	}
}

func TestGetAdjustedUnknownCode(t *testing.T) {
	tbl := NewTable()
	if _, _, err := tbl.GetAdjusted("D999", 0.01); err == nil {
		t.Errorf("expected an error for an unknown code")
	}
}

func TestCodesAreInAscendingNumericOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Insert("D15", Circle{Diameter: 0.01})
	tbl.Insert("D10", Circle{Diameter: 0.02})
	tbl.Insert("D12", Circle{Diameter: 0.03})
	codes := tbl.Codes()
	want := []string{"D10", "D12", "D15"}
	for i, c := range want {
		if codes[i] != c {
			t.Errorf("Codes()[%d] = %s, want %s (full: %v)", i, codes[i], c, codes)
		}
	}
}

func TestRectGrowsEachAxisIndependently(t *testing.T) {
	r := Rect{W: 0.003, H: 0.01}
	grown, ok := r.Grow(0.008)
	if !ok {
		t.Fatalf("expected Grow to report a change")
	}
	gr := grown.(Rect)
	if gr.W != 0.008 {
		t.Errorf("grown W = %v, want 0.008", gr.W)
	}
	if gr.H != 0.01 {
		t.Errorf("grown H = %v, want unchanged 0.01", gr.H)
	}
}

func TestCircleGrowNoopWhenAlreadyLargeEnough(t *testing.T) {
	c := Circle{Diameter: 0.02}
	_, ok := c.Grow(0.01)
	if ok {
		t.Errorf("Grow reported a change for a shape already meeting the minimum")
	}
}

func TestOctagonEqualWithinRequiresSameRotation(t *testing.T) {
	a := Octagon{Diameter: 0.08, Rotation: 0}
	b := Octagon{Diameter: 0.08, Rotation: 22.5}
	if a.EqualWithin(b, 1e-7) {
		t.Errorf("octagons with different rotation reported equal")
	}
}

func TestMacroInstanceEqualWithinComparesParams(t *testing.T) {
	a := MacroInstance{MacroName: "FOO", Params: []float64{0.5, 1.0}}
	b := MacroInstance{MacroName: "FOO", Params: []float64{0.5, 1.0000001}}
	if !a.EqualWithin(b, 1e-6) {
		t.Errorf("nearly-identical macro params reported unequal within tolerance")
	}
	c := MacroInstance{MacroName: "BAR", Params: []float64{0.5, 1.0}}
	if a.EqualWithin(c, 1e-6) {
		t.Errorf("macro instances with different names reported equal")
	}
}

func TestRotate90SwapsRectAndOvalLeavesCircleAndOctagon(t *testing.T) {
	if got := Rotate90(Rect{W: 0.05, H: 0.08}); got != (Rect{W: 0.08, H: 0.05}) {
		t.Errorf("Rotate90(Rect) = %+v, want swapped dims", got)
	}
	if got := Rotate90(Oval{W: 0.05, H: 0.08}); got != (Oval{W: 0.08, H: 0.05}) {
		t.Errorf("Rotate90(Oval) = %+v, want swapped dims", got)
	}
	c := Circle{Diameter: 0.02}
	if got := Rotate90(c); got != c {
		t.Errorf("Rotate90(Circle) should be a no-op, got %+v", got)
	}
	o := Octagon{Diameter: 0.08, Rotation: 0}
	if got := Rotate90(o); got != o {
		t.Errorf("Rotate90(Octagon) should be a no-op, got %+v", got)
	}
}

func TestMacroTableFindOrAddDedupesByBody(t *testing.T) {
	gamt := NewMacroTable()
	n1 := gamt.FindOrAdd("MACRO1", "%AMOC8*body*%")
	n2 := gamt.FindOrAdd("MACRO2", "%AMOC8*body*%")
	if n2 != n1 {
		t.Errorf("FindOrAdd with an identical body allocated a second name: %s, %s", n1, n2)
	}
}
