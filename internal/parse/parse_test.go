package parse

import (
	"strings"
	"testing"

	"github.com/gerbmerge-go/panelizer/internal/aperture"
)

func TestAperturesPopulatesTableUnderExplicitCodes(t *testing.T) {
	gat := aperture.NewTable()
	src := strings.NewReader(strings.Join([]string{
		"D10 circle 0.010",
		"D11 rect 0.050 0.080",
		"D12 oval 0.050 0.080",
		"D13 octagon 0.080 22.5",
		"D14 macro MACRONAME 0.5 1.0 2.0",
		"# a comment line",
		"",
	}, "\n"))
	if err := Apertures(src, gat); err != nil {
		t.Fatalf("Apertures: %v", err)
	}

	shape, ok := gat.Get("D10")
	if !ok {
		t.Fatalf("D10 not found in table")
	}
	circ, ok := shape.(aperture.Circle)
	if !ok || circ.Diameter != 0.010 {
		t.Errorf("D10 = %+v, want Circle{0.010}", shape)
	}

	shape, ok = gat.Get("D13")
	if !ok {
		t.Fatalf("D13 not found in table")
	}
	oct, ok := shape.(aperture.Octagon)
	if !ok || oct.Diameter != 0.080 || oct.Rotation != 22.5 {
		t.Errorf("D13 = %+v, want Octagon{0.080, 22.5}", shape)
	}

	shape, ok = gat.Get("D14")
	if !ok {
		t.Fatalf("D14 not found in table")
	}
	mi, ok := shape.(aperture.MacroInstance)
	if !ok || mi.MacroName != "MACRONAME" || len(mi.Params) != 3 {
		t.Errorf("D14 = %+v, want MacroInstance{MACRONAME, [0.5 1.0 2.0]}", shape)
	}
}

func TestAperturesRejectsMalformedLine(t *testing.T) {
	gat := aperture.NewTable()
	if err := Apertures(strings.NewReader("D10\n"), gat); err == nil {
		t.Errorf("expected an error for a line with no shape kind")
	}
}

func TestFixtureReadsLayersApertureAndDrill(t *testing.T) {
	gat := aperture.NewTable()
	gat.Insert("D10", aperture.Circle{Diameter: 0.02})

	src := strings.NewReader(strings.Join([]string{
		"LAYER outline",
		"M 0 0",
		"L 4 0",
		"L 4 3",
		"L 0 3",
		"L 0 0",
		"ENDLAYER",
		"LAYER topcopper",
		"A D10",
		"F 1 1",
		"ENDLAYER",
		"DRILL",
		"T T1 0.03",
		"H T1 1 1",
		"ENDDRILL",
	}, "\n"))

	j, err := Fixture(src, "J1", "outline", 1, gat)
	if err != nil {
		t.Fatalf("Fixture: %v", err)
	}
	box, err := j.BoundingBox()
	if err != nil {
		t.Fatalf("BoundingBox: %v", err)
	}
	if box.Width() != 4 || box.Height() != 3 {
		t.Errorf("BoundingBox = %+v, want 4x3", box)
	}
	if len(j.Layers["topcopper"]) != 2 {
		t.Errorf("expected 2 tokens on topcopper layer, got %d", len(j.Layers["topcopper"]))
	}
	if d := j.Drill.Diameters["T1"]; d != 0.03 {
		t.Errorf("drill diameter T1 = %v, want 0.03", d)
	}
	if len(j.Drill.Hits["T1"]) != 1 {
		t.Errorf("expected 1 drill hit for T1, got %d", len(j.Drill.Hits["T1"]))
	}
}

func TestFixtureRejectsUnknownApertureCode(t *testing.T) {
	gat := aperture.NewTable()
	src := strings.NewReader(strings.Join([]string{
		"LAYER topcopper",
		"A D99",
		"ENDLAYER",
	}, "\n"))
	if _, err := Fixture(src, "J1", "topcopper", 1, gat); err == nil {
		t.Errorf("expected an error referencing an undefined aperture code")
	}
}
