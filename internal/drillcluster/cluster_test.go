package drillcluster

import (
	"testing"

	"github.com/gerbmerge-go/panelizer/internal/geometry"
	"github.com/gerbmerge-go/panelizer/internal/job"
)

func jobWithDrills(name string, diamToTool map[string]float64, hits map[string][]geometry.Point) *job.Job {
	j := job.New(name, "outline", 1)
	j.Layers["outline"] = job.LayerStream{
		job.MoveTo(0, 0), job.LineTo(1, 0), job.LineTo(1, 1), job.LineTo(0, 1), job.LineTo(0, 0),
	}
	for tool, d := range diamToTool {
		j.Drill.Diameters[tool] = d
	}
	for tool, pts := range hits {
		j.Drill.Hits[tool] = pts
	}
	return j
}

func TestBuildGlobalToolTablesAssignsAscendingNames(t *testing.T) {
	j1 := jobWithDrills("J1", map[string]float64{"a": 0.04, "b": 0.03}, nil)
	gtrm, gtm := BuildGlobalToolTables([]*job.Job{j1})
	if gtm["T01"] != 0.03 {
		t.Errorf("T01 = %v, want smallest diameter 0.03", gtm["T01"])
	}
	if gtm["T02"] != 0.04 {
		t.Errorf("T02 = %v, want 0.04", gtm["T02"])
	}
	if gtrm[0.03] != "T01" || gtrm[0.04] != "T02" {
		t.Errorf("gtrm = %v, want reverse of gtm", gtrm)
	}
}

// Cluster never undersizes a drill: diameters 0.0299 and 0.0301 are within
// 0.0005 of each other and collapse onto the larger, 0.0301; 0.0400 is
// further than tolerance from either and stays its own representative.
func TestClusterNeverUndersizes(t *testing.T) {
	j1 := jobWithDrills("J1",
		map[string]float64{"T01": 0.0299, "T02": 0.0301, "T03": 0.0400},
		map[string][]geometry.Point{
			"T01": {{X: 0.1, Y: 0.1}},
			"T02": {{X: 0.2, Y: 0.2}},
			"T03": {{X: 0.3, Y: 0.3}},
		},
	)
	gtrm, gtm := BuildGlobalToolTables([]*job.Job{j1})
	repOf := Cluster([]*job.Job{j1}, gtrm, gtm, 0.0005)

	if repOf[0.0299] != 0.0301 {
		t.Errorf("repOf[0.0299] = %v, want 0.0301", repOf[0.0299])
	}
	if repOf[0.0301] != 0.0301 {
		t.Errorf("repOf[0.0301] = %v, want 0.0301 (itself)", repOf[0.0301])
	}
	if repOf[0.0400] != 0.0400 {
		t.Errorf("repOf[0.0400] = %v, want 0.0400 (unclustered)", repOf[0.0400])
	}

	gotDiameters := map[float64]bool{}
	for d := range gtm {
		_ = d
	}
	for _, d := range gtm {
		gotDiameters[d] = true
	}
	if len(gotDiameters) != 2 {
		t.Fatalf("expected 2 surviving representative diameters, got %v", gtm)
	}
	if !gotDiameters[0.0301] || !gotDiameters[0.0400] {
		t.Errorf("surviving representatives = %v, want {0.0301, 0.0400}", gtm)
	}

	totalHits := 0
	for _, hits := range j1.Drill.Hits {
		totalHits += len(hits)
	}
	if totalHits != 3 {
		t.Errorf("expected all 3 drill hits preserved after clustering, got %d", totalHits)
	}
}

func TestClusterMergesHitsAcrossOldTools(t *testing.T) {
	j1 := jobWithDrills("J1",
		map[string]float64{"T01": 0.0299, "T02": 0.0301},
		map[string][]geometry.Point{
			"T01": {{X: 0.1, Y: 0.1}},
			"T02": {{X: 0.2, Y: 0.2}},
		},
	)
	gtrm, gtm := BuildGlobalToolTables([]*job.Job{j1})
	Cluster([]*job.Job{j1}, gtrm, gtm, 0.0005)

	if len(j1.Drill.Hits) != 1 {
		t.Fatalf("expected hits merged onto a single tool name, got %v", j1.Drill.Hits)
	}
	for _, hits := range j1.Drill.Hits {
		if len(hits) != 2 {
			t.Errorf("expected 2 merged hits, got %d", len(hits))
		}
	}
}
