package merge

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
)

// Stats holds the run summary gerbmerge.py prints to stdout at the end
// of a merge (spec §4.7 "Statistics (printed, not returned)"); the
// panelizer CLI is responsible for printing it, this type just computes
// and formats it.
type Stats struct {
	PlacedArea            float64
	PanelArea              float64
	UtilizationPct         float64
	DrillHitCount          int
	DrillDensity           float64 // hits per square inch of placed area
	SmallestDrillDiameter  float64
	HitsPerTool            map[string]int
}

// ComputeStats derives Stats from the current placement and config.
func (m *Merger) ComputeStats() (Stats, error) {
	var placedArea float64
	for _, e := range m.Placement.Entries {
		fp, err := e.Footprint()
		if err != nil {
			return Stats{}, err
		}
		placedArea += fp.Area()
	}

	hitsPerTool := make(map[string]int)
	total := 0
	smallest := math.Inf(1)
	for _, e := range m.Placement.Entries {
		for tool, hits := range e.Job.Drill.Hits {
			hitsPerTool[tool] += len(hits)
			total += len(hits)
		}
		for _, diam := range e.Job.Drill.Diameters {
			if diam < smallest {
				smallest = diam
			}
		}
	}
	if total == 0 {
		smallest = 0
	}

	panelArea := m.Config.PanelWidth * m.Config.PanelHeight
	util := 0.0
	if panelArea > 0 {
		util = placedArea / panelArea * 100
	}
	density := 0.0
	if placedArea > 0 {
		density = float64(total) / placedArea
	}

	return Stats{
		PlacedArea:            placedArea,
		PanelArea:              panelArea,
		UtilizationPct:         util,
		DrillHitCount:          total,
		DrillDensity:           density,
		SmallestDrillDiameter:  smallest,
		HitsPerTool:            hitsPerTool,
	}, nil
}

// Print writes a human-readable summary to w, in ascending tool order.
func (s Stats) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Placed area:     %.4f sq in\n", s.PlacedArea)
	fmt.Fprintf(bw, "Panel area:      %.4f sq in\n", s.PanelArea)
	fmt.Fprintf(bw, "Utilization:     %.2f%%\n", s.UtilizationPct)
	fmt.Fprintf(bw, "Drill hits:      %d\n", s.DrillHitCount)
	fmt.Fprintf(bw, "Drill density:   %.3f hits/sq in\n", s.DrillDensity)
	fmt.Fprintf(bw, "Smallest drill:  %.6f in\n", s.SmallestDrillDiameter)
	tools := make([]string, 0, len(s.HitsPerTool))
	for t := range s.HitsPerTool {
		tools = append(tools, t)
	}
	sort.Strings(tools)
	for _, t := range tools {
		fmt.Fprintf(bw, "  %s: %d hits\n", t, s.HitsPerTool[t])
	}
	return bw.Flush()
}
