// Package drillcluster groups drill diameters that differ by no more than
// a configured tolerance onto a single representative diameter, and
// rewrites the global tool tables and every job's drill streams to match
// (spec §3 "Global tool tables", §4.4).
package drillcluster

import (
	"fmt"
	"sort"

	"github.com/gerbmerge-go/panelizer/internal/geometry"
	"github.com/gerbmerge-go/panelizer/internal/job"
)

// GlobalToolRMap is diameter -> tool name; GlobalToolMap is tool name ->
// diameter; together they form the process-wide tool tables (spec §3).
type GlobalToolRMap map[float64]string
type GlobalToolMap map[string]float64

// BuildGlobalToolTables scans every job's Drill.Diameters and assigns
// monotonically increasing tool names T01, T02, ... in ascending diameter
// order, before any clustering is applied (spec §3).
func BuildGlobalToolTables(jobs []*job.Job) (GlobalToolRMap, GlobalToolMap) {
	seen := map[float64]bool{}
	var diameters []float64
	for _, j := range jobs {
		for _, d := range j.Drill.Diameters {
			if !seen[d] {
				seen[d] = true
				diameters = append(diameters, d)
			}
		}
	}
	sort.Float64s(diameters)
	gtrm := make(GlobalToolRMap, len(diameters))
	gtm := make(GlobalToolMap, len(diameters))
	for i, d := range diameters {
		name := fmt.Sprintf("T%02d", i+1)
		gtrm[d] = name
		gtm[name] = d
	}
	return gtrm, gtm
}

// Cluster groups the distinct diameters in gtrm within tolerance tol onto a
// single representative per cluster (spec §4.4): sort diameters ascending,
// sweep a window collapsing everything within tol of the window's anchor
// onto the largest diameter in the window (never under-size a drill), then
// advance the anchor past the window.
//
// It returns a diameter->diameter map from every original diameter to its
// cluster representative (the identity for diameters that are their own
// representative), and rewrites gtrm/gtm and every job's drill streams in
// place to reference the representative's tool name.
func Cluster(jobs []*job.Job, gtrm GlobalToolRMap, gtm GlobalToolMap, tol float64) map[float64]float64 {
	diameters := make([]float64, 0, len(gtrm))
	for d := range gtrm {
		diameters = append(diameters, d)
	}
	sort.Float64s(diameters)

	repOf := make(map[float64]float64, len(diameters))
	i := 0
	for i < len(diameters) {
		anchor := diameters[i]
		j := i
		rep := anchor
		for j < len(diameters) && diameters[j]-anchor <= tol {
			if diameters[j] > rep {
				rep = diameters[j]
			}
			j++
		}
		for k := i; k < j; k++ {
			repOf[diameters[k]] = rep
		}
		i = j
	}

	// Rewrite global tool tables: keep one tool name per representative
	// diameter (the name the representative itself was already assigned),
	// drop the others.
	oldToolOfDiameter := make(map[float64]string, len(gtrm))
	for d, name := range gtrm {
		oldToolOfDiameter[d] = name
	}
	newGTRM := make(GlobalToolRMap)
	newGTM := make(GlobalToolMap)
	toolRename := make(map[string]string) // old tool name -> representative's tool name
	for _, d := range diameters {
		rep := repOf[d]
		repTool, ok := newGTRM[rep]
		if !ok {
			repTool = oldToolOfDiameter[rep]
			newGTRM[rep] = repTool
			newGTM[repTool] = rep
		}
		toolRename[oldToolOfDiameter[d]] = repTool
	}
	for d := range gtrm {
		delete(gtrm, d)
	}
	for d, t := range newGTRM {
		gtrm[d] = t
	}
	for t := range gtm {
		delete(gtm, t)
	}
	for t, d := range newGTM {
		gtm[t] = d
	}

	for _, jb := range jobs {
		rewriteJobDrill(jb, toolRename)
	}

	return repOf
}

// rewriteJobDrill merges a job's drill hits/diameters onto the renamed
// (clustered) tool names in place.
func rewriteJobDrill(jb *job.Job, toolRename map[string]string) {
	newDiam := make(map[string]float64, len(jb.Drill.Diameters))
	newHits := make(map[string][]geometry.Point, len(jb.Drill.Hits))
	for tool, diam := range jb.Drill.Diameters {
		newName, ok := toolRename[tool]
		if !ok {
			newName = tool
		}
		newDiam[newName] = diam
		newHits[newName] = append(newHits[newName], jb.Drill.Hits[tool]...)
	}
	jb.Drill.Diameters = newDiam
	jb.Drill.Hits = newHits
}
