// Package fabdrawing renders the fabrication-drawing legend: a
// reference-designator label over every placed job's footprint plus a
// one-line run summary, overlaid on the panel (spec §4.7
// "fabrication-drawing", §6 "fabricationdrawingfile").
//
// Spec §1 scopes the fabrication-drawing stroke font itself out of scope;
// only the positioning of each legend entry is in scope. This package
// therefore emits one position-marker flash per entry plus a readable G04
// comment carrying the label text, through the same inch/100000-grid
// writer (internal/gerberio, internal/merge.WriteOverlayFile) every other
// output file uses, rather than driving a separate stroke-font renderer
// against its own coordinate grid.
package fabdrawing

import (
	"bufio"
	"fmt"

	"github.com/gerbmerge-go/panelizer/internal/aperture"
	"github.com/gerbmerge-go/panelizer/internal/feature"
	"github.com/gerbmerge-go/panelizer/internal/gerberio"
	"github.com/gerbmerge-go/panelizer/internal/geometry"
	"github.com/gerbmerge-go/panelizer/internal/merge"
	"github.com/gerbmerge-go/panelizer/internal/placement"
)

// MaxTools bounds how many distinct drill tools the legend will
// summarize before giving up (spec §7 TooManyDrillToolsForFabDrawing).
const MaxTools = 20

// legendApertureCode is the flash aperture used to mark each legend
// entry's anchor point.
const legendApertureCode = "D10"

// Legend is the set of text entries drawn into a fabrication-drawing
// file.
type Legend struct {
	Entries []*feature.Text
}

// BuildLegend lays out one reference-designator label at the centre of
// every placed job's footprint, plus a summary line above the panel
// reporting utilization and tool count.
func BuildLegend(pl *placement.Placement, stats merge.Stats, toolCount int) (*Legend, error) {
	if toolCount > MaxTools {
		return nil, &merge.TooManyDrillToolsForFabDrawing{Max: MaxTools, Got: toolCount}
	}
	l := &Legend{}
	for _, e := range pl.Entries {
		fp, err := e.Footprint()
		if err != nil {
			return nil, err
		}
		centre := geometry.Point{X: (fp.MinX + fp.MaxX) / 2, Y: (fp.MinY + fp.MaxY) / 2}
		t := feature.NewText(centre, e.Job.Name, feature.WithAlignment(feature.Centre), feature.WithSize(0.1))
		t.SetRole(feature.RoleFabricationDrawing)
		l.Entries = append(l.Entries, t)
	}
	extents, err := pl.Extents()
	if err != nil {
		return nil, err
	}
	summary := fmt.Sprintf("UTIL %.1f%%  TOOLS %d", stats.UtilizationPct, toolCount)
	st := feature.NewText(geometry.Point{X: extents.MinX, Y: extents.MaxY + 0.1}, summary,
		feature.WithAlignment(feature.BottomLeft), feature.WithSize(0.1))
	st.SetRole(feature.RoleFabricationDrawing)
	l.Entries = append(l.Entries, st)
	return l, nil
}

// Write renders the legend to a fabrication-drawing Gerber file at the
// exact configured path, on the same grid and through the same
// prelude/footer convention as every other emitted layer.
func (l *Legend) Write(path string, octagonRotated bool) error {
	return merge.WriteOverlayFile(path, octagonRotated, func(w *bufio.Writer) error {
		def, err := gerberio.ApertureDef(legendApertureCode, aperture.Circle{Diameter: 0.001})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, def); err != nil {
			return err
		}
		if err := gerberio.WriteApertureSelect(w, legendApertureCode); err != nil {
			return err
		}
		for _, t := range l.Entries {
			if err := gerberio.WriteComment(w, t.Text); err != nil {
				return err
			}
			if err := gerberio.WriteFlash(w, t.Origin.X, t.Origin.Y); err != nil {
				return err
			}
		}
		return nil
	})
}
