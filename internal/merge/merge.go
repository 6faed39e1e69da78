// Package merge implements the panelizer's merger/emitter (spec §4.7): it
// drives layer-by-layer output, computing each layer's used aperture and
// macro subset, thickening apertures to meet configured minimum feature
// dimensions, concatenating transformed job streams, and adding cut
// lines, crop marks, and fiducials before the drill program and
// supporting single-layer files (board outline, scoring) are written.
//
// This is grounded on gerbmerge.py's gerbmerge.py main-loop and
// aptable.py/tiling.py write-out logic, which walk the same
// used-apertures / thicken / cutline / cropmark / fiducial sequence
// against a single global aperture table; here it is expressed as a
// Merger value driving small, independently testable steps instead of
// one long procedural script.
package merge

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gerbmerge-go/panelizer/internal/aperture"
	"github.com/gerbmerge-go/panelizer/internal/config"
	"github.com/gerbmerge-go/panelizer/internal/drillcluster"
	"github.com/gerbmerge-go/panelizer/internal/feature"
	"github.com/gerbmerge-go/panelizer/internal/gerberio"
	"github.com/gerbmerge-go/panelizer/internal/geometry"
	"github.com/gerbmerge-go/panelizer/internal/job"
	"github.com/gerbmerge-go/panelizer/internal/placement"
)

// Merger holds the process-wide state threaded through a merge run: the
// configuration snapshot, the global aperture/macro/tool tables, and the
// placement to emit (spec §9 "Process-wide tables").
type Merger struct {
	Config         config.Config
	GAT            *aperture.Table
	GAMT           *aperture.MacroTable
	GTRM           drillcluster.GlobalToolRMap
	GTM            drillcluster.GlobalToolMap
	Placement      *placement.Placement
	OctagonRotated bool

	rotated map[*job.Job]*job.Job
}

// New constructs a Merger over the given process-wide tables and
// placement.
func New(cfg config.Config, gat *aperture.Table, gamt *aperture.MacroTable, gtrm drillcluster.GlobalToolRMap, gtm drillcluster.GlobalToolMap, pl *placement.Placement, octagonRotated bool) *Merger {
	return &Merger{
		Config:         cfg,
		GAT:            gat,
		GAMT:           gamt,
		GTRM:           gtrm,
		GTM:            gtm,
		Placement:      pl,
		OctagonRotated: octagonRotated,
		rotated:        make(map[*job.Job]*job.Job),
	}
}

// effectiveJob resolves the Job whose layer/drill streams should actually
// be read for entry e: the placed job unchanged if it sits in its native
// orientation, or its cached Job.Rotate90 result if the packer rotated
// it. Emitting an entry's rotated coordinates by rotating on the fly
// (rather than through this pre-rotated Job) would leave rectangular and
// oval apertures pointing at their un-rotated shape codes, drawing the
// wrong footprint at the rotated position; Rotate90 already resolves
// that through the shared aperture table, so every used-aperture/
// thickening/emission step below is keyed off the effective job.
func (m *Merger) effectiveJob(e placement.Entry) (*job.Job, error) {
	if !e.Rotated {
		return e.Job, nil
	}
	if rj, ok := m.rotated[e.Job]; ok {
		return rj, nil
	}
	rj, err := e.Job.Rotate90(m.GAT)
	if err != nil {
		return nil, err
	}
	m.rotated[e.Job] = rj
	return rj, nil
}

// usedSets computes used_ap and used_macro for layerName: the union over
// placed jobs' effective streams of the aperture codes (and,
// transitively, macro names) actually referenced (spec §4.7 step 1).
func (m *Merger) usedSets(layerName string) (map[string]bool, map[string]bool, error) {
	usedAp := make(map[string]bool)
	usedMacro := make(map[string]bool)
	for _, e := range m.Placement.Entries {
		ej, err := m.effectiveJob(e)
		if err != nil {
			return nil, nil, err
		}
		for code := range ej.UsedApertures(layerName) {
			usedAp[code] = true
			if shape, ok := m.GAT.Get(code); ok {
				if mi, ok := shape.(aperture.MacroInstance); ok {
					usedMacro[mi.MacroName] = true
				}
			}
		}
	}
	return usedAp, usedMacro, nil
}

// thicken implements spec §4.7 step 2: for each used aperture that does
// not meet minDim, allocate a grown replacement via find_or_add, rewrite
// every occurrence in every placed job's effective layerName stream, and
// swap the old code out of usedAp for the new one.
func (m *Merger) thicken(layerName string, minDim float64, usedAp map[string]bool) error {
	codes := make([]string, 0, len(usedAp))
	for code := range usedAp {
		codes = append(codes, code)
	}
	for _, code := range codes {
		grown, changed, err := m.GAT.GetAdjusted(code, minDim)
		if err != nil {
			return err
		}
		if !changed {
			continue
		}
		if grown.DimX() < minDim || grown.DimY() < minDim {
			return &MinimumFeatureExceedsApertureSupport{Layer: layerName, Code: code, Required: minDim}
		}
		newCode := m.GAT.FindOrAdd(grown)
		for _, e := range m.Placement.Entries {
			ej, err := m.effectiveJob(e)
			if err != nil {
				return err
			}
			ej.RewriteAperture(layerName, code, newCode)
		}
		delete(usedAp, code)
		usedAp[newCode] = true
	}
	return nil
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// fiducialAnchor resolves one coordinate of a fiducial point per spec
// §4.7 step 8: a non-negative configured value is an offset from the
// panel's lower-left extent; a negative value is an offset from the
// upper-right extent (added, since it is already negative). Note X and Y
// are each resolved against their OWN axis's min/max -- spec §9 flags the
// original implementation's reuse of OriginX for the Y axis as a bug, and
// this is the fix.
func fiducialAnchor(v, min, max float64) float64 {
	if v >= 0 {
		return min + v
	}
	return max + v
}

// EmitLayerFile writes one complete Gerber layer file for layerName to
// path: used-aperture/macro computation, thickening, cut/crop/fiducial
// aperture registration, header, macro and aperture definitions, job
// streams in placement order (with cutline segments interleaved), crop
// marks, fiducial flashes, and footer (spec §4.7 steps 1-9).
func (m *Merger) EmitLayerFile(path, layerName string) error {
	usedAp, usedMacro, err := m.usedSets(layerName)
	if err != nil {
		return err
	}

	if minDim, ok := m.Config.MinimumFeatureDimension[layerName]; ok {
		if err := m.thicken(layerName, minDim, usedAp); err != nil {
			return err
		}
	}

	isCutline := containsString(m.Config.CutLineLayers, layerName)
	isCropmark := containsString(m.Config.CropMarkLayers, layerName)
	isFiducial := containsString(m.Config.FiducialLayers, layerName)

	var cutlineAp, cropmarkAp, fiducialAp string
	var fiducialDiam float64
	if isCutline {
		cutlineAp = m.GAT.FindOrAdd(aperture.Circle{Diameter: m.Config.CutLineWidth})
		usedAp[cutlineAp] = true
	}
	if isCropmark {
		cropmarkAp = m.GAT.FindOrAdd(aperture.Circle{Diameter: m.Config.CropMarkWidth})
		usedAp[cropmarkAp] = true
	}
	if isFiducial {
		fiducialDiam = m.Config.FiducialCopperDiameter
		if strings.Contains(layerName, "mask") {
			fiducialDiam = m.Config.FiducialMaskDiameter
		}
		fiducialAp = m.GAT.FindOrAdd(aperture.Circle{Diameter: fiducialDiam})
		usedAp[fiducialAp] = true
	}

	return writeTempThenRename(path, func(w *bufio.Writer) error {
		if err := gerberio.WriteGerberPrelude(w, m.OctagonRotated); err != nil {
			return err
		}
		for _, name := range m.GAMT.Names() {
			if !usedMacro[name] {
				continue
			}
			body, _ := m.GAMT.Get(name)
			if _, err := fmt.Fprintln(w, gerberio.MacroDef(name, body)); err != nil {
				return err
			}
		}
		for _, code := range m.GAT.Codes() {
			if !usedAp[code] {
				continue
			}
			shape, _ := m.GAT.Get(code)
			def, err := gerberio.ApertureDef(code, shape)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, def); err != nil {
				return err
			}
		}

		for _, e := range m.Placement.Entries {
			ej, err := m.effectiveJob(e)
			if err != nil {
				return err
			}
			if err := ej.EmitLayer(w, layerName, e.X, e.Y, false, nil); err != nil {
				return err
			}
			if isCutline {
				fp, err := e.Footprint()
				if err != nil {
					return err
				}
				if err := emitRectOutline(w, cutlineAp, fp, feature.RoleCutline); err != nil {
					return err
				}
			}
		}

		if isCropmark {
			extents, err := m.Placement.Extents()
			if err != nil {
				return err
			}
			if err := emitCropmarks(w, cropmarkAp, extents, m.Config.CropMarkWidth); err != nil {
				return err
			}
		}

		if isFiducial {
			extents, err := m.Placement.Extents()
			if err != nil {
				return err
			}
			if err := gerberio.WriteApertureSelect(w, fiducialAp); err != nil {
				return err
			}
			for i := 0; i+1 < len(m.Config.FiducialPoints); i += 2 {
				x := fiducialAnchor(m.Config.FiducialPoints[i], extents.MinX, extents.MaxX)
				y := fiducialAnchor(m.Config.FiducialPoints[i+1], extents.MinY, extents.MaxY)
				fc := feature.NewCircle(geometry.Point{X: x, Y: y}, fiducialDiam/2)
				fc.SetRole(feature.RoleFiducial)
				if err := gerberio.WriteFlash(w, fc.Origin.X, fc.Origin.Y); err != nil {
					return err
				}
			}
		}

		return gerberio.WriteGerberFooter(w)
	})
}

// writeTempThenRename opens path+".tmp", runs body against a buffered
// writer, and atomically renames it into place on success; on any
// failure the temp file is removed so no partial output is left behind
// (spec §7: "does not leave partial files on failure").
func writeTempThenRename(path string, body func(w *bufio.Writer) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := body(w); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// rectEdges builds the four feature.Line segments that trace r's
// perimeter counter-clockwise from its lower-left corner, tagged with
// role: cutlines, the board outline, and scoring all stroke a job's or
// the panel's rectangular footprint, differing only in which overlay
// the resulting lines belong to.
func rectEdges(r geometry.Rect, width float64, role feature.Role) []*feature.Line {
	corners := []geometry.Point{
		{X: r.MinX, Y: r.MinY},
		{X: r.MaxX, Y: r.MinY},
		{X: r.MaxX, Y: r.MaxY},
		{X: r.MinX, Y: r.MaxY},
		{X: r.MinX, Y: r.MinY},
	}
	lines := make([]*feature.Line, 0, 4)
	for i := 0; i < 4; i++ {
		l := feature.NewLine(corners[i], corners[i+1], width)
		l.SetRole(role)
		lines = append(lines, l)
	}
	return lines
}

// emitRectOutline strokes the four edges of r as one continuous path
// under apCode (used by cutlines and the board-outline/scoring files).
func emitRectOutline(w io.Writer, apCode string, r geometry.Rect, role feature.Role) error {
	lines := rectEdges(r, 0, role)
	if err := gerberio.WriteApertureSelect(w, apCode); err != nil {
		return err
	}
	if err := gerberio.WriteMove(w, lines[0].Start.X, lines[0].Start.Y); err != nil {
		return err
	}
	for _, l := range lines {
		if err := gerberio.WriteLine(w, l.End.X, l.End.Y); err != nil {
			return err
		}
	}
	return nil
}

// cropmarkArms builds the two feature.Line segments of the L-shaped
// registration mark at one panel corner (spec §4.7 step 7).
func cropmarkArms(cx, cy, dx, dy, armLen, width float64) (*feature.Line, *feature.Line) {
	arm1 := feature.NewLine(geometry.Point{X: cx + dx*armLen, Y: cy}, geometry.Point{X: cx, Y: cy}, width)
	arm1.SetRole(feature.RoleCropmark)
	arm2 := feature.NewLine(geometry.Point{X: cx, Y: cy}, geometry.Point{X: cx, Y: cy + dy*armLen}, width)
	arm2.SetRole(feature.RoleCropmark)
	return arm1, arm2
}

// emitCropmarks draws an L-shaped 0.125in registration mark at each
// corner of extents, inset by half the crop-mark line width (spec §4.7
// step 7).
func emitCropmarks(w io.Writer, apCode string, extents geometry.Rect, width float64) error {
	const armLen = 0.125
	inset := width / 2
	corners := []struct{ cx, cy, dx, dy float64 }{
		{extents.MinX + inset, extents.MinY + inset, 1, 1},
		{extents.MaxX - inset, extents.MinY + inset, -1, 1},
		{extents.MaxX - inset, extents.MaxY - inset, -1, -1},
		{extents.MinX + inset, extents.MaxY - inset, 1, -1},
	}
	if err := gerberio.WriteApertureSelect(w, apCode); err != nil {
		return err
	}
	for _, c := range corners {
		arm1, arm2 := cropmarkArms(c.cx, c.cy, c.dx, c.dy, armLen, width)
		if err := gerberio.WriteMove(w, arm1.Start.X, arm1.Start.Y); err != nil {
			return err
		}
		if err := gerberio.WriteLine(w, arm1.End.X, arm1.End.Y); err != nil {
			return err
		}
		if err := gerberio.WriteLine(w, arm2.End.X, arm2.End.Y); err != nil {
			return err
		}
	}
	return nil
}

// EmitBoardOutline writes the board-outline single-layer file: header, a
// local D10 0.001in circle aperture (not drawn from GAT -- spec §4.7
// "Board outline and scoring are emitted as separate single-layer
// files... local D10 circle"), the panel extents rectangle, footer.
func (m *Merger) EmitBoardOutline(path string) error {
	extents, err := m.Placement.Extents()
	if err != nil {
		return err
	}
	return WriteOverlayFile(path, m.OctagonRotated, func(w *bufio.Writer) error {
		def, err := gerberio.ApertureDef("D10", aperture.Circle{Diameter: 0.001})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, def); err != nil {
			return err
		}
		return emitRectOutline(w, "D10", extents, feature.RoleBoardOutline)
	})
}

// EmitScoring writes the scoring single-layer file. Scoring lines mark
// the internal grid along which the fab house snaps boards apart; this
// is approximated as the stroked footprint of every placed job (shared
// internal edges are simply stroked twice, which is harmless for a
// scoring plot), using the same local-D10 convention as the board
// outline.
func (m *Merger) EmitScoring(path string) error {
	return WriteOverlayFile(path, m.OctagonRotated, func(w *bufio.Writer) error {
		def, err := gerberio.ApertureDef("D10", aperture.Circle{Diameter: 0.001})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, def); err != nil {
			return err
		}
		for _, e := range m.Placement.Entries {
			fp, err := e.Footprint()
			if err != nil {
				return err
			}
			if err := emitRectOutline(w, "D10", fp, feature.RoleScoring); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteOverlayFile writes a single-layer Gerber overlay file (board
// outline, scoring, or the fabrication-drawing legend -- spec §4.7
// "Board outline and scoring are emitted as separate single-layer
// files"): the standard prelude, body's own aperture definition(s) and
// geometry, then the footer, atomically via writeTempThenRename.
func WriteOverlayFile(path string, octagonRotated bool, body func(w *bufio.Writer) error) error {
	return writeTempThenRename(path, func(w *bufio.Writer) error {
		if err := gerberio.WriteGerberPrelude(w, octagonRotated); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		return gerberio.WriteGerberFooter(w)
	})
}
