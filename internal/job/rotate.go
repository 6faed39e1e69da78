package job

import (
	"github.com/gerbmerge-go/panelizer/internal/aperture"
	"github.com/gerbmerge-go/panelizer/internal/geometry"
)

// Rotate90 returns a new Job whose coordinates are mapped (x, y) -> (-y, x)
// and then shifted back to positive, per spec §4.3. Aperture references
// that name a rotationally-symmetric shape are left as-is; all others are
// replaced with the rotated shape's code via gat, a find-or-insert against
// the shared global aperture table so rotated jobs keep sharing codes with
// any other job that already uses the same rotated shape.
func (j *Job) Rotate90(gat *aperture.Table) (*Job, error) {
	rj := New(j.Name+"#rot90", j.OutlineLayer, j.Repeat)
	remap := make(map[string]string)
	rotatedCode := func(code string) string {
		if mapped, ok := remap[code]; ok {
			return mapped
		}
		shape, ok := gat.Get(code)
		if !ok {
			remap[code] = code
			return code
		}
		rotated := aperture.Rotate90(shape)
		newCode := gat.FindOrAdd(rotated)
		remap[code] = newCode
		return newCode
	}

	for name, stream := range j.Layers {
		out := make(LayerStream, len(stream))
		for i, tok := range stream {
			if tok.IsApertureSelect() {
				out[i] = SelectAperture(rotatedCode(tok.ApertureCode))
				continue
			}
			p := geometry.Point{X: tok.X, Y: tok.Y}.Rotate90()
			out[i] = Token{Op: tok.Op, X: p.X, Y: p.Y}
		}
		rj.Layers[name] = out
	}

	rj.Drill = NewDrillProgram()
	for tool, diam := range j.Drill.Diameters {
		rj.Drill.Diameters[tool] = diam
	}
	for tool, hits := range j.Drill.Hits {
		rotated := make([]geometry.Point, len(hits))
		for i, p := range hits {
			rotated[i] = p.Rotate90()
		}
		rj.Drill.Hits[tool] = rotated
	}

	rj.ShiftToPositive()
	return rj, nil
}
