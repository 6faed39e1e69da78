package job

import (
	"fmt"
	"io"

	"github.com/gerbmerge-go/panelizer/internal/gerberio"
	"github.com/gerbmerge-go/panelizer/internal/geometry"
)

// EmitLayer writes the (optionally rotated) command stream for layerName
// to w, with every coordinate offset by (dx, dy) and every aperture
// reference translated through apertureRemap (spec §4.3 emit_layer). If
// apertureRemap is nil, aperture codes are emitted unchanged.
func (j *Job) EmitLayer(w io.Writer, layerName string, dx, dy float64, rotated bool, apertureRemap map[string]string) error {
	stream, ok := j.Layers[layerName]
	if !ok {
		return nil // job has no content on this layer
	}
	t := geometry.Transform{Rotated: rotated, DX: dx, DY: dy}
	for _, tok := range stream {
		if tok.IsApertureSelect() {
			code := tok.ApertureCode
			if apertureRemap != nil {
				if mapped, ok := apertureRemap[code]; ok {
					code = mapped
				}
			}
			if err := gerberio.WriteApertureSelect(w, code); err != nil {
				return err
			}
			continue
		}
		p := t.Apply(geometry.Point{X: tok.X, Y: tok.Y})
		var err error
		switch tok.Op {
		case OpMoveTo:
			err = gerberio.WriteMove(w, p.X, p.Y)
		case OpLineTo:
			err = gerberio.WriteLine(w, p.X, p.Y)
		case OpFlash:
			err = gerberio.WriteFlash(w, p.X, p.Y)
		default:
			err = fmt.Errorf("job: unknown opcode %v", tok.Op)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// EmitDrill writes every hit for tool on this job to w, with the same
// offset/rotation transform used for Gerber layers. By the time the merger
// calls this, drillcluster has already rewritten j.Drill.Hits to use final
// (clustered) tool names, so no further remapping happens here.
func (j *Job) EmitDrill(w io.Writer, tool string, dx, dy float64, rotated bool) error {
	hits := j.Drill.Hits[tool]
	t := geometry.Transform{Rotated: rotated, DX: dx, DY: dy}
	for _, p := range hits {
		tp := t.Apply(p)
		if err := gerberio.WriteExcellonHit(w, tp.X, tp.Y); err != nil {
			return err
		}
	}
	return nil
}

// UsedApertures returns the set of aperture codes referenced anywhere in
// layerName's command stream.
func (j *Job) UsedApertures(layerName string) map[string]bool {
	used := make(map[string]bool)
	for _, tok := range j.Layers[layerName] {
		if tok.IsApertureSelect() {
			used[tok.ApertureCode] = true
		}
	}
	return used
}

// RewriteAperture replaces every occurrence of oldCode with newCode in
// layerName's command stream (used by the merger's minimum-feature-
// dimension thickening pass, spec §4.7 step 2).
func (j *Job) RewriteAperture(layerName, oldCode, newCode string) {
	stream, ok := j.Layers[layerName]
	if !ok {
		return
	}
	for i, tok := range stream {
		if tok.IsApertureSelect() && tok.ApertureCode == oldCode {
			stream[i].ApertureCode = newCode
		}
	}
}
