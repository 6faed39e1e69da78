package job

import "github.com/gerbmerge-go/panelizer/internal/geometry"

// MinCoordinates scans every layer and drill stream and returns the
// minimum X and Y seen anywhere on the job (not just the outline layer --
// this must catch overhang on any layer so ShiftToPositive makes every
// layer, not just the outline, non-negative).
func (j *Job) MinCoordinates() (minX, minY float64) {
	first := true
	consider := func(x, y float64) {
		if first {
			minX, minY = x, y
			first = false
			return
		}
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
	}
	for _, stream := range j.Layers {
		for _, tok := range stream {
			if tok.IsApertureSelect() {
				continue
			}
			consider(tok.X, tok.Y)
		}
	}
	for _, hits := range j.Drill.Hits {
		for _, p := range hits {
			consider(p.X, p.Y)
		}
	}
	if first {
		return 0, 0
	}
	return minX, minY
}

// ShiftToPositive adds abs(min) to every coordinate in every layer and
// drill stream whenever the minimum X or Y is negative (spec §4.3). It is
// idempotent: once min_x >= 0 and min_y >= 0, calling it again is a no-op.
func (j *Job) ShiftToPositive() {
	minX, minY := j.MinCoordinates()
	var shiftX, shiftY float64
	if minX < 0 {
		shiftX = -minX
	}
	if minY < 0 {
		shiftY = -minY
	}
	if shiftX == 0 && shiftY == 0 {
		return
	}
	j.fixCoordinates(shiftX, shiftY)
}

// fixCoordinates adds (dx, dy) to every coordinate in every layer and drill
// stream.
func (j *Job) fixCoordinates(dx, dy float64) {
	for name, stream := range j.Layers {
		for i, tok := range stream {
			if tok.IsApertureSelect() {
				continue
			}
			stream[i].X += dx
			stream[i].Y += dy
		}
		j.Layers[name] = stream
	}
	for tool, hits := range j.Drill.Hits {
		shifted := make([]geometry.Point, len(hits))
		for i, p := range hits {
			shifted[i] = geometry.Point{X: p.X + dx, Y: p.Y + dy}
		}
		j.Drill.Hits[tool] = shifted
	}
	j.invalidateBBox()
}
