package job

import (
	"github.com/gerbmerge-go/panelizer/internal/geometry"
)

// TrimGerber clips every Gerber layer's command stream to the job's
// outline bounding box (spec §4.3): draws that leave the box are replaced
// by their clipped endpoints, flashes and draws fully outside are dropped.
// Move-to tokens are never dropped (they carry no geometry of their own)
// and aperture-select tokens simply pass through.
//
// TrimGerber is idempotent: a draw clipped once already has both endpoints
// on or inside the box, so re-clipping it is a no-op (spec §8).
func (j *Job) TrimGerber() error {
	box, err := j.BoundingBox()
	if err != nil {
		return err
	}
	for name, stream := range j.Layers {
		if name == j.OutlineLayer {
			continue
		}
		j.Layers[name] = trimLayer(stream, box)
	}
	return nil
}

func trimLayer(stream LayerStream, box geometry.Rect) LayerStream {
	out := make(LayerStream, 0, len(stream))
	curX, curY := 0.0, 0.0
	for _, tok := range stream {
		if tok.IsApertureSelect() {
			out = append(out, tok)
			continue
		}
		switch tok.Op {
		case OpMoveTo:
			out = append(out, tok)
			curX, curY = tok.X, tok.Y
		case OpFlash:
			if box.Contains(geometry.Point{X: tok.X, Y: tok.Y}) {
				out = append(out, tok)
			}
			curX, curY = tok.X, tok.Y
		case OpLineTo:
			t0, t1, ok := clipSegment(curX, curY, tok.X, tok.Y, box)
			if !ok {
				// entirely outside: drop the draw but keep a silent
				// reposition so later segments compute correctly.
				out = append(out, MoveTo(tok.X, tok.Y))
			} else if t0 <= 1e-9 && t1 >= 1-1e-9 {
				// fully inside already
				out = append(out, tok)
			} else {
				sx, sy := lerp(curX, curY, tok.X, tok.Y, t0)
				ex, ey := lerp(curX, curY, tok.X, tok.Y, t1)
				if t0 > 1e-9 {
					out = append(out, MoveTo(sx, sy))
				}
				out = append(out, LineTo(ex, ey))
				if ex != tok.X || ey != tok.Y {
					out = append(out, MoveTo(tok.X, tok.Y))
				}
			}
			curX, curY = tok.X, tok.Y
		}
	}
	return out
}

func lerp(x0, y0, x1, y1, t float64) (float64, float64) {
	return x0 + t*(x1-x0), y0 + t*(y1-y0)
}

// clipSegment computes the Liang-Barsky parametric clip of the segment
// (x0,y0)-(x1,y1) against box, using closed boundaries. It returns the
// [t0,t1] sub-range of the segment that lies within the box.
func clipSegment(x0, y0, x1, y1 float64, box geometry.Rect) (t0, t1 float64, ok bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 = 0, 1
	checks := [4]struct{ p, q float64 }{
		{-dx, x0 - box.MinX},
		{dx, box.MaxX - x0},
		{-dy, y0 - box.MinY},
		{dy, box.MaxY - y0},
	}
	for _, c := range checks {
		p, q := c.p, c.q
		if p == 0 {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	if t0 > t1 {
		return 0, 0, false
	}
	return t0, t1, true
}

// TrimExcellon drops drill hits that fall outside the job's outline
// bounding box (spec §4.3).
func (j *Job) TrimExcellon() error {
	box, err := j.BoundingBox()
	if err != nil {
		return err
	}
	for tool, hits := range j.Drill.Hits {
		kept := hits[:0:0]
		for _, p := range hits {
			if box.Contains(p) {
				kept = append(kept, p)
			}
		}
		j.Drill.Hits[tool] = kept
	}
	return nil
}
