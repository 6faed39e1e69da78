// Package geometry provides the fixed-grid coordinate primitives shared by
// every layer of the panelizer: points, axis-aligned rectangles, and the
// translate/rotate-90 affine transforms used to place a job on a panel.
package geometry

import "math"

// GridUnits is the number of fixed-point units per inch used on the wire
// (the Gerber %FSLAX25Y25*% format: 2 integer, 5 fractional decimal digits).
const GridUnits = 100000

// Epsilon is the tolerance used when comparing coordinates or shape
// dimensions that are nominally equal but may differ by floating-point
// noise (spec: apertures within 1e-7in share a code; placements compare to
// 1e-5in on round-trip).
const Epsilon = 1e-7

// Point is a 2D coordinate in inches.
type Point struct {
	X, Y float64
}

// Add returns p shifted by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Rotate90 maps (x, y) -> (-y, x), the only rotation this system supports.
func (p Point) Rotate90() Point {
	return Point{X: -p.Y, Y: p.X}
}

// EqualWithin reports whether p and q differ by no more than eps in each
// axis.
func (p Point) EqualWithin(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Grid rounds an inch value to the on-wire fixed-point grid and returns the
// integer grid units, per spec §4.1: gerb(x) = round(x * 100000).
func Grid(inches float64) int64 {
	if inches >= 0 {
		return int64(math.Floor(inches*GridUnits + 0.5))
	}
	return int64(math.Ceil(inches*GridUnits - 0.5))
}

// FromGrid converts grid units back to inches.
func FromGrid(units int64) float64 {
	return float64(units) / GridUnits
}

// Rect is an axis-aligned rectangle given by its lower-left and upper-right
// corners.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewRect builds a Rect and normalizes the corners so Min <= Max on each
// axis regardless of the order the caller supplies them in.
func NewRect(x0, y0, x1, y1 float64) Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{MinX: x0, MinY: y0, MaxX: x1, MaxY: y1}
}

// Width returns the X-extent of the rectangle.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the Y-extent of the rectangle.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Area returns Width * Height.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// Contains reports whether p lies within r using closed boundaries (spec
// §4.3 trim semantics: "the point-in-box test uses closed boundaries").
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Overlaps reports whether r and other share any positive-area interior.
// Edge-touching rectangles (spacing == 0) are not considered overlapping.
func (r Rect) Overlaps(other Rect) bool {
	if r.MaxX <= other.MinX || other.MaxX <= r.MinX {
		return false
	}
	if r.MaxY <= other.MinY || other.MaxY <= r.MinY {
		return false
	}
	return true
}

// Union returns the smallest Rect containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, other.MinX),
		MinY: math.Min(r.MinY, other.MinY),
		MaxX: math.Max(r.MaxX, other.MaxX),
		MaxY: math.Max(r.MaxY, other.MaxY),
	}
}

// Within reports whether r fits entirely inside panel (closed boundaries).
func (r Rect) Within(panel Rect) bool {
	return r.MinX >= panel.MinX-Epsilon && r.MinY >= panel.MinY-Epsilon &&
		r.MaxX <= panel.MaxX+Epsilon && r.MaxY <= panel.MaxY+Epsilon
}

// Transform is an axis-aligned affine map: an optional 90-degree rotation
// followed by a translation. It is the only transform this system needs
// (spec: "only 0° and 90°" rotation is supported).
type Transform struct {
	Rotated bool
	DX, DY  float64
}

// Apply maps a local-frame point through the transform: rotate first (if
// configured), then translate.
func (t Transform) Apply(p Point) Point {
	if t.Rotated {
		p = p.Rotate90()
	}
	return p.Add(t.DX, t.DY)
}

// ApplyRect maps a local-frame rectangle through the transform, honoring
// rotation by rotating the diagonal corners and re-normalizing.
func (t Transform) ApplyRect(r Rect) Rect {
	ll := t.Apply(Point{X: r.MinX, Y: r.MinY})
	ur := t.Apply(Point{X: r.MaxX, Y: r.MaxY})
	return NewRect(ll.X, ll.Y, ur.X, ur.Y)
}
