// Package aperture implements the global aperture and aperture-macro tables
// (GAT/GAMT, spec §3, §4.2): content-addressed dictionaries mapping drawing
// shapes to Gerber "Dnn" codes, with find-or-insert semantics and a
// minimum-feature-dimension thickening operation used by the merger.
//
// The aperture.Shape variant is grounded on the teacher's dynamic-dispatch
// Feature interface (pkg/features: a small common capability set dispatched
// by a type switch) and on gmlewis/go-gerber's Aperture type, which exposes
// an equivalent ID()/WriteGerber(w, dcode) pair per shape; we fold the two
// ideas into one tagged-variant interface appropriate for a content-
// addressed table instead of a per-primitive object graph.
package aperture

import (
	"fmt"
	"math"
)

// Kind identifies which concrete Shape implementation a value holds.
type Kind int

const (
	// KindCircle is a round aperture described by a diameter.
	KindCircle Kind = iota
	// KindRect is a rectangular aperture described by width and height.
	KindRect
	// KindOval is an obround (stadium) aperture described by width and height.
	KindOval
	// KindOctagon is a regular octagon described by a circumscribing
	// diameter and a rotation of either 0 or 22.5 degrees.
	KindOctagon
	// KindMacro is an instance of a named aperture macro with a parameter
	// vector.
	KindMacro
)

// Shape is the common capability set every aperture shape implements: the
// pair of linear dimensions used for content-addressing and thickening, an
// equality-within-tolerance test, and a grow operation that returns a new
// Shape whose every linear dimension is at least min.
type Shape interface {
	// Kind reports which concrete shape this value is.
	Kind() Kind
	// DimX and DimY report the two linear dimensions used for content
	// addressing. Shapes with a single dimension (circle, octagon) report
	// it on both axes.
	DimX() float64
	DimY() float64
	// EqualWithin reports whether other is the same kind and shape within
	// eps (spec: 1e-7in).
	EqualWithin(other Shape, eps float64) bool
	// Grow returns a Shape whose every linear dimension is at least min,
	// per the shape-specific policy in spec §4.2. If the shape already
	// satisfies min, Grow returns itself unchanged (ok=false).
	Grow(min float64) (grown Shape, ok bool)
	// key returns a stable, comparable content-address for map lookups.
	key() string
}

// Circle is a round aperture of the given diameter.
type Circle struct{ Diameter float64 }

func (c Circle) Kind() Kind        { return KindCircle }
func (c Circle) DimX() float64     { return c.Diameter }
func (c Circle) DimY() float64     { return c.Diameter }
func (c Circle) key() string       { return fmt.Sprintf("C,%.7f", round7(c.Diameter)) }
func (c Circle) EqualWithin(o Shape, eps float64) bool {
	oc, ok := o.(Circle)
	return ok && math.Abs(oc.Diameter-c.Diameter) <= eps
}
func (c Circle) Grow(min float64) (Shape, bool) {
	if c.Diameter >= min {
		return c, false
	}
	return Circle{Diameter: min}, true
}

// Rect is a rectangular aperture.
type Rect struct{ W, H float64 }

func (r Rect) Kind() Kind    { return KindRect }
func (r Rect) DimX() float64 { return r.W }
func (r Rect) DimY() float64 { return r.H }
func (r Rect) key() string   { return fmt.Sprintf("R,%.7f,%.7f", round7(r.W), round7(r.H)) }
func (r Rect) EqualWithin(o Shape, eps float64) bool {
	or, ok := o.(Rect)
	return ok && math.Abs(or.W-r.W) <= eps && math.Abs(or.H-r.H) <= eps
}
func (r Rect) Grow(min float64) (Shape, bool) {
	w, h := r.W, r.H
	grown := false
	if w < min {
		w = min
		grown = true
	}
	if h < min {
		h = min
		grown = true
	}
	if !grown {
		return r, false
	}
	return Rect{W: w, H: h}, true
}

// Oval is an obround aperture; identical representation to Rect but kept
// distinct because it is a different Gerber primitive and grows under the
// same "each axis independently" rule as Rect (spec §4.2: "oval grows
// both").
type Oval struct{ W, H float64 }

func (o Oval) Kind() Kind    { return KindOval }
func (o Oval) DimX() float64 { return o.W }
func (o Oval) DimY() float64 { return o.H }
func (o Oval) key() string   { return fmt.Sprintf("O,%.7f,%.7f", round7(o.W), round7(o.H)) }
func (o Oval) EqualWithin(other Shape, eps float64) bool {
	oo, ok := other.(Oval)
	return ok && math.Abs(oo.W-o.W) <= eps && math.Abs(oo.H-o.H) <= eps
}
func (o Oval) Grow(min float64) (Shape, bool) {
	w, h := o.W, o.H
	grown := false
	if w < min {
		w = min
		grown = true
	}
	if h < min {
		h = min
		grown = true
	}
	if !grown {
		return o, false
	}
	return Oval{W: w, H: h}, true
}

// Octagon is a regular octagon described by its circumscribing diameter and
// rotation, which is either 0 or 22.5 degrees (spec §4.2).
type Octagon struct {
	Diameter float64
	Rotation float64 // 0 or 22.5
}

func (o Octagon) Kind() Kind    { return KindOctagon }
func (o Octagon) DimX() float64 { return o.Diameter }
func (o Octagon) DimY() float64 { return o.Diameter }
func (o Octagon) key() string {
	return fmt.Sprintf("8,%.7f,%.3f", round7(o.Diameter), o.Rotation)
}
func (o Octagon) EqualWithin(other Shape, eps float64) bool {
	oo, ok := other.(Octagon)
	return ok && math.Abs(oo.Diameter-o.Diameter) <= eps && oo.Rotation == o.Rotation
}
func (o Octagon) Grow(min float64) (Shape, bool) {
	if o.Diameter >= min {
		return o, false
	}
	return Octagon{Diameter: min, Rotation: o.Rotation}, true
}

// MacroInstance is a reference to a named aperture macro together with its
// parameter vector.
type MacroInstance struct {
	MacroName string
	Params    []float64
}

func (m MacroInstance) Kind() Kind { return KindMacro }

// DimX and DimY report the first two parameters as a best-effort bounding
// estimate; macro geometry is otherwise opaque to the table.
func (m MacroInstance) DimX() float64 {
	if len(m.Params) > 0 {
		return m.Params[0]
	}
	return 0
}
func (m MacroInstance) DimY() float64 {
	if len(m.Params) > 1 {
		return m.Params[1]
	}
	return m.DimX()
}
func (m MacroInstance) key() string {
	return fmt.Sprintf("M,%s,%v", m.MacroName, m.Params)
}
func (m MacroInstance) EqualWithin(other Shape, eps float64) bool {
	om, ok := other.(MacroInstance)
	if !ok || om.MacroName != m.MacroName || len(om.Params) != len(m.Params) {
		return false
	}
	for i := range m.Params {
		if math.Abs(om.Params[i]-m.Params[i]) > eps {
			return false
		}
	}
	return true
}

// Grow grows a macro instance parameter-by-parameter: every parameter that
// looks like a linear dimension (i.e. is itself below min) is raised to
// min. This is necessarily a shape-specific policy per macro family; the
// table-level default treats every parameter uniformly, which callers can
// override by pre-thickening known macros before insertion.
func (m MacroInstance) Grow(min float64) (Shape, bool) {
	grown := false
	params := make([]float64, len(m.Params))
	copy(params, m.Params)
	for i, p := range params {
		if p > 0 && p < min {
			params[i] = min
			grown = true
		}
	}
	if !grown {
		return m, false
	}
	return MacroInstance{MacroName: m.MacroName, Params: params}, true
}

func round7(v float64) float64 {
	return math.Round(v*1e7) / 1e7
}

// Rotate90 returns the shape produced by rotating s by 90 degrees, per spec
// §4.3: "apertures whose shape is rotationally symmetric are unchanged,
// others are replaced by their rotated-shape equivalents". Circles and
// regular octagons (symmetric under any multiple of 45 degrees) are
// unchanged; rectangles and ovals swap their width and height. Macro
// instances are opaque shape definitions produced by the out-of-scope
// parser, so a generic 90-degree rotation cannot be derived here; they are
// returned unchanged, which is correct only for macros that happen to be
// rotationally symmetric themselves.
func Rotate90(s Shape) Shape {
	switch v := s.(type) {
	case Circle, Octagon, MacroInstance:
		return v
	case Rect:
		return Rect{W: v.H, H: v.W}
	case Oval:
		return Oval{W: v.H, H: v.W}
	default:
		return s
	}
}
