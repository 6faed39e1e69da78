package feature

import (
	"fmt"

	"github.com/gerbmerge-go/panelizer/internal/geometry"
)

// Line describes a straight-line feature: a cut line, a crop-mark segment,
// or a scoring line. Adapted from the teacher's features.Line.
type Line struct {
	Start, End geometry.Point
	Thickness  float64
	Role
}

// NewLine initializes a new Line feature.
func NewLine(start, end geometry.Point, thickness float64) *Line {
	if thickness < 0.0 {
		panic("line thickness must be a positive value")
	}
	return &Line{Start: start, End: end, Thickness: thickness}
}

func (l *Line) GetRole() Role   { return l.Role }
func (l *Line) SetRole(r Role)  { l.Role = r }

// String satisfies the Stringer interface to aid debug printing.
func (l *Line) String() string {
	return fmt.Sprintf("Line(x1=%.5f, y1=%.5f, x2=%.5f, y2=%.5f, thickness=%.5f, role=%s)",
		l.Start.X, l.Start.Y, l.End.X, l.End.Y, l.Thickness, l.Role.String())
}
