package feature

import (
	"fmt"

	"github.com/gerbmerge-go/panelizer/internal/geometry"
)

// Circle describes a circular feature: a fiducial flash or a fabrication-
// drawing reference mark. Adapted from the teacher's features.Circle.
type Circle struct {
	Origin geometry.Point
	Radius float64
	Role
}

// NewCircle initializes a new Circle feature.
func NewCircle(origin geometry.Point, radius float64) *Circle {
	if radius < 0.0 {
		panic("circle radius must be a positive value")
	}
	return &Circle{Origin: origin, Radius: radius}
}

func (c *Circle) GetRole() Role  { return c.Role }
func (c *Circle) SetRole(r Role) { c.Role = r }

// String satisfies the Stringer interface to aid debug printing.
func (c *Circle) String() string {
	return fmt.Sprintf("Circle(x=%.5f, y=%.5f, r=%.5f, role=%s)",
		c.Origin.X, c.Origin.Y, c.Radius, c.Role.String())
}
