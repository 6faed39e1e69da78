// Package feature encapsulates the non-job artwork the merger draws
// directly onto the panel: cut lines, crop marks, fiducials, the board
// outline rectangle, scoring lines, and fabrication-drawing legend text
// (spec §4.7 steps 3, 6-9 and "Supporting emitters").
//
// This is an adaptation of the teacher's pkg/features package (Purpose,
// Alignment, and the Line/Circle/Text feature types with their small
// common Feature interface). The teacher used Purpose to distinguish
// panel-silkscreen decoration from cutout/drill geometry on a front panel;
// here the same dispatch shape is repurposed for panel-emission Role
// (which single-layer overlay a feature belongs to) since a panelizer
// draws into the same small set of shape kinds but needs to route them to
// cut/crop/fiducial/outline/scoring layers instead of a panel's own
// silkscreen/cutout split.
package feature

import "fmt"

// Role identifies which panel overlay a feature belongs to.
type Role int

const (
	// RoleCutline marks a job-separation cut line.
	RoleCutline Role = iota
	// RoleCropmark marks a registration crop mark at a panel corner.
	RoleCropmark
	// RoleFiducial marks an optical alignment target.
	RoleFiducial
	// RoleBoardOutline marks the panel's own board-outline rectangle.
	RoleBoardOutline
	// RoleScoring marks a scoring (snap) line between jobs.
	RoleScoring
	// RoleFabricationDrawing marks fabrication-drawing legend text.
	RoleFabricationDrawing
)

// String satisfies the Stringer interface to aid debug printing.
func (r Role) String() string {
	switch r {
	case RoleCutline:
		return "cutline"
	case RoleCropmark:
		return "cropmark"
	case RoleFiducial:
		return "fiducial"
	case RoleBoardOutline:
		return "board-outline"
	case RoleScoring:
		return "scoring"
	case RoleFabricationDrawing:
		return "fabrication-drawing"
	}
	panic(fmt.Sprintf("invalid Role value: %d", int(r)))
}

// Feature is the common capability every panel overlay primitive
// implements. Intentionally small, same shape as the teacher's
// features.Feature.
type Feature interface {
	GetRole() Role
	SetRole(Role)
}

// Alignment specifies how Text is positioned relative to its origin,
// carried over unchanged from the teacher's features.Alignment.
type Alignment int

const (
	TopLeft Alignment = iota
	TopCentre
	TopRight
	CentreLeft
	Centre
	CentreRight
	BottomLeft
	BottomCentre
	BottomRight
)

// String satisfies the Stringer interface to aid debug printing.
func (a Alignment) String() string {
	switch a {
	case TopLeft:
		return "top-left"
	case TopCentre:
		return "top-centre"
	case TopRight:
		return "top-right"
	case CentreLeft:
		return "centre-left"
	case Centre:
		return "centre"
	case CentreRight:
		return "centre-right"
	case BottomLeft:
		return "bottom-left"
	case BottomCentre:
		return "bottom-centre"
	case BottomRight:
		return "bottom-right"
	}
	panic(fmt.Sprintf("invalid Alignment value: %d", int(a)))
}
