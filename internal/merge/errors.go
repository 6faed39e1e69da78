package merge

import "fmt"

// ToolMissingInGlobalMap is returned when a placed job's drill program
// references a tool name absent from the global tool table (spec §7).
type ToolMissingInGlobalMap struct {
	Job, Tool string
}

func (e *ToolMissingInGlobalMap) Error() string {
	return fmt.Sprintf("merge: job %q references tool %q not present in the global tool table", e.Job, e.Tool)
}

// TooManyDrillToolsForFabDrawing is returned when the fabrication-drawing
// legend is asked to list more distinct tools than it has room for
// (spec §7).
type TooManyDrillToolsForFabDrawing struct {
	Max, Got int
}

func (e *TooManyDrillToolsForFabDrawing) Error() string {
	return fmt.Sprintf("merge: %d drill tools exceeds the fabrication-drawing legend capacity of %d", e.Got, e.Max)
}

// MinimumFeatureExceedsApertureSupport is returned when a layer's minimum
// feature dimension cannot be satisfied by growing a used aperture (spec
// §7), e.g. a macro instance with no linear parameter left to grow.
type MinimumFeatureExceedsApertureSupport struct {
	Layer    string
	Code     string
	Required float64
}

func (e *MinimumFeatureExceedsApertureSupport) Error() string {
	return fmt.Sprintf("merge: layer %q aperture %q cannot be grown to meet minimum feature dimension %.6fin",
		e.Layer, e.Code, e.Required)
}
