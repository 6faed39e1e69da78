// Package job models a single board's artwork and drill program (spec §3
// "Job") and the per-job operations the merger drives: bounding-box
// derivation, shifting to positive coordinates, 90-degree rotation,
// trimming to the outline, and emission with an offset/rotation and
// aperture/tool remap.
//
// The command-stream shape (an ordered token list per layer) is grounded on
// the original gerbmerge.py's jobs.Job, which stores per-layer "draws" as
// parsed command tuples and replays them at merge time; we give it a typed
// Go representation instead of the original's loosely-typed tuples.
package job

import (
	"fmt"

	"github.com/gerbmerge-go/panelizer/internal/geometry"
)

// OpCode identifies what a Token does on the photoplotter.
type OpCode int

const (
	// OpMoveTo lifts the plotter and moves to (X, Y) without drawing.
	OpMoveTo OpCode = iota
	// OpLineTo draws a line from the current position to (X, Y) using the
	// currently selected aperture.
	OpLineTo
	// OpFlash flashes the currently selected aperture at (X, Y).
	OpFlash
)

// Token is one element of a layer command stream: either an aperture
// selection or a coordinate move/draw/flash. ApertureCode is non-empty only
// for aperture-select tokens; for coordinate tokens Op is meaningful.
type Token struct {
	ApertureCode string // non-empty means "select aperture", ignore Op/X/Y
	Op           OpCode
	X, Y         float64
}

// IsApertureSelect reports whether this token selects an aperture rather
// than drawing.
func (t Token) IsApertureSelect() bool { return t.ApertureCode != "" }

// SelectAperture returns a Token that selects the given aperture code.
func SelectAperture(code string) Token { return Token{ApertureCode: code} }

// MoveTo returns a Token that lifts and moves to (x, y).
func MoveTo(x, y float64) Token { return Token{Op: OpMoveTo, X: x, Y: y} }

// LineTo returns a Token that draws to (x, y).
func LineTo(x, y float64) Token { return Token{Op: OpLineTo, X: x, Y: y} }

// Flash returns a Token that flashes at (x, y).
func Flash(x, y float64) Token { return Token{Op: OpFlash, X: x, Y: y} }

// LayerStream is the ordered command stream for one (job, layer) pair.
type LayerStream []Token

// DrillProgram is a per-job drill: a tool-name -> diameter map (xdiam) and
// per-tool hit lists (xcommands), per spec §3 "Drill program".
type DrillProgram struct {
	Diameters map[string]float64            // tool name -> diameter, inches
	Hits      map[string][]geometry.Point   // tool name -> hit positions
}

// NewDrillProgram constructs an empty drill program.
func NewDrillProgram() *DrillProgram {
	return &DrillProgram{Diameters: map[string]float64{}, Hits: map[string][]geometry.Point{}}
}

// Job is a single board: its per-layer command streams, its drill program,
// a repeat count, and a cached outline bounding box (spec §3 "Job").
type Job struct {
	Name    string
	Layers  map[string]LayerStream
	Drill   *DrillProgram
	Repeat  int
	// OutlineLayer names the layer used to derive the bounding box; board
	// outline layers are conventionally named "outline" by upstream
	// parsers.
	OutlineLayer string

	bbox      geometry.Rect
	bboxValid bool
}

// New constructs a Job with the given name and outline layer name. Repeat
// defaults to 1 if count < 1, per spec ("repeat count >= 1").
func New(name, outlineLayer string, count int) *Job {
	if count < 1 {
		count = 1
	}
	return &Job{
		Name:         name,
		Layers:       make(map[string]LayerStream),
		Drill:        NewDrillProgram(),
		Repeat:       count,
		OutlineLayer: outlineLayer,
	}
}

// LayerNames returns every layer name present on this job, in no
// particular order; callers that need determinism should sort the result.
func (j *Job) LayerNames() []string {
	names := make([]string, 0, len(j.Layers))
	for n := range j.Layers {
		names = append(names, n)
	}
	return names
}

// invalidateBBox clears the cached bounding box; called whenever the
// outline layer's coordinates change.
func (j *Job) invalidateBBox() { j.bboxValid = false }

// BoundingBox returns the job's bounding box, derived solely from the
// outline layer (spec §4.3: "other layers may extend beyond and are not
// consulted"). The result is cached until the outline layer is mutated.
func (j *Job) BoundingBox() (geometry.Rect, error) {
	if j.bboxValid {
		return j.bbox, nil
	}
	stream, ok := j.Layers[j.OutlineLayer]
	if !ok || len(stream) == 0 {
		return geometry.Rect{}, fmt.Errorf("job %q: outline layer %q is empty or missing", j.Name, j.OutlineLayer)
	}
	first := true
	var r geometry.Rect
	for _, tok := range stream {
		if tok.IsApertureSelect() {
			continue
		}
		p := geometry.Point{X: tok.X, Y: tok.Y}
		if first {
			r = geometry.Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			first = false
			continue
		}
		if p.X < r.MinX {
			r.MinX = p.X
		}
		if p.Y < r.MinY {
			r.MinY = p.Y
		}
		if p.X > r.MaxX {
			r.MaxX = p.X
		}
		if p.Y > r.MaxY {
			r.MaxY = p.Y
		}
	}
	j.bbox = r
	j.bboxValid = true
	return r, nil
}

// WidthIn returns the bounding box width in inches.
func (j *Job) WidthIn() (float64, error) {
	r, err := j.BoundingBox()
	if err != nil {
		return 0, err
	}
	return r.Width(), nil
}

// HeightIn returns the bounding box height in inches.
func (j *Job) HeightIn() (float64, error) {
	r, err := j.BoundingBox()
	if err != nil {
		return 0, err
	}
	return r.Height(), nil
}

// MaxDimension returns max(width, height), used for the packer's pre-sort
// (spec §4.5 "Pre-sort").
func (j *Job) MaxDimension() (float64, error) {
	r, err := j.BoundingBox()
	if err != nil {
		return 0, err
	}
	if r.Width() > r.Height() {
		return r.Width(), nil
	}
	return r.Height(), nil
}
