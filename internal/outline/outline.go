// Package outline exports the panel's board-outline rectangle as a DXF
// drawing, a supplemental output some fab houses want alongside the
// Gerber board-outline file. The original gerbmerge.py has no DXF output;
// this package is a supplemental addition.
//
// Grounded on github.com/yofu/dxf, a dependency the teacher repo already
// carries transitively (jsleeio/frontpanels go.mod); this is the only
// pack repo that exercises a CAD interchange format, so the panel
// extents rectangle is emitted through it rather than hand-rolled DXF
// text.
package outline

import (
	"github.com/yofu/dxf"

	"github.com/gerbmerge-go/panelizer/internal/geometry"
)

// LayerName is the DXF layer the outline rectangle is drawn on.
const LayerName = "BOARD_OUTLINE"

// Write renders extents as a closed four-segment polyline on LayerName
// and saves the drawing to path.
func Write(path string, extents geometry.Rect) error {
	d := dxf.NewDrawing()
	d.AddLayer(LayerName, dxf.DefaultColor, dxf.DefaultLineType, true)

	corners := [][2]float64{
		{extents.MinX, extents.MinY},
		{extents.MaxX, extents.MinY},
		{extents.MaxX, extents.MaxY},
		{extents.MinX, extents.MaxY},
		{extents.MinX, extents.MinY},
	}
	d.ChangeLayer(LayerName)
	for i := 0; i+1 < len(corners); i++ {
		a, b := corners[i], corners[i+1]
		d.Line(a[0], a[1], 0, b[0], b[1], 0)
	}
	return d.SaveAs(path)
}
