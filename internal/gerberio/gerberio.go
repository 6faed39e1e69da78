// Package gerberio formats the low-level RS-274X and Excellon tokens that
// make up an emitted file: zero-padded coordinate words, D-code draw/move/
// flash commands, aperture and macro definitions, and the fixed preludes
// and footers spec §6 specifies verbatim.
//
// The coordinate/aperture formatting here is grounded on
// github.com/gmlewis/go-gerber's Aperture.WriteGerber and Layer.WriteGerber
// methods (see internal/aperture for the Shape modelling this adapts), but
// go-gerber works in millimeters against its own Primitive graph; this
// package instead formats the inch/100000-grid absolute-coordinate command
// stream the spec and the original gerbmerge.py both use.
package gerberio

import (
	"fmt"
	"io"
	"strings"

	"github.com/gerbmerge-go/panelizer/internal/aperture"
	"github.com/gerbmerge-go/panelizer/internal/geometry"
)

// CoordWord formats a single signed coordinate as a zero-padded 7-digit
// fixed-point value (2 integer + 5 fractional digits), per spec §4.1:
// "coordinates are zero-padded to 7 digits" -- leading-zero omission is
// NOT used by this emitter.
func CoordWord(inches float64) string {
	return fmt.Sprintf("%07d", geometry.Grid(inches))
}

// WriteMove writes an X..Y..D02* move command.
func WriteMove(w io.Writer, x, y float64) error {
	_, err := fmt.Fprintf(w, "X%sY%sD02*\n", CoordWord(x), CoordWord(y))
	return err
}

// WriteLine writes an X..Y..D01* draw command.
func WriteLine(w io.Writer, x, y float64) error {
	_, err := fmt.Fprintf(w, "X%sY%sD01*\n", CoordWord(x), CoordWord(y))
	return err
}

// WriteFlash writes an X..Y..D03* flash command.
func WriteFlash(w io.Writer, x, y float64) error {
	_, err := fmt.Fprintf(w, "X%sY%sD03*\n", CoordWord(x), CoordWord(y))
	return err
}

// WriteApertureSelect writes a bare Dnn* aperture-select command.
func WriteApertureSelect(w io.Writer, code string) error {
	_, err := fmt.Fprintf(w, "%s*\n", code)
	return err
}

// WriteComment writes a G04 comment line. Gerber comments terminate at the
// first '*', so any literal '*' in text is replaced with '_' to keep the
// line well-formed.
func WriteComment(w io.Writer, text string) error {
	_, err := fmt.Fprintf(w, "G04 %s*\n", strings.ReplaceAll(text, "*", "_"))
	return err
}

// OctagonMacroRotated is the %AMOC8* macro body used when octagons are
// emitted at 0 degrees rotation (the --octagons=rotate CLI mode).
const OctagonMacroRotated = "5,1,8,0,0,1.08239X$1,0.0*"

// OctagonMacroNormal is the %AMOC8* macro body used at the default 22.5
// degree rotation. Both literals are verbatim from gerbmerge.py's
// writeGerberHeader{0,22}degrees, which gmlewis/go-gerber's own octagon
// handling agrees with (regular-octagon macro, apothem constant
// 1.08239 = 1/cos(22.5 deg)).
const OctagonMacroNormal = "5,1,8,0,0,1.08239X$1,22.5*"

// WriteGerberPrelude writes the fixed RS-274X header shared by every
// emitted layer (spec §6): format statement, inch mode, positive polarity,
// and the standard octagon macro at the configured rotation.
func WriteGerberPrelude(w io.Writer, octagonRotated bool) error {
	macro := OctagonMacroNormal
	if octagonRotated {
		macro = OctagonMacroRotated
	}
	_, err := fmt.Fprintf(w, "G75*\nG70*\n%%OFA0B0*%%\n%%FSLAX25Y25*%%\n%%IPPOS*%%\n%%LPD*%%\n%%AMOC8*\n%s\n%%\n", macro)
	return err
}

// WriteGerberFooter writes the M02* end-of-program command.
func WriteGerberFooter(w io.Writer) error {
	_, err := fmt.Fprintf(w, "M02*\n")
	return err
}

// WriteExcellonHeader writes the minimal Excellon prelude.
func WriteExcellonHeader(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%%\n")
	return err
}

// WriteExcellonFooter writes the M30 end-of-program command.
func WriteExcellonFooter(w io.Writer) error {
	_, err := fmt.Fprintf(w, "M30\n")
	return err
}

// WriteExcellonTool writes a tool definition line, e.g. "T01C0.025000".
func WriteExcellonTool(w io.Writer, tool string, diameter float64) error {
	_, err := fmt.Fprintf(w, "%sC%f\n", tool, diameter)
	return err
}

// WriteExcellonHit writes a drill hit position, e.g. "X0012345Y0006789".
func WriteExcellonHit(w io.Writer, x, y float64) error {
	_, err := fmt.Fprintf(w, "X%sY%s\n", CoordWord(x), CoordWord(y))
	return err
}

// ApertureDef formats an aperture definition line for shape under code,
// e.g. "%ADD10C,0.010000*%".
func ApertureDef(code string, shape aperture.Shape) (string, error) {
	switch s := shape.(type) {
	case aperture.Circle:
		return fmt.Sprintf("%%AD%sC,%.6f*%%", code, s.Diameter), nil
	case aperture.Rect:
		return fmt.Sprintf("%%AD%sR,%.6fX%.6f*%%", code, s.W, s.H), nil
	case aperture.Oval:
		return fmt.Sprintf("%%AD%sO,%.6fX%.6f*%%", code, s.W, s.H), nil
	case aperture.Octagon:
		return fmt.Sprintf("%%AD%sOC8,%.6fX%.3f*%%", code, s.Diameter, s.Rotation), nil
	case aperture.MacroInstance:
		params := ""
		for i, p := range s.Params {
			if i > 0 {
				params += "X"
			}
			params += fmt.Sprintf("%.6f", p)
		}
		return fmt.Sprintf("%%AD%s%s,%s*%%", code, s.MacroName, params), nil
	default:
		return "", fmt.Errorf("gerberio: unsupported aperture shape %T", shape)
	}
}

// MacroDef formats a macro definition block for name with the given body
// (the body is the opaque, already-formatted primitive list stored in the
// GAMT).
func MacroDef(name, body string) string {
	return fmt.Sprintf("%%AM%s*\n%s\n%%", name, body)
}
