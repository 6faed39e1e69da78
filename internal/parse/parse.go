// Package parse is a minimal, line-oriented reader that builds Job
// fixtures from a small textual format. It is explicitly NOT a
// production Gerber/Excellon parser: spec §1 scopes the real RS-274X
// and Excellon lexers out as an external collaborator whose interface
// (a populated Job plus GAT/GAMT) is all that is specified here. This
// package exists only so the rest of the tree has fixtures to build and
// test against.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gerbmerge-go/panelizer/internal/aperture"
	"github.com/gerbmerge-go/panelizer/internal/geometry"
	"github.com/gerbmerge-go/panelizer/internal/job"
)

// Fixture reads a minimal textual job description from r:
//
//	LAYER <name>
//	A <code>
//	M <x> <y>
//	L <x> <y>
//	F <x> <y>
//	ENDLAYER
//	DRILL
//	T <tool> <diameter>
//	H <tool> <x> <y>
//	ENDDRILL
//
// Aperture codes referenced by "A" lines must already be present in gat
// (the caller populates it beforehand, standing in for the upstream
// parser's own aperture discovery).
func Fixture(r io.Reader, name, outlineLayer string, repeat int, gat *aperture.Table) (*job.Job, error) {
	j := job.New(name, outlineLayer, repeat)
	scanner := bufio.NewScanner(r)
	curLayer := ""
	inDrill := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "LAYER":
			curLayer = fields[1]
			if _, ok := j.Layers[curLayer]; !ok {
				j.Layers[curLayer] = job.LayerStream{}
			}
		case "ENDLAYER":
			curLayer = ""
		case "DRILL":
			inDrill = true
		case "ENDDRILL":
			inDrill = false
		case "A":
			if curLayer == "" {
				return nil, fmt.Errorf("parse: %q outside LAYER block", line)
			}
			if _, ok := gat.Get(fields[1]); !ok {
				return nil, fmt.Errorf("parse: unknown aperture code %q", fields[1])
			}
			j.Layers[curLayer] = append(j.Layers[curLayer], job.SelectAperture(fields[1]))
		case "M", "L", "F":
			if curLayer == "" {
				return nil, fmt.Errorf("parse: %q outside LAYER block", line)
			}
			x, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("parse: %q: %w", line, err)
			}
			y, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("parse: %q: %w", line, err)
			}
			var tok job.Token
			switch fields[0] {
			case "M":
				tok = job.MoveTo(x, y)
			case "L":
				tok = job.LineTo(x, y)
			case "F":
				tok = job.Flash(x, y)
			}
			j.Layers[curLayer] = append(j.Layers[curLayer], tok)
		case "T":
			if !inDrill {
				return nil, fmt.Errorf("parse: %q outside DRILL block", line)
			}
			diam, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("parse: %q: %w", line, err)
			}
			j.Drill.Diameters[fields[1]] = diam
		case "H":
			if !inDrill {
				return nil, fmt.Errorf("parse: %q outside DRILL block", line)
			}
			x, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("parse: %q: %w", line, err)
			}
			y, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("parse: %q: %w", line, err)
			}
			j.Drill.Hits[fields[1]] = append(j.Drill.Hits[fields[1]], geometry.Point{X: x, Y: y})
		default:
			return nil, fmt.Errorf("parse: unknown directive %q", fields[0])
		}
	}
	return j, scanner.Err()
}

// Apertures reads a minimal textual aperture-definition format and inserts
// each one into gat under its explicit code, standing in for the upstream
// parser's own aperture-table population (spec §3: "Populated by the
// parser as each job is read"):
//
//	D10 circle 0.010
//	D11 rect 0.050 0.080
//	D12 oval 0.050 0.080
//	D13 octagon 0.080 22.5
//	D14 macro MACRONAME 0.5 1.0 2.0
//
// Codes are inserted via aperture.Table.Insert, which preserves the
// requested code unless an equal shape already occupies a different one,
// matching how Job fixtures reference aperture codes directly by name
// rather than by content.
func Apertures(r io.Reader, gat *aperture.Table) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return fmt.Errorf("parse: malformed aperture line %q", line)
		}
		code := fields[0]
		shape, err := parseApertureShape(fields[1], fields[2:])
		if err != nil {
			return fmt.Errorf("parse: %q: %w", line, err)
		}
		gat.Insert(code, shape)
	}
	return scanner.Err()
}

func parseApertureShape(kind string, args []string) (aperture.Shape, error) {
	floats := make([]float64, len(args))
	for i, a := range args {
		if kind == "macro" && i == 0 {
			continue
		}
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("bad numeric parameter %q: %w", a, err)
		}
		floats[i] = v
	}
	switch kind {
	case "circle":
		if len(args) < 1 {
			return nil, fmt.Errorf("circle requires a diameter")
		}
		return aperture.Circle{Diameter: floats[0]}, nil
	case "rect":
		if len(args) < 2 {
			return nil, fmt.Errorf("rect requires width and height")
		}
		return aperture.Rect{W: floats[0], H: floats[1]}, nil
	case "oval":
		if len(args) < 2 {
			return nil, fmt.Errorf("oval requires width and height")
		}
		return aperture.Oval{W: floats[0], H: floats[1]}, nil
	case "octagon":
		if len(args) < 2 {
			return nil, fmt.Errorf("octagon requires a diameter and rotation")
		}
		return aperture.Octagon{Diameter: floats[0], Rotation: floats[1]}, nil
	case "macro":
		if len(args) < 1 {
			return nil, fmt.Errorf("macro requires a macro name")
		}
		return aperture.MacroInstance{MacroName: args[0], Params: floats[1:]}, nil
	default:
		return nil, fmt.Errorf("unknown aperture kind %q", kind)
	}
}
