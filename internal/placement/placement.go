// Package placement implements the spec §4.6 Placement type: the flat,
// ordered list of (job, x, y, rotated?) tuples that the packer (or a
// layout file, or a hand-authored placement file) produces, and which the
// merger consumes to drive emission.
package placement

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gerbmerge-go/panelizer/internal/geometry"
	"github.com/gerbmerge-go/panelizer/internal/job"
	"github.com/gerbmerge-go/panelizer/internal/pack"
)

// LayoutReferencesUnknownJob is returned by FromFile when a placement line
// names a job that does not appear in the caller's job set (spec §7).
type LayoutReferencesUnknownJob struct {
	Name string
}

func (e *LayoutReferencesUnknownJob) Error() string {
	return fmt.Sprintf("placement: layout references unknown job %q", e.Name)
}

// Entry is one placed job instance.
type Entry struct {
	Job           *job.Job
	X, Y          float64
	Rotated       bool
}

// Placement is the ordered list of Entry values chosen for a panel (spec
// §3 "Placement").
type Placement struct {
	Entries []Entry
}

// New constructs an empty Placement.
func New() *Placement { return &Placement{} }

// Footprint returns the axis-aligned rectangle occupied by e on the panel.
// (X, Y) is always the lower-left corner of the placed rectangle, the same
// convention pack.Placed uses: a rotated entry's width and height are
// already the job's swapped (RotW, RotH) dimensions, so the footprint is a
// plain translation, not a rotation-about-origin of the unrotated box (that
// would place it up to a job-width to the left of where the packer actually
// reserved space).
func (e Entry) Footprint() (geometry.Rect, error) {
	box, err := e.Job.BoundingBox()
	if err != nil {
		return geometry.Rect{}, err
	}
	w, h := box.Width(), box.Height()
	if e.Rotated {
		w, h = h, w
	}
	return geometry.NewRect(e.X, e.Y, e.X+w, e.Y+h), nil
}

// Extents returns the bounding box over every placed job's footprint
// (spec §4.6).
func (p *Placement) Extents() (geometry.Rect, error) {
	var result geometry.Rect
	first := true
	for _, e := range p.Entries {
		fp, err := e.Footprint()
		if err != nil {
			return geometry.Rect{}, err
		}
		if first {
			result = fp
			first = false
			continue
		}
		result = result.Union(fp)
	}
	return result, nil
}

// FromTiling flattens a pack.Tiling into a Placement, translating every
// item's packer-local origin by (originX, originY) (spec §4.6
// from_tiling).
func FromTiling(t pack.Tiling, originX, originY float64) *Placement {
	p := New()
	for _, placed := range t.Placed {
		p.Entries = append(p.Entries, Entry{
			Job:     placed.Item.Job,
			X:       placed.X + originX,
			Y:       placed.Y + originY,
			Rotated: placed.Rotated,
		})
	}
	return p
}

// LayoutRow is one row of jobs from an external layout parser (spec §4.6
// from_layout): the jobs are laid left-to-right within the row with
// xspacing, and rows are stacked bottom-to-top with yspacing by the
// caller before invoking FromLayout.
type LayoutRow struct {
	Jobs     []*job.Job
	X, Y     float64 // row origin, set by the caller before FromLayout
	XSpacing float64
}

// Height returns max(job.height) across the row's jobs.
func (r LayoutRow) Height() (float64, error) {
	var max float64
	for _, j := range r.Jobs {
		h, err := j.HeightIn()
		if err != nil {
			return 0, err
		}
		if h > max {
			max = h
		}
	}
	return max, nil
}

// FromLayout builds a Placement from pre-positioned rows: within each row,
// jobs are placed left-to-right starting at the row's origin, spaced by
// XSpacing (spec §4.6 from_layout).
func FromLayout(rows []LayoutRow) (*Placement, error) {
	p := New()
	for _, row := range rows {
		x := row.X
		for _, j := range row.Jobs {
			w, err := j.WidthIn()
			if err != nil {
				return nil, err
			}
			p.Entries = append(p.Entries, Entry{Job: j, X: x, Y: row.Y, Rotated: false})
			x += w + row.XSpacing
		}
	}
	return p, nil
}

// Write serializes the placement in the "name x y [rotated]" text format
// (one line per entry, inches) so runs are reproducible (spec §4.6). The
// first line is a "# run <uuid>" comment stamping a unique run identifier
// for build provenance; FromFile skips it (and any other "#"-prefixed
// line) rather than treating it as a malformed entry.
func (p *Placement) Write(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintf(w, "# run %s\n", uuid.NewString()); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	for _, e := range p.Entries {
		rot := ""
		if e.Rotated {
			rot = " rotated"
		}
		if _, err := fmt.Fprintf(w, "%s %.5f %.5f%s\n", e.Job.Name, e.X, e.Y, rot); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// FromFile reads a placement previously written by Write, validating that
// every referenced job exists in jobsByName (spec §4.6, spec §7
// LayoutReferencesUnknownJob).
func FromFile(path string, jobsByName map[string]*job.Job) (*Placement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parsePlacement(f, jobsByName)
}

func parsePlacement(r io.Reader, jobsByName map[string]*job.Job) (*Placement, error) {
	p := New()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("placement: malformed line %q", line)
		}
		name := fields[0]
		j, ok := jobsByName[name]
		if !ok {
			return nil, &LayoutReferencesUnknownJob{Name: name}
		}
		x, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("placement: bad x in %q: %w", line, err)
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("placement: bad y in %q: %w", line, err)
		}
		rotated := len(fields) >= 4 && fields[3] == "rotated"
		p.Entries = append(p.Entries, Entry{Job: j, X: x, Y: y, Rotated: rotated})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// SortedByJobName returns a copy of p's entries sorted by job name, a
// traversal order independent of placement order.
func (p *Placement) SortedByJobName() []Entry {
	out := make([]Entry, len(p.Entries))
	copy(out, p.Entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Job.Name < out[j].Job.Name })
	return out
}
