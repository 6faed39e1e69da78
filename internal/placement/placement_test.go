package placement

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerbmerge-go/panelizer/internal/job"
)

func boxJob(name string, w, h float64) *job.Job {
	j := job.New(name, "outline", 1)
	j.Layers["outline"] = job.LayerStream{
		job.MoveTo(0, 0), job.LineTo(w, 0), job.LineTo(w, h), job.LineTo(0, h), job.LineTo(0, 0),
	}
	return j
}

func TestWriteFromFileRoundTrip(t *testing.T) {
	j1 := boxJob("A", 2, 1)
	j2 := boxJob("B", 1, 3)
	p := New()
	p.Entries = append(p.Entries,
		Entry{Job: j1, X: 0.1, Y: 0.1, Rotated: false},
		Entry{Job: j2, X: 3.0, Y: 0.1, Rotated: true},
	)

	path := filepath.Join(t.TempDir(), "panel.placement.txt")
	require.NoError(t, p.Write(path))

	jobsByName := map[string]*job.Job{"A": j1, "B": j2}
	got, err := FromFile(path, jobsByName)
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)

	for i, want := range p.Entries {
		e := got.Entries[i]
		assert.Equal(t, want.Job.Name, e.Job.Name)
		assert.Equal(t, want.Rotated, e.Rotated)
		assert.InDelta(t, want.X, e.X, 1e-4)
		assert.InDelta(t, want.Y, e.Y, 1e-4)
	}
}

func TestFromFileRejectsUnknownJob(t *testing.T) {
	j1 := boxJob("A", 2, 1)
	p := New()
	p.Entries = append(p.Entries, Entry{Job: j1, X: 0, Y: 0})
	path := filepath.Join(t.TempDir(), "panel.placement.txt")
	require.NoError(t, p.Write(path))

	_, err := FromFile(path, map[string]*job.Job{})
	require.Error(t, err)
	var unknown *LayoutReferencesUnknownJob
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "A", unknown.Name)
}

func TestExtentsUnionsAllFootprints(t *testing.T) {
	j1 := boxJob("A", 2, 1)
	j2 := boxJob("B", 1, 3)
	p := New()
	p.Entries = append(p.Entries,
		Entry{Job: j1, X: 0, Y: 0},
		Entry{Job: j2, X: 3, Y: 0},
	)
	ext, err := p.Extents()
	require.NoError(t, err)
	assert.Equal(t, 0.0, ext.MinX)
	assert.Equal(t, 0.0, ext.MinY)
	assert.Equal(t, 4.0, ext.MaxX)
	assert.Equal(t, 3.0, ext.MaxY)
}

func TestRotatedEntryFootprintSwapsDims(t *testing.T) {
	j1 := boxJob("A", 4, 3)
	e := Entry{Job: j1, X: 1, Y: 1, Rotated: true}
	fp, err := e.Footprint()
	require.NoError(t, err)
	assert.Equal(t, 3.0, fp.Width())
	assert.Equal(t, 4.0, fp.Height())
}
