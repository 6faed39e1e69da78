package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridRoundTrip(t *testing.T) {
	cases := []float64{0, 0.1, 4.0, -3.5, 0.00001}
	for _, in := range cases {
		got := FromGrid(Grid(in))
		assert.InDelta(t, in, got, 1e-4, "Grid/FromGrid(%v)", in)
	}
}

func TestGridRoundsHalfAwayFromZero(t *testing.T) {
	// 100000 units/inch: 0.000005in is exactly half a unit.
	assert.EqualValues(t, 1, Grid(0.000005))
	assert.EqualValues(t, -1, Grid(-0.000005))
}

func TestPointRotate90(t *testing.T) {
	p := Point{X: 3, Y: 4}
	got := p.Rotate90()
	require.True(t, got.EqualWithin(Point{X: -4, Y: 3}, 1e-9), "Rotate90(%v) = %v", p, got)
}

func TestTransformApplyRotateThenTranslate(t *testing.T) {
	tr := Transform{Rotated: true, DX: 10, DY: 20}
	got := tr.Apply(Point{X: 1, Y: 0})
	require.True(t, got.EqualWithin(Point{X: 10, Y: 21}, 1e-9), "Apply = %v", got)
}

func TestTransformApplyRectSwapsExtentsWhenRotated(t *testing.T) {
	r := NewRect(0, 0, 4, 3)
	tr := Transform{Rotated: true, DX: 0, DY: 0}
	got := tr.ApplyRect(r)
	assert.Equal(t, 3.0, got.Width())
	assert.Equal(t, 4.0, got.Height())
}

func TestRectOverlapsIgnoresEdgeTouching(t *testing.T) {
	a := NewRect(0, 0, 1, 1)
	b := NewRect(1, 0, 2, 1)
	assert.False(t, a.Overlaps(b), "edge-touching rects reported as overlapping")

	c := NewRect(0.5, 0, 1.5, 1)
	assert.True(t, a.Overlaps(c), "genuinely overlapping rects reported as not overlapping")
}

func TestRectWithinClosedBoundary(t *testing.T) {
	panel := NewRect(0, 0, 10, 10)
	exact := NewRect(0, 0, 10, 10)
	assert.True(t, exact.Within(panel), "rect exactly matching panel bounds should be Within")

	outside := NewRect(0, 0, 10.01, 10)
	assert.False(t, outside.Within(panel), "rect exceeding panel bounds should not be Within")
}

func TestRectUnion(t *testing.T) {
	a := NewRect(0, 0, 2, 2)
	b := NewRect(1, 1, 5, 3)
	assert.Equal(t, NewRect(0, 0, 5, 3), a.Union(b))
}
