package feature

import (
	"fmt"

	"github.com/gerbmerge-go/panelizer/internal/geometry"
)

// DefaultTextSize is used for Text features unless configured otherwise,
// carried over from the teacher's features.DefaultTextSize.
const DefaultTextSize = 14.0 // points

// Text describes a fabrication-drawing legend string: a job reference
// designator, panel statistics, or similar. Adapted from the teacher's
// features.Text.
type Text struct {
	Origin geometry.Point
	Alignment
	Role
	Text   string
	Size   float64
	Rotate float64 // radians
}

// TextOptionFunc functions mutate a Text structure.
type TextOptionFunc func(*Text)

// WithAlignment sets alignment for a text feature.
func WithAlignment(align Alignment) TextOptionFunc {
	return func(t *Text) { t.Alignment = align }
}

// WithSize sets size for a text feature.
func WithSize(size float64) TextOptionFunc {
	return func(t *Text) { t.Size = size }
}

// WithRotation configures rotation (in radians) for a text feature.
func WithRotation(r float64) TextOptionFunc {
	return func(t *Text) { t.Rotate = r }
}

// NewText creates a new Text feature.
func NewText(origin geometry.Point, text string, options ...TextOptionFunc) *Text {
	t := &Text{Origin: origin, Text: text, Size: DefaultTextSize}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *Text) GetRole() Role  { return t.Role }
func (t *Text) SetRole(r Role) { t.Role = r }

// String satisfies the Stringer interface to aid debug printing.
func (t Text) String() string {
	return fmt.Sprintf("Text(x=%.5f, y=%.5f, size=%.2f, align=%s, role=%s, text=%q)",
		t.Origin.X, t.Origin.Y, t.Size, t.Alignment.String(), t.Role.String(), t.Text)
}
