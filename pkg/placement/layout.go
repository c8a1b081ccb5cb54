package placement

import "math"

// Geometry is the host-supplied snapshot around one anchor.
// A zero ParentMaxWidth means the parent imposes no width limit.
type Geometry struct {
	Viewport       Size      `msgpack:"vp"`
	Anchor         Rect      `msgpack:"anchor"`
	SafeArea       Insets    `msgpack:"safe"`
	KeyboardInset  float64   `msgpack:"kb"`
	Direction      Direction `msgpack:"dir"`
	ParentMaxWidth float64   `msgpack:"parent_w,omitempty"`
}

// Layout runs the two-phase protocol for one anchor: Constrain before the
// surface is laid out, Place once it has been measured. Recreate it on any
// geometry change (resize, orientation flip, scroll).
type Layout struct {
	geom  Geometry
	theme Theme
}

// NewLayout validates geom and theme.
func NewLayout(geom Geometry, theme Theme) (*Layout, error) {
	if err := geom.Viewport.validate("viewport"); err != nil {
		return nil, err
	}
	if err := geom.Anchor.Size.validate("anchor"); err != nil {
		return nil, err
	}
	if err := nonNegative("parent max width", geom.ParentMaxWidth); err != nil {
		return nil, err
	}
	if err := theme.validate(); err != nil {
		return nil, err
	}
	return &Layout{geom: geom, theme: theme}, nil
}

// Orientation is derived from the viewport aspect.
func (l *Layout) Orientation() Orientation {
	return OrientationOf(l.geom.Viewport)
}

// Constrain returns the width bounds for the not-yet-measured surface.
func (l *Layout) Constrain() (WidthConstraints, error) {
	parent := l.geom.ParentMaxWidth
	if parent == 0 {
		parent = math.Inf(1)
	}
	return ResolveConstraints(ConstraintInput{
		ParentMaxWidth: parent,
		ViewportWidth:  l.geom.Viewport.Width,
		SafeArea:       l.geom.SafeArea,
		Orientation:    l.Orientation(),
		Theme:          l.theme,
	})
}

// Place positions the measured surface relative to the anchor.
func (l *Layout) Place(measured Size) (Placement, error) {
	return ResolveOffset(OffsetInput{
		Viewport:       l.geom.Viewport,
		Anchor:         l.geom.Anchor,
		Surface:        measured,
		ThemeOffset:    l.theme.Offset,
		SafeArea:       l.geom.SafeArea,
		KeyboardInset:  l.geom.KeyboardInset,
		Direction:      l.geom.Direction,
		ViewportMargin: l.theme.ViewportMargin,
	})
}
