/*
Package placement positions a floating info surface (a tooltip card) next to
the anchor token that triggered it, keeping the surface inside the visible
viewport.

Resolution is two-phase because the surface size is only known after a
layout pass:

	l, err := placement.NewLayout(geom, theme)
	wc, err := l.Constrain()          // bound the surface before layout
	// ... host lays the surface out within wc and measures it ...
	p, err := l.Place(measured)       // offset relative to the anchor

All functions are pure. Geometry that cannot fit degrades to a best-effort
clamped placement; only negative or non-numeric inputs are errors.
*/
package placement

import (
	"math"

	"github.com/bastiangx/glosstip/pkg/errs"
)

// Layout constants, in host units.
const (
	// OuterGutter is kept clear on both sides when bounding the surface width.
	OuterGutter = 8.0
	// DefaultViewportMargin is the preferred gap between surface and viewport edges.
	DefaultViewportMargin = 8.0
	// EdgeNudge moves a surface clamped against an edge further inward.
	EdgeNudge = 8.0
	// PortraitCeiling and LandscapeCeiling cap the width regardless of other limits.
	PortraitCeiling  = 360.0
	LandscapeCeiling = 600.0
)

// Point is a position in viewport coordinates.
type Point struct {
	X float64 `msgpack:"x" toml:"x"`
	Y float64 `msgpack:"y" toml:"y"`
}

// Size is a width and height in viewport units.
type Size struct {
	Width  float64 `msgpack:"w" toml:"width"`
	Height float64 `msgpack:"h" toml:"height"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	TopLeft Point `msgpack:"p"`
	Size    Size  `msgpack:"s"`
}

// Insets are the safe-area margins reserved by the host system UI.
type Insets struct {
	Top    float64 `msgpack:"t" toml:"top"`
	Right  float64 `msgpack:"r" toml:"right"`
	Bottom float64 `msgpack:"b" toml:"bottom"`
	Left   float64 `msgpack:"l" toml:"left"`
}

// Offset is a delta relative to the anchor's top-left corner.
type Offset struct {
	DX float64 `msgpack:"dx" toml:"dx"`
	DY float64 `msgpack:"dy" toml:"dy"`
}

// Direction is the horizontal reading direction of the host.
type Direction uint8

const (
	LeftToRight Direction = iota
	RightToLeft
)

func (d Direction) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// Orientation selects the hard width ceiling.
type Orientation uint8

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// OrientationOf treats a viewport wider than it is tall as landscape.
func OrientationOf(viewport Size) Orientation {
	if viewport.Width > viewport.Height {
		return Landscape
	}
	return Portrait
}

// Ceiling returns the hard width cap for the orientation.
func (o Orientation) Ceiling() float64 {
	if o == Landscape {
		return LandscapeCeiling
	}
	return PortraitCeiling
}

// Theme carries the numeric fields of the tooltip theme.
// MaxWidth and MinWidth of zero mean unset.
type Theme struct {
	MaxWidth       float64 `msgpack:"max_w,omitempty"`
	CardWidth      float64 `msgpack:"card_w"`
	MinWidth       float64 `msgpack:"min_w,omitempty"`
	Offset         Offset  `msgpack:"off"`
	ViewportMargin float64 `msgpack:"margin"`
}

// DefaultTheme is a 320 wide card placed 6 units below its anchor.
func DefaultTheme() Theme {
	return Theme{
		CardWidth:      320,
		Offset:         Offset{DX: 0, DY: 6},
		ViewportMargin: DefaultViewportMargin,
	}
}

func (t Theme) validate() error {
	if err := nonNegative("theme max_width", t.MaxWidth); err != nil {
		return err
	}
	if err := nonNegative("theme card_width", t.CardWidth); err != nil {
		return err
	}
	if err := nonNegative("theme min_width", t.MinWidth); err != nil {
		return err
	}
	if err := finite("theme offset dx", t.Offset.DX); err != nil {
		return err
	}
	if err := finite("theme offset dy", t.Offset.DY); err != nil {
		return err
	}
	return nonNegativeFinite("theme viewport_margin", t.ViewportMargin)
}

func (in Insets) validate(field string) error {
	for _, v := range []float64{in.Top, in.Right, in.Bottom, in.Left} {
		if err := nonNegativeFinite(field, v); err != nil {
			return err
		}
	}
	return nil
}

func (s Size) validate(field string) error {
	if err := nonNegativeFinite(field+" width", s.Width); err != nil {
		return err
	}
	return nonNegativeFinite(field+" height", s.Height)
}

// nonNegative accepts +Inf, which callers use for "unbounded".
func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || v < 0 {
		return errs.Config(field, v, "must be a non-negative number")
	}
	return nil
}

func nonNegativeFinite(field string, v float64) error {
	if err := nonNegative(field, v); err != nil {
		return err
	}
	if math.IsInf(v, 1) {
		return errs.Config(field, v, "must be finite")
	}
	return nil
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errs.Config(field, v, "must be a finite number")
	}
	return nil
}

// clampRange pins v into [lo, hi]; an inverted range yields lo.
func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
