package placement

import "math"

// WidthConstraints bounds the surface width. MinWidth <= MaxWidth always holds.
type WidthConstraints struct {
	MinWidth float64 `msgpack:"min"`
	MaxWidth float64 `msgpack:"max"`
}

// ConstraintInput is the pre-layout snapshot used to bound the surface.
// ParentMaxWidth and ViewportWidth may be +Inf when unbounded.
type ConstraintInput struct {
	ParentMaxWidth float64
	ViewportWidth  float64
	SafeArea       Insets
	Orientation    Orientation
	Theme          Theme
}

// ResolveConstraints intersects the viewport, parent, theme and orientation
// caps. No single source can push the width past another source's limit.
func ResolveConstraints(in ConstraintInput) (WidthConstraints, error) {
	if err := nonNegative("parent max width", in.ParentMaxWidth); err != nil {
		return WidthConstraints{}, err
	}
	if err := nonNegative("viewport width", in.ViewportWidth); err != nil {
		return WidthConstraints{}, err
	}
	if err := in.SafeArea.validate("safe area"); err != nil {
		return WidthConstraints{}, err
	}
	if err := in.Theme.validate(); err != nil {
		return WidthConstraints{}, err
	}

	unbounded := math.Inf(1)

	viewportCap := unbounded
	if !math.IsInf(in.ViewportWidth, 1) {
		viewportCap = math.Max(0, in.ViewportWidth-(in.SafeArea.Left+in.SafeArea.Right)-2*OuterGutter)
	}

	overlayCap := unbounded
	if !math.IsInf(in.ParentMaxWidth, 1) {
		overlayCap = math.Max(0, in.ParentMaxWidth-2*OuterGutter)
	}

	themeCap := unbounded
	switch {
	case in.Theme.MaxWidth > 0:
		themeCap = in.Theme.MaxWidth
	case in.Orientation == Portrait:
		themeCap = in.Theme.CardWidth
	}

	maxWidth := math.Min(math.Min(viewportCap, overlayCap), themeCap)
	maxWidth = math.Max(0, math.Min(maxWidth, in.Orientation.Ceiling()))

	minWidth := math.Min(in.Theme.MinWidth, maxWidth)

	return WidthConstraints{MinWidth: minWidth, MaxWidth: maxWidth}, nil
}

// Clamp fits w into the constraints.
func (wc WidthConstraints) Clamp(w float64) float64 {
	return clampRange(w, wc.MinWidth, wc.MaxWidth)
}
