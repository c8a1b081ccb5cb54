package placement

import "math"

// OffsetInput is the post-layout snapshot used to position a measured surface.
type OffsetInput struct {
	Viewport       Size
	Anchor         Rect
	Surface        Size
	ThemeOffset    Offset
	SafeArea       Insets
	KeyboardInset  float64
	Direction      Direction
	ViewportMargin float64
}

// Placement is the resolved position of the surface.
type Placement struct {
	Offset Offset `msgpack:"off"`
	// Above is set when the surface flipped above its anchor.
	Above bool `msgpack:"above"`
}

// BaseOffset is the unclamped position below the anchor. It never shifts
// horizontally for right-to-left; mirroring happens in ResolveOffset once
// the surface has been measured.
func BaseOffset(anchor Size, themeOffset Offset, _ Direction) Offset {
	return Offset{DX: themeOffset.DX, DY: anchor.Height + themeOffset.DY}
}

// ResolveOffset positions the surface below its anchor, flipping above when
// the bottom is clipped and there is room on top, and clamping into the
// safe viewport otherwise. For RightToLeft the theme's horizontal offset is
// negated. The result is relative to the anchor's top-left.
func ResolveOffset(in OffsetInput) (Placement, error) {
	if err := in.validate(); err != nil {
		return Placement{}, err
	}

	base := BaseOffset(in.Anchor.Size, in.ThemeOffset, in.Direction)
	dx := base.DX
	if in.Direction == RightToLeft {
		dx = -dx
	}

	left := resolveLeft(in, in.Anchor.TopLeft.X+dx)
	top, above := resolveTop(in, in.Anchor.TopLeft.Y+base.DY)

	return Placement{
		Offset: Offset{DX: left - in.Anchor.TopLeft.X, DY: top - in.Anchor.TopLeft.Y},
		Above:  above,
	}, nil
}

func resolveLeft(in OffsetInput, desired float64) float64 {
	w := in.Surface.Width
	safeLeft := in.SafeArea.Left
	safeRight := in.Viewport.Width - in.SafeArea.Right

	margin := collapseMargin(in.ViewportMargin, safeRight-safeLeft, w)
	minLeft := safeLeft + margin
	maxLeft := safeRight - margin - w

	if minLeft > maxLeft {
		return clampRange(desired, safeLeft, safeRight-w)
	}

	left := clampRange(desired, minLeft, maxLeft)
	switch {
	case desired < minLeft:
		left = math.Min(minLeft+EdgeNudge, maxLeft)
	case desired > maxLeft:
		left = math.Max(maxLeft-EdgeNudge, minLeft)
	}
	return left
}

func resolveTop(in OffsetInput, desired float64) (float64, bool) {
	h := in.Surface.Height
	safeTop := in.SafeArea.Top
	safeBottom := in.Viewport.Height - in.SafeArea.Bottom - in.KeyboardInset

	margin := collapseMargin(in.ViewportMargin, safeBottom-safeTop, h)
	topLimit := safeTop + margin
	bottomLimit := safeBottom - margin

	if desired+h > bottomLimit {
		above := in.Anchor.TopLeft.Y - h - in.ThemeOffset.DY
		if above >= topLimit {
			return clampRange(above, topLimit, bottomLimit-h), true
		}
	}
	return clampRange(desired, topLimit, bottomLimit-h), false
}

// collapseMargin shrinks the margin symmetrically when the surface plus
// two margins does not fit in the available span.
func collapseMargin(margin, available, extent float64) float64 {
	if extent+2*margin <= available {
		return margin
	}
	return math.Max(0, (available-extent)/2)
}

func (in OffsetInput) validate() error {
	if err := in.Viewport.validate("viewport"); err != nil {
		return err
	}
	if err := in.Anchor.Size.validate("anchor"); err != nil {
		return err
	}
	if err := finite("anchor x", in.Anchor.TopLeft.X); err != nil {
		return err
	}
	if err := finite("anchor y", in.Anchor.TopLeft.Y); err != nil {
		return err
	}
	if err := in.Surface.validate("surface"); err != nil {
		return err
	}
	if err := finite("theme offset dx", in.ThemeOffset.DX); err != nil {
		return err
	}
	if err := finite("theme offset dy", in.ThemeOffset.DY); err != nil {
		return err
	}
	if err := in.SafeArea.validate("safe area"); err != nil {
		return err
	}
	if err := nonNegativeFinite("keyboard inset", in.KeyboardInset); err != nil {
		return err
	}
	return nonNegativeFinite("viewport margin", in.ViewportMargin)
}
