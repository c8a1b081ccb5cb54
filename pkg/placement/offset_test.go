package placement

import (
	"math/rand"
	"testing"

	"github.com/bastiangx/glosstip/pkg/errs"
)

func offsetInput(viewport Size, anchor Rect, surface Size) OffsetInput {
	return OffsetInput{
		Viewport:       viewport,
		Anchor:         anchor,
		Surface:        surface,
		ThemeOffset:    Offset{DX: 0, DY: 6},
		ViewportMargin: DefaultViewportMargin,
	}
}

func TestBaseOffset(t *testing.T) {
	anchor := Size{Width: 40, Height: 20}
	theme := Offset{DX: 5, DY: 6}
	for _, dir := range []Direction{LeftToRight, RightToLeft} {
		got := BaseOffset(anchor, theme, dir)
		if got != (Offset{DX: 5, DY: 26}) {
			t.Errorf("BaseOffset(%s) = %+v, want {5 26}", dir, got)
		}
	}
}

func TestResolveOffsetBottomRightCorner(t *testing.T) {
	in := offsetInput(
		Size{Width: 400, Height: 400},
		Rect{TopLeft: Point{X: 360, Y: 370}, Size: Size{Width: 30, Height: 20}},
		Size{Width: 180, Height: 80},
	)
	got, err := ResolveOffset(in)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Above {
		t.Error("surface should flip above the anchor")
	}
	// clamped to maxLeft 212, nudged inward to 204
	want := Offset{DX: 204 - 360, DY: 370 - 80 - 6 - 370}
	if got.Offset != want {
		t.Errorf("Offset = %+v, want %+v", got.Offset, want)
	}
	right := in.Anchor.TopLeft.X + got.Offset.DX + in.Surface.Width
	if right > in.Viewport.Width-DefaultViewportMargin {
		t.Errorf("right edge %v is inside the %v margin", right, DefaultViewportMargin)
	}
}

func TestResolveOffset(t *testing.T) {
	viewport := Size{Width: 400, Height: 400}
	surface := Size{Width: 180, Height: 80}

	testCases := []struct {
		in          OffsetInput
		expected    Placement
		description string
	}{
		{
			offsetInput(viewport, Rect{TopLeft: Point{X: 100, Y: 100}, Size: Size{Width: 30, Height: 20}}, surface),
			Placement{Offset: Offset{DX: 0, DY: 26}},
			"Fits below with no clamping",
		},
		{
			offsetInput(viewport, Rect{TopLeft: Point{X: 2, Y: 100}, Size: Size{Width: 30, Height: 20}}, surface),
			Placement{Offset: Offset{DX: 16 - 2, DY: 26}},
			"Left edge clamp plus nudge",
		},
		{
			offsetInput(viewport, Rect{TopLeft: Point{X: 100, Y: 20}, Size: Size{Width: 30, Height: 380}}, surface),
			Placement{Offset: Offset{DX: 0, DY: 312 - 20}},
			"No room above or below clamps the below placement",
		},
		{
			func() OffsetInput {
				in := offsetInput(viewport, Rect{TopLeft: Point{X: 100, Y: 250}, Size: Size{Width: 30, Height: 20}}, surface)
				in.KeyboardInset = 100
				return in
			}(),
			Placement{Offset: Offset{DX: 0, DY: -86}, Above: true},
			"Keyboard inset forces a flip",
		},
		{
			func() OffsetInput {
				in := offsetInput(viewport, Rect{TopLeft: Point{X: 100, Y: 100}, Size: Size{Width: 30, Height: 20}}, surface)
				in.ThemeOffset.DX = 50
				in.Direction = RightToLeft
				return in
			}(),
			Placement{Offset: Offset{DX: -50, DY: 26}},
			"Right-to-left negates the horizontal theme offset",
		},
		{
			func() OffsetInput {
				in := offsetInput(viewport, Rect{TopLeft: Point{X: 100, Y: 100}, Size: Size{Width: 30, Height: 20}}, surface)
				in.ThemeOffset.DX = 50
				return in
			}(),
			Placement{Offset: Offset{DX: 50, DY: 26}},
			"Left-to-right keeps the horizontal theme offset",
		},
		{
			offsetInput(viewport, Rect{TopLeft: Point{X: 100, Y: 100}, Size: Size{Width: 30, Height: 20}}, Size{Width: 390, Height: 80}),
			Placement{Offset: Offset{DX: 5 - 100, DY: 26}},
			"Margins collapse symmetrically for a wide surface",
		},
		{
			offsetInput(viewport, Rect{TopLeft: Point{X: 100, Y: 100}, Size: Size{Width: 30, Height: 20}}, Size{Width: 500, Height: 80}),
			Placement{Offset: Offset{DX: -100, DY: 26}},
			"Surface wider than viewport pins to the safe left edge",
		},
	}

	for _, tc := range testCases {
		got, err := ResolveOffset(tc.in)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tc.description, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("%s: ResolveOffset = %+v, want %+v", tc.description, got, tc.expected)
		}
	}
}

func TestResolveOffsetRejectsNegativeSizes(t *testing.T) {
	base := offsetInput(Size{Width: 400, Height: 400}, Rect{Size: Size{Width: 10, Height: 10}}, Size{Width: 100, Height: 50})

	mutations := []struct {
		apply       func(*OffsetInput)
		description string
	}{
		{func(in *OffsetInput) { in.Viewport.Width = -1 }, "Negative viewport"},
		{func(in *OffsetInput) { in.Surface.Height = -1 }, "Negative surface"},
		{func(in *OffsetInput) { in.Anchor.Size.Width = -1 }, "Negative anchor"},
		{func(in *OffsetInput) { in.SafeArea.Bottom = -1 }, "Negative inset"},
		{func(in *OffsetInput) { in.KeyboardInset = -1 }, "Negative keyboard inset"},
		{func(in *OffsetInput) { in.ViewportMargin = -1 }, "Negative margin"},
	}
	for _, m := range mutations {
		in := base
		m.apply(&in)
		if _, err := ResolveOffset(in); !errs.IsConfiguration(err) {
			t.Errorf("%s: error = %v, want configuration error", m.description, err)
		}
	}

	// negative anchor positions are fine: the anchor may be scrolled off-screen
	in := base
	in.Anchor.TopLeft = Point{X: -50, Y: -50}
	if _, err := ResolveOffset(in); err != nil {
		t.Errorf("negative anchor position rejected: %v", err)
	}
}

func TestPlacementContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 2000; n++ {
		viewport := Size{Width: 200 + rng.Float64()*800, Height: 200 + rng.Float64()*800}
		safe := Insets{
			Top:    rng.Float64() * 40,
			Right:  rng.Float64() * 30,
			Bottom: rng.Float64() * 40,
			Left:   rng.Float64() * 30,
		}
		keyboard := 0.0
		if rng.Intn(3) == 0 {
			keyboard = rng.Float64() * 60
		}
		availW := viewport.Width - safe.Left - safe.Right
		availH := viewport.Height - safe.Top - safe.Bottom - keyboard
		surface := Size{Width: rng.Float64() * availW, Height: rng.Float64() * availH}
		anchor := Rect{
			TopLeft: Point{X: rng.Float64()*viewport.Width*1.2 - 40, Y: rng.Float64()*viewport.Height*1.2 - 40},
			Size:    Size{Width: rng.Float64() * 80, Height: rng.Float64() * 30},
		}
		dir := LeftToRight
		if rng.Intn(2) == 0 {
			dir = RightToLeft
		}

		in := OffsetInput{
			Viewport:       viewport,
			Anchor:         anchor,
			Surface:        surface,
			ThemeOffset:    Offset{DX: rng.Float64()*40 - 20, DY: rng.Float64() * 12},
			SafeArea:       safe,
			KeyboardInset:  keyboard,
			Direction:      dir,
			ViewportMargin: DefaultViewportMargin,
		}
		got, err := ResolveOffset(in)
		if err != nil {
			t.Fatal(err)
		}

		const eps = 1e-9
		left := anchor.TopLeft.X + got.Offset.DX
		top := anchor.TopLeft.Y + got.Offset.DY
		if left < safe.Left-eps || left+surface.Width > viewport.Width-safe.Right+eps {
			t.Fatalf("case %d: horizontal escape left=%v width=%v input=%+v", n, left, surface.Width, in)
		}
		if top < safe.Top-eps || top+surface.Height > viewport.Height-safe.Bottom-keyboard+eps {
			t.Fatalf("case %d: vertical escape top=%v height=%v input=%+v", n, top, surface.Height, in)
		}
	}
}

func TestLayoutTwoPhase(t *testing.T) {
	geom := Geometry{
		Viewport: Size{Width: 360, Height: 640},
		Anchor:   Rect{TopLeft: Point{X: 300, Y: 600}, Size: Size{Width: 40, Height: 18}},
	}
	l, err := NewLayout(geom, DefaultTheme())
	if err != nil {
		t.Fatal(err)
	}
	if l.Orientation() != Portrait {
		t.Errorf("Orientation = %s, want portrait", l.Orientation())
	}

	wc, err := l.Constrain()
	if err != nil {
		t.Fatal(err)
	}
	if wc.MaxWidth != 320 {
		t.Errorf("MaxWidth = %v, want 320", wc.MaxWidth)
	}

	measured := Size{Width: wc.Clamp(400), Height: 90}
	p, err := l.Place(measured)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Above {
		t.Error("anchor near the bottom should flip above")
	}
	left := geom.Anchor.TopLeft.X + p.Offset.DX
	if left < 8 || left+measured.Width > 352 {
		t.Errorf("surface [%v, %v] escapes the margins", left, left+measured.Width)
	}
}

func TestNewLayoutRejectsInvalidGeometry(t *testing.T) {
	_, err := NewLayout(Geometry{Viewport: Size{Width: -1, Height: 10}}, DefaultTheme())
	if !errs.IsConfiguration(err) {
		t.Errorf("error = %v, want configuration error", err)
	}
	_, err = NewLayout(Geometry{Viewport: Size{Width: 10, Height: 10}}, Theme{ViewportMargin: -2})
	if !errs.IsConfiguration(err) {
		t.Errorf("error = %v, want configuration error", err)
	}
}

func TestOrientationOf(t *testing.T) {
	if OrientationOf(Size{Width: 800, Height: 400}) != Landscape {
		t.Error("wide viewport should be landscape")
	}
	if OrientationOf(Size{Width: 400, Height: 400}) != Portrait {
		t.Error("square viewport should be portrait")
	}
}
