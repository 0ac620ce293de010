//go:build unit

package parallax

import (
	"math"
	"testing"
)

func TestProgress(t *testing.T) {
	testCases := []struct {
		name string
		g    Geometry
		want float64
	}{
		{"centred", Geometry{Top: 300, Height: 200, ViewportHeight: 800}, 0},
		{"just below the fold", Geometry{Top: 800, Height: 200, ViewportHeight: 800}, -1},
		{"just scrolled past", Geometry{Top: -200, Height: 200, ViewportHeight: 800}, 1},
		{"half way up", Geometry{Top: -150, Height: 500, ViewportHeight: 800}, 0.46153846153846156},
		{"zero viewport", Geometry{Top: 10, Height: 100, ViewportHeight: 0}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Progress(tc.g)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Progress(%+v) = %v, want %v", tc.g, got, tc.want)
			}
		})
	}
}

func TestProgress_Clamped(t *testing.T) {
	for _, top := range []float64{-1e9, -50000, -4000, 4000, 50000, 1e9} {
		p := Progress(Geometry{Top: top, Height: 600, ViewportHeight: 900})
		if p < -1 || p > 1 {
			t.Errorf("Progress with top %v = %v, outside [-1, 1]", top, p)
		}
	}
	if p := Progress(Geometry{Top: 1e9, Height: 600, ViewportHeight: 900}); p != -1 {
		t.Errorf("expected -1 far below the viewport, got %v", p)
	}
	if p := Progress(Geometry{Top: -1e9, Height: 600, ViewportHeight: 900}); p != 1 {
		t.Errorf("expected 1 far above the viewport, got %v", p)
	}
}

func TestProgress_NonFinite(t *testing.T) {
	inf := math.Inf(1)
	tests := []Geometry{
		{Top: math.NaN(), Height: 600, ViewportHeight: 900},
		{Top: inf, Height: inf, ViewportHeight: 900},
		{Top: 0, Height: math.NaN(), ViewportHeight: 900},
	}
	for _, g := range tests {
		if p := Progress(g); p != 0 {
			t.Errorf("Progress(%+v) = %v, want 0", g, p)
		}
	}
	if o := Offset(math.NaN(), DefaultSpeed, 200); o != 0 {
		t.Errorf("Offset(NaN) = %v, want 0", o)
	}
}

func TestEnabled(t *testing.T) {
	if Enabled(true, 1440) {
		t.Error("expected reduced motion to disable the effect")
	}
	if Enabled(false, 375) {
		t.Error("expected mobile widths to disable the effect")
	}
	if !Enabled(false, MobileBreakpoint) {
		t.Error("expected the effect at the breakpoint")
	}
}

func TestInitial(t *testing.T) {
	layer := Initial(Geometry{Top: 0, Height: 800, ViewportHeight: 800}, 0)
	if layer.Speed != DefaultSpeed {
		t.Errorf("expected default speed, got %v", layer.Speed)
	}
	// Hero filling the viewport starts centred.
	if layer.Offset != 0 {
		t.Errorf("expected no offset for a centred hero, got %v", layer.Offset)
	}
	if got := layer.Style(); got != "transform: translate3d(0, 0.0px, 0)" {
		t.Errorf("unexpected style %q", got)
	}
}
