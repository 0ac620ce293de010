// Package parallax computes scroll-driven background offsets. The browser
// script in web/static/js/parallax.js mirrors these formulas; the server uses
// them to render the initial, pre-scroll state of each layer.
package parallax

import (
	"fmt"
	"math"
)

// MobileBreakpoint is the viewport width below which the effect is disabled.
const MobileBreakpoint = 768

// DefaultSpeed is the fraction of the travel distance applied as offset.
const DefaultSpeed = 0.3

// Geometry describes a tracked element relative to the viewport, in CSS pixels.
// Top is the element's top edge measured from the top of the viewport.
type Geometry struct {
	Top            float64
	Height         float64
	ViewportHeight float64
}

// Progress returns where the element's centre sits relative to the viewport
// centre, normalized so that -1 is fully below the fold and 1 fully scrolled
// past. The result is always within [-1, 1].
func Progress(g Geometry) float64 {
	span := (g.ViewportHeight + g.Height) / 2
	if g.ViewportHeight <= 0 || span <= 0 {
		return 0
	}
	center := g.Top + g.Height/2
	p := (g.ViewportHeight/2 - center) / span
	return clamp(p, -1, 1)
}

// Offset converts a progress value into a vertical translation in pixels.
func Offset(progress, speed, travel float64) float64 {
	return clamp(progress, -1, 1) * speed * travel
}

// Enabled reports whether the effect should run for a client.
func Enabled(reducedMotion bool, viewportWidth int) bool {
	return !reducedMotion && viewportWidth >= MobileBreakpoint
}

// Layer is what templates need to render one parallax background.
type Layer struct {
	Speed  float64
	Travel float64
	Offset float64
}

// Style returns the inline transform for the layer's initial position.
func (l Layer) Style() string {
	return fmt.Sprintf("transform: translate3d(0, %.1fpx, 0)", l.Offset)
}

// Initial computes the pre-scroll layer for an element at the given position
// in a viewport of the reference height.
func Initial(g Geometry, speed float64) Layer {
	if speed == 0 {
		speed = DefaultSpeed
	}
	travel := g.Height / 2
	return Layer{
		Speed:  speed,
		Travel: travel,
		Offset: Offset(Progress(g), speed, travel),
	}
}

// clamp maps NaN to 0.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
