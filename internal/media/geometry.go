package media

import "math"

// FallbackGeometry is substituted when a container reports degenerate
// display dimensions. Geometry is advisory metadata for rendering layers;
// a broken value must not fail validation.
var FallbackGeometry = Geometry{Width: 640, Height: 480}

// Geometry is the effective display size of a video stream: the natural
// pixel dimensions composed with the container's rotation metadata.
type Geometry struct {
	Width  float64
	Height float64
}

// ComposeGeometry applies rotation (degrees, normalized to [0, 360)) to the
// natural dimensions. Quarter turns swap width and height. A degenerate
// result (zero, negative, NaN or Inf on either axis) is coerced to
// FallbackGeometry.
func ComposeGeometry(width, height float64, rotation int) Geometry {
	g := Geometry{Width: width, Height: height}
	if rotation == 90 || rotation == 270 {
		g.Width, g.Height = g.Height, g.Width
	}
	if g.degenerate() {
		return FallbackGeometry
	}
	return g
}

func (g Geometry) degenerate() bool {
	for _, v := range [2]float64{g.Width, g.Height} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// AspectRatio returns width over height.
func (g Geometry) AspectRatio() float64 {
	return g.Width / g.Height
}

// Portrait reports whether the effective display is taller than wide.
func (g Geometry) Portrait() bool {
	return g.Height > g.Width
}
