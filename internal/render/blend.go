// Package render holds the single blend and rasterization path shared by
// the live preview and the frame exporter. Both must produce identical
// colors for identical opacities; keeping one implementation here is what
// guarantees that.
package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses a "#RRGGBB" color string.
func ParseHex(value string) (RGB, error) {
	parsed, err := colorful.Hex(value)
	if err != nil {
		return RGB{}, err
	}
	r, g, b := parsed.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// NRGBA returns the fully opaque color value.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Blend linearly interpolates each channel between background and
// foreground: channel = round(fg*opacity + bg*(1-opacity)). Opacity is
// clamped to [0, 1].
func Blend(fg, bg RGB, opacity float64) RGB {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	mix := func(f, b uint8) uint8 {
		return uint8(math.Round(float64(f)*opacity + float64(b)*(1-opacity)))
	}
	return RGB{
		R: mix(fg.R, bg.R),
		G: mix(fg.G, bg.G),
		B: mix(fg.B, bg.B),
	}
}
