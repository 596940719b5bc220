package bakery

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColorRange bounds each channel of a generated colour.
var DefaultColorRange = [2]float64{0.1, 0.8}

// GenerateColor returns a random colour with every channel in [lo, hi),
// packed as 0xRRGGBBAA with full alpha.
func GenerateColor(rng *rand.Rand, lo, hi float64) uint32 {
	pick := func() float64 {
		return lo + rng.Float64()*(hi-lo)
	}
	c := colorful.Color{R: pick(), G: pick(), B: pick()}.Clamped()
	return PackColor(c)
}

// PackColor packs c as 0xRRGGBBff.
func PackColor(c colorful.Color) uint32 {
	r, g, b := c.RGB255()
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | 0xff
}

// UnpackColor is the inverse of PackColor, dropping alpha.
func UnpackColor(v uint32) colorful.Color {
	return colorful.Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
	}
}
