package particles

import "image/color"

// glowLayers is how many translucent rings approximate the blur halo.
const glowLayers = 4

// Ring is one filled circle of a glowing dot.
type Ring struct {
	Radius float64
	Color  color.NRGBA
}

// Halo breaks a glowing dot into rings, outermost first, ending with the
// opaque core. Surfaces without a native blur draw them in order.
func Halo(r float64, c color.RGBA, glow float64) []Ring {
	rings := make([]Ring, 0, glowLayers+1)
	if glow > 0 {
		for i := glowLayers; i >= 1; i-- {
			frac := float64(i) / glowLayers
			// Outer rings are fainter; stacked they fall off roughly like a blur.
			alpha := float64(c.A) * 0.18 * (1 - frac*0.75)
			rings = append(rings, Ring{
				Radius: r + glow*frac,
				Color:  color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha)},
			})
		}
	}
	rings = append(rings, Ring{
		Radius: r,
		Color:  color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A},
	})
	return rings
}
