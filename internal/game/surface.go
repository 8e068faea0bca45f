package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/moodwave/internal/particles"
)

const gradientStripe = 4

// screenSurface draws particle frames onto the ebiten screen. Clear paints
// the slowly shifting background gradient.
type screenSurface struct {
	img   *ebiten.Image
	phase float64
}

func (s *screenSurface) Clear() {
	b := s.img.Bounds()
	w, h := float32(b.Dx()), b.Dy()
	for y := 0; y < h; y += gradientStripe {
		ratio := float64(y) / float64(h)
		c := color.RGBA{
			R: uint8(10 + 8*math.Sin(s.phase*0.5+ratio*math.Pi)),
			G: uint8(12 + 6*math.Cos(s.phase*0.3+ratio*math.Pi)),
			B: uint8(24 + 14*math.Sin(s.phase*0.7+ratio*math.Pi)),
			A: 255,
		}
		vector.DrawFilledRect(s.img, 0, float32(y), w, gradientStripe, c, false)
	}
}

func (s *screenSurface) FillCircle(x, y, r float64, c color.RGBA, glow float64) {
	for _, ring := range particles.Halo(r, c, glow) {
		vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(ring.Radius), ring.Color, true)
	}
}
