// Package particles simulates the glowing dot field drawn behind the
// moodwave window.
//
// An Animator owns the particle set and the viewport it bounces in. A Loop
// wraps an Animator with the frame cycle (render, then advance) and gives
// hosts an explicit stop handle.
package particles

import (
	"image/color"
	"math/rand/v2"
)

// Particle is a single dot. Velocity is applied once per frame tick.
type Particle struct {
	X, Y           float64
	Size           float64
	SpeedX, SpeedY float64
}

// Style fixes the shape of every particle set an Animator generates.
type Style struct {
	Count    int
	MinSize  float64
	MaxSize  float64
	MaxSpeed float64
	Color    color.RGBA
	Glow     float64
}

// DefaultStyle returns 120 cyan dots of radius [1,4) drifting at under
// 0.6 px per frame on each axis.
func DefaultStyle() Style {
	return Style{
		Count:    120,
		MinSize:  1,
		MaxSize:  4,
		MaxSpeed: 0.6,
		Color:    color.RGBA{R: 0x00, G: 0xf5, B: 0xff, A: 0xff},
		Glow:     10,
	}
}

// Surface is anything a particle frame can be drawn onto.
type Surface interface {
	Clear()
	FillCircle(x, y, r float64, c color.RGBA, glow float64)
}

// Animator holds the particle set and viewport. It is not safe for
// concurrent use; Loop adds the locking.
type Animator struct {
	style     Style
	rng       *rand.Rand
	particles []Particle
	width     float64
	height    float64
}

// NewAnimator creates an empty animator. A nil rng seeds one randomly.
func NewAnimator(style Style, rng *rand.Rand) *Animator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Animator{style: style, rng: rng}
}

// Initialize discards the current set and generates Style.Count fresh
// particles inside a width x height viewport.
func (a *Animator) Initialize(width, height float64) {
	a.width = width
	a.height = height

	a.particles = make([]Particle, a.style.Count)
	for i := range a.particles {
		a.particles[i] = Particle{
			X:      a.rng.Float64() * width,
			Y:      a.rng.Float64() * height,
			Size:   a.style.MinSize + a.rng.Float64()*(a.style.MaxSize-a.style.MinSize),
			SpeedX: (a.rng.Float64()*2 - 1) * a.style.MaxSpeed,
			SpeedY: (a.rng.Float64()*2 - 1) * a.style.MaxSpeed,
		}
	}
}

// Render clears s and draws every particle. It does not touch particle state.
func (a *Animator) Render(s Surface) {
	s.Clear()
	for _, p := range a.particles {
		s.FillCircle(p.X, p.Y, p.Size, a.style.Color, a.style.Glow)
	}
}

// Advance moves every particle by its velocity. A particle that ends up
// outside the viewport has that axis' velocity negated, so it heads back
// inside on the next call.
func (a *Animator) Advance() {
	for i := range a.particles {
		p := &a.particles[i]
		p.X += p.SpeedX
		p.Y += p.SpeedY
		if p.X < 0 || p.X > a.width {
			p.SpeedX = -p.SpeedX
		}
		if p.Y < 0 || p.Y > a.height {
			p.SpeedY = -p.SpeedY
		}
	}
}

// Frame is one tick: render, then advance.
func (a *Animator) Frame(s Surface) {
	a.Render(s)
	a.Advance()
}

// Particles returns a copy of the current set.
func (a *Animator) Particles() []Particle {
	out := make([]Particle, len(a.particles))
	copy(out, a.particles)
	return out
}

// Viewport returns the bounds the particles move in.
func (a *Animator) Viewport() (width, height float64) {
	return a.width, a.height
}

// Style returns the style particles are generated and drawn with.
func (a *Animator) Style() Style {
	return a.style
}
