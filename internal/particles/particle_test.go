package particles

import (
	"image/color"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"
)

type circle struct {
	x, y, r float64
	c       color.RGBA
	glow    float64
}

// recordingSurface remembers what was drawn since the last Clear.
type recordingSurface struct {
	clears  int
	circles []circle
}

func (s *recordingSurface) Clear() {
	s.clears++
	s.circles = s.circles[:0]
}

func (s *recordingSurface) FillCircle(x, y, r float64, c color.RGBA, glow float64) {
	s.circles = append(s.circles, circle{x, y, r, c, glow})
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestInitializeRanges(t *testing.T) {
	style := DefaultStyle()
	a := NewAnimator(style, seeded(1))
	a.Initialize(800, 600)

	ps := a.Particles()
	if len(ps) != 120 {
		t.Fatalf("expected 120 particles, got %d", len(ps))
	}
	for i, p := range ps {
		if p.X < 0 || p.X > 800 || p.Y < 0 || p.Y > 600 {
			t.Errorf("particle %d out of viewport: (%f, %f)", i, p.X, p.Y)
		}
		if p.Size < style.MinSize || p.Size >= style.MaxSize {
			t.Errorf("particle %d size %f outside [%f, %f)", i, p.Size, style.MinSize, style.MaxSize)
		}
		if math.Abs(p.SpeedX) > style.MaxSpeed || math.Abs(p.SpeedY) > style.MaxSpeed {
			t.Errorf("particle %d speed (%f, %f) exceeds %f", i, p.SpeedX, p.SpeedY, style.MaxSpeed)
		}
	}
}

func TestInitializeReplacesSet(t *testing.T) {
	a := NewAnimator(DefaultStyle(), seeded(2))
	a.Initialize(800, 600)
	before := a.Particles()

	a.Initialize(200, 100)
	after := a.Particles()

	if len(after) != len(before) {
		t.Fatalf("count changed across resize: %d -> %d", len(before), len(after))
	}
	if reflect.DeepEqual(before, after) {
		t.Error("expected a fresh particle set after resize")
	}
	for i, p := range after {
		if p.X < 0 || p.X > 200 || p.Y < 0 || p.Y > 100 {
			t.Errorf("particle %d not within new viewport: (%f, %f)", i, p.X, p.Y)
		}
	}
	if w, h := a.Viewport(); w != 200 || h != 100 {
		t.Errorf("viewport: got %fx%f, want 200x100", w, h)
	}
}

func TestRenderDoesNotMutate(t *testing.T) {
	style := DefaultStyle()
	a := NewAnimator(style, seeded(3))
	a.Initialize(640, 480)
	before := a.Particles()

	s := &recordingSurface{}
	a.Render(s)

	if !reflect.DeepEqual(before, a.Particles()) {
		t.Error("Render mutated particle state")
	}
	if s.clears != 1 {
		t.Errorf("expected one Clear, got %d", s.clears)
	}
	if len(s.circles) != len(before) {
		t.Fatalf("expected %d circles, got %d", len(before), len(s.circles))
	}
	for i, c := range s.circles {
		p := before[i]
		if c.x != p.X || c.y != p.Y || c.r != p.Size {
			t.Errorf("circle %d drawn at (%f,%f,r=%f), particle at (%f,%f,r=%f)", i, c.x, c.y, c.r, p.X, p.Y, p.Size)
		}
		if c.c != style.Color || c.glow != style.Glow {
			t.Errorf("circle %d: unexpected colour %v / glow %f", i, c.c, c.glow)
		}
	}
}

func TestAdvanceInBounds(t *testing.T) {
	a := NewAnimator(DefaultStyle(), seeded(4))
	a.Initialize(800, 600)
	a.particles = []Particle{{X: 100, Y: 100, Size: 2, SpeedX: 0.5, SpeedY: -0.25}}

	a.Advance()

	p := a.particles[0]
	if p.X != 100.5 || p.Y != 99.75 {
		t.Errorf("position: got (%f, %f), want (100.5, 99.75)", p.X, p.Y)
	}
	if p.SpeedX != 0.5 || p.SpeedY != -0.25 {
		t.Errorf("velocity should be unchanged in bounds, got (%f, %f)", p.SpeedX, p.SpeedY)
	}
}

func TestAdvanceReflectsAfterCrossing(t *testing.T) {
	a := NewAnimator(DefaultStyle(), seeded(5))
	a.Initialize(800, 600)
	a.particles = []Particle{{X: 798, Y: 300, Size: 2, SpeedX: 5, SpeedY: 0}}

	a.Advance()
	p := a.particles[0]
	if p.X != 803 {
		t.Errorf("first advance should overshoot to 803, got %f", p.X)
	}
	if p.SpeedX != -5 {
		t.Errorf("speedX should flip after crossing, got %f", p.SpeedX)
	}

	a.Advance()
	p = a.particles[0]
	if p.X != 798 {
		t.Errorf("second advance should move left to 798, got %f", p.X)
	}
	if p.SpeedX != -5 {
		t.Errorf("speedX should stay negative inside, got %f", p.SpeedX)
	}
}

func TestAdvanceAxesIndependent(t *testing.T) {
	a := NewAnimator(DefaultStyle(), seeded(6))
	a.Initialize(100, 100)
	a.particles = []Particle{{X: 50, Y: 0.5, Size: 1, SpeedX: 1, SpeedY: -1}}

	a.Advance()
	p := a.particles[0]
	if p.SpeedX != 1 {
		t.Errorf("x axis should not reflect, got speedX %f", p.SpeedX)
	}
	if p.SpeedY != 1 {
		t.Errorf("y axis should reflect below zero, got speedY %f", p.SpeedY)
	}
}

func TestParticlesStayNearViewport(t *testing.T) {
	style := DefaultStyle()
	a := NewAnimator(style, seeded(7))
	a.Initialize(320, 240)

	for step := 0; step < 5000; step++ {
		a.Advance()
		for i, p := range a.particles {
			if p.X < -style.MaxSpeed || p.X > 320+style.MaxSpeed ||
				p.Y < -style.MaxSpeed || p.Y > 240+style.MaxSpeed {
				t.Fatalf("step %d: particle %d escaped to (%f, %f)", step, i, p.X, p.Y)
			}
		}
	}
}

func TestFrameRendersThenAdvances(t *testing.T) {
	a := NewAnimator(DefaultStyle(), seeded(8))
	a.Initialize(800, 600)
	a.particles = []Particle{{X: 10, Y: 10, Size: 1, SpeedX: 1, SpeedY: 1}}

	s := &recordingSurface{}
	a.Frame(s)

	if len(s.circles) != 1 || s.circles[0].x != 10 || s.circles[0].y != 10 {
		t.Errorf("frame should draw pre-advance position, got %+v", s.circles)
	}
	if p := a.particles[0]; p.X != 11 || p.Y != 11 {
		t.Errorf("frame should advance after drawing, got (%f, %f)", p.X, p.Y)
	}
}

func TestHalo(t *testing.T) {
	c := color.RGBA{R: 0, G: 245, B: 255, A: 255}

	rings := Halo(2, c, 10)
	if len(rings) != glowLayers+1 {
		t.Fatalf("expected %d rings, got %d", glowLayers+1, len(rings))
	}
	for i := 1; i < len(rings); i++ {
		if rings[i].Radius >= rings[i-1].Radius {
			t.Errorf("ring %d radius %f should be smaller than ring %d radius %f", i, rings[i].Radius, i-1, rings[i-1].Radius)
		}
	}
	if rings[0].Radius != 12 {
		t.Errorf("outer ring radius: got %f, want 12", rings[0].Radius)
	}
	core := rings[len(rings)-1]
	if core.Radius != 2 || core.Color.A != 255 {
		t.Errorf("core ring: got %+v", core)
	}

	if plain := Halo(2, c, 0); len(plain) != 1 {
		t.Errorf("no glow should draw only the core, got %d rings", len(plain))
	}
}
