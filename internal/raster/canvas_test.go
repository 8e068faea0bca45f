package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"math/rand/v2"
	"testing"

	"github.com/iburimskiy/moodwave/internal/particles"
)

var black = color.RGBA{A: 255}

func TestFillCirclePaintsCentre(t *testing.T) {
	c := New(64, 64, black)
	cyan := color.RGBA{R: 0, G: 245, B: 255, A: 255}

	c.FillCircle(32, 32, 6, cyan, 0)

	got := c.Image().RGBAAt(32, 32)
	if got != cyan {
		t.Errorf("centre pixel: got %v, want %v", got, cyan)
	}
	if corner := c.Image().RGBAAt(2, 2); corner != black {
		t.Errorf("corner pixel should stay background, got %v", corner)
	}
}

func TestGlowTintsSurroundings(t *testing.T) {
	c := New(64, 64, black)
	cyan := color.RGBA{R: 0, G: 245, B: 255, A: 255}

	c.FillCircle(32, 32, 3, cyan, 10)

	halo := c.Image().RGBAAt(32+7, 32)
	if halo == black {
		t.Error("pixel inside the glow radius should be tinted")
	}
	if halo.G >= cyan.G {
		t.Errorf("glow should be fainter than the core, got %v", halo)
	}
	if far := c.Image().RGBAAt(32+20, 32); far != black {
		t.Errorf("pixel beyond the glow should stay background, got %v", far)
	}
}

func TestClearResets(t *testing.T) {
	c := New(16, 16, black)
	c.FillCircle(8, 8, 4, color.RGBA{R: 255, A: 255}, 0)
	c.Clear()

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if px := c.Image().RGBAAt(x, y); px != black {
				t.Fatalf("pixel (%d,%d) not cleared: %v", x, y, px)
			}
		}
	}
}

func TestOffscreenCircleIgnored(t *testing.T) {
	c := New(16, 16, black)
	c.FillCircle(-100, -100, 4, color.RGBA{R: 255, A: 255}, 10)
	if px := c.Image().RGBAAt(0, 0); px != black {
		t.Errorf("offscreen circle should not draw, got %v", px)
	}
}

func TestAnimatorFrameToPNG(t *testing.T) {
	anim := particles.NewAnimator(particles.DefaultStyle(), rand.New(rand.NewPCG(1, 2)))
	anim.Initialize(120, 80)

	c := New(120, 80, black)
	anim.Frame(c)

	var buf bytes.Buffer
	if err := c.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Errorf("bounds: got %v", b)
	}
}
