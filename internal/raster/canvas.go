// Package raster draws particle frames into an in-memory image, for
// snapshots and for hosts without a GPU window.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/vector"

	"github.com/iburimskiy/moodwave/internal/particles"
)

// kappa places cubic Bézier control points for a quarter circle.
const kappa = 0.5522847498

// Canvas is a particles.Surface backed by an *image.RGBA.
type Canvas struct {
	img *image.RGBA
	bg  color.RGBA
	z   *vector.Rasterizer
}

// New allocates a width x height canvas cleared to bg.
func New(width, height int, bg color.RGBA) *Canvas {
	c := &Canvas{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		bg:  bg,
		z:   vector.NewRasterizer(width, height),
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(c.bg), image.Point{}, draw.Src)
}

func (c *Canvas) FillCircle(x, y, r float64, col color.RGBA, glow float64) {
	b := c.img.Bounds()
	reach := r + glow
	if x+reach < 0 || y+reach < 0 || x-reach > float64(b.Dx()) || y-reach > float64(b.Dy()) {
		return
	}
	for _, ring := range particles.Halo(r, col, glow) {
		c.disc(x, y, ring.Radius, ring.Color)
	}
}

func (c *Canvas) disc(cx, cy, r float64, col color.NRGBA) {
	if r <= 0 || col.A == 0 {
		return
	}
	b := c.img.Bounds()
	c.z.Reset(b.Dx(), b.Dy())

	k := r * kappa
	x, y := float32(cx), float32(cy)
	fr, fk := float32(r), float32(k)

	c.z.MoveTo(x+fr, y)
	c.z.CubeTo(x+fr, y+fk, x+fk, y+fr, x, y+fr)
	c.z.CubeTo(x-fk, y+fr, x-fr, y+fk, x-fr, y)
	c.z.CubeTo(x-fr, y-fk, x-fk, y-fr, x, y-fr)
	c.z.CubeTo(x+fk, y-fr, x+fr, y-fk, x+fr, y)
	c.z.ClosePath()

	c.z.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

// Image returns the backing image. It is overwritten by later frames.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// WritePNG encodes the current frame as PNG.
func (c *Canvas) WritePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}
