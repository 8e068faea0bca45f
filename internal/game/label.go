package game

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iburimskiy/moodwave/internal/panel"
)

const lineHeight = 16

var (
	toneNeutral = color.RGBA{R: 230, G: 240, B: 245, A: 255}
	toneOK      = color.RGBA{R: 0, G: 255, B: 0, A: 255}   // lime
	toneFailure = color.RGBA{R: 255, G: 60, B: 60, A: 255} // red
)

func toneColor(t panel.Tone) color.RGBA {
	switch t {
	case panel.OK:
		return toneOK
	case panel.Failure:
		return toneFailure
	default:
		return toneNeutral
	}
}

// label caches a status rendered in its tone colour. The debug font is
// white only, so coloured text goes through x/image/font.
type label struct {
	status panel.Status
	img    *ebiten.Image
}

func (l *label) set(st panel.Status) {
	l.status = st
	if l.img != nil {
		l.img.Deallocate()
		l.img = nil
	}
}

func (l *label) draw(screen *ebiten.Image, x, y int) {
	if len(l.status.Lines) == 0 {
		return
	}
	if l.img == nil {
		l.img = ebiten.NewImageFromImage(renderLines(l.status.Lines, toneColor(l.status.Tone)))
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(l.img, op)
}

func renderLines(lines []string, c color.Color) *image.RGBA {
	face := basicfont.Face7x13
	width := 1
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > width {
			width = w
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, width, len(lines)*lineHeight))
	d := &font.Drawer{Dst: img, Src: image.NewUniform(c), Face: face}
	for i, line := range lines {
		d.Dot = fixed.P(0, i*lineHeight+face.Ascent)
		d.DrawString(line)
	}
	return img
}
