package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	buttonWidth  = 150
	buttonHeight = 36
	buttonX      = 20
	buttonY      = 50
	buttonGap    = 14

	// debug font cell
	charWidth = 6
)

type button struct {
	x, y, w, h int
	label      string

	hovered bool
	pressed bool
	// disabled buttons still draw but never report a click
	disabled bool
}

func newButton(x, y int, label string) *button {
	return &button{x: x, y: y, w: buttonWidth, h: buttonHeight, label: label}
}

func (b *button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+b.w && y >= b.y && y <= b.y+b.h
}

// update tracks hover and press state and reports a completed click:
// press and release both inside the button.
func (b *button) update(mouseX, mouseY int) bool {
	b.hovered = b.contains(mouseX, mouseY)

	if b.hovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		b.pressed = true
	}
	clicked := false
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		clicked = b.pressed && b.hovered && !b.disabled
		b.pressed = false
	}
	return clicked
}

func (b *button) draw(screen *ebiten.Image) {
	var bgColor color.Color
	switch {
	case b.disabled:
		bgColor = color.RGBA{R: 50, G: 55, B: 70, A: 220}
	case b.pressed:
		bgColor = color.RGBA{R: 0, G: 90, B: 110, A: 235}
	case b.hovered:
		bgColor = color.RGBA{R: 0, G: 120, B: 140, A: 235}
	default:
		bgColor = color.RGBA{R: 0, G: 70, B: 90, A: 220}
	}
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), bgColor, false)

	borderColor := color.RGBA{R: 0, G: 245, B: 255, A: 160}
	vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 1.5, borderColor, false)

	textWidth := len(b.label) * charWidth
	textX := b.x + (b.w-textWidth)/2
	textY := b.y + (b.h-16)/2
	ebitenutil.DebugPrintAt(screen, b.label, textX, textY)
}
