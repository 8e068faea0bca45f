package game

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	meterBands      = 64
	meterWindow     = 2048
	smoothingFactor = 0.6
	meterHeight     = 60
)

// drawMeter draws the live input level while recording, plus the elapsed
// and maximum recording time.
func (g *Game) drawMeter(screen *ebiten.Image, elapsed, limit time.Duration) {
	w, h := g.width, g.height
	barWidth := w - 40
	barX := 20
	barY := h - meterHeight - 20
	segmentWidth := float64(barWidth) / meterBands

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barWidth), meterHeight, color.RGBA{R: 20, G: 25, B: 35, A: 200}, false)
	vector.StrokeRect(screen, float32(barX), float32(barY), float32(barWidth), meterHeight, 2, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)

	for i, level := range g.levels {
		level = clamp01(level)
		segmentX := float64(barX) + float64(i)*segmentWidth
		segmentHeight := level * float64(meterHeight-10)
		if segmentHeight < 2 {
			segmentHeight = 2
		}

		c := hue(g.phase*360+float64(i)/meterBands*180, 0.8, 0.9)
		c.A = uint8(100 + 155*level)

		segmentY := float64(barY) + meterHeight - segmentHeight
		vector.DrawFilledRect(screen, float32(segmentX), float32(segmentY), float32(segmentWidth-1), float32(segmentHeight), c, false)

		if level > 0.3 {
			highlight := color.RGBA{R: 255, G: 255, B: 255, A: uint8(100 * level)}
			vector.StrokeRect(screen, float32(segmentX), float32(segmentY), float32(segmentWidth-1), float32(segmentHeight), 1, highlight, false)
		}
	}

	// progress toward the recording cap
	if limit > 0 {
		progress := clamp01(float64(elapsed) / float64(limit))
		vector.DrawFilledRect(screen, float32(barX), float32(barY-4), float32(progress*float64(barWidth)), 3, toneFailure, false)
	}

	rec := "REC " + formatDuration(elapsed) + " / " + formatDuration(limit)
	ebitenutil.DebugPrintAt(screen, rec, barX, barY-22)
}
