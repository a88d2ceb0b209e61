package ui

import (
	"bytes"
	"embed"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/hailam/gametree/internal/tictactoe"
)

//go:embed assets/marks/*.svg
var markAssets embed.FS

// SpriteManager manages mark sprites.
type SpriteManager struct {
	marks       map[tictactoe.Mark]*ebiten.Image
	size        int     // Display size
	renderScale float64 // Render at higher resolution for quality
}

// NewSpriteManager creates a sprite manager with marks of the given size.
func NewSpriteManager(size int) *SpriteManager {
	sm := &SpriteManager{
		marks:       make(map[tictactoe.Mark]*ebiten.Image),
		size:        size,
		renderScale: 3.0,
	}
	sm.loadMarks()
	return sm
}

var markFiles = map[tictactoe.Mark]string{
	tictactoe.X: "assets/marks/x.svg",
	tictactoe.O: "assets/marks/o.svg",
}

// loadMarks rasterizes the embedded SVG files.
func (sm *SpriteManager) loadMarks() {
	renderSize := int(float64(sm.size) * sm.renderScale)

	for mark, path := range markFiles {
		data, err := markAssets.ReadFile(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("sprite-read-failed")
			continue
		}

		icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("sprite-parse-failed")
			continue
		}
		icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

		rgba := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
		scanner := rasterx.NewScannerGV(renderSize, renderSize, rgba, rgba.Bounds())
		raster := rasterx.NewDasher(renderSize, renderSize, scanner)
		icon.Draw(raster, 1.0)

		sm.marks[mark] = ebiten.NewImageFromImage(rgba)
	}
}

// DrawMarkAt draws a mark with its top-left corner at x, y, scaled by scale.
// Marks without a sprite are skipped.
func (sm *SpriteManager) DrawMarkAt(screen *ebiten.Image, m tictactoe.Mark, x, y float64, scale float64, alpha float32) {
	sprite := sm.marks[m]
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	s := scale / sm.renderScale
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(alpha)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// Size returns the display size of mark sprites.
func (sm *SpriteManager) Size() int {
	return sm.size
}
