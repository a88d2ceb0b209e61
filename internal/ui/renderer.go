package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/gametree/internal/tictactoe"
)

// Theme defines the color scheme.
type Theme struct {
	Background    color.RGBA
	BoardColor    color.RGBA
	GridLine      color.RGBA
	LastMoveColor color.RGBA
	WinLine       color.RGBA
	TextColor     color.RGBA
	ButtonColor   color.RGBA
	ButtonHover   color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		Background:    color.RGBA{40, 44, 52, 255},
		BoardColor:    color.RGBA{50, 55, 65, 255},
		GridLine:      color.RGBA{171, 178, 191, 255},
		LastMoveColor: color.RGBA{229, 192, 123, 60},
		WinLine:       color.RGBA{152, 195, 121, 230},
		TextColor:     color.RGBA{220, 220, 220, 255},
		ButtonColor:   color.RGBA{60, 64, 72, 255},
		ButtonHover:   color.RGBA{80, 84, 92, 255},
	}
}

// Renderer handles all drawing operations.
type Renderer struct {
	sprites  *SpriteManager
	theme    *Theme
	cellSize int
	scale    float64 // HiDPI scale factor
}

// NewRenderer creates a new renderer.
func NewRenderer(cellSize int) *Renderer {
	return &Renderer{
		sprites:  NewSpriteManager(cellSize),
		theme:    DefaultTheme(),
		cellSize: cellSize,
		scale:    1.0,
	}
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) {
	r.scale = scale
}

// Theme returns the active theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}

// s returns the scaled value for rendering.
func (r *Renderer) s(v int) float32 {
	return float32(float64(v) * r.scale)
}

func (r *Renderer) cellOrigin(cell int) (int, int) {
	return BoardX + (cell%3)*r.cellSize, BoardY + (cell/3)*r.cellSize
}

// DrawBoard draws the board background and the grid.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	size := 3 * r.cellSize
	vector.DrawFilledRect(screen, r.s(BoardX), r.s(BoardY), r.s(size), r.s(size), r.theme.BoardColor, false)

	width := r.s(4)
	for i := 1; i < 3; i++ {
		off := i * r.cellSize
		vector.StrokeLine(screen, r.s(BoardX+off), r.s(BoardY), r.s(BoardX+off), r.s(BoardY+size), width, r.theme.GridLine, true)
		vector.StrokeLine(screen, r.s(BoardX), r.s(BoardY+off), r.s(BoardX+size), r.s(BoardY+off), width, r.theme.GridLine, true)
	}
}

// DrawLastMove highlights cell, if any.
func (r *Renderer) DrawLastMove(screen *ebiten.Image, cell int) {
	if cell < 0 {
		return
	}
	x, y := r.cellOrigin(cell)
	vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(r.cellSize), r.s(r.cellSize), r.theme.LastMoveColor, false)
}

// DrawMarks draws every mark on b. When hover is an empty cell, a faint mark
// for ghost is drawn there.
func (r *Renderer) DrawMarks(screen *ebiten.Image, b tictactoe.Board, hover int, ghost tictactoe.Mark) {
	pad := r.cellSize / 8
	size := float64(r.cellSize - 2*pad)
	scale := size / float64(r.sprites.Size()) * r.scale

	for cell, m := range b {
		alpha := float32(1)
		if m == tictactoe.Empty {
			if cell != hover || ghost == tictactoe.Empty {
				continue
			}
			m, alpha = ghost, 0.3
		}
		x, y := r.cellOrigin(cell)
		r.sprites.DrawMarkAt(screen, m, float64(r.s(x+pad)), float64(r.s(y+pad)), scale, alpha)
	}
}

// DrawWinLine strikes through the completed line on b, if there is one.
func (r *Renderer) DrawWinLine(screen *ebiten.Image, b tictactoe.Board) {
	line, ok := tictactoe.WinningLine(b)
	if !ok {
		return
	}
	half := r.cellSize / 2
	x0, y0 := r.cellOrigin(line[0])
	x1, y1 := r.cellOrigin(line[2])
	vector.StrokeLine(screen, r.s(x0+half), r.s(y0+half), r.s(x1+half), r.s(y1+half), r.s(8), r.theme.WinLine, true)
}

// DrawText draws s with its top-left corner at x, y.
func (r *Renderer) DrawText(screen *ebiten.Image, s string, face *text.GoTextFace, x, y int) {
	if face == nil {
		return
	}
	scaled := &text.GoTextFace{Source: face.Source, Size: face.Size * r.scale}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(r.s(x)), float64(r.s(y)))
	op.ColorScale.ScaleWithColor(r.theme.TextColor)
	text.Draw(screen, s, scaled, op)
}

// DrawCenteredText draws s horizontally centered on the screen.
func (r *Renderer) DrawCenteredText(screen *ebiten.Image, s string, face *text.GoTextFace, y int) {
	w, _ := MeasureText(s, face)
	r.DrawText(screen, s, face, (ScreenWidth-int(w))/2, y)
}

// DrawButton draws a labelled button.
func (r *Renderer) DrawButton(screen *ebiten.Image, b Button, hover bool) {
	c := r.theme.ButtonColor
	if hover {
		c = r.theme.ButtonHover
	}
	vector.DrawFilledRect(screen, r.s(b.X), r.s(b.Y), r.s(b.W), r.s(b.H), c, false)

	face := GetRegularFace()
	w, h := MeasureText(b.Label, face)
	r.DrawText(screen, b.Label, face, b.X+(b.W-int(w))/2, b.Y+(b.H-int(h))/2)
}
