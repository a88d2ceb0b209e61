package ui

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/hailam/gametree/internal/engine"
	"github.com/hailam/gametree/internal/storage"
	"github.com/hailam/gametree/internal/tictactoe"
)

// UI Constants
const (
	ScreenWidth  = 480
	ScreenHeight = 600
	CellSize     = 128
	BoardX       = (ScreenWidth - 3*CellSize) / 2
	BoardY       = 72
)

// UIScale is the global HiDPI scale factor, set by Game.Layout.
var UIScale float64 = 1.0

// Button is a clickable rectangle in logical coordinates.
type Button struct {
	Label      string
	X, Y, W, H int
}

var (
	newGameButton = Button{Label: "New game (N)", X: BoardX, Y: 520, W: 184, H: 44}
	swapButton    = Button{Label: "Swap sides (S)", X: BoardX + 200, Y: 520, W: 184, H: 44}
)

// aiResult is what the search goroutine reports back.
type aiResult struct {
	cell int
	ok   bool
}

// Options configures the desktop game.
type Options struct {
	// Settings for the AI. Preferences override the depth and the table
	// switch.
	Settings engine.Settings
	// Storage persists preferences and finished games; nil disables both.
	Storage *storage.Storage
}

// Game implements ebiten.Game interface.
type Game struct {
	state    tictactoe.State
	moves    []int
	lastMove int
	started  time.Time
	human    tictactoe.Mark
	recorded bool

	settings   engine.Settings
	ai         *tictactoe.AI
	aiThinking bool
	aiMove     chan aiResult

	storage *storage.Storage
	prefs   *storage.UserPreferences

	renderer *Renderer
	input    *InputHandler
	audio    *AudioManager

	scale float64
}

// NewGame creates a new tic-tac-toe game.
func NewGame(opts Options) (*Game, error) {
	g := &Game{
		settings: opts.Settings,
		storage:  opts.Storage,
		renderer: NewRenderer(CellSize),
		input:    NewInputHandler(),
		audio:    NewAudioManager(),
		human:    tictactoe.X,
		scale:    1.0,
	}

	g.loadPreferences()

	ai, err := tictactoe.NewAI(g.settings)
	if err != nil {
		return nil, err
	}
	g.ai = ai
	g.NewGameAction()
	return g, nil
}

// loadPreferences loads user preferences from storage.
func (g *Game) loadPreferences() {
	if g.storage == nil {
		g.prefs = storage.DefaultPreferences()
		return
	}

	var err error
	g.prefs, err = g.storage.LoadPreferences()
	if err != nil {
		log.Warn().Err(err).Msg("preferences-load-failed")
		g.prefs = storage.DefaultPreferences()
	}

	if side, err := tictactoe.ParseSide(g.prefs.HumanSide); err == nil {
		g.human = side
	}
	if g.prefs.Depth > 0 {
		g.settings.MaxDepth = g.prefs.Depth
	}
	g.settings.UseTranspositionTable = g.prefs.UseTranspositionTable
	if g.settings.TableSize < 1 {
		g.settings.TableSize = engine.DefaultTableSize
	}
	g.audio.SetEnabled(g.prefs.SoundEnabled)
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}

	g.prefs.HumanSide = g.human.String()
	g.prefs.SoundEnabled = g.audio.IsEnabled()

	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Warn().Err(err).Msg("preferences-save-failed")
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.input.Update()

	switch {
	case IsKeyJustPressed(ebiten.KeyN) || g.input.ClickedInBounds(newGameButton.X, newGameButton.Y, newGameButton.W, newGameButton.H):
		g.NewGameAction()
		return nil
	case IsKeyJustPressed(ebiten.KeyS) || g.input.ClickedInBounds(swapButton.X, swapButton.Y, swapButton.W, swapButton.H):
		g.SwapSidesAction()
		return nil
	case IsKeyJustPressed(ebiten.KeyM):
		g.audio.SetEnabled(!g.audio.IsEnabled())
		g.savePreferences()
	}

	g.handleBoardInput()

	if !g.state.Over() && g.state.Turn != g.human && !g.aiThinking {
		g.startAIThinking()
	}
	g.checkAIMove()
	g.checkGameEnd()
	return nil
}

// handleBoardInput places the human's mark on a clicked cell.
func (g *Game) handleBoardInput() {
	if g.state.Over() || g.aiThinking || g.state.Turn != g.human {
		return
	}
	if !g.input.IsLeftJustPressed() {
		return
	}

	cell := g.input.CellAt(BoardX, BoardY, CellSize)
	if cell < 0 {
		return
	}
	if g.state.Board[cell] != tictactoe.Empty {
		g.audio.Play(SoundInvalid)
		return
	}
	g.makeMove(cell)
	g.audio.Play(SoundPlace)
}

func (g *Game) makeMove(cell int) {
	g.state = tictactoe.Apply(g.state, cell)
	g.moves = append(g.moves, cell)
	g.lastMove = cell
}

// startAIThinking searches on a goroutine. Each search reports on its own
// channel, so a search abandoned by a new game cannot leak into it.
func (g *Game) startAIThinking() {
	g.aiThinking = true

	state := g.state
	side := state.Turn
	ai := g.ai
	ch := make(chan aiResult, 1)
	g.aiMove = ch

	log.Debug().Str("board", state.Board.Compact()).Str("side", side.String()).Msg("ai-thinking")

	go func() {
		cell, ok := ai.BestMove(state, side)
		ch <- aiResult{cell: cell, ok: ok}
	}()
}

// checkAIMove checks if the AI has made a move.
func (g *Game) checkAIMove() {
	if !g.aiThinking {
		return
	}

	select {
	case res := <-g.aiMove:
		g.aiThinking = false
		if !res.ok {
			return
		}
		g.makeMove(res.cell)
		g.audio.Play(SoundAIPlace)
	default:
		// Still thinking
	}
}

// checkGameEnd plays the result sound and records a finished game once.
func (g *Game) checkGameEnd() {
	if !g.state.Over() || g.recorded {
		return
	}
	g.recorded = true

	switch g.state.Winner.Winner() {
	case g.human:
		g.audio.Play(SoundWin)
	case tictactoe.Empty:
		g.audio.Play(SoundDraw)
	default:
		g.audio.Play(SoundLoss)
	}

	log.Info().Str("outcome", g.state.Winner.String()).Ints("moves", g.moves).Msg("game-finished")

	if g.storage == nil {
		return
	}
	_, err := g.storage.RecordGame(storage.GameResult{
		HumanSide: g.human.String(),
		Outcome:   g.state.Winner.String(),
		Moves:     g.moves,
		Depth:     g.settings.MaxDepth,
		Duration:  time.Since(g.started),
	})
	if err != nil {
		log.Warn().Err(err).Msg("game-record-failed")
	}
}

// NewGameAction resets the board. A search still running for the previous
// game is abandoned along with the AI that runs it.
func (g *Game) NewGameAction() {
	if g.aiThinking {
		if ai, err := tictactoe.NewAI(g.settings); err == nil {
			g.ai = ai
		}
	} else {
		g.ai.Reset()
	}

	g.state = tictactoe.NewState()
	g.moves = nil
	g.lastMove = -1
	g.started = time.Now()
	g.recorded = false
	g.aiThinking = false
	g.aiMove = nil
}

// SwapSidesAction switches the human to the other side and starts over.
func (g *Game) SwapSidesAction() {
	g.human = g.human.Opponent()
	g.savePreferences()
	g.NewGameAction()
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetScale(g.scale)
	screen.Fill(g.renderer.Theme().Background)

	g.renderer.DrawCenteredText(screen, "Tic-tac-toe", GetBoldFace(), 20)

	g.renderer.DrawBoard(screen)
	g.renderer.DrawLastMove(screen, g.lastMove)

	hover := -1
	if !g.state.Over() && !g.aiThinking && g.state.Turn == g.human {
		hover = g.input.CellAt(BoardX, BoardY, CellSize)
	}
	g.renderer.DrawMarks(screen, g.state.Board, hover, g.human)
	g.renderer.DrawWinLine(screen, g.state.Board)

	g.renderer.DrawCenteredText(screen, g.statusText(), GetRegularFace(), BoardY+3*CellSize+20)

	for _, b := range []Button{newGameButton, swapButton} {
		g.renderer.DrawButton(screen, b, g.input.IsInBounds(b.X, b.Y, b.W, b.H))
	}
}

func (g *Game) statusText() string {
	switch {
	case g.state.Winner == tictactoe.Draw:
		return "Draw"
	case g.state.Over() && g.state.Winner.Winner() == g.human:
		return "You win!"
	case g.state.Over():
		return "Computer wins"
	case g.aiThinking:
		return "Thinking..."
	}
	return "Your move (" + g.human.String() + ")"
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	if g.scale < 1.0 {
		g.scale = 1.0
	}
	UIScale = g.scale
	return int(float64(ScreenWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
}
