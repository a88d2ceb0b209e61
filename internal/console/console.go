// Package console implements a line protocol for driving the tic-tac-toe AI
// from a terminal or a script.
//
// Commands:
//
//	new                      start a new game, X to move
//	position <board> <turn>  set a position, e.g. "position xx.o..... o"
//	play <cell>              play cell 0-8 for the side to move
//	go [depth N]             search for the side to move
//	board                    print the board
//	hash on|off              enable or disable the transposition table
//	stats                    print search counters
//	clear                    clear the transposition tables
//	quit                     stop reading input
//
// Failures are reported as "error <message>" lines.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/hailam/gametree/internal/engine"
	"github.com/hailam/gametree/internal/tictactoe"
)

// Console holds the current game and the AI playing it.
type Console struct {
	settings engine.Settings
	ai       *tictactoe.AI
	state    tictactoe.State
	out      io.Writer
}

// New creates a console writing responses to out.
func New(settings engine.Settings, out io.Writer) (*Console, error) {
	ai, err := tictactoe.NewAI(settings)
	if err != nil {
		return nil, err
	}
	return &Console{
		settings: settings,
		ai:       ai,
		state:    tictactoe.NewState(),
		out:      out,
	}, nil
}

// State returns the current position.
func (c *Console) State() tictactoe.State {
	return c.state
}

// Run reads commands from in until quit or end of input.
func (c *Console) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		var err error
		switch cmd {
		case "new":
			c.handleNew()
		case "position":
			err = c.handlePosition(args)
		case "play":
			err = c.handlePlay(args)
		case "go":
			err = c.handleGo(args)
		case "board", "d":
			c.handleBoard()
		case "hash":
			err = c.handleHash(args)
		case "stats":
			c.println(c.ai.Stats().String())
		case "clear":
			c.ai.Reset()
		case "quit":
			return nil
		default:
			err = errors.Errorf("unknown command %q", cmd)
		}

		if err != nil {
			log.Debug().Err(err).Str("line", line).Msg("console-command-failed")
			c.println("error " + err.Error())
		}
	}

	return scanner.Err()
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

// handleNew resets the position and the caches.
func (c *Console) handleNew() {
	c.ai.Reset()
	c.state = tictactoe.NewState()
}

// handlePosition sets up a position as a new game and clears the caches.
// Format: position <board> <turn>
func (c *Console) handlePosition(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: position <board> <turn>")
	}
	s, err := tictactoe.ParseState(args[0], args[1])
	if err != nil {
		return err
	}
	c.ai.Reset()
	c.state = s
	return nil
}

func (c *Console) handlePlay(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: play <cell>")
	}
	cell, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Errorf("cell %q is not a number", args[0])
	}
	next, err := tictactoe.Engine{AI: c.state.Turn}.ApplyMove(c.state, tictactoe.Move{To: cell})
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// handleGo searches for the side to move.
// Format: go [depth N]
func (c *Console) handleGo(args []string) error {
	depth := c.settings.MaxDepth
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 >= len(args) {
				return errors.New("depth needs a value")
			}
			d, err := strconv.Atoi(args[i+1])
			if err != nil {
				return errors.Errorf("depth %q is not a number", args[i+1])
			}
			depth = d
			i++
		default:
			return errors.Errorf("unknown go option %q", args[i])
		}
	}

	before := c.ai.Stats().Nodes
	res, err := c.ai.AnalyzeDepth(c.state, c.state.Turn, depth)
	if err != nil {
		return err
	}

	c.println(fmt.Sprintf("info depth %d nodes %d", depth, c.ai.Stats().Nodes-before))
	if !res.Found {
		c.println("bestmove none")
		return nil
	}
	c.println(fmt.Sprintf("bestmove %d score %s", res.Move.To, formatScore(res.Score)))
	return nil
}

func (c *Console) handleBoard() {
	c.println(c.state.Board.String())
	switch c.state.Winner {
	case tictactoe.InProgress:
		c.println("turn " + c.state.Turn.String())
	case tictactoe.Draw:
		c.println("result draw")
	default:
		c.println("result " + c.state.Winner.String() + " wins")
	}
}

// handleHash rebuilds the AI with the table enabled or disabled.
// Format: hash on|off
func (c *Console) handleHash(args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return errors.New("usage: hash on|off")
	}
	settings := c.settings
	settings.UseTranspositionTable = args[0] == "on"
	if settings.TableSize < 1 {
		settings.TableSize = engine.DefaultTableSize
	}
	ai, err := tictactoe.NewAI(settings)
	if err != nil {
		return err
	}
	c.settings = settings
	c.ai = ai
	return nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'g', -1, 64)
}
