// Package arena plays the tic-tac-toe AI against itself.
package arena

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/hailam/gametree/internal/engine"
	"github.com/hailam/gametree/internal/tictactoe"
)

// Options configures a run.
type Options struct {
	Games   int
	Workers int
	Depth   int
	// RandomOpening picks X's first cell at random. Otherwise game n opens
	// on cell n mod 9.
	RandomOpening bool
	// Settings for the searchers; the zero value means tictactoe defaults.
	// Depth overrides MaxDepth.
	Settings *engine.Settings
	// OnGame is called once per finished game, from a single goroutine.
	OnGame func(Game) error
}

// Game is a finished self-play game.
type Game struct {
	Number   int
	Moves    []int
	Outcome  tictactoe.Outcome
	Nodes    uint64
	Duration time.Duration
}

// Summary totals a run.
type Summary struct {
	Games int
	XWins int
	OWins int
	Draws int
	Nodes uint64
}

func (s Summary) String() string {
	return fmt.Sprintf("games: %d, X wins: %d, O wins: %d, draws: %d, nodes: %s",
		s.Games, s.XWins, s.OWins, s.Draws, humanize.Comma(int64(s.Nodes)))
}

type gameInfo struct {
	number  int
	opening int
}

// Run plays opts.Games games on opts.Workers goroutines and returns the
// totals. The first error from a game or from OnGame stops the run.
func Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Games < 1 || opts.Workers < 1 {
		return Summary{}, errors.Errorf("arena: need at least one game and one worker, got %d and %d",
			opts.Games, opts.Workers)
	}
	settings := tictactoe.DefaultSettings()
	if opts.Settings != nil {
		settings = *opts.Settings
	}
	settings.MaxDepth = opts.Depth
	if err := settings.Validate(); err != nil {
		return Summary{}, errors.Wrap(err, "arena")
	}

	log.Info().Int("games", opts.Games).Int("workers", opts.Workers).Int("depth", opts.Depth).
		Msg("arena-started")

	g, ctx := errgroup.WithContext(ctx)

	gameInfos := make(chan gameInfo)
	results := make(chan Game)

	g.Go(func() error {
		defer close(gameInfos)
		return feedGames(ctx, opts, gameInfos)
	})

	var summary Summary
	g.Go(func() error {
		return collect(ctx, results, opts.OnGame, &summary)
	})

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return playGames(ctx, settings, gameInfos, results)
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	if err := g.Wait(); err != nil {
		return summary, err
	}
	log.Info().Str("summary", summary.String()).Msg("arena-finished")
	return summary, nil
}

func feedGames(ctx context.Context, opts Options, gameInfos chan<- gameInfo) error {
	for i := 0; i < opts.Games; i++ {
		opening := i % 9
		if opts.RandomOpening {
			opening = frand.Intn(9)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case gameInfos <- gameInfo{number: i + 1, opening: opening}:
		}
	}
	return nil
}

func playGames(
	ctx context.Context,
	settings engine.Settings,
	gameInfos <-chan gameInfo,
	results chan<- Game,
) error {
	for info := range gameInfos {
		res, err := playGame(ctx, settings, info)
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case results <- res:
		}
	}
	return nil
}

func collect(ctx context.Context, results <-chan Game, onGame func(Game) error, summary *Summary) error {
	for res := range results {
		summary.Games++
		summary.Nodes += res.Nodes
		switch res.Outcome {
		case tictactoe.XWins:
			summary.XWins++
		case tictactoe.OWins:
			summary.OWins++
		case tictactoe.Draw:
			summary.Draws++
		}
		if onGame != nil {
			if err := onGame(res); err != nil {
				return errors.Wrapf(err, "arena: game %d", res.Number)
			}
		}
	}
	return ctx.Err()
}

// playGame plays one game with fresh searchers for both sides.
func playGame(ctx context.Context, settings engine.Settings, info gameInfo) (Game, error) {
	ai, err := tictactoe.NewAI(settings)
	if err != nil {
		return Game{}, err
	}

	start := time.Now()
	state := tictactoe.Apply(tictactoe.NewState(), info.opening)
	moves := []int{info.opening}

	for !state.Over() {
		if err := ctx.Err(); err != nil {
			return Game{}, err
		}
		res, err := ai.AnalyzeDepth(state, state.Turn, settings.MaxDepth)
		if err != nil {
			return Game{}, errors.Wrapf(err, "arena: game %d", info.number)
		}
		if !res.Found {
			return Game{}, errors.Errorf("arena: game %d: no move for %s at depth %d",
				info.number, state.Turn, settings.MaxDepth)
		}
		state = tictactoe.Apply(state, res.Move.To)
		moves = append(moves, res.Move.To)
	}

	log.Debug().Int("game", info.number).Ints("moves", moves).Str("outcome", state.Winner.String()).
		Msg("arena-game-finished")

	return Game{
		Number:   info.number,
		Moves:    moves,
		Outcome:  state.Winner,
		Nodes:    ai.Stats().Nodes,
		Duration: time.Since(start),
	}, nil
}
