package engine

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/hailam/gametree/internal/game"
)

// Search finds the best move from state to the configured MaxDepth.
func (m *Minimax[S, M]) Search(state S, maximizing bool) (Result[M], error) {
	return m.SearchDepth(state, maximizing, m.settings.MaxDepth)
}

// SearchDepth finds the best move from state, searching depth plies instead of
// MaxDepth. Callers that want iterative deepening call it with growing depths;
// the table carries results between calls.
//
// Errors from the game are returned unchanged.
func (m *Minimax[S, M]) SearchDepth(state S, maximizing bool, depth int) (Result[M], error) {
	if depth < 0 {
		return Result[M]{}, ErrNegativeDepth
	}

	nodes := m.stats.Nodes
	score, move, found, err := m.minimax(state, depth, math.Inf(-1), math.Inf(1), maximizing)
	if err != nil {
		return Result[M]{}, err
	}

	log.Debug().
		Int("depth", depth).
		Bool("maximizing", maximizing).
		Bool("found", found).
		Float64("score", score).
		Uint64("nodes", m.stats.Nodes-nodes).
		Msg("search-finished")

	return Result[M]{Move: move, Found: found, Score: score}, nil
}

// minimax returns the score of state and the move achieving it.
func (m *Minimax[S, M]) minimax(state S, depth int, alpha, beta float64, maximizing bool) (float64, M, bool, error) {
	var none M
	m.stats.Nodes++

	if depth == 0 {
		score, err := game.Evaluate(m.game, state)
		return score, none, false, err
	}

	var key string
	if m.tt != nil {
		key = m.hash(state)
		m.stats.CacheProbes++
		if entry, ok := m.tt.Probe(key); ok && entry.Depth >= depth && m.usable(entry, alpha, beta) {
			m.stats.CacheHits++
			return entry.Score, entry.BestMove, entry.HasMove, nil
		}
	}

	moves, err := m.game.ValidMoves(state)
	if err != nil {
		return 0, none, false, err
	}
	if m.order != nil {
		moves = m.order(moves, state, maximizing)
	}
	if len(moves) == 0 {
		// Terminal: the evaluation decides between win, loss and draw.
		score, err := game.Evaluate(m.game, state)
		return score, none, false, err
	}

	alphaOrig, betaOrig := alpha, beta
	bestScore := math.Inf(1)
	if maximizing {
		bestScore = math.Inf(-1)
	}
	bestMove, found := none, false

	for _, move := range moves {
		child, err := m.game.ApplyMove(state, move)
		if err != nil {
			return 0, none, false, err
		}
		score, _, _, err := m.minimax(child, depth-1, alpha, beta, !maximizing)
		if err != nil {
			return 0, none, false, err
		}

		if maximizing {
			if score > bestScore {
				bestScore, bestMove, found = score, move, true
			}
			alpha = max(alpha, score)
		} else {
			if score < bestScore {
				bestScore, bestMove, found = score, move, true
			}
			beta = min(beta, score)
		}

		if beta <= alpha {
			break
		}
	}

	if m.tt != nil {
		flag := TTExact
		if bestScore <= alphaOrig {
			flag = TTUpperBound
		} else if bestScore >= betaOrig {
			flag = TTLowerBound
		}
		if m.tt.Store(key, TTEntry[M]{
			Score:    bestScore,
			Depth:    depth,
			Flag:     flag,
			BestMove: bestMove,
			HasMove:  found,
		}) {
			m.stats.Evictions++
		}
		m.stats.CacheStores++
	}

	return bestScore, bestMove, found, nil
}

// usable reports whether a cached entry deep enough for the node may stand in
// for searching it under the window (alpha, beta).
func (m *Minimax[S, M]) usable(entry TTEntry[M], alpha, beta float64) bool {
	if !m.settings.BoundedEntries {
		return true
	}
	switch entry.Flag {
	case TTLowerBound:
		return entry.Score >= beta
	case TTUpperBound:
		return entry.Score <= alpha
	}
	return true
}
