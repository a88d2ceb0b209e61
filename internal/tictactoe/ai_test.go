package tictactoe

import (
	"testing"

	"github.com/matryer/is"

	"github.com/hailam/gametree/internal/engine"
)

// perfect is the exhaustive game value of s for side.
func perfect(s State, side Mark) float64 {
	e := Engine{AI: side}
	if s.Over() {
		v, _ := e.Evaluate(s)
		return v
	}
	maximizing := s.Turn == side
	best := 2.0
	if maximizing {
		best = -2.0
	}
	for _, c := range s.EmptyCells() {
		v := perfect(Apply(s, c), side)
		if maximizing {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	return best
}

func newAI(t *testing.T, settings engine.Settings) *AI {
	t.Helper()
	ai, err := NewAI(settings)
	if err != nil {
		t.Fatalf("NewAI: %v", err)
	}
	return ai
}

func TestEmptyBoardIsADraw(t *testing.T) {
	withBounds := DefaultSettings()
	withBounds.BoundedEntries = true
	noCache := DefaultSettings()
	noCache.UseTranspositionTable = false

	for name, settings := range map[string]engine.Settings{"default": DefaultSettings(), "bounded": withBounds, "no cache": noCache} {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			ai := newAI(t, settings)

			res, err := ai.Analyze(NewState(), X)
			is.NoErr(err)
			is.True(res.Found)
			is.Equal(res.Score, 0.0)

			// The recommended opening keeps the draw.
			is.Equal(perfect(Apply(NewState(), res.Move.To), X), 0.0)
		})
	}
}

func TestBlocksImmediateLoss(t *testing.T) {
	is := is.New(t)
	s, err := ParseState("XX.......", "O")
	is.NoErr(err)

	ai := newAI(t, DefaultSettings())
	cell, ok := ai.BestMove(s, O)
	is.True(ok)
	is.Equal(cell, 2)
}

func TestKeepsForcedWin(t *testing.T) {
	s, err := ParseState("OO.XX....", "X")
	if err != nil {
		t.Fatal(err)
	}
	ai := newAI(t, DefaultSettings())
	cell, ok := ai.BestMove(s, X)
	if !ok {
		t.Fatal("no move")
	}
	if perfect(Apply(s, cell), X) != 1 {
		t.Errorf("move %d does not keep the win", cell)
	}
}

func TestBestMoveFinishedGame(t *testing.T) {
	ai := newAI(t, DefaultSettings())
	s, _ := ParseState("XXXOO....", "X")
	if cell, ok := ai.BestMove(s, O); ok {
		t.Errorf("got move %d on a finished game", cell)
	}
	full, _ := ParseState("XOXXOOOXX", "O")
	if cell, ok := ai.BestMove(full, O); ok {
		t.Errorf("got move %d on a full board", cell)
	}
}

func TestRepeatedSearchReturnsMove(t *testing.T) {
	ai := newAI(t, DefaultSettings())
	s := Apply(NewState(), 4)

	first, ok := ai.BestMove(s, O)
	if !ok {
		t.Fatal("no move")
	}
	// The root is cached now; the move comes back from the table.
	again, ok := ai.BestMove(s, O)
	if !ok || again != first {
		t.Errorf("second search: %d, %v; first was %d", again, ok, first)
	}

	ai.Reset()
	if st := ai.Stats(); st.Entries != 0 {
		t.Errorf("entries after Reset = %d", st.Entries)
	}
}

func TestCenterFirstPrunesMore(t *testing.T) {
	settings := DefaultSettings()
	settings.UseTranspositionTable = false

	plain := newAI(t, settings)
	ordered := newAI(t, settings)
	ordered.SetMoveOrdering(CenterFirst)

	a, err := plain.Analyze(NewState(), X)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ordered.Analyze(NewState(), X)
	if err != nil {
		t.Fatal(err)
	}
	if a.Score != b.Score {
		t.Errorf("ordered score %v, unordered %v", b.Score, a.Score)
	}
	na, nb := plain.Stats().Nodes, ordered.Stats().Nodes
	if nb >= na {
		t.Errorf("center-first visited %d nodes, unordered %d", nb, na)
	}
	t.Logf("nodes: unordered %d, center-first %d", na, nb)
}

func TestAnalyzeInvalidSide(t *testing.T) {
	ai := newAI(t, DefaultSettings())
	if _, err := ai.Analyze(NewState(), Empty); err != ErrInvalidSide {
		t.Errorf("got %v, want %v", err, ErrInvalidSide)
	}
}
