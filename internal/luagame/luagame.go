// Package luagame runs games whose rules are written in Lua.
//
// A script defines four global functions over string states and moves:
//
//	initial_state()          -> state
//	valid_moves(state)       -> { move, ... }
//	apply_move(state, move)  -> state
//	evaluate(state)          -> number   (optional)
//
// Strings are immutable, so a state is its own fingerprint.
package luagame

import (
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	lua "github.com/yuin/gopher-lua"

	"github.com/hailam/gametree/internal/game"
)

// Script entry points.
const (
	fnInitialState = "initial_state"
	fnValidMoves   = "valid_moves"
	fnApplyMove    = "apply_move"
	fnEvaluate     = "evaluate"
)

// ErrMissingFunction is returned when a script lacks a required function.
var ErrMissingFunction = errors.New("luagame: missing function")

// Game is a game.Game backed by a Lua interpreter. It must be used from a
// single goroutine.
type Game struct {
	L       *lua.LState
	initial string
	hasEval bool
}

var (
	_ game.Game[string, string] = (*Game)(nil)
	_ game.Evaluator[string]    = (*Game)(nil)
)

// Load runs source and checks that it defines the required functions.
func Load(source string) (*Game, error) {
	L := lua.NewState()
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, errors.Wrap(err, "luagame: load script")
	}

	g := &Game{L: L}
	for _, name := range []string{fnInitialState, fnValidMoves, fnApplyMove} {
		if _, ok := L.GetGlobal(name).(*lua.LFunction); !ok {
			L.Close()
			return nil, errors.Wrap(ErrMissingFunction, name)
		}
	}
	_, g.hasEval = L.GetGlobal(fnEvaluate).(*lua.LFunction)

	initial, err := g.call(fnInitialState)
	if err != nil {
		L.Close()
		return nil, err
	}
	g.initial = initial.String()
	return g, nil
}

// LoadFile loads a script from disk.
func LoadFile(path string) (*Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "luagame: read script")
	}
	return Load(string(data))
}

// Close releases the interpreter.
func (g *Game) Close() {
	g.L.Close()
}

// HasEvaluator reports whether the script defines evaluate.
func (g *Game) HasEvaluator() bool {
	return g.hasEval
}

// InitialState returns the state produced by initial_state when the script
// was loaded.
func (g *Game) InitialState() string {
	return g.initial
}

// ValidMoves calls valid_moves. A nil or empty table means no moves.
func (g *Game) ValidMoves(state string) ([]string, error) {
	ret, err := g.call(fnValidMoves, lua.LString(state))
	if err != nil {
		return nil, err
	}
	if ret == lua.LNil {
		return nil, nil
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, errors.Errorf("luagame: %s returned %s, want table", fnValidMoves, ret.Type())
	}
	values := make([]lua.LValue, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		values = append(values, tbl.RawGetInt(i))
	}
	return lo.Map(values, func(v lua.LValue, _ int) string {
		return v.String()
	}), nil
}

// ApplyMove calls apply_move.
func (g *Game) ApplyMove(state, move string) (string, error) {
	ret, err := g.call(fnApplyMove, lua.LString(state), lua.LString(move))
	if err != nil {
		return state, err
	}
	if ret == lua.LNil {
		return state, errors.Wrapf(game.ErrIllegalMove, "%q in %q", move, state)
	}
	return ret.String(), nil
}

// Evaluate calls evaluate, or returns 0 when the script has none.
func (g *Game) Evaluate(state string) (float64, error) {
	if !g.hasEval {
		return 0, nil
	}
	ret, err := g.call(fnEvaluate, lua.LString(state))
	if err != nil {
		return 0, err
	}
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, errors.Errorf("luagame: %s returned %s, want number", fnEvaluate, ret.Type())
	}
	return float64(n), nil
}

// Fingerprint is the state hash for Lua games.
func Fingerprint(state string) string {
	return state
}

// call invokes a global function with one return value.
func (g *Game) call(name string, args ...lua.LValue) (lua.LValue, error) {
	err := g.L.CallByParam(lua.P{
		Fn:      g.L.GetGlobal(name),
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return lua.LNil, errors.Wrapf(err, "luagame: %s", name)
	}
	ret := g.L.Get(-1)
	g.L.Pop(1)
	return ret, nil
}
