package luagame

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/hailam/gametree/internal/engine"
)

// Take one to three sticks; whoever takes the last stick wins.
// State is "<sticks>:<mover>" with mover 0 maximizing.
const nimScript = `
function initial_state()
  return "5:0"
end

local function parse(state)
  local sticks, mover = string.match(state, "(%d+):(%d)")
  return tonumber(sticks), tonumber(mover)
end

function valid_moves(state)
  local sticks = parse(state)
  local moves = {}
  for take = 1, math.min(3, sticks) do
    moves[#moves + 1] = tostring(take)
  end
  return moves
end

function apply_move(state, move)
  local sticks, mover = parse(state)
  local take = tonumber(move)
  if take == nil or take < 1 or take > 3 or take > sticks then
    return nil
  end
  return tostring(sticks - take) .. ":" .. tostring(1 - mover)
end

function evaluate(state)
  local sticks, mover = parse(state)
  if sticks > 0 then
    return 0
  end
  if mover == 1 then
    return 1
  end
  return -1
end
`

func mustLoad(t *testing.T, src string) *Game {
	t.Helper()
	g, err := Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

func TestNimScript(t *testing.T) {
	g := mustLoad(t, nimScript)

	if got := g.InitialState(); got != "5:0" {
		t.Fatalf("InitialState = %q", got)
	}
	moves, err := g.ValidMoves("2:1")
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 2 || moves[0] != "1" || moves[1] != "2" {
		t.Errorf("ValidMoves(2:1) = %v", moves)
	}
	next, err := g.ApplyMove("5:0", "2")
	if err != nil || next != "3:1" {
		t.Errorf("ApplyMove = %q, %v", next, err)
	}
	if v, _ := g.Evaluate("0:1"); v != 1 {
		t.Errorf("Evaluate(0:1) = %v", v)
	}
	if !g.HasEvaluator() {
		t.Error("evaluate not detected")
	}
}

func TestSearchLuaGame(t *testing.T) {
	g := mustLoad(t, nimScript)

	m, err := engine.NewMinimax[string, string](g, engine.Settings{
		MaxDepth:              10,
		UseTranspositionTable: true,
		TableSize:             1000,
	})
	if err != nil {
		t.Fatal(err)
	}
	m.SetStateHash(Fingerprint)

	res, err := m.Search(g.InitialState(), true)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Move != "1" || res.Score != 1 {
		t.Errorf("got %+v, want take 1 with score 1", res)
	}
}

func TestIllegalMove(t *testing.T) {
	g := mustLoad(t, nimScript)
	if _, err := g.ApplyMove("2:0", "3"); err == nil {
		t.Error("taking more sticks than remain was accepted")
	}
}

func TestMissingFunction(t *testing.T) {
	_, err := Load(`function initial_state() return "" end`)
	if !errors.Is(err, ErrMissingFunction) {
		t.Errorf("got %v, want %v", err, ErrMissingFunction)
	}
}

func TestSyntaxError(t *testing.T) {
	if _, err := Load(`function (`); err == nil {
		t.Error("expected a load error")
	}
}

func TestWithoutEvaluate(t *testing.T) {
	g := mustLoad(t, `
function initial_state() return "a" end
function valid_moves(s) if s == "a" then return {"x", "y"} end return {} end
function apply_move(s, m) return s .. m end
`)
	if g.HasEvaluator() {
		t.Fatal("evaluate detected in a script without one")
	}
	m, err := engine.NewMinimax[string, string](g, engine.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Search(g.InitialState(), true)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Move != "x" || res.Score != 0 {
		t.Errorf("got %+v, want the first move with score 0", res)
	}
}

func TestRuntimeErrorPropagates(t *testing.T) {
	g := mustLoad(t, `
function initial_state() return "start" end
function valid_moves(s) return {"boom"} end
function apply_move(s, m) error("cannot apply " .. m) end
`)
	m, err := engine.NewMinimax[string, string](g, engine.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	_, err = m.Search(g.InitialState(), true)
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %v, want a Lua error", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nim.lua")
	if err := os.WriteFile(path, []byte(nimScript), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	if g.InitialState() != "5:0" {
		t.Errorf("InitialState = %q", g.InitialState())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestSampleScript(t *testing.T) {
	g, err := LoadFile(filepath.Join("..", "..", "games", "nim.lua"))
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	m, err := engine.NewMinimax[string, string](g, engine.Settings{MaxDepth: 10})
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Search(g.InitialState(), true)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Move != "1" || res.Score != 1 {
		t.Errorf("got %+v, want take 1 with score 1", res)
	}
}
