package engine

import (
	"cmp"
	"slices"
)

// OrderFunc reorders the legal moves of a node before they are searched.
// It only affects how much of the tree is pruned, never the result.
type OrderFunc[S, M any] func(moves []M, state S, maximizing bool) []M

// ByScore builds an OrderFunc from a heuristic scored from the maximizing
// player's point of view: the maximizing side tries high scores first, the
// minimizing side low scores first. Equal scores keep generation order.
func ByScore[S, M any](score func(state S, move M) int) OrderFunc[S, M] {
	return func(moves []M, state S, maximizing bool) []M {
		scores := make([]int, len(moves))
		idx := make([]int, len(moves))
		for i, m := range moves {
			idx[i] = i
			scores[i] = score(state, m)
		}
		slices.SortStableFunc(idx, func(a, b int) int {
			if maximizing {
				return cmp.Compare(scores[b], scores[a])
			}
			return cmp.Compare(scores[a], scores[b])
		})
		ordered := make([]M, len(moves))
		for i, j := range idx {
			ordered[i] = moves[j]
		}
		return ordered
	}
}

// Reversed visits moves in the opposite of generation order.
func Reversed[S, M any](moves []M, _ S, _ bool) []M {
	out := slices.Clone(moves)
	slices.Reverse(out)
	return out
}
