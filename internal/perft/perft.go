// Package perft counts the leaf nodes of the legal move tree. The counts are
// the standard way to check a move generator against published values.
package perft

import (
	"sort"

	"github.com/hailam/chesscore/internal/board"
)

// MoveCount is the number of leaf nodes below one root move.
type MoveCount struct {
	Move  board.Move
	Nodes uint64
}

// Count returns the number of leaf nodes at the given depth, making every
// move on an independent copy of the board. b is not modified.
func Count(b *board.Board, gen *board.MoveGenerator, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	moves := gen.GenerateMoves(b, true)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		child := b.Clone()
		child.MakeMove(m, true)
		nodes += Count(child, gen, depth-1)
	}
	return nodes
}

// CountUnmake is Count using make/unmake on a single board. The board is
// back in its starting state when it returns.
func CountUnmake(b *board.Board, gen *board.MoveGenerator, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	moves := gen.GenerateMoves(b, true)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		b.MakeMove(m, true)
		nodes += CountUnmake(b, gen, depth-1)
		b.UnmakeMove(m)
	}
	return nodes
}

// Divide returns the node count below each root move, sorted by the UCI
// string of the move.
func Divide(b *board.Board, gen *board.MoveGenerator, depth int) []MoveCount {
	if depth <= 0 {
		return nil
	}

	moves := gen.GenerateMoves(b, true)
	counts := make([]MoveCount, 0, len(moves))
	for _, m := range moves {
		b.MakeMove(m, true)
		counts = append(counts, MoveCount{Move: m, Nodes: CountUnmake(b, gen, depth-1)})
		b.UnmakeMove(m)
	}
	sortByMove(counts)
	return counts
}

// Total sums the node counts.
func Total(counts []MoveCount) uint64 {
	var n uint64
	for _, c := range counts {
		n += c.Nodes
	}
	return n
}

func sortByMove(counts []MoveCount) {
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Move.String() < counts[j].Move.String()
	})
}
