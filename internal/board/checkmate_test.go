package board

import (
	"testing"
)

func TestCheckmate(t *testing.T) {
	// Back rank mate: the g7 and h7 pawns block the king's escape.
	b := mustBoard(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")

	gen := NewMoveGenerator()
	moves := gen.GenerateMoves(b, true)
	t.Log(b)
	t.Log("Black legal moves:", moveStrings(moves))

	if !gen.InCheck() {
		t.Error("expected black to be in check")
	}
	if len(moves) != 0 {
		t.Errorf("expected no legal moves, got %v", moveStrings(moves))
	}
}

func TestNotCheckmate(t *testing.T) {
	// The king can capture the unprotected rook.
	b := mustBoard(t, "6Rk/8/8/8/8/8/8/K7 b - - 0 1")

	gen := NewMoveGenerator()
	moves := gen.GenerateMoves(b, true)
	t.Log("Black legal moves:", moveStrings(moves))

	if !gen.InCheck() {
		t.Error("expected black to be in check")
	}
	if _, ok := FindMove(moves, "h8g8"); !ok {
		t.Errorf("expected Kxg8 among %v", moveStrings(moves))
	}
}

func TestStalemate(t *testing.T) {
	b := mustBoard(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	gen := NewMoveGenerator()
	moves := gen.GenerateMoves(b, true)

	if gen.InCheck() {
		t.Error("stalemated side reported in check")
	}
	if len(moves) != 0 {
		t.Errorf("expected no legal moves, got %v", moveStrings(moves))
	}
	if b.InCheck() {
		t.Error("Board.InCheck disagrees with the generator")
	}
}
