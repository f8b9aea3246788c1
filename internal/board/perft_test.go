package board

import "testing"

// perftCopy counts leaf nodes, applying every move to an independent copy of
// the board.
func perftCopy(b *Board, gen *MoveGenerator, depth int) int64 {
	moves := gen.GenerateMoves(b, true)
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		child := b.Clone()
		child.MakeMove(m, true)
		nodes += perftCopy(child, gen, depth-1)
	}
	return nodes
}

// perftUnmake counts leaf nodes with make/unmake on a single board.
func perftUnmake(b *Board, gen *MoveGenerator, depth int) int64 {
	moves := gen.GenerateMoves(b, true)
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		b.MakeMove(m, true)
		nodes += perftUnmake(b, gen, depth-1)
		b.UnmakeMove(m)
	}
	return nodes
}

var perftPositions = []struct {
	name  string
	fen   string
	nodes []int64 // indexed by depth-1
}{
	{
		name:  "start",
		fen:   StartFEN,
		nodes: []int64{20, 400, 8902, 197281},
	},
	{
		name:  "kiwipete",
		fen:   "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		nodes: []int64{48, 2039, 97862},
	},
	{
		name:  "position 3",
		fen:   "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		nodes: []int64{14, 191, 2812, 43238},
	},
	{
		name:  "position 4",
		fen:   "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		nodes: []int64{6, 264, 9467},
	},
	{
		name:  "position 5",
		fen:   "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		nodes: []int64{44, 1486, 62379},
	},
	{
		name:  "en passant pinned along rank",
		fen:   "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
		nodes: []int64{6},
	},
}

func TestPerftCopy(t *testing.T) {
	for _, tc := range perftPositions {
		t.Run(tc.name, func(t *testing.T) {
			for i, want := range tc.nodes {
				depth := i + 1
				if testing.Short() && want > 10000 {
					t.Skipf("skipping depth %d in short mode", depth)
				}
				b, err := NewFromFEN(tc.fen)
				if err != nil {
					t.Fatalf("NewFromFEN: %v", err)
				}
				if got := perftCopy(b, NewMoveGenerator(), depth); got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
			}
		})
	}
}

func TestPerftUnmake(t *testing.T) {
	for _, tc := range perftPositions {
		t.Run(tc.name, func(t *testing.T) {
			b, err := NewFromFEN(tc.fen)
			if err != nil {
				t.Fatalf("NewFromFEN: %v", err)
			}
			fen := b.FEN()
			for i, want := range tc.nodes {
				depth := i + 1
				if testing.Short() && want > 10000 {
					t.Skipf("skipping depth %d in short mode", depth)
				}
				if got := perftUnmake(b, NewMoveGenerator(), depth); got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
				if b.FEN() != fen {
					t.Fatalf("board not restored: got %s, want %s", b.FEN(), fen)
				}
			}
		})
	}
}

func BenchmarkPerftStart(b *testing.B) {
	board := New()
	gen := NewMoveGenerator()
	for i := 0; i < b.N; i++ {
		perftUnmake(board, gen, 3)
	}
}

func BenchmarkGenerateMovesKiwipete(b *testing.B) {
	board, err := NewFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		b.Fatal(err)
	}
	gen := NewMoveGenerator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gen.GenerateMoves(board, true)
	}
}
