package board

import (
	"slices"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
)

// TestMovesMatchReferenceGenerator compares the legal move set against an
// independent bitboard generator at every node of a shallow tree.
func TestMovesMatchReferenceGenerator(t *testing.T) {
	depth := 3
	if testing.Short() {
		depth = 2
	}

	for _, tc := range perftPositions {
		t.Run(tc.name, func(t *testing.T) {
			b := mustBoard(t, tc.fen)
			ref := dragontoothmg.ParseFen(tc.fen)
			compareTrees(t, b, &ref, depth)
		})
	}
}

func compareTrees(t *testing.T, b *Board, ref *dragontoothmg.Board, depth int) {
	t.Helper()

	ours := b.LegalMoves()
	refMoves := ref.GenerateLegalMoves()

	theirs := make([]string, len(refMoves))
	byName := make(map[string]dragontoothmg.Move, len(refMoves))
	for i, m := range refMoves {
		theirs[i] = m.String()
		byName[m.String()] = m
	}
	slices.Sort(theirs)

	if diff := cmp.Diff(theirs, sortedMoveStrings(ours)); diff != "" {
		t.Fatalf("%s: move set mismatch (-reference +ours):\n%s", b.FEN(), diff)
	}
	if depth == 1 {
		return
	}

	for _, m := range ours {
		undo := ref.Apply(byName[m.String()])
		b.MakeMove(m, true)
		compareTrees(t, b, ref, depth-1)
		b.UnmakeMove(m)
		undo()
	}
}

// TestSANMatchesReference renders every legal move and compares with an
// independent SAN encoder.
func TestSANMatchesReference(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"4k3/8/8/3pP3/8/8/8/R3K2R w KQ d6 0 1",
		"6k1/5ppp/8/8/8/8/8/R3K2R w KQ - 0 1",
		"1k6/8/8/8/8/5N2/8/RN1K3R w - - 0 1",
		"7k/8/8/8/R7/8/R7/4K3 w - - 0 1",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			opt, err := chess.FEN(fen)
			if err != nil {
				t.Fatalf("reference FEN: %v", err)
			}
			game := chess.NewGame(opt)
			pos := game.Position()
			want := map[string]string{}
			for _, m := range game.ValidMoves() {
				want[chess.UCINotation{}.Encode(pos, m)] = chess.AlgebraicNotation{}.Encode(pos, m)
			}

			b := mustBoard(t, fen)
			got := map[string]string{}
			for _, m := range b.LegalMoves() {
				got[m.String()] = MoveToSAN(b, m)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("SAN mismatch (-reference +ours):\n%s", diff)
			}
		})
	}
}
