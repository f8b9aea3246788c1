package board

import "testing"

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}
	for _, fen := range fens {
		b := mustBoard(t, fen)
		if got := b.FEN(); got != fen {
			t.Errorf("FEN() = %q, want %q", got, fen)
		}
	}
}

func TestFENAfterMoves(t *testing.T) {
	b := New()
	playMoves(t, b, false, "e2e4", "c7c5", "g1f3")
	want := "rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"
	if got := b.FEN(); got != want {
		t.Errorf("FEN() = %q, want %q", got, want)
	}
}

func TestParsePositionRecord(t *testing.T) {
	pos, err := ParsePosition("r3k2r/8/8/8/4pP2/8/8/R3K2R b Kq f3 5 20")
	if err != nil {
		t.Fatal(err)
	}
	if pos.WhiteToMove {
		t.Error("WhiteToMove = true")
	}
	if !pos.WhiteCastleKingside || pos.WhiteCastleQueenside || pos.BlackCastleKingside || !pos.BlackCastleQueenside {
		t.Errorf("castling flags %v %v %v %v", pos.WhiteCastleKingside, pos.WhiteCastleQueenside,
			pos.BlackCastleKingside, pos.BlackCastleQueenside)
	}
	if pos.EPFile != 6 {
		t.Errorf("EPFile = %d, want 6", pos.EPFile)
	}
	if pos.PlyCount != 39 || pos.FiftyMoveCounter != 5 {
		t.Errorf("PlyCount = %d, FiftyMoveCounter = %d", pos.PlyCount, pos.FiftyMoveCounter)
	}
	if pos.Squares[E4] != BlackPawn || pos.Squares[F4] != WhitePawn || pos.Squares[A1] != WhiteRook {
		t.Error("squares not populated")
	}
}

func TestParsePositionOptionalCounters(t *testing.T) {
	pos, err := ParsePosition("4k3/8/8/8/8/8/8/4K3 w - -")
	if err != nil {
		t.Fatal(err)
	}
	if pos.PlyCount != 0 || pos.FiftyMoveCounter != 0 {
		t.Errorf("PlyCount = %d, FiftyMoveCounter = %d", pos.PlyCount, pos.FiftyMoveCounter)
	}
}

func TestZobristKey(t *testing.T) {
	a := New()
	b := New()
	if a.ZobristKey() != b.ZobristKey() {
		t.Fatal("equal positions hash differently")
	}

	// Same placement reached by transposition.
	playMoves(t, a, false, "g1f3", "g8f6", "b1c3")
	playMoves(t, b, false, "b1c3", "g8f6", "g1f3")
	if a.ZobristKey() != b.ZobristKey() {
		t.Error("transposed positions hash differently")
	}

	// Side to move, castling and en passant all contribute.
	variants := []string{
		"r3k2r/8/8/8/4p3/8/3P4/R3K2R w KQkq - 0 1",
		"r3k2r/8/8/8/4p3/8/3P4/R3K2R b KQkq - 0 1",
		"r3k2r/8/8/8/4p3/8/3P4/R3K2R w Kkq - 0 1",
		"r3k2r/8/8/8/3Pp3/8/8/R3K2R b KQkq d3 0 1",
		"r3k2r/8/8/8/3Pp3/8/8/R3K2R b KQkq - 0 1",
	}
	seen := map[uint64]string{}
	for _, fen := range variants {
		key := mustBoard(t, fen).ZobristKey()
		if prev, ok := seen[key]; ok {
			t.Errorf("%q and %q share key %016x", prev, fen, key)
		}
		seen[key] = fen
	}

	c := New()
	before := c.ZobristKey()
	playMoves(t, c, false, "e2e4")
	m, _ := FindMove(c.LegalMoves(), "e7e5")
	c.MakeMove(m, false)
	c.UnmakeMove(m)
	c.UnmakeMove(NewMoveWithFlag(E2, E4, FlagPawnTwoForward))
	if c.ZobristKey() != before {
		t.Error("key not restored by unmake")
	}
}
