package board

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPieceEncoding(t *testing.T) {
	tests := []struct {
		piece    Piece
		value    uint8
		sliding  bool
		orth     bool
		diagonal bool
	}{
		{WhiteKing, 9, false, false, false},
		{WhitePawn, 10, false, false, false},
		{WhiteKnight, 11, false, false, false},
		{WhiteBishop, 13, true, false, true},
		{WhiteRook, 14, true, true, false},
		{WhiteQueen, 15, true, true, true},
		{BlackKing, 17, false, false, false},
		{BlackQueen, 23, true, true, true},
	}
	for _, tc := range tests {
		t.Run(tc.piece.String(), func(t *testing.T) {
			if uint8(tc.piece) != tc.value {
				t.Errorf("value = %d, want %d", uint8(tc.piece), tc.value)
			}
			if tc.piece.IsSlidingPiece() != tc.sliding {
				t.Errorf("IsSlidingPiece = %v", tc.piece.IsSlidingPiece())
			}
			if tc.piece.IsRookOrQueen() != tc.orth {
				t.Errorf("IsRookOrQueen = %v", tc.piece.IsRookOrQueen())
			}
			if tc.piece.IsBishopOrQueen() != tc.diagonal {
				t.Errorf("IsBishopOrQueen = %v", tc.piece.IsBishopOrQueen())
			}
		})
	}

	if NoPiece.IsColor(White) || NoPiece.IsColor(Black) {
		t.Error("NoPiece has a colour")
	}
	if NewPiece(Rook, Black).Type() != Rook || NewPiece(Rook, Black).Color() != Black {
		t.Error("NewPiece round trip failed")
	}
	if White.Other() != Black || Black.Other() != White {
		t.Error("Other")
	}
}

func TestPieceFromChar(t *testing.T) {
	for _, ch := range []byte("KQRBNPkqrbnp") {
		p := PieceFromChar(ch)
		if p == NoPiece || p.String() != string(ch) {
			t.Errorf("PieceFromChar(%q) = %q", ch, p.String())
		}
	}
	if PieceFromChar('x') != NoPiece {
		t.Error("unknown letter should map to NoPiece")
	}
}

func TestPieceList(t *testing.T) {
	l := newPieceList(4)
	for _, sq := range []Square{A1, B2, C3, D4} {
		l.Add(sq)
	}
	if l.Count() != 4 || l.Capacity() != 4 {
		t.Fatalf("Count = %d, Capacity = %d", l.Count(), l.Capacity())
	}

	l.Remove(B2)
	if diff := cmp.Diff([]Square{A1, D4, C3}, l.Squares()); diff != "" {
		t.Errorf("after Remove (-want +got):\n%s", diff)
	}
	if l.Contains(B2) {
		t.Error("removed square still reported")
	}

	l.Move(D4, H8)
	if diff := cmp.Diff([]Square{A1, H8, C3}, l.Squares()); diff != "" {
		t.Errorf("after Move (-want +got):\n%s", diff)
	}
	if !l.Contains(H8) || l.Contains(D4) {
		t.Error("Contains disagrees with Move")
	}

	l.Remove(C3)
	l.Remove(A1)
	l.Remove(H8)
	if l.Count() != 0 {
		t.Errorf("Count = %d, want 0", l.Count())
	}
}

func TestPieceListFullPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Add on a full list did not panic")
		}
	}()
	l := newPieceList(1)
	l.Add(A1)
	l.Add(A2)
}

func TestNumSquaresToEdge(t *testing.T) {
	md := Tables()
	tests := []struct {
		sq   Square
		want [8]int
	}{
		{A1, [8]int{7, 0, 0, 7, 0, 0, 7, 0}},
		{H8, [8]int{0, 7, 7, 0, 0, 0, 0, 7}},
		{D4, [8]int{4, 3, 3, 4, 3, 3, 4, 3}},
	}
	for _, tc := range tests {
		var got [8]int
		for dir := range got {
			got[dir] = md.NumSquaresToEdge(tc.sq, dir)
		}
		if got != tc.want {
			t.Errorf("%s: %v, want %v", tc.sq, got, tc.want)
		}
	}
}

func TestJumpTables(t *testing.T) {
	md := Tables()
	tests := []struct {
		name string
		got  []Square
		want []Square
	}{
		{"knight a1", md.KnightMoves(A1), []Square{C2, B3}},
		{"knight g1", md.KnightMoves(G1), []Square{F3, H3, E2}},
		{"king a1", md.KingMoves(A1), []Square{A2, B1, B2}},
		{"white pawn a2", md.PawnAttackSquares(A2, White), []Square{B3}},
		{"black pawn e5", md.PawnAttackSquares(E5, Black), []Square{D4, F4}},
	}
	for _, tc := range tests {
		got := slices.Clone(tc.got)
		slices.Sort(got)
		want := slices.Clone(tc.want)
		slices.Sort(want)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tc.name, diff)
		}
	}

	for sq := A1; sq <= H8; sq++ {
		if len(md.KnightMoves(sq)) != md.KnightAttacks(sq).PopCount() {
			t.Errorf("%s: knight list and bitboard disagree", sq)
		}
		if len(md.KingMoves(sq)) != md.KingAttacks(sq).PopCount() {
			t.Errorf("%s: king list and bitboard disagree", sq)
		}
		if md.QueenRays(sq) != md.RookRays(sq)|md.BishopRays(sq) {
			t.Errorf("%s: queen rays are not rook|bishop", sq)
		}
		if md.RookRays(sq).PopCount() != 14 {
			t.Errorf("%s: rook rays have %d squares", sq, md.RookRays(sq).PopCount())
		}
	}
}

func TestDirectionBetween(t *testing.T) {
	md := Tables()
	tests := []struct {
		from, to Square
		want     int
	}{
		{E1, E8, 8},
		{E8, E1, -8},
		{A1, H8, 9},
		{H1, A8, 7},
		{D4, A4, -1},
		{B1, C3, 0},
		{E4, E4, 0},
	}
	for _, tc := range tests {
		if got := md.DirectionBetween(tc.from, tc.to); got != tc.want {
			t.Errorf("DirectionBetween(%s, %s) = %d, want %d", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestDistances(t *testing.T) {
	md := Tables()
	if got := md.OrthogonalDistance(A1, H8); got != 14 {
		t.Errorf("OrthogonalDistance(a1, h8) = %d", got)
	}
	if got := md.KingDistance(A1, H8); got != 7 {
		t.Errorf("KingDistance(a1, h8) = %d", got)
	}
	if got := md.KingDistance(E4, F6); got != 2 {
		t.Errorf("KingDistance(e4, f6) = %d", got)
	}
	if got := md.CentreManhattanDistance(D4); got != 0 {
		t.Errorf("CentreManhattanDistance(d4) = %d", got)
	}
	if got := md.CentreManhattanDistance(A1); got != 6 {
		t.Errorf("CentreManhattanDistance(a1) = %d", got)
	}
}

func TestMoveEncoding(t *testing.T) {
	m := NewMoveWithFlag(E7, E8, FlagPromoteToQueen)
	if m.From() != E7 || m.To() != E8 || m.Flag() != FlagPromoteToQueen {
		t.Errorf("decoded %s %s %d", m.From(), m.To(), m.Flag())
	}
	if uint16(m) != uint16(E7)|uint16(E8)<<6|3<<12 {
		t.Errorf("bit layout %016b", uint16(m))
	}
	if !m.IsPromotion() || m.PromotionPieceType() != Queen {
		t.Error("promotion not detected")
	}
	if m.String() != "e7e8q" || m.Name() != "e7-e8" {
		t.Errorf("String = %s, Name = %s", m, m.Name())
	}
	if !InvalidMove.IsInvalid() || InvalidMove.String() != "0000" {
		t.Error("InvalidMove")
	}
	if NewMove(G1, F3).PromotionPieceType() != NoPieceType {
		t.Error("quiet move reports a promotion")
	}
}

func TestSquares(t *testing.T) {
	if E4.String() != "e4" || E4.File() != 4 || E4.Rank() != 3 {
		t.Errorf("e4 = %s file %d rank %d", E4, E4.File(), E4.Rank())
	}
	sq, err := ParseSquare("h7")
	if err != nil || sq != H7 {
		t.Errorf("ParseSquare(h7) = %s, %v", sq, err)
	}
	for _, bad := range []string{"", "i1", "a9", "e44"} {
		if _, err := ParseSquare(bad); err == nil {
			t.Errorf("ParseSquare(%q) succeeded", bad)
		}
	}
}
