package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSuchMove is returned when a move string matches no legal move.
var ErrNoSuchMove = errors.New("no legal move matches")

// MoveToSAN converts a legal move of b to Standard Algebraic Notation,
// including the check or mate suffix. b is not modified.
func MoveToSAN(b *Board, m Move) string {
	if m.IsInvalid() {
		return "-"
	}

	from, to := m.From(), m.To()
	piece := b.Square[from]
	if piece == NoPiece {
		return m.String()
	}

	var sb strings.Builder

	if m.IsCastling() {
		if to > from {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		pt := piece.Type()
		if pt != Pawn {
			sb.WriteByte(pt.Letter())
			sb.WriteString(disambiguation(b, m, pt))
		}

		if b.Square[to] != NoPiece || m.IsEnPassant() {
			if pt == Pawn {
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(to.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(m.PromotionPieceType().Letter())
		}
	}

	after := b.Clone()
	after.MakeMove(m, true)
	gen := NewMoveGenerator()
	replies := gen.GenerateMoves(after, true)
	if gen.InCheck() {
		if len(replies) == 0 {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('+')
		}
	}

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same piece type to the same square.
func disambiguation(b *Board, m Move, pt PieceType) string {
	from, to := m.From(), m.To()

	var candidates []Square
	for _, other := range b.LegalMoves() {
		if other.To() != to || other.From() == from {
			continue
		}
		if b.Square[other.From()].Type() == pt {
			candidates = append(candidates, other.From())
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string('a' + byte(from.File()))
	}
	if !sameRank {
		return string('1' + byte(from.Rank()))
	}
	return from.String()
}

// ParseSAN finds the legal move of b written as s in Standard Algebraic
// Notation.
func ParseSAN(b *Board, s string) (Move, error) {
	s = strings.TrimSpace(s)
	original := s
	legal := b.LegalMoves()

	s = strings.TrimRight(s, "+#")

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		kingside := len(s) == 3
		for _, m := range legal {
			if m.IsCastling() && (m.To() > m.From()) == kingside {
				return m, nil
			}
		}
		return InvalidMove, fmt.Errorf("%w: %q", ErrNoSuchMove, original)
	}

	promotion := NoPieceType
	if idx := strings.IndexByte(s, '='); idx >= 0 && idx+1 < len(s) {
		promotion = PieceFromChar(s[idx+1]).Type()
		s = s[:idx]
	} else if n := len(s); n >= 3 && strings.IndexByte("QRBN", s[n-1]) >= 0 && (s[n-2] == '1' || s[n-2] == '8') {
		// promotion written without '=', as in e8Q
		promotion = PieceFromChar(s[n-1]).Type()
		s = s[:n-1]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pt = PieceFromChar(s[0]).Type()
		if pt == NoPieceType {
			return InvalidMove, fmt.Errorf("%w: %q", ErrNoSuchMove, original)
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return InvalidMove, fmt.Errorf("%w: %q", ErrNoSuchMove, original)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return InvalidMove, fmt.Errorf("%w: %q", ErrNoSuchMove, original)
	}
	s = s[:len(s)-2]

	fileHint, rankHint := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			fileHint = int(c - 'a')
		case c >= '1' && c <= '8':
			rankHint = int(c - '1')
		}
	}

	for _, m := range legal {
		from := m.From()
		if m.To() != dest || m.IsCastling() || b.Square[from].Type() != pt {
			continue
		}
		if fileHint >= 0 && from.File() != fileHint {
			continue
		}
		if rankHint >= 0 && from.Rank() != rankHint {
			continue
		}
		if isCapture && b.Square[dest] == NoPiece && !m.IsEnPassant() {
			continue
		}
		if m.PromotionPieceType() != promotion {
			continue
		}
		return m, nil
	}

	return InvalidMove, fmt.Errorf("%w: %q", ErrNoSuchMove, original)
}

// MovesToSAN renders a line of moves starting from b. b is not modified.
func MovesToSAN(b *Board, moves []Move) []string {
	result := make([]string, len(moves))
	p := b.Clone()

	for i, m := range moves {
		result[i] = MoveToSAN(p, m)
		p.MakeMove(m, true)
	}

	return result
}
