package board

import "fmt"

// Move encodes a move in 16 bits:
// bits 0-5:   start square
// bits 6-11:  target square
// bits 12-15: flag
type Move uint16

// MoveFlag marks special moves.
type MoveFlag uint8

const (
	FlagNone MoveFlag = iota
	FlagEnPassantCapture
	FlagCastling
	FlagPromoteToQueen
	FlagPromoteToKnight
	FlagPromoteToRook
	FlagPromoteToBishop
	FlagPawnTwoForward
)

const (
	startSquareMask  = 0b0000000000111111
	targetSquareMask = 0b0000111111000000
	flagShift        = 12
)

// InvalidMove is the zero move. A generated move never has the same start and
// target square, so it cannot collide with a real move.
const InvalidMove Move = 0

// NewMove creates a move without a flag.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewMoveWithFlag creates a move carrying a special-move flag.
func NewMoveWithFlag(from, to Square, flag MoveFlag) Move {
	return Move(from) | Move(to)<<6 | Move(flag)<<flagShift
}

// From returns the start square.
func (m Move) From() Square {
	return Square(m & startSquareMask)
}

// To returns the target square.
func (m Move) To() Square {
	return Square((m & targetSquareMask) >> 6)
}

// Flag returns the special-move flag.
func (m Move) Flag() MoveFlag {
	return MoveFlag(m >> flagShift)
}

// IsInvalid reports whether m is the InvalidMove sentinel.
func (m Move) IsInvalid() bool {
	return m == InvalidMove
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	switch m.Flag() {
	case FlagPromoteToQueen, FlagPromoteToKnight, FlagPromoteToRook, FlagPromoteToBishop:
		return true
	}
	return false
}

// IsEnPassant reports whether the move is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassantCapture
}

// IsCastling reports whether the move is the king's half of a castling move.
func (m Move) IsCastling() bool {
	return m.Flag() == FlagCastling
}

// PromotionPieceType returns the type a pawn promotes to, or NoPieceType.
func (m Move) PromotionPieceType() PieceType {
	switch m.Flag() {
	case FlagPromoteToQueen:
		return Queen
	case FlagPromoteToKnight:
		return Knight
	case FlagPromoteToRook:
		return Rook
	case FlagPromoteToBishop:
		return Bishop
	}
	return NoPieceType
}

// Name returns the move as "start-target", e.g. "e2-e4".
func (m Move) Name() string {
	return fmt.Sprintf("%s-%s", m.From(), m.To())
}

// String returns the move in UCI long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m.IsInvalid() {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.PromotionPieceType().Letter() + 'a' - 'A')
	}
	return s
}

// FindMove looks up a UCI move string ("e2e4", "e7e8q") among the given
// moves. Matching against generator output is the only way to build a move
// that MakeMove accepts; it returns false when no listed move matches.
func FindMove(moves []Move, uci string) (Move, bool) {
	for _, m := range moves {
		if m.String() == uci {
			return m, true
		}
	}
	return InvalidMove, false
}
