package board

import "strings"

// CastlingRights holds the four castling permissions as bit flags.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

// Per-side masks used when a king or rook moves.
const (
	whiteCastling = WhiteKingside | WhiteQueenside
	blackCastling = BlackKingside | BlackQueenside
)

// Kingside returns the kingside right for colour c.
func Kingside(c Color) CastlingRights {
	if c == White {
		return WhiteKingside
	}
	return BlackKingside
}

// Queenside returns the queenside right for colour c.
func Queenside(c Color) CastlingRights {
	if c == White {
		return WhiteQueenside
	}
	return BlackQueenside
}

// String returns the FEN castling field ("KQkq", "-", ...).
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for _, r := range []struct {
		right CastlingRights
		ch    byte
	}{
		{WhiteKingside, 'K'},
		{WhiteQueenside, 'Q'},
		{BlackKingside, 'k'},
		{BlackQueenside, 'q'},
	} {
		if cr&r.right != 0 {
			sb.WriteByte(r.ch)
		}
	}
	return sb.String()
}

// GameState packs the irreversible parts of a position into one word, which
// is what the board history stores per move.
//
//	bits 0-3    castling rights (WK, WQ, BK, BQ)
//	bits 4-7    en passant file + 1 (0 = none)
//	bits 8-10   type of the piece captured by the last move
//	bits 14+    fifty-move counter before the last move
type GameState uint32

const (
	castlingBits   = 0b1111
	epFileShift    = 4
	epFileBits     = 0b1111
	capturedShift  = 8
	capturedBits   = 0b111
	fiftyMoveShift = 14
)

// NewGameState packs the given fields.
func NewGameState(castling CastlingRights, epFile int, captured PieceType, fiftyMoveCounter int) GameState {
	return GameState(castling)&castlingBits |
		GameState(epFile&epFileBits)<<epFileShift |
		GameState(captured&capturedBits)<<capturedShift |
		GameState(fiftyMoveCounter)<<fiftyMoveShift
}

// CastlingRights returns bits 0-3.
func (s GameState) CastlingRights() CastlingRights {
	return CastlingRights(s & castlingBits)
}

// EnPassantFile returns the en passant file plus one, or 0 when there is none.
func (s GameState) EnPassantFile() int {
	return int(s>>epFileShift) & epFileBits
}

// CapturedPieceType returns the type captured by the move that produced s.
func (s GameState) CapturedPieceType() PieceType {
	return PieceType(s>>capturedShift) & capturedBits
}

// FiftyMoveCounter returns the counter value stored in s.
func (s GameState) FiftyMoveCounter() int {
	return int(s >> fiftyMoveShift)
}
