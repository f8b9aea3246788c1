package board

import (
	"fmt"
	"slices"
	"strings"
)

// Board is a mutable chess position.
//
// Square is authoritative for occupancy; the piece lists and KingSquare mirror
// it so pieces of one kind can be iterated without scanning all 64 squares.
// A Board is not safe for concurrent use: MakeMove mutates it and move
// generation transiently rewrites Square while probing en passant captures.
// Give each goroutine its own Board (see Clone).
type Board struct {
	Square [64]Piece

	WhiteToMove      bool
	ColorToMove      Color
	OpponentColor    Color
	ColorToMoveIndex int

	KingSquare [2]Square

	Pawns   [2]PieceList
	Knights [2]PieceList
	Bishops [2]PieceList
	Rooks   [2]PieceList
	Queens  [2]PieceList

	CurrentGameState GameState
	PlyCount         int
	FiftyMoveCounter int

	history []GameState
}

// noPieces is returned for piece types without a list (none, king). It is
// never mutated.
var noPieces PieceList

// New returns a board set up in the standard starting position.
func New() *Board {
	b := &Board{}
	b.LoadStartPosition()
	return b
}

// NewFromFEN returns a board loaded from a FEN string.
func NewFromFEN(fen string) (*Board, error) {
	b := &Board{}
	if err := b.LoadPosition(fen); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Board) reset() {
	*b = Board{
		Pawns:   [2]PieceList{newPieceList(pawnListCapacity), newPieceList(pawnListCapacity)},
		Knights: [2]PieceList{newPieceList(minorListCapacity), newPieceList(minorListCapacity)},
		Bishops: [2]PieceList{newPieceList(minorListCapacity), newPieceList(minorListCapacity)},
		Rooks:   [2]PieceList{newPieceList(minorListCapacity), newPieceList(minorListCapacity)},
		Queens:  [2]PieceList{newPieceList(queenListCapacity), newPieceList(queenListCapacity)},
		history: make([]GameState, 0, 64),
	}
}

// pieceList returns the list tracking pieces of type pt for colour index ci.
func (b *Board) pieceList(pt PieceType, ci int) *PieceList {
	switch pt {
	case Pawn:
		return &b.Pawns[ci]
	case Knight:
		return &b.Knights[ci]
	case Bishop:
		return &b.Bishops[ci]
	case Rook:
		return &b.Rooks[ci]
	case Queen:
		return &b.Queens[ci]
	}
	return &noPieces
}

// LoadStartPosition resets the board to the standard initial array.
func (b *Board) LoadStartPosition() {
	if err := b.LoadPosition(StartFEN); err != nil {
		panic(err)
	}
}

// LoadPosition resets the board and sets it up from a FEN string.
// On error the board is left reset but unusable.
func (b *Board) LoadPosition(fen string) error {
	pos, err := ParsePosition(fen)
	if err != nil {
		return err
	}
	return b.Load(pos)
}

// Load resets the board and populates it from a parsed position record.
func (b *Board) Load(pos LoadedPosition) error {
	b.reset()

	for sq := A1; sq <= H8; sq++ {
		piece := pos.Squares[sq]
		b.Square[sq] = piece
		if piece == NoPiece {
			continue
		}

		ci := piece.Color().Index()
		if piece.Type() == King {
			b.KingSquare[ci] = sq
			continue
		}
		list := b.pieceList(piece.Type(), ci)
		if list.Count() == list.Capacity() {
			return fmt.Errorf("%w: too many %s %ss", ErrInvalidFEN, piece.Color(), strings.ToLower(piece.Type().String()))
		}
		list.Add(sq)
	}

	b.setSideToMove(pos.WhiteToMove)

	var castling CastlingRights
	if pos.WhiteCastleKingside {
		castling |= WhiteKingside
	}
	if pos.WhiteCastleQueenside {
		castling |= WhiteQueenside
	}
	if pos.BlackCastleKingside {
		castling |= BlackKingside
	}
	if pos.BlackCastleQueenside {
		castling |= BlackQueenside
	}

	b.FiftyMoveCounter = pos.FiftyMoveCounter
	b.PlyCount = pos.PlyCount
	b.CurrentGameState = NewGameState(castling, pos.EPFile, NoPieceType, pos.FiftyMoveCounter)
	b.history = append(b.history, b.CurrentGameState)
	return nil
}

func (b *Board) setSideToMove(white bool) {
	b.WhiteToMove = white
	if white {
		b.ColorToMove, b.OpponentColor, b.ColorToMoveIndex = White, Black, WhiteIndex
	} else {
		b.ColorToMove, b.OpponentColor, b.ColorToMoveIndex = Black, White, BlackIndex
	}
}

// castlingRookSquares returns where the rook starts and lands for a castling
// move whose king lands on kingTo.
func castlingRookSquares(kingTo Square) (from, to Square) {
	if kingTo == G1 || kingTo == G8 {
		return kingTo + 1, kingTo - 1
	}
	return kingTo - 2, kingTo + 1
}

// epCapturedSquare returns the square of the pawn removed by an en passant
// capture landing on target, made by colour c.
func epCapturedSquare(target Square, c Color) Square {
	if c == White {
		return target - 8
	}
	return target + 8
}

// MakeMove applies m, which must come from the move generator for the
// current position; nothing is validated. When inSearch is true the
// fifty-move counter is not reset by pawn moves or captures, so probing
// moves does not disturb the game-level counter.
func (b *Board) MakeMove(m Move, inSearch bool) {
	castling := b.CurrentGameState.CastlingRights()

	us := b.ColorToMove
	ci, oi := b.ColorToMoveIndex, 1-b.ColorToMoveIndex
	from, to := m.From(), m.To()
	flag := m.Flag()

	moving := b.Square[from]
	movingType := moving.Type()
	capturedType := b.Square[to].Type()
	isEnPassant := flag == FlagEnPassantCapture

	if capturedType != NoPieceType && !isEnPassant {
		b.pieceList(capturedType, oi).Remove(to)
	}

	if movingType == King {
		b.KingSquare[ci] = to
		if us == White {
			castling &^= whiteCastling
		} else {
			castling &^= blackCastling
		}
	} else {
		b.pieceList(movingType, ci).Move(from, to)
	}

	onTarget := moving
	switch {
	case m.IsPromotion():
		promoted := m.PromotionPieceType()
		b.Pawns[ci].Remove(to)
		b.pieceList(promoted, ci).Add(to)
		onTarget = NewPiece(promoted, us)
	case isEnPassant:
		epPawn := epCapturedSquare(to, us)
		capturedType = b.Square[epPawn].Type()
		b.Square[epPawn] = NoPiece
		b.Pawns[oi].Remove(epPawn)
	case flag == FlagCastling:
		rookFrom, rookTo := castlingRookSquares(to)
		b.Square[rookFrom] = NoPiece
		b.Square[rookTo] = NewPiece(Rook, us)
		b.Rooks[ci].Move(rookFrom, rookTo)
	}

	b.Square[to] = onTarget
	b.Square[from] = NoPiece

	epFile := 0
	if flag == FlagPawnTwoForward {
		epFile = from.File() + 1
	}

	// A move from or onto a corner square ends that corner's castling right,
	// whichever piece made it.
	if castling != NoCastling {
		if from == H1 || to == H1 {
			castling &^= WhiteKingside
		}
		if from == A1 || to == A1 {
			castling &^= WhiteQueenside
		}
		if from == H8 || to == H8 {
			castling &^= BlackKingside
		}
		if from == A8 || to == A8 {
			castling &^= BlackQueenside
		}
	}

	b.CurrentGameState = NewGameState(castling, epFile, capturedType, b.FiftyMoveCounter)
	b.history = append(b.history, b.CurrentGameState)

	b.setSideToMove(!b.WhiteToMove)
	b.PlyCount++
	b.FiftyMoveCounter++

	if !inSearch && (movingType == Pawn || capturedType != NoPieceType) {
		b.FiftyMoveCounter = 0
	}
}

// UnmakeMove reverts m, which must be the last move applied with MakeMove.
func (b *Board) UnmakeMove(m Move) {
	undone := b.CurrentGameState

	b.setSideToMove(!b.WhiteToMove)
	us, them := b.ColorToMove, b.OpponentColor
	ci, oi := b.ColorToMoveIndex, 1-b.ColorToMoveIndex
	from, to := m.From(), m.To()
	flag := m.Flag()
	captured := undone.CapturedPieceType()

	moved := b.Square[to]
	if m.IsPromotion() {
		b.pieceList(moved.Type(), ci).Remove(to)
		b.Pawns[ci].Add(to)
		moved = NewPiece(Pawn, us)
	}

	if moved.Type() == King {
		b.KingSquare[ci] = from
	} else {
		b.pieceList(moved.Type(), ci).Move(to, from)
	}

	b.Square[from] = moved
	b.Square[to] = NoPiece

	switch {
	case flag == FlagEnPassantCapture:
		epPawn := epCapturedSquare(to, us)
		b.Square[epPawn] = NewPiece(Pawn, them)
		b.Pawns[oi].Add(epPawn)
	case captured != NoPieceType:
		b.Square[to] = NewPiece(captured, them)
		b.pieceList(captured, oi).Add(to)
	case flag == FlagCastling:
		rookFrom, rookTo := castlingRookSquares(to)
		b.Square[rookTo] = NoPiece
		b.Square[rookFrom] = NewPiece(Rook, us)
		b.Rooks[ci].Move(rookTo, rookFrom)
	}

	b.history = b.history[:len(b.history)-1]
	b.CurrentGameState = b.history[len(b.history)-1]
	b.FiftyMoveCounter = undone.FiftyMoveCounter()
	b.PlyCount--
}

// Clone returns an independent deep copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	c.history = slices.Clone(b.history)
	return &c
}

// History returns a copy of the game-state stack, oldest first. The first
// entry is the state the position was loaded with.
func (b *Board) History() []GameState {
	return slices.Clone(b.history)
}

// CastlingRights returns the current castling rights.
func (b *Board) CastlingRights() CastlingRights {
	return b.CurrentGameState.CastlingRights()
}

// EnPassantSquare returns the square a pawn of the side to move may capture
// onto en passant, or NoSquare.
func (b *Board) EnPassantSquare() Square {
	file := b.CurrentGameState.EnPassantFile() - 1
	if file < 0 {
		return NoSquare
	}
	if b.WhiteToMove {
		return NewSquare(file, 5)
	}
	return NewSquare(file, 2)
}

// PieceCount returns how many pieces of type pt colour c has on the board.
func (b *Board) PieceCount(pt PieceType, c Color) int {
	if pt == King {
		return 1
	}
	return b.pieceList(pt, c.Index()).Count()
}

// CheckConsistency verifies that the piece lists and king squares agree
// with the square array.
func (b *Board) CheckConsistency() error {
	seen := 0
	for sq := A1; sq <= H8; sq++ {
		piece := b.Square[sq]
		if piece == NoPiece {
			continue
		}
		ci := piece.Color().Index()
		if piece.Type() == King {
			if b.KingSquare[ci] != sq {
				return fmt.Errorf("king on %s but king square is %s", sq, b.KingSquare[ci])
			}
			continue
		}
		if !b.pieceList(piece.Type(), ci).Contains(sq) {
			return fmt.Errorf("%s on %s missing from its piece list", piece, sq)
		}
		seen++
	}

	listed := 0
	for ci := WhiteIndex; ci <= BlackIndex; ci++ {
		for _, pt := range []PieceType{Pawn, Knight, Bishop, Rook, Queen} {
			list := b.pieceList(pt, ci)
			for i := 0; i < list.Count(); i++ {
				sq := list.At(i)
				if b.Square[sq].Type() != pt || b.Square[sq].Color().Index() != ci {
					return fmt.Errorf("piece list entry %s holds %q", sq, b.Square[sq].String())
				}
			}
			listed += list.Count()
		}
	}
	if listed != seen {
		return fmt.Errorf("piece lists hold %d entries, board has %d non-king pieces", listed, seen)
	}
	return nil
}

// String returns a visual representation of the position.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := b.Square[NewSquare(file, rank)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.ColorToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", b.CastlingRights())
	fmt.Fprintf(&sb, "En passant: %s\n", b.EnPassantSquare())
	fmt.Fprintf(&sb, "Fifty-move counter: %d\n", b.FiftyMoveCounter)
	fmt.Fprintf(&sb, "Ply: %d\n", b.PlyCount)
	fmt.Fprintf(&sb, "Key: %016x\n", b.ZobristKey())
	return sb.String()
}
