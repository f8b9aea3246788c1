package board

// PieceType is the colourless kind of a piece. The values are chosen so that
// bit 2 marks sliding pieces and the low bits are shared between the queen
// and the rook (0b110) or the bishop (0b101).
type PieceType uint8

const (
	NoPieceType PieceType = 0
	King        PieceType = 1
	Pawn        PieceType = 2
	Knight      PieceType = 3
	Bishop      PieceType = 5
	Rook        PieceType = 6
	Queen       PieceType = 7
)

// IsSlidingPiece reports whether the type moves along rays (bishop, rook, queen).
func (pt PieceType) IsSlidingPiece() bool {
	return pt&0b100 != 0
}

// IsRookOrQueen reports whether the type attacks along ranks and files.
func (pt PieceType) IsRookOrQueen() bool {
	return pt&0b110 == 0b110
}

// IsBishopOrQueen reports whether the type attacks along diagonals.
func (pt PieceType) IsBishopOrQueen() bool {
	return pt&0b101 == 0b101
}

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case King:
		return "King"
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	default:
		return "None"
	}
}

// Letter returns the upper-case piece letter used by FEN and SAN ('P' for pawns).
func (pt PieceType) Letter() byte {
	switch pt {
	case King:
		return 'K'
	case Pawn:
		return 'P'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Rook:
		return 'R'
	case Queen:
		return 'Q'
	default:
		return ' '
	}
}

// Color occupies bits 3 and 4 of a Piece, disjoint from the type bits.
type Color uint8

const (
	White Color = 8
	Black Color = 16
)

// Indices into per-colour arrays.
const (
	WhiteIndex = 0
	BlackIndex = 1
)

// Other returns the opposing colour.
func (c Color) Other() Color {
	return c ^ (White | Black)
}

// Index returns WhiteIndex or BlackIndex.
func (c Color) Index() int {
	if c == White {
		return WhiteIndex
	}
	return BlackIndex
}

// String returns the colour name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Piece packs a PieceType and a Color: pieceType | color.
// The zero value is an empty square and has no colour.
type Piece uint8

const (
	typeMask  = 0b00111
	colorMask = 0b11000
)

const (
	NoPiece Piece = 0

	WhiteKing   = Piece(King) | Piece(White)
	WhitePawn   = Piece(Pawn) | Piece(White)
	WhiteKnight = Piece(Knight) | Piece(White)
	WhiteBishop = Piece(Bishop) | Piece(White)
	WhiteRook   = Piece(Rook) | Piece(White)
	WhiteQueen  = Piece(Queen) | Piece(White)

	BlackKing   = Piece(King) | Piece(Black)
	BlackPawn   = Piece(Pawn) | Piece(Black)
	BlackKnight = Piece(Knight) | Piece(Black)
	BlackBishop = Piece(Bishop) | Piece(Black)
	BlackRook   = Piece(Rook) | Piece(Black)
	BlackQueen  = Piece(Queen) | Piece(Black)
)

// NewPiece combines a type and a colour.
func NewPiece(pt PieceType, c Color) Piece {
	return Piece(pt) | Piece(c)
}

// Type returns the colourless type of the piece.
func (p Piece) Type() PieceType {
	return PieceType(p & typeMask)
}

// Color returns the colour bits of the piece; zero for NoPiece.
func (p Piece) Color() Color {
	return Color(p & colorMask)
}

// IsColor reports whether the piece belongs to c. Always false for NoPiece.
func (p Piece) IsColor(c Color) bool {
	return Color(p&colorMask) == c
}

// IsSlidingPiece reports whether the piece is a bishop, rook or queen.
func (p Piece) IsSlidingPiece() bool {
	return p.Type().IsSlidingPiece()
}

// IsRookOrQueen reports whether the piece attacks along ranks and files.
func (p Piece) IsRookOrQueen() bool {
	return p.Type().IsRookOrQueen()
}

// IsBishopOrQueen reports whether the piece attacks along diagonals.
func (p Piece) IsBishopOrQueen() bool {
	return p.Type().IsBishopOrQueen()
}

// String returns the FEN letter: upper case for white, lower case for black,
// a space for an empty square.
func (p Piece) String() string {
	if p.Type() == NoPieceType {
		return " "
	}
	ch := p.Type().Letter()
	if p.IsColor(Black) {
		ch += 'a' - 'A'
	}
	return string(ch)
}

// PieceFromChar converts a FEN letter to a Piece, or NoPiece if unknown.
func PieceFromChar(ch byte) Piece {
	c := White
	if ch >= 'a' && ch <= 'z' {
		c = Black
		ch -= 'a' - 'A'
	}
	var pt PieceType
	switch ch {
	case 'K':
		pt = King
	case 'P':
		pt = Pawn
	case 'N':
		pt = Knight
	case 'B':
		pt = Bishop
	case 'R':
		pt = Rook
	case 'Q':
		pt = Queen
	default:
		return NoPiece
	}
	return NewPiece(pt, c)
}
