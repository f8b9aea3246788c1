// Package board implements the chess position model and legal move generation.
package board

import "fmt"

// Square is a board index in 0-63, computed as rank*8 + file.
// a1 = 0, h1 = 7, a8 = 56, h8 = 63.
type Square uint8

// Named squares, one rank per line.
const (
	A1, B1, C1, D1, E1, F1, G1, H1 Square = 8*iota + 0, 8*iota + 1, 8*iota + 2, 8*iota + 3, 8*iota + 4, 8*iota + 5, 8*iota + 6, 8*iota + 7
	A2, B2, C2, D2, E2, F2, G2, H2
	A3, B3, C3, D3, E3, F3, G3, H3
	A4, B4, C4, D4, E4, F4, G4, H4
	A5, B5, C5, D5, E5, F5, G5, H5
	A6, B6, C6, D6, E6, F6, G6, H6
	A7, B7, C7, D7, E7, F7, G7, H7
	A8, B8, C8, D8, E8, F8, G8, H8
)

// NoSquare marks the absence of a square.
const NoSquare Square = 64

// NewSquare builds a square from 0-based file and rank indices.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// File returns the file index (0 = a, 7 = h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank index (0 = rank 1, 7 = rank 8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// IsValid reports whether sq is on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// String returns the algebraic name of the square, e.g. "e4".
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare parses an algebraic square name such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	return NewSquare(file, rank), nil
}

// offset returns sq shifted by a signed square delta. The caller guarantees the
// result stays on the board.
func (sq Square) offset(delta int) Square {
	return Square(int(sq) + delta)
}
