package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares: bit i is set when square i is a member.
type Bitboard uint64

// SquareBB returns a bitboard containing only sq.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

// Contains reports whether sq is in the set.
func (b Bitboard) Contains(sq Square) bool {
	return (b>>sq)&1 != 0
}

// With returns the set with sq added.
func (b Bitboard) With(sq Square) Bitboard {
	return b | 1<<sq
}

// PopCount returns the number of squares in the set.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// Squares lists the members in ascending order.
func (b Bitboard) Squares() []Square {
	squares := make([]Square, 0, b.PopCount())
	for b != 0 {
		squares = append(squares, Square(bits.TrailingZeros64(uint64(b))))
		b &= b - 1
	}
	return squares
}

// String renders the set as an 8x8 grid, rank 8 first.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			if b.Contains(NewSquare(file, rank)) {
				sb.WriteString("1 ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
