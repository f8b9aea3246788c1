package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is returned, wrapped, for every malformed position string.
var ErrInvalidFEN = errors.New("invalid FEN")

// LoadedPosition is a parsed position string. It is what Board.Load consumes.
type LoadedPosition struct {
	Squares     [64]Piece
	WhiteToMove bool

	WhiteCastleKingside  bool
	WhiteCastleQueenside bool
	BlackCastleKingside  bool
	BlackCastleQueenside bool

	// EPFile is the en passant file plus one; 0 means none.
	EPFile int

	PlyCount         int
	FiftyMoveCounter int
}

// ParsePosition parses a FEN string. The half-move clock and full-move
// number fields are optional and default to 0 and 1.
func ParsePosition(fen string) (LoadedPosition, error) {
	var pos LoadedPosition

	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return pos, fmt.Errorf("%w: need at least 4 fields, got %d", ErrInvalidFEN, len(parts))
	}

	if err := parsePiecePlacement(&pos, parts[0]); err != nil {
		return pos, err
	}

	switch parts[1] {
	case "w":
		pos.WhiteToMove = true
	case "b":
	default:
		return pos, fmt.Errorf("%w: invalid side to move %q", ErrInvalidFEN, parts[1])
	}

	if err := parseCastlingRights(&pos, parts[2]); err != nil {
		return pos, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return pos, fmt.Errorf("%w: invalid en passant square %q", ErrInvalidFEN, parts[3])
		}
		if err := checkEnPassant(&pos, sq); err != nil {
			return pos, fmt.Errorf("%w: en passant square %s: %v", ErrInvalidFEN, sq, err)
		}
		pos.EPFile = sq.File() + 1
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return pos, fmt.Errorf("%w: invalid half-move clock %q", ErrInvalidFEN, parts[4])
		}
		pos.FiftyMoveCounter = hmc
	}

	fullMove := 1
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return pos, fmt.Errorf("%w: invalid full-move number %q", ErrInvalidFEN, parts[5])
		}
		fullMove = fmn
	}
	pos.PlyCount = (fullMove - 1) * 2
	if !pos.WhiteToMove {
		pos.PlyCount++
	}

	return pos, nil
}

// checkEnPassant verifies that sq is the square a pawn of the side not to
// move just skipped: on the right rank, empty, with the pawn in front of it
// and its start square empty.
func checkEnPassant(pos *LoadedPosition, sq Square) error {
	rank, forward, pawn := 5, -8, NewPiece(Pawn, Black)
	if !pos.WhiteToMove {
		rank, forward, pawn = 2, 8, NewPiece(Pawn, White)
	}
	if sq.Rank() != rank {
		return fmt.Errorf("must be on rank %d", rank+1)
	}
	if pos.Squares[sq] != NoPiece || pos.Squares[sq.offset(-forward)] != NoPiece {
		return errors.New("square or pawn start square occupied")
	}
	if pos.Squares[sq.offset(forward)] != pawn {
		return errors.New("no pawn to capture")
	}
	return nil
}

func parsePiecePlacement(pos *LoadedPosition, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	var kings [2]int
	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			if c > 0x7f {
				return fmt.Errorf("%w: invalid piece character %q", ErrInvalidFEN, c)
			}
			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fmt.Errorf("%w: invalid piece character %q", ErrInvalidFEN, c)
			}
			if piece.Type() == Pawn && (rank == 0 || rank == 7) {
				return fmt.Errorf("%w: pawn on rank %d", ErrInvalidFEN, rank+1)
			}
			if piece.Type() == King {
				kings[piece.Color().Index()]++
			}
			pos.Squares[NewSquare(file, rank)] = piece
			file++
		}

		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank+1, file)
		}
	}

	if kings[WhiteIndex] != 1 || kings[BlackIndex] != 1 {
		return fmt.Errorf("%w: need one king per side, got %d white and %d black",
			ErrInvalidFEN, kings[WhiteIndex], kings[BlackIndex])
	}
	return nil
}

func parseCastlingRights(pos *LoadedPosition, castling string) error {
	if castling == "-" {
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.WhiteCastleKingside = true
		case 'Q':
			pos.WhiteCastleQueenside = true
		case 'k':
			pos.BlackCastleKingside = true
		case 'q':
			pos.BlackCastleQueenside = true
		default:
			return fmt.Errorf("%w: invalid castling character %q", ErrInvalidFEN, c)
		}
	}

	return nil
}

// FEN returns the FEN representation of the position.
func (b *Board) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := b.Square[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.WhiteToMove {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(b.CastlingRights().String())

	sb.WriteByte(' ')
	sb.WriteString(b.EnPassantSquare().String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.FiftyMoveCounter))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.PlyCount/2 + 1))

	return sb.String()
}
