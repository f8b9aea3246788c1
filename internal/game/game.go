// Package game tracks a played game on top of the board package: the legal
// moves of the current position, the moves played so far and the outcome.
package game

import (
	"errors"
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// ErrIllegalMove is returned when a move is not in the current legal list,
// or when the game is already over.
var ErrIllegalMove = errors.New("illegal move")

// Result is the state of the game after the last move.
type Result int

const (
	Playing Result = iota
	WhiteIsMated
	BlackIsMated
	Stalemate
	Repetition
	FiftyMoveRule
	InsufficientMaterial
)

var resultNames = [...]string{
	Playing:              "playing",
	WhiteIsMated:         "white is mated",
	BlackIsMated:         "black is mated",
	Stalemate:            "stalemate",
	Repetition:           "threefold repetition",
	FiftyMoveRule:        "fifty-move rule",
	InsufficientMaterial: "insufficient material",
}

func (r Result) String() string {
	if r >= 0 && int(r) < len(resultNames) {
		return resultNames[r]
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// IsDraw reports whether the result ends the game without a winner.
func (r Result) IsDraw() bool {
	return r >= Stalemate
}

// IsOver reports whether no more moves may be played.
func (r Result) IsOver() bool {
	return r != Playing
}

// Game is a sequence of moves from a starting position.
type Game struct {
	board *board.Board
	gen   *board.MoveGenerator

	legal  []board.Move
	played []board.Move
	// keys holds the Zobrist key of every position reached, the starting
	// position included.
	keys   []uint64
	result Result
}

// New starts a game from the standard starting position.
func New() *Game {
	g, _ := NewFromFEN(board.StartFEN)
	return g
}

// NewFromFEN starts a game from the given position.
func NewFromFEN(fen string) (*Game, error) {
	b, err := board.NewFromFEN(fen)
	if err != nil {
		return nil, err
	}

	g := &Game{
		board: b,
		gen:   board.NewMoveGenerator(),
		keys:  []uint64{b.ZobristKey()},
	}
	g.update()
	return g, nil
}

// Board returns a copy of the current position.
func (g *Game) Board() *board.Board {
	return g.board.Clone()
}

// FEN returns the current position.
func (g *Game) FEN() string {
	return g.board.FEN()
}

// Moves returns the legal moves of the current position. Positions drawn by
// rule still list their moves even though PlayMove refuses them.
func (g *Game) Moves() []board.Move {
	return append([]board.Move(nil), g.legal...)
}

// Played returns the moves made so far.
func (g *Game) Played() []board.Move {
	return append([]board.Move(nil), g.played...)
}

// Result returns the current outcome.
func (g *Game) Result() Result {
	return g.result
}

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool {
	return g.gen.InCheck()
}

// WhiteToMove reports whose turn it is.
func (g *Game) WhiteToMove() bool {
	return g.board.WhiteToMove
}

// Play makes a move given in UCI notation, e.g. "e2e4" or "e7e8q".
func (g *Game) Play(uci string) error {
	m, ok := board.FindMove(g.legal, uci)
	if !ok {
		return fmt.Errorf("%w: %s", ErrIllegalMove, uci)
	}
	return g.PlayMove(m)
}

// PlaySAN makes a move given in standard algebraic notation, e.g. "Nf3".
func (g *Game) PlaySAN(san string) error {
	m, err := board.ParseSAN(g.board, san)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}
	return g.PlayMove(m)
}

// PlayMove makes m, which must be one of Moves().
func (g *Game) PlayMove(m board.Move) error {
	if g.result.IsOver() {
		return fmt.Errorf("%w: game is over (%s)", ErrIllegalMove, g.result)
	}
	if !contains(g.legal, m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	g.board.MakeMove(m, false)
	g.played = append(g.played, m)
	g.keys = append(g.keys, g.board.ZobristKey())
	g.update()
	return nil
}

// Undo takes back the last move. It returns false if no move was played.
func (g *Game) Undo() bool {
	if len(g.played) == 0 {
		return false
	}

	last := g.played[len(g.played)-1]
	g.board.UnmakeMove(last)
	g.played = g.played[:len(g.played)-1]
	g.keys = g.keys[:len(g.keys)-1]
	g.update()
	return true
}

func (g *Game) update() {
	g.legal = g.gen.GenerateMoves(g.board, true)
	g.result = g.classify()
}

func (g *Game) classify() Result {
	if len(g.legal) == 0 {
		if g.gen.InCheck() {
			if g.board.WhiteToMove {
				return WhiteIsMated
			}
			return BlackIsMated
		}
		return Stalemate
	}

	if g.board.FiftyMoveCounter >= 100 {
		return FiftyMoveRule
	}

	if g.repetitions() >= 3 {
		return Repetition
	}

	if insufficientMaterial(g.board) {
		return InsufficientMaterial
	}

	return Playing
}

// repetitions counts how often the current position has occurred.
func (g *Game) repetitions() int {
	current := g.keys[len(g.keys)-1]
	n := 0
	for _, k := range g.keys {
		if k == current {
			n++
		}
	}
	return n
}

// insufficientMaterial is true when neither side has a pawn, rook or queen
// and at most one minor piece is left on the board.
func insufficientMaterial(b *board.Board) bool {
	count := func(pt board.PieceType) int {
		return b.PieceCount(pt, board.White) + b.PieceCount(pt, board.Black)
	}

	if count(board.Pawn)+count(board.Rook)+count(board.Queen) != 0 {
		return false
	}
	return count(board.Knight)+count(board.Bishop) <= 1
}

func contains(moves []board.Move, m board.Move) bool {
	for _, x := range moves {
		if x == m {
			return true
		}
	}
	return false
}
