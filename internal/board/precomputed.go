package board

// Ray directions, indexing DirectionOffsets and the per-square edge distances.
// Directions 0-3 are orthogonal, 4-7 diagonal.
const (
	North = iota
	South
	West
	East
	NorthWest
	SouthEast
	NorthEast
	SouthWest

	directionCount
)

// DirectionOffsets holds the square delta of one step in each ray direction.
var DirectionOffsets = [8]int{8, -8, -1, 1, 7, -7, 9, -9}

// knightJumps is the order in which knight destinations are generated.
var knightJumps = [8]int{15, 17, -17, -15, 10, -6, 6, -10}

// pawnAttackDirections lists the two capture directions of a pawn, per colour index.
var pawnAttackDirections = [2][2]int{
	{NorthWest, NorthEast},
	{SouthWest, SouthEast},
}

// MoveData is the table set shared by every Board and MoveGenerator. It is
// built once at package initialisation and never written afterwards, so
// concurrent readers need no locking.
type MoveData struct {
	numSquaresToEdge [64][8]int

	knightMoves [64][]Square
	kingMoves   [64][]Square

	pawnAttacks [2][64][]Square

	kingAttacks   [64]Bitboard
	knightAttacks [64]Bitboard
	pawnAttackBB  [64][2]Bitboard

	rookRays   [64]Bitboard
	bishopRays [64]Bitboard
	queenRays  [64]Bitboard

	// directionLookup[to-from+63] is the signed step connecting two squares.
	directionLookup [127]int

	orthogonalDistance      [64][64]int
	kingDistance            [64][64]int
	centreManhattanDistance [64]int
}

var moveData = newMoveData()

// Tables returns the process-wide precomputed move data.
func Tables() *MoveData {
	return moveData
}

func newMoveData() *MoveData {
	md := &MoveData{}
	for sq := A1; sq <= H8; sq++ {
		md.initEdges(sq)
		md.initJumps(sq)
		md.initPawnAttacks(sq)
		md.initRays(sq)
	}
	md.initDirectionLookup()
	md.initDistances()
	return md
}

func (md *MoveData) initEdges(sq Square) {
	x, y := sq.File(), sq.Rank()
	north, south, west, east := 7-y, y, x, 7-x

	md.numSquaresToEdge[sq] = [8]int{
		North:     north,
		South:     south,
		West:      west,
		East:      east,
		NorthWest: min(north, west),
		SouthEast: min(south, east),
		NorthEast: min(north, east),
		SouthWest: min(south, west),
	}
}

// initJumps fills the knight and king destination lists. A jump is kept when
// it lands on the board without wrapping round a file edge.
func (md *MoveData) initJumps(sq Square) {
	x, y := sq.File(), sq.Rank()

	for _, delta := range knightJumps {
		to := int(sq) + delta
		if to < 0 || to > 63 {
			continue
		}
		target := Square(to)
		if max(abs(x-target.File()), abs(y-target.Rank())) == 2 {
			md.knightMoves[sq] = append(md.knightMoves[sq], target)
			md.knightAttacks[sq] |= SquareBB(target)
		}
	}

	for _, delta := range DirectionOffsets {
		to := int(sq) + delta
		if to < 0 || to > 63 {
			continue
		}
		target := Square(to)
		if max(abs(x-target.File()), abs(y-target.Rank())) == 1 {
			md.kingMoves[sq] = append(md.kingMoves[sq], target)
			md.kingAttacks[sq] |= SquareBB(target)
		}
	}
}

func (md *MoveData) initPawnAttacks(sq Square) {
	x, y := sq.File(), sq.Rank()

	add := func(ci int, target Square) {
		md.pawnAttacks[ci][sq] = append(md.pawnAttacks[ci][sq], target)
		md.pawnAttackBB[sq][ci] |= SquareBB(target)
	}
	if x > 0 {
		if y < 7 {
			add(WhiteIndex, sq+7)
		}
		if y > 0 {
			add(BlackIndex, sq-9)
		}
	}
	if x < 7 {
		if y < 7 {
			add(WhiteIndex, sq+9)
		}
		if y > 0 {
			add(BlackIndex, sq-7)
		}
	}
}

func (md *MoveData) initRays(sq Square) {
	for dir := 0; dir < 8; dir++ {
		for n := 1; n <= md.numSquaresToEdge[sq][dir]; n++ {
			target := sq.offset(DirectionOffsets[dir] * n)
			if dir < 4 {
				md.rookRays[sq] |= SquareBB(target)
			} else {
				md.bishopRays[sq] |= SquareBB(target)
			}
		}
	}
	md.queenRays[sq] = md.rookRays[sq] | md.bishopRays[sq]
}

// initDirectionLookup classifies every square delta by the ray step that can
// produce it. Deltas that are neither a multiple of 7, 8 or 9 nor short enough
// to stay on one rank are never collinear and map to 0.
func (md *MoveData) initDirectionLookup() {
	for i := range md.directionLookup {
		offset := i - 63
		absOffset := abs(offset)

		absDir := 0
		switch {
		case absOffset == 0:
		case absOffset%9 == 0:
			absDir = 9
		case absOffset%8 == 0:
			absDir = 8
		case absOffset%7 == 0:
			absDir = 7
		case absOffset < 8:
			absDir = 1
		}
		md.directionLookup[i] = absDir * sign(offset)
	}
}

func (md *MoveData) initDistances() {
	for a := A1; a <= H8; a++ {
		fileFromCentre := max(3-a.File(), a.File()-4)
		rankFromCentre := max(3-a.Rank(), a.Rank()-4)
		md.centreManhattanDistance[a] = fileFromCentre + rankFromCentre

		for b := A1; b <= H8; b++ {
			fileDistance := abs(a.File() - b.File())
			rankDistance := abs(a.Rank() - b.Rank())
			md.orthogonalDistance[a][b] = fileDistance + rankDistance
			md.kingDistance[a][b] = max(fileDistance, rankDistance)
		}
	}
}

// NumSquaresToEdge returns how many steps fit between sq and the board edge in dir.
func (md *MoveData) NumSquaresToEdge(sq Square, dir int) int {
	return md.numSquaresToEdge[sq][dir]
}

// KnightMoves returns the knight destinations from sq in generation order.
// The returned slice is shared and must not be modified.
func (md *MoveData) KnightMoves(sq Square) []Square {
	return md.knightMoves[sq]
}

// KingMoves returns the king destinations from sq in generation order.
// The returned slice is shared and must not be modified.
func (md *MoveData) KingMoves(sq Square) []Square {
	return md.kingMoves[sq]
}

// PawnAttackSquares returns the capture targets of a pawn of colour c on sq.
// The returned slice is shared and must not be modified.
func (md *MoveData) PawnAttackSquares(sq Square, c Color) []Square {
	return md.pawnAttacks[c.Index()][sq]
}

// PawnAttackDirections returns the two capture directions of a pawn of colour c.
func (md *MoveData) PawnAttackDirections(c Color) [2]int {
	return pawnAttackDirections[c.Index()]
}

// KingAttacks returns the squares a king on sq attacks.
func (md *MoveData) KingAttacks(sq Square) Bitboard {
	return md.kingAttacks[sq]
}

// KnightAttacks returns the squares a knight on sq attacks.
func (md *MoveData) KnightAttacks(sq Square) Bitboard {
	return md.knightAttacks[sq]
}

// PawnAttacks returns the squares a pawn of colour c on sq attacks.
func (md *MoveData) PawnAttacks(sq Square, c Color) Bitboard {
	return md.pawnAttackBB[sq][c.Index()]
}

// RookRays returns every square on the same rank or file as sq, ignoring blockers.
func (md *MoveData) RookRays(sq Square) Bitboard {
	return md.rookRays[sq]
}

// BishopRays returns every square on the diagonals through sq, ignoring blockers.
func (md *MoveData) BishopRays(sq Square) Bitboard {
	return md.bishopRays[sq]
}

// QueenRays is the union of RookRays and BishopRays.
func (md *MoveData) QueenRays(sq Square) Bitboard {
	return md.queenRays[sq]
}

// DirectionBetween returns the signed step that leads from one square towards
// the other, or 0 when the delta can never lie on a ray.
func (md *MoveData) DirectionBetween(from, to Square) int {
	return md.directionLookup[int(to)-int(from)+63]
}

// OrthogonalDistance is the number of rook moves needed to travel between a and b
// on an empty board, counted as file distance plus rank distance.
func (md *MoveData) OrthogonalDistance(a, b Square) int {
	return md.orthogonalDistance[a][b]
}

// KingDistance is the number of king moves needed to travel between a and b.
func (md *MoveData) KingDistance(a, b Square) int {
	return md.kingDistance[a][b]
}

// CentreManhattanDistance is the file plus rank distance from sq to the centre block.
func (md *MoveData) CentreManhattanDistance(sq Square) int {
	return md.centreManhattanDistance[sq]
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
