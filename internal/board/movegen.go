package board

import "fmt"

// PromotionMode selects which promotion pieces the generator emits.
type PromotionMode uint8

const (
	PromoteAll PromotionMode = iota
	PromoteQueenOnly
	PromoteQueenAndKnight
)

func (m PromotionMode) String() string {
	switch m {
	case PromoteAll:
		return "all"
	case PromoteQueenOnly:
		return "queen"
	case PromoteQueenAndKnight:
		return "queen-knight"
	}
	return fmt.Sprintf("PromotionMode(%d)", uint8(m))
}

// ParsePromotionMode parses the names returned by PromotionMode.String.
func ParsePromotionMode(s string) (PromotionMode, error) {
	switch s {
	case "all", "":
		return PromoteAll, nil
	case "queen":
		return PromoteQueenOnly, nil
	case "queen-knight":
		return PromoteQueenAndKnight, nil
	}
	return PromoteAll, fmt.Errorf("unknown promotion mode %q", s)
}

// MoveGenerator produces the legal moves of a position directly, without
// making a move and testing for check. Before generating it scans the rays
// out of the friendly king to find pins and checks, and builds the map of
// squares the opponent attacks.
//
// A MoveGenerator may be reused across positions but not shared between
// goroutines. The attack data of the last call stays readable through InCheck,
// OpponentAttackMap and friends until the next call.
type MoveGenerator struct {
	Promotions PromotionMode

	moves []Move
	b     *Board

	friendlyColor      Color
	opponentColor      Color
	friendlyKingSquare Square
	friendlyIndex      int
	opponentIndex      int

	inCheck       bool
	inDoubleCheck bool
	pinsExist     bool
	checkRayMask  Bitboard
	pinRayMask    Bitboard

	opponentKnightAttacks    Bitboard
	opponentSlidingAttackMap Bitboard
	opponentAttackMapNoPawns Bitboard
	opponentPawnAttackMap    Bitboard
	opponentAttackMap        Bitboard

	genQuiets bool
}

// NewMoveGenerator returns a generator that emits every promotion piece.
func NewMoveGenerator() *MoveGenerator {
	return &MoveGenerator{}
}

// GenerateMoves returns the legal moves for the side to move. With
// includeQuiets false only captures are produced, except that king moves
// onto empty squares are also dropped and castling never appears. The board
// is restored to its original state before returning.
//
// Moves come out grouped: king moves (castling directly after the step it
// passes through), then rooks, bishops, queens, knights and pawns.
func (g *MoveGenerator) GenerateMoves(b *Board, includeQuiets bool) []Move {
	g.b = b
	g.genQuiets = includeQuiets
	g.init()

	g.calculateAttackData()
	g.generateKingMoves()

	// Only the king can answer a double check.
	if g.inDoubleCheck {
		return g.moves
	}

	g.generateSlidingMoves()
	g.generateKnightMoves()
	g.generatePawnMoves()

	return g.moves
}

// InCheck reports whether the side to move was in check at the last call.
func (g *MoveGenerator) InCheck() bool {
	return g.inCheck
}

// InDoubleCheck reports whether two pieces were giving check at the last call.
// It can only become true once InCheck is.
func (g *MoveGenerator) InDoubleCheck() bool {
	return g.inDoubleCheck
}

// OpponentAttackMap returns every square the opponent attacked at the last
// call. Sliding attacks are traced through the friendly king.
func (g *MoveGenerator) OpponentAttackMap() Bitboard {
	return g.opponentAttackMap
}

// OpponentPawnAttackMap returns the squares attacked by opponent pawns.
func (g *MoveGenerator) OpponentPawnAttackMap() Bitboard {
	return g.opponentPawnAttackMap
}

func (g *MoveGenerator) init() {
	g.moves = make([]Move, 0, 64)
	g.inCheck = false
	g.inDoubleCheck = false
	g.pinsExist = false
	g.checkRayMask = 0
	g.pinRayMask = 0

	g.friendlyColor = g.b.ColorToMove
	g.opponentColor = g.b.OpponentColor
	g.friendlyIndex = g.b.ColorToMoveIndex
	g.opponentIndex = 1 - g.friendlyIndex
	g.friendlyKingSquare = g.b.KingSquare[g.friendlyIndex]
}

func (g *MoveGenerator) generateKingMoves() {
	b := g.b
	king := g.friendlyKingSquare

	for _, to := range moveData.kingMoves[king] {
		target := b.Square[to]
		if target.IsColor(g.friendlyColor) {
			continue
		}

		isCapture := target.IsColor(g.opponentColor)
		if !isCapture {
			// A quiet step along the check ray keeps the king on the
			// checker's line.
			if !g.genQuiets || g.squareIsInCheckRay(to) {
				continue
			}
		}

		if g.squareIsAttacked(to) {
			continue
		}
		g.moves = append(g.moves, NewMove(king, to))

		// Castling is only considered after a legal quiet step onto the
		// square the king passes through.
		if g.inCheck || isCapture {
			continue
		}
		castling := b.CurrentGameState.CastlingRights()
		switch {
		case (to == F1 || to == F8) && castling&Kingside(g.friendlyColor) != 0:
			kingsideTarget := to + 1
			if b.Square[kingsideTarget] == NoPiece && !g.squareIsAttacked(kingsideTarget) {
				g.moves = append(g.moves, NewMoveWithFlag(king, kingsideTarget, FlagCastling))
			}
		case (to == D1 || to == D8) && castling&Queenside(g.friendlyColor) != 0:
			queensideTarget := to - 1
			if b.Square[queensideTarget] == NoPiece && b.Square[queensideTarget-1] == NoPiece &&
				!g.squareIsAttacked(queensideTarget) {
				g.moves = append(g.moves, NewMoveWithFlag(king, queensideTarget, FlagCastling))
			}
		}
	}
}

func (g *MoveGenerator) generateSlidingMoves() {
	b := g.b
	rooks := &b.Rooks[g.friendlyIndex]
	for i := 0; i < rooks.Count(); i++ {
		g.generateSlidingPieceMoves(rooks.At(i), North, NorthWest)
	}

	bishops := &b.Bishops[g.friendlyIndex]
	for i := 0; i < bishops.Count(); i++ {
		g.generateSlidingPieceMoves(bishops.At(i), NorthWest, directionCount)
	}

	queens := &b.Queens[g.friendlyIndex]
	for i := 0; i < queens.Count(); i++ {
		g.generateSlidingPieceMoves(queens.At(i), North, directionCount)
	}
}

// generateSlidingPieceMoves walks directions [startDir, endDir) from start.
func (g *MoveGenerator) generateSlidingPieceMoves(start Square, startDir, endDir int) {
	b := g.b
	isPinned := g.isPinned(start)

	// A pinned piece can never block or capture a checker: its pin line and
	// the check ray only meet at the king.
	if g.inCheck && isPinned {
		return
	}

	for dir := startDir; dir < endDir; dir++ {
		offset := DirectionOffsets[dir]

		if isPinned && !isMovingAlongRay(offset, g.friendlyKingSquare, start) {
			continue
		}

		for n := 1; n <= moveData.numSquaresToEdge[start][dir]; n++ {
			to := start.offset(offset * n)
			target := b.Square[to]

			if target.IsColor(g.friendlyColor) {
				break
			}
			isCapture := target != NoPiece

			preventsCheck := g.squareIsInCheckRay(to)
			if (preventsCheck || !g.inCheck) && (g.genQuiets || isCapture) {
				g.moves = append(g.moves, NewMove(start, to))
			}

			if isCapture || preventsCheck {
				break
			}
		}
	}
}

func (g *MoveGenerator) generateKnightMoves() {
	b := g.b
	knights := &b.Knights[g.friendlyIndex]

	for i := 0; i < knights.Count(); i++ {
		start := knights.At(i)

		// A pinned knight always leaves its pin line.
		if g.isPinned(start) {
			continue
		}

		for _, to := range moveData.knightMoves[start] {
			target := b.Square[to]
			isCapture := target.IsColor(g.opponentColor)
			if !g.genQuiets && !isCapture {
				continue
			}
			if target.IsColor(g.friendlyColor) || (g.inCheck && !g.squareIsInCheckRay(to)) {
				continue
			}
			g.moves = append(g.moves, NewMove(start, to))
		}
	}
}

func (g *MoveGenerator) generatePawnMoves() {
	b := g.b
	pawns := &b.Pawns[g.friendlyIndex]

	pushOffset, startRank, promotionRank := 8, 1, 6
	if !b.WhiteToMove {
		pushOffset, startRank, promotionRank = -8, 6, 1
	}
	epSquare := b.EnPassantSquare()

	for i := 0; i < pawns.Count(); i++ {
		start := pawns.At(i)
		rank := start.Rank()
		oneStepFromPromotion := rank == promotionRank
		pinned := g.isPinned(start)

		if g.genQuiets {
			oneForward := start.offset(pushOffset)

			if b.Square[oneForward] == NoPiece && (!pinned || isMovingAlongRay(pushOffset, start, g.friendlyKingSquare)) {
				if !g.inCheck || g.squareIsInCheckRay(oneForward) {
					if oneStepFromPromotion {
						g.addPromotions(start, oneForward)
					} else {
						g.moves = append(g.moves, NewMove(start, oneForward))
					}
				}

				if rank == startRank {
					twoForward := oneForward.offset(pushOffset)
					if b.Square[twoForward] == NoPiece && (!g.inCheck || g.squareIsInCheckRay(twoForward)) {
						g.moves = append(g.moves, NewMoveWithFlag(start, twoForward, FlagPawnTwoForward))
					}
				}
			}
		}

		for _, dir := range pawnAttackDirections[g.friendlyIndex] {
			if moveData.numSquaresToEdge[start][dir] == 0 {
				continue
			}
			captureOffset := DirectionOffsets[dir]
			to := start.offset(captureOffset)
			target := b.Square[to]

			if pinned && !isMovingAlongRay(captureOffset, g.friendlyKingSquare, start) {
				continue
			}

			if target.IsColor(g.opponentColor) && (!g.inCheck || g.squareIsInCheckRay(to)) {
				if oneStepFromPromotion {
					g.addPromotions(start, to)
				} else {
					g.moves = append(g.moves, NewMove(start, to))
				}
			}

			if to == epSquare {
				captured := epCapturedSquare(to, g.friendlyColor)
				if !g.inCheckAfterEnPassant(start, to, captured) {
					g.moves = append(g.moves, NewMoveWithFlag(start, to, FlagEnPassantCapture))
				}
			}
		}
	}
}

func (g *MoveGenerator) addPromotions(from, to Square) {
	g.moves = append(g.moves, NewMoveWithFlag(from, to, FlagPromoteToQueen))
	switch g.Promotions {
	case PromoteAll:
		g.moves = append(g.moves,
			NewMoveWithFlag(from, to, FlagPromoteToKnight),
			NewMoveWithFlag(from, to, FlagPromoteToRook),
			NewMoveWithFlag(from, to, FlagPromoteToBishop),
		)
	case PromoteQueenAndKnight:
		g.moves = append(g.moves, NewMoveWithFlag(from, to, FlagPromoteToKnight))
	}
}

// isMovingAlongRay reports whether the line from start to target runs along
// rayDir in either sense.
func isMovingAlongRay(rayDir int, start, target Square) bool {
	moveDir := moveData.DirectionBetween(start, target)
	return rayDir == moveDir || -rayDir == moveDir
}

func (g *MoveGenerator) isPinned(sq Square) bool {
	return g.pinsExist && g.pinRayMask.Contains(sq)
}

func (g *MoveGenerator) squareIsInCheckRay(sq Square) bool {
	return g.inCheck && g.checkRayMask.Contains(sq)
}

func (g *MoveGenerator) squareIsAttacked(sq Square) bool {
	return g.opponentAttackMap.Contains(sq)
}

func (g *MoveGenerator) genSlidingAttackMap() {
	b := g.b
	g.opponentSlidingAttackMap = 0

	rooks := &b.Rooks[g.opponentIndex]
	for i := 0; i < rooks.Count(); i++ {
		g.updateSlidingAttackPiece(rooks.At(i), North, NorthWest)
	}

	queens := &b.Queens[g.opponentIndex]
	for i := 0; i < queens.Count(); i++ {
		g.updateSlidingAttackPiece(queens.At(i), North, directionCount)
	}

	bishops := &b.Bishops[g.opponentIndex]
	for i := 0; i < bishops.Count(); i++ {
		g.updateSlidingAttackPiece(bishops.At(i), NorthWest, directionCount)
	}
}

// updateSlidingAttackPiece adds the squares a slider on start attacks. Rays
// pass through the friendly king so that the king cannot step back along the
// line it is checked on.
func (g *MoveGenerator) updateSlidingAttackPiece(start Square, startDir, endDir int) {
	b := g.b
	for dir := startDir; dir < endDir; dir++ {
		offset := DirectionOffsets[dir]
		for n := 1; n <= moveData.numSquaresToEdge[start][dir]; n++ {
			to := start.offset(offset * n)
			g.opponentSlidingAttackMap |= SquareBB(to)
			if to != g.friendlyKingSquare && b.Square[to] != NoPiece {
				break
			}
		}
	}
}

func (g *MoveGenerator) calculateAttackData() {
	b := g.b
	g.genSlidingAttackMap()

	// Without an enemy queen only the directions that enemy rooks or bishops
	// use can hold a pin or a check.
	startDir, endDir := North, directionCount
	if b.Queens[g.opponentIndex].Count() == 0 {
		if b.Rooks[g.opponentIndex].Count() == 0 {
			startDir = NorthWest
		}
		if b.Bishops[g.opponentIndex].Count() == 0 {
			endDir = NorthWest
		}
	}

	king := g.friendlyKingSquare
	for dir := startDir; dir < endDir; dir++ {
		isDiagonal := dir >= NorthWest
		offset := DirectionOffsets[dir]
		friendlyAlongRay := false
		var rayMask Bitboard

		for n := 1; n <= moveData.numSquaresToEdge[king][dir]; n++ {
			sq := king.offset(offset * n)
			rayMask |= SquareBB(sq)
			piece := b.Square[sq]
			if piece == NoPiece {
				continue
			}

			if piece.IsColor(g.friendlyColor) {
				if friendlyAlongRay {
					// Two friendly pieces: neither is pinned.
					break
				}
				friendlyAlongRay = true
				continue
			}

			if isDiagonal && piece.IsBishopOrQueen() || !isDiagonal && piece.IsRookOrQueen() {
				if friendlyAlongRay {
					g.pinsExist = true
					g.pinRayMask |= rayMask
				} else {
					g.checkRayMask |= rayMask
					g.inDoubleCheck = g.inCheck
					g.inCheck = true
				}
			}
			break
		}

		if g.inDoubleCheck {
			break
		}
	}

	knights := &b.Knights[g.opponentIndex]
	g.opponentKnightAttacks = 0
	knightCheck := false
	for i := 0; i < knights.Count(); i++ {
		start := knights.At(i)
		g.opponentKnightAttacks |= moveData.knightAttacks[start]

		if !knightCheck && g.opponentKnightAttacks.Contains(king) {
			knightCheck = true
			g.inDoubleCheck = g.inCheck
			g.inCheck = true
			g.checkRayMask |= SquareBB(start)
		}
	}

	pawns := &b.Pawns[g.opponentIndex]
	g.opponentPawnAttackMap = 0
	pawnCheck := false
	for i := 0; i < pawns.Count(); i++ {
		start := pawns.At(i)
		attacks := moveData.pawnAttackBB[start][g.opponentIndex]
		g.opponentPawnAttackMap |= attacks

		if !pawnCheck && attacks.Contains(king) {
			pawnCheck = true
			g.inDoubleCheck = g.inCheck
			g.inCheck = true
			g.checkRayMask |= SquareBB(start)
		}
	}

	enemyKing := b.KingSquare[g.opponentIndex]
	g.opponentAttackMapNoPawns = g.opponentSlidingAttackMap | g.opponentKnightAttacks | moveData.kingAttacks[enemyKing]
	g.opponentAttackMap = g.opponentAttackMapNoPawns | g.opponentPawnAttackMap
}

// inCheckAfterEnPassant plays the capture on the square array, tests the
// king, and puts the three squares back.
func (g *MoveGenerator) inCheckAfterEnPassant(start, target, captured Square) bool {
	b := g.b
	savedStart, savedTarget, savedCaptured := b.Square[start], b.Square[target], b.Square[captured]
	b.Square[target] = savedStart
	b.Square[start] = NoPiece
	b.Square[captured] = NoPiece
	defer func() {
		b.Square[target] = savedTarget
		b.Square[start] = savedStart
		b.Square[captured] = savedCaptured
	}()

	return g.squareAttackedAfterEPCapture(captured)
}

// squareAttackedAfterEPCapture tests the friendly king once the en passant
// capture has been played on the square array. Removing two pawns from one
// rank can only open a horizontal line; a diagonal exposure through the
// captured pawn is impossible in a legal position.
func (g *MoveGenerator) squareAttackedAfterEPCapture(captured Square) bool {
	b := g.b
	king := g.friendlyKingSquare

	if g.opponentAttackMapNoPawns.Contains(king) {
		return true
	}

	dir := East
	if captured < king {
		dir = West
	}
	for n := 1; n <= moveData.numSquaresToEdge[king][dir]; n++ {
		piece := b.Square[king.offset(DirectionOffsets[dir]*n)]
		if piece == NoPiece {
			continue
		}
		if !piece.IsColor(g.friendlyColor) && piece.IsRookOrQueen() {
			return true
		}
		break
	}

	for _, dir := range pawnAttackDirections[g.friendlyIndex] {
		if moveData.numSquaresToEdge[king][dir] == 0 {
			continue
		}
		if b.Square[king.offset(DirectionOffsets[dir])] == NewPiece(Pawn, g.opponentColor) {
			return true
		}
	}

	return false
}

// LegalMoves returns every legal move in the position, promoting to all four
// pieces.
func (b *Board) LegalMoves() []Move {
	return NewMoveGenerator().GenerateMoves(b, true)
}

// InCheck reports whether the side to move is in check.
func (b *Board) InCheck() bool {
	gen := NewMoveGenerator()
	gen.GenerateMoves(b, false)
	return gen.InCheck()
}
