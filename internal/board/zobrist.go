package board

// Zobrist keys for position hashing. A fixed-seed PRNG keeps them identical
// across runs, so keys may be persisted (the perft cache stores them).
var (
	zobristPiece      [2][8][64]uint64 // [colour index][piece type][square]
	zobristEnPassant  [8]uint64        // one per file
	zobristCastling   [16]uint64       // every combination of rights
	zobristSideToMove uint64           // mixed in when black is to move
)

func init() {
	initZobrist()
}

type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64*
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for ci := WhiteIndex; ci <= BlackIndex; ci++ {
		for _, pt := range []PieceType{King, Pawn, Knight, Bishop, Rook, Queen} {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[ci][pt][sq] = rng.next()
			}
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}

	zobristSideToMove = rng.next()
}

// ZobristPiece returns the key for piece p on sq.
func ZobristPiece(p Piece, sq Square) uint64 {
	if p == NoPiece {
		return 0
	}
	return zobristPiece[p.Color().Index()][p.Type()][sq]
}

// ZobristKey hashes the square array, side to move, castling rights and en
// passant file. Positions that differ only in counters share a key.
func (b *Board) ZobristKey() uint64 {
	var key uint64
	for sq := A1; sq <= H8; sq++ {
		key ^= ZobristPiece(b.Square[sq], sq)
	}

	if file := b.CurrentGameState.EnPassantFile(); file > 0 {
		key ^= zobristEnPassant[file-1]
	}
	key ^= zobristCastling[b.CurrentGameState.CastlingRights()]

	if !b.WhiteToMove {
		key ^= zobristSideToMove
	}
	return key
}
