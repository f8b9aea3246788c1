package board

// maxPieceListCapacity bounds every list: two original rooks, bishops or
// knights plus eight promoted pawns.
const maxPieceListCapacity = 10

// Per-kind capacities: the most pieces of one kind a side can reach in a
// legal game.
const (
	pawnListCapacity  = 8
	queenListCapacity = 9
	minorListCapacity = 10
)

// PieceList tracks the squares holding one kind of piece for one side.
// Add, Remove and Move are O(1): an inverse square->slot map lets Remove swap
// the last entry into the freed slot. Iteration order is stable only until the
// next mutation.
//
// A PieceList is a plain value; copying it copies its contents.
type PieceList struct {
	squares  [maxPieceListCapacity]Square
	slot     [64]uint8
	count    int
	capacity int
}

func newPieceList(capacity int) PieceList {
	return PieceList{capacity: capacity}
}

// Count returns the number of pieces in the list.
func (l *PieceList) Count() int {
	return l.count
}

// Capacity returns the fixed maximum size of the list.
func (l *PieceList) Capacity() int {
	return l.capacity
}

// At returns the square stored at position i, 0 <= i < Count().
func (l *PieceList) At(i int) Square {
	return l.squares[i]
}

// Add appends sq. The list must not be full.
func (l *PieceList) Add(sq Square) {
	if l.count >= l.capacity {
		panic("board: piece list is full")
	}
	l.squares[l.count] = sq
	l.slot[sq] = uint8(l.count)
	l.count++
}

// Remove deletes sq, which must be a member, by moving the last entry into
// its slot.
func (l *PieceList) Remove(sq Square) {
	i := l.slot[sq]
	last := l.squares[l.count-1]
	l.squares[i] = last
	l.slot[last] = i
	l.count--
}

// Move relocates the entry on from to to, keeping its slot.
func (l *PieceList) Move(from, to Square) {
	i := l.slot[from]
	l.squares[i] = to
	l.slot[to] = i
}

// Squares returns a copy of the members in list order.
func (l *PieceList) Squares() []Square {
	out := make([]Square, l.count)
	copy(out, l.squares[:l.count])
	return out
}

// Contains reports whether sq is a member. Used by consistency checks.
func (l *PieceList) Contains(sq Square) bool {
	i := int(l.slot[sq])
	return i < l.count && l.squares[i] == sq
}
