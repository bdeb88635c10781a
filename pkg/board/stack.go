package board

import "math/bits"

// Stack is a tower of up to MaxSize*2+1 pieces at one square, bit-packed: a bitfield marking
// the color at each level (bottom = bit 0), a height, and the role of only the top piece —
// once a Wall or Cap is buried under another piece it is permanently flattened to a Flat for
// every purpose except who controls the square, so no role needs to be stored per level.
type Stack struct {
	colors uint64 // bit i set => piece at level i is Black
	height uint8
	top    Role
}

// MaxStackHeight is the largest height any Stack can reach for the supported board sizes.
const MaxStackHeight = 2*MaxSize + 1

// IsEmpty returns true iff the stack has no pieces.
func (s Stack) IsEmpty() bool {
	return s.height == 0
}

// Len returns the stack height.
func (s Stack) Len() int {
	return int(s.height)
}

// Top returns the top piece and true, or (NoPiece, false) if empty.
func (s Stack) Top() (Piece, bool) {
	if s.height == 0 {
		return NoPiece, false
	}
	return NewPiece(s.colorAt(int(s.height)-1), s.top), true
}

// Get returns the piece at 0-indexed level i (0 = bottom), or (NoPiece, false) if out of range.
// Every level but the top is necessarily a Flat, per the flattening rule.
func (s Stack) Get(i int) (Piece, bool) {
	if i < 0 || i >= int(s.height) {
		return NoPiece, false
	}
	role := Flat
	if i == int(s.height)-1 {
		role = s.top
	}
	return NewPiece(s.colorAt(i), role), true
}

func (s Stack) colorAt(i int) Color {
	if s.colors&(uint64(1)<<uint(i)) != 0 {
		return Black
	}
	return White
}

// Push places a piece on top of the stack, empty or not. Placements and spread drops both use
// it; Drop is the same operation.
func (s Stack) Push(p Piece) Stack {
	ret := s
	if p.Color() == Black {
		ret.colors |= uint64(1) << ret.height
	}
	ret.top = p.Role()
	ret.height++
	return ret
}

// Pop removes and returns the top piece. Used to undo a Push during ReverseMove.
func (s Stack) Pop() (Stack, Piece, bool) {
	p, ok := s.Top()
	if !ok {
		return s, NoPiece, false
	}
	ret := s
	ret.height--
	ret.colors &^= uint64(1) << ret.height
	if ret.height > 0 {
		ret.top = Flat // anything below the old top is a Flat, per the flattening rule
	} else {
		ret.top = 0
	}
	return ret, p, true
}

// Pieces returns the stack contents from bottom to top.
func (s Stack) Pieces() []Piece {
	ret := make([]Piece, s.height)
	for i := range ret {
		ret[i], _ = s.Get(i)
	}
	return ret
}

// Carry removes and returns the top k pieces, bottom to top, leaving the rest of the stack
// (with a recomputed top role, necessarily Flat unless the stack is now empty).
func (s Stack) Carry(k int) (Stack, []Piece) {
	n := s.Len()
	taken := make([]Piece, k)
	for i := 0; i < k; i++ {
		p, _ := s.Get(n - k + i)
		taken[i] = p
	}

	ret := Stack{height: s.height - uint8(k)}
	// Keep color bits for the remaining (bottom) levels.
	if ret.height > 0 {
		mask := uint64(1)<<ret.height - 1
		ret.colors = s.colors & mask
		ret.top = Flat
	}
	return ret, taken
}

// Drop appends a single piece to the top of the stack, flattening an existing top Wall if p
// is a Cap — the only legal case for dropping onto an occupied square during a spread.
func (s Stack) Drop(p Piece) Stack {
	return s.Push(p)
}

// setTopRoleUnsafe overrides the top role without changing height or color bits. Used only by
// Position.UndoMove to restore a Wall that a capstone had flattened during a spread — the one
// case where the flattening rule's "buried pieces are Flat" approximation doesn't hold going
// forward, because the piece being restored to the top was never actually buried.
func (s Stack) setTopRoleUnsafe(r Role) Stack {
	ret := s
	ret.top = r
	return ret
}

// TopIsRoadPiece reports whether the controlling piece of the stack is a Flat or Cap.
func (s Stack) TopIsRoadPiece() bool {
	return !s.IsEmpty() && s.top.IsRoadPiece()
}

// PopCountOfColor returns how many pieces in the stack belong to c.
func (s Stack) PopCountOfColor(c Color) int {
	if s.height == 0 {
		return 0
	}
	mask := uint64(1)<<s.height - 1
	blacks := bits.OnesCount64(s.colors & mask)
	if c == Black {
		return blacks
	}
	return int(s.height) - blacks
}
