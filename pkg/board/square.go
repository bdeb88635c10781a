package board

import (
	"fmt"
	"sync"
)

// Square represents a square on an S×S board, ordered a1=0 .. rank-major up to S*S-1. Board
// size is a runtime parameter carried alongside the square (see Design §9 "Generic board
// size" — monomorphizing per size is not required for correctness). 6 bits suffice up to S=8.
type Square uint8

const (
	ZeroSquare Square = 0
	// MaxSize is the largest supported board size.
	MaxSize = 8
	// MaxSquares is the largest possible number of squares, S=8.
	MaxSquares = MaxSize * MaxSize
)

// NewSquare builds a square from 0-indexed file and rank on a board of the given size.
func NewSquare(size, file, rank int) Square {
	return Square(rank*size + file)
}

// File returns the 0-indexed file (a=0).
func (s Square) File(size int) int {
	return int(s) % size
}

// Rank returns the 0-indexed rank (rank 1 = 0).
func (s Square) Rank(size int) int {
	return int(s) / size
}

// ParseSquare parses algebraic square notation, e.g. "c3", for a board of the given size.
func ParseSquare(size int, str string) (Square, error) {
	runes := []rune(str)
	if len(runes) < 2 || len(runes) > 2 {
		return 0, fmt.Errorf("invalid square: %q", str)
	}
	file := int(runes[0] - 'a')
	if file < 0 || file >= size {
		return 0, fmt.Errorf("invalid file in square: %q", str)
	}
	rank := int(runes[1] - '1')
	if rank < 0 || rank >= size {
		return 0, fmt.Errorf("invalid rank in square: %q", str)
	}
	return NewSquare(size, file, rank), nil
}

func (s Square) String(size int) string {
	return fmt.Sprintf("%c%d", 'a'+rune(s.File(size)), s.Rank(size)+1)
}

// GoDirection returns the neighbor square in the given direction, if on the board.
func (s Square) GoDirection(size int, d Direction) (Square, bool) {
	file, rank := s.File(size), s.Rank(size)
	switch d {
	case North:
		rank++
	case South:
		rank--
	case East:
		file++
	case West:
		file--
	}
	if file < 0 || file >= size || rank < 0 || rank >= size {
		return 0, false
	}
	return NewSquare(size, file, rank), true
}

// JumpDirection composes n single steps in the given direction.
func (s Square) JumpDirection(size int, d Direction, n int) (Square, bool) {
	cur := s
	for i := 0; i < n; i++ {
		next, ok := cur.GoDirection(size, d)
		if !ok {
			return 0, false
		}
		cur = next
	}
	return cur, true
}

// Neighbors returns the orthogonal in-bounds neighbors of s.
func (s Square) Neighbors(size int) []Square {
	var ret []Square
	for _, d := range allDirections {
		if n, ok := s.GoDirection(size, d); ok {
			ret = append(ret, n)
		}
	}
	return ret
}

// DirectionNeighbor pairs a direction with its in-bounds neighbor, if any.
type DirectionNeighbor struct {
	Direction Direction
	Square    Square
}

// DirectionNeighbors pairs each orthogonal direction with its in-bounds neighbor.
func (s Square) DirectionNeighbors(size int) []DirectionNeighbor {
	var ret []DirectionNeighbor
	for _, d := range allDirections {
		if n, ok := s.GoDirection(size, d); ok {
			ret = append(ret, DirectionNeighbor{Direction: d, Square: n})
		}
	}
	return ret
}

// IsEdge returns true iff the square touches the given board edge.
func (s Square) IsEdge(size int, d Direction) bool {
	file, rank := s.File(size), s.Rank(size)
	switch d {
	case North:
		return rank == size-1
	case South:
		return rank == 0
	case East:
		return file == size-1
	case West:
		return file == 0
	default:
		return false
	}
}

var symmetryCache sync.Map // int(size) -> []int indexed by square

// LookupSquareSymmetries reduces sq to its representative index under the board's eight-fold
// dihedral symmetry, used for PSQT feature indexing so that symmetric positions get identical
// features.
func LookupSquareSymmetries(size int, sq Square) int {
	table := squareSymmetryTable(size)
	return table[sq]
}

// NumSquareSymmetries returns the number of distinct representative squares for the size.
func NumSquareSymmetries(size int) int {
	half := (size + 1) / 2
	return half * (half + 1) / 2
}

func squareSymmetryTable(size int) []int {
	if v, ok := symmetryCache.Load(size); ok {
		return v.([]int)
	}

	table := make([]int, size*size)
	// Canonical index of a folded (r,f) pair with r<=f, both in [0, ceil(S/2)): triangular index.
	canon := func(r, f int) int {
		if r > f {
			r, f = f, r
		}
		return f*(f+1)/2 + r
	}
	for rank := 0; rank < size; rank++ {
		for file := 0; file < size; file++ {
			r := rank
			if r >= size-r {
				r = size - 1 - r
			}
			f := file
			if f >= size-f {
				f = size - 1 - f
			}
			table[NewSquare(size, file, rank)] = canon(r, f)
		}
	}
	symmetryCache.Store(size, table)
	return table
}

// LineSymmetries returns, for each of the S ranks (equivalently files), the representative
// index of that line under the board's mirror symmetry along the rank/file axis.
func LineSymmetries(size int) []int {
	ret := make([]int, size)
	for i := 0; i < size; i++ {
		j := i
		if j >= size-j {
			j = size - 1 - j
		}
		ret[i] = j
	}
	return ret
}
