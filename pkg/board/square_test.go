package board_test

import (
	"testing"

	"github.com/herohde/tiltak/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquareRoundTrip(t *testing.T) {
	for _, s := range []string{"a1", "c3", "e5"} {
		sq, err := board.ParseSquare(5, s)
		require.NoError(t, err)
		assert.Equal(t, s, sq.String(5))
	}
}

func TestSquareParseErrors(t *testing.T) {
	_, err := board.ParseSquare(5, "f1")
	assert.Error(t, err)
	_, err = board.ParseSquare(5, "a6")
	assert.Error(t, err)
	_, err = board.ParseSquare(5, "a")
	assert.Error(t, err)
}

func TestSquareGoDirectionBounds(t *testing.T) {
	corner := board.NewSquare(5, 0, 0)
	_, ok := corner.GoDirection(5, board.South)
	assert.False(t, ok)
	_, ok = corner.GoDirection(5, board.West)
	assert.False(t, ok)

	n, ok := corner.GoDirection(5, board.North)
	require.True(t, ok)
	assert.Equal(t, board.NewSquare(5, 0, 1), n)
}

func TestSquareNeighborsCornerVsCenter(t *testing.T) {
	corner := board.NewSquare(5, 0, 0)
	assert.Len(t, corner.Neighbors(5), 2)

	center := board.NewSquare(5, 2, 2)
	assert.Len(t, center.Neighbors(5), 4)
}

func TestSquareIsEdge(t *testing.T) {
	a1 := board.NewSquare(5, 0, 0)
	assert.True(t, a1.IsEdge(5, board.South))
	assert.True(t, a1.IsEdge(5, board.West))
	assert.False(t, a1.IsEdge(5, board.North))
	assert.False(t, a1.IsEdge(5, board.East))
}

func TestLookupSquareSymmetriesIsDihedralInvariant(t *testing.T) {
	size := 5
	// a1, a5, e1, e5 are all images of each other under the board's symmetry group.
	corners := []board.Square{
		board.NewSquare(size, 0, 0),
		board.NewSquare(size, 0, 4),
		board.NewSquare(size, 4, 0),
		board.NewSquare(size, 4, 4),
	}
	want := board.LookupSquareSymmetries(size, corners[0])
	for _, c := range corners[1:] {
		assert.Equal(t, want, board.LookupSquareSymmetries(size, c))
	}

	center := board.NewSquare(size, 2, 2)
	assert.NotEqual(t, want, board.LookupSquareSymmetries(size, center))
}

func TestNumSquareSymmetriesMatchesTableCardinality(t *testing.T) {
	for size := 3; size <= 8; size++ {
		seen := map[int]bool{}
		for sq := 0; sq < size*size; sq++ {
			seen[board.LookupSquareSymmetries(size, board.Square(sq))] = true
		}
		assert.Equal(t, board.NumSquareSymmetries(size), len(seen), "size=%v", size)
	}
}
