package board_test

import (
	"testing"

	"github.com/herohde/tiltak/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestMoveStringPlace(t *testing.T) {
	assert.Equal(t, "a1", board.NewPlace(board.Flat, board.NewSquare(5, 0, 0)).String(5))
	assert.Equal(t, "Sc3", board.NewPlace(board.Wall, board.NewSquare(5, 2, 2)).String(5))
	assert.Equal(t, "Ce5", board.NewPlace(board.Cap, board.NewSquare(5, 4, 4)).String(5))
}

func TestMoveStringSpread(t *testing.T) {
	origin := board.NewSquare(5, 0, 0)
	m := board.NewSpread(origin, board.North, []int{1, 2})
	assert.Equal(t, "3a1+12", m.String(5))

	single := board.NewSpread(origin, board.East, []int{1})
	assert.Equal(t, "a1>1", single.String(5))
}

func TestMoveTakeSumsDrops(t *testing.T) {
	m := board.NewSpread(board.ZeroSquare, board.North, []int{2, 1, 3})
	assert.Equal(t, 6, m.Take())
}

func TestMoveEquals(t *testing.T) {
	a := board.NewPlace(board.Flat, board.NewSquare(5, 1, 1))
	b := board.NewPlace(board.Flat, board.NewSquare(5, 1, 1))
	c := board.NewPlace(board.Wall, board.NewSquare(5, 1, 1))
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestPackedMoveRoundTripPlace(t *testing.T) {
	for _, role := range []board.Role{board.Flat, board.Wall, board.Cap} {
		m := board.NewPlace(role, board.NewSquare(8, 7, 6))
		packed := m.Pack()
		got := packed.Expand(8)
		assert.True(t, m.Equals(got), "role=%v", role)
	}
}

func TestPackedMoveRoundTripSpread(t *testing.T) {
	tests := []board.Move{
		board.NewSpread(board.NewSquare(8, 0, 0), board.North, []int{1}),
		board.NewSpread(board.NewSquare(8, 0, 0), board.East, []int{1, 1, 1}),
		board.NewSpread(board.NewSquare(8, 4, 4), board.South, []int{3, 2, 3}),
		board.NewSpread(board.NewSquare(8, 7, 7), board.West, []int{8}),
	}
	for _, m := range tests {
		got := m.Pack().Expand(8)
		assert.True(t, m.Equals(got), "want %v, got %v", m.String(8), got.String(8))
	}
}
