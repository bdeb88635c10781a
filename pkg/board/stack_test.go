package board_test

import (
	"testing"

	"github.com/herohde/tiltak/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackPushTopPop(t *testing.T) {
	var s board.Stack
	assert.True(t, s.IsEmpty())

	s = s.Push(board.WhiteFlat)
	top, ok := s.Top()
	require.True(t, ok)
	assert.Equal(t, board.WhiteFlat, top)

	s = s.Push(board.BlackCap)
	top, ok = s.Top()
	require.True(t, ok)
	assert.Equal(t, board.BlackCap, top)
	assert.Equal(t, 2, s.Len())

	var piece board.Piece
	s, piece, ok = s.Pop()
	require.True(t, ok)
	assert.Equal(t, board.BlackCap, piece)
	assert.Equal(t, 1, s.Len())
}

func TestStackBuriedPieceIsAlwaysFlat(t *testing.T) {
	var s board.Stack
	s = s.Push(board.WhiteWall)
	s = s.Push(board.BlackCap) // flattens the wall

	bottom, ok := s.Get(0)
	require.True(t, ok)
	assert.Equal(t, board.White, bottom.Color())
	assert.Equal(t, board.Flat, bottom.Role(), "a buried wall reads back as a flat")
}

func TestStackCarryPreservesOrder(t *testing.T) {
	var s board.Stack
	s = s.Push(board.WhiteFlat).Push(board.BlackFlat).Push(board.WhiteCap)

	rest, carried := s.Carry(2)
	require.Len(t, carried, 2)
	assert.Equal(t, board.Flat, carried[0].Role()) // originally the buried black flat
	assert.Equal(t, board.Black, carried[0].Color())
	assert.Equal(t, board.WhiteCap, carried[1]) // original top, preserved in full
	assert.Equal(t, 1, rest.Len())

	top, _ := rest.Top()
	assert.Equal(t, board.WhiteFlat, top)
}

func TestStackPopCountOfColor(t *testing.T) {
	var s board.Stack
	s = s.Push(board.WhiteFlat).Push(board.BlackFlat).Push(board.BlackWall)
	assert.Equal(t, 1, s.PopCountOfColor(board.White))
	assert.Equal(t, 2, s.PopCountOfColor(board.Black))
}

func TestStackTopIsRoadPiece(t *testing.T) {
	var s board.Stack
	assert.False(t, s.TopIsRoadPiece())

	s = s.Push(board.WhiteWall)
	assert.False(t, s.TopIsRoadPiece())

	s = s.Push(board.BlackCap)
	assert.True(t, s.TopIsRoadPiece())
}
