package board_test

import (
	"testing"

	"github.com/herohde/tiltak/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPartialRoad plays the two swap plies (a black flat on "a4", a white flat on "b4"), then
// places white flats at every square in squares with black filler flats on a5..d5 in between,
// and returns the resulting position with Black to move.
func buildPartialRoad(t *testing.T, squares []string) *board.Position {
	t.Helper()
	p := newTestPosition(t, 5)

	_, err := p.DoMove(board.NewPlace(board.Flat, mustSquare(t, 5, "a4"))) // ply0 swap
	require.NoError(t, err)
	_, err = p.DoMove(board.NewPlace(board.Flat, mustSquare(t, 5, "b4"))) // ply1 swap
	require.NoError(t, err)

	for i, s := range squares {
		_, err := p.DoMove(board.NewPlace(board.Flat, mustSquare(t, 5, s)))
		require.NoError(t, err)
		if i != len(squares)-1 {
			// fill in a black move so turn alternation keeps white's placements "real" moves.
			filler := []string{"a5", "b5", "c5", "d5"}[i]
			_, err := p.DoMove(board.NewPlace(board.Flat, mustSquare(t, 5, filler)))
			require.NoError(t, err)
		}
	}
	return p
}

func TestGroupDataDetectsCompletedRoad(t *testing.T) {
	p := buildPartialRoad(t, []string{"a1", "b1", "c1", "d1", "e1"})
	gd := board.NewGroupData(p)
	assert.True(t, gd.HasRoad(board.White))
	assert.False(t, gd.HasRoad(board.Black))
}

func TestGroupDataCriticalSquare(t *testing.T) {
	// four of the five road squares filled; e1 is the missing, critical square.
	p := buildPartialRoad(t, []string{"a1", "b1", "c1", "d1"})
	gd := board.NewGroupData(p)

	assert.False(t, gd.HasRoad(board.White))
	e1 := mustSquare(t, 5, "e1")
	assert.True(t, gd.IsCriticalSquare(p, board.White, e1))

	critical := gd.CriticalSquares(p, board.White)
	assert.Contains(t, critical, e1)
}

func TestGroupDataWallsNeverJoinGroup(t *testing.T) {
	p := newTestPosition(t, 5)
	_, err := p.DoMove(board.NewPlace(board.Flat, mustSquare(t, 5, "a4")))
	require.NoError(t, err)
	_, err = p.DoMove(board.NewPlace(board.Flat, mustSquare(t, 5, "b4")))
	require.NoError(t, err)
	_, err = p.DoMove(board.NewPlace(board.Wall, mustSquare(t, 5, "a1"))) // white real #1
	require.NoError(t, err)

	gd := board.NewGroupData(p)
	assert.Equal(t, 0, gd.GroupID(mustSquare(t, 5, "a1")), "a wall never belongs to a road-stone group")
	assert.True(t, gd.Walls(board.White).IsSet(mustSquare(t, 5, "a1")))
	assert.False(t, gd.RoadStones(board.White).IsSet(mustSquare(t, 5, "a1")))
}
