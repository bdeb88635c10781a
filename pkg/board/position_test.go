package board_test

import (
	"testing"

	"github.com/herohde/tiltak/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPosition(t *testing.T, size int) *board.Position {
	t.Helper()
	zt := board.NewZobristTable(42)
	p, err := board.NewPosition(zt, size, board.ZeroKomi)
	require.NoError(t, err)
	return p
}

func TestOpeningSwapPlyOnlyPlacesOpponentFlats(t *testing.T) {
	p := newTestPosition(t, 5)

	moves := p.GenerateMoves()
	assert.Len(t, moves, 25)
	for _, m := range moves {
		assert.Equal(t, board.PlaceKind, m.Kind)
		assert.Equal(t, board.Flat, m.Role)
	}
}

func mustSquare(t *testing.T, size int, s string) board.Square {
	t.Helper()
	sq, err := board.ParseSquare(size, s)
	require.NoError(t, err)
	return sq
}

func TestDoMoveEnforcesSwapColor(t *testing.T) {
	p := newTestPosition(t, 5)

	rm, err := p.DoMove(board.NewPlace(board.Flat, mustSquare(t, 5, "a1")))
	require.NoError(t, err)

	top, ok := p.Square(mustSquare(t, 5, "a1")).Top()
	require.True(t, ok)
	assert.Equal(t, board.Black, top.Color(), "first placement is the mover's opponent's color")

	p.UndoMove(rm)
	assert.True(t, p.IsEmpty(mustSquare(t, 5, "a1")))
}

func TestDoMoveRejectsOccupiedSquare(t *testing.T) {
	p := newTestPosition(t, 5)
	sq := mustSquare(t, 5, "c3")

	_, err := p.DoMove(board.NewPlace(board.Flat, sq))
	require.NoError(t, err)

	_, err = p.DoMove(board.NewPlace(board.Flat, sq))
	assert.Error(t, err)
}

func TestDoMoveRejectsWallOrCapDuringSwap(t *testing.T) {
	p := newTestPosition(t, 5)
	_, err := p.DoMove(board.NewPlace(board.Wall, mustSquare(t, 5, "a1")))
	assert.Error(t, err)
	_, err = p.DoMove(board.NewPlace(board.Cap, mustSquare(t, 5, "a1")))
	assert.Error(t, err)
}

func TestReverseMoveRestoresPositionBitForBit(t *testing.T) {
	p := newTestPosition(t, 5)
	initialHash := p.Hash()

	moves := []board.Move{
		board.NewPlace(board.Flat, mustSquare(t, 5, "a3")), // ply0, swap: black
		board.NewPlace(board.Flat, mustSquare(t, 5, "b3")), // ply1, swap: white
		board.NewPlace(board.Wall, mustSquare(t, 5, "c3")), // ply2, white real move
		board.NewPlace(board.Flat, mustSquare(t, 5, "d3")), // ply3, black real move
		board.NewSpread(mustSquare(t, 5, "c3"), board.East, []int{1}), // ply4: white wall spreads onto black's flat
	}

	var tokens []board.ReverseMove
	for _, m := range moves {
		rm, err := p.DoMove(m)
		require.NoError(t, err, "move %v", m.String(5))
		tokens = append(tokens, rm)
	}

	top, ok := p.Square(mustSquare(t, 5, "d3")).Top()
	require.True(t, ok)
	assert.Equal(t, board.WhiteWall, top)
	assert.True(t, p.IsEmpty(mustSquare(t, 5, "c3")))

	for i := len(tokens) - 1; i >= 0; i-- {
		p.UndoMove(tokens[i])
	}

	assert.Equal(t, initialHash, p.Hash())
	assert.Equal(t, 0, p.Ply())
	assert.Equal(t, board.White, p.Turn())
	for sq := 0; sq < 25; sq++ {
		assert.True(t, p.IsEmpty(board.Square(sq)))
	}
	stones, caps := 21, 1
	assert.Equal(t, stones, p.StonesLeft(board.White))
	assert.Equal(t, stones, p.StonesLeft(board.Black))
	assert.Equal(t, caps, p.CapsLeft(board.White))
	assert.Equal(t, caps, p.CapsLeft(board.Black))
}

func TestGameResultDetectsRoad(t *testing.T) {
	p := newTestPosition(t, 5)

	sequence := []string{
		"a3", "b3", // swap plies, irrelevant squares
		"a1", "a5", // white real #1, black real #1
		"b1", "b5", // white #2, black #2
		"c1", "c5", // white #3, black #3
		"d1", "d5", // white #4, black #4
		"e1", // white #5: completes a1-e1
	}
	for i, s := range sequence {
		role := board.Flat
		_, err := p.DoMove(board.NewPlace(role, mustSquare(t, 5, s)))
		require.NoError(t, err, "move %d (%v)", i, s)
	}

	assert.Equal(t, board.WhiteWin, p.GameResult())
}

func TestFCDForMoveNormalPlacement(t *testing.T) {
	p := newTestPosition(t, 5)
	_, err := p.DoMove(board.NewPlace(board.Flat, mustSquare(t, 5, "a3")))
	require.NoError(t, err)
	_, err = p.DoMove(board.NewPlace(board.Flat, mustSquare(t, 5, "b3")))
	require.NoError(t, err)

	// ply2: white's own real flat placement onto an empty square gains exactly 1 for white.
	fcd := p.FCDForMove(board.NewPlace(board.Flat, mustSquare(t, 5, "c1")))
	assert.Equal(t, 1, fcd)
}

func TestTopStonesLeftBehindByMovePlace(t *testing.T) {
	p := newTestPosition(t, 5)
	ret := p.TopStonesLeftBehindByMove(board.NewPlace(board.Wall, mustSquare(t, 5, "a1")))
	require.Len(t, ret, 1)
	assert.Equal(t, board.Wall, ret[0].Role())
}

func TestSpreadCannotDropOntoCapstone(t *testing.T) {
	p := newTestPosition(t, 5)
	moves := []string{"a3", "b3"} // swap plies, irrelevant squares
	for _, s := range moves {
		_, err := p.DoMove(board.NewPlace(board.Flat, mustSquare(t, 5, s)))
		require.NoError(t, err)
	}
	_, err := p.DoMove(board.NewPlace(board.Flat, mustSquare(t, 5, "b1"))) // white real #1
	require.NoError(t, err)
	_, err = p.DoMove(board.NewPlace(board.Flat, mustSquare(t, 5, "a5"))) // black real #1
	require.NoError(t, err)
	_, err = p.DoMove(board.NewPlace(board.Cap, mustSquare(t, 5, "c1"))) // white real #2
	require.NoError(t, err)
	_, err = p.DoMove(board.NewPlace(board.Flat, mustSquare(t, 5, "b5"))) // black real #2
	require.NoError(t, err)

	// white to move: b1's flat could spread east towards c1, but c1 holds a capstone.
	for _, m := range p.GenerateMoves() {
		if m.Kind == board.SpreadKind && m.Origin == mustSquare(t, 5, "b1") && m.Direction == board.East {
			t.Fatalf("spread %v illegally targets a path through a capstone", m.String(5))
		}
	}
}
