package mcts_test

import (
	"math/rand"
	"testing"

	"github.com/herohde/tiltak/pkg/board"
	"github.com/herohde/tiltak/pkg/mcts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPosition(t *testing.T, size int) *board.Position {
	t.Helper()
	zt := board.NewZobristTable(11)
	p, err := board.NewPosition(zt, size, board.ZeroKomi)
	require.NoError(t, err)
	return p
}

func TestSelectMonotonicallyIncrementsRootVisits(t *testing.T) {
	p := newTestPosition(t, 4)
	tree := mcts.NewTree(4, mcts.Settings{})

	for i := 0; i < 50; i++ {
		before := tree.Root().Visits()
		ok := tree.Select(p)
		require.True(t, ok)
		assert.Equal(t, before+1, tree.Root().Visits())
	}
}

func TestSelectLeavesPositionUnchanged(t *testing.T) {
	p := newTestPosition(t, 4)
	tree := mcts.NewTree(4, mcts.Settings{})

	before := p.Hash()
	for i := 0; i < 30; i++ {
		require.True(t, tree.Select(p))
	}
	assert.Equal(t, before, p.Hash())
	assert.Equal(t, 0, p.Ply())
}

func TestArenaCapBoundsNodeCount(t *testing.T) {
	p := newTestPosition(t, 4)
	settings := mcts.Settings{}.WithArenaSizeForNodes(100)
	tree := mcts.NewTree(4, settings)

	for i := 0; i < 100000; i++ {
		if !tree.Select(p) {
			break
		}
	}

	assert.LessOrEqual(t, tree.Len(), 101) // root + up to ~100 more, estimate is approximate

	mv, _ := tree.BestMove(0.1, rand.New(rand.NewSource(1)))
	legal := p.GenerateMoves()
	found := false
	for _, m := range legal {
		if m.Equals(mv) {
			found = true
			break
		}
	}
	assert.True(t, found, "a capped arena must still yield a legal best move")
}

func TestBestMoveReturnsALegalRootMove(t *testing.T) {
	p := newTestPosition(t, 4)
	tree := mcts.NewTree(4, mcts.Settings{})

	for i := 0; i < 200; i++ {
		require.True(t, tree.Select(p))
	}

	mv, score := tree.BestMove(0.5, rand.New(rand.NewSource(7)))
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)

	legal := p.GenerateMoves()
	found := false
	for _, m := range legal {
		if m.Equals(mv) {
			found = true
			break
		}
	}
	assert.True(t, found, "best move must be one of the position's legal moves")
}

func TestExcludeMovesRemovesRootCandidate(t *testing.T) {
	p := newTestPosition(t, 4)
	legal := p.GenerateMoves()
	require.NotEmpty(t, legal)
	excluded := legal[0]

	settings := mcts.Settings{}.WithExcludeMoves([]board.Move{excluded})
	tree := mcts.NewTree(4, settings)

	for i := 0; i < 50; i++ {
		require.True(t, tree.Select(p))
	}

	for i := 0; i < 500; i++ {
		mv, _ := tree.BestMove(1.0, rand.New(rand.NewSource(int64(i))))
		assert.False(t, mv.Equals(excluded), "excluded root move must never be returned")
	}
}

func TestPVWalkIsLegal(t *testing.T) {
	p := newTestPosition(t, 4)
	tree := mcts.NewTree(4, mcts.Settings{})

	for i := 0; i < 300; i++ {
		require.True(t, tree.Select(p))
	}

	pv := tree.PV(4)
	require.NotEmpty(t, pv)

	cur := p.Clone()
	for i, entry := range pv {
		_, err := cur.DoMove(entry.Move)
		require.NoError(t, err, "pv entry %d (%v) must be legal", i, entry.Move)
	}
}

func TestMCTSDetectsImmediateRoadWin(t *testing.T) {
	p := newTestPosition(t, 5)

	plays := []string{
		"a3", "b3", // swap plies, irrelevant squares
		"a1", "a5",
		"b1", "b5",
		"c1", "c5",
		"d1", "d5",
	}
	for i, sq := range plays {
		s, err := board.ParseSquare(5, sq)
		require.NoError(t, err)
		_, err = p.DoMove(board.NewPlace(board.Flat, s))
		require.NoError(t, err, "move %d (%s)", i, sq)
	}

	winSq, err := board.ParseSquare(5, "e1")
	require.NoError(t, err)
	winMove := board.NewPlace(board.Flat, winSq)

	mv, score := mcts.MCTS(p, 3000, mcts.Settings{})
	assert.True(t, mv.Equals(winMove), "search must find the game-ending placement")
	assert.InDelta(t, 1.0, score, 1e-6)
}

func TestShallowCloneIsIndependent(t *testing.T) {
	p := newTestPosition(t, 4)
	tree := mcts.NewTree(4, mcts.Settings{})
	for i := 0; i < 20; i++ {
		require.True(t, tree.Select(p))
	}

	snap := tree.ShallowClone(2)
	visitsAtSnapshot := snap.Root().Visits()

	for i := 0; i < 20; i++ {
		require.True(t, tree.Select(p))
	}

	assert.Equal(t, visitsAtSnapshot, snap.Root().Visits(), "a shallow clone must not observe later mutation of the original tree")
	assert.Greater(t, tree.Root().Visits(), snap.Root().Visits())
}
