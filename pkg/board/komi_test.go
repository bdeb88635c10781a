package board_test

import (
	"testing"

	"github.com/herohde/tiltak/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKomiFromHalfKomiRange(t *testing.T) {
	_, err := board.KomiFromHalfKomi(9)
	require.NoError(t, err)
	_, err = board.KomiFromHalfKomi(-9)
	require.NoError(t, err)
	_, err = board.KomiFromHalfKomi(10)
	assert.Error(t, err)
}

func TestKomiValueAndString(t *testing.T) {
	k, err := board.KomiFromHalfKomi(5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, k.Value())
	assert.Equal(t, "2.5", k.String())

	z, err := board.KomiFromHalfKomi(0)
	require.NoError(t, err)
	assert.Equal(t, "0", z.String())
}

func TestGameResultWithFlatCountsAppliesKomiToBlack(t *testing.T) {
	komi, err := board.KomiFromHalfKomi(5) // 2.5
	require.NoError(t, err)

	assert.Equal(t, board.BlackWin, board.GameResultWithFlatCounts(10, 8, komi)) // 8+2.5 > 10
	assert.Equal(t, board.WhiteWin, board.GameResultWithFlatCounts(12, 8, komi)) // 8+2.5 < 12

	drawKomi, err := board.KomiFromHalfKomi(2) // 1.0
	require.NoError(t, err)
	assert.Equal(t, board.Draw, board.GameResultWithFlatCounts(10, 9, drawKomi)) // 9+1.0 == 10
}
