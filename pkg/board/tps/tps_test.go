package tps_test

import (
	"testing"

	"github.com/herohde/tiltak/pkg/board"
	"github.com/herohde/tiltak/pkg/board/tps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []string{
		"x6/x6/x6/x6/x6/x6;1;1",
		"x2,12,x3/x6/x6/x6/x6/x6;2;2",
		"1,2,1,2,1/x5/x5/x5/x5;1;6",
		"21S,x,12,x,21/x5/x2,1C,x2/x5/x5;2;7",
	}

	zt := board.NewZobristTable(11)
	for _, tt := range tests {
		p, err := tps.Decode(zt, tt)
		require.NoError(t, err, tt)
		assert.Equal(t, tt, tps.Encode(p), "round trip of %q", tt)
	}
}

func TestDecodeWithKomi(t *testing.T) {
	zt := board.NewZobristTable(11)
	p, err := tps.Decode(zt, "x5/x5/x5/x5/x5;1;1;2.5")
	require.NoError(t, err)
	assert.Equal(t, "2.5", p.Komi().String())
	assert.Equal(t, "x5/x5/x5/x5/x5;1;1;2.5", tps.Encode(p))
}

func TestDecodeSetsTurnAndPly(t *testing.T) {
	zt := board.NewZobristTable(11)

	p, err := tps.Decode(zt, "x5/x5/x5/x5/x5;2;1")
	require.NoError(t, err)
	assert.Equal(t, board.Black, p.Turn())
	assert.Equal(t, 1, p.Ply())

	p, err = tps.Decode(zt, "x5/x5/x5/x5/x5;1;3")
	require.NoError(t, err)
	assert.Equal(t, board.White, p.Turn())
	assert.Equal(t, 4, p.Ply())
}

func TestDecodeStackTopRole(t *testing.T) {
	zt := board.NewZobristTable(11)
	p, err := tps.Decode(zt, "12C,x4/x5/x5/x5/x5;1;1")
	require.NoError(t, err)

	sq, err := board.ParseSquare(5, "a5")
	require.NoError(t, err)

	stack := p.Square(sq)
	require.Equal(t, 2, stack.Len())
	top, ok := stack.Top()
	require.True(t, ok)
	assert.Equal(t, board.Cap, top.Role())
	assert.Equal(t, board.Black, top.Color())

	bottom, ok := stack.Get(0)
	require.True(t, ok)
	assert.Equal(t, board.Flat, bottom.Role())
	assert.Equal(t, board.White, bottom.Color())
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	zt := board.NewZobristTable(11)

	tests := []string{
		"",
		"x6/x6/x6/x6/x6/x6;1",              // missing move number
		"x6/x6/x6/x6/x6;1;1",                // wrong number of rows
		"x5/x6/x6/x6/x6/x6;1;1",             // wrong number of squares in a row
		"x6/x6/x6/x6/x6/x6;3;1",             // invalid side
		"x6/x6/x6/x6/x6/x6;1;0",             // move number must be >= 1
		"13,x5/x6/x6/x6/x6/x6;1;1",          // invalid color digit
	}
	for _, tt := range tests {
		_, err := tps.Decode(zt, tt)
		assert.Error(t, err, tt)
	}
}

func TestDecodeRejectsReserveOverflow(t *testing.T) {
	zt := board.NewZobristTable(11)

	// 4x4 has no capstones in reserve, so a capstone placement must be rejected.
	_, err := tps.Decode(zt, "1C,x3/x4/x4/x4;1;1")
	require.Error(t, err)
}
