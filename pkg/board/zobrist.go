package board

import "math/rand"

// ZobristHash is an incremental position hash based on piece-squares and per-level stack
// contents, plus side to move. It lets ReverseMove be checked for bit-for-bit equality and
// gives the search a cheap position fingerprint (see spec §3 invariant 2, §8 "Reversibility").
type ZobristHash uint64

// ZobristTable is a pseudo-randomized table for computing a position hash, sized for the
// largest supported board (MaxSquares) and stack height (MaxStackHeight).
type ZobristTable struct {
	squares [MaxSquares][MaxStackHeight][NumColors][NumRoles]ZobristHash
	turn    [NumColors]ZobristHash
}

func NewZobristTable(seed int64) *ZobristTable {
	ret := &ZobristTable{}

	r := rand.New(rand.NewSource(seed))
	for sq := 0; sq < MaxSquares; sq++ {
		for level := 0; level < MaxStackHeight; level++ {
			for c := ZeroColor; c < NumColors; c++ {
				for role := ZeroRole; role < NumRoles; role++ {
					ret.squares[sq][level][c][role] = ZobristHash(r.Uint64())
				}
			}
		}
	}
	for c := ZeroColor; c < NumColors; c++ {
		ret.turn[c] = ZobristHash(r.Uint64())
	}
	return ret
}

// Hash computes the zobrist hash for the given board contents and side to move from scratch.
func (z *ZobristTable) Hash(size int, board []Stack, turn Color) ZobristHash {
	var hash ZobristHash
	for sq := 0; sq < size*size; sq++ {
		stack := board[sq]
		for level := 0; level < stack.Len(); level++ {
			p, _ := stack.Get(level)
			hash ^= z.squares[sq][level][p.Color()][p.Role()]
		}
	}
	hash ^= z.turn[turn]
	return hash
}

// TogglePiece incorporates or removes a single piece at (sq, level) into/out of a hash. Used
// incrementally by Position.DoMove/ReverseMove.
func (z *ZobristTable) TogglePiece(h ZobristHash, sq Square, level int, p Piece) ZobristHash {
	return h ^ z.squares[sq][level][p.Color()][p.Role()]
}

// ToggleTurn flips the side-to-move component of the hash.
func (z *ZobristTable) ToggleTurn(h ZobristHash, turn Color) ZobristHash {
	return h ^ z.turn[turn] ^ z.turn[turn.Opponent()]
}
