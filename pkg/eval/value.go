package eval

import (
	"math"

	"github.com/herohde/tiltak/pkg/board"
)

// Value is a win-probability estimate for White in [0, 1], produced by a linear static
// evaluator passed through a logistic: value = 1 / (1 + e^-cp). C_PUCT and everywhere else in
// the search consumes Value, not cp, directly (see pkg/mcts).
type Value float64

// WinProbability returns v as White's win probability.
func (v Value) WinProbability() float64 { return float64(v) }

// ForColor returns the win probability for c (1-v for Black).
func (v Value) ForColor(c board.Color) float64 {
	if c == board.White {
		return float64(v)
	}
	return 1 - float64(v)
}

// ValueEvaluator scores a position from White's perspective.
type ValueEvaluator struct {
	Params *ValueParams
}

// NewValueEvaluator builds an evaluator with placeholder weights for the given board size.
func NewValueEvaluator(size int) ValueEvaluator {
	return ValueEvaluator{Params: NewValueParams(size)}
}

// Evaluate returns White's win probability for p, via a logistic over a linear feature score.
func (e ValueEvaluator) Evaluate(p *board.Position) Value {
	cp := e.score(p)
	return Value(1 / (1 + math.Exp(-cp)))
}

// score computes the centipawn-like linear score (positive favors White) by mirroring the same
// per-color feature pass twice (once for White's own features, once for Black's) and returning
// the difference, exactly as the original static evaluator does.
func (e ValueEvaluator) score(p *board.Position) float64 {
	size := p.Size()
	gd := board.NewGroupData(p)

	totalPieces := 0
	for sq := 0; sq < size*size; sq++ {
		if !p.IsEmpty(board.Square(sq)) {
			totalPieces++
		}
	}

	params := e.Params

	if totalPieces == 0 {
		return float64(params.FirstPly)
	}
	if totalPieces == 1 {
		for sq := 0; sq < size*size; sq++ {
			if top, ok := p.Square(board.Square(sq)).Top(); ok {
				_ = top
				return float64(params.SecondPly[board.LookupSquareSymmetries(size, board.Square(sq))])
			}
		}
	}

	white := e.colorScore(p, gd, board.White, board.Black)
	black := e.colorScore(p, gd, board.Black, board.White)
	return white - black
}

func (e ValueEvaluator) colorScore(p *board.Position, gd *board.GroupData, us, them board.Color) float64 {
	size := p.Size()
	params := e.Params
	var score float64

	whiteFlats, blackFlats := 0, 0

	for sq := 0; sq < size*size; sq++ {
		stack := p.Square(board.Square(sq))
		top, ok := stack.Top()
		if !ok {
			continue
		}
		sym := board.LookupSquareSymmetries(size, board.Square(sq))

		switch top.Role() {
		case board.Flat:
			if top.Color() == board.White {
				whiteFlats++
			} else {
				blackFlats++
			}
			if top.Color() == us {
				score += float64(params.FlatPSQT[sym])
			}
		case board.Wall:
			if top.Color() == us {
				score += float64(params.WallPSQT[sym])
			}
		case board.Cap:
			if top.Color() == us {
				score += float64(params.CapPSQT[sym])
			}
		}

		if top.Color() == us && stack.Len() > 1 {
			// Deep-vs-shallow support/captive buckets (per stack depth relative to the carry
			// limit) are part of the original evaluator but omitted here; see DESIGN.md.
			for i := 0; i < stack.Len()-1; i++ {
				piece, _ := stack.Get(i)
				if piece.Color() == us {
					score += float64(params.SupportsPSQT[sym])
				} else {
					score -= float64(params.CaptivesPSQT[sym])
				}
			}
		}

		if top.Color() == us && stack.Len() > 1 {
			for _, n := range board.Square(sq).Neighbors(size) {
				nTop, has := p.Square(n).Top()
				if !has || top.Role() != board.Flat || nTop.Color() == us {
					continue
				}
				switch nTop.Role() {
				case board.Flat:
					score += float64(params.FlatNextToOurStack) * float64(stack.Len())
				case board.Wall:
					score += float64(params.WallNextToOurStack) * float64(stack.Len())
				case board.Cap:
					score += float64(params.CapNextToOurStack) * float64(stack.Len())
				}
			}
		}
	}

	whiteLead := whiteFlats - blackFlats
	blackLeadKomi := blackFlats - whiteFlats + int(p.Komi().HalfKomi())

	halfMoves := float64(p.Ply())
	opening := clamp01((24.0 - halfMoves) / 12.0)
	endgame := clamp01((halfMoves - 24.0) / 24.0)
	middlegame := 1 - opening - endgame

	ourLead, theirLeadKomi := whiteLead, blackLeadKomi
	if us == board.Black {
		ourLead, theirLeadKomi = blackLeadKomi, whiteLead
	}

	weUsToMove := p.Turn() == us
	leadIdx := clampIndex(ourLead+3, 0, 6)
	komiIdx := clampIndex(theirLeadKomi+3, 0, 6)
	if weUsToMove {
		score += float64(params.UsOpeningFlatstoneLead[leadIdx]) * opening
		score += float64(params.UsMiddlegameFlatstoneLead[leadIdx]) * middlegame
		score += float64(params.UsEndgameFlatstoneLead[leadIdx]) * endgame
	} else {
		score += float64(params.ThemOpeningFlatstoneLead[komiIdx]) * opening
		score += float64(params.ThemMiddlegameFlatstoneLead[komiIdx]) * middlegame
		score += float64(params.ThemEndgameFlatstoneLead[komiIdx]) * endgame
	}

	numGroups := float64(gd.NumGroups(us))
	score += float64(params.NumGroupsOpening) * numGroups * opening
	score += float64(params.NumGroupsMiddlegame) * numGroups * middlegame
	score += float64(params.NumGroupsEndgame) * numGroups * endgame

	for _, sq := range gd.CriticalSquares(p, us) {
		top, ok := p.Square(sq).Top()
		switch {
		case !ok:
			score += float64(params.CriticalSquares[0])
		case top.Color() == us && top.Role() == board.Wall:
			score += float64(params.CriticalSquares[1])
		case top.Color() == them && top.Role() == board.Flat:
			score += float64(params.CriticalSquares[2])
		default:
			score += float64(params.CriticalSquares[3])
		}
	}

	lineSym := board.LineSymmetries(size)
	for i := 0; i < size; i++ {
		for _, line := range [2]board.Bitboard{board.Rank(size, i), board.File(size, i)} {
			road := gd.RoadStones(us) & line
			idx := road.Count() + lineSym[i]*(size+1)
			switch {
			case !(gd.BlockingStones(them) & line).IsEmpty():
				score += float64(params.LineControlTheirBlocking[idx])
			case !((gd.Walls(us) | gd.Flats(them)) & line).IsEmpty():
				score += float64(params.LineControlOther[idx])
			default:
				score += float64(params.LineControlEmpty[idx])
			}
		}
	}

	numRanks, numFiles := 0, 0
	for i := 0; i < size; i++ {
		if !(gd.RoadStones(us) & board.Rank(size, i)).IsEmpty() {
			numRanks++
		}
		if !(gd.RoadStones(us) & board.File(size, i)).IsEmpty() {
			numFiles++
		}
	}
	score += float64(params.NumLinesOccupied[numRanks])
	score += float64(params.NumLinesOccupied[numFiles])

	return score
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampIndex(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
