package eval

import (
	"math"

	"github.com/herohde/tiltak/pkg/board"
)

// policyFloor is the minimum probability mass mixed back into every move's prior so that a
// policy-guided search never treats a move as literally impossible to try (see spec's
// "renormalization with a floor" for policy priors).
const policyFloor = 0.05

// PolicyEvaluator scores candidate moves at a position into a probability distribution used as
// the PUCT heuristic prior (child.heuristic_score in the search, see pkg/mcts).
type PolicyEvaluator struct {
	Params *PolicyParams
}

// NewPolicyEvaluator builds an evaluator with placeholder weights for the given board size.
func NewPolicyEvaluator(size int) PolicyEvaluator {
	return PolicyEvaluator{Params: NewPolicyParams(size)}
}

// Priors returns one probability per move in moves, summing to 1, each floored at
// policyFloor/len(moves) so the search's priors never fully exclude a legal move.
func (e PolicyEvaluator) Priors(p *board.Position, moves []board.Move) []float64 {
	if len(moves) == 0 {
		return nil
	}

	winning := make([]bool, len(moves))
	anyWinning := false
	mover := p.Turn()
	for i, m := range moves {
		rm, err := p.DoMove(m)
		if err != nil {
			continue
		}
		if p.GameResult() == board.WinFor(mover) {
			winning[i] = true
			anyWinning = true
		}
		p.UndoMove(rm)
	}

	logits := make([]float64, len(moves))
	for i, m := range moves {
		logits[i] = e.logit(p, m, winning[i], anyWinning)
	}

	probs := softmax(logits)

	n := float64(len(moves))
	for i := range probs {
		probs[i] = (1-policyFloor)*probs[i] + policyFloor/n
	}
	return probs
}

func (e PolicyEvaluator) logit(p *board.Position, m board.Move, isWinning, anyWinning bool) float64 {
	size := p.Size()
	params := e.Params
	var l float64

	gd := board.NewGroupData(p)
	mover := p.Turn()

	if m.Kind == board.PlaceKind {
		sym := board.LookupSquareSymmetries(size, m.Square)
		switch m.Role {
		case board.Flat:
			l += float64(params.PlacementPSQT[sym])
		case board.Wall:
			l += float64(params.PlacementPSQTWall[sym])
		case board.Cap:
			l += float64(params.PlacementPSQTCap[sym])
		}
		if gd.IsCriticalSquare(p, mover, m.Square) {
			l += float64(params.PlaceOnCriticalSquare)
		}
	} else {
		sym := board.LookupSquareSymmetries(size, m.Origin)
		l += float64(params.SpreadPSQT[sym])
		l += float64(params.StackMovementBase) * float64(m.Take())

		fcd := p.FCDForMove(m)
		idx := clampIndex(fcd+5, 0, len(params.MoveFlatCountLead)-1)
		l += float64(params.MoveFlatCountLead[idx])

		dest := m.Origin
		for _, d := range m.Drops {
			next, ok := dest.GoDirection(size, m.Direction)
			if !ok {
				break
			}
			dest = next
			_ = d
		}
		if destTop, ok := p.Square(dest).Top(); ok {
			switch {
			case destTop.Role() == board.Wall:
				l += float64(params.SpreadFlattensWall)
			case destTop.Color() != mover && destTop.Role() == board.Flat:
				l += float64(params.SpreadCapturesFlatstone)
			}
		}
		if gd.IsCriticalSquare(p, mover, dest) {
			l += float64(params.SpreadOntoCriticalSquare)
		}
	}

	if isWinning {
		l += float64(params.HasImmediateWin)
	} else if anyWinning {
		l += float64(params.DeclineWin)
	}
	return l
}

func softmax(logits []float64) []float64 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	sum := 0.0
	ret := make([]float64, len(logits))
	for i, v := range logits {
		ret[i] = math.Exp(v - max)
		sum += ret[i]
	}
	for i := range ret {
		ret[i] /= sum
	}
	return ret
}
