package mcts

import (
	"math"

	"github.com/herohde/tiltak/pkg/board"
	"github.com/herohde/tiltak/pkg/eval"
)

// cPUCT is the exploration constant in the PUCT selection formula. Fixed at 1.0 (the reference
// evaluator used 3.0; the smaller value makes the prior exploration bonus decay faster relative
// to exploitation).
const cPUCT float32 = 1.0

// Tree owns one arena-backed search tree plus the evaluators used to expand new nodes.
type Tree struct {
	arena    *arena
	root     NodeID
	value    eval.ValueEvaluator
	policy   eval.PolicyEvaluator
	settings Settings
}

// NewTree builds an empty tree (a single unexpanded root) for a board of the given size.
func NewTree(size int, settings Settings) *Tree {
	ar := newArena(settings.ArenaSize)
	rootID := ar.allocRoot() // root has no incoming edge/prior, and always fits regardless of budget

	vp := settings.ValueParams
	if vp == nil {
		vp = eval.NewValueParams(size)
	}
	pp := settings.PolicyParams
	if pp == nil {
		pp = eval.NewPolicyParams(size)
	}

	return &Tree{
		arena:    ar,
		root:     rootID,
		value:    eval.ValueEvaluator{Params: vp},
		policy:   eval.PolicyEvaluator{Params: pp},
		settings: settings,
	}
}

// Root exposes the root node for inspection (Visits, MeanActionValue, and so on).
func (t *Tree) Root() *node { return t.arena.get(t.root) }

// Len returns the number of nodes currently allocated in the tree's arena.
func (t *Tree) Len() int { return t.arena.Len() }

// stepResult is what one recursive select step hands back to its caller: either a plain
// back-propagated value, or a decisive rescoring event that must itself be relayed upward (see
// spec's "Decisive(nodes, action_value, result)" back-propagation message).
type stepResult struct {
	decisive    bool
	value       float64
	nodes       uint64
	actionValue float64
	result      KnownResult
}

func valueResult(v float64) stepResult { return stepResult{value: v} }

func decisiveResult(nodes uint64, actionValue float64, result KnownResult) stepResult {
	return stepResult{decisive: true, nodes: nodes, actionValue: actionValue, result: result}
}

// negate flips a step result to the opposite side's perspective, applied once per level as the
// result is handed from a child's select call back to its parent.
func (r stepResult) negate() stepResult {
	if !r.decisive {
		return valueResult(1 - r.value)
	}
	return decisiveResult(r.nodes, r.actionValue, r.result.Opponent())
}

// Select runs one iteration of the search from the root, mutating pos via DoMove/UndoMove but
// leaving it exactly as found by the time Select returns (every DoMove on the path is undone
// before returning, win, loss, or otherwise). Returns false if the arena ran out of room to
// grow during this iteration; the tree remains fully readable either way.
func (t *Tree) Select(pos *board.Position) bool {
	_, ok := t.selectNode(t.root, pos)
	return ok
}

func (t *Tree) selectNode(id NodeID, pos *board.Position) (stepResult, bool) {
	n := t.arena.get(id)

	if n.knownResult != ResultNone {
		n.visits++
		n.totalActionValue += float64(n.meanActionValue)
		n.meanActionValue = float32(n.totalActionValue / float64(n.visits))
		return valueResult(float64(n.meanActionValue)), true
	}
	if n.visits == 0 {
		return t.expand(n, pos), true
	}
	return t.descend(id, n, pos)
}

// expand handles a node's first visit: detect a terminal position outright, otherwise fall back
// to the static value model. Children are deliberately not generated here (see descend, which
// lazily initializes them on the second visit).
func (t *Tree) expand(n *node, pos *board.Position) stepResult {
	if result := pos.GameResult(); result != board.Undecided {
		kr := knownResultFromGameResult(result, pos.Turn())
		n.knownResult = kr
		n.visits = 1
		score := kr.score()
		n.totalActionValue = score
		n.meanActionValue = float32(score)
		return valueResult(score)
	}

	p := t.value.Evaluate(pos).ForColor(pos.Turn())
	n.visits = 1
	n.totalActionValue = p
	n.meanActionValue = float32(p)
	return valueResult(p)
}

func knownResultFromGameResult(r board.Result, toMove board.Color) KnownResult {
	switch r {
	case board.Draw:
		return ResultDraw
	case board.WhiteWin:
		if toMove == board.White {
			return ResultWin
		}
		return ResultLoss
	case board.BlackWin:
		if toMove == board.Black {
			return ResultWin
		}
		return ResultLoss
	default:
		return ResultNone
	}
}

// descend is reached only for an already-expanded, non-terminal node: lazily materialize
// children on the second visit, pick one by PUCT (honoring the three proven-result overrides),
// recurse into it, and fold the (possibly decisive) result back into this node's statistics.
func (t *Tree) descend(id NodeID, n *node, pos *board.Position) (stepResult, bool) {
	if n.visits == 1 {
		if !t.initChildren(id, n, pos) {
			return stepResult{}, false
		}
	}
	if len(n.children) == 0 {
		panic("mcts: no legal moves at a non-terminal node")
	}

	visitsSqrt := float32(math.Sqrt(float64(n.visits)))

	bestIdx, immediate := -1, -1
	var bestExploration float32
	for i, e := range n.children {
		child := t.arena.get(e.child)
		if child.knownResult == ResultWin {
			continue // loss for us: never worth selecting while any alternative remains
		}
		if child.knownResult == ResultLoss {
			immediate = i // win for us: take it immediately, no further comparison needed
			break
		}
		if ev := child.explorationValue(cPUCT, visitsSqrt); bestIdx == -1 || ev >= bestExploration {
			bestIdx = i
			bestExploration = ev
		}
	}
	if immediate >= 0 {
		bestIdx = immediate
	}

	if bestIdx == -1 {
		// every child is a proven win for the child, i.e. a loss for us no matter what we play
		prevVisits, prevAV := n.visits, n.totalActionValue
		n.knownResult = ResultLoss
		n.visits = 1
		n.totalActionValue = ResultLoss.score()
		n.meanActionValue = float32(ResultLoss.score())
		return decisiveResult(prevVisits, prevAV, ResultLoss), true
	}

	e := n.children[bestIdx]

	rm, err := pos.DoMove(e.move)
	if err != nil {
		panic("mcts: generated move rejected by DoMove: " + err.Error())
	}
	res, ok := t.selectNode(e.child, pos)
	pos.UndoMove(rm)
	if !ok {
		return stepResult{}, false
	}
	res = res.negate()

	if res.decisive {
		if res.result == ResultWin {
			prevVisits, prevAV := n.visits, n.totalActionValue
			n.knownResult = ResultWin
			n.visits = 1
			n.totalActionValue = ResultWin.score()
			n.meanActionValue = float32(ResultWin.score())
			return decisiveResult(prevVisits, prevAV, ResultWin), true
		}

		fixed := res.result.score()
		n.totalActionValue = n.totalActionValue - res.actionValue + float64(res.nodes)*fixed
		n.meanActionValue = float32(n.totalActionValue / float64(n.visits))
		return decisiveResult(res.nodes, float64(res.nodes)*fixed, res.result), true
	}

	n.totalActionValue += res.value
	n.visits++
	n.meanActionValue = float32(n.totalActionValue / float64(n.visits))
	return valueResult(float64(n.meanActionValue)), true
}

// initChildren materializes one child per legal move (root moves pass through exclude_moves),
// scored by the policy evaluator. Allocating all of a node's children atomically means a node
// either gets its full move set or none of it, never a truncated one left for a later retry.
func (t *Tree) initChildren(id NodeID, n *node, pos *board.Position) bool {
	moves := pos.GenerateMoves()
	if id == t.root && len(t.settings.ExcludeMoves) > 0 {
		moves = excludeMoves(moves, t.settings.ExcludeMoves)
	}
	if len(moves) == 0 {
		panic("mcts: no legal moves at a non-terminal node")
	}

	if !t.arena.fits(len(moves)) {
		return false
	}

	priors := t.policy.Priors(pos, moves)
	n.children = make([]edge, len(moves))
	for i, mv := range moves {
		childID, ok := t.arena.alloc(float32(priors[i]))
		if !ok {
			n.children = nil
			return false
		}
		n.children[i] = edge{move: mv, child: childID}
	}
	return true
}

func excludeMoves(moves, exclude []board.Move) []board.Move {
	ret := moves[:0:0]
	for _, m := range moves {
		excluded := false
		for _, x := range exclude {
			if m.Equals(x) {
				excluded = true
				break
			}
		}
		if !excluded {
			ret = append(ret, m)
		}
	}
	return ret
}
