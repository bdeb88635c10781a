package mcts

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/herohde/tiltak/pkg/board"
)

// BestMove samples a root move proportionally to visits^(1/temperature), short-circuiting to
// any child already proven Loss (a win for the side to move). Returns the move and its mean
// action value (a win probability for the side to move). rng may be nil, in which case a
// source freshly seeded for this call is used — *rand.Rand is not safe for concurrent use, so
// concurrent callers (e.g. parallel self-play games) must never share one.
func (t *Tree) BestMove(temperature float64, rng *rand.Rand) (board.Move, float64) {
	root := t.arena.get(t.root)
	if len(root.children) == 0 {
		panic("mcts: BestMove called on a tree with no root children")
	}

	for _, e := range root.children {
		if child := t.arena.get(e.child); child.knownResult == ResultLoss {
			return e.move, 1 - float64(child.meanActionValue)
		}
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	type candidate struct {
		move        board.Move
		actionValue float64
		cumulative  float64
	}
	candidates := make([]candidate, 0, len(root.children))
	cumulative := 0.0
	for _, e := range root.children {
		child := t.arena.get(e.child)
		cumulative += math.Pow(float64(child.visits), 1/temperature) / float64(root.visits)
		candidates = append(candidates, candidate{move: e.move, actionValue: 1 - float64(child.meanActionValue), cumulative: cumulative})
	}

	p := rng.Float64() * cumulative
	for _, c := range candidates {
		if c.cumulative > p {
			return c.move, c.actionValue
		}
	}
	last := candidates[len(candidates)-1] // floating-point rounding: fall through to the last child
	return last.move, last.actionValue
}

// PVEntry is one ply of a principal variation walk.
type PVEntry struct {
	Move  board.Move
	Value float32
}

// PV walks the tree by repeatedly choosing the most-visited child, preferring any child already
// proven Loss (an immediate win), down to maxPly plies or until a childless node is reached.
func (t *Tree) PV(maxPly int) []PVEntry {
	var ret []PVEntry
	id := t.root
	for ply := 0; ply < maxPly; ply++ {
		n := t.arena.get(id)
		if len(n.children) == 0 {
			break
		}

		bestIdx := 0
		for i, e := range n.children {
			child := t.arena.get(e.child)
			if child.knownResult == ResultLoss {
				bestIdx = i
				break
			}
			if t.arena.get(n.children[bestIdx].child).visits < child.visits {
				bestIdx = i
			}
		}

		e := n.children[bestIdx]
		child := t.arena.get(e.child)
		ret = append(ret, PVEntry{Move: e.move, Value: child.meanActionValue})
		id = e.child
	}
	return ret
}

// ShallowClone returns an independent copy of the tree down to the given depth (depth <= 1
// returns a copy with no children materialized). Used by print_info to snapshot a stable view
// for sorting/printing without holding a reference into a tree that a concurrent search might
// still be growing.
func (t *Tree) ShallowClone(depth int) *Tree {
	clone := &arena{maxBytes: t.arena.maxBytes}
	newRoot := shallowCloneNode(t.arena, t.arena.get(t.root), clone, depth)
	return &Tree{arena: clone, root: newRoot, value: t.value, policy: t.policy, settings: t.settings}
}

func shallowCloneNode(src *arena, n *node, dst *arena, depth int) NodeID {
	id := NodeID(len(dst.nodes))
	clone := &node{
		visits:           n.visits,
		totalActionValue: n.totalActionValue,
		meanActionValue:  n.meanActionValue,
		heuristicScore:   n.heuristicScore,
		knownResult:      n.knownResult,
	}
	dst.nodes = append(dst.nodes, clone)

	if depth > 1 {
		clone.children = make([]edge, len(n.children))
		for i, e := range n.children {
			childNode := src.get(e.child)
			clone.children[i] = edge{move: e.move, child: shallowCloneNode(src, childNode, dst, depth-1)}
		}
	}
	return id
}

// PrintInfo renders the top-8 root children by visits, in the teacher's engine-log style. The
// ranking runs through board.MoveList/MovePriorityFn, the same move-ordering heap used for
// root-move priority elsewhere in board, rather than a one-off sort.
func (t *Tree) PrintInfo(size int) string {
	snap := t.ShallowClone(3)
	root := snap.arena.get(snap.root)
	edges := root.children

	childOf := func(m board.Move) *node {
		for _, e := range edges {
			if e.move.Equals(m) {
				return snap.arena.get(e.child)
			}
		}
		return nil
	}

	moves := make([]board.Move, len(edges))
	for i, e := range edges {
		moves[i] = e.move
	}
	priority := func(m board.Move) board.MovePriority {
		v := childOf(m).visits
		if v > math.MaxInt16 {
			v = math.MaxInt16
		}
		return board.MovePriority(v)
	}
	ml := board.NewMoveList(moves, priority)

	visitsSqrt := float32(math.Sqrt(float64(root.visits)))

	var sb strings.Builder
	for i := 0; i < 8; i++ {
		mv, ok := ml.Next()
		if !ok {
			break
		}
		child := childOf(mv)

		reply := ""
		if len(child.children) > 0 {
			best := child.children[0]
			bestChild := snap.arena.get(best.child)
			for _, e := range child.children[1:] {
				if c := snap.arena.get(e.child); c.visits > bestChild.visits {
					best, bestChild = e, c
				}
			}
			reply = best.move.String(size)
		}
		fmt.Fprintf(&sb, "Move %v: %v visits, %.3f mean action value, %.3f static score, %.3f exploration value, best reply %v\n",
			mv.String(size), child.visits, child.meanActionValue, child.heuristicScore,
			child.explorationValue(cPUCT, visitsSqrt), reply)
	}
	return sb.String()
}
