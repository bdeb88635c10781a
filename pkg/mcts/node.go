// Package mcts implements the PUCT-style Monte Carlo tree search that drives move selection:
// lazy two-visit expansion, a linear value/policy model for leaf evaluation, and decisive
// (proven win/loss/draw) back-propagation so a forced line is recognized and never re-explored.
package mcts

import "github.com/herohde/tiltak/pkg/board"

// NodeID is an opaque index into an arena. Children hold NodeIDs, not owning references, so the
// tree can grow as a flat pool without any interior cyclic ownership (see arena.go).
type NodeID uint32

// OutOfArena is returned in place of a NodeID when the arena has no room left for another node.
const OutOfArena NodeID = ^NodeID(0)

// KnownResult is a proven terminal value from a node's own side-to-move perspective. Once set,
// it never changes (see Tree.Select's decisive back-propagation).
type KnownResult uint8

const (
	ResultNone KnownResult = iota
	ResultWin
	ResultLoss
	ResultDraw
)

// Opponent flips a proven result to the opposite side's perspective. Draw is its own opposite;
// None should never be negated (there is nothing proven yet).
func (r KnownResult) Opponent() KnownResult {
	switch r {
	case ResultWin:
		return ResultLoss
	case ResultLoss:
		return ResultWin
	default:
		return r
	}
}

// score returns the fixed action value a proven result stands for, from its own perspective.
func (r KnownResult) score() float64 {
	switch r {
	case ResultWin:
		return 1.0
	case ResultLoss:
		return 0.0
	case ResultDraw:
		return 0.5
	default:
		return 0.5
	}
}

func (r KnownResult) String() string {
	switch r {
	case ResultWin:
		return "win"
	case ResultLoss:
		return "loss"
	case ResultDraw:
		return "draw"
	default:
		return "none"
	}
}

// edge is one outgoing move from a node: the move played to reach child, and child's arena id.
// The move's prior (heuristic_score) lives on the child node itself, not on the edge, mirroring
// how a freshly created child already carries the policy evaluator's score for the move that
// produced it.
type edge struct {
	move  board.Move
	child NodeID
}

// node is one position in the search tree. Allocated once by the arena and never moved, so a
// *node obtained from Arena.get remains valid for the node's entire lifetime even as the arena
// grows (see arena.go).
type node struct {
	children []edge

	visits            uint64
	totalActionValue  float64
	meanActionValue   float32
	heuristicScore    float32
	knownResult       KnownResult
}

func newNode(heuristicScore float32) *node {
	return &node{meanActionValue: 0.5, heuristicScore: heuristicScore}
}

// explorationValue is the PUCT selection score for this node as a child, viewed from its
// parent: favor moves with a high prior that haven't been visited much yet, balanced against
// the node's own (negated, since it's the child's) mean action value.
func (n *node) explorationValue(cPUCT, parentVisitsSqrt float32) float32 {
	return (1 - n.meanActionValue) + cPUCT*n.heuristicScore*parentVisitsSqrt/float32(1+n.visits)
}

// Visits, MeanActionValue, HeuristicScore and Result expose read-only node statistics for
// callers inspecting a tree (print_info, pv, best_move) without mutating it.
func (n *node) Visits() uint64             { return n.visits }
func (n *node) MeanActionValue() float32   { return n.meanActionValue }
func (n *node) HeuristicScore() float32    { return n.heuristicScore }
func (n *node) Result() KnownResult        { return n.knownResult }
