package mcts

import (
	"context"
	"time"

	"github.com/herohde/tiltak/pkg/board"
)

// timeCheckBatch is how many Select iterations run between wall-clock deadline checks, so
// PlayMoveTime doesn't pay a clock syscall on every single iteration.
const timeCheckBatch = 64

// MCTS runs up to max(nodes, 2) search iterations from pos, stopping early if the arena fills,
// and returns the resulting best move together with its win probability for the side to move.
func MCTS(pos *board.Position, nodes uint64, settings Settings) (board.Move, float64) {
	if nodes < 2 {
		nodes = 2
	}
	t := NewTree(pos.Size(), settings)
	for i := uint64(0); i < nodes; i++ {
		if !t.Select(pos) {
			break // arena exhausted; keep whatever statistics have accumulated so far
		}
	}
	return t.BestMove(temperatureGreedy, nil)
}

// temperatureGreedy is small enough that best_move effectively always picks the most-visited
// child, matching the reference engine's behavior for its non-training entry point.
const temperatureGreedy = 0.1

// PlayMoveTime runs search iterations until duration elapses or ctx is canceled (both checked
// every timeCheckBatch iterations) or the arena fills, then returns the best move found. Returns
// immediately with a legal move even if duration is shorter than a single expand pass, since the
// root is always fully expanded as a precondition of Tree.BestMove.
func PlayMoveTime(ctx context.Context, pos *board.Position, duration time.Duration, settings Settings) (board.Move, float64) {
	t := NewTree(pos.Size(), settings)
	deadline := time.Now().Add(duration)

	for {
		for i := 0; i < timeCheckBatch; i++ {
			if !t.Select(pos) {
				return t.BestMove(temperatureGreedy, nil)
			}
		}
		select {
		case <-ctx.Done():
			return t.BestMove(temperatureGreedy, nil)
		default:
		}
		if time.Now().After(deadline) {
			return t.BestMove(temperatureGreedy, nil)
		}
	}
}
