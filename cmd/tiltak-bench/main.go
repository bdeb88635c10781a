// tiltak-bench runs concurrent batches of fixed-node self-play games and reports aggregate
// nodes/sec, used to gauge the impact of arena size and node budget changes across a range of
// board sizes.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/herohde/tiltak/pkg/board"
	"github.com/herohde/tiltak/pkg/mcts"
	"github.com/pkg/profile"
	"github.com/seekerror/logw"
	"golang.org/x/sync/errgroup"
)

var (
	size      = flag.Int("size", 5, "Board size")
	games     = flag.Int("games", 8, "Number of self-play games to run concurrently")
	nodes     = flag.Uint64("nodes", 5000, "Node budget per move")
	arenaSize = flag.Int("arena", 0, "Arena byte budget per search (0: unbounded)")
	cpuprof   = flag.Bool("cpuprofile", false, "Write a CPU profile of the run")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	if *cpuprof {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	start := time.Now()

	var g errgroup.Group
	plies := make([]int, *games)
	for i := 0; i < *games; i++ {
		i := i
		g.Go(func() error {
			n, err := selfplay(*size, *nodes, *arenaSize)
			plies[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logw.Exitf(ctx, "Self-play failed: %v", err)
	}

	elapsed := time.Since(start)

	var totalPlies int
	for _, n := range plies {
		totalPlies += n
	}
	totalNodes := uint64(totalPlies) * *nodes

	fmt.Printf("games=%v size=%v nodes/move=%v plies=%v elapsed=%v nps=%.0f\n",
		*games, *size, *nodes, totalPlies, elapsed, float64(totalNodes)/elapsed.Seconds())
}

func selfplay(size int, nodes uint64, arenaSize int) (int, error) {
	pos, err := board.NewPosition(board.NewZobristTable(0), size, board.ZeroKomi)
	if err != nil {
		return 0, err
	}
	settings := mcts.Settings{}.WithArenaSize(arenaSize)

	var plies int
	for pos.GameResult() == board.Undecided && plies < size*size*2 {
		mv, _ := mcts.MCTS(pos, nodes, settings)
		if _, err := pos.DoMove(mv); err != nil {
			return plies, fmt.Errorf("rejected move %v at ply %v: %w", mv.String(size), plies, err)
		}
		plies++
	}
	return plies, nil
}
