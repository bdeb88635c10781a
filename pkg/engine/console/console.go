// Package console implements a line-oriented debugging driver for the engine.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/herohde/tiltak/pkg/board"
	"github.com/herohde/tiltak/pkg/engine"
	"github.com/herohde/tiltak/pkg/eval"
	"github.com/herohde/tiltak/pkg/mcts"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "console"

// defaultSize is used by commands that accept an optional board size argument.
const defaultSize = 5

// Driver implements the line-oriented command interface: play/game [S], reset <TPS>, tps (print
// the current position), undo, print, analyze (search the current position), nodes, movetime,
// arena, halt, perft [S], bench, selfplay, params [S] and quit. Any other line is played as a
// move; an invalid one prints an error and reading continues.
type Driver struct {
	iox.AsyncCloser

	e *engine.Engine

	out chan<- string

	active atomic.Bool // user is waiting for the engine to move
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		out:         out,
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())
	d.printPosition(ctx)

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Fields(line)
			if len(parts) == 0 {
				continue
			}
			cmd, args := strings.ToLower(parts[0]), parts[1:]

			switch cmd {
			case "play", "game":
				d.ensureInactive(ctx)

				size := argSize(args, defaultSize)
				if err := d.e.NewGame(ctx, size, board.ZeroKomi); err != nil {
					d.out <- fmt.Sprintf("error: %v", err)
					break
				}
				d.printPosition(ctx)

			case "reset", "r":
				d.ensureInactive(ctx)

				if len(args) == 0 {
					d.out <- "error: reset requires a TPS string"
					break
				}
				if err := d.e.Reset(ctx, strings.Join(args, ";")); err != nil {
					d.out <- fmt.Sprintf("error: %v", err)
					break
				}
				d.printPosition(ctx)

			case "tps":
				size := argSize(args, defaultSize)
				d.out <- fmt.Sprintf("size %v position: %v", size, d.e.Position())

			case "undo", "u":
				d.ensureInactive(ctx)

				if err := d.e.TakeBack(ctx); err != nil {
					d.out <- fmt.Sprintf("error: %v", err)
					break
				}
				d.printPosition(ctx)

			case "print", "p":
				d.printPosition(ctx)

			case "analyze", "a":
				d.ensureInactive(ctx)

				out, err := d.e.Analyze(ctx)
				if err != nil {
					d.out <- fmt.Sprintf("error: %v", err)
					break
				}
				d.active.Store(true)

				go func() {
					for info := range out {
						d.out <- info
					}
					d.searchCompleted(ctx)
				}()

			case "nodes":
				if len(args) > 0 {
					n, _ := strconv.ParseUint(args[0], 10, 64)
					d.e.SetNodes(n)
				}

			case "movetime": // seconds
				if len(args) > 0 {
					sec, _ := strconv.ParseFloat(args[0], 64)
					d.e.SetTime(time.Duration(sec * float64(time.Second)))
				}

			case "arena": // bytes
				if len(args) > 0 {
					n, _ := strconv.Atoi(args[0])
					d.e.SetArenaSize(n)
				}

			case "halt", "stop":
				if _, _, err := d.e.Halt(ctx); err != nil {
					d.searchCompleted(ctx)
				}

			case "perft":
				size := argSize(args, defaultSize)
				d.runPerft(size)

			case "bench":
				d.runBench()

			case "selfplay":
				d.ensureInactive(ctx)
				d.runSelfplay(ctx)

			case "params":
				size := argSize(args, defaultSize)
				d.out <- eval.NewValueParams(size).String()
				d.out <- eval.NewPolicyParams(size).String()

			case "quit", "exit", "q":
				d.ensureInactive(ctx)
				return

			default:
				// Assume move text if not a recognized command.

				d.ensureInactive(ctx)
				if err := d.e.Move(ctx, parts[0]); err != nil {
					d.out <- fmt.Sprintf("invalid move: %v", err)
				} else {
					d.printPosition(ctx)
				}
			}

		case <-d.Closed():
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func argSize(args []string, fallback int) int {
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			return n
		}
	}
	return fallback
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context) {
	if !d.active.CompareAndSwap(true, false) {
		return // stale or duplicate completion
	}

	mv, value, err := d.e.Halt(ctx)
	if err != nil {
		return
	}
	d.out <- fmt.Sprintf("bestmove %v (value %.3f)", mv.String(d.e.Board().Size()), value)
}

func (d *Driver) printPosition(ctx context.Context) {
	b := d.e.Board()

	d.out <- ""
	d.out <- b.String()
	d.out <- ""
	d.out <- fmt.Sprintf("tps:    %v", d.e.Position())
	d.out <- fmt.Sprintf("result: %v, ply: %v, hash: 0x%x", b.GameResult(), b.Ply(), b.Hash())
	d.out <- ""
}

func (d *Driver) runPerft(size int) {
	pos, err := board.NewPosition(board.NewZobristTable(11), size, board.ZeroKomi)
	if err != nil {
		d.out <- fmt.Sprintf("error: %v", err)
		return
	}

	for depth := 0; depth <= 3; depth++ {
		start := time.Now()
		count := perft(pos, depth)
		elapsed := time.Since(start)
		mnps := float64(count) / elapsed.Seconds() / 1e6
		d.out <- fmt.Sprintf("%v: %v, %.2fs, %.1f Mnps", depth, count, elapsed.Seconds(), mnps)
	}
}

// perft counts leaf positions reached by depth plies of legal play via naive do/undo, the
// direct move-generation-parity check named in the testable properties.
func perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var count uint64
	for _, m := range pos.GenerateMoves() {
		rm, err := pos.DoMove(m)
		if err != nil {
			panic("perft: generated move rejected by DoMove: " + err.Error())
		}
		count += perft(pos, depth-1)
		pos.UndoMove(rm)
	}
	return count
}

func (d *Driver) runBench() {
	pos, err := board.NewPosition(board.NewZobristTable(11), defaultSize, board.ZeroKomi)
	if err != nil {
		d.out <- fmt.Sprintf("error: %v", err)
		return
	}

	const nodes = 50000
	start := time.Now()
	mv, value := mcts.MCTS(pos, nodes, mcts.Settings{})
	elapsed := time.Since(start)

	d.out <- fmt.Sprintf("bench: %v nodes in %.2fs (%.0f nps), best move %v (value %.3f)",
		nodes, elapsed.Seconds(), float64(nodes)/elapsed.Seconds(), mv.String(defaultSize), value)
}

func (d *Driver) runSelfplay(ctx context.Context) {
	if err := d.e.NewGame(ctx, defaultSize, board.ZeroKomi); err != nil {
		d.out <- fmt.Sprintf("error: %v", err)
		return
	}
	d.e.SetNodes(2000)

	for ply := 0; ply < defaultSize*defaultSize*2; ply++ {
		if d.e.Result() != board.Undecided {
			break
		}
		mv, value, err := d.e.BestMove(ctx)
		if err != nil {
			d.out <- fmt.Sprintf("error: %v", err)
			return
		}
		size := d.e.Board().Size()
		if err := d.e.Move(ctx, mv.String(size)); err != nil {
			d.out <- fmt.Sprintf("error applying selfplay move: %v", err)
			return
		}
		d.out <- fmt.Sprintf("%v. %v (value %.3f)", ply+1, mv.String(size), value)
	}
	d.out <- fmt.Sprintf("result: %v", d.e.Result())
}
