package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/herohde/tiltak/pkg/board"
	"github.com/herohde/tiltak/pkg/board/tps"
	"github.com/herohde/tiltak/pkg/mcts"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 89, 3)

// Options are default search parameters, overridden per call by explicit arguments where the
// driver provides them.
type Options struct {
	// Nodes is the default node budget for a search. Zero means no node limit (time governs
	// instead).
	Nodes uint64
	// Time is the default wall-clock budget for a search. Zero means no time limit (nodes
	// governs instead). If both are zero, Analyze runs until explicitly halted.
	Time time.Duration
	// ArenaSize bounds the tree's node pool in bytes. Zero means unbounded.
	ArenaSize int
}

func (o Options) String() string {
	return fmt.Sprintf("{nodes=%v, time=%v, arena=%v}", o.Nodes, o.Time, o.ArenaSize)
}

// Engine encapsulates game-playing logic: the current position, move history for takeback,
// and MCTS-backed search.
type Engine struct {
	name, author string

	zt   *board.ZobristTable
	seed int64
	opts Options

	mu     sync.Mutex
	pos    *board.Position
	undo   []board.ReverseMove
	active *search
}

// search tracks one in-flight Analyze call.
type search struct {
	cancel context.CancelFunc
	done   <-chan struct{}
	result func() (board.Move, float64)
}

// Option is an engine creation option.
type Option func(*Engine)

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithZobrist configures the engine to use the given random seed instead of the default seed
// of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// New creates an engine starting from the standard size-5 opening position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{name: name, author: author}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)

	if err := e.NewGame(ctx, 5, board.ZeroKomi); err != nil {
		panic("engine: failed to set up initial position: " + err.Error())
	}

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetNodes(nodes uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Nodes = nodes
}

func (e *Engine) SetTime(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Time = d
}

func (e *Engine) SetArenaSize(bytes int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.ArenaSize = bytes
}

// Position returns the current position in TPS format.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return tps.Encode(e.pos)
}

// Board returns a forked position, safe for the caller to mutate.
func (e *Engine) Board() *board.Position {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.pos.Clone()
}

// NewGame resets the engine to the empty starting position for the given size and komi.
func (e *Engine) NewGame(ctx context.Context, size int, komi board.Komi) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltActiveLocked(ctx)

	pos, err := board.NewPosition(e.zt, size, komi)
	if err != nil {
		return err
	}
	e.pos = pos
	e.undo = nil

	logw.Infof(ctx, "New game: size=%v, komi=%v", size, komi)
	return nil
}

// Reset resets the engine to the position described by a TPS string.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltActiveLocked(ctx)

	pos, err := tps.Decode(e.zt, position)
	if err != nil {
		return err
	}
	e.pos = pos
	e.undo = nil

	logw.Infof(ctx, "Reset: %v", position)
	return nil
}

// Move applies a move given in move text (e.g. "a3", "Sa3", "Ca3", "3a1>111").
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	candidate, err := board.ParseMove(e.pos.Size(), move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	e.haltActiveLocked(ctx)

	legal := false
	for _, m := range e.pos.GenerateMoves() {
		if candidate.Equals(m) {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("illegal move: %v", candidate.String(e.pos.Size()))
	}

	rm, err := e.pos.DoMove(candidate)
	if err != nil {
		return fmt.Errorf("illegal move: %w", err)
	}
	e.undo = append(e.undo, rm)

	logw.Infof(ctx, "Move %v", candidate.String(e.pos.Size()))
	return nil
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltActiveLocked(ctx)

	if len(e.undo) == 0 {
		return fmt.Errorf("no move to take back")
	}
	rm := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.pos.UndoMove(rm)

	logw.Infof(ctx, "Takeback")
	return nil
}

// Result returns the game result, if decided.
func (e *Engine) Result() board.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.pos.GameResult()
}

// Analyze launches a search in the background and returns a channel of periodic progress
// reports (see mcts.Tree.PrintInfo), closed once the search budget (nodes or time, per the
// engine's Options) is exhausted or Halt is called.
func (e *Engine) Analyze(ctx context.Context) (<-chan string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}
	if e.pos.GameResult() != board.Undecided {
		return nil, fmt.Errorf("analyze: position is terminal")
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", tps.Encode(e.pos), e.opts)

	sctx, cancel := context.WithCancel(ctx)
	pos := e.pos.Clone()
	settings := mcts.Settings{}.WithArenaSize(e.opts.ArenaSize)
	tree := mcts.NewTree(pos.Size(), settings)

	out := make(chan string, 8)
	done := make(chan struct{})
	var finalMove board.Move
	var finalValue float64

	go func() {
		defer close(out)
		defer close(done)

		deadline := time.Time{}
		if e.opts.Time > 0 {
			deadline = time.Now().Add(e.opts.Time)
		}

		var n uint64
		for {
			select {
			case <-sctx.Done():
				finalMove, finalValue = tree.BestMove(0.1, nil)
				return
			default:
			}
			if !tree.Select(pos) {
				break
			}
			n++
			if e.opts.Nodes > 0 && n >= e.opts.Nodes {
				break
			}
			if !deadline.IsZero() && n%64 == 0 && time.Now().After(deadline) {
				break
			}
			if n%1000 == 0 {
				select {
				case out <- tree.PrintInfo(pos.Size()):
				default:
				}
			}
		}
		finalMove, finalValue = tree.BestMove(0.1, nil)
	}()

	e.active = &search{
		cancel: cancel,
		done:   done,
		result: func() (board.Move, float64) { return finalMove, finalValue },
	}
	return out, nil
}

// Halt halts the active search and returns the best move found, if any.
func (e *Engine) Halt(ctx context.Context) (board.Move, float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return board.Move{}, 0, fmt.Errorf("no active search")
	}
	mv, v := e.haltActiveLocked(ctx)
	return mv, v, nil
}

// haltActiveLocked halts the active search, if any, and returns its best move so far. Must be
// called with e.mu held.
func (e *Engine) haltActiveLocked(ctx context.Context) (board.Move, float64) {
	if e.active == nil {
		return board.Move{}, 0
	}
	a := e.active
	a.cancel()
	<-a.done
	e.active = nil

	mv, v := a.result()
	logw.Infof(ctx, "Search halted: %v (%.3f)", mv.String(e.pos.Size()), v)
	return mv, v
}

// BestMove runs a synchronous, one-shot search to the engine's configured node or time budget
// (nodes takes priority if both are set; if neither is set, a default of 10,000 nodes is used)
// and returns the move without launching a background Analyze.
func (e *Engine) BestMove(ctx context.Context) (board.Move, float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pos.GameResult() != board.Undecided {
		return board.Move{}, 0, fmt.Errorf("best_move: position is terminal")
	}

	settings := mcts.Settings{}.WithArenaSize(e.opts.ArenaSize)
	pos := e.pos.Clone()

	switch {
	case e.opts.Nodes > 0:
		mv, v := mcts.MCTS(pos, e.opts.Nodes, settings)
		return mv, v, nil
	case e.opts.Time > 0:
		mv, v := mcts.PlayMoveTime(ctx, pos, e.opts.Time, settings)
		return mv, v, nil
	default:
		mv, v := mcts.MCTS(pos, 10000, settings)
		return mv, v, nil
	}
}
