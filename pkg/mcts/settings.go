package mcts

import (
	"github.com/herohde/tiltak/pkg/board"
	"github.com/herohde/tiltak/pkg/eval"
)

// Settings configures one Tree: how much memory its arena may grow to, which root moves to
// mask out, and which parameter tables its evaluators use (nil picks size-appropriate
// placeholder defaults, see pkg/eval).
type Settings struct {
	// ArenaSize caps the tree's arena in bytes. Zero means unbounded.
	ArenaSize int

	// ExcludeMoves masks these moves out of the root's move set entirely; they are never
	// considered by best_move or pv.
	ExcludeMoves []board.Move

	ValueParams  *eval.ValueParams
	PolicyParams *eval.PolicyParams
}

// WithArenaSize returns a copy of s capped to the given byte budget.
func (s Settings) WithArenaSize(bytes int) Settings {
	s.ArenaSize = bytes
	return s
}

// WithArenaSizeForNodes returns a copy of s capped to comfortably hold about n nodes.
func (s Settings) WithArenaSizeForNodes(n int) Settings {
	s.ArenaSize = ArenaSizeForNodes(n)
	return s
}

// WithExcludeMoves returns a copy of s that additionally masks the given root moves.
func (s Settings) WithExcludeMoves(moves []board.Move) Settings {
	s.ExcludeMoves = moves
	return s
}

// WithValueParams returns a copy of s using the given value parameter table instead of the
// size-appropriate placeholder default.
func (s Settings) WithValueParams(p *eval.ValueParams) Settings {
	s.ValueParams = p
	return s
}

// WithPolicyParams returns a copy of s using the given policy parameter table instead of the
// size-appropriate placeholder default.
func (s Settings) WithPolicyParams(p *eval.PolicyParams) Settings {
	s.PolicyParams = p
	return s
}
