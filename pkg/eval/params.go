// Package eval implements the value and policy evaluators used by the search: a linear,
// hand-initialized feature model in the style of the original static evaluator, scored per
// board size (see DESIGN.md — komi is folded into the flatstone-lead feature itself, not into
// a separate per-komi weight table, matching the original evaluator).
package eval

import (
	"fmt"

	"github.com/herohde/tiltak/pkg/board"
)

// numLineBuckets bounds the line-control feature index space: a road-piece count in [0,size]
// combined with a line's symmetry-reduced index.
func numLineBuckets(size int) int {
	return (size + 1) * size
}

// ValueParams holds the linear weights the value evaluator dots against a position's feature
// vector. One instance per board size; komi is a feature input, not a weight-table key.
type ValueParams struct {
	Size int

	FlatPSQT      []float32
	WallPSQT      []float32
	CapPSQT       []float32
	SupportsPSQT  []float32
	CaptivesPSQT  []float32

	FirstPly  float32
	SecondPly []float32 // indexed by square symmetry

	UsOpeningFlatstoneLead      [7]float32
	UsMiddlegameFlatstoneLead   [7]float32
	UsEndgameFlatstoneLead      [7]float32
	ThemOpeningFlatstoneLead    [7]float32
	ThemMiddlegameFlatstoneLead [7]float32
	ThemEndgameFlatstoneLead    [7]float32

	NumGroupsOpening    float32
	NumGroupsMiddlegame float32
	NumGroupsEndgame    float32

	CriticalSquares [4]float32 // empty / our-wall / their-flat / their-wall-or-cap

	LineControlEmpty         []float32
	LineControlOther         []float32
	LineControlTheirBlocking []float32

	FlatNextToOurStack float32
	WallNextToOurStack float32
	CapNextToOurStack  float32

	NumLinesOccupied [9]float32 // indexed by count of occupied ranks/files, 0..size
}

// NewValueParams builds a deterministic placeholder parameter set for the given board size.
// There is no tuned weight file in scope here (offline tuning is out of scope, see spec
// Non-goals); weights are generated from a fixed seed so evaluation is reproducible and the
// feature *shape* (what the evaluator looks at) can be exercised and tested meaningfully.
func NewValueParams(size int) *ValueParams {
	r := newParamRand(uint64(size)*0x9E3779B97F4A7C15 + 1)
	numSym := board.NumSquareSymmetries(size)
	lineBuckets := numLineBuckets(size)

	p := &ValueParams{
		Size:         size,
		FlatPSQT:     r.floats(numSym),
		WallPSQT:     r.floats(numSym),
		CapPSQT:      r.floats(numSym),
		SupportsPSQT: r.floats(numSym),
		CaptivesPSQT: r.floats(numSym),
		FirstPly:     r.float(),
		SecondPly:    r.floats(numSym),

		NumGroupsOpening:    r.float(),
		NumGroupsMiddlegame: r.float(),
		NumGroupsEndgame:    r.float(),

		LineControlEmpty:         r.floats(lineBuckets),
		LineControlOther:         r.floats(lineBuckets),
		LineControlTheirBlocking: r.floats(lineBuckets),

		FlatNextToOurStack: r.float(),
		WallNextToOurStack: r.float(),
		CapNextToOurStack:  r.float(),
	}
	for i := range p.UsOpeningFlatstoneLead {
		p.UsOpeningFlatstoneLead[i] = r.float()
		p.UsMiddlegameFlatstoneLead[i] = r.float()
		p.UsEndgameFlatstoneLead[i] = r.float()
		p.ThemOpeningFlatstoneLead[i] = r.float()
		p.ThemMiddlegameFlatstoneLead[i] = r.float()
		p.ThemEndgameFlatstoneLead[i] = r.float()
	}
	for i := range p.CriticalSquares {
		p.CriticalSquares[i] = r.float()
	}
	for i := range p.NumLinesOccupied {
		p.NumLinesOccupied[i] = r.float()
	}
	return p
}

// String reports a summary of the value weights, enough to sanity-check which placeholder
// table a given search run loaded without dumping every per-symmetry PSQT entry.
func (p *ValueParams) String() string {
	return fmt.Sprintf("ValueParams{size=%v firstPly=%.3f numGroups=(%.3f,%.3f,%.3f) criticalSquares=%v numLinesOccupied=%v}",
		p.Size, p.FirstPly, p.NumGroupsOpening, p.NumGroupsMiddlegame, p.NumGroupsEndgame, p.CriticalSquares, p.NumLinesOccupied)
}

// PolicyParams holds the linear weights the policy evaluator dots against a move's feature
// vector to produce an unnormalized logit.
type PolicyParams struct {
	Size int

	PlacementPSQT     []float32 // by role: flat/wall/cap, each indexed by square symmetry
	PlacementPSQTWall []float32
	PlacementPSQTCap  []float32

	SpreadPSQT []float32 // indexed by origin square symmetry

	MoveFlatCountLead [11]float32 // fcd bucketed into [-5,5]

	HasImmediateWin float32
	DeclineWin      float32

	SpreadOntoCriticalSquare float32
	PlaceOnCriticalSquare    float32
	SpreadCapturesFlatstone  float32
	SpreadFlattensWall       float32

	StackMovementBase float32 // per-piece-taken bonus/malus
}

// NewPolicyParams builds a deterministic placeholder parameter set for the given board size.
func NewPolicyParams(size int) *PolicyParams {
	r := newParamRand(uint64(size)*0xBF58476D1CE4E5B9 + 7)
	numSym := board.NumSquareSymmetries(size)

	p := &PolicyParams{
		Size:              size,
		PlacementPSQT:     r.floats(numSym),
		PlacementPSQTWall: r.floats(numSym),
		PlacementPSQTCap:  r.floats(numSym),
		SpreadPSQT:        r.floats(numSym),

		HasImmediateWin:          r.float(),
		DeclineWin:               r.float(),
		SpreadOntoCriticalSquare: r.float(),
		PlaceOnCriticalSquare:    r.float(),
		SpreadCapturesFlatstone:  r.float(),
		SpreadFlattensWall:       r.float(),
		StackMovementBase:        r.float(),
	}
	for i := range p.MoveFlatCountLead {
		p.MoveFlatCountLead[i] = r.float()
	}
	return p
}

// String reports a summary of the policy weights, analogous to ValueParams.String.
func (p *PolicyParams) String() string {
	return fmt.Sprintf("PolicyParams{size=%v hasImmediateWin=%.3f declineWin=%.3f spreadCapturesFlatstone=%.3f spreadFlattensWall=%.3f moveFlatCountLead=%v}",
		p.Size, p.HasImmediateWin, p.DeclineWin, p.SpreadCapturesFlatstone, p.SpreadFlattensWall, p.MoveFlatCountLead)
}

// paramRand is a tiny deterministic PRNG (splitmix64) used only to seed placeholder weights in
// a fixed, reproducible way — not for anything security- or gameplay-random (see board/zobrist.go
// for the table that does need real entropy spread).
type paramRand struct {
	state uint64
}

func newParamRand(seed uint64) *paramRand {
	return &paramRand{state: seed}
}

func (r *paramRand) next() uint64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// float returns a small pseudo-random weight in [-0.3, 0.3].
func (r *paramRand) float() float32 {
	v := float64(r.next()%100001) / 100000.0 // [0,1]
	return float32((v - 0.5) * 0.6)
}

func (r *paramRand) floats(n int) []float32 {
	ret := make([]float32, n)
	for i := range ret {
		ret[i] = r.float()
	}
	return ret
}
