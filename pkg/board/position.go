package board

import (
	"fmt"
)

// reserves returns the starting stone and capstone counts for a board of the given size,
// per standard Tak rules. Sizes outside [3,8] are not supported.
func reserves(size int) (stones, caps int) {
	switch size {
	case 3:
		return 10, 0
	case 4:
		return 15, 0
	case 5:
		return 21, 1
	case 6:
		return 30, 1
	case 7:
		return 40, 2
	case 8:
		return 50, 2
	default:
		return 0, 0
	}
}

// ReverseMove is the undo token produced by Position.DoMove: enough information to restore the
// position bit-for-bit, including any Wall that a capstone flattened during a spread (see §3,
// "ReverseMove carries the exact set of pieces that were captured/uncovered").
type ReverseMove struct {
	move        Move
	placedColor Color // Place only: the color of the piece removed on undo

	carried             []Piece // Spread only: the pieces picked up from origin, bottom to top
	flattenedWall       bool    // Spread only: final square uncovered a Wall that must be restored
	flattenedWallSquare Square

	prevHash  ZobristHash
	prevPly   int
	prevTurn  Color
}

// Position is the full mutable Tak game state: board contents, reserves, side to move, and
// enough move history to support ReverseMove. Not thread-safe; callers needing concurrent
// search share a Position only through Clone (see §5 concurrency model).
type Position struct {
	zt   *ZobristTable
	size int
	komi Komi

	board [MaxSquares]Stack

	stonesLeft [NumColors]int
	capsLeft   [NumColors]int

	turn Color
	ply  int
	hash ZobristHash

	moves []Move
}

// NewPosition constructs the empty starting position for a board of the given size and komi.
func NewPosition(zt *ZobristTable, size int, komi Komi) (*Position, error) {
	if size < 3 || size > MaxSize {
		return nil, fmt.Errorf("unsupported board size: %v", size)
	}

	stones, caps := reserves(size)
	p := &Position{
		zt:   zt,
		size: size,
		komi: komi,
		turn: White,
	}
	p.stonesLeft[White], p.stonesLeft[Black] = stones, stones
	p.capsLeft[White], p.capsLeft[Black] = caps, caps
	p.hash = zt.Hash(size, p.board[:], p.turn)
	return p, nil
}

// Placement is a single square's stack contents, used to build a Position from a fully formed
// board (see NewPositionFromPlacements) without exposing Position's internal fields to a
// parsing package such as a text-notation decoder.
type Placement struct {
	Square Square
	Stack  Stack
}

// NewPositionFromPlacements builds a Position from an explicit board, side to move, and ply,
// validating that the placed pieces don't exceed either color's starting reserves. It exists
// so a text-notation decoder (living outside package board) can construct arbitrary mid-game
// positions without reaching into unexported fields.
func NewPositionFromPlacements(zt *ZobristTable, size int, komi Komi, placements []Placement, turn Color, ply int) (*Position, error) {
	if size < 3 || size > MaxSize {
		return nil, fmt.Errorf("unsupported board size: %v", size)
	}
	if ply < 0 {
		return nil, fmt.Errorf("invalid ply: %v", ply)
	}

	stones, caps := reserves(size)
	p := &Position{
		zt:   zt,
		size: size,
		komi: komi,
		turn: turn,
		ply:  ply,
	}
	p.stonesLeft[White], p.stonesLeft[Black] = stones, stones
	p.capsLeft[White], p.capsLeft[Black] = caps, caps

	seen := make(map[Square]bool, len(placements))
	for _, pl := range placements {
		if int(pl.Square) < 0 || int(pl.Square) >= size*size {
			return nil, fmt.Errorf("square out of range for size %v: %v", size, pl.Square)
		}
		if seen[pl.Square] {
			return nil, fmt.Errorf("duplicate placement at square %v", pl.Square)
		}
		seen[pl.Square] = true
		p.board[pl.Square] = pl.Stack

		for i := 0; i < pl.Stack.Len(); i++ {
			piece, _ := pl.Stack.Get(i)
			switch piece.Role() {
			case Cap:
				p.capsLeft[piece.Color()]--
			default:
				p.stonesLeft[piece.Color()]--
			}
		}
	}

	for _, c := range [...]Color{White, Black} {
		if p.stonesLeft[c] < 0 {
			return nil, fmt.Errorf("too many stones placed for %v: reserves would go negative", c)
		}
		if p.capsLeft[c] < 0 {
			return nil, fmt.Errorf("too many capstones placed for %v: reserves would go negative", c)
		}
	}

	p.hash = zt.Hash(size, p.board[:], turn)
	return p, nil
}

// Clone returns a deep, independent copy suitable for a separate search tree or goroutine.
func (p *Position) Clone() *Position {
	ret := *p
	ret.moves = append([]Move(nil), p.moves...)
	return &ret
}

func (p *Position) Size() int      { return p.size }
func (p *Position) Komi() Komi     { return p.komi }
func (p *Position) Turn() Color    { return p.turn }
func (p *Position) Ply() int       { return p.ply }
func (p *Position) Hash() ZobristHash { return p.hash }

// Moves returns the move history played so far, oldest first.
func (p *Position) Moves() []Move { return p.moves }

// StonesLeft returns the number of flat/wall stones c still has in reserve.
func (p *Position) StonesLeft(c Color) int { return p.stonesLeft[c] }

// CapsLeft returns the number of capstones c still has in reserve.
func (p *Position) CapsLeft(c Color) int { return p.capsLeft[c] }

// Square returns the stack at sq.
func (p *Position) Square(sq Square) Stack { return p.board[sq] }

// IsEmpty returns true iff sq has no pieces.
func (p *Position) IsEmpty(sq Square) bool { return p.board[sq].IsEmpty() }

// IsSwapPly returns true for the first two plies, during which players place a flat of their
// opponent's color (the standard Tak opening "swap" rule, §3).
func (p *Position) IsSwapPly() bool { return p.ply < 2 }

// colorToPlace returns the color of piece the side to move must place this ply.
func (p *Position) colorToPlace() Color {
	if p.IsSwapPly() {
		return p.turn.Opponent()
	}
	return p.turn
}

// GenerateMoves returns every legal move in the position. Order is not significant; callers
// that need a stable order (e.g. for move-priority search) should sort explicitly.
func (p *Position) GenerateMoves() []Move {
	var ret []Move
	ret = append(ret, p.generatePlacements()...)
	if !p.IsSwapPly() {
		ret = append(ret, p.generateSpreads()...)
	}
	return ret
}

func (p *Position) generatePlacements() []Move {
	color := p.colorToPlace()

	var ret []Move
	for sq := 0; sq < p.size*p.size; sq++ {
		if !p.board[sq].IsEmpty() {
			continue
		}
		if p.stonesLeft[color] > 0 {
			ret = append(ret, NewPlace(Flat, Square(sq)))
			if !p.IsSwapPly() {
				ret = append(ret, NewPlace(Wall, Square(sq)))
			}
		}
		if !p.IsSwapPly() && p.capsLeft[color] > 0 {
			ret = append(ret, NewPlace(Cap, Square(sq)))
		}
	}
	return ret
}

func (p *Position) generateSpreads() []Move {
	var ret []Move
	for sq := 0; sq < p.size*p.size; sq++ {
		origin := Square(sq)
		stack := p.board[origin]
		top, ok := stack.Top()
		if !ok || top.Color() != p.turn {
			continue
		}
		for _, dir := range allDirections {
			ret = append(ret, p.generateSpreadsFrom(origin, stack, dir)...)
		}
	}
	return ret
}

// pathSquare classifies one step along a spread's direction of travel.
type pathSquare struct {
	sq        Square
	isWall    bool
}

// walkableSquares returns the ordered squares a spread from origin in direction dir could visit,
// stopping at the board edge or at the first square a Cap occupies (never passable), and
// including at most one trailing Wall square (only passable as the final, flattening drop).
func (p *Position) walkableSquares(origin Square, dir Direction) []pathSquare {
	var ret []pathSquare
	maxSteps := p.size
	for step := 1; step <= maxSteps; step++ {
		sq, ok := origin.JumpDirection(p.size, dir, step)
		if !ok {
			break
		}
		top, has := p.board[sq].Top()
		if has && top.Role() == Cap {
			break
		}
		isWall := has && top.Role() == Wall
		ret = append(ret, pathSquare{sq: sq, isWall: isWall})
		if isWall {
			break
		}
	}
	return ret
}

func (p *Position) generateSpreadsFrom(origin Square, stack Stack, dir Direction) []Move {
	height := stack.Len()
	maxTake := height
	if maxTake > p.size {
		maxTake = p.size
	}
	top, _ := stack.Top()
	isMoverCap := top.Role() == Cap

	path := p.walkableSquares(origin, dir)

	usable := path
	if n := len(path); n > 0 && path[n-1].isWall && !isMoverCap {
		usable = path[:n-1]
	}

	var ret []Move
	for take := 1; take <= maxTake; take++ {
		maxN := take
		if maxN > len(usable) {
			maxN = len(usable)
		}
		for n := 1; n <= maxN; n++ {
			requireFinalOne := usable[n-1].isWall
			for _, drops := range compositions(take, n) {
				if requireFinalOne && drops[n-1] != 1 {
					continue
				}
				ret = append(ret, NewSpread(origin, dir, drops))
			}
		}
	}
	return ret
}

// compositions enumerates every ordered way to write total as the sum of parts positive ints.
func compositions(total, parts int) [][]int {
	if parts <= 0 || total < parts {
		return nil
	}
	if parts == 1 {
		return [][]int{{total}}
	}

	var ret [][]int
	for first := 1; first <= total-(parts-1); first++ {
		for _, rest := range compositions(total-first, parts-1) {
			c := append([]int{first}, rest...)
			ret = append(ret, c)
		}
	}
	return ret
}

// DoMove applies a legal move, returning a token that UndoMove can use to restore the prior
// state bit-for-bit. Returns an error without mutating the position if mv is illegal.
func (p *Position) DoMove(mv Move) (ReverseMove, error) {
	rm := ReverseMove{move: mv, prevHash: p.hash, prevPly: p.ply, prevTurn: p.turn}

	if mv.Kind == PlaceKind {
		if err := p.doPlace(mv, &rm); err != nil {
			return ReverseMove{}, err
		}
	} else {
		if err := p.doSpread(mv, &rm); err != nil {
			return ReverseMove{}, err
		}
	}

	p.moves = append(p.moves, mv)
	p.hash = p.zt.ToggleTurn(p.hash, p.turn)
	p.turn = p.turn.Opponent()
	p.ply++
	return rm, nil
}

func (p *Position) doPlace(mv Move, rm *ReverseMove) error {
	if int(mv.Square) < 0 || int(mv.Square) >= p.size*p.size {
		return fmt.Errorf("place: square out of range: %v", mv.Square)
	}
	if !p.board[mv.Square].IsEmpty() {
		return fmt.Errorf("place: square occupied: %v", mv.Square.String(p.size))
	}
	if p.IsSwapPly() && mv.Role != Flat {
		return fmt.Errorf("place: only flats may be placed during the opening swap ply")
	}

	color := p.colorToPlace()
	switch mv.Role {
	case Cap:
		if p.capsLeft[color] == 0 {
			return fmt.Errorf("place: %v has no capstones left", color)
		}
		p.capsLeft[color]--
	default:
		if p.stonesLeft[color] == 0 {
			return fmt.Errorf("place: %v has no stones left", color)
		}
		p.stonesLeft[color]--
	}

	piece := NewPiece(color, mv.Role)
	p.board[mv.Square] = p.board[mv.Square].Push(piece)
	p.hash = p.zt.TogglePiece(p.hash, mv.Square, 0, piece)
	rm.placedColor = color
	return nil
}

func (p *Position) doSpread(mv Move, rm *ReverseMove) error {
	if p.IsSwapPly() {
		return fmt.Errorf("spread: no stack spreads during the opening swap ply")
	}
	origin := mv.Origin
	stack := p.board[origin]
	top, ok := stack.Top()
	if !ok {
		return fmt.Errorf("spread: origin is empty: %v", origin.String(p.size))
	}
	if top.Color() != p.turn {
		return fmt.Errorf("spread: origin is not controlled by the side to move")
	}

	take := mv.Take()
	if take < 1 || take > p.size || take > stack.Len() {
		return fmt.Errorf("spread: illegal take: %v", take)
	}

	// Check the whole path before lifting any pieces, so an illegal spread leaves p untouched.
	for i, cur := 0, origin; i < len(mv.Drops); i++ {
		next, ok := cur.GoDirection(p.size, mv.Direction)
		if !ok {
			return fmt.Errorf("spread: runs off the board")
		}
		if destTop, has := p.board[next].Top(); has && (destTop.Role() == Cap ||
			destTop.Role() == Wall && !(i == len(mv.Drops)-1 && mv.Drops[i] == 1 && top.Role() == Cap)) {
			return fmt.Errorf("spread: illegal drop onto %v", next.String(p.size))
		}
		cur = next
	}

	newOrigin, carried := stack.Carry(take)
	for i, piece := range carried {
		level := stack.Len() - take + i
		p.hash = p.zt.TogglePiece(p.hash, origin, level, piece)
	}
	p.board[origin] = newOrigin
	rm.carried = carried

	cur := origin
	cumulative := 0
	for i, d := range mv.Drops {
		next, ok := cur.GoDirection(p.size, mv.Direction)
		if !ok {
			return fmt.Errorf("spread: runs off the board")
		}
		dest := p.board[next]
		if destTop, has := dest.Top(); has {
			if destTop.Role() == Cap {
				return fmt.Errorf("spread: cannot drop onto a capstone")
			}
			if destTop.Role() == Wall {
				isMoverCap := top.Role() == Cap
				if !(i == len(mv.Drops)-1 && d == 1 && isMoverCap) {
					return fmt.Errorf("spread: cannot drop onto a standing stone without flattening it")
				}
				rm.flattenedWall = true
				rm.flattenedWallSquare = next
				lvl := dest.Len() - 1
				p.hash = p.zt.TogglePiece(p.hash, next, lvl, destTop)
				p.hash = p.zt.TogglePiece(p.hash, next, lvl, NewPiece(destTop.Color(), Flat))
			}
		}

		for k := 0; k < d; k++ {
			piece := carried[cumulative+k]
			p.board[next] = p.board[next].Push(piece)
			lvl := p.board[next].Len() - 1
			p.hash = p.zt.TogglePiece(p.hash, next, lvl, piece)
		}
		cumulative += d
		cur = next
	}
	return nil
}

// UndoMove restores the position to its state immediately before the move rm was produced from.
func (p *Position) UndoMove(rm ReverseMove) {
	p.moves = p.moves[:len(p.moves)-1]
	p.ply = rm.prevPly
	p.turn = rm.prevTurn
	p.hash = rm.prevHash

	if rm.move.Kind == PlaceKind {
		newStack, _, _ := p.board[rm.move.Square].Pop()
		p.board[rm.move.Square] = newStack
		if rm.move.Role == Cap {
			p.capsLeft[rm.placedColor]++
		} else {
			p.stonesLeft[rm.placedColor]++
		}
		return
	}

	squares := make([]Square, len(rm.move.Drops))
	cur := rm.move.Origin
	for i := range rm.move.Drops {
		next, _ := cur.GoDirection(p.size, rm.move.Direction)
		squares[i] = next
		cur = next
	}

	for i := len(rm.move.Drops) - 1; i >= 0; i-- {
		d := rm.move.Drops[i]
		sq := squares[i]
		for k := 0; k < d; k++ {
			p.board[sq], _, _ = p.board[sq].Pop()
		}
		if i == len(rm.move.Drops)-1 && rm.flattenedWall {
			p.board[sq] = p.board[sq].setTopRoleUnsafe(Wall)
		}
	}
	for _, piece := range rm.carried {
		p.board[rm.move.Origin] = p.board[rm.move.Origin].Push(piece)
	}
}

// GameResult adjudicates the position: a completed road beats flat counts, which apply only
// once reserves are exhausted for a side or the board is full. If both sides complete a road
// simultaneously (only possible on the move that just happened), the mover wins (§4.D).
func (p *Position) GameResult() Result {
	gd := NewGroupData(p)

	whiteRoad, blackRoad := gd.HasRoad(White), gd.HasRoad(Black)
	switch {
	case whiteRoad && blackRoad:
		return WinFor(p.turn.Opponent())
	case whiteRoad:
		return WhiteWin
	case blackRoad:
		return BlackWin
	}

	if p.reservesExhausted(White) || p.reservesExhausted(Black) || p.isBoardFull() {
		white, black := p.flatCount(White), p.flatCount(Black)
		return GameResultWithFlatCounts(white, black, p.komi)
	}
	return Undecided
}

func (p *Position) reservesExhausted(c Color) bool {
	return p.stonesLeft[c] == 0 && p.capsLeft[c] == 0
}

func (p *Position) isBoardFull() bool {
	for sq := 0; sq < p.size*p.size; sq++ {
		if p.board[sq].IsEmpty() {
			return false
		}
	}
	return true
}

func (p *Position) flatCount(c Color) int {
	count := 0
	for sq := 0; sq < p.size*p.size; sq++ {
		if top, ok := p.board[sq].Top(); ok && top.Role() == Flat && top.Color() == c {
			count++
		}
	}
	return count
}

func (p *Position) flatScore(mover Color) int {
	score := 0
	for sq := 0; sq < p.size*p.size; sq++ {
		top, ok := p.board[sq].Top()
		if !ok || top.Role() != Flat {
			continue
		}
		if top.Color() == mover {
			score++
		} else {
			score--
		}
	}
	return score
}

// FCDForMove returns the flat-count differential (mover's flats minus opponent's flats, after
// minus before) that mv would cause, from the perspective of the side to move. Used by the
// policy evaluator's flat-count-delta features (§4.H).
func (p *Position) FCDForMove(mv Move) int {
	mover := p.turn
	before := p.flatScore(mover)
	rm, err := p.DoMove(mv)
	if err != nil {
		return 0
	}
	after := p.flatScore(mover)
	p.UndoMove(rm)
	return after - before
}

// TopStonesLeftBehindByMove reports, for a Spread move, the piece left on top of each square
// the move touches: index 0 is the origin (NoPiece if the whole stack was picked up), and index
// i>0 is the new top of the i-th square along the path. Place moves return a single-element
// slice with the placed piece. Used by the policy evaluator to see what a move leaves visible
// without mutating the position.
func (p *Position) TopStonesLeftBehindByMove(mv Move) []Piece {
	if mv.Kind == PlaceKind {
		return []Piece{NewPiece(p.colorToPlace(), mv.Role)}
	}

	stack := p.board[mv.Origin]
	take := mv.Take()
	ret := make([]Piece, 1+len(mv.Drops))

	if take < stack.Len() {
		ret[0], _ = stack.Get(stack.Len() - take - 1)
	} else {
		ret[0] = NoPiece
	}

	_, carried := stack.Carry(take)
	cumulative := 0
	for i, d := range mv.Drops {
		ret[i+1] = carried[cumulative+d-1]
		cumulative += d
	}
	return ret
}

func (p *Position) String() string {
	return fmt.Sprintf("position{size=%v turn=%v ply=%v hash=%x}", p.size, p.turn, p.ply, p.hash)
}
