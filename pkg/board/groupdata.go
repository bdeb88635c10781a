package board

// GroupEdgeConnection is a 4-bit mask of which board edges a group of road-stones touches.
type GroupEdgeConnection uint8

const (
	ConnectsNorth GroupEdgeConnection = 1 << iota
	ConnectsEast
	ConnectsSouth
	ConnectsWest
)

// IsWinning returns true iff the group connects two opposite edges, i.e. completes a road.
func (g GroupEdgeConnection) IsWinning() bool {
	return (g&ConnectsNorth != 0 && g&ConnectsSouth != 0) || (g&ConnectsEast != 0 && g&ConnectsWest != 0)
}

func edgeMaskOfSquare(size int, sq Square) GroupEdgeConnection {
	var m GroupEdgeConnection
	if sq.IsEdge(size, North) {
		m |= ConnectsNorth
	}
	if sq.IsEdge(size, South) {
		m |= ConnectsSouth
	}
	if sq.IsEdge(size, East) {
		m |= ConnectsEast
	}
	if sq.IsEdge(size, West) {
		m |= ConnectsWest
	}
	return m
}

// GroupData is derived, on demand, from a Position: per-color piece bitboards and the
// road-stone connectivity structure used for win detection and critical-square features.
// Groups are computed per color over that color's road-stones only (Flat ∪ Cap) — a Wall
// never extends or is part of a road, so it is never part of a group (see DESIGN.md).
type GroupData struct {
	size int

	// groups[sq] is a 1-based group id for a road-stone square, scoped per color (ids for
	// White and Black never collide: 0 means "no group" — empty, or occupied by a non-road
	// piece for that color).
	groups        [MaxSquares]int
	groupEdge     []GroupEdgeConnection // indexed by group id (0 unused)
	groupSize     []int
	numWhiteGroup int

	flats, walls, caps, allPieces [NumColors]Bitboard
}

// NewGroupData computes derived position info by a single union-find pass per color.
func NewGroupData(p *Position) *GroupData {
	gd := &GroupData{size: p.size}
	gd.groupEdge = append(gd.groupEdge, 0) // id 0 placeholder
	gd.groupSize = append(gd.groupSize, 0)

	for sq := 0; sq < p.size*p.size; sq++ {
		stack := p.board[sq]
		top, ok := stack.Top()
		if !ok {
			continue
		}
		c := top.Color()
		gd.allPieces[c] = gd.allPieces[c].Set(Square(sq))
		switch top.Role() {
		case Flat:
			gd.flats[c] = gd.flats[c].Set(Square(sq))
		case Wall:
			gd.walls[c] = gd.walls[c].Set(Square(sq))
		case Cap:
			gd.caps[c] = gd.caps[c].Set(Square(sq))
		}
	}

	for _, c := range [NumColors]Color{White, Black} {
		gd.buildGroupsForColor(p, c)
		if c == White {
			gd.numWhiteGroup = len(gd.groupEdge) - 1
		}
	}
	return gd
}

func (gd *GroupData) buildGroupsForColor(p *Position, c Color) {
	size := gd.size
	road := gd.RoadStones(c)

	parent := make(map[Square]Square)
	var find func(Square) Square
	find = func(s Square) Square {
		if parent[s] != s {
			parent[s] = find(parent[s])
		}
		return parent[s]
	}
	union := func(a, b Square) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for sq := 0; sq < size*size; sq++ {
		if road.IsSet(Square(sq)) {
			parent[Square(sq)] = Square(sq)
		}
	}
	for sq := 0; sq < size*size; sq++ {
		s := Square(sq)
		if !road.IsSet(s) {
			continue
		}
		if n, ok := s.GoDirection(size, East); ok && road.IsSet(n) {
			union(s, n)
		}
		if n, ok := s.GoDirection(size, North); ok && road.IsSet(n) {
			union(s, n)
		}
	}

	ids := make(map[Square]int)
	for sq := 0; sq < size*size; sq++ {
		s := Square(sq)
		if !road.IsSet(s) {
			continue
		}
		root := find(s)
		id, ok := ids[root]
		if !ok {
			gd.groupEdge = append(gd.groupEdge, 0)
			gd.groupSize = append(gd.groupSize, 0)
			id = len(gd.groupEdge) - 1
			ids[root] = id
		}
		gd.groups[sq] = id
		gd.groupEdge[id] |= edgeMaskOfSquare(size, s)
		gd.groupSize[id]++
	}
}

// Flats returns the bitboard of flat-topped squares for c.
func (gd *GroupData) Flats(c Color) Bitboard { return gd.flats[c] }

// Walls returns the bitboard of wall-topped squares for c.
func (gd *GroupData) Walls(c Color) Bitboard { return gd.walls[c] }

// Caps returns the bitboard of capstone-topped squares for c.
func (gd *GroupData) Caps(c Color) Bitboard { return gd.caps[c] }

// RoadStones returns Flats(c) | Caps(c).
func (gd *GroupData) RoadStones(c Color) Bitboard { return gd.flats[c] | gd.caps[c] }

// BlockingStones returns Walls(c) | Caps(c).
func (gd *GroupData) BlockingStones(c Color) Bitboard { return gd.walls[c] | gd.caps[c] }

// AllPieces returns every occupied square topped by c's piece.
func (gd *GroupData) AllPieces(c Color) Bitboard { return gd.allPieces[c] }

// GroupID returns the 1-based group id at sq for its top color's road-stone group, or 0.
func (gd *GroupData) GroupID(sq Square) int {
	return gd.groups[sq]
}

// NumGroups returns the number of distinct road-stone groups for c.
func (gd *GroupData) NumGroups(c Color) int {
	if c == White {
		return gd.numWhiteGroup
	}
	return (len(gd.groupEdge) - 1) - gd.numWhiteGroup
}

// EdgeConnection returns the edge-connection mask for the group at group id.
func (gd *GroupData) EdgeConnection(id int) GroupEdgeConnection {
	return gd.groupEdge[id]
}

// HasRoad returns true iff c already has a completed road.
func (gd *GroupData) HasRoad(c Color) bool {
	for sq := 0; sq < gd.size*gd.size; sq++ {
		if gd.RoadStones(c).IsSet(Square(sq)) && gd.groups[sq] != 0 && gd.EdgeConnection(gd.groups[sq]).IsWinning() {
			return true
		}
	}
	return false
}

// IsCriticalSquare returns true iff sq is empty and placing a road-stone of c there would
// complete a road for c.
func (gd *GroupData) IsCriticalSquare(p *Position, c Color, sq Square) bool {
	if !p.board[sq].IsEmpty() {
		return false
	}
	mask := edgeMaskOfSquare(gd.size, sq)
	seen := map[int]bool{}
	for _, n := range sq.Neighbors(gd.size) {
		if !gd.RoadStones(c).IsSet(n) {
			continue
		}
		id := gd.groups[n]
		if seen[id] {
			continue
		}
		seen[id] = true
		mask |= gd.EdgeConnection(id)
	}
	return mask.IsWinning()
}

// CriticalSquares returns every empty square that is critical for c.
func (gd *GroupData) CriticalSquares(p *Position, c Color) []Square {
	var ret []Square
	for sq := 0; sq < gd.size*gd.size; sq++ {
		if gd.IsCriticalSquare(p, c, Square(sq)) {
			ret = append(ret, Square(sq))
		}
	}
	return ret
}
