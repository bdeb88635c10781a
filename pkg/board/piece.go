package board

// Role represents the kind of stone a piece is: Flat, Wall or Cap. 2 bits.
type Role uint8

const (
	Flat Role = iota
	Wall
	Cap
)

const (
	ZeroRole Role = 0
	NumRoles Role = 3
)

// IsRoadPiece returns true for Flat and Cap: the roles that count towards a road.
func (r Role) IsRoadPiece() bool {
	return r == Flat || r == Cap
}

func (r Role) String() string {
	switch r {
	case Flat:
		return "F"
	case Wall:
		return "S"
	case Cap:
		return "C"
	default:
		return "?"
	}
}

// Piece is a tagged value combining a Color and a Role. 3 bits.
type Piece uint8

const (
	NoPiece Piece = iota
	WhiteFlat
	WhiteWall
	WhiteCap
	BlackFlat
	BlackWall
	BlackCap
)

// NewPiece combines a color and role into a Piece.
func NewPiece(c Color, r Role) Piece {
	if c == White {
		return WhiteFlat + Piece(r)
	}
	return BlackFlat + Piece(r)
}

func (p Piece) Color() Color {
	if p >= BlackFlat {
		return Black
	}
	return White
}

func (p Piece) Role() Role {
	switch p {
	case WhiteFlat, BlackFlat:
		return Flat
	case WhiteWall, BlackWall:
		return Wall
	case WhiteCap, BlackCap:
		return Cap
	default:
		panic("piece.Role: no piece")
	}
}

func (p Piece) IsRoadPiece() bool {
	return p != NoPiece && p.Role().IsRoadPiece()
}

func (p Piece) String() string {
	switch p.Color() {
	case White:
		return p.Role().String()
	default:
		switch p.Role() {
		case Flat:
			return "f"
		case Wall:
			return "s"
		case Cap:
			return "c"
		}
	}
	return "?"
}
