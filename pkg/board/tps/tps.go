// Package tps contains utilities for reading and writing positions in Tak Positional System
// (TPS) notation.
package tps

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/herohde/tiltak/pkg/board"
)

// Decode returns a new position from a TPS string.
//
// Example:
//   "x6/x6/x6/x6/x6/x6;1;1"
//   "x2,12,x3/x6/x6/x6/x6/x6;2;2"
//   "1,2,1,2,1/x5/x5/x5/x5;1;6;2.5"
func Decode(zt *board.ZobristTable, str string) (*board.Position, error) {
	// A TPS record has three mandatory fields and one optional field, separated by ";". The
	// fields are:
	//
	// (1) board: S rank-rows, top-to-bottom (rank S first, rank 1 last), separated by "/".
	// Within a row, squares are comma-separated, left to right (file a first). Each square is
	// either "x[n]" for n consecutive empty squares, or a stack string of "1"/"2" characters
	// naming the pieces bottom to top by color, with an optional trailing "S" (wall) or "C"
	// (capstone) describing the role of the top piece; no trailing letter means the top is flat.
	//
	// (2) side to move: "1" for White, "2" for Black.
	//
	// (3) move number: the 1-based full-move count, incrementing after Black's move.
	//
	// (4) komi, optional: a decimal flat-count bonus for Black, e.g. "2.5".

	parts := strings.Split(strings.TrimSpace(str), ";")
	if len(parts) != 3 && len(parts) != 4 {
		return nil, fmt.Errorf("invalid number of fields in TPS: %q", str)
	}

	rows := strings.Split(parts[0], "/")
	size := len(rows)

	placements, err := decodeBoard(size, rows)
	if err != nil {
		return nil, fmt.Errorf("invalid board in TPS %q: %w", str, err)
	}

	turn, ok := board.ParseColor(firstRune(parts[1]))
	if !ok {
		return nil, fmt.Errorf("invalid side to move in TPS: %q", str)
	}

	move, err := strconv.Atoi(parts[2])
	if err != nil || move < 1 {
		return nil, fmt.Errorf("invalid move number in TPS: %q", str)
	}
	ply := (move-1)*2 + sideOffset(turn)

	komi := board.ZeroKomi
	if len(parts) == 4 {
		komi, err = parseKomi(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid komi in TPS %q: %w", str, err)
		}
	}

	return board.NewPositionFromPlacements(zt, size, komi, placements, turn, ply)
}

func sideOffset(turn board.Color) int {
	if turn == board.Black {
		return 1
	}
	return 0
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func decodeBoard(size int, rows []string) ([]board.Placement, error) {
	var ret []board.Placement
	for i, row := range rows {
		rank := size - 1 - i

		file := 0
		for _, tok := range strings.Split(row, ",") {
			if tok == "" {
				return nil, fmt.Errorf("empty square token")
			}
			if tok[0] == 'x' {
				n, err := parseEmptyRun(tok)
				if err != nil {
					return nil, err
				}
				file += n
				continue
			}

			stack, err := parseStackToken(tok)
			if err != nil {
				return nil, err
			}
			if file >= size {
				return nil, fmt.Errorf("row %v has too many squares", i)
			}
			sq := board.NewSquare(size, file, rank)
			ret = append(ret, board.Placement{Square: sq, Stack: stack})
			file++
		}
		if file != size {
			return nil, fmt.Errorf("row %v has %v squares, want %v", i, file, size)
		}
	}
	return ret, nil
}

// parseEmptyRun parses an "x" or "xN" token into the number of empty squares it denotes.
func parseEmptyRun(tok string) (int, error) {
	if tok == "x" {
		return 1, nil
	}
	n, err := strconv.Atoi(tok[1:])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid empty-square run: %q", tok)
	}
	return n, nil
}

// parseStackToken parses a stack string such as "1", "21", "21S", or "1112C" into a Stack. The
// digits give colors bottom to top; an optional trailing letter sets the top piece's role.
func parseStackToken(tok string) (board.Stack, error) {
	topRole := board.Flat
	switch {
	case strings.HasSuffix(tok, "S"):
		topRole = board.Wall
		tok = tok[:len(tok)-1]
	case strings.HasSuffix(tok, "C"):
		topRole = board.Cap
		tok = tok[:len(tok)-1]
	}
	if tok == "" {
		return board.Stack{}, fmt.Errorf("stack token has no pieces")
	}

	var s board.Stack
	for i := 0; i < len(tok); i++ {
		color, ok := board.ParseColor(rune(tok[i]))
		if !ok {
			return board.Stack{}, fmt.Errorf("invalid color in stack token: %q", tok)
		}
		role := board.Flat
		if i == len(tok)-1 {
			role = topRole
		}
		s = s.Push(board.NewPiece(color, role))
	}
	return s, nil
}

func parseKomi(str string) (board.Komi, error) {
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid komi: %q", str)
	}
	half := int8(v*2 + sign(v)*0.5) // round to nearest half-komi
	return board.KomiFromHalfKomi(half)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Encode encodes the position in TPS notation.
func Encode(pos *board.Position) string {
	size := pos.Size()

	var rows []string
	for i := 0; i < size; i++ {
		rank := size - 1 - i
		rows = append(rows, encodeRow(pos, size, rank))
	}

	turn := "1"
	if pos.Turn() == board.Black {
		turn = "2"
	}
	move := pos.Ply()/2 + 1

	out := fmt.Sprintf("%v;%v;%v", strings.Join(rows, "/"), turn, move)
	if pos.Komi() != board.ZeroKomi {
		out += ";" + pos.Komi().String()
	}
	return out
}

func encodeRow(pos *board.Position, size, rank int) string {
	var tokens []string
	empty := 0
	flush := func() {
		if empty > 0 {
			if empty == 1 {
				tokens = append(tokens, "x")
			} else {
				tokens = append(tokens, "x"+strconv.Itoa(empty))
			}
			empty = 0
		}
	}

	for file := 0; file < size; file++ {
		sq := board.NewSquare(size, file, rank)
		stack := pos.Square(sq)
		if stack.IsEmpty() {
			empty++
			continue
		}
		flush()
		tokens = append(tokens, printStackToken(stack))
	}
	flush()
	return strings.Join(tokens, ",")
}

func printStackToken(s board.Stack) string {
	var sb strings.Builder
	for i := 0; i < s.Len(); i++ {
		p, _ := s.Get(i)
		if p.Color() == board.White {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('2')
		}
	}
	if top, ok := s.Top(); ok {
		switch top.Role() {
		case board.Wall:
			sb.WriteByte('S')
		case board.Cap:
			sb.WriteByte('C')
		}
	}
	return sb.String()
}
