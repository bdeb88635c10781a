package board

import (
	"fmt"
	"strconv"
)

// ParseMove parses move text into a Move for a board of the given size: a placement is a
// square optionally prefixed with "S" (wall) or "C" (capstone), e.g. "a3", "Sa3", "Ca3"; a
// spread is an optional leading take count, the origin square, a direction in "<>+-", and the
// drop sequence, e.g. "3a1>111". This is the inverse of Move.String.
func ParseMove(size int, str string) (Move, error) {
	if str == "" {
		return Move{}, fmt.Errorf("empty move text")
	}

	switch str[0] {
	case 'S':
		sq, err := ParseSquare(size, str[1:])
		if err != nil {
			return Move{}, fmt.Errorf("invalid wall placement %q: %w", str, err)
		}
		return NewPlace(Wall, sq), nil

	case 'C':
		sq, err := ParseSquare(size, str[1:])
		if err != nil {
			return Move{}, fmt.Errorf("invalid capstone placement %q: %w", str, err)
		}
		return NewPlace(Cap, sq), nil
	}

	// A spread's direction character never appears in a plain square, so its position (if any)
	// unambiguously marks the move as a spread, with or without a leading take count (a take of
	// 1, the common case, is printed with no leading digit at all — see Move.String).
	if k := indexOfDirection(str); k >= 0 {
		return parseSpreadText(size, str, k)
	}

	sq, err := ParseSquare(size, str)
	if err != nil {
		return Move{}, fmt.Errorf("invalid placement %q: %w", str, err)
	}
	return NewPlace(Flat, sq), nil
}

func indexOfDirection(str string) int {
	for i := 0; i < len(str); i++ {
		if _, ok := ParseDirection(rune(str[i])); ok {
			return i
		}
	}
	return -1
}

func parseSpreadText(size int, str string, dirIdx int) (Move, error) {
	if dirIdx < 2 {
		return Move{}, fmt.Errorf("missing origin square in %q", str)
	}

	take := 1
	originStart := dirIdx - 2
	if originStart > 0 {
		n, err := strconv.Atoi(str[:originStart])
		if err != nil {
			return Move{}, fmt.Errorf("invalid take count in %q", str)
		}
		take = n
	}

	origin, err := ParseSquare(size, str[originStart:dirIdx])
	if err != nil {
		return Move{}, fmt.Errorf("invalid origin square in %q: %w", str, err)
	}

	dir, ok := ParseDirection(rune(str[dirIdx]))
	if !ok {
		return Move{}, fmt.Errorf("invalid direction in %q", str)
	}

	dropsStr := str[dirIdx+1:]
	if dropsStr == "" {
		return Move{}, fmt.Errorf("missing drop sequence in %q", str)
	}

	drops := make([]int, len(dropsStr))
	sum := 0
	for i := 0; i < len(dropsStr); i++ {
		c := dropsStr[i]
		if c < '1' || c > '9' {
			return Move{}, fmt.Errorf("invalid drop count in %q", str)
		}
		drops[i] = int(c - '0')
		sum += drops[i]
	}
	if sum != take {
		return Move{}, fmt.Errorf("drop sequence in %q sums to %v, want take count %v", str, sum, take)
	}

	return NewSpread(origin, dir, drops), nil
}
