package engine

import (
	"fmt"
	"strconv"
)

const (
	GridSize  = 10
	CellCount = GridSize * GridSize
)

// Axis is a column or row index in [0, GridSize).
type Axis uint8

// NewAxis validates v as an axis value.
func NewAxis(v int) (Axis, bool) {
	if v < 0 || v >= GridSize {
		return 0, false
	}
	return Axis(v), true
}

// Coordinate is one cell of the grid. The zero value is A1.
type Coordinate struct {
	col Axis
	row Axis
}

// NewCoordinate returns the cell at (col, row), or false when off-grid.
func NewCoordinate(col, row int) (Coordinate, bool) {
	c, ok := NewAxis(col)
	if !ok {
		return Coordinate{}, false
	}
	r, ok := NewAxis(row)
	if !ok {
		return Coordinate{}, false
	}
	return Coordinate{col: c, row: r}, true
}

// ParseCoordinate reads a column letter A-J followed by a row number 1-10.
func ParseCoordinate(text string) (Coordinate, error) {
	if len(text) < 2 || len(text) > 3 {
		return Coordinate{}, fmt.Errorf("%w: coordinate %q", ErrParse, text)
	}
	letter := text[0]
	if letter < 'A' || letter >= 'A'+GridSize {
		return Coordinate{}, fmt.Errorf("%w: coordinate %q: column must be A-J", ErrParse, text)
	}
	digits := text[1:]
	n, err := strconv.Atoi(digits)
	// reject "+5" and "05", only the canonical spelling parses
	if err != nil || strconv.Itoa(n) != digits || n < 1 || n > GridSize {
		return Coordinate{}, fmt.Errorf("%w: coordinate %q: row must be 1-10", ErrParse, text)
	}
	return Coordinate{col: Axis(letter - 'A'), row: Axis(n - 1)}, nil
}

// MustParseCoordinate is ParseCoordinate for literals known to be valid.
func MustParseCoordinate(text string) Coordinate {
	c, err := ParseCoordinate(text)
	if err != nil {
		panic(err)
	}
	return c
}

// CoordinateFromIndex is the inverse of Index.
func CoordinateFromIndex(i int) (Coordinate, bool) {
	if i < 0 || i >= CellCount {
		return Coordinate{}, false
	}
	return Coordinate{col: Axis(i % GridSize), row: Axis(i / GridSize)}, true
}

// RandomCoordinate picks a cell uniformly over the whole grid.
func RandomCoordinate(rng Rand) Coordinate {
	c, _ := CoordinateFromIndex(orDefault(rng).IntN(CellCount))
	return c
}

func (c Coordinate) Col() int { return int(c.col) }
func (c Coordinate) Row() int { return int(c.row) }

// Index returns row*GridSize + col.
func (c Coordinate) Index() int {
	return int(c.row)*GridSize + int(c.col)
}

// MovedBy shifts the cell by dx columns and dy rows. It returns false when
// the result leaves the grid.
func (c Coordinate) MovedBy(dx, dy int) (Coordinate, bool) {
	return NewCoordinate(int(c.col)+dx, int(c.row)+dy)
}

func (c Coordinate) String() string {
	return string(rune('A'+c.col)) + strconv.Itoa(int(c.row)+1)
}

func (c Coordinate) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Coordinate) UnmarshalText(text []byte) error {
	parsed, err := ParseCoordinate(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
