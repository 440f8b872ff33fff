package engine

import "fmt"

// TilesPerPlane is the number of body cells a plane has besides its head.
const TilesPerPlane = 9

type offset struct {
	dx, dy int
}

// planeShapes holds the body offsets relative to the head, dx by column and
// dy by row. The order is part of the contract: Tiles reports cells in it.
var planeShapes = [4][TilesPerPlane]offset{
	North: {{-2, 1}, {-1, 1}, {0, 1}, {1, 1}, {2, 1}, {0, 2}, {-1, 3}, {0, 3}, {1, 3}},
	East:  {{-1, -2}, {-1, -1}, {-1, 0}, {-1, 1}, {-1, 2}, {-2, 0}, {-3, -1}, {-3, 0}, {-3, 1}},
	South: {{2, -1}, {1, -1}, {0, -1}, {-1, -1}, {-2, -1}, {0, -2}, {1, -3}, {0, -3}, {-1, -3}},
	West:  {{1, 2}, {1, 1}, {1, 0}, {1, -1}, {1, -2}, {2, 0}, {3, 1}, {3, 0}, {3, -1}},
}

// Tile is one body cell of a plane. OnGrid is false when the offset falls
// off the board, in which case At is meaningless.
type Tile struct {
	At     Coordinate
	OnGrid bool
}

// Plane is a ship: a head, the direction it faces and the ID its board gave it.
type Plane struct {
	Head        Coordinate  `json:"head"`
	Orientation Orientation `json:"orientation"`
	ID          int         `json:"id"`
}

// NewPlane parses head and orientation text.
func NewPlane(head, orientation string, id int) (Plane, error) {
	c, err := ParseCoordinate(head)
	if err != nil {
		return Plane{}, err
	}
	o, err := ParseOrientation(orientation)
	if err != nil {
		return Plane{}, err
	}
	return Plane{Head: c, Orientation: o, ID: id}, nil
}

// Tiles returns the nine body cells in shape-table order.
func (p Plane) Tiles() [TilesPerPlane]Tile {
	var tiles [TilesPerPlane]Tile
	if !p.Orientation.Valid() {
		return tiles
	}
	for i, off := range planeShapes[p.Orientation] {
		c, ok := p.Head.MovedBy(off.dx, off.dy)
		tiles[i] = Tile{At: c, OnGrid: ok}
	}
	return tiles
}

// VisibleTiles returns the body cells that lie on the grid.
func (p Plane) VisibleTiles() []Coordinate {
	cells := make([]Coordinate, 0, TilesPerPlane)
	for _, t := range p.Tiles() {
		if t.OnGrid {
			cells = append(cells, t.At)
		}
	}
	return cells
}

// IsOutsideOfMap reports whether any body cell falls off the grid.
func (p Plane) IsOutsideOfMap() bool {
	for _, t := range p.Tiles() {
		if !t.OnGrid {
			return true
		}
	}
	return false
}

// HasTile reports whether c is one of the body cells. The head is not a tile.
func (p Plane) HasTile(c Coordinate) bool {
	for _, t := range p.Tiles() {
		if t.OnGrid && t.At == c {
			return true
		}
	}
	return false
}

// Occupies reports whether c is the head or a body cell.
func (p Plane) Occupies(c Coordinate) bool {
	return p.Head == c || p.HasTile(c)
}

// Overlaps reports whether the two planes share any cell.
func (p Plane) Overlaps(other Plane) bool {
	if p.Head == other.Head {
		return true
	}
	for _, c := range p.VisibleTiles() {
		if other.Occupies(c) {
			return true
		}
	}
	for _, c := range other.VisibleTiles() {
		if c == p.Head {
			return true
		}
	}
	return false
}

func (p Plane) String() string {
	return fmt.Sprintf("#%d %s %s", p.ID, p.Head, p.Orientation)
}
