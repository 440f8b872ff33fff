package engine

import (
	"encoding/json"
	"fmt"
	"slices"
)

const (
	// PlanesPerBoard is the fleet size of a fully placed board.
	PlanesPerBoard = 3

	// HeadAttemptsPerRound bounds the head candidates tried before random
	// generation restarts from an empty board.
	HeadAttemptsPerRound = 100

	DefaultGenerationRounds = 1000
)

// Board is one side's grid: where its planes are and what has been shot at it.
// Scrapbooks reuse the type to record what one side learned about the other.
type Board struct {
	planes     []Plane
	killed     []Plane
	hits       []Coordinate
	misses     []Coordinate
	kills      []Coordinate
	untargeted cellSet
	lastError  string
}

// NewBoard returns an empty board with every cell untargeted.
func NewBoard() *Board {
	return &Board{untargeted: fullCellSet()}
}

// AddPlane validates and places a plane given as text, e.g. ("E5", "N").
// Failures are also remembered in LastError.
func (b *Board) AddPlane(head, orientation string) (int, error) {
	if err := b.checkPhase(); err != nil {
		return b.fail(err)
	}
	p, err := NewPlane(head, orientation, 0)
	if err != nil {
		return b.fail(err)
	}
	return b.Place(p.Head, p.Orientation)
}

// Place is AddPlane for already parsed values.
func (b *Board) Place(head Coordinate, orientation Orientation) (int, error) {
	if err := b.checkPhase(); err != nil {
		return b.fail(err)
	}
	if !orientation.Valid() {
		return b.fail(fmt.Errorf("%w: orientation %d", ErrParse, uint8(orientation)))
	}
	p := Plane{Head: head, Orientation: orientation}
	if p.IsOutsideOfMap() {
		return b.fail(fmt.Errorf("%w: plane cannot spawn at %s in direction %s, it would fall off the map, try again",
			ErrOutOfBounds, head, orientation))
	}
	for _, other := range b.planes {
		if p.Overlaps(other) {
			return b.fail(&OverlapError{PlaneID: other.ID})
		}
	}

	p.ID = len(b.planes) + 1
	b.untargeted.remove(head.Index())
	for _, c := range p.VisibleTiles() {
		b.untargeted.remove(c.Index())
	}
	b.planes = append(b.planes, p)
	b.lastError = ""
	return p.ID, nil
}

func (b *Board) checkPhase() error {
	if b.placementClosed() {
		return fmt.Errorf("%w: cannot add planes mid-game", ErrPhaseClosed)
	}
	return nil
}

func (b *Board) placementClosed() bool {
	return len(b.hits)+len(b.misses)+len(b.kills) > 0
}

func (b *Board) fail(err error) (int, error) {
	b.lastError = err.Error()
	return 0, err
}

// ResolveShot fires at c. On a Kill the destroyed plane is returned.
func (b *Board) ResolveShot(c Coordinate) (Outcome, *Plane) {
	b.untargeted.remove(c.Index())
	for i, p := range b.planes {
		if p.HasTile(c) {
			b.hits = append(b.hits, c)
			return Hit, nil
		}
		if p.Head == c {
			b.planes = append(b.planes[:i:i], b.planes[i+1:]...)
			b.killed = append(b.killed, p)
			b.kills = append(b.kills, c)
			return Kill, &p
		}
	}
	b.misses = append(b.misses, c)
	return Miss, nil
}

// record mirrors a shot outcome observed on another board.
func (b *Board) record(outcome Outcome, c Coordinate, killed *Plane, reveal bool) {
	b.untargeted.remove(c.Index())
	switch outcome {
	case Hit:
		b.hits = append(b.hits, c)
	case Miss:
		b.misses = append(b.misses, c)
	case Kill:
		b.kills = append(b.kills, c)
		b.hits = append(b.hits, c)
		if reveal && killed != nil {
			b.killed = append(b.killed, *killed)
		}
	}
}

// IsFullyPlaced reports whether the whole fleet has been placed.
func (b *Board) IsFullyPlaced() bool {
	return len(b.planes)+len(b.killed) == PlanesPerBoard
}

// GenerateRandomBoard builds a fully placed board by rejection sampling.
// Each round tries up to HeadAttemptsPerRound random heads, each with the
// four orientations in a fresh random order. A round that ends short of a
// full fleet is thrown away. After maxRounds failed rounds it gives up.
func GenerateRandomBoard(rng Rand, maxRounds int) (*Board, error) {
	rng = orDefault(rng)
	if maxRounds <= 0 {
		maxRounds = DefaultGenerationRounds
	}
	for round := 0; round < maxRounds; round++ {
		b := NewBoard()
		for attempt := 0; attempt < HeadAttemptsPerRound && len(b.planes) < PlanesPerBoard; attempt++ {
			head := RandomCoordinate(rng)
			orientations := Orientations
			rng.Shuffle(len(orientations), func(i, j int) {
				orientations[i], orientations[j] = orientations[j], orientations[i]
			})
			for _, o := range orientations {
				if _, err := b.Place(head, o); err == nil {
					break
				}
			}
		}
		if len(b.planes) == PlanesPerBoard {
			b.lastError = ""
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: no layout after %d rounds", ErrBoardGeneration, maxRounds)
}

// FindPlaneAt looks through active then killed planes for one occupying c.
func (b *Board) FindPlaneAt(c Coordinate) (Plane, bool) {
	for _, p := range b.planes {
		if p.Occupies(c) {
			return p, true
		}
	}
	for _, p := range b.killed {
		if p.Occupies(c) {
			return p, true
		}
	}
	return Plane{}, false
}

// FindPlaneByID searches active planes only.
func (b *Board) FindPlaneByID(id int) (Plane, bool) {
	for _, p := range b.planes {
		if p.ID == id {
			return p, true
		}
	}
	return Plane{}, false
}

func (b *Board) Planes() []Plane { return slices.Clone(b.planes) }
func (b *Board) KilledPlanes() []Plane { return slices.Clone(b.killed) }
func (b *Board) Hits() []Coordinate { return slices.Clone(b.hits) }
func (b *Board) Misses() []Coordinate { return slices.Clone(b.misses) }
func (b *Board) Kills() []Coordinate { return slices.Clone(b.kills) }
func (b *Board) LastError() string { return b.lastError }
func (b *Board) ActivePlaneCount() int { return len(b.planes) }
func (b *Board) UntargetedCount() int { return b.untargeted.len() }
func (b *Board) EmptyIndices() []int { return b.untargeted.indices() }
func (b *Board) IsUntargeted(c Coordinate) bool {
	return b.untargeted.contains(c.Index())
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	return &Board{
		planes:     slices.Clone(b.planes),
		killed:     slices.Clone(b.killed),
		hits:       slices.Clone(b.hits),
		misses:     slices.Clone(b.misses),
		kills:      slices.Clone(b.kills),
		untargeted: b.untargeted,
		lastError:  b.lastError,
	}
}

type boardJSON struct {
	Planes       []Plane      `json:"planes"`
	KilledPlanes []Plane      `json:"killed_planes"`
	Hits         []Coordinate `json:"hits"`
	Misses       []Coordinate `json:"misses"`
	Kills        []Coordinate `json:"kills"`
	Untargeted   *[]int       `json:"untargeted"`
	LastError    string       `json:"last_error,omitempty"`
}

func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{
		Planes:       nonNil(b.planes),
		KilledPlanes: nonNil(b.killed),
		Hits:         nonNil(b.hits),
		Misses:       nonNil(b.misses),
		Kills:        nonNil(b.kills),
		Untargeted:   ptr(b.untargeted.indices()),
		LastError:    b.lastError,
	})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var snap boardJSON
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	var set cellSet
	if snap.Untargeted == nil {
		// snapshot without the set: every cell neither shot at nor covered
		// by a known plane
		set = fullCellSet()
		for _, shots := range [][]Coordinate{snap.Hits, snap.Misses, snap.Kills} {
			for _, c := range shots {
				set.remove(c.Index())
			}
		}
		for _, planes := range [][]Plane{snap.Planes, snap.KilledPlanes} {
			for _, p := range planes {
				set.remove(p.Head.Index())
				for _, c := range p.VisibleTiles() {
					set.remove(c.Index())
				}
			}
		}
	}
	for _, i := range ptrValue(snap.Untargeted) {
		if i < 0 || i >= CellCount {
			return fmt.Errorf("%w: untargeted index %d out of range", ErrParse, i)
		}
		set.add(i)
	}
	*b = Board{
		planes:     snap.Planes,
		killed:     snap.KilledPlanes,
		hits:       snap.Hits,
		misses:     snap.Misses,
		kills:      snap.Kills,
		untargeted: set,
		lastError:  snap.LastError,
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func ptrValue[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
