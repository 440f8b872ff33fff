package engine

import "fmt"

// Game is one match between you and the random opponent. The real boards
// hold the fleets, the scrapbooks hold what each side learned by shooting.
type Game struct {
	Phase             GamePlay `json:"phase"`
	BoardYou          *Board   `json:"board_you"`
	BoardOpponent     *Board   `json:"board_opponent"`
	ScrapbookYou      *Board   `json:"scrapbook_you"`
	ScrapbookOpponent *Board   `json:"scrapbook_opponent"`

	// RevealKilled copies a destroyed plane's shape into the shooter's
	// scrapbook.
	RevealKilled bool `json:"reveal_killed"`

	rng Rand
}

// NewGame starts a match in one of the two placement phases, chosen at random.
func NewGame(revealKilled bool, rng Rand) *Game {
	rng = orDefault(rng)
	phase := YouPlaceNewPlane
	if rng.IntN(2) == 1 {
		phase = OpponentPlacesNewPlane
	}
	return NewGameWithPhase(phase, revealKilled, rng)
}

// NewGameWithPhase starts a match in the given phase.
func NewGameWithPhase(phase GamePlay, revealKilled bool, rng Rand) *Game {
	return &Game{
		Phase:             phase,
		BoardYou:          NewBoard(),
		BoardOpponent:     NewBoard(),
		ScrapbookYou:      NewBoard(),
		ScrapbookOpponent: NewBoard(),
		RevealKilled:      revealKilled,
		rng:               orDefault(rng),
	}
}

// SetRand replaces the random source, e.g. after loading a saved game.
func (g *Game) SetRand(rng Rand) {
	g.rng = rng
}

func (g *Game) random() Rand {
	return orDefault(g.rng)
}

// Advance moves the turn machine one step. Terminal phases stay put.
func (g *Game) Advance() {
	switch g.Phase {
	case YouPlaceNewPlane:
		if g.BoardOpponent.IsFullyPlaced() {
			g.Phase = OpponentBombards
		} else {
			g.Phase = OpponentPlacesNewPlane
		}
	case OpponentPlacesNewPlane:
		if g.BoardYou.IsFullyPlaced() {
			g.Phase = YouBombard
		} else {
			g.Phase = YouPlaceNewPlane
		}
	case YouBombard:
		if g.BoardOpponent.ActivePlaneCount() == 0 {
			g.Phase = YouWon
		} else {
			g.Phase = OpponentBombards
		}
	case OpponentBombards:
		if g.BoardYou.ActivePlaneCount() == 0 {
			g.Phase = OpponentWon
		} else {
			g.Phase = YouBombard
		}
	}
}

// IsOver reports whether someone has won.
func (g *Game) IsOver() bool {
	return g.Phase.IsTerminal()
}

// YouBombard fires at the opponent. Text that does not parse yields Retry
// and changes nothing.
func (g *Game) YouBombard(target string) Outcome {
	c, err := ParseCoordinate(target)
	if err != nil {
		return Retry
	}
	return g.YouBombardAt(c)
}

// YouBombardAt fires at an already parsed cell.
func (g *Game) YouBombardAt(c Coordinate) Outcome {
	outcome, killed := g.BoardOpponent.ResolveShot(c)
	g.ScrapbookYou.record(outcome, c, killed, g.RevealKilled)
	return outcome
}

// OpponentBombards fires at a random cell the opponent never targeted.
// When every cell has been targeted it returns Retry and false.
func (g *Game) OpponentBombards() (Outcome, Coordinate, bool) {
	remaining := g.ScrapbookOpponent.untargeted.len()
	if remaining == 0 {
		return Retry, Coordinate{}, false
	}
	idx, _ := g.ScrapbookOpponent.untargeted.nth(g.random().IntN(remaining))
	c, _ := CoordinateFromIndex(idx)
	outcome, killed := g.BoardYou.ResolveShot(c)
	g.ScrapbookOpponent.record(outcome, c, killed, g.RevealKilled)
	return outcome, c, true
}

// OpponentPlacesPlane copies the next plane of a pre-generated fleet onto
// the opponent's board.
func (g *Game) OpponentPlacesPlane(fleet *Board) (int, error) {
	placed := len(g.BoardOpponent.planes) + len(g.BoardOpponent.killed)
	if fleet == nil || placed >= len(fleet.planes) {
		return 0, fmt.Errorf("%w: %d planes already placed", ErrFleetExhausted, placed)
	}
	next := fleet.planes[placed]
	return g.BoardOpponent.Place(next.Head, next.Orientation)
}

// Clone returns a deep copy sharing the random source.
func (g *Game) Clone() *Game {
	return &Game{
		Phase:             g.Phase,
		BoardYou:          g.BoardYou.Clone(),
		BoardOpponent:     g.BoardOpponent.Clone(),
		ScrapbookYou:      g.ScrapbookYou.Clone(),
		ScrapbookOpponent: g.ScrapbookOpponent.Clone(),
		RevealKilled:      g.RevealKilled,
		rng:               g.rng,
	}
}
