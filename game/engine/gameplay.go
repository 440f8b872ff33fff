package engine

import "fmt"

// GamePlay is the turn phase of a Game.
type GamePlay uint8

const (
	YouPlaceNewPlane GamePlay = iota
	OpponentPlacesNewPlane
	YouBombard
	OpponentBombards
	YouWon
	OpponentWon
)

var gamePlayNames = [...]string{
	"you_place_new_plane",
	"opponent_places_new_plane",
	"you_bombard",
	"opponent_bombards",
	"you_won",
	"opponent_won",
}

// IsTerminal reports whether no transition leaves this phase.
func (g GamePlay) IsTerminal() bool {
	return g == YouWon || g == OpponentWon
}

// IsOpponentTurn reports whether the opponent acts next.
func (g GamePlay) IsOpponentTurn() bool {
	return g == OpponentPlacesNewPlane || g == OpponentBombards
}

func (g GamePlay) String() string {
	if int(g) >= len(gamePlayNames) {
		return fmt.Sprintf("GamePlay(%d)", uint8(g))
	}
	return gamePlayNames[g]
}

func (g GamePlay) MarshalText() ([]byte, error) {
	if int(g) >= len(gamePlayNames) {
		return nil, fmt.Errorf("invalid game phase %d", uint8(g))
	}
	return []byte(g.String()), nil
}

func (g *GamePlay) UnmarshalText(text []byte) error {
	for i, name := range gamePlayNames {
		if string(text) == name {
			*g = GamePlay(i)
			return nil
		}
	}
	return fmt.Errorf("%w: game phase %q", ErrParse, text)
}
