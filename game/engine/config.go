package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// First turn policies.
const (
	FirstTurnRandom   = "random"
	FirstTurnYou      = "you"
	FirstTurnOpponent = "opponent"

	MinGenerationRounds = 1
	MaxGenerationRounds = 10000
)

// Messages are the texts shown to the player. Hit, Miss and Kill take the
// target coordinate as their only %s argument.
type Messages struct {
	Welcome     string `json:"welcome"`
	PlanePlaced string `json:"plane_placed"`
	Hit         string `json:"hit"`
	Miss        string `json:"miss"`
	Kill        string `json:"kill"`
	Retry       string `json:"retry"`
	YouWon      string `json:"you_won"`
	OpponentWon string `json:"opponent_won"`
}

// GameConfig is a rule preset loaded from JSON.
type GameConfig struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	RevealKilled     bool     `json:"reveal_killed"`
	FirstTurn        string   `json:"first_turn"`
	GenerationRounds int      `json:"generation_rounds"`
	Messages         Messages `json:"messages"`
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	switch config.FirstTurn {
	case FirstTurnRandom, FirstTurnYou, FirstTurnOpponent:
	default:
		return fmt.Errorf("config validation: first_turn must be one of %q, %q, %q, got %q",
			FirstTurnRandom, FirstTurnYou, FirstTurnOpponent, config.FirstTurn)
	}

	if config.GenerationRounds < MinGenerationRounds || config.GenerationRounds > MaxGenerationRounds {
		return fmt.Errorf("config validation: generation_rounds must be between %d and %d, got %d",
			MinGenerationRounds, MaxGenerationRounds, config.GenerationRounds)
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.YouWon == "" {
		return fmt.Errorf("config validation: messages.you_won is required")
	}
	if config.Messages.OpponentWon == "" {
		return fmt.Errorf("config validation: messages.opponent_won is required")
	}
	if config.Messages.Retry == "" {
		return fmt.Errorf("config validation: messages.retry is required")
	}

	shots := []struct {
		key, msg string
	}{
		{"hit", config.Messages.Hit},
		{"miss", config.Messages.Miss},
		{"kill", config.Messages.Kill},
	}
	for _, shot := range shots {
		if !hasOnlyVerb(shot.msg, 's') {
			return fmt.Errorf("config validation: messages.%s must contain exactly one %%s for the target and no other verbs", shot.key)
		}
	}
	if config.Messages.PlanePlaced != "" && !hasOnlyVerb(config.Messages.PlanePlaced, 'd') {
		return fmt.Errorf("config validation: messages.plane_placed must contain exactly one %%d for the plane id and no other verbs")
	}

	return nil
}

// hasOnlyVerb reports whether msg has exactly one formatting verb and it is
// verb. Literal %% is allowed anywhere.
func hasOnlyVerb(msg string, verb byte) bool {
	found := 0
	for i := 0; i < len(msg); i++ {
		if msg[i] != '%' {
			continue
		}
		i++
		if i < len(msg) && msg[i] == '%' {
			continue
		}
		for i < len(msg) && strings.IndexByte("+-# 0123456789.", msg[i]) >= 0 {
			i++
		}
		if i >= len(msg) || msg[i] != verb {
			return false
		}
		found++
	}
	return found == 1
}

// ParseGameConfig decodes and validates a preset. Strict parsing rejects
// unknown keys. Rule violations wrap ErrInvalidConfig.
func ParseGameConfig(data []byte, strict bool) (*GameConfig, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}

	var config GameConfig
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &config, nil
}

// LoadGameConfig reads and parses a preset file. A missing file matches
// fs.ErrNotExist.
func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	config, err := ParseGameConfig(data, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return config, nil
}

// DefaultGameConfig returns the built-in classic rules.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:             "default",
		Description:      "Classic rules: random first turn, destroyed planes are revealed",
		RevealKilled:     true,
		FirstTurn:        FirstTurnRandom,
		GenerationRounds: DefaultGenerationRounds,
		Messages: Messages{
			Welcome:     "Welcome to Battleplanes! Place 3 planes, then shoot down the enemy fleet.",
			PlanePlaced: "Plane %d placed",
			Hit:         "%s: hit!",
			Miss:        "%s: miss",
			Kill:        "%s: plane down!",
			Retry:       "Could not read that target, try again (e.g. E5)",
			YouWon:      "You won! Every enemy plane is down.",
			OpponentWon: "You lost! The opponent shot down your fleet.",
		},
	}
}

// NewMatch creates a game following the preset together with the
// opponent's pre-generated fleet.
func NewMatch(config *GameConfig, rng Rand) (*Game, *Board, error) {
	if config == nil {
		config = DefaultGameConfig()
	}
	rng = orDefault(rng)

	var game *Game
	switch config.FirstTurn {
	case FirstTurnYou:
		game = NewGameWithPhase(YouPlaceNewPlane, config.RevealKilled, rng)
	case FirstTurnOpponent:
		game = NewGameWithPhase(OpponentPlacesNewPlane, config.RevealKilled, rng)
	default:
		game = NewGame(config.RevealKilled, rng)
	}

	fleet, err := GenerateRandomBoard(rng, config.GenerationRounds)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate opponent fleet: %w", err)
	}
	return game, fleet, nil
}
