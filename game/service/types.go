package service

import (
	"time"

	"github.com/wricardo/battleplanes/game/engine"
)

// Actors recorded in the turn log.
const (
	ActorYou      = "you"
	ActorOpponent = "opponent"
)

// Actions recorded in the turn log.
const (
	ActionPlace   = "place"
	ActionBombard = "bombard"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	GameID         string             `json:"game_id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	View           *GameView          `json:"view"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// BoardView is one board as the player is allowed to see it.
type BoardView struct {
	Planes       []engine.Plane      `json:"planes"`
	KilledPlanes []engine.Plane      `json:"killed_planes"`
	Hits         []engine.Coordinate `json:"hits"`
	Misses       []engine.Coordinate `json:"misses"`
	Kills        []engine.Coordinate `json:"kills"`
	LastError    string              `json:"last_error,omitempty"`
}

// GameView is the player's picture of a match. The opponent's real board is
// never part of it; only the scrapbook of your own shots is.
type GameView struct {
	SessionID          string          `json:"session_id"`
	GameID             string          `json:"game_id"`
	ConfigName         string          `json:"config_name"`
	Phase              engine.GamePlay `json:"phase"`
	YourTurn           bool            `json:"your_turn"`
	GameOver           bool            `json:"game_over"`
	Winner             string          `json:"winner,omitempty"`
	RevealKilled       bool            `json:"reveal_killed"`
	Message            string          `json:"message"`
	PlanesToPlace      int             `json:"planes_to_place"`
	YourPlanesLeft     int             `json:"your_planes_left"`
	OpponentPlanesLeft int             `json:"opponent_planes_left"`
	TurnCount          int             `json:"turn_count"`
	YourBoard          BoardView       `json:"your_board"`
	Scrapbook          BoardView       `json:"scrapbook"`
	YourBoardASCII     []string        `json:"your_board_ascii"`
	ScrapbookASCII     []string        `json:"scrapbook_ascii"`
}

// TurnRecord is one entry of the turn log.
type TurnRecord struct {
	Number      int       `json:"number"`
	Actor       string    `json:"actor"`
	Action      string    `json:"action"`
	Target      string    `json:"target"`
	Orientation string    `json:"orientation,omitempty"`
	PlaneID     int       `json:"plane_id,omitempty"`
	Outcome     string    `json:"outcome,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "plane_placed", "shot", "game_over", "new_game"
	Actor     string    `json:"actor,omitempty"`
	Message   string    `json:"message"`
	Target    string    `json:"target,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TurnResult contains the result of a human action and every opponent move
// played in response to it.
type TurnResult struct {
	Success bool        `json:"success"`
	Outcome string      `json:"outcome,omitempty"`
	PlaneID int         `json:"plane_id,omitempty"`
	Message string      `json:"message"`
	Events  []GameEvent `json:"events"`
	View    *GameView   `json:"view"`
}

// HistoryOptions configures turn history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated turn history
type HistoryResponse struct {
	Turns       []TurnRecord `json:"turns"`
	TotalTurns  int          `json:"total_turns"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
	TotalPages  int          `json:"total_pages"`
	HasNext     bool         `json:"has_next"`
	HasPrevious bool         `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename     string `json:"filename"`
	ConfigID     string `json:"config_id"` // The identifier to use for session creation
	Name         string `json:"name"`      // Display name
	Description  string `json:"description"`
	RevealKilled bool   `json:"reveal_killed"`
	FirstTurn    string `json:"first_turn"`
}
