package session

import (
	"errors"
	"strings"
	"time"

	"github.com/wricardo/battleplanes/game/engine"
	"github.com/wricardo/battleplanes/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// storageKey is the key a session is stored under. Session IDs are
// case-insensitive, so every store keys on the lower-cased ID.
func storageKey(id string) string {
	return strings.ToLower(id)
}

// PersistedSessionData is the stored form of a session. The rules are kept
// with the match so edits to a preset file never change a game in progress.
type PersistedSessionData struct {
	ID             string               `json:"id"`
	GameID         string               `json:"game_id"`
	ConfigName     string               `json:"config_name"`
	Config         *engine.GameConfig   `json:"config"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	Message        string               `json:"message"`
	Game           *engine.Game         `json:"game_state"`
	Fleet          *engine.Board        `json:"opponent_fleet"`
	History        []service.TurnRecord `json:"history"`
}

func newPersistedData(s *service.Session) PersistedSessionData {
	return PersistedSessionData{
		ID:             s.ID,
		GameID:         s.GameID,
		ConfigName:     s.ConfigName,
		Config:         s.Config,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt,
		Message:        s.Message,
		Game:           s.Game,
		Fleet:          s.Fleet,
		History:        s.History,
	}
}

func (d PersistedSessionData) toSession() (*service.Session, error) {
	if d.Game == nil || d.Fleet == nil {
		return nil, errors.New("persisted session has no game state")
	}
	for _, b := range []*engine.Board{d.Game.BoardYou, d.Game.BoardOpponent, d.Game.ScrapbookYou, d.Game.ScrapbookOpponent} {
		if b == nil {
			return nil, errors.New("persisted session is missing a board")
		}
	}
	config := d.Config
	if config == nil {
		config = engine.DefaultGameConfig()
	}

	return &service.Session{
		ID:             d.ID,
		GameID:         d.GameID,
		ConfigName:     d.ConfigName,
		Game:           d.Game,
		Fleet:          d.Fleet,
		Config:         config,
		History:        d.History,
		Message:        d.Message,
		CreatedAt:      d.CreatedAt,
		LastAccessedAt: d.LastAccessedAt,
	}, nil
}
