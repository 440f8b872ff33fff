package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/battleplanes/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrGameOver        = errors.New("game is over")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	NewGame(ctx context.Context, sessionID string) (*GameView, error)
	PlacePlane(ctx context.Context, sessionID, head, orientation string) (*TurnResult, error)
	Bombard(ctx context.Context, sessionID, target string) (*TurnResult, error)

	// Game State
	GetGameView(ctx context.Context, sessionID string) (*GameView, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations. Create builds a fresh
// match from the config.
type SessionManager interface {
	Create(id, configName string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, configName string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session. Fleet holds the opponent's
// pre-generated planes, copied onto its board one per placement turn.
type Session struct {
	ID             string
	GameID         string
	ConfigName     string
	Game           *engine.Game
	Fleet          *engine.Board
	Config         *engine.GameConfig
	History        []TurnRecord
	Message        string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
