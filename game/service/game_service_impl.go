package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wricardo/battleplanes/game/engine"
)

// maxOpponentSteps bounds the opponent loop after a human action. A full
// match never needs more than placements plus one shot per cell.
const maxOpponentSteps = 2*engine.CellCount + 2*engine.PlanesPerBoard

// Option configures the game service
type Option func(*gameServiceImpl)

// WithLogger sets the logger used for persistence and opponent warnings
func WithLogger(logger zerolog.Logger) Option {
	return func(s *gameServiceImpl) {
		s.logger = logger
	}
}

// WithRand sets the random source for new matches and opponent shots
func WithRand(rng engine.Rand) Option {
	return func(s *gameServiceImpl) {
		s.rng = rng
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   zerolog.Logger
	rng      engine.Rand
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session and plays the opponent's opening
// placement when it moves first.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configName = s.getConfigID(config.Name)
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", configName, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.Message = config.Messages.Welcome
	s.useRand(sess)
	s.settle(sess)
	s.persist(sess)

	s.logger.Info().Str("session", sess.ID).Str("config", configName).Str("phase", sess.Game.Phase.String()).Msg("session created")
	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information. It takes the write lock because
// touching the session updates LastAccessedAt.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// NewGame replaces the session's match with a fresh one under the same rules.
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string) (*GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	game, fleet, err := engine.NewMatch(sess.Config, s.rng)
	if err != nil {
		return nil, fmt.Errorf("failed to start new game: %w", err)
	}

	previous := sess.GameID
	sess.Game = game
	sess.Fleet = fleet
	sess.GameID = uuid.NewString()
	sess.History = nil
	sess.Message = sess.Config.Messages.Welcome

	s.settle(sess)
	s.persist(sess)

	s.logger.Info().Str("session", sess.ID).Str("previous_game", previous).Str("game", sess.GameID).Msg("new game started")
	return buildView(sess), nil
}

// PlacePlane places one of your planes and lets the opponent answer.
func (s *gameServiceImpl) PlacePlane(ctx context.Context, sessionID, head, orientation string) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := expectPhase(sess.Game, engine.YouPlaceNewPlane); err != nil {
		return nil, err
	}

	planeID, err := sess.Game.BoardYou.AddPlane(head, orientation)
	if err != nil {
		sess.Message = err.Error()
		s.persist(sess)
		return nil, fmt.Errorf("failed to place plane: %w", err)
	}

	placed, _ := sess.Game.BoardYou.FindPlaneByID(planeID)
	s.record(sess, TurnRecord{
		Actor:       ActorYou,
		Action:      ActionPlace,
		Target:      placed.Head.String(),
		Orientation: placed.Orientation.String(),
		PlaneID:     planeID,
	})

	message := fmt.Sprintf("Plane %d placed", planeID)
	if tmpl := sess.Config.Messages.PlanePlaced; tmpl != "" {
		message = fmt.Sprintf(tmpl, planeID)
	}
	sess.Message = message

	events := []GameEvent{newEvent("plane_placed", ActorYou, message, placed.Head.String())}
	sess.Game.Advance()
	s.useRand(sess)
	events = append(events, s.settle(sess)...)
	s.persist(sess)

	return &TurnResult{
		Success: true,
		PlaneID: planeID,
		Message: message,
		Events:  events,
		View:    buildView(sess),
	}, nil
}

// Bombard fires at the opponent's board and lets the opponent answer.
// Unreadable targets come back as a Retry without using the turn.
func (s *gameServiceImpl) Bombard(ctx context.Context, sessionID, target string) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := expectPhase(sess.Game, engine.YouBombard); err != nil {
		return nil, err
	}

	c, err := engine.ParseCoordinate(target)
	if err != nil {
		sess.Message = sess.Config.Messages.Retry
		return &TurnResult{
			Success: false,
			Outcome: engine.Retry.String(),
			Message: sess.Message,
			Events:  []GameEvent{},
			View:    buildView(sess),
		}, nil
	}

	outcome := sess.Game.YouBombardAt(c)
	s.record(sess, TurnRecord{
		Actor:   ActorYou,
		Action:  ActionBombard,
		Target:  c.String(),
		Outcome: outcome.String(),
	})

	message := shotMessage(sess.Config.Messages, outcome, c.String())
	sess.Message = message
	events := []GameEvent{newEvent("shot", ActorYou, message, c.String())}

	sess.Game.Advance()
	s.useRand(sess)
	events = append(events, s.settle(sess)...)
	s.persist(sess)

	return &TurnResult{
		Success: true,
		Outcome: outcome.String(),
		Message: message,
		Events:  events,
		View:    buildView(sess),
	}, nil
}

// GetGameView returns the player's view of the current match
func (s *gameServiceImpl) GetGameView(ctx context.Context, sessionID string) (*GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return buildView(sess), nil
}

// GetHistory returns paginated turn history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.History
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var turns []TurnRecord
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			turns = append(turns, history[i])
		}
	} else if start < total {
		turns = append(turns, history[start:end]...)
	}

	if turns == nil {
		turns = []TurnRecord{}
	}

	return &HistoryResponse{
		Turns:       turns,
		TotalTurns:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// settle plays opponent phases until it is the human's turn or the match
// is over.
func (s *gameServiceImpl) settle(sess *Session) []GameEvent {
	events := []GameEvent{}
	game := sess.Game

	for step := 0; step < maxOpponentSteps && game.Phase.IsOpponentTurn(); step++ {
		switch game.Phase {
		case engine.OpponentPlacesNewPlane:
			planeID, err := game.OpponentPlacesPlane(sess.Fleet)
			if err != nil {
				s.logger.Error().Err(err).Str("session", sess.ID).Msg("opponent could not place a plane")
				return events
			}
			// the opponent's layout stays secret, only the id is logged
			s.record(sess, TurnRecord{Actor: ActorOpponent, Action: ActionPlace, PlaneID: planeID})
			events = append(events, newEvent("plane_placed", ActorOpponent, fmt.Sprintf("Opponent placed plane %d", planeID), ""))

		case engine.OpponentBombards:
			outcome, c, ok := game.OpponentBombards()
			if !ok {
				s.logger.Error().Str("session", sess.ID).Msg("opponent has no cell left to bombard")
				return events
			}
			s.record(sess, TurnRecord{
				Actor:   ActorOpponent,
				Action:  ActionBombard,
				Target:  c.String(),
				Outcome: outcome.String(),
			})
			message := "Opponent: " + shotMessage(sess.Config.Messages, outcome, c.String())
			events = append(events, newEvent("shot", ActorOpponent, message, c.String()))
		}
		game.Advance()
	}

	switch game.Phase {
	case engine.YouWon:
		sess.Message = sess.Config.Messages.YouWon
		events = append(events, newEvent("game_over", ActorYou, sess.Message, ""))
	case engine.OpponentWon:
		sess.Message = sess.Config.Messages.OpponentWon
		events = append(events, newEvent("game_over", ActorOpponent, sess.Message, ""))
	}
	return events
}

func (s *gameServiceImpl) record(sess *Session, rec TurnRecord) {
	rec.Number = len(sess.History) + 1
	rec.Timestamp = time.Now()
	sess.History = append(sess.History, rec)
}

// useRand hands the service's random source to a game restored from storage.
func (s *gameServiceImpl) useRand(sess *Session) {
	if s.rng != nil {
		sess.Game.SetRand(s.rng)
	}
}

func (s *gameServiceImpl) persist(sess *Session) {
	if err := s.sessions.Save(sess.ID); err != nil {
		s.logger.Warn().Err(err).Str("session", sess.ID).Msg("failed to persist session")
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		GameID:         sess.GameID,
		ConfigName:     sess.ConfigName,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		View:           buildView(sess),
		GameConfig:     sess.Config,
	}
}

func expectPhase(game *engine.Game, want engine.GamePlay) error {
	if game.IsOver() {
		return fmt.Errorf("%w: start a new game to play again", ErrGameOver)
	}
	if game.Phase != want {
		return fmt.Errorf("%w: current phase is %s", ErrNotYourTurn, game.Phase)
	}
	return nil
}

func shotMessage(m engine.Messages, outcome engine.Outcome, target string) string {
	switch outcome {
	case engine.Hit:
		return fmt.Sprintf(m.Hit, target)
	case engine.Miss:
		return fmt.Sprintf(m.Miss, target)
	case engine.Kill:
		return fmt.Sprintf(m.Kill, target)
	default:
		return m.Retry
	}
}

func newEvent(kind, actor, message, target string) GameEvent {
	return GameEvent{
		Type:      kind,
		Actor:     actor,
		Message:   message,
		Target:    target,
		Timestamp: time.Now(),
	}
}

func buildView(sess *Session) *GameView {
	game := sess.Game
	view := &GameView{
		SessionID:          sess.ID,
		GameID:             sess.GameID,
		ConfigName:         sess.ConfigName,
		Phase:              game.Phase,
		YourTurn:           game.Phase == engine.YouPlaceNewPlane || game.Phase == engine.YouBombard,
		GameOver:           game.IsOver(),
		RevealKilled:       game.RevealKilled,
		Message:            sess.Message,
		YourPlanesLeft:     game.BoardYou.ActivePlaneCount(),
		OpponentPlanesLeft: game.BoardOpponent.ActivePlaneCount(),
		TurnCount:          len(sess.History),
		YourBoard:          boardView(game.BoardYou),
		Scrapbook:          boardView(game.ScrapbookYou),
		YourBoardASCII:     engine.RenderBoard(game.BoardYou, true),
		ScrapbookASCII:     engine.RenderBoard(game.ScrapbookYou, false),
	}

	switch game.Phase {
	case engine.YouWon:
		view.Winner = ActorYou
	case engine.OpponentWon:
		view.Winner = ActorOpponent
	case engine.YouPlaceNewPlane, engine.OpponentPlacesNewPlane:
		placed := len(game.BoardYou.Planes()) + len(game.BoardYou.KilledPlanes())
		view.PlanesToPlace = max(0, engine.PlanesPerBoard-placed)
	}
	return view
}

func boardView(b *engine.Board) BoardView {
	return BoardView{
		Planes:       orEmpty(b.Planes()),
		KilledPlanes: orEmpty(b.KilledPlanes()),
		Hits:         orEmpty(b.Hits()),
		Misses:       orEmpty(b.Misses()),
		Kills:        orEmpty(b.Kills()),
		LastError:    b.LastError(),
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
