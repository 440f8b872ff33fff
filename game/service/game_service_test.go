package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/battleplanes/game/engine"
	"github.com/wricardo/battleplanes/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	seed     uint64
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id, configName string, config *engine.GameConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	m.seed++
	game, fleet, err := engine.NewMatch(config, engine.NewSeededRand(m.seed))
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		GameID:         uuid.NewString(),
		ConfigName:     configName,
		Game:           game,
		Fleet:          fleet,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id, configName string, config *engine.GameConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, configName, config)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func testConfig(firstTurn string) *engine.GameConfig {
	return &engine.GameConfig{
		Name:             "test",
		Description:      "Test configuration",
		RevealKilled:     true,
		FirstTurn:        firstTurn,
		GenerationRounds: 1000,
		Messages: engine.Messages{
			Welcome:     "Welcome to test!",
			PlanePlaced: "Plane %d is ready",
			Hit:         "Hit %s",
			Miss:        "Miss %s",
			Kill:        "Kill %s",
			Retry:       "Retry please",
			YouWon:      "You won!",
			OpponentWon: "You lost!",
		},
	}
}

func NewMockConfigManager() *MockConfigManager {
	defaultConfig := testConfig(engine.FirstTurnYou)
	opponentFirst := testConfig(engine.FirstTurnOpponent)
	opponentFirst.Name = "opponent first"

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"test":     defaultConfig,
			"default":  defaultConfig,
			"opponent": opponentFirst,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, service.ErrConfigNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:     name + ".json",
			ConfigID:     name,
			Name:         config.Name,
			Description:  config.Description,
			RevealKilled: config.RevealKilled,
			FirstTurn:    config.FirstTurn,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["default"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	m.configs[name] = config
	return nil
}

func newTestService() (service.GameService, *MockSessionManager) {
	sessions := NewMockSessionManager()
	svc := service.NewGameService(sessions, NewMockConfigManager(), service.WithRand(engine.NewSeededRand(99)))
	return svc, sessions
}

// placeFleet places the standard three planes, reaching the bombard phase.
func placeFleet(t *testing.T, svc service.GameService, sessionID string) {
	t.Helper()
	for _, head := range []string{"C1", "H1", "C6"} {
		if _, err := svc.PlacePlane(context.Background(), sessionID, head, "N"); err != nil {
			t.Fatalf("PlacePlane(%s) failed: %v", head, err)
		}
	}
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	tests := []struct {
		name       string
		configName string
		wantErr    bool
	}{
		{
			name:       "create with default config",
			configName: "",
			wantErr:    false,
		},
		{
			name:       "create with specific config",
			configName: "test",
			wantErr:    false,
		},
		{
			name:       "create with invalid config",
			configName: "nonexistent",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.configName)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateSession() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, service.ErrConfigNotFound) {
					t.Errorf("expected ErrConfigNotFound, got %v", err)
				}
				return
			}
			if session == nil || session.View == nil {
				t.Fatal("CreateSession() returned nil session or view")
			}
			if session.View.Phase != engine.YouPlaceNewPlane {
				t.Errorf("phase = %v, want you_place_new_plane", session.View.Phase)
			}
			if session.View.Message != "Welcome to test!" {
				t.Errorf("message = %q", session.View.Message)
			}
		})
	}
}

func TestGameService_CreateSession_OpponentFirst(t *testing.T) {
	svc, _ := newTestService()

	info, err := svc.CreateSession(context.Background(), "opponent")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.View.Phase != engine.YouPlaceNewPlane {
		t.Errorf("opponent should have placed already, phase = %v", info.View.Phase)
	}
	if info.View.TurnCount != 1 {
		t.Errorf("turn count = %d, want 1", info.View.TurnCount)
	}
	if info.ConfigName != "opponent" {
		t.Errorf("config name = %q", info.ConfigName)
	}
}

func TestGameService_PlacePlane(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	info, _ := svc.CreateSession(ctx, "test")

	result, err := svc.PlacePlane(ctx, info.ID, "C1", "N")
	if err != nil {
		t.Fatalf("PlacePlane failed: %v", err)
	}
	if !result.Success || result.PlaneID != 1 {
		t.Errorf("result = %+v", result)
	}
	if result.Message != "Plane 1 is ready" {
		t.Errorf("message = %q", result.Message)
	}
	if len(result.Events) != 2 {
		t.Errorf("expected your placement and the opponent's, got %d events", len(result.Events))
	}
	if result.View.Phase != engine.YouPlaceNewPlane {
		t.Errorf("phase = %v", result.View.Phase)
	}
	if result.View.PlanesToPlace != 2 {
		t.Errorf("planes to place = %d, want 2", result.View.PlanesToPlace)
	}

	_, err = svc.PlacePlane(ctx, info.ID, "A1", "N")
	if !errors.Is(err, engine.ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	view, _ := svc.GetGameView(ctx, info.ID)
	if view.YourBoard.LastError == "" {
		t.Error("rejected placement should leave a last error on your board")
	}

	_, err = svc.PlacePlane(ctx, info.ID, "D1", "N")
	if !errors.Is(err, engine.ErrOverlap) {
		t.Errorf("expected ErrOverlap, got %v", err)
	}
}

func TestGameService_PhaseErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	info, _ := svc.CreateSession(ctx, "test")

	if _, err := svc.Bombard(ctx, info.ID, "E5"); !errors.Is(err, service.ErrNotYourTurn) {
		t.Errorf("bombard during placement: got %v, want ErrNotYourTurn", err)
	}

	placeFleet(t, svc, info.ID)

	if _, err := svc.PlacePlane(ctx, info.ID, "H6", "N"); !errors.Is(err, service.ErrNotYourTurn) {
		t.Errorf("placement during bombardment: got %v, want ErrNotYourTurn", err)
	}
	if _, err := svc.PlacePlane(ctx, "nope", "H6", "N"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("unknown session: got %v, want ErrSessionNotFound", err)
	}
}

func TestGameService_BombardRetry(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	info, _ := svc.CreateSession(ctx, "test")
	placeFleet(t, svc, info.ID)

	result, err := svc.Bombard(ctx, info.ID, "Z99")
	if err != nil {
		t.Fatalf("Bombard returned error: %v", err)
	}
	if result.Success || result.Outcome != "Retry" {
		t.Errorf("result = %+v, want unsuccessful Retry", result)
	}
	if result.Message != "Retry please" {
		t.Errorf("message = %q", result.Message)
	}
	if result.View.Phase != engine.YouBombard {
		t.Errorf("Retry must not pass the turn, phase = %v", result.View.Phase)
	}
}

func TestGameService_PlayToVictory(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newTestService()
	info, _ := svc.CreateSession(ctx, "test")
	placeFleet(t, svc, info.ID)

	view, _ := svc.GetGameView(ctx, info.ID)
	if view.Phase != engine.YouBombard {
		t.Fatalf("phase after placement = %v, want you_bombard", view.Phase)
	}
	if len(view.Scrapbook.Planes) != 0 {
		t.Error("scrapbook must not show active enemy planes")
	}

	var last *service.TurnResult
	for _, plane := range sessions.sessions[info.ID].Fleet.Planes() {
		result, err := svc.Bombard(ctx, info.ID, plane.Head.String())
		if err != nil {
			t.Fatalf("Bombard(%s) failed: %v", plane.Head, err)
		}
		if result.Outcome != "Kill" {
			t.Errorf("Bombard(%s) outcome = %s, want Kill", plane.Head, result.Outcome)
		}
		last = result
	}

	if !last.View.GameOver || last.View.Winner != service.ActorYou {
		t.Fatalf("expected you to win, view = %+v", last.View)
	}
	if last.View.Message != "You won!" {
		t.Errorf("message = %q", last.View.Message)
	}
	if len(last.View.Scrapbook.KilledPlanes) != engine.PlanesPerBoard {
		t.Errorf("revealed planes = %d", len(last.View.Scrapbook.KilledPlanes))
	}

	if _, err := svc.Bombard(ctx, info.ID, "A1"); !errors.Is(err, service.ErrGameOver) {
		t.Errorf("bombard after victory: got %v, want ErrGameOver", err)
	}

	fresh, err := svc.NewGame(ctx, info.ID)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if fresh.GameID == last.View.GameID {
		t.Error("new game should get a new game id")
	}
	if fresh.GameOver || fresh.TurnCount != 0 {
		t.Errorf("new game view = %+v", fresh)
	}
}

func TestGameService_GetHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	info, _ := svc.CreateSession(ctx, "test")
	placeFleet(t, svc, info.ID)

	tests := []struct {
		name      string
		sessionID string
		opts      service.HistoryOptions
		wantTurns int
		wantErr   bool
	}{
		{
			name:      "default options",
			sessionID: info.ID,
			opts:      service.HistoryOptions{},
			wantTurns: 6,
		},
		{
			name:      "with pagination",
			sessionID: info.ID,
			opts:      service.HistoryOptions{Page: 2, Limit: 4, Order: "asc"},
			wantTurns: 2,
		},
		{
			name:      "invalid session",
			sessionID: "nonexistent",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetHistory(ctx, tt.sessionID, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetHistory() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(result.Turns) != tt.wantTurns {
				t.Errorf("got %d turns, want %d", len(result.Turns), tt.wantTurns)
			}
			if result.TotalTurns != 6 {
				t.Errorf("total turns = %d, want 6", result.TotalTurns)
			}
		})
	}

	result, _ := svc.GetHistory(ctx, info.ID, service.HistoryOptions{Order: "asc"})
	for _, turn := range result.Turns {
		if turn.Actor == service.ActorOpponent && turn.Target != "" {
			t.Errorf("opponent placement leaked its head: %+v", turn)
		}
	}
	if first := result.Turns[0]; first.Number != 1 || first.Actor != service.ActorYou || first.Target != "C1" {
		t.Errorf("first turn = %+v", first)
	}

	desc, _ := svc.GetHistory(ctx, info.ID, service.HistoryOptions{})
	if desc.Turns[0].Number != 6 {
		t.Errorf("descending history should start with turn 6, got %d", desc.Turns[0].Number)
	}
}

func TestGameService_ListAndDeleteSessions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	var ids []string
	for i := 0; i < 3; i++ {
		info, err := svc.CreateSession(ctx, "test")
		if err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
		ids = append(ids, info.ID)
	}

	sessionList, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessionList) != 3 {
		t.Errorf("ListSessions() returned %d sessions, want 3", len(sessionList))
	}

	if err := svc.DeleteSession(ctx, ids[0]); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, ids[0]); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("deleted session: got %v, want ErrSessionNotFound", err)
	}
}

func TestGameService_Configs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 3 {
		t.Fatalf("ListConfigs() = %d, %v", len(configs), err)
	}

	custom := testConfig(engine.FirstTurnRandom)
	custom.Name = "custom"
	if err := svc.SaveConfig(ctx, "custom", custom); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := svc.LoadConfig(ctx, "custom")
	if err != nil || loaded.Name != "custom" {
		t.Errorf("LoadConfig() = %v, %v", loaded, err)
	}
}

// Run with -race: reads that touch LastAccessedAt must not overlap.
func TestGameService_ConcurrentReads(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	info, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8*50*3)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if _, err := svc.GetSession(ctx, info.ID); err != nil {
					errs <- err
				}
				if _, err := svc.GetGameView(ctx, info.ID); err != nil {
					errs <- err
				}
				if _, err := svc.ListSessions(ctx); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent read failed: %v", err)
	}
}
