package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/battleplanes/game/engine"
)

func createTestConfig() *engine.GameConfig {
	config := engine.DefaultGameConfig()
	config.Name = "Test Config"
	config.FirstTurn = engine.FirstTurnYou
	return config
}

func TestManager_Create(t *testing.T) {
	manager := NewManager(WithRand(engine.NewSeededRand(1)))
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", "test", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.ConfigName != "test" {
			t.Errorf("Expected config name 'test', got '%s'", session.ConfigName)
		}
		if session.Game == nil || session.Fleet == nil {
			t.Fatal("Expected game and opponent fleet to be initialized")
		}
		if !session.Fleet.IsFullyPlaced() {
			t.Error("Expected opponent fleet to be fully generated")
		}
		if session.Game.Phase != engine.YouPlaceNewPlane {
			t.Errorf("Expected phase %s, got %s", engine.YouPlaceNewPlane, session.Game.Phase)
		}
		if session.GameID == "" {
			t.Error("Expected a game ID")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", "test", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %q", session.ID)
		}
	})

	t.Run("nil config uses default rules", func(t *testing.T) {
		session, err := manager.Create("nil-config", "", nil)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.Config == nil || session.Config.Name != "default" {
			t.Errorf("Expected default config, got %+v", session.Config)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", "test", config)
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", "test", config)
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid IDs", func(t *testing.T) {
		for _, id := range []string{"../etc", "a b", "x/y", string(make([]byte, 65))} {
			_, err := manager.Create(id, "test", config)
			if !errors.Is(err, ErrInvalidSessionID) {
				t.Errorf("Create(%q): expected ErrInvalidSessionID, got %v", id, err)
			}
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	created, _ := manager.Create("get-test", "test", config)

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Errorf("Expected the created session, got %s", session.ID)
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	first, err := manager.GetOrCreate("new-session", "test", config)
	if err != nil {
		t.Fatalf("Failed to get or create session: %v", err)
	}
	if first.ID != "new-session" {
		t.Errorf("Expected session ID 'new-session', got '%s'", first.ID)
	}

	second, err := manager.GetOrCreate("new-session", "test", config)
	if err != nil {
		t.Fatalf("Failed to get existing session: %v", err)
	}
	if second != first {
		t.Error("Expected GetOrCreate to return the existing session")
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", manager.Count())
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	manager.Create("delete-test", "test", config)

	t.Run("delete existing session", func(t *testing.T) {
		if err := manager.Delete("delete-test"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if _, err := manager.Get("delete-test"); err != ErrSessionNotFound {
			t.Error("Expected session to be deleted")
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		if err := manager.Delete("non-existent"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-test", "test", config)
		if err := manager.Delete("CASE-TEST"); err != nil {
			t.Fatalf("Failed to delete with different case: %v", err)
		}
		if _, err := manager.Get("case-test"); err != ErrSessionNotFound {
			t.Error("Expected session to be deleted regardless of case")
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	ids := []string{"list-1", "list-2", "list-3"}
	for _, id := range ids {
		if _, err := manager.Create(id, "test", config); err != nil {
			t.Fatalf("Failed to create %s: %v", id, err)
		}
	}

	found := make(map[string]bool)
	for _, s := range manager.List() {
		found[s.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			t.Errorf("Session %s not found in list", id)
		}
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	active, _ := manager.Create("active", "test", config)
	expired, _ := manager.Create("expired", "test", config)

	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	if removed := manager.CleanupExpiredSessions(time.Hour); removed != 1 {
		t.Errorf("Expected 1 session to be removed, got %d", removed)
	}
	if _, err := manager.Get("expired"); err != ErrSessionNotFound {
		t.Error("Expected expired session to be removed")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("access-test", "test", createTestConfig())
	original := session.LastAccessedAt

	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("access-test"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	updated, _ := manager.Get("access-test")
	if !updated.LastAccessedAt.After(original) {
		t.Error("Expected LastAccessedAt to be updated")
	}

	if err := manager.UpdateLastAccessed("missing"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", n%50)
			if _, err := manager.GetOrCreate(id, "test", config); err != nil && err != ErrSessionAlreadyExists {
				errs <- err
			}
			manager.Get(id)
			manager.List()
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session1, _ := manager.Create("iso-1", "test", config)
	session2, _ := manager.Create("iso-2", "test", config)

	if _, err := session1.Game.BoardYou.AddPlane("C1", "N"); err != nil {
		t.Fatalf("AddPlane failed: %v", err)
	}

	if session2.Game.BoardYou.ActivePlaneCount() != 0 {
		t.Error("Session 2 should not be affected by placements in session 1")
	}
	if session1.GameID == session2.GameID {
		t.Error("Sessions should have distinct game IDs")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	generated := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := manager.Create("", "test", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if generated[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generated[session.ID] = true

		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %q", session.ID)
		}
	}
}

func TestValidSessionID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"a1b2", true},
		{"my_game-2", true},
		{"", false},
		{"..", false},
		{"a/b", false},
		{"a.json", false},
	}

	for _, tt := range tests {
		if got := validSessionID(tt.id); got != tt.want {
			t.Errorf("validSessionID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
