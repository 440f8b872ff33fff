package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost", s.Host)
	assert.Equal(t, 8080, s.Port)
	assert.Equal(t, "localhost:8080", s.Addr())
	assert.Equal(t, "configs", s.ConfigDir)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat)
	assert.Equal(t, StoreFile, s.Store.Type)
	assert.Equal(t, "sessions", s.Store.SessionsDir)
	assert.Equal(t, "battleplanes.db", s.Store.SQLitePath)
	assert.Equal(t, 24*time.Hour, s.Session.MaxIdle)
	assert.Equal(t, time.Hour, s.Session.CleanupInterval)
	assert.Equal(t, 5*time.Second, s.Session.SyncInterval)
	assert.False(t, s.Ngrok.Enabled)
	assert.Equal(t, "http://localhost:8080", s.MCP.APIURL)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := `{
		"port": 9090,
		"logLevel": "debug",
		"store": { "type": "sqlite", "sqlitePath": "/tmp/bp.db" },
		"session": { "maxIdle": "2h" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(cfg), 0644))

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, s.Port)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, StoreSQLite, s.Store.Type)
	assert.Equal(t, "/tmp/bp.db", s.Store.SQLitePath)
	assert.Equal(t, 2*time.Hour, s.Session.MaxIdle)
	assert.Equal(t, time.Hour, s.Session.CleanupInterval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"port": 9090}`), 0644))

	t.Setenv("BATTLEPLANES_PORT", "7070")
	t.Setenv("BATTLEPLANES_STORE_TYPE", "postgres")
	t.Setenv("BATTLEPLANES_STORE_POSTGRESDSN", "postgres://u:p@localhost/bp")
	t.Setenv("BATTLEPLANES_NGROK_ENABLED", "true")

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, s.Port)
	assert.Equal(t, StorePostgres, s.Store.Type)
	assert.Equal(t, "postgres://u:p@localhost/bp", s.Store.PostgresDSN)
	assert.True(t, s.Ngrok.Enabled)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"port":`), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading settings file")
}

func TestValidate(t *testing.T) {
	valid := func() *Settings {
		s, err := Load(t.TempDir())
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name   string
		mutate func(*Settings)
		errMsg string
	}{
		{"valid", func(*Settings) {}, ""},
		{"port out of range", func(s *Settings) { s.Port = 70000 }, "out of range"},
		{"unknown store", func(s *Settings) { s.Store.Type = "redis" }, "unknown store type"},
		{"postgres without dsn", func(s *Settings) { s.Store.Type = StorePostgres }, "postgresDSN"},
		{"zero interval", func(s *Settings) { s.Session.SyncInterval = 0 }, "positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := s.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
