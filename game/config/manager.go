package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wricardo/battleplanes/game/engine"
	"github.com/wricardo/battleplanes/game/service"
)

var (
	ErrConfigNotFound    = service.ErrConfigNotFound
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvalidConfigName = errors.New("invalid configuration name")
)

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used to report presets that fail to load
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager handles rule preset loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	logger        zerolog.Logger
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string, opts ...Option) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.defaultConfig = m.resolveDefault()
	return m, nil
}

// LoadConfig loads a configuration by name
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	name = strings.TrimSuffix(name, ".json")
	if err := checkName(name); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	config, err := m.readConfig(name)
	if err != nil {
		return nil, err
	}
	m.configs[name] = config
	return config, nil
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		config, err := m.LoadConfig(name)
		if err != nil {
			m.logger.Warn().Err(err).Str("config", name).Msg("skipping invalid preset")
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:     entry.Name(),
			ConfigID:     name, // This is the identifier to use for session creation
			Name:         config.Name,
			Description:  config.Description,
			RevealKilled: config.RevealKilled,
			FirstTurn:    config.FirstTurn,
		})
	}

	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops every cached preset and re-resolves the default
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	config := m.resolveDefault()

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
}

// SaveConfig validates a configuration and writes it to disk
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	name = strings.TrimSuffix(name, ".json")
	if err := checkName(name); err != nil {
		return err
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, name+".json")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}

// resolveDefault prefers classic.json, then the first valid preset, then the
// built-in rules.
func (m *Manager) resolveDefault() *engine.GameConfig {
	if config, err := m.LoadConfig("classic"); err == nil {
		return config
	}

	configs, err := m.ListConfigs()
	if err != nil || len(configs) == 0 {
		return engine.DefaultGameConfig()
	}
	config, err := m.LoadConfig(configs[0].ConfigID)
	if err != nil {
		return engine.DefaultGameConfig()
	}
	return config
}

func (m *Manager) readConfig(name string) (*engine.GameConfig, error) {
	config, err := engine.LoadGameConfig(filepath.Join(m.configDir, name+".json"))
	switch {
	case err == nil:
		return config, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, ErrConfigNotFound
	case errors.Is(err, engine.ErrInvalidConfig):
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	default:
		return nil, err
	}
}

// checkName keeps preset names inside the config directory.
func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidConfigName, name)
	}
	return nil
}
