// Package settings loads process settings for the battleplanes binaries:
// built-in defaults, then an optional battleplanes.json, then BATTLEPLANES_*
// environment variables. Command-line flags are applied on top by main.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the optional settings file looked up in the settings directory.
const FileName = "battleplanes.json"

// EnvPrefix prefixes every environment override, e.g. BATTLEPLANES_STORE_TYPE.
const EnvPrefix = "BATTLEPLANES"

// Session store backends.
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Settings is the full process configuration.
type Settings struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	ConfigDir string `mapstructure:"configDir"`
	LogLevel  string `mapstructure:"logLevel"`
	LogFormat string `mapstructure:"logFormat"`

	Store   StoreSettings   `mapstructure:"store"`
	Session SessionSettings `mapstructure:"session"`
	Ngrok   NgrokSettings   `mapstructure:"ngrok"`
	MCP     MCPSettings     `mapstructure:"mcp"`
}

type StoreSettings struct {
	Type        string `mapstructure:"type"`
	SessionsDir string `mapstructure:"sessionsDir"`
	SQLitePath  string `mapstructure:"sqlitePath"`
	PostgresDSN string `mapstructure:"postgresDSN"`
}

type SessionSettings struct {
	MaxIdle         time.Duration `mapstructure:"maxIdle"`
	CleanupInterval time.Duration `mapstructure:"cleanupInterval"`
	SyncInterval    time.Duration `mapstructure:"syncInterval"`
}

type NgrokSettings struct {
	Enabled   bool   `mapstructure:"enabled"`
	AuthToken string `mapstructure:"authToken"`
	Domain    string `mapstructure:"domain"`
}

// MCPSettings controls the stdio MCP bridge. APIURL is probed first and an
// internal API server is started when nothing answers there.
type MCPSettings struct {
	APIURL string `mapstructure:"apiURL"`
}

// Addr returns host:port.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 8080)
	v.SetDefault("configDir", "configs")
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFormat", "console")

	v.SetDefault("store.type", StoreFile)
	v.SetDefault("store.sessionsDir", "sessions")
	v.SetDefault("store.sqlitePath", "battleplanes.db")
	v.SetDefault("store.postgresDSN", "")

	v.SetDefault("session.maxIdle", "24h")
	v.SetDefault("session.cleanupInterval", "1h")
	v.SetDefault("session.syncInterval", "5s")

	v.SetDefault("ngrok.enabled", false)
	v.SetDefault("ngrok.authToken", "")
	v.SetDefault("ngrok.domain", "")

	v.SetDefault("mcp.apiURL", "http://localhost:8080")
}

// Load reads settings from dir. A missing battleplanes.json is not an error.
func Load(dir string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("json")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks values that would only fail later at startup.
func (s *Settings) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("settings: port %d out of range", s.Port)
	}
	switch s.Store.Type {
	case StoreFile, StoreSQLite:
	case StorePostgres:
		if s.Store.PostgresDSN == "" {
			return fmt.Errorf("settings: store.postgresDSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("settings: unknown store type %q", s.Store.Type)
	}
	if s.Session.MaxIdle <= 0 || s.Session.CleanupInterval <= 0 || s.Session.SyncInterval <= 0 {
		return fmt.Errorf("settings: session intervals must be positive")
	}
	return nil
}
