// Command battleplanes starts the Battleplanes game server.
//
// It supports three modes:
//  1. "server" (default) runs the HTTP server exposing the REST API, WebSocket updates and an /mcp endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "console" plays one match in the terminal against the in-process engine
//
// Settings come from battleplanes.json and BATTLEPLANES_* variables; flags
// override both. A .env file in the working directory is loaded first.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"gorm.io/gorm"

	"github.com/wricardo/battleplanes/api"
	"github.com/wricardo/battleplanes/game/config"
	"github.com/wricardo/battleplanes/game/service"
	"github.com/wricardo/battleplanes/game/session"
	"github.com/wricardo/battleplanes/internal/logging"
	"github.com/wricardo/battleplanes/internal/settings"
	"github.com/wricardo/battleplanes/transport/console"
	"github.com/wricardo/battleplanes/transport/mcp"
	"github.com/wricardo/battleplanes/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Battleplanes Server"
)

func main() {
	// .env is optional
	envErr := godotenv.Load()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if envErr != nil && !os.IsNotExist(envErr) {
		fmt.Fprintf(os.Stderr, "warning: error loading .env file: %v\n", envErr)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "battleplanes",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "settings-dir", Value: ".", Usage: "directory containing " + settings.FileName, Sources: cli.EnvVars("BATTLEPLANES_SETTINGS_DIR")},
			&cli.StringFlag{Name: "host", Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Usage: "HTTP server port"},
			&cli.StringFlag{Name: "config-dir", Usage: "directory containing game presets", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Usage: "console or json"},
			&cli.BoolFlag{Name: "debug", Usage: "shortcut for --log-level debug"},
			&cli.StringFlag{Name: "store", Usage: "session store: file, sqlite or postgres"},
			&cli.StringFlag{Name: "sessions-dir", Usage: "directory for the file store"},
			&cli.StringFlag{Name: "sqlite-path", Usage: "database file for the sqlite store"},
			&cli.StringFlag{Name: "postgres-dsn", Usage: "connection string for the postgres store", Sources: cli.EnvVars("DATABASE_URL")},
			&cli.BoolFlag{Name: "ngrok", Usage: "enable an ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain", Sources: cli.EnvVars("NGROK_DOMAIN")},
			&cli.StringFlag{Name: "api-url", Usage: "REST API the mcp command tries before starting its own"},
		},
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "run the HTTP server with REST API, WebSocket and MCP endpoint",
				Action:  runServer,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run an MCP stdio server",
				Action:  runMCP,
			},
			{
				Name:  "console",
				Usage: "play one match in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "preset", Usage: "preset to play (default preset when empty)"},
				},
				Action: runConsole,
			},
		},
		Action: runServer,
	}
}

// loadSettings reads the settings file and environment, then applies flags.
func loadSettings(cmd *cli.Command) (*settings.Settings, error) {
	s, err := settings.Load(cmd.String("settings-dir"))
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"host":         &s.Host,
		"config-dir":   &s.ConfigDir,
		"log-level":    &s.LogLevel,
		"log-format":   &s.LogFormat,
		"store":        &s.Store.Type,
		"sessions-dir": &s.Store.SessionsDir,
		"sqlite-path":  &s.Store.SQLitePath,
		"postgres-dsn": &s.Store.PostgresDSN,
		"ngrok-auth":   &s.Ngrok.AuthToken,
		"ngrok-domain": &s.Ngrok.Domain,
		"api-url":      &s.MCP.APIURL,
	}
	for name, target := range overrides {
		if cmd.IsSet(name) {
			*target = cmd.String(name)
		}
	}
	if cmd.IsSet("port") {
		s.Port = cmd.Int("port")
	}
	if cmd.IsSet("ngrok") {
		s.Ngrok.Enabled = cmd.Bool("ngrok")
	}
	if cmd.Bool("debug") {
		s.LogLevel = "debug"
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// app is everything the commands share.
type app struct {
	settings    *settings.Settings
	logger      zerolog.Logger
	game        service.GameService
	sessions    *session.Manager
	persistence session.SessionPersistence
	close       func() error
}

// setup loads settings, builds the logger and wires the services. quiet
// lowers the default log level to warn.
func setup(cmd *cli.Command, quiet bool) (*app, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	if quiet && !cmd.IsSet("log-level") && !cmd.Bool("debug") {
		s.LogLevel = "warn"
	}
	logger, err := logging.New(s.LogLevel, s.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}
	return initializeServices(s, logger)
}

// initializeServices wires session/config managers, the session store and
// the game service, and restores persisted sessions.
func initializeServices(s *settings.Settings, logger zerolog.Logger) (*app, error) {
	configManager, err := config.NewManager(s.ConfigDir, config.WithLogger(logging.Component(logger, "config")))
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, closeStore, err := openPersistence(s.Store, logging.Component(logger, "store"))
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManager(
		session.WithPersistence(persistence),
		session.WithLogger(logging.Component(logger, "sessions")),
	)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		logger.Warn().Err(err).Msg("failed to load persisted sessions")
	}

	gameService := service.NewGameService(sessionManager, configManager,
		service.WithLogger(logging.Component(logger, "game")))

	return &app{
		settings:    s,
		logger:      logger,
		game:        gameService,
		sessions:    sessionManager,
		persistence: persistence,
		close:       closeStore,
	}, nil
}

// openPersistence opens the configured session store. The returned func
// releases it.
func openPersistence(store settings.StoreSettings, logger zerolog.Logger) (session.SessionPersistence, func() error, error) {
	noop := func() error { return nil }

	var db *gorm.DB
	var err error
	switch store.Type {
	case settings.StoreFile:
		fp, err := session.NewFilePersistence(store.SessionsDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("dir", store.SessionsDir).Msg("using file session store")
		return fp, noop, nil
	case settings.StoreSQLite:
		db, err = session.OpenSQLite(store.SQLitePath)
	case settings.StorePostgres:
		db, err = session.OpenPostgres(store.PostgresDSN)
	default:
		return nil, nil, fmt.Errorf("unknown store type %q", store.Type)
	}
	if err != nil {
		return nil, nil, err
	}

	gp, err := session.NewGormPersistence(db, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Str("type", store.Type).Msg("using database session store")

	return gp, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within maxIdle.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxIdle time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxIdle); removed > 0 {
				logger.Info().Int("removed", removed).Msg("cleaned up expired sessions")
			}
		}
	}
}

// persistenceSyncRoutine drops sessions from memory whose stored copy was
// deleted behind the server's back.
func persistenceSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence, interval time.Duration, logger zerolog.Logger) {
	if persistence == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruned := syncWithStore(manager, persistence, logger)
			if pruned > 0 {
				logger.Info().Int("pruned", pruned).Msg("store sync pruned orphaned sessions")
			}
		}
	}
}

func syncWithStore(manager *session.Manager, persistence session.SessionPersistence, logger zerolog.Logger) int {
	pruned := 0
	for _, sess := range manager.List() {
		if persistence.Exists(sess.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			logger.Debug().Str("session", sess.ID).Msg("pruned session missing from store")
		}
	}
	return pruned
}

// startBackground runs the cleanup and sync routines until ctx is done.
func (a *app) startBackground(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(2)
	go func() {
		defer wg.Done()
		sessionCleanupRoutine(ctx, a.sessions, a.settings.Session.CleanupInterval, a.settings.Session.MaxIdle, a.logger)
	}()
	go func() {
		defer wg.Done()
		persistenceSyncRoutine(ctx, a.sessions, a.persistence, a.settings.Session.SyncInterval, a.logger)
	}()
}

// shutdown flushes sessions and closes the store.
func (a *app) shutdown() {
	if err := a.sessions.SaveAllSessions(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to save sessions on shutdown")
	}
	if err := a.close(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to close session store")
	}
}

// mcpHandler serves one JSON-RPC message per POST.
func mcpHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newHandler combines the REST API, WebSocket updates and the /mcp endpoint.
func newHandler(gameService service.GameService, hub *websocket.Hub, baseURL string, logger zerolog.Logger) http.Handler {
	apiServer := api.NewServer(gameService, hub, api.WithLogger(logging.Component(logger, "api")))
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient.GetMCPServer()))
	return mainRouter
}

// runServer starts the HTTP server with REST API, WebSocket hub and an /mcp
// proxy endpoint, plus an ngrok tunnel when enabled.
func runServer(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer a.shutdown()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	a.startBackground(ctx, &wg)

	hub := websocket.NewHub(websocket.WithLogger(logging.Component(a.logger, "ws")))
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	addr := a.settings.Addr()
	handler := newHandler(a.game, hub, "http://"+addr, a.logger)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info().
			Str("addr", addr).
			Str("api", "http://"+addr+"/api").
			Str("ws", "ws://"+addr+"/ws?session=<session_id>").
			Str("mcp", "http://"+addr+"/mcp").
			Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if a.settings.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, a.settings.Ngrok, handler, a.logger)
		}()
	}

	select {
	case <-ctx.Done():
		a.logger.Info().Msg("shutting down")
	case err, ok := <-serveErr:
		if ok {
			stop()
			wg.Wait()
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	a.logger.Info().Msg("server stopped")
	return nil
}

// runNgrok serves handler through an ngrok tunnel until ctx is done.
func runNgrok(ctx context.Context, cfg settings.NgrokSettings, handler http.Handler, logger zerolog.Logger) {
	if cfg.AuthToken == "" {
		logger.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if cfg.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.Domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.AuthToken))
	if err != nil {
		logger.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	ngrokURL := tun.URL()
	logger.Info().
		Str("url", ngrokURL).
		Str("api", ngrokURL+"/api").
		Str("mcp", ngrokURL+"/mcp").
		Msg("ngrok tunnel established")

	srv := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("ngrok server error")
	}
	logger.Info().Msg("ngrok tunnel closed")
}

// apiAvailable reports whether a REST API answers at baseURL.
func apiAvailable(ctx context.Context, baseURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api", nil)
	if err != nil {
		return false
	}
	resp, err := (&http.Client{Timeout: 2 * time.Second}).Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// runMCP runs an MCP stdio server. It reuses the API at the configured URL
// when one answers, otherwise it starts an internal API on a random loopback
// port.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer a.shutdown()

	baseURL := a.settings.MCP.APIURL
	if apiAvailable(ctx, baseURL) {
		a.logger.Info().Str("url", baseURL).Msg("using external API server for MCP")
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		internal := &http.Server{Handler: api.NewServer(a.game, nil, api.WithLogger(logging.Component(a.logger, "api")))}
		go func() {
			if err := internal.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer internal.Close()

		a.logger.Info().Str("url", baseURL).Msg("started internal API server for MCP")
	}

	mcpClient := mcp.NewClient(baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runConsole plays one match on stdin/stdout.
func runConsole(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer a.shutdown()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return console.Run(ctx, a.game, cmd.String("preset"), os.Stdin, os.Stdout, console.WithLogger(logging.Component(a.logger, "console")))
}
