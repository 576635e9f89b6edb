package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"allma-client/internal/api"
	"allma-client/internal/backend"
	"allma-client/internal/config"
	"allma-client/internal/database"
	"allma-client/internal/model"
	"allma-client/internal/service"
	"allma-client/internal/state"
	"allma-client/internal/store"
)

const shutdownTimeout = 10 * time.Second

// App holds the wired application: the store, the in-memory state and the
// services on top of it. It is shared by the server and the CLI commands.
type App struct {
	Config      *config.Config
	Store       store.Store
	Bus         *state.Bus
	Registry    *state.Registry
	Preferences *state.Preferences

	Chat          *service.ChatService
	Conversations *service.ConversationService
	Settings      *service.SettingsService
	Documents     *service.DocumentService
	Models        *service.ModelService
	State         *service.StateService

	persister *state.Persister
	detach    func()
	closers   []func() error
}

// New opens the configured store, restores the persisted state and wires the
// services. Close must be called to flush and release the store.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Bus: state.NewBus()}

	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Store = st

	defaults := model.Settings{
		Model:          cfg.DefaultModel,
		EmbeddingModel: cfg.DefaultEmbeddingModel,
		UseRAG:         true,
		TopK:           5,
		APIURL:         cfg.APIURL,
	}
	reg, prefs, needsWrite := state.LoadState(ctx, st, a.Bus, defaults)
	a.Registry, a.Preferences = reg, prefs

	a.persister = state.NewPersister(context.WithoutCancel(ctx), st, reg, prefs)
	a.detach = a.persister.Attach(a.Bus)
	if needsWrite {
		if err := a.persister.Flush(); err != nil {
			slog.Warn("Failed to write initial state", "error", err)
		}
	}

	client := backend.NewHTTPClient(&http.Client{Timeout: cfg.RequestTimeout})
	a.Chat = service.NewChatService(reg, prefs, client, a.Bus)
	a.Conversations = service.NewConversationService(reg, prefs, client)
	a.Settings = service.NewSettingsService(prefs, client)
	a.Documents = service.NewDocumentService(client, prefs, cfg.IngestConcurrency, cfg.MaxFileSizeMB)
	a.Models = service.NewModelService(client, prefs)
	a.State = service.NewStateService(reg, prefs, a.Chat, a.Bus)

	return a, nil
}

func (a *App) openStore(ctx context.Context) (store.Store, error) {
	switch a.Config.StoreDriver {
	case config.StoreSQLite:
		db, err := database.InitDB(a.Config.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		slog.Info("Successfully connected to SQLite database.", "path", a.Config.DatabasePath)
		return store.NewSQLiteStore(db), nil
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: a.Config.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Reads fall back to defaults and writes are logged, so a missing
			// Redis degrades persistence without stopping the client.
			slog.Warn("Redis is not reachable; state will not persist until it is", "addr", a.Config.RedisAddr, "error", err)
		} else {
			slog.Info("Successfully connected to Redis.", "addr", a.Config.RedisAddr)
		}
		a.closers = append(a.closers, rdb.Close)
		return store.NewRedisStore(rdb, a.Config.RedisKeyPrefix), nil
	case config.StoreBolt:
		db, err := store.OpenBoltDB(a.Config.BoltPath)
		if err != nil {
			return nil, err
		}
		st, err := store.NewBoltStore(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		slog.Info("Successfully opened BoltDB store.", "path", a.Config.BoltPath)
		return st, nil
	default:
		slog.Info("Using in-memory store; state is lost on exit.")
		return store.NewMemoryStore(), nil
	}
}

// Router builds the HTTP handler for the application.
func (a *App) Router() http.Handler {
	return api.NewRouter(api.Handlers{
		Chat:      api.NewChatHandler(a.Chat, a.Conversations, a.State),
		Settings:  api.NewSettingsHandler(a.Settings),
		Documents: api.NewDocumentHandler(a.Documents),
		Models:    api.NewModelHandler(a.Models),
	}, a.Config.Origins(), a.Config.FrontendDir)
}

// Close stops persisting, writes the final state and releases the store.
func (a *App) Close() error {
	if a.detach != nil {
		a.detach()
	}
	var errs []error
	if a.persister != nil {
		if err := a.persister.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush state: %w", err))
		}
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func (a *App) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.AppPort),
		Handler:           a.Router(),
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for the event stream and pending replies
		IdleTimeout:       120 * time.Second,
	}

	go a.probeBackend(ctx)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", a.Config.AppPort, "api_url", a.Preferences.Settings().APIURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// probeBackend reports once whether the assistant backend answers. The
// client works without it; every chat then gets the diagnostic reply.
func (a *App) probeBackend(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	health, err := a.Models.Health(ctx)
	if err != nil {
		slog.Warn("Assistant backend is not reachable yet", "api_url", a.Preferences.Settings().APIURL, "error", err)
		return
	}
	slog.Info("Assistant backend is ready.", "status", health.Status, "version", health.Version)
}

// Run loads the configuration and serves until SIGINT or SIGTERM.
func Run() int {
	cfg, err := Bootstrap()
	if err != nil {
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := New(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to close application", "error", err)
		}
	}()

	if err := a.Serve(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		return 1
	}
	return 0
}

// Bootstrap loads the configuration and installs the logger.
func Bootstrap() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return nil, err
	}
	setupLogger(cfg.LogLevel)
	logConfigSource()
	return cfg, nil
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
