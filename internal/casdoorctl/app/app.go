package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/casdoor/internal/casdoorctl/service"
	"github.com/aussiebroadwan/casdoor/internal/casdoorctl/store"
	"github.com/aussiebroadwan/casdoor/internal/casdoorctl/store/drivers/sqlite"
	"github.com/aussiebroadwan/casdoor/pkg/casdoor"
	"github.com/aussiebroadwan/casdoor/pkg/cryptox"
	"github.com/aussiebroadwan/casdoor/pkg/httpx"
	"github.com/aussiebroadwan/casdoor/pkg/idx"
	"github.com/aussiebroadwan/casdoor/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application holds the CLI's dependencies. The SDK client and the token
// store are opened on first use so commands that need neither (url, mfa)
// work without a config file or database.
type Application struct {
	cfg    Config
	logger *slog.Logger

	client *casdoor.Client
	db     store.Store
	tokens *service.TokenService
}

// New creates an Application and configures logging.
func New(cfg Config) *Application {
	return &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "casdoorctl",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}
}

// Context attaches the application logger and a fresh request id to ctx,
// so the Casdoor calls of one command can be correlated.
func (app *Application) Context(ctx context.Context) context.Context {
	return slogx.WithRequestID(slogx.WithContext(ctx, app.logger), idx.New().String())
}

// Client returns the Casdoor SDK client, loading the config file on first use.
func (app *Application) Client() (*casdoor.Client, error) {
	if app.client != nil {
		return app.client, nil
	}

	cfg, err := casdoor.LoadConfigFile(app.cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", app.cfg.ConfigFile, err)
	}

	app.client = casdoor.New(cfg,
		casdoor.WithHTTPClient(&http.Client{Timeout: app.cfg.RequestTimeout}),
		casdoor.WithLogger(app.logger),
		casdoor.WithRateLimiter(httpx.NewLimiter(app.cfg.SDKRateLimit)),
	)
	return app.client, nil
}

// Tokens returns the token service, opening the database on first use.
func (app *Application) Tokens(ctx context.Context) (*service.TokenService, error) {
	if app.tokens != nil {
		return app.tokens, nil
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	secret, err := cryptox.LoadSecret(app.cfg.MasterKeyPath, app.cfg.MasterKeyEnv)
	if err != nil {
		return nil, fmt.Errorf("load master key (set %s or CASDOORCTL_MASTER_KEY_PATH): %w", app.cfg.MasterKeyEnv, err)
	}

	sealer, err := service.NewSealer(ctx, app.db, secret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token sealer: %w", err)
	}

	app.tokens = &service.TokenService{Store: app.db, Sealer: sealer}
	return app.tokens, nil
}

// initDatabase opens the token store and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.db = db
	app.logger.Debug("database migrations applied", "file", app.cfg.DatabaseFile)
	return nil
}

// Close releases the database if it was opened.
func (app *Application) Close() error {
	if app.db == nil {
		return nil
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}
