package talkboard

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/nasermirzaei89/env"
	"github.com/nasermirzaei89/talkboard/database/sqlstore"
	"github.com/nasermirzaei89/talkboard/discuss"
	"github.com/nasermirzaei89/talkboard/metrics"
	"github.com/nasermirzaei89/talkboard/settings"
	"github.com/nasermirzaei89/talkboard/talks"
	"github.com/nasermirzaei89/talkboard/votes"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultDBDriver     = "sqlite"
	DefaultDBDSN        = "file::memory:?cache=shared"
	DefaultSettingsFile = "talkboard.yaml"
)

type Config struct {
	DBDriver     string
	DBDSN        string
	SettingsFile string
}

func ConfigFromEnv() Config {
	return Config{
		DBDriver:     env.GetString("DB_DRIVER", DefaultDBDriver),
		DBDSN:        env.GetString("DB_DSN", DefaultDBDSN),
		SettingsFile: env.GetString("SETTINGS_FILE", DefaultSettingsFile),
	}
}

type App struct {
	Talks   talks.Service
	Discuss discuss.Service
	Votes   votes.Service

	settings settings.Settings
	schema   sqlstore.Schema
	registry *prometheus.Registry
	db       *sql.DB
}

// NewApp resolves the settings, connects to the database and wires the services.
// The schema is not touched; call MigrateUp before using the services.
func NewApp(ctx context.Context, cfg Config) (*App, error) {
	resolved, err := settings.Load(cfg.SettingsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	dialect := sqlstore.Dialect(cfg.DBDriver)

	schema, err := sqlstore.NewSchema(dialect, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to build database schema: %w", err)
	}

	db, err := sqlstore.NewDB(ctx, dialect, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	talkRepo := sqlstore.NewTalkRepository(db, dialect)
	commentRepo := sqlstore.NewCommentRepository(db, dialect)
	voteRepo := sqlstore.NewVoteRepository(db, dialect)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	app := &App{
		Talks:    talks.NewMetricsMiddleware(m, talks.NewManager(talkRepo)),
		Discuss:  discuss.NewMetricsMiddleware(m, discuss.NewManager(commentRepo)),
		Votes:    votes.NewMetricsMiddleware(m, votes.NewManager(voteRepo)),
		settings: resolved,
		schema:   schema,
		registry: registry,
		db:       db,
	}

	slog.DebugContext(ctx, "app created",
		"dbDriver", cfg.DBDriver,
		"userEntity", resolved.UserEntityRef,
		"sectionEntity", resolved.SectionEntityRef,
	)

	return app, nil
}

func (app *App) Settings() settings.Settings {
	return app.settings
}

// DB is shared with the owners of the user and section tables.
func (app *App) DB() *sql.DB {
	return app.db
}

// Registry holds the operation metrics of the wired services.
func (app *App) Registry() *prometheus.Registry {
	return app.registry
}

func (app *App) MigrateUp(ctx context.Context) error {
	err := sqlstore.MigrateUp(ctx, app.db, app.schema)
	if err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

func (app *App) MigrateDown(ctx context.Context) error {
	err := sqlstore.MigrateDown(ctx, app.db, app.schema)
	if err != nil {
		return fmt.Errorf("failed to revert database migrations: %w", err)
	}

	return nil
}

func (app *App) Close() error {
	err := app.db.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

func GetLogLevelFromEnv() slog.Level {
	levelStr := env.GetString("LOG_LEVEL", "info")
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("unknown log level, defaulting to info", "level", levelStr)

		return slog.LevelInfo
	}
}
