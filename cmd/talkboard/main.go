package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/nasermirzaei89/talkboard"
	"github.com/nasermirzaei89/talkboard/settings"
)

const usage = `usage: talkboard <command>

commands:
  migrate up     apply all pending migrations
  migrate down   revert all migrations
  settings       print the resolved entity settings
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.WarnContext(ctx, "failed to load .env file", "error", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: talkboard.GetLogLevelFromEnv(),
	})))

	err = run(ctx, os.Args[1:], os.Stdout)
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}

		slog.ErrorContext(ctx, "failed to run command", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg := talkboard.ConfigFromEnv()

	switch {
	case len(args) == 1 && args[0] == "settings":
		return printSettings(cfg, out)
	case len(args) == 2 && args[0] == "migrate" && (args[1] == "up" || args[1] == "down"):
		return migrate(ctx, cfg, args[1])
	default:
		return errUsage
	}
}

// printSettings needs no database connection.
func printSettings(cfg talkboard.Config, out io.Writer) error {
	resolved, err := settings.Load(cfg.SettingsFile)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	_, err = fmt.Fprintf(out, "%s=%s\n%s=%s\n",
		settings.KeyUserEntityRef, resolved.UserEntityRef,
		settings.KeySectionEntityRef, resolved.SectionEntityRef,
	)
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

func migrate(ctx context.Context, cfg talkboard.Config, direction string) error {
	app, err := talkboard.NewApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	defer func() {
		err := app.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close app", "error", err)
		}
	}()

	if direction == "down" {
		return app.MigrateDown(ctx)
	}

	return app.MigrateUp(ctx)
}
