// Command lexinote-server serves the lexinote HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/uuid/v5"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/and161185/lexinote/internal/config"
	"github.com/and161185/lexinote/internal/migrate"
	"github.com/and161185/lexinote/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// loadConfig reads the --config file; a missing file falls back to the bundled one.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(cmd.String("config"), config.DefaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.App.HTTP.Address()),
	)

	if !cmd.Bool("skip-migrate") {
		if err := migrate.Up(ctx, cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	}
	return run(ctx, cfg, logger)
}

func migrateCmd(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	switch cmd.Args().First() {
	case "", "up":
		return migrate.Up(ctx, cfg.Postgres.DSN)
	case "status":
		return migrate.Status(ctx, cfg.Postgres.DSN)
	default:
		return fmt.Errorf("unknown migrate action %q (want up|status)", cmd.Args().First())
	}
}

// mintToken issues an access token for an existing user id; lexinote has no login flow.
func mintToken(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	uid, err := uuid.FromString(cmd.String("user"))
	if err != nil {
		return fmt.Errorf("bad --user: %w", err)
	}
	ttl := cfg.Auth.AccessTTL
	if d := cmd.Duration("ttl"); d > 0 {
		ttl = d
	}
	tok, exp, err := service.NewTokenService([]byte(cfg.Auth.JWTKey), ttl).Issue(uid)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	fmt.Fprintln(os.Stderr, "expires", exp.Format(time.RFC3339))
	return nil
}

func main() {
	cfgFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: config.DefaultPath,
		Value:       config.DefaultPath,
		Sources:     cli.EnvVars("LEXINOTE_CONFIG"),
	}

	cmd := &cli.Command{
		Name:    "lexinote-server",
		Usage:   "Translation and vocabulary notebook API",
		Version: version,
		Flags:   []cli.Flag{cfgFlag},
		Action:  serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run migrations and serve the HTTP API",
				Action: serve,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "skip-migrate", Usage: "Do not apply pending migrations on start"},
				},
			},
			{
				Name:      "migrate",
				Usage:     "Apply or inspect database migrations",
				ArgsUsage: "[up|status]",
				Action:    migrateCmd,
			},
			{
				Name:   "token",
				Usage:  "Mint an access token for a user id",
				Action: mintToken,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "User uuid", Required: true},
					&cli.DurationFlag{Name: "ttl", Usage: "Token lifetime (defaults to auth.access_ttl)"},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "lexinote-server:", err)
		os.Exit(1)
	}
}
