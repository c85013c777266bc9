// Package migrate applies embedded SQL migrations.
package migrate

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/and161185/lexinote/migrations"
)

// Up runs all pending migrations from the embedded filesystem.
func Up(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := prepare(); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Status prints the applied/pending state of every migration through goose's logger.
func Status(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := prepare(); err != nil {
		return err
	}
	return goose.StatusContext(ctx, db, ".")
}

func prepare() error {
	goose.SetBaseFS(migrations.FS)
	return goose.SetDialect("postgres")
}
