// Package migrations embeds the schema for both supported dialects and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Dialect selects the migration directory and the goose dialect.
type Dialect struct {
	Dir   string
	Goose string
}

var (
	Postgres = Dialect{Dir: "postgres", Goose: "pgx"}
	SQLite   = Dialect{Dir: "sqlite", Goose: "sqlite3"}
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Up applies every pending migration of the dialect to db.
func Up(ctx context.Context, db *sql.DB, d Dialect) error {
	goose.SetBaseFS(Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(d.Goose); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, d.Dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
