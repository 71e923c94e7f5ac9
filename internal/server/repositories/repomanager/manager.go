// Package repomanager vends dialect-specific repositories bound to a DBTX
// and exposes the schema migration hook for the selected database.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/pymax/internal/dbx"
	"github.com/dmitrijs2005/pymax/internal/server/config"
	"github.com/dmitrijs2005/pymax/internal/server/migrations"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/transactions"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Transactions(db dbx.DBTX) transactions.Repository
	Accounts(db dbx.DBTX) accounts.Repository
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// New returns the manager for a database/sql driver name.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case config.DriverPostgres:
		return &PostgresRepositoryManager{}, nil
	case config.DriverSQLite:
		return &SQLiteRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
