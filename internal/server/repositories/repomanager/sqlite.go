package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/pymax/internal/dbx"
	"github.com/dmitrijs2005/pymax/internal/server/migrations"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/transactions"
)

// SQLiteRepositoryManager vends SQLite-backed repositories. It is used for
// single-file deployments and by the service tests.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return transactions.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db, migrations.SQLite)
}
