package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/pymax/internal/dbx"
	"github.com/dmitrijs2005/pymax/internal/server/migrations"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/transactions"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations.
type PostgresRepositoryManager struct{}

// Transactions returns a transactions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return transactions.NewPostgresRepository(db)
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db, migrations.Postgres)
}
