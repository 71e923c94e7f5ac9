package transactions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pymax/internal/dbx"
	"github.com/dmitrijs2005/pymax/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query :=
		`INSERT INTO transactions (date, kind, category, amount, client, note)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		t.Date, t.Kind, t.Category, t.Amount, t.Client, t.Note).Scan(&t.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func (r *PostgresRepository) FindByDate(ctx context.Context, date string) ([]models.Transaction, error) {
	query :=
		`SELECT id, date, kind, category, amount, client, note FROM transactions
		 WHERE date = $1
		 ORDER BY id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanAll(rows)
}

func (r *PostgresRepository) FindRecent(ctx context.Context, limit int) ([]models.Transaction, error) {
	query :=
		`SELECT id, date, kind, category, amount, client, note FROM transactions
		 ORDER BY date DESC, id DESC
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanAll(rows)
}

func (r *PostgresRepository) FindRange(ctx context.Context, start, end string) ([]models.Transaction, error) {
	query :=
		`SELECT id, date, kind, category, amount, client, note FROM transactions
		 WHERE date BETWEEN $1 AND $2
		 ORDER BY date, id
		 `

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanAll(rows)
}
