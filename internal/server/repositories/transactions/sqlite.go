package transactions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pymax/internal/dbx"
	"github.com/dmitrijs2005/pymax/internal/server/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `INSERT INTO transactions (date, kind, category, amount, client, note) VALUES (?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, t.Date, t.Kind, t.Category, t.Amount, t.Client, t.Note)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	t.ID = id

	return t, nil
}

func (r *SQLiteRepository) FindByDate(ctx context.Context, date string) ([]models.Transaction, error) {
	query := `select id, date, kind, category, amount, client, note from transactions where date = ? order by id desc`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanAll(rows)
}

func (r *SQLiteRepository) FindRecent(ctx context.Context, limit int) ([]models.Transaction, error) {
	query := `select id, date, kind, category, amount, client, note from transactions order by date desc, id desc limit ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanAll(rows)
}

func (r *SQLiteRepository) FindRange(ctx context.Context, start, end string) ([]models.Transaction, error) {
	query := `select id, date, kind, category, amount, client, note from transactions where date between ? and ? order by date, id`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanAll(rows)
}
