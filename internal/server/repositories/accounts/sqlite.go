package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pymax/internal/common"
	"github.com/dmitrijs2005/pymax/internal/dbx"
	"github.com/dmitrijs2005/pymax/internal/server/models"
)

// SQLiteRepository stores created_at as RFC 3339 text in UTC.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `INSERT INTO accounts (name, email, password_hash, confirmed, created_at) VALUES (?, ?, ?, 0, ?)`

	res, err := r.db.ExecContext(ctx, query,
		account.Name, account.Email, account.PasswordHash, account.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	account.ID = id
	account.Confirmed = false

	return account, nil
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `select id, name, email, password_hash, confirmed, created_at from accounts where email = ?`

	a := &models.Account{}
	var createdAt string
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Confirmed, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}

	return a, nil
}

func (r *SQLiteRepository) MarkConfirmed(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `update accounts set confirmed = 1 where id = ? and confirmed = 0`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 1 {
		return true, nil
	}

	var n int
	if err := r.db.QueryRowContext(ctx, `select count(*) from accounts where id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return false, common.ErrorNotFound
	}
	return false, nil
}
