package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/pymax/internal/dbx"
	"github.com/dmitrijs2005/pymax/internal/server/models"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/transactions"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// --- helpers ---

func newSQLiteDB(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// one connection keeps every statement on the same in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	m := &repomanager.SQLiteRepositoryManager{}
	require.NoError(t, m.RunMigrations(context.Background(), db))
	return db, m
}

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// plainHasher keeps tests fast; the digest is the password with a prefix.
type plainHasher struct {
	verifyCalls int
	verified    []string
}

func (h *plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (h *plainHasher) Verify(password, digest string) bool {
	h.verifyCalls++
	h.verified = append(h.verified, digest)
	return digest == "plain:"+password
}

var errBoom = errors.New("boom")

type failingTransactionsRepo struct{}

func (failingTransactionsRepo) Create(context.Context, *models.Transaction) (*models.Transaction, error) {
	return nil, errBoom
}
func (failingTransactionsRepo) FindByDate(context.Context, string) ([]models.Transaction, error) {
	return nil, errBoom
}
func (failingTransactionsRepo) FindRecent(context.Context, int) ([]models.Transaction, error) {
	return nil, errBoom
}
func (failingTransactionsRepo) FindRange(context.Context, string, string) ([]models.Transaction, error) {
	return nil, errBoom
}

type failingAccountsRepo struct{}

func (failingAccountsRepo) Create(context.Context, *models.Account) (*models.Account, error) {
	return nil, errBoom
}
func (failingAccountsRepo) FindByEmail(context.Context, string) (*models.Account, error) {
	return nil, errBoom
}
func (failingAccountsRepo) MarkConfirmed(context.Context, int64) (bool, error) {
	return false, errBoom
}

type failingRepoManager struct{}

func (failingRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (failingRepoManager) Transactions(dbx.DBTX) transactions.Repository { return failingTransactionsRepo{} }
func (failingRepoManager) Accounts(dbx.DBTX) accounts.Repository         { return failingAccountsRepo{} }

type recordingTransactionsRepo struct {
	recentLimits []int
	dates        []string
}

func (r *recordingTransactionsRepo) Create(_ context.Context, t *models.Transaction) (*models.Transaction, error) {
	return t, nil
}
func (r *recordingTransactionsRepo) FindByDate(_ context.Context, date string) ([]models.Transaction, error) {
	r.dates = append(r.dates, date)
	return nil, nil
}
func (r *recordingTransactionsRepo) FindRecent(_ context.Context, limit int) ([]models.Transaction, error) {
	r.recentLimits = append(r.recentLimits, limit)
	return nil, nil
}
func (r *recordingTransactionsRepo) FindRange(context.Context, string, string) ([]models.Transaction, error) {
	return nil, nil
}

type recordingRepoManager struct {
	tx *recordingTransactionsRepo
}

func (recordingRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m recordingRepoManager) Transactions(dbx.DBTX) transactions.Repository { return m.tx }
func (recordingRepoManager) Accounts(dbx.DBTX) accounts.Repository           { return failingAccountsRepo{} }
