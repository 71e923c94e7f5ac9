package services

import (
	"context"
	"math"
	"testing"

	"github.com/dmitrijs2005/pymax/internal/common"
	"github.com/dmitrijs2005/pymax/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerInsert_Validation(t *testing.T) {
	db, m := newSQLiteDB(t)
	s := NewLedgerService(db, m)

	tests := []struct {
		name string
		in   NewTransaction
	}{
		{"missing date", NewTransaction{Kind: "sale", Amount: 1}},
		{"missing kind", NewTransaction{Date: "2024-01-01", Amount: 1}},
		{"blank kind", NewTransaction{Date: "2024-01-01", Kind: "   "}},
		{"bad month", NewTransaction{Date: "2024-13-01", Kind: "sale"}},
		{"not iso", NewTransaction{Date: "01/02/2024", Kind: "sale"}},
		{"garbage", NewTransaction{Date: "yesterday", Kind: "sale"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Insert(context.Background(), tt.in)
			require.ErrorIs(t, err, common.ErrValidation)
		})
	}

	rows, err := s.Query(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, rows, "rejected inserts must not be stored")
}

func TestLedgerInsert_Defaults(t *testing.T) {
	db, m := newSQLiteDB(t)
	s := NewLedgerService(db, m)
	ctx := context.Background()

	id, err := s.Insert(ctx, NewTransaction{Date: "2024-01-01", Kind: "sale", Amount: 100})
	require.NoError(t, err)
	assert.NotZero(t, id)

	rows, err := s.Query(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.Transaction{
		ID: id, Date: "2024-01-01", Kind: "sale", Category: models.DefaultCategory, Amount: 100,
	}, rows[0])
}

func TestLedgerInsert_KeepsUnknownKinds(t *testing.T) {
	db, m := newSQLiteDB(t)
	s := NewLedgerService(db, m)
	ctx := context.Background()

	_, err := s.Insert(ctx, NewTransaction{Date: "2024-01-01", Kind: "refund", Amount: 5, Client: "Bob", Note: "n"})
	require.NoError(t, err)

	rows, err := s.Query(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "refund", rows[0].Kind)
	assert.Equal(t, "Bob", rows[0].Client)
}

func TestLedgerInsert_NonFiniteAmountStoredAsZero(t *testing.T) {
	db, m := newSQLiteDB(t)
	s := NewLedgerService(db, m)
	rs := NewReportService(db, m, 0.25)
	ctx := context.Background()

	for _, a := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		_, err := s.Insert(ctx, NewTransaction{Date: "2024-01-01", Kind: "sale", Amount: a})
		require.NoError(t, err)
	}
	_, err := s.Insert(ctx, NewTransaction{Date: "2024-01-01", Kind: "sale", Amount: 10})
	require.NoError(t, err)

	rows, err := s.Query(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	sum, err := rs.DailySummary(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 10.0, sum.Sales)
}

func TestLedgerQuery_UnfilteredUsesRecentLimit(t *testing.T) {
	repo := &recordingTransactionsRepo{}
	s := NewLedgerService(nil, recordingRepoManager{tx: repo})

	_, err := s.Query(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []int{1000}, repo.recentLimits)

	_, err = s.Query(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, []int{1000}, repo.recentLimits, "dated query must not list recent rows")
	assert.Equal(t, []string{"2024-01-01"}, repo.dates)
}

func TestLedgerQuery(t *testing.T) {
	db, m := newSQLiteDB(t)
	s := NewLedgerService(db, m)
	ctx := context.Background()

	first, err := s.Insert(ctx, NewTransaction{Date: "2024-01-02", Kind: "sale", Amount: 1})
	require.NoError(t, err)
	second, err := s.Insert(ctx, NewTransaction{Date: "2024-01-02", Kind: "expense", Amount: 2})
	require.NoError(t, err)
	older, err := s.Insert(ctx, NewTransaction{Date: "2024-01-01", Kind: "sale", Amount: 3})
	require.NoError(t, err)

	byDate, err := s.Query(ctx, "2024-01-02")
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, second, byDate[0].ID, "newest identity first")
	assert.Equal(t, first, byDate[1].ID)

	all, err := s.Query(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{second, first, older}, []int64{all[0].ID, all[1].ID, all[2].ID})

	none, err := s.Query(ctx, "2023-12-31")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = s.Query(ctx, "bad")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestLedgerQueryRange(t *testing.T) {
	db, m := newSQLiteDB(t)
	s := NewLedgerService(db, m)
	ctx := context.Background()

	for _, d := range []string{"2023-12-31", "2024-01-01", "2024-01-15", "2024-01-31", "2024-02-01"} {
		_, err := s.Insert(ctx, NewTransaction{Date: d, Kind: "sale", Amount: 1})
		require.NoError(t, err)
	}

	rows, err := s.QueryRange(ctx, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-01-01", rows[0].Date)
	assert.Equal(t, "2024-01-31", rows[2].Date)

	rows, err = s.QueryRange(ctx, "2024-02-01", "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = s.QueryRange(ctx, "", "2024-01-31")
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = s.QueryRange(ctx, "2024-01-01", "31.01.2024")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestLedger_StoreErrorsAreWrapped(t *testing.T) {
	s := NewLedgerService(nil, failingRepoManager{})
	ctx := context.Background()

	_, err := s.Insert(ctx, NewTransaction{Date: "2024-01-01", Kind: "sale"})
	require.ErrorIs(t, err, errBoom)

	_, err = s.Query(ctx, "")
	require.ErrorIs(t, err, errBoom)

	_, err = s.Query(ctx, "2024-01-01")
	require.ErrorIs(t, err, errBoom)

	_, err = s.QueryRange(ctx, "2024-01-01", "2024-01-02")
	require.ErrorIs(t, err, errBoom)
}
