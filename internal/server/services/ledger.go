// Package services contains server-side business logic. Each service binds
// repositories from a RepositoryManager to the shared *sql.DB.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/pymax/internal/common"
	"github.com/dmitrijs2005/pymax/internal/server/models"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/transactions"
)

// NewTransaction is the caller-supplied part of a ledger row.
type NewTransaction struct {
	Date     string
	Kind     string
	Category string
	Amount   float64
	Client   string
	Note     string
}

// LedgerService validates and stores transactions and lists them back.
type LedgerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewLedgerService(db *sql.DB, m repomanager.RepositoryManager) *LedgerService {
	return &LedgerService{db: db, repomanager: m}
}

// Insert stores a transaction and returns its ID. Date and kind are required
// and the date must be an ISO calendar date.
func (s *LedgerService) Insert(ctx context.Context, in NewTransaction) (int64, error) {
	date := strings.TrimSpace(in.Date)
	kind := strings.TrimSpace(in.Kind)
	if date == "" || kind == "" {
		return 0, fmt.Errorf("%w: date and kind are required", common.ErrValidation)
	}
	if err := validateDate(date); err != nil {
		return 0, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	amount := in.Amount
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	t := &models.Transaction{
		Date:     date,
		Kind:     kind,
		Category: category,
		Amount:   amount,
		Client:   in.Client,
		Note:     in.Note,
	}

	repo := s.repomanager.Transactions(s.db)
	created, err := repo.Create(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("error creating transaction: %w", err)
	}
	return created.ID, nil
}

// Query returns the transactions of one date, or the most recent
// transactions.RecentLimit rows when date is empty.
func (s *LedgerService) Query(ctx context.Context, date string) ([]models.Transaction, error) {
	repo := s.repomanager.Transactions(s.db)

	date = strings.TrimSpace(date)
	if date == "" {
		rows, err := repo.FindRecent(ctx, transactions.RecentLimit)
		if err != nil {
			return nil, fmt.Errorf("error listing transactions: %w", err)
		}
		return rows, nil
	}

	if err := validateDate(date); err != nil {
		return nil, err
	}
	rows, err := repo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	return rows, nil
}

// QueryRange returns the transactions with start <= date <= end. A start
// after end is an empty range, not an error.
func (s *LedgerService) QueryRange(ctx context.Context, start, end string) ([]models.Transaction, error) {
	start, end, err := validateRange(start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.repomanager.Transactions(s.db).FindRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	return rows, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(common.DateLayout, date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", common.ErrValidation, date)
	}
	return nil
}

func validateRange(start, end string) (string, string, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return "", "", fmt.Errorf("%w: start and end are required", common.ErrValidation)
	}
	if err := validateDate(start); err != nil {
		return "", "", err
	}
	if err := validateDate(end); err != nil {
		return "", "", err
	}
	return start, end, nil
}
