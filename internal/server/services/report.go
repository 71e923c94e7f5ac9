package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pymax/internal/common"
	"github.com/dmitrijs2005/pymax/internal/server/reports"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/repomanager"
)

// ReportService reads ledger rows and folds them into report figures.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	taxRate     float64
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager, taxRate float64) *ReportService {
	return &ReportService{db: db, repomanager: m, taxRate: taxRate}
}

func (s *ReportService) DailySummary(ctx context.Context, date string) (*reports.DailySummary, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, fmt.Errorf("%w: date is required", common.ErrValidation)
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}

	rows, err := s.repomanager.Transactions(s.db).FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("error reading transactions: %w", err)
	}

	summary := reports.Summarize(rows)
	return &summary, nil
}

func (s *ReportService) IncomeStatement(ctx context.Context, start, end string) (*reports.IncomeStatement, error) {
	start, end, err := validateRange(start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.repomanager.Transactions(s.db).FindRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("error reading transactions: %w", err)
	}

	statement := reports.BuildIncomeStatement(rows, s.taxRate)
	return &statement, nil
}
