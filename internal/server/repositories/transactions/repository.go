// Package transactions is the ledger store: durable, append-only storage of
// dated money movements with date-based retrieval.
package transactions

import (
	"context"

	"github.com/dmitrijs2005/pymax/internal/server/models"
)

// RecentLimit caps the unfiltered listing. Callers needing full history
// must query by date range.
const RecentLimit = 1000

// Repository describes the ledger operations. Dates are compared as
// strings, so correct range semantics rely on ISO YYYY-MM-DD values.
type Repository interface {
	// Create inserts t and returns it with the store-assigned ID.
	Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error)

	// FindByDate returns rows with exactly this date, newest ID first.
	FindByDate(ctx context.Context, date string) ([]models.Transaction, error)

	// FindRecent returns at most limit rows ordered by date desc, ID desc.
	FindRecent(ctx context.Context, limit int) ([]models.Transaction, error)

	// FindRange returns rows with start <= date <= end ordered by date, ID.
	FindRange(ctx context.Context, start, end string) ([]models.Transaction, error)
}
