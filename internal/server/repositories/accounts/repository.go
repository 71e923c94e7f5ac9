package accounts

import (
	"context"

	"github.com/dmitrijs2005/pymax/internal/server/models"
)

// Repository is the account store. Emails are expected to be normalized
// (lowercased) by the caller; the storage layer enforces their uniqueness.
type Repository interface {
	// Create inserts an unconfirmed account. A duplicate email yields
	// common.ErrConflict.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// FindByEmail returns common.ErrorNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)

	// MarkConfirmed sets the confirmed flag. changed is false when the
	// account was already confirmed; a missing account yields
	// common.ErrorNotFound.
	MarkConfirmed(ctx context.Context, id int64) (changed bool, err error)
}
