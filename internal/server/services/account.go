package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/pymax/internal/common"
	"github.com/dmitrijs2005/pymax/internal/dbx"
	"github.com/dmitrijs2005/pymax/internal/logging"
	"github.com/dmitrijs2005/pymax/internal/server/auth"
	"github.com/dmitrijs2005/pymax/internal/server/models"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ConfirmOutcome tells a first confirmation apart from a repeated one.
// Neither is an error.
type ConfirmOutcome int

const (
	ConfirmedNow ConfirmOutcome = iota + 1
	AlreadyConfirmed
)

func (o ConfirmOutcome) String() string {
	switch o {
	case ConfirmedNow:
		return "confirmed"
	case AlreadyConfirmed:
		return "already_confirmed"
	default:
		return "unknown"
	}
}

// Session is what a successful login hands back.
type Session struct {
	Token string
	Name  string
	Email string
}

// AccountService runs the account lifecycle: register (unconfirmed),
// confirm with a signed token, then log in for a session token.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	hasher      auth.PasswordHasher
	now         func() time.Time
	log         logging.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService,
	hasher auth.PasswordHasher, now func() time.Time, log logging.Logger) *AccountService {
	if now == nil {
		now = time.Now
	}
	return &AccountService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		now:         now,
		log:         log.With("module", "accounts"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unconfirmed account and returns a confirmation token
// for it. A taken email fails with common.ErrConflict.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	if name == "" || email == "" || password == "" {
		return "", fmt.Errorf("%w: name, email and password are required", common.ErrValidation)
	}

	repo := s.repomanager.Accounts(s.db)

	_, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return "", common.ErrConflict
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return "", fmt.Errorf("error searching account: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	account := &models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		CreatedAt:    s.now().UTC().Truncate(time.Second),
	}
	// the unique index still catches a concurrent registration
	if _, err := repo.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return "", common.ErrConflict
		}
		return "", fmt.Errorf("error creating account: %w", err)
	}

	token, err := s.tokens.SignConfirmation(email)
	if err != nil {
		return "", fmt.Errorf("error signing confirmation token: %w", err)
	}

	s.log.Info(ctx, "account registered", "account_id", account.ID)
	return token, nil
}

// Confirm activates the account named by a confirmation token. Token
// failures are returned unchanged.
func (s *AccountService) Confirm(ctx context.Context, token string) (ConfirmOutcome, error) {
	email, err := s.tokens.VerifyConfirmation(token)
	if err != nil {
		return 0, err
	}

	var outcome ConfirmOutcome
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		account, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if account.Confirmed {
			outcome = AlreadyConfirmed
			return nil
		}

		changed, err := repo.MarkConfirmed(ctx, account.ID)
		if err != nil {
			return err
		}
		if changed {
			outcome = ConfirmedNow
		} else {
			outcome = AlreadyConfirmed
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("error confirming account: %w", err)
	}

	s.log.Info(ctx, "account confirmation", "outcome", outcome.String())
	return outcome, nil
}

// Login checks the password and the confirmation flag and mints a session
// token. Unknown emails and wrong passwords both yield
// common.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	account, err := s.repomanager.Accounts(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// spend the same hashing time as a real check
			s.hasher.Verify(password, s.getDummyDigest())
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching account: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}
	if !account.Confirmed {
		return nil, common.ErrNotConfirmed
	}

	token, err := s.tokens.SignSession(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("error signing session token: %w", err)
	}

	s.log.Info(ctx, "account logged in", "account_id", account.ID)
	return &Session{Token: token, Name: account.Name, Email: account.Email}, nil
}

// VerifySession decodes a session token. Enforcement is left to the
// transport and is off by default.
func (s *AccountService) VerifySession(ctx context.Context, token string) (*auth.Claims, error) {
	return s.tokens.VerifySession(token)
}

func (s *AccountService) getDummyDigest() string {
	s.dummyOnce.Do(func() {
		d, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.log.Warn(context.Background(), "dummy digest", "error", err)
		}
		s.dummyDigest = d
	})
	return s.dummyDigest
}
