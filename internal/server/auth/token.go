// Package auth issues and verifies the signed, time-limited tokens used by
// the account lifecycle, and hashes account passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/pymax/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenKind tags a token with its purpose so a confirmation token can never
// pass as a session token and vice versa.
type TokenKind string

const (
	KindConfirmation TokenKind = "confirmation"
	KindSession      TokenKind = "session"
)

// Claims is the token payload. Confirmation tokens carry only Email;
// session tokens carry AccountID and Email.
type Claims struct {
	jwt.RegisteredClaims
	Kind      TokenKind `json:"knd"`
	Email     string    `json:"email"`
	AccountID int64     `json:"uid,omitempty"`
}

// TokenService signs tokens with a shared HMAC secret and verifies them
// against a per-kind maximum age measured from the issue time.
type TokenService struct {
	secret          []byte
	now             func() time.Time
	confirmationAge time.Duration
	sessionAge      time.Duration
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// WithMaxAges overrides the confirmation and session max ages.
func WithMaxAges(confirmation, session time.Duration) TokenOption {
	return func(s *TokenService) {
		s.confirmationAge = confirmation
		s.sessionAge = session
	}
}

const (
	DefaultConfirmationMaxAge = 48 * time.Hour
	DefaultSessionMaxAge      = 24 * time.Hour
)

func NewTokenService(secret []byte, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret:          secret,
		now:             time.Now,
		confirmationAge: DefaultConfirmationMaxAge,
		sessionAge:      DefaultSessionMaxAge,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Sign stamps the issue time and kind onto claims and returns the HS256 token.
func (s *TokenService) Sign(kind TokenKind, claims Claims) (string, error) {
	claims.Kind = kind
	claims.IssuedAt = jwt.NewNumericDate(s.now().UTC())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks signature, kind and age. Any integrity problem yields
// common.ErrInvalidToken; a token older than maxAge yields
// common.ErrTokenExpired.
func (s *TokenService) Verify(tokenString string, kind TokenKind, maxAge time.Duration) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Kind != kind || claims.IssuedAt == nil {
		return nil, common.ErrInvalidToken
	}

	if s.now().Sub(claims.IssuedAt.Time) > maxAge {
		return nil, common.ErrTokenExpired
	}

	return claims, nil
}

func (s *TokenService) SignConfirmation(email string) (string, error) {
	return s.Sign(KindConfirmation, Claims{Email: email})
}

func (s *TokenService) VerifyConfirmation(token string) (string, error) {
	c, err := s.Verify(token, KindConfirmation, s.confirmationAge)
	if err != nil {
		return "", err
	}
	if c.Email == "" {
		return "", common.ErrInvalidToken
	}
	return c.Email, nil
}

func (s *TokenService) SignSession(accountID int64, email string) (string, error) {
	return s.Sign(KindSession, Claims{AccountID: accountID, Email: email})
}

func (s *TokenService) VerifySession(token string) (*Claims, error) {
	c, err := s.Verify(token, KindSession, s.sessionAge)
	if err != nil {
		return nil, err
	}
	if c.AccountID == 0 || c.Email == "" {
		return nil, common.ErrInvalidToken
	}
	return c, nil
}

// IsTokenError reports whether err is one of the token verification failures.
func IsTokenError(err error) bool {
	return errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrTokenExpired)
}
