package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/pymax/internal/common"
	"github.com/dmitrijs2005/pymax/internal/server/auth"
	"github.com/dmitrijs2005/pymax/internal/server/models"
	"github.com/dmitrijs2005/pymax/internal/server/reports"
	"github.com/dmitrijs2005/pymax/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC codes. Anything unrecognized is
// logged and reported as a bare internal error.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case auth.IsTokenError(err):
		if errors.Is(err, common.ErrTokenExpired) {
			return status.Error(codes.InvalidArgument, "token expired")
		}
		return status.Error(codes.InvalidArgument, "invalid token")
	case errors.Is(err, common.ErrConflict):
		return status.Error(codes.AlreadyExists, "email already registered")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "account not found")
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "invalid credentials")
	case errors.Is(err, common.ErrNotConfirmed):
		return status.Error(codes.PermissionDenied, "account not confirmed")
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	token, err := s.accounts.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &RegisterResponse{Message: "account created, confirmation pending", Token: token}, nil
}

func (s *GRPCServer) Confirm(ctx context.Context, req *ConfirmRequest) (*ConfirmResponse, error) {
	if req.Token == "" {
		return nil, status.Error(codes.InvalidArgument, "token is required")
	}

	outcome, err := s.accounts.Confirm(ctx, req.Token)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	msg := "account confirmed"
	if outcome == services.AlreadyConfirmed {
		msg = "account was already confirmed"
	}
	return &ConfirmResponse{Outcome: outcome.String(), Message: msg}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	sess, err := s.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &LoginResponse{Message: "ok", Name: sess.Name, Email: sess.Email, SessionToken: sess.Token}, nil
}

func (s *GRPCServer) AddTransaction(ctx context.Context, req *AddTransactionRequest) (*AddTransactionResponse, error) {
	id, err := s.ledger.Insert(ctx, services.NewTransaction{
		Date:     req.Date,
		Kind:     req.Kind,
		Category: req.Category,
		Amount:   models.ParseAmount(string(req.Amount)),
		Client:   req.Client,
		Note:     req.Note,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &AddTransactionResponse{Message: "ok", ID: id}, nil
}

func (s *GRPCServer) ListTransactions(ctx context.Context, req *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	rows, err := s.ledger.Query(ctx, req.Date)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ListTransactionsResponse{Transactions: rows}, nil
}

func (s *GRPCServer) ListTransactionsRange(ctx context.Context, req *DateRangeRequest) (*ListTransactionsResponse, error) {
	rows, err := s.ledger.QueryRange(ctx, req.Start, req.End)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ListTransactionsResponse{Transactions: rows}, nil
}

func (s *GRPCServer) DailySummary(ctx context.Context, req *DailySummaryRequest) (*reports.DailySummary, error) {
	summary, err := s.reports.DailySummary(ctx, req.Date)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return summary, nil
}

func (s *GRPCServer) IncomeStatement(ctx context.Context, req *DateRangeRequest) (*reports.IncomeStatement, error) {
	statement, err := s.reports.IncomeStatement(ctx, req.Start, req.End)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return statement, nil
}

func (s *GRPCServer) ExportTransactions(ctx context.Context, req *DateRangeRequest) (*ExportResponse, error) {
	exp, err := s.exports.ExportRange(ctx, req.Start, req.End)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if c, ok := claimsFromContext(ctx); ok {
		s.logger.Info(ctx, "export created", "account_id", c.AccountID, "key", exp.Key)
	}
	return &ExportResponse{Key: exp.Key, URL: exp.URL, Rows: exp.Rows}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}
