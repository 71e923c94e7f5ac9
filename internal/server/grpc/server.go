// Package grpc exposes the account, ledger, report and export services over
// gRPC using a JSON codec, plus the standard health service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/pymax/internal/logging"
	"github.com/dmitrijs2005/pymax/internal/server/auth"
	"github.com/dmitrijs2005/pymax/internal/server/models"
	"github.com/dmitrijs2005/pymax/internal/server/reports"
	"github.com/dmitrijs2005/pymax/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type AccountService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Confirm(ctx context.Context, token string) (services.ConfirmOutcome, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	VerifySession(ctx context.Context, token string) (*auth.Claims, error)
}

type LedgerService interface {
	Insert(ctx context.Context, in services.NewTransaction) (int64, error)
	Query(ctx context.Context, date string) ([]models.Transaction, error)
	QueryRange(ctx context.Context, start, end string) ([]models.Transaction, error)
}

type ReportService interface {
	DailySummary(ctx context.Context, date string) (*reports.DailySummary, error)
	IncomeStatement(ctx context.Context, start, end string) (*reports.IncomeStatement, error)
}

type ExportService interface {
	ExportRange(ctx context.Context, start, end string) (*services.Export, error)
}

// Services groups the business services the transport dispatches to.
type Services struct {
	Accounts AccountService
	Ledger   LedgerService
	Reports  ReportService
	Exports  ExportService
}

type GRPCServer struct {
	address        string
	accounts       AccountService
	ledger         LedgerService
	reports        ReportService
	exports        ExportService
	logger         logging.Logger
	requireSession bool
}

func NewGRPCServer(address string, l logging.Logger, svc Services, requireSession bool) *GRPCServer {
	return &GRPCServer{
		address:        address,
		logger:         l.With("module", "grpc_server"),
		accounts:       svc.Accounts,
		ledger:         svc.Ledger,
		reports:        svc.Reports,
		exports:        svc.Exports,
		requireSession: requireSession,
	}
}

// newServer builds a grpc.Server with interceptors, PymaxService and the
// health service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.recoveryInterceptor, s.sessionInterceptor))

	RegisterPymaxServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-done:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
