package grpc

import (
	"context"
	"database/sql"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/pymax/internal/logging"
	"github.com/dmitrijs2005/pymax/internal/server/auth"
	"github.com/dmitrijs2005/pymax/internal/server/reports"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pymax/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	_ "modernc.org/sqlite"
)

func TestServe_ReturnsWhenListenerFails(t *testing.T) {
	t.Parallel()

	srv := newServer(&fakeAccounts{}, &fakeLedger{}, &fakeReports{}, &fakeExports{})

	lis := bufconn.Listen(1024)
	require.NoError(t, lis.Close())

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(context.Background(), lis)
	}()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return on a closed listener")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newServer(&fakeAccounts{}, &fakeLedger{}, &fakeReports{}, &fakeExports{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Discard(), Services{}, false)
	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}

// startBufconn serves a fully wired stack over an in-memory listener.
func startBufconn(t *testing.T, requireSession bool) *grpc.ClientConn {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	m := &repomanager.SQLiteRepositoryManager{}
	require.NoError(t, m.RunMigrations(context.Background(), db))

	tokens := auth.NewTokenService([]byte("test-secret"))
	svc := Services{
		Accounts: services.NewAccountService(db, m, tokens, auth.NewBcryptHasher(bcrypt.MinCost), time.Now, logging.Discard()),
		Ledger:   services.NewLedgerService(db, m),
		Reports:  services.NewReportService(db, m, reports.DefaultTaxRate),
		Exports:  &fakeExports{},
	}
	srv := NewGRPCServer("bufnet", logging.Discard(), svc, requireSession)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return conn
}

func TestBufconn_AccountAndLedgerFlow(t *testing.T) {
	conn := startBufconn(t, false)
	c := NewClient(conn)
	ctx := context.Background()

	pong, err := c.Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OK", pong.Status)

	reg, err := c.Register(ctx, &RegisterRequest{Name: "Alice", Email: "Alice@Example.com", Password: "pw"})
	require.NoError(t, err)
	require.NotEmpty(t, reg.Token)

	_, err = c.Register(ctx, &RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "pw"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = c.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "pw"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	conf, err := c.Confirm(ctx, &ConfirmRequest{Token: reg.Token})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", conf.Outcome)

	conf, err = c.Confirm(ctx, &ConfirmRequest{Token: reg.Token})
	require.NoError(t, err)
	assert.Equal(t, "already_confirmed", conf.Outcome)

	_, err = c.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	login, err := c.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", login.Name)
	assert.NotEmpty(t, login.SessionToken)

	_, err = c.AddTransaction(ctx, &AddTransactionRequest{Date: "2024-01-01", Kind: "sale", Amount: json.RawMessage(`100`)})
	require.NoError(t, err)
	_, err = c.AddTransaction(ctx, &AddTransactionRequest{Date: "2024-01-01", Kind: "expense", Amount: json.RawMessage(`"30"`)})
	require.NoError(t, err)

	_, err = c.AddTransaction(ctx, &AddTransactionRequest{Kind: "sale"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	list, err := c.ListTransactions(ctx, &ListTransactionsRequest{Date: "2024-01-01"})
	require.NoError(t, err)
	require.Len(t, list.Transactions, 2)
	assert.Equal(t, "expense", list.Transactions[0].Kind)

	sum, err := c.DailySummary(ctx, &DailySummaryRequest{Date: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, reports.DailySummary{Sales: 100, Expenses: 30, Profit: 70}, *sum)

	st, err := c.IncomeStatement(ctx, &DateRangeRequest{Start: "2024-01-01", End: "2024-01-31"})
	require.NoError(t, err)
	assert.Equal(t, reports.IncomeStatement{Sales: 100, Expenses: 30, GrossProfit: 100, NetProfit: 70, EstimatedTax: 17.5}, *st)

	rng, err := c.ListTransactionsRange(ctx, &DateRangeRequest{Start: "2024-01-01", End: "2024-01-31"})
	require.NoError(t, err)
	assert.Len(t, rng.Transactions, 2)
}

func TestBufconn_SessionEnforcement(t *testing.T) {
	conn := startBufconn(t, true)
	c := NewClient(conn)
	ctx := context.Background()

	_, err := c.DailySummary(ctx, &DailySummaryRequest{Date: "2024-01-01"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	reg, err := c.Register(ctx, &RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	// a confirmation token is not a session
	_, err = c.DailySummary(WithSession(ctx, reg.Token), &DailySummaryRequest{Date: "2024-01-01"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.Confirm(ctx, &ConfirmRequest{Token: reg.Token})
	require.NoError(t, err)
	login, err := c.Login(ctx, &LoginRequest{Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	var header metadata.MD
	sum, err := c.DailySummary(WithSession(ctx, login.SessionToken), &DailySummaryRequest{Date: "2024-01-01"}, grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, reports.DailySummary{}, *sum)
	assert.NotEmpty(t, header.Get(RequestIDHeaderName))
}

func TestBufconn_Health(t *testing.T) {
	conn := startBufconn(t, false)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
