package grpc

import (
	"context"

	"github.com/dmitrijs2005/pymax/internal/common"
	"github.com/dmitrijs2005/pymax/internal/server/reports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client calls PymaxService over an existing connection using the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// WithSession attaches a session token to outgoing calls made with ctx.
func WithSession(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.SessionTokenHeaderName, token)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, req *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, "Register", req, opts...)
}

func (c *Client) Confirm(ctx context.Context, req *ConfirmRequest, opts ...grpc.CallOption) (*ConfirmResponse, error) {
	return invoke[ConfirmResponse](ctx, c.cc, "Confirm", req, opts...)
}

func (c *Client) Login(ctx context.Context, req *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, "Login", req, opts...)
}

func (c *Client) AddTransaction(ctx context.Context, req *AddTransactionRequest, opts ...grpc.CallOption) (*AddTransactionResponse, error) {
	return invoke[AddTransactionResponse](ctx, c.cc, "AddTransaction", req, opts...)
}

func (c *Client) ListTransactions(ctx context.Context, req *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return invoke[ListTransactionsResponse](ctx, c.cc, "ListTransactions", req, opts...)
}

func (c *Client) ListTransactionsRange(ctx context.Context, req *DateRangeRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return invoke[ListTransactionsResponse](ctx, c.cc, "ListTransactionsRange", req, opts...)
}

func (c *Client) DailySummary(ctx context.Context, req *DailySummaryRequest, opts ...grpc.CallOption) (*reports.DailySummary, error) {
	return invoke[reports.DailySummary](ctx, c.cc, "DailySummary", req, opts...)
}

func (c *Client) IncomeStatement(ctx context.Context, req *DateRangeRequest, opts ...grpc.CallOption) (*reports.IncomeStatement, error) {
	return invoke[reports.IncomeStatement](ctx, c.cc, "IncomeStatement", req, opts...)
}

func (c *Client) ExportTransactions(ctx context.Context, req *DateRangeRequest, opts ...grpc.CallOption) (*ExportResponse, error) {
	return invoke[ExportResponse](ctx, c.cc, "ExportTransactions", req, opts...)
}

func (c *Client) Ping(ctx context.Context, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, "Ping", &PingRequest{}, opts...)
}
