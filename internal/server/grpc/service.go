package grpc

import (
	"context"

	"github.com/dmitrijs2005/pymax/internal/server/reports"
	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "pymax.PymaxService"

// PymaxServer is the set of unary handlers exposed over gRPC.
type PymaxServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Confirm(context.Context, *ConfirmRequest) (*ConfirmResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	AddTransaction(context.Context, *AddTransactionRequest) (*AddTransactionResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
	ListTransactionsRange(context.Context, *DateRangeRequest) (*ListTransactionsResponse, error)
	DailySummary(context.Context, *DailySummaryRequest) (*reports.DailySummary, error)
	IncomeStatement(context.Context, *DateRangeRequest) (*reports.IncomeStatement, error)
	ExportTransactions(context.Context, *DateRangeRequest) (*ExportResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// FullMethod returns the "/service/method" path used on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](name string, call func(PymaxServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PymaxServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PymaxServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PymaxServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", PymaxServer.Register),
		unary("Confirm", PymaxServer.Confirm),
		unary("Login", PymaxServer.Login),
		unary("AddTransaction", PymaxServer.AddTransaction),
		unary("ListTransactions", PymaxServer.ListTransactions),
		unary("ListTransactionsRange", PymaxServer.ListTransactionsRange),
		unary("DailySummary", PymaxServer.DailySummary),
		unary("IncomeStatement", PymaxServer.IncomeStatement),
		unary("ExportTransactions", PymaxServer.ExportTransactions),
		unary("Ping", PymaxServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pymax",
}

// RegisterPymaxServer registers impl on s.
func RegisterPymaxServer(s grpc.ServiceRegistrar, impl PymaxServer) {
	s.RegisterService(&serviceDesc, impl)
}
