package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/pymax/internal/common"
	"github.com/dmitrijs2005/pymax/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const claimsKey ctxKey = "sessionClaims"

// RequestIDHeaderName is echoed back in the response header.
const RequestIDHeaderName = "x-request-id"

// sessionProtected lists the methods that need a session token when session
// enforcement is on.
var sessionProtected = map[string]bool{
	FullMethod("AddTransaction"):        true,
	FullMethod("ListTransactions"):      true,
	FullMethod("ListTransactionsRange"): true,
	FullMethod("DailySummary"):          true,
	FullMethod("IncomeStatement"):       true,
	FullMethod("ExportTransactions"):    true,
}

// claimsFromContext returns the verified session claims stored by the
// session interceptor.
func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

func firstValue(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	requestID := firstValue(ctx, RequestIDHeaderName)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeaderName, requestID))

	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "request",
		"request_id", requestID,
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

// recoveryInterceptor logs a handler panic and answers codes.Internal.
func (s *GRPCServer) recoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "panic in handler", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
			resp, err = nil, status.Error(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}

func (s *GRPCServer) sessionInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if !s.requireSession || !sessionProtected[info.FullMethod] {
		return handler(ctx, req)
	}

	token := firstValue(ctx, common.SessionTokenHeaderName)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing session token")
	}

	claims, err := s.accounts.VerifySession(ctx, token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid session token")
	}

	return handler(context.WithValue(ctx, claimsKey, claims), req)
}
