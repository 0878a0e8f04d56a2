package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/bookkeeper-backend/internal/logger"
)

// Metadata keys read by the interceptors
const (
	AuthorizationHeader = "authorization"
	AccountHeader       = "x-account-id"
)

type accountKey struct{}

// WithAccountID returns a context carrying the caller's account id
func WithAccountID(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, accountKey{}, accountID)
}

// AccountIDFromContext returns the account id set by AccountInterceptor
func AccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(accountKey{}).(uuid.UUID)
	return id, ok
}

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the authorization token from request metadata.
// If the token is missing or invalid, it returns status.Unauthenticated.
// If valid, it calls the handler with the original context.
func AuthInterceptor(validToken string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get(AuthorizationHeader)
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		if authHeaders[0] != validToken {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(ctx, req)
	}
}

// AccountInterceptor resolves the tenant from the x-account-id header.
// Every ledger operation is scoped to it.
func AccountInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		values := md.Get(AccountHeader)
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing account header")
		}

		accountID, err := uuid.Parse(values[0])
		if err != nil || accountID == uuid.Nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid account id %q", values[0])
		}

		return handler(WithAccountID(ctx, accountID), req)
	}
}

// LoggingInterceptor attaches log to the request context and logs every call
// with its method, account, status code and duration. It runs first in the
// chain so calls rejected by AuthInterceptor or AccountInterceptor are logged
// too; the account then comes straight from the request header.
func LoggingInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		reqLog := log.With().Str("method", info.FullMethod).Logger()
		if accountID, ok := AccountIDFromContext(ctx); ok {
			reqLog = reqLog.With().Str("account_id", accountID.String()).Logger()
		} else if raw := headerValue(ctx, AccountHeader); raw != "" {
			reqLog = reqLog.With().Str("account_id", raw).Logger()
		}

		resp, err := handler(logger.WithContext(ctx, reqLog), req)

		code := status.Code(err)
		event := reqLog.Info()
		switch code {
		case codes.OK:
		case codes.Internal, codes.Unknown:
			event = reqLog.Error().Err(err)
		default:
			event = reqLog.Warn().Err(err)
		}
		event.Str("code", code.String()).Dur("duration", time.Since(start)).Msg("rpc")

		return resp, err
	}
}

func headerValue(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
