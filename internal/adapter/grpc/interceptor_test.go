package grpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/bookkeeper-backend/internal/domain"
	"github.com/simaogato/bookkeeper-backend/internal/logger"
)

func TestAuthInterceptor(t *testing.T) {
	validToken := "test-token-123"
	interceptor := AuthInterceptor(validToken)

	tests := []struct {
		name           string
		ctx            context.Context
		handlerCalled  bool
		expectedCode   codes.Code
		expectedErrMsg string
	}{
		{
			name: "Valid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", validToken),
			),
			handlerCalled:  true,
			expectedCode:   codes.OK,
			expectedErrMsg: "",
		},
		{
			name: "Invalid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "wrong-token"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "invalid token",
		},
		{
			name:           "Missing Token",
			ctx:            context.Background(),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing metadata",
		},
		{
			name: "Missing Authorization Header",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("other-header", "value"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing authorization header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				handlerCalled = true
				return "success", nil
			}

			info := &grpc.UnaryServerInfo{
				FullMethod: "/test.Service/Method",
			}

			resp, err := interceptor(tt.ctx, "test-request", info, handler)

			assert.Equal(t, tt.handlerCalled, handlerCalled, "handler called status mismatch")

			if tt.expectedCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "success", resp)
			} else {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok, "error should be a gRPC status")
				assert.Equal(t, tt.expectedCode, st.Code())
				assert.Contains(t, st.Message(), tt.expectedErrMsg)
			}
		})
	}
}

func TestAccountInterceptor(t *testing.T) {
	interceptor := AccountInterceptor()
	accountID := uuid.New()

	tests := []struct {
		name          string
		ctx           context.Context
		handlerCalled bool
		expectedCode  codes.Code
	}{
		{
			name: "Valid Account",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs(AccountHeader, accountID.String()),
			),
			handlerCalled: true,
			expectedCode:  codes.OK,
		},
		{
			name:          "Missing Metadata",
			ctx:           context.Background(),
			handlerCalled: false,
			expectedCode:  codes.Unauthenticated,
		},
		{
			name: "Missing Account Header",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs(AuthorizationHeader, "token"),
			),
			handlerCalled: false,
			expectedCode:  codes.Unauthenticated,
		},
		{
			name: "Malformed Account",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs(AccountHeader, "not-a-uuid"),
			),
			handlerCalled: false,
			expectedCode:  codes.InvalidArgument,
		},
		{
			name: "Nil Account",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs(AccountHeader, uuid.Nil.String()),
			),
			handlerCalled: false,
			expectedCode:  codes.InvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			var seen uuid.UUID
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				handlerCalled = true
				seen, _ = AccountIDFromContext(ctx)
				return "success", nil
			}

			_, err := interceptor(tt.ctx, "test-request", &grpc.UnaryServerInfo{FullMethod: "/test.Service/Method"}, handler)

			assert.Equal(t, tt.handlerCalled, handlerCalled)
			assert.Equal(t, tt.expectedCode, status.Code(err))
			if tt.handlerCalled {
				assert.Equal(t, accountID, seen)
			}
		})
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	interceptor := LoggingInterceptor(logger.NewWithWriter(&buf))
	accountID := uuid.New()
	ctx := WithAccountID(context.Background(), accountID)
	info := &grpc.UnaryServerInfo{FullMethod: "/bookkeeper.v1.BookkeeperService/DeleteForecast"}

	var handlerHadLogger bool
	_, err := interceptor(ctx, "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
		l := logger.FromContext(ctx)
		handlerHadLogger = l.GetLevel() != zerolog.Disabled
		return nil, status.Error(codes.NotFound, "forecast missing")
	})

	require.Error(t, err)
	assert.True(t, handlerHadLogger, "handler receives the request logger")
	out := buf.String()
	assert.Contains(t, out, "DeleteForecast")
	assert.Contains(t, out, accountID.String())
	assert.Contains(t, out, "NotFound")
}

func TestLoggingInterceptor_AccountFromHeader(t *testing.T) {
	var buf bytes.Buffer
	interceptor := LoggingInterceptor(logger.NewWithWriter(&buf))
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(AccountHeader, "not-a-uuid"))
	info := &grpc.UnaryServerInfo{FullMethod: "/bookkeeper.v1.BookkeeperService/ListForecasts"}

	_, err := interceptor(ctx, "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.InvalidArgument, "invalid account id")
	})

	require.Error(t, err)
	out := buf.String()
	assert.Contains(t, out, "ListForecasts")
	assert.Contains(t, out, "not-a-uuid")
	assert.Contains(t, out, "InvalidArgument")
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"invalid input", fmt.Errorf("wrap: %w", domain.ErrInvalidInput), codes.InvalidArgument},
		{"not found", domain.NotFoundf("forecast %s", uuid.New()), codes.NotFound},
		{"conflict", domain.Conflictf("already realized"), codes.FailedPrecondition},
		{"status passes through", status.Error(codes.Unauthenticated, "no"), codes.Unauthenticated},
		{"canceled", context.Canceled, codes.Canceled},
		{"unknown", errors.New("disk on fire"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(mapError(tt.err)))
		})
	}
	assert.NoError(t, mapError(nil))
}
