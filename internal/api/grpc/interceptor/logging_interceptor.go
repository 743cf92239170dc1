package interceptor

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"rentshare-backend/internal/logger"
)

// Logging returns a server interceptor that records method, duration and
// status code for every unary RPC.
func Logging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		args := []any{
			"method", info.FullMethod,
			"code", code.String(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch code {
		case codes.OK:
			logger.DebugContext(ctx, "gRPC request", args...)
		case codes.Internal, codes.Unknown, codes.DataLoss:
			logger.ErrorContext(ctx, "gRPC request failed", append(args, "error", err)...)
		default:
			logger.InfoContext(ctx, "gRPC request rejected", append(args, "error", err)...)
		}
		return resp, err
	}
}

// Recovery converts a handler panic into codes.Internal.
func Recovery() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(ctx, "gRPC handler panicked", "method", info.FullMethod, "panic", r)
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
