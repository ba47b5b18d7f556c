package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/rpc"
	"github.com/dmitrijs2005/cloudstore/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicMethods are callable without a token.
var publicMethods = map[string]struct{}{
	rpc.FileStore_Ping_FullMethodName:   {},
	rpc.FileStore_Login_FullMethodName:  {},
	rpc.FileStore_Logout_FullMethodName: {},
}

// accessTokenInterceptor authenticates every non-public call and puts the
// caller's identity into the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if _, ok := publicMethods[info.FullMethod]; ok {
		return handler(ctx, req)
	}

	id, err := s.tokens.Authenticate(ctx, tokenFromMetadata(ctx))
	if err != nil {
		s.logger.Debug(ctx, "rejected call", "method", info.FullMethod, "error", err)
		return nil, toStatus(err)
	}

	return handler(auth.NewContext(ctx, id), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "rpc",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

func tokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AccessTokenHeaderName)
	if len(values) == 0 {
		return ""
	}
	return common.StripBearer(values[0])
}
