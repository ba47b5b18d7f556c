package grpc

import (
	"context"
	"math"
	"net"

	"github.com/dmitrijs2005/cloudstore/internal/logging"
	"github.com/dmitrijs2005/cloudstore/internal/rpc"
	"github.com/dmitrijs2005/cloudstore/internal/server/auth"
	"github.com/dmitrijs2005/cloudstore/internal/server/services"
	"google.golang.org/grpc"
)

// messageOverhead is added to the upload limit to leave room for the
// envelope around file bytes.
const messageOverhead = 1 << 20

// maxMessageSize returns the gRPC message cap for an upload limit. A limit
// <= 0 means uploads are unbounded, so the cap is the largest size gRPC allows.
func maxMessageSize(maxUploadSize int64) int {
	if maxUploadSize <= 0 || maxUploadSize > math.MaxInt32-messageOverhead {
		return math.MaxInt32
	}
	return int(maxUploadSize) + messageOverhead
}

type GRPCServer struct {
	address       string
	users         *services.UserService
	storage       *services.StorageService
	tokens        *auth.TokenService
	logger        logging.Logger
	maxUploadSize int64
}

func NewGRPCServer(a string, l logging.Logger, us *services.UserService, ss *services.StorageService,
	tokens *auth.TokenService, maxUploadSize int64) *GRPCServer {
	return &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		users:         us,
		storage:       ss,
		tokens:        tokens,
		maxUploadSize: maxUploadSize,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	maxMsg := maxMessageSize(s.maxUploadSize)

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor),
		grpc.MaxRecvMsgSize(maxMsg),
		grpc.MaxSendMsgSize(maxMsg),
	)

	rpc.RegisterFileStoreServer(srv, s)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
