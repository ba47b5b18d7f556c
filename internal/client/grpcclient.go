package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// DefaultMaxMessageSize bounds a single request or response unless
// WithMaxMessageSize says otherwise. It matches the server's default upload
// limit plus envelope.
const DefaultMaxMessageSize = 101 << 20

// WithMaxMessageSize overrides DefaultMaxMessageSize for sends and receives.
func WithMaxMessageSize(n int) grpc.DialOption {
	return grpc.WithDefaultCallOptions(
		grpc.MaxCallRecvMsgSize(n),
		grpc.MaxCallSendMsgSize(n),
	)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.FileStoreClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.Token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. Extra dial options are
// applied after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
		WithMaxMessageSize(DefaultMaxMessageSize),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewFileStoreClient(conn)
	return c, nil
}

// SetToken replaces the access token sent with every call.
func (s *GRPCClient) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// Login authenticates and keeps the returned token for later calls.
func (s *GRPCClient) Login(ctx context.Context, userName, password string) (string, error) {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Login: userName, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}
	s.SetToken(resp.Token)
	return resp.Token, nil
}

// Logout revokes the current token and forgets it.
func (s *GRPCClient) Logout(ctx context.Context) error {
	if _, err := s.client.Logout(ctx, &rpc.LogoutRequest{}); err != nil {
		return s.mapError(err)
	}
	s.SetToken("")
	return nil
}

func (s *GRPCClient) List(ctx context.Context, limit int) ([]FileInfo, error) {
	resp, err := s.client.List(ctx, &rpc.ListRequest{Limit: int32(limit)})
	if err != nil {
		return nil, s.mapError(err)
	}

	out := make([]FileInfo, 0, len(resp.Files))
	for _, f := range resp.Files {
		out = append(out, FileInfo{Filename: f.Filename, Size: f.Size})
	}
	return out, nil
}

func (s *GRPCClient) Upload(ctx context.Context, filename, contentType string, data []byte) error {
	req := &rpc.UploadRequest{Filename: filename, ContentType: contentType, Data: data}
	if _, err := s.client.Upload(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Rename(ctx context.Context, filename, newFilename string) error {
	if _, err := s.client.Rename(ctx, &rpc.RenameRequest{Filename: filename, NewFilename: newFilename}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Delete(ctx context.Context, filename string) error {
	if _, err := s.client.Delete(ctx, &rpc.DeleteRequest{Filename: filename}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Download(ctx context.Context, filename string) (*File, error) {
	resp, err := s.client.Download(ctx, &rpc.DownloadRequest{Filename: filename})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &File{Filename: resp.Filename, ContentType: resp.ContentType, Data: resp.Data}, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
