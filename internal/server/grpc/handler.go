package grpc

import (
	"context"

	"github.com/dmitrijs2005/cloudstore/internal/rpc"
	"github.com/dmitrijs2005/cloudstore/internal/server/auth"
)

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	token, err := s.users.Login(ctx, req.Login, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.LoginResponse{Token: token}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *rpc.LogoutRequest) (*rpc.LogoutResponse, error) {
	if err := s.users.Logout(ctx, tokenFromMetadata(ctx)); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.LogoutResponse{}, nil
}

func (s *GRPCServer) List(ctx context.Context, req *rpc.ListRequest) (*rpc.ListResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.storage.List(ctx, id, int(req.Limit))
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &rpc.ListResponse{Files: make([]rpc.FileInfo, 0, len(items))}
	for _, it := range items {
		resp.Files = append(resp.Files, rpc.FileInfo{Filename: it.Filename, Size: it.Size})
	}
	return resp, nil
}

func (s *GRPCServer) Upload(ctx context.Context, req *rpc.UploadRequest) (*rpc.UploadResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Upload(ctx, id, req.Filename, req.ContentType, req.Data); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.UploadResponse{}, nil
}

func (s *GRPCServer) Rename(ctx context.Context, req *rpc.RenameRequest) (*rpc.RenameResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Rename(ctx, id, req.Filename, req.NewFilename); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.RenameResponse{}, nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *rpc.DeleteRequest) (*rpc.DeleteResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Delete(ctx, id, req.Filename); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.DeleteResponse{}, nil
}

func (s *GRPCServer) Download(ctx context.Context, req *rpc.DownloadRequest) (*rpc.DownloadResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	f, err := s.storage.Download(ctx, id, req.Filename)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.DownloadResponse{Filename: f.Filename, ContentType: f.ContentType, Data: f.Content}, nil
}

// identity returns the caller set by accessTokenInterceptor.
func identity(ctx context.Context) (auth.Identity, error) {
	id, ok := auth.FromContext(ctx)
	if !ok {
		return auth.Identity{}, toStatus(errUnauthenticated)
	}
	return id, nil
}
