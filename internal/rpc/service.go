package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "cloudstore.FileStore"

const (
	FileStore_Ping_FullMethodName     = "/" + ServiceName + "/Ping"
	FileStore_Login_FullMethodName    = "/" + ServiceName + "/Login"
	FileStore_Logout_FullMethodName   = "/" + ServiceName + "/Logout"
	FileStore_List_FullMethodName     = "/" + ServiceName + "/List"
	FileStore_Upload_FullMethodName   = "/" + ServiceName + "/Upload"
	FileStore_Rename_FullMethodName   = "/" + ServiceName + "/Rename"
	FileStore_Delete_FullMethodName   = "/" + ServiceName + "/Delete"
	FileStore_Download_FullMethodName = "/" + ServiceName + "/Download"
)

// FileStoreServer is the server API for the FileStore service.
type FileStoreServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	List(context.Context, *ListRequest) (*ListResponse, error)
	Upload(context.Context, *UploadRequest) (*UploadResponse, error)
	Rename(context.Context, *RenameRequest) (*RenameResponse, error)
	Delete(context.Context, *DeleteRequest) (*DeleteResponse, error)
	Download(context.Context, *DownloadRequest) (*DownloadResponse, error)
}

// RegisterFileStoreServer registers srv on s.
func RegisterFileStoreServer(s grpc.ServiceRegistrar, srv FileStoreServer) {
	s.RegisterService(&FileStore_ServiceDesc, srv)
}

func unaryHandler[Req, Resp any](fullMethod string, call func(FileStoreServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FileStoreServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FileStoreServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// FileStore_ServiceDesc is the grpc.ServiceDesc for the FileStore service.
var FileStore_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FileStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(FileStore_Ping_FullMethodName, FileStoreServer.Ping)},
		{MethodName: "Login", Handler: unaryHandler(FileStore_Login_FullMethodName, FileStoreServer.Login)},
		{MethodName: "Logout", Handler: unaryHandler(FileStore_Logout_FullMethodName, FileStoreServer.Logout)},
		{MethodName: "List", Handler: unaryHandler(FileStore_List_FullMethodName, FileStoreServer.List)},
		{MethodName: "Upload", Handler: unaryHandler(FileStore_Upload_FullMethodName, FileStoreServer.Upload)},
		{MethodName: "Rename", Handler: unaryHandler(FileStore_Rename_FullMethodName, FileStoreServer.Rename)},
		{MethodName: "Delete", Handler: unaryHandler(FileStore_Delete_FullMethodName, FileStoreServer.Delete)},
		{MethodName: "Download", Handler: unaryHandler(FileStore_Download_FullMethodName, FileStoreServer.Download)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cloudstore/filestore",
}

// FileStoreClient is the client API for the FileStore service.
type FileStoreClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error)
	List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResponse, error)
	Upload(ctx context.Context, in *UploadRequest, opts ...grpc.CallOption) (*UploadResponse, error)
	Rename(ctx context.Context, in *RenameRequest, opts ...grpc.CallOption) (*RenameResponse, error)
	Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error)
	Download(ctx context.Context, in *DownloadRequest, opts ...grpc.CallOption) (*DownloadResponse, error)
}

type fileStoreClient struct {
	cc grpc.ClientConnInterface
}

// NewFileStoreClient returns a client that always speaks the CBOR codec.
func NewFileStoreClient(cc grpc.ClientConnInterface) FileStoreClient {
	return &fileStoreClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fileStoreClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingRequest, PingResponse](ctx, c.cc, FileStore_Ping_FullMethodName, in, opts)
}

func (c *fileStoreClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginRequest, LoginResponse](ctx, c.cc, FileStore_Login_FullMethodName, in, opts)
}

func (c *fileStoreClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutRequest, LogoutResponse](ctx, c.cc, FileStore_Logout_FullMethodName, in, opts)
}

func (c *fileStoreClient) List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResponse, error) {
	return invoke[ListRequest, ListResponse](ctx, c.cc, FileStore_List_FullMethodName, in, opts)
}

func (c *fileStoreClient) Upload(ctx context.Context, in *UploadRequest, opts ...grpc.CallOption) (*UploadResponse, error) {
	return invoke[UploadRequest, UploadResponse](ctx, c.cc, FileStore_Upload_FullMethodName, in, opts)
}

func (c *fileStoreClient) Rename(ctx context.Context, in *RenameRequest, opts ...grpc.CallOption) (*RenameResponse, error) {
	return invoke[RenameRequest, RenameResponse](ctx, c.cc, FileStore_Rename_FullMethodName, in, opts)
}

func (c *fileStoreClient) Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteRequest, DeleteResponse](ctx, c.cc, FileStore_Delete_FullMethodName, in, opts)
}

func (c *fileStoreClient) Download(ctx context.Context, in *DownloadRequest, opts ...grpc.CallOption) (*DownloadResponse, error) {
	return invoke[DownloadRequest, DownloadResponse](ctx, c.cc, FileStore_Download_FullMethodName, in, opts)
}
