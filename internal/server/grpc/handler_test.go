package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/logging"
	"github.com/dmitrijs2005/cloudstore/internal/rpc"
	"github.com/dmitrijs2005/cloudstore/internal/server/servertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// startServer serves a fresh stack over an in-memory listener and returns a
// connected client.
func startServer(t *testing.T) (*servertest.Stack, rpc.FileStoreClient) {
	t.Helper()

	stack := servertest.New(t)
	srv := NewGRPCServer("bufnet", logging.Nop(), stack.Users, stack.Storage, stack.Tokens, servertest.MaxUploadSize)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})

	return stack, rpc.NewFileStoreClient(conn)
}

func withToken(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, common.BearerPrefix+token)
}

func TestGRPC_PingIsPublic(t *testing.T) {
	_, client := startServer(t)

	resp, err := client.Ping(context.Background(), &rpc.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

func TestGRPC_LoginRejectsBadCredentials(t *testing.T) {
	stack, client := startServer(t)
	stack.AddUser(t, "alice", "pw")

	for _, req := range []*rpc.LoginRequest{
		{Login: "alice", Password: "wrong"},
		{Login: "nobody", Password: "pw"},
	} {
		_, err := client.Login(context.Background(), req)
		st, _ := status.FromError(err)
		assert.Equal(t, codes.Unauthenticated, st.Code())
		assert.Equal(t, msgUnauthenticated, st.Message())
	}
}

func TestGRPC_ProtectedCallsNeedToken(t *testing.T) {
	_, client := startServer(t)

	cases := map[string]func(ctx context.Context) error{
		"list": func(ctx context.Context) error {
			_, err := client.List(ctx, &rpc.ListRequest{Limit: 10})
			return err
		},
		"upload": func(ctx context.Context) error {
			_, err := client.Upload(ctx, &rpc.UploadRequest{Filename: "a", Data: []byte("x")})
			return err
		},
		"download": func(ctx context.Context) error {
			_, err := client.Download(ctx, &rpc.DownloadRequest{Filename: "a"})
			return err
		},
	}

	for name, call := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, codes.Unauthenticated, status.Code(call(context.Background())))
			assert.Equal(t, codes.Unauthenticated, status.Code(call(withToken("garbage"))))
		})
	}
}

func TestGRPC_FileLifecycle(t *testing.T) {
	stack, client := startServer(t)
	stack.AddUser(t, "alice", "pw")

	login, err := client.Login(context.Background(), &rpc.LoginRequest{Login: "alice", Password: "pw"})
	require.NoError(t, err)
	ctx := withToken(login.Token)

	_, err = client.Upload(ctx, &rpc.UploadRequest{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")})
	require.NoError(t, err)

	list, err := client.List(ctx, &rpc.ListRequest{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []rpc.FileInfo{{Filename: "notes.txt", Size: 5}}, list.Files)

	_, err = client.Rename(ctx, &rpc.RenameRequest{Filename: "notes.txt", NewFilename: "todo.txt"})
	require.NoError(t, err)

	got, err := client.Download(ctx, &rpc.DownloadRequest{Filename: "todo.txt"})
	require.NoError(t, err)
	assert.Equal(t, "todo.txt", got.Filename)
	assert.Equal(t, "text/plain", got.ContentType)
	assert.Equal(t, []byte("hello"), got.Data)

	_, err = client.Delete(ctx, &rpc.DeleteRequest{Filename: "todo.txt"})
	require.NoError(t, err)

	_, err = client.Download(ctx, &rpc.DownloadRequest{Filename: "todo.txt"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPC_ErrorCodes(t *testing.T) {
	stack, client := startServer(t)
	stack.AddUser(t, "alice", "pw")
	ctx := withToken(stack.Login(t, "alice", "pw"))

	_, err := client.List(ctx, &rpc.ListRequest{Limit: -1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Upload(ctx, &rpc.UploadRequest{Filename: ""})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	for _, name := range []string{"a", "b"} {
		_, err = client.Upload(ctx, &rpc.UploadRequest{Filename: name, Data: []byte(name)})
		require.NoError(t, err)
	}
	_, err = client.Rename(ctx, &rpc.RenameRequest{Filename: "a", NewFilename: "b"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestGRPC_UsersAreIsolated(t *testing.T) {
	stack, client := startServer(t)
	stack.AddUser(t, "alice", "pw")
	stack.AddUser(t, "bob", "pw")
	alice := withToken(stack.Login(t, "alice", "pw"))
	bob := withToken(stack.Login(t, "bob", "pw"))

	_, err := client.Upload(alice, &rpc.UploadRequest{Filename: "secret", Data: []byte("a")})
	require.NoError(t, err)

	list, err := client.List(bob, &rpc.ListRequest{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list.Files)

	_, err = client.Download(bob, &rpc.DownloadRequest{Filename: "secret"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPC_LogoutRevokesToken(t *testing.T) {
	stack, client := startServer(t)
	stack.AddUser(t, "alice", "pw")
	ctx := withToken(stack.Login(t, "alice", "pw"))

	_, err := client.List(ctx, &rpc.ListRequest{Limit: 1})
	require.NoError(t, err)

	_, err = client.Logout(ctx, &rpc.LogoutRequest{})
	require.NoError(t, err)
	_, err = client.Logout(ctx, &rpc.LogoutRequest{})
	require.NoError(t, err)

	_, err = client.List(ctx, &rpc.ListRequest{Limit: 1})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
