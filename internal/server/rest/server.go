// Package rest serves the CloudStore HTTP API: login, logout and the
// per-user file operations under /list and /file.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cloudstore/internal/logging"
	"github.com/dmitrijs2005/cloudstore/internal/server/auth"
	"github.com/dmitrijs2005/cloudstore/internal/server/services"
)

const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 5 * time.Minute
	writeTimeout      = 5 * time.Minute
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

// HTTPServer is the REST front end. It implements http.Handler.
type HTTPServer struct {
	address       string
	users         *services.UserService
	storage       *services.StorageService
	tokens        *auth.TokenService
	logger        logging.Logger
	maxUploadSize int64
	mux           *http.ServeMux
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, ss *services.StorageService,
	tokens *auth.TokenService, maxUploadSize int64) *HTTPServer {
	s := &HTTPServer{
		address:       a,
		logger:        l.With("module", "http_server"),
		users:         us,
		storage:       ss,
		tokens:        tokens,
		maxUploadSize: maxUploadSize,
		mux:           http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *HTTPServer) routes() {
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("POST /logout", s.handleLogout)

	s.mux.Handle("GET /list", s.requireToken(s.handleList))
	s.mux.Handle("POST /file", s.requireToken(s.handleUpload))
	s.mux.Handle("PUT /file", s.requireToken(s.handleRename))
	s.mux.Handle("DELETE /file", s.requireToken(s.handleDelete))
	s.mux.Handle("GET /file", s.requireToken(s.handleDownload))
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logRequests(s.mux).ServeHTTP(w, r)
}

// Run listens on the configured address and serves until ctx is done.
func (s *HTTPServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis until ctx is done, then shuts down,
// waiting up to shutdownTimeout for in-flight requests.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
