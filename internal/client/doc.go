// Package client is the Go client for a CloudStore server.
//
// GRPCClient manages one connection and attaches the current access token to
// every call through a unary interceptor. gRPC status codes are mapped to the
// sentinel errors of this package, so callers match failures with errors.Is:
// ErrUnauthorized, ErrNotFound, ErrAlreadyExists, ErrInvalidArgument and
// ErrUnavailable.
//
// A GRPCClient is safe for concurrent use.
package client
