package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const msgUnauthenticated = "authentication required"

var errUnauthenticated = common.ErrInvalidToken

// toStatus maps service errors to gRPC statuses. Bad credentials and bad
// tokens are indistinguishable on the wire.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, msgUnauthenticated)
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrorBackendUnavailable):
		return status.Error(codes.Unavailable, "storage unavailable")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
