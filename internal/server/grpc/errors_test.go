package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"unauthorized", common.ErrorUnauthorized, codes.Unauthenticated},
		{"expired token", fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired), codes.Unauthenticated},
		{"not found", common.ErrorNotFound, codes.NotFound},
		{"validation", fmt.Errorf("%w: empty filename", common.ErrorValidation), codes.InvalidArgument},
		{"exists", common.ErrorAlreadyExists, codes.AlreadyExists},
		{"backend", common.ErrorBackendUnavailable, codes.Unavailable},
		{"canceled", context.Canceled, codes.Canceled},
		{"unknown", errors.New("boom"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(toStatus(tt.err)))
		})
	}

	assert.NoError(t, toStatus(nil))
}

func TestToStatus_AuthFailuresLookAlike(t *testing.T) {
	a, _ := status.FromError(toStatus(common.ErrorUnauthorized))
	b, _ := status.FromError(toStatus(common.ErrInvalidToken))
	assert.Equal(t, a.Message(), b.Message())
}
