package grpc

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/dmitrijs2005/cloudstore/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGRPCServer_Run_InvalidAddress(t *testing.T) {
	s := NewGRPCServer("bad::addr", logging.Nop(), nil, nil, nil, 0)
	err := s.Run(context.Background())
	require.Error(t, err)
}

func TestGRPCServer_Run_StopsOnCancel(t *testing.T) {
	s := NewGRPCServer("127.0.0.1:0", logging.Nop(), nil, nil, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestMaxMessageSize(t *testing.T) {
	tests := []struct {
		name  string
		limit int64
		want  int
	}{
		{"limit plus overhead", 1 << 20, 2 << 20},
		{"zero is unbounded", 0, math.MaxInt32},
		{"negative is unbounded", -1, math.MaxInt32},
		{"clamped to int32", 4 << 30, math.MaxInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maxMessageSize(tt.limit))
		})
	}
}
