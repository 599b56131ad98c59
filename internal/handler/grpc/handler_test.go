// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

// switchPinger fails while down is set.
type switchPinger struct {
	mu   sync.Mutex
	down bool
}

func (p *switchPinger) PingContext(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.down {
		return errors.New("connection refused")
	}
	return nil
}

func (p *switchPinger) set(down bool) {
	p.mu.Lock()
	p.down = down
	p.mu.Unlock()
}

func status(t *testing.T, h *Handler) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := h.health.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	return resp.GetStatus()
}

// ── Health status ───────────────────────────────────────────────────────────

func TestNewHandler_StartsNotServing(t *testing.T) {
	h := NewHandler(&switchPinger{}, logger.Nop())

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, h))
}

func TestCheckDatabase(t *testing.T) {
	p := &switchPinger{}
	h := NewHandler(p, logger.Nop())

	h.checkDatabase(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, h))

	p.set(true)
	h.checkDatabase(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, h))
}

func TestWatchDatabase_FollowsPings(t *testing.T) {
	p := &switchPinger{}
	h := NewHandler(p, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.WatchDatabase(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return status(t, h) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	p.set(true)
	assert.Eventually(t, func() bool {
		return status(t, h) == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WatchDatabase did not stop after cancel")
	}
}

func TestShutdown_ReportsNotServing(t *testing.T) {
	h := NewHandler(&switchPinger{}, logger.Nop())
	h.checkDatabase(context.Background())

	h.Shutdown()
	h.checkDatabase(context.Background())

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, h))
}

// ── Over the wire ───────────────────────────────────────────────────────────

func TestRegister_ServesHealthOverGRPC(t *testing.T) {
	h := NewHandler(&switchPinger{}, logger.Nop())
	h.checkDatabase(context.Background())

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	h.Register(server)
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
