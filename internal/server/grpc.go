// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/MKhiriev/go-intra-api/internal/config"
	myGRPC "github.com/MKhiriev/go-intra-api/internal/handler/grpc"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"google.golang.org/grpc"
)

type grpcServer struct {
	handler *myGRPC.Handler
	address string

	server *grpc.Server

	mu       sync.Mutex
	listener net.Listener
	stopPing context.CancelFunc

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(unaryLogging(logger)))
	handler.Register(server)

	return &grpcServer{
		handler: handler,
		address: cfg.GRPCAddress,
		server:  server,
		logger:  logger,
	}
}

func (g *grpcServer) name() string { return "gRPC" }

func (g *grpcServer) serve() error {
	listener, err := net.Listen("tcp", g.address)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.mu.Lock()
	g.listener = listener
	g.stopPing = cancel
	g.mu.Unlock()

	go g.handler.WatchDatabase(ctx, myGRPC.DefaultPingInterval)

	g.logger.Info().Str("address", listener.Addr().String()).Msg("gRPC server listening")
	if err := g.server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// shutdown stops accepting calls and waits for running ones until ctx is
// done, then closes the remaining connections.
func (g *grpcServer) shutdown(ctx context.Context) error {
	g.mu.Lock()
	if g.stopPing != nil {
		g.stopPing()
	}
	g.mu.Unlock()
	g.handler.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		g.server.Stop()
		return ctx.Err()
	}
}

func unaryLogging(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		event := log.Debug()
		if err != nil {
			event = log.Warn().Err(err)
		}
		event.Str("method", info.FullMethod).Dur("duration", time.Since(start)).Send()

		return resp, err
	}
}
