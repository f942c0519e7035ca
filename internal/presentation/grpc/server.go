package grpc

import (
	"fmt"
	"log/slog"
	"net"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Server wraps the gRPC listener lifecycle.
type Server struct {
	addr   string
	server *grpclib.Server
	logger *slog.Logger
}

// NewServer builds the gRPC server and registers the credit service together
// with health and reflection services.
func NewServer(addr string, handler CreditServiceServer, logger *slog.Logger) *Server {
	server := grpclib.NewServer()

	RegisterCreditServiceServer(server, handler)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("autofin.credit.v1.CreditService", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	reflection.Register(server)

	return &Server{addr: addr, server: server, logger: logger}
}

// Start listens and serves; it blocks until Stop is called or the listener fails.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.logger.Info("grpc server listening", "addr", s.addr)
	if err := s.server.Serve(lis); err != nil {
		return fmt.Errorf("serve grpc: %w", err)
	}
	return nil
}

// Stop drains in-flight RPCs and shuts the server down.
func (s *Server) Stop() {
	s.logger.Info("grpc server stopping")
	s.server.GracefulStop()
}
