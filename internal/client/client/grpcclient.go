// Package client probes the server's gRPC health endpoint. The CLI uses it to
// show whether it is online.
package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bitnet/internal/client/api"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName is the health service the server registers.
const ServiceName = "bitnet.Server"

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      healthpb.HealthClient
}

// NewHealthClient prepares a lazy connection; nothing is dialled until Ping.
func NewHealthClient(endpointURL string) (*GRPCClient, error) {
	conn, err := grpc.NewClient(endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &GRPCClient{endpointURL: endpointURL, conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// Ping returns nil only when the server reports SERVING.
func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", api.ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return api.ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded, codes.NotFound, codes.Canceled:
		return api.ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
