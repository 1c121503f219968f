// Package redistest starts a throwaway Redis for integration tests.
package redistest

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type Server struct {
	Container testcontainers.Container
	Client    *redis.Client
}

func Start(ctx context.Context) (*Server, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start redis container: %w", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	if err = client.Ping(ctx).Err(); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	return &Server{Container: container, Client: client}, nil
}

func (s *Server) Flush(ctx context.Context) error {
	return s.Client.FlushAll(ctx).Err()
}

func (s *Server) Terminate(ctx context.Context) error {
	if s == nil {
		return nil
	}
	_ = s.Client.Close()
	return s.Container.Terminate(ctx)
}
