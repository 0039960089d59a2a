//go:build integration

package testing

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"os/exec"
	"testing"
	"time"
)

// RedisImage is the image used for integration tests
const RedisImage = "redis:7-alpine"

// SkipIfNoDocker skips the test if the docker daemon is not reachable
func SkipIfNoDocker(t testing.TB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// StartRedisContainer starts a real Redis server and returns its address (host:port).
// The container is terminated when the test ends.
func StartRedisContainer(t testing.TB) string {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        RedisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	return fmt.Sprintf("%s:%s", host, port.Port())
}

// NewRedisContainerClient connects a client to a new Redis container
func NewRedisContainerClient(t testing.TB) redis.UniversalClient {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: StartRedisContainer(t)})
	t.Cleanup(func() { _ = client.Close() })
	return client
}
