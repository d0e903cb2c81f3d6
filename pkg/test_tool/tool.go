package test_tool

import (
	"context"
	"fmt"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Container a started throwaway container plus its mapped endpoint
type Container struct {
	Instance testcontainers.Container
	Host     string
	Port     nat.Port
}

// Endpoint host:port of the container's first exposed port
func (c *Container) Endpoint() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port.Port())
}

// Terminate stop and remove the container
func (c *Container) Terminate(ctx context.Context) error {
	return c.Instance.Terminate(ctx)
}

// SetupContainer start a container for an integration test and resolve the
// mapped address of exposedPort.
func SetupContainer(ctx context.Context, req testcontainers.ContainerRequest, exposedPort string) (*Container, error) {
	instance, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	host, err := instance.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("container host: %w", err)
	}

	port, err := instance.MappedPort(ctx, nat.Port(exposedPort))
	if err != nil {
		return nil, fmt.Errorf("container port: %w", err)
	}

	return &Container{Instance: instance, Host: host, Port: port}, nil
}

// WaitForListeningPort convenience strategy for ContainerRequest.WaitingFor
func WaitForListeningPort(port string) wait.Strategy {
	return wait.ForListeningPort(nat.Port(port))
}
