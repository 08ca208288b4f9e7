package dbtest

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/localnerve/lookout/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Container is a running database server
type Container struct {
	testcontainers.Container
	Config *config.Config
}

// ContainerSpec describes a database server image
type ContainerSpec struct {
	DBType   string
	Image    string
	Port     string
	Database string
	User     string
	Password string
}

// DefaultSpec returns the container settings for a dialect, with image overridable by the caller
func DefaultSpec(dbType, image string) (ContainerSpec, error) {
	spec := ContainerSpec{
		DBType:   dbType,
		Image:    image,
		Database: "lookout",
		User:     "lookout",
		Password: "lookout-test",
	}
	switch dbType {
	case "mysql", "mariadb":
		spec.Port = "3306"
		if spec.Image == "" {
			spec.Image = "mariadb:11"
		}
	case "postgres":
		spec.Port = "5432"
		if spec.Image == "" {
			spec.Image = "postgres:17-alpine"
		}
	default:
		return ContainerSpec{}, fmt.Errorf("no container for database type %s", dbType)
	}
	return spec, nil
}

func (s ContainerSpec) env() map[string]string {
	switch s.DBType {
	case "postgres":
		return map[string]string{
			"POSTGRES_PASSWORD": s.Password,
			"POSTGRES_USER":     s.User,
			"POSTGRES_DB":       s.Database,
		}
	default:
		return map[string]string{
			"MARIADB_RANDOM_ROOT_PASSWORD": "1",
			"MARIADB_DATABASE":             s.Database,
			"MARIADB_USER":                 s.User,
			"MARIADB_PASSWORD":             s.Password,
		}
	}
}

// StartContainer starts a database server and returns a config pointing at it
func StartContainer(ctx context.Context, spec ContainerSpec) (*Container, error) {
	tcpPort, err := nat.NewPort("tcp", spec.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	// data directory on tmpfs, nothing survives the container
	hostConfigModifier := func(hostConfig *container.HostConfig) {
		dataDir := "/var/lib/mysql"
		if spec.DBType == "postgres" {
			dataDir = "/var/lib/postgresql/data"
		}
		hostConfig.Tmpfs = map[string]string{dataDir: "rw"}
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:              spec.Image,
			ExposedPorts:       []string{string(tcpPort)},
			Env:                spec.env(),
			HostConfigModifier: hostConfigModifier,
			WaitingFor:         wait.ForListeningPort(tcpPort).WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", spec.Image, err)
	}

	host, err := dbContainer.Host(ctx)
	if err != nil {
		_ = dbContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	mapped, err := dbContainer.MappedPort(ctx, tcpPort)
	if err != nil {
		_ = dbContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	return &Container{
		Container: dbContainer,
		Config: &config.Config{
			DBType:            spec.DBType,
			DBHost:            host,
			DBPort:            mapped.Port(),
			DBDatabase:        spec.Database,
			DBUser:            spec.User,
			DBPassword:        spec.Password,
			DBConnectionLimit: 4,
			DBLogLevel:        "warn",
		},
	}, nil
}
