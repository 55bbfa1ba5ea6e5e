package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	portalBuildOnce  sync.Once
	portalBuildError error
	portalContainer  *PortalContainer
	portalOnce       sync.Once
	portalStartErr   error
)

// PortalContainer wraps a testcontainers environment: fixture backend + portal.
type PortalContainer struct {
	portal  testcontainers.Container
	backend testcontainers.Container
	network *testcontainers.DockerNetwork
	ctx     context.Context
	cancel  context.CancelFunc
	url     string
}

// URL returns the base URL of the running portal container.
func (p *PortalContainer) URL() string {
	return p.url
}

// CollectLogs saves container stdout/stderr to dir/.
func (p *PortalContainer) CollectLogs(dir string) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	os.MkdirAll(dir, 0755)

	collectContainerLog := func(c testcontainers.Container, name string) {
		if c == nil {
			return
		}
		reader, err := c.Logs(ctx)
		if err != nil {
			return
		}
		defer reader.Close()

		logs, err := io.ReadAll(reader)
		if err != nil {
			return
		}
		os.WriteFile(filepath.Join(dir, name+".log"), logs, 0644)
	}

	collectContainerLog(p.portal, "portal")
	collectContainerLog(p.backend, "backend")
}

// Cleanup tears down all containers and the network.
// Uses a fresh context for teardown in case the main context expired.
func (p *PortalContainer) Cleanup() {
	if p == nil {
		return
	}

	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cleanupCancel()

	if p.portal != nil {
		p.portal.Terminate(cleanupCtx)
	}
	if p.backend != nil {
		p.backend.Terminate(cleanupCtx)
	}
	if p.network != nil {
		p.network.Remove(cleanupCtx)
	}
	if p.cancel != nil {
		p.cancel()
	}
}

// buildPortalImage builds the iposhala-portal:test Docker image once per test run.
func buildPortalImage() error {
	portalBuildOnce.Do(func() {
		ctx := context.Background()

		req := testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				FromDockerfile: testcontainers.FromDockerfile{
					Context:    FindProjectRoot(),
					Dockerfile: "tests/docker/Dockerfile.portal",
					Repo:       "iposhala-portal",
					Tag:        "test",
					KeepImage:  true,
				},
			},
		}

		_, portalBuildError = testcontainers.GenericContainer(ctx, req)
		if portalBuildError != nil {
			// Image may have built successfully even if container creation failed
			if strings.Contains(portalBuildError.Error(), "iposhala-portal:test") {
				portalBuildError = nil
			}
		}
	})
	return portalBuildError
}

// startTestEnvironment creates the 2-container environment on a shared
// network: an nginx container serving canned backend JSON, then the portal.
func startTestEnvironment() (*PortalContainer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)

	testNet, err := network.New(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create docker network: %w", err)
	}

	fixtures := filepath.Join(FindProjectRoot(), "tests", "docker", "backend")
	backendCtr, err := testcontainers.Run(ctx, "nginx:1.27-alpine",
		testcontainers.WithExposedPorts("80/tcp"),
		network.WithNetwork([]string{"backend"}, testNet),
		testcontainers.WithFiles(
			testcontainers.ContainerFile{
				HostFilePath:      filepath.Join(fixtures, "nginx.conf"),
				ContainerFilePath: "/etc/nginx/conf.d/default.conf",
				FileMode:          0o644,
			},
			testcontainers.ContainerFile{
				HostFilePath:      filepath.Join(fixtures, "api"),
				ContainerFilePath: "/srv/",
				FileMode:          0o755,
			},
		),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/api/ipos/stats").WithPort("80/tcp").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("start backend: %w", err)
	}

	// Container IP rather than Docker DNS for the CGO_ENABLED=0 build
	backendIP, err := backendCtr.ContainerIP(ctx)
	if err != nil {
		backendCtr.Terminate(ctx)
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("get backend IP: %w", err)
	}

	portalCtr, err := testcontainers.Run(ctx, "iposhala-portal:test",
		testcontainers.WithExposedPorts("8080/tcp"),
		network.WithNetwork([]string{"portal"}, testNet),
		testcontainers.WithEnv(map[string]string{
			"IPOSHALA_API_URL":     fmt.Sprintf("http://%s", backendIP),
			"IPOSHALA_ENV":         "dev",
			"IPOSHALA_SERVER_HOST": "0.0.0.0",
			"IPOSHALA_SERVER_PORT": "8080",
			// Browser tests fire many requests from one address
			"IPOSHALA_RATE_LIMIT_RPS": "0",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/api/health").WithPort("8080/tcp").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		backendCtr.Terminate(ctx)
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("start portal: %w", err)
	}

	mappedPort, err := portalCtr.MappedPort(ctx, "8080/tcp")
	if err != nil {
		portalCtr.Terminate(ctx)
		backendCtr.Terminate(ctx)
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("get portal mapped port: %w", err)
	}

	host, err := portalCtr.Host(ctx)
	if err != nil {
		portalCtr.Terminate(ctx)
		backendCtr.Terminate(ctx)
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("get portal host: %w", err)
	}

	return &PortalContainer{
		portal:  portalCtr,
		backend: backendCtr,
		network: testNet,
		ctx:     ctx,
		cancel:  cancel,
		url:     fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
	}, nil
}

func startOnce() {
	portalOnce.Do(func() {
		if err := buildPortalImage(); err != nil {
			portalStartErr = fmt.Errorf("build portal image: %w", err)
			return
		}
		portalContainer, portalStartErr = startTestEnvironment()
	})
}

// StartPortal starts the test environment (one per test process).
// Returns nil when IPOSHALA_TEST_URL is set (manual mode, tests use the existing server).
func StartPortal(t *testing.T) *PortalContainer {
	t.Helper()
	if os.Getenv("IPOSHALA_TEST_URL") != "" {
		return nil
	}

	startOnce()
	if portalStartErr != nil {
		t.Fatalf("Failed to start test environment: %v", portalStartErr)
	}
	return portalContainer
}

// StartPortalForTestMain starts the test environment for use in TestMain (no *testing.T).
// Returns (nil, nil) when IPOSHALA_TEST_URL is set (manual mode).
func StartPortalForTestMain() (*PortalContainer, error) {
	if os.Getenv("IPOSHALA_TEST_URL") != "" {
		return nil, nil
	}

	startOnce()
	if portalStartErr != nil {
		return nil, portalStartErr
	}
	return portalContainer, nil
}

// FindProjectRoot walks up from the working directory to the go.mod.
func FindProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}
