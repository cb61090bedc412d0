package test

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/2beens/wellnesstracker/internal"
	"github.com/2beens/wellnesstracker/internal/config"
	"github.com/2beens/wellnesstracker/pkg"

	"github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

const (
	serverPort = 9000
	serverHost = "127.0.0.1"

	testEntryToken       = "entry-token"
	testEntryRateLimit   = 5
	testPostgresDBName   = "wellness"
	testAnchorDate       = "2024-01-01"
	testUserAgent        = "test-agent"
	serverStartupTimeout = 30 * time.Second
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

// IntegrationTestSuite runs the whole service against postgres (as the
// tabular store) and redis (for the entry rate limiter) in docker.
type IntegrationTestSuite struct {
	suite.Suite

	DB         *sql.DB
	dockerPool *dockertest.Pool
	server     *internal.Server
	httpClient *http.Client
	teardown   []func()
}

func TestIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	fmt.Println("setting up test suite...")

	s.teardown = make([]func(), 0)
	s.httpClient = &http.Client{Timeout: 10 * time.Second}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	var err error
	s.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		s.T().Skipf("could not create new dockertest pool: %s", err)
	}

	// uses pool to try to connect to Docker
	if err = s.dockerPool.Client.Ping(); err != nil {
		s.T().Skipf("could not ping dockertest pool: %s", err)
	}

	redisPort, err := s.redisSetup()
	if err != nil {
		s.cleanup()
		s.T().Fatalf("failed to setup redis: %s", err)
	}

	pgPort, err := s.postgresSetup()
	if err != nil {
		s.cleanup()
		s.T().Fatalf("failed to setup postgres: %s", err)
	}

	entryTokenHash, err := pkg.HashSecret(testEntryToken, bcrypt.MinCost)
	s.Require().NoError(err)

	cfg := getTestConfig(redisPort, pgPort)
	s.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			EntryTokenHash:          entryTokenHash,
			VersionInfo:             "test-version-info",
			RedisPassword:           "",
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		s.cleanup()
		s.T().Fatalf("new server: %s", err)
	}

	s.server.Serve(cfg.Host, cfg.Port)
	s.waitForServer()
	fmt.Println("server started")

	// the server created the sheets it appends to; the read-only ones are seeded here
	s.seedSheet("App_Users", []string{"Number", "User"}, [][]string{{"1", "ana"}, {"2", "ben"}})
	s.seedSheet("Inspirational_Quotes", []string{"Number", "Quote", "Author"}, [][]string{{"1", "Keep going.", "Anon"}})
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.cleanup()
}

func (s *IntegrationTestSuite) cleanup() {
	fmt.Println(" --> cleaning up test suite...")
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			fmt.Printf(" --> test suite db close error: %s\n", err)
		}
	}
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
	fmt.Println(" --> test suite cleanup done")
}

func getTestConfig(redisPort, postgresPort string) *config.Config {
	return &config.Config{
		Environment:           "test",
		Host:                  serverHost,
		Port:                  serverPort,
		LogLevel:              "warn",
		LogToStdout:           true,
		StoreBackend:          config.StoreBackendPostgres,
		Sheets:                config.DefaultSheets(),
		AnchorDate:            testAnchorDate,
		Timezone:              "UTC",
		EntryRateLimitPerMin:  testEntryRateLimit,
		RedisHost:             "localhost",
		RedisPort:             redisPort,
		PostgresHost:          "localhost",
		PostgresPort:          postgresPort,
		PostgresDBName:        testPostgresDBName,
		PrometheusMetricsHost: serverHost,
		PrometheusMetricsPort: "9002",
	}
}

func (s *IntegrationTestSuite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := redisResource.Close(); err != nil {
			fmt.Printf("redis teardown: %s\n", err)
		}
	})

	return redisResource.GetPort("6379/tcp"), nil
}

func (s *IntegrationTestSuite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=" + testPostgresDBName,
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := pgResource.Close(); err != nil {
			fmt.Printf("postgres teardown: %s\n", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres@localhost:%s/%s?sslmode=disable", pgPort, testPostgresDBName)
	s.DB, err = sql.Open("postgres", dsn)
	if err != nil {
		return "", fmt.Errorf("open db conn: %s", err)
	}

	if err := s.dockerPool.Retry(s.DB.Ping); err != nil {
		return "", fmt.Errorf("connect to db: %s", err)
	}

	return pgPort, nil
}

func (s *IntegrationTestSuite) waitForServer() {
	s.dockerPool.MaxWait = serverStartupTimeout
	err := s.dockerPool.Retry(func() error {
		resp, err := s.httpClient.Do(s.newRequest(http.MethodGet, "/version", nil, ""))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server not ready: %d", resp.StatusCode)
		}
		return nil
	})
	s.Require().NoError(err, "wait for server")
}

func (s *IntegrationTestSuite) seedSheet(sheet string, header []string, rows [][]string) {
	for _, cells := range append([][]string{header}, rows...) {
		_, err := s.DB.Exec(`INSERT INTO sheet_row (sheet, cells) VALUES ($1, $2)`, sheet, pq.Array(cells))
		s.Require().NoError(err, "seed %s", sheet)
	}
}
