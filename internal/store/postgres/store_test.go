package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/2beens/wellnesstracker/internal/db"
	"github.com/2beens/wellnesstracker/internal/store"
	"github.com/2beens/wellnesstracker/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"
)

type PostgresStoreSuite struct {
	suite.Suite

	dockerPool *dockertest.Pool
	resource   *dockertest.Resource
	dbPool     *pgxpool.Pool
	sqlDB      *sql.DB
	store      *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres store tests in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()

	var err error
	s.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		s.T().Skipf("could not create dockertest pool: %s", err)
	}
	if err = s.dockerPool.Client.Ping(); err != nil {
		s.T().Skipf("docker not available: %s", err)
	}

	s.resource, err = s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=wellness",
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	s.Require().NoError(err, "run postgres")

	pgPort := s.resource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres@localhost:%s/wellness?sslmode=disable", pgPort)
	s.sqlDB, err = sql.Open("postgres", dsn)
	s.Require().NoError(err, "open db conn")
	err = s.dockerPool.Retry(func() error {
		return s.sqlDB.Ping()
	})
	s.Require().NoError(err, "connect to db")

	s.dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: "localhost",
		DBPort: pgPort,
		DBName: "wellness",
	})
	s.Require().NoError(err)
	s.Require().NoError(s.dbPool.Ping(ctx))

	s.store = postgres.NewStore(s.dbPool)
	s.Require().NoError(s.store.Migrate(ctx))
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.sqlDB != nil {
		_ = s.sqlDB.Close()
	}
	if s.resource != nil {
		if err := s.resource.Close(); err != nil {
			fmt.Printf("postgres teardown: %s\n", err)
		}
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(context.Background(), `TRUNCATE sheet_row`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestFetchEmptySheet() {
	table, err := s.store.Fetch(context.Background(), "Raw_Form_Responses", "A1:R1000")
	s.Require().NoError(err)
	s.True(table.Empty())
}

func (s *PostgresStoreSuite) TestEnsureSheetAndAppend() {
	ctx := context.Background()
	header := []string{"Timestamp", "Weight", "User"}

	s.Require().NoError(s.store.EnsureSheet(ctx, "Weight_Tracker", header))
	// second call must not add another header
	s.Require().NoError(s.store.EnsureSheet(ctx, "Weight_Tracker", header))

	s.Require().NoError(s.store.Append(ctx, "Weight_Tracker", []string{"10/03/2024 18:45:12", "81.4", "ben"}))
	s.Require().NoError(s.store.Append(ctx, "Weight_Tracker", []string{"11/03/2024 07:00:00", "81.1"}))
	s.Require().NoError(s.store.Append(ctx, "Other", []string{"x"}))

	table, err := s.store.Fetch(ctx, "Weight_Tracker", "A1:D1000")
	s.Require().NoError(err)
	s.Equal(header, table.Header)
	s.Equal([][]string{
		{"10/03/2024 18:45:12", "81.4", "ben"},
		{"11/03/2024 07:00:00", "81.1"},
	}, table.Rows)
}

func (s *PostgresStoreSuite) TestFetchAppliesRange() {
	ctx := context.Background()
	s.Require().NoError(s.store.Append(ctx, "Regime", []string{"Day", "Type", "Extra"}))
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.store.Append(ctx, "Regime", []string{fmt.Sprint(i), "Yoga", "drop"}))
	}

	table, err := s.store.Fetch(ctx, "Regime", "A1:B3")
	s.Require().NoError(err)
	s.Equal([]string{"Day", "Type"}, table.Header)
	s.Equal([][]string{{"0", "Yoga"}, {"1", "Yoga"}}, table.Rows)
}

func (s *PostgresStoreSuite) TestInvalidRange() {
	_, err := s.store.Fetch(context.Background(), "Regime", "Z1:A1")
	s.Error(err)
	s.False(errors.Is(err, store.ErrSheetNotFound))
}

func (s *PostgresStoreSuite) TestAppendStoresCellsAsTextArray() {
	s.Require().NoError(s.store.Append(context.Background(), "App_Users", []string{"Number", "User"}))
	s.Require().NoError(s.store.Append(context.Background(), "App_Users", []string{"1", "ana"}))

	var cells pq.StringArray
	err := s.sqlDB.QueryRow(
		`SELECT cells FROM sheet_row WHERE sheet = $1 ORDER BY id DESC LIMIT 1`,
		"App_Users",
	).Scan(&cells)
	s.Require().NoError(err)
	s.Equal(pq.StringArray{"1", "ana"}, cells)
}
