package internal

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/2beens/wellnesstracker/internal/config"
	"github.com/2beens/wellnesstracker/internal/db"
	"github.com/2beens/wellnesstracker/internal/store"
	"github.com/2beens/wellnesstracker/internal/store/gsheets"
	"github.com/2beens/wellnesstracker/internal/store/postgres"
	"github.com/2beens/wellnesstracker/internal/telemetry/metrics"
	"github.com/2beens/wellnesstracker/internal/wellness/dashboard"
	"github.com/2beens/wellnesstracker/internal/wellness/entry"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// GoogleCredentialsEnvVar holds the path of the service account JSON key.
const GoogleCredentialsEnvVar = "WELLNESS_GOOGLE_CREDENTIALS"

// GoogleCredentialsFromEnv reads the service account key. An unset variable
// gives nil and no error; the postgres backend does not need it.
func GoogleCredentialsFromEnv() ([]byte, error) {
	path := os.Getenv(GoogleCredentialsEnvVar)
	if path == "" {
		return nil, nil
	}
	creds, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read google credentials: %w", err)
	}
	return creds, nil
}

type OpenStoreParams struct {
	Config            *config.Config
	GoogleCredentials []byte
	TracingEnabled    bool
	// ReadOnly asks the sheets backend for a read-only scope.
	ReadOnly bool
}

// OpenStore returns the configured tabular store. For the postgres backend it
// also returns the pool behind it, which the caller must close.
func OpenStore(ctx context.Context, params OpenStoreParams) (store.Store, *pgxpool.Pool, error) {
	cfg := params.Config

	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			TracingEnabled: params.TracingEnabled,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			dbPool.Close()
			return nil, nil, fmt.Errorf("ping db: %w", err)
		}

		pgStore := postgres.NewStore(dbPool)
		if err := pgStore.Migrate(ctx); err != nil {
			dbPool.Close()
			return nil, nil, err
		}
		for _, sheet := range []struct {
			name   string
			header []string
		}{
			{cfg.Sheets.Activities.Name, entry.ActivityHeader},
			{cfg.Sheets.Weights.Name, entry.WeightHeader},
			{cfg.Sheets.Targets.Name, entry.TargetHeader},
		} {
			if err := pgStore.EnsureSheet(ctx, sheet.name, sheet.header); err != nil {
				dbPool.Close()
				return nil, nil, err
			}
		}

		log.Debugf("using postgres store [%s]", cfg.PostgresDBName)
		return pgStore, dbPool, nil

	case config.StoreBackendSheets:
		if len(params.GoogleCredentials) == 0 {
			return nil, nil, errors.New("google service account credentials not set")
		}
		sheetsStore, err := gsheets.NewWithServiceAccount(ctx, cfg.SpreadsheetID, params.GoogleCredentials, params.ReadOnly)
		if err != nil {
			return nil, nil, err
		}
		log.Debugf("using google sheets store [%s]", cfg.SpreadsheetID)
		return sheetsStore, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}

// NewDashboardService wires the store (instrumented) and the calendar settings
// of cfg into a dashboard service. metricsManager may be nil.
func NewDashboardService(cfg *config.Config, st store.Store, metricsManager *metrics.Manager) (*dashboard.Service, error) {
	anchor, err := cfg.Anchor()
	if err != nil {
		return nil, err
	}
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	return dashboard.NewService(dashboard.ServiceParams{
		Store:          store.NewInstrumented(st, cfg.StoreBackend, metricsManager),
		Sheets:         cfg.Sheets,
		Anchor:         anchor,
		Location:       location,
		MetricsManager: metricsManager,
	}), nil
}
