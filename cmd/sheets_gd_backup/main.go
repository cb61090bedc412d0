package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/2beens/wellnesstracker/internal"
	"github.com/2beens/wellnesstracker/internal/backup"
	"github.com/2beens/wellnesstracker/internal/config"
	"github.com/2beens/wellnesstracker/internal/logging"
	"github.com/2beens/wellnesstracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// wellness sheets google drive backup cmd

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	keep := flag.Int("keep", 30, "number of backups to retain in the drive folder")
	list := flag.Bool("list", false, "only list existing backups")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.BackupLogsPath,
		LogToStdout:      cfg.BackupLogsPath == "",
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "sheets-backup",
	})

	log.Println("starting sheets backup ...")

	googleCredentials, err := internal.GoogleCredentialsFromEnv()
	if err != nil {
		log.Fatalf("google credentials: %s", err)
	}
	if googleCredentials == nil {
		log.Fatalf("google credentials not set, use %s", internal.GoogleCredentialsEnvVar)
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	otelShutdown, err := tracing.HoneycombSetup(honeycombEnabled, "sheets-gd-backup", nil)
	if err != nil {
		log.Fatalf("tracing setup: %s", err)
	}
	defer otelShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	jwtConfig, err := google.JWTConfigFromJSON(googleCredentials, drive.DriveFileScope)
	if err != nil {
		log.Fatalf("parse drive credentials: %s", err)
	}

	backupService, err := backup.NewGoogleDriveBackupService(
		ctx,
		cfg.DriveBackupFolder,
		nil,
		option.WithHTTPClient(jwtConfig.Client(ctx)),
	)
	if err != nil {
		log.Fatalf("failed to create google drive backup service: %s", err)
	}

	if *list {
		backups, err := backupService.ListBackups(ctx)
		if err != nil {
			log.Fatalf("list backups: %s", err)
		}
		for _, f := range backups {
			log.Printf(" -- %s (%s) %s", f.Name, f.Id, f.CreatedTime)
		}
		return
	}

	st, dbPool, err := internal.OpenStore(ctx, internal.OpenStoreParams{
		Config:            cfg,
		GoogleCredentials: googleCredentials,
		TracingEnabled:    honeycombEnabled,
		ReadOnly:          true,
	})
	if err != nil {
		log.Fatalf("open store: %s", err)
	}
	if dbPool != nil {
		defer dbPool.Close()
	}

	snapshot, err := backup.TakeSnapshot(ctx, st, cfg.Sheets, time.Now())
	if err != nil {
		log.Fatalf("take snapshot: %s", err)
	}

	if _, err := backupService.DoBackup(ctx, snapshot); err != nil {
		log.Fatalf("backup: %s", err)
	}

	deleted, err := backupService.Prune(ctx, *keep)
	if err != nil {
		log.Errorf("prune old backups: %s", err)
		return
	}
	log.Printf("backup done, %d old backups removed", deleted)
}
