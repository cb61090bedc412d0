package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/wellnesstracker/internal/telemetry/metrics"
	"github.com/2beens/wellnesstracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	DefaultRootFolderName = "wellness-sheets-backup"
	folderMimeType        = "application/vnd.google-apps.folder"
	backupFileLayout      = "2006-01-02T150405Z"
)

type GoogleDriveBackupService struct {
	service         *drive.Service
	backupsFolderId string
	metricsManager  *metrics.Manager
}

// NewGoogleDriveBackupService finds (or creates) the backups folder in the
// drive the client options authenticate against. metricsManager may be nil.
func NewGoogleDriveBackupService(
	ctx context.Context,
	rootFolderName string,
	metricsManager *metrics.Manager,
	opts ...option.ClientOption,
) (*GoogleDriveBackupService, error) {
	if rootFolderName == "" {
		rootFolderName = DefaultRootFolderName
	}

	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	s := &GoogleDriveBackupService{
		service:        driveService,
		metricsManager: metricsManager,
	}

	folders, err := driveService.
		Files.List().
		Q(fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", rootFolderName, folderMimeType)).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	for _, f := range folders.Files {
		if f.Name == rootFolderName {
			s.backupsFolderId = f.Id
			break
		}
	}

	if s.backupsFolderId == "" {
		s.backupsFolderId, err = s.createRootBackupsFolder(ctx, rootFolderName)
		if err != nil {
			return nil, fmt.Errorf("failed to create root backups folder: %w", err)
		}
		log.Infof("root backups folder created: %s", s.backupsFolderId)
	}

	log.Debugf("backups folder ID: %s", s.backupsFolderId)
	return s, nil
}

func (s *GoogleDriveBackupService) BackupsFolderID() string {
	return s.backupsFolderId
}

// DoBackup uploads the snapshot as a new JSON file in the backups folder.
func (s *GoogleDriveBackupService) DoBackup(ctx context.Context, snapshot Snapshot) (_ *drive.File, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.upload")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	begin := time.Now()

	content, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	backupMeta := &drive.File{
		Name: fmt.Sprintf("wellness-backup-%s.json", snapshot.TakenAt.UTC().Format(backupFileLayout)),
		// https://developers.google.com/drive/api/v3/mime-types
		MimeType: "application/json",
		Parents:  []string{s.backupsFolderId},
	}

	backupFile, err := s.service.
		Files.Create(backupMeta).
		Fields("id, name, parents").
		Media(bytes.NewReader(content)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("upload backup file: %w", err)
	}

	if s.metricsManager != nil {
		s.metricsManager.HistBackupDuration.Observe(time.Since(begin).Seconds())
		s.metricsManager.CounterSheetsBackedUp.Add(float64(len(snapshot.Sheets)))
	}

	log.Infof("backup [%s] uploaded: %d sheets, %d rows", backupFile.Name, len(snapshot.Sheets), snapshot.RowsCount())
	return backupFile, nil
}

// ListBackups returns the backup files, newest first.
func (s *GoogleDriveBackupService) ListBackups(ctx context.Context) ([]*drive.File, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType != '%s' and trashed = false", s.backupsFolderId, folderMimeType)
	backups, err := s.service.
		Files.List().
		Q(query).
		OrderBy("createdTime desc").
		Fields("files(id, name, createdTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list backup files: %w", err)
	}
	return backups.Files, nil
}

// Prune deletes all but the newest keep backups and returns how many were deleted.
func (s *GoogleDriveBackupService) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, fmt.Errorf("invalid number of backups to keep: %d", keep)
	}

	backups, err := s.ListBackups(ctx)
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, f := range backups[keep:] {
		if err := s.service.Files.Delete(f.Id).Context(ctx).Do(); err != nil {
			return deleted, fmt.Errorf("delete backup %s: %w", f.Name, err)
		}
		log.Debugf("old backup deleted: %s (%s)", f.Name, f.Id)
		deleted++
	}
	return deleted, nil
}

func (s *GoogleDriveBackupService) createRootBackupsFolder(ctx context.Context, name string) (string, error) {
	backupsFolderMeta := &drive.File{
		Name:     name,
		MimeType: folderMimeType,
	}

	bfRes, err := s.service.
		Files.Create(backupsFolderMeta).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}

	return bfRes.Id, nil
}
