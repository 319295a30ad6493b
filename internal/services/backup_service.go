package services

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// BackupServiceProvider defines the interface for backup services.
type BackupServiceProvider interface {
	CreateBackup() (string, error)
}

// BackupService snapshots the database file into timestamped zip archives.
type BackupService struct {
	databasePath string
	backupPath   string
	eventService EventServiceProvider
}

// NewBackupService creates a new BackupService.
func NewBackupService(databasePath, backupPath string, eventService EventServiceProvider) *BackupService {
	// Ensure the base directory for backups exists
	if err := os.MkdirAll(backupPath, 0755); err != nil {
		fmt.Printf("Failed to create base backup directory: %v\n", err)
	}
	return &BackupService{
		databasePath: databasePath,
		backupPath:   backupPath,
		eventService: eventService,
	}
}

// CreateBackup zips the current database file and returns the archive path.
func (s *BackupService) CreateBackup() (string, error) {
	archivePath := filepath.Join(s.backupPath, fmt.Sprintf("juliebook_%s.zip", time.Now().Format("20060102150405")))

	archive, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("could not create backup file: %w", err)
	}
	defer archive.Close()

	zipWriter := zip.NewWriter(archive)

	src, err := os.Open(s.databasePath)
	if err != nil {
		return "", fmt.Errorf("could not open database file: %w", err)
	}
	defer src.Close()

	entry, err := zipWriter.Create(filepath.Base(s.databasePath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(entry, src); err != nil {
		return "", err
	}
	if err := zipWriter.Close(); err != nil {
		return "", err
	}

	s.eventService.CreateEvent(EventBackupDone, "info", "Database backup created: "+filepath.Base(archivePath), nil)
	return archivePath, nil
}
