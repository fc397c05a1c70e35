// Package backup periodically snapshots the SQLite store and uploads a
// zstd-compressed copy to S3-compatible object storage. Uploads are
// skipped while the database content is unchanged.
package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/askdsu/campus-assistant-go/internal/logger"
	"github.com/askdsu/campus-assistant-go/internal/metrics"
	"github.com/askdsu/campus-assistant-go/internal/r2client"
	"github.com/askdsu/campus-assistant-go/internal/storage"
)

// Uploader is the object storage operation the manager needs.
// *r2client.Client satisfies it.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// Downloader is the object storage operation RestoreSnapshot needs.
// *r2client.Client satisfies it.
type Downloader interface {
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// Config holds backup manager configuration.
type Config struct {
	SnapshotKey string // object key for the compressed snapshot
	TempDir     string // directory for temporary files, defaults to os.TempDir
}

// Manager creates and uploads store snapshots.
type Manager struct {
	db       *storage.DB
	uploader Uploader
	config   Config
	metrics  *metrics.Metrics
	logger   *logger.Logger

	mu       sync.Mutex
	lastHash string
}

// New creates a backup manager. Metrics may be nil.
func New(db *storage.DB, uploader Uploader, cfg Config, m *metrics.Metrics, log *logger.Logger) *Manager {
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &Manager{
		db:       db,
		uploader: uploader,
		config:   cfg,
		metrics:  m,
		logger:   log,
	}
}

// Run performs one backup cycle: snapshot, hash, compress, upload.
// Returns true if a snapshot was uploaded, false if skipped as unchanged.
func (m *Manager) Run(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.logger.WithModule("backup")
	start := time.Now()

	uploaded, err := m.runLocked(ctx, log)
	switch {
	case err != nil:
		m.record("error", start)
	case uploaded:
		m.record("success", start)
	default:
		m.record("skipped", start)
	}
	return uploaded, err
}

func (m *Manager) runLocked(ctx context.Context, log *logger.Logger) (bool, error) {
	snapshotPath := filepath.Join(m.config.TempDir, "backup_snapshot.db")
	defer func() { _ = os.Remove(snapshotPath) }()

	if err := m.snapshotTo(ctx, snapshotPath); err != nil {
		return false, fmt.Errorf("snapshot store: %w", err)
	}

	hash, err := fileHash(snapshotPath)
	if err != nil {
		return false, fmt.Errorf("hash snapshot: %w", err)
	}
	if hash == m.lastHash {
		log.Debugf("Store unchanged since last backup, skipping upload")
		return false, nil
	}

	compressedPath := snapshotPath + ".zst"
	defer func() { _ = os.Remove(compressedPath) }()

	if err := r2client.CompressFile(snapshotPath, compressedPath); err != nil {
		return false, fmt.Errorf("compress snapshot: %w", err)
	}

	f, err := os.Open(compressedPath)
	if err != nil {
		return false, fmt.Errorf("open compressed snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	etag, err := m.uploader.Upload(ctx, m.config.SnapshotKey, f, "application/zstd")
	if err != nil {
		return false, fmt.Errorf("upload snapshot: %w", err)
	}

	m.lastHash = hash
	log.WithFields(map[string]any{"key": m.config.SnapshotKey, "etag": etag}).Infof("Store snapshot uploaded")
	return true, nil
}

// snapshotTo writes a consistent copy of the live database to path.
// VACUUM INTO produces a compact single-file snapshot without blocking
// concurrent readers.
func (m *Manager) snapshotTo(ctx context.Context, path string) error {
	// VACUUM INTO refuses to overwrite an existing file.
	_ = os.Remove(path)
	_, err := m.db.Conn().ExecContext(ctx, "VACUUM INTO ?", path)
	return err
}

func (m *Manager) record(status string, start time.Time) {
	if m.metrics != nil {
		m.metrics.RecordBackupRun(status, time.Since(start).Seconds())
	}
}

// RestoreSnapshot pulls the latest snapshot into dbPath when no local
// database file exists yet, so a fresh deployment starts from the last
// backed-up state instead of an empty store. Returns true when a
// snapshot was restored, false when the local file already exists or no
// snapshot has been uploaded.
func RestoreSnapshot(ctx context.Context, dl Downloader, key, dbPath string, log *logger.Logger) (bool, error) {
	if _, err := os.Stat(dbPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat store file: %w", err)
	}

	body, etag, err := dl.Download(ctx, key)
	if err != nil {
		if errors.Is(err, r2client.ErrNotFound) {
			log.Debugf("No store snapshot found, starting with an empty store")
			return false, nil
		}
		return false, fmt.Errorf("download snapshot: %w", err)
	}
	defer func() { _ = body.Close() }()

	if err := r2client.DecompressStream(body, dbPath); err != nil {
		return false, fmt.Errorf("decompress snapshot: %w", err)
	}

	log.WithFields(map[string]any{"key": key, "etag": etag}).Infof("Store restored from snapshot")
	return true, nil
}

// fileHash returns the hex SHA-256 of a file's contents.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
