package backup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/askdsu/campus-assistant-go/internal/logger"
	"github.com/askdsu/campus-assistant-go/internal/r2client"
	"github.com/askdsu/campus-assistant-go/internal/storage"
)

type stubUploader struct {
	uploads int
	err     error
	lastKey string
	size    int64
}

func (s *stubUploader) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	n, err := io.Copy(io.Discard, body)
	if err != nil {
		return "", err
	}
	s.uploads++
	s.lastKey = key
	s.size = n
	return "etag-1", nil
}

func newTestManager(t *testing.T, uploader Uploader) (*Manager, *storage.DB) {
	t.Helper()

	db, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := Config{
		SnapshotKey: "campus-assistant/store.db.zst",
		TempDir:     t.TempDir(),
	}
	log := logger.NewWithWriter("error", io.Discard)
	return New(db, uploader, cfg, nil, log), db
}

func TestRun_UploadsAndSkipsUnchanged(t *testing.T) {
	t.Parallel()

	uploader := &stubUploader{}
	m, db := newTestManager(t, uploader)
	ctx := context.Background()

	room := &storage.Classroom{RoomNumber: "101", Building: "Main Block", Capacity: 60, IsAvailable: true}
	if err := db.SaveClassroom(ctx, room); err != nil {
		t.Fatalf("Failed to seed classroom: %v", err)
	}

	uploaded, err := m.Run(ctx)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if !uploaded {
		t.Error("First run should upload")
	}
	if uploader.lastKey != "campus-assistant/store.db.zst" {
		t.Errorf("Unexpected object key %q", uploader.lastKey)
	}
	if uploader.size == 0 {
		t.Error("Uploaded snapshot should not be empty")
	}

	// Nothing changed, so the second cycle skips the upload.
	uploaded, err = m.Run(ctx)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if uploaded {
		t.Error("Unchanged store should skip the upload")
	}
	if uploader.uploads != 1 {
		t.Errorf("Expected 1 upload, got %d", uploader.uploads)
	}
}

func TestRun_UploadsAgainAfterWrite(t *testing.T) {
	t.Parallel()

	uploader := &stubUploader{}
	m, db := newTestManager(t, uploader)
	ctx := context.Background()

	if _, err := m.Run(ctx); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	room := &storage.Classroom{RoomNumber: "204", Building: "Annex", Capacity: 45, IsAvailable: true}
	if err := db.SaveClassroom(ctx, room); err != nil {
		t.Fatalf("Failed to write classroom: %v", err)
	}

	uploaded, err := m.Run(ctx)
	if err != nil {
		t.Fatalf("Run after write failed: %v", err)
	}
	if !uploaded {
		t.Error("Changed store should upload again")
	}
	if uploader.uploads != 2 {
		t.Errorf("Expected 2 uploads, got %d", uploader.uploads)
	}
}

type stubDownloader struct {
	data []byte
	err  error
}

func (s *stubDownloader) Download(_ context.Context, _ string) (io.ReadCloser, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return io.NopCloser(bytes.NewReader(s.data)), "etag-1", nil
}

func TestRestoreSnapshot_RestoresMissingStore(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "src.db")
	zstPath := filepath.Join(tmpDir, "src.db.zst")
	payload := []byte("snapshot payload")
	if err := os.WriteFile(srcPath, payload, 0o644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}
	if err := r2client.CompressFile(srcPath, zstPath); err != nil {
		t.Fatalf("Failed to compress source: %v", err)
	}
	compressed, err := os.ReadFile(zstPath)
	if err != nil {
		t.Fatalf("Failed to read compressed: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "restored.db")
	log := logger.NewWithWriter("error", io.Discard)
	restored, err := RestoreSnapshot(context.Background(), &stubDownloader{data: compressed}, "store.db.zst", dbPath, log)
	if err != nil {
		t.Fatalf("RestoreSnapshot failed: %v", err)
	}
	if !restored {
		t.Fatal("Expected snapshot to be restored")
	}
	got, err := os.ReadFile(dbPath)
	if err != nil {
		t.Fatalf("Failed to read restored store: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Restored store differs from snapshot payload")
	}
}

func TestRestoreSnapshot_SkipsExistingStore(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "store.db")
	if err := os.WriteFile(dbPath, []byte("local data"), 0o644); err != nil {
		t.Fatalf("Failed to write local store: %v", err)
	}

	log := logger.NewWithWriter("error", io.Discard)
	restored, err := RestoreSnapshot(context.Background(), &stubDownloader{data: []byte("x")}, "store.db.zst", dbPath, log)
	if err != nil {
		t.Fatalf("RestoreSnapshot failed: %v", err)
	}
	if restored {
		t.Error("Existing local store must not be overwritten")
	}
	got, _ := os.ReadFile(dbPath)
	if string(got) != "local data" {
		t.Error("Local store content changed")
	}
}

func TestRestoreSnapshot_NoSnapshotUploaded(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "store.db")
	log := logger.NewWithWriter("error", io.Discard)
	restored, err := RestoreSnapshot(context.Background(), &stubDownloader{err: r2client.ErrNotFound}, "store.db.zst", dbPath, log)
	if err != nil {
		t.Fatalf("Missing snapshot should not be an error: %v", err)
	}
	if restored {
		t.Error("Nothing to restore from")
	}
	if _, statErr := os.Stat(dbPath); statErr == nil {
		t.Error("Store file should not exist")
	}
}

func TestRun_UploadErrorDoesNotAdvanceHash(t *testing.T) {
	t.Parallel()

	uploader := &stubUploader{err: errors.New("bucket unreachable")}
	m, _ := newTestManager(t, uploader)
	ctx := context.Background()

	if _, err := m.Run(ctx); err == nil {
		t.Fatal("Expected upload error")
	}

	// Once the uploader recovers, the same content still gets uploaded.
	uploader.err = nil
	uploaded, err := m.Run(ctx)
	if err != nil {
		t.Fatalf("Run after recovery failed: %v", err)
	}
	if !uploaded {
		t.Error("Failed upload must not mark the content as backed up")
	}
}
