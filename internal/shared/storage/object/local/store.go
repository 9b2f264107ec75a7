package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aideo-backend/internal/shared/storage/object"
)

const endpoint = "file://local"

// Store implements object.ObjectStore on the local filesystem. It backs dev
// mode and handler tests; signed URLs are plain file URLs with a fake expiry
// parameter.
type Store struct {
	baseDir string
	bucket  string
}

// New creates a local object store rooted at baseDir.
func New(baseDir, bucket string) *Store {
	return &Store{baseDir: baseDir, bucket: bucket}
}

// EnsureBucket creates the bucket directory.
func (s *Store) EnsureBucket(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(s.baseDir, s.bucket), 0o755)
}

// Put writes data to disk under a derived key and returns its locator.
func (s *Store) Put(ctx context.Context, ownerID, fileName, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_ = contentType

	key := object.DeriveKey(ownerID, fileName)
	fullPath := filepath.Join(s.baseDir, s.bucket, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("%w: mkdir: %v", object.ErrWriteFailed, err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write: %v", object.ErrWriteFailed, err)
	}

	return object.Locator(endpoint, s.bucket, key), nil
}

// PresignGet fabricates a time-boxed pseudo-URL for a stored file.
func (s *Store) PresignGet(ctx context.Context, locator string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := object.KeyFromLocator(locator, endpoint, s.bucket)
	if key == "" {
		return "", fmt.Errorf("locator %q does not belong to bucket %s", locator, s.bucket)
	}
	if _, err := os.Stat(s.pathFor(key)); err != nil {
		return "", fmt.Errorf("stat %s: %w", key, err)
	}
	expires := time.Now().UTC().Add(ttl).Unix()
	return fmt.Sprintf("%s?expires=%d", locator, expires), nil
}

// Delete removes the file behind locator; a missing file is a no-op.
func (s *Store) Delete(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := object.KeyFromLocator(locator, endpoint, s.bucket)
	if key == "" {
		return nil
	}
	if strings.Contains(key, "..") {
		return errors.New("invalid storage key")
	}
	err := os.Remove(s.pathFor(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether the blob behind locator is on disk. Test helper.
func (s *Store) Exists(locator string) bool {
	key := object.KeyFromLocator(locator, endpoint, s.bucket)
	if key == "" {
		return false
	}
	_, err := os.Stat(s.pathFor(key))
	return err == nil
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.baseDir, s.bucket, filepath.FromSlash(key))
}

var _ object.ObjectStore = (*Store)(nil)
