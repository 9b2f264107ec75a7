package object

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"aideo-backend/internal/shared/util"
)

// ErrWriteFailed marks a storage write failure; callers must treat it as
// terminal for the current upload.
var ErrWriteFailed = errors.New("object store write failed")

// ObjectStore defines the contract for storing uploaded document blobs.
type ObjectStore interface {
	// EnsureBucket makes sure the backing container exists. It is idempotent
	// and only fails on connectivity or permission problems.
	EnsureBucket(ctx context.Context) error
	// Put stores data under a derived key and returns a locator for it.
	Put(ctx context.Context, ownerID, fileName, contentType string, data []byte) (string, error)
	// PresignGet returns a time-boxed retrieval URL for a stored blob.
	PresignGet(ctx context.Context, locator string, ttl time.Duration) (string, error)
	// Delete removes a blob. A missing key is not an error.
	Delete(ctx context.Context, locator string) error
}

// DeriveKey builds the collision-resistant object key for one upload:
// documents/{owner_id}/{uuid}{original extension}.
func DeriveKey(ownerID, fileName string) string {
	return fmt.Sprintf("documents/%s/%s%s", ownerID, uuid.NewString(), util.FileExtension(fileName))
}

// Locator assembles the opaque blob locator from its parts.
func Locator(endpoint, bucket, key string) string {
	return strings.TrimRight(endpoint, "/") + "/" + bucket + "/" + key
}

// KeyFromLocator recovers the object key from a locator produced by Locator.
// It returns "" when the locator does not belong to the given endpoint and
// bucket.
func KeyFromLocator(locator, endpoint, bucket string) string {
	prefix := strings.TrimRight(endpoint, "/") + "/" + bucket + "/"
	if !strings.HasPrefix(locator, prefix) {
		return ""
	}
	return strings.TrimPrefix(locator, prefix)
}
