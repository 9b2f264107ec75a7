package local

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestPutPresignDelete(t *testing.T) {
	store := New(t.TempDir(), "aideo-documents")
	ctx := context.Background()

	if err := store.EnsureBucket(ctx); err != nil {
		t.Fatalf("EnsureBucket: %v", err)
	}

	locator, err := store.Put(ctx, "user-1", "scan.png", "image/png", []byte("pixels"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !strings.Contains(locator, "documents/user-1/") {
		t.Fatalf("unexpected locator: %s", locator)
	}
	if !store.Exists(locator) {
		t.Fatalf("expected blob on disk")
	}

	url, err := store.PresignGet(ctx, locator, time.Hour)
	if err != nil {
		t.Fatalf("PresignGet: %v", err)
	}
	if !strings.HasPrefix(url, locator) {
		t.Fatalf("expected presigned URL to reference locator, got %s", url)
	}

	if err := store.Delete(ctx, locator); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.Exists(locator) {
		t.Fatalf("expected blob removed")
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, locator); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
}

func TestPutDistinctLocators(t *testing.T) {
	store := New(t.TempDir(), "aideo-documents")
	ctx := context.Background()

	a, err := store.Put(ctx, "user-1", "scan.png", "image/png", []byte("same"))
	if err != nil {
		t.Fatalf("Put a: %v", err)
	}
	b, err := store.Put(ctx, "user-1", "scan.png", "image/png", []byte("same"))
	if err != nil {
		t.Fatalf("Put b: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct locators for identical uploads")
	}
}
