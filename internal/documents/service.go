package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aideo-backend/internal/shared/storage/object"
	"aideo-backend/internal/shared/telemetry"
)

// Service enforces ownership and produces API views of documents.
type Service struct {
	Repo       Repo
	Store      object.ObjectStore
	PresignTTL time.Duration
}

// NewService constructs a Service.
func NewService(repo Repo, store object.ObjectStore, presignTTL time.Duration) *Service {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &Service{Repo: repo, Store: store, PresignTTL: presignTTL}
}

// UpdateInput carries the patchable fields. Nil means "leave unchanged".
type UpdateInput struct {
	FileName *string
	AIType   *string
	AIResume *string
}

// Get returns a single document owned by the caller.
func (s *Service) Get(ctx context.Context, callerID string, id int64) (View, error) {
	doc, err := s.ownedDocument(ctx, callerID, id)
	if err != nil {
		return View{}, err
	}
	return view(doc, s.downloadURL(ctx, doc)), nil
}

// List returns the caller's documents, newest first.
func (s *Service) List(ctx context.Context, callerID string, limit, offset int) ([]View, error) {
	docs, err := s.Repo.ListByOwner(ctx, callerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]View, 0, len(docs))
	for _, doc := range docs {
		out = append(out, view(doc, s.downloadURL(ctx, doc)))
	}
	return out, nil
}

// Update applies a partial edit to a document owned by the caller. The raw
// text and stored blob never change after ingestion.
func (s *Service) Update(ctx context.Context, callerID string, id int64, in UpdateInput) (View, error) {
	doc, err := s.ownedDocument(ctx, callerID, id)
	if err != nil {
		return View{}, err
	}

	if in.FileName != nil {
		name := strings.TrimSpace(*in.FileName)
		if name == "" {
			return View{}, fmt.Errorf("%w: file_name cannot be blank", ErrInvalidInput)
		}
		doc.FileName = name
	}
	if in.AIType != nil {
		doc.AIType = strings.TrimSpace(*in.AIType)
	}
	if in.AIResume != nil {
		doc.AIResume = strings.TrimSpace(*in.AIResume)
	}

	if err := s.Repo.Update(ctx, doc); err != nil {
		return View{}, fmt.Errorf("update document %d: %w", id, err)
	}
	return view(doc, s.downloadURL(ctx, doc)), nil
}

// Delete removes a document owned by the caller. Deleting an already
// deleted document succeeds, so clients can retry safely. The stored blob
// is removed best-effort; a dangling object never blocks the row delete.
func (s *Service) Delete(ctx context.Context, callerID string, id int64) error {
	doc, err := s.ownedDocument(ctx, callerID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	if doc.FileURL != "" {
		if err := s.Store.Delete(ctx, doc.FileURL); err != nil {
			telemetry.Warn("documents.blob_delete_failed", map[string]any{
				"document_id": id,
				"error":       err.Error(),
			})
		}
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	return nil
}

func (s *Service) ownedDocument(ctx context.Context, callerID string, id int64) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("get document %d: %w", id, err)
	}
	if doc.OwnerID != callerID {
		return Document{}, ErrForbidden
	}
	return doc, nil
}

// downloadURL presigns the stored blob. Presign failures degrade to a null
// link instead of failing the request.
func (s *Service) downloadURL(ctx context.Context, doc Document) *string {
	if doc.FileURL == "" {
		return nil
	}
	url, err := s.Store.PresignGet(ctx, doc.FileURL, s.PresignTTL)
	if err != nil {
		telemetry.Warn("documents.presign_failed", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
		return nil
	}
	return &url
}
