package documents

import "context"

// Repo abstracts document persistence.
type Repo interface {
	Create(ctx context.Context, doc Document) (int64, error)
	GetByID(ctx context.Context, id int64) (Document, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Document, error)
	// Update persists the mutable columns: file name and the AI type
	// and summary. Raw text and the stored blob are immutable.
	Update(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id int64) error
}
