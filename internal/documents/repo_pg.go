package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"aideo-backend/internal/ai"
)

// PGRepo implements Repo using Postgres. The AI collections live in JSONB
// columns.
type PGRepo struct {
	DB *sql.DB
}

const docColumns = `id, owner_id, file_name, content_type, file_url, raw_text, ai_type, ai_resume, ai_actions, ai_dates, ai_montants, created_at`

// Create inserts a document and returns its generated id.
func (r *PGRepo) Create(ctx context.Context, doc Document) (int64, error) {
	const query = `
INSERT INTO documents (owner_id, file_name, content_type, file_url, raw_text, ai_type, ai_resume, ai_actions, ai_dates, ai_montants, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id`

	actions, dates, montants, err := marshalAI(doc)
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.DB.QueryRowContext(
		ctx,
		query,
		doc.OwnerID,
		doc.FileName,
		doc.ContentType,
		nullString(doc.FileURL),
		doc.RawText,
		nullString(doc.AIType),
		nullString(doc.AIResume),
		actions,
		dates,
		montants,
		doc.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

// GetByID fetches a document by id.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (Document, error) {
	query := `
SELECT ` + docColumns + `
FROM documents
WHERE id = $1
LIMIT 1`

	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByOwner lists an owner's documents newest-first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + docColumns + `
FROM documents
WHERE owner_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Update persists the mutable columns.
func (r *PGRepo) Update(ctx context.Context, doc Document) error {
	const query = `
UPDATE documents
SET file_name = $1, ai_type = $2, ai_resume = $3
WHERE id = $4`

	res, err := r.DB.ExecContext(ctx, query, doc.FileName, nullString(doc.AIType), nullString(doc.AIResume), doc.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document row.
func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var fileURL, aiType, aiResume sql.NullString
	var actions, dates, montants []byte
	if err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.FileName,
		&doc.ContentType,
		&fileURL,
		&doc.RawText,
		&aiType,
		&aiResume,
		&actions,
		&dates,
		&montants,
		&doc.CreatedAt,
	); err != nil {
		return Document{}, err
	}
	doc.FileURL = fileURL.String
	doc.AIType = aiType.String
	doc.AIResume = aiResume.String

	if len(actions) > 0 {
		if err := json.Unmarshal(actions, &doc.AIActions); err != nil {
			return Document{}, fmt.Errorf("decode ai_actions: %w", err)
		}
	}
	if len(dates) > 0 {
		if err := json.Unmarshal(dates, &doc.AIDates); err != nil {
			return Document{}, fmt.Errorf("decode ai_dates: %w", err)
		}
	}
	if len(montants) > 0 {
		if err := json.Unmarshal(montants, &doc.AIMontants); err != nil {
			return Document{}, fmt.Errorf("decode ai_montants: %w", err)
		}
	}
	return doc, nil
}

func marshalAI(doc Document) (actions, dates, montants []byte, err error) {
	if doc.AIActions == nil {
		doc.AIActions = []string{}
	}
	if doc.AIDates == nil {
		doc.AIDates = []ai.DateDetail{}
	}
	if doc.AIMontants == nil {
		doc.AIMontants = []ai.AmountDetail{}
	}
	if actions, err = json.Marshal(doc.AIActions); err != nil {
		return nil, nil, nil, err
	}
	if dates, err = json.Marshal(doc.AIDates); err != nil {
		return nil, nil, nil, err
	}
	if montants, err = json.Marshal(doc.AIMontants); err != nil {
		return nil, nil, nil, err
	}
	return actions, dates, montants, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ Repo = (*PGRepo)(nil)
