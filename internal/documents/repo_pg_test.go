package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"aideo-backend/internal/ai"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateMarshalsAIColumns(t *testing.T) {
	repo, mock := newMockRepo(t)

	doc := Document{
		OwnerID:     "user-1",
		FileName:    "facture.png",
		ContentType: "image/png",
		FileURL:     "http://minio:9000/aideo/documents/user-1/abc.png",
		RawText:     "Facture EDF 125.50",
		AIType:      "Facture",
		AIResume:    "Facture d'électricité.",
		AIActions:   []string{"Payer"},
		AIDates:     []ai.DateDetail{{Date: "2026-02-28", Description: "Échéance"}},
		AIMontants:  []ai.AmountDetail{{Montant: 125.50, Description: "Total"}},
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(
			doc.OwnerID,
			doc.FileName,
			doc.ContentType,
			sqlmock.AnyArg(), // file_url
			doc.RawText,
			sqlmock.AnyArg(), // ai_type
			sqlmock.AnyArg(), // ai_resume
			[]byte(`["Payer"]`),
			[]byte(`[{"date":"2026-02-28","description":"Échéance"}]`),
			[]byte(`[{"montant":125.5,"description":"Total"}]`),
			sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.Create(context.Background(), doc)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDDecodesJSONB(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Now().UTC().Truncate(time.Second)
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "file_name", "content_type", "file_url", "raw_text",
		"ai_type", "ai_resume", "ai_actions", "ai_dates", "ai_montants", "created_at",
	}).AddRow(
		int64(3), "user-1", "facture.png", "image/png", nil, "Facture EDF",
		"Facture", nil, []byte(`["Payer"]`), []byte(`[]`), []byte(`[{"montant":125.5,"description":"Total"}]`), created,
	)

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs(int64(3)).
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.FileURL != "" || doc.AIResume != "" {
		t.Fatalf("NULL columns should scan to empty strings: %+v", doc)
	}
	if len(doc.AIActions) != 1 || doc.AIActions[0] != "Payer" {
		t.Fatalf("ai_actions = %v", doc.AIActions)
	}
	if len(doc.AIMontants) != 1 || doc.AIMontants[0].Montant != 125.5 {
		t.Fatalf("ai_montants = %v", doc.AIMontants)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoUpdateNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE documents").
		WithArgs("nouveau.png", sqlmock.AnyArg(), sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), Document{ID: 42, FileName: "nouveau.png"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
