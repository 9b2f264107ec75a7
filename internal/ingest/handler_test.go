package ingest

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"aideo-backend/internal/ai"
	"aideo-backend/internal/documents"
	sharedauth "aideo-backend/internal/shared/auth"
	"aideo-backend/internal/shared/server/middleware"
	"aideo-backend/internal/users"
)

type scanFixture struct {
	router *gin.Engine
	token  string
	docs   *documents.MemoryRepo
}

func newScanFixture(t *testing.T, extractor TextExtractor, maxBytes int64) scanFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fx := newFixture(t, extractor, ai.NewSimulated())
	tokens := sharedauth.NewTokens("test-secret", time.Hour)
	if err := fx.users.Create(t.Context(), users.User{ID: "user-1", Email: "jean@example.com", IsActive: true}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	r := gin.New()
	protected := r.Group("/api/v1", middleware.Auth(tokens, &users.Resolver{Repo: fx.users}))
	NewHandler(fx.pipeline, maxBytes).RegisterRoutes(protected)

	return scanFixture{router: r, token: token, docs: fx.docs}
}

func multipartUpload(t *testing.T, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func (fx scanFixture) scan(t *testing.T, fileName, contentType string, data []byte, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	body, bodyType := multipartUpload(t, fileName, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/scan", body)
	req.Header.Set("Content-Type", bodyType)
	if authed {
		req.Header.Set("Authorization", "Bearer "+fx.token)
	}
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func TestScanRequiresAuth(t *testing.T) {
	fx := newScanFixture(t, &fakeExtractor{text: "texte"}, 1<<20)

	w := fx.scan(t, "facture.png", "image/png", []byte("fake-png"), false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestScanSuccess(t *testing.T) {
	fx := newScanFixture(t, &fakeExtractor{text: "Facture EDF 125.50"}, 1<<20)

	w := fx.scan(t, "facture.png", "image/png", []byte("fake-png"), true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var res ScanResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status != StatusSuccess || res.DocumentID == 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	doc, err := fx.docs.GetByID(t.Context(), res.DocumentID)
	if err != nil {
		t.Fatalf("document not persisted: %v", err)
	}
	if doc.OwnerID != "user-1" {
		t.Fatalf("owner = %q", doc.OwnerID)
	}
}

func TestScanResponseUsesFilenameKey(t *testing.T) {
	fx := newScanFixture(t, &fakeExtractor{text: "Facture EDF"}, 1<<20)

	w := fx.scan(t, "facture.png", "image/png", []byte("fake-png"), true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}

	var raw map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw["filename"] != "facture.png" {
		t.Fatalf(`filename = %v, want "facture.png"`, raw["filename"])
	}
	if _, ok := raw["file_name"]; ok {
		t.Fatal(`response must not carry a "file_name" key`)
	}
}

func TestScanEmptyExtractionReturnsFailStatus(t *testing.T) {
	fx := newScanFixture(t, &fakeExtractor{text: ""}, 1<<20)

	w := fx.scan(t, "scan-vide.png", "image/png", []byte("blank"), true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var res ScanResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status != StatusFail || res.DocumentID != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestScanRejectsUnsupportedType(t *testing.T) {
	fx := newScanFixture(t, &fakeExtractor{text: "texte"}, 1<<20)

	w := fx.scan(t, "notes.txt", "text/plain", []byte("du texte"), true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
	if docs, _ := fx.docs.ListByOwner(t.Context(), "user-1", 10, 0); len(docs) != 0 {
		t.Fatal("rejected upload should not persist documents")
	}
}

func TestScanRejectsOversizedUpload(t *testing.T) {
	fx := newScanFixture(t, &fakeExtractor{text: "texte"}, 512)

	w := fx.scan(t, "gros.png", "image/png", bytes.Repeat([]byte("x"), 4096), true)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413; body: %s", w.Code, w.Body.String())
	}
}

func TestScanRequiresFileField(t *testing.T) {
	fx := newScanFixture(t, &fakeExtractor{text: "texte"}, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/scan", bytes.NewBufferString("not multipart"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+fx.token)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
