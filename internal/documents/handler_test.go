package documents

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	sharedauth "aideo-backend/internal/shared/auth"
	"aideo-backend/internal/shared/server/middleware"
	"aideo-backend/internal/shared/storage/object/local"
	"aideo-backend/internal/users"
)

type apiFixture struct {
	router *gin.Engine
	tokens *sharedauth.Tokens
	repo   *MemoryRepo
	store  *local.Store
	users  *users.MemoryRepo
}

func newAPIFixture(t *testing.T) apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, repo, store := newTestService(t)
	userRepo := users.NewMemoryRepo()
	tokens := sharedauth.NewTokens("test-secret", time.Hour)

	r := gin.New()
	protected := r.Group("/api/v1", middleware.Auth(tokens, &users.Resolver{Repo: userRepo}))
	NewHandler(svc).RegisterRoutes(protected)

	return apiFixture{router: r, tokens: tokens, repo: repo, store: store, users: userRepo}
}

func (fx apiFixture) tokenFor(t *testing.T, userID string) string {
	t.Helper()
	if err := fx.users.Create(t.Context(), users.User{ID: userID, Email: userID + "@example.com", IsActive: true}); err != nil && err != users.ErrEmailTaken {
		t.Fatalf("seed user: %v", err)
	}
	token, err := fx.tokens.Issue(userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func (fx apiFixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func TestListRequiresAuth(t *testing.T) {
	fx := newAPIFixture(t)

	if w := fx.do(t, http.MethodGet, "/api/v1/documents", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestListReturnsOnlyOwnDocuments(t *testing.T) {
	fx := newAPIFixture(t)
	token := fx.tokenFor(t, "owner")
	fx.tokenFor(t, "other")

	seedDocument(t, fx.repo, fx.store, "owner")
	seedDocument(t, fx.repo, fx.store, "other")

	w := fx.do(t, http.MethodGet, "/api/v1/documents", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}

	var views []View
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("len = %d, want 1", len(views))
	}
	if views[0].DownloadURL == nil {
		t.Fatal("download_url missing from listing")
	}
}

func TestGetNotFoundAndForbidden(t *testing.T) {
	fx := newAPIFixture(t)
	ownerToken := fx.tokenFor(t, "owner")
	intruderToken := fx.tokenFor(t, "intruder")
	doc := seedDocument(t, fx.repo, fx.store, "owner")

	if w := fx.do(t, http.MethodGet, "/api/v1/documents/9999", ownerToken, ""); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if w := fx.do(t, http.MethodGet, "/api/v1/documents/1", intruderToken, ""); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if w := fx.do(t, http.MethodGet, "/api/v1/documents/abc", ownerToken, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	w := fx.do(t, http.MethodGet, "/api/v1/documents/1", ownerToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var v View
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.ID != doc.ID || v.RawText != doc.RawText {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestPatchUpdatesMutableFields(t *testing.T) {
	fx := newAPIFixture(t)
	token := fx.tokenFor(t, "owner")
	doc := seedDocument(t, fx.repo, fx.store, "owner")

	w := fx.do(t, http.MethodPatch, "/api/v1/documents/1", token, `{"file_name":"edf-fevrier.png","ai_resume":"Résumé corrigé."}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}

	var v View
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.FileName != "edf-fevrier.png" {
		t.Fatalf("file_name = %q", v.FileName)
	}
	if v.RawText != doc.RawText {
		t.Fatal("raw_text must survive a patch")
	}

	if w := fx.do(t, http.MethodPatch, "/api/v1/documents/1", token, `{"file_name":"  "}`); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestDeleteReturns204AndIsIdempotent(t *testing.T) {
	fx := newAPIFixture(t)
	token := fx.tokenFor(t, "owner")
	doc := seedDocument(t, fx.repo, fx.store, "owner")

	if w := fx.do(t, http.MethodDelete, "/api/v1/documents/1", token, ""); w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if fx.store.Exists(doc.FileURL) {
		t.Fatal("blob should be deleted")
	}
	if w := fx.do(t, http.MethodDelete, "/api/v1/documents/1", token, ""); w.Code != http.StatusNoContent {
		t.Fatalf("repeat delete status = %d, want 204", w.Code)
	}
}

func TestDeleteForbiddenForOtherUsersDocument(t *testing.T) {
	fx := newAPIFixture(t)
	fx.tokenFor(t, "owner")
	intruderToken := fx.tokenFor(t, "intruder")
	seedDocument(t, fx.repo, fx.store, "owner")

	if w := fx.do(t, http.MethodDelete, "/api/v1/documents/1", intruderToken, ""); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}
