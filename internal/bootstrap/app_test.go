package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aideo-backend/internal/shared/config"
)

func devConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:             "dev",
		Port:            "0",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		Bucket:          "aideo",
		PresignTTL:      time.Hour,
		OCRLanguages:    "fra",
		OCRWorkers:      2,
		AIProvider:      "simulated",
		AITimeout:       time.Second,
		JWTSecret:       "test-secret",
		TokenTTL:        time.Hour,
		MaxUploadMB:     10,
	}
}

func TestBuildDevModeUsesMemoryRepos(t *testing.T) {
	app, err := Build(devConfig(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if app.DB != nil {
		t.Fatal("dev mode without DATABASE_URL should not hold a DB handle")
	}
	if app.Router == nil || app.Pipeline == nil || app.DocumentsService == nil {
		t.Fatal("app not fully wired")
	}
}

func TestBuildHealthAndMetricsRoutes(t *testing.T) {
	app, err := Build(devConfig(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, path := range []string{"/api/v1/health", "/api/v1/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		app.Router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s = %d, want 200", path, w.Code)
		}
	}
}

func TestBuildProtectedRoutesRejectAnonymous(t *testing.T) {
	app, err := Build(devConfig(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestBuildRejectsOpenAIWithoutKey(t *testing.T) {
	cfg := devConfig(t)
	cfg.AIProvider = "openai"
	cfg.AIAPIKey = ""

	if _, err := Build(cfg); err == nil {
		t.Fatal("expected error for openai provider without api key")
	}
}
