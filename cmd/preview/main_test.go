package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/gelatin/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		CatalogPath: filepath.Join(dir, "catalog.json"),
		SiteDir:     filepath.Join(dir, "site"),
	}
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newRouter(testConfig(t)), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("healthz content type %q", ct)
	}
}

func TestCatalogMissingReadsAsEmpty(t *testing.T) {
	rec := get(t, newRouter(testConfig(t)), "/catalog.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("catalog status %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if string(body) != "[]\n" {
		t.Fatalf("missing catalogue body %q", body)
	}
}

func TestCatalogServedWithNoCache(t *testing.T) {
	cfg := testConfig(t)
	payload := `[{"id":"asset-0001"}]` + "\n"
	if err := os.WriteFile(cfg.CatalogPath, []byte(payload), 0o644); err != nil {
		t.Fatalf("write catalogue: %v", err)
	}

	rec := get(t, newRouter(cfg), "/catalog.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("catalog status %d", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Fatalf("catalog cache control %q", cc)
	}
	body, _ := io.ReadAll(rec.Body)
	if string(body) != payload {
		t.Fatalf("catalog body %q", body)
	}
}

func TestStaticSiteServed(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(cfg.SiteDir, 0o755); err != nil {
		t.Fatalf("mkdir site: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.SiteDir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	rec := get(t, newRouter(cfg), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("site status %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if string(body) != "<html></html>" {
		t.Fatalf("site body %q", body)
	}
}
