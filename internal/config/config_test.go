package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GELATIN_S3_ENDPOINT", "s3.example.com")
	t.Setenv("GELATIN_S3_REGION", "eu-central-1")
	t.Setenv("GELATIN_S3_BUCKET", "portfolio")
	t.Setenv("GELATIN_S3_ACCESS_KEY", "key")
	t.Setenv("GELATIN_S3_SECRET_KEY", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source != SourceFilesystem {
		t.Fatalf("default source: %q", cfg.Source)
	}
	if cfg.PhotosDir != DefaultPhotosDir || cfg.CatalogPath != DefaultCatalogPath {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.URLStyle != URLVirtualHosted || !cfg.AlbumKeys || !cfg.S3Secure {
		t.Fatalf("defaults: %+v", cfg)
	}
}

func TestLoadNamesEveryMissingVariable(t *testing.T) {
	setRequired(t)
	t.Setenv("GELATIN_S3_BUCKET", "")
	t.Setenv("GELATIN_S3_SECRET_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for missing settings")
	}
	for _, name := range []string{"GELATIN_S3_BUCKET", "GELATIN_S3_SECRET_KEY"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error should name %s: %v", name, err)
		}
	}
	if strings.Contains(err.Error(), "GELATIN_S3_ENDPOINT") {
		t.Fatalf("error should not name present settings: %v", err)
	}
}

func TestLoadRejectsBadSource(t *testing.T) {
	setRequired(t)
	t.Setenv("GELATIN_SOURCE", "carrier-pigeon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid source mode")
	}
}

func TestLibraryModeRequiresToolAndAlbum(t *testing.T) {
	setRequired(t)
	t.Setenv("GELATIN_SOURCE", "library")
	if _, err := Load(); err == nil {
		t.Fatalf("library mode without tool/album must fail")
	}

	t.Setenv("GELATIN_LIBRARY_TOOL", "phototool")
	t.Setenv("GELATIN_LIBRARY_ALBUM", "portfolio")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source != SourceLibrary {
		t.Fatalf("source: %q", cfg.Source)
	}
}
