package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPhotosDir   = "photos"
	DefaultCatalogPath = "data/catalog.json"
	DefaultKeyPrefix   = "photos"
	DefaultPreviewBind = ":8080"
	DefaultSiteDir     = "site"
)

type SourceMode string

const (
	SourceFilesystem SourceMode = "filesystem"
	SourceLibrary    SourceMode = "library"
)

type URLStyle string

const (
	URLVirtualHosted URLStyle = "virtual"
	URLPathStyle     URLStyle = "path"
)

type Config struct {
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Secure    bool

	Source       SourceMode
	PhotosDir    string
	CatalogPath  string
	KeyPrefix    string
	AlbumKeys    bool
	URLStyle     URLStyle
	LibraryTool  string
	LibraryAlbum string

	PreviewBind        string
	SiteDir            string
	CORSAllowedOrigins []string

	LogLevel string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		S3Endpoint:         os.Getenv("GELATIN_S3_ENDPOINT"),
		S3Region:           os.Getenv("GELATIN_S3_REGION"),
		S3Bucket:           os.Getenv("GELATIN_S3_BUCKET"),
		S3AccessKey:        os.Getenv("GELATIN_S3_ACCESS_KEY"),
		S3SecretKey:        os.Getenv("GELATIN_S3_SECRET_KEY"),
		S3Secure:           getBool("GELATIN_S3_SECURE", true),
		Source:             SourceMode(getenv("GELATIN_SOURCE", string(SourceFilesystem))),
		PhotosDir:          getenv("GELATIN_PHOTOS_DIR", DefaultPhotosDir),
		CatalogPath:        getenv("GELATIN_CATALOG_PATH", DefaultCatalogPath),
		KeyPrefix:          getenv("GELATIN_KEY_PREFIX", DefaultKeyPrefix),
		AlbumKeys:          getBool("GELATIN_ALBUM_KEYS", true),
		URLStyle:           URLStyle(getenv("GELATIN_URL_STYLE", string(URLVirtualHosted))),
		LibraryTool:        os.Getenv("GELATIN_LIBRARY_TOOL"),
		LibraryAlbum:       os.Getenv("GELATIN_LIBRARY_ALBUM"),
		PreviewBind:        getenv("GELATIN_PREVIEW_BIND", DefaultPreviewBind),
		SiteDir:            getenv("GELATIN_SITE_DIR", DefaultSiteDir),
		CORSAllowedOrigins: splitAndTrim(os.Getenv("GELATIN_CORS_ALLOWED_ORIGINS")),
		LogLevel:           os.Getenv("GELATIN_LOG_LEVEL"),
	}

	var missing []string
	for _, v := range []struct{ name, val string }{
		{"GELATIN_S3_ENDPOINT", cfg.S3Endpoint},
		{"GELATIN_S3_REGION", cfg.S3Region},
		{"GELATIN_S3_BUCKET", cfg.S3Bucket},
		{"GELATIN_S3_ACCESS_KEY", cfg.S3AccessKey},
		{"GELATIN_S3_SECRET_KEY", cfg.S3SecretKey},
	} {
		if v.val == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch cfg.Source {
	case SourceFilesystem, SourceLibrary:
	default:
		return nil, fmt.Errorf("invalid GELATIN_SOURCE: %s", cfg.Source)
	}

	switch cfg.URLStyle {
	case URLVirtualHosted, URLPathStyle:
	default:
		return nil, fmt.Errorf("invalid GELATIN_URL_STYLE: %s", cfg.URLStyle)
	}

	if cfg.Source == SourceLibrary {
		if cfg.LibraryTool == "" || cfg.LibraryAlbum == "" {
			return nil, fmt.Errorf("GELATIN_LIBRARY_TOOL and GELATIN_LIBRARY_ALBUM are required when GELATIN_SOURCE=library")
		}
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(strings.TrimSpace(v))
		return v == "1" || v == "true" || v == "yes" || v == "y"
	}
	return def
}

func splitAndTrim(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
