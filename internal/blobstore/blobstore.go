// Package blobstore uploads derivative renditions to S3-compatible object
// storage and knows the key and public-URL conventions, so URLs written to
// the catalogue are reproducible without a round-trip.
package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/example/gelatin/internal/config"
	"github.com/example/gelatin/internal/media"
)

// CacheControl is set on every uploaded object. Keys are content-addressed,
// so objects never change in place and can be cached forever.
const CacheControl = "public, max-age=31536000, immutable"

type Client struct {
	mc        *minio.Client
	bucket    string
	host      string
	secure    bool
	style     config.URLStyle
	prefix    string
	albumKeys bool
}

func New(cfg *config.Config) (*Client, error) {
	host := strings.TrimPrefix(strings.TrimPrefix(cfg.S3Endpoint, "https://"), "http://")
	mc, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3Secure,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("blobstore client: %w", err)
	}
	return &Client{
		mc:        mc,
		bucket:    cfg.S3Bucket,
		host:      host,
		secure:    cfg.S3Secure,
		style:     cfg.URLStyle,
		prefix:    cfg.KeyPrefix,
		albumKeys: cfg.AlbumKeys,
	}, nil
}

// EnsureBucket creates the bucket on first run and applies a public-read
// policy so rendition URLs work without signing.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("bucket check: %w", err)
	}
	if !exists {
		if err := c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", c.bucket, err)
		}
	}
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, c.bucket)
	if err := c.mc.SetBucketPolicy(ctx, c.bucket, policy); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}
	return nil
}

// Upload stores data under key and returns the public URL.
func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := c.mc.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: CacheControl,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return c.URLFor(key), nil
}

// Remove deletes one object. Callers treat failures as non-fatal.
func (c *Client) Remove(ctx context.Context, key string) error {
	return c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
}

// Key builds the object key for one rendition: the fixed prefix, an album
// subpath when album-keyed layout is on, then "{id}_{size}.jpg".
func (c *Client) Key(album, id string, size int) string {
	parts := []string{c.prefix}
	if c.albumKeys && album != "" {
		parts = append(parts, album)
	}
	parts = append(parts, fmt.Sprintf("%s_%d%s", id, size, media.Ext))
	return strings.Join(parts, "/")
}

// URLFor builds the deterministic public URL for a key.
func (c *Client) URLFor(key string) string {
	scheme := "https"
	if !c.secure {
		scheme = "http"
	}
	if c.style == config.URLPathStyle {
		return fmt.Sprintf("%s://%s/%s/%s", scheme, c.host, c.bucket, key)
	}
	return fmt.Sprintf("%s://%s.%s/%s", scheme, c.bucket, c.host, key)
}

// KeyFromURL recovers the object key from a catalogued public URL. It accepts
// both URL styles so entries written by an older pipeline generation can
// still be pruned.
func (c *Client) KeyFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse rendition url %q: %w", raw, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if strings.HasPrefix(key, c.bucket+"/") {
		return strings.TrimPrefix(key, c.bucket+"/"), nil
	}
	if key == "" {
		return "", fmt.Errorf("rendition url %q has no key", raw)
	}
	return key, nil
}
