// Package pipeline runs one catalogue sync: enumerate the source, prune
// entries whose photos are gone, ingest new photos, persist the catalogue.
// The whole run is idempotent; re-running against an unchanged source touches
// nothing but the log.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/example/gelatin/internal/catalog"
	"github.com/example/gelatin/internal/media"
	"github.com/example/gelatin/internal/meta"
	"github.com/example/gelatin/internal/source"
)

// ObjectStore is the slice of the remote store the pipeline needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	Key(album, id string, size int) string
	KeyFromURL(raw string) (string, error)
}

// Summary reports what one run did.
type Summary struct {
	Found     int // candidates enumerated
	Added     int // new entries ingested
	Removed   int // entries pruned (orphaned or legacy)
	Unchanged int // candidates already catalogued
	Skipped   int // candidates deferred by the add cap
	Failed    int // candidates that errored and will retry next run
}

type Pipeline struct {
	CatalogPath string
	Source      source.Source
	Store       ObjectStore
	Logger      *slog.Logger

	// Now is swappable for tests.
	Now func() time.Time
}

func New(catalogPath string, src source.Source, store ObjectStore, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		CatalogPath: catalogPath,
		Source:      src,
		Store:       store,
		Logger:      logger,
		Now:         time.Now,
	}
}

// Run executes one sync. limit caps the number of new additions (0 means
// unlimited); deletions are never capped. With dryRun the diff is computed
// and reported but nothing is mutated.
//
// An enumeration failure aborts before any mutation: a partial source listing
// must never be mistaken for deletions.
func (p *Pipeline) Run(ctx context.Context, limit int, dryRun bool) (Summary, error) {
	var sum Summary

	entries, err := catalog.Load(p.CatalogPath)
	if err != nil {
		p.Logger.Warn("starting from empty catalogue", "path", p.CatalogPath, "error", err)
		entries = nil
	}
	p.Logger.Info("catalogue loaded", "entries", len(entries))

	candidates, err := p.Source.Enumerate(ctx)
	if err != nil {
		return sum, fmt.Errorf("source enumeration: %w", err)
	}
	sum.Found = len(candidates)
	p.Logger.Info("source enumerated", "candidates", len(candidates))

	// Resolve every identity up front. A failed identity would look like a
	// removed photo to the diff, so it is fatal rather than skip-and-log.
	sourceIDs := make(map[string]struct{}, len(candidates))
	for i := range candidates {
		id, err := p.Source.Identify(&candidates[i])
		if err != nil {
			return sum, fmt.Errorf("identify %s: %w", candidates[i].Filename, err)
		}
		sourceIDs[id] = struct{}{}
	}

	keep, drop := catalog.Reconcile(entries, sourceIDs, p.Source.Legacy)
	sum.Removed = len(drop)

	if dryRun {
		known := catalog.IDs(keep)
		for _, c := range candidates {
			if _, ok := known[c.ID]; ok {
				sum.Unchanged++
			} else if limit > 0 && sum.Added >= limit {
				sum.Skipped++
			} else {
				sum.Added++
			}
		}
		p.Logger.Info("dry run, no changes applied",
			"would_add", sum.Added, "would_remove", sum.Removed)
		return sum, nil
	}

	// Deletions complete before any addition starts, so a pruned legacy
	// entry can never collide with a freshly derived key.
	p.prune(ctx, drop)

	final := append([]catalog.Entry(nil), keep...)
	known := catalog.IDs(keep)
	for _, c := range candidates {
		if _, ok := known[c.ID]; ok {
			sum.Unchanged++
			continue
		}
		if limit > 0 && sum.Added >= limit {
			sum.Skipped++
			continue
		}
		entry, err := p.ingest(ctx, c)
		if err != nil {
			sum.Failed++
			p.Logger.Error("photo failed", "id", c.ID, "filename", c.Filename, "error", err)
			continue
		}
		final = append(final, *entry)
		known[c.ID] = struct{}{}
		sum.Added++
		p.Logger.Info("photo added", "id", c.ID, "filename", c.Filename, "album", entry.Album)
	}

	if err := catalog.Save(p.CatalogPath, final); err != nil {
		return sum, fmt.Errorf("persist catalogue: %w", err)
	}
	return sum, nil
}

// prune deletes the remote renditions of dropped entries. Deletes run
// concurrently and every failure is swallowed after logging: a dangling
// object is a lesser harm than an aborted reconciliation, and the entries
// leave the catalogue either way.
func (p *Pipeline) prune(ctx context.Context, drop []catalog.Entry) {
	var wg sync.WaitGroup
	for _, e := range drop {
		p.Logger.Info("removing entry", "id", e.ID, "album", e.Album)
		for _, raw := range []string{e.ThumbURL, e.PreviewURL} {
			if raw == "" {
				continue
			}
			key, err := p.Store.KeyFromURL(raw)
			if err != nil {
				p.Logger.Warn("cannot derive key for deletion", "id", e.ID, "url", raw, "error", err)
				continue
			}
			wg.Add(1)
			go func(id, key string) {
				defer wg.Done()
				if err := p.Store.Remove(ctx, key); err != nil {
					p.Logger.Warn("delete failed", "id", id, "key", key, "error", err)
				}
			}(e.ID, key)
		}
	}
	wg.Wait()
}

// ingest runs one candidate through extract, transcode and upload, returning
// its catalogue entry. Errors abort only this photo.
func (p *Pipeline) ingest(ctx context.Context, c source.Candidate) (*catalog.Entry, error) {
	data, err := p.Source.Bytes(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("fetch bytes: %w", err)
	}

	fields := meta.FromBytes(data).Merge(p.Source.NativeMeta(c))

	res, err := media.Transcode(data)
	if err != nil {
		return nil, fmt.Errorf("transcode: %w", err)
	}

	album := meta.AlbumFor(fields.Taken, c.Folder)
	uploaded := p.Now().UTC()

	thumbURL, err := p.Store.Upload(ctx, p.Store.Key(album, c.ID, media.ThumbBound), res.Thumb, media.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload thumb: %w", err)
	}
	previewURL, err := p.Store.Upload(ctx, p.Store.Key(album, c.ID, media.PreviewBound), res.Preview, media.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload preview: %w", err)
	}

	lum := res.Luminance
	return &catalog.Entry{
		ID:           c.ID,
		Filename:     c.Filename,
		Album:        album,
		DateTaken:    dateTaken(fields, album, uploaded),
		DateUploaded: uploaded.Format(timeLayout),
		Width:        res.Width,
		Height:       res.Height,
		ThumbURL:     thumbURL,
		PreviewURL:   previewURL,
		Exif:         fields.Display(),
		Luminance:    &lum,
	}, nil
}

// timeLayout is fixed-width and zero-padded so catalogue timestamps sort
// lexicographically.
const timeLayout = "2006-01-02T15:04:05Z"

var albumDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// dateTaken picks the best capture timestamp: embedded metadata, then a
// date-shaped album label, then the ingestion time.
func dateTaken(fields meta.Fields, album string, uploaded time.Time) string {
	if fields.Taken != nil {
		return fields.Taken.UTC().Format(timeLayout)
	}
	if albumDate.MatchString(album) {
		return album + "T00:00:00Z"
	}
	return uploaded.Format(timeLayout)
}
