// Package source discovers candidate photos. Two sourcing strategies share
// one capability interface: a filesystem walk and an external photo-library
// query. The rest of the pipeline never knows which one is active.
package source

import (
	"context"

	"github.com/example/gelatin/internal/meta"
)

// Candidate is one discovered photo, before ingestion.
type Candidate struct {
	ID       string // identity, filled by Identify
	Filename string // original filename, display-only
	Folder   string // containing folder name, album hint (filesystem only)
	Path     string // local path to the original bytes (filesystem only)
	Native   meta.Fields
}

// Source enumerates and fetches photos from one backing store.
//
// Enumerate must be complete or fail: a partial listing would make the
// reconciler delete entries that still exist.
type Source interface {
	Enumerate(ctx context.Context) ([]Candidate, error)
	Identify(c *Candidate) (string, error)
	Bytes(ctx context.Context, c Candidate) ([]byte, error)
	NativeMeta(c Candidate) meta.Fields

	// Legacy reports whether id belongs to an older identity scheme and
	// must be re-ingested under the current one.
	Legacy(id string) bool
}
