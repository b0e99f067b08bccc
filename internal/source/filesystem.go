package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/gelatin/internal/meta"
)

// identityLen is the number of hex characters kept from the content hash.
const identityLen = 12

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Filesystem enumerates a directory tree. Identity is content-addressed:
// identical bytes get identical ids, so edits re-ingest and duplicates skip.
type Filesystem struct {
	Root string
}

func NewFilesystem(root string) *Filesystem {
	return &Filesystem{Root: root}
}

// Enumerate walks Root and returns every eligible image. Hidden files and
// directories are skipped; any walk error aborts the enumeration.
func (s *Filesystem) Enumerate(ctx context.Context) ([]Candidate, error) {
	var out []Candidate
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != s.Root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !imageExts[strings.ToLower(filepath.Ext(name))] {
			return nil
		}
		out = append(out, Candidate{
			Filename: name,
			Folder:   folderName(s.Root, path),
			Path:     path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", s.Root, err)
	}
	return out, nil
}

// Identify hashes the file contents and keeps the first identityLen hex
// characters of the SHA-256 digest.
func (s *Filesystem) Identify(c *Candidate) (string, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	id := hex.EncodeToString(h.Sum(nil))[:identityLen]
	c.ID = id
	return id, nil
}

func (s *Filesystem) Bytes(_ context.Context, c Candidate) ([]byte, error) {
	return os.ReadFile(c.Path)
}

// NativeMeta is empty for filesystem sourcing: everything comes from the
// image bytes themselves.
func (s *Filesystem) NativeMeta(Candidate) meta.Fields {
	return meta.Fields{}
}

// Legacy flags ids carrying a separator: under content addressing the current
// scheme is bare hex, so separator-bearing ids are stale library tokens.
func (s *Filesystem) Legacy(id string) bool {
	return strings.ContainsRune(id, '-')
}

// folderName returns the name of the directory holding path, or "" when the
// file sits directly under root.
func folderName(root, path string) string {
	dir := filepath.Dir(path)
	if filepath.Clean(dir) == filepath.Clean(root) {
		return ""
	}
	return filepath.Base(dir)
}
