package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/gelatin/internal/meta"
)

// exportExts are the extensions an exported asset may arrive with, tried in
// order.
var exportExts = []string{".jpg", ".jpeg", ".png", ".webp"}

// Library sources photos from an external photo-management tool. The tool is
// queried for the members of one named album and asked to export assets by
// id into a run-scoped working directory.
//
// Identity is the library's own stable token, so a re-encoded export of the
// same logical asset keeps its id.
type Library struct {
	Tool  string
	Album string

	workdir string
}

// libraryRecord is one asset as reported by `<tool> list --album <album> --json`.
type libraryRecord struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Taken    string `json:"taken"`
}

func NewLibrary(tool, album string) *Library {
	return &Library{Tool: tool, Album: album}
}

func (s *Library) Enumerate(ctx context.Context) ([]Candidate, error) {
	cmd := exec.CommandContext(ctx, s.Tool, "list", "--album", s.Album, "--json")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("query library album %q: %w", s.Album, err)
	}

	var records []libraryRecord
	if err := json.Unmarshal(out, &records); err != nil {
		return nil, fmt.Errorf("parse library listing: %w", err)
	}

	candidates := make([]Candidate, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("library record without id: %+v", r)
		}
		native := meta.Fields{}
		if t, err := time.Parse(time.RFC3339, r.Taken); err == nil {
			native.Taken = &t
		}
		candidates = append(candidates, Candidate{
			ID:       r.ID,
			Filename: r.Filename,
			Native:   native,
		})
	}
	return candidates, nil
}

// Identify returns the library-assigned token carried by the candidate.
func (s *Library) Identify(c *Candidate) (string, error) {
	if c.ID == "" {
		return "", fmt.Errorf("library candidate %q has no id", c.Filename)
	}
	return c.ID, nil
}

// Bytes asks the tool to export one asset into the working directory and
// reads the file it names after the id.
func (s *Library) Bytes(ctx context.Context, c Candidate) ([]byte, error) {
	dir, err := s.ensureWorkdir()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, s.Tool, "export", "--album", s.Album, "--id", c.ID, dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("export %s: %w: %s", c.ID, err, strings.TrimSpace(string(out)))
	}

	for _, ext := range exportExts {
		data, err := os.ReadFile(filepath.Join(dir, c.ID+ext))
		if err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("export %s: no file produced", c.ID)
}

func (s *Library) NativeMeta(c Candidate) meta.Fields {
	return c.Native
}

// Legacy flags ids without a separator: library tokens contain one, bare
// content hashes from the previous scheme do not.
func (s *Library) Legacy(id string) bool {
	return !strings.ContainsRune(id, '-')
}

// Close removes the export working directory. Safe to call whether or not an
// export ever ran, and on every exit path.
func (s *Library) Close() error {
	if s.workdir == "" {
		return nil
	}
	dir := s.workdir
	s.workdir = ""
	return os.RemoveAll(dir)
}

func (s *Library) ensureWorkdir() (string, error) {
	if s.workdir != "" {
		return s.workdir, nil
	}
	dir, err := os.MkdirTemp("", "gelatin-export-*")
	if err != nil {
		return "", err
	}
	s.workdir = dir
	return dir, nil
}
