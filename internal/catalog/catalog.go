// Package catalog persists the photo catalogue: the durable record of every
// photo that has been transcoded and uploaded, consumed by the gallery at
// render time.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Entry is one catalogued photo. Entries are append-or-remove only; an entry
// never changes identity after it is written.
type Entry struct {
	ID           string            `json:"id"`
	Filename     string            `json:"filename"`
	Album        string            `json:"album"`
	DateTaken    string            `json:"date_taken"`
	DateUploaded string            `json:"date_uploaded"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	ThumbURL     string            `json:"thumb_url"`
	PreviewURL   string            `json:"preview_url"`
	Exif         map[string]string `json:"exif,omitempty"`
	Luminance    *float64          `json:"luminance,omitempty"`
}

// Load reads the catalogue from path. The returned error is advisory: a
// missing or unparseable file means the run starts from an empty catalogue,
// it never aborts a sync.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalogue %s: %w", path, err)
	}
	return entries, nil
}

// Save writes the catalogue sorted by date_taken descending, as a JSON array
// with a trailing newline. The write goes through a temp file so a crash
// mid-write cannot truncate the previous catalogue.
func Save(path string, entries []Entry) error {
	Sort(entries)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "catalog-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Sort orders entries newest first. Plain string comparison is correct here
// because date_taken is fixed-width and zero-padded.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DateTaken > entries[j].DateTaken
	})
}

// IDs returns the identity set of entries.
func IDs(entries []Entry) map[string]struct{} {
	out := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		out[e.ID] = struct{}{}
	}
	return out
}
