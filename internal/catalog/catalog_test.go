package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSortNewestFirst(t *testing.T) {
	entries := []Entry{
		{ID: "a", DateTaken: "2024-05-01T10:00:00Z"},
		{ID: "b", DateTaken: "2025-01-01T08:30:00Z"},
		{ID: "c", DateTaken: "2024-12-31T23:59:59Z"},
	}
	Sort(entries)
	want := []string{"b", "c", "a"}
	for i, id := range want {
		if entries[i].ID != id {
			t.Fatalf("position %d: expected %s got %s", i, id, entries[i].ID)
		}
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "catalog.json")
	lum := 62.4
	in := []Entry{
		{ID: "0a1b2c3d4e5f", Filename: "one.jpg", Album: "2025-01-26", DateTaken: "2025-01-26T12:00:00Z",
			DateUploaded: "2025-02-01T00:00:00Z", Width: 4000, Height: 3000,
			ThumbURL: "https://b.example.com/photos/2025-01-26/0a1b2c3d4e5f_600.jpg",
			PreviewURL: "https://b.example.com/photos/2025-01-26/0a1b2c3d4e5f_1800.jpg",
			Exif:      map[string]string{"camera": "Apple iPhone 14", "aperture": "f/1.8"},
			Luminance: &lum},
		{ID: "ffeeddccbbaa", Filename: "two.jpg", Album: "2024-08-09", DateTaken: "2024-08-09T09:00:00Z"},
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Fatalf("catalogue file missing trailing newline")
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 entries got %d", len(out))
	}
	if out[0].ID != "0a1b2c3d4e5f" {
		t.Fatalf("expected newest entry first, got %s", out[0].ID)
	}
	if out[0].Exif["camera"] != "Apple iPhone 14" {
		t.Fatalf("exif map lost in round trip: %+v", out[0].Exif)
	}
	if out[0].Luminance == nil || *out[0].Luminance != 62.4 {
		t.Fatalf("luminance lost in round trip")
	}
	if out[1].Luminance != nil {
		t.Fatalf("absent luminance should stay absent")
	}
	if out[1].Exif != nil {
		t.Fatalf("absent exif should stay absent")
	}
}

func TestAbsentFieldsOmitted(t *testing.T) {
	data, err := json.Marshal(Entry{ID: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if strings.Contains(s, "exif") || strings.Contains(s, "luminance") {
		t.Fatalf("optional fields must be omitted when absent: %s", s)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	entries, err := Load(path)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if entries != nil {
		t.Fatalf("corrupt catalogue should load as empty")
	}
}

func TestReconcile(t *testing.T) {
	entries := []Entry{
		{ID: "aaaa-1111"},
		{ID: "bbbb-2222"},
		{ID: "0123456789ab"}, // no separator: legacy under the library scheme
	}
	source := map[string]struct{}{
		"aaaa-1111":    {},
		"0123456789ab": {},
		"cccc-3333":    {},
	}
	legacy := func(id string) bool { return !strings.Contains(id, "-") }

	keep, drop := Reconcile(entries, source, legacy)

	if len(keep) != 1 || keep[0].ID != "aaaa-1111" {
		t.Fatalf("unexpected keep set: %+v", keep)
	}
	if len(drop) != 2 {
		t.Fatalf("expected 2 dropped entries got %d", len(drop))
	}
	dropped := IDs(drop)
	if _, ok := dropped["bbbb-2222"]; !ok {
		t.Fatalf("entry missing from source must be dropped")
	}
	if _, ok := dropped["0123456789ab"]; !ok {
		t.Fatalf("legacy entry must be dropped even when present in source")
	}
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	entries := []Entry{{ID: "a-1"}, {ID: "b-2"}}
	source := map[string]struct{}{"a-1": {}}
	Reconcile(entries, source, nil)
	if entries[0].ID != "a-1" || entries[1].ID != "b-2" {
		t.Fatalf("input mutated: %+v", entries)
	}
}
