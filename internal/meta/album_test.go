package meta

import (
	"testing"
	"time"
)

func TestFolderAlbum(t *testing.T) {
	cases := map[string]string{
		"2025-01-26_trip":   "2025-01-26",
		"2025-01-26":        "2025-01-26",
		"2025_january_26":   "2025-01-26",
		"2025_JANUARY_26":   "2025-01-26",
		"2024_september_3":  "2024-09-03",
		"random_name":       "random_name",
		"2025_notamonth_26": "2025_notamonth_26",
		"berlin wedding":    "berlin wedding",
	}
	for in, expect := range cases {
		if got := FolderAlbum(in); got != expect {
			t.Fatalf("folder %q => %q, expected %q", in, got, expect)
		}
	}
}

func TestAlbumForPriority(t *testing.T) {
	taken := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	if got := AlbumFor(&taken, "2020-01-01_old"); got != "2025-03-14" {
		t.Fatalf("capture timestamp must win over folder: %q", got)
	}
	if got := AlbumFor(nil, "2025-01-26_trip"); got != "2025-01-26" {
		t.Fatalf("folder fallback: %q", got)
	}
	if got := AlbumFor(nil, ""); got != AlbumUnsorted {
		t.Fatalf("sentinel fallback: %q", got)
	}
}
