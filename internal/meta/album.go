package meta

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AlbumUnsorted labels photos with no date signal at all.
const AlbumUnsorted = "unsorted"

var (
	isoPrefix   = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)
	monthPrefix = regexp.MustCompile(`^(\d{4})_([A-Za-z]+)_(\d{1,2})`)
)

var monthNumbers = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// AlbumFor derives the grouping key for a photo, in strict priority order:
// capture timestamp, then folder-name convention, then the unsorted sentinel.
func AlbumFor(taken *time.Time, folder string) string {
	if taken != nil {
		return taken.Format("2006-01-02")
	}
	if folder != "" {
		return FolderAlbum(folder)
	}
	return AlbumUnsorted
}

// FolderAlbum parses a folder name into an album label. Recognized prefixes:
// "2025-01-26_trip" -> "2025-01-26" and "2025_january_26" -> "2025-01-26"
// (month names case-insensitive). Anything else is used verbatim.
func FolderAlbum(name string) string {
	if m := isoPrefix.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	if m := monthPrefix.FindStringSubmatch(name); m != nil {
		if month, ok := monthNumbers[strings.ToLower(m[2])]; ok {
			day, err := strconv.Atoi(m[3])
			if err == nil && day >= 1 && day <= 31 {
				return fmt.Sprintf("%s-%02d-%02d", m[1], int(month), day)
			}
		}
	}
	return name
}
