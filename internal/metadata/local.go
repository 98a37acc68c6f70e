// Package metadata reads catalog tags out of audio files so summaries can
// be joined against something human-readable downstream.
package metadata

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/fdch/spokenweb/internal/models"
)

// Read extracts embedded tags from path. Files without tags (common for raw
// field recordings) return a Recording carrying only filename-derived
// fields, with a nil error.
func Read(path, key string) (models.Recording, error) {
	rec := models.Recording{
		Filename: key,
		Format:   strings.TrimPrefix(strings.ToLower(filepath.Ext(key)), "."),
	}

	f, err := os.Open(path)
	if err != nil {
		return rec, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// Untagged is not an error worth failing the file over; the
		// summary row is the payload, this is garnish.
		rec.Title = titleFromKey(key)
		return rec, nil
	}

	rec.Title = m.Title()
	rec.Artist = m.Artist()
	rec.Album = m.Album()
	rec.Genre = m.Genre()
	rec.Year = m.Year()
	if rec.Title == "" {
		rec.Title = titleFromKey(key)
	}

	return rec, nil
}

func titleFromKey(key string) string {
	base := filepath.Base(key)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
