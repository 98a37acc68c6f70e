package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fdch/spokenweb/internal/wav"
)

func TestReadUntaggedFile(t *testing.T) {
	dir := t.TempDir()
	data, err := wav.Encode(make([]int16, 1000), 22050)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	path := filepath.Join(dir, "interview_1962.wav")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	rec, err := Read(path, "fonds_a/interview_1962.wav")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	// Raw WAVs carry no tags; the record must still be usable.
	if rec.Filename != "fonds_a/interview_1962.wav" {
		t.Errorf("Filename = %q; want the collection key", rec.Filename)
	}
	if rec.Title != "interview_1962" {
		t.Errorf("Title = %q; want filename-derived title", rec.Title)
	}
	if rec.Format != "wav" {
		t.Errorf("Format = %q; want wav", rec.Format)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "gone.mp3"), "gone.mp3")
	if err == nil {
		t.Errorf("Read on missing file succeeded; want error")
	}
}
