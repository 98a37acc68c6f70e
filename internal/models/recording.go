package models

import "gorm.io/gorm"

// Recording holds the catalog metadata for an audio file, read from its
// embedded tags. The visualization stage joins this against Summary on
// Filename.
type Recording struct {
	gorm.Model

	Filename   string `gorm:"uniqueIndex;not null" json:"filename"`
	Title      string `gorm:"index" json:"title"`
	Artist     string `gorm:"index" json:"artist"`
	Album      string `json:"album"`
	Genre      string `gorm:"index" json:"genre"`
	Year       int    `json:"year"`
	Collection string `gorm:"index" json:"collection"` // Archive series / fonds
	Format     string `json:"format"`                  // mp3, flac, wav, ...
}
