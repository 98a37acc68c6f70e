package batch

import (
	"encoding/csv"
	"os"
	"strconv"

	database "github.com/fdch/spokenweb/internal/db"
	"github.com/fdch/spokenweb/internal/models"
)

var csvHeader = []string{
	"filename", "sample_rate", "duration", "frame_count",
	"rolloff_05", "rolloff_25", "rolloff_50", "rolloff_75", "rolloff_95",
	"contrast_05", "contrast_25", "contrast_50", "contrast_75", "contrast_95",
}

// ExportCSV writes the whole summary table to path, one row per analyzed
// recording. This is the artifact the visualization stage consumes.
func ExportCSV(db *database.Client, path string) error {
	var summaries []models.Summary
	if err := db.DB.Order("filename asc").Find(&summaries).Error; err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range summaries {
		row := []string{
			s.Filename,
			strconv.Itoa(s.SampleRate),
			formatFloat(s.Duration),
			strconv.Itoa(s.FrameCount),
		}
		for _, v := range s.RolloffQuantiles() {
			row = append(row, formatFloat(v))
		}
		for _, v := range s.ContrastQuantiles() {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
