// Package batch walks a recording collection, profiles each file, and
// persists the resulting summaries. Files are processed strictly one at a
// time; per-file state is fully isolated.
package batch

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fdch/spokenweb/internal/config"
	database "github.com/fdch/spokenweb/internal/db"
	"github.com/fdch/spokenweb/internal/metadata"
	"github.com/fdch/spokenweb/internal/models"
	"github.com/fdch/spokenweb/internal/profile"
	"github.com/fdch/spokenweb/internal/storage"
	"github.com/fdch/spokenweb/internal/wav"
)

type Worker struct {
	cfg     *config.Config
	storage *storage.Client
	db      *database.Client
}

func New(cfg *config.Config, store *storage.Client, db *database.Client) *Worker {
	return &Worker{cfg: cfg, storage: store, db: db}
}

// Run performs one full pass over the collection and writes the CSV export.
// With skip_on_error set (the default) a failing file is logged and skipped;
// otherwise the first failure aborts the whole batch.
func (w *Worker) Run() error {
	keys, err := w.storage.ListRecordings()
	if err != nil {
		return fmt.Errorf("listing collection: %w", err)
	}

	log.Printf("Found %d items in the collection.", len(keys))

	processed := 0
	for _, key := range keys {
		if strings.HasSuffix(key, "/") || !w.supported(key) {
			continue
		}

		log.Printf("Processing: %s", key)
		if err := w.processFile(key); err != nil {
			jobs.WithLabelValues("failure").Inc()
			if !w.cfg.Analysis.SkipOnError {
				return fmt.Errorf("aborting batch at %s: %w", key, err)
			}
			log.Printf("❌ FAILED %s: %v", key, err)
			continue
		}
		log.Printf("✅ PROFILED %s", key)
		jobs.WithLabelValues("success").Inc()
		processed++
	}

	log.Printf("Batch complete: %d recordings profiled.", processed)

	if err := ExportCSV(w.db, w.cfg.Export.CSVPath); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}
	log.Printf("📄 Summary table written to %s", w.cfg.Export.CSVPath)

	return nil
}

func (w *Worker) supported(key string) bool {
	lower := strings.ToLower(key)
	for _, ext := range w.cfg.Analysis.Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (w *Worker) processFile(key string) error {
	timer := prometheus.NewTimer(duration)
	defer timer.ObserveDuration()

	// 1. Make the recording available on disk
	rawPath, cleanup, err := w.storage.Fetch(key)
	if err != nil {
		return err
	}
	defer cleanup()

	// 2. Pre-transcode anything that is not already plain WAV
	analyzePath := rawPath
	if !wav.IsNative(rawPath) {
		safe, err := wav.Transcode(rawPath, w.cfg.Server.TempDir)
		if err != nil {
			return err
		}
		defer os.Remove(safe)
		analyzePath = safe
	}

	// 3. Stream the file through the aggregator
	summary, err := profile.Analyze(analyzePath, w.cfg)
	if err != nil {
		return err
	}
	summary.Filename = key

	// 4. Read tags from the original file, not the transcode
	rec, err := metadata.Read(rawPath, key)
	if err != nil {
		log.Printf("Warning: tags unreadable for %s: %v", key, err)
	}

	// 5. DB Persistence
	if err := w.db.DB.Where(models.Summary{Filename: key}).Assign(*summary).FirstOrCreate(summary).Error; err != nil {
		return fmt.Errorf("persist summary for %s: %w", key, err)
	}
	if err := w.db.DB.Where(models.Recording{Filename: key}).Assign(rec).FirstOrCreate(&rec).Error; err != nil {
		return fmt.Errorf("persist recording for %s: %w", key, err)
	}

	return nil
}
