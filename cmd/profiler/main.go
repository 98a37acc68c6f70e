package main

import (
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fdch/spokenweb/internal/batch"
	"github.com/fdch/spokenweb/internal/config"
	database "github.com/fdch/spokenweb/internal/db"
	"github.com/fdch/spokenweb/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting SpokenWeb Spectral Profiler...")

	// 1. Setup Configuration
	cfg := config.Load()

	// 2. Initialize Infrastructure
	store := storage.New(cfg)
	db := database.New(cfg)

	// 3. Run Database Migrations
	db.AutoMigrate()

	// 4. Setup Metrics
	batch.RegisterMetrics()
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()

	// Ensure temp directory exists for transcodes and downloads
	os.MkdirAll(cfg.Server.TempDir, 0755)

	// 5. Run the batch
	worker := batch.New(cfg, store, db)

	if err := worker.Run(); err != nil {
		log.Fatalf("❌ Batch failed: %v", err)
	}
}
