package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fdch/spokenweb/internal/api"
	"github.com/fdch/spokenweb/internal/config"
	database "github.com/fdch/spokenweb/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Summary API Server...")

	// 1. Setup Configuration
	cfg := config.Load()

	// 2. Initialize Infrastructure
	db := database.New(cfg)

	// 3. Run Database Migrations
	db.AutoMigrate()

	// 4. Setup Metrics
	go func() {
		http.Handle("/_metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/_metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()

	// 5. Start Server
	srv := api.New(cfg, db)

	log.Printf("🚀 API Server starting on %s", cfg.Server.ListenAddr)
	if err := srv.Start(cfg.Server.ListenAddr); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
