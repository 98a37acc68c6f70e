package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fdch/spokenweb/internal/models"
)

// GetStats aggregates collection-level numbers for the dashboard.
func (s *Server) GetStats(c *gin.Context) {
	var stats struct {
		TotalSummaries  int64   `json:"total_summaries"`
		TotalRecordings int64   `json:"total_recordings"`
		TotalDuration   float64 `json:"total_duration_seconds"`
		MeanRolloff50   float64 `json:"mean_rolloff50_hz"`
		MeanContrast50  float64 `json:"mean_contrast50_db"`
	}

	s.db.DB.Model(&models.Summary{}).Count(&stats.TotalSummaries)
	s.db.DB.Model(&models.Recording{}).Count(&stats.TotalRecordings)
	s.db.DB.Model(&models.Summary{}).Select("COALESCE(SUM(duration), 0)").Scan(&stats.TotalDuration)

	// Mean of the per-file medians, good enough for a dashboard tile.
	s.db.DB.Model(&models.Summary{}).Select("COALESCE(AVG(rolloff50), 0)").Scan(&stats.MeanRolloff50)
	s.db.DB.Model(&models.Summary{}).Select("COALESCE(AVG(contrast50), 0)").Scan(&stats.MeanContrast50)

	// Most recently profiled files
	var recent []models.Summary
	if err := s.db.DB.Order("created_at desc").Limit(5).Find(&recent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent summaries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":  stats,
		"recent": recent,
	})
}
