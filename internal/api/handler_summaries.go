package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fdch/spokenweb/internal/models"
)

// SummaryRow is a Summary joined with its Recording metadata on filename —
// the shape the scatter-plot frontend consumes directly.
type SummaryRow struct {
	models.Summary
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Genre      string `json:"genre"`
	Collection string `json:"collection"`
}

// GetSummaries returns every file summary joined with recording metadata.
func (s *Server) GetSummaries(c *gin.Context) {
	var rows []SummaryRow

	err := s.db.DB.Table("summaries").
		Select("summaries.*, recordings.title, recordings.artist, recordings.genre, recordings.collection").
		Joins("LEFT JOIN recordings ON recordings.filename = summaries.filename").
		Where("summaries.deleted_at IS NULL").
		Order("summaries.filename asc").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch summaries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(rows), "summaries": rows})
}

// GetSummary returns the summary for one recording.
func (s *Server) GetSummary(c *gin.Context) {
	filename := c.Param("filename")

	var summary models.Summary
	if err := s.db.DB.Where("filename = ?", filename).First(&summary).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No summary for " + filename})
		return
	}

	var rec models.Recording
	response := gin.H{"summary": summary}
	if err := s.db.DB.Where("filename = ?", filename).First(&rec).Error; err == nil {
		response["recording"] = rec
	}

	c.JSON(http.StatusOK, response)
}
