package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// handleExportCSV serves GET /api/v1/exports/internships.csv, streaming the
// latest export written by the pipeline.
func (s *handlers) handleExportCSV(c *gin.Context) {
	path := filepath.Join(s.deps.ExportDir, "internships.csv")
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no export available yet"})
		return
	}
	c.FileAttachment(path, "internships.csv")
}
