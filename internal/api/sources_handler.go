package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// sourceInfo combines registry metadata with stored row counts.
type sourceInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	BaseURL     string `json:"base_url,omitempty"`
	Enabled     bool   `json:"enabled"`
	FeatureFlag bool   `json:"feature_flag"`
	StoredRows  int    `json:"stored_rows"`
}

// handleListSources serves GET /api/v1/sources.
func (s *handlers) handleListSources(c *gin.Context) {
	counts, err := s.deps.Internships.SourceCounts(c.Request.Context())
	if err != nil {
		s.log.Warn("Source counts unavailable", "error", err)
		counts = map[string]int{}
	}

	infos := s.deps.Registry.List()
	out := make([]sourceInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, sourceInfo{
			Name:        info.Name,
			Description: info.Description,
			BaseURL:     info.BaseURL,
			Enabled:     info.Enabled,
			FeatureFlag: info.FeatureFlag,
			StoredRows:  counts[info.Name],
		})
	}

	c.JSON(http.StatusOK, gin.H{"sources": out})
}
