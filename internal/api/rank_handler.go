package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/easyinterns/internal/domain"
)

type rankRequest struct {
	Profile domain.CandidateProfile `json:"profile"`
	Limit   int                     `json:"limit"`
}

// handleRank serves POST /api/v1/rank, scoring stored internships against a
// candidate profile.
func (s *handlers) handleRank(c *gin.Context) {
	var req rankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultRankLimit
	}

	ranked, err := s.deps.Pipeline.RankStored(c.Request.Context(), req.Profile, limit)
	if err != nil {
		s.log.Error("Ranking failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ranking failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": ranked,
		"total":   len(ranked),
	})
}
