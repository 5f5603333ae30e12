package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/easyinterns/internal/cache"
)

type scrapeRequest struct {
	Query      string `json:"query"`
	Location   string `json:"location"`
	MaxResults int    `json:"max_results"`
}

// handleTriggerScrape serves POST /api/v1/scrape. Triggers are rate-limited
// through the run store's cooldown window; the run itself executes in the
// background and is polled via GET /api/v1/scrape/:id.
func (s *handlers) handleTriggerScrape(c *gin.Context) {
	if s.deps.Runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run tracking is not configured"})
		return
	}

	var req scrapeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
			return
		}
	}

	if s.deps.Cooldown > 0 {
		ok, err := s.deps.Runs.TryAcquireCooldown(c.Request.Context(), s.deps.Cooldown)
		if err != nil {
			s.log.Error("Cooldown check failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check cooldown"})
			return
		}
		if !ok {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":    "a scrape was triggered recently",
				"cooldown": s.deps.Cooldown.String(),
			})
			return
		}
	}

	query := s.deps.Query
	if req.Query != "" {
		query.Query = req.Query
	}
	if req.Location != "" {
		query.Location = req.Location
	}
	if req.MaxResults > 0 {
		query.MaxResults = req.MaxResults
	}

	runID := s.deps.Pipeline.StartRun(query, s.deps.RunTimeout)
	s.log.Info("Scrape run triggered", "run_id", runID, "query", query.Query)

	c.JSON(http.StatusAccepted, gin.H{
		"run_id": runID,
		"status": string(cache.RunRunning),
	})
}

// handleGetRun serves GET /api/v1/scrape/:id.
func (s *handlers) handleGetRun(c *gin.Context) {
	if s.deps.Runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run tracking is not configured"})
		return
	}

	id := c.Param("id")
	run, err := s.deps.Runs.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, cache.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		s.log.Error("Run lookup failed", "run_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	c.JSON(http.StatusOK, run)
}
