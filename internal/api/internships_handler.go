package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/easyinterns/internal/database"
	"github.com/jonesrussell/easyinterns/internal/domain"
)

// handleListInternships serves GET /api/v1/internships with filtering and
// pagination via query parameters.
func (s *handlers) handleListInternships(c *gin.Context) {
	f := database.Filter{
		Query:      c.Query("q"),
		Source:     c.Query("source"),
		FieldTag:   c.Query("field"),
		Modality:   c.Query("modality"),
		Location:   c.Query("location"),
		Sort:       c.Query("sort"),
		RemoteOnly: c.Query("remote") == "true",
		ActiveOnly: c.Query("include_inactive") != "true",
	}

	if gov := c.Query("government"); gov != "" {
		v := gov == "true"
		f.Government = &v
	}
	if raw := c.Query("min_score"); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_score"})
			return
		}
		f.MinScore = score
	}
	if raw := c.Query("min_salary"); raw != "" {
		salary, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_salary"})
			return
		}
		f.MinSalary = salary
	}
	if raw := c.Query("posted_after"); raw != "" {
		after, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid posted_after, expected YYYY-MM-DD"})
			return
		}
		f.PostedAfter = &after
	}

	f.Limit = intQuery(c, "limit", defaultPageLimit)
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
	f.Offset = intQuery(c, "offset", 0)

	// Full-text queries go through Elasticsearch when it is wired in and the
	// request uses no SQL-only filters.
	if s.deps.Search != nil && f.Query != "" && textOnlyFilter(f) {
		rows, err := s.deps.Search.Search(c.Request.Context(), f.Query, f.Limit)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{
				"internships": rows,
				"total":       len(rows),
				"limit":       f.Limit,
				"offset":      0,
			})
			return
		}
		s.log.Warn("Search index query failed, falling back to SQL", "error", err)
	}

	rows, total, err := s.deps.Internships.Search(c.Request.Context(), f)
	if err != nil {
		s.log.Error("Internship search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"internships": rows,
		"total":       total,
		"limit":       f.Limit,
		"offset":      f.Offset,
	})
}

// handleGetInternship serves GET /api/v1/internships/:key, including any
// harvested contact emails.
func (s *handlers) handleGetInternship(c *gin.Context) {
	key := c.Param("key")

	row, err := s.deps.Internships.GetByKey(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "internship not found"})
			return
		}
		s.log.Error("Internship lookup failed", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	contacts := []domain.ContactEmail{}
	if s.deps.Contacts != nil {
		contacts, err = s.deps.Contacts.ListByInternship(c.Request.Context(), key)
		if err != nil {
			s.log.Warn("Contact lookup failed", "key", key, "error", err)
			contacts = []domain.ContactEmail{}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"internship": row,
		"contacts":   contacts,
	})
}

// textOnlyFilter reports whether the filter uses nothing beyond the text
// query and pagination, so the search index can answer it alone.
func textOnlyFilter(f database.Filter) bool {
	return f.Source == "" && f.FieldTag == "" && f.Modality == "" &&
		f.Location == "" && !f.RemoteOnly && f.Government == nil &&
		f.MinScore == 0 && f.MinSalary == 0 && f.PostedAfter == nil &&
		f.Offset == 0 && f.Sort == ""
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
