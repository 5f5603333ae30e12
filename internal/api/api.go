// Package api implements the HTTP API for browsing aggregated internships
// and triggering scrape runs.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/easyinterns/internal/cache"
	"github.com/jonesrussell/easyinterns/internal/database"
	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/jonesrussell/easyinterns/internal/metrics"
	"github.com/jonesrussell/easyinterns/internal/ranking"
	"github.com/jonesrussell/easyinterns/internal/scraper"
)

const (
	readHeaderTimeout = 10 * time.Second
	defaultPageLimit  = 50
	maxPageLimit      = 200
	defaultRankLimit  = 25
)

// InternshipReader is the read-side persistence surface the API needs.
type InternshipReader interface {
	Search(ctx context.Context, f database.Filter) ([]domain.Internship, int, error)
	GetByKey(ctx context.Context, key string) (*domain.Internship, error)
	SourceCounts(ctx context.Context) (map[string]int, error)
}

// ContactReader lists harvested contact emails for an internship.
type ContactReader interface {
	ListByInternship(ctx context.Context, key string) ([]domain.ContactEmail, error)
}

// PipelineService is the slice of the pipeline exposed over HTTP.
type PipelineService interface {
	RankStored(ctx context.Context, profile domain.CandidateProfile, limit int) ([]ranking.ScoredInternship, error)
	StartRun(query scraper.Query, timeout time.Duration) string
}

// RunStore reports scrape-run status and rate-limits triggers. Nil disables
// the scrape endpoints.
type RunStore interface {
	GetRun(ctx context.Context, id string) (*cache.Run, error)
	TryAcquireCooldown(ctx context.Context, window time.Duration) (bool, error)
}

// Searcher answers full-text queries from the search index. Nil means all
// queries go to SQL.
type Searcher interface {
	Search(ctx context.Context, query string, size int) ([]domain.Internship, error)
}

// Deps holds the collaborators the API server depends on.
type Deps struct {
	Logger      logger.Interface
	Metrics     *metrics.Metrics
	Internships InternshipReader
	Contacts    ContactReader
	Registry    *scraper.Registry
	Pipeline    PipelineService
	Runs        RunStore
	Search      Searcher

	ExportDir  string
	Query      scraper.Query
	Cooldown   time.Duration
	RunTimeout time.Duration
}

// SetupRouter creates and configures the Gin router with all routes.
func SetupRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(deps.Logger))
	router.Use(corsMiddleware())

	s := &handlers{deps: deps, log: deps.Logger.WithComponent("api")}

	router.GET("/health", s.handleHealth)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	v1.GET("/internships", s.handleListInternships)
	v1.GET("/internships/:key", s.handleGetInternship)
	v1.GET("/sources", s.handleListSources)
	v1.POST("/rank", s.handleRank)
	v1.POST("/scrape", s.handleTriggerScrape)
	v1.GET("/scrape/:id", s.handleGetRun)
	v1.GET("/exports/internships.csv", s.handleExportCSV)

	return router
}

type handlers struct {
	deps Deps
	log  logger.Interface
}

// loggingMiddleware logs each HTTP request after it completes.
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// corsMiddleware adds CORS headers to allow frontend access.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *handlers) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
