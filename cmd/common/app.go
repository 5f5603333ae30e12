package common

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/easyinterns/internal/cache"
	"github.com/jonesrussell/easyinterns/internal/database"
	"github.com/jonesrussell/easyinterns/internal/export"
	"github.com/jonesrussell/easyinterns/internal/harvester"
	"github.com/jonesrussell/easyinterns/internal/metrics"
	"github.com/jonesrussell/easyinterns/internal/pipeline"
	"github.com/jonesrussell/easyinterns/internal/scraper"
	"github.com/jonesrussell/easyinterns/internal/search"
)

// App is the assembled dependency graph shared by the subcommands.
type App struct {
	*Deps

	DB          *sqlx.DB
	Internships *database.InternshipRepository
	Contacts    *database.ContactRepository
	Registry    *scraper.Registry
	Metrics     *metrics.Metrics
	Pipeline    *pipeline.Pipeline
	Runs        *cache.Store
	Index       *search.Index
}

// NewApp connects to Postgres, runs migrations, and wires the scrapers,
// exporters, and pipeline. Redis and Elasticsearch are optional; when
// unconfigured the app runs without run tracking or search.
func NewApp(ctx context.Context, deps *Deps) (*App, error) {
	cfg := deps.Config
	log := deps.Logger

	db, err := database.Connect(ctx, database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	m := metrics.New()

	app := &App{
		Deps:        deps,
		DB:          db,
		Internships: database.NewInternshipRepository(db, log),
		Contacts:    database.NewContactRepository(db, log),
		Metrics:     m,
		Registry:    buildRegistry(deps, m),
	}

	if cfg.Redis.Address != "" {
		runs, redisErr := cache.NewStore(cache.Config{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if redisErr != nil {
			log.Warn("Redis unavailable, run tracking disabled", "error", redisErr)
		} else {
			app.Runs = runs
		}
	}

	if cfg.Elasticsearch.Enabled {
		idx, esErr := search.New(search.Config{
			Addresses: cfg.Elasticsearch.Addresses,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
			APIKey:    cfg.Elasticsearch.APIKey,
			IndexName: cfg.Elasticsearch.IndexName,
		}, log)
		if esErr != nil {
			log.Warn("Elasticsearch unavailable, search indexing disabled", "error", esErr)
		} else if ensureErr := idx.EnsureIndex(ctx); ensureErr != nil {
			log.Warn("Could not ensure search index, indexing disabled", "error", ensureErr)
		} else {
			app.Index = idx
		}
	}

	opts := pipeline.Options{
		Contacts:  app.Contacts,
		Harvester: harvester.New(log, m, cfg.Scraper.UserAgent),
		XLSX:      export.NewXLSXExporter(cfg.Pipeline.ExportDir, log),
	}
	if app.Index != nil {
		opts.Index = app.Index
	}
	if app.Runs != nil {
		opts.Runs = app.Runs
	}

	app.Pipeline = pipeline.New(
		app.Registry,
		app.Internships,
		export.NewCSVExporter(cfg.Pipeline.ExportDir, log),
		m,
		log,
		opts,
	)

	return app, nil
}

// Close releases the app's connections.
func (a *App) Close() {
	if a.Runs != nil {
		a.Runs.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// Query returns the default scrape query from configuration.
func (a *App) Query() scraper.Query {
	return scraper.Query{
		Query:      a.Config.Scraper.Query,
		Location:   a.Config.Scraper.Location,
		MaxResults: a.Config.Scraper.MaxResults,
	}
}

// buildRegistry registers every configured source.
func buildRegistry(deps *Deps, m *metrics.Metrics) *scraper.Registry {
	cfg := deps.Config.Scraper
	log := deps.Logger

	client := scraper.NewClient(cfg.UserAgent, cfg.RequestTimeout, cfg.RatePerSecond)
	registry := scraper.NewRegistry(log, m, cfg.SourceTimeout)

	disabled := make(map[string]bool, len(cfg.Disabled))
	for _, name := range cfg.Disabled {
		disabled[name] = true
	}
	register := func(s scraper.Scraper) {
		if !disabled[s.Name()] {
			registry.Register(s)
		}
	}

	register(scraper.NewGreenhouse(client, log, cfg.GreenhouseCompanies))
	register(scraper.NewLever(client, log, cfg.LeverCompanies))
	register(scraper.NewIndeed(client, log))
	register(scraper.NewJobBank(client, log))
	register(scraper.NewOPS(client, log))
	register(scraper.NewBCPS(client, log))
	register(scraper.NewTalent(client, log))
	register(scraper.NewRSS(log, cfg.UserAgent, cfg.RSSFeeds))

	registry.RegisterFlagged(
		scraper.NewPlaceholder("linkedin", "LinkedIn job search (not yet implemented)"),
		cfg.EnableLinkedIn,
	)
	registry.RegisterFlagged(
		scraper.NewPlaceholder("glassdoor", "Glassdoor job search (not yet implemented)"),
		cfg.EnableGlassdoor,
	)

	return registry
}

// WaitForInterrupt returns a context that is cancelled on SIGINT or SIGTERM.
func WaitForInterrupt(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sig:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sig)
	}()
	return ctx
}
