package scraper

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/jonesrussell/easyinterns/internal/metrics"
)

// Registry holds the name to scraper mapping and runs fan-out passes.
type Registry struct {
	scrapers      map[string]Scraper
	flagged       map[string]bool // sources present but gated behind a disabled feature flag
	log           logger.Interface
	metrics       *metrics.Metrics
	sourceTimeout time.Duration
}

// NewRegistry creates an empty registry.
func NewRegistry(log logger.Interface, m *metrics.Metrics, sourceTimeout time.Duration) *Registry {
	return &Registry{
		scrapers:      make(map[string]Scraper),
		flagged:       make(map[string]bool),
		log:           log,
		metrics:       m,
		sourceTimeout: sourceTimeout,
	}
}

// Register adds a scraper to the registry. Later registrations with the same
// name replace earlier ones.
func (r *Registry) Register(s Scraper) {
	r.scrapers[s.Name()] = s
}

// RegisterFlagged records a feature-flagged source. When enabled is false the
// source shows up in listings as disabled and is skipped by ScrapeAll.
func (r *Registry) RegisterFlagged(s Scraper, enabled bool) {
	r.scrapers[s.Name()] = s
	r.flagged[s.Name()] = enabled
}

// Get returns the scraper for name, or nil when not registered.
func (r *Registry) Get(name string) Scraper {
	return r.scrapers[name]
}

// List returns descriptions of all registered sources sorted by name.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.scrapers))
	for name, s := range r.scrapers {
		enabled, gated := r.flagged[name]
		info := Info{Name: name, Enabled: !gated || enabled, FeatureFlag: gated}
		if d, ok := s.(interface{ Description() string }); ok {
			info.Description = d.Description()
		}
		if b, ok := s.(interface{ BaseURL() string }); ok {
			info.BaseURL = b.BaseURL()
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// enabledNames returns the names of sources ScrapeAll will run.
func (r *Registry) enabledNames() []string {
	names := make([]string, 0, len(r.scrapers))
	for name := range r.scrapers {
		if gatedEnabled, gated := r.flagged[name]; gated && !gatedEnabled {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SourceResult is the outcome of one source in a fan-out pass.
type SourceResult struct {
	Source   string
	Count    int
	Err      error
	Duration time.Duration
}

// ScrapeAll fans out one goroutine per enabled scraper and collects the
// combined postings. A failing source contributes zero postings; its error is
// logged and counted but never fails the pass. Each source runs under its own
// timeout so one hung site cannot stall the batch.
func (r *Registry) ScrapeAll(ctx context.Context, query Query) ([]domain.Posting, []SourceResult) {
	names := r.enabledNames()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		postings []domain.Posting
		results  = make([]SourceResult, 0, len(names))
	)

	for _, name := range names {
		s := r.scrapers[name]
		wg.Add(1)
		go func() {
			defer wg.Done()

			srcCtx, cancel := context.WithTimeout(ctx, r.sourceTimeout)
			defer cancel()

			start := time.Now()
			part, err := s.Scrape(srcCtx, query)
			elapsed := time.Since(start)
			r.metrics.ScrapeDuration(s.Name(), elapsed)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.log.Error("Source scrape failed",
					"source", s.Name(), "error", err, "duration", elapsed)
				r.metrics.SourceError(s.Name())
				results = append(results, SourceResult{Source: s.Name(), Err: err, Duration: elapsed})
				return
			}
			r.log.Info("Source scrape complete",
				"source", s.Name(), "postings", len(part), "duration", elapsed)
			r.metrics.PostingsScraped(s.Name(), len(part))
			postings = append(postings, part...)
			results = append(results, SourceResult{Source: s.Name(), Count: len(part), Duration: elapsed})
		}()
	}

	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Source < results[j].Source })
	return postings, results
}
