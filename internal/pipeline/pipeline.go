// Package pipeline orchestrates a full aggregation run: scrape, normalize,
// dedupe, score, persist, index, and export.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonesrussell/easyinterns/internal/cache"
	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/export"
	"github.com/jonesrussell/easyinterns/internal/harvester"
	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/jonesrussell/easyinterns/internal/metrics"
	"github.com/jonesrussell/easyinterns/internal/normalize"
	"github.com/jonesrussell/easyinterns/internal/ranking"
	"github.com/jonesrussell/easyinterns/internal/scraper"
)

// inactiveAfter retires rows unseen for this long.
const inactiveAfter = 14 * 24 * time.Hour

// InternshipStore is the persistence surface the pipeline needs.
type InternshipStore interface {
	UpsertBatch(ctx context.Context, rows []domain.Internship) (int, error)
	ListActive(ctx context.Context, limit int) ([]domain.Internship, error)
	MarkInactive(ctx context.Context, cutoff time.Time) (int64, error)
}

// ContactStore persists harvested emails.
type ContactStore interface {
	UpsertBatch(ctx context.Context, contacts []domain.ContactEmail) (int, error)
}

// ContactHarvester finds recruiting emails for a posting, either from its
// text or by crawling the company site.
type ContactHarvester interface {
	HarvestPosting(ctx context.Context, row domain.Internship) []domain.ContactEmail
	HarvestSite(ctx context.Context, internshipKey, siteURL string) ([]domain.ContactEmail, error)
}

// Indexer mirrors rows into a search index. Nil when search is disabled.
type Indexer interface {
	BulkIndex(ctx context.Context, rows []domain.Internship) error
}

// Result summarizes one run.
type Result struct {
	RunID    string
	Scraped  int
	Unique   int
	Written  int
	Retired  int64
	CSVPath  string
	Sources  []scraper.SourceResult
	Duration time.Duration
}

// Pipeline wires the stages together.
type Pipeline struct {
	registry   *scraper.Registry
	normalizer *normalize.Normalizer
	quality    *ranking.QualityScorer
	store      InternshipStore
	contacts   ContactStore
	harvester  ContactHarvester
	csv        *export.CSVExporter
	xlsx       *export.XLSXExporter
	index      Indexer
	runs       *cache.Store
	metrics    *metrics.Metrics
	log        logger.Interface
}

// Options carries the optional collaborators.
type Options struct {
	Contacts  ContactStore
	Harvester ContactHarvester
	XLSX      *export.XLSXExporter
	Index     Indexer
	Runs      *cache.Store
}

// New creates a Pipeline. registry, store, csv, metrics, and log are
// required; everything in opts may be nil.
func New(
	registry *scraper.Registry,
	store InternshipStore,
	csv *export.CSVExporter,
	m *metrics.Metrics,
	log logger.Interface,
	opts Options,
) *Pipeline {
	return &Pipeline{
		registry:   registry,
		normalizer: normalize.New(),
		quality:    ranking.NewQualityScorer(),
		store:      store,
		contacts:   opts.Contacts,
		harvester:  opts.Harvester,
		csv:        csv,
		xlsx:       opts.XLSX,
		index:      opts.Index,
		runs:       opts.Runs,
		metrics:    m,
		log:        log.WithComponent("pipeline"),
	}
}

// Run executes a full aggregation pass. Source failures and export
// failures degrade the run but do not abort it; only a total persistence
// failure returns an error.
func (p *Pipeline) Run(ctx context.Context, query scraper.Query) (*Result, error) {
	return p.run(ctx, uuid.NewString(), query)
}

// StartRun launches a run in the background and returns its ID immediately.
// Progress is tracked through the run store; callers poll GetRun for status.
func (p *Pipeline) StartRun(query scraper.Query, timeout time.Duration) string {
	runID := uuid.NewString()
	go func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if _, err := p.run(ctx, runID, query); err != nil {
			p.log.Error("Background run failed", "run_id", runID, "error", err)
		}
	}()
	return runID
}

func (p *Pipeline) run(ctx context.Context, runID string, query scraper.Query) (*Result, error) {
	start := time.Now()
	p.recordRunStart(ctx, runID, start)

	postings, sourceResults := p.registry.ScrapeAll(ctx, query)
	p.log.Info("Scrape pass complete", "run_id", runID, "postings", len(postings))

	now := time.Now().UTC()
	rows := p.normalizer.NormalizeAll(postings, now)
	rows = normalize.Dedupe(rows)
	for i := range rows {
		rows[i].RelevanceScore = p.quality.Score(rows[i], now)
	}

	written := 0
	if len(rows) > 0 {
		var err error
		written, err = p.store.UpsertBatch(ctx, rows)
		if err != nil {
			p.finishRun(ctx, runID, start, sourceResults, written, err)
			p.metrics.RunCompleted("failed", time.Since(start))
			return nil, fmt.Errorf("failed to persist internships: %w", err)
		}
		p.metrics.RowsUpserted(written)
	}

	retired, err := p.store.MarkInactive(ctx, now.Add(-inactiveAfter))
	if err != nil {
		p.log.Warn("Failed to retire stale rows", "run_id", runID, "error", err)
	} else {
		p.metrics.RowsRetired(int(retired))
	}

	csvPath := p.exportAll(ctx, runID, now)
	p.indexRows(ctx, runID)

	result := &Result{
		RunID:    runID,
		Scraped:  len(postings),
		Unique:   len(rows),
		Written:  written,
		Retired:  retired,
		CSVPath:  csvPath,
		Sources:  sourceResults,
		Duration: time.Since(start),
	}

	p.finishRun(ctx, runID, start, sourceResults, written, nil)
	p.metrics.RunCompleted("completed", result.Duration)
	p.log.Info("Run complete",
		"run_id", runID, "scraped", result.Scraped, "unique", result.Unique,
		"written", result.Written, "retired", result.Retired, "duration", result.Duration)
	return result, nil
}

// exportAll writes the CSV and, when configured, the XLSX snapshot from
// the freshly persisted state.
func (p *Pipeline) exportAll(ctx context.Context, runID string, now time.Time) string {
	active, err := p.store.ListActive(ctx, 0)
	if err != nil {
		p.log.Warn("Skipping export, listing failed", "run_id", runID, "error", err)
		return ""
	}

	csvPath, err := p.csv.Export(active, now)
	if err != nil {
		p.log.Error("CSV export failed", "run_id", runID, "error", err)
	}
	if p.xlsx != nil {
		if _, xlsxErr := p.xlsx.Export(active); xlsxErr != nil {
			p.log.Error("XLSX export failed", "run_id", runID, "error", xlsxErr)
		}
	}
	return csvPath
}

func (p *Pipeline) indexRows(ctx context.Context, runID string) {
	if p.index == nil {
		return
	}
	active, err := p.store.ListActive(ctx, 0)
	if err != nil {
		p.log.Warn("Skipping index, listing failed", "run_id", runID, "error", err)
		return
	}
	if err := p.index.BulkIndex(ctx, active); err != nil {
		p.log.Error("Search indexing failed", "run_id", runID, "error", err)
	}
}

// RankStored loads active rows and ranks them against a profile.
func (p *Pipeline) RankStored(ctx context.Context, profile domain.CandidateProfile, limit int) ([]ranking.ScoredInternship, error) {
	rows, err := p.store.ListActive(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load internships: %w", err)
	}

	ranked := ranking.NewProfileScorer(profile).Rank(rows, time.Now().UTC())
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// HarvestTop harvests contact emails for the top n active rows, persists
// them, and returns the harvested contacts. When the posting text yields no
// address and the apply URL points at a company site rather than a job
// board, the site itself is crawled.
func (p *Pipeline) HarvestTop(ctx context.Context, n int) ([]domain.ContactEmail, error) {
	if p.harvester == nil || p.contacts == nil {
		return nil, fmt.Errorf("harvesting is not configured")
	}

	rows, err := p.store.ListActive(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to load internships: %w", err)
	}

	var all []domain.ContactEmail
	for _, row := range rows {
		found := p.harvester.HarvestPosting(ctx, row)
		if !hasPostingContact(found) && harvester.Crawlable(row.ApplyURL) {
			site, siteErr := p.harvester.HarvestSite(ctx, row.Key, row.ApplyURL)
			if siteErr != nil {
				p.log.Debug("Site crawl skipped", "key", row.Key, "error", siteErr)
			} else if len(site) > 0 {
				found = harvester.Dedupe(append(found, site...))
			}
		}
		all = append(all, found...)
	}
	if len(all) == 0 {
		return nil, nil
	}

	written, err := p.contacts.UpsertBatch(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to persist contacts: %w", err)
	}
	p.log.Info("Harvest complete", "internships", len(rows), "contacts", written)
	return all, nil
}

// hasPostingContact reports whether any address was found in the posting
// text itself, as opposed to generated fallbacks.
func hasPostingContact(contacts []domain.ContactEmail) bool {
	for _, c := range contacts {
		if c.Source == domain.ContactFromPosting {
			return true
		}
	}
	return false
}

// ImportCSV re-ingests a previously exported CSV through the normal
// normalize-score-upsert path, refreshing last_seen_at and is_active on
// rows that already exist.
func (p *Pipeline) ImportCSV(ctx context.Context, path string) (int, error) {
	loaded, err := export.Load(path)
	if err != nil {
		return 0, err
	}

	postings := make([]domain.Posting, 0, len(loaded))
	for _, row := range loaded {
		postings = append(postings, domain.Posting{
			Title:       row.Title,
			Company:     row.Company,
			Location:    row.Location,
			Description: row.Description,
			ApplyURL:    row.ApplyURL,
			Source:      row.Source,
			ExternalID:  row.ExternalID,
			PostedAt:    row.PostedAt,
			Deadline:    row.Deadline,
			SalaryMin:   row.SalaryMin,
			SalaryMax:   row.SalaryMax,
		})
	}

	now := time.Now().UTC()
	rows := p.normalizer.NormalizeAll(postings, now)
	rows = normalize.Dedupe(rows)
	for i := range rows {
		rows[i].RelevanceScore = p.quality.Score(rows[i], now)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	written, err := p.store.UpsertBatch(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to persist imported rows: %w", err)
	}
	p.log.Info("CSV import complete", "path", path, "rows", written)
	return written, nil
}

func (p *Pipeline) recordRunStart(ctx context.Context, runID string, start time.Time) {
	if p.runs == nil {
		return
	}
	run := &cache.Run{ID: runID, Status: cache.RunRunning, StartedAt: start.UTC()}
	if err := p.runs.SaveRun(ctx, run); err != nil {
		p.log.Warn("Failed to record run start", "run_id", runID, "error", err)
	}
}

func (p *Pipeline) finishRun(ctx context.Context, runID string, start time.Time, sources []scraper.SourceResult, written int, runErr error) {
	if p.runs == nil {
		return
	}

	finished := time.Now().UTC()
	run := &cache.Run{
		ID:          runID,
		Status:      cache.RunCompleted,
		StartedAt:   start.UTC(),
		FinishedAt:  &finished,
		RowsWritten: written,
	}
	if runErr != nil {
		run.Status = cache.RunFailed
		run.Error = runErr.Error()
	}
	for _, s := range sources {
		summary := cache.SourceSummary{
			Source:   s.Source,
			Count:    s.Count,
			Duration: s.Duration.String(),
		}
		if s.Err != nil {
			summary.Error = s.Err.Error()
		}
		run.Sources = append(run.Sources, summary)
	}

	if err := p.runs.SaveRun(ctx, run); err != nil {
		p.log.Warn("Failed to record run result", "run_id", runID, "error", err)
	}
}
