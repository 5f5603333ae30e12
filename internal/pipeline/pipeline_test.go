package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/export"
	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/jonesrussell/easyinterns/internal/metrics"
	"github.com/jonesrussell/easyinterns/internal/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	upserted  []domain.Internship
	upsertErr error
	retired   int64
}

func (f *fakeStore) UpsertBatch(_ context.Context, rows []domain.Internship) (int, error) {
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	f.upserted = append(f.upserted, rows...)
	return len(rows), nil
}

func (f *fakeStore) ListActive(context.Context, int) ([]domain.Internship, error) {
	return f.upserted, nil
}

func (f *fakeStore) MarkInactive(context.Context, time.Time) (int64, error) {
	return f.retired, nil
}

type fakeIndexer struct {
	indexed int
}

func (f *fakeIndexer) BulkIndex(_ context.Context, rows []domain.Internship) error {
	f.indexed += len(rows)
	return nil
}

type fixedScraper struct {
	name     string
	postings []domain.Posting
	err      error
}

func (s *fixedScraper) Name() string { return s.name }

func (s *fixedScraper) Scrape(context.Context, scraper.Query) ([]domain.Posting, error) {
	return s.postings, s.err
}

func newTestPipeline(t *testing.T, store *fakeStore, index Indexer, scrapers ...scraper.Scraper) *Pipeline {
	t.Helper()

	m := metrics.New()
	registry := scraper.NewRegistry(logger.NewNoOp(), m, 5*time.Second)
	for _, s := range scrapers {
		registry.Register(s)
	}
	csv := export.NewCSVExporter(t.TempDir(), logger.NewNoOp())
	return New(registry, store, csv, m, logger.NewNoOp(), Options{Index: index})
}

func TestPipelineRun(t *testing.T) {
	posted := time.Now().UTC().Add(-24 * time.Hour)
	store := &fakeStore{retired: 2}
	index := &fakeIndexer{}

	p := newTestPipeline(t, store, index,
		&fixedScraper{name: "alpha", postings: []domain.Posting{
			{Title: "Software Engineering Intern", Company: "Acme", ApplyURL: "https://example.com/1", Source: "alpha", PostedAt: &posted},
			{Title: "Software Engineering Intern", Company: "Acme", ApplyURL: "https://example.com/1", Source: "alpha", PostedAt: &posted},
		}},
		&fixedScraper{name: "beta", postings: []domain.Posting{
			{Title: "Data Science Intern", Company: "Globex", ApplyURL: "https://example.com/2", Source: "beta", PostedAt: &posted},
		}},
	)

	result, err := p.Run(context.Background(), scraper.Query{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Scraped)
	assert.Equal(t, 2, result.Unique)
	assert.Equal(t, 2, result.Written)
	assert.Equal(t, int64(2), result.Retired)
	assert.NotEmpty(t, result.RunID)
	assert.NotEmpty(t, result.CSVPath)
	assert.Len(t, result.Sources, 2)

	require.Len(t, store.upserted, 2)
	for _, row := range store.upserted {
		assert.Greater(t, row.RelevanceScore, 0.0)
		assert.NotEqual(t, domain.FieldOther, row.FieldTag)
	}
	assert.Equal(t, 2, index.indexed)
}

func TestPipelineRunPersistFailure(t *testing.T) {
	store := &fakeStore{upsertErr: errors.New("database down")}
	p := newTestPipeline(t, store, nil,
		&fixedScraper{name: "alpha", postings: []domain.Posting{
			{Title: "Intern", Company: "Acme", ApplyURL: "https://example.com/1", Source: "alpha"},
		}})

	_, err := p.Run(context.Background(), scraper.Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist")
}

func TestPipelineRunSourceFailureDoesNotAbort(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store, nil,
		&fixedScraper{name: "bad", err: errors.New("unreachable")},
		&fixedScraper{name: "good", postings: []domain.Posting{
			{Title: "Intern", Company: "Acme", ApplyURL: "https://example.com/1", Source: "good"},
		}})

	result, err := p.Run(context.Background(), scraper.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Written)
}

func TestRankStored(t *testing.T) {
	now := time.Now().UTC()
	store := &fakeStore{upserted: []domain.Internship{
		{Key: "a", Title: "Software Engineering Intern", PostedAt: &now},
		{Key: "b", Title: "Office Clerk"},
	}}
	p := newTestPipeline(t, store, nil)

	ranked, err := p.RankStored(context.Background(), domain.CandidateProfile{}, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].Internship.Key)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestImportCSV(t *testing.T) {
	dir := t.TempDir()
	posted := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	exported := []domain.Internship{
		{
			Key: "acme|software engineering intern|https://example.com/1",
			Title: "Software Engineering Intern", Company: "Acme",
			Location: "Toronto, ON", ApplyURL: "https://example.com/1",
			Source: "greenhouse", PostedAt: &posted,
		},
		{
			Key: "globex|marketing intern|https://example.com/2",
			Title: "Marketing Intern", Company: "Globex",
			ApplyURL: "https://example.com/2", Source: "lever",
		},
	}
	exporter := export.NewCSVExporter(dir, logger.NewNoOp())
	path, err := exporter.Export(exported, time.Now())
	require.NoError(t, err)

	store := &fakeStore{}
	p := newTestPipeline(t, store, nil)

	written, err := p.ImportCSV(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	require.Len(t, store.upserted, 2)

	// The import runs the classification and scoring stages, not just the
	// raw CSV columns.
	assert.Equal(t, domain.FieldSoftwareEngineering, store.upserted[0].FieldTag)
	assert.Greater(t, store.upserted[0].RelevanceScore, 0.0)
	assert.True(t, store.upserted[0].IsActive)
	assert.Equal(t, exported[0].Key, store.upserted[0].Key)
}

func TestImportCSVMissingFile(t *testing.T) {
	p := newTestPipeline(t, &fakeStore{}, nil)
	_, err := p.ImportCSV(context.Background(), "/nonexistent/file.csv")
	require.Error(t, err)
}

type fakeContacts struct {
	upserted []domain.ContactEmail
}

func (f *fakeContacts) UpsertBatch(_ context.Context, contacts []domain.ContactEmail) (int, error) {
	f.upserted = append(f.upserted, contacts...)
	return len(contacts), nil
}

type fakeHarvester struct {
	posting map[string][]domain.ContactEmail
	site    map[string][]domain.ContactEmail
	crawled []string
}

func (f *fakeHarvester) HarvestPosting(_ context.Context, row domain.Internship) []domain.ContactEmail {
	return f.posting[row.Key]
}

func (f *fakeHarvester) HarvestSite(_ context.Context, _, siteURL string) ([]domain.ContactEmail, error) {
	f.crawled = append(f.crawled, siteURL)
	return f.site[siteURL], nil
}

func TestHarvestTopCrawlsSiteWhenPostingYieldsNothing(t *testing.T) {
	store := &fakeStore{upserted: []domain.Internship{
		{Key: "a", Company: "Acme", ApplyURL: "https://acme.com/jobs/1"},
		{Key: "b", Company: "Globex", ApplyURL: "https://globex.com/jobs/2"},
		{Key: "c", Company: "Initech", ApplyURL: "https://boards.greenhouse.io/initech/3"},
	}}
	contacts := &fakeContacts{}
	h := &fakeHarvester{
		posting: map[string][]domain.ContactEmail{
			"a": {{InternshipKey: "a", Email: "hiring@acme.com", Source: domain.ContactFromPosting, Confidence: 0.8}},
			"b": {{InternshipKey: "b", Email: "careers@globex.com", Source: domain.ContactFromGenerated, Confidence: 0.25}},
		},
		site: map[string][]domain.ContactEmail{
			"https://globex.com/jobs/2": {{InternshipKey: "b", Email: "jobs@globex.com", Source: domain.ContactFromWebsite, Confidence: 0.6}},
		},
	}

	m := metrics.New()
	registry := scraper.NewRegistry(logger.NewNoOp(), m, 5*time.Second)
	csv := export.NewCSVExporter(t.TempDir(), logger.NewNoOp())
	p := New(registry, store, csv, m, logger.NewNoOp(), Options{Contacts: contacts, Harvester: h})

	harvested, err := p.HarvestTop(context.Background(), 3)
	require.NoError(t, err)

	// a found an address in the posting text, c points at a job board;
	// only b's company site gets crawled.
	assert.Equal(t, []string{"https://globex.com/jobs/2"}, h.crawled)

	require.Len(t, harvested, 3)
	emails := make([]string, len(harvested))
	for i, c := range harvested {
		emails[i] = c.Email
	}
	assert.Contains(t, emails, "hiring@acme.com")
	assert.Contains(t, emails, "careers@globex.com")
	assert.Contains(t, emails, "jobs@globex.com")
	assert.Len(t, contacts.upserted, 3)
}
