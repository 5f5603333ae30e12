package harvester

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/jonesrussell/easyinterns/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHarvester(t *testing.T, mxVerified bool) *Harvester {
	t.Helper()
	h := New(logger.NewNoOp(), metrics.New(), "easyinterns-test/1.0")
	h.lookupMX = func(context.Context, string) bool { return mxVerified }
	return h
}

func TestHarvestPostingExtractsFromDescription(t *testing.T) {
	h := newTestHarvester(t, true)

	row := domain.Internship{
		Key:         "acme|intern|https://acme.com/jobs/1",
		ApplyURL:    "https://www.acme.com/jobs/1",
		Description: "Questions? Email careers@acme.com before applying.",
	}

	contacts := h.HarvestPosting(context.Background(), row)
	require.Len(t, contacts, 1)
	assert.Equal(t, "careers@acme.com", contacts[0].Email)
	assert.Equal(t, domain.ContactFromPosting, contacts[0].Source)
	assert.True(t, contacts[0].VerifiedMX)
	assert.Equal(t, row.Key, contacts[0].InternshipKey)
}

func TestHarvestPostingGeneratesFallback(t *testing.T) {
	h := newTestHarvester(t, false)

	row := domain.Internship{
		Key:         "acme|intern|https://acme.com/jobs/1",
		ApplyURL:    "https://acme.com/jobs/1",
		Description: "No contact information provided.",
	}

	contacts := h.HarvestPosting(context.Background(), row)
	require.Len(t, contacts, 1)
	assert.Equal(t, "careers@acme.com", contacts[0].Email)
	assert.Equal(t, domain.ContactFromGenerated, contacts[0].Source)
	assert.False(t, contacts[0].VerifiedMX)
}

func TestHarvestPostingSkipsFallbackForJobBoards(t *testing.T) {
	h := newTestHarvester(t, false)

	row := domain.Internship{
		Key:      "acme|intern|https://boards.greenhouse.io/acme/1",
		ApplyURL: "https://boards.greenhouse.io/acme/jobs/1",
	}

	contacts := h.HarvestPosting(context.Background(), row)
	assert.Empty(t, contacts)
}

func TestHarvestSite(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<a href="/careers">Careers</a>
		</body></html>`))
	})
	mux.HandleFunc("/careers", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<p>Apply via recruiting [at] example [dot] com</p>
			<a href="mailto:talent@example.com?subject=hi">Email us</a>
		</body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	h := newTestHarvester(t, true)
	contacts, err := h.HarvestSite(context.Background(), "key-1", server.URL)
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	emails := []string{contacts[0].Email, contacts[1].Email}
	assert.Contains(t, emails, "recruiting@example.com")
	assert.Contains(t, emails, "talent@example.com")
	for _, c := range contacts {
		assert.Equal(t, domain.ContactFromWebsite, c.Source)
		assert.True(t, c.VerifiedMX)
		assert.Greater(t, c.Confidence, 0.5)
	}
}

func TestCrawlable(t *testing.T) {
	assert.True(t, Crawlable("https://www.acme.com/jobs/1"))
	assert.False(t, Crawlable("https://boards.greenhouse.io/acme/1"))
	assert.False(t, Crawlable("https://jobs.lever.co/acme/1"))
	assert.False(t, Crawlable("not a url"))
	assert.False(t, Crawlable(""))
}
