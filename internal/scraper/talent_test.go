package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const talentFixture = `<html><head>
<script type="application/ld+json">
{
  "@type": "JobPosting",
  "title": "Finance Intern",
  "description": "<p>Support the FP&amp;A team.</p>",
  "datePosted": "2026-08-25",
  "validThrough": "2026-09-30",
  "url": "https://ca.talent.com/view?id=99",
  "hiringOrganization": {"name": "Initech"},
  "jobLocation": {"address": {"addressLocality": "Ottawa", "addressRegion": "ON"}},
  "baseSalary": {"value": {"minValue": 22, "maxValue": 26, "unitText": "HOUR"}}
}
</script>
</head><body></body></html>`

func TestTalentScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs", r.URL.Path)
		_, _ = w.Write([]byte(talentFixture))
	}))
	defer server.Close()

	s := NewTalent(newTestClient(t), logger.NewNoOp())
	s.baseURL = server.URL

	postings, err := s.Scrape(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, postings, 1)

	p := postings[0]
	assert.Equal(t, "Finance Intern", p.Title)
	assert.Equal(t, "Initech", p.Company)
	assert.Equal(t, "Ottawa, ON", p.Location)
	assert.Equal(t, "Support the FP&A team.", p.Description)
	require.NotNil(t, p.PostedAt)
	assert.Equal(t, 25, p.PostedAt.Day())
	require.NotNil(t, p.Deadline)
	assert.Equal(t, 30, p.Deadline.Day())
	require.NotNil(t, p.SalaryMin)
	assert.InDelta(t, 22*2080, *p.SalaryMin, 0.01)
	require.NotNil(t, p.SalaryMax)
	assert.InDelta(t, 26*2080, *p.SalaryMax, 0.01)
}
