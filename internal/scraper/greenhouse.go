package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io"

// descriptionSnippetLen caps stored description text.
const descriptionSnippetLen = 1000

// Greenhouse scrapes the public Greenhouse.io board API for a configured
// list of companies.
type Greenhouse struct {
	client    *Client
	log       logger.Interface
	companies []string
	baseURL   string
}

// NewGreenhouse creates a Greenhouse scraper.
func NewGreenhouse(client *Client, log logger.Interface, companies []string) *Greenhouse {
	return &Greenhouse{
		client:    client,
		log:       log.WithComponent("greenhouse"),
		companies: companies,
		baseURL:   greenhouseBaseURL,
	}
}

// Name returns the source name.
func (g *Greenhouse) Name() string { return "greenhouse" }

// Description returns a human-readable source description.
func (g *Greenhouse) Description() string { return "Greenhouse.io job board scraper" }

// BaseURL returns the upstream API base.
func (g *Greenhouse) BaseURL() string { return g.baseURL }

// greenhouseJob mirrors the fields we read from the board API.
type greenhouseJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	Metadata []struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
	} `json:"metadata"`
}

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// Scrape fetches postings for every configured company. A company whose
// board fails is skipped; the pass continues.
func (g *Greenhouse) Scrape(ctx context.Context, query Query) ([]domain.Posting, error) {
	if len(g.companies) == 0 {
		return nil, nil
	}

	var postings []domain.Posting
	for _, company := range g.companies {
		part, err := g.fetchCompany(ctx, strings.ToLower(strings.TrimSpace(company)))
		if err != nil {
			g.log.Warn("Company board fetch failed", "company", company, "error", err)
			continue
		}
		postings = append(postings, part...)
		if query.MaxResults > 0 && len(postings) >= query.MaxResults {
			return postings[:query.MaxResults], nil
		}
	}
	return postings, nil
}

func (g *Greenhouse) fetchCompany(ctx context.Context, company string) ([]domain.Posting, error) {
	url := fmt.Sprintf("%s/v1/boards/%s/jobs?content=true", g.baseURL, company)

	body, err := g.client.Get(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	var resp greenhouseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode greenhouse response: %w", err)
	}

	postings := make([]domain.Posting, 0, len(resp.Jobs))
	for _, job := range resp.Jobs {
		if !looksLikeInternship(job.Title) {
			continue
		}

		posted := parseGreenhouseTime(job.UpdatedAt)
		remote := containsAny(job.Title, "remote") ||
			containsAny(job.Location.Name, "remote") ||
			greenhouseMetaRemote(job)

		postings = append(postings, domain.Posting{
			Title:       job.Title,
			Company:     titleCase(company),
			Location:    job.Location.Name,
			Description: snippet(job.Content, descriptionSnippetLen),
			ApplyURL:    job.AbsoluteURL,
			Source:      "greenhouse",
			ExternalID:  fmt.Sprintf("%d", job.ID),
			PostedAt:    &posted,
			Remote:      remote,
			SourceMeta: map[string]any{
				"company_id": company,
				"department": greenhouseDepartment(job),
			},
		})
	}
	return postings, nil
}

func greenhouseMetaRemote(job greenhouseJob) bool {
	for _, m := range job.Metadata {
		if s, ok := m.Value.(string); ok && strings.EqualFold(s, "remote") {
			return true
		}
	}
	return false
}

func greenhouseDepartment(job greenhouseJob) string {
	for _, m := range job.Metadata {
		if m.Name == "Department" {
			if s, ok := m.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

// parseGreenhouseTime handles the API's RFC3339-ish timestamps, falling back
// to now when the format is unexpected.
func parseGreenhouseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	return time.Now().UTC()
}

// snippet truncates text to at most n bytes on a rune boundary.
func snippet(text string, n int) string {
	if len(text) <= n {
		return text
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// titleCase uppercases the first letter of each hyphen- or space-separated
// word in a board slug.
func titleCase(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == ' ' || r == '-' || r == '_' })
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
