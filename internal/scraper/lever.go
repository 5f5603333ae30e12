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

const leverBaseURL = "https://api.lever.co/v0/postings"

// Lever scrapes the public Lever.co postings API for a configured list of
// companies.
type Lever struct {
	client    *Client
	log       logger.Interface
	companies []string
	baseURL   string
}

// NewLever creates a Lever scraper.
func NewLever(client *Client, log logger.Interface, companies []string) *Lever {
	return &Lever{
		client:    client,
		log:       log.WithComponent("lever"),
		companies: companies,
		baseURL:   leverBaseURL,
	}
}

// Name returns the source name.
func (l *Lever) Name() string { return "lever" }

// Description returns a human-readable source description.
func (l *Lever) Description() string { return "Lever.co job board scraper" }

// BaseURL returns the upstream API base.
func (l *Lever) BaseURL() string { return l.baseURL }

// leverPosting mirrors the fields we read from the postings API.
// CreatedAt is milliseconds since epoch.
type leverPosting struct {
	ID               string `json:"id"`
	Text             string `json:"text"`
	HostedURL        string `json:"hostedUrl"`
	DescriptionPlain string `json:"descriptionPlain"`
	CreatedAt        int64  `json:"createdAt"`
	Categories       struct {
		Location string `json:"location"`
		Team     string `json:"team"`
	} `json:"categories"`
	Tags []string `json:"tags"`
}

// Scrape fetches postings for every configured company.
func (l *Lever) Scrape(ctx context.Context, query Query) ([]domain.Posting, error) {
	if len(l.companies) == 0 {
		return nil, nil
	}

	var postings []domain.Posting
	for _, company := range l.companies {
		part, err := l.fetchCompany(ctx, strings.ToLower(strings.TrimSpace(company)))
		if err != nil {
			l.log.Warn("Company postings fetch failed", "company", company, "error", err)
			continue
		}
		postings = append(postings, part...)
		if query.MaxResults > 0 && len(postings) >= query.MaxResults {
			return postings[:query.MaxResults], nil
		}
	}
	return postings, nil
}

func (l *Lever) fetchCompany(ctx context.Context, company string) ([]domain.Posting, error) {
	url := fmt.Sprintf("%s/%s?mode=json", l.baseURL, company)

	body, err := l.client.Get(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	var jobs []leverPosting
	if err := json.Unmarshal(body, &jobs); err != nil {
		return nil, fmt.Errorf("decode lever response: %w", err)
	}

	postings := make([]domain.Posting, 0, len(jobs))
	for _, job := range jobs {
		if !looksLikeInternship(job.Text) {
			continue
		}

		posted := time.Now().UTC()
		if job.CreatedAt > 0 {
			posted = time.UnixMilli(job.CreatedAt).UTC()
		}

		remote := containsAny(job.Text, "remote") ||
			containsAny(job.Categories.Location, "remote") ||
			leverTagRemote(job.Tags)

		postings = append(postings, domain.Posting{
			Title:       job.Text,
			Company:     titleCase(company),
			Location:    job.Categories.Location,
			Description: snippet(job.DescriptionPlain, descriptionSnippetLen),
			ApplyURL:    job.HostedURL,
			Source:      "lever",
			ExternalID:  job.ID,
			PostedAt:    &posted,
			Remote:      remote,
			Tags:        job.Tags,
			SourceMeta: map[string]any{
				"company_id": company,
				"team":       job.Categories.Team,
			},
		})
	}
	return postings, nil
}

func leverTagRemote(tags []string) bool {
	for _, t := range tags {
		if containsAny(t, "remote") {
			return true
		}
	}
	return false
}
