package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
)

const talentBaseURL = "https://ca.talent.com"

// Talent scrapes Talent.com search pages. Talent embeds schema.org
// JobPosting JSON-LD blocks, so structured data is preferred over card
// scraping when present.
type Talent struct {
	client  *Client
	log     logger.Interface
	baseURL string
}

// NewTalent creates a Talent.com scraper.
func NewTalent(client *Client, log logger.Interface) *Talent {
	return &Talent{
		client:  client,
		log:     log.WithComponent("talent"),
		baseURL: talentBaseURL,
	}
}

// Name returns the source name.
func (t *Talent) Name() string { return "talent" }

// Description returns a human-readable source description.
func (t *Talent) Description() string { return "Talent.com JSON-LD job scraper" }

// BaseURL returns the upstream base URL.
func (t *Talent) BaseURL() string { return t.baseURL }

// jsonLDJobPosting mirrors the schema.org JobPosting fields we read.
type jsonLDJobPosting struct {
	Type               string `json:"@type"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	DatePosted         string `json:"datePosted"`
	ValidThrough       string `json:"validThrough"`
	URL                string `json:"url"`
	HiringOrganization struct {
		Name string `json:"name"`
	} `json:"hiringOrganization"`
	JobLocation struct {
		Address struct {
			AddressLocality string `json:"addressLocality"`
			AddressRegion   string `json:"addressRegion"`
		} `json:"address"`
	} `json:"jobLocation"`
	BaseSalary struct {
		Value struct {
			MinValue float64 `json:"minValue"`
			MaxValue float64 `json:"maxValue"`
			UnitText string  `json:"unitText"`
		} `json:"value"`
	} `json:"baseSalary"`
}

// Scrape fetches one search page and extracts JobPosting JSON-LD blocks.
func (t *Talent) Scrape(ctx context.Context, query Query) ([]domain.Posting, error) {
	q := query.Query
	if q == "" {
		q = "internship"
	}

	searchURL := fmt.Sprintf("%s/jobs?k=%s&l=%s",
		t.baseURL, url.QueryEscape(q), url.QueryEscape(query.Location))

	body, err := t.client.Get(ctx, searchURL, nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse talent page: %w", err)
	}

	var postings []domain.Posting
	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		if query.MaxResults > 0 && len(postings) >= query.MaxResults {
			return
		}
		for _, job := range decodeJobPostings(s.Text()) {
			if !looksLikeInternship(job.Title) {
				continue
			}
			postings = append(postings, t.toPosting(job))
			if query.MaxResults > 0 && len(postings) >= query.MaxResults {
				return
			}
		}
	})

	t.log.Debug("Talent page parsed", "postings", len(postings))
	return postings, nil
}

// decodeJobPostings handles both a single JobPosting object and an array of
// structured data objects in one script block.
func decodeJobPostings(raw string) []jsonLDJobPosting {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var single jsonLDJobPosting
	if err := json.Unmarshal([]byte(raw), &single); err == nil && single.Type == "JobPosting" {
		return []jsonLDJobPosting{single}
	}

	var list []jsonLDJobPosting
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		jobs := make([]jsonLDJobPosting, 0, len(list))
		for _, item := range list {
			if item.Type == "JobPosting" {
				jobs = append(jobs, item)
			}
		}
		return jobs
	}
	return nil
}

func (t *Talent) toPosting(job jsonLDJobPosting) domain.Posting {
	location := job.JobLocation.Address.AddressLocality
	if region := job.JobLocation.Address.AddressRegion; region != "" {
		if location != "" {
			location += ", "
		}
		location += region
	}

	var postedAt, deadline *time.Time
	if ts, err := time.Parse("2006-01-02", job.DatePosted); err == nil {
		utc := ts.UTC()
		postedAt = &utc
	}
	if ts, err := time.Parse("2006-01-02", job.ValidThrough); err == nil {
		utc := ts.UTC()
		deadline = &utc
	}

	var salaryMin, salaryMax *float64
	if v := job.BaseSalary.Value; v.MinValue > 0 {
		minVal, maxVal := v.MinValue, v.MaxValue
		if strings.EqualFold(v.UnitText, "hour") {
			minVal *= annualWorkHours
			maxVal *= annualWorkHours
		}
		if maxVal < minVal {
			maxVal = minVal
		}
		salaryMin, salaryMax = &minVal, &maxVal
	}

	return domain.Posting{
		Title:       job.Title,
		Company:     job.HiringOrganization.Name,
		Location:    location,
		Description: snippet(stripHTMLTags(job.Description), descriptionSnippetLen),
		ApplyURL:    job.URL,
		Source:      "talent",
		ExternalID:  job.URL,
		PostedAt:    postedAt,
		Deadline:    deadline,
		SalaryMin:   salaryMin,
		SalaryMax:   salaryMax,
		Remote:      containsAny(job.Title, "remote") || containsAny(location, "remote"),
	}
}

// stripHTMLTags removes markup from JSON-LD descriptions, which are often
// HTML fragments.
func stripHTMLTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
