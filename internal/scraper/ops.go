package scraper

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
)

const opsBaseURL = "https://www.gojobs.gov.on.ca"

// OPS scrapes the Ontario Public Service internship listings. The ministry
// is recorded as the company since OPS postings carry no employer field.
type OPS struct {
	client  *Client
	log     logger.Interface
	baseURL string
}

// NewOPS creates an Ontario Public Service scraper.
func NewOPS(client *Client, log logger.Interface) *OPS {
	return &OPS{
		client:  client,
		log:     log.WithComponent("ops"),
		baseURL: opsBaseURL,
	}
}

// Name returns the source name.
func (o *OPS) Name() string { return "ops" }

// Description returns a human-readable source description.
func (o *OPS) Description() string { return "Ontario Public Service internship scraper" }

// BaseURL returns the upstream base URL.
func (o *OPS) BaseURL() string { return o.baseURL }

// Scrape fetches the internship search page and extracts listings.
func (o *OPS) Scrape(ctx context.Context, query Query) ([]domain.Posting, error) {
	searchURL := fmt.Sprintf("%s/Search.aspx?Keyword=internship", o.baseURL)

	body, err := o.client.Get(ctx, searchURL, nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse ops page: %w", err)
	}

	var postings []domain.Posting
	doc.Find(".job-listing, .job-item").Each(func(_ int, card *goquery.Selection) {
		if query.MaxResults > 0 && len(postings) >= query.MaxResults {
			return
		}

		title := strings.TrimSpace(card.Find(".job-title, h3").First().Text())
		if title == "" || !looksLikeInternship(title) {
			return
		}

		department := strings.TrimSpace(card.Find(".ministry, .department").First().Text())
		if department == "" {
			department = "Ontario Public Service"
		}
		location := strings.TrimSpace(card.Find(".location, .city").First().Text())

		href, _ := card.Find("a").First().Attr("href")
		applyURL := resolveURL(o.baseURL, href)

		deadline := ParseDeadline(card.Find(".closing-date, .deadline").Text())
		salaryMin, salaryMax := ParseSalary(card.Find(".salary").Text())

		postings = append(postings, domain.Posting{
			Title:      title,
			Company:    department,
			Location:   location,
			ApplyURL:   applyURL,
			Source:     "ops",
			ExternalID: applyURL,
			Deadline:   deadline,
			SalaryMin:  salaryMin,
			SalaryMax:  salaryMax,
			Government: true,
		})
	})

	o.log.Debug("OPS page parsed", "postings", len(postings))
	return postings, nil
}
