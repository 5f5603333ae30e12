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

const bcpsBaseURL = "https://bcpublicservice.hua.hrsmart.com"

// BCPS scrapes the BC Public Service job search for co-op and internship
// postings.
type BCPS struct {
	client  *Client
	log     logger.Interface
	baseURL string
}

// NewBCPS creates a BC Public Service scraper.
func NewBCPS(client *Client, log logger.Interface) *BCPS {
	return &BCPS{
		client:  client,
		log:     log.WithComponent("bcps"),
		baseURL: bcpsBaseURL,
	}
}

// Name returns the source name.
func (b *BCPS) Name() string { return "bcps" }

// Description returns a human-readable source description.
func (b *BCPS) Description() string { return "BC Public Service co-op and internship scraper" }

// BaseURL returns the upstream base URL.
func (b *BCPS) BaseURL() string { return b.baseURL }

// Scrape fetches the search listing and extracts rows.
func (b *BCPS) Scrape(ctx context.Context, query Query) ([]domain.Posting, error) {
	searchURL := fmt.Sprintf("%s/hr/ats/JobSearch/viewAll", b.baseURL)

	body, err := b.client.Get(ctx, searchURL, nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse bcps page: %w", err)
	}

	var postings []domain.Posting
	doc.Find("table.searchResults tr, .job-row").Each(func(_ int, row *goquery.Selection) {
		if query.MaxResults > 0 && len(postings) >= query.MaxResults {
			return
		}

		title := strings.TrimSpace(row.Find("a.jobTitle, td a").First().Text())
		if title == "" || !looksLikeInternship(title) {
			return
		}

		location := strings.TrimSpace(row.Find("td.location, .job-location").First().Text())
		href, _ := row.Find("a").First().Attr("href")
		applyURL := resolveURL(b.baseURL, href)

		deadline := ParseDeadline(row.Find("td.closeDate, .closing-date").Text())

		postings = append(postings, domain.Posting{
			Title:      title,
			Company:    "BC Public Service",
			Location:   location,
			ApplyURL:   applyURL,
			Source:     "bcps",
			ExternalID: applyURL,
			Deadline:   deadline,
			Government: true,
		})
	})

	b.log.Debug("BCPS page parsed", "postings", len(postings))
	return postings, nil
}
