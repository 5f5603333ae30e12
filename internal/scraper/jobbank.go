package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
)

const jobBankBaseURL = "https://www.jobbank.gc.ca"

// JobBank scrapes the Government of Canada Job Bank search pages. Every
// posting from this source is flagged as a government listing.
type JobBank struct {
	client  *Client
	log     logger.Interface
	baseURL string
}

// NewJobBank creates a Job Bank scraper.
func NewJobBank(client *Client, log logger.Interface) *JobBank {
	return &JobBank{
		client:  client,
		log:     log.WithComponent("jobbank"),
		baseURL: jobBankBaseURL,
	}
}

// Name returns the source name.
func (j *JobBank) Name() string { return "jobbank" }

// Description returns a human-readable source description.
func (j *JobBank) Description() string { return "Government of Canada Job Bank scraper" }

// BaseURL returns the upstream base URL.
func (j *JobBank) BaseURL() string { return j.baseURL }

// Scrape fetches one search result page and extracts job articles.
func (j *JobBank) Scrape(ctx context.Context, query Query) ([]domain.Posting, error) {
	q := query.Query
	if q == "" {
		q = "internship"
	}

	searchURL := fmt.Sprintf("%s/jobsearch/jobsearch?searchstring=%s&locationstring=%s&sort=D",
		j.baseURL, url.QueryEscape(q), url.QueryEscape(query.Location))

	body, err := j.client.Get(ctx, searchURL, nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse job bank page: %w", err)
	}

	var postings []domain.Posting
	doc.Find("article.resultJobItem").Each(func(_ int, card *goquery.Selection) {
		if query.MaxResults > 0 && len(postings) >= query.MaxResults {
			return
		}

		titleLink := card.Find("h3 a").First()
		title := strings.Join(strings.Fields(titleLink.Text()), " ")
		if !looksLikeInternship(title) {
			return
		}

		company := strings.TrimSpace(card.Find(".resultJobItemCompany").Text())
		location := strings.TrimSpace(card.Find(".resultJobItemLocation").Text())
		location = strings.TrimPrefix(location, "Location")
		location = strings.Join(strings.Fields(location), " ")
		description := strings.TrimSpace(card.Find(".resultJobItemSummary").Text())

		href, _ := titleLink.Attr("href")
		if href == "" {
			href, _ = card.Find("a").First().Attr("href")
		}
		applyURL := resolveURL(j.baseURL, href)

		externalID, _ := card.Attr("id")
		if externalID == "" {
			externalID = applyURL
		}

		salaryMin, salaryMax := ParseSalary(card.Find(".resultJobItemWage").Text())
		postedAt := parseRelativeDate(strings.TrimSpace(card.Find(".resultJobItemDatePosted").Text()))

		postings = append(postings, domain.Posting{
			Title:       title,
			Company:     company,
			Location:    location,
			Description: description,
			ApplyURL:    applyURL,
			Source:      "jobbank",
			ExternalID:  externalID,
			PostedAt:    postedAt,
			SalaryMin:   salaryMin,
			SalaryMax:   salaryMax,
			Government:  true,
			Remote:      containsAny(location, "remote") || containsAny(title, "remote"),
		})
	})

	j.log.Debug("Job Bank page parsed", "postings", len(postings))
	return postings, nil
}
