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

const indeedBaseURL = "https://ca.indeed.com"

// Indeed scrapes Indeed.ca search result pages. Indeed aggressively serves
// captcha challenges to automated clients, so an empty result set is the
// common outcome without a residential exit.
type Indeed struct {
	client  *Client
	log     logger.Interface
	baseURL string
}

// NewIndeed creates an Indeed scraper.
func NewIndeed(client *Client, log logger.Interface) *Indeed {
	return &Indeed{
		client:  client,
		log:     log.WithComponent("indeed"),
		baseURL: indeedBaseURL,
	}
}

// Name returns the source name.
func (i *Indeed) Name() string { return "indeed" }

// Description returns a human-readable source description.
func (i *Indeed) Description() string { return "Indeed.ca search result scraper" }

// BaseURL returns the upstream base URL.
func (i *Indeed) BaseURL() string { return i.baseURL }

// Scrape fetches one search result page and extracts job cards.
func (i *Indeed) Scrape(ctx context.Context, query Query) ([]domain.Posting, error) {
	q := query.Query
	if q == "" {
		q = "internship"
	}

	searchURL := fmt.Sprintf("%s/jobs?q=%s&l=%s&sort=date",
		i.baseURL, url.QueryEscape(q), url.QueryEscape(query.Location))

	body, err := i.client.Get(ctx, searchURL, map[string]string{
		"Accept-Language": "en-CA,en;q=0.9",
	})
	if err != nil {
		return nil, err
	}

	if isCaptchaPage(body) {
		return nil, fmt.Errorf("indeed served a captcha challenge")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse indeed page: %w", err)
	}

	var postings []domain.Posting
	doc.Find("div.job_seen_beacon").Each(func(_ int, card *goquery.Selection) {
		if query.MaxResults > 0 && len(postings) >= query.MaxResults {
			return
		}

		title := strings.TrimSpace(card.Find("h2.jobTitle span").First().Text())
		if title == "" {
			title = strings.TrimSpace(card.Find("h2.jobTitle").Text())
		}
		if !looksLikeInternship(title) {
			return
		}

		company := strings.TrimSpace(card.Find("[data-testid='company-name']").Text())
		location := strings.TrimSpace(card.Find("[data-testid='text-location']").Text())
		description := strings.TrimSpace(card.Find("div.job-snippet").Text())

		href, _ := card.Find("h2.jobTitle a").Attr("href")
		applyURL := resolveURL(i.baseURL, href)
		jobKey, _ := card.Find("h2.jobTitle a").Attr("data-jk")
		if jobKey == "" {
			jobKey = applyURL
		}

		salaryText := strings.TrimSpace(card.Find("[data-testid='attribute_snippet_testid']").First().Text())
		salaryMin, salaryMax := ParseSalary(salaryText)

		var postedAt = parseRelativeDate(strings.TrimSpace(card.Find("span.date").Text()))

		postings = append(postings, domain.Posting{
			Title:       title,
			Company:     company,
			Location:    location,
			Description: snippet(description, descriptionSnippetLen),
			ApplyURL:    applyURL,
			Source:      "indeed",
			ExternalID:  jobKey,
			PostedAt:    postedAt,
			SalaryMin:   salaryMin,
			SalaryMax:   salaryMax,
			Remote:      containsAny(location, "remote") || containsAny(title, "remote"),
		})
	})

	i.log.Debug("Indeed page parsed", "postings", len(postings))
	return postings, nil
}

// isCaptchaPage detects the Cloudflare and hCaptcha interstitials Indeed
// serves to suspected bots.
func isCaptchaPage(body []byte) bool {
	lower := bytes.ToLower(body)
	return bytes.Contains(lower, []byte("hcaptcha")) ||
		bytes.Contains(lower, []byte("cf-challenge")) ||
		bytes.Contains(lower, []byte("verify you are human"))
}

// resolveURL joins a possibly relative href against a base.
func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	u, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return u.ResolveReference(ref).String()
}
