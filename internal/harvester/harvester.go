package harvester

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	colly "github.com/gocolly/colly/v2"
	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/jonesrussell/easyinterns/internal/metrics"
)

const (
	crawlMaxDepth    = 2
	crawlParallelism = 2
	crawlDelay       = time.Second
	mxTimeout        = 3 * time.Second
)

// careerLinkHints select which on-site links are worth following.
var careerLinkHints = []string{"career", "job", "contact", "about", "team", "join"}

// Harvester finds recruiting emails. Posting text is scanned directly;
// company sites are crawled shallowly for contact and careers pages.
type Harvester struct {
	log       logger.Interface
	metrics   *metrics.Metrics
	userAgent string

	// lookupMX is swappable in tests.
	lookupMX func(ctx context.Context, domain string) bool
}

// New creates a Harvester.
func New(log logger.Interface, m *metrics.Metrics, userAgent string) *Harvester {
	return &Harvester{
		log:       log.WithComponent("harvester"),
		metrics:   m,
		userAgent: userAgent,
		lookupMX:  hasMXRecords,
	}
}

// HarvestPosting extracts addresses from one internship's description and
// apply URL domain, generating a careers@ fallback when nothing is found.
// Results are deduplicated keeping the highest confidence per address.
func (h *Harvester) HarvestPosting(ctx context.Context, row domain.Internship) []domain.ContactEmail {
	companyDomain := domainOf(row.ApplyURL)
	now := time.Now().UTC()

	var contacts []domain.ContactEmail
	for _, email := range ExtractEmails(row.Description) {
		contacts = append(contacts, domain.ContactEmail{
			InternshipKey: row.Key,
			Email:         email,
			Source:        domain.ContactFromPosting,
			Confidence:    Confidence(email, domain.ContactFromPosting, companyDomain),
			FoundAt:       now,
		})
	}

	if len(contacts) == 0 && companyDomain != "" && !isJobBoardDomain(companyDomain) {
		email := "careers@" + companyDomain
		contacts = append(contacts, domain.ContactEmail{
			InternshipKey: row.Key,
			Email:         email,
			Source:        domain.ContactFromGenerated,
			Confidence:    Confidence(email, domain.ContactFromGenerated, companyDomain),
			FoundAt:       now,
		})
	}

	contacts = h.verifyMX(ctx, contacts)
	for _, c := range contacts {
		h.metrics.EmailFound(string(c.Source))
	}
	return Dedupe(contacts)
}

// HarvestSite crawls a company website for contact addresses. The crawl
// stays on the site's domain, follows only career-ish links, and stops at
// depth 2.
func (h *Harvester) HarvestSite(ctx context.Context, internshipKey, siteURL string) ([]domain.ContactEmail, error) {
	parsed, err := url.Parse(siteURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid site url %q", siteURL)
	}
	companyDomain := stripWWW(parsed.Host)
	now := time.Now().UTC()

	collector := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.MaxDepth(crawlMaxDepth),
		colly.Async(true),
		colly.UserAgent(h.userAgent),
		colly.AllowedDomains(parsed.Hostname(), "www."+companyDomain, companyDomain),
	)
	collector.WithTransport(&http.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	})
	if limitErr := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       crawlDelay,
		Parallelism: crawlParallelism,
	}); limitErr != nil {
		return nil, fmt.Errorf("failed to set crawl rate limit: %w", limitErr)
	}

	found := make(map[string]domain.ContactEmail)
	record := func(email string, source domain.ContactSource) {
		email = strings.ToLower(email)
		confidence := Confidence(email, source, companyDomain)
		if confidence == 0 {
			return
		}
		if existing, ok := found[email]; !ok || confidence > existing.Confidence {
			found[email] = domain.ContactEmail{
				InternshipKey: internshipKey,
				Email:         email,
				Source:        source,
				Confidence:    confidence,
				FoundAt:       now,
			}
		}
	}

	collector.OnHTML("a[href^='mailto:']", func(e *colly.HTMLElement) {
		address := strings.TrimPrefix(e.Attr("href"), "mailto:")
		if i := strings.IndexByte(address, '?'); i >= 0 {
			address = address[:i]
		}
		for _, email := range ExtractEmails(address) {
			record(email, domain.ContactFromWebsite)
		}
	})

	collector.OnHTML("body", func(e *colly.HTMLElement) {
		for _, email := range ExtractEmails(e.Text) {
			record(email, domain.ContactFromWebsite)
		}
	})

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := e.Attr("href")
		hint := strings.ToLower(href + " " + e.Text)
		for _, kw := range careerLinkHints {
			if strings.Contains(hint, kw) {
				if visitErr := e.Request.Visit(href); visitErr != nil {
					h.log.Debug("Skipping link", "url", href, "error", visitErr)
				}
				return
			}
		}
	})

	collector.OnError(func(r *colly.Response, visitErr error) {
		h.log.Debug("Crawl error", "url", r.Request.URL.String(), "error", visitErr)
	})

	if visitErr := collector.Visit(siteURL); visitErr != nil {
		return nil, fmt.Errorf("failed to start crawl: %w", visitErr)
	}
	collector.Wait()

	contacts := make([]domain.ContactEmail, 0, len(found))
	for _, c := range found {
		contacts = append(contacts, c)
	}
	contacts = h.verifyMX(ctx, contacts)
	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].Confidence != contacts[j].Confidence {
			return contacts[i].Confidence > contacts[j].Confidence
		}
		return contacts[i].Email < contacts[j].Email
	})

	for _, c := range contacts {
		h.metrics.EmailFound(string(c.Source))
	}
	return contacts, nil
}

// verifyMX checks each address domain for MX records, bumping confidence
// on success and flagging the row.
func (h *Harvester) verifyMX(ctx context.Context, contacts []domain.ContactEmail) []domain.ContactEmail {
	checked := make(map[string]bool)
	for i := range contacts {
		_, emailDomain, ok := strings.Cut(contacts[i].Email, "@")
		if !ok {
			continue
		}
		verified, seen := checked[emailDomain]
		if !seen {
			verified = h.lookupMX(ctx, emailDomain)
			checked[emailDomain] = verified
		}
		if verified {
			contacts[i].VerifiedMX = true
			contacts[i].Confidence = clamp(contacts[i].Confidence + 0.1)
		}
	}
	return contacts
}

// Dedupe collapses duplicate addresses keeping the highest confidence.
func Dedupe(contacts []domain.ContactEmail) []domain.ContactEmail {
	best := make(map[string]domain.ContactEmail, len(contacts))
	order := make([]string, 0, len(contacts))
	for _, c := range contacts {
		existing, ok := best[c.Email]
		if !ok {
			order = append(order, c.Email)
			best[c.Email] = c
			continue
		}
		if c.Confidence > existing.Confidence {
			best[c.Email] = c
		}
	}
	out := make([]domain.ContactEmail, 0, len(order))
	for _, email := range order {
		out = append(out, best[email])
	}
	return out
}

func hasMXRecords(ctx context.Context, emailDomain string) bool {
	ctx, cancel := context.WithTimeout(ctx, mxTimeout)
	defer cancel()
	records, err := net.DefaultResolver.LookupMX(ctx, emailDomain)
	return err == nil && len(records) > 0
}

// jobBoardDomains never belong to the hiring company, so no careers@
// address is generated for them.
var jobBoardDomains = []string{
	"greenhouse.io", "lever.co", "indeed.com", "jobbank.gc.ca",
	"talent.com", "linkedin.com", "glassdoor.com",
}

// Crawlable reports whether rawURL points at a company site worth crawling
// rather than a job board.
func Crawlable(rawURL string) bool {
	d := domainOf(rawURL)
	return d != "" && !isJobBoardDomain(d)
}

func isJobBoardDomain(d string) bool {
	for _, board := range jobBoardDomains {
		if d == board || strings.HasSuffix(d, "."+board) {
			return true
		}
	}
	return false
}

func domainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return stripWWW(parsed.Host)
}

func stripWWW(host string) string {
	host = strings.ToLower(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimPrefix(host, "www.")
}
