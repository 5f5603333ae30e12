package scraper

import (
	"context"
	"sort"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/mmcdole/gofeed"
)

// RSS scrapes configured RSS and Atom job feeds. Feed names become the
// company fallback when an item carries no author.
type RSS struct {
	parser *gofeed.Parser
	log    logger.Interface
	feeds  map[string]string
}

// NewRSS creates an RSS feed scraper. feeds maps a feed name to its URL.
func NewRSS(log logger.Interface, userAgent string, feeds map[string]string) *RSS {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &RSS{
		parser: parser,
		log:    log.WithComponent("rss"),
		feeds:  feeds,
	}
}

// Name returns the source name.
func (r *RSS) Name() string { return "rss" }

// Description returns a human-readable source description.
func (r *RSS) Description() string { return "RSS and Atom job feed scraper" }

// Scrape fetches every configured feed. A feed that fails is skipped.
func (r *RSS) Scrape(ctx context.Context, query Query) ([]domain.Posting, error) {
	names := make([]string, 0, len(r.feeds))
	for name := range r.feeds {
		names = append(names, name)
	}
	sort.Strings(names)

	var postings []domain.Posting
	for _, name := range names {
		feed, err := r.parser.ParseURLWithContext(r.feeds[name], ctx)
		if err != nil {
			r.log.Warn("Feed fetch failed", "feed", name, "error", err)
			continue
		}

		for _, item := range feed.Items {
			if !looksLikeInternship(item.Title + " " + item.Description) {
				continue
			}

			company := name
			if len(item.Authors) > 0 && item.Authors[0].Name != "" {
				company = item.Authors[0].Name
			}

			externalID := item.GUID
			if externalID == "" {
				externalID = item.Link
			}

			p := domain.Posting{
				Title:       item.Title,
				Company:     company,
				Description: snippet(stripHTMLTags(item.Description), descriptionSnippetLen),
				ApplyURL:    item.Link,
				Source:      "rss",
				ExternalID:  externalID,
				Remote:      containsAny(item.Title, "remote"),
				SourceMeta:  map[string]any{"feed": name},
			}
			if item.PublishedParsed != nil {
				utc := item.PublishedParsed.UTC()
				p.PostedAt = &utc
			}
			postings = append(postings, p)

			if query.MaxResults > 0 && len(postings) >= query.MaxResults {
				return postings, nil
			}
		}
	}
	return postings, nil
}
