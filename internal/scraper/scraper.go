// Package scraper implements source-specific internship scrapers and the
// registry that fans out across them.
package scraper

import (
	"context"
	"strings"

	"github.com/jonesrussell/easyinterns/internal/domain"
)

// Query narrows a scrape pass. Zero values mean source defaults.
type Query struct {
	Query      string
	Location   string
	MaxResults int
}

// Scraper fetches postings from a single source.
type Scraper interface {
	// Name returns the unique source name.
	Name() string
	// Scrape fetches postings matching the query. Implementations return
	// partial results with a nil error when individual pages fail; a non-nil
	// error means the source produced nothing usable.
	Scrape(ctx context.Context, query Query) ([]domain.Posting, error)
}

// Info describes a registered source for API listings.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BaseURL     string `json:"base_url"`
	Enabled     bool   `json:"enabled"`
	FeatureFlag bool   `json:"requires_feature_flag"`
}

// internHints are the terms that mark a posting as internship-related.
var internHints = []string{
	"intern", "internship", "co-op", "co op", "coop",
	"student", "summer", "campus", "university", "new grad", "apprentice",
}

// looksLikeInternship reports whether the text contains an
// internship-indicating keyword.
func looksLikeInternship(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, hint := range internHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// containsAny reports whether lowered text contains any of the given terms.
func containsAny(text string, terms ...string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
