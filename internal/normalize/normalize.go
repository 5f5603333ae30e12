// Package normalize converts raw scraped postings into canonical internship
// rows and removes cross-source duplicates.
package normalize

import (
	"strings"
	"time"

	"github.com/jonesrussell/easyinterns/internal/classify"
	"github.com/jonesrussell/easyinterns/internal/domain"
)

// Normalizer builds canonical internships from raw postings.
type Normalizer struct {
	classifier *classify.Classifier
}

// New creates a Normalizer with a fresh classifier.
func New() *Normalizer {
	return &Normalizer{classifier: classify.New()}
}

// Normalize converts one posting. Whitespace is collapsed, the identity key
// is derived from company, title, and apply URL, and the field tag and
// modality are classified from the text.
func (n *Normalizer) Normalize(p domain.Posting, now time.Time) domain.Internship {
	title := collapse(p.Title)
	company := collapse(p.Company)
	location := collapse(p.Location)

	modality := n.classifier.Modality(p.Remote, title, location, p.Description)

	var tags *string
	if len(p.Tags) > 0 {
		joined := strings.Join(p.Tags, ",")
		tags = &joined
	}

	return domain.Internship{
		Key:            domain.IdentityKey(company, title, p.ApplyURL),
		Source:         p.Source,
		Company:        company,
		Title:          title,
		Location:       location,
		ApplyURL:       strings.TrimSpace(p.ApplyURL),
		Description:    strings.TrimSpace(p.Description),
		PostedAt:       p.PostedAt,
		Deadline:       p.Deadline,
		Remote:         modality == domain.ModalityRemote,
		Modality:       modality,
		FieldTag:       n.classifier.FieldTag(title, p.Description),
		ExternalID:     p.ExternalID,
		SalaryMin:      p.SalaryMin,
		SalaryMax:      p.SalaryMax,
		Government:     p.Government,
		Tags:           tags,
		IsActive:       true,
		FirstSeenAt:    now,
		LastSeenAt:     now,
		LastCheckedAt:  now,
	}
}

// NormalizeAll converts a batch and drops rows missing a title, company, or
// apply URL since those cannot form a stable identity.
func (n *Normalizer) NormalizeAll(postings []domain.Posting, now time.Time) []domain.Internship {
	out := make([]domain.Internship, 0, len(postings))
	for _, p := range postings {
		row := n.Normalize(p, now)
		if row.Title == "" || row.Company == "" || row.ApplyURL == "" {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Dedupe removes rows sharing an identity key. The first occurrence wins,
// so callers ordering sources by trust keep the preferred row.
func Dedupe(rows []domain.Internship) []domain.Internship {
	seen := make(map[string]bool, len(rows))
	out := make([]domain.Internship, 0, len(rows))
	for _, row := range rows {
		if seen[row.Key] {
			continue
		}
		seen[row.Key] = true
		out = append(out, row)
	}
	return out
}

// collapse trims and squeezes runs of whitespace to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
