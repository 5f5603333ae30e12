package ranking

import (
	"strings"
	"time"

	"github.com/jonesrussell/easyinterns/internal/domain"
)

// Quality score component weights. The weighted sum is clamped to [0, 1]
// and stored on the row as its relevance score.
const (
	weightRecency   = 0.25
	weightRelevance = 0.30
	weightQuality   = 0.20
	weightCompany   = 0.15
	weightLocation  = 0.10
)

// tier1Companies are large internship programs known to convert interns.
var tier1Companies = []string{
	"google", "microsoft", "amazon", "apple", "meta", "netflix",
	"shopify", "stripe", "openai", "nvidia",
}

// tier2Companies run solid structured programs.
var tier2Companies = []string{
	"ibm", "intel", "salesforce", "oracle", "sap", "rbc", "td bank",
	"scotiabank", "telus", "bell", "deloitte", "kpmg", "pwc", "ey",
}

// QualityScorer computes the stored relevance score from posting
// attributes alone, independent of any candidate profile.
type QualityScorer struct{}

// NewQualityScorer creates a quality scorer.
func NewQualityScorer() *QualityScorer {
	return &QualityScorer{}
}

// Score returns the clamped weighted quality score for a row.
func (s *QualityScorer) Score(row domain.Internship, now time.Time) float64 {
	score := weightRecency*recencyComponent(row, now) +
		weightRelevance*relevanceComponent(row) +
		weightQuality*qualityComponent(row) +
		weightCompany*companyComponent(row) +
		weightLocation*locationComponent(row)

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// recencyComponent decays linearly from 1 at posting time to 0 at 30 days.
func recencyComponent(row domain.Internship, now time.Time) float64 {
	if row.PostedAt == nil {
		return 0.3
	}
	days := now.Sub(*row.PostedAt).Hours() / 24
	if days < 0 {
		days = 0
	}
	c := 1 - days/30
	if c < 0 {
		return 0
	}
	return c
}

// relevanceComponent rewards explicit internship wording and a resolved
// field tag.
func relevanceComponent(row domain.Internship) float64 {
	text := strings.ToLower(row.Title)
	c := 0.2
	if containsAnyKeyword(text, "intern", "internship", "co-op", "coop") {
		c += 0.5
	}
	if row.FieldTag != domain.FieldOther {
		c += 0.3
	}
	if c > 1 {
		return 1
	}
	return c
}

// qualityComponent rewards complete postings: description, salary, and a
// posted date.
func qualityComponent(row domain.Internship) float64 {
	c := 0.0
	if len(row.Description) >= 100 {
		c += 0.4
	} else if row.Description != "" {
		c += 0.2
	}
	if row.SalaryMin != nil {
		c += 0.3
	}
	if row.PostedAt != nil {
		c += 0.3
	}
	return c
}

func companyComponent(row domain.Internship) float64 {
	company := strings.ToLower(row.Company)
	for _, name := range tier1Companies {
		if strings.Contains(company, name) {
			return 1
		}
	}
	for _, name := range tier2Companies {
		if strings.Contains(company, name) {
			return 0.7
		}
	}
	if row.Government {
		return 0.6
	}
	return 0.4
}

func locationComponent(row domain.Internship) float64 {
	if row.Modality == domain.ModalityRemote {
		return 1
	}
	if row.Location != "" {
		return 0.6
	}
	return 0.2
}
