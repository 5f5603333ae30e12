package ranking

import (
	"strings"
	"testing"
	"time"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestQualityScoreClamped(t *testing.T) {
	now := time.Now().UTC()
	s := NewQualityScorer()

	posted := now
	rich := domain.Internship{
		Title:       "Software Engineering Intern",
		Company:     "Google",
		Location:    "Toronto, ON",
		Description: strings.Repeat("Great internship. ", 10),
		PostedAt:    &posted,
		Modality:    domain.ModalityRemote,
		FieldTag:    domain.FieldSoftwareEngineering,
		SalaryMin:   ptr(60000.0),
	}
	empty := domain.Internship{Title: "Clerk", FieldTag: domain.FieldOther}

	high := s.Score(rich, now)
	low := s.Score(empty, now)

	assert.LessOrEqual(t, high, 1.0)
	assert.GreaterOrEqual(t, low, 0.0)
	assert.Greater(t, high, low)
	assert.Greater(t, high, 0.9)
}

func TestQualityScoreCompanyTiers(t *testing.T) {
	now := time.Now().UTC()
	s := NewQualityScorer()
	posted := now

	base := domain.Internship{
		Title:    "Intern",
		PostedAt: &posted,
		FieldTag: domain.FieldOther,
	}

	tier1 := base
	tier1.Company = "Shopify Inc"
	tier2 := base
	tier2.Company = "Deloitte Canada"
	unknown := base
	unknown.Company = "Mom and Pop Shop"

	assert.Greater(t, s.Score(tier1, now), s.Score(tier2, now))
	assert.Greater(t, s.Score(tier2, now), s.Score(unknown, now))
}

func TestQualityScoreRecencyMonotonic(t *testing.T) {
	now := time.Now().UTC()
	s := NewQualityScorer()

	fresh := now
	stale := now.AddDate(0, 0, -20)

	a := domain.Internship{Title: "Intern", PostedAt: &fresh, FieldTag: domain.FieldOther}
	b := domain.Internship{Title: "Intern", PostedAt: &stale, FieldTag: domain.FieldOther}

	assert.Greater(t, s.Score(a, now), s.Score(b, now))
}

func ptr[T any](v T) *T { return &v }
