package ranking

import (
	"testing"
	"time"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRow(title string, postedDaysAgo int, now time.Time) domain.Internship {
	posted := now.AddDate(0, 0, -postedDaysAgo)
	return domain.Internship{
		Title:    title,
		Company:  "Acme",
		Location: "Toronto, ON",
		PostedAt: &posted,
		Modality: domain.ModalityOnsite,
	}
}

func TestProfileScoreInternSignal(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	s := NewProfileScorer(domain.CandidateProfile{})

	intern := s.Score(testRow("Software Engineering Intern", 0, now), now)
	senior := s.Score(testRow("Senior Software Engineer", 0, now), now)

	assert.Equal(t, internSignalPoints, intern.Components["intern_signal"])
	assert.NotContains(t, senior.Components, "intern_signal")
	assert.Greater(t, intern.Score, senior.Score)
}

func TestProfileScoreRecencyDecays(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	s := NewProfileScorer(domain.CandidateProfile{})

	fresh := s.Score(testRow("Intern", 0, now), now)
	week := s.Score(testRow("Intern", 7, now), now)
	ancient := s.Score(testRow("Intern", 60, now), now)

	assert.InDelta(t, 4.0, fresh.Components["recency"], 0.001)
	assert.InDelta(t, 4.0-0.12*7, week.Components["recency"], 0.001)
	assert.NotContains(t, ancient.Components, "recency")
	assert.Greater(t, fresh.Score, week.Score)
}

func TestProfileScoreMatches(t *testing.T) {
	now := time.Now().UTC()
	s := NewProfileScorer(domain.CandidateProfile{
		RemoteOK:           true,
		LocationPreference: "toronto",
		MustHaveKeywords:   []string{"golang"},
		Skills:             []string{"docker", "postgres"},
		Interests:          []string{"fintech"},
	})

	row := testRow("Backend Intern", 0, now)
	row.Modality = domain.ModalityRemote
	row.Description = "Golang services with Docker and Postgres for a fintech platform"

	scored := s.Score(row, now)

	assert.Equal(t, remoteMatchPoints, scored.Components["remote_match"])
	assert.Equal(t, locationMatchPoints, scored.Components["location_match"])
	assert.InDelta(t, mustHavePoints, scored.Components["must_have_keywords"], 0.001)
	assert.InDelta(t, 2*skillPoints, scored.Components["skills"], 0.001)
	assert.InDelta(t, interestPoints, scored.Components["interests"], 0.001)
}

func TestRankOrdersByScoreThenRecency(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	s := NewProfileScorer(domain.CandidateProfile{})

	rows := []domain.Internship{
		testRow("Accountant", 0, now),
		testRow("Software Intern", 5, now),
		testRow("Data Intern", 1, now),
	}

	ranked := s.Rank(rows, now)
	require.Len(t, ranked, 3)
	assert.Equal(t, "Data Intern", ranked[0].Internship.Title)
	assert.Equal(t, "Software Intern", ranked[1].Internship.Title)
	assert.Equal(t, "Accountant", ranked[2].Internship.Title)
}
