// Package ranking scores internships. Two scorers live here: the profile
// scorer ranks rows against one candidate's preferences at request time,
// and the quality scorer computes the stored relevance score.
package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/jonesrussell/easyinterns/internal/domain"
)

// Profile score weights.
const (
	internSignalPoints  = 8.0
	recencyMaxPoints    = 4.0
	recencyDecayPerDay  = 0.12
	remoteMatchPoints   = 2.0
	locationMatchPoints = 2.0
	mustHavePoints      = 1.2
	skillPoints         = 0.7
	interestPoints      = 0.5
)

// ScoredInternship pairs a row with its profile score and the per-component
// breakdown used to explain a ranking.
type ScoredInternship struct {
	Internship domain.Internship  `json:"internship"`
	Score      float64            `json:"score"`
	Components map[string]float64 `json:"components"`
}

// ProfileScorer ranks internships against a candidate profile.
type ProfileScorer struct {
	profile domain.CandidateProfile
}

// NewProfileScorer creates a scorer for one profile.
func NewProfileScorer(profile domain.CandidateProfile) *ProfileScorer {
	return &ProfileScorer{profile: profile}
}

// Score computes the weighted profile score for one internship. Components
// are additive; a row matching nothing scores zero.
func (s *ProfileScorer) Score(row domain.Internship, now time.Time) ScoredInternship {
	components := make(map[string]float64)
	text := strings.ToLower(row.Title + " " + row.Description)

	if containsAnyKeyword(text, "intern", "internship", "co-op", "coop", "student") {
		components["intern_signal"] = internSignalPoints
	}

	if row.PostedAt != nil {
		days := now.Sub(*row.PostedAt).Hours() / 24
		if days < 0 {
			days = 0
		}
		recency := recencyMaxPoints - recencyDecayPerDay*days
		if recency > 0 {
			components["recency"] = recency
		}
	}

	if s.profile.RemoteOK && row.Modality == domain.ModalityRemote {
		components["remote_match"] = remoteMatchPoints
	}

	if pref := strings.ToLower(strings.TrimSpace(s.profile.LocationPreference)); pref != "" {
		if strings.Contains(strings.ToLower(row.Location), pref) {
			components["location_match"] = locationMatchPoints
		}
	}

	if n := countKeywordHits(text, s.profile.MustHaveKeywords); n > 0 {
		components["must_have_keywords"] = mustHavePoints * float64(n)
	}
	if n := countKeywordHits(text, s.profile.Skills); n > 0 {
		components["skills"] = skillPoints * float64(n)
	}
	if n := countKeywordHits(text, s.profile.Interests); n > 0 {
		components["interests"] = interestPoints * float64(n)
	}

	var total float64
	for _, v := range components {
		total += v
	}

	return ScoredInternship{Internship: row, Score: total, Components: components}
}

// Rank scores every row and returns them ordered by descending score. Ties
// break on recency, newest first.
func (s *ProfileScorer) Rank(rows []domain.Internship, now time.Time) []ScoredInternship {
	scored := make([]ScoredInternship, 0, len(rows))
	for _, row := range rows {
		scored = append(scored, s.Score(row, now))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		pi, pj := scored[i].Internship.PostedAt, scored[j].Internship.PostedAt
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return pi.After(*pj)
		}
	})
	return scored
}

func containsAnyKeyword(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// countKeywordHits counts how many of the keywords appear in text. Each
// keyword counts at most once.
func countKeywordHits(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
