package normalize

import (
	"testing"
	"time"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	n := New()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	posting := domain.Posting{
		Title:       "  Software   Engineering Intern ",
		Company:     " Acme  Corp ",
		Location:    "Toronto,  ON",
		Description: "Build backend services.",
		ApplyURL:    "https://example.com/jobs/1",
		Source:      "greenhouse",
		ExternalID:  "4001",
		Tags:        []string{"engineering", "summer"},
	}

	row := n.Normalize(posting, now)

	assert.Equal(t, "Software Engineering Intern", row.Title)
	assert.Equal(t, "Acme Corp", row.Company)
	assert.Equal(t, "Toronto, ON", row.Location)
	assert.Equal(t, domain.IdentityKey("Acme Corp", "Software Engineering Intern", "https://example.com/jobs/1"), row.Key)
	assert.Equal(t, domain.FieldSoftwareEngineering, row.FieldTag)
	assert.Equal(t, domain.ModalityOnsite, row.Modality)
	assert.True(t, row.IsActive)
	assert.Equal(t, now, row.FirstSeenAt)
	assert.Equal(t, now, row.LastSeenAt)
	require.NotNil(t, row.Tags)
	assert.Equal(t, "engineering,summer", *row.Tags)
}

func TestNormalizeAllDropsIncompleteRows(t *testing.T) {
	n := New()
	now := time.Now().UTC()

	rows := n.NormalizeAll([]domain.Posting{
		{Title: "Intern", Company: "Acme", ApplyURL: "https://example.com/1", Source: "rss"},
		{Title: "", Company: "Acme", ApplyURL: "https://example.com/2", Source: "rss"},
		{Title: "Intern", Company: "", ApplyURL: "https://example.com/3", Source: "rss"},
		{Title: "Intern", Company: "Acme", ApplyURL: "", Source: "rss"},
	}, now)

	assert.Len(t, rows, 1)
}

func TestDedupeFirstSeenWins(t *testing.T) {
	key := domain.IdentityKey("Acme", "Intern", "https://example.com/1")
	rows := []domain.Internship{
		{Key: key, Source: "greenhouse"},
		{Key: key, Source: "indeed"},
		{Key: domain.IdentityKey("Globex", "Intern", "https://example.com/2"), Source: "indeed"},
	}

	out := Dedupe(rows)
	require.Len(t, out, 2)
	assert.Equal(t, "greenhouse", out[0].Source)
}

func TestIdentityKeyCaseInsensitive(t *testing.T) {
	a := domain.IdentityKey("Acme Corp", "Software Intern", "https://example.com/1")
	b := domain.IdentityKey("ACME CORP", " software intern ", "https://example.com/1")
	assert.Equal(t, a, b)
}
