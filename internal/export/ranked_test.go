package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/jonesrussell/easyinterns/internal/ranking"
)

func TestRankedExportCSV(t *testing.T) {
	dir := t.TempDir()
	exporter := NewRankedExporter(dir, logger.NewNoOp())

	ranked := []ranking.ScoredInternship{
		{Internship: domain.Internship{Title: "SWE Intern", Company: "Acme", Location: "Toronto, ON", ApplyURL: "https://acme.com/jobs/1"}, Score: 12.4},
		{Internship: domain.Internship{Title: "Data Intern", Company: "Globex", ApplyURL: "https://globex.com/jobs/2"}, Score: 8.1},
	}

	path, err := exporter.ExportCSV(ranked)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ranked.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, rankedHeader, records[0])
	assert.Equal(t, []string{"1", "12.40", "Acme", "SWE Intern", "Toronto, ON", "https://acme.com/jobs/1"}, records[1])
	assert.Equal(t, "2", records[2][0])
}

func TestContactsExportCSV(t *testing.T) {
	dir := t.TempDir()
	exporter := NewContactsExporter(dir, logger.NewNoOp())

	contacts := []domain.ContactEmail{
		{InternshipKey: "acme|swe intern|url", Email: "hiring@acme.com", Source: domain.ContactFromPosting, Confidence: 0.85, VerifiedMX: true},
	}

	path, err := exporter.ExportCSV(contacts)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"acme|swe intern|url", "hiring@acme.com", "posting", "0.85", "true"}, records[1])
}
