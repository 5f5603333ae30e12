package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/jonesrussell/easyinterns/internal/ranking"
)

var rankedHeader = []string{"rank", "score", "company", "title", "location", "apply_url"}

var contactsHeader = []string{"internship_key", "email", "source", "confidence", "verified_mx"}

// RankedExporter writes profile-ranked results to CSV.
type RankedExporter struct {
	dir string
	log logger.Interface
}

// NewRankedExporter creates an exporter writing into dir.
func NewRankedExporter(dir string, log logger.Interface) *RankedExporter {
	return &RankedExporter{dir: dir, log: log.WithComponent("ranked_export")}
}

// ExportCSV writes the ranked list to ranked.csv and returns its path.
func (e *RankedExporter) ExportCSV(ranked []ranking.ScoredInternship) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	path := filepath.Join(e.dir, "ranked.csv")
	records := make([][]string, 0, len(ranked)+1)
	records = append(records, rankedHeader)
	for i, row := range ranked {
		records = append(records, []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(row.Score, 'f', 2, 64),
			row.Internship.Company,
			row.Internship.Title,
			row.Internship.Location,
			row.Internship.ApplyURL,
		})
	}

	if err := writeCSVAtomic(e.dir, path, records); err != nil {
		return "", err
	}
	e.log.Info("Ranked CSV export complete", "rows", len(ranked), "path", path)
	return path, nil
}

// ContactsExporter writes harvested contact emails to CSV.
type ContactsExporter struct {
	dir string
	log logger.Interface
}

// NewContactsExporter creates an exporter writing into dir.
func NewContactsExporter(dir string, log logger.Interface) *ContactsExporter {
	return &ContactsExporter{dir: dir, log: log.WithComponent("contacts_export")}
}

// ExportCSV writes contacts to contacts.csv and returns its path.
func (e *ContactsExporter) ExportCSV(contacts []domain.ContactEmail) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	path := filepath.Join(e.dir, "contacts.csv")
	records := make([][]string, 0, len(contacts)+1)
	records = append(records, contactsHeader)
	for _, ct := range contacts {
		records = append(records, []string{
			ct.InternshipKey,
			ct.Email,
			string(ct.Source),
			strconv.FormatFloat(ct.Confidence, 'f', 2, 64),
			strconv.FormatBool(ct.VerifiedMX),
		})
	}

	if err := writeCSVAtomic(e.dir, path, records); err != nil {
		return "", err
	}
	e.log.Info("Contacts CSV export complete", "rows", len(contacts), "path", path)
	return path, nil
}

// writeCSVAtomic writes records through a temp file and rename.
func writeCSVAtomic(dir, path string, records [][]string) error {
	tmp, err := os.CreateTemp(dir, ".export-*.csv.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if writeErr := writer.WriteAll(records); writeErr != nil {
		tmp.Close()
		return fmt.Errorf("failed to write csv: %w", writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return fmt.Errorf("failed to close temp file: %w", closeErr)
	}
	if renameErr := os.Rename(tmp.Name(), path); renameErr != nil {
		return fmt.Errorf("failed to move export into place: %w", renameErr)
	}
	return nil
}
