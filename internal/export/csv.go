// Package export writes internship snapshots to CSV and XLSX files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
)

const dateLayout = "2006-01-02"

// csvHeader is the stable column order consumers depend on.
var csvHeader = []string{
	"title", "company", "location", "description", "apply_url", "source",
	"external_id", "posted_date", "application_deadline", "salary_min", "salary_max",
}

// CSVExporter writes internships to a directory as both a stable-named
// latest file and a timestamped snapshot.
type CSVExporter struct {
	dir string
	log logger.Interface
}

// NewCSVExporter creates an exporter writing into dir.
func NewCSVExporter(dir string, log logger.Interface) *CSVExporter {
	return &CSVExporter{dir: dir, log: log.WithComponent("csv_export")}
}

// Export writes rows to internships.csv plus a timestamped snapshot and
// returns the path of the stable file. The write goes through a temp file
// and rename so readers never observe a partial file.
func (e *CSVExporter) Export(rows []domain.Internship, now time.Time) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	latest := filepath.Join(e.dir, "internships.csv")
	if err := e.writeAtomic(latest, rows); err != nil {
		return "", err
	}

	snapshot := filepath.Join(e.dir, fmt.Sprintf("internships_%s.csv", now.UTC().Format("20060102T150405")))
	if err := e.writeAtomic(snapshot, rows); err != nil {
		return "", err
	}

	e.log.Info("CSV export complete", "rows", len(rows), "path", latest, "snapshot", snapshot)
	return latest, nil
}

func (e *CSVExporter) writeAtomic(path string, rows []domain.Internship) error {
	tmp, err := os.CreateTemp(e.dir, ".internships-*.csv.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if writeErr := writer.Write(csvHeader); writeErr != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", writeErr)
	}
	for i := range rows {
		if writeErr := writer.Write(record(&rows[i])); writeErr != nil {
			tmp.Close()
			return fmt.Errorf("failed to write row: %w", writeErr)
		}
	}
	writer.Flush()
	if flushErr := writer.Error(); flushErr != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush csv: %w", flushErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return fmt.Errorf("failed to close temp file: %w", closeErr)
	}

	if renameErr := os.Rename(tmp.Name(), path); renameErr != nil {
		return fmt.Errorf("failed to move export into place: %w", renameErr)
	}
	return nil
}

func record(row *domain.Internship) []string {
	return []string{
		row.Title,
		row.Company,
		row.Location,
		row.Description,
		row.ApplyURL,
		row.Source,
		row.ExternalID,
		formatDate(row.PostedAt),
		formatDate(row.Deadline),
		formatFloat(row.SalaryMin),
		formatFloat(row.SalaryMax),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Load reads a CSV written by Export back into internship rows. Only the
// exported columns are populated.
func Load(path string) ([]domain.Internship, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}

	rows := make([]domain.Internship, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("csv row has %d columns, want %d", len(rec), len(csvHeader))
		}
		row := domain.Internship{
			Title:       rec[0],
			Company:     rec[1],
			Location:    rec[2],
			Description: rec[3],
			ApplyURL:    rec[4],
			Source:      rec[5],
			ExternalID:  rec[6],
		}
		row.Key = domain.IdentityKey(row.Company, row.Title, row.ApplyURL)
		row.PostedAt = parseDate(rec[7])
		row.Deadline = parseDate(rec[8])
		row.SalaryMin = parseFloat(rec[9])
		row.SalaryMax = parseFloat(rec[10])
		rows = append(rows, row)
	}
	return rows, nil
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
