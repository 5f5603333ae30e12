package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Internships"

// XLSXExporter writes internships to a spreadsheet with the same columns
// as the CSV export plus a frozen, bold header row.
type XLSXExporter struct {
	dir string
	log logger.Interface
}

// NewXLSXExporter creates an exporter writing into dir.
func NewXLSXExporter(dir string, log logger.Interface) *XLSXExporter {
	return &XLSXExporter{dir: dir, log: log.WithComponent("xlsx_export")}
}

// Export writes rows to internships.xlsx and returns its path.
func (e *XLSXExporter) Export(rows []domain.Internship) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err = f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header := make([]any, len(csvHeader))
	for i, col := range csvHeader {
		header[i] = col
	}
	if err = f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(csvHeader))
		_ = f.SetCellStyle(xlsxSheet, "A1", lastCol+"1", boldStyle)
	}
	if err = f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return "", fmt.Errorf("failed to freeze header: %w", err)
	}

	for i := range rows {
		cells := record(&rows[i])
		values := make([]any, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err = f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	path := filepath.Join(e.dir, "internships.xlsx")
	if err = f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save xlsx: %w", err)
	}

	e.log.Info("XLSX export complete", "rows", len(rows), "path", path)
	return path, nil
}
