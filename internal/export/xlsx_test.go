package export

import (
	"testing"

	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXExport(t *testing.T) {
	dir := t.TempDir()
	e := NewXLSXExporter(dir, logger.NewNoOp())

	path, err := e.Export(sampleRows())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Internships")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "title", rows[0][0])
	assert.Equal(t, "Software Intern", rows[1][0])
	assert.Equal(t, "Acme", rows[1][1])
	assert.Equal(t, "Data Intern", rows[2][0])
}
