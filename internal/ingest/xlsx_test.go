package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/signalis/connector-cli/internal/model"
)

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Full Name", "Company Name", "Domain"},
			{"Jane Smith", "Acme", "acme.com"},
			{"Bob Jones", "Globex", "globex.com"},
		},
	})

	header, rows, err := ReadXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Full Name", "Company Name", "Domain"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Jane Smith", "Acme", "acme.com"}, rows[0])
}

func TestReadXLSXSheetName(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Contacts": {
			{"Full Name"},
			{"Jane Smith"},
		},
	})

	header, rows, err := ReadXLSX(path, XLSXOptions{SheetName: "Contacts"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Full Name"}, header)
	assert.Len(t, rows, 1)

	_, _, err = ReadXLSX(path, XLSXOptions{SheetName: "Missing"})
	assert.Error(t, err)
}

func TestLoadFileXLSX(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Full Name", "Company Name", "Domain"},
			{"Jane Smith", "Acme", "https://acme.com"},
		},
	})

	records, uploadID, err := LoadFile(path, model.SideDemand)
	require.NoError(t, err)
	assert.NotEmpty(t, uploadID)
	require.Len(t, records, 1)
	assert.Equal(t, "acme.com", records[0].Domain)
	assert.Contains(t, records[0].RecordKey, uploadID)
}
