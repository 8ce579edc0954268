package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-retriever/internal/db"
)

func TestWorkbook(t *testing.T) {
	records := []db.TableRecord{
		{ID: "1", FileName: "doc.pdf", Page: 2, Caption: "Results",
			Cells: [][]string{{"year", "value"}, {"2024", "10"}}},
		{ID: "2", FileName: "doc.pdf", Page: 5, Caption: "Budget",
			Cells: [][]string{{"item", "cost"}}},
	}

	f, err := Workbook(records)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Table1_p2", "Table2_p5"}, f.GetSheetList())

	caption, err := f.GetCellValue("Table1_p2", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Results", caption)

	header, err := f.GetCellValue("Table1_p2", "A2")
	require.NoError(t, err)
	assert.Equal(t, "year", header)

	value, err := f.GetCellValue("Table1_p2", "B3")
	require.NoError(t, err)
	assert.Equal(t, "10", value)
}

func TestTables_NoRecords(t *testing.T) {
	assert.Error(t, Tables(nil, "out.xlsx"))
}
