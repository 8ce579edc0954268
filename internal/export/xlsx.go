package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"pdf-retriever/internal/db"
)

// Workbook builds an XLSX workbook from a document's extracted tables, one
// sheet per table with the caption in the first row.
func Workbook(records []db.TableRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, rec := range records {
		sheet := fmt.Sprintf("Table%d_p%d", i+1, rec.Page)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}

		if err := f.SetCellValue(sheet, "A1", rec.Caption); err != nil {
			return nil, err
		}
		for r, row := range rec.Cells {
			for c, cell := range row {
				ref, err := excelize.CoordinatesToCellName(c+1, r+2)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, ref, cell); err != nil {
					return nil, err
				}
			}
		}
	}
	return f, nil
}

// Tables writes a document's extracted tables to an XLSX file.
func Tables(records []db.TableRecord, outPath string) error {
	if len(records) == 0 {
		return fmt.Errorf("no tables to export")
	}
	f, err := Workbook(records)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(outPath)
}
