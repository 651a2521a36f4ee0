package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet that holds the rows
const SheetName = "Visa Bulletin"

// WriteXLSX writes rows as a single-sheet workbook
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close() // nolint:errcheck

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	write := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(SheetName, cell, v)
	}

	for i, h := range Header {
		if err := write(i+1, 1, h); err != nil {
			return fmt.Errorf("writing xlsx header: %w", err)
		}
	}

	for i, r := range rows {
		line := i + 2
		values := []any{
			r.Year,
			int(r.Month),
			string(r.Country),
			string(r.Category),
			isoDate(r.FinalActionDate),
			isoDate(r.FilingDate),
		}
		for col, v := range values {
			if err := write(col+1, line, v); err != nil {
				return fmt.Errorf("writing xlsx row %d: %w", line, err)
			}
		}
	}

	_ = f.SetColWidth(SheetName, "C", "C", 30) // country
	_ = f.SetColWidth(SheetName, "D", "D", 28) // category
	_ = f.SetColWidth(SheetName, "E", "F", 16) // dates

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
