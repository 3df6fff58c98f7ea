/*
Package report turns computed rows into spreadsheets and reads time-clock
exports back in.

PURPOSE:
  The rules packages return structs. Back-office users want .xlsx files.
  This package is the thin flat-rows boundary between the two: a Sheet is a
  name, a header and rows of already-computed cells. Layout is deliberately
  plain (header row, one row per record) so the files open cleanly in any
  spreadsheet tool and can be diffed in tests.

KEY CONCEPTS:
  - Sheet: Name + Header + Rows, nothing else (sheet.go)
  - Row builders: Weekly/daily attendance and ledger sheets (rows.go)
  - Import: .xlsx/.xls time-clock exports -> attendance marks (import.go)

SEE ALSO:
  - attendance/report.go: MonthlyReport rows
  - vacation/ledger.go: Ledger
*/
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize.NewFile creates.
const defaultSheet = "Sheet1"

type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// WriteXLSX writes the sheets, in order, as one workbook. The first sheet is
// the active one.
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("write xlsx: no sheets")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sheet := range sheets {
		if sheet.Name == "" {
			return fmt.Errorf("write xlsx: sheet %d has no name", i)
		}
		if i == 0 {
			if sheet.Name != defaultSheet {
				if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
					return fmt.Errorf("write xlsx: rename sheet: %w", err)
				}
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("write xlsx: new sheet %q: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet); err != nil {
			return fmt.Errorf("write xlsx: sheet %q: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	row := 1
	if len(sheet.Header) > 0 {
		header := make([]any, len(sheet.Header))
		for i, h := range sheet.Header {
			header[i] = h
		}
		if err := setRow(f, sheet.Name, row, header); err != nil {
			return err
		}
		row++
	}

	for _, cells := range sheet.Rows {
		if err := setRow(f, sheet.Name, row, cells); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
