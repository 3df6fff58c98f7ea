package report

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/warp/labor-engine/attendance"
	"github.com/warp/labor-engine/generic"
)

// maxImportRows bounds legacy .xls reads.
const maxImportRows = 100000

// ReadRows reads the single worksheet of an .xlsx or .xls upload. The format
// is picked from the file extension; anything that is not .xls is read as
// .xlsx.
func ReadRows(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		if workbook.NumSheets() == 0 {
			return nil, generic.Invalid("file", "no worksheet found")
		}
		if workbook.NumSheets() > 1 {
			return nil, generic.Invalid("file", "multiple worksheets found")
		}
		rows := workbook.ReadAllCells(maxImportRows)
		if len(rows) == 0 {
			return nil, generic.Invalid("file", "worksheet is empty")
		}
		return rows, nil
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, generic.Invalid("file", "no worksheet found")
		}
		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, generic.Invalid("file", "worksheet is empty")
		}
		return rows, nil
	}
}

// =============================================================================
// MARK IMPORT - Time-clock export rows -> attendance marks
// =============================================================================

// ParseMarks converts time-clock export rows into marks. The first row is the
// header; columns are found by name (case-insensitive):
//
//	date         required  YYYY-MM-DD, MM-DD-YY, M/D/YYYY or an Excel serial
//	time         required  HH:MM[:SS] or an Excel day fraction
//	type         optional  entry | exit | other (blank or missing -> other)
//	employee_id  optional  rows for other employees are skipped
//
// Blank rows are skipped. Any other malformed row fails the whole import.
func ParseMarks(rows [][]string, employee generic.EmployeeID) ([]attendance.Mark, error) {
	if len(rows) == 0 {
		return nil, generic.Invalid("file", "worksheet is empty")
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[normalizeHeader(h)] = i
	}
	dateCol, ok := cols["date"]
	if !ok {
		return nil, generic.Invalid("header", "missing date column")
	}
	timeCol, ok := cols["time"]
	if !ok {
		return nil, generic.Invalid("header", "missing time column")
	}
	typeCol, hasType := cols["type"]
	empCol, hasEmployee := cols["employee_id"]

	var marks []attendance.Mark
	for n, row := range rows[1:] {
		line := n + 2
		if isBlank(row) {
			continue
		}
		if hasEmployee {
			if id := cellValue(row, empCol); id != "" && generic.EmployeeID(id) != employee {
				continue
			}
		}

		date, err := parseImportDate(cellValue(row, dateCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		clock, err := parseImportTime(cellValue(row, timeCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		markType := attendance.MarkOther
		if hasType {
			if v := cellValue(row, typeCol); v != "" {
				if markType, err = attendance.ParseMarkType(strings.ToLower(v)); err != nil {
					return nil, fmt.Errorf("row %d: %w", line, err)
				}
			}
		}

		marks = append(marks, attendance.Mark{EmployeeID: employee, Date: date, Time: clock, Type: markType})
	}
	return marks, nil
}

var importDateLayouts = []string{
	generic.DateLayout,
	"01-02-06",
	"1/2/2006",
	"01/02/2006",
}

func parseImportDate(value string) (generic.TimePoint, error) {
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return generic.FromTime(t), nil
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= 1 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return generic.FromTime(t), nil
		}
	}
	return generic.TimePoint{}, &generic.ValidationError{Field: "date", Value: value, Reason: "unrecognised date"}
}

func parseImportTime(value string) (generic.TimeOfDay, error) {
	if t, err := generic.ParseTimeOfDay(value); err == nil {
		return t, nil
	}
	if frac, err := strconv.ParseFloat(value, 64); err == nil && frac >= 0 && frac < 1 {
		secs := int(math.Round(frac * 86400))
		if secs < 86400 {
			return generic.NewTimeOfDay(secs/3600, secs%3600/60, secs%60)
		}
	}
	return generic.TimeOfDay{}, &generic.ValidationError{Field: "time", Value: value, Reason: "unrecognised time"}
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
