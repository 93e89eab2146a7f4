package sheets

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/sfk-console-api/pkg/normalize"
)

// ReadWorkbook loads the same sections Fetch returns from an exported workbook. Sheet names
// are matched ignoring case and accents; the first row of each sheet holds the headers.
// Cells are read raw, so date cells arrive as spreadsheet serials instead of locale text.
func ReadWorkbook(r io.Reader) (Payload, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	bySection := make(map[string]string)
	for _, name := range f.GetSheetList() {
		bySection[normalize.NormalizeKey(name)] = name
	}

	payload := make(Payload)
	for _, section := range Sections {
		sheet, ok := bySection[normalize.NormalizeKey(section)]
		if !ok {
			continue
		}
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		payload[section] = rowsToRecords(rows)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("workbook has none of the sheets %s", strings.Join(Sections, ", "))
	}
	return payload, nil
}

func rowsToRecords(rows [][]string) []normalize.Row {
	records := []normalize.Row{}
	if len(rows) == 0 {
		return records
	}
	headers := rows[0]
	for _, cells := range rows[1:] {
		rec := normalize.Row{}
		empty := true
		for i, header := range headers {
			header = strings.TrimSpace(header)
			if header == "" || i >= len(cells) {
				continue
			}
			value := strings.TrimSpace(cells[i])
			if value != "" {
				empty = false
			}
			rec[header] = value
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records
}
