package nexo

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawSheet holds a parsed spreadsheet: the header row plus one record
// per data row, keyed by header name. Line numbers start at 1 for the
// header, so the first data row is line 2.
type RawSheet struct {
	Headers []string
	Rows    []map[string]string
}

// ParseSheet decodes an uploaded file into a header-keyed sheet. The
// format is taken from the file extension; anything that is not .csv is
// read as an Excel workbook.
func ParseSheet(name string, content []byte) (*RawSheet, error) {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return parseCSVSheet(bytes.NewReader(content))
	}
	return parseExcelSheet(bytes.NewReader(content))
}

func parseCSVSheet(file io.Reader) (*RawSheet, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	sheet := &RawSheet{Headers: headers}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		sheet.Rows = append(sheet.Rows, recordToMap(headers, rec))
	}
	return sheet, nil
}

func parseExcelSheet(file io.Reader) (*RawSheet, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("Excel file is empty")
	}

	headers := rows[0]
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	sheet := &RawSheet{Headers: headers}
	for _, rec := range rows[1:] {
		sheet.Rows = append(sheet.Rows, recordToMap(headers, rec))
	}
	return sheet, nil
}

func recordToMap(headers, rec []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, header := range headers {
		if header == "" {
			continue
		}
		if i < len(rec) {
			row[header] = rec[i]
		} else {
			row[header] = ""
		}
	}
	return row
}
