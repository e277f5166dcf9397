// Package tabular converts between uploaded CSV/Excel files and lists of
// field->value records, and serializes record lists back for download.
package tabular

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for any extension other than
// .csv, .xls or .xlsx, before any parsing is attempted.
var ErrUnsupportedFormat = errors.New("invalid file format, only CSV and Excel files are supported")

// Record is one row of tabular data. Headers preserves column order so a
// round trip through export keeps the original layout.
type Record struct {
	Headers []string
	Values  map[string]string
}

// Get returns the value for a column, or "" when absent.
func (r Record) Get(column string) string {
	return r.Values[column]
}

// MarshalJSON renders the record as a flat object in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, h := range r.Headers {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[h])
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// UnmarshalJSON accepts a flat object. Keys are read token by token so the
// headers keep the submitted column order; values are stringified.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("record must be a JSON object")
	}

	r.Headers = nil
	r.Values = map[string]string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		r.Headers = append(r.Headers, key)
		r.Values[key] = stringify(v)
	}
	_, err = dec.Token()
	return err
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Import reads a CSV or Excel file into records, dispatching on the file
// extension. The first row is taken as the header row.
func Import(path string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return importCSV(path)
	case ".xls", ".xlsx":
		return importExcel(path)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func importCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rowsToRecords(rows), nil
}

func importExcel(path string) ([]Record, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	return rowsToRecords(rows), nil
}

func rowsToRecords(rows [][]string) []Record {
	if len(rows) == 0 {
		return nil
	}
	headers := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		values := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				values[h] = row[i]
			} else {
				values[h] = ""
			}
		}
		records = append(records, Record{Headers: headers, Values: values})
	}
	return records
}

// WriteCSV serializes records to a CSV file at path. The first record's
// column order defines the layout.
func WriteCSV(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for i, row := range recordsToRows(records) {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteExcel serializes records to a single-sheet workbook at path.
// The encoding is OOXML regardless of whether the name ends in .xls
// or .xlsx.
func WriteExcel(path string, records []Record) error {
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	for i, row := range recordsToRows(records) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := wb.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	return wb.SaveAs(path)
}

func recordsToRows(records []Record) [][]string {
	if len(records) == 0 {
		return nil
	}
	headers := records[0].Headers
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, headers)
	for _, rec := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = rec.Values[h]
		}
		rows = append(rows, row)
	}
	return rows
}
