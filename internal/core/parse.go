package core

// parse.go turns an uploaded file into headers and rows. CSV goes through
// encoding/csv, spreadsheets through excelize (first sheet only). Shape
// errors here are the only engine errors surfaced to users as failures:
// a file with no columns or no data rows cannot be processed further.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds the configured
	// size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedFormat is returned for extensions other than
	// .csv/.xlsx/.xls.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// ParseFile reads and parses an uploaded file. The format is chosen by
// file extension. maxSize bounds the bytes read; anything beyond it fails
// rather than truncating silently.
func ParseFile(name string, r io.Reader, maxSize int64) (*ParsedFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}

	var pf *ParsedFile
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		pf, err = parseCSV(data)
	case ".xlsx", ".xls":
		pf, err = parseExcel(data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	pf.Name = name
	return pf, nil
}

// parseCSV parses comma-separated data. The first non-blank record is the
// header row; headers are trimmed; blank lines are skipped; short records
// leave the missing cells empty.
func parseCSV(data []byte) (*ParsedFile, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return buildParsedFile(records)
}

// parseExcel parses the first sheet of a workbook.
func parseExcel(data []byte) (*ParsedFile, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("no sheets found in spreadsheet")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return buildParsedFile(records)
}

// buildParsedFile converts raw records into headers and rows, enforcing
// the non-empty shape contract.
func buildParsedFile(records [][]string) (*ParsedFile, error) {
	headerIdx := -1
	for i, rec := range records {
		if !blankRecord(rec) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, errors.New("empty file")
	}

	headers := make([]string, 0, len(records[headerIdx]))
	for _, h := range records[headerIdx] {
		headers = append(headers, strings.TrimSpace(h))
	}
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}
	if len(headers) == 0 {
		return nil, errors.New("no columns found")
	}
	for i, h := range headers {
		if h == "" {
			return nil, fmt.Errorf("no columns found: header %d is blank", i+1)
		}
	}

	rows := make([]Row, 0, len(records)-headerIdx-1)
	for _, rec := range records[headerIdx+1:] {
		if blankRecord(rec) {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, errors.New("no data rows")
	}

	return &ParsedFile{Headers: headers, Rows: rows}, nil
}

func blankRecord(rec []string) bool {
	for _, field := range rec {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
