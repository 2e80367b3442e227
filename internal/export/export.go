// Package export serializes anonymized datasets to downloadable formats:
// CSV, XLSX workbooks, and SQL scripts. Serializers stream to an
// io.Writer and apply the dataset's column configuration row by row; the
// source rows are never modified.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sheetveil/sheetveil/internal/core"
	"github.com/sheetveil/sheetveil/internal/engine"
)

// Format identifies a supported export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatSQL  Format = "sql"
)

// ParseFormat validates a format name from a request.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatSQL:
		return FormatSQL, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatSQL:
		return "application/sql"
	default:
		return "text/csv"
	}
}

// Extension returns the file extension for a format, with leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Write serializes the dataset in the given format.
func Write(w io.Writer, f Format, ds *core.Dataset, tools map[uuid.UUID]*engine.Tool) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, ds, tools)
	case FormatXLSX:
		return WriteXLSX(w, ds, tools)
	case FormatSQL:
		return WriteSQL(w, ds, tools)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// WriteCSV writes the anonymized dataset as CSV: a header record followed
// by the data rows in upload order.
func WriteCSV(w io.Writer, ds *core.Dataset, tools map[uuid.UUID]*engine.Tool) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ds.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(ds.Headers))
	for _, row := range ds.Rows {
		out := core.AnonymizeRow(row, ds.Columns, tools)
		for i, h := range ds.Headers {
			record[i] = out[h]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
