package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/sheetveil/sheetveil/internal/core"
	"github.com/sheetveil/sheetveil/internal/engine"
)

const sheetName = "Anonymized Data"

// WriteXLSX writes the anonymized dataset as a single-sheet workbook.
// Values in numeric columns that still parse as numbers after
// anonymization are written as numeric cells so spreadsheet formulas keep
// working; everything else is written as text.
func WriteXLSX(w io.Writer, ds *core.Dataset, tools map[uuid.UUID]*engine.Tool) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if defaultSheet != sheetName {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("drop default sheet: %w", err)
		}
	}

	header := make([]any, len(ds.Headers))
	for i, h := range ds.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	numeric := make(map[string]bool, len(ds.Columns))
	for _, col := range ds.Columns {
		numeric[col.Name] = col.Kind == engine.KindNumber
	}

	for r, row := range ds.Rows {
		out := core.AnonymizeRow(row, ds.Columns, tools)
		cells := make([]any, len(ds.Headers))
		for i, h := range ds.Headers {
			cells[i] = cellValue(out[h], numeric[h])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// cellValue picks the cell representation for one anonymized value.
func cellValue(v string, numericColumn bool) any {
	if numericColumn {
		normalized := strings.Replace(v, ",", ".", 1)
		if n, err := strconv.ParseFloat(normalized, 64); err == nil {
			return n
		}
	}
	return v
}
