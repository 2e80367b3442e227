package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sheetveil/sheetveil/internal/core"
	"github.com/sheetveil/sheetveil/internal/engine"
)

// WriteSQL writes the anonymized dataset as a SQL script: a CREATE TABLE
// statement typed from the column classification, then one INSERT per
// row. Empty cells become NULL; values in numeric columns that no longer
// parse after anonymization are quoted like text so the script stays
// loadable.
func WriteSQL(w io.Writer, ds *core.Dataset, tools map[uuid.UUID]*engine.Tool) error {
	table := tableName(ds.Name)

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(table)
	b.WriteString(" (\n")
	for i, col := range ds.Columns {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		b.WriteString(columnName(col.Name, i))
		b.WriteString(" ")
		b.WriteString(sqlType(col.Type))
	}
	b.WriteString("\n);\n\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write create table: %w", err)
	}

	cols := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		cols[i] = columnName(col.Name, i)
	}
	insertPrefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES (", table, strings.Join(cols, ", "))

	values := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		out := core.AnonymizeRow(row, ds.Columns, tools)
		for i, col := range ds.Columns {
			values[i] = sqlValue(out[col.Name], col.Type)
		}
		if _, err := fmt.Fprintf(w, "%s%s);\n", insertPrefix, strings.Join(values, ", ")); err != nil {
			return fmt.Errorf("write insert: %w", err)
		}
	}
	return nil
}

// sqlType maps a semantic type to a SQL column type.
func sqlType(t engine.Type) string {
	switch t {
	case engine.TypeNumber:
		return "NUMERIC"
	case engine.TypeDate:
		return "DATE"
	case engine.TypeSSN:
		return "VARCHAR(20)"
	case engine.TypeZipcode:
		return "VARCHAR(10)"
	default:
		return "VARCHAR(255)"
	}
}

// sqlValue renders one cell as a SQL literal. Single quotes are doubled.
func sqlValue(v string, t engine.Type) string {
	if v == "" {
		return "NULL"
	}
	if t == engine.TypeNumber && engine.IsNumeric(v) {
		return strings.Replace(v, ",", ".", 1)
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// tableName derives a SQL identifier from the uploaded file name:
// extension stripped, non-alphanumerics collapsed to underscores, with a
// fallback when nothing survives.
func tableName(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	name := sanitizeIdentifier(base)
	if name == "" {
		return "anonymized_data"
	}
	return name
}

// columnName derives a SQL identifier from a header. The positional
// fallback keeps identifiers distinct when several headers sanitize to
// nothing.
func columnName(header string, i int) string {
	name := sanitizeIdentifier(header)
	if name == "" {
		return fmt.Sprintf("column_%d", i+1)
	}
	return name
}

func sanitizeIdentifier(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "_")
	if out != "" && out[0] >= '0' && out[0] <= '9' {
		out = "t_" + out
	}
	return out
}
