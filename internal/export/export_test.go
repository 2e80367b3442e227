package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/sheetveil/sheetveil/internal/core"
	"github.com/sheetveil/sheetveil/internal/engine"
)

// testDataset builds a small dataset with the name column set to
// anonymize and the rest passing through. Salary values carry decimals
// so they classify as numbers rather than five-digit postal codes.
func testDataset() *core.Dataset {
	ds := &core.Dataset{
		ID:      uuid.New(),
		Name:    "Employee List.csv",
		Headers: []string{"Full Name", "Salary", "Joined", "Notes"},
		Rows: []core.Row{
			{"Full Name": "Jane Doe", "Salary": "5100.5", "Joined": "2023-04-01", "Notes": "it's fine"},
			{"Full Name": "Conor O'Brien", "Salary": "64000.25", "Joined": "2022-11-15", "Notes": ""},
		},
	}
	ds.TotalRows = len(ds.Rows)
	for _, h := range ds.Headers {
		ds.Columns = append(ds.Columns, engine.NewColumn(h, ds.Sample(h, 100)))
	}
	ds.Column("Full Name").ShouldAnonymize = true
	return ds
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"xlsx", FormatXLSX, false},
		{"sql", FormatSQL, false},
		{"pdf", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	ds := testDataset()
	var buf bytes.Buffer

	if err := WriteCSV(&buf, ds, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	if got := strings.Join(records[0], ","); got != "Full Name,Salary,Joined,Notes" {
		t.Errorf("header = %q", got)
	}
	if records[1][0] != "********" {
		t.Errorf("anonymized name = %q, want %q", records[1][0], "********")
	}
	if records[1][1] != "5100.5" {
		t.Errorf("untouched salary = %q, want %q", records[1][1], "5100.5")
	}
	// Source rows are never modified.
	if ds.Rows[0]["Full Name"] != "Jane Doe" {
		t.Error("source row mutated")
	}
}

func TestWriteXLSX(t *testing.T) {
	ds := testDataset()
	var buf bytes.Buffer

	if err := WriteXLSX(&buf, ds, nil); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reading workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Anonymized Data" {
		t.Fatalf("sheets = %v, want [Anonymized Data]", sheets)
	}

	rows, err := f.GetRows("Anonymized Data")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if rows[0][0] != "Full Name" {
		t.Errorf("header cell = %q", rows[0][0])
	}
	if rows[1][0] != "********" {
		t.Errorf("anonymized name = %q, want %q", rows[1][0], "********")
	}

	// Numeric column keeps its value intact.
	if rows[1][1] != "5100.5" {
		t.Errorf("salary cell = %q, want %q", rows[1][1], "5100.5")
	}
	if rows[2][1] != "64000.25" {
		t.Errorf("salary cell = %q, want %q", rows[2][1], "64000.25")
	}
}

func TestWriteSQL(t *testing.T) {
	ds := testDataset()
	var buf bytes.Buffer

	if err := WriteSQL(&buf, ds, nil); err != nil {
		t.Fatalf("WriteSQL() error = %v", err)
	}
	script := buf.String()

	wantDDL := "CREATE TABLE employee_list (\n" +
		"  full_name VARCHAR(255),\n" +
		"  salary NUMERIC,\n" +
		"  joined DATE,\n" +
		"  notes VARCHAR(255)\n" +
		");"
	if !strings.Contains(script, wantDDL) {
		t.Errorf("script missing DDL:\n%s\nwant:\n%s", script, wantDDL)
	}

	// Single quotes in data are doubled.
	if !strings.Contains(script, "'it''s fine'") {
		t.Errorf("script does not double apostrophes:\n%s", script)
	}
	// Numbers are unquoted, empty cells become NULL.
	if !strings.Contains(script, "5100.5,") && !strings.Contains(script, "5100.5)") {
		t.Errorf("script quotes numeric value:\n%s", script)
	}
	if !strings.Contains(script, "NULL") {
		t.Errorf("script missing NULL for empty cell:\n%s", script)
	}
}

func TestWriteSQL_AnonymizedName(t *testing.T) {
	ds := testDataset()
	var buf bytes.Buffer

	if err := WriteSQL(&buf, ds, nil); err != nil {
		t.Fatalf("WriteSQL() error = %v", err)
	}
	if strings.Contains(buf.String(), "O''Brien") {
		t.Error("anonymized column leaked the raw name")
	}
	if !strings.Contains(buf.String(), "'********'") {
		t.Errorf("script missing masked name:\n%s", buf.String())
	}
}

func TestSQLIdentifiers(t *testing.T) {
	if got := columnName("Full Name", 0); got != "full_name" {
		t.Errorf("columnName(Full Name) = %q", got)
	}
	// Headers that sanitize to nothing fall back to their position so
	// two of them never collide.
	if got := columnName("???", 0); got != "column_1" {
		t.Errorf("columnName(???, 0) = %q", got)
	}
	if got := columnName("!!!", 2); got != "column_3" {
		t.Errorf("columnName(!!!, 2) = %q", got)
	}
	if got := tableName("2024 report.csv"); got != "t_2024_report" {
		t.Errorf("tableName(2024 report.csv) = %q", got)
	}
	if got := tableName("???.csv"); got != "anonymized_data" {
		t.Errorf("tableName(???.csv) = %q", got)
	}
}

func TestWrite_Dispatch(t *testing.T) {
	ds := testDataset()
	for _, f := range []Format{FormatCSV, FormatXLSX, FormatSQL} {
		var buf bytes.Buffer
		if err := Write(&buf, f, ds, nil); err != nil {
			t.Errorf("Write(%q) error = %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%q) produced no output", f)
		}
	}
	var buf bytes.Buffer
	if err := Write(&buf, Format("pdf"), ds, nil); err == nil {
		t.Error("Write(pdf) succeeded, want error")
	}
}

func TestFormatMetadata(t *testing.T) {
	if got := FormatCSV.Extension(); got != ".csv" {
		t.Errorf("Extension() = %q", got)
	}
	if got := FormatXLSX.ContentType(); !strings.Contains(got, "spreadsheet") {
		t.Errorf("ContentType() = %q", got)
	}
}
