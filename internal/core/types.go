package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/sheetveil/sheetveil/internal/engine"
)

// Row is one parsed record, keyed by header name. Rows are immutable once
// parsed: anonymization derives new values and never writes back.
type Row map[string]string

// ParsedFile is the output of the file-parsing step: trimmed headers in
// file order plus the data rows.
type ParsedFile struct {
	Name    string
	Headers []string
	Rows    []Row
}

// Dataset is one uploaded file and its mutable column configuration.
// Rows never change after parse; Columns are edited through the service,
// one edit at a time, and are rebuilt from scratch on the next upload.
type Dataset struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Headers   []string        `json:"headers"`
	Columns   []engine.Column `json:"columns"`
	Rows      []Row           `json:"-"`
	TotalRows int             `json:"totalRows"`
	CreatedAt time.Time       `json:"createdAt"`

	// lastAccess drives idle expiry; maintained by the service under its
	// lock.
	lastAccess time.Time
}

// Column returns a pointer to the named column descriptor, or nil.
func (d *Dataset) Column(name string) *engine.Column {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i]
		}
	}
	return nil
}

// Sample returns up to n values of the named column, in row order, for
// classification.
func (d *Dataset) Sample(name string, n int) []string {
	out := make([]string, 0, n)
	for _, row := range d.Rows {
		if len(out) == n {
			break
		}
		out = append(out, row[name])
	}
	return out
}

// MethodInfo describes one selectable anonymization method for a column
// type, built-in or custom.
type MethodInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsCustom    bool       `json:"isCustom,omitempty"`
	ToolID      *uuid.UUID `json:"toolId,omitempty"`
}

// Preview is the anonymized view of the first rows of a dataset.
type Preview struct {
	Columns   []engine.Column `json:"columns"`
	Rows      []Row           `json:"rows"`
	TotalRows int             `json:"totalRows"`
}
