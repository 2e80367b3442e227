// Package engine implements the column classification and anonymization core.
//
// It has three responsibilities: inferring the semantic type of a column
// from its header and a sample of values, holding the catalog of built-in
// anonymization transforms per semantic type, and dispatching a column's
// configured transform over raw values. The package is pure computation
// over in-memory data; it performs no I/O and is safe for concurrent reads
// after process start.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is the inferred real-world meaning of a column, distinct from its
// raw storage type. The enumeration is closed: ParseType rejects anything
// outside it.
type Type string

const (
	TypeText      Type = "text"
	TypeEmail     Type = "email"
	TypePhone     Type = "phone"
	TypeDate      Type = "date"
	TypeNumber    Type = "number"
	TypeWebsite   Type = "website"
	TypeCity      Type = "city"
	TypeCountry   Type = "country"
	TypeCompany   Type = "company"
	TypeSSN       Type = "ssn"
	TypeZipcode   Type = "zipcode"
	TypeFirstName Type = "firstName"
	TypeLastName  Type = "lastName"
	TypeFullName  Type = "fullName"

	// TypeSpecific marks a column whose anonymization is driven by a bound
	// custom tool rather than the built-in catalog.
	TypeSpecific Type = "specific"
)

// Types lists every semantic type in a stable order.
var Types = []Type{
	TypeText, TypeEmail, TypePhone, TypeDate, TypeNumber, TypeWebsite,
	TypeCity, TypeCountry, TypeCompany, TypeSSN, TypeZipcode,
	TypeFirstName, TypeLastName, TypeFullName, TypeSpecific,
}

// ParseType converts a wire name into a Type.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown semantic type: %q", s)
}

// Valid reports whether t is a member of the closed enumeration.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Kind is the coarse value shape of a column. It is decided once, when the
// column is classified, and consumed by export serializers that need to
// know whether a cell is textual, numeric, or a calendar date.
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
)

// KindOf maps a semantic type to its value kind.
func KindOf(t Type) Kind {
	switch t {
	case TypeNumber:
		return KindNumber
	case TypeDate:
		return KindDate
	default:
		return KindText
	}
}

// Column describes how one dataset column is classified and anonymized.
// Identity is Name within a dataset. Rows are never mutated through a
// Column; anonymization always derives a new value.
type Column struct {
	Name            string     `json:"name"`
	Type            Type       `json:"type"`
	Kind            Kind       `json:"kind"`
	ShouldAnonymize bool       `json:"shouldAnonymize"`
	Method          string     `json:"anonymizationMethod"`
	ToolID          *uuid.UUID `json:"toolId,omitempty"`
}

// NewColumn classifies a column from its header name and value sample and
// returns a descriptor with anonymization disabled and the type's default
// method preselected.
func NewColumn(name string, sample []string) Column {
	t := Classify(name, sample)
	return Column{
		Name:   name,
		Type:   t,
		Kind:   KindOf(t),
		Method: DefaultMethod(t),
	}
}

// SetType retypes the column, clearing any tool binding and resetting the
// method to the new type's default.
func (c *Column) SetType(t Type) {
	c.Type = t
	c.Kind = KindOf(t)
	c.ToolID = nil
	c.Method = DefaultMethod(t)
}

// BindTool ties the column to a custom tool. A bound column is always of
// the sentinel type and starts on the tool's own method.
func (c *Column) BindTool(t Tool) {
	id := t.ID
	c.Type = TypeSpecific
	c.Kind = KindText
	c.ToolID = &id
	c.Method = t.Method
}

// Validate checks the descriptor's internal consistency: a tool binding
// requires the sentinel type and restricts the method to the generic mask
// or the bound tool's own method.
func (c Column) Validate(tool *Tool) error {
	if !c.Type.Valid() {
		return fmt.Errorf("column %q: unknown semantic type %q", c.Name, c.Type)
	}
	if c.ToolID == nil {
		return nil
	}
	if c.Type != TypeSpecific {
		return fmt.Errorf("column %q: tool binding requires type %q, got %q", c.Name, TypeSpecific, c.Type)
	}
	if tool != nil && c.Method != MethodMask && c.Method != tool.Method {
		return fmt.Errorf("column %q: method %q is not offered by the bound tool", c.Name, c.Method)
	}
	return nil
}

// Tool is a user-authored, pattern-based masking rule. Tools are owned by
// their creating user and visible to others only when public. The engine
// only reads tools; their lifecycle lives in the external store.
type Tool struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        Type      `json:"type"`
	Method      string    `json:"method"`
	Regexp      string    `json:"regexp,omitempty"`
	UserID      string    `json:"userId"`
	IsPublic    bool      `json:"isPublic"`
	CreatedAt   time.Time `json:"createdAt"`
}
