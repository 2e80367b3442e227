package engine

import (
	"testing"

	"github.com/google/uuid"
)

func TestAnonymize_IdentityLaw(t *testing.T) {
	values := []string{"", "jane@acme.com", "75001", "anything at all"}
	for _, typ := range Types {
		col := Column{Name: "c", Type: typ, Method: DefaultMethod(typ)}
		for _, v := range values {
			if got := Anonymize(v, col, nil); got != v {
				t.Errorf("Anonymize(%q, %s, off) = %q, want identity", v, typ, got)
			}
		}
	}
}

func TestAnonymize_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		column Column
		want   string
	}{
		{
			"email mask keeps domain",
			"jane@acme.com",
			Column{Name: "Email Address", Type: TypeEmail, ShouldAnonymize: true, Method: "mask"},
			"****@acme.com",
		},
		{
			"zip area",
			"75001",
			Column{Name: "Zip", Type: TypeZipcode, ShouldAnonymize: true, Method: "area"},
			"7****",
		},
		{
			"number mask",
			"120",
			Column{Name: "Amount", Type: TypeNumber, ShouldAnonymize: true, Method: "mask"},
			"000",
		},
		{
			"empty method defaults to mask",
			"hello",
			Column{Name: "Notes", Type: TypeText, ShouldAnonymize: true},
			"*****",
		},
		{
			"unknown method degrades to full mask",
			"hello",
			Column{Name: "Notes", Type: TypeText, ShouldAnonymize: true, Method: "no-such-method"},
			"*****",
		},
		{
			"mask name works for ssn despite mask-full naming",
			"123-45-6789",
			Column{Name: "SSN", Type: TypeSSN, ShouldAnonymize: true, Method: "mask"},
			"***********",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Anonymize(tt.value, tt.column, nil); got != tt.want {
				t.Errorf("Anonymize(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

// A transform failure must fall back to a full mask, never leak the value.
func TestAnonymize_TransformFailureMasks(t *testing.T) {
	col := Column{Name: "When", Type: TypeDate, ShouldAnonymize: true, Method: "mask"}
	if got := Anonymize("not a date", col, nil); got != Mask("not a date") {
		t.Errorf("Anonymize(bad date) = %q, want full mask", got)
	}
}

func TestAnonymize_BoundTool(t *testing.T) {
	tool := Tool{
		ID:     uuid.New(),
		Method: "cardMask",
		Regexp: `\d{4}-\d{4}`,
	}
	col := Column{Name: "Card", ShouldAnonymize: true}
	col.BindTool(tool)

	if col.Type != TypeSpecific {
		t.Fatalf("BindTool type = %q, want %q", col.Type, TypeSpecific)
	}
	if got := Anonymize("card 1234-5678 ok", col, &tool); got != "card ****-**** ok" {
		t.Errorf("bound tool = %q, want %q", got, "card ****-**** ok")
	}

	// Generic mask stays selectable on a bound column.
	col.Method = MethodMask
	if got := Anonymize("card 1234-5678 ok", col, &tool); got != Mask("card 1234-5678 ok") {
		t.Errorf("bound tool mask = %q, want full mask", got)
	}
}

func TestAnonymize_BoundToolWithInvalidPattern(t *testing.T) {
	tool := Tool{ID: uuid.New(), Method: "broken", Regexp: `(unclosed`}
	col := Column{Name: "Card", ShouldAnonymize: true}
	col.BindTool(tool)

	if got := Anonymize("secret", col, &tool); got != "******" {
		t.Errorf("invalid tool pattern = %q, want full mask", got)
	}
}

func TestAnonymize_UnresolvableToolSentinel(t *testing.T) {
	id := uuid.New()
	col := Column{
		Name:            "Card",
		Type:            TypeSpecific,
		ShouldAnonymize: true,
		Method:          "cardMask",
		ToolID:          &id,
	}

	if got := Anonymize("secret", col, nil); got != FallbackValue {
		t.Errorf("missing tool = %q, want sentinel %q", got, FallbackValue)
	}

	other := Tool{ID: uuid.New(), Method: "cardMask"}
	if got := Anonymize("secret", col, &other); got != FallbackValue {
		t.Errorf("mismatched tool = %q, want sentinel %q", got, FallbackValue)
	}
}

func TestColumnValidate(t *testing.T) {
	col := Column{Name: "c", Type: TypeText}
	if err := col.Validate(nil); err != nil {
		t.Errorf("Validate(plain) = %v", err)
	}

	id := uuid.New()
	bound := Column{Name: "c", Type: TypeText, ToolID: &id}
	if err := bound.Validate(nil); err == nil {
		t.Error("tool binding without sentinel type should fail validation")
	}

	tool := Tool{ID: id, Method: "cardMask"}
	ok := Column{Name: "c", Type: TypeSpecific, ToolID: &id, Method: "cardMask"}
	if err := ok.Validate(&tool); err != nil {
		t.Errorf("Validate(bound) = %v", err)
	}

	bad := Column{Name: "c", Type: TypeSpecific, ToolID: &id, Method: "other"}
	if err := bad.Validate(&tool); err == nil {
		t.Error("method outside the bound tool's offering should fail validation")
	}
}
