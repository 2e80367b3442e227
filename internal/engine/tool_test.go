package engine

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestApplyToolPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		value   string
		want    string
	}{
		{"masks every match", `\d{4}-\d{4}`, "card 1234-5678 ok", "card ****-**** ok"},
		{"multiple matches", `\d{2}`, "ab 12 cd 34", "ab ** cd **"},
		{"no match masks fully", `\d{4}-\d{4}`, "nothing here", "************"},
		{"invalid pattern masks fully", `(unclosed`, "secret", "******"},
		{"empty pattern masks fully", "", "secret", "******"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyToolPattern(tt.pattern, tt.value); got != tt.want {
				t.Errorf("ApplyToolPattern(%q, %q) = %q, want %q", tt.pattern, tt.value, got, tt.want)
			}
		})
	}
}

// An invalid pattern must never expose the raw value, for any input.
func TestApplyToolPattern_FailSoft(t *testing.T) {
	values := []string{"", "x", "longer secret value", "1234-5678"}
	for _, v := range values {
		got := ApplyToolPattern(`[broken`, v)
		if got != Mask(v) {
			t.Errorf("ApplyToolPattern(broken, %q) = %q, want full mask %q", v, got, Mask(v))
		}
		if strings.Contains(got, v) && v != "" {
			t.Errorf("raw value leaked through broken pattern: %q", got)
		}
	}
}

func TestToolMethods(t *testing.T) {
	tool := Tool{
		ID:          uuid.New(),
		Name:        "Card numbers",
		Description: "Masks card number groups",
		Type:        TypeSpecific,
		Method:      "cardMask",
		Regexp:      `\d{4}-\d{4}`,
	}

	methods := ToolMethods(tool)
	if len(methods) != 2 {
		t.Fatalf("ToolMethods returned %d methods, want 2", len(methods))
	}
	if methods[0].Name != MethodMask {
		t.Errorf("first method = %q, want %q", methods[0].Name, MethodMask)
	}
	if methods[1].Name != "cardMask" {
		t.Errorf("second method = %q, want cardMask", methods[1].Name)
	}

	out, err := methods[1].Apply("card 1234-5678 ok")
	if err != nil {
		t.Fatalf("tool method error: %v", err)
	}
	if out != "card ****-**** ok" {
		t.Errorf("tool method = %q, want %q", out, "card ****-**** ok")
	}
}

func TestToolValidatePattern(t *testing.T) {
	valid := Tool{Regexp: `\d+`}
	if err := valid.ValidatePattern(); err != nil {
		t.Errorf("ValidatePattern(valid) = %v", err)
	}

	empty := Tool{}
	if err := empty.ValidatePattern(); err != nil {
		t.Errorf("ValidatePattern(empty) = %v", err)
	}

	broken := Tool{Regexp: `(unclosed`}
	if err := broken.ValidatePattern(); err == nil {
		t.Error("ValidatePattern(broken) = nil, want error")
	}
}
