package engine

import (
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"
)

func apply(t *testing.T, typ Type, method, value string) string {
	t.Helper()
	tr, ok := transformFor(typ, method)
	if !ok {
		t.Fatalf("no %q transform for type %q", method, typ)
	}
	out, err := tr.Apply(value)
	if err != nil {
		t.Fatalf("%s/%s(%q) error: %v", typ, method, value, err)
	}
	return out
}

func TestMask_LengthLaw(t *testing.T) {
	values := []string{"", "a", "hello world", "Ünïcödé", "1234-5678"}

	for _, v := range values {
		got := Mask(v)
		if utf8.RuneCountInString(got) != utf8.RuneCountInString(v) {
			t.Errorf("Mask(%q) length = %d, want %d", v, utf8.RuneCountInString(got), utf8.RuneCountInString(v))
		}
		if strings.Trim(got, "*") != "" {
			t.Errorf("Mask(%q) = %q, want asterisks only", v, got)
		}
	}
}

func TestMethodsFor_EveryTypeHasDefault(t *testing.T) {
	for _, typ := range Types {
		methods := MethodsFor(typ)
		if len(methods) == 0 {
			t.Errorf("MethodsFor(%q) is empty", typ)
			continue
		}
		if methods[0].Name != DefaultMethod(typ) {
			t.Errorf("DefaultMethod(%q) = %q, want first entry %q", typ, DefaultMethod(typ), methods[0].Name)
		}
		for _, m := range methods {
			if m.Apply == nil {
				t.Errorf("MethodsFor(%q): %q has nil Apply", typ, m.Name)
			}
		}
	}
}

func TestMethodsFor_SpecificOffersOnlyMask(t *testing.T) {
	methods := MethodsFor(TypeSpecific)
	if len(methods) != 1 || methods[0].Name != MethodMask {
		t.Errorf("MethodsFor(specific) = %v, want only %q", methods, MethodMask)
	}
}

func TestEmailMask(t *testing.T) {
	if got := apply(t, TypeEmail, "mask", "jane@acme.com"); got != "****@acme.com" {
		t.Errorf("email mask = %q, want %q", got, "****@acme.com")
	}

	// No domain to keep: the transform refuses rather than leaking.
	tr, _ := transformFor(TypeEmail, "mask")
	if _, err := tr.Apply("not-an-email"); err == nil {
		t.Error("email mask on value without @ should error")
	}
}

func TestPhoneMask(t *testing.T) {
	if got := apply(t, TypePhone, "mask", "+1 (555) 123-4567"); got != "****-****-4567" {
		t.Errorf("phone mask = %q, want %q", got, "****-****-4567")
	}
}

func TestWebsiteMask(t *testing.T) {
	got := apply(t, TypeWebsite, "mask", "https://www.example.co.uk/path")
	// hostname www.example.co.uk (17 runes), TLD co.uk kept (5 runes)
	want := strings.Repeat("*", 12) + "co.uk"
	if got != want {
		t.Errorf("website mask = %q, want %q", got, want)
	}

	tr, _ := transformFor(TypeWebsite, "mask")
	if _, err := tr.Apply("not a url"); err == nil {
		t.Error("website mask on unparseable value should error")
	}
}

func TestSSNTransforms(t *testing.T) {
	if got := apply(t, TypeSSN, "mask-full", "123-45-6789"); got != "***********" {
		t.Errorf("mask-full = %q", got)
	}
	if got := apply(t, TypeSSN, "mask-partial", "123-45-6789"); got != "***-**-6789" {
		t.Errorf("mask-partial = %q, want ***-**-6789", got)
	}
	if got := apply(t, TypeSSN, "preserve-format", "123-45-6789"); got != "XXX-XX-XXXX" {
		t.Errorf("preserve-format = %q, want XXX-XX-XXXX", got)
	}
}

func TestDateTransforms(t *testing.T) {
	if got := apply(t, TypeDate, "mask", "2023-05-10"); got != "2023" {
		t.Errorf("date mask = %q, want 2023", got)
	}

	// Offset stays within ±30 days and keeps the ISO shape.
	for i := 0; i < 50; i++ {
		got := apply(t, TypeDate, "offset", "2023-05-10")
		d, ok := ParseDate(got)
		if !ok {
			t.Fatalf("offset produced unparseable date %q", got)
		}
		base, _ := ParseDate("2023-05-10")
		days := int(d.Sub(base).Hours() / 24)
		if days < -30 || days > 30 {
			t.Errorf("offset moved %d days, want within ±30", days)
		}
	}

	tr, _ := transformFor(TypeDate, "mask")
	if _, err := tr.Apply("garbage"); err == nil {
		t.Error("date mask on garbage should error")
	}
}

func TestNumberTransforms(t *testing.T) {
	if got := apply(t, TypeNumber, "mask", "120"); got != "000" {
		t.Errorf("number mask = %q, want 000", got)
	}
	if got := apply(t, TypeNumber, "mask", "-1.5"); got != "-0.0" {
		t.Errorf("number mask = %q, want -0.0", got)
	}

	// Range keeps the digit count.
	for i := 0; i < 50; i++ {
		got := apply(t, TypeNumber, "range", "4711")
		if len(got) != 4 {
			t.Fatalf("range(%q) = %q, want 4 digits", "4711", got)
		}
		if _, err := strconv.Atoi(got); err != nil {
			t.Fatalf("range produced non-number %q", got)
		}
	}
}

func TestZipcodeTransforms(t *testing.T) {
	if got := apply(t, TypeZipcode, "partial", "75001"); got != "75***" {
		t.Errorf("partial = %q, want 75***", got)
	}
	if got := apply(t, TypeZipcode, "area", "75001"); got != "7****" {
		t.Errorf("area = %q, want 7****", got)
	}
	if got := apply(t, TypeZipcode, "area", "SW1A 1AA"); got != "S******" {
		t.Errorf("area = %q, want S******", got)
	}

	tr, _ := transformFor(TypeZipcode, "area")
	if _, err := tr.Apply("7"); err == nil {
		t.Error("area on single character should error instead of leaking")
	}
}

func TestNameTransforms(t *testing.T) {
	if got := apply(t, TypeFullName, "initials", "Jane Q Doe"); got != "J. Q. D." {
		t.Errorf("initials = %q, want J. Q. D.", got)
	}
	if got := apply(t, TypeFullName, "lastNameOnly", "Jane Doe"); got != "Jane D." {
		t.Errorf("lastNameOnly = %q, want Jane D.", got)
	}
	if got := apply(t, TypeFullName, "firstNameOnly", "Jane Doe"); got != "Jane****" {
		t.Errorf("firstNameOnly = %q, want Jane****", got)
	}
	if got := apply(t, TypeFirstName, "initial", "Jane"); got != "J." {
		t.Errorf("initial = %q, want J.", got)
	}

	// A single-token full name has no safe partial form.
	tr, _ := transformFor(TypeFullName, "lastNameOnly")
	if _, err := tr.Apply("Cher"); err == nil {
		t.Error("lastNameOnly on single token should error")
	}
}

func TestOriginPreserve_KeepsSuffix(t *testing.T) {
	tests := []struct {
		value  string
		suffix string
	}{
		{"Martinez", "ez"},
		{"Johansson", "son"},
		{"Kowalski", "ski"},
		{"Petrossian", "ian"},
	}

	for _, tt := range tests {
		got := apply(t, TypeLastName, "origin-preserve", tt.value)
		if !strings.HasSuffix(strings.ToLower(got), tt.suffix) {
			t.Errorf("origin-preserve(%q) = %q, want suffix %q", tt.value, got, tt.suffix)
		}
		if got == tt.value {
			t.Errorf("origin-preserve(%q) returned the input unchanged", tt.value)
		}
	}
}

// The fake family is intentionally randomized: check shape, not values.
func TestFakeTransforms_Shape(t *testing.T) {
	if got := apply(t, TypeEmail, "fake", "jane@acme.com"); !strings.Contains(got, "@") {
		t.Errorf("fake email = %q, want an @", got)
	}
	if got := apply(t, TypeWebsite, "fake", "x"); !strings.HasPrefix(got, "https://") {
		t.Errorf("fake website = %q, want https:// prefix", got)
	}
	if got := apply(t, TypeSSN, "fake", "x"); len(got) != 11 || strings.Count(got, "-") != 2 {
		t.Errorf("fake ssn = %q, want NNN-NN-NNNN shape", got)
	}
	if got := apply(t, TypeCity, "region", "x"); !strings.HasPrefix(got, "City-") || len(got) != 9 {
		t.Errorf("city region = %q, want City-XXXX", got)
	}
	if got := apply(t, TypeCompany, "prefix", "x"); !strings.HasPrefix(got, "Company-") || len(got) != 14 {
		t.Errorf("company prefix = %q, want Company-XXXXXX", got)
	}
	for _, typ := range []Type{TypeText, TypeCity, TypeCountry, TypeCompany, TypeFirstName, TypeLastName, TypeFullName} {
		if got := apply(t, typ, "fake", "anything"); got == "" || got == "anything" {
			t.Errorf("fake %s = %q, want a non-empty replacement", typ, got)
		}
	}
}
