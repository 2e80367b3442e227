package engine

// catalog.go is the registry of built-in anonymization transforms per
// semantic type. The catalog is built once at package init and never
// mutated afterwards, so unsynchronized concurrent reads are safe. The
// first transform in each list is the type's default.

import (
	"strings"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"
)

// MethodMask is the name of the universal full mask, available to every
// type through the dispatcher even when absent from the type's own list.
const MethodMask = "mask"

// Transform is one named anonymization method. Apply is pure given its
// input, or intentionally randomized for the fake family; it never
// returns the raw value on failure.
type Transform struct {
	Name        string                             `json:"name"`
	Description string                             `json:"description"`
	Apply       func(value string) (string, error) `json:"-"`
}

// Mask replaces every character with an asterisk, preserving length.
func Mask(v string) string {
	return strings.Repeat("*", utf8.RuneCountInString(v))
}

var maskTransform = Transform{
	Name:        MethodMask,
	Description: "Replace with asterisks",
	Apply:       func(v string) (string, error) { return Mask(v), nil },
}

var catalog = map[Type][]Transform{
	TypeText: {
		maskTransform,
		{Name: "fake", Description: "Replace with fake text", Apply: generated(gofakeit.Word)},
	},
	TypeEmail: {
		{Name: MethodMask, Description: "Replace with asterisks except domain", Apply: maskEmail},
		{Name: "fake", Description: "Replace with realistic fake email", Apply: generated(gofakeit.Email)},
	},
	TypePhone: {
		{Name: MethodMask, Description: "Show only last 4 digits", Apply: maskPhone},
		{Name: "fake", Description: "Replace with fake phone number", Apply: generated(gofakeit.Phone)},
	},
	TypeDate: {
		{Name: MethodMask, Description: "Show only year", Apply: maskDateYear},
		{Name: "offset", Description: "Offset by random days", Apply: offsetDate},
	},
	TypeNumber: {
		{Name: MethodMask, Description: "Replace digits with zeros", Apply: maskNumber},
		{Name: "range", Description: "Replace with random number in range", Apply: rangeNumber},
	},
	TypeWebsite: {
		{Name: MethodMask, Description: "Replace with asterisks except TLD", Apply: maskWebsite},
		{Name: "fake", Description: "Replace with realistic website URL", Apply: generated(fakeWebsite)},
	},
	TypeCity: {
		maskTransform,
		{Name: "fake", Description: "Replace with realistic city name", Apply: generated(gofakeit.City)},
		{Name: "region", Description: "Replace with City- plus random ID", Apply: generated(fakeCityID)},
		{Name: "similar-size", Description: "Replace with city of similar population size", Apply: generated(gofakeit.City)},
	},
	TypeCountry: {
		maskTransform,
		{Name: "fake", Description: "Replace with realistic country name", Apply: generated(gofakeit.Country)},
		{Name: "code", Description: "Replace with country code", Apply: generated(gofakeit.CountryAbr)},
		{Name: "region", Description: "Replace with region name", Apply: generated(gofakeit.State)},
	},
	TypeCompany: {
		maskTransform,
		{Name: "fake", Description: "Replace with realistic company name", Apply: generated(gofakeit.Company)},
		{Name: "prefix", Description: "Replace with Company- plus random ID", Apply: generated(fakeCompanyID)},
		{Name: "industry", Description: "Replace with generic industry name", Apply: generated(fakeIndustry)},
	},
	TypeSSN: {
		{Name: "mask-full", Description: "Replace entire SSN with asterisks", Apply: func(v string) (string, error) { return Mask(v), nil }},
		{Name: "mask-partial", Description: "Show only last 4 digits", Apply: maskSSNPartial},
		{Name: "fake", Description: "Replace with realistic SSN", Apply: generated(fakeSSN)},
		{Name: "preserve-format", Description: "Keep format, replace digits with X", Apply: preserveFormat},
	},
	TypeZipcode: {
		maskTransform,
		{Name: "partial", Description: "Show only first digits", Apply: maskZipPartial},
		{Name: "fake", Description: "Replace with realistic zip code", Apply: generated(gofakeit.Zip)},
		{Name: "area", Description: "Preserve area code only", Apply: maskZipArea},
	},
	TypeFirstName: {
		maskTransform,
		{Name: "fake", Description: "Replace with realistic first name", Apply: generated(gofakeit.FirstName)},
		{Name: "initial", Description: "Show only first initial", Apply: nameInitial},
	},
	TypeLastName: {
		maskTransform,
		{Name: "fake", Description: "Replace with realistic last name", Apply: generated(gofakeit.LastName)},
		{Name: "initial", Description: "Show only first initial", Apply: nameInitial},
		{Name: "origin-preserve", Description: "Replace with name of similar origin", Apply: originPreserve},
	},
	TypeFullName: {
		maskTransform,
		{Name: "initials", Description: "Show only initials", Apply: initials},
		{Name: "fake", Description: "Replace with realistic full name", Apply: generated(fakeFullName)},
		{Name: "lastNameOnly", Description: "Show only last name initial", Apply: lastNameOnly},
		{Name: "firstNameOnly", Description: "Show only first name", Apply: firstNameOnly},
	},
}

// MethodsFor returns the ordered transforms for a semantic type; the
// first entry is the type's default. Types without built-ins (the
// tool-driven sentinel) offer only the generic mask. The returned slice
// is a copy; the catalog itself is immutable.
func MethodsFor(t Type) []Transform {
	list, ok := catalog[t]
	if !ok {
		return []Transform{maskTransform}
	}
	out := make([]Transform, len(list))
	copy(out, list)
	return out
}

// DefaultMethod returns the name of the default transform for a type.
func DefaultMethod(t Type) string {
	return MethodsFor(t)[0].Name
}

// transformFor looks up a named transform in a type's list.
func transformFor(t Type, name string) (Transform, bool) {
	for _, tr := range MethodsFor(t) {
		if tr.Name == name {
			return tr, true
		}
	}
	return Transform{}, false
}
