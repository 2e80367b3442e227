package engine

// patterns.go is the locale pattern library: validity predicates for
// postal codes, national identity numbers, dates, phone numbers, and
// numeric values. Everything here is stateless and fail-soft: a pattern
// that does not compile or does not match contributes false for its locale
// only, and no predicate ever panics or returns an error.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// compilePatterns compiles each expression, dropping any that fail.
// A broken locale pattern must not take the whole library down.
func compilePatterns(exprs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		re, err := regexp.Compile(e)
		if err != nil {
			continue
		}
		out = append(out, re)
	}
	return out
}

// Postal code shapes per locale: US (with optional +4), UK, FR, DE, IT,
// ES, NL, BE, CH, AT, SE, NO, DK, FI, PT.
var postalPatterns = compilePatterns([]string{
	`^\d{5}(?:-\d{4})?$`,                // US
	`(?i)^[A-Z]{1,2}\d[\dA-Z]?\s*\d[A-Z]{2}$`, // UK
	`^(?:0[1-9]|[1-8]\d|9[0-8])\d{3}$`,  // FR
	`^\d{5}$`,                           // DE
	`^\d{5}$`,                           // IT
	`^(?:0[1-9]|[1-4]\d|5[0-2])\d{3}$`,  // ES
	`(?i)^\d{4}\s*[A-Z]{2}$`,            // NL
	`^\d{4}$`,                           // BE
	`^\d{4}$`,                           // CH
	`^\d{4}$`,                           // AT
	`^\d{3}\s*\d{2}$`,                   // SE
	`^\d{4}$`,                           // NO
	`^\d{4}$`,                           // DK
	`^\d{5}$`,                           // FI
	`^\d{4}-\d{3}$`,                     // PT
})

// IsPostalCode reports whether the trimmed value matches any supported
// locale's postal code shape.
func IsPostalCode(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, re := range postalPatterns {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}

// National identity number shapes per locale, matched against the value
// with spaces, dots, and dashes stripped. The US shape is validated
// separately because its forbidden-range rules (000/666/9xx areas, 00
// groups, 0000 serials) cannot be expressed without lookahead.
var nationalIDPatterns = compilePatterns([]string{
	`^[12]\d{2}[0-1]\d(2A|2B|\d{2})\d{3}\d{3}\d{2}$`,      // FR
	`(?i)^[A-CEGHJ-PR-TW-Z][A-CEGHJ-NPR-TW-Z]\d{6}[A-D]$`, // UK
	`^\d{2}\d{6}\d{1}\d{3}$`,                              // DE
	`(?i)^[A-Z]{6}\d{2}[A-Z]\d{2}[A-Z]\d{3}[A-Z]$`,        // IT
	`^\d{2}/\d{8}/\d{2}$`,                                 // ES
	`^(\d{6}|\d{8})\d{4}$`,                                // SE
	`^\d{9}$`,                                             // NL
})

var usSSNShape = regexp.MustCompile(`^\d{9}$`)

// isUSNationalID checks the US social security number rules on a value
// already stripped of separators.
func isUSNationalID(v string) bool {
	if !usSSNShape.MatchString(v) {
		return false
	}
	area, group, serial := v[:3], v[3:5], v[5:]
	if area == "000" || area == "666" || area[0] == '9' {
		return false
	}
	return group != "00" && serial != "0000"
}

var idSeparators = strings.NewReplacer(" ", "", ".", "", "-", "")

// IsNationalID reports whether the value matches any supported locale's
// national identity number shape.
func IsNationalID(v string) bool {
	v = idSeparators.Replace(strings.TrimSpace(v))
	if v == "" {
		return false
	}
	if isUSNationalID(v) {
		return true
	}
	for _, re := range nationalIDPatterns {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}

// dateShapes pairs each accepted literal date format with the parse
// layouts that decide calendar validity. A value is a date only when a
// shape matches and one of its layouts parses.
var dateShapes = []struct {
	re      *regexp.Regexp
	layouts []string
}{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), []string{"2006-01-02"}},
	{regexp.MustCompile(`^(0?[1-9]|1[0-2])/(0?[1-9]|[12]\d|3[01])/\d{4}$`), []string{"1/2/2006"}},
	{regexp.MustCompile(`^(0?[1-9]|[12]\d|3[01])/(0?[1-9]|1[0-2])/\d{4}$`), []string{"2/1/2006"}},
	{regexp.MustCompile(`^(0?[1-9]|[12]\d|3[01])[-.](0?[1-9]|1[0-2])[-.]\d{4}$`), []string{"2-1-2006", "2.1.2006"}},
}

// strictISODate is the unambiguous YYYY-MM-DD shape used by the
// classifier's value-only date rule.
var strictISODate = regexp.MustCompile(`^\d{4}-(?:0[1-9]|1[0-2])-(?:0[1-9]|[12]\d|3[01])$`)

// ParseDate parses a value against the accepted date formats. The second
// return is false when no format matches or the date is not a real
// calendar date (e.g. 2023-02-30).
func ParseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, shape := range dateShapes {
		if !shape.re.MatchString(v) {
			continue
		}
		for _, layout := range shape.layouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// IsDate reports whether the value is a valid date in any accepted format.
func IsDate(v string) bool {
	_, ok := ParseDate(v)
	return ok
}

// phonePattern is a generic international phone shape: optional leading
// plus, three-digit prefix (optionally parenthesized), then 3+4-6 digits
// with dash, space, or dot separators.
var phonePattern = regexp.MustCompile(`^\+?\(?\d{3}\)?[-\s.]?\d{3}[-\s.]?\d{4,6}$`)

// IsPhone reports whether the trimmed value looks like a phone number.
func IsPhone(v string) bool {
	return phonePattern.MatchString(strings.TrimSpace(v))
}

// IsNumeric reports whether the value parses as a number after
// normalizing a European comma decimal separator.
func IsNumeric(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	_, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
	return err == nil
}
