package engine

// transforms.go holds the apply functions behind the built-in catalog.
// A transform that cannot produce a safe output for a value returns an
// error; it never returns the raw input. The dispatcher turns any error
// into a full mask.

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"
)

var errUnmaskable = fmt.Errorf("value cannot be partially masked")

func digitsOf(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

const alnumChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randAlnum(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alnumChars[rand.IntN(len(alnumChars))]
	}
	return string(b)
}

// generated adapts a value-independent generator to the Transform shape.
func generated(f func() string) func(string) (string, error) {
	return func(string) (string, error) { return f(), nil }
}

func firstRune(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

// initials reduces each whitespace-delimited token to its first letter
// followed by a period: "Jane van Dorn" -> "J. v. D.".
func initials(v string) (string, error) {
	parts := strings.Fields(v)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = firstRune(p) + "."
	}
	return strings.Join(out, " "), nil
}

// lastNameOnly keeps the first token and reduces the final token to an
// initial. A single-token value has nothing to keep safely.
func lastNameOnly(v string) (string, error) {
	parts := strings.Fields(v)
	if len(parts) < 2 {
		return "", errUnmaskable
	}
	return parts[0] + " " + firstRune(parts[len(parts)-1]) + ".", nil
}

// firstNameOnly keeps the first token and masks the rest of the value.
func firstNameOnly(v string) (string, error) {
	parts := strings.Fields(v)
	if len(parts) == 0 {
		return "", errUnmaskable
	}
	rest := utf8.RuneCountInString(v) - utf8.RuneCountInString(parts[0])
	return parts[0] + strings.Repeat("*", rest), nil
}

func nameInitial(v string) (string, error) {
	if v == "" {
		return "", errUnmaskable
	}
	return firstRune(v) + ".", nil
}

// originPreserve replaces a surname with a synthetic one carrying the same
// locale-suggestive suffix, so "Martinez" stays recognizably Hispanic
// without being real.
func originPreserve(v string) (string, error) {
	lower := strings.ToLower(v)
	for _, suffix := range []string{"ez", "son", "ski", "ian"} {
		if strings.HasSuffix(lower, suffix) {
			return gofakeit.LastName() + suffix, nil
		}
	}
	return gofakeit.LastName(), nil
}

// maskEmail masks the local part and keeps the domain.
func maskEmail(v string) (string, error) {
	local, domain, found := strings.Cut(v, "@")
	if !found || domain == "" {
		return "", errUnmaskable
	}
	return Mask(local) + "@" + domain, nil
}

// maskPhone keeps only the last four digits.
func maskPhone(v string) (string, error) {
	digits := digitsOf(v)
	if len(digits) < 4 {
		return "", errUnmaskable
	}
	return "****-****-" + digits[len(digits)-4:], nil
}

// maskWebsite masks the hostname up to its top-level domain.
func maskWebsite(v string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(v))
	if err != nil || u.Host == "" {
		return "", errUnmaskable
	}
	host := u.Hostname()
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return "", errUnmaskable
	}
	tld := strings.Join(labels[len(labels)-2:], ".")
	stars := utf8.RuneCountInString(host) - utf8.RuneCountInString(tld)
	return strings.Repeat("*", stars) + tld, nil
}

// maskSSNPartial exposes only the last four digits in the canonical US
// grouping.
func maskSSNPartial(v string) (string, error) {
	digits := digitsOf(v)
	if len(digits) < 4 {
		return "", errUnmaskable
	}
	return "***-**-" + digits[len(digits)-4:], nil
}

// preserveFormat substitutes X for every digit, keeping punctuation, so
// the shape of an identifier survives: "123-45-6789" -> "XXX-XX-XXXX".
func preserveFormat(v string) (string, error) {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return 'X'
		}
		return r
	}, v), nil
}

func fakeSSN() string {
	return fmt.Sprintf("%03d-%02d-%04d",
		rand.IntN(900)+100, rand.IntN(90)+10, rand.IntN(9000)+1000)
}

// maskDateYear reduces a date to its year.
func maskDateYear(v string) (string, error) {
	t, ok := ParseDate(v)
	if !ok {
		return "", errUnmaskable
	}
	return strconv.Itoa(t.Year()), nil
}

// offsetDate shifts a date by a random signed offset within 30 days and
// renders it in ISO form.
func offsetDate(v string) (string, error) {
	t, ok := ParseDate(v)
	if !ok {
		return "", errUnmaskable
	}
	return t.AddDate(0, 0, rand.IntN(60)-30).Format("2006-01-02"), nil
}

// maskNumber zeroes every digit, keeping sign and separators.
func maskNumber(v string) (string, error) {
	if digitsOf(v) == "" {
		return "", errUnmaskable
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return '0'
		}
		return r
	}, v), nil
}

// rangeNumber replaces a number with a random one of the same digit count.
func rangeNumber(v string) (string, error) {
	n := len(digitsOf(v))
	if n == 0 || n > 18 {
		return "", errUnmaskable
	}
	magnitude := int64(1)
	for i := 1; i < n; i++ {
		magnitude *= 10
	}
	return strconv.FormatInt(rand.Int64N(magnitude*9)+magnitude, 10), nil
}

// maskZipPartial exposes the leading two digits of a postal code.
func maskZipPartial(v string) (string, error) {
	digits := digitsOf(v)
	if len(digits) <= 2 {
		return "", errUnmaskable
	}
	return digits[:2] + strings.Repeat("*", len(digits)-2), nil
}

// maskZipArea exposes only the first character, the coarsest area hint
// for both numeric and alphanumeric postal codes.
func maskZipArea(v string) (string, error) {
	var b strings.Builder
	for _, r := range v {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	n := utf8.RuneCountInString(clean)
	if n <= 1 {
		return "", errUnmaskable
	}
	return firstRune(clean) + strings.Repeat("*", n-1), nil
}

func fakeFullName() string {
	return gofakeit.FirstName() + " " + gofakeit.LastName()
}

func fakeCityID() string {
	return "City-" + randAlnum(4)
}

func fakeCompanyID() string {
	return "Company-" + randAlnum(6)
}

func fakeIndustry() string {
	return gofakeit.BuzzWord() + " " + gofakeit.Adjective() + " Corp"
}

func fakeWebsite() string {
	return "https://" + gofakeit.DomainName()
}
