package engine

// classify.go infers a column's semantic type from its header name and a
// bounded sample of values. The rules form a fixed priority chain: the
// first matching rule wins, and the chain always terminates in TypeText.
// The rule order is load-bearing. It was tuned against real datasets to
// reduce false positives and must not be reordered.

import "strings"

// maxSampleSize caps the number of sampled values considered per column.
const maxSampleSize = 100

// Header tokens per rule. Tokens are matched as lowercase substrings of
// the header name and include French equivalents, matching the locales
// the pattern library supports.
var (
	dateNameTokens = []string{
		"date", "time", "temps", "jour", "subscription", "abonnement",
		"joined", "created", "modified", "updated",
	}
	ssnNameTokens = []string{
		"ssn", "social", "security", "sécu", "secu", "sécurité sociale",
		"securite sociale", "nino", "insurance", "bsn", "personnummer",
		"fiscal", "codice",
	}
	zipNameTokens = []string{
		"zip", "postal", "post code", "postcode", "code postal", "plz",
		"cap", "código postal", "postnummer", "postinumero",
	}
	websiteNameTokens = []string{"website", "url", "site"}
	cityNameTokens    = []string{"city", "town", "ville", "municipality"}
	countryNameTokens = []string{"country", "pays", "nation"}
	companyNameTokens = []string{
		"company", "organization", "organisation", "business", "employer",
		"société", "entreprise",
	}
	emailNameTokens = []string{"email", "e-mail", "courriel"}
	phoneNameTokens = []string{"phone", "tel", "mobile", "téléphone", "telephone"}
)

func nameHasAny(lower string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

func anyValue(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if pred(v) {
			return true
		}
	}
	return false
}

func allValues(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return true
}

// isFirstNameHeader matches "first name" headers: the first+name token
// pair, known abbreviations, and the French prénom.
func isFirstNameHeader(lower string) bool {
	if strings.Contains(lower, "first") && strings.Contains(lower, "name") {
		return true
	}
	switch lower {
	case "firstname", "fname", "prénom":
		return true
	}
	return strings.Contains(lower, "prenom")
}

// isLastNameHeader matches "last name"/"surname" headers and the French
// nom/famille equivalents.
func isLastNameHeader(lower string) bool {
	if strings.Contains(lower, "last") && strings.Contains(lower, "name") {
		return true
	}
	switch lower {
	case "lastname", "lname", "surname", "nom":
		return true
	}
	return strings.Contains(lower, "famille")
}

func looksLikeURL(v string) bool {
	return strings.HasPrefix(v, "http://") ||
		strings.HasPrefix(v, "https://") ||
		strings.Contains(v, "www.")
}

// Classify decides the semantic type of a column from its header name and
// up to the first 100 of its values. Blank values are ignored; a column
// with no non-blank values is plain text. Classify is total and
// deterministic and never panics.
func Classify(name string, sample []string) Type {
	lower := strings.ToLower(name)

	if len(sample) > maxSampleSize {
		sample = sample[:maxSampleSize]
	}
	values := make([]string, 0, len(sample))
	for _, v := range sample {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return TypeText
	}

	// 1. Dates: a date-ish header confirmed by at least one parseable
	// value, or any value that is unambiguously a date on its own.
	if nameHasAny(lower, dateNameTokens) && anyValue(values, IsDate) {
		return TypeDate
	}
	if anyValue(values, func(v string) bool { return strictISODate.MatchString(v) || IsDate(v) }) {
		return TypeDate
	}

	// 2-3. Identifiers before the looser shapes: national IDs, then
	// postal codes.
	if nameHasAny(lower, ssnNameTokens) || anyValue(values, IsNationalID) {
		return TypeSSN
	}
	if nameHasAny(lower, zipNameTokens) || anyValue(values, IsPostalCode) {
		return TypeZipcode
	}

	// 4. URLs.
	if nameHasAny(lower, websiteNameTokens) || anyValue(values, looksLikeURL) {
		return TypeWebsite
	}

	// 5-9. Header-only rules: geography, organizations, person names.
	if nameHasAny(lower, cityNameTokens) {
		return TypeCity
	}
	if nameHasAny(lower, countryNameTokens) {
		return TypeCountry
	}
	if nameHasAny(lower, companyNameTokens) {
		return TypeCompany
	}
	if isFirstNameHeader(lower) {
		return TypeFirstName
	}
	if isLastNameHeader(lower) {
		return TypeLastName
	}

	// 10-11. Contact info. The header/value OR here means one stray "@"
	// can claim a column; observed behavior, kept as-is.
	if nameHasAny(lower, emailNameTokens) || anyValue(values, func(v string) bool { return strings.Contains(v, "@") }) {
		return TypeEmail
	}
	if nameHasAny(lower, phoneNameTokens) || anyValue(values, IsPhone) {
		return TypePhone
	}

	// 12. Numbers only when every value is numeric.
	if allValues(values, IsNumeric) {
		return TypeNumber
	}

	return TypeText
}
