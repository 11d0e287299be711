package tables

import "strings"

// countryCodes maps country names to ISO 3166 alpha-2 codes.
var countryCodes = map[string]string{
	"austria":        "AT",
	"belgium":        "BE",
	"denmark":        "DK",
	"finland":        "FI",
	"france":         "FR",
	"germany":        "DE",
	"ireland":        "IE",
	"italy":          "IT",
	"luxembourg":     "LU",
	"netherlands":    "NL",
	"norway":         "NO",
	"poland":         "PL",
	"portugal":       "PT",
	"spain":          "ES",
	"sweden":         "SE",
	"switzerland":    "CH",
	"united kingdom": "GB",
	"great britain":  "GB",
	"uk":             "GB",
	"united states":  "US",
	"usa":            "US",
}

// NormalizeCountry converts country names to 2-letter codes.
// If the input is not a known name, it is upper-cased and returned.
func NormalizeCountry(s string) string {
	s = strings.TrimSpace(s)
	if code, ok := countryCodes[strings.ToLower(s)]; ok {
		return code
	}
	return strings.ToUpper(s)
}

// NormalizeCode upper-cases s and drops spaces and dashes, the way bank
// identifiers are often pasted ("ntbk dk kk", "DK50-0040-...").
func NormalizeCode(s string) string {
	s = strings.NewReplacer(" ", "", "-", "").Replace(s)
	return strings.ToUpper(s)
}

// NormalizeEmail lower-cases the address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
