package allocine

import (
	"fmt"
	"regexp"
	"strings"
)

var frenchMonths = map[string]int{
	"janvier":   1,
	"fevrier":   2,
	"mars":      3,
	"avril":     4,
	"mai":       5,
	"juin":      6,
	"juillet":   7,
	"aout":      8,
	"septembre": 9,
	"octobre":   10,
	"novembre":  11,
	"decembre":  12,
}

var (
	numericDate = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	wordDate    = regexp.MustCompile(`(\d{1,2})(?:er)?\s+([[:alpha:]\x{00e9}\x{00fb}]+)\s+(\d{4})`)
)

// ParseFrenchDate extracts a release date from French page text and returns
// it as YYYY-MM-DD. Both "15/03/2023" and "15 mars 2023" forms are accepted.
// Unrecognized input returns an empty string.
func ParseFrenchDate(text string) string {
	if m := numericDate.FindStringSubmatch(text); m != nil {
		day := atoiOrZero(m[1])
		month := atoiOrZero(m[2])
		year := atoiOrZero(m[3])
		if validDate(year, month, day) {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		}
	}
	if m := wordDate.FindStringSubmatch(text); m != nil {
		day := atoiOrZero(m[1])
		month := frenchMonths[stripAccents(strings.ToLower(m[2]))]
		year := atoiOrZero(m[3])
		if validDate(year, month, day) {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		}
	}
	return ""
}

func validDate(year, month, day int) bool {
	return year >= 1800 && month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// stripAccents handles the two accented month names without pulling the
// full normalizer into the hot path.
func stripAccents(s string) string {
	s = strings.ReplaceAll(s, "é", "e") // é
	s = strings.ReplaceAll(s, "û", "u") // û
	return s
}
