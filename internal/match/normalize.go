package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize strips diacritics, lower-cases, collapses runs of
// non-alphanumeric characters to a single space, and trims. It is
// idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(input string) string {
	folded, _, err := transform.String(stripMarks, input)
	if err != nil {
		folded = input
	}
	folded = strings.ToLower(folded)

	var builder strings.Builder
	builder.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && builder.Len() > 0 {
				builder.WriteByte(' ')
			}
			pendingSpace = false
			builder.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return builder.String()
}

var parenthetical = regexp.MustCompile(`\(([^)]*)\)`)

// titleSeparators are tried in order; the spaced forms must come first so
// that "A - B" splits on the dash rather than on the bare "/" fallback.
var titleSeparators = []string{" / ", "/", " - ", " – ", " — ", ":"}

// TitleVariants expands a raw title into the normalized forms a catalog may
// list it under: the whole title, the title without parenthetical content,
// each parenthetical body, and each segment of a slash/dash/colon split.
// "Le Voyage (The Journey)" yields "le voyage the journey", "le voyage",
// and "the journey". The result preserves first-seen order and never
// contains duplicates or empty strings.
func TitleVariants(raw string) []string {
	seen := make(map[string]struct{})
	variants := make([]string, 0, 4)
	add := func(s string) {
		n := Normalize(s)
		if n == "" {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		variants = append(variants, n)
	}

	add(raw)
	add(parenthetical.ReplaceAllString(raw, " "))
	for _, group := range parenthetical.FindAllStringSubmatch(raw, -1) {
		add(group[1])
	}
	for _, sep := range titleSeparators {
		if !strings.Contains(raw, sep) {
			continue
		}
		for _, part := range strings.Split(raw, sep) {
			add(part)
		}
	}
	return variants
}

var directorSeparator = regexp.MustCompile(`(?i)[,/]| et | and | & `)

// SplitDirectorNames splits a raw director field on commas, slashes, and
// conjunctions ("et", "and", "&"), returning each name normalized. Order
// follows the input.
func SplitDirectorNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := directorSeparator.Split(raw, -1)
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if n := Normalize(part); n != "" {
			names = append(names, n)
		}
	}
	return names
}
