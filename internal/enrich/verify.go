package enrich

import (
	"strings"
	"time"

	"marquee/internal/match"
)

// CatalogView is the slice of a catalog pick that cross-verification reads.
type CatalogView struct {
	Title         string
	OriginalTitle string
	Directors     []string
	// ReleaseDate is ISO formatted (yyyy-mm-dd) when known.
	ReleaseDate string
}

// Verification is the result of cross-checking the scraped pick against the
// structured one.
type Verification struct {
	Verified      bool
	TitleScore    float64
	DirectorScore float64
	// DateMatch is nil when either side lacks a parseable release date.
	DateMatch      *bool
	ScrapedDate    string
	StructuredDate string
}

// Verify cross-checks the two catalog picks. Both the title and director
// scores must clear their thresholds for the pair to count as the same
// film; the date comparison is advisory only.
func Verify(tuning match.Tuning, scraped, structured CatalogView) Verification {
	variants := match.TitleVariants(scraped.Title)
	titleScore := match.TitleSimilarity(variants, structured.Title, structured.OriginalTitle)
	directorScore := match.BestDirectorMatch(
		strings.Join(scraped.Directors, ", "),
		strings.Join(structured.Directors, ", "),
	)

	v := Verification{
		TitleScore:     titleScore,
		DirectorScore:  directorScore,
		ScrapedDate:    scraped.ReleaseDate,
		StructuredDate: structured.ReleaseDate,
		Verified: titleScore >= tuning.VerifyTitleThreshold &&
			directorScore >= tuning.VerifyDirectorThreshold,
	}

	scrapedDate, okA := parseISODate(scraped.ReleaseDate)
	structuredDate, okB := parseISODate(structured.ReleaseDate)
	if okA && okB {
		equal := scrapedDate.Equal(structuredDate)
		v.DateMatch = &equal
	}
	return v
}

func parseISODate(value string) (time.Time, bool) {
	if len(value) > 10 {
		value = value[:10]
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
