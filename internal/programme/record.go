package programme

import (
	"strings"

	"marquee/internal/catalog"
	"marquee/internal/match"
)

// ScreeningRecord is one programme line as exported by the venue planning
// sheet. Title is the only field the engine requires; everything else is
// carried through to the output untouched.
type ScreeningRecord struct {
	Title     string `json:"title"`
	Director  string `json:"director,omitempty"`
	Category  string `json:"category,omitempty"`
	Comment   string `json:"comment,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Version   string `json:"version,omitempty"`
	ShortFilm string `json:"short_film,omitempty"`
	Tariff    string `json:"tariff,omitempty"`
	AwardText string `json:"award_text,omitempty"`
}

// CineClub reports whether the screening belongs to a cine-club or heritage
// slot, derived from the category and comment text.
func (r ScreeningRecord) CineClub() bool {
	compact := strings.ReplaceAll(match.Normalize(r.Category+" "+r.Comment), " ", "")
	if strings.Contains(compact, "cineclub") {
		return true
	}
	return strings.Contains(compact, "patrimoine")
}

// School reports whether the screening is a school session.
func (r ScreeningRecord) School() bool {
	return strings.Contains(strings.ToUpper(r.Category), "SCOL")
}

// SourceMap records which catalog supplied each enriched field group. Values
// are "tmdb", "allocine", "merged", or empty when the group stayed empty.
type SourceMap struct {
	Synopsis    string `json:"synopsis,omitempty"`
	Genres      string `json:"genres,omitempty"`
	Runtime     string `json:"runtime,omitempty"`
	Countries   string `json:"countries,omitempty"`
	Cast        string `json:"cast,omitempty"`
	Awards      string `json:"awards,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	Poster      string `json:"poster,omitempty"`
	Backdrops   string `json:"backdrops,omitempty"`
	Trailer     string `json:"trailer,omitempty"`
}

// EnrichedRecord is a screening record extended with reconciled catalog
// metadata. Status tracks how the lookup ended and Sources remembers where
// each field group came from.
type EnrichedRecord struct {
	ScreeningRecord

	Status   string `json:"status"`
	Decision string `json:"decision,omitempty"`
	Verified bool   `json:"verified"`

	MatchedTitle   string  `json:"matched_title,omitempty"`
	TMDBID         int64   `json:"tmdb_id,omitempty"`
	ScrapedPageURL string  `json:"scraped_page_url,omitempty"`
	TitleScore     float64 `json:"title_score,omitempty"`
	DirectorScore  float64 `json:"director_score,omitempty"`

	Synopsis       string          `json:"synopsis,omitempty"`
	Genres         []string        `json:"genres,omitempty"`
	RuntimeMinutes int             `json:"runtime_minutes,omitempty"`
	Countries      []string        `json:"countries,omitempty"`
	Directors      []string        `json:"directors,omitempty"`
	Cast           []string        `json:"cast,omitempty"`
	Awards         []catalog.Award `json:"awards,omitempty"`
	ReleaseDate    string          `json:"release_date,omitempty"`
	PosterURL      string          `json:"poster_url,omitempty"`
	Backdrops      []string        `json:"backdrops,omitempty"`
	TrailerURL     string          `json:"trailer_url,omitempty"`

	CineClubScreening bool `json:"cine_club_screening"`
	SchoolScreening   bool `json:"school_screening"`

	Sources SourceMap `json:"sources"`

	Error string `json:"error,omitempty"`
}

// Enrichment statuses.
const (
	StatusEnriched = "enriched"
	StatusReview   = "review"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)
