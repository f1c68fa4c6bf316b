package catalog

import "strings"

// Candidate is one search hit from a catalog. It lives only while a single
// record is being resolved and is never persisted.
type Candidate struct {
	// ID is the catalog-local identifier: a numeric movie id for the
	// structured catalog, a film page id for the scraped one.
	ID            string
	Title         string
	OriginalTitle string
	// ReleaseDate is the raw date string as reported by the catalog.
	ReleaseDate string
	// Popularity and VoteCount carry the structured catalog's ranking
	// signal; zero for scraped candidates.
	Popularity float64
	VoteCount  int64
	// PageURL is the scraped catalog's detail page; empty for structured
	// candidates.
	PageURL string
	// Directors is attached lazily from credits or the search page.
	Directors []string
}

// DirectorsJoined renders the attached director list as a single
// comma-separated string for scoring and display.
func (c Candidate) DirectorsJoined() string {
	return strings.Join(c.Directors, ", ")
}

// Detail is a catalog's detail payload for one film.
type Detail struct {
	Synopsis  string
	Genres    []string
	Countries []string
	// CountryCodes carries the ISO 3166-1 production country codes when
	// the catalog reports them; empty for the scraped catalog.
	CountryCodes     []string
	RuntimeMinutes   int
	ReleaseDate      string
	PosterURL        string
	OriginalLanguage string
}

// Credits lists the people attached to a film.
type Credits struct {
	Directors []string
	Cast      []string
}

// Award is one festival or ceremony result.
type Award struct {
	Event      string
	Categories []string
}

// String renders an award as "Event: Category, Category".
func (a Award) String() string {
	if len(a.Categories) == 0 {
		return a.Event
	}
	return a.Event + ": " + strings.Join(a.Categories, ", ")
}
