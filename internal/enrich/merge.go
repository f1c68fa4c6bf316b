package enrich

import (
	"marquee/internal/catalog"
	"marquee/internal/match"
	"marquee/internal/programme"
)

// Decision selects which catalog's fields survive after a mismatch.
type Decision string

const (
	// DecisionDefault applies when the two picks verified as the same
	// film: each field group takes the scraped value and falls back to
	// the structured one when the scraped side is empty.
	DecisionDefault Decision = ""
	// DecisionStructured takes every field group from the structured
	// catalog.
	DecisionStructured Decision = "tmdb"
	// DecisionScraped takes every field group from the scraped catalog.
	DecisionScraped Decision = "allocine"
	// DecisionMerge combines both catalogs, structured values first.
	DecisionMerge Decision = "merge"
	// DecisionSkip drops all enrichment and passes the record through.
	DecisionSkip Decision = "skip"
)

// ParseDecision maps a policy or prompt token to a Decision.
func ParseDecision(token string) (Decision, bool) {
	switch token {
	case "t", "tmdb":
		return DecisionStructured, true
	case "a", "allocine":
		return DecisionScraped, true
	case "m", "merge":
		return DecisionMerge, true
	case "s", "skip":
		return DecisionSkip, true
	}
	return DecisionDefault, false
}

// Fields groups the enrichment values one catalog contributed for a record.
type Fields struct {
	Synopsis       string
	Genres         []string
	RuntimeMinutes int
	Countries      []string
	Directors      []string
	Cast           []string
	Awards         []catalog.Award
	ReleaseDate    string
	PosterURL      string
	Backdrops      []string
	TrailerURL     string
}

// Empty reports whether no catalog contributed any value.
func (f Fields) Empty() bool {
	return f.Synopsis == "" && len(f.Genres) == 0 && f.RuntimeMinutes == 0 &&
		len(f.Countries) == 0 && len(f.Directors) == 0 && len(f.Cast) == 0 &&
		len(f.Awards) == 0 && f.ReleaseDate == "" && f.PosterURL == "" &&
		len(f.Backdrops) == 0 && f.TrailerURL == ""
}

const (
	sourceStructured = "tmdb"
	sourceScraped    = "allocine"
	sourceMerged     = "merged"
)

// Merge reconciles the two catalogs' field groups under a decision and
// reports where each group came from. Empty groups stay empty and keep an
// empty source label.
func Merge(decision Decision, structured, scraped Fields) (Fields, programme.SourceMap) {
	switch decision {
	case DecisionSkip:
		return Fields{}, programme.SourceMap{}
	case DecisionStructured:
		return structured, uniformSources(structured, sourceStructured)
	case DecisionScraped:
		return scraped, uniformSources(scraped, sourceScraped)
	case DecisionMerge:
		return mergeBoth(structured, scraped)
	default:
		return fallbackMerge(scraped, structured, sourceScraped, sourceStructured)
	}
}

// mergeBoth unions list groups and takes the structured value first for
// scalar ones.
func mergeBoth(structured, scraped Fields) (Fields, programme.SourceMap) {
	var out Fields
	var sources programme.SourceMap

	out.Synopsis, sources.Synopsis = pickString(structured.Synopsis, scraped.Synopsis, sourceStructured, sourceScraped)
	out.RuntimeMinutes, sources.Runtime = pickInt(structured.RuntimeMinutes, scraped.RuntimeMinutes, sourceStructured, sourceScraped)
	out.ReleaseDate, sources.ReleaseDate = pickString(structured.ReleaseDate, scraped.ReleaseDate, sourceStructured, sourceScraped)
	out.PosterURL, sources.Poster = pickString(structured.PosterURL, scraped.PosterURL, sourceStructured, sourceScraped)
	out.TrailerURL, sources.Trailer = pickString(structured.TrailerURL, scraped.TrailerURL, sourceStructured, sourceScraped)

	out.Genres, sources.Genres = unionLists(structured.Genres, scraped.Genres)
	out.Countries, sources.Countries = unionLists(structured.Countries, scraped.Countries)
	out.Cast, sources.Cast = unionLists(structured.Cast, scraped.Cast)
	out.Backdrops, sources.Backdrops = unionLists(structured.Backdrops, scraped.Backdrops)
	out.Directors, _ = unionLists(structured.Directors, scraped.Directors)
	out.Awards, sources.Awards = unionAwards(structured.Awards, scraped.Awards)

	return out, sources
}

// fallbackMerge takes each group from the first catalog and falls back to
// the second only when the first is empty.
func fallbackMerge(first, second Fields, firstLabel, secondLabel string) (Fields, programme.SourceMap) {
	var out Fields
	var sources programme.SourceMap

	out.Synopsis, sources.Synopsis = pickString(first.Synopsis, second.Synopsis, firstLabel, secondLabel)
	out.RuntimeMinutes, sources.Runtime = pickInt(first.RuntimeMinutes, second.RuntimeMinutes, firstLabel, secondLabel)
	out.ReleaseDate, sources.ReleaseDate = pickString(first.ReleaseDate, second.ReleaseDate, firstLabel, secondLabel)
	out.PosterURL, sources.Poster = pickString(first.PosterURL, second.PosterURL, firstLabel, secondLabel)
	out.TrailerURL, sources.Trailer = pickString(first.TrailerURL, second.TrailerURL, firstLabel, secondLabel)

	out.Genres, sources.Genres = pickList(first.Genres, second.Genres, firstLabel, secondLabel)
	out.Countries, sources.Countries = pickList(first.Countries, second.Countries, firstLabel, secondLabel)
	out.Cast, sources.Cast = pickList(first.Cast, second.Cast, firstLabel, secondLabel)
	out.Backdrops, sources.Backdrops = pickList(first.Backdrops, second.Backdrops, firstLabel, secondLabel)
	out.Directors, _ = pickList(first.Directors, second.Directors, firstLabel, secondLabel)

	switch {
	case len(first.Awards) > 0:
		out.Awards, sources.Awards = first.Awards, firstLabel
	case len(second.Awards) > 0:
		out.Awards, sources.Awards = second.Awards, secondLabel
	}

	return out, sources
}

func uniformSources(fields Fields, label string) programme.SourceMap {
	var sources programme.SourceMap
	if fields.Synopsis != "" {
		sources.Synopsis = label
	}
	if len(fields.Genres) > 0 {
		sources.Genres = label
	}
	if fields.RuntimeMinutes > 0 {
		sources.Runtime = label
	}
	if len(fields.Countries) > 0 {
		sources.Countries = label
	}
	if len(fields.Cast) > 0 {
		sources.Cast = label
	}
	if len(fields.Awards) > 0 {
		sources.Awards = label
	}
	if fields.ReleaseDate != "" {
		sources.ReleaseDate = label
	}
	if fields.PosterURL != "" {
		sources.Poster = label
	}
	if len(fields.Backdrops) > 0 {
		sources.Backdrops = label
	}
	if fields.TrailerURL != "" {
		sources.Trailer = label
	}
	return sources
}

func pickString(first, second, firstLabel, secondLabel string) (string, string) {
	if first != "" {
		return first, firstLabel
	}
	if second != "" {
		return second, secondLabel
	}
	return "", ""
}

func pickInt(first, second int, firstLabel, secondLabel string) (int, string) {
	if first > 0 {
		return first, firstLabel
	}
	if second > 0 {
		return second, secondLabel
	}
	return 0, ""
}

func pickList(first, second []string, firstLabel, secondLabel string) ([]string, string) {
	if len(first) > 0 {
		return first, firstLabel
	}
	if len(second) > 0 {
		return second, secondLabel
	}
	return nil, ""
}

// unionLists concatenates both lists, dropping entries whose normalized
// form was already seen. The first surface form wins, so "Drame" followed
// by "drame" keeps the accented original casing.
func unionLists(first, second []string) ([]string, string) {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range append(append([]string{}, first...), second...) {
		key := match.Normalize(item)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	switch {
	case len(out) == 0:
		return nil, ""
	case len(first) == 0:
		return out, sourceScraped
	case len(second) == 0:
		return out, sourceStructured
	default:
		return out, sourceMerged
	}
}

func unionAwards(first, second []catalog.Award) ([]catalog.Award, string) {
	seen := make(map[string]struct{})
	var out []catalog.Award
	for _, award := range append(append([]catalog.Award{}, first...), second...) {
		key := match.Normalize(award.String())
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, award)
	}
	switch {
	case len(out) == 0:
		return nil, ""
	case len(first) == 0:
		return out, sourceScraped
	case len(second) == 0:
		return out, sourceStructured
	default:
		return out, sourceMerged
	}
}
