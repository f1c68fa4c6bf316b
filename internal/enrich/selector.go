package enrich

import (
	"context"

	"marquee/internal/catalog"
	"marquee/internal/match"
)

// MatchResult is the outcome of candidate selection against one catalog.
type MatchResult struct {
	Candidate     catalog.Candidate
	TitleScore    float64
	DirectorScore float64
	Composite     float64
	// Directors is the selected candidate's director list, fetched from
	// credits for the structured catalog or scraped from the result row.
	Directors []string
	// Candidates is the considered pool, kept for run audit records.
	Candidates []catalog.Candidate
	// Found reports whether the selection passed the catalog's acceptance
	// rule.
	Found bool
}

// DirectorFetch loads the director list for a structured-catalog candidate.
type DirectorFetch func(ctx context.Context, candidate catalog.Candidate) ([]string, error)

// SelectStructured ranks structured-catalog candidates for a screening
// record. With a programme director the ranking is director-score first,
// title-score second, candidate order last, short-circuiting as soon as a
// candidate clears the director-accept threshold. Without one the top
// search hit is taken as-is. Credits failures demote the candidate to a
// zero director score instead of aborting the record.
func SelectStructured(ctx context.Context, tuning match.Tuning, title, director string, candidates []catalog.Candidate, fetch DirectorFetch) MatchResult {
	if len(candidates) == 0 {
		return MatchResult{}
	}
	if tuning.TMDBCandidateLimit > 0 && len(candidates) > tuning.TMDBCandidateLimit {
		candidates = candidates[:tuning.TMDBCandidateLimit]
	}
	variants := match.TitleVariants(title)

	if director == "" {
		top := candidates[0]
		if fetch != nil {
			if names, err := fetch(ctx, top); err == nil {
				top.Directors = names
			}
		}
		titleScore := match.TitleSimilarity(variants, top.Title, top.OriginalTitle)
		return MatchResult{
			Candidate:  top,
			TitleScore: titleScore,
			Composite:  titleScore,
			Directors:  top.Directors,
			Candidates: candidates,
			Found:      true,
		}
	}

	var best MatchResult
	for _, candidate := range candidates {
		titleScore := match.TitleSimilarity(variants, candidate.Title, candidate.OriginalTitle)
		directorScore := 0.0
		if fetch != nil {
			if names, err := fetch(ctx, candidate); err == nil {
				candidate.Directors = names
				directorScore = match.BestDirectorMatch(director, candidate.DirectorsJoined())
			}
		}
		if !best.Found || betterStructured(directorScore, titleScore, best) {
			best = MatchResult{
				Candidate:     candidate,
				TitleScore:    titleScore,
				DirectorScore: directorScore,
				Directors:     candidate.Directors,
				Found:         true,
			}
		}
		if directorScore >= tuning.TMDBDirectorAccept {
			break
		}
	}
	best.Composite = tuning.TMDBTitleWeight*best.TitleScore + tuning.TMDBDirectorWeight*best.DirectorScore
	best.Candidates = candidates
	return best
}

func betterStructured(directorScore, titleScore float64, best MatchResult) bool {
	if directorScore != best.DirectorScore {
		return directorScore > best.DirectorScore
	}
	return titleScore > best.TitleScore
}

// SelectScraped scores scraped-catalog candidates and accepts the best one
// only when its composite clears the acceptance threshold. Directors come
// from the search result rows, so no extra fetching happens here.
func SelectScraped(tuning match.Tuning, title, director string, candidates []catalog.Candidate) MatchResult {
	if len(candidates) == 0 {
		return MatchResult{}
	}
	variants := match.TitleVariants(title)

	var best MatchResult
	for _, candidate := range candidates {
		titleScore := match.TitleSimilarity(variants, candidate.Title, candidate.OriginalTitle)
		directorScore := 0.0
		composite := titleScore
		if director != "" {
			directorScore = match.BestDirectorMatch(director, candidate.DirectorsJoined())
			composite = tuning.AlloCineTitleWeight*titleScore + tuning.AlloCineDirectorWeight*directorScore
		}
		if composite > best.Composite || best.Candidate.Title == "" {
			best = MatchResult{
				Candidate:     candidate,
				TitleScore:    titleScore,
				DirectorScore: directorScore,
				Composite:     composite,
				Directors:     candidate.Directors,
			}
		}
	}
	best.Candidates = candidates
	best.Found = best.Composite >= tuning.AlloCineAccept
	return best
}
