package enrich

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"marquee/internal/catalog"
	"marquee/internal/catalog/allocine"
	"marquee/internal/catalog/tmdb"
	"marquee/internal/logging"
	"marquee/internal/match"
	"marquee/internal/programme"
)

const (
	defaultWorkers      = 6
	defaultCastLimit    = 8
	maxBackdropsPerSide = 6

	structuredCatalog = "tmdb"
	scrapedCatalog    = "allocine"

	fallbackLanguage = "en-US"
)

// Engine drives the enrichment of a programme batch against both catalogs.
type Engine struct {
	tuning    match.Tuning
	tmdb      *tmdb.Client
	allocine  *allocine.Client
	resolver  Resolver
	logger    *slog.Logger
	workers   int
	castLimit int
}

// Options tunes an Engine. Zero values fall back to defaults.
type Options struct {
	Tuning    match.Tuning
	Resolver  Resolver
	Logger    *slog.Logger
	Workers   int
	CastLimit int
}

// New builds an Engine over the two catalog clients.
func New(tmdbClient *tmdb.Client, allocineClient *allocine.Client, opts Options) *Engine {
	tuning := opts.Tuning
	if tuning == (match.Tuning{}) {
		tuning = match.DefaultTuning()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = PolicyResolver{Decision: DecisionMerge}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = defaultWorkers
	}
	castLimit := opts.CastLimit
	if castLimit < 1 {
		castLimit = defaultCastLimit
	}
	return &Engine{
		tuning:    tuning,
		tmdb:      tmdbClient,
		allocine:  allocineClient,
		resolver:  resolver,
		logger:    logger,
		workers:   workers,
		castLimit: castLimit,
	}
}

// Summary counts batch outcomes by status.
type Summary struct {
	Total    int
	Enriched int
	Review   int
	Skipped  int
	Failed   int
}

// recordState accumulates one record's intermediate results across phases.
type recordState struct {
	rec programme.ScreeningRecord

	scrapedPick MatchResult
	scrapedMeta allocine.Meta
	filmID      string

	structuredPick MatchResult
	usedLanguage   string

	verification Verification
	bothFound    bool
	decision     Decision

	structuredFields Fields
	scrapedFields    Fields

	// Catalog lookup errors are tolerated per side; they only surface
	// on the record when neither catalog contributed anything.
	scrapedErr    error
	structuredErr error

	skipped bool
	err     error
}

// EnrichBatch resolves and enriches every record. Phases run as sequential
// barriers; within a phase records are processed in parallel, except
// mismatch resolution and the final merge which stay sequential so an
// interactive resolver keeps exclusive use of the terminal.
func (e *Engine) EnrichBatch(ctx context.Context, records []programme.ScreeningRecord) ([]programme.EnrichedRecord, Summary) {
	states := make([]*recordState, len(records))
	for i, rec := range records {
		states[i] = &recordState{rec: rec, skipped: rec.Title == ""}
	}

	e.logger.Info("enrichment batch started",
		logging.Int("records", len(records)),
		logging.Int("workers", e.workers))

	cache := catalog.NewCache()

	e.runPhase(ctx, "scraped search", states, e.phaseScrapedSearch)
	e.runPhase(ctx, "scraped metadata", states, e.phaseScrapedMetadata)
	e.runPhase(ctx, "structured search", states, func(ctx context.Context, state *recordState) error {
		return e.phaseStructuredSearch(ctx, cache, state)
	})
	e.phaseResolve(ctx, states)

	e.runPhase(ctx, "structured details", states, func(ctx context.Context, state *recordState) error {
		return e.phaseStructuredDetails(ctx, cache, state)
	})

	out := make([]programme.EnrichedRecord, len(states))
	var summary Summary
	summary.Total = len(states)
	for i, state := range states {
		out[i] = e.finalize(state)
		switch out[i].Status {
		case programme.StatusEnriched:
			summary.Enriched++
		case programme.StatusReview:
			summary.Review++
		case programme.StatusSkipped:
			summary.Skipped++
		case programme.StatusFailed:
			summary.Failed++
		}
	}

	e.logger.Info("enrichment batch finished",
		logging.Int("enriched", summary.Enriched),
		logging.Int("review", summary.Review),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed))
	return out, summary
}

// runPhase fans a phase function out over all non-skipped records. A phase
// error marks only its own record as failed.
func (e *Engine) runPhase(ctx context.Context, name string, states []*recordState, fn func(context.Context, *recordState) error) {
	e.logger.Debug("phase started", logging.String("phase", name))
	errs := make([]error, len(states))
	forEach(ctx, e.workers, len(states), errs, func(ctx context.Context, i int) error {
		state := states[i]
		if state.skipped || state.err != nil {
			return nil
		}
		return fn(ctx, state)
	})
	for i, err := range errs {
		if err != nil && states[i].err == nil {
			states[i].err = err
			e.logger.Warn("record failed",
				logging.String("phase", name),
				logging.String("title", states[i].rec.Title),
				logging.Error(err))
		}
	}
}

func (e *Engine) phaseScrapedSearch(ctx context.Context, state *recordState) error {
	candidates, err := e.allocine.Search(ctx, state.rec.Title)
	if err != nil {
		// The scraped catalog is best effort; the structured side can
		// still carry the record.
		e.logger.Warn("scraped search failed",
			logging.String("title", state.rec.Title),
			logging.Error(err))
		state.scrapedErr = err
		return nil
	}
	state.scrapedPick = SelectScraped(e.tuning, state.rec.Title, state.rec.Director, candidates)
	if state.scrapedPick.Found {
		e.logger.Debug("scraped candidate selected",
			logging.String("title", state.rec.Title),
			logging.String("matched", state.scrapedPick.Candidate.Title),
			logging.Float64("composite", state.scrapedPick.Composite))
	}
	return nil
}

func (e *Engine) phaseScrapedMetadata(ctx context.Context, state *recordState) error {
	if !state.scrapedPick.Found {
		return nil
	}
	pick := state.scrapedPick.Candidate
	state.filmID = pick.ID

	meta, err := e.allocine.Movie(ctx, pick.PageURL)
	if err != nil {
		e.logger.Warn("scraped metadata failed",
			logging.String("title", state.rec.Title),
			logging.Error(err))
		meta = allocine.Meta{Title: pick.Title, Directors: pick.Directors}
	}
	if meta.Title == "" {
		meta.Title = pick.Title
	}
	if len(meta.Directors) == 0 {
		meta.Directors = pick.Directors
	}
	state.scrapedMeta = meta

	fields := Fields{
		Synopsis:       meta.Synopsis,
		Genres:         meta.Genres,
		RuntimeMinutes: meta.RuntimeMinutes,
		Countries:      meta.Countries,
		Directors:      meta.Directors,
		Cast:           capList(meta.Actors, e.castLimit),
		ReleaseDate:    meta.ReleaseDate,
		PosterURL:      meta.PosterURL,
	}

	if state.filmID != "" {
		if awards, err := e.allocine.Awards(ctx, state.filmID); err == nil {
			fields.Awards = awards
		} else {
			e.logger.Warn("awards fetch failed",
				logging.String("title", state.rec.Title),
				logging.Error(err))
		}
		if photos, err := e.allocine.Photos(ctx, state.filmID, meta.PosterURL); err == nil {
			fields.Backdrops = capList(photos, maxBackdropsPerSide)
		} else {
			e.logger.Warn("photos fetch failed",
				logging.String("title", state.rec.Title),
				logging.Error(err))
		}
	}
	state.scrapedFields = fields
	return nil
}

func (e *Engine) phaseStructuredSearch(ctx context.Context, cache *catalog.Cache, state *recordState) error {
	primary := e.tmdb.Language()
	candidates, language, err := e.searchStructured(ctx, state.rec.Title, primary)
	if err != nil {
		// The structured side is also best effort; whatever the scraped
		// catalog collected still goes out.
		e.logger.Warn("structured search failed",
			logging.String("title", state.rec.Title),
			logging.Error(err))
		state.structuredErr = err
		return nil
	}
	state.usedLanguage = language

	fetch := func(ctx context.Context, candidate catalog.Candidate) ([]string, error) {
		credits, err := e.cachedCredits(ctx, cache, candidate.ID, language)
		if err != nil {
			return nil, err
		}
		return credits.Directors, nil
	}
	state.structuredPick = SelectStructured(ctx, e.tuning, state.rec.Title, state.rec.Director, candidates, fetch)
	if state.structuredPick.Found {
		e.logger.Debug("structured candidate selected",
			logging.String("title", state.rec.Title),
			logging.String("matched", state.structuredPick.Candidate.Title),
			logging.String("language", language),
			logging.Float64("director_score", state.structuredPick.DirectorScore))
	}
	return nil
}

// searchStructured queries the primary catalog language and retries in the
// fallback one when the first search comes back empty.
func (e *Engine) searchStructured(ctx context.Context, title, primary string) ([]catalog.Candidate, string, error) {
	for _, language := range languageChain(primary) {
		resp, err := e.tmdb.SearchMovie(ctx, title, language)
		if err != nil {
			return nil, language, err
		}
		if len(resp.Results) > 0 {
			return resultCandidates(resp.Results), language, nil
		}
	}
	return nil, primary, nil
}

func languageChain(primary string) []string {
	if primary == fallbackLanguage {
		return []string{primary}
	}
	return []string{primary, fallbackLanguage}
}

func resultCandidates(results []tmdb.Result) []catalog.Candidate {
	candidates := make([]catalog.Candidate, 0, len(results))
	for _, result := range results {
		candidates = append(candidates, catalog.Candidate{
			ID:            formatMovieID(result.ID),
			Title:         result.Title,
			OriginalTitle: result.OriginalTitle,
			ReleaseDate:   result.ReleaseDate,
			Popularity:    result.Popularity,
			VoteCount:     result.VoteCount,
		})
	}
	return candidates
}

// phaseResolve cross-verifies the two picks record by record and asks the
// resolver to arbitrate mismatches. It runs sequentially.
func (e *Engine) phaseResolve(ctx context.Context, states []*recordState) {
	for _, state := range states {
		if state.skipped || state.err != nil {
			continue
		}
		if !state.scrapedPick.Found || !state.structuredPick.Found {
			state.decision = DecisionDefault
			continue
		}
		state.bothFound = true

		scraped := CatalogView{
			Title:       state.scrapedMeta.Title,
			Directors:   state.scrapedMeta.Directors,
			ReleaseDate: state.scrapedMeta.ReleaseDate,
		}
		structured := CatalogView{
			Title:         state.structuredPick.Candidate.Title,
			OriginalTitle: state.structuredPick.Candidate.OriginalTitle,
			Directors:     state.structuredPick.Directors,
			ReleaseDate:   state.structuredPick.Candidate.ReleaseDate,
		}
		state.verification = Verify(e.tuning, scraped, structured)
		if state.verification.Verified {
			state.decision = DecisionDefault
			continue
		}

		e.logger.Info("catalog mismatch",
			logging.String("title", state.rec.Title),
			logging.Float64("title_score", state.verification.TitleScore),
			logging.Float64("director_score", state.verification.DirectorScore))
		decision, err := e.resolver.Resolve(ctx, state.rec, scraped, structured, state.verification)
		if err != nil {
			state.err = err
			continue
		}
		state.decision = decision
	}
}

func (e *Engine) phaseStructuredDetails(ctx context.Context, cache *catalog.Cache, state *recordState) error {
	if !state.structuredPick.Found || state.decision == DecisionSkip {
		return nil
	}
	movieID := mustMovieID(state.structuredPick.Candidate.ID)
	language := state.usedLanguage
	if language == "" {
		language = e.tmdb.Language()
	}

	detail, err := e.cachedDetail(ctx, cache, state.structuredPick.Candidate.ID, language)
	if err != nil {
		e.logger.Warn("structured details failed",
			logging.String("title", state.rec.Title),
			logging.Error(err))
		state.structuredErr = err
		return nil
	}

	credits, err := e.cachedCredits(ctx, cache, state.structuredPick.Candidate.ID, language)
	if err != nil {
		e.logger.Warn("structured credits failed",
			logging.String("title", state.rec.Title),
			logging.Error(err))
		state.structuredErr = err
		return nil
	}

	fields := Fields{
		Synopsis:       detail.Synopsis,
		Genres:         detail.Genres,
		RuntimeMinutes: detail.RuntimeMinutes,
		Countries:      detail.Countries,
		Directors:      credits.Directors,
		Cast:           credits.Cast,
		ReleaseDate:    detail.ReleaseDate,
		PosterURL:      detail.PosterURL,
	}

	// A domestic release date outranks the generic one.
	if releaseDates, err := e.tmdb.MovieReleaseDates(ctx, movieID); err == nil {
		if fr := releaseDates.DateForCountry("FR"); fr != "" {
			fields.ReleaseDate = fr
		}
	}

	if images, err := e.tmdb.MovieImages(ctx, movieID); err == nil {
		fields.Backdrops = images.TopBackdrops(maxBackdropsPerSide)
	}

	desired := tmdb.PreferredTrailerLanguage(state.rec.Version, detail.OriginalLanguage)
	videos := e.tmdb.CollectVideos(ctx, movieID, language)
	fields.TrailerURL = tmdb.PickTrailer(videos, desired, detail.CountryCodes)

	state.structuredFields = fields
	return nil
}

// cachedDetail fetches movie details through the batch cache.
func (e *Engine) cachedDetail(ctx context.Context, cache *catalog.Cache, id, language string) (catalog.Detail, error) {
	key := catalog.Key(structuredCatalog, id, language)
	return cache.Details(ctx, key, func(ctx context.Context) (catalog.Detail, error) {
		details, err := e.tmdb.MovieDetails(ctx, mustMovieID(id), language)
		if err != nil {
			return catalog.Detail{}, err
		}
		d := catalog.Detail{
			Synopsis:         details.Overview,
			RuntimeMinutes:   details.Runtime,
			ReleaseDate:      details.ReleaseDate,
			PosterURL:        tmdb.ImageURL(details.PosterPath),
			OriginalLanguage: details.OriginalLanguage,
		}
		for _, genre := range details.Genres {
			if genre.Name != "" {
				d.Genres = append(d.Genres, genre.Name)
			}
		}
		for _, country := range details.ProductionCountries {
			if country.Name != "" {
				d.Countries = append(d.Countries, country.Name)
			}
			if country.ISO3166 != "" {
				d.CountryCodes = append(d.CountryCodes, country.ISO3166)
			}
		}
		return d, nil
	})
}

// cachedCredits fetches movie credits through the batch cache. Candidate
// ranking and the details phase share the same entries.
func (e *Engine) cachedCredits(ctx context.Context, cache *catalog.Cache, id, language string) (catalog.Credits, error) {
	key := catalog.Key(structuredCatalog, id, language)
	return cache.Credits(ctx, key, func(ctx context.Context) (catalog.Credits, error) {
		resp, err := e.tmdb.MovieCredits(ctx, mustMovieID(id), language)
		if err != nil {
			return catalog.Credits{}, err
		}
		return catalog.Credits{
			Directors: resp.Directors(),
			Cast:      resp.MainCast(e.castLimit),
		}, nil
	})
}

// finalize merges the two field groups under the record's decision and
// shapes the output record.
func (e *Engine) finalize(state *recordState) programme.EnrichedRecord {
	out := programme.EnrichedRecord{
		ScreeningRecord:   state.rec,
		CineClubScreening: state.rec.CineClub(),
		SchoolScreening:   state.rec.School(),
	}

	switch {
	case state.skipped:
		out.Status = programme.StatusSkipped
		return out
	case state.err != nil:
		out.Status = programme.StatusFailed
		out.Error = state.err.Error()
		return out
	}

	fields, sources := Merge(state.decision, state.structuredFields, state.scrapedFields)

	out.Decision = string(state.decision)
	out.Verified = state.verification.Verified
	out.TitleScore = state.verification.TitleScore
	out.DirectorScore = state.verification.DirectorScore
	out.Sources = sources
	out.Synopsis = fields.Synopsis
	out.Genres = fields.Genres
	out.RuntimeMinutes = fields.RuntimeMinutes
	out.Countries = fields.Countries
	out.Directors = fields.Directors
	out.Cast = fields.Cast
	out.Awards = fields.Awards
	out.ReleaseDate = fields.ReleaseDate
	out.PosterURL = fields.PosterURL
	out.Backdrops = fields.Backdrops
	out.TrailerURL = fields.TrailerURL

	if state.structuredPick.Found {
		out.TMDBID = mustMovieID(state.structuredPick.Candidate.ID)
		out.MatchedTitle = state.structuredPick.Candidate.Title
	}
	if state.scrapedPick.Found {
		out.ScrapedPageURL = state.scrapedPick.Candidate.PageURL
		if out.MatchedTitle == "" {
			out.MatchedTitle = state.scrapedMeta.Title
		}
	}

	lookupErr := state.structuredErr
	if lookupErr == nil {
		lookupErr = state.scrapedErr
	}
	switch {
	case state.decision == DecisionSkip:
		out.Status = programme.StatusSkipped
	case fields.Empty() && lookupErr != nil:
		out.Status = programme.StatusFailed
		out.Error = lookupErr.Error()
	case fields.Empty():
		out.Status = programme.StatusReview
	default:
		out.Status = programme.StatusEnriched
	}
	return out
}

func capList(items []string, limit int) []string {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func formatMovieID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func mustMovieID(id string) int64 {
	parsed, _ := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	return parsed
}
