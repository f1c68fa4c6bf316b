package match

// Tuning holds the composite-score weights and acceptance thresholds for
// both catalogs plus the cross-catalog verification bar. Values are
// surfaced through the [matching] configuration section; DefaultTuning
// documents the calibrated defaults.
type Tuning struct {
	// Structured catalog (TMDB).
	TMDBTitleWeight    float64
	TMDBDirectorWeight float64
	// TMDBDirectorAccept short-circuits candidate ranking as soon as a
	// candidate's director score reaches it.
	TMDBDirectorAccept float64
	TMDBCandidateLimit int

	// Scraped catalog (AlloCiné).
	AlloCineTitleWeight    float64
	AlloCineDirectorWeight float64
	// AlloCineAccept is the minimum composite score for a scraped-catalog
	// match to be accepted at all.
	AlloCineAccept float64

	// Cross-catalog verification requires both scores to clear their bar.
	VerifyTitleThreshold    float64
	VerifyDirectorThreshold float64
}

// DefaultTuning returns the calibrated weights and thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		TMDBTitleWeight:    0.80,
		TMDBDirectorWeight: 0.20,
		TMDBDirectorAccept: 0.90,
		TMDBCandidateLimit: 25,

		AlloCineTitleWeight:    0.70,
		AlloCineDirectorWeight: 0.30,
		AlloCineAccept:         0.85,

		VerifyTitleThreshold:    0.85,
		VerifyDirectorThreshold: 0.85,
	}
}
