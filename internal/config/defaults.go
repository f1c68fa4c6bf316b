package config

import "marquee/internal/match"

const (
	defaultDataDir = "~/.local/share/marquee"
	defaultLogDir  = "~/.local/share/marquee/logs"

	defaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	defaultTMDBLanguage = "fr-FR"

	defaultAlloCineBaseURL        = "https://www.allocine.fr"
	defaultAlloCineTimeoutSeconds = 12
	defaultAlloCineUserAgent      = "Marquee/1.0"

	defaultWorkers        = 6
	defaultMismatchPolicy = "merge"
	defaultCastLimit      = 8

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	tuning := match.DefaultTuning()
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		AlloCine: AlloCine{
			BaseURL:        defaultAlloCineBaseURL,
			TimeoutSeconds: defaultAlloCineTimeoutSeconds,
			UserAgent:      defaultAlloCineUserAgent,
		},
		Matching: Matching{
			TMDBTitleWeight:         tuning.TMDBTitleWeight,
			TMDBDirectorWeight:      tuning.TMDBDirectorWeight,
			TMDBDirectorAccept:      tuning.TMDBDirectorAccept,
			TMDBCandidateLimit:      tuning.TMDBCandidateLimit,
			AlloCineTitleWeight:     tuning.AlloCineTitleWeight,
			AlloCineDirectorWeight:  tuning.AlloCineDirectorWeight,
			AlloCineAccept:          tuning.AlloCineAccept,
			VerifyTitleThreshold:    tuning.VerifyTitleThreshold,
			VerifyDirectorThreshold: tuning.VerifyDirectorThreshold,
		},
		Enrichment: Enrichment{
			Workers:        defaultWorkers,
			MismatchPolicy: defaultMismatchPolicy,
			CastLimit:      defaultCastLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// Tuning converts the matching section into the scorer's tuning struct.
func (c *Config) Tuning() match.Tuning {
	return match.Tuning{
		TMDBTitleWeight:         c.Matching.TMDBTitleWeight,
		TMDBDirectorWeight:      c.Matching.TMDBDirectorWeight,
		TMDBDirectorAccept:      c.Matching.TMDBDirectorAccept,
		TMDBCandidateLimit:      c.Matching.TMDBCandidateLimit,
		AlloCineTitleWeight:     c.Matching.AlloCineTitleWeight,
		AlloCineDirectorWeight:  c.Matching.AlloCineDirectorWeight,
		AlloCineAccept:          c.Matching.AlloCineAccept,
		VerifyTitleThreshold:    c.Matching.VerifyTitleThreshold,
		VerifyDirectorThreshold: c.Matching.VerifyDirectorThreshold,
	}
}
