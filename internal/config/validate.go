package config

import (
	"errors"
	"fmt"
)

var mismatchPolicies = map[string]struct{}{
	"ask":      {},
	"merge":    {},
	"tmdb":     {},
	"allocine": {},
	"skip":     {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return c.validateEnrichment()
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/marquee/config.toml"
		}
		return fmt.Errorf("tmdb.api_key is required. Set TMDB_API_KEY env var or edit %s (create with 'marquee config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateMatching() error {
	thresholds := map[string]float64{
		"matching.tmdb_director_accept":      c.Matching.TMDBDirectorAccept,
		"matching.allocine_accept":           c.Matching.AlloCineAccept,
		"matching.verify_title_threshold":    c.Matching.VerifyTitleThreshold,
		"matching.verify_director_threshold": c.Matching.VerifyDirectorThreshold,
		"matching.tmdb_title_weight":         c.Matching.TMDBTitleWeight,
		"matching.tmdb_director_weight":      c.Matching.TMDBDirectorWeight,
		"matching.allocine_title_weight":     c.Matching.AlloCineTitleWeight,
		"matching.allocine_director_weight":  c.Matching.AlloCineDirectorWeight,
	}
	for name, value := range thresholds {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if c.Matching.TMDBCandidateLimit < 1 {
		return errors.New("matching.tmdb_candidate_limit must be at least 1")
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if _, ok := mismatchPolicies[c.Enrichment.MismatchPolicy]; !ok {
		return fmt.Errorf("enrichment.mismatch_policy must be one of ask, merge, tmdb, allocine, skip (got %q)", c.Enrichment.MismatchPolicy)
	}
	return nil
}
