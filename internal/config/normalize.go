package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeAlloCine()
	c.normalizeEnrichment()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if strings.TrimSpace(c.TMDB.APIKey) == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.TMDB.BaseURL) == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.BaseURL = strings.TrimRight(c.TMDB.BaseURL, "/")
	if strings.TrimSpace(c.TMDB.Language) == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
}

func (c *Config) normalizeAlloCine() {
	if strings.TrimSpace(c.AlloCine.BaseURL) == "" {
		c.AlloCine.BaseURL = defaultAlloCineBaseURL
	}
	c.AlloCine.BaseURL = strings.TrimRight(c.AlloCine.BaseURL, "/")
	if c.AlloCine.TimeoutSeconds <= 0 {
		c.AlloCine.TimeoutSeconds = defaultAlloCineTimeoutSeconds
	}
	if strings.TrimSpace(c.AlloCine.UserAgent) == "" {
		c.AlloCine.UserAgent = defaultAlloCineUserAgent
	}
}

func (c *Config) normalizeEnrichment() {
	if c.Enrichment.Workers <= 0 {
		c.Enrichment.Workers = defaultWorkers
	}
	c.Enrichment.MismatchPolicy = strings.ToLower(strings.TrimSpace(c.Enrichment.MismatchPolicy))
	if c.Enrichment.MismatchPolicy == "" {
		c.Enrichment.MismatchPolicy = defaultMismatchPolicy
	}
	if c.Enrichment.CastLimit <= 0 {
		c.Enrichment.CastLimit = defaultCastLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
