// Package config loads and validates the TOML configuration. Defaults are
// applied first, then the file overlays them, then environment fallbacks
// such as TMDB_API_KEY. Path fields come back expanded and absolute.
package config
