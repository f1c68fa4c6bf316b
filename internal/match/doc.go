// Package match implements the text normalization and similarity scoring
// used to reconcile programme titles and director names against catalog
// candidates. All functions are pure; weights and acceptance thresholds
// live in Tuning so callers can expose them through configuration.
package match
