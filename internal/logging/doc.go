// Package logging builds the application's slog loggers. The console format
// renders compact single-line records for interactive use; the json format
// is for machine consumption. Typed attribute helpers keep log call sites
// uniform across packages.
package logging
