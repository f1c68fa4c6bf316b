// Package runlog persists enrichment run history to SQLite so past batches
// can be audited: which records matched, which needed review, and which
// catalog each decision favored. Lookup results themselves are never stored,
// only outcomes.
package runlog
