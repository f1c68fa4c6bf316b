// Package allocine scrapes film metadata from AlloCiné pages: free-text
// search results, film detail pages (via their JSON-LD block), palmarès
// (awards) pages, and photo galleries. It is the scraped-catalog side of
// the enrichment engine; candidates are keyed by film page id, not by a
// query API.
package allocine
