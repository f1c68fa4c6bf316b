// Package catalog defines the narrow contract the enrichment engine uses to
// talk to film metadata sources: candidate, detail, credit, image, and award
// payload types, the error taxonomy shared by both catalog clients, and the
// per-run lookup cache that bounds redundant network calls.
package catalog
