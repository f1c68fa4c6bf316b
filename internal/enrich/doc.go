// Package enrich reconciles programme screening records against the two
// movie catalogs. It selects the best candidate per catalog, cross-verifies
// the two picks, resolves mismatches, merges field groups, and drives the
// whole batch through a bounded worker pool.
package enrich
