package enrich

import (
	"context"

	"marquee/internal/programme"
)

// Resolver decides which catalog wins when cross-verification flags a
// mismatch. Implementations may consult the user interactively or apply a
// fixed policy.
type Resolver interface {
	Resolve(ctx context.Context, record programme.ScreeningRecord, scraped, structured CatalogView, verification Verification) (Decision, error)
}

// PolicyResolver always answers with a fixed decision. It is the unattended
// default, resolving every mismatch by merging.
type PolicyResolver struct {
	Decision Decision
}

// Resolve returns the configured decision, falling back to merge when none
// was set.
func (p PolicyResolver) Resolve(context.Context, programme.ScreeningRecord, CatalogView, CatalogView, Verification) (Decision, error) {
	if p.Decision == DecisionDefault {
		return DecisionMerge, nil
	}
	return p.Decision, nil
}
