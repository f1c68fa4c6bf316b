// Package tmdb provides access to The Movie Database API: movie search,
// details, credits, images, videos, and regional release dates. It is the
// structured-catalog side of the enrichment engine.
package tmdb
