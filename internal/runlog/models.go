package runlog

import "time"

// Run is one enrichment batch with its outcome counts.
type Run struct {
	ID         string
	InputPath  string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Enriched   int
	Review     int
	Skipped    int
	Failed     int
}

// Totals carries the final counts written when a run finishes.
type Totals struct {
	Total    int
	Enriched int
	Review   int
	Skipped  int
	Failed   int
}

// Outcome records how one screening record fared in a run.
type Outcome struct {
	RunID          string
	Title          string
	Status         string
	Decision       string
	Verified       bool
	TitleScore     float64
	DirectorScore  float64
	TMDBID         int64
	ScrapedPageURL string
	Error          string
}
