package enrich

import (
	"context"
	"errors"
	"testing"

	"marquee/internal/catalog"
	"marquee/internal/match"
)

func TestSelectStructuredPrefersDirectorMatch(t *testing.T) {
	candidates := []catalog.Candidate{
		{ID: "1", Title: "Le Samouraï"},
		{ID: "2", Title: "Le Samouraï"},
	}
	directors := map[string][]string{
		"1": {"Someone Else"},
		"2": {"Jean-Pierre Melville"},
	}
	fetch := func(_ context.Context, c catalog.Candidate) ([]string, error) {
		return directors[c.ID], nil
	}

	result := SelectStructured(context.Background(), match.DefaultTuning(), "Le Samouraï", "Jean-Pierre Melville", candidates, fetch)
	if !result.Found {
		t.Fatal("expected a selection")
	}
	if result.Candidate.ID != "2" {
		t.Errorf("selected %s, want candidate 2", result.Candidate.ID)
	}
	if result.DirectorScore < 0.99 {
		t.Errorf("director score = %.2f, want ~1.0", result.DirectorScore)
	}
}

func TestSelectStructuredShortCircuits(t *testing.T) {
	candidates := []catalog.Candidate{
		{ID: "1", Title: "Playtime"},
		{ID: "2", Title: "Playtime"},
		{ID: "3", Title: "Playtime"},
	}
	calls := 0
	fetch := func(_ context.Context, c catalog.Candidate) ([]string, error) {
		calls++
		if c.ID == "2" {
			return []string{"Jacques Tati"}, nil
		}
		return []string{"Nobody"}, nil
	}

	result := SelectStructured(context.Background(), match.DefaultTuning(), "Playtime", "Jacques Tati", candidates, fetch)
	if result.Candidate.ID != "2" {
		t.Fatalf("selected %s, want candidate 2", result.Candidate.ID)
	}
	if calls != 2 {
		t.Errorf("credits fetched %d times, want 2 (short-circuit on accept)", calls)
	}
}

func TestSelectStructuredNoDirectorTakesTopHit(t *testing.T) {
	candidates := []catalog.Candidate{
		{ID: "10", Title: "Stalker"},
		{ID: "11", Title: "Stalker Returns"},
	}
	fetch := func(context.Context, catalog.Candidate) ([]string, error) {
		return []string{"Andrei Tarkovsky"}, nil
	}

	result := SelectStructured(context.Background(), match.DefaultTuning(), "Stalker", "", candidates, fetch)
	if result.Candidate.ID != "10" {
		t.Errorf("selected %s, want top hit", result.Candidate.ID)
	}
	if len(result.Directors) == 0 {
		t.Error("credits should still be attached to the top hit")
	}
}

func TestSelectStructuredCreditsFailureIsNotFatal(t *testing.T) {
	candidates := []catalog.Candidate{
		{ID: "1", Title: "La Jetée"},
		{ID: "2", Title: "La Jetée"},
	}
	fetch := func(_ context.Context, c catalog.Candidate) ([]string, error) {
		if c.ID == "1" {
			return nil, errors.New("credits unavailable")
		}
		return []string{"Chris Marker"}, nil
	}

	result := SelectStructured(context.Background(), match.DefaultTuning(), "La Jetée", "Chris Marker", candidates, fetch)
	if !result.Found {
		t.Fatal("expected a selection despite the credits failure")
	}
	if result.Candidate.ID != "2" {
		t.Errorf("selected %s, want the candidate with matching credits", result.Candidate.ID)
	}
}

func TestSelectStructuredCandidateLimit(t *testing.T) {
	tuning := match.DefaultTuning()
	tuning.TMDBCandidateLimit = 2
	candidates := []catalog.Candidate{
		{ID: "1", Title: "Nosferatu"},
		{ID: "2", Title: "Nosferatu"},
		{ID: "3", Title: "Nosferatu"},
	}
	calls := 0
	fetch := func(context.Context, catalog.Candidate) ([]string, error) {
		calls++
		return []string{"Nobody"}, nil
	}

	result := SelectStructured(context.Background(), tuning, "Nosferatu", "F.W. Murnau", candidates, fetch)
	if calls > 2 {
		t.Errorf("credits fetched %d times, want at most the candidate limit", calls)
	}
	if len(result.Candidates) != 2 {
		t.Errorf("considered pool = %d, want 2", len(result.Candidates))
	}
}

func TestSelectScrapedAcceptanceThreshold(t *testing.T) {
	tuning := match.DefaultTuning()
	candidates := []catalog.Candidate{
		{ID: "7", Title: "Cléo de 5 à 7", Directors: []string{"Agnès Varda"}},
	}

	accepted := SelectScraped(tuning, "Cléo de 5 à 7", "Agnès Varda", candidates)
	if !accepted.Found {
		t.Errorf("exact match should be accepted, composite = %.2f", accepted.Composite)
	}

	rejected := SelectScraped(tuning, "Cléo de 5 à 7", "Agnès Varda", []catalog.Candidate{
		{ID: "8", Title: "Un film totalement différent", Directors: []string{"Quelqu'un D'Autre"}},
	})
	if rejected.Found {
		t.Errorf("weak match should not be accepted, composite = %.2f", rejected.Composite)
	}
}

func TestSelectScrapedTitleOnlyWithoutDirector(t *testing.T) {
	candidates := []catalog.Candidate{
		{ID: "7", Title: "Playtime"},
	}
	result := SelectScraped(match.DefaultTuning(), "Playtime", "", candidates)
	if !result.Found {
		t.Fatal("exact title without programme director should be accepted")
	}
	if result.Composite != result.TitleScore {
		t.Errorf("composite = %.2f, want pure title score %.2f", result.Composite, result.TitleScore)
	}
}

func TestSelectEmptyCandidatePools(t *testing.T) {
	if r := SelectStructured(context.Background(), match.DefaultTuning(), "X", "Y", nil, nil); r.Found {
		t.Error("structured selection over empty pool should not find")
	}
	if r := SelectScraped(match.DefaultTuning(), "X", "Y", nil); r.Found {
		t.Error("scraped selection over empty pool should not find")
	}
}
