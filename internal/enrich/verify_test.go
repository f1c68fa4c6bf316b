package enrich

import (
	"testing"

	"marquee/internal/match"
)

func TestVerifyMatchingFilm(t *testing.T) {
	tuning := match.DefaultTuning()
	scraped := CatalogView{
		Title:       "Le Voyage dans la Lune",
		Directors:   []string{"Georges Méliès"},
		ReleaseDate: "1902-09-01",
	}
	structured := CatalogView{
		Title:         "A Trip to the Moon",
		OriginalTitle: "Le Voyage dans la Lune",
		Directors:     []string{"Georges Melies"},
		ReleaseDate:   "1902-09-01",
	}

	v := Verify(tuning, scraped, structured)
	if !v.Verified {
		t.Errorf("expected verified, scores title=%.2f director=%.2f", v.TitleScore, v.DirectorScore)
	}
	if v.DateMatch == nil || !*v.DateMatch {
		t.Error("identical dates should report a positive date match")
	}
}

func TestVerifyDirectorMismatchBlocksEvenPerfectTitle(t *testing.T) {
	tuning := match.DefaultTuning()
	scraped := CatalogView{
		Title:     "Solaris",
		Directors: []string{"Andrei Tarkovsky"},
	}
	structured := CatalogView{
		Title:     "Solaris",
		Directors: []string{"Steven Soderbergh"},
	}

	v := Verify(tuning, scraped, structured)
	if v.TitleScore < 0.99 {
		t.Fatalf("title score = %.2f, want ~1.0", v.TitleScore)
	}
	if v.Verified {
		t.Error("different directors must not verify, title similarity alone is not enough")
	}
}

func TestVerifyDateMatchAdvisory(t *testing.T) {
	tuning := match.DefaultTuning()
	scraped := CatalogView{Title: "Playtime", Directors: []string{"Jacques Tati"}, ReleaseDate: "1967-12-16"}
	structured := CatalogView{Title: "Playtime", Directors: []string{"Jacques Tati"}, ReleaseDate: "1967-06-27"}

	v := Verify(tuning, scraped, structured)
	if !v.Verified {
		t.Error("date disagreement must not block verification")
	}
	if v.DateMatch == nil || *v.DateMatch {
		t.Error("differing dates should report a negative date match")
	}

	noDates := Verify(tuning,
		CatalogView{Title: "Playtime", Directors: []string{"Jacques Tati"}},
		CatalogView{Title: "Playtime", Directors: []string{"Jacques Tati"}})
	if noDates.DateMatch != nil {
		t.Error("missing dates should leave the date comparison unset")
	}
}

func TestVerifyTruncatesTimestampedDates(t *testing.T) {
	v := Verify(match.DefaultTuning(),
		CatalogView{Title: "M", Directors: []string{"Fritz Lang"}, ReleaseDate: "1931-05-11"},
		CatalogView{Title: "M", Directors: []string{"Fritz Lang"}, ReleaseDate: "1931-05-11T00:00:00.000Z"})
	if v.DateMatch == nil || !*v.DateMatch {
		t.Error("timestamped date should compare equal after truncation")
	}
}
