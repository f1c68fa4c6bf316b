package enrich

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"marquee/internal/catalog/allocine"
	"marquee/internal/catalog/tmdb"
	"marquee/internal/programme"
)

const testFilmTitle = "Le Fabuleux Destin d'Amélie Poulain"

func newStructuredServer(t *testing.T, detailHits, creditsHits *atomic.Int64, failQuery string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search/movie":
			query := r.URL.Query().Get("query")
			if failQuery != "" && strings.Contains(query, failQuery) {
				http.Error(w, "upstream exploded", http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, `{"page":1,"results":[{"id":194,"title":"Le Fabuleux Destin d'Amélie Poulain","original_title":"Le Fabuleux Destin d'Amélie Poulain","release_date":"2001-04-25","popularity":40.5,"vote_count":11000}],"total_pages":1,"total_results":1}`)
		case r.URL.Path == "/movie/194":
			if detailHits != nil {
				detailHits.Add(1)
			}
			fmt.Fprint(w, `{"id":194,"title":"Le Fabuleux Destin d'Amélie Poulain","original_title":"Le Fabuleux Destin d'Amélie Poulain","overview":"Amélie décide de changer la vie de ceux qui l'entourent.","runtime":122,"release_date":"2001-04-25","poster_path":"/amelie.jpg","original_language":"fr","genres":[{"name":"Comédie"}],"production_countries":[{"iso_3166_1":"FR","name":"France"}]}`)
		case r.URL.Path == "/movie/194/credits":
			if creditsHits != nil {
				creditsHits.Add(1)
			}
			fmt.Fprint(w, `{"cast":[{"name":"Audrey Tautou"},{"name":"Mathieu Kassovitz"}],"crew":[{"name":"Jean-Pierre Jeunet","job":"Director"}]}`)
		case r.URL.Path == "/movie/194/videos":
			fmt.Fprint(w, `{"results":[{"key":"HUECWi5pX7o","site":"YouTube","type":"Trailer","official":true,"iso_639_1":"fr","iso_3166_1":"FR","published_at":"2011-02-14T18:00:00.000Z","size":1080}]}`)
		case r.URL.Path == "/movie/194/release_dates":
			fmt.Fprint(w, `{"results":[{"iso_3166_1":"FR","release_dates":[{"release_date":"2001-04-25T00:00:00.000Z"}]},{"iso_3166_1":"US","release_dates":[{"release_date":"2001-11-02T00:00:00.000Z"}]}]}`)
		case r.URL.Path == "/movie/194/images":
			fmt.Fprint(w, `{"backdrops":[{"file_path":"/backdrop1.jpg","width":1920,"vote_average":5.6},{"file_path":"/backdrop2.jpg","width":1280,"vote_average":5.2}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func newScrapedServer(t *testing.T, filmDirector string) *httptest.Server {
	t.Helper()
	token := "ACr" + base64.StdEncoding.EncodeToString([]byte("/film/fichefilm_gen_cfilm=100.html"))
	searchPage := fmt.Sprintf(`<html><body><section class="movies-results"><ul>
<li class="mdl"><span class="meta-title-link %s">Le Fabuleux Destin d'Amélie Poulain</span>
<div class="meta-body-direction">De <span class="dark-grey-link">Jean-Pierre Jeunet</span></div></li>
</ul></section></body></html>`, token)
	filmPage := fmt.Sprintf(`<html><head>
<script type="application/ld+json">{"@type":"Movie","name":"Le Fabuleux Destin d'Amélie Poulain","description":"Amélie s'invente une vie pour aider les autres.","duration":"PT2H2M","director":{"name":"%s"},"actor":[{"name":"Audrey Tautou"}],"genre":["Comédie","Romance"]}</script>
</head><body>
<div class="entity-card-player-ovw"><img class="thumbnail-img" data-src="https://fr.web.img1.acsta.net/c_310_420/pictures/amelie-poster.jpg"/><span class="date">25 avril 2001</span></div>
<span class="nationality">France</span>
</body></html>`, filmDirector)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/rechercher/":
			fmt.Fprint(w, searchPage)
		case r.URL.Path == "/film/fichefilm_gen_cfilm=100.html":
			fmt.Fprint(w, filmPage)
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestEngine(t *testing.T, structuredURL, scrapedURL string, opts Options) *Engine {
	t.Helper()
	client, err := tmdb.New("test-key", structuredURL, "fr-FR")
	if err != nil {
		t.Fatalf("tmdb client: %v", err)
	}
	return New(client, allocine.New(scrapedURL), opts)
}

func TestEnrichBatchEndToEnd(t *testing.T) {
	structured := newStructuredServer(t, nil, nil, "")
	defer structured.Close()
	scraped := newScrapedServer(t, "Jean-Pierre Jeunet")
	defer scraped.Close()

	engine := newTestEngine(t, structured.URL, scraped.URL, Options{Workers: 2})
	records := []programme.ScreeningRecord{
		{Title: testFilmTitle, Director: "Jean-Pierre Jeunet", Category: "Ciné-Club", Version: "VF"},
	}

	out, summary := engine.EnrichBatch(context.Background(), records)
	if summary.Enriched != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want 1 enriched", summary)
	}
	rec := out[0]
	if rec.Status != programme.StatusEnriched {
		t.Fatalf("status = %q, error = %q", rec.Status, rec.Error)
	}
	if !rec.Verified {
		t.Errorf("record should verify, scores title=%.2f director=%.2f", rec.TitleScore, rec.DirectorScore)
	}
	if rec.TMDBID != 194 {
		t.Errorf("tmdb id = %d", rec.TMDBID)
	}
	// Default reconciliation prefers the scraped value per field group.
	if !strings.Contains(rec.Synopsis, "s'invente une vie") {
		t.Errorf("synopsis = %q, want the scraped synopsis", rec.Synopsis)
	}
	if rec.Sources.Synopsis != "allocine" {
		t.Errorf("synopsis source = %q", rec.Sources.Synopsis)
	}
	if rec.TrailerURL != "https://www.youtube.com/watch?v=HUECWi5pX7o" {
		t.Errorf("trailer = %q", rec.TrailerURL)
	}
	if rec.Sources.Trailer != "tmdb" {
		t.Errorf("trailer source = %q", rec.Sources.Trailer)
	}
	if rec.ReleaseDate != "2001-04-25" {
		t.Errorf("release date = %q", rec.ReleaseDate)
	}
	if rec.RuntimeMinutes != 122 {
		t.Errorf("runtime = %d", rec.RuntimeMinutes)
	}
	if !rec.CineClubScreening {
		t.Error("category should flag a cine-club screening")
	}
}

func TestEnrichBatchFailureIsolation(t *testing.T) {
	structured := newStructuredServer(t, nil, nil, "film maudit")
	defer structured.Close()
	scraped := newScrapedServer(t, "Jean-Pierre Jeunet")
	defer scraped.Close()

	engine := newTestEngine(t, structured.URL, scraped.URL, Options{Workers: 2})
	records := []programme.ScreeningRecord{
		{Title: testFilmTitle, Director: "Jean-Pierre Jeunet"},
		{Title: "Le Film Maudit"},
	}

	out, summary := engine.EnrichBatch(context.Background(), records)
	if summary.Failed != 1 {
		t.Fatalf("summary = %+v, want exactly one failure", summary)
	}
	if out[0].Status != programme.StatusEnriched {
		t.Errorf("healthy record status = %q, error = %q", out[0].Status, out[0].Error)
	}
	if out[1].Status != programme.StatusFailed || out[1].Error == "" {
		t.Errorf("failing record status = %q, error = %q", out[1].Status, out[1].Error)
	}
}

func TestEnrichBatchSkipsEmptyTitles(t *testing.T) {
	structured := newStructuredServer(t, nil, nil, "")
	defer structured.Close()
	scraped := newScrapedServer(t, "Jean-Pierre Jeunet")
	defer scraped.Close()

	engine := newTestEngine(t, structured.URL, scraped.URL, Options{})
	out, summary := engine.EnrichBatch(context.Background(), []programme.ScreeningRecord{
		{Title: "", Comment: "relâche"},
	})
	if summary.Skipped != 1 {
		t.Fatalf("summary = %+v, want 1 skipped", summary)
	}
	if out[0].Status != programme.StatusSkipped {
		t.Errorf("status = %q", out[0].Status)
	}
}

type recordingResolver struct {
	calls    int
	decision Decision
}

func (r *recordingResolver) Resolve(context.Context, programme.ScreeningRecord, CatalogView, CatalogView, Verification) (Decision, error) {
	r.calls++
	return r.decision, nil
}

func TestEnrichBatchMismatchGoesThroughResolver(t *testing.T) {
	structured := newStructuredServer(t, nil, nil, "")
	defer structured.Close()
	// The film page credits a different director than the structured
	// catalog, so cross-verification must flag the pair.
	scraped := newScrapedServer(t, "Quelqu'un D'Autre")
	defer scraped.Close()

	resolver := &recordingResolver{decision: DecisionStructured}
	engine := newTestEngine(t, structured.URL, scraped.URL, Options{Resolver: resolver})
	out, _ := engine.EnrichBatch(context.Background(), []programme.ScreeningRecord{
		{Title: testFilmTitle, Director: "Jean-Pierre Jeunet"},
	})

	if resolver.calls != 1 {
		t.Fatalf("resolver called %d times, want 1", resolver.calls)
	}
	rec := out[0]
	if rec.Verified {
		t.Error("mismatched directors must not verify")
	}
	if rec.Sources.Synopsis != "tmdb" {
		t.Errorf("synopsis source = %q, want the resolver's pick", rec.Sources.Synopsis)
	}
	if !strings.Contains(rec.Synopsis, "changer la vie") {
		t.Errorf("synopsis = %q, want the structured synopsis", rec.Synopsis)
	}
}

func TestEnrichBatchDetailFetchedOncePerFilm(t *testing.T) {
	var detailHits, creditsHits atomic.Int64
	structured := newStructuredServer(t, &detailHits, &creditsHits, "")
	defer structured.Close()
	scraped := newScrapedServer(t, "Jean-Pierre Jeunet")
	defer scraped.Close()

	engine := newTestEngine(t, structured.URL, scraped.URL, Options{Workers: 1})
	records := []programme.ScreeningRecord{
		{Title: testFilmTitle, Director: "Jean-Pierre Jeunet", Date: "2026-09-12"},
		{Title: testFilmTitle, Director: "Jean-Pierre Jeunet", Date: "2026-09-14"},
	}
	_, summary := engine.EnrichBatch(context.Background(), records)
	if summary.Enriched != 2 {
		t.Fatalf("summary = %+v, want 2 enriched", summary)
	}
	if got := detailHits.Load(); got != 1 {
		t.Errorf("detail endpoint hit %d times, want 1 (cached per run)", got)
	}
	// Candidate ranking fetches credits too; the cache must cover both
	// that and the details phase.
	if got := creditsHits.Load(); got != 1 {
		t.Errorf("credits endpoint hit %d times, want 1 (cached per run)", got)
	}
}

func TestEnrichBatchStructuredOutageKeepsScrapedFields(t *testing.T) {
	structured := newStructuredServer(t, nil, nil, "Fabuleux")
	defer structured.Close()
	scraped := newScrapedServer(t, "Jean-Pierre Jeunet")
	defer scraped.Close()

	engine := newTestEngine(t, structured.URL, scraped.URL, Options{Workers: 2})
	out, summary := engine.EnrichBatch(context.Background(), []programme.ScreeningRecord{
		{Title: testFilmTitle, Director: "Jean-Pierre Jeunet"},
	})

	if summary.Enriched != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want the record enriched from the scraped side", summary)
	}
	rec := out[0]
	if rec.Status != programme.StatusEnriched {
		t.Fatalf("status = %q, error = %q", rec.Status, rec.Error)
	}
	if !strings.Contains(rec.Synopsis, "s'invente une vie") {
		t.Errorf("synopsis = %q, want the scraped synopsis kept", rec.Synopsis)
	}
	if rec.Sources.Synopsis != "allocine" {
		t.Errorf("synopsis source = %q", rec.Sources.Synopsis)
	}
	if rec.TMDBID != 0 {
		t.Errorf("tmdb id = %d, want none after the outage", rec.TMDBID)
	}
}
