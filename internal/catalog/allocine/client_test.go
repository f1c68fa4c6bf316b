package allocine

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func obfuscate(path string) string {
	return "ACr" + base64.StdEncoding.EncodeToString([]byte(path))
}

func TestSearchParsesResults(t *testing.T) {
	token := obfuscate("/film/fichefilm_gen_cfilm=1532.html")
	page := fmt.Sprintf(`<html><body>
<section class="movies-results">
  <ul>
    <li class="mdl">
      <span class="meta-title-link %s">Le Voyage dans la Lune</span>
      <div class="meta-body-direction">De <span class="dark-grey-link">Georges Méliès</span></div>
    </li>
    <li class="mdl">
      <span class="meta-title-link">Sans Lien</span>
      <div class="meta-body-item">Un film de Jeanne Moreau Avec Quelqu'un</div>
    </li>
  </ul>
</section>
</body></html>`, token)

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rechercher/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	client := New(server.URL)
	candidates, err := client.Search(context.Background(), "Le Voyage dans la Lune")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if gotQuery != "le voyage dans la lune" {
		t.Errorf("query = %q, want normalized title", gotQuery)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	first := candidates[0]
	if first.Title != "Le Voyage dans la Lune" {
		t.Errorf("title = %q", first.Title)
	}
	if first.ID != "1532" {
		t.Errorf("id = %q, want 1532", first.ID)
	}
	wantURL := server.URL + "/film/fichefilm_gen_cfilm=1532.html"
	if first.PageURL != wantURL {
		t.Errorf("page url = %q, want %q", first.PageURL, wantURL)
	}
	if len(first.Directors) != 1 || first.Directors[0] != "Georges Méliès" {
		t.Errorf("directors = %v", first.Directors)
	}
	// Second candidate has no link token and falls back to the text form.
	second := candidates[1]
	if second.PageURL != "" || second.ID != "" {
		t.Errorf("second candidate should have no page url, got %q / %q", second.PageURL, second.ID)
	}
	if len(second.Directors) != 1 || second.Directors[0] != "Jeanne Moreau" {
		t.Errorf("fallback directors = %v", second.Directors)
	}
}

func TestSearchEmptyTitle(t *testing.T) {
	client := New("http://unused.invalid")
	candidates, err := client.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidates != nil {
		t.Errorf("expected nil candidates, got %v", candidates)
	}
}

func TestFilmID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.allocine.fr/film/fichefilm_gen_cfilm=1532.html", "1532"},
		{"https://www.allocine.fr/film/fichefilm-249264/", "249264"},
		{"https://www.allocine.fr/series/ficheserie-123/", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := FilmID(tc.url); got != tc.want {
			t.Errorf("FilmID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestDecodeObfuscated(t *testing.T) {
	if got := decodeObfuscated(obfuscate("/film/fichefilm-7/")); got != "/film/fichefilm-7/" {
		t.Errorf("decoded = %q", got)
	}
	if got := decodeObfuscated("not-a-token"); got != "" {
		t.Errorf("expected empty for junk, got %q", got)
	}
}
