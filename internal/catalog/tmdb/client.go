package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"marquee/internal/catalog"
)

// Result represents a single TMDB movie search match.
type Result struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int64   `json:"vote_count"`
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// MovieDetails captures the movie detail payload fields the engine uses.
type MovieDetails struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	OriginalTitle    string `json:"original_title"`
	Overview         string `json:"overview"`
	Runtime          int    `json:"runtime"`
	ReleaseDate      string `json:"release_date"`
	PosterPath       string `json:"poster_path"`
	OriginalLanguage string `json:"original_language"`
	Genres           []struct {
		Name string `json:"name"`
	} `json:"genres"`
	ProductionCountries []struct {
		ISO3166 string `json:"iso_3166_1"`
		Name    string `json:"name"`
	} `json:"production_countries"`
}

// CreditsResponse models the movie credits payload.
type CreditsResponse struct {
	Cast []CreditMember `json:"cast"`
	Crew []CreditMember `json:"crew"`
}

// CreditMember is one cast or crew entry.
type CreditMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Directors extracts crew members credited as Director, in payload order.
func (c CreditsResponse) Directors() []string {
	var names []string
	for _, member := range c.Crew {
		if member.Job == "Director" && member.Name != "" {
			names = append(names, member.Name)
		}
	}
	return names
}

// MainCast returns up to limit cast names in billing order.
func (c CreditsResponse) MainCast(limit int) []string {
	if limit <= 0 {
		return nil
	}
	var names []string
	for _, member := range c.Cast {
		if member.Name == "" {
			continue
		}
		names = append(names, member.Name)
		if len(names) == limit {
			break
		}
	}
	return names
}

// ImagesResponse models the movie images payload.
type ImagesResponse struct {
	Backdrops []ImageInfo `json:"backdrops"`
}

// ImageInfo is one image entry with its width and vote signal.
type ImageInfo struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
}

// TopBackdrops returns full URLs for the best backdrops, highest vote
// average first and widest first among equals.
func (r *ImagesResponse) TopBackdrops(limit int) []string {
	ranked := make([]ImageInfo, 0, len(r.Backdrops))
	for _, img := range r.Backdrops {
		if img.FilePath != "" {
			ranked = append(ranked, img)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].VoteAverage != ranked[j].VoteAverage {
			return ranked[i].VoteAverage > ranked[j].VoteAverage
		}
		return ranked[i].Width > ranked[j].Width
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	urls := make([]string, 0, len(ranked))
	for _, img := range ranked {
		urls = append(urls, ImageURL(img.FilePath))
	}
	return urls
}

// Video is one trailer/teaser/clip entry.
type Video struct {
	Key         string `json:"key"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	ISO639      string `json:"iso_639_1"`
	ISO3166     string `json:"iso_3166_1"`
	PublishedAt string `json:"published_at"`
	Size        int    `json:"size"`
}

// VideosResponse models the movie videos payload.
type VideosResponse struct {
	Results []Video `json:"results"`
}

// ReleaseDatesResponse models the per-country release dates payload.
type ReleaseDatesResponse struct {
	Results []struct {
		ISO3166      string `json:"iso_3166_1"`
		ReleaseDates []struct {
			ReleaseDate string `json:"release_date"`
		} `json:"release_dates"`
	} `json:"results"`
}

// DateForCountry returns the first release date (yyyy-mm-dd) listed for the
// given country code, or empty.
func (r ReleaseDatesResponse) DateForCountry(iso3166 string) string {
	for _, entry := range r.Results {
		if entry.ISO3166 != iso3166 {
			continue
		}
		for _, item := range entry.ReleaseDates {
			if item.ReleaseDate != "" {
				if len(item.ReleaseDate) > 10 {
					return item.ReleaseDate[:10]
				}
				return item.ReleaseDate
			}
		}
	}
	return ""
}

const imageBaseURL = "https://image.tmdb.org/t/p/original"

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a TMDB client. The api key and base url are required; language
// is the default for calls that do not override it.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, catalog.Wrap(catalog.ErrConfiguration, "tmdb", "init", "api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, catalog.Wrap(catalog.ErrConfiguration, "tmdb", "init", "base url required", nil)
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Language returns the client's default language.
func (c *Client) Language() string {
	return c.language
}

// SearchMovie searches TMDB in the given language. Adult titles are
// excluded. An empty result list is a valid response.
func (c *Client) SearchMovie(ctx context.Context, query, language string) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var payload Response
	if err := c.getJSON(ctx, "/search/movie", language, params, "search", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// MovieDetails fetches movie details by TMDB ID.
func (c *Client) MovieDetails(ctx context.Context, movieID int64, language string) (*MovieDetails, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload MovieDetails
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", movieID), language, nil, "details", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// MovieCredits fetches directors and cast for a movie.
func (c *Client) MovieCredits(ctx context.Context, movieID int64, language string) (*CreditsResponse, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload CreditsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/credits", movieID), language, nil, "credits", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// MovieImages fetches backdrop candidates for a movie. Language is left
// unset so textless backdrops are included.
func (c *Client) MovieImages(ctx context.Context, movieID int64) (*ImagesResponse, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload ImagesResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/images", movieID), "", nil, "images", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// MovieVideos fetches the video entries for one language; pass empty for
// the unfiltered list.
func (c *Client) MovieVideos(ctx context.Context, movieID int64, language string) (*VideosResponse, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload VideosResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/videos", movieID), language, nil, "videos", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// MovieReleaseDates fetches the per-country release dates for a movie.
func (c *Client) MovieReleaseDates(ctx context.Context, movieID int64) (*ReleaseDatesResponse, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload ReleaseDatesResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/release_dates", movieID), "", nil, "release dates", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ImageURL converts a TMDB image path into a full-size URL.
func ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + path
}

func (c *Client) getJSON(ctx context.Context, path, language string, params url.Values, operation string, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return catalog.Wrap(catalog.ErrConfiguration, "tmdb", operation, "parse url", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if language != "" {
		params.Set("language", language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return catalog.Wrap(catalog.ErrTransport, "tmdb", operation, "build request", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return catalog.Wrap(catalog.ErrTransport, "tmdb", operation, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return catalog.Wrap(catalog.ErrNotFound, "tmdb", operation, fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return catalog.Wrap(catalog.ErrTransport, "tmdb", operation, fmt.Sprintf("status %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return catalog.Wrap(catalog.ErrParse, "tmdb", operation, "decode response", err)
	}
	return nil
}
