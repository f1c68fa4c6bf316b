package allocine

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"marquee/internal/catalog"
	"marquee/internal/match"
)

const (
	// DefaultBaseURL is the public AlloCiné origin.
	DefaultBaseURL = "https://www.allocine.fr"

	defaultUserAgent = "Marquee/1.0"
)

// Client fetches and parses AlloCiné pages.
type Client struct {
	baseURL    string
	userAgent  string
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

// WithUserAgent overrides the User-Agent header sent on every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if strings.TrimSpace(agent) != "" {
			c.userAgent = strings.TrimSpace(agent)
		}
	}
}

// New creates an AlloCiné client rooted at baseURL (DefaultBaseURL when
// empty).
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: 12 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BaseURL returns the configured origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search runs a free-text title search and parses the film results section.
// An empty candidate list is a valid, non-error response.
func (c *Client) Search(ctx context.Context, title string) ([]catalog.Candidate, error) {
	query := match.Normalize(title)
	if query == "" {
		return nil, nil
	}
	searchURL := c.baseURL + "/rechercher/?q=" + url.QueryEscape(query)
	doc, err := c.get(ctx, searchURL, "search")
	if err != nil {
		return nil, err
	}
	return c.parseSearch(doc), nil
}

func (c *Client) parseSearch(doc *goquery.Document) []catalog.Candidate {
	var candidates []catalog.Candidate
	doc.Find("section.movies-results li.mdl").Each(func(_ int, item *goquery.Selection) {
		titleSpan := item.Find("span.meta-title-link").First()
		if titleSpan.Length() == 0 {
			return
		}
		title := cleanText(titleSpan.Text())
		if title == "" {
			return
		}

		pageURL := c.decodePageURL(titleSpan.AttrOr("class", ""))
		if pageURL == "" {
			if html, err := goquery.OuterHtml(item); err == nil {
				pageURL = c.decodeFilmURLFrom(html)
			}
		}

		candidates = append(candidates, catalog.Candidate{
			ID:        FilmID(pageURL),
			Title:     title,
			PageURL:   pageURL,
			Directors: parseSearchDirectors(item),
		})
	})
	return candidates
}

// obfuscatedToken matches AlloCiné's base64-wrapped link tokens.
var obfuscatedToken = regexp.MustCompile(`ACr[0-9A-Za-z+/=]+`)

// decodeObfuscated reverses the ACr-prefixed base64 wrapping AlloCiné
// applies to result links.
func decodeObfuscated(token string) string {
	if !strings.HasPrefix(token, "ACr") {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(token, "ACr"))
	if err != nil {
		return ""
	}
	return string(raw)
}

func (c *Client) decodePageURL(classAttr string) string {
	token := obfuscatedToken.FindString(classAttr)
	if token == "" {
		return ""
	}
	decoded := decodeObfuscated(token)
	switch {
	case strings.HasPrefix(decoded, "http"):
		return decoded
	case strings.HasPrefix(decoded, "/"):
		return c.baseURL + decoded
	}
	return ""
}

func (c *Client) decodeFilmURLFrom(html string) string {
	for _, token := range obfuscatedToken.FindAllString(html, -1) {
		decoded := decodeObfuscated(token)
		if !strings.Contains(decoded, "/film/fichefilm") {
			continue
		}
		if strings.HasPrefix(decoded, "http") {
			return decoded
		}
		return c.baseURL + decoded
	}
	return ""
}

var directorFallback = regexp.MustCompile(`(?i)(?:Un film de|De)\s+([^|]+?)(?:Avec|$)`)

func parseSearchDirectors(item *goquery.Selection) []string {
	var names []string
	item.Find("div.meta-body-direction span.dark-grey-link").Each(func(_ int, link *goquery.Selection) {
		if name := cleanText(link.Text()); name != "" {
			names = append(names, name)
		}
	})
	if len(names) > 0 {
		return names
	}
	if m := directorFallback.FindStringSubmatch(cleanText(item.Text())); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return []string{name}
		}
	}
	return nil
}

var (
	filmIDQuery = regexp.MustCompile(`cfilm=(\d+)`)
	filmIDPath  = regexp.MustCompile(`fichefilm-(\d+)`)
)

// FilmID extracts the numeric film id from a film page URL, or empty.
func FilmID(pageURL string) string {
	if m := filmIDQuery.FindStringSubmatch(pageURL); m != nil {
		return m[1]
	}
	if m := filmIDPath.FindStringSubmatch(pageURL); m != nil {
		return m[1]
	}
	return ""
}

func (c *Client) get(ctx context.Context, pageURL, operation string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, catalog.Wrap(catalog.ErrTransport, "allocine", operation, "build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, catalog.Wrap(catalog.ErrTransport, "allocine", operation, pageURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, catalog.Wrap(catalog.ErrNotFound, "allocine", operation, fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, catalog.Wrap(catalog.ErrTransport, "allocine", operation, fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, catalog.Wrap(catalog.ErrParse, "allocine", operation, "parse html", err)
	}
	return doc, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
