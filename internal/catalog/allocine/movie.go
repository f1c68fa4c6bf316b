package allocine

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const castLimit = 8

// Meta is the parsed film page payload.
type Meta struct {
	Title          string
	AltTitle       string
	Directors      []string
	Synopsis       string
	Genres         []string
	RuntimeMinutes int
	Actors         []string
	PosterURL      string
	ReleaseDate    string
	Countries      []string
}

// Movie fetches and parses a film detail page. Missing sections yield empty
// fields, not errors.
func (c *Client) Movie(ctx context.Context, pageURL string) (Meta, error) {
	doc, err := c.get(ctx, pageURL, "movie")
	if err != nil {
		return Meta{}, err
	}
	return parseMovie(doc), nil
}

func parseMovie(doc *goquery.Document) Meta {
	ld := movieJSONLD(doc)

	meta := Meta{
		Title:          cleanText(ld.Name),
		AltTitle:       cleanText(ld.AlternateName),
		Directors:      ld.directorNames(),
		Synopsis:       cleanText(ld.Description),
		Genres:         ld.genreNames(),
		RuntimeMinutes: parseISODurationMinutes(ld.Duration),
		Actors:         ld.actorNames(castLimit),
		PosterURL:      parsePoster(doc),
		ReleaseDate:    parseReleaseDate(doc),
		Countries:      parseCountries(doc),
	}
	if meta.Title == "" {
		meta.Title = meta.AltTitle
	}
	return meta
}

// movieLD mirrors the parts of the JSON-LD Movie block the engine reads.
// Director, actor, and genre entries are either single objects, strings, or
// arrays depending on the page, so they decode through json.RawMessage.
type movieLD struct {
	Type          string          `json:"@type"`
	Name          string          `json:"name"`
	AlternateName string          `json:"alternateName"`
	Description   string          `json:"description"`
	Duration      string          `json:"duration"`
	Director      json.RawMessage `json:"director"`
	Actor         json.RawMessage `json:"actor"`
	Genre         json.RawMessage `json:"genre"`
}

func movieJSONLD(doc *goquery.Document) movieLD {
	var found movieLD
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		raw := strings.TrimSpace(script.Text())
		if raw == "" {
			return true
		}
		var single movieLD
		if err := json.Unmarshal([]byte(raw), &single); err == nil && single.Type == "Movie" {
			found = single
			return false
		}
		var many []movieLD
		if err := json.Unmarshal([]byte(raw), &many); err == nil {
			for _, item := range many {
				if item.Type == "Movie" {
					found = item
					return false
				}
			}
		}
		return true
	})
	return found
}

func (ld movieLD) directorNames() []string {
	return namesFromRaw(ld.Director, 0)
}

func (ld movieLD) actorNames(limit int) []string {
	return namesFromRaw(ld.Actor, limit)
}

func (ld movieLD) genreNames() []string {
	return stringsFromRaw(ld.Genre)
}

type namedEntity struct {
	Name string `json:"name"`
}

// namesFromRaw accepts a single {name} object, a bare string, or an array
// mixing both. A limit of 0 means unlimited.
func namesFromRaw(raw json.RawMessage, limit int) []string {
	if len(raw) == 0 {
		return nil
	}
	var names []string
	appendName := func(name string) {
		name = cleanText(name)
		if name == "" {
			return
		}
		if limit > 0 && len(names) == limit {
			return
		}
		names = append(names, name)
	}

	var entity namedEntity
	if err := json.Unmarshal(raw, &entity); err == nil && entity.Name != "" {
		appendName(entity.Name)
		return names
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		appendName(str)
		return names
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	for _, item := range items {
		var e namedEntity
		if err := json.Unmarshal(item, &e); err == nil && e.Name != "" {
			appendName(e.Name)
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			appendName(s)
		}
	}
	return names
}

func stringsFromRaw(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single = cleanText(single); single != "" {
			return []string{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil
	}
	var out []string
	for _, item := range many {
		if item = cleanText(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?`)

func parseISODurationMinutes(value string) int {
	m := isoDuration.FindStringSubmatch(value)
	if m == nil {
		return 0
	}
	minutes := 0
	if m[1] != "" {
		minutes += atoiOrZero(m[1]) * 60
	}
	if m[2] != "" {
		minutes += atoiOrZero(m[2])
	}
	return minutes
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func parsePoster(doc *goquery.Document) string {
	thumb := imageSrc(doc.Find("div.entity-card-player-ovw img.thumbnail-img").First())
	og := doc.Find(`meta[property="og:image"]`).First().AttrOr("content", "")
	if og == "" {
		og = doc.Find(`meta[name="twitter:image"]`).First().AttrOr("content", "")
	}
	if thumb != "" && og != "" {
		if imageKey(thumb) == imageKey(og) {
			return thumb
		}
		return og
	}
	if thumb != "" {
		return thumb
	}
	return og
}

func imageSrc(img *goquery.Selection) string {
	if src := img.AttrOr("data-src", ""); src != "" {
		return src
	}
	return img.AttrOr("src", "")
}

// imageKey reduces an image URL to its basename so the same asset served
// from different CDN paths compares equal.
func imageKey(imageURL string) string {
	if imageURL == "" {
		return ""
	}
	base := strings.TrimSpace(strings.SplitN(imageURL, "?", 2)[0])
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.ToLower(base)
}

func parseReleaseDate(doc *goquery.Document) string {
	raw := cleanText(doc.Find("div.entity-card-player-ovw span.date").First().Text())
	if raw == "" {
		return ""
	}
	return ParseFrenchDate(raw)
}

func parseCountries(doc *goquery.Document) []string {
	var countries []string
	doc.Find("span.nationality").Each(func(_ int, nation *goquery.Selection) {
		if name := cleanText(nation.Text()); name != "" {
			countries = append(countries, name)
		}
	})
	if len(countries) > 0 {
		return countries
	}

	// Some layouts list countries as plain spans after the label.
	doc.Find("div.item").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		label := cleanText(item.Find("span.what").First().Text())
		if !strings.HasPrefix(label, "Nationalit") {
			return true
		}
		item.Find("span.that span").Each(func(_ int, nation *goquery.Selection) {
			if name := cleanText(nation.Text()); name != "" {
				countries = append(countries, name)
			}
		})
		return false
	})
	return countries
}
