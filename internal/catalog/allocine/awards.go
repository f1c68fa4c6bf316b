package allocine

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"marquee/internal/catalog"
	"marquee/internal/match"
)

var editionSuffix = regexp.MustCompile(`\s*\((?:\x{00e9}|e)dition\s+\d+\)\s*$`)

// Awards fetches the palmares page for a film and returns won prizes grouped
// by event. Nominations are filtered out. A missing page is not an error.
func (c *Client) Awards(ctx context.Context, filmID string) ([]catalog.Award, error) {
	pageURL := fmt.Sprintf("%s/film/fichefilm-%s/palmares/", c.baseURL, filmID)
	doc, err := c.get(ctx, pageURL, "awards")
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseAwards(doc), nil
}

func parseAwards(doc *goquery.Document) []catalog.Award {
	var awards []catalog.Award
	doc.Find("div.awards").Each(func(_ int, block *goquery.Selection) {
		event := cleanText(block.Find("a.card-awards-link, span.card-awards-link").First().Text())
		event = editionSuffix.ReplaceAllString(event, "")
		if event == "" {
			return
		}
		var categories []string
		block.Find("div.table-award-row").Each(func(_ int, row *goquery.Selection) {
			status := cleanText(row.Find("div.table-award-status").First().Text())
			if !isWonStatus(status) {
				return
			}
			category := cleanText(row.Find("div.table-award-category").First().Text())
			if category == "" {
				category = cleanText(strings.TrimPrefix(cleanText(row.Text()), status))
			}
			if category != "" {
				categories = append(categories, category)
			}
		})
		if len(categories) > 0 {
			awards = append(awards, catalog.Award{Event: event, Categories: categories})
		}
	})
	return awards
}

// isWonStatus keeps prize rows and drops nominations. Statuses are matched
// on their accent-stripped form.
func isWonStatus(status string) bool {
	normalized := match.Normalize(status)
	if normalized == "" {
		return false
	}
	for _, loser := range []string{"nomme", "nommee", "nomination", "nominee"} {
		if strings.Contains(normalized, loser) {
			return false
		}
	}
	for _, winner := range []string{"prix", "palme", "laureat", "gagnant"} {
		if strings.Contains(normalized, winner) {
			return true
		}
	}
	return false
}
