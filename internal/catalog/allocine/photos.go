package allocine

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"marquee/internal/catalog"
)

var thumbnailSegment = regexp.MustCompile(`/[cr]_\d+_\d+`)

// Photos fetches the photo gallery for a film and returns full-size still
// URLs. Poster frames and duplicate assets are filtered out; posterURL, when
// known, is excluded by image key so the gallery only carries stills.
func (c *Client) Photos(ctx context.Context, filmID, posterURL string) ([]string, error) {
	pageURL := fmt.Sprintf("%s/film/fichefilm-%s/photos/", c.baseURL, filmID)
	doc, err := c.get(ctx, pageURL, "photos")
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parsePhotos(doc, posterURL), nil
}

func parsePhotos(doc *goquery.Document, posterURL string) []string {
	posterKey := imageKey(posterURL)
	seen := make(map[string]struct{})
	var photos []string

	doc.Find("section.section-movie-photo").Each(func(_ int, section *goquery.Selection) {
		title := strings.ToLower(cleanText(section.Find(".titlebar-title").First().Text()))
		if !isStillSection(title) {
			return
		}
		section.Find("img.shot-img").Each(func(_ int, img *goquery.Selection) {
			src := imageSrc(img)
			if src == "" || !strings.Contains(src, "acsta.net") {
				return
			}
			full := FullSizeImageURL(src)
			key := imageKey(full)
			if key == "" || key == posterKey {
				return
			}
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
			photos = append(photos, full)
		})
	})
	return photos
}

// isStillSection accepts photo sections and rejects poster galleries and the
// trailing "plus de photos" teaser block.
func isStillSection(title string) bool {
	if !strings.Contains(title, "photo") {
		return false
	}
	if strings.Contains(title, "affiche") || strings.Contains(title, "plus de photos") {
		return false
	}
	return true
}

// FullSizeImageURL strips the CDN resize segment from a thumbnail URL so the
// original asset is referenced instead.
func FullSizeImageURL(imageURL string) string {
	return thumbnailSegment.ReplaceAllString(imageURL, "")
}
