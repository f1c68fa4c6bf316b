package tmdb

import (
	"context"
	"strings"
	"time"

	"marquee/internal/match"
)

// CollectVideos gathers video entries across a language fallback chain
// (requested language, fr-FR, en-US, then unfiltered), deduplicated by
// (site, key). A failed fetch for one language is skipped, not fatal.
func (c *Client) CollectVideos(ctx context.Context, movieID int64, language string) []Video {
	languages := make([]string, 0, 4)
	appendLang := func(lang string) {
		for _, existing := range languages {
			if existing == lang {
				return
			}
		}
		languages = append(languages, lang)
	}
	if language != "" {
		appendLang(language)
	}
	appendLang("fr-FR")
	appendLang("en-US")
	appendLang("")

	seen := make(map[string]struct{})
	var all []Video
	for _, lang := range languages {
		payload, err := c.MovieVideos(ctx, movieID, lang)
		if err != nil {
			continue
		}
		for _, video := range payload.Results {
			if video.Key == "" {
				continue
			}
			dedupKey := strings.ToLower(video.Site) + "|" + video.Key
			if _, ok := seen[dedupKey]; ok {
				continue
			}
			seen[dedupKey] = struct{}{}
			all = append(all, video)
		}
	}
	return all
}

// PreferredTrailerLanguage decides which audio language the trailer should
// favor. French originals always prefer French; otherwise the screening
// version string decides (VO/VOST prefers the original language, VF prefers
// French), defaulting to French when the original language is known.
func PreferredTrailerLanguage(version, originalLanguage string) string {
	original := strings.ToLower(strings.TrimSpace(originalLanguage))
	if original == "fr" {
		return "fr"
	}
	v := match.Normalize(version)
	if v != "" {
		if strings.Contains(v, "vost") || strings.Contains(v, "vo") || strings.Contains(v, "ov") {
			return original
		}
		if strings.Contains(v, "vf") || strings.Contains(v, "francais") || strings.Contains(v, "french") {
			return "fr"
		}
	}
	if original != "" {
		return "fr"
	}
	return ""
}

// frenchMarkets are the countries whose trailers are acceptable stand-ins
// for an FR release.
var frenchMarkets = map[string]struct{}{
	"FR": {}, "BE": {}, "CH": {}, "CA": {}, "LU": {}, "MC": {},
}

// PickTrailer selects the single best video URL: preferred language first,
// then FR market, then trailer over teaser over anything else, official
// before unofficial, newest, largest. Returns empty when no entry has a
// supported hosting site.
func PickTrailer(videos []Video, desiredLang string, productionCountries []string) string {
	prod := make(map[string]struct{}, len(productionCountries))
	for _, country := range productionCountries {
		prod[strings.ToUpper(country)] = struct{}{}
	}

	bestURL := ""
	var bestRank [6]int64
	for _, video := range videos {
		url := videoURL(video)
		if url == "" {
			continue
		}
		rank := trailerRank(video, desiredLang, prod)
		if bestURL == "" || rankLess(rank, bestRank) {
			bestURL = url
			bestRank = rank
		}
	}
	return bestURL
}

func trailerRank(video Video, desiredLang string, productionCountries map[string]struct{}) [6]int64 {
	lang := strings.ToLower(video.ISO639)
	country := strings.ToUpper(video.ISO3166)

	var langRank int64 = 1
	if desiredLang != "" {
		if lang == desiredLang {
			langRank = 0
		} else {
			langRank = 2
		}
	}

	var countryRank int64
	switch {
	case country == "FR":
		countryRank = 0
	case hasKey(frenchMarkets, country):
		countryRank = 1
	case country != "" && hasKey(productionCountries, country):
		countryRank = 2
	default:
		countryRank = 3
	}

	var typeRank int64
	switch strings.ToLower(video.Type) {
	case "trailer":
		typeRank = 0
	case "teaser":
		typeRank = 1
	default:
		typeRank = 2
	}

	var officialRank int64 = 1
	if video.Official {
		officialRank = 0
	}

	return [6]int64{langRank, countryRank, typeRank, officialRank, -publishedUnix(video.PublishedAt), -int64(video.Size)}
}

func rankLess(a, b [6]int64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func hasKey(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

func videoURL(video Video) string {
	if video.Key == "" {
		return ""
	}
	switch strings.ToLower(video.Site) {
	case "youtube":
		return "https://www.youtube.com/watch?v=" + video.Key
	case "vimeo":
		return "https://vimeo.com/" + video.Key
	}
	return ""
}

func publishedUnix(value string) int64 {
	if value == "" {
		return 0
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0
	}
	return ts.Unix()
}
