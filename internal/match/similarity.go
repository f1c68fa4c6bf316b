package match

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Similarity returns a sequence-similarity ratio in [0,1] between two
// already-normalized strings. Empty input on either side scores 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(score)
}

// TitleSimilarity scores a set of normalized query variants against a
// candidate's title and original title, returning the maximum ratio across
// every variant/field pair.
func TitleSimilarity(variants []string, candidateTitle, candidateOriginal string) float64 {
	if len(variants) == 0 {
		return 0
	}
	fields := make([]string, 0, 2)
	if n := Normalize(candidateTitle); n != "" {
		fields = append(fields, n)
	}
	if n := Normalize(candidateOriginal); n != "" {
		fields = append(fields, n)
	}
	best := 0.0
	for _, variant := range variants {
		for _, field := range fields {
			if score := Similarity(variant, field); score > best {
				best = score
			}
		}
	}
	return best
}

// surnameBonus rewards an exact match on the final token, which by
// convention is the surname. It keeps "Jane Doe" close to "Doe, Jane".
const surnameBonus = 0.15

// DirectorNameScore compares two single director names. Beyond the plain
// ratio it scores the reversed-token-order form, the sorted-token form, and
// the token-set overlap, taking the maximum, then applies the surname bonus
// capped at 1.0. Scores are not symmetric; callers should not rely on
// DirectorNameScore(a, b) == DirectorNameScore(b, a).
func DirectorNameScore(input, candidate string) float64 {
	a := Normalize(input)
	b := Normalize(candidate)
	if a == "" || b == "" {
		return 0
	}
	aTokens := strings.Fields(a)
	bTokens := strings.Fields(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return Similarity(a, b)
	}

	best := Similarity(a, b)
	if score := Similarity(a, strings.Join(reverseTokens(bTokens), " ")); score > best {
		best = score
	}
	if score := Similarity(sortedJoin(aTokens), sortedJoin(bTokens)); score > best {
		best = score
	}
	if score := tokenOverlap(aTokens, bTokens); score > best {
		best = score
	}

	if aTokens[len(aTokens)-1] == bTokens[len(bTokens)-1] {
		best += surnameBonus
		if best > 1.0 {
			best = 1.0
		}
	}
	return best
}

// BestDirectorMatch returns the best pairwise DirectorNameScore across the
// cartesian product of the names in both raw director strings,
// short-circuiting once a near-perfect pair is found.
func BestDirectorMatch(input, candidates string) float64 {
	inputNames := SplitDirectorNames(input)
	candidateNames := SplitDirectorNames(candidates)
	if len(inputNames) == 0 || len(candidateNames) == 0 {
		return 0
	}
	best := 0.0
	for _, name := range inputNames {
		for _, candidate := range candidateNames {
			if score := DirectorNameScore(name, candidate); score > best {
				best = score
			}
			if best >= 0.99 {
				return best
			}
		}
	}
	return best
}

func reverseTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, token := range tokens {
		out[len(tokens)-1-i] = token
	}
	return out
}

func sortedJoin(tokens []string) string {
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

func tokenOverlap(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, token := range a {
		setA[token] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, token := range b {
		setB[token] = struct{}{}
	}
	shared := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			shared++
		}
	}
	larger := len(setA)
	if len(setB) > larger {
		larger = len(setB)
	}
	if larger == 0 {
		return 0
	}
	return float64(shared) / float64(larger)
}
