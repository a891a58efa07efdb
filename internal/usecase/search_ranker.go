package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// Package-level compiled regex pattern for performance
var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// Scoring bonuses
const (
	brandMatchBonus     = 15.0 // query mentions the product's brand
	substringMatchBonus = 10.0 // query and name contain each other
	customProductBonus  = 5.0  // user-created products rank above imported ones
)

// extendedStopWords includes basic English stop words plus package noise
// that still survives preprocessing when it sits mid-name.
var extendedStopWords = map[string]bool{
	// Basic English stop words
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "by": true, "from": true, "is": true,
	"it": true, "as": true, "be": true, "was": true, "are": true,
	// Size/quantity units
	"oz": true, "fl": true, "lb": true, "lbs": true, "ml": true,
	"gallon": true, "quart": true, "pint": true, "liter": true, "liters": true,
	"gram": true, "grams": true, "kg": true, "ounce": true, "ounces": true,
	"cup": true, "cups": true, "tbsp": true, "tsp": true,
	// Packaging terms
	"pack": true, "packs": true, "count": true, "ct": true, "pk": true,
	"box": true, "bag": true, "bottle": true, "bottles": true, "can": true,
	"cans": true, "carton": true, "container": true, "pouch": true, "jar": true,
	"tub": true, "sleeve": true, "roll": true, "rolls": true,
	// Marketing/generic terms
	"size": true, "value": true, "family": true, "each": true, "per": true,
	"serving": true, "servings": true, "approx": true, "approximately": true,
	"bonus": true, "new": true, "improved": true, "product": true,
}

// SearchRanker orders a user's products by similarity to a search query.
// The store narrows candidates with a broad match; the ranker decides the
// order the app shows them in.
type SearchRanker struct {
	fuzzyEditDistance int
}

// NewSearchRanker creates a ranker with fuzzy token matching at edit
// distance 1, enough to absorb typos like "yogurt"/"yoghurt".
func NewSearchRanker() *SearchRanker {
	return &SearchRanker{fuzzyEditDistance: 1}
}

// Rank sorts candidates by descending match score against the query.
// Products that share nothing with the query drop off the result. An empty
// query keeps the store's order.
func (r *SearchRanker) Rank(query string, candidates []domain.Product) []domain.Product {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return candidates
	}

	type scored struct {
		product domain.Product
		score   float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		score := r.score(query, queryTokens, &p)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, scored{product: p, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]domain.Product, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.product)
	}
	return out
}

// score computes similarity between the query and one product on a 0-100
// scale plus bonuses. The dominant signal is query coverage: how much of
// what the user typed appears in the product.
func (r *SearchRanker) score(query string, queryTokens []string, p *domain.Product) float64 {
	nameTokens := tokenize(p.Name + " " + p.Brand)
	if len(nameTokens) == 0 {
		return 0
	}

	queryMatched, _ := r.intersect(queryTokens, nameTokens)
	if queryMatched == 0 {
		return 0
	}
	queryCoverage := float64(queryMatched) / float64(len(queryTokens))

	nameMatched, _ := r.intersect(nameTokens, queryTokens)
	nameCoverage := float64(nameMatched) / float64(len(nameTokens))

	jaccard := float64(queryMatched) / float64(union(queryTokens, nameTokens))

	// Query coverage matters most (60%), name coverage (20%), Jaccard (20%)
	score := (queryCoverage*0.60 + nameCoverage*0.20 + jaccard*0.20) * 100

	queryLower := strings.ToLower(query)
	nameLower := strings.ToLower(p.Name)
	if p.Brand != "" && strings.Contains(queryLower, strings.ToLower(p.Brand)) {
		score += brandMatchBonus
	}
	if len(queryLower) > 3 && (strings.Contains(nameLower, queryLower) || strings.Contains(queryLower, nameLower)) {
		score += substringMatchBonus
	}
	if p.IsCustom {
		score += customProductBonus
	}
	return score
}

// intersect counts query tokens found in target, fuzzily: an exact hit
// counts first, then a levenshtein match within the edit distance.
func (r *SearchRanker) intersect(tokens, target []string) (int, []string) {
	set := make(map[string]bool, len(target))
	for _, t := range target {
		set[t] = true
	}

	var matched []string
	seen := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		if set[t] {
			matched = append(matched, t)
			seen[t] = true
			continue
		}
		for candidate := range set {
			if fuzzyTokenMatch(t, candidate, r.fuzzyEditDistance) {
				matched = append(matched, t)
				seen[t] = true
				break
			}
		}
	}
	return len(matched), matched
}

// union returns the count of unique tokens across both sets.
func union(tokens1, tokens2 []string) int {
	set := make(map[string]bool, len(tokens1)+len(tokens2))
	for _, t := range tokens1 {
		set[t] = true
	}
	for _, t := range tokens2 {
		set[t] = true
	}
	return len(set)
}

// tokenize splits a string into normalized lowercase tokens, dropping
// punctuation, stop words and pure numbers.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")
	words := strings.Fields(cleaned)

	var tokens []string
	for _, word := range words {
		if len(word) <= 1 {
			continue
		}
		if extendedStopWords[word] {
			continue
		}
		if isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// isNumeric checks if a string contains only digits.
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// fuzzyTokenMatch checks if two tokens are within the edit distance. Short
// tokens never match fuzzily: too many false positives.
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}
	if len(token1) < 4 || len(token2) < 4 {
		return false
	}
	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}
	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	n := len(r2)

	// Two rolling rows instead of the full matrix
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[n]
}
