package usecase

import (
	"regexp"
	"strings"
)

// QueryPreprocessor cleans raw search-box input before it reaches the
// product store: users paste package names like "Skyr Vanilla, 450 g" and
// the size tail would sink the match.
type QueryPreprocessor struct{}

// Compiled patterns for query preprocessing
var (
	// Matches size/quantity tails like "450 g", "1.5 l", "12 oz", "0.5 kg"
	sizeQuantityPattern = regexp.MustCompile(`\b\d+[.,]?\d*\s*(fl\s*)?(oz|ounces?|lbs?|pounds?|ml|l|liters?|litres?|kg|grams?|g)\b`)

	// Matches pack/count tails like "6 pack", "pack of 4", "12 ct", "6 bars"
	packCountPattern = regexp.MustCompile(`\b\d+[-\s]*(pack|pk|count|ct|stk)\b|\bpack\s*of\s*\d+\b|\b\d+\s*(cans?|bottles?|pouches?|bars?|pieces?|cups?)\b`)

	// Matches numbers left dangling at the edges after unit removal
	standaloneNumberPattern = regexp.MustCompile(`[,\-]\s*\d+[.,]?\d*\s*$|^\d+[.,]?\d*\s*[,\-]`)

	orphanedPunctPattern = regexp.MustCompile(`\s+[,\-;:]+\s+|[,\-;:]+\s*$|^\s*[,\-;:]+`)
	multiSpacePattern    = regexp.MustCompile(`\s+`)
)

// queryNoiseWords are marketing and packaging fillers that carry no signal
// when matching against a product name.
var queryNoiseWords = map[string]bool{
	// Marketing terms
	"value": true, "family": true, "bonus": true, "new": true,
	"improved": true, "premium": true, "select": true, "choice": true,
	"quality": true, "best": true, "great": true, "delicious": true,
	"tasty": true, "favorite": true, "special": true,

	// Size descriptors
	"size": true, "large": true, "medium": true, "small": true,
	"mini": true, "jumbo": true, "giant": true, "big": true,
	"single": true, "double": true, "triple": true,

	// Packaging terms
	"package": true, "box": true, "bag": true, "bottle": true,
	"can": true, "jar": true, "tub": true, "carton": true,
	"sleeve": true, "pouch": true, "roll": true, "tube": true,

	// Generic terms that never narrow anything down
	"food": true, "item": true, "product": true, "brand": true,
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor() *QueryPreprocessor {
	return &QueryPreprocessor{}
}

// Clean strips size tails, pack counts, noise words and stray punctuation
// from a search query and normalizes whitespace.
func (p *QueryPreprocessor) Clean(query string) string {
	if query == "" {
		return ""
	}

	cleaned := sizeQuantityPattern.ReplaceAllString(query, " ")
	cleaned = packCountPattern.ReplaceAllString(cleaned, " ")
	cleaned = standaloneNumberPattern.ReplaceAllString(cleaned, " ")
	cleaned = p.removeNoiseWords(cleaned)
	cleaned = orphanedPunctPattern.ReplaceAllString(cleaned, " ")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// removeNoiseWords drops filler words, keeping the original casing of what
// survives.
func (p *QueryPreprocessor) removeNoiseWords(s string) string {
	words := strings.Fields(s)
	kept := words[:0]
	for _, word := range words {
		check := strings.ToLower(strings.Trim(word, ",.!?;:-'\""))
		if !queryNoiseWords[check] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}
