package usecase

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/macrolens/diary/internal/domain"
	applog "github.com/macrolens/diary/internal/log"
)

var punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

const (
	fuzzyWeightFactor = 0.8 // fuzzy token hits count 80% of an exact hit

	substringMatchBonus     = 10.0
	dataTypeFoundationBonus = 8.0
	dataTypeLegacyBonus     = 6.0
	dataTypeSurveyBonus     = 4.0
)

// matchStopWords are dropped before scoring
var matchStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "with": true, "without": true,
	"for": true, "by": true, "from": true, "to": true,
	"oz": true, "lb": true, "ml": true, "kg": true, "cup": true, "cups": true,
	"ns": true, "nfs": true, "as": true, "type": true,
}

// dataTypeBonus prefers generic reference data over branded labels when
// building a catalog.
var dataTypeBonus = map[string]float64{
	"Foundation":     dataTypeFoundationBonus,
	"SR Legacy":      dataTypeLegacyBonus,
	"Survey (FNDDS)": dataTypeSurveyBonus,
}

// MatchConfig holds configuration for the food matcher
type MatchConfig struct {
	MinConfidenceThreshold float64
	EnableFuzzyMatching    bool
	FuzzyEditDistance      int
}

// FoodMatcher scores USDA search results against a free-text food name
type FoodMatcher struct {
	minConfidenceThreshold float64
	enableFuzzyMatching    bool
	fuzzyEditDistance      int
}

// NewFoodMatcher creates a matcher with the given configuration
func NewFoodMatcher(config MatchConfig) *FoodMatcher {
	threshold := config.MinConfidenceThreshold
	if threshold <= 0 {
		threshold = 40.0
	}

	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1
	}

	return &FoodMatcher{
		minConfidenceThreshold: threshold,
		enableFuzzyMatching:    config.EnableFuzzyMatching,
		fuzzyEditDistance:      fuzzyDist,
	}
}

// Rank scores every candidate and returns them best first. Ties keep the
// USDA ordering.
func (m *FoodMatcher) Rank(ctx context.Context, name string, candidates []domain.USDAFood) ([]domain.MatchResult, error) {
	results := make([]domain.MatchResult, 0, len(candidates))
	for _, food := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, matched := m.score(name, food.Description, food.DataType)
		results = append(results, domain.MatchResult{
			FdcID:         food.FdcID,
			Description:   food.Description,
			DataType:      food.DataType,
			Score:         score,
			MatchedTokens: matched,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

// BestMatch returns the highest scoring candidate. A best candidate below the
// threshold is returned together with ErrLowConfidence.
func (m *FoodMatcher) BestMatch(ctx context.Context, name string, candidates []domain.USDAFood) (*domain.MatchResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if len(candidates) == 0 {
		return nil, domain.ErrProductNotFound
	}

	ranked, err := m.Rank(ctx, name, candidates)
	if err != nil {
		return nil, err
	}
	best := ranked[0]
	applog.Debug(ctx, "[match] best candidate", "name", name, "fdc_id", best.FdcID, "description", best.Description, "score", best.Score)

	if best.Score < m.minConfidenceThreshold {
		return &best, domain.ErrLowConfidence
	}
	return &best, nil
}

// score computes a 0-100 similarity between a food name and a USDA
// description: name token coverage dominates, description coverage and
// Jaccard similarity refine it, and bonuses favour substring hits and
// reference data types.
func (m *FoodMatcher) score(name, description, dataType string) (float64, []string) {
	nameTokens := tokenize(name)
	descTokens := tokenize(description)
	if len(nameTokens) == 0 || len(descTokens) == 0 {
		return 0, nil
	}

	hits, matched := m.coverage(nameTokens, descTokens)
	nameCoverage := hits / float64(len(nameTokens))

	descHits, _ := m.coverage(descTokens, nameTokens)
	descCoverage := descHits / float64(len(descTokens))

	jaccard := float64(len(matched)) / float64(unionSize(nameTokens, descTokens))

	score := (nameCoverage*0.60 + descCoverage*0.20 + jaccard*0.20) * 100

	nameLower := strings.ToLower(strings.TrimSpace(name))
	if len(nameLower) > 3 && strings.Contains(strings.ToLower(description), nameLower) {
		score += substringMatchBonus
	}
	if len(matched) > 0 {
		score += dataTypeBonus[dataType]
	}

	if score > 100 {
		score = 100
	}
	return score, matched
}

// coverage counts how many of from appear in in, exact or fuzzy
func (m *FoodMatcher) coverage(from, in []string) (float64, []string) {
	set := make(map[string]bool, len(in))
	for _, t := range in {
		set[t] = true
	}

	var hits float64
	var matched []string
	seen := make(map[string]bool)
	for _, t := range from {
		if seen[t] {
			continue
		}
		seen[t] = true
		if set[t] {
			hits++
			matched = append(matched, t)
			continue
		}
		if !m.enableFuzzyMatching {
			continue
		}
		for _, other := range in {
			if fuzzyTokenMatch(t, other, m.fuzzyEditDistance) {
				hits += fuzzyWeightFactor
				matched = append(matched, t)
				break
			}
		}
	}
	return hits, matched
}

// tokenize splits a string into normalized lowercase tokens, dropping stop
// words, single characters and pure numbers.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 1 || matchStopWords[word] || isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// Short tokens produce too many false positives
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

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

func unionSize(a, b []string) int {
	set := make(map[string]bool, len(a)+len(b))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		set[t] = true
	}
	return len(set)
}
