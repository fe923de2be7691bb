// Package similarity scores textual similarity between a paper section
// and candidate papers using a TF-IDF bag-of-words representation and
// cosine similarity, and maps scores to discrete category labels.
package similarity

import (
	"math"
	"regexp"
	"strings"

	"github.com/Sauham/paper-bias-detection/internal/domain"
)

// Category boundaries. Boundary values belong to the lower band.
const (
	lowUpperBound      = 15.0
	moderateUpperBound = 30.0
)

// token matches word tokens of two or more alphanumeric characters.
var token = regexp.MustCompile(`\b\w\w+\b`)

// englishStopWords are excluded from the TF-IDF vocabulary.
var englishStopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {},
	"against": {}, "all": {}, "also": {}, "am": {}, "an": {}, "and": {},
	"any": {}, "are": {}, "as": {}, "at": {}, "be": {}, "because": {},
	"been": {}, "before": {}, "being": {}, "below": {}, "between": {},
	"both": {}, "but": {}, "by": {}, "can": {}, "cannot": {}, "could": {},
	"did": {}, "do": {}, "does": {}, "doing": {}, "down": {},
	"during": {}, "each": {}, "few": {}, "for": {}, "from": {},
	"further": {}, "had": {}, "has": {}, "have": {}, "having": {},
	"he": {}, "her": {}, "here": {}, "hers": {}, "herself": {},
	"him": {}, "himself": {}, "his": {}, "how": {}, "i": {}, "if": {},
	"in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "itself": {},
	"just": {}, "me": {}, "more": {}, "most": {}, "my": {},
	"myself": {}, "no": {}, "nor": {}, "not": {}, "now": {}, "of": {},
	"off": {}, "on": {}, "once": {}, "only": {}, "or": {}, "other": {},
	"our": {}, "ours": {}, "ourselves": {}, "out": {}, "over": {},
	"own": {}, "same": {}, "she": {}, "should": {}, "so": {},
	"some": {}, "such": {}, "than": {}, "that": {}, "the": {},
	"their": {}, "theirs": {}, "them": {}, "themselves": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"those": {}, "through": {}, "to": {}, "too": {}, "under": {},
	"until": {}, "up": {}, "very": {}, "was": {}, "we": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "who": {}, "whom": {}, "why": {}, "will": {},
	"with": {}, "would": {}, "you": {}, "your": {}, "yours": {},
	"yourself": {}, "yourselves": {},
}

// Score computes the similarity between two texts as a percentage in
// [0, 100]. Both texts are vectorized with term-frequency/inverse-
// document-frequency weighting over a fixed stop-word list and compared
// by cosine similarity. Degenerate inputs, such as text that is empty
// after stop-word removal, score 0.0 rather than erroring.
func Score(queryText, candidateText string) float64 {
	a := termCounts(queryText)
	b := termCounts(candidateText)
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	// Smoothed IDF over the two-document corpus: idf = ln((1+n)/(1+df))+1
	// with n=2, matching the conventional smoothed formulation.
	idf := func(term string) float64 {
		df := 0
		if a[term] > 0 {
			df++
		}
		if b[term] > 0 {
			df++
		}
		return math.Log(3.0/(1.0+float64(df))) + 1.0
	}

	var dot, normA, normB float64
	weightsB := make(map[string]float64, len(b))
	for term, count := range b {
		w := float64(count) * idf(term)
		weightsB[term] = w
		normB += w * w
	}
	for term, count := range a {
		w := float64(count) * idf(term)
		normA += w * w
		if wb, ok := weightsB[term]; ok {
			dot += w * wb
		}
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	sim = math.Max(0.0, math.Min(1.0, sim))
	return sim * 100.0
}

// Categorize maps a similarity percentage to its category label. Exact
// boundary values belong to the lower band.
func Categorize(percent float64) domain.SimilarityCategory {
	switch {
	case percent <= lowUpperBound:
		return domain.SimilarityLow
	case percent <= moderateUpperBound:
		return domain.SimilarityModerate
	default:
		return domain.SimilarityHigh
	}
}

// termCounts tokenizes text and counts non-stop-word terms.
func termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range token.FindAllString(strings.ToLower(text), -1) {
		if _, stop := englishStopWords[tok]; stop {
			continue
		}
		counts[tok]++
	}
	return counts
}
