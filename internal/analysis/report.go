package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/Sauham/paper-bias-detection/internal/domain"
	"github.com/Sauham/paper-bias-detection/internal/similarity"
)

const (
	// minSectionLength is the shortest section text worth searching.
	// Shorter sections produce a zero report without any network calls.
	minSectionLength = 30

	// maxMatchesPerSection caps how many scored matches a section report
	// carries.
	maxMatchesPerSection = 5
)

// sectionWeights distributes section scores into the overall percentage.
// The abstract and methodology dominate; the title and conclusions are
// too short and formulaic to weigh heavily.
var sectionWeights = map[domain.SectionName]float64{
	domain.SectionTitle:       0.05,
	domain.SectionAbstract:    0.45,
	domain.SectionMethodology: 0.45,
	domain.SectionConclusions: 0.05,
}

// buildSectionReport scores candidates against one section's text and
// returns the section report with the top matches.
func buildSectionReport(sectionText string, candidates []domain.Candidate) domain.SectionReport {
	report := domain.SectionReport{
		Text:     sectionText,
		Category: domain.SimilarityLow,
		Matches:  []domain.ScoredMatch{},
	}

	if len(strings.TrimSpace(sectionText)) < minSectionLength {
		return report
	}

	matches := make([]domain.ScoredMatch, 0, len(candidates))
	for _, c := range candidates {
		candidateText := strings.TrimSpace(c.Title + " " + c.Abstract)
		if candidateText == "" {
			continue
		}
		percent := similarity.Score(sectionText, candidateText)
		matches = append(matches, domain.ScoredMatch{
			Percent: round2(percent),
			Title:   c.Title,
			URL:     c.URL,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Percent != matches[j].Percent {
			return matches[i].Percent > matches[j].Percent
		}
		return matches[i].Title < matches[j].Title
	})

	if len(matches) > maxMatchesPerSection {
		matches = matches[:maxMatchesPerSection]
	}
	report.Matches = matches

	if len(matches) > 0 {
		report.BestSimilarityPercent = matches[0].Percent
	}
	report.Category = similarity.Categorize(report.BestSimilarityPercent)
	return report
}

// buildPlagiarismReport combines per-section reports into the weighted
// overall report. Every section name is present in the result even when
// its report is empty.
func buildPlagiarismReport(sectionReports map[domain.SectionName]domain.SectionReport) *domain.PlagiarismReport {
	report := &domain.PlagiarismReport{
		Sections: make(map[domain.SectionName]domain.SectionReport, len(domain.SectionOrder)),
	}

	var overall float64
	for _, name := range domain.SectionOrder {
		section, ok := sectionReports[name]
		if !ok {
			section = domain.SectionReport{
				Category: domain.SimilarityLow,
				Matches:  []domain.ScoredMatch{},
			}
		}
		report.Sections[name] = section
		overall += sectionWeights[name] * section.BestSimilarityPercent
	}

	report.OverallPercent = round2(overall)
	report.OverallCategory = similarity.Categorize(report.OverallPercent)
	return report
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
