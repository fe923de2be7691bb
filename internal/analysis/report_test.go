package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sauham/paper-bias-detection/internal/domain"
)

func TestBuildSectionReport(t *testing.T) {
	sectionText := "We propose a novel graph neural network approach for molecular property prediction using learned message passing."

	t.Run("scores and ranks candidates", func(t *testing.T) {
		candidates := []domain.Candidate{
			{Title: "Unrelated cooking recipes", Abstract: "Bake the bread at moderate temperature until golden.", URL: "https://example.org/bread"},
			{Title: "Graph neural networks for molecular property prediction", Abstract: "A novel graph neural network approach for molecular property prediction with message passing.", URL: "https://example.org/gnn"},
		}

		report := buildSectionReport(sectionText, candidates)

		require.Len(t, report.Matches, 2)
		assert.Equal(t, "Graph neural networks for molecular property prediction", report.Matches[0].Title)
		assert.Greater(t, report.Matches[0].Percent, report.Matches[1].Percent)
		assert.Equal(t, report.Matches[0].Percent, report.BestSimilarityPercent)
	})

	t.Run("caps matches at five", func(t *testing.T) {
		var candidates []domain.Candidate
		for _, title := range []string{"one", "two", "three", "four", "five", "six", "seven"} {
			candidates = append(candidates, domain.Candidate{
				Title:    "graph neural network study " + title,
				Abstract: "molecular property prediction with message passing " + title,
			})
		}

		report := buildSectionReport(sectionText, candidates)

		assert.Len(t, report.Matches, maxMatchesPerSection)
	})

	t.Run("short section short-circuits", func(t *testing.T) {
		report := buildSectionReport("too short", []domain.Candidate{
			{Title: "anything", Abstract: "anything at all"},
		})

		assert.Zero(t, report.BestSimilarityPercent)
		assert.Equal(t, domain.SimilarityLow, report.Category)
		assert.Empty(t, report.Matches)
	})

	t.Run("no candidates yields zero report", func(t *testing.T) {
		report := buildSectionReport(sectionText, nil)

		assert.Zero(t, report.BestSimilarityPercent)
		assert.Equal(t, domain.SimilarityLow, report.Category)
		assert.Empty(t, report.Matches)
	})

	t.Run("empty candidate text is skipped", func(t *testing.T) {
		report := buildSectionReport(sectionText, []domain.Candidate{{Title: "", Abstract: ""}})

		assert.Empty(t, report.Matches)
	})

	t.Run("deterministic ordering on equal scores", func(t *testing.T) {
		candidates := []domain.Candidate{
			{Title: "zebra paper", Abstract: "completely unrelated topic entirely"},
			{Title: "aardvark paper", Abstract: "completely unrelated topic entirely"},
		}

		first := buildSectionReport(sectionText, candidates)
		second := buildSectionReport(sectionText, candidates)

		assert.Equal(t, first.Matches, second.Matches)
	})
}

func TestBuildPlagiarismReport(t *testing.T) {
	t.Run("weights section scores", func(t *testing.T) {
		reports := map[domain.SectionName]domain.SectionReport{
			domain.SectionTitle:       {BestSimilarityPercent: 20},
			domain.SectionAbstract:    {BestSimilarityPercent: 40},
			domain.SectionMethodology: {BestSimilarityPercent: 10},
			domain.SectionConclusions: {BestSimilarityPercent: 60},
		}

		report := buildPlagiarismReport(reports)

		// 0.05*20 + 0.45*40 + 0.45*10 + 0.05*60 = 26.5
		assert.Equal(t, 26.5, report.OverallPercent)
		assert.Equal(t, domain.SimilarityModerate, report.OverallCategory)
	})

	t.Run("all sections present even when missing", func(t *testing.T) {
		report := buildPlagiarismReport(map[domain.SectionName]domain.SectionReport{})

		assert.Len(t, report.Sections, 4)
		for _, name := range domain.SectionOrder {
			section, ok := report.Sections[name]
			require.True(t, ok, "section %s missing", name)
			assert.Equal(t, domain.SimilarityLow, section.Category)
			assert.NotNil(t, section.Matches)
		}
		assert.Zero(t, report.OverallPercent)
		assert.Equal(t, domain.SimilarityLow, report.OverallCategory)
	})

	t.Run("category boundaries belong to lower band", func(t *testing.T) {
		reports := map[domain.SectionName]domain.SectionReport{
			domain.SectionAbstract:    {BestSimilarityPercent: 100.0 / 3},
			domain.SectionMethodology: {BestSimilarityPercent: 100.0 / 3},
		}
		// 0.45*(100/3)*2 = 30.0 exactly after rounding.
		report := buildPlagiarismReport(reports)

		assert.Equal(t, 30.0, report.OverallPercent)
		assert.Equal(t, domain.SimilarityModerate, report.OverallCategory)
	})
}

func TestSectionWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, w := range sectionWeights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 12.34, round2(12.344))
	assert.Equal(t, 12.35, round2(12.346))
	assert.Equal(t, 0.0, round2(0))
	assert.Equal(t, 100.0, round2(99.999))
}

func TestMinSectionLengthGuard(t *testing.T) {
	exactly := strings.Repeat("a", minSectionLength)
	report := buildSectionReport(exactly, []domain.Candidate{{Title: "t", Abstract: strings.Repeat("a", 40)}})
	assert.NotEmpty(t, report.Matches)
}
