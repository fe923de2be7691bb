package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sauham/paper-bias-detection/internal/domain"
)

func TestScore(t *testing.T) {
	t.Run("identical texts score 100", func(t *testing.T) {
		text := "graph neural networks learn molecular representations"

		assert.InDelta(t, 100.0, Score(text, text), 0.01)
	})

	t.Run("disjoint texts score 0", func(t *testing.T) {
		score := Score("quantum computing hardware", "marine biology ecosystems")

		assert.Equal(t, 0.0, score)
	})

	t.Run("partial overlap scores between bounds", func(t *testing.T) {
		score := Score(
			"transformer models for protein structure prediction",
			"transformer models applied to image segmentation tasks",
		)

		assert.Greater(t, score, 0.0)
		assert.Less(t, score, 100.0)
	})

	t.Run("empty inputs score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, Score("", ""))
		assert.Equal(t, 0.0, Score("some text here", ""))
		assert.Equal(t, 0.0, Score("", "some text here"))
	})

	t.Run("stop-word-only input scores 0", func(t *testing.T) {
		assert.Equal(t, 0.0, Score("the of and with", "the of and with"))
	})

	t.Run("score is symmetric", func(t *testing.T) {
		a := "deep reinforcement learning agents"
		b := "reinforcement learning for robotic agents"

		assert.InDelta(t, Score(a, b), Score(b, a), 0.0001)
	})

	t.Run("score bounded in range", func(t *testing.T) {
		pairs := [][2]string{
			{"alpha beta gamma", "alpha beta gamma delta"},
			{"repeated repeated repeated word", "word"},
			{"x1 y2 z3", "z3 y2 x1"},
		}
		for _, p := range pairs {
			score := Score(p[0], p[1])
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)
		}
	})
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		want    domain.SimilarityCategory
	}{
		{"zero is low", 0.0, domain.SimilarityLow},
		{"mid low band", 10.0, domain.SimilarityLow},
		{"boundary 15 belongs to low", 15.0, domain.SimilarityLow},
		{"just above low boundary", 15.01, domain.SimilarityModerate},
		{"mid moderate band", 25.0, domain.SimilarityModerate},
		{"boundary 30 belongs to moderate", 30.0, domain.SimilarityModerate},
		{"just above moderate boundary", 30.01, domain.SimilarityHigh},
		{"maximum is high", 100.0, domain.SimilarityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.percent))
		})
	}
}
