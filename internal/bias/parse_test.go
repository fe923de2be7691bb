package bias

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResponse = `{
	"biases": [
		{
			"type": "selection",
			"severity": "moderate",
			"excerpt": "only WEIRD participants",
			"explanation": "The sample excludes non-western populations.",
			"suggestion": "Broaden the participant pool."
		}
	],
	"overall_score": 38,
	"summary": "Moderate selection bias in sampling.",
	"strengths": ["Pre-registered protocol"]
}`

func TestParseResponse(t *testing.T) {
	t.Run("valid json", func(t *testing.T) {
		parsed, failure := ParseResponse(validResponse)
		require.Nil(t, failure)
		require.NotNil(t, parsed)

		assert.Equal(t, 38, parsed.OverallScore)
		assert.Equal(t, "Moderate selection bias in sampling.", parsed.Summary)
		require.Len(t, parsed.Biases, 1)
		assert.Equal(t, "selection", parsed.Biases[0].Type)
		assert.Equal(t, "moderate", parsed.Biases[0].Severity)
		assert.Equal(t, []string{"Pre-registered protocol"}, parsed.Strengths)
	})

	t.Run("json wrapped in code fence", func(t *testing.T) {
		fenced := "```json\n" + validResponse + "\n```"
		parsed, failure := ParseResponse(fenced)
		require.Nil(t, failure)
		assert.Equal(t, 38, parsed.OverallScore)
	})

	t.Run("bare code fence", func(t *testing.T) {
		fenced := "```\n" + validResponse + "\n```"
		parsed, failure := ParseResponse(fenced)
		require.Nil(t, failure)
		assert.Equal(t, 38, parsed.OverallScore)
	})

	t.Run("missing score defaults to neutral", func(t *testing.T) {
		parsed, failure := ParseResponse(`{"biases": [], "summary": "no score given", "strengths": []}`)
		require.Nil(t, failure)
		assert.Equal(t, neutralScore, parsed.OverallScore)
	})

	t.Run("null score defaults to neutral", func(t *testing.T) {
		parsed, failure := ParseResponse(`{"overall_score": null, "summary": "ok"}`)
		require.Nil(t, failure)
		assert.Equal(t, neutralScore, parsed.OverallScore)
	})

	t.Run("explicit zero score is kept", func(t *testing.T) {
		parsed, failure := ParseResponse(`{"overall_score": 0, "summary": "ok"}`)
		require.Nil(t, failure)
		assert.Equal(t, 0, parsed.OverallScore)
	})

	t.Run("score as string", func(t *testing.T) {
		parsed, failure := ParseResponse(`{"overall_score": "72", "summary": "ok"}`)
		require.Nil(t, failure)
		assert.Equal(t, 72, parsed.OverallScore)
	})

	t.Run("score as float", func(t *testing.T) {
		parsed, failure := ParseResponse(`{"overall_score": 33.7, "summary": "ok"}`)
		require.Nil(t, failure)
		assert.Equal(t, 33, parsed.OverallScore)
	})

	t.Run("score clamped to range", func(t *testing.T) {
		parsed, failure := ParseResponse(`{"overall_score": 250, "summary": "ok"}`)
		require.Nil(t, failure)
		assert.Equal(t, 100, parsed.OverallScore)

		parsed, failure = ParseResponse(`{"overall_score": -10, "summary": "ok"}`)
		require.Nil(t, failure)
		assert.Equal(t, 0, parsed.OverallScore)
	})

	t.Run("missing summary gets placeholder", func(t *testing.T) {
		parsed, failure := ParseResponse(`{"overall_score": 5}`)
		require.Nil(t, failure)
		assert.Equal(t, "Analysis completed but summary not provided.", parsed.Summary)
	})

	t.Run("lists capped", func(t *testing.T) {
		resp := `{
			"overall_score": 80,
			"summary": "many findings",
			"biases": [
				{"type": "a"}, {"type": "b"}, {"type": "c"},
				{"type": "d"}, {"type": "e"}, {"type": "f"}, {"type": "g"}
			],
			"strengths": ["1", "2", "3", "4", "5", "6", "7"]
		}`
		parsed, failure := ParseResponse(resp)
		require.Nil(t, failure)
		assert.Len(t, parsed.Biases, maxBiases)
		assert.Len(t, parsed.Strengths, maxStrengths)
	})

	t.Run("not json", func(t *testing.T) {
		parsed, failure := ParseResponse("I found several biases in this paper...")
		assert.Nil(t, parsed)
		require.NotNil(t, failure)
		assert.Equal(t, "I found several biases in this paper...", failure.RawText)
		assert.NotEmpty(t, failure.Reason)
	})
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, stripCodeFence("  {\"a\":1}  "))
}
