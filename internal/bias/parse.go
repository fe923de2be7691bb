package bias

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Caps on list sizes in a parsed response. The prompt asks the model to
// stay within these, but the parser enforces them regardless.
const (
	maxBiases    = 5
	maxStrengths = 5
)

// neutralScore is substituted when a response omits the overall score
// and when analysis degrades after provider or parse failures.
const neutralScore = 50

// ParsedResponse is the validated content of a model response.
type ParsedResponse struct {
	OverallScore int
	Summary      string
	Biases       []ParsedBias
	Strengths    []string
}

// ParsedBias is a single bias finding in a parsed response.
type ParsedBias struct {
	Type        string
	Severity    string
	Excerpt     string
	Explanation string
	Suggestion  string
}

// ParseFailure describes a response that could not be parsed. The raw
// text is retained for logging and diagnostics.
type ParseFailure struct {
	RawText string
	Reason  string
}

// rawResponse mirrors the JSON schema the prompt demands. Score accepts
// either a number or a numeric string because models routinely confuse
// the two.
type rawResponse struct {
	Biases       []rawBias   `json:"biases"`
	OverallScore flexibleInt `json:"overall_score"`
	Summary      string      `json:"summary"`
	Strengths    []string    `json:"strengths"`
}

type rawBias struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Excerpt     string `json:"excerpt"`
	Explanation string `json:"explanation"`
	Suggestion  string `json:"suggestion"`
}

// flexibleInt unmarshals from a JSON number or a numeric string.
type flexibleInt int

func (f *flexibleInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		// Keep whatever the field was preset to.
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexibleInt(int(v))
	return nil
}

// ParseResponse parses a model response into a ParsedResponse, or a
// ParseFailure when the response is not usable. Exactly one of the two
// return values is non-nil. Markdown code fences around the JSON are
// stripped, the score is clamped into [0, 100], and the bias and
// strength lists are capped.
func ParseResponse(responseText string) (*ParsedResponse, *ParseFailure) {
	cleaned := stripCodeFence(responseText)

	// A response that omits the score gets the neutral value, not a
	// zero that would read as "no bias found".
	raw := rawResponse{OverallScore: neutralScore}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &ParseFailure{RawText: responseText, Reason: err.Error()}
	}

	score := int(raw.OverallScore)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	biases := make([]ParsedBias, 0, min(len(raw.Biases), maxBiases))
	for _, b := range raw.Biases {
		if len(biases) >= maxBiases {
			break
		}
		biases = append(biases, ParsedBias{
			Type:        b.Type,
			Severity:    b.Severity,
			Excerpt:     b.Excerpt,
			Explanation: b.Explanation,
			Suggestion:  b.Suggestion,
		})
	}

	strengths := raw.Strengths
	if len(strengths) > maxStrengths {
		strengths = strengths[:maxStrengths]
	}

	summary := raw.Summary
	if summary == "" {
		summary = "Analysis completed but summary not provided."
	}

	return &ParsedResponse{
		OverallScore: score,
		Summary:      summary,
		Biases:       biases,
		Strengths:    strengths,
	}, nil
}

// stripCodeFence removes a wrapping markdown code fence if present.
// Models routinely wrap JSON in ```json ... ``` despite instructions.
func stripCodeFence(s string) string {
	cleaned := strings.TrimSpace(s)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
