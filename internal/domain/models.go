// Package domain provides the domain models shared across the paper analysis service.
package domain

// SectionName identifies one of the four fixed logical regions of a paper.
type SectionName string

const (
	SectionTitle       SectionName = "Title"
	SectionAbstract    SectionName = "Abstract"
	SectionMethodology SectionName = "Methodology"
	SectionConclusions SectionName = "Conclusions"
)

// SectionOrder is the canonical processing order for sections. The plagiarism
// report builder relies on this ordering to line section scores up with the
// overall weight vector.
var SectionOrder = []SectionName{
	SectionTitle,
	SectionAbstract,
	SectionMethodology,
	SectionConclusions,
}

// Section is a named, contiguous span of a paper's text. Sections are
// immutable once produced by the segmenter.
type Section struct {
	Name SectionName `json:"name"`
	Text string      `json:"text"`
}

// SourceType identifies which external source produced a search candidate.
type SourceType string

const (
	SourceTypeSemanticScholar SourceType = "semantic_scholar"
	SourceTypeOpenAlex        SourceType = "openalex"
	SourceTypeIEEE            SourceType = "ieee"
	SourceTypeArXiv           SourceType = "arxiv"
	SourceTypePaperFinder     SourceType = "paper_finder"
)

// Candidate is a single external search result considered as a possible
// similarity source. Candidates are ephemeral and never persisted.
type Candidate struct {
	Title    string     `json:"title"`
	Abstract string     `json:"abstract"`
	URL      string     `json:"url"`
	Source   SourceType `json:"source"`
}

// ScoredMatch is a candidate after similarity scoring against a section.
type ScoredMatch struct {
	Percent float64 `json:"percent"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
}

// SimilarityCategory is a discrete label for a similarity percentage.
type SimilarityCategory string

const (
	SimilarityLow      SimilarityCategory = "Low similarity"
	SimilarityModerate SimilarityCategory = "Moderate similarity"
	SimilarityHigh     SimilarityCategory = "High similarity (review recommended)"
)

// SectionReport holds the similarity analysis outcome for one section.
type SectionReport struct {
	Text                  string             `json:"text"`
	BestSimilarityPercent float64            `json:"best_similarity_percent"`
	Category              SimilarityCategory `json:"category"`
	Matches               []ScoredMatch      `json:"matches"`
}

// PlagiarismReport is the combined similarity report across all four sections.
// Every section name is always present, even when no search was performed.
type PlagiarismReport struct {
	Sections        map[SectionName]SectionReport `json:"sections"`
	OverallPercent  float64                       `json:"overall_percent"`
	OverallCategory SimilarityCategory            `json:"overall_category"`
}

// DocumentMetadata holds lightweight metadata scraped from the raw text.
type DocumentMetadata struct {
	Title string `json:"title"`
	Year  string `json:"year"`
	DOI   string `json:"doi"`
}

// BiasType enumerates the bias categories the AI reviewer reports.
type BiasType string

const (
	BiasConfirmation BiasType = "Confirmation Bias"
	BiasSelection    BiasType = "Selection Bias"
	BiasPublication  BiasType = "Publication Bias"
	BiasFunding      BiasType = "Funding Bias"
	BiasCitation     BiasType = "Citation Bias"
	BiasMethodology  BiasType = "Methodology Bias"
)

// BiasSeverity grades an individual bias instance or a whole analysis.
type BiasSeverity string

const (
	SeverityLow      BiasSeverity = "low"
	SeverityModerate BiasSeverity = "moderate"
	SeverityHigh     BiasSeverity = "high"
)

// SeverityForScore maps an overall bias score to a severity band.
// Boundary values belong to the lower band.
func SeverityForScore(score int) BiasSeverity {
	switch {
	case score <= 25:
		return SeverityLow
	case score <= 50:
		return SeverityModerate
	default:
		return SeverityHigh
	}
}

// BiasInstance is a single detected bias occurrence.
type BiasInstance struct {
	Type        BiasType     `json:"type"`
	Severity    BiasSeverity `json:"severity"`
	Excerpt     string       `json:"excerpt"`
	Explanation string       `json:"explanation"`
	Suggestion  string       `json:"suggestion"`
	Section     string       `json:"section,omitempty"`
}

// BiasAnalysisResult is the complete bias report for a piece of text.
// OverallScore runs 0-100 where lower means less biased.
type BiasAnalysisResult struct {
	OverallScore int            `json:"overall_score"`
	Severity     BiasSeverity   `json:"severity"`
	Summary      string         `json:"summary"`
	Biases       []BiasInstance `json:"biases"`
	Strengths    []string       `json:"strengths"`
	Error        string         `json:"error,omitempty"`
	Provider     string         `json:"provider,omitempty"`
}

// AnalysisReport bundles the two reports produced for a single document.
type AnalysisReport struct {
	Metadata   DocumentMetadata    `json:"metadata"`
	Plagiarism *PlagiarismReport   `json:"plagiarism"`
	Bias       *BiasAnalysisResult `json:"bias_analysis"`
}
