package textproc

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Sauham/paper-bias-detection/internal/domain"
)

const (
	// maxTitleLength caps the extracted title at a sane length.
	maxTitleLength = 200

	// Fallback slice boundaries used when a section heading cannot be
	// located by pattern matching. These are best-effort positions for a
	// typical paper layout.
	abstractFallbackEnd      = 1500
	methodologyFallbackStart = 1500
	methodologyFallbackEnd   = 5000
	conclusionsFallbackSize  = 2000
)

// sectionPatterns maps each pattern-matched section to the heading words
// that mark its start. Matching is case-insensitive on whole words, and
// the first occurrence wins.
var sectionPatterns = map[domain.SectionName]*regexp.Regexp{
	domain.SectionAbstract:    regexp.MustCompile(`\babstract\b`),
	domain.SectionMethodology: regexp.MustCompile(`\b(methodology|methods|materials and methods|approach)\b`),
	domain.SectionConclusions: regexp.MustCompile(`\b(conclusion|conclusions|discussion)\b`),
}

// ExtractSections splits full document text into the four fixed paper
// sections. The result always contains an entry for every section name:
// sections whose heading cannot be located fall back to a fixed slice of
// the raw text, and empty input yields four empty sections.
func ExtractSections(text string) map[domain.SectionName]string {
	sections := map[domain.SectionName]string{
		domain.SectionTitle:       "",
		domain.SectionAbstract:    "",
		domain.SectionMethodology: "",
		domain.SectionConclusions: "",
	}
	if text == "" {
		return sections
	}

	text = strings.ReplaceAll(text, "\r", "\n")
	lower := strings.ToLower(text)

	sections[domain.SectionTitle] = firstNonBlankLine(text)

	// Locate each section heading, then slice the text between
	// consecutive headings in document order. The last heading found
	// extends to the end of the document.
	type match struct {
		name  domain.SectionName
		start int
	}
	var found []match
	for name, pat := range sectionPatterns {
		if loc := pat.FindStringIndex(lower); loc != nil {
			found = append(found, match{name: name, start: loc[0]})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })

	for i, m := range found {
		end := len(text)
		if i+1 < len(found) {
			end = found[i+1].start
		}
		sections[m.name] = strings.TrimSpace(text[m.start:end])
	}

	// Fallback slices keep the section map fully populated even when no
	// heading matched.
	if sections[domain.SectionAbstract] == "" {
		sections[domain.SectionAbstract] = text[:min(abstractFallbackEnd, len(text))]
	}
	if sections[domain.SectionMethodology] == "" {
		start := min(methodologyFallbackStart, len(text))
		end := min(methodologyFallbackEnd, len(text))
		sections[domain.SectionMethodology] = text[start:end]
	}
	if sections[domain.SectionConclusions] == "" {
		start := max(0, len(text)-conclusionsFallbackSize)
		sections[domain.SectionConclusions] = text[start:]
	}

	return sections
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > maxTitleLength {
			line = line[:maxTitleLength]
		}
		return line
	}
	return ""
}

