// Package textproc provides text processing for extracted paper content.
//
// PDF extraction produces text with a number of recurring artifacts:
// typographic ligatures, exotic Unicode spaces, hyphenation line breaks,
// and words merged together where the extractor dropped spacing. This
// package repairs those artifacts, segments a paper into its major
// sections, and derives search queries and document metadata from the
// repaired text.
package textproc

import (
	"regexp"
	"strings"
)

// exoticSpaces matches Unicode space characters that should be collapsed
// to a plain ASCII space before any other processing.
var exoticSpaces = regexp.MustCompile("[   -​  　\t]+")

// typographic replaces ligatures, dashes, and quote characters that PDF
// extractors commonly emit with their ASCII equivalents.
var typographic = strings.NewReplacer(
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"–", "-",
	"—", "-",
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"…", "...",
)

var (
	periodCapital  = regexp.MustCompile(`\.([A-Z])`)
	commaLetter    = regexp.MustCompile(`,([A-Za-z])`)
	hyphenBreak    = regexp.MustCompile(`([A-Za-z])-\r?\n\s*([A-Za-z])`)
	runsOfSpace    = regexp.MustCompile(`[ \t]+`)
	runsOfNewline  = regexp.MustCompile(`\s*\n\s*`)
	lowerThenUpper = regexp.MustCompile(`([a-z])([A-Z])`)
)

// Normalize repairs common PDF-extraction artifacts in text. Rules are
// applied in a fixed order: exotic Unicode spaces become ASCII spaces,
// ligatures and typographic punctuation become ASCII, missing spaces
// after sentence periods and commas are restored, hyphenation line
// breaks are joined, whitespace runs are collapsed, and merged words
// are split at lowercase-to-uppercase transitions.
//
// The final rule is lossy for legitimate camelCase identifiers, so
// Normalize must be applied to raw extracted text exactly once, never
// to text that has already been normalized.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = exoticSpaces.ReplaceAllString(text, " ")
	text = typographic.Replace(text)
	text = periodCapital.ReplaceAllString(text, ". $1")
	text = commaLetter.ReplaceAllString(text, ", $1")
	text = hyphenBreak.ReplaceAllString(text, "$1$2")
	text = runsOfSpace.ReplaceAllString(text, " ")
	// Newlines are kept (collapsed to one) because section segmentation
	// relies on line structure to find the title line.
	text = runsOfNewline.ReplaceAllString(text, "\n")
	text = lowerThenUpper.ReplaceAllString(text, "$1 $2")

	return strings.TrimSpace(text)
}
