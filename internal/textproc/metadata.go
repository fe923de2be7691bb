package textproc

import (
	"regexp"

	"github.com/Sauham/paper-bias-detection/internal/domain"
)

var (
	yearPattern = regexp.MustCompile(`(19|20)\d{2}`)
	doiPattern  = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Z0-9]+`)
)

// ExtractMetadata derives document metadata from full text: the first
// non-blank line as title, the first plausible publication year, and the
// first DOI-shaped identifier. Fields that cannot be located are empty.
func ExtractMetadata(fullText string) domain.DocumentMetadata {
	return domain.DocumentMetadata{
		Title: firstNonBlankLine(fullText),
		Year:  yearPattern.FindString(fullText),
		DOI:   doiPattern.FindString(fullText),
	}
}
