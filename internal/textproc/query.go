package textproc

import (
	"regexp"
	"strings"
)

const (
	// DefaultMaxKeywords is the default keyword budget for a search query.
	DefaultMaxKeywords = 8

	// maxTokenLength marks tokens longer than this as concatenation
	// artifacts rather than real words.
	maxTokenLength = 20
)

// wordToken matches alphabetic tokens of at least four characters.
var wordToken = regexp.MustCompile(`[A-Za-z]{4,}`)

// academicStopWords are words too common in scholarly prose to be useful
// search keywords.
var academicStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "as": {}, "is": {}, "was": {}, "are": {}, "were": {},
	"been": {}, "be": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "must": {}, "shall": {},
	"can": {}, "need": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "it": {}, "its": {}, "we": {}, "our": {}, "their": {},
	"they": {}, "them": {}, "which": {}, "who": {}, "whom": {},
	"what": {}, "where": {}, "when": {}, "how": {}, "paper": {},
	"study": {}, "research": {}, "proposed": {}, "method": {},
	"approach": {}, "using": {}, "based": {}, "results": {}, "show": {},
	"shows": {}, "shown": {}, "also": {}, "however": {}, "thus": {},
	"figure": {}, "table": {}, "section": {}, "following": {},
	"provide": {}, "present": {}, "work": {}, "used": {}, "use": {},
	"case": {}, "given": {}, "describe": {}, "described": {},
	"introduction": {}, "abstract": {}, "conclusion": {},
	"conclusions": {}, "related": {}, "previous": {}, "other": {},
}

// artifactRule identifies a token that looks like an extraction artifact
// rather than a real word. Rules are kept as an enumerated table so each
// can be tested independently.
type artifactRule struct {
	name  string
	match func(token string) bool
}

// knownFragments are common English suffixes that appear as standalone
// tokens when extraction drops the leading characters of a word.
var knownFragments = map[string]struct{}{
	"tion": {}, "tions": {}, "ation": {}, "ations": {}, "ment": {},
	"ments": {}, "sion": {}, "sions": {}, "ility": {}, "ities": {},
	"ance": {}, "ence": {}, "ization": {}, "ically": {},
}

// invalidOnsets are two-letter consonant clusters that no English word
// starts with. A token starting with one lost its leading characters.
var invalidOnsets = []string{
	"bb", "ck", "ct", "dd", "ds", "ff", "gg", "gs", "lk", "ll", "lm",
	"lp", "ls", "lt", "mm", "mp", "ms", "nc", "nd", "ng", "nk", "nn",
	"ns", "nt", "pp", "pt", "rc", "rd", "rg", "rk", "rm", "rn", "rp",
	"rr", "rs", "rt", "rv", "ss", "tt", "xc", "xp", "xt", "zz",
}

// invalidCodas are token-ending bigrams that essentially never close an
// English word. A token ending in one lost its trailing characters.
var invalidCodas = []string{
	"aj", "ej", "ij", "oj", "rj", "uj",
	"aq", "eq", "iq", "oq", "rq", "uq",
}

var artifactRules = []artifactRule{
	{
		name: "overlong",
		match: func(token string) bool {
			return len(token) > maxTokenLength
		},
	},
	{
		name: "known-fragment",
		match: func(token string) bool {
			_, ok := knownFragments[token]
			return ok
		},
	},
	{
		name: "invalid-onset",
		match: func(token string) bool {
			for _, onset := range invalidOnsets {
				if strings.HasPrefix(token, onset) {
					return true
				}
			}
			return false
		},
	},
	{
		name: "invalid-coda",
		match: func(token string) bool {
			if len(token) < 2 {
				return false
			}
			coda := token[len(token)-2:]
			for _, c := range invalidCodas {
				if coda == c {
					return true
				}
			}
			return false
		},
	},
}

// isArtifact reports whether a token matches any artifact rule.
func isArtifact(token string) bool {
	for _, rule := range artifactRules {
		if rule.match(token) {
			return true
		}
	}
	return false
}

// BuildQuery derives a short keyword query from free text. Tokens must be
// alphabetic, at least four characters, not academic stop words, and not
// extraction artifacts. Duplicates are dropped keeping first-seen order,
// and extraction stops once maxKeywords have been collected (pass 0 for
// the default budget).
//
// Returns an empty string when no qualifying tokens exist; callers must
// treat an empty query as "cannot search".
func BuildQuery(text string, maxKeywords int) string {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}

	tokens := wordToken.FindAllString(strings.ToLower(text), -1)

	keywords := make([]string, 0, maxKeywords)
	seen := make(map[string]struct{}, maxKeywords)
	for _, tok := range tokens {
		if _, stop := academicStopWords[tok]; stop {
			continue
		}
		if isArtifact(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
		if len(keywords) >= maxKeywords {
			break
		}
	}

	return strings.Join(keywords, " ")
}
