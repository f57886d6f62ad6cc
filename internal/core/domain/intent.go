package domain

import (
	"regexp"
	"strings"
	"time"
)

// SearchIntent is the structured output of query interpretation.
// It is created fresh per user turn and never mutated afterwards;
// Bifurcate returns a new value rather than editing in place.
type SearchIntent struct {
	// SemanticQuery is the natural-language query for the semantic branch.
	SemanticQuery string

	// KeywordQuery is the lexical/Boolean query for the keyword branch.
	// It must be non-empty whenever a search is executed.
	KeywordQuery string

	// JurisdictionCodes filters both branches to specific courts.
	// Empty means no jurisdiction filter.
	JurisdictionCodes []string

	// FiledAfter bounds results to cases filed on or after this date.
	// The zero value means no lower bound.
	FiledAfter time.Time

	// FiledBefore bounds results to cases filed on or before this date.
	// The zero value means no upper bound.
	FiledBefore time.Time
}

// booleanTokens matches the operator tokens the case-law backend
// understands: the word forms AND, OR, NOT (case-sensitive, whole words)
// and the symbolic forms & and %.
var booleanTokens = regexp.MustCompile(`\bAND\b|\bOR\b|\bNOT\b|[&%]`)

// HasBooleanOperators reports whether text contains backend Boolean
// operator tokens. Detection is case-sensitive: "and" is ordinary prose,
// "AND" is an operator.
func HasBooleanOperators(text string) bool {
	return booleanTokens.MatchString(text)
}

// Bifurcate applies the Boolean bifurcation policy. When the verbatim
// user text contains operator tokens, the keyword branch is locked to the
// untouched text (the backend must receive the operators exactly as
// typed) and the semantic branch keeps the interpreter's naturalized
// paraphrase. If the interpreter produced no usable paraphrase, one is
// derived by stripping the operators. Without operator tokens this is a
// no-op. Bifurcate never fails.
func Bifurcate(userText string, intent SearchIntent) SearchIntent {
	if !HasBooleanOperators(userText) {
		return intent
	}

	out := intent
	out.KeywordQuery = userText

	semantic := strings.TrimSpace(out.SemanticQuery)
	if semantic == "" || HasBooleanOperators(semantic) {
		out.SemanticQuery = Naturalize(userText)
	}
	return out
}

var (
	ampersandToken  = regexp.MustCompile(`\s*&\s*`)
	andToken        = regexp.MustCompile(`\s+AND\s+`)
	percentToken    = regexp.MustCompile(`\s*%\s*`)
	notToken        = regexp.MustCompile(`\s+NOT\s+|^NOT\s+`)
	orToken         = regexp.MustCompile(`\s+OR\s+`)
	parensToken     = regexp.MustCompile(`[()]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	quoteToken      = regexp.MustCompile(`"`)
	wildcardTrailer = regexp.MustCompile(`\*`)
)

// Naturalize converts a Boolean query into a natural-language phrasing
// suitable for the semantic branch: conjunctions become plain adjacency,
// OR becomes "or", NOT and % become "but not", and grouping punctuation
// is dropped.
func Naturalize(query string) string {
	out := query
	out = ampersandToken.ReplaceAllString(out, " ")
	out = andToken.ReplaceAllString(out, " ")
	out = percentToken.ReplaceAllString(out, " NOT ")
	out = notToken.ReplaceAllString(out, " but not ")
	out = orToken.ReplaceAllString(out, " or ")
	out = parensToken.ReplaceAllString(out, " ")
	out = quoteToken.ReplaceAllString(out, "")
	out = wildcardTrailer.ReplaceAllString(out, "")
	out = whitespaceRun.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// keywordStopwords are common words excluded when a keyword query has to
// be synthesised from the semantic query.
var keywordStopwords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "have": true,
	"been": true, "were": true, "their": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "about": true, "after": true,
	"before": true, "because": true, "through": true, "during": true,
	"between": true,
}

var keywordTermPattern = regexp.MustCompile(`\b[a-z]{4,}\b`)

// FallbackKeywordQuery synthesises a Boolean keyword query from a
// natural-language query when the interpreter supplied none. Key terms
// (four letters or longer, minus stopwords, up to seven) are joined with
// AND. Returns the input unchanged if no terms qualify.
func FallbackKeywordQuery(semanticQuery string) string {
	words := keywordTermPattern.FindAllString(strings.ToLower(semanticQuery), -1)
	terms := make([]string, 0, 7)
	for _, w := range words {
		if keywordStopwords[w] {
			continue
		}
		terms = append(terms, w)
		if len(terms) == 7 {
			break
		}
	}
	if len(terms) == 0 {
		return semanticQuery
	}
	return strings.Join(terms, " AND ")
}
