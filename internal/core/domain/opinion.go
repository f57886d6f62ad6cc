package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// ModelTextLimit caps opinion text sent to the model for analysis.
	ModelTextLimit = 8000

	// DisplayTextLimit caps opinion text printed to the terminal.
	DisplayTextLimit = 3000
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	blankLinePattern  = regexp.MustCompile(`\n{3,}`)
	spaceRunPattern   = regexp.MustCompile(`[ \t]+`)
	htmlEntityReplace = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
		"&sect;", "§",
		"&para;", "¶",
	)
)

// StripHTML removes markup from opinion text. Several backend text
// fields carry raw HTML from court scans.
func StripHTML(text string) string {
	out := htmlTagPattern.ReplaceAllString(text, " ")
	out = htmlEntityReplace.Replace(out)
	return NormalizeWhitespace(out)
}

// NormalizeWhitespace collapses runs of spaces and excess blank lines
// while preserving paragraph breaks.
func NormalizeWhitespace(text string) string {
	out := spaceRunPattern.ReplaceAllString(text, " ")
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	out = strings.Join(lines, "\n")
	out = blankLinePattern.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// Truncate cuts text at limit, breaking on a word boundary where one is
// reasonably close, and appends an ellipsis when anything was dropped.
func Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	end := limit
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	cut := text[:end]
	if idx := strings.LastIndexByte(cut, ' '); idx > limit/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}
