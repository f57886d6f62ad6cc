package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// TestStripHTML tests markup removal from opinion text
func TestStripHTML(t *testing.T) {
	in := `<p>The court held that <em>stare decisis</em> controls.</p><p>Reversed.</p>`
	got := StripHTML(in)

	assert.Equal(t, "The court held that stare decisis controls. Reversed.", got)
}

// TestStripHTML_Entities tests entity decoding
func TestStripHTML_Entities(t *testing.T) {
	got := StripHTML("Smith &amp; Jones, &sect; 1983 claim")
	assert.Equal(t, "Smith & Jones, § 1983 claim", got)
}

// TestStripHTML_PlainTextUnchanged tests pass-through of clean text
func TestStripHTML_PlainTextUnchanged(t *testing.T) {
	got := StripHTML("No markup here.")
	assert.Equal(t, "No markup here.", got)
}

// TestNormalizeWhitespace tests collapse of spacing noise
func TestNormalizeWhitespace(t *testing.T) {
	in := "First   paragraph.\n\n\n\n\tSecond    paragraph.  "
	got := NormalizeWhitespace(in)

	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", got)
}

// TestTruncate tests word-boundary truncation
func TestTruncate(t *testing.T) {
	in := "the quick brown fox jumps over the lazy dog"
	got := Truncate(in, 20)

	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), 23)
	assert.NotContains(t, got, "jump")
}

// TestTruncate_ShortTextUnchanged tests the no-op path
func TestTruncate_ShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))
	assert.Equal(t, "exact", Truncate("exact", 5))
}

// TestTruncate_MultiByteRunes tests cuts falling inside a section symbol
func TestTruncate_MultiByteRunes(t *testing.T) {
	in := strings.Repeat("§", 40)
	got := Truncate(in, 21)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("§", 10)+"...", got)
}
