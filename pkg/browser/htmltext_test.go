package browser

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleText_StripsNonVisibleContent(t *testing.T) {
	page := `<html><head><title>ignored</title><style>.x{color:red}</style></head>
<body><script>var hidden = 1;</script>
<h1>Available numbers</h1>
<ul><li>555 0123</li><li>555 0456</li></ul>
<noscript>enable js</noscript></body></html>`

	text, err := VisibleText(page, 0)
	require.NoError(t, err)

	assert.Contains(t, text, "Available numbers")
	assert.Contains(t, text, "555 0123")
	assert.NotContains(t, text, "hidden")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "enable js")
	assert.NotContains(t, text, "ignored")
}

func TestVisibleText_NormalizesWhitespace(t *testing.T) {
	text, err := VisibleText("<p>one\n\n   two</p><p>three</p>", 0)
	require.NoError(t, err)
	assert.Equal(t, "one two three", text)
}

func TestVisibleText_Truncates(t *testing.T) {
	text, err := VisibleText("<p>abcdefghij</p>", 4)
	require.NoError(t, err)
	assert.Equal(t, "abcd...", text)
}

func TestVisibleText_TruncatesOnRuneBoundary(t *testing.T) {
	// Cyrillic letters are two bytes each; a limit of 5 lands inside the
	// third letter and must back up instead of emitting a broken rune.
	text, err := VisibleText("<p>ночной номер</p>", 5)
	require.NoError(t, err)
	assert.Equal(t, "но...", text)
	assert.True(t, utf8.ValidString(text))
}
