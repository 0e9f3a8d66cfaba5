package browser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// skippedElements are containers whose text never renders for the user.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
	"template": true,
	"iframe":   true,
	"svg":      true,
}

// VisibleText parses rawHTML and returns its rendered text with scripts,
// styles and other non-visible content stripped, whitespace-normalized, and
// truncated to maxLength characters. Used to record a short summary of the
// results page alongside each hit.
func VisibleText(rawHTML string, maxLength int) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var parts []string
	collectText(doc, &parts)

	text := strings.Join(parts, " ")
	if maxLength > 0 && len(text) > maxLength {
		// Back up to a rune boundary so the summary stays valid UTF-8.
		cut := maxLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text, nil
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.CommentNode {
		return
	}
	if n.Type == html.ElementNode && skippedElements[strings.ToLower(n.Data)] {
		return
	}
	if n.Type == html.TextNode {
		if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
			*parts = append(*parts, text)
		}
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, parts)
	}
}
