package extractor

import (
	"fmt"
	"strings"

	"github.com/jaytaylor/html2text"
	"github.com/mikey/phishguard/internal/core"
	"golang.org/x/net/html"
)

// Locator finds elements of a message view document by tag, classes and one attribute.
// When All is set the text of every match is joined, otherwise the first non-empty match
// is used.
type Locator struct {
	Label     string
	Tag       string
	Classes   []string
	Attr      string
	AttrValue string
	All       bool
}

// MessageViewLocators are the message view regions in priority order
var MessageViewLocators = []Locator{
	{Label: "message-body", Tag: "div", Classes: []string{"a3s", "aiL"}},
	{Label: "text-input", Tag: "div", Attr: "role", AttrValue: "textbox"},
	{Label: "presentation-body", Tag: "div", Attr: "role", AttrValue: "presentation", All: true},
}

// Name implements Strategy
func (l Locator) Name() string {
	return "html:" + l.Label
}

// Extract implements Strategy
func (l Locator) Extract(src core.Source) (string, error) {
	if src.HTML == "" {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(src.HTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}

	var parts []string
	for _, node := range l.findAll(doc) {
		text, err := nodeText(node)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if !l.All {
			return text, nil
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n"), nil
}

// Matches reports whether an element node satisfies the locator
func (l Locator) Matches(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != l.Tag {
		return false
	}

	if len(l.Classes) > 0 {
		classes := strings.Fields(attrValue(n, "class"))
		for _, want := range l.Classes {
			if !containsString(classes, want) {
				return false
			}
		}
	}

	if l.Attr != "" && attrValue(n, l.Attr) != l.AttrValue {
		return false
	}

	return true
}

// findAll returns matching elements in document order. Matches nested inside another
// match are skipped since their text is already part of the outer one.
func (l Locator) findAll(root *html.Node) []*html.Node {
	var matches []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if l.Matches(n) {
			matches = append(matches, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return matches
}

func nodeText(n *html.Node) (string, error) {
	text, err := html2text.FromHTMLNode(n)
	if err != nil {
		return "", fmt.Errorf("failed to render element text: %w", err)
	}
	return text, nil
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
