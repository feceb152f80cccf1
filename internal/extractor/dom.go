package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var (
	html5Doctype = regexp.MustCompile(`(?i)<!DOCTYPE\s+html>`)
	html4Doctype = regexp.MustCompile(`(?i)<!DOCTYPE\s+HTML\s+PUBLIC\s+"[^"]*//DTD\s+HTML\s+4`)
	xhtmlDoctype = regexp.MustCompile(`(?i)<!DOCTYPE\s+html\s+PUBLIC\s+"[^"]*//DTD\s+XHTML`)
)

// elements whose text never reaches a reader
var invisibleElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// detectHTMLVersion looks for a known doctype in the first 1000 bytes of the payload.
func detectHTMLVersion(rawHTML string) string {
	docStart := rawHTML
	if len(rawHTML) > 1000 {
		docStart = rawHTML[:1000]
	}

	switch {
	case html5Doctype.MatchString(docStart):
		return "HTML5"
	case xhtmlDoctype.MatchString(docStart):
		return "XHTML 1.0"
	case html4Doctype.MatchString(docStart):
		return "HTML 4.01"
	default:
		return "Unknown"
	}
}

// hasDoctypeNode reports whether the parser kept a doctype directly under the document root.
func hasDoctypeNode(root *html.Node) bool {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			return true
		}
	}
	return false
}

// visibleText extracts the text inside a node, skipping script and style blocks,
// with runs of whitespace collapsed to single spaces.
func visibleText(node *html.Node) string {
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && invisibleElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(node)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// textLength counts characters, not bytes.
func textLength(s string) int {
	return utf8.RuneCountInString(s)
}

// walkElements calls fn for every element node under root, depth first.
func walkElements(root *html.Node, fn func(*html.Node)) {
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			fn(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)
}

// attrValue finds and returns the named attribute of an element.
func attrValue(node *html.Node, key string) (string, bool) {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// hasNonEmptyAttr is true when the attribute exists with a non-blank value.
func hasNonEmptyAttr(node *html.Node, key string) bool {
	v, ok := attrValue(node, key)
	return ok && strings.TrimSpace(v) != ""
}
