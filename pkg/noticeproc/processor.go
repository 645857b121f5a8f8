// Package noticeproc extracts announcement-worthy prose from railway
// notice HTML (circulars, delay bulletins, running-status pages) pasted
// or imported into the dashboard.
package noticeproc

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Info contains the cleaned notice text and metadata.
type Info struct {
	Text       string
	WordCount  int
	IsReliable bool
}

// ExtractText parses notice HTML and extracts the body prose: paragraphs
// and list items, in document order, with boilerplate stripped.
func ExtractText(r io.Reader) (*Info, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	// Prefer a semantic content container; fall back to body.
	root := findContent(doc)
	if root == nil {
		root = findBody(doc)
	}

	var output []string
	var totalWords int
	if root != nil {
		collectProse(root, &output, &totalWords)
	}

	text := strings.Join(output, "\n")
	return &Info{
		Text:       text,
		WordCount:  totalWords,
		IsReliable: totalWords > 5, // Shorter than this is unlikely to be a real notice
	}, nil
}

// collectProse walks the tree gathering paragraph and list-item text,
// skipping navigation chrome.
func collectProse(n *html.Node, output *[]string, totalWords *int) {
	if n.Type == html.ElementNode {
		if isChrome(n) {
			return
		}
		if n.DataAtom == atom.P || n.DataAtom == atom.Li || n.DataAtom == atom.Td {
			text := cleanBlock(n)
			if text != "" {
				*output = append(*output, text)
				*totalWords += countWords(text)
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectProse(c, output, totalWords)
	}
}

// findContent locates <main>, <article>, or a div with a content-ish class.
func findContent(n *html.Node) *html.Node {
	if n.Type == html.ElementNode {
		if n.DataAtom == atom.Main || n.DataAtom == atom.Article {
			return n
		}
		if n.DataAtom == atom.Div {
			for _, a := range n.Attr {
				if a.Key == "class" || a.Key == "id" {
					val := strings.ToLower(a.Val)
					if strings.Contains(val, "content") || strings.Contains(val, "notice") {
						return n
					}
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findContent(c); res != nil {
			return res
		}
	}
	return nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findBody(c); res != nil {
			return res
		}
	}
	return nil
}

// cleanBlock flattens a block element to plain text, dropping citation
// superscripts and embedded scripts.
func cleanBlock(p *html.Node) string {
	var b strings.Builder
	traverseBlock(p, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func traverseBlock(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteString(" ")
		return
	}

	if n.Type == html.ElementNode {
		if n.DataAtom == atom.Sup || n.DataAtom == atom.Style || n.DataAtom == atom.Script {
			return
		}
		if isChrome(n) {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		traverseBlock(c, b)
	}
}

// isChrome reports whether the node is page furniture rather than notice
// content: navigation, headers, footers, cookie banners.
func isChrome(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Nav, atom.Header, atom.Footer, atom.Aside:
		return true
	}
	for _, a := range n.Attr {
		if a.Key == "class" || a.Key == "id" {
			val := strings.ToLower(a.Val)
			if strings.Contains(val, "nav") ||
				strings.Contains(val, "menu") ||
				strings.Contains(val, "footer") ||
				strings.Contains(val, "cookie") ||
				strings.Contains(val, "banner") {
				return true
			}
		}
	}
	return false
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
