package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// chrome matches page furniture removed before body selection.
const chrome = "script, style, noscript, template, svg, nav, footer, header, aside, form, iframe, " +
	".sidebar, .navigation, .comments, .comment-section, .social-share, .share-buttons, " +
	".advertisement, .ads, .newsletter-signup, .subscribe-widget, [role='navigation'], [aria-hidden='true']"

// stripChrome removes navigation, scripts and similar furniture in place.
func stripChrome(doc *goquery.Document) {
	doc.Find(chrome).Remove()
}

// collapse joins all whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// textLength returns the rune count of the selection's collapsed text.
func textLength(sel *goquery.Selection) int {
	return utf8.RuneCountInString(collapse(sel.Text()))
}

// countElements returns the number of element nodes in the subtree rooted at n.
func countElements(n *html.Node) int {
	count := 0
	if n.Type == html.ElementNode {
		count++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countElements(c)
	}
	return count
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Br: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Pre: true, atom.Blockquote: true, atom.Section: true, atom.Article: true,
	atom.Ul: true, atom.Ol: true, atom.Table: true, atom.Hr: true,
}

// plainText renders the text of n with one paragraph per block element.
func plainText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if blockElements[n.DataAtom] {
				b.WriteString("\n")
				defer b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	var paragraphs []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = collapse(line); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

// firstText returns the collapsed text of the first non-empty match among
// selectors. Meta elements contribute their content attribute.
func firstText(doc *goquery.Document, selectors []string, valid func(string) bool) string {
	for _, selector := range selectors {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := nodeText(sel)
			if text != "" && (valid == nil || valid(text)) {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func nodeText(sel *goquery.Selection) string {
	if goquery.NodeName(sel) == "meta" {
		content, _ := sel.Attr("content")
		return collapse(content)
	}
	return collapse(sel.Text())
}

// documentTitle returns the <title> text.
func documentTitle(doc *goquery.Document) string {
	return collapse(doc.Find("head title").First().Text())
}
