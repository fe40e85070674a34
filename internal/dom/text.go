// Package dom holds the low-level node helpers shared by the form collector and
// the job extractor: rendered-text extraction and static visibility checks.
package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipped subtrees never contribute rendered text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
	atom.Title:    true,
}

var blocks = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Body: true, atom.Dd: true, atom.Details: true, atom.Div: true, atom.Dl: true,
	atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true,
	atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true,
	atom.Legend: true, atom.Li: true, atom.Main: true, atom.Nav: true, atom.Ol: true,
	atom.Option: true, atom.P: true, atom.Pre: true, atom.Section: true,
	atom.Summary: true, atom.Table: true, atom.Tr: true, atom.Td: true,
	atom.Th: true, atom.Ul: true, atom.Html: true,
}

// Text returns the rendered text of the selection the way a browser's innerText
// would: script, style and hidden subtrees are skipped, block elements break
// lines, and each line is whitespace-collapsed with blank lines dropped.
func Text(s *goquery.Selection) string {
	return TextWithout(s, nil)
}

// TextWithout is Text with an extra predicate naming subtrees to leave out.
func TextWithout(s *goquery.Selection, skip func(*html.Node) bool) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	for _, n := range s.Nodes {
		walk(&b, n, skip)
		b.WriteByte('\n')
	}
	return lines(b.String())
}

// Line returns Text collapsed onto a single line.
func Line(s *goquery.Selection) string {
	return Collapse(Text(s))
}

// Collapse folds every whitespace run into one space and trims the result.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func walk(b *strings.Builder, n *html.Node, skip func(*html.Node) bool) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipped[n.DataAtom] || ownHidden(n) || (skip != nil && skip(n)) {
			return
		}
		if n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
	case html.DocumentNode:
	default:
		return
	}

	block := n.Type == html.ElementNode && blocks[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(b, c, skip)
	}
	if block {
		b.WriteByte('\n')
	}
}

func lines(raw string) string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line = Collapse(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
