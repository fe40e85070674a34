package form

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonathan/hired-always/internal/dom"
)

const (
	maxContextLevels = 4
	maxContextRunes  = 200
	maxLabelHops     = 3
)

// labelAttrs are consulted in order after an explicit <label for>.
var labelAttrs = []string{"aria-label", "aria-labelledby", "placeholder", "name", "title"}

type labeler struct {
	doc *goquery.Document
	// labelsFor indexes <label for> elements by target id, first label wins.
	labelsFor map[string]*goquery.Selection
}

func newLabeler(doc *goquery.Document) *labeler {
	l := &labeler{doc: doc, labelsFor: make(map[string]*goquery.Selection)}
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		id := s.AttrOr("for", "")
		if _, ok := l.labelsFor[id]; !ok && id != "" {
			l.labelsFor[id] = s
		}
	})
	return l
}

// label resolves a control's prompt: explicit label, labelling attributes,
// ancestor label or legend, then the nearest enclosing text.
func (l *labeler) label(s *goquery.Selection) string {
	n := s.Get(0)
	if text := l.forLabel(n); text != "" {
		return text
	}
	for _, attr := range labelAttrs {
		if text := l.attrLabel(n, attr); text != "" {
			return text
		}
	}
	if text := l.ancestorLabel(s); text != "" {
		return text
	}
	return contextText(s)
}

func (l *labeler) forLabel(n *html.Node) string {
	id := dom.Attr(n, "id")
	if id == "" {
		return ""
	}
	if lbl, ok := l.labelsFor[id]; ok {
		return textWithoutControls(lbl)
	}
	return ""
}

func (l *labeler) attrLabel(n *html.Node, attr string) string {
	raw := dom.Collapse(dom.Attr(n, attr))
	if raw == "" || attr != "aria-labelledby" {
		return raw
	}
	var parts []string
	for _, id := range strings.Fields(raw) {
		ref := l.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.AttrOr("id", "") == id
		}).First()
		if text := dom.Line(ref); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func (l *labeler) ancestorLabel(s *goquery.Selection) string {
	if lbl := s.Closest("label"); lbl.Length() > 0 {
		if text := textWithoutControls(lbl); text != "" {
			return text
		}
	}
	if fs := s.Closest("fieldset"); fs.Length() > 0 {
		return dom.Line(fs.ChildrenFiltered("legend").First())
	}
	return ""
}

// contextText climbs a few levels and takes the first ancestor with text of its
// own once the control's subtree is removed.
func contextText(s *goquery.Selection) string {
	self := s.Get(0)
	cur := s.Parent()
	for i := 0; i < maxContextLevels && cur.Length() > 0; i++ {
		text := dom.Collapse(dom.TextWithout(cur, func(n *html.Node) bool {
			return n == self || isControl(n)
		}))
		if text != "" {
			return truncate(text, maxContextRunes)
		}
		cur = cur.Parent()
	}
	return ""
}

// radioGroupLabel names a radio group from its legend, an ARIA radiogroup, or
// the group name.
func radioGroupLabel(s *goquery.Selection, name string) string {
	if fs := s.Closest("fieldset"); fs.Length() > 0 {
		if text := dom.Line(fs.ChildrenFiltered("legend").First()); text != "" {
			return text
		}
	}
	if group := s.Closest(`[role="radiogroup"]`); group.Length() > 0 {
		if text := dom.Collapse(group.AttrOr("aria-label", "")); text != "" {
			return text
		}
	}
	return name
}

// memberLabel labels one radio button: label for, wrapping label within a few
// hops, aria-label, then the value.
func (l *labeler) memberLabel(s *goquery.Selection) string {
	n := s.Get(0)
	if text := l.forLabel(n); text != "" {
		return text
	}
	p := s.Parent()
	for hops := 0; hops < maxLabelHops && p.Length() > 0; hops++ {
		if goquery.NodeName(p) == "label" {
			if text := textWithoutControls(p); text != "" {
				return text
			}
			break
		}
		p = p.Parent()
	}
	if text := dom.Collapse(s.AttrOr("aria-label", "")); text != "" {
		return text
	}
	return strings.TrimSpace(s.AttrOr("value", ""))
}

func textWithoutControls(s *goquery.Selection) string {
	return dom.Collapse(dom.TextWithout(s, isControl))
}

func isControl(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.Data == "select" || n.Data == "textarea")
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
