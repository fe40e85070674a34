package form

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonathan/hired-always/internal/dom"
)

// excludedInputTypes are inputs that never take an answer.
var excludedInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"button": true,
	"reset":  true,
	"image":  true,
}

// qualifies reports whether the node is an answerable control.
func qualifies(n *html.Node) bool {
	switch n.Data {
	case "textarea", "select":
		return true
	case "input":
		return !excludedInputTypes[inputType(n)]
	}
	return false
}

// visible uses the browser's annotation when present. Without it the markup is
// judged: hidden/display:none/visibility on the control or its ancestors, and
// inline zero-size boxes.
func visible(n *html.Node) bool {
	if dom.HasAttr(n, AttrVisible) {
		return dom.Attr(n, AttrVisible) == "1"
	}
	return !dom.Hidden(n) && !dom.ZeroBox(n)
}

func inputType(n *html.Node) string {
	t := strings.ToLower(strings.TrimSpace(dom.Attr(n, "type")))
	if t == "" {
		return "text"
	}
	return t
}

// kindOf maps a control to its field kind.
func kindOf(n *html.Node) Kind {
	switch n.Data {
	case "textarea":
		return KindTextarea
	case "select":
		return KindSelect
	}
	switch inputType(n) {
	case "text", "email", "tel", "url", "number", "search", "password":
		return KindText
	case "date":
		return KindDate
	case "checkbox":
		return KindCheckbox
	case "radio":
		return KindRadioGroup
	}
	return KindOther
}

// disabled covers the control's own flag and a disabled enclosing fieldset.
func disabled(s *goquery.Selection) bool {
	if _, ok := s.Attr("disabled"); ok {
		return true
	}
	return s.ParentsFiltered("fieldset[disabled]").Length() > 0
}

// checked prefers the browser's live state over the markup default.
func checked(n *html.Node) bool {
	if dom.HasAttr(n, AttrChecked) {
		return dom.Attr(n, AttrChecked) == "1"
	}
	return dom.HasAttr(n, "checked")
}
