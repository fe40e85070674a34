package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Style parses an inline style attribute into lowercase property/value pairs.
// Later declarations override earlier ones.
func Style(n *html.Node) map[string]string {
	raw := Attr(n, "style")
	if raw == "" {
		return nil
	}
	props := make(map[string]string)
	for _, decl := range strings.Split(raw, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.ToLower(strings.TrimSpace(value))
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		if name != "" {
			props[name] = value
		}
	}
	return props
}

// Attr returns the named attribute of an element node, or "".
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the element carries the named attribute.
func HasAttr(n *html.Node, key string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// ownHidden reports whether the element itself removes its subtree from
// rendering through the hidden attribute or display:none.
func ownHidden(n *html.Node) bool {
	if HasAttr(n, "hidden") {
		return true
	}
	return Style(n)["display"] == "none"
}

// Hidden reports whether n would not be rendered according to its own markup
// and that of its ancestors. display:none and the hidden attribute hide the
// whole subtree. visibility is inherited, so the nearest element declaring it
// decides.
func Hidden(n *html.Node) bool {
	visibilityDecided := false
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if skipped[cur.DataAtom] || ownHidden(cur) {
			return true
		}
		if visibilityDecided {
			continue
		}
		switch Style(cur)["visibility"] {
		case "hidden", "collapse":
			return true
		case "visible":
			visibilityDecided = true
		}
	}
	return false
}

// ZeroBox reports whether the element's inline style gives it no width or no
// height.
func ZeroBox(n *html.Node) bool {
	style := Style(n)
	return isZero(style["width"]) || isZero(style["height"])
}

func isZero(v string) bool {
	switch v {
	case "0", "0px", "0em", "0rem", "0%":
		return true
	}
	return false
}
