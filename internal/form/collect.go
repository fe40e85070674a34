package form

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonathan/hired-always/internal/dom"
)

const controlSelector = "input, textarea, select"

// Collector produces field descriptors from a parsed page.
type Collector struct {
	logger *slog.Logger
}

// NewCollector returns a Collector. A nil logger uses slog.Default().
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{logger: logger}
}

// Collect walks the visible controls of doc in document order and returns one
// Field per control, with each radio group collapsed into a single Field.
//
// Collect annotates every control with a data-hired-ref attribute the first
// time it sees it and reuses existing annotations, so repeated calls on the
// same document return the same fields. It must not run concurrently with other
// readers of doc.
func (c *Collector) Collect(doc *goquery.Document) []Field {
	if doc == nil {
		return nil
	}
	assignRefs(doc)

	var controls []*goquery.Selection
	doc.Find(controlSelector).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if qualifies(n) && visible(n) {
			controls = append(controls, s)
		}
	})

	uniqueIDs := uniqueDocumentIDs(doc)
	explicit := make(map[string]bool)
	for _, s := range controls {
		if id := s.AttrOr("id", ""); uniqueIDs[id] {
			explicit[id] = true
		}
	}

	labels := newLabeler(doc)
	fields := make([]Field, 0, len(controls))
	groups := make(map[string]int)
	next := 0
	nextIndex := func() string {
		for explicit[strconv.Itoa(next)] {
			next++
		}
		id := strconv.Itoa(next)
		next++
		return id
	}
	fieldID := func(s *goquery.Selection) string {
		if id := s.AttrOr("id", ""); uniqueIDs[id] {
			return id
		}
		return nextIndex()
	}

	for _, s := range controls {
		n := s.Get(0)
		kind := kindOf(n)

		if kind == KindRadioGroup {
			name := strings.TrimSpace(s.AttrOr("name", ""))
			member := Member{
				Ref:     RefSelector(s.AttrOr(AttrRef, "")),
				Label:   labels.memberLabel(s),
				Value:   s.AttrOr("value", "on"),
				Checked: checked(n),
			}
			if name == "" {
				fields = append(fields, Field{
					ID:       fieldID(s),
					Kind:     KindRadioGroup,
					Label:    labels.label(s),
					Options:  appendOption(nil, member.Label, maxRadioOptions),
					Ref:      member.Ref,
					Members:  []Member{member},
					Disabled: disabled(s),
				})
				continue
			}
			if idx, ok := groups[name]; ok {
				f := &fields[idx]
				f.Members = append(f.Members, member)
				f.Options = appendOption(f.Options, member.Label, maxRadioOptions)
				continue
			}
			groups[name] = len(fields)
			fields = append(fields, Field{
				ID:       "radio:" + name,
				Kind:     KindRadioGroup,
				Label:    radioGroupLabel(s, name),
				Options:  appendOption(nil, member.Label, maxRadioOptions),
				Ref:      member.Ref,
				Members:  []Member{member},
				Disabled: disabled(s),
			})
			continue
		}

		_, readonly := s.Attr("readonly")
		f := Field{
			ID:        fieldID(s),
			Kind:      kind,
			Label:     labels.label(s),
			Ref:       RefSelector(s.AttrOr(AttrRef, "")),
			InputType: inputTypeOf(n),
			Checked:   kind == KindCheckbox && checked(n),
			Disabled:  disabled(s),
			ReadOnly:  readonly,
		}
		if kind == KindSelect {
			f.Choices = choices(s)
			for _, ch := range f.Choices {
				f.Options = appendOption(f.Options, ch.Text, maxSelectOptions)
			}
		}
		fields = append(fields, f)
	}

	c.logger.Debug("form: collected fields", "controls", len(controls), "fields", len(fields))
	return fields
}

// assignRefs gives every control without a ref the next free number, in
// document order.
func assignRefs(doc *goquery.Document) {
	controls := doc.Find(controlSelector)
	next := 0
	controls.Each(func(_ int, s *goquery.Selection) {
		if n, err := strconv.Atoi(s.AttrOr(AttrRef, "")); err == nil && n >= next {
			next = n + 1
		}
	})
	controls.Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr(AttrRef); ok {
			return
		}
		s.SetAttr(AttrRef, strconv.Itoa(next))
		next++
	})
}

// uniqueDocumentIDs returns the ids that occur exactly once in doc.
func uniqueDocumentIDs(doc *goquery.Document) map[string]bool {
	counts := make(map[string]int)
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id := s.AttrOr("id", ""); id != "" {
			counts[id]++
		}
	})
	unique := make(map[string]bool, len(counts))
	for id, n := range counts {
		if n == 1 {
			unique[id] = true
		}
	}
	return unique
}

func choices(sel *goquery.Selection) []Choice {
	var out []Choice
	sel.Find("option").Each(func(_ int, o *goquery.Selection) {
		text := dom.Collapse(o.Text())
		value, ok := o.Attr("value")
		if !ok {
			value = text
		}
		out = append(out, Choice{Text: text, Value: value})
	})
	return out
}

// appendOption adds opt unless it is empty, already present, or the list is full.
func appendOption(opts []string, opt string, max int) []string {
	if opt == "" || len(opts) >= max {
		return opts
	}
	for _, o := range opts {
		if o == opt {
			return opts
		}
	}
	return append(opts, opt)
}

func inputTypeOf(n *html.Node) string {
	if n.Data != "input" {
		return n.Data
	}
	return inputType(n)
}
