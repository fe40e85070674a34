package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoControl means a ref no longer addresses a control in the page.
var ErrNoControl = errors.New("control not found")

// Snapshot is a parsed view of a page at one point in time.
type Snapshot struct {
	URL   string
	Title string
	Doc   *goquery.Document
}

// Event is a recorded page interaction.
type Event struct {
	Ref  string
	Type string
}

// DocumentPage is a Page over a parsed document. Writes mutate the markup so
// the filled form can be rendered back out; clicks and events are recorded.
type DocumentPage struct {
	doc *goquery.Document
	url string

	mu     sync.Mutex
	events []Event
}

// NewDocumentPage wraps doc, which was loaded from url.
func NewDocumentPage(doc *goquery.Document, url string) *DocumentPage {
	return &DocumentPage{doc: doc, url: url}
}

// Snapshot returns the document itself, so later snapshots see earlier writes.
func (p *DocumentPage) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Snapshot{
		URL:   p.url,
		Title: strings.TrimSpace(p.doc.Find("title").First().Text()),
		Doc:   p.doc,
	}, nil
}

func (p *DocumentPage) find(ctx context.Context, ref string) (*goquery.Selection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sel := p.doc.Find(ref).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoControl, ref)
	}
	return sel, nil
}

// SetValue writes value as the control's markup value. For a select the option
// whose value token matches becomes the only selected option.
func (p *DocumentPage) SetValue(ctx context.Context, ref, value string) error {
	sel, err := p.find(ctx, ref)
	if err != nil {
		return err
	}
	switch goquery.NodeName(sel) {
	case "textarea":
		sel.SetText(value)
	case "select":
		found := false
		sel.Find("option").Each(func(_ int, o *goquery.Selection) {
			v, ok := o.Attr("value")
			if !ok {
				v = o.Text()
			}
			if !found && v == value {
				o.SetAttr("selected", "selected")
				found = true
				return
			}
			o.RemoveAttr("selected")
		})
		if !found {
			return fmt.Errorf("select %s has no option %q", ref, value)
		}
	default:
		sel.SetAttr("value", value)
	}
	if _, ok := sel.Attr(AttrValue); ok {
		sel.SetAttr(AttrValue, value)
	}
	return nil
}

// Click toggles a checkbox or checks a radio button, unchecking the rest of its
// group.
func (p *DocumentPage) Click(ctx context.Context, ref string) error {
	sel, err := p.find(ctx, ref)
	if err != nil {
		return err
	}
	switch inputType(sel.Get(0)) {
	case "checkbox":
		setChecked(sel, !checked(sel.Get(0)))
	case "radio":
		if name := sel.AttrOr("name", ""); name != "" {
			p.doc.Find(`input[type="radio"]`).Each(func(_ int, r *goquery.Selection) {
				if r.AttrOr("name", "") == name {
					setChecked(r, false)
				}
			})
		}
		setChecked(sel, true)
	}
	p.record(ref, "click")
	return nil
}

// Dispatch records the event.
func (p *DocumentPage) Dispatch(ctx context.Context, ref, event string) error {
	if _, err := p.find(ctx, ref); err != nil {
		return err
	}
	p.record(ref, event)
	return nil
}

// Events returns the recorded interactions in order.
func (p *DocumentPage) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// HTML renders the document with the writes applied.
func (p *DocumentPage) HTML() (string, error) {
	return p.doc.Html()
}

func (p *DocumentPage) record(ref, event string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Event{Ref: ref, Type: event})
}

func setChecked(s *goquery.Selection, on bool) {
	if on {
		s.SetAttr("checked", "checked")
	} else {
		s.RemoveAttr("checked")
	}
	if _, ok := s.Attr(AttrChecked); ok {
		if on {
			s.SetAttr(AttrChecked, "1")
		} else {
			s.SetAttr(AttrChecked, "0")
		}
	}
}
