package form

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const writerForm = `<form>
	<input id="name" name="name">
	<textarea id="why" name="why"></textarea>
	<input id="start" type="date">
	<select id="auth" aria-label="Authorized">
		<option value="">Select...</option>
		<option value="yes_sponsor">Yes, with sponsorship</option>
		<option value="yes">Yes</option>
		<option value="no">No</option>
	</select>
	<input type="checkbox" id="terms">
	<label><input type="radio" name="remote" value="onsite"> On-site</label>
	<label><input type="radio" name="remote" value="remote" checked> Remote</label>
	<input id="locked" disabled>
</form>`

func collectByID(t *testing.T, src string) (*DocumentPage, map[string]Field) {
	t.Helper()
	doc := parseHTML(t, src)
	fields := NewCollector(nil).Collect(doc)
	byID := make(map[string]Field, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}
	return NewDocumentPage(doc, "https://example.com/apply"), byID
}

func eventTypes(events []Event) []string {
	var out []string
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestApply_Text(t *testing.T) {
	page, fields := collectByID(t, writerForm)
	w := NewWriter(nil)

	ok, err := w.Apply(context.Background(), page, fields["name"], "Jane Doe")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = w.Apply(context.Background(), page, fields["why"], "Because")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{"input", "change", "input", "change"}, eventTypes(page.Events()))
	html, err := page.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `value="Jane Doe"`)
	assert.Contains(t, html, `>Because</textarea>`)
}

func TestApply_TextFiresEventsEvenWhenUnchanged(t *testing.T) {
	page, fields := collectByID(t, `<input id="a" value="same">`)

	ok, err := NewWriter(nil).Apply(context.Background(), page, fields["a"], "same")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"input", "change"}, eventTypes(page.Events()))
}

func TestApply_Date(t *testing.T) {
	page, fields := collectByID(t, writerForm)
	w := NewWriter(nil)

	ok, err := w.Apply(context.Background(), page, fields["start"], "March 1, 2024")
	require.NoError(t, err)
	assert.True(t, ok)
	html, _ := page.HTML()
	assert.Contains(t, html, `value="2024-03-01"`)

	ok, err = w.Apply(context.Background(), page, fields["start"], "whenever")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, page.Events(), 2)
}

func TestApply_SelectExactOptionRoundTrip(t *testing.T) {
	for _, opt := range []string{"Yes, with sponsorship", "Yes", "No"} {
		t.Run(opt, func(t *testing.T) {
			page, fields := collectByID(t, writerForm)

			ok, err := NewWriter(nil).Apply(context.Background(), page, fields["auth"], opt)
			require.NoError(t, err)
			assert.True(t, ok)

			selected := page.doc.Find("#auth option[selected]")
			require.Equal(t, 1, selected.Length())
			assert.Equal(t, opt, selected.Text())
			assert.Equal(t, []string{"input", "change"}, eventTypes(page.Events()))
		})
	}
}

func TestApply_SelectNoMatchFiresNothing(t *testing.T) {
	page, fields := collectByID(t, writerForm)

	ok, err := NewWriter(nil).Apply(context.Background(), page, fields["auth"], "Maybe later")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, page.Events())
}

func TestApply_Checkbox(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		answer  string
		filled  bool
		checked bool
		events  []string
	}{
		{"check unchecked box", `<input type="checkbox" id="c">`, "yes", true, true, []string{"click", "change"}},
		{"already checked", `<input type="checkbox" id="c" checked>`, "true", true, true, []string{"change"}},
		{"uncheck", `<input type="checkbox" id="c" checked>`, "no", true, false, []string{"click", "change"}},
		{"rejected answer", `<input type="checkbox" id="c">`, "maybe", false, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, fields := collectByID(t, tt.html)

			ok, err := NewWriter(nil).Apply(context.Background(), page, fields["c"], tt.answer)
			require.NoError(t, err)
			assert.Equal(t, tt.filled, ok)
			_, isChecked := page.doc.Find("#c").Attr("checked")
			assert.Equal(t, tt.checked, isChecked)
			assert.Equal(t, tt.events, eventTypes(page.Events()))
		})
	}
}

func TestApply_RadioGroup(t *testing.T) {
	page, fields := collectByID(t, writerForm)
	group := fields["radio:remote"]
	require.Len(t, group.Members, 2)

	ok, err := NewWriter(nil).Apply(context.Background(), page, group, "on-site")
	require.NoError(t, err)
	assert.True(t, ok)

	_, onsite := page.doc.Find(`input[value="onsite"]`).Attr("checked")
	_, remote := page.doc.Find(`input[value="remote"]`).Attr("checked")
	assert.True(t, onsite)
	assert.False(t, remote)
	assert.Equal(t, []Event{
		{Ref: group.Members[0].Ref, Type: "click"},
		{Ref: group.Members[0].Ref, Type: "change"},
	}, page.Events())
}

func TestApply_RadioGroupNoMatch(t *testing.T) {
	page, fields := collectByID(t, writerForm)

	ok, err := NewWriter(nil).Apply(context.Background(), page, fields["radio:remote"], "hybrid")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, page.Events())
}

func TestApply_LockedAndOtherFields(t *testing.T) {
	page, fields := collectByID(t, writerForm+`<input type="file" id="resume">`)
	w := NewWriter(nil)

	ok, err := w.Apply(context.Background(), page, fields["locked"], "x")
	require.NoError(t, err)
	assert.False(t, ok)

	require.Equal(t, KindOther, fields["resume"].Kind)
	ok, err = w.Apply(context.Background(), page, fields["resume"], "cv.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Empty(t, page.Events())
}

func TestApply_WriteFailures(t *testing.T) {
	page, fields := collectByID(t, writerForm)
	w := NewWriter(nil)

	detached := fields["name"]
	detached.Ref = RefSelector("999")
	ok, err := w.Apply(context.Background(), page, detached, "Jane")
	assert.False(t, ok)
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "name", writeErr.FieldID)
	assert.ErrorIs(t, err, ErrNoControl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err = w.Apply(ctx, page, fields["name"], "Jane")
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

type failingPage struct {
	DocumentPage
	failOn string
}

func (p *failingPage) Dispatch(_ context.Context, _, event string) error {
	if event == p.failOn {
		return errors.New("listener threw")
	}
	return nil
}

func (p *failingPage) SetValue(context.Context, string, string) error { return nil }

func TestApply_EventFailureIsReported(t *testing.T) {
	_, fields := collectByID(t, writerForm)

	ok, err := NewWriter(nil).Apply(context.Background(), &failingPage{failOn: "change"}, fields["name"], "Jane")

	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "change event")
}
